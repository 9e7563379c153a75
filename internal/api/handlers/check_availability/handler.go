package check_availability

import (
	"errors"
	"net/http"

	"github.com/smartwash/CW-SlotBookingService/internal/api/handlers"
	getAvailability "github.com/smartwash/CW-SlotBookingService/internal/usecase/get_availability"
)

const (
	msgInvalidRequestBody = "Invalid request body"
	msgInvalidInput       = "Slot id must be positive and quantity must be at least 1"
)

// CheckAvailabilityRequest HTTP запрос точечной проверки доступности.
// Quantity по умолчанию равен 1.
type CheckAvailabilityRequest struct {
	SlotID   int64 `json:"slotId"`
	Quantity int   `json:"quantity"`
}

type Handler struct {
	useCase AvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase AvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots/check-availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CheckAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots/check-availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.CheckSlotAvailability(r.Context(), req.SlotID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("POST /slots/check-availability - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /slots/check-availability - Failed: slot_id=%d, error=%v", req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
