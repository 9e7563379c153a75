package create_slot

import (
	"errors"
	"net/http"

	"github.com/smartwash/CW-SlotBookingService/internal/api/handlers"
	"github.com/smartwash/CW-SlotBookingService/internal/service/slots"
)

const (
	msgInvalidRequestBody = "Invalid request body"
	msgInvalidDate        = "Invalid date format. Use YYYY-MM-DD"
	msgInvalidInput       = "Invalid slot data: capacity must be between 1 and 100, times must be HH:MM with end after start"
	msgDuplicateSlot      = "Slot already exists for this service, date and start time"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /slots - Invalid date %q: %v", req.Date, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.CreateSlot(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("POST /slots - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, slots.ErrDuplicateSlot):
			h.logger.Warn("POST /slots - Duplicate slot: service_id=%d, date=%s, start=%s",
				req.ServiceID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgDuplicateSlot)

		default:
			h.logger.Error("POST /slots - Failed to create slot: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots - Slot created: slot_id=%d, service_id=%d", result.ID, result.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
