package generate_slots

import (
	"errors"
	"net/http"

	"github.com/smartwash/CW-SlotBookingService/internal/api/handlers"
	"github.com/smartwash/CW-SlotBookingService/internal/service/slots"
)

const (
	msgInvalidRequestBody = "Invalid request body"
	msgInvalidDates       = "Invalid date range. Use YYYY-MM-DD with endDate not before startDate"
	msgServiceNotFound    = "Service not found"
	msgConcurrentRun      = "Slot generation is already in progress for this service. Try again"
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

// Handle POST /api/v1/slots/generate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req GenerateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots/generate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /slots/generate - Invalid dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	result, err := h.service.GenerateSlots(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("POST /slots/generate - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDates)

		case errors.Is(err, slots.ErrServiceNotFound):
			h.logger.Warn("POST /slots/generate - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, slots.ErrDuplicateSlot):
			h.logger.Warn("POST /slots/generate - Concurrent generation detected: service_id=%d", req.ServiceID)
			handlers.RespondConflict(w, msgConcurrentRun)

		default:
			h.logger.Error("POST /slots/generate - Failed: service_id=%d, error=%v", req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/generate - Generated %d slots: service_id=%d", result.Total, req.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
