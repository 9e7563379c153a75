package update_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/smartwash/CW-SlotBookingService/internal/api/handlers"
	"github.com/smartwash/CW-SlotBookingService/internal/service/slots"
	"github.com/smartwash/CW-SlotBookingService/internal/service/slots/models"
)

const (
	msgInvalidRequestBody = "Invalid request body"
	msgInvalidSlotID      = "Invalid slot id"
	msgInvalidInput       = "Invalid slot data: capacity must be between 1 and 100, times must be HH:MM with end after start"
	msgSlotNotFound       = "Slot not found"
	msgSlotHasBookings    = "Cannot modify slot with existing bookings"
)

// UpdateSlotRequest HTTP запрос на изменение слота
type UpdateSlotRequest struct {
	StartTime   string `json:"startTime"` // HH:MM
	EndTime     string `json:"endTime"`   // HH:MM
	MaxCapacity int    `json:"maxCapacity"`
}

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

// Handle PUT /api/v1/slots/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /slots/{slotId} - Invalid slot id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req UpdateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /slots/%d - Invalid request body: %v", slotID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateSlot(r.Context(), &models.UpdateSlotRequest{
		SlotID:      slotID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		MaxCapacity: req.MaxCapacity,
	})
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("PUT /slots/%d - Validation failed: %v", slotID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("PUT /slots/%d - Slot not found", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, slots.ErrSlotHasBookings):
			h.logger.Warn("PUT /slots/%d - Slot has bookings, update rejected", slotID)
			handlers.RespondConflict(w, msgSlotHasBookings)

		default:
			h.logger.Error("PUT /slots/%d - Failed to update slot: %v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /slots/%d - Slot updated: version=%d", slotID, result.Version)
	handlers.RespondJSON(w, http.StatusOK, result)
}
