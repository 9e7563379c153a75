package delete_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/smartwash/CW-SlotBookingService/internal/api/handlers"
	"github.com/smartwash/CW-SlotBookingService/internal/service/slots"
)

const (
	msgInvalidSlotID   = "Invalid slot id"
	msgSlotNotFound    = "Slot not found"
	msgSlotHasBookings = "Cannot delete slot with existing bookings"
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

// Handle DELETE /api/v1/slots/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /slots/{slotId} - Invalid slot id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	if err := h.service.DeleteSlot(r.Context(), slotID); err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("DELETE /slots/%d - Validation failed: %v", slotID, err)
			handlers.RespondBadRequest(w, msgInvalidSlotID)

		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("DELETE /slots/%d - Slot not found", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, slots.ErrSlotHasBookings):
			h.logger.Warn("DELETE /slots/%d - Slot has bookings, delete rejected", slotID)
			handlers.RespondConflict(w, msgSlotHasBookings)

		default:
			h.logger.Error("DELETE /slots/%d - Failed to delete slot: %v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /slots/%d - Slot deleted", slotID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
