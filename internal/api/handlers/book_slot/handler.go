package book_slot

import (
	"errors"
	"net/http"

	"github.com/smartwash/CW-SlotBookingService/internal/api/handlers"
	"github.com/smartwash/CW-SlotBookingService/internal/api/middleware"
	bookSlot "github.com/smartwash/CW-SlotBookingService/internal/usecase/book_slot"
)

const (
	msgInvalidRequestBody  = "Invalid request body"
	msgInvalidInput        = "Invalid booking data. Check ids and monetary amounts"
	msgSlotNotFound        = "Slot not found"
	msgSlotFull            = "Slot is full"
	msgSlotJustBooked      = "Slot was just booked by another user"
	msgAvailabilityChanged = "Please try again. Slot availability changed"
	msgUnauthorized        = "User identity is required"
)

type Handler struct {
	useCase BookSlotUseCase
	logger  Logger
}

func NewHandler(useCase BookSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req BookSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, bookSlot.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Validation failed: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, bookSlot.ErrSlotNotFound):
			h.logger.Warn("POST /bookings - Slot not found: user_id=%d, slot_id=%d", userID, req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, bookSlot.ErrSlotFull):
			h.logger.Warn("POST /bookings - Slot full: user_id=%d, slot_id=%d", userID, req.SlotID)
			handlers.RespondConflict(w, msgSlotFull)

		case errors.Is(err, bookSlot.ErrSlotJustBooked):
			h.logger.Warn("POST /bookings - Slot just booked: user_id=%d, slot_id=%d", userID, req.SlotID)
			handlers.RespondConflict(w, msgSlotJustBooked)

		case errors.Is(err, bookSlot.ErrAvailabilityChanged):
			h.logger.Warn("POST /bookings - Availability changed: user_id=%d, slot_id=%d", userID, req.SlotID)
			handlers.RespondConflict(w, msgAvailabilityChanged)

		default:
			h.logger.Error("POST /bookings - Failed to book slot: user_id=%d, slot_id=%d, error=%v",
				userID, req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, reference=%s, user_id=%d",
		result.BookingID, result.Reference, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
