package cancel_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/smartwash/CW-SlotBookingService/internal/api/handlers"
	"github.com/smartwash/CW-SlotBookingService/internal/api/middleware"
	cancelBooking "github.com/smartwash/CW-SlotBookingService/internal/usecase/cancel_booking"
)

const (
	msgInvalidBookingID = "Invalid booking id"
	msgBookingNotFound  = "Booking not found"
	msgAccessDenied     = "Booking belongs to another user"
	msgCannotCancel     = "Booking cannot be cancelled"
	msgUnauthorized     = "User identity is required"
)

// CancelBookingResponse тело успешного ответа
type CancelBookingResponse struct {
	BookingID int64  `json:"bookingId"`
	Status    string `json:"status"`
}

type Handler struct {
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{bookingId}/cancel - Invalid booking id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	if err := h.useCase.Execute(r.Context(), bookingID, userID); err != nil {
		switch {
		case errors.Is(err, cancelBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidBookingID)

		case errors.Is(err, cancelBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/%d/cancel - Booking not found: user_id=%d", bookingID, userID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, cancelBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings/%d/cancel - Access denied: user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, cancelBooking.ErrCannotCancel):
			h.logger.Warn("POST /bookings/%d/cancel - Cannot cancel: user_id=%d", bookingID, userID)
			handlers.RespondConflict(w, msgCannotCancel)

		default:
			h.logger.Error("POST /bookings/%d/cancel - Failed: user_id=%d, error=%v", bookingID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/%d/cancel - Booking cancelled: user_id=%d", bookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, CancelBookingResponse{
		BookingID: bookingID,
		Status:    "cancelled",
	})
}
