package get_slot_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/smartwash/CW-SlotBookingService/internal/api/handlers"
	"github.com/smartwash/CW-SlotBookingService/internal/domain"
	getAvailability "github.com/smartwash/CW-SlotBookingService/internal/usecase/get_availability"
)

const (
	msgInvalidServiceID = "Invalid or missing serviceId parameter"
	msgInvalidDate      = "Invalid date format. Use YYYY-MM-DD"
	msgServiceNotFound  = "Service not found"
)

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

// Handle GET /api/v1/slots/availability?serviceId=&date=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID, err := strconv.ParseInt(r.URL.Query().Get("serviceId"), 10, 64)
	if err != nil {
		h.logger.Warn("GET /slots/availability - Invalid serviceId: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /slots/availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.GetDayAvailability(r.Context(), date, serviceID)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidServiceID)

		case errors.Is(err, getAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /slots/availability - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		default:
			h.logger.Error("GET /slots/availability - Failed: service_id=%d, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
