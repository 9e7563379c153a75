package get_slot_availability

import (
	"context"
	"time"

	getAvailability "github.com/smartwash/CW-SlotBookingService/internal/usecase/get_availability"
)

type AvailabilityUseCase interface {
	GetDayAvailability(ctx context.Context, date time.Time, serviceID int64) (*getAvailability.DayAvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
