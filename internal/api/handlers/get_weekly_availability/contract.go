package get_weekly_availability

import (
	"context"
	"time"

	getAvailability "github.com/smartwash/CW-SlotBookingService/internal/usecase/get_availability"
)

type AvailabilityUseCase interface {
	GetWeeklyAvailability(ctx context.Context, startDate time.Time, serviceID int64) (*getAvailability.WeeklyAvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
