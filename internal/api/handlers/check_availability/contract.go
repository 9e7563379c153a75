package check_availability

import (
	"context"

	getAvailability "github.com/smartwash/CW-SlotBookingService/internal/usecase/get_availability"
)

type AvailabilityUseCase interface {
	CheckSlotAvailability(ctx context.Context, slotID int64, quantity int) (*getAvailability.CheckAvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
