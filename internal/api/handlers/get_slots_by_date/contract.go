package get_slots_by_date

import (
	"context"
	"time"

	"github.com/smartwash/CW-SlotBookingService/internal/service/slots/models"
)

type SlotService interface {
	GetSlotsByDateAndService(ctx context.Context, date time.Time, serviceID int64) (*models.SlotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
