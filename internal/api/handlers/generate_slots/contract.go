package generate_slots

import (
	"context"

	"github.com/smartwash/CW-SlotBookingService/internal/service/slots/models"
)

type SlotService interface {
	GenerateSlots(ctx context.Context, req *models.GenerateSlotsRequest) (*models.GenerateSlotsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
