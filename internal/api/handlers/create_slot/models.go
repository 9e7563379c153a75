package create_slot

import (
	"time"

	"github.com/smartwash/CW-SlotBookingService/internal/domain"
	"github.com/smartwash/CW-SlotBookingService/internal/service/slots/models"
)

// CreateSlotRequest HTTP запрос на создание слота
type CreateSlotRequest struct {
	ServiceID   int64  `json:"serviceId"`
	Date        string `json:"date"`      // YYYY-MM-DD
	StartTime   string `json:"startTime"` // HH:MM
	EndTime     string `json:"endTime"`   // HH:MM
	MaxCapacity int    `json:"maxCapacity"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса с парсингом даты
func (r *CreateSlotRequest) ToServiceRequest() (*models.CreateSlotRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &models.CreateSlotRequest{
		ServiceID:   r.ServiceID,
		Date:        date,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		MaxCapacity: r.MaxCapacity,
	}, nil
}
