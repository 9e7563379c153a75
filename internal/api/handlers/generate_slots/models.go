package generate_slots

import (
	"time"

	"github.com/smartwash/CW-SlotBookingService/internal/domain"
	"github.com/smartwash/CW-SlotBookingService/internal/service/slots/models"
)

// GenerateSlotsRequest HTTP запрос на генерацию слотов
type GenerateSlotsRequest struct {
	ServiceID int64  `json:"serviceId"`
	StartDate string `json:"startDate"` // YYYY-MM-DD
	EndDate   string `json:"endDate"`   // YYYY-MM-DD
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса с парсингом дат
func (r *GenerateSlotsRequest) ToServiceRequest() (*models.GenerateSlotsRequest, error) {
	startDate, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return nil, err
	}

	endDate, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return nil, err
	}

	return &models.GenerateSlotsRequest{
		ServiceID: r.ServiceID,
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}
