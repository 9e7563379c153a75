package models

import (
	"time"

	"github.com/smartwash/CW-SlotBookingService/internal/domain"
)

// CreateSlotRequest запрос на создание слота
type CreateSlotRequest struct {
	ServiceID   int64
	Date        time.Time
	StartTime   string // HH:MM
	EndTime     string // HH:MM
	MaxCapacity int
}

// UpdateSlotRequest запрос на изменение слота
type UpdateSlotRequest struct {
	SlotID      int64
	StartTime   string // HH:MM
	EndTime     string // HH:MM
	MaxCapacity int
}

// GenerateSlotsRequest запрос на генерацию слотов по диапазону дат включительно
type GenerateSlotsRequest struct {
	ServiceID int64
	StartDate time.Time
	EndDate   time.Time
}

// SlotResponse представление слота для внешнего слоя
type SlotResponse struct {
	ID              int64  `json:"id"`
	ServiceID       int64  `json:"serviceId"`
	ServiceName     string `json:"serviceName,omitempty"`
	ServiceCategory string `json:"serviceCategory,omitempty"`
	Date            string `json:"date"`      // YYYY-MM-DD
	StartTime       string `json:"startTime"` // HH:MM
	EndTime         string `json:"endTime"`   // HH:MM
	MaxCapacity     int    `json:"maxCapacity"`
	CurrentBookings int    `json:"currentBookings"`
	AvailableCount  int    `json:"availableCount"`
	IsActive        bool   `json:"isActive"`
	Version         int64  `json:"version"`
	Status          string `json:"status"`
}

// SlotListResponse список слотов
type SlotListResponse struct {
	Slots []*SlotResponse `json:"slots"`
	Total int             `json:"total"`
}

// GenerateSlotsResponse результат генерации: только действительно новые слоты
type GenerateSlotsResponse struct {
	Created []*SlotResponse `json:"created"`
	Total   int             `json:"total"`
}

// FromDomainSlot конвертирует доменный слот в response-модель
func FromDomainSlot(s *domain.Slot) *SlotResponse {
	return &SlotResponse{
		ID:              s.ID,
		ServiceID:       s.ServiceID,
		Date:            s.Date.Format(domain.DateFormat),
		StartTime:       s.StartTime.String(),
		EndTime:         s.EndTime.String(),
		MaxCapacity:     s.MaxCapacity,
		CurrentBookings: s.CurrentBookings,
		AvailableCount:  s.AvailableCount(),
		IsActive:        s.IsActive,
		Version:         s.Version,
		Status:          string(s.Status()),
	}
}

// FromDomainSlotList конвертирует список доменных слотов
func FromDomainSlotList(slots []*domain.Slot) *SlotListResponse {
	out := make([]*SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, FromDomainSlot(s))
	}
	return &SlotListResponse{Slots: out, Total: len(out)}
}
