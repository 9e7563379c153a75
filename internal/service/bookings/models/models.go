package models

import (
	"time"

	"github.com/smartwash/CW-SlotBookingService/internal/domain"
)

// BookingResponse представление бронирования для внешнего слоя
type BookingResponse struct {
	ID            int64   `json:"id"`
	Reference     string  `json:"reference"`
	UserID        int64   `json:"userId"`
	ServiceID     int64   `json:"serviceId"`
	SlotID        int64   `json:"slotId"`
	AddressID     *int64  `json:"addressId,omitempty"`
	VehicleType   string  `json:"vehicleType"`
	ScheduledDate string  `json:"scheduledDate"` // YYYY-MM-DD
	ScheduledTime string  `json:"scheduledTime"` // HH:MM
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`
	Subtotal      float64 `json:"subtotal"`
	Discount      float64 `json:"discountAmount"`
	Tax           float64 `json:"taxAmount"`
	TotalAmount   float64 `json:"totalAmount"`
	OfferCode     *string `json:"appliedOfferCode,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     *string `json:"updatedAt,omitempty"`
	CompletedAt   *string `json:"completedAt,omitempty"`
}

// FromDomainBooking конвертирует доменное бронирование в response-модель
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:            b.ID,
		Reference:     b.Reference,
		UserID:        b.UserID,
		ServiceID:     b.ServiceID,
		SlotID:        b.SlotID,
		AddressID:     b.AddressID,
		VehicleType:   b.VehicleType,
		ScheduledDate: b.ScheduledDate.Format(domain.DateFormat),
		ScheduledTime: b.ScheduledTime.String(),
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		Subtotal:      b.Subtotal,
		Discount:      b.DiscountAmount,
		Tax:           b.TaxAmount,
		TotalAmount:   b.TotalAmount,
		OfferCode:     b.AppliedOfferCode,
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     formatOptional(b.UpdatedAt),
		CompletedAt:   formatOptional(b.CompletedAt),
	}
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
