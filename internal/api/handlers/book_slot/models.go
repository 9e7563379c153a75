package book_slot

import (
	bookSlot "github.com/smartwash/CW-SlotBookingService/internal/usecase/book_slot"
)

// BookSlotRequest HTTP запрос на бронирование слота.
// Идентификатор пользователя берется из контекста, не из тела.
type BookSlotRequest struct {
	SlotID    int64  `json:"slotId"`
	ServiceID int64  `json:"serviceId"`
	AddressID *int64 `json:"addressId,omitempty"`

	VehicleType string `json:"vehicleType,omitempty"`

	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount,omitempty"`
	TaxAmount      float64 `json:"taxAmount,omitempty"`
	TotalAmount    float64 `json:"totalAmount"`

	AppliedOfferCode *string `json:"appliedOfferCode,omitempty"`
	Notes            *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookSlotRequest) ToUseCaseRequest(userID int64) *bookSlot.Request {
	return &bookSlot.Request{
		UserID:           userID,
		SlotID:           r.SlotID,
		ServiceID:        r.ServiceID,
		AddressID:        r.AddressID,
		VehicleType:      r.VehicleType,
		Subtotal:         r.Subtotal,
		DiscountAmount:   r.DiscountAmount,
		TaxAmount:        r.TaxAmount,
		TotalAmount:      r.TotalAmount,
		AppliedOfferCode: r.AppliedOfferCode,
		Notes:            r.Notes,
	}
}
