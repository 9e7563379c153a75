package domain

import (
	"time"

	"github.com/smartwash/CW-SlotBookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus represents the payment lifecycle, independent of the booking status
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Booking represents a committed reservation against a slot.
// ScheduledDate and ScheduledTime are copied from the slot at creation time
// and never change independently afterwards.
type Booking struct {
	ID        int64
	Reference string // human-readable reference, e.g. "CW2401157342"
	UserID    int64
	ServiceID int64
	SlotID    int64
	AddressID *int64

	VehicleType   string
	ScheduledDate time.Time
	ScheduledTime types.TimeString

	Status        BookingStatus
	PaymentStatus PaymentStatus

	// Monetary breakdown: TotalAmount = Subtotal - DiscountAmount + TaxAmount
	Subtotal       float64
	DiscountAmount float64
	TaxAmount      float64
	TotalAmount    float64

	AppliedOfferCode *string
	Notes            *string

	CreatedAt   time.Time
	UpdatedAt   *time.Time
	CompletedAt *time.Time
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// IsTerminal returns true if the booking reached a final state.
// Terminal bookings reject further status changes from this service.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled
}

// IsActive returns true if the booking still holds capacity on its slot
func (b *Booking) IsActive() bool {
	return b.Status != BookingStatusCancelled
}
