package events

// Routing keys событий бронирований
const (
	KeyBookingCreated   = "booking.created"
	KeyBookingCancelled = "booking.cancelled"
)

// BookingCreated событие успешно созданного бронирования
type BookingCreated struct {
	BookingID     int64   `json:"bookingId"`
	Reference     string  `json:"reference"`
	UserID        int64   `json:"userId"`
	ServiceID     int64   `json:"serviceId"`
	SlotID        int64   `json:"slotId"`
	ScheduledDate string  `json:"scheduledDate"` // YYYY-MM-DD
	ScheduledTime string  `json:"scheduledTime"` // HH:MM
	TotalAmount   float64 `json:"totalAmount"`
}

// BookingCancelled событие отмененного бронирования
type BookingCancelled struct {
	BookingID     int64  `json:"bookingId"`
	Reference     string `json:"reference"`
	UserID        int64  `json:"userId"`
	ServiceID     int64  `json:"serviceId"`
	SlotID        int64  `json:"slotId"`
	ScheduledDate string `json:"scheduledDate"`
	ScheduledTime string `json:"scheduledTime"`
}
