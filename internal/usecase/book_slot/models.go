package book_slot

// Request запрос на бронирование слота
type Request struct {
	UserID    int64
	SlotID    int64
	ServiceID int64
	AddressID *int64

	VehicleType string

	// Денежная разбивка: total = subtotal - discount + tax
	Subtotal       float64
	DiscountAmount float64
	TaxAmount      float64
	TotalAmount    float64

	AppliedOfferCode *string
	Notes            *string
}

// Response результат успешного бронирования
type Response struct {
	BookingID     int64   `json:"bookingId"`
	Reference     string  `json:"reference"`
	SlotID        int64   `json:"slotId"`
	ScheduledDate string  `json:"scheduledDate"` // YYYY-MM-DD
	ScheduledTime string  `json:"scheduledTime"` // HH:MM
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`
	TotalAmount   float64 `json:"totalAmount"`
}
