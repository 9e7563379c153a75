package catalogservice

// Service модель услуги из каталога
type Service struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Category           string   `json:"category"`
	Price              float64  `json:"price"`
	DiscountedPrice    *float64 `json:"discountedPrice,omitempty"`
	DurationMinutes    int      `json:"durationMinutes"`
	MaxBookingsPerSlot int      `json:"maxBookingsPerSlot"`
	IsActive           bool     `json:"isActive"`
}

// EffectivePrice возвращает действующую цену услуги:
// цену со скидкой, если она задана, иначе базовую
func (s *Service) EffectivePrice() float64 {
	if s.DiscountedPrice != nil {
		return *s.DiscountedPrice
	}
	return s.Price
}

// ErrorResponse модель ошибки от каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
