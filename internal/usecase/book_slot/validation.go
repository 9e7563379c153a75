package book_slot

import (
	"fmt"
	"math"

	"github.com/smartwash/CW-SlotBookingService/internal/domain"
)

// Допустимое расхождение при сверке денежных полей
const moneyEpsilon = 0.01

// DefaultVehicleType тип транспорта по умолчанию
const DefaultVehicleType = "car"

// validateRequest валидирует запрос до любых обращений к хранилищу.
// Скидка и налог по умолчанию равны нулю; total сверяется с разбивкой.
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: user id must be positive", ErrInvalidInput)
	}
	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slot id must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: service id must be positive", ErrInvalidInput)
	}
	if req.AddressID != nil && *req.AddressID <= 0 {
		return fmt.Errorf("%w: address id must be positive", ErrInvalidInput)
	}

	if req.Subtotal < 0 || req.DiscountAmount < 0 || req.TaxAmount < 0 || req.TotalAmount < 0 {
		return fmt.Errorf("%w: monetary amounts must be non-negative", ErrInvalidInput)
	}

	expected := req.Subtotal - req.DiscountAmount + req.TaxAmount
	if math.Abs(expected-req.TotalAmount) > moneyEpsilon {
		return fmt.Errorf("%w: total amount must equal subtotal - discount + tax", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.VehicleType == "" {
		req.VehicleType = DefaultVehicleType
	}

	return nil
}
