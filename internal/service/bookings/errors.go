package bookings

import "errors"

// Ошибки сервиса бронирований
var (
	// ErrBookingNotFound бронирование не найдено
	ErrBookingNotFound = errors.New("bookings.service: booking not found")

	// ErrAccessDenied пользователь не владеет бронированием
	ErrAccessDenied = errors.New("bookings.service: access denied")

	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("bookings.service: invalid input")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("bookings.service: internal error")
)
