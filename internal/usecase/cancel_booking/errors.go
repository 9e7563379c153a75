package cancel_booking

import "errors"

// Ошибки use case отмены бронирования
var (
	// ErrBookingNotFound бронирование не найдено
	ErrBookingNotFound = errors.New("cancel_booking: booking not found")

	// ErrAccessDenied пользователь не владеет бронированием
	ErrAccessDenied = errors.New("cancel_booking: access denied")

	// ErrCannotCancel бронирование в терминальном статусе
	ErrCannotCancel = errors.New("cancel_booking: booking cannot be cancelled")

	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("cancel_booking: invalid input")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("cancel_booking: internal error")
)
