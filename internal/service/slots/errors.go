package slots

import "errors"

// Ошибки сервиса слотов
var (
	// ErrSlotNotFound слот не найден
	ErrSlotNotFound = errors.New("slots.service: slot not found")

	// ErrDuplicateSlot слот с такой парой (дата, время начала) уже существует для услуги
	ErrDuplicateSlot = errors.New("slots.service: slot already exists")

	// ErrSlotHasBookings слот с бронированиями нельзя изменять или удалять
	ErrSlotHasBookings = errors.New("slots.service: slot has bookings")

	// ErrServiceNotFound услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("slots.service: service not found")

	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("slots.service: invalid input")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("slots.service: internal error")
)
