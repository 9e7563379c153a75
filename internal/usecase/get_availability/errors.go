package get_availability

import "errors"

// Ошибки use case расчета доступности
var (
	// ErrServiceNotFound услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("get_availability: service not found")

	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("get_availability: invalid input")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("get_availability: internal error")
)
