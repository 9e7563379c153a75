package book_slot

import "errors"

// Ошибки use case бронирования слота
var (
	// ErrSlotNotFound слот не существует или неактивен
	ErrSlotNotFound = errors.New("book_slot: slot not found")

	// ErrSlotFull вместимость слота исчерпана
	ErrSlotFull = errors.New("book_slot: slot is full")

	// ErrSlotJustBooked гонка на последнее место: после конфликта
	// версий перечитанный слот оказался заполнен
	ErrSlotJustBooked = errors.New("book_slot: slot was just booked by another user")

	// ErrAvailabilityChanged транзиентный конфликт версий: слот изменился,
	// но свободные места остались - вызывающий может повторить запрос
	ErrAvailabilityChanged = errors.New("book_slot: slot availability changed")

	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("book_slot: invalid input")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("book_slot: internal error")
)
