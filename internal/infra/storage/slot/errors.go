package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrDuplicateSlot возвращается при нарушении ключа дедупликации
	// (date, service_id, start_time)
	ErrDuplicateSlot = errors.New("slot.repository: slot already exists for this date, service and start time")

	// ErrSlotHasBookings возвращается при попытке изменить или удалить слот
	// с существующими бронированиями
	ErrSlotHasBookings = errors.New("slot.repository: slot has existing bookings")

	// ErrVersionConflict возвращается, когда слот был изменен конкурентно
	// с момента чтения (не совпал version token)
	ErrVersionConflict = errors.New("slot.repository: slot version conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
