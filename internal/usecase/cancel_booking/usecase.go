package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/smartwash/CW-SlotBookingService/internal/domain"
	"github.com/smartwash/CW-SlotBookingService/internal/events"
	"github.com/smartwash/CW-SlotBookingService/internal/infra/cache"
	bookingRepo "github.com/smartwash/CW-SlotBookingService/internal/infra/storage/booking"
)

// UseCase use case отмены бронирования.
// Освобождение места в слоте и смена статуса бронирования
// выполняются в одной транзакции.
type UseCase struct {
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	txManager   TransactionManager
	publisher   EventPublisher
	cache       AvailabilityCache
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	availabilityCache AvailabilityCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		txManager:   txManager,
		publisher:   publisher,
		cache:       availabilityCache,
		logger:      logger,
	}
}

// Execute отменяет бронирование пользователя.
// Отменяются только статусы pending и confirmed; терминальные
// бронирования возвращают ErrCannotCancel. Счетчик слота уменьшается
// в той же транзакции; если слот уже удален или счетчик на нуле,
// освобождение - no-op и отмена все равно проходит.
func (uc *UseCase) Execute(ctx context.Context, bookingID, userID int64) error {
	uc.logger.Info("CancelBooking: booking=%d user=%d", bookingID, userID)

	if bookingID <= 0 {
		return fmt.Errorf("%w: booking id must be positive", ErrInvalidInput)
	}

	// 1. Читаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CancelBooking: booking=%d not found", bookingID)
			return ErrBookingNotFound
		}
		uc.logger.Error("CancelBooking: failed to load booking=%d: %v", bookingID, err)
		return fmt.Errorf("%w: failed to load booking: %v", ErrInternal, err)
	}

	// 2. Отменять может только владелец
	if booking.UserID != userID {
		uc.logger.Warn("CancelBooking: access denied for user=%d to booking=%d", userID, bookingID)
		return ErrAccessDenied
	}

	// 3. Терминальные статусы не отменяются
	if !booking.CanBeCancelled() {
		uc.logger.Warn("CancelBooking: booking=%d in status=%s cannot be cancelled", bookingID, booking.Status)
		return ErrCannotCancel
	}

	// 4. Атомарный unit of work: освобождение места + смена статуса.
	// Guard статуса продублирован в SQL-запросе Cancel: параллельная
	// отмена того же бронирования откатится здесь и не уменьшит
	// счетчик слота второй раз.
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.bookingRepo.Cancel(txCtx, booking.ID); err != nil {
			return err
		}
		return uc.slotRepo.ReleaseCapacity(txCtx, booking.SlotID)
	})

	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CancelBooking: booking=%d already cancelled concurrently", bookingID)
			return ErrCannotCancel
		}
		uc.logger.Error("CancelBooking: transaction failed for booking=%d: %v", bookingID, err)
		return fmt.Errorf("%w: cancel transaction failed: %v", ErrInternal, err)
	}

	uc.logger.Info("CancelBooking: cancelled booking id=%d reference=%s", booking.ID, booking.Reference)

	// 5. Пост-коммитные побочные эффекты
	uc.cache.Delete(ctx, cache.Key(booking.ServiceID, booking.ScheduledDate))

	event := events.BookingCancelled{
		BookingID:     booking.ID,
		Reference:     booking.Reference,
		UserID:        booking.UserID,
		ServiceID:     booking.ServiceID,
		SlotID:        booking.SlotID,
		ScheduledDate: booking.ScheduledDate.Format(domain.DateFormat),
		ScheduledTime: booking.ScheduledTime.String(),
	}
	if err := uc.publisher.PublishJSON(ctx, events.KeyBookingCancelled, event); err != nil {
		uc.logger.Warn("CancelBooking: failed to publish booking.cancelled for id=%d: %v", booking.ID, err)
	}

	return nil
}
