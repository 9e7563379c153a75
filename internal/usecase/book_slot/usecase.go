package book_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/smartwash/CW-SlotBookingService/internal/domain"
	"github.com/smartwash/CW-SlotBookingService/internal/events"
	"github.com/smartwash/CW-SlotBookingService/internal/infra/cache"
	slotRepo "github.com/smartwash/CW-SlotBookingService/internal/infra/storage/slot"
	"github.com/smartwash/CW-SlotBookingService/pkg/bookingref"
)

// UseCase use case атомарного бронирования слота.
// Резервирование вместимости и вставка бронирования выполняются
// в одной транзакции; гонки разрешаются optimistic concurrency
// по version token слота.
type UseCase struct {
	slotRepo     SlotRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	publisher    EventPublisher
	cache        AvailabilityCache
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	availabilityCache AvailabilityCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		publisher:    publisher,
		cache:        availabilityCache,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет бронирование слота.
//
// Протокол: слот читается вне транзакции вместе с version token,
// затем в одной транзакции выполняется compare-and-swap резервирование
// и вставка бронирования. При конфликте версий транзакция откатывается
// целиком, слот перечитывается ровно один раз, и вызывающему
// возвращается либо постоянный отказ (слот заполнен), либо транзиентный
// (повтор - ответственность вызывающего, автоматических ретраев нет).
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookSlot: user=%d slot=%d service=%d", req.UserID, req.SlotID, req.ServiceID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookSlot: validation failed: %v", err)
		return nil, err
	}

	// 2. Читаем слот и его version token
	slot, err := uc.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("BookSlot: slot=%d not found", req.SlotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("BookSlot: failed to load slot=%d: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: failed to load slot: %v", ErrInternal, err)
	}

	// Неактивный слот неотличим для клиента от несуществующего
	if !slot.IsActive {
		uc.logger.Warn("BookSlot: slot=%d is inactive", req.SlotID)
		return nil, ErrSlotNotFound
	}

	// 3. Быстрый отказ до транзакции
	if slot.IsFull() {
		uc.logger.Warn("BookSlot: slot=%d is full (%d/%d)", req.SlotID, slot.CurrentBookings, slot.MaxCapacity)
		return nil, ErrSlotFull
	}

	// 4. Собираем бронирование: дата и время копируются из слота,
	// а не из запроса - денормализация остается консистентной
	booking := &domain.Booking{
		Reference:        bookingref.New(uc.timeProvider.Now()),
		UserID:           req.UserID,
		ServiceID:        req.ServiceID,
		SlotID:           slot.ID,
		AddressID:        req.AddressID,
		VehicleType:      req.VehicleType,
		ScheduledDate:    slot.Date,
		ScheduledTime:    slot.StartTime,
		Status:           domain.BookingStatusConfirmed,
		PaymentStatus:    domain.PaymentStatusPending,
		Subtotal:         req.Subtotal,
		DiscountAmount:   req.DiscountAmount,
		TaxAmount:        req.TaxAmount,
		TotalAmount:      req.TotalAmount,
		AppliedOfferCode: req.AppliedOfferCode,
		Notes:            req.Notes,
	}

	// 5. Атомарный unit of work: резервирование места + вставка бронирования
	var created *domain.Booking
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.slotRepo.ReserveCapacity(txCtx, slot.ID, slot.Version); err != nil {
			return err
		}

		saved, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return err
		}

		created = saved
		return nil
	})

	if err != nil {
		if errors.Is(err, slotRepo.ErrVersionConflict) {
			return nil, uc.resolveConflict(ctx, req.SlotID)
		}
		uc.logger.Error("BookSlot: transaction failed for slot=%d: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: booking transaction failed: %v", ErrInternal, err)
	}

	uc.logger.Info("BookSlot: created booking id=%d reference=%s slot=%d", created.ID, created.Reference, created.SlotID)

	// 6. Пост-коммитные побочные эффекты: инвалидация кэша и событие.
	// Ошибки здесь не откатывают уже закоммиченное бронирование.
	uc.cache.Delete(ctx, cache.Key(created.ServiceID, created.ScheduledDate))

	event := events.BookingCreated{
		BookingID:     created.ID,
		Reference:     created.Reference,
		UserID:        created.UserID,
		ServiceID:     created.ServiceID,
		SlotID:        created.SlotID,
		ScheduledDate: created.ScheduledDate.Format(domain.DateFormat),
		ScheduledTime: created.ScheduledTime.String(),
		TotalAmount:   created.TotalAmount,
	}
	if err := uc.publisher.PublishJSON(ctx, events.KeyBookingCreated, event); err != nil {
		uc.logger.Warn("BookSlot: failed to publish booking.created for id=%d: %v", created.ID, err)
	}

	return &Response{
		BookingID:     created.ID,
		Reference:     created.Reference,
		SlotID:        created.SlotID,
		ScheduledDate: created.ScheduledDate.Format(domain.DateFormat),
		ScheduledTime: created.ScheduledTime.String(),
		Status:        string(created.Status),
		PaymentStatus: string(created.PaymentStatus),
		TotalAmount:   created.TotalAmount,
	}, nil
}

// resolveConflict различает исход гонки после отката транзакции.
// Слот перечитывается один раз: если он заполнен - отказ постоянный,
// иначе конфликт транзиентный и вызывающий может повторить запрос.
func (uc *UseCase) resolveConflict(ctx context.Context, slotID int64) error {
	current, err := uc.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("BookSlot: slot=%d disappeared during booking", slotID)
			return ErrSlotNotFound
		}
		uc.logger.Error("BookSlot: conflict re-read failed for slot=%d: %v", slotID, err)
		return fmt.Errorf("%w: conflict re-read failed: %v", ErrInternal, err)
	}

	if !current.IsActive {
		return ErrSlotNotFound
	}

	if current.IsFull() {
		uc.logger.Warn("BookSlot: slot=%d was just booked to capacity", slotID)
		return ErrSlotJustBooked
	}

	uc.logger.Warn("BookSlot: transient version conflict on slot=%d, caller may retry", slotID)
	return ErrAvailabilityChanged
}
