package cancel_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartwash/CW-SlotBookingService/internal/domain"
	bookingRepo "github.com/smartwash/CW-SlotBookingService/internal/infra/storage/booking"
	"github.com/smartwash/CW-SlotBookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fakeBookingStore in-memory хранилище бронирований с guard-семантикой
// отмены, как у настоящего репозитория
type fakeBookingStore struct {
	bookings map[int64]*domain.Booking
}

func (f *fakeBookingStore) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingStore) Cancel(_ context.Context, id int64) error {
	b, ok := f.bookings[id]
	if !ok || !b.CanBeCancelled() {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = domain.BookingStatusCancelled
	now := time.Now()
	b.UpdatedAt = &now
	return nil
}

// fakeSlotStore счетчики слотов
type fakeSlotStore struct {
	counters map[int64]int
}

func (f *fakeSlotStore) ReleaseCapacity(_ context.Context, id int64) error {
	if count, ok := f.counters[id]; ok && count > 0 {
		f.counters[id] = count - 1
	}
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type capturedEvent struct {
	key     string
	payload interface{}
}

type fakePublisher struct {
	events []capturedEvent
}

func (f *fakePublisher) PublishJSON(_ context.Context, key string, v interface{}) error {
	f.events = append(f.events, capturedEvent{key: key, payload: v})
	return nil
}

type fakeCache struct {
	deleted []string
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) {
	f.deleted = append(f.deleted, keys...)
}

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:            1,
		Reference:     "CW2401157342",
		UserID:        7,
		ServiceID:     1,
		SlotID:        10,
		ScheduledDate: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		ScheduledTime: types.TimeString("09:00"),
		Status:        domain.BookingStatusConfirmed,
		PaymentStatus: domain.PaymentStatusPending,
	}
}

func newTestUseCase(booking *domain.Booking, slotCount int) (*UseCase, *fakeBookingStore, *fakeSlotStore, *fakePublisher, *fakeCache) {
	bookings := &fakeBookingStore{bookings: map[int64]*domain.Booking{}}
	if booking != nil {
		bookings.bookings[booking.ID] = booking
	}
	slots := &fakeSlotStore{counters: map[int64]int{10: slotCount}}
	publisher := &fakePublisher{}
	cacheSpy := &fakeCache{}
	uc := NewUseCase(bookings, slots, fakeTxManager{}, publisher, cacheSpy, nopLogger{})
	return uc, bookings, slots, publisher, cacheSpy
}

func TestExecute(t *testing.T) {
	uc, bookings, slots, publisher, cacheSpy := newTestUseCase(testBooking(), 1)

	err := uc.Execute(context.Background(), 1, 7)
	require.NoError(t, err)

	// Статус сменился, счетчик слота вернулся к нулю
	assert.Equal(t, domain.BookingStatusCancelled, bookings.bookings[1].Status)
	assert.NotNil(t, bookings.bookings[1].UpdatedAt)
	assert.Equal(t, 0, slots.counters[10])

	// Кэш инвалидирован, событие опубликовано
	assert.Equal(t, []string{"availability:1:2024-01-20"}, cacheSpy.deleted)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, "booking.cancelled", publisher.events[0].key)
}

func TestExecute_SecondCancelFails(t *testing.T) {
	uc, _, slots, _, _ := newTestUseCase(testBooking(), 1)

	require.NoError(t, uc.Execute(context.Background(), 1, 7))

	// Повторная отмена отклоняется и не уменьшает счетчик дальше
	err := uc.Execute(context.Background(), 1, 7)
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Equal(t, 0, slots.counters[10])
}

func TestExecute_NotFound(t *testing.T) {
	uc, _, _, _, _ := newTestUseCase(nil, 0)

	err := uc.Execute(context.Background(), 99, 7)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_AccessDenied(t *testing.T) {
	uc, bookings, slots, publisher, _ := newTestUseCase(testBooking(), 1)

	err := uc.Execute(context.Background(), 1, 999)
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Ничего не изменилось
	assert.Equal(t, domain.BookingStatusConfirmed, bookings.bookings[1].Status)
	assert.Equal(t, 1, slots.counters[10])
	assert.Empty(t, publisher.events)
}

func TestExecute_TerminalStatuses(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.BookingStatusCompleted, domain.BookingStatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			booking := testBooking()
			booking.Status = status
			uc, _, slots, _, _ := newTestUseCase(booking, 1)

			err := uc.Execute(context.Background(), 1, 7)
			assert.ErrorIs(t, err, ErrCannotCancel)
			assert.Equal(t, 1, slots.counters[10])
		})
	}
}

func TestExecute_PendingBookingCancellable(t *testing.T) {
	booking := testBooking()
	booking.Status = domain.BookingStatusPending
	uc, bookings, _, _, _ := newTestUseCase(booking, 1)

	require.NoError(t, uc.Execute(context.Background(), 1, 7))
	assert.Equal(t, domain.BookingStatusCancelled, bookings.bookings[1].Status)
}

func TestExecute_ZeroCounterSlot(t *testing.T) {
	// Счетчик слота уже на нуле: освобождение no-op, отмена проходит
	uc, bookings, slots, _, _ := newTestUseCase(testBooking(), 0)

	require.NoError(t, uc.Execute(context.Background(), 1, 7))
	assert.Equal(t, domain.BookingStatusCancelled, bookings.bookings[1].Status)
	assert.Equal(t, 0, slots.counters[10])
}
