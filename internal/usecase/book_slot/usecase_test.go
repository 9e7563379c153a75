package book_slot

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartwash/CW-SlotBookingService/internal/domain"
	slotRepo "github.com/smartwash/CW-SlotBookingService/internal/infra/storage/slot"
	"github.com/smartwash/CW-SlotBookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fakeSlotStore in-memory хранилище слотов с compare-and-swap семантикой
// резервирования, как у настоящего репозитория. staleOnce позволяет
// один раз отдать устаревший снимок слота, имитируя конкурентную запись
// между чтением и резервированием.
type fakeSlotStore struct {
	slots     map[int64]*domain.Slot
	staleOnce *domain.Slot
}

func newFakeSlotStore(slots ...*domain.Slot) *fakeSlotStore {
	store := &fakeSlotStore{slots: make(map[int64]*domain.Slot)}
	for _, s := range slots {
		copied := *s
		store.slots[s.ID] = &copied
	}
	return store
}

func (f *fakeSlotStore) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	if f.staleOnce != nil && f.staleOnce.ID == id {
		stale := *f.staleOnce
		f.staleOnce = nil
		return &stale, nil
	}
	s, ok := f.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSlotStore) ReserveCapacity(_ context.Context, id int64, version int64) error {
	s, ok := f.slots[id]
	if !ok || s.Version != version || s.CurrentBookings >= s.MaxCapacity {
		return slotRepo.ErrVersionConflict
	}
	s.CurrentBookings++
	s.Version++
	return nil
}

// fakeBookingStore собирает созданные бронирования
type fakeBookingStore struct {
	bookings  []*domain.Booking
	nextID    int64
	createErr error
}

func (f *fakeBookingStore) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	copied := *b
	copied.ID = f.nextID
	copied.CreatedAt = time.Now()
	f.bookings = append(f.bookings, &copied)
	return &copied, nil
}

// fakeTxManager исполняет функцию; при ошибке имитирует откат
// резервирования, как это делает настоящая транзакция
type fakeTxManager struct {
	store *fakeSlotStore
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := make(map[int64]domain.Slot, len(f.store.slots))
	for id, s := range f.store.slots {
		snapshot[id] = *s
	}

	if err := fn(ctx); err != nil {
		for id := range f.store.slots {
			restored := snapshot[id]
			f.store.slots[id] = &restored
		}
		return err
	}
	return nil
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

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func testSlot() *domain.Slot {
	return &domain.Slot{
		ID:          10,
		ServiceID:   1,
		Date:        time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		StartTime:   types.TimeString("09:00"),
		EndTime:     types.TimeString("10:00"),
		MaxCapacity: 2,
		IsActive:    true,
		Version:     1,
	}
}

func validRequest() *Request {
	return &Request{
		UserID:      7,
		SlotID:      10,
		ServiceID:   1,
		Subtotal:    100,
		TaxAmount:   20,
		TotalAmount: 120,
	}
}

func newTestUseCase(store *fakeSlotStore, bookings *fakeBookingStore) (*UseCase, *fakePublisher, *fakeCache) {
	publisher := &fakePublisher{}
	cacheSpy := &fakeCache{}
	uc := NewUseCase(store, bookings, &fakeTxManager{store: store}, publisher, cacheSpy, nopLogger{})
	uc.timeProvider = fixedTime{t: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)}
	return uc, publisher, cacheSpy
}

func TestExecute(t *testing.T) {
	store := newFakeSlotStore(testSlot())
	bookings := &fakeBookingStore{}
	uc, publisher, cacheSpy := newTestUseCase(store, bookings)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^CW240115\d{4}$`), resp.Reference)
	assert.Equal(t, int64(10), resp.SlotID)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "pending", resp.PaymentStatus)
	assert.Equal(t, 120.0, resp.TotalAmount)

	// Дата и время скопированы из слота
	assert.Equal(t, "2024-01-20", resp.ScheduledDate)
	assert.Equal(t, "09:00", resp.ScheduledTime)

	// Счетчик и версия слота увеличились
	assert.Equal(t, 1, store.slots[10].CurrentBookings)
	assert.Equal(t, int64(2), store.slots[10].Version)

	// Кэш инвалидирован, событие опубликовано
	assert.Equal(t, []string{"availability:1:2024-01-20"}, cacheSpy.deleted)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, "booking.created", publisher.events[0].key)
}

func TestExecute_SlotNotFound(t *testing.T) {
	uc, _, _ := newTestUseCase(newFakeSlotStore(), &fakeBookingStore{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestExecute_InactiveSlot(t *testing.T) {
	slot := testSlot()
	slot.IsActive = false
	uc, _, _ := newTestUseCase(newFakeSlotStore(slot), &fakeBookingStore{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestExecute_SlotFull(t *testing.T) {
	slot := testSlot()
	slot.CurrentBookings = slot.MaxCapacity
	uc, _, _ := newTestUseCase(newFakeSlotStore(slot), &fakeBookingStore{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotFull)
}

func TestExecute_ConflictResolvesToJustBooked(t *testing.T) {
	// Слот на одно место: конкурент занял его между нашим чтением
	// и записью. Первое чтение отдает устаревший снимок.
	slot := testSlot()
	slot.MaxCapacity = 1
	store := newFakeSlotStore(slot)
	bookings := &fakeBookingStore{}
	uc, publisher, _ := newTestUseCase(store, bookings)

	stale := *store.slots[10]
	store.staleOnce = &stale
	store.slots[10].CurrentBookings = 1
	store.slots[10].Version = 2

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotJustBooked)

	// Вместимость не превышена, бронирование не создано, событий нет
	assert.Equal(t, 1, store.slots[10].CurrentBookings)
	assert.Empty(t, bookings.bookings)
	assert.Empty(t, publisher.events)
}

func TestExecute_ConflictResolvesToTransient(t *testing.T) {
	// Вместимость 5: конкурент занял место, но свободные остались -
	// конфликт транзиентный, вызывающему предлагается повторить
	slot := testSlot()
	slot.MaxCapacity = 5
	store := newFakeSlotStore(slot)
	uc, _, _ := newTestUseCase(store, &fakeBookingStore{})

	stale := *store.slots[10]
	store.staleOnce = &stale
	store.slots[10].CurrentBookings = 1
	store.slots[10].Version = 2

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrAvailabilityChanged)

	// Счетчик не изменился нашим вызовом
	assert.Equal(t, 1, store.slots[10].CurrentBookings)
}

func TestExecute_ExactCapacityRace(t *testing.T) {
	// Слот на одно место, два последовательных вызова с одинаковым
	// прочитанным состоянием: ровно один успех, счетчик равен 1
	slot := testSlot()
	slot.MaxCapacity = 1
	store := newFakeSlotStore(slot)
	bookings := &fakeBookingStore{}
	uc, _, _ := newTestUseCase(store, bookings)

	first, firstErr := uc.Execute(context.Background(), validRequest())
	_, secondErr := uc.Execute(context.Background(), validRequest())

	require.NoError(t, firstErr)
	assert.NotEmpty(t, first.Reference)

	assert.ErrorIs(t, secondErr, ErrSlotFull)
	assert.Equal(t, 1, store.slots[10].CurrentBookings)
	assert.Len(t, bookings.bookings, 1)
}

func TestExecute_RollbackOnBookingInsertFailure(t *testing.T) {
	store := newFakeSlotStore(testSlot())
	bookings := &fakeBookingStore{createErr: assert.AnError}
	uc, publisher, cacheSpy := newTestUseCase(store, bookings)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)

	// Резервирование откатилось вместе с вставкой
	assert.Equal(t, 0, store.slots[10].CurrentBookings)
	assert.Empty(t, publisher.events)
	assert.Empty(t, cacheSpy.deleted)
}

func TestExecute_Validation(t *testing.T) {
	uc, _, _ := newTestUseCase(newFakeSlotStore(testSlot()), &fakeBookingStore{})

	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"zero user", func(r *Request) { r.UserID = 0 }},
		{"zero slot", func(r *Request) { r.SlotID = 0 }},
		{"zero service", func(r *Request) { r.ServiceID = 0 }},
		{"negative subtotal", func(r *Request) { r.Subtotal = -1 }},
		{"total mismatch", func(r *Request) { r.TotalAmount = 999 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_DefaultsAndDenormalization(t *testing.T) {
	store := newFakeSlotStore(testSlot())
	bookings := &fakeBookingStore{}
	uc, _, _ := newTestUseCase(store, bookings)

	req := validRequest()
	req.VehicleType = ""
	req.DiscountAmount = 0
	req.TaxAmount = 0
	req.TotalAmount = req.Subtotal

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, bookings.bookings, 1)
	created := bookings.bookings[0]
	assert.Equal(t, "car", created.VehicleType)
	assert.Equal(t, domain.BookingStatusConfirmed, created.Status)
	assert.Equal(t, domain.PaymentStatusPending, created.PaymentStatus)
	assert.True(t, created.ScheduledDate.Equal(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, types.TimeString("09:00"), created.ScheduledTime)
}
