package get_availability

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartwash/CW-SlotBookingService/internal/domain"
	slotRepo "github.com/smartwash/CW-SlotBookingService/internal/infra/storage/slot"
	"github.com/smartwash/CW-SlotBookingService/internal/integrations/catalogservice"
	"github.com/smartwash/CW-SlotBookingService/pkg/ptr"
	"github.com/smartwash/CW-SlotBookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeSlotStore struct {
	slots map[int64]*domain.Slot
}

func (f *fakeSlotStore) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSlotStore) GetByDateAndService(_ context.Context, date time.Time, serviceID int64) ([]*domain.Slot, error) {
	var out []*domain.Slot
	for _, s := range f.slots {
		if s.ServiceID == serviceID && s.Date.Equal(date) && s.IsActive {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeCatalog struct {
	services map[int64]*catalogservice.Service
}

func (f *fakeCatalog) GetService(_ context.Context, id int64) (*catalogservice.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, catalogservice.ErrServiceNotFound
	}
	return s, nil
}

// fakeCache простой кэш в памяти поверх JSON-сериализации
type fakeCache struct {
	store map[string][]byte
	hits  int
	sets  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) bool {
	data, ok := f.store[key]
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false
	}
	f.hits++
	return true
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	f.store[key] = data
	f.sets++
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func slot(id int64, day time.Time, start string, capacity, booked int) *domain.Slot {
	end, _ := types.TimeString(start).AddMinutes(60)
	return &domain.Slot{
		ID:              id,
		ServiceID:       1,
		Date:            day,
		StartTime:       types.TimeString(start),
		EndTime:         end,
		MaxCapacity:     capacity,
		CurrentBookings: booked,
		IsActive:        true,
		Version:         1,
	}
}

func washService() *catalogservice.Service {
	return &catalogservice.Service{
		ID:                 1,
		Name:               "Premium Wash",
		Category:           "exterior",
		Price:              150,
		MaxBookingsPerSlot: 5,
		IsActive:           true,
	}
}

func newTestUseCase(slots []*domain.Slot, service *catalogservice.Service) (*UseCase, *fakeCache) {
	store := &fakeSlotStore{slots: make(map[int64]*domain.Slot)}
	for _, s := range slots {
		store.slots[s.ID] = s
	}
	catalog := &fakeCatalog{services: map[int64]*catalogservice.Service{}}
	if service != nil {
		catalog.services[service.ID] = service
	}
	cacheSpy := newFakeCache()
	return NewUseCase(store, catalog, cacheSpy, nopLogger{}), cacheSpy
}

func TestGetDayAvailability(t *testing.T) {
	day := date(2024, 1, 20)
	uc, _ := newTestUseCase([]*domain.Slot{
		slot(1, day, "09:00", 5, 0),
		slot(2, day, "14:00", 5, 3),
		slot(3, day, "16:00", 5, 5),
	}, washService())

	resp, err := uc.GetDayAvailability(context.Background(), day, 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-20", resp.Date)
	require.Len(t, resp.Slots, 3)

	byID := make(map[int64]*SlotAvailabilityView)
	for _, v := range resp.Slots {
		byID[v.SlotID] = v
	}

	assert.Equal(t, "Available", byID[1].Status)
	assert.Equal(t, "green", byID[1].StatusColor)
	assert.Equal(t, 5, byID[1].AvailableCount)
	assert.True(t, byID[1].IsAvailable)
	assert.Equal(t, "09:00 AM", byID[1].DisplayTime)
	assert.Equal(t, 150.0, byID[1].Price)

	assert.Equal(t, "Limited", byID[2].Status)
	assert.Equal(t, "yellow", byID[2].StatusColor)
	assert.Equal(t, 2, byID[2].AvailableCount)
	assert.Equal(t, "02:00 PM", byID[2].DisplayTime)

	assert.Equal(t, "Full", byID[3].Status)
	assert.Equal(t, "red", byID[3].StatusColor)
	assert.Equal(t, 0, byID[3].AvailableCount)
	assert.False(t, byID[3].IsAvailable)
}

func TestGetDayAvailability_DiscountedPrice(t *testing.T) {
	day := date(2024, 1, 20)
	service := washService()
	service.DiscountedPrice = ptr.Ptr(99.0)

	uc, _ := newTestUseCase([]*domain.Slot{slot(1, day, "09:00", 5, 0)}, service)

	resp, err := uc.GetDayAvailability(context.Background(), day, 1)
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, 99.0, resp.Slots[0].Price)
}

func TestGetDayAvailability_Cache(t *testing.T) {
	day := date(2024, 1, 20)
	uc, cacheSpy := newTestUseCase([]*domain.Slot{slot(1, day, "09:00", 5, 0)}, washService())

	first, err := uc.GetDayAvailability(context.Background(), day, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, cacheSpy.sets)

	second, err := uc.GetDayAvailability(context.Background(), day, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, cacheSpy.hits)
	assert.Equal(t, first.Date, second.Date)
	assert.Len(t, second.Slots, len(first.Slots))
}

func TestGetDayAvailability_ServiceNotFound(t *testing.T) {
	uc, _ := newTestUseCase(nil, nil)

	_, err := uc.GetDayAvailability(context.Background(), date(2024, 1, 20), 99)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestGetWeeklyAvailability(t *testing.T) {
	start := date(2024, 1, 15)
	// Слоты только на первый и последний дни недели
	uc, _ := newTestUseCase([]*domain.Slot{
		slot(1, date(2024, 1, 15), "09:00", 5, 0),
		slot(2, date(2024, 1, 21), "14:00", 5, 5),
	}, washService())

	resp, err := uc.GetWeeklyAvailability(context.Background(), start, 1)
	require.NoError(t, err)
	require.Len(t, resp.Days, 7)
	assert.Equal(t, "2024-01-15", resp.StartDate)

	// Дни идут строго по порядку, включая пустые
	expected := []string{
		"2024-01-15", "2024-01-16", "2024-01-17", "2024-01-18",
		"2024-01-19", "2024-01-20", "2024-01-21",
	}
	for i, day := range resp.Days {
		assert.Equal(t, expected[i], day.Date)
	}

	assert.Len(t, resp.Days[0].Slots, 1)
	for i := 1; i < 6; i++ {
		assert.Empty(t, resp.Days[i].Slots)
	}
	require.Len(t, resp.Days[6].Slots, 1)
	assert.Equal(t, "Full", resp.Days[6].Slots[0].Status)
}

func TestCheckSlotAvailability(t *testing.T) {
	day := date(2024, 1, 20)
	uc, _ := newTestUseCase([]*domain.Slot{slot(1, day, "09:00", 5, 3)}, washService())

	// Два свободных места
	resp, err := uc.CheckSlotAvailability(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, resp.Available)

	resp, err = uc.CheckSlotAvailability(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.False(t, resp.Available)

	// Quantity по умолчанию равен 1
	resp, err = uc.CheckSlotAvailability(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Quantity)
	assert.True(t, resp.Available)

	_, err = uc.CheckSlotAvailability(context.Background(), 1, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCheckSlotAvailability_MissingOrInactive(t *testing.T) {
	day := date(2024, 1, 20)
	inactive := slot(2, day, "10:00", 5, 0)
	inactive.IsActive = false

	uc, _ := newTestUseCase([]*domain.Slot{inactive}, washService())

	// Несуществующий слот отвечает false, а не ошибкой
	resp, err := uc.CheckSlotAvailability(context.Background(), 99, 1)
	require.NoError(t, err)
	assert.False(t, resp.Available)

	resp, err = uc.CheckSlotAvailability(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.False(t, resp.Available)
}
