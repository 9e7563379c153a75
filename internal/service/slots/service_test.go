package slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartwash/CW-SlotBookingService/internal/domain"
	slotRepo "github.com/smartwash/CW-SlotBookingService/internal/infra/storage/slot"
	"github.com/smartwash/CW-SlotBookingService/internal/integrations/catalogservice"
	"github.com/smartwash/CW-SlotBookingService/internal/service/slots/models"
	"github.com/smartwash/CW-SlotBookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fakeSlotRepo in-memory репозиторий слотов для тестов
type fakeSlotRepo struct {
	slots  map[int64]*domain.Slot
	nextID int64
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[int64]*domain.Slot), nextID: 1}
}

func (f *fakeSlotRepo) Create(_ context.Context, s *domain.Slot) (*domain.Slot, error) {
	for _, existing := range f.slots {
		if existing.ServiceID == s.ServiceID &&
			existing.Date.Equal(s.Date) &&
			existing.StartTime == s.StartTime {
			return nil, slotRepo.ErrDuplicateSlot
		}
	}
	copied := *s
	copied.ID = f.nextID
	copied.Version = 1
	copied.CreatedAt = time.Now()
	f.nextID++
	f.slots[copied.ID] = &copied
	return &copied, nil
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSlotRepo) GetByDateAndService(_ context.Context, date time.Time, serviceID int64) ([]*domain.Slot, error) {
	var out []*domain.Slot
	for _, s := range f.slots {
		if s.ServiceID == serviceID && s.Date.Equal(date) && s.IsActive {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) ExistsByDedupKey(_ context.Context, date time.Time, serviceID int64, startTime types.TimeString) (bool, error) {
	for _, s := range f.slots {
		if s.ServiceID == serviceID && s.Date.Equal(date) && s.StartTime == startTime {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSlotRepo) ExistingStartTimes(_ context.Context, serviceID int64, startDate, endDate time.Time) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	for _, s := range f.slots {
		if s.ServiceID == serviceID && !s.Date.Before(startDate) && !s.Date.After(endDate) {
			existing[slotRepo.DedupKey(s.Date, s.StartTime)] = struct{}{}
		}
	}
	return existing, nil
}

func (f *fakeSlotRepo) Update(_ context.Context, s *domain.Slot) error {
	current, ok := f.slots[s.ID]
	if !ok {
		return slotRepo.ErrSlotNotFound
	}
	if current.CurrentBookings > 0 {
		return slotRepo.ErrSlotHasBookings
	}
	current.StartTime = s.StartTime
	current.EndTime = s.EndTime
	current.MaxCapacity = s.MaxCapacity
	current.Version++
	return nil
}

func (f *fakeSlotRepo) Delete(_ context.Context, id int64) error {
	current, ok := f.slots[id]
	if !ok {
		return slotRepo.ErrSlotNotFound
	}
	if current.CurrentBookings > 0 {
		return slotRepo.ErrSlotHasBookings
	}
	delete(f.slots, id)
	return nil
}

// fakeCatalog клиент каталога с фиксированным набором услуг
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

// fakeTxManager исполняет функцию без реальной транзакции
type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(repo *fakeSlotRepo, catalog *fakeCatalog) *Service {
	if catalog == nil {
		catalog = &fakeCatalog{services: map[int64]*catalogservice.Service{}}
	}
	return NewService(repo, catalog, fakeTxManager{}, nopLogger{})
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateSlot(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := newTestService(repo, nil)

	resp, err := svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
		ServiceID:   1,
		Date:        date(2024, 1, 20),
		StartTime:   "09:00",
		EndTime:     "10:00",
		MaxCapacity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "2024-01-20", resp.Date)
	assert.Equal(t, 0, resp.CurrentBookings)
	assert.Equal(t, 5, resp.AvailableCount)
	assert.True(t, resp.IsActive)
	assert.Equal(t, "Available", resp.Status)
}

func TestCreateSlot_Duplicate(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := newTestService(repo, nil)

	req := &models.CreateSlotRequest{
		ServiceID:   1,
		Date:        date(2024, 1, 20),
		StartTime:   "09:00",
		EndTime:     "10:00",
		MaxCapacity: 5,
	}

	_, err := svc.CreateSlot(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.CreateSlot(context.Background(), req)
	assert.ErrorIs(t, err, ErrDuplicateSlot)
}

func TestCreateSlot_Validation(t *testing.T) {
	svc := newTestService(newFakeSlotRepo(), nil)

	tests := []struct {
		name string
		req  models.CreateSlotRequest
	}{
		{"bad capacity low", models.CreateSlotRequest{ServiceID: 1, Date: date(2024, 1, 20), StartTime: "09:00", EndTime: "10:00", MaxCapacity: 0}},
		{"bad capacity high", models.CreateSlotRequest{ServiceID: 1, Date: date(2024, 1, 20), StartTime: "09:00", EndTime: "10:00", MaxCapacity: 101}},
		{"bad start time", models.CreateSlotRequest{ServiceID: 1, Date: date(2024, 1, 20), StartTime: "9am", EndTime: "10:00", MaxCapacity: 5}},
		{"end before start", models.CreateSlotRequest{ServiceID: 1, Date: date(2024, 1, 20), StartTime: "10:00", EndTime: "09:00", MaxCapacity: 5}},
		{"end equals start", models.CreateSlotRequest{ServiceID: 1, Date: date(2024, 1, 20), StartTime: "10:00", EndTime: "10:00", MaxCapacity: 5}},
		{"bad service id", models.CreateSlotRequest{ServiceID: 0, Date: date(2024, 1, 20), StartTime: "09:00", EndTime: "10:00", MaxCapacity: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSlot(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpdateSlot_RejectedWhenBooked(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := newTestService(repo, nil)

	created, err := svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
		ServiceID: 1, Date: date(2024, 1, 20), StartTime: "09:00", EndTime: "10:00", MaxCapacity: 5,
	})
	require.NoError(t, err)

	// Появилось бронирование
	repo.slots[created.ID].CurrentBookings = 1

	_, err = svc.UpdateSlot(context.Background(), &models.UpdateSlotRequest{
		SlotID: created.ID, StartTime: "11:00", EndTime: "12:00", MaxCapacity: 10,
	})
	assert.ErrorIs(t, err, ErrSlotHasBookings)

	// Поля слота не изменились
	current := repo.slots[created.ID]
	assert.Equal(t, types.TimeString("09:00"), current.StartTime)
	assert.Equal(t, 5, current.MaxCapacity)
}

func TestUpdateSlot(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := newTestService(repo, nil)

	created, err := svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
		ServiceID: 1, Date: date(2024, 1, 20), StartTime: "09:00", EndTime: "10:00", MaxCapacity: 5,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateSlot(context.Background(), &models.UpdateSlotRequest{
		SlotID: created.ID, StartTime: "11:00", EndTime: "12:30", MaxCapacity: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, "11:00", updated.StartTime)
	assert.Equal(t, "12:30", updated.EndTime)
	assert.Equal(t, 8, updated.MaxCapacity)
	assert.Greater(t, updated.Version, created.Version)
}

func TestUpdateSlot_NotFound(t *testing.T) {
	svc := newTestService(newFakeSlotRepo(), nil)

	_, err := svc.UpdateSlot(context.Background(), &models.UpdateSlotRequest{
		SlotID: 42, StartTime: "11:00", EndTime: "12:00", MaxCapacity: 5,
	})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestDeleteSlot(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := newTestService(repo, nil)

	created, err := svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
		ServiceID: 1, Date: date(2024, 1, 20), StartTime: "09:00", EndTime: "10:00", MaxCapacity: 5,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSlot(context.Background(), created.ID))
	assert.ErrorIs(t, svc.DeleteSlot(context.Background(), created.ID), ErrSlotNotFound)
}

func TestDeleteSlot_RejectedWhenBooked(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := newTestService(repo, nil)

	created, err := svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
		ServiceID: 1, Date: date(2024, 1, 20), StartTime: "09:00", EndTime: "10:00", MaxCapacity: 5,
	})
	require.NoError(t, err)

	repo.slots[created.ID].CurrentBookings = 2

	assert.ErrorIs(t, svc.DeleteSlot(context.Background(), created.ID), ErrSlotHasBookings)
	assert.Contains(t, repo.slots, created.ID)
}

func TestGenerateSlots_SingleDay(t *testing.T) {
	repo := newFakeSlotRepo()
	catalog := &fakeCatalog{services: map[int64]*catalogservice.Service{
		1: {ID: 1, Name: "Premium Wash", MaxBookingsPerSlot: 5, IsActive: true},
	}}
	svc := newTestService(repo, catalog)

	resp, err := svc.GenerateSlots(context.Background(), &models.GenerateSlotsRequest{
		ServiceID: 1,
		StartDate: date(2024, 1, 20),
		EndDate:   date(2024, 1, 20),
	})
	require.NoError(t, err)
	require.Equal(t, 6, resp.Total)

	starts := make([]string, 0, len(resp.Created))
	for _, s := range resp.Created {
		assert.Equal(t, 5, s.MaxCapacity)
		assert.Equal(t, 0, s.CurrentBookings)
		assert.True(t, s.IsActive)
		starts = append(starts, s.StartTime)
	}
	assert.ElementsMatch(t, []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00"}, starts)
}

func TestGenerateSlots_Idempotent(t *testing.T) {
	repo := newFakeSlotRepo()
	catalog := &fakeCatalog{services: map[int64]*catalogservice.Service{
		1: {ID: 1, MaxBookingsPerSlot: 3, IsActive: true},
	}}
	svc := newTestService(repo, catalog)

	req := &models.GenerateSlotsRequest{
		ServiceID: 1,
		StartDate: date(2024, 1, 20),
		EndDate:   date(2024, 1, 21),
	}

	first, err := svc.GenerateSlots(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 12, first.Total)

	// Повторный запуск не создает дубликатов
	second, err := svc.GenerateSlots(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Total)
	assert.Len(t, repo.slots, 12)
}

func TestGenerateSlots_SkipsExisting(t *testing.T) {
	repo := newFakeSlotRepo()
	catalog := &fakeCatalog{services: map[int64]*catalogservice.Service{
		1: {ID: 1, MaxBookingsPerSlot: 3, IsActive: true},
	}}
	svc := newTestService(repo, catalog)

	// Слот 09:00 уже существует
	_, err := svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
		ServiceID: 1, Date: date(2024, 1, 20), StartTime: "09:00", EndTime: "10:00", MaxCapacity: 2,
	})
	require.NoError(t, err)

	resp, err := svc.GenerateSlots(context.Background(), &models.GenerateSlotsRequest{
		ServiceID: 1,
		StartDate: date(2024, 1, 20),
		EndDate:   date(2024, 1, 20),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Total)
	for _, s := range resp.Created {
		assert.NotEqual(t, "09:00", s.StartTime)
	}
}

func TestGenerateSlots_ServiceNotFound(t *testing.T) {
	svc := newTestService(newFakeSlotRepo(), nil)

	_, err := svc.GenerateSlots(context.Background(), &models.GenerateSlotsRequest{
		ServiceID: 99,
		StartDate: date(2024, 1, 20),
		EndDate:   date(2024, 1, 20),
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestGenerateSlots_Validation(t *testing.T) {
	svc := newTestService(newFakeSlotRepo(), nil)

	_, err := svc.GenerateSlots(context.Background(), &models.GenerateSlotsRequest{
		ServiceID: 1,
		StartDate: date(2024, 1, 21),
		EndDate:   date(2024, 1, 20),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetSlotsByDateAndService(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := newTestService(repo, nil)

	for _, start := range []string{"09:00", "10:00"} {
		end, _ := types.TimeString(start).AddMinutes(60)
		_, err := svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
			ServiceID: 1, Date: date(2024, 1, 20), StartTime: start, EndTime: end.String(), MaxCapacity: 5,
		})
		require.NoError(t, err)
	}

	resp, err := svc.GetSlotsByDateAndService(context.Background(), date(2024, 1, 20), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	empty, err := svc.GetSlotsByDateAndService(context.Background(), date(2024, 1, 21), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Total)
}
