package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smartwash/CW-SlotBookingService/internal/domain"
	"github.com/smartwash/CW-SlotBookingService/internal/infra/cache"
	slotRepo "github.com/smartwash/CW-SlotBookingService/internal/infra/storage/slot"
	"github.com/smartwash/CW-SlotBookingService/internal/integrations/catalogservice"
)

// UseCase use case расчета представлений доступности слотов
type UseCase struct {
	slotRepo      SlotRepository
	catalogClient CatalogClient
	cache         AvailabilityCache
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	catalogClient CatalogClient,
	availabilityCache AvailabilityCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:      slotRepo,
		catalogClient: catalogClient,
		cache:         availabilityCache,
		logger:        logger,
	}
}

// GetDayAvailability возвращает представления доступности всех активных
// слотов услуги на дату. Результат кэшируется; кэш инвалидируется
// бронированием и отменой.
func (uc *UseCase) GetDayAvailability(ctx context.Context, date time.Time, serviceID int64) (*DayAvailabilityResponse, error) {
	if serviceID <= 0 {
		return nil, fmt.Errorf("%w: service id must be positive", ErrInvalidInput)
	}

	key := cache.Key(serviceID, date)
	var cached DayAvailabilityResponse
	if uc.cache.Get(ctx, key, &cached) {
		uc.logger.Info("GetDayAvailability: cache hit service=%d date=%s", serviceID, date.Format(domain.DateFormat))
		return &cached, nil
	}

	service, err := uc.catalogClient.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogservice.ErrServiceNotFound) {
			uc.logger.Warn("GetDayAvailability: service=%d not found in catalog", serviceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetDayAvailability: catalog error for service=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: catalog error: %v", ErrInternal, err)
	}

	resp, err := uc.buildDayView(ctx, date, service)
	if err != nil {
		return nil, err
	}

	uc.cache.Set(ctx, key, resp)
	return resp, nil
}

// GetWeeklyAvailability возвращает доступность на 7 последовательных дней
// начиная со startDate, строго в порядке дней. Каждый день считается
// независимо; ошибка любого дня отменяет весь ответ, частичные
// результаты не возвращаются.
func (uc *UseCase) GetWeeklyAvailability(ctx context.Context, startDate time.Time, serviceID int64) (*WeeklyAvailabilityResponse, error) {
	if serviceID <= 0 {
		return nil, fmt.Errorf("%w: service id must be positive", ErrInvalidInput)
	}

	uc.logger.Info("GetWeeklyAvailability: service=%d start=%s", serviceID, startDate.Format(domain.DateFormat))

	// Услуга запрашивается один раз на всю неделю
	service, err := uc.catalogClient.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogservice.ErrServiceNotFound) {
			uc.logger.Warn("GetWeeklyAvailability: service=%d not found in catalog", serviceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetWeeklyAvailability: catalog error for service=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: catalog error: %v", ErrInternal, err)
	}

	days := make([]*DayAvailabilityResponse, 0, domain.WeeklyAvailabilityDays)
	for i := 0; i < domain.WeeklyAvailabilityDays; i++ {
		day := startDate.AddDate(0, 0, i)
		view, err := uc.buildDayView(ctx, day, service)
		if err != nil {
			uc.logger.Error("GetWeeklyAvailability: day %s failed: %v", day.Format(domain.DateFormat), err)
			return nil, err
		}
		days = append(days, view)
	}

	return &WeeklyAvailabilityResponse{
		ServiceID: serviceID,
		StartDate: startDate.Format(domain.DateFormat),
		Days:      days,
	}, nil
}

// CheckSlotAvailability проверяет, поместится ли quantity бронирований
// в слот. Несуществующий или неактивный слот отвечает available=false.
func (uc *UseCase) CheckSlotAvailability(ctx context.Context, slotID int64, quantity int) (*CheckAvailabilityResponse, error) {
	if slotID <= 0 {
		return nil, fmt.Errorf("%w: slot id must be positive", ErrInvalidInput)
	}
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}

	slot, err := uc.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return &CheckAvailabilityResponse{SlotID: slotID, Quantity: quantity, Available: false}, nil
		}
		uc.logger.Error("CheckSlotAvailability: repository error for slot=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	available := slot.IsActive && slot.CurrentBookings+quantity <= slot.MaxCapacity

	return &CheckAvailabilityResponse{
		SlotID:    slotID,
		Quantity:  quantity,
		Available: available,
	}, nil
}

// buildDayView собирает представление одного дня из состояния слотов
// и действующей цены услуги
func (uc *UseCase) buildDayView(ctx context.Context, date time.Time, service *catalogservice.Service) (*DayAvailabilityResponse, error) {
	slots, err := uc.slotRepo.GetByDateAndService(ctx, date, service.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: slots lookup for %s: %v", ErrInternal, date.Format(domain.DateFormat), err)
	}

	price := service.EffectivePrice()
	views := make([]*SlotAvailabilityView, 0, len(slots))
	for _, s := range slots {
		status := s.Status()
		views = append(views, &SlotAvailabilityView{
			SlotID:         s.ID,
			StartTime:      s.StartTime.String(),
			EndTime:        s.EndTime.String(),
			DisplayTime:    s.StartTime.Display12Hour(),
			AvailableCount: s.AvailableCount(),
			TotalCapacity:  s.MaxCapacity,
			IsAvailable:    s.IsAvailable(),
			Status:         string(status),
			StatusColor:    domain.StatusColor(status),
			Price:          price,
		})
	}

	return &DayAvailabilityResponse{
		Date:      date.Format(domain.DateFormat),
		ServiceID: service.ID,
		Slots:     views,
	}, nil
}
