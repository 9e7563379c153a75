package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smartwash/CW-SlotBookingService/internal/domain"
	slotRepo "github.com/smartwash/CW-SlotBookingService/internal/infra/storage/slot"
	"github.com/smartwash/CW-SlotBookingService/internal/integrations/catalogservice"
	"github.com/smartwash/CW-SlotBookingService/internal/service/slots/models"
)

// Service сервис управления слотами: CRUD, guard жизненного цикла
// и генерация слотов по шаблону
type Service struct {
	slotRepo      SlotRepository
	catalogClient CatalogClient
	txManager     TransactionManager
	logger        Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	catalogClient CatalogClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:      slotRepo,
		catalogClient: catalogClient,
		txManager:     txManager,
		logger:        logger,
	}
}

// CreateSlot создает одиночный слот.
// Пара (дата, время начала) в рамках услуги - ключ дедупликации.
func (s *Service) CreateSlot(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("CreateSlot: service=%d date=%s start=%s", req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	start, end, err := validateCreateRequest(req)
	if err != nil {
		s.logger.Warn("CreateSlot: validation failed: %v", err)
		return nil, err
	}

	exists, err := s.slotRepo.ExistsByDedupKey(ctx, req.Date, req.ServiceID, start)
	if err != nil {
		s.logger.Error("CreateSlot: dedup check failed: %v", err)
		return nil, fmt.Errorf("%w: CreateSlot - dedup check: %v", ErrInternal, err)
	}
	if exists {
		s.logger.Warn("CreateSlot: duplicate slot service=%d date=%s start=%s", req.ServiceID, req.Date.Format(domain.DateFormat), start)
		return nil, ErrDuplicateSlot
	}

	slot := &domain.Slot{
		ServiceID:       req.ServiceID,
		Date:            req.Date,
		StartTime:       start,
		EndTime:         end,
		MaxCapacity:     req.MaxCapacity,
		CurrentBookings: 0,
		IsActive:        true,
	}

	created, err := s.slotRepo.Create(ctx, slot)
	if err != nil {
		if errors.Is(err, slotRepo.ErrDuplicateSlot) {
			// Гонка с параллельным созданием - уникальный индекс решает
			return nil, ErrDuplicateSlot
		}
		s.logger.Error("CreateSlot: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateSlot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateSlot: created slot id=%d", created.ID)
	return models.FromDomainSlot(created), nil
}

// UpdateSlot перезаписывает время и вместимость слота.
// Слот с существующими бронированиями не изменяется.
func (s *Service) UpdateSlot(ctx context.Context, req *models.UpdateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("UpdateSlot: slot=%d", req.SlotID)

	start, end, err := validateUpdateRequest(req)
	if err != nil {
		s.logger.Warn("UpdateSlot: validation failed: %v", err)
		return nil, err
	}

	slot := &domain.Slot{
		ID:          req.SlotID,
		StartTime:   start,
		EndTime:     end,
		MaxCapacity: req.MaxCapacity,
	}

	if err := s.slotRepo.Update(ctx, slot); err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrSlotNotFound):
			s.logger.Warn("UpdateSlot: slot=%d not found", req.SlotID)
			return nil, ErrSlotNotFound
		case errors.Is(err, slotRepo.ErrSlotHasBookings):
			s.logger.Warn("UpdateSlot: slot=%d has bookings, update rejected", req.SlotID)
			return nil, ErrSlotHasBookings
		default:
			s.logger.Error("UpdateSlot: repository error for slot=%d: %v", req.SlotID, err)
			return nil, fmt.Errorf("%w: UpdateSlot - repository error: %v", ErrInternal, err)
		}
	}

	updated, err := s.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		s.logger.Error("UpdateSlot: re-read after update failed for slot=%d: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: UpdateSlot - re-read: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSlot: updated slot id=%d version=%d", updated.ID, updated.Version)
	return models.FromDomainSlot(updated), nil
}

// DeleteSlot физически удаляет слот без бронирований
func (s *Service) DeleteSlot(ctx context.Context, slotID int64) error {
	s.logger.Info("DeleteSlot: slot=%d", slotID)

	if slotID <= 0 {
		return fmt.Errorf("%w: slot id must be positive", ErrInvalidInput)
	}

	if err := s.slotRepo.Delete(ctx, slotID); err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrSlotNotFound):
			s.logger.Warn("DeleteSlot: slot=%d not found", slotID)
			return ErrSlotNotFound
		case errors.Is(err, slotRepo.ErrSlotHasBookings):
			s.logger.Warn("DeleteSlot: slot=%d has bookings, delete rejected", slotID)
			return ErrSlotHasBookings
		default:
			s.logger.Error("DeleteSlot: repository error for slot=%d: %v", slotID, err)
			return fmt.Errorf("%w: DeleteSlot - repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("DeleteSlot: deleted slot id=%d", slotID)
	return nil
}

// GetSlotByID получает слот по ID с best-effort обогащением данными каталога
func (s *Service) GetSlotByID(ctx context.Context, slotID int64) (*models.SlotResponse, error) {
	if slotID <= 0 {
		return nil, fmt.Errorf("%w: slot id must be positive", ErrInvalidInput)
	}

	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("GetSlotByID: slot=%d not found", slotID)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("GetSlotByID: repository error for slot=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: GetSlotByID - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainSlot(slot)
	s.enrichWithCatalog(ctx, resp, slot.ServiceID)

	return resp, nil
}

// GetSlotsByDateAndService получает активные слоты услуги на дату,
// отсортированные по времени начала
func (s *Service) GetSlotsByDateAndService(ctx context.Context, date time.Time, serviceID int64) (*models.SlotListResponse, error) {
	s.logger.Info("GetSlotsByDateAndService: service=%d date=%s", serviceID, date.Format(domain.DateFormat))

	if serviceID <= 0 {
		return nil, fmt.Errorf("%w: service id must be positive", ErrInvalidInput)
	}

	slotsList, err := s.slotRepo.GetByDateAndService(ctx, date, serviceID)
	if err != nil {
		s.logger.Error("GetSlotsByDateAndService: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetSlotsByDateAndService - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSlotList(slotsList), nil
}

// GenerateSlots генерирует слоты для услуги по диапазону дат включительно.
// Для каждого дня применяется дефолтный шаблон из шести окон; уже
// существующие пары (дата, время начала) пропускаются - повторный запуск
// идемпотентен. Возвращает только действительно созданные слоты.
func (s *Service) GenerateSlots(ctx context.Context, req *models.GenerateSlotsRequest) (*models.GenerateSlotsResponse, error) {
	s.logger.Info("GenerateSlots: service=%d range=%s..%s",
		req.ServiceID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	if err := validateGenerateRequest(req); err != nil {
		s.logger.Warn("GenerateSlots: validation failed: %v", err)
		return nil, err
	}

	service, err := s.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogservice.ErrServiceNotFound) {
			s.logger.Warn("GenerateSlots: service=%d not found in catalog", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GenerateSlots: catalog error for service=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: GenerateSlots - catalog error: %v", ErrInternal, err)
	}

	capacity := service.MaxBookingsPerSlot
	if capacity < domain.MinSlotCapacity {
		capacity = domain.MinSlotCapacity
	}
	if capacity > domain.MaxSlotCapacity {
		capacity = domain.MaxSlotCapacity
	}

	existing, err := s.slotRepo.ExistingStartTimes(ctx, req.ServiceID, req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Error("GenerateSlots: existing slots lookup failed: %v", err)
		return nil, fmt.Errorf("%w: GenerateSlots - existing slots lookup: %v", ErrInternal, err)
	}

	var toCreate []*domain.Slot
	for day := req.StartDate; !day.After(req.EndDate); day = day.AddDate(0, 0, 1) {
		for _, window := range domain.DefaultSlotTemplate {
			if _, ok := existing[slotRepo.DedupKey(day, window.Start)]; ok {
				continue
			}
			toCreate = append(toCreate, &domain.Slot{
				ServiceID:       req.ServiceID,
				Date:            day,
				StartTime:       window.Start,
				EndTime:         window.End,
				MaxCapacity:     capacity,
				CurrentBookings: 0,
				IsActive:        true,
			})
		}
	}

	if len(toCreate) == 0 {
		s.logger.Info("GenerateSlots: nothing to create for service=%d", req.ServiceID)
		return &models.GenerateSlotsResponse{Created: []*models.SlotResponse{}, Total: 0}, nil
	}

	// Вся пачка создается в одной транзакции: либо все новые слоты,
	// либо ни одного. Гонка с параллельной генерацией упирается
	// в уникальный индекс и откатывает всю пачку.
	created := make([]*models.SlotResponse, 0, len(toCreate))
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		for _, slot := range toCreate {
			saved, err := s.slotRepo.Create(ctx, slot)
			if err != nil {
				return err
			}
			created = append(created, models.FromDomainSlot(saved))
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, slotRepo.ErrDuplicateSlot) {
			s.logger.Warn("GenerateSlots: concurrent generation detected for service=%d", req.ServiceID)
			return nil, ErrDuplicateSlot
		}
		s.logger.Error("GenerateSlots: transaction failed for service=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: GenerateSlots - transaction failed: %v", ErrInternal, err)
	}

	s.logger.Info("GenerateSlots: created %d slots for service=%d", len(created), req.ServiceID)
	return &models.GenerateSlotsResponse{Created: created, Total: len(created)}, nil
}

// enrichWithCatalog добавляет имя и категорию услуги из каталога.
// Недоступность каталога не ломает ответ - поля остаются пустыми.
func (s *Service) enrichWithCatalog(ctx context.Context, resp *models.SlotResponse, serviceID int64) {
	service, err := s.catalogClient.GetService(ctx, serviceID)
	if err != nil {
		s.logger.Warn("enrichWithCatalog: catalog lookup failed for service=%d: %v", serviceID, err)
		return
	}
	resp.ServiceName = service.Name
	resp.ServiceCategory = service.Category
}
