package slots

import (
	"context"
	"time"

	"github.com/smartwash/CW-SlotBookingService/internal/domain"
	"github.com/smartwash/CW-SlotBookingService/internal/integrations/catalogservice"
	"github.com/smartwash/CW-SlotBookingService/pkg/types"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, s *domain.Slot) (*domain.Slot, error)
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	GetByDateAndService(ctx context.Context, date time.Time, serviceID int64) ([]*domain.Slot, error)
	ExistsByDedupKey(ctx context.Context, date time.Time, serviceID int64, startTime types.TimeString) (bool, error)
	ExistingStartTimes(ctx context.Context, serviceID int64, startDate, endDate time.Time) (map[string]struct{}, error)
	Update(ctx context.Context, s *domain.Slot) error
	Delete(ctx context.Context, id int64) error
}

// CatalogClient клиент каталога услуг
type CatalogClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
}

// TransactionManager менеджер транзакций
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
