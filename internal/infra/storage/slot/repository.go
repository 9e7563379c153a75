package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/smartwash/CW-SlotBookingService/internal/domain"
	"github.com/smartwash/CW-SlotBookingService/pkg/dbmetrics"
	"github.com/smartwash/CW-SlotBookingService/pkg/psqlbuilder"
	"github.com/smartwash/CW-SlotBookingService/pkg/types"
)

// Коды ошибок PostgreSQL
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var slotColumns = []string{
	"id",
	"service_id",
	"date",
	"start_time",
	"end_time",
	"max_capacity",
	"current_bookings",
	"is_active",
	"version",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый слот. Нарушение уникального индекса
// (date, service_id, start_time) маппится в ErrDuplicateSlot.
func (r *Repository) Create(ctx context.Context, s *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slots").
		Columns(
			"service_id",
			"date",
			"start_time",
			"end_time",
			"max_capacity",
			"current_bookings",
			"is_active",
		).
		Values(
			s.ServiceID,
			s.Date,
			s.StartTime,
			s.EndTime,
			s.MaxCapacity,
			s.CurrentBookings,
			s.IsActive,
		).
		Suffix("RETURNING id, version, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.Version,
		&createdAt,
	)

	if err != nil {
		if isPQError(err, pgUniqueViolation) {
			return nil, ErrDuplicateSlot
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time

	return s, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanSlot(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// GetByDateAndService получает все активные слоты услуги на конкретную дату,
// отсортированные по времени начала
func (r *Repository) GetByDateAndService(ctx context.Context, date time.Time, serviceID int64) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{
			"date":       dateOnly(date),
			"service_id": serviceID,
			"is_active":  true,
		}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByDateAndService - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDateAndService - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// ExistsByDedupKey проверяет существование слота по ключу дедупликации
// (date, service_id, start_time)
func (r *Repository) ExistsByDedupKey(ctx context.Context, date time.Time, serviceID int64, startTime types.TimeString) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("slots").
		Where(squirrel.Eq{
			"date":       dateOnly(date),
			"service_id": serviceID,
			"start_time": startTime,
		}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ExistsByDedupKey - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsByDedupKey - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

// ExistingStartTimes возвращает множество занятых пар (дата, время начала)
// услуги в диапазоне дат включительно. Используется генератором слотов
// для идемпотентного повторного запуска.
func (r *Repository) ExistingStartTimes(ctx context.Context, serviceID int64, startDate, endDate time.Time) (map[string]struct{}, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("date", "start_time").
		From("slots").
		Where(squirrel.Eq{"service_id": serviceID}).
		Where(squirrel.GtOrEq{"date": dateOnly(startDate)}).
		Where(squirrel.LtOrEq{"date": dateOnly(endDate)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ExistingStartTimes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ExistingStartTimes - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	existing := make(map[string]struct{})
	for rows.Next() {
		var date time.Time
		var startTime types.TimeString
		if err := rows.Scan(&date, &startTime); err != nil {
			return nil, fmt.Errorf("%w: ExistingStartTimes - scan row: %v", ErrScanRow, err)
		}
		existing[DedupKey(date, startTime)] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ExistingStartTimes - rows error: %v", ErrScanRow, err)
	}

	return existing, nil
}

// DedupKey строит ключ множества для пары (дата, время начала)
func DedupKey(date time.Time, startTime types.TimeString) string {
	return date.Format(domain.DateFormat) + "|" + startTime.String()
}

// Update перезаписывает время и вместимость слота.
// Guard прямо в запросе: слот с бронированиями не изменяется
// (current_bookings = 0 в WHERE). Version увеличивается.
func (r *Repository) Update(ctx context.Context, s *domain.Slot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("start_time", s.StartTime).
		Set("end_time", s.EndTime).
		Set("max_capacity", s.MaxCapacity).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": s.ID, "current_bookings": 0}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Либо слот не существует, либо появились бронирования - уточняем
		return r.resolveGuardFailure(ctx, s.ID)
	}

	return nil
}

// Delete физически удаляет слот без бронирований.
// Ограничение внешнего ключа bookings.slot_id (ON DELETE RESTRICT)
// страхует на уровне хранилища.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slots").
		Where(squirrel.Eq{"id": id, "current_bookings": 0}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isPQError(err, pgForeignKeyViolation) {
			return ErrSlotHasBookings
		}
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return r.resolveGuardFailure(ctx, id)
	}

	return nil
}

// ReserveCapacity атомарно занимает одно место в слоте.
// Compare-and-swap по version token: запись проходит только если слот
// не менялся с момента чтения и в нем осталась свободная вместимость.
// При несовпадении возвращает ErrVersionConflict - вызывающий код
// обязан откатить unit of work и перечитать состояние.
func (r *Repository) ReserveCapacity(ctx context.Context, id int64, version int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("current_bookings", squirrel.Expr("current_bookings + 1")).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "version": version}).
		Where(squirrel.Expr("current_bookings < max_capacity")).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReserveCapacity - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ReserveCapacity - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ReserveCapacity - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrVersionConflict
	}

	return nil
}

// ReleaseCapacity атомарно освобождает одно место в слоте.
// Если слот отсутствует или счетчик уже на нуле - no-op
// (отмена бронирования не должна падать из-за удаленного слота).
func (r *Repository) ReleaseCapacity(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("current_bookings", squirrel.Expr("current_bookings - 1")).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("current_bookings > 0")).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReleaseCapacity - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReleaseCapacity - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// resolveGuardFailure различает "слот не найден" и "слот с бронированиями"
// после неуспешного guarded UPDATE/DELETE
func (r *Repository) resolveGuardFailure(ctx context.Context, id int64) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			return ErrSlotNotFound
		}
		return err
	}
	if current.HasBookings() {
		return ErrSlotHasBookings
	}
	return fmt.Errorf("%w: guarded write affected no rows for slot id=%d", ErrExecQuery, id)
}

func (r *Repository) scanSlot(row *sql.Row, method string) (*domain.Slot, error) {
	var s domain.Slot
	var createdAt sql.NullTime
	var updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.ServiceID,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.MaxCapacity,
		&s.CurrentBookings,
		&s.IsActive,
		&s.Version,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan slot: %v", ErrScanRow, method, err)
	}

	s.CreatedAt = createdAt.Time
	if updatedAt.Valid {
		s.UpdatedAt = &updatedAt.Time
	}

	return &s, nil
}

func (r *Repository) scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)

	for rows.Next() {
		var s domain.Slot
		var createdAt sql.NullTime
		var updatedAt sql.NullTime

		err := rows.Scan(
			&s.ID,
			&s.ServiceID,
			&s.Date,
			&s.StartTime,
			&s.EndTime,
			&s.MaxCapacity,
			&s.CurrentBookings,
			&s.IsActive,
			&s.Version,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}

		s.CreatedAt = createdAt.Time
		if updatedAt.Valid {
			s.UpdatedAt = &updatedAt.Time
		}

		slots = append(slots, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// dateOnly обнуляет компонент времени у даты
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isPQError(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
