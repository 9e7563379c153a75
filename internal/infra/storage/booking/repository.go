package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/smartwash/CW-SlotBookingService/internal/domain"
	"github.com/smartwash/CW-SlotBookingService/pkg/dbmetrics"
	"github.com/smartwash/CW-SlotBookingService/pkg/psqlbuilder"
)

const pgUniqueViolation = "23505"

var bookingColumns = []string{
	"id",
	"reference",
	"user_id",
	"service_id",
	"slot_id",
	"address_id",
	"vehicle_type",
	"scheduled_date",
	"scheduled_time",
	"status",
	"payment_status",
	"subtotal",
	"discount_amount",
	"tax_amount",
	"total_amount",
	"applied_offer_code",
	"notes",
	"created_at",
	"updated_at",
	"completed_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Вызывается только внутри unit of work менеджера бронирований - вместе
// с резервированием вместимости слота (dbmetrics.GetExecutor достает
// транзакцию из контекста).
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"reference",
			"user_id",
			"service_id",
			"slot_id",
			"address_id",
			"vehicle_type",
			"scheduled_date",
			"scheduled_time",
			"status",
			"payment_status",
			"subtotal",
			"discount_amount",
			"tax_amount",
			"total_amount",
			"applied_offer_code",
			"notes",
		).
		Values(
			b.Reference,
			b.UserID,
			b.ServiceID,
			b.SlotID,
			b.AddressID,
			b.VehicleType,
			b.ScheduledDate,
			b.ScheduledTime,
			b.Status,
			b.PaymentStatus,
			b.Subtotal,
			b.DiscountAmount,
			b.TaxAmount,
			b.TotalAmount,
			b.AppliedOfferCode,
			b.Notes,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&createdAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return nil, ErrDuplicateReference
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanBooking(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// Cancel переводит бронирование в статус cancelled.
// Guard в WHERE: отменяются только pending/confirmed бронирования,
// терминальные статусы не перезаписываются даже при гонке.
func (r *Repository) Cancel(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.BookingStatusCancelled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id": id,
			"status": []string{
				string(domain.BookingStatusPending),
				string(domain.BookingStatusConfirmed),
			},
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// CountActiveBySlot подсчитывает неотмененные бронирования слота.
// Используется для сверки инварианта счетчика в интеграционных проверках.
func (r *Repository) CountActiveBySlot(ctx context.Context, slotID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"slot_id": slotID}).
		Where(squirrel.NotEq{"status": string(domain.BookingStatusCancelled)}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySlot - scan: %v", ErrScanRow, err)
	}

	return count, nil
}

func (r *Repository) scanBooking(row *sql.Row, method string) (*domain.Booking, error) {
	var b domain.Booking
	var createdAt, updatedAt, completedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.Reference,
		&b.UserID,
		&b.ServiceID,
		&b.SlotID,
		&b.AddressID,
		&b.VehicleType,
		&b.ScheduledDate,
		&b.ScheduledTime,
		&b.Status,
		&b.PaymentStatus,
		&b.Subtotal,
		&b.DiscountAmount,
		&b.TaxAmount,
		&b.TotalAmount,
		&b.AppliedOfferCode,
		&b.Notes,
		&createdAt,
		&updatedAt,
		&completedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, method, err)
	}

	b.CreatedAt = createdAt.Time
	if updatedAt.Valid {
		b.UpdatedAt = &updatedAt.Time
	}
	if completedAt.Valid {
		b.CompletedAt = &completedAt.Time
	}

	return &b, nil
}
