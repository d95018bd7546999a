package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SalonBookingService/pkg/psqlbuilder"
)

// pqUniqueViolation код ошибки PostgreSQL unique_violation
const pqUniqueViolation = "23505"

// bookingColumns колонки для чтения бронирования вместе с именем мастера и названием процедуры
var bookingColumns = []string{
	"b.id",
	"b.booking_uid",
	"b.master_id",
	"b.procedure_id",
	"b.booking_date",
	"b.booking_time",
	"b.duration_minutes",
	"b.status",
	"b.client_name",
	"b.client_phone",
	"b.client_email",
	"b.notification_method",
	"b.notes",
	"b.needs_confirmation",
	"b.reminder_sent",
	"b.reminder_sent_at",
	"b.confirmed_at",
	"b.cancelled_at",
	"COALESCE(m.name, '')",
	"COALESCE(p.title, '')",
	"b.created_at",
	"b.updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
// Нарушение уникального индекса по времени мастера возвращается как ErrSlotNotAvailable
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if booking.UID == uuid.Nil {
		booking.UID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"booking_uid",
			"master_id",
			"procedure_id",
			"booking_date",
			"booking_time",
			"duration_minutes",
			"status",
			"client_name",
			"client_phone",
			"client_email",
			"notification_method",
			"notes",
			"needs_confirmation",
			"reminder_sent",
		).
		Values(
			booking.UID,
			booking.MasterID,
			booking.ProcedureID,
			booking.BookingDate.Format(domain.DateFormat),
			booking.StartTime,
			booking.DurationMinutes,
			booking.Status,
			booking.ClientName,
			booking.ClientPhone,
			booking.ClientEmail,
			booking.NotificationMethod,
			booking.Notes,
			booking.NeedsConfirmation,
			false,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: Create - master=%d date=%s time=%s",
				ErrSlotNotAvailable, booking.MasterID, booking.BookingDate.Format(domain.DateFormat), booking.StartTime)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.ReminderSent = false
	booking.ReminderSentAt = nil
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"b.id": id}, false)
}

// GetByUID получает бронирование по публичному идентификатору
func (r *Repository) GetByUID(ctx context.Context, uid uuid.UUID) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByUID", squirrel.Eq{"b.booking_uid": uid}, false)
}

// GetByUIDForUpdate получает бронирование и блокирует строку до конца транзакции
// Вне транзакции работает как GetByUID
func (r *Repository) GetByUIDForUpdate(ctx context.Context, uid uuid.UUID) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByUIDForUpdate", squirrel.Eq{"b.booking_uid": uid}, true)
}

// GetByClientPhone получает историю бронирований клиента
// Опционально фильтрует по статусу
func (r *Repository) GetByClientPhone(ctx context.Context, phone string, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := selectBookings().
		Where(squirrel.Eq{"b.client_phone": phone}).
		OrderBy("b.booking_date DESC", "b.booking_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClientPhone - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClientPhone - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByMasterWithFilter получает бронирования мастера с фильтрацией
// Поддерживает фильтрацию по:
// - Периоду (StartDate, EndDate) - опционально
// - Статусу (Status) - опционально
// - Включению неблокирующих бронирований (IncludeInactive)
//
// С ForUpdate внутри транзакции строки блокируются (FOR UPDATE OF b),
// это используется при создании бронирования для повторной проверки пересечений
func (r *Repository) GetByMasterWithFilter(ctx context.Context, filter domain.MasterBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := selectBookings().
		Where(squirrel.Eq{"b.master_id": filter.MasterID})

	// Фильтрация по периоду
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"b.booking_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"b.booking_date": filter.EndDate.Format(domain.DateFormat)})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": domain.StatusStrings(domain.BlockingStatuses)})
	}

	selectBuilder = selectBuilder.OrderBy("b.booking_date ASC", "b.booking_time ASC")

	if filter.ForUpdate && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByMasterWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByMasterWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// ListReminderCandidates получает бронирования, ожидающие напоминания:
// статус pending/confirmed, напоминание не отправлено и требуется подтверждение
func (r *Repository) ListReminderCandidates(ctx context.Context) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBookings().
		Where(squirrel.Eq{
			"b.status":             domain.StatusStrings(domain.ReminderEligibleStatuses),
			"b.reminder_sent":      false,
			"b.needs_confirmation": true,
		}).
		OrderBy("b.booking_date ASC", "b.booking_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListReminderCandidates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListReminderCandidates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// MarkReminderSent атомарно помечает напоминание отправленным
// sentAt обрезается до микросекунд, с точностью которых хранит TIMESTAMPTZ
// Обновление выполняется только если напоминание ещё не отправлено и ждёт подтверждения.
// Возвращает false, если условие не выполнено (напоминание уже захвачено или разрешено)
func (r *Repository) MarkReminderSent(ctx context.Context, id int64, sentAt time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	sentAt = sentAt.Truncate(time.Microsecond)

	query, args, err := psqlbuilder.Update("bookings").
		Set("reminder_sent", true).
		Set("reminder_sent_at", sentAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":                 id,
			"reminder_sent":      false,
			"needs_confirmation": true,
			"status":             domain.StatusStrings(domain.ReminderEligibleStatuses),
		}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: MarkReminderSent - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, "MarkReminderSent", query, args)
}

// RevertReminderSent снимает отметку об отправке, поставленную MarkReminderSent с тем же sentAt
// Используется, когда отправка после захвата не удалась
func (r *Repository) RevertReminderSent(ctx context.Context, id int64, sentAt time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	sentAt = sentAt.Truncate(time.Microsecond)

	query, args, err := psqlbuilder.Update("bookings").
		Set("reminder_sent", false).
		Set("reminder_sent_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":               id,
			"reminder_sent":    true,
			"reminder_sent_at": sentAt,
		}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: RevertReminderSent - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, "RevertReminderSent", query, args)
}

// UpdateState сохраняет статус и поля подтверждения бронирования
// Поля reminder_sent и reminder_sent_at здесь не меняются: ими управляют только
// MarkReminderSent и RevertReminderSent
func (r *Repository) UpdateState(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", booking.Status).
		Set("needs_confirmation", booking.NeedsConfirmation).
		Set("confirmed_at", booking.ConfirmedAt).
		Set("cancelled_at", booking.CancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateState - build update query: %v", ErrBuildQuery, err)
	}

	updated, err := r.execConditional(ctx, executor, "UpdateState", query, args)
	if err != nil {
		return err
	}
	if !updated {
		return ErrBookingNotFound
	}

	return nil
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer, forUpdate bool) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := selectBookings().Where(where)
	if forUpdate && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
	}

	return booking, nil
}

func (r *Repository) execConditional(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) (bool, error) {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	return rowsAffected > 0, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.UID,
		&booking.MasterID,
		&booking.ProcedureID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.DurationMinutes,
		&booking.Status,
		&booking.ClientName,
		&booking.ClientPhone,
		&booking.ClientEmail,
		&booking.NotificationMethod,
		&booking.Notes,
		&booking.NeedsConfirmation,
		&booking.ReminderSent,
		&booking.ReminderSentAt,
		&booking.ConfirmedAt,
		&booking.CancelledAt,
		&booking.MasterName,
		&booking.ProcedureTitle,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func selectBookings() squirrel.SelectBuilder {
	return psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		LeftJoin("masters m ON m.id = b.master_id").
		LeftJoin("procedures p ON p.id = b.procedure_id")
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
