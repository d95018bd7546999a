package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SalonBookingService/pkg/psqlbuilder"
)

const (
	workingHoursTable     = "working_hours_settings"
	reminderSettingsTable = "reminder_settings"
)

// Repository репозиторий настроек салона
// В каждой таблице активна не более одной записи (частичный уникальный индекс по is_active)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActiveWorkingHours получает активное рабочее время
// Нечисловой или неположительный шаг сетки заменяется значением по умолчанию
func (r *Repository) GetActiveWorkingHours(ctx context.Context) (*domain.WorkingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"start_time",
		"end_time",
		"time_interval",
		"is_active",
		"created_at",
	).
		From(workingHoursTable).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveWorkingHours - build select query: %v", ErrBuildQuery, err)
	}

	var wh domain.WorkingHours
	var interval sql.NullString
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&wh.ID,
		&wh.Start,
		&wh.End,
		&interval,
		&wh.IsActive,
		&createdAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkingHoursNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveWorkingHours - scan working hours: %v", ErrScanRow, err)
	}

	wh.SlotInterval = ParseSlotInterval(interval)
	wh.CreatedAt = createdAt.Time

	return &wh, nil
}

// ReplaceWorkingHours деактивирует текущую запись и сохраняет новую
// Вызывать внутри транзакции: иначе между двумя запросами нет активной записи
func (r *Repository) ReplaceWorkingHours(ctx context.Context, wh *domain.WorkingHours) (*domain.WorkingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if err := r.deactivate(ctx, executor, workingHoursTable, "ReplaceWorkingHours"); err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert(workingHoursTable).
		Columns("start_time", "end_time", "time_interval", "is_active").
		Values(wh.Start, wh.End, wh.SlotInterval, true).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceWorkingHours - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&wh.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: ReplaceWorkingHours - execute insert: %w", ErrExecQuery, err)
	}

	wh.IsActive = true
	wh.IsDefault = false
	wh.CreatedAt = createdAt.Time

	return wh, nil
}

// GetActiveReminderSettings получает активные настройки напоминаний
func (r *Repository) GetActiveReminderSettings(ctx context.Context) (*domain.ReminderSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"reminder_hours",
		"is_active",
		"created_at",
	).
		From(reminderSettingsTable).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveReminderSettings - build select query: %v", ErrBuildQuery, err)
	}

	var settings domain.ReminderSettings
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.ID,
		&settings.LeadHours,
		&settings.IsActive,
		&createdAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReminderSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveReminderSettings - scan settings: %v", ErrScanRow, err)
	}

	settings.CreatedAt = createdAt.Time

	return &settings, nil
}

// ReplaceReminderSettings деактивирует текущие настройки и сохраняет новые
// Вызывать внутри транзакции
func (r *Repository) ReplaceReminderSettings(ctx context.Context, settings *domain.ReminderSettings) (*domain.ReminderSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if err := r.deactivate(ctx, executor, reminderSettingsTable, "ReplaceReminderSettings"); err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert(reminderSettingsTable).
		Columns("reminder_hours", "is_active").
		Values(settings.LeadHours, true).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceReminderSettings - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&settings.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: ReplaceReminderSettings - execute insert: %w", ErrExecQuery, err)
	}

	settings.IsActive = true
	settings.IsDefault = false
	settings.CreatedAt = createdAt.Time

	return settings, nil
}

func (r *Repository) deactivate(ctx context.Context, executor dbmetrics.DBExecutor, table, op string) error {
	query, args, err := psqlbuilder.Update(table).
		Set("is_active", false).
		Where(squirrel.Eq{"is_active": true}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build deactivate query: %v", ErrBuildQuery, op, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %s - deactivate current: %w", ErrExecQuery, op, err)
	}

	return nil
}

// ParseSlotInterval разбирает шаг сетки; пустое, нечисловое или неположительное
// значение заменяется шагом по умолчанию
func ParseSlotInterval(raw sql.NullString) int {
	if !raw.Valid {
		return domain.DefaultSlotIntervalMinutes
	}
	interval, err := strconv.Atoi(strings.TrimSpace(raw.String))
	if err != nil || interval <= 0 {
		return domain.DefaultSlotIntervalMinutes
	}
	return interval
}
