package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SalonBookingService/pkg/psqlbuilder"
)

// Repository справочник мастеров и процедур (только чтение)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочников
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetMaster получает мастера вместе со списком его процедур
func (r *Repository) GetMaster(ctx context.Context, id int64) (*domain.Master, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"m.id",
		"m.name",
		"m.phone",
		"m.telegram_chat_id",
		"m.is_active",
		"COALESCE(array_agg(mp.procedure_id) FILTER (WHERE mp.procedure_id IS NOT NULL), '{}')",
	).
		From("masters m").
		LeftJoin("master_procedures mp ON mp.master_id = m.id").
		Where(squirrel.Eq{"m.id": id}).
		GroupBy("m.id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetMaster - build select query: %v", ErrBuildQuery, err)
	}

	var master domain.Master
	var procedureIDs pq.Int64Array

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&master.ID,
		&master.Name,
		&master.Phone,
		&master.TelegramChatID,
		&master.IsActive,
		&procedureIDs,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMasterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetMaster - scan master: %v", ErrScanRow, err)
	}

	master.ProcedureIDs = []int64(procedureIDs)

	return &master, nil
}

// GetProcedure получает процедуру по ID
func (r *Repository) GetProcedure(ctx context.Context, id int64) (*domain.Procedure, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"title",
		"duration_minutes",
		"price",
		"is_available",
	).
		From("procedures").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetProcedure - build select query: %v", ErrBuildQuery, err)
	}

	var procedure domain.Procedure
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&procedure.ID,
		&procedure.Title,
		&procedure.DurationMinutes,
		&procedure.Price,
		&procedure.IsAvailable,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProcedureNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetProcedure - scan procedure: %v", ErrScanRow, err)
	}

	return &procedure, nil
}
