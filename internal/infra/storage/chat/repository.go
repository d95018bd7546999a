package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SalonBookingService/pkg/psqlbuilder"
)

var (
	// ErrChatNotFound возвращается, когда для телефона нет чата Telegram
	ErrChatNotFound = errors.New("chat.repository: chat not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("chat.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("chat.repository: failed to execute query")
)

// Repository связи телефонов клиентов с чатами Telegram
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория чатов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert сохраняет чат для телефона, перезаписывая прежний
func (r *Repository) Upsert(ctx context.Context, phone string, chatID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("client_chats").
		Columns("phone", "chat_id").
		Values(phone, chatID).
		Suffix("ON CONFLICT (phone) DO UPDATE SET chat_id = EXCLUDED.chat_id, updated_at = NOW()").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetChatIDByPhone возвращает чат Telegram клиента
func (r *Repository) GetChatIDByPhone(ctx context.Context, phone string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("chat_id").
		From("client_chats").
		Where(squirrel.Eq{"phone": phone}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: GetChatIDByPhone - build select query: %v", ErrBuildQuery, err)
	}

	var chatID int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrChatNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: GetChatIDByPhone - scan chat: %v", ErrExecQuery, err)
	}

	return chatID, nil
}
