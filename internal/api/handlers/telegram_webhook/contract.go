package telegram_webhook

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SalonBookingService/internal/service/bookings/models"
)

// BookingService действия с записью из Telegram
type BookingService interface {
	ConfirmFromReminder(ctx context.Context, uid uuid.UUID) (*models.BookingResponse, error)
	CancelFromReminder(ctx context.Context, uid uuid.UUID) (*models.BookingResponse, error)
	ConfirmByMaster(ctx context.Context, uid uuid.UUID, chatID int64) (*models.BookingResponse, error)
	CancelByMaster(ctx context.Context, uid uuid.UUID, chatID int64) (*models.BookingResponse, error)
}

// ChatRepository привязка телефона клиента к чату
type ChatRepository interface {
	Upsert(ctx context.Context, phone string, chatID int64) error
}

// Bot исходящие сообщения бота
type Bot interface {
	AnswerCallback(callbackID, text string) error
	RequestContact(ctx context.Context, chatID int64, text string) error
	Reply(ctx context.Context, chatID int64, text string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
