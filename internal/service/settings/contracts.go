package settings

import (
	"context"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек салона
type SettingsRepository interface {
	GetActiveWorkingHours(ctx context.Context) (*domain.WorkingHours, error)
	ReplaceWorkingHours(ctx context.Context, wh *domain.WorkingHours) (*domain.WorkingHours, error)
	GetActiveReminderSettings(ctx context.Context) (*domain.ReminderSettings, error)
	ReplaceReminderSettings(ctx context.Context, settings *domain.ReminderSettings) (*domain.ReminderSettings, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
