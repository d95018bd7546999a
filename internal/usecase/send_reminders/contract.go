package send_reminders

import (
	"context"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListReminderCandidates(ctx context.Context) ([]*domain.Booking, error)
	MarkReminderSent(ctx context.Context, id int64, sentAt time.Time) (bool, error)
	RevertReminderSent(ctx context.Context, id int64, sentAt time.Time) (bool, error)
}

// SettingsRepository интерфейс репозитория настроек салона
type SettingsRepository interface {
	GetActiveReminderSettings(ctx context.Context) (*domain.ReminderSettings, error)
}

// Sender отправка напоминания клиенту по его каналу
type Sender interface {
	SendReminder(ctx context.Context, b *domain.Booking) error
}

// MetricsRecorder метрики рассылки напоминаний
type MetricsRecorder interface {
	ReminderSent(channel string)
	ReminderFailed(channel string)
	ReminderSkipped(channel string)
	ObserveReminderRun(result string, duration time.Duration)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
