package scheduler

import (
	"context"
	"time"

	sendReminders "github.com/m04kA/SalonBookingService/internal/usecase/send_reminders"
)

// ReminderJob один прогон рассылки напоминаний
type ReminderJob interface {
	Execute(ctx context.Context) (*sendReminders.Result, error)
}

// Locker блокировка прогона между экземплярами сервиса
type Locker interface {
	TryLock(ctx context.Context) (release func(context.Context) error, acquired bool, err error)
	TTL() time.Duration
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
