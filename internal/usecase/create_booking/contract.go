package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByMasterWithFilter(ctx context.Context, filter domain.MasterBookingsFilter) ([]*domain.Booking, error)
}

// CatalogRepository интерфейс репозитория мастеров и процедур
type CatalogRepository interface {
	GetMaster(ctx context.Context, id int64) (*domain.Master, error)
	GetProcedure(ctx context.Context, id int64) (*domain.Procedure, error)
}

// SettingsRepository интерфейс репозитория настроек салона
type SettingsRepository interface {
	GetActiveWorkingHours(ctx context.Context) (*domain.WorkingHours, error)
}

// Notifier уведомление администратора о новой записи
type Notifier interface {
	NotifyAdminNewBooking(ctx context.Context, b *domain.Booking) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
