package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/internal/notifications"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUID(ctx context.Context, uid uuid.UUID) (*domain.Booking, error)
	GetByUIDForUpdate(ctx context.Context, uid uuid.UUID) (*domain.Booking, error)
	GetByClientPhone(ctx context.Context, phone string, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByMasterWithFilter(ctx context.Context, filter domain.MasterBookingsFilter) ([]*domain.Booking, error)
	UpdateState(ctx context.Context, booking *domain.Booking) error
	MarkReminderSent(ctx context.Context, id int64, sentAt time.Time) (bool, error)
}

// CatalogRepository интерфейс репозитория мастеров
type CatalogRepository interface {
	GetMaster(ctx context.Context, id int64) (*domain.Master, error)
}

// Notifier уведомления клиента о решении мастера
type Notifier interface {
	NotifyClient(ctx context.Context, b *domain.Booking, kind notifications.Kind) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
