package get_available_times

import (
	"context"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
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

// MetricsRecorder метрики доступности
type MetricsRecorder interface {
	ObserveAvailableTimes(masterID int64, count int)
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
