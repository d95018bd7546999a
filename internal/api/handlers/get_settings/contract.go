package get_settings

import (
	"context"

	"github.com/m04kA/SalonBookingService/internal/service/settings/models"
)

type SettingsService interface {
	GetWorkingHours(ctx context.Context) (*models.WorkingHoursResponse, error)
	GetReminderSettings(ctx context.Context) (*models.ReminderSettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
