package update_settings

import (
	"context"

	"github.com/m04kA/SalonBookingService/internal/service/settings/models"
)

type SettingsService interface {
	ReplaceWorkingHours(ctx context.Context, req *models.WorkingHoursRequest) (*models.WorkingHoursResponse, error)
	ReplaceReminderSettings(ctx context.Context, req *models.ReminderSettingsRequest) (*models.ReminderSettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
