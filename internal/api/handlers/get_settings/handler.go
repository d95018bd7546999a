package get_settings

import (
	"net/http"

	"github.com/m04kA/SalonBookingService/internal/api/handlers"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleWorkingHours GET /api/v1/settings/working-hours
func (h *Handler) HandleWorkingHours(w http.ResponseWriter, r *http.Request) {
	wh, err := h.service.GetWorkingHours(r.Context())
	if err != nil {
		h.logger.Error("GET /settings/working-hours - Failed to get working hours: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, wh)
}

// HandleReminders GET /api/v1/settings/reminders
func (h *Handler) HandleReminders(w http.ResponseWriter, r *http.Request) {
	rs, err := h.service.GetReminderSettings(r.Context())
	if err != nil {
		h.logger.Error("GET /settings/reminders - Failed to get reminder settings: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rs)
}
