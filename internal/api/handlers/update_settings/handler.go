package update_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SalonBookingService/internal/service/settings"
	"github.com/m04kA/SalonBookingService/internal/service/settings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные значения настроек"
	msgConcurrentUpdate   = "настройки изменяются другим запросом, повторите попытку"
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

// HandleWorkingHours PUT /api/v1/settings/working-hours
func (h *Handler) HandleWorkingHours(w http.ResponseWriter, r *http.Request) {
	var req models.WorkingHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /settings/working-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	wh, err := h.service.ReplaceWorkingHours(r.Context(), &req)
	if err != nil {
		h.respondError(w, "PUT /settings/working-hours", err)
		return
	}

	h.logger.Info("PUT /settings/working-hours - Working hours replaced: %s-%s/%d",
		wh.StartTime, wh.EndTime, wh.SlotIntervalMinutes)
	handlers.RespondJSON(w, http.StatusOK, wh)
}

// HandleReminders PUT /api/v1/settings/reminders
func (h *Handler) HandleReminders(w http.ResponseWriter, r *http.Request) {
	var req models.ReminderSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /settings/reminders - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	rs, err := h.service.ReplaceReminderSettings(r.Context(), &req)
	if err != nil {
		h.respondError(w, "PUT /settings/reminders", err)
		return
	}

	h.logger.Info("PUT /settings/reminders - Reminder settings replaced: leadHours=%d", rs.LeadHours)
	handlers.RespondJSON(w, http.StatusOK, rs)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, settings.ErrInvalidInput):
		h.logger.Warn("%s - Invalid data: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidData)

	case errors.Is(err, settings.ErrConcurrentUpdate):
		h.logger.Warn("%s - Concurrent update", route)
		handlers.RespondConflict(w, msgConcurrentUpdate)

	default:
		h.logger.Error("%s - Failed to replace settings: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
