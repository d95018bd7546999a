package models

import (
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// WorkingHoursRequest запрос на замену рабочего времени
type WorkingHoursRequest struct {
	StartTime           string `json:"startTime"`           // "10:00"
	EndTime             string `json:"endTime"`             // "20:00"
	SlotIntervalMinutes int    `json:"slotIntervalMinutes"` // шаг сетки
}

// WorkingHoursResponse активное рабочее время
type WorkingHoursResponse struct {
	ID                  int64      `json:"id,omitempty"`
	StartTime           string     `json:"startTime"`
	EndTime             string     `json:"endTime"`
	SlotIntervalMinutes int        `json:"slotIntervalMinutes"`
	IsDefault           bool       `json:"isDefault"` // записи в БД нет, показаны значения по умолчанию
	CreatedAt           *time.Time `json:"createdAt,omitempty"`
}

// ReminderSettingsRequest запрос на замену настроек напоминаний
type ReminderSettingsRequest struct {
	LeadHours int `json:"leadHours"`
}

// ReminderSettingsResponse активные настройки напоминаний
type ReminderSettingsResponse struct {
	ID        int64      `json:"id,omitempty"`
	LeadHours int        `json:"leadHours"`
	IsDefault bool       `json:"isDefault"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// FromDomainWorkingHours конвертирует domain модель в DTO
func FromDomainWorkingHours(wh *domain.WorkingHours) *WorkingHoursResponse {
	resp := &WorkingHoursResponse{
		ID:                  wh.ID,
		StartTime:           wh.Start.String(),
		EndTime:             wh.End.String(),
		SlotIntervalMinutes: wh.SlotInterval,
		IsDefault:           wh.IsDefault,
	}
	if !wh.CreatedAt.IsZero() {
		createdAt := wh.CreatedAt
		resp.CreatedAt = &createdAt
	}
	return resp
}

// FromDomainReminderSettings конвертирует domain модель в DTO
func FromDomainReminderSettings(rs *domain.ReminderSettings) *ReminderSettingsResponse {
	resp := &ReminderSettingsResponse{
		ID:        rs.ID,
		LeadHours: rs.LeadHours,
		IsDefault: rs.IsDefault,
	}
	if !rs.CreatedAt.IsZero() {
		createdAt := rs.CreatedAt
		resp.CreatedAt = &createdAt
	}
	return resp
}
