package domain

import (
	"time"

	"github.com/m04kA/SalonBookingService/pkg/types"
)

// WorkingHours рабочее время салона; активна не более одной записи
type WorkingHours struct {
	ID           int64
	Start        types.TimeString
	End          types.TimeString
	SlotInterval int // шаг сетки в минутах
	IsActive     bool
	IsDefault    bool // значения по умолчанию, записи в БД нет
	CreatedAt    time.Time
}

// DefaultWorkingHours 10:00-20:00 с шагом 30 минут
func DefaultWorkingHours() *WorkingHours {
	return &WorkingHours{
		Start:        DefaultWorkingStart,
		End:          DefaultWorkingEnd,
		SlotInterval: DefaultSlotIntervalMinutes,
		IsActive:     true,
		IsDefault:    true,
	}
}

// Normalize подставляет значения по умолчанию вместо некорректных
// Некорректный шаг заменяется только шагом, некорректные границы заменяют обе границы
func (w *WorkingHours) Normalize() *WorkingHours {
	if w == nil {
		return DefaultWorkingHours()
	}

	normalized := *w
	if normalized.SlotInterval <= 0 || normalized.SlotInterval > MaxSlotIntervalMinutes {
		normalized.SlotInterval = DefaultSlotIntervalMinutes
	}
	if normalized.Start.Validate() != nil || normalized.End.Validate() != nil ||
		!normalized.Start.IsBefore(normalized.End) {
		normalized.Start = DefaultWorkingStart
		normalized.End = DefaultWorkingEnd
	}
	return &normalized
}

// ReminderSettings настройки напоминаний; активна не более одной записи
type ReminderSettings struct {
	ID        int64
	LeadHours int // за сколько часов до визита отправлять напоминание
	IsActive  bool
	IsDefault bool
	CreatedAt time.Time
}

// LeadDuration время упреждения
func (r *ReminderSettings) LeadDuration() time.Duration {
	return time.Duration(r.LeadHours) * time.Hour
}
