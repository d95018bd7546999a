package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SalonBookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusPaid      BookingStatus = "paid"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// IsValid returns true for known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPaid, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// NotificationMethod канал, которым клиент получает уведомления
type NotificationMethod string

const (
	NotificationTelegram NotificationMethod = "telegram"
	NotificationEmail    NotificationMethod = "email"
)

// IsValid returns true for supported channels
func (m NotificationMethod) IsValid() bool {
	return m == NotificationTelegram || m == NotificationEmail
}

// ReminderState состояние напоминания, выводится из флагов бронирования
type ReminderState string

const (
	ReminderNotScheduled ReminderState = "not_scheduled"
	ReminderScheduled    ReminderState = "scheduled"
	ReminderSent         ReminderState = "sent"
	ReminderResolved     ReminderState = "resolved"
)

// Booking запись клиента к мастеру на процедуру
type Booking struct {
	ID              int64
	UID             uuid.UUID // публичный идентификатор (кнопки Telegram, ссылки)
	MasterID        int64
	ProcedureID     int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int // длительность процедуры на момент записи
	Status          BookingStatus

	ClientName         string
	ClientPhone        string
	ClientEmail        *string
	NotificationMethod NotificationMethod
	Notes              *string

	// Напоминание
	NeedsConfirmation bool
	ReminderSent      bool
	ReminderSentAt    *time.Time

	ConfirmedAt *time.Time
	CancelledAt *time.Time

	// Денормализованные данные для сообщений
	MasterName     string
	ProcedureTitle string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlocking returns true if the booking occupies its time interval
func (b *Booking) IsBlocking() bool {
	for _, s := range BlockingStatuses {
		if b.Status == s {
			return true
		}
	}
	return false
}

// IsReminderEligible returns true if the status allows a confirmation reminder
func (b *Booking) IsReminderEligible() bool {
	for _, s := range ReminderEligibleStatuses {
		if b.Status == s {
			return true
		}
	}
	return false
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed || b.Status == StatusPaid
}

// CanBeConfirmed returns true if the master can still confirm the booking
func (b *Booking) CanBeConfirmed() bool {
	return b.Status == StatusPending
}

// Interval returns the occupied interval in minutes from midnight [start, end)
func (b *Booking) Interval() BusyInterval {
	start := b.StartTime.Minutes()
	return BusyInterval{Start: start, End: start + b.DurationMinutes}
}

// StartAt combines booking date and start time in the given location
func (b *Booking) StartAt(loc *time.Location) time.Time {
	return b.StartTime.OnDate(b.BookingDate, loc)
}

// ReminderState вычисляет состояние напоминания
func (b *Booking) ReminderState() ReminderState {
	switch {
	case b.ReminderSent:
		return ReminderSent
	case b.NeedsConfirmation:
		return ReminderScheduled
	case b.IsReminderEligible() && b.ConfirmedAt != nil:
		return ReminderResolved
	default:
		return ReminderNotScheduled
	}
}

// ScheduleReminder переводит напоминание в Scheduled
// Уже отправленное напоминание не сбрасывается
func (b *Booking) ScheduleReminder() bool {
	if b.ReminderSent {
		return false
	}
	b.NeedsConfirmation = true
	b.ReminderSentAt = nil
	return true
}

// MarkReminderSent фиксирует отправку напоминания
func (b *Booking) MarkReminderSent(at time.Time) bool {
	if b.ReminderSent {
		return false
	}
	b.ReminderSent = true
	b.ReminderSentAt = &at
	return true
}

// ConfirmByClient подтверждение визита клиентом из напоминания
func (b *Booking) ConfirmByClient(at time.Time) {
	b.NeedsConfirmation = false
	b.Status = StatusConfirmed
	if b.ConfirmedAt == nil {
		b.ConfirmedAt = &at
	}
}

// CancelByClient отмена визита клиентом из напоминания
func (b *Booking) CancelByClient(at time.Time) {
	b.NeedsConfirmation = false
	b.Status = StatusCancelled
	b.CancelledAt = &at
}

// BusyInterval занятый интервал в минутах от полуночи, полуоткрытый [Start, End)
type BusyInterval struct {
	Start int
	End   int
}

// Overlaps returns true if the intervals intersect; touching ends do not overlap
func (i BusyInterval) Overlaps(other BusyInterval) bool {
	return i.Start < other.End && i.End > other.Start
}

// MasterBookingsFilter фильтр для получения бронирований мастера
type MasterBookingsFilter struct {
	MasterID        int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли неблокирующие бронирования (отмененные, завершенные)
	ForUpdate       bool           // Блокировать строки (только внутри транзакции)
}
