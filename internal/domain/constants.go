package domain

import "github.com/m04kA/SalonBookingService/pkg/types"

// Default working hours
const (
	DefaultWorkingStart types.TimeString = "10:00"
	DefaultWorkingEnd   types.TimeString = "20:00"
)

// Default configuration values
const (
	DefaultSlotIntervalMinutes      = 30
	DefaultProcedureDurationMinutes = 30
	DefaultReminderLeadHours        = 24
	DefaultMaxBookingDaysAhead      = 90
)

// Business validation constants
const (
	MaxSlotIntervalMinutes = 480 // 8 hours
	MaxReminderLeadHours   = 168 // 1 week
	MaxClientNameLength    = 100
	MaxNotesLength         = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BlockingStatuses статусы, при которых запись занимает время мастера
var BlockingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusPaid,
}

// ReminderEligibleStatuses статусы, для которых отправляется напоминание
var ReminderEligibleStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// StatusStrings конвертирует статусы в строки для SQL
func StatusStrings(statuses []BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
