package reminders

import (
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// DueAt момент, начиная с которого напоминание считается к отправке:
// начало визита в часовом поясе салона минус lead
func DueAt(b *domain.Booking, lead time.Duration, loc *time.Location) time.Time {
	return b.StartAt(loc).Add(-lead)
}

// IsCandidate true, если бронирование ещё ждёт напоминания
func IsCandidate(b *domain.Booking) bool {
	return b.IsReminderEligible() && !b.ReminderSent && b.NeedsConfirmation
}

// IsDue true, если напоминание пора отправлять (now >= DueAt)
func IsDue(b *domain.Booking, lead time.Duration, now time.Time, loc *time.Location) bool {
	return !now.Before(DueAt(b, lead, loc))
}

// SelectDue отбирает кандидатов, для которых наступило время напоминания
// Порядок результата совпадает с порядком входа, каждое бронирование не более одного раза
func SelectDue(bookings []*domain.Booking, settings *domain.ReminderSettings, now time.Time, loc *time.Location) []*domain.Booking {
	lead := settings.LeadDuration()
	seen := make(map[int64]struct{}, len(bookings))
	due := make([]*domain.Booking, 0)

	for _, b := range bookings {
		if !IsCandidate(b) {
			continue
		}
		if _, ok := seen[b.ID]; ok {
			continue
		}
		if !IsDue(b, lead, now, loc) {
			continue
		}
		seen[b.ID] = struct{}{}
		due = append(due, b)
	}

	return due
}

// IDs идентификаторы бронирований
func IDs(bookings []*domain.Booking) []int64 {
	ids := make([]int64, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
	}
	return ids
}
