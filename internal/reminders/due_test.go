package reminders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

var msk = time.FixedZone("MSK", 3*60*60)

func scheduled(id int64, day time.Time, start string) *domain.Booking {
	return &domain.Booking{
		ID:                id,
		BookingDate:       day,
		StartTime:         types.TimeString(start),
		DurationMinutes:   60,
		Status:            domain.StatusPending,
		NeedsConfirmation: true,
	}
}

func TestIsDue_Boundary(t *testing.T) {
	b := scheduled(1, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), "15:00")
	lead := 24 * time.Hour

	assert.True(t, IsDue(b, lead, time.Date(2024, 6, 9, 15, 0, 0, 0, msk), msk))
	assert.False(t, IsDue(b, lead, time.Date(2024, 6, 9, 14, 59, 59, 0, msk), msk))
	assert.Equal(t, time.Date(2024, 6, 9, 15, 0, 0, 0, msk), DueAt(b, lead, msk))
}

func TestIsDue_ComparesInSalonTimezone(t *testing.T) {
	b := scheduled(1, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), "15:00")

	// 12:00 UTC это 15:00 по Москве
	assert.True(t, IsDue(b, 24*time.Hour, time.Date(2024, 6, 9, 12, 0, 0, 0, time.UTC), msk))
	assert.False(t, IsDue(b, 24*time.Hour, time.Date(2024, 6, 9, 11, 59, 0, 0, time.UTC), msk))
}

func TestSelectDue_FiltersCandidates(t *testing.T) {
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 6, 9, 16, 0, 0, 0, msk)
	settings := &domain.ReminderSettings{LeadHours: 24}

	due := scheduled(1, day, "15:00")
	notYet := scheduled(2, day, "17:00")

	alreadySent := scheduled(3, day, "12:00")
	alreadySent.ReminderSent = true

	resolved := scheduled(4, day, "12:00")
	resolved.NeedsConfirmation = false

	cancelled := scheduled(5, day, "12:00")
	cancelled.Status = domain.StatusCancelled

	paid := scheduled(6, day, "12:00")
	paid.Status = domain.StatusPaid

	confirmed := scheduled(7, day, "10:00")
	confirmed.Status = domain.StatusConfirmed

	got := SelectDue(
		[]*domain.Booking{due, notYet, alreadySent, resolved, cancelled, paid, confirmed, due},
		settings, now, msk,
	)

	assert.Equal(t, []int64{1, 7}, IDs(got))
}

func TestSelectDue_PastBookingStillDue(t *testing.T) {
	b := scheduled(1, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), "10:00")

	got := SelectDue([]*domain.Booking{b}, &domain.ReminderSettings{LeadHours: 2},
		time.Date(2024, 6, 9, 9, 0, 0, 0, msk), msk)

	assert.Len(t, got, 1)
}

func TestSelectDue_Empty(t *testing.T) {
	got := SelectDue(nil, &domain.ReminderSettings{LeadHours: 24}, time.Now(), msk)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}
