package availability

import (
	"errors"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

var (
	// ErrOffGrid время не совпадает ни с одним шагом сетки рабочего дня
	ErrOffGrid = errors.New("availability: start time is not on the slot grid")

	// ErrOutOfHours процедура не помещается в рабочее время
	ErrOutOfHours = errors.New("availability: procedure does not fit working hours")

	// ErrInPast время начала уже прошло
	ErrInPast = errors.New("availability: start time is in the past")

	// ErrOverlap интервал пересекается с существующей записью
	ErrOverlap = errors.New("availability: interval overlaps an existing booking")
)

// ComputeAvailableStarts возвращает свободные времена начала процедуры на день
//
// Кандидаты идут от начала рабочего дня с шагом SlotInterval (конец не включается).
// Кандидат отбрасывается, если:
//   - день сегодняшний и кандидат не позже текущего времени;
//   - процедура заканчивается позже конца рабочего дня;
//   - [кандидат, кандидат+длительность) пересекается с занятым интервалом.
//
// Касание границ пересечением не считается. Для прошедших дней результат пуст.
func ComputeAvailableStarts(
	day time.Time,
	busy []domain.BusyInterval,
	wh *domain.WorkingHours,
	durationMinutes int,
	now time.Time,
) []types.TimeString {
	result := make([]types.TimeString, 0)

	walk(day, wh, durationMinutes, now, func(candidate int) {
		if overlapsAny(candidate, durationMinutes, busy) {
			return
		}
		if ts, err := types.NewTimeStringFromMinutes(candidate); err == nil {
			result = append(result, ts)
		}
	})

	return result
}

// CheckStart проверяет одно время начала по тем же правилам, что и ComputeAvailableStarts
// Возвращает причину, по которой время недоступно
func CheckStart(
	day time.Time,
	start types.TimeString,
	busy []domain.BusyInterval,
	wh *domain.WorkingHours,
	durationMinutes int,
	now time.Time,
) error {
	wh = wh.Normalize()
	durationMinutes = normalizeDuration(durationMinutes)
	candidate := start.Minutes()

	if isDayInPast(day, now) || (isSameDay(day, now) && !isAfterNow(candidate, now)) {
		return ErrInPast
	}

	begin, end := wh.Start.Minutes(), wh.End.Minutes()
	if candidate < begin || candidate >= end || (candidate-begin)%wh.SlotInterval != 0 {
		return ErrOffGrid
	}
	if candidate+durationMinutes > end {
		return ErrOutOfHours
	}
	if overlapsAny(candidate, durationMinutes, busy) {
		return ErrOverlap
	}
	return nil
}

// BusyIntervals занятые интервалы блокирующих записей
func BusyIntervals(bookings []*domain.Booking) []domain.BusyInterval {
	result := make([]domain.BusyInterval, 0, len(bookings))
	for _, b := range bookings {
		if !b.IsBlocking() {
			continue
		}
		result = append(result, b.Interval())
	}
	return result
}

// walk перебирает кандидатов, которые проходят проверки времени и рабочих часов
func walk(day time.Time, wh *domain.WorkingHours, durationMinutes int, now time.Time, fn func(candidate int)) {
	if isDayInPast(day, now) {
		return
	}

	wh = wh.Normalize()
	durationMinutes = normalizeDuration(durationMinutes)
	today := isSameDay(day, now)
	begin, end := wh.Start.Minutes(), wh.End.Minutes()

	for candidate := begin; candidate < end; candidate += wh.SlotInterval {
		if today && !isAfterNow(candidate, now) {
			continue
		}
		if candidate+durationMinutes > end {
			continue
		}
		fn(candidate)
	}
}

func overlapsAny(candidate, durationMinutes int, busy []domain.BusyInterval) bool {
	slot := domain.BusyInterval{Start: candidate, End: candidate + durationMinutes}
	for _, b := range busy {
		if slot.Overlaps(b) {
			return true
		}
	}
	return false
}

func normalizeDuration(durationMinutes int) int {
	if durationMinutes <= 0 {
		return domain.DefaultProcedureDurationMinutes
	}
	return durationMinutes
}

// isAfterNow кандидат строго позже текущего времени суток
// Доли секунды не влияют: кандидат всегда ровно на начале минуты
func isAfterNow(candidateMinutes int, now time.Time) bool {
	nowSeconds := now.Hour()*3600 + now.Minute()*60 + now.Second()
	return candidateMinutes*60 > nowSeconds
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDayInPast проверяет, что дата раньше сегодняшнего дня
func isDayInPast(day, now time.Time) bool {
	dayOnly := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dayOnly.Before(nowOnly)
}
