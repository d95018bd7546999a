package create_booking

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// validateRequest валидирует и нормализует входные данные запроса
func validateRequest(req *Request) error {
	if req.MasterID <= 0 {
		return fmt.Errorf("%w: masterID must be positive", ErrInvalidInput)
	}

	if req.ProcedureID <= 0 {
		return fmt.Errorf("%w: procedureID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	req.ClientName = strings.TrimSpace(req.ClientName)
	if req.ClientName == "" {
		return fmt.Errorf("%w: clientName is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.ClientName) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: clientName is longer than %d characters", ErrInvalidInput, domain.MaxClientNameLength)
	}

	phone, err := domain.NormalizePhone(req.ClientPhone)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	req.ClientPhone = phone

	method := domain.NotificationMethod(req.NotificationMethod)
	if !method.IsValid() {
		return fmt.Errorf("%w: notificationMethod must be telegram or email", ErrInvalidInput)
	}

	if req.ClientEmail != nil {
		email := strings.TrimSpace(*req.ClientEmail)
		if email == "" {
			req.ClientEmail = nil
		} else {
			if _, err := mail.ParseAddress(email); err != nil {
				return fmt.Errorf("%w: invalid clientEmail", ErrInvalidInput)
			}
			req.ClientEmail = &email
		}
	}
	if method == domain.NotificationEmail && req.ClientEmail == nil {
		return fmt.Errorf("%w: clientEmail is required for email notifications", ErrInvalidInput)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом и не дальше горизонта записи
func validateDate(bookingDate time.Time, now time.Time, maxDaysAhead int) error {
	if isDateInPast(bookingDate, now) {
		return ErrInvalidDate
	}

	// 0 отключает ограничение
	if maxDaysAhead == 0 {
		return nil
	}

	maxDate := dateOnly(now).AddDate(0, 0, maxDaysAhead)
	if dateOnly(bookingDate).After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, maxDaysAhead)
	}

	return nil
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
func isDateInPast(date, now time.Time) bool {
	return dateOnly(date).Before(dateOnly(now))
}

// dateOnly обнуляет время, сохраняя календарную дату
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
