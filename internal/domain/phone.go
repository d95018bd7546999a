package domain

import (
	"errors"
	"strings"
)

// ErrInvalidPhone возвращается для номера, который не приводится к +7XXXXXXXXXX
var ErrInvalidPhone = errors.New("invalid phone number")

const (
	phonePrefix           = "+7"
	phoneNormalizedLength = 12
)

// NormalizePhone приводит российский номер к виду +7XXXXXXXXXX
// Удаляет все символы, кроме цифр и плюса; ведущая 8 заменяется на +7
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	phone := b.String()

	if !strings.HasPrefix(phone, phonePrefix) {
		switch {
		case strings.HasPrefix(phone, "8"):
			phone = phonePrefix + phone[1:]
		case strings.HasPrefix(phone, "7"):
			phone = "+" + phone
		default:
			phone = phonePrefix + phone
		}
	}

	if len(phone) != phoneNormalizedLength || strings.Count(phone, "+") != 1 {
		return "", ErrInvalidPhone
	}
	return phone, nil
}
