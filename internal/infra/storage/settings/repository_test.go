package settings

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

func TestParseSlotInterval(t *testing.T) {
	tests := []struct {
		name string
		raw  sql.NullString
		want int
	}{
		{name: "число", raw: sql.NullString{String: "15", Valid: true}, want: 15},
		{name: "пробелы", raw: sql.NullString{String: " 45 ", Valid: true}, want: 45},
		{name: "NULL", raw: sql.NullString{}, want: domain.DefaultSlotIntervalMinutes},
		{name: "не число", raw: sql.NullString{String: "полчаса", Valid: true}, want: domain.DefaultSlotIntervalMinutes},
		{name: "ноль", raw: sql.NullString{String: "0", Valid: true}, want: domain.DefaultSlotIntervalMinutes},
		{name: "отрицательное", raw: sql.NullString{String: "-30", Valid: true}, want: domain.DefaultSlotIntervalMinutes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSlotInterval(tt.raw))
		})
	}
}
