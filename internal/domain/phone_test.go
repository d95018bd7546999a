package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"+7 (999) 000-11-22", "+79990001122"},
		{"89990001122", "+79990001122"},
		{"79990001122", "+79990001122"},
		{"9990001122", "+79990001122"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizePhone(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePhone_Invalid(t *testing.T) {
	for _, raw := range []string{"", "123", "+7999000112233", "+1 555 0100", "7+9990001122"} {
		_, err := NormalizePhone(raw)
		assert.ErrorIs(t, err, ErrInvalidPhone, raw)
	}
}
