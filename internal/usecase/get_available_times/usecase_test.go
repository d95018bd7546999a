package get_available_times

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SalonBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/catalog"
	settingsRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/settings"
	"github.com/m04kA/SalonBookingService/pkg/clock"
	"github.com/m04kA/SalonBookingService/pkg/ptr"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

type stubBookings struct {
	bookings []*domain.Booking
	err      error
	filter   domain.MasterBookingsFilter
}

func (s *stubBookings) GetByMasterWithFilter(_ context.Context, f domain.MasterBookingsFilter) ([]*domain.Booking, error) {
	s.filter = f
	return s.bookings, s.err
}

type stubCatalog struct {
	masters    map[int64]*domain.Master
	procedures map[int64]*domain.Procedure
}

func (s *stubCatalog) GetMaster(_ context.Context, id int64) (*domain.Master, error) {
	if m, ok := s.masters[id]; ok {
		return m, nil
	}
	return nil, catalogRepo.ErrMasterNotFound
}

func (s *stubCatalog) GetProcedure(_ context.Context, id int64) (*domain.Procedure, error) {
	if p, ok := s.procedures[id]; ok {
		return p, nil
	}
	return nil, catalogRepo.ErrProcedureNotFound
}

type stubSettings struct {
	wh  *domain.WorkingHours
	err error
}

func (s *stubSettings) GetActiveWorkingHours(context.Context) (*domain.WorkingHours, error) {
	if s.wh == nil && s.err == nil {
		return nil, settingsRepo.ErrWorkingHoursNotFound
	}
	return s.wh, s.err
}

type stubMetrics struct {
	observed []int
}

func (s *stubMetrics) ObserveAvailableTimes(_ int64, count int) {
	s.observed = append(s.observed, count)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	day = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	now = time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC)
)

func newCatalog() *stubCatalog {
	return &stubCatalog{
		masters: map[int64]*domain.Master{
			1: {ID: 1, Name: "Ольга", IsActive: true, ProcedureIDs: []int64{10}},
			2: {ID: 2, Name: "Ирина", IsActive: false},
		},
		procedures: map[int64]*domain.Procedure{
			10: {ID: 10, Title: "Маникюр", DurationMinutes: 60, IsAvailable: true},
		},
	}
}

func newUseCase(b *stubBookings, c *stubCatalog, s *stubSettings, m *stubMetrics) *UseCase {
	return NewUseCase(b, c, s, m, &clock.Fixed{At: now}, nopLogger{})
}

func TestExecute_WithProcedureAndBookings(t *testing.T) {
	bookings := &stubBookings{bookings: []*domain.Booking{
		{ID: 1, StartTime: "10:30", DurationMinutes: 60, Status: domain.StatusPending},
		{ID: 2, StartTime: "13:00", DurationMinutes: 30, Status: domain.StatusCancelled},
	}}
	settings := &stubSettings{wh: &domain.WorkingHours{Start: "10:00", End: "13:00", SlotInterval: 30}}
	m := &stubMetrics{}

	resp, err := newUseCase(bookings, newCatalog(), settings, m).Execute(context.Background(), &Request{
		MasterID:    1,
		ProcedureID: ptr.Ptr(int64(10)),
		Date:        day,
	})
	require.NoError(t, err)

	// 10:00 пересекается с 10:30, 10:30 и 11:00 заняты, 12:30+60 выходит за 13:00
	assert.Equal(t, []types.TimeString{"11:30", "12:00"}, resp.Times)
	assert.Equal(t, int64(1), resp.MasterID)
	assert.Equal(t, []int{2}, m.observed)

	assert.Equal(t, int64(1), bookings.filter.MasterID)
	assert.False(t, bookings.filter.IncludeInactive)
	require.NotNil(t, bookings.filter.StartDate)
	assert.Equal(t, day, *bookings.filter.StartDate)
}

func TestExecute_DefaultsWithoutSettingsAndProcedure(t *testing.T) {
	resp, err := newUseCase(&stubBookings{}, newCatalog(), &stubSettings{}, &stubMetrics{}).
		Execute(context.Background(), &Request{MasterID: 1, Date: day})
	require.NoError(t, err)

	// 10:00-20:00 с шагом 30 и длительностью 30
	require.Len(t, resp.Times, 20)
	assert.Equal(t, types.TimeString("10:00"), resp.Times[0])
	assert.Equal(t, types.TimeString("19:30"), resp.Times[19])
}

func TestExecute_PastDateIsEmpty(t *testing.T) {
	resp, err := newUseCase(&stubBookings{}, newCatalog(), &stubSettings{}, &stubMetrics{}).
		Execute(context.Background(), &Request{MasterID: 1, Date: now.AddDate(0, 0, -1)})
	require.NoError(t, err)
	assert.NotNil(t, resp.Times)
	assert.Empty(t, resp.Times)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		req      *Request
		settings *stubSettings
		bookings *stubBookings
		wantErr  error
	}{
		{
			name:    "некорректный мастер",
			req:     &Request{MasterID: 0, Date: day},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "без даты",
			req:     &Request{MasterID: 1},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "неизвестный мастер",
			req:     &Request{MasterID: 99, Date: day},
			wantErr: ErrMasterNotFound,
		},
		{
			name:    "неактивный мастер",
			req:     &Request{MasterID: 2, Date: day},
			wantErr: ErrMasterNotFound,
		},
		{
			name:    "неизвестная процедура",
			req:     &Request{MasterID: 1, ProcedureID: ptr.Ptr(int64(77)), Date: day},
			wantErr: ErrProcedureNotFound,
		},
		{
			name:     "ошибка настроек",
			req:      &Request{MasterID: 1, Date: day},
			settings: &stubSettings{err: errors.New("db down")},
			wantErr:  ErrInternal,
		},
		{
			name:     "ошибка бронирований",
			req:      &Request{MasterID: 1, Date: day},
			bookings: &stubBookings{err: errors.New("db down")},
			wantErr:  ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := tt.settings
			if settings == nil {
				settings = &stubSettings{}
			}
			bookings := tt.bookings
			if bookings == nil {
				bookings = &stubBookings{}
			}

			_, err := newUseCase(bookings, newCatalog(), settings, &stubMetrics{}).Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
