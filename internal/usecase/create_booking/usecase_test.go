package create_booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SalonBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/catalog"
	settingsRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/settings"
	"github.com/m04kA/SalonBookingService/pkg/clock"
	"github.com/m04kA/SalonBookingService/pkg/ptr"
	"github.com/m04kA/SalonBookingService/pkg/txmanager"
)

type stubBookings struct {
	existing  []*domain.Booking
	createErr error
	created   []*domain.Booking
	filters   []domain.MasterBookingsFilter
}

func (s *stubBookings) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	b.ID = int64(len(s.created) + 1)
	b.UID = uuid.New()
	s.created = append(s.created, b)
	return b, nil
}

func (s *stubBookings) GetByMasterWithFilter(_ context.Context, f domain.MasterBookingsFilter) ([]*domain.Booking, error) {
	s.filters = append(s.filters, f)
	return s.existing, nil
}

type stubCatalog struct{}

func (stubCatalog) GetMaster(_ context.Context, id int64) (*domain.Master, error) {
	switch id {
	case 1:
		return &domain.Master{ID: 1, Name: "Ольга", IsActive: true, ProcedureIDs: []int64{10, 12}}, nil
	case 2:
		return &domain.Master{ID: 2, Name: "Ирина", IsActive: false, ProcedureIDs: []int64{10}}, nil
	}
	return nil, catalogRepo.ErrMasterNotFound
}

func (stubCatalog) GetProcedure(_ context.Context, id int64) (*domain.Procedure, error) {
	switch id {
	case 10:
		return &domain.Procedure{ID: 10, Title: "Маникюр", DurationMinutes: 60, IsAvailable: true}, nil
	case 11:
		return &domain.Procedure{ID: 11, Title: "Педикюр", DurationMinutes: 90, IsAvailable: true}, nil
	case 12:
		return &domain.Procedure{ID: 12, Title: "Архив", DurationMinutes: 30, IsAvailable: false}, nil
	}
	return nil, catalogRepo.ErrProcedureNotFound
}

type stubSettings struct{}

func (stubSettings) GetActiveWorkingHours(context.Context) (*domain.WorkingHours, error) {
	return nil, settingsRepo.ErrWorkingHoursNotFound
}

type stubTx struct {
	err   error
	calls int
}

func (s *stubTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	return fn(ctx)
}

type stubNotifier struct {
	notified []*domain.Booking
	err      error
}

func (s *stubNotifier) NotifyAdminNewBooking(_ context.Context, b *domain.Booking) error {
	s.notified = append(s.notified, b)
	return s.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	now = time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC)
	day = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
)

func validRequest() *Request {
	return &Request{
		MasterID:           1,
		ProcedureID:        10,
		Date:               day,
		StartTime:          "11:00",
		ClientName:         "  Анна ",
		ClientPhone:        "8 (999) 000-11-22",
		NotificationMethod: "telegram",
	}
}

func newUseCase(b *stubBookings, tx *stubTx, n *stubNotifier) *UseCase {
	return NewUseCase(b, stubCatalog{}, stubSettings{}, n, tx, &clock.Fixed{At: now}, 90, nopLogger{})
}

func TestExecute_Success(t *testing.T) {
	bookings := &stubBookings{}
	notifier := &stubNotifier{}

	resp, err := newUseCase(bookings, &stubTx{}, notifier).Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, bookings.created, 1)
	created := bookings.created[0]
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.True(t, created.NeedsConfirmation)
	assert.False(t, created.ReminderSent)
	assert.Equal(t, 60, created.DurationMinutes)
	assert.Equal(t, "+79990001122", created.ClientPhone)
	assert.Equal(t, "Анна", created.ClientName)
	assert.Equal(t, "Ольга", created.MasterName)
	assert.Equal(t, "Маникюр", created.ProcedureTitle)

	require.Len(t, bookings.filters, 1)
	assert.True(t, bookings.filters[0].ForUpdate)

	assert.Equal(t, "pending", resp.Status)
	assert.NotEqual(t, uuid.Nil, resp.UID)
	require.Len(t, notifier.notified, 1)
}

func TestExecute_NotifyFailureIsIgnored(t *testing.T) {
	_, err := newUseCase(&stubBookings{}, &stubTx{}, &stubNotifier{err: errors.New("telegram down")}).
		Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_Overlap(t *testing.T) {
	bookings := &stubBookings{existing: []*domain.Booking{
		{ID: 5, StartTime: "10:30", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}}

	_, err := newUseCase(bookings, &stubTx{}, &stubNotifier{}).Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Empty(t, bookings.created)
}

func TestExecute_TouchingBookingDoesNotBlock(t *testing.T) {
	bookings := &stubBookings{existing: []*domain.Booking{
		{ID: 5, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
		{ID: 6, StartTime: "12:00", DurationMinutes: 30, Status: domain.StatusPending},
	}}

	_, err := newUseCase(bookings, &stubTx{}, &stubNotifier{}).Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_ConcurrentConflicts(t *testing.T) {
	t.Run("уникальный индекс", func(t *testing.T) {
		bookings := &stubBookings{createErr: fmt.Errorf("%w: Create", bookingRepo.ErrSlotNotAvailable)}
		_, err := newUseCase(bookings, &stubTx{}, &stubNotifier{}).Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})

	t.Run("конфликт сериализации", func(t *testing.T) {
		tx := &stubTx{err: fmt.Errorf("%w: retries exhausted", txmanager.ErrSerializationFailure)}
		notifier := &stubNotifier{}
		_, err := newUseCase(&stubBookings{}, tx, notifier).Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
		assert.Empty(t, notifier.notified)
	})

	t.Run("ошибка фиксации", func(t *testing.T) {
		tx := &stubTx{err: fmt.Errorf("%w: connection reset", txmanager.ErrCommitTx)}
		_, err := newUseCase(&stubBookings{}, tx, &stubNotifier{}).Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{"без имени", func(r *Request) { r.ClientName = " " }, ErrInvalidInput},
		{"плохой телефон", func(r *Request) { r.ClientPhone = "123" }, ErrInvalidInput},
		{"неизвестный способ", func(r *Request) { r.NotificationMethod = "sms" }, ErrInvalidInput},
		{"email без адреса", func(r *Request) { r.NotificationMethod = "email" }, ErrInvalidInput},
		{"некорректный email", func(r *Request) {
			r.NotificationMethod = "email"
			r.ClientEmail = ptr.Ptr("not-an-email")
		}, ErrInvalidInput},
		{"плохое время", func(r *Request) { r.StartTime = "25:00" }, ErrInvalidInput},
		{"дата в прошлом", func(r *Request) { r.Date = now.AddDate(0, 0, -1) }, ErrInvalidDate},
		{"дата за горизонтом", func(r *Request) { r.Date = now.AddDate(0, 0, 91) }, ErrDateTooFarInFuture},
		{"неизвестный мастер", func(r *Request) { r.MasterID = 9 }, ErrMasterNotFound},
		{"неактивный мастер", func(r *Request) { r.MasterID = 2 }, ErrMasterNotFound},
		{"неизвестная процедура", func(r *Request) { r.ProcedureID = 99 }, ErrProcedureNotFound},
		{"недоступная процедура", func(r *Request) { r.ProcedureID = 12 }, ErrProcedureNotFound},
		{"процедура не у мастера", func(r *Request) { r.ProcedureID = 11 }, ErrProcedureNotOffered},
		{"вне сетки", func(r *Request) { r.StartTime = "11:15" }, ErrInvalidTimeSlot},
		{"после закрытия", func(r *Request) { r.StartTime = "19:30" }, ErrInvalidTimeSlot},
		{"уже прошло сегодня", func(r *Request) {
			r.Date = now
			r.StartTime = "09:00"
		}, ErrInvalidTimeSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			bookings := &stubBookings{}
			_, err := newUseCase(bookings, &stubTx{}, &stubNotifier{}).Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, bookings.created)
		})
	}
}

func TestExecute_EmailMethod(t *testing.T) {
	req := validRequest()
	req.NotificationMethod = "email"
	req.ClientEmail = ptr.Ptr(" anna@example.com ")

	bookings := &stubBookings{}
	resp, err := newUseCase(bookings, &stubTx{}, &stubNotifier{}).Execute(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.ClientEmail)
	assert.Equal(t, "anna@example.com", *resp.ClientEmail)
	assert.Equal(t, "email", resp.NotificationMethod)
}
