package confirm_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SalonBookingService/internal/service/bookings"
	"github.com/m04kA/SalonBookingService/internal/service/bookings/models"
	"github.com/m04kA/SalonBookingService/pkg/logger"
)

type stubService struct {
	chatID int64
	err    error
}

func (s *stubService) ConfirmByMaster(_ context.Context, uid uuid.UUID, chatID int64) (*models.BookingResponse, error) {
	s.chatID = chatID
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingResponse{UID: uid.String(), Status: "confirmed"}, nil
}

func TestHandle(t *testing.T) {
	uid := uuid.NewString()
	tests := []struct {
		name string
		uid  string
		body string
		err  error
		code int
	}{
		{name: "ok", uid: uid, body: `{"chatId": 555}`, code: http.StatusOK},
		{name: "bad uid", uid: "abc", body: `{"chatId": 555}`, code: http.StatusBadRequest},
		{name: "unknown field", uid: uid, body: `{"chat": 555}`, code: http.StatusBadRequest},
		{name: "not found", uid: uid, body: `{"chatId": 555}`, err: bookings.ErrBookingNotFound, code: http.StatusNotFound},
		{name: "foreign chat", uid: uid, body: `{"chatId": 1}`, err: bookings.ErrAccessDenied, code: http.StatusForbidden},
		{name: "cancelled", uid: uid, body: `{"chatId": 555}`, err: bookings.ErrCannotConfirm, code: http.StatusConflict},
		{name: "db down", uid: uid, body: `{"chatId": 555}`, err: errors.New("boom"), code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{err: tt.err}
			r := mux.NewRouter()
			r.HandleFunc("/bookings/{bookingUid}/confirm", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPatch)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/bookings/"+tt.uid+"/confirm", strings.NewReader(tt.body)))

			assert.Equal(t, tt.code, rec.Code)
			if tt.code == http.StatusOK {
				assert.Equal(t, int64(555), svc.chatID)
				assert.Contains(t, rec.Body.String(), `"confirmed"`)
			}
		})
	}
}
