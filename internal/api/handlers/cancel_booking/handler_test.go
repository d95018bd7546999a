package cancel_booking

import (
	"context"
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

func (s *stubService) CancelByMaster(_ context.Context, uid uuid.UUID, chatID int64) (*models.BookingResponse, error) {
	s.chatID = chatID
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingResponse{UID: uid.String(), Status: "cancelled"}, nil
}

func patch(svc *stubService, uid, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/bookings/{bookingUid}/cancel", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPatch)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/bookings/"+uid+"/cancel", strings.NewReader(body)))
	return rec
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
		{name: "bad uid", uid: "42", body: `{"chatId": 555}`, code: http.StatusBadRequest},
		{name: "missing chat", uid: uid, body: `{}`, code: http.StatusBadRequest},
		{name: "not found", uid: uid, body: `{"chatId": 555}`, err: bookings.ErrBookingNotFound, code: http.StatusNotFound},
		{name: "foreign chat", uid: uid, body: `{"chatId": 1}`, err: bookings.ErrAccessDenied, code: http.StatusForbidden},
		{name: "already cancelled", uid: uid, body: `{"chatId": 555}`, err: bookings.ErrCannotCancel, code: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := patch(&stubService{err: tt.err}, tt.uid, tt.body)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
