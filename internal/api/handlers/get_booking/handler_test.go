package get_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SalonBookingService/internal/service/bookings"
	"github.com/m04kA/SalonBookingService/internal/service/bookings/models"
	"github.com/m04kA/SalonBookingService/pkg/logger"
)

type stubService struct {
	err error
}

func (s *stubService) GetByUID(_ context.Context, uid uuid.UUID) (*models.BookingResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingResponse{UID: uid.String()}, nil
}

func get(svc *stubService, uid string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/bookings/{bookingUid}", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodGet)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/"+uid, nil))
	return rec
}

func TestHandle(t *testing.T) {
	uid := uuid.NewString()

	rec := get(&stubService{}, uid)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), uid)

	assert.Equal(t, http.StatusBadRequest, get(&stubService{}, "not-a-uuid").Code)
	assert.Equal(t, http.StatusNotFound, get(&stubService{err: bookings.ErrBookingNotFound}, uid).Code)
}
