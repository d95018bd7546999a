package get_master_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SalonBookingService/internal/service/bookings/models"
	"github.com/m04kA/SalonBookingService/pkg/logger"
)

type stubService struct {
	got *models.GetMasterBookingsRequest
}

func (s *stubService) ListByMasterAndDate(_ context.Context, req *models.GetMasterBookingsRequest) (*models.BookingListResponse, error) {
	s.got = req
	return &models.BookingListResponse{Bookings: []models.BookingResponse{{ID: 1, StartTime: "10:00"}}}, nil
}

func serve(svc *stubService, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/masters/{masterId}/bookings", NewHandler(svc, logger.NewNop()).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_ParsesFilter(t *testing.T) {
	svc := &stubService{}
	rec := serve(svc, "/masters/4/bookings?date=2026-03-14&includeInactive=true&status=confirmed")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, int64(4), svc.got.MasterID)
	require.NotNil(t, svc.got.Date)
	assert.Equal(t, "2026-03-14", svc.got.Date.Format("2006-01-02"))
	assert.True(t, svc.got.IncludeInactive)
	require.NotNil(t, svc.got.Status)
	assert.Equal(t, "confirmed", *svc.got.Status)
	assert.Contains(t, rec.Body.String(), `"startTime":"10:00"`)
}

func TestHandle_BadParams(t *testing.T) {
	for _, target := range []string{
		"/masters/x/bookings",
		"/masters/4/bookings?date=tomorrow",
		"/masters/4/bookings?includeInactive=maybe",
	} {
		svc := &stubService{}
		rec := serve(svc, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Nil(t, svc.got, target)
	}
}
