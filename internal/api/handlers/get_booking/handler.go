package get_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SalonBookingService/internal/service/bookings"
)

const (
	msgInvalidBookingUID = "некорректный идентификатор записи"
	msgNotFound          = "запись не найдена"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{bookingUid}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	uidStr := mux.Vars(r)["bookingUid"]

	uid, err := uuid.Parse(uidStr)
	if err != nil {
		h.logger.Warn("GET /bookings/{uid} - Invalid booking UID %q: %v", uidStr, err)
		handlers.RespondBadRequest(w, msgInvalidBookingUID)
		return
	}

	booking, err := h.service.GetByUID(r.Context(), uid)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/{uid} - Booking not found: uid=%s", uid)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /bookings/{uid} - Failed to get booking: uid=%s, error=%v", uid, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/{uid} - Booking retrieved successfully: uid=%s", uid)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
