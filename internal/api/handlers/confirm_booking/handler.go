package confirm_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SalonBookingService/internal/service/bookings"
	"github.com/m04kA/SalonBookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingUID  = "некорректный идентификатор записи"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "запись не найдена"
	msgForbidden          = "нет прав на подтверждение записи"
	msgCannotConfirm      = "запись не может быть подтверждена"
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

// Handle PATCH /api/v1/bookings/{bookingUid}/confirm
// Body: {"chatId": 123} - чат мастера или администратора
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	uid, err := uuid.Parse(mux.Vars(r)["bookingUid"])
	if err != nil {
		h.logger.Warn("PATCH /bookings/{uid}/confirm - Invalid booking UID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingUID)
		return
	}

	var req models.MasterActionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil || req.ChatID == 0 {
		h.logger.Warn("PATCH /bookings/{uid}/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.service.ConfirmByMaster(r.Context(), uid, req.ChatID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{uid}/confirm - Booking not found: uid=%s", uid)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{uid}/confirm - Access denied: uid=%s, chat=%d", uid, req.ChatID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrCannotConfirm):
			h.logger.Warn("PATCH /bookings/{uid}/confirm - Cannot confirm: uid=%s", uid)
			handlers.RespondConflict(w, msgCannotConfirm)

		default:
			h.logger.Error("PATCH /bookings/{uid}/confirm - Failed to confirm booking: uid=%s, error=%v", uid, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{uid}/confirm - Booking confirmed: uid=%s, chat=%d", uid, req.ChatID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
