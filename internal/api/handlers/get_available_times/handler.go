package get_available_times

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SalonBookingService/internal/api/handlers"
	getAvailableTimes "github.com/m04kA/SalonBookingService/internal/usecase/get_available_times"
)

type Handler struct {
	useCase GetAvailableTimesUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableTimesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/masters/{masterId}/available-times
// Query params: date (YYYY-MM-DD), procedureId (опционально)
// Некорректные и неизвестные ключи дают пустой список: форма записи запрашивает время на лету
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	masterIDStr := mux.Vars(r)["masterId"]
	procedureIDStr := r.URL.Query().Get("procedureId")
	dateStr := r.URL.Query().Get("date")

	useCaseReq, ok := ToUseCaseRequest(masterIDStr, procedureIDStr, dateStr)
	if !ok {
		h.logger.Warn("GET /masters/{id}/available-times - Invalid params: master=%q, procedure=%q, date=%q",
			masterIDStr, procedureIDStr, dateStr)
		handlers.RespondJSON(w, http.StatusOK, []string{})
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableTimes.ErrMasterNotFound),
			errors.Is(err, getAvailableTimes.ErrProcedureNotFound),
			errors.Is(err, getAvailableTimes.ErrInvalidInput):
			h.logger.Warn("GET /masters/{id}/available-times - Unknown keys: master=%s, procedure=%q: %v",
				masterIDStr, procedureIDStr, err)
			handlers.RespondJSON(w, http.StatusOK, []string{})

		default:
			h.logger.Error("GET /masters/{id}/available-times - Failed to get times: master=%s, date=%s, error=%v",
				masterIDStr, dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	times := FromUseCaseResponse(result)

	h.logger.Info("GET /masters/{id}/available-times - master=%s, date=%s, count=%d", masterIDStr, dateStr, len(times))
	handlers.RespondJSON(w, http.StatusOK, times)
}
