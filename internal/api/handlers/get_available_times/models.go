package get_available_times

import (
	"strconv"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
	getAvailableTimes "github.com/m04kA/SalonBookingService/internal/usecase/get_available_times"
)

// ToUseCaseRequest разбирает параметры запроса
// Возвращает false, если хотя бы один параметр некорректен
func ToUseCaseRequest(masterIDStr, procedureIDStr, dateStr string) (*getAvailableTimes.Request, bool) {
	masterID, err := strconv.ParseInt(masterIDStr, 10, 64)
	if err != nil || masterID <= 0 {
		return nil, false
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, false
	}

	req := &getAvailableTimes.Request{
		MasterID: masterID,
		Date:     date,
	}

	if procedureIDStr != "" {
		procedureID, err := strconv.ParseInt(procedureIDStr, 10, 64)
		if err != nil || procedureID <= 0 {
			return nil, false
		}
		req.ProcedureID = &procedureID
	}

	return req, true
}

// FromUseCaseResponse список времен "HH:MM"
func FromUseCaseResponse(resp *getAvailableTimes.Response) []string {
	times := make([]string, 0, len(resp.Times))
	for _, t := range resp.Times {
		times = append(times, t.String())
	}
	return times
}
