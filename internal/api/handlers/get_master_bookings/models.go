package get_master_bookings

import (
	"strconv"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/internal/service/bookings/models"
)

// ToServiceRequest конвертирует параметры запроса в запрос сервиса
func ToServiceRequest(masterID int64, statusStr, dateStr, includeInactiveStr string) (*models.GetMasterBookingsRequest, error) {
	req := &models.GetMasterBookingsRequest{
		MasterID: masterID,
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
