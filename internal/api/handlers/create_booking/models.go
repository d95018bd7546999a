package create_booking

import (
	"errors"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
	createBooking "github.com/m04kA/SalonBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

var (
	errParseDate = errors.New("invalid booking date")
	errParseTime = errors.New("invalid start time")
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	MasterID           int64   `json:"masterId"`
	ProcedureID        int64   `json:"procedureId"`
	BookingDate        string  `json:"bookingDate"` // "2026-03-14"
	StartTime          string  `json:"startTime"`   // "10:00"
	ClientName         string  `json:"clientName"`
	ClientPhone        string  `json:"clientPhone"`
	ClientEmail        *string `json:"clientEmail,omitempty"`
	NotificationMethod string  `json:"notificationMethod"` // telegram | email
	Notes              *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                 int64   `json:"id"`
	UID                string  `json:"uid"`
	MasterID           int64   `json:"masterId"`
	ProcedureID        int64   `json:"procedureId"`
	BookingDate        string  `json:"bookingDate"`
	StartTime          string  `json:"startTime"`
	DurationMinutes    int     `json:"durationMinutes"`
	Status             string  `json:"status"`
	ClientName         string  `json:"clientName"`
	ClientPhone        string  `json:"clientPhone"`
	ClientEmail        *string `json:"clientEmail,omitempty"`
	NotificationMethod string  `json:"notificationMethod"`
	MasterName         string  `json:"masterName"`
	ProcedureTitle     string  `json:"procedureTitle"`
	Notes              *string `json:"notes,omitempty"`
	CreatedAt          string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, errParseDate
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, errParseTime
	}

	return &createBooking.Request{
		MasterID:           r.MasterID,
		ProcedureID:        r.ProcedureID,
		Date:               bookingDate,
		StartTime:          startTime,
		ClientName:         r.ClientName,
		ClientPhone:        r.ClientPhone,
		ClientEmail:        r.ClientEmail,
		NotificationMethod: r.NotificationMethod,
		Notes:              r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                 resp.ID,
		UID:                resp.UID.String(),
		MasterID:           resp.MasterID,
		ProcedureID:        resp.ProcedureID,
		BookingDate:        resp.BookingDate.Format(domain.DateFormat),
		StartTime:          resp.StartTime.String(),
		DurationMinutes:    resp.DurationMinutes,
		Status:             resp.Status,
		ClientName:         resp.ClientName,
		ClientPhone:        resp.ClientPhone,
		ClientEmail:        resp.ClientEmail,
		NotificationMethod: resp.NotificationMethod,
		MasterName:         resp.MasterName,
		ProcedureTitle:     resp.ProcedureTitle,
		Notes:              resp.Notes,
		CreatedAt:          resp.CreatedAt.Format(time.RFC3339),
	}
}
