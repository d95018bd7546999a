package models

import (
	"errors"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetMasterBookingsRequest запрос на получение бронирований мастера
type GetMasterBookingsRequest struct {
	MasterID        int64      `json:"masterId"`
	Date            *time.Time `json:"date,omitempty"`            // Дата (опционально, без нее все записи)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые и завершенные
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetMasterBookingsRequest) ToDomainFilter() (domain.MasterBookingsFilter, error) {
	filter := domain.MasterBookingsFilter{
		MasterID:        r.MasterID,
		StartDate:       r.Date,
		EndDate:         r.Date,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// GetClientBookingsRequest запрос на получение бронирований клиента по телефону
type GetClientBookingsRequest struct {
	Phone  string  `json:"phone"`
	Status *string `json:"status,omitempty"`
}

// MasterActionRequest решение мастера или администратора по записи
type MasterActionRequest struct {
	ChatID int64 `json:"chatId"` // Telegram чат, от имени которого выполняется действие
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                 int64   `json:"id"`
	UID                string  `json:"uid"`
	MasterID           int64   `json:"masterId"`
	ProcedureID        int64   `json:"procedureId"`
	BookingDate        string  `json:"bookingDate"` // "2026-03-14"
	StartTime          string  `json:"startTime"`   // "10:00"
	DurationMinutes    int     `json:"durationMinutes"`
	Status             string  `json:"status"`
	ClientName         string  `json:"clientName"`
	ClientPhone        string  `json:"clientPhone"`
	ClientEmail        *string `json:"clientEmail,omitempty"`
	NotificationMethod string  `json:"notificationMethod"`
	Notes              *string `json:"notes,omitempty"`

	// Денормализованные данные
	MasterName     string `json:"masterName"`
	ProcedureTitle string `json:"procedureTitle"`

	// Напоминание
	NeedsConfirmation bool    `json:"needsConfirmation"`
	ReminderState     string  `json:"reminderState"`
	ReminderSentAt    *string `json:"reminderSentAt,omitempty"` // ISO 8601 format

	ConfirmedAt *string `json:"confirmedAt,omitempty"`
	CancelledAt *string `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:                 b.ID,
		UID:                b.UID.String(),
		MasterID:           b.MasterID,
		ProcedureID:        b.ProcedureID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		DurationMinutes:    b.DurationMinutes,
		Status:             string(b.Status),
		ClientName:         b.ClientName,
		ClientPhone:        b.ClientPhone,
		ClientEmail:        b.ClientEmail,
		NotificationMethod: string(b.NotificationMethod),
		Notes:              b.Notes,
		MasterName:         b.MasterName,
		ProcedureTitle:     b.ProcedureTitle,
		NeedsConfirmation:  b.NeedsConfirmation,
		ReminderState:      string(b.ReminderState()),
		ReminderSentAt:     formatTime(b.ReminderSentAt),
		ConfirmedAt:        formatTime(b.ConfirmedAt),
		CancelledAt:        formatTime(b.CancelledAt),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, b := range bookings {
		if dto := FromDomainBooking(b); dto != nil {
			resp.Bookings = append(resp.Bookings, *dto)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	status := domain.BookingStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// formatTime конвертирует время в строку ISO 8601
func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
