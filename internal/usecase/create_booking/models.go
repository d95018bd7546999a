package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SalonBookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	MasterID           int64            // ID мастера
	ProcedureID        int64            // ID процедуры
	Date               time.Time        // Дата бронирования (без времени)
	StartTime          types.TimeString // Время начала (например, "10:00")
	ClientName         string           // Имя клиента
	ClientPhone        string           // Телефон в любом формате, нормализуется к +7XXXXXXXXXX
	ClientEmail        *string          // Обязателен для уведомлений по email
	NotificationMethod string           // telegram | email
	Notes              *string          // Пожелания клиента (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID                 int64
	UID                uuid.UUID
	MasterID           int64
	ProcedureID        int64
	BookingDate        time.Time
	StartTime          types.TimeString
	DurationMinutes    int
	Status             string
	ClientName         string
	ClientPhone        string
	ClientEmail        *string
	NotificationMethod string
	Notes              *string

	// Денормализованные данные
	MasterName     string
	ProcedureTitle string

	CreatedAt time.Time
}
