package create_booking

import "errors"

var (
	// ErrMasterNotFound возвращается, когда мастер не найден или не работает
	ErrMasterNotFound = errors.New("create_booking: master not found")

	// ErrProcedureNotFound возвращается, когда процедура не найдена или недоступна
	ErrProcedureNotFound = errors.New("create_booking: procedure not found")

	// ErrProcedureNotOffered возвращается, когда мастер не выполняет процедуру
	ErrProcedureNotOffered = errors.New("create_booking: master does not offer this procedure")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата дальше горизонта записи
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrSlotNotAvailable возвращается, когда время уже занято другой записью
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidTimeSlot возвращается, когда время не на сетке, вне рабочих часов или уже прошло
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
