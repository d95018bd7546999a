package get_available_times

import "errors"

var (
	// ErrMasterNotFound возвращается, когда мастер не найден или не работает
	ErrMasterNotFound = errors.New("master not found")

	// ErrProcedureNotFound возвращается, когда указанная процедура не найдена
	ErrProcedureNotFound = errors.New("procedure not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
