package settings

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных значениях настроек
	ErrInvalidInput = errors.New("invalid input data")

	// ErrConcurrentUpdate возвращается, когда настройки одновременно меняет другой запрос
	ErrConcurrentUpdate = errors.New("settings are being updated concurrently")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
