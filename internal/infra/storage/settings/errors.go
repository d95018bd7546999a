package settings

import "errors"

var (
	// ErrWorkingHoursNotFound возвращается, когда нет активной записи рабочего времени
	ErrWorkingHoursNotFound = errors.New("settings.repository: working hours not found")

	// ErrReminderSettingsNotFound возвращается, когда нет активных настроек напоминаний
	ErrReminderSettingsNotFound = errors.New("settings.repository: reminder settings not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("settings.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("settings.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("settings.repository: failed to scan row")
)
