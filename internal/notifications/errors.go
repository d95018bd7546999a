package notifications

import "errors"

var (
	// ErrChannelUnavailable возвращается, когда канал клиента не настроен
	ErrChannelUnavailable = errors.New("notifications: channel is not configured")

	// ErrNoDestination возвращается, когда у клиента нет адреса для выбранного канала
	ErrNoDestination = errors.New("notifications: client has no destination for channel")

	// ErrRender возвращается при ошибке рендеринга шаблона
	ErrRender = errors.New("notifications: failed to render message")

	// ErrSend возвращается, когда канал не смог доставить сообщение
	ErrSend = errors.New("notifications: failed to send message")
)
