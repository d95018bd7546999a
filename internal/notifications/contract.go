package notifications

import (
	"context"
)

// Message отрендеренное сообщение для отправки по каналу
type Message struct {
	Subject string     // тема (используется email)
	Text    string     // тело сообщения
	Buttons [][]Button // inline-кнопки (используются Telegram)
}

// Button кнопка с данными обратного вызова
type Button struct {
	Text string
	Data string
}

// Channel способ доставки уведомлений клиенту
// destination: chat id для Telegram, адрес для email
type Channel interface {
	Send(ctx context.Context, destination string, msg Message) error
}

// ChatRepository поиск чата Telegram по телефону клиента
type ChatRepository interface {
	GetChatIDByPhone(ctx context.Context, phone string) (int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
