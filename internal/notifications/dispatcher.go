package notifications

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
	chatRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/chat"
)

// Dispatcher выбирает канал по способу уведомления клиента и доставляет сообщения
type Dispatcher struct {
	templates *Templates
	chats     ChatRepository
	channels  map[domain.NotificationMethod]Channel
	timeout   time.Duration
	logger    Logger

	admin       Channel
	adminChatID int64
}

// NewDispatcher создает диспетчер; timeout ограничивает одну отправку (0 без ограничения)
func NewDispatcher(templates *Templates, chats ChatRepository, timeout time.Duration, logger Logger) *Dispatcher {
	return &Dispatcher{
		templates: templates,
		chats:     chats,
		channels:  make(map[domain.NotificationMethod]Channel),
		timeout:   timeout,
		logger:    logger,
	}
}

// Register подключает канал для способа уведомления
func (d *Dispatcher) Register(method domain.NotificationMethod, ch Channel) {
	d.channels[method] = ch
}

// SetAdmin задает канал и чат администратора для уведомлений о новых записях
func (d *Dispatcher) SetAdmin(ch Channel, chatID int64) {
	d.admin = ch
	d.adminChatID = chatID
}

// SendReminder отправляет клиенту напоминание с кнопками подтверждения
func (d *Dispatcher) SendReminder(ctx context.Context, b *domain.Booking) error {
	return d.NotifyClient(ctx, b, KindReminder)
}

// NotifyClient отправляет клиенту сообщение указанного типа
func (d *Dispatcher) NotifyClient(ctx context.Context, b *domain.Booking, kind Kind) error {
	ch, ok := d.channels[b.NotificationMethod]
	if !ok {
		return fmt.Errorf("%w: %s", ErrChannelUnavailable, b.NotificationMethod)
	}

	destination, err := d.destination(ctx, b)
	if err != nil {
		return err
	}

	msg, err := d.templates.Render(kind, b)
	if err != nil {
		return err
	}

	return d.send(ctx, ch, destination, msg)
}

// NotifyAdminNewBooking сообщает администратору о новой записи
// Без настроенного администратора ничего не делает
func (d *Dispatcher) NotifyAdminNewBooking(ctx context.Context, b *domain.Booking) error {
	if d.admin == nil || d.adminChatID == 0 {
		return nil
	}

	msg, err := d.templates.Render(KindNewBooking, b)
	if err != nil {
		return err
	}

	return d.send(ctx, d.admin, strconv.FormatInt(d.adminChatID, 10), msg)
}

func (d *Dispatcher) send(ctx context.Context, ch Channel, destination string, msg Message) error {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if err := ch.Send(ctx, destination, msg); err != nil {
		d.logger.Warn("Notifications: send %q to %s failed: %v", msg.Subject, destination, err)
		return fmt.Errorf("%w: %v", ErrSend, err)
	}
	return nil
}

// destination определяет адрес клиента для его канала
func (d *Dispatcher) destination(ctx context.Context, b *domain.Booking) (string, error) {
	switch b.NotificationMethod {
	case domain.NotificationTelegram:
		chatID, err := d.chats.GetChatIDByPhone(ctx, b.ClientPhone)
		if err != nil {
			if errors.Is(err, chatRepo.ErrChatNotFound) {
				return "", fmt.Errorf("%w: no telegram chat for phone %s", ErrNoDestination, b.ClientPhone)
			}
			return "", fmt.Errorf("notifications: lookup chat: %w", err)
		}
		return strconv.FormatInt(chatID, 10), nil

	case domain.NotificationEmail:
		if b.ClientEmail == nil || strings.TrimSpace(*b.ClientEmail) == "" {
			return "", fmt.Errorf("%w: client has no email", ErrNoDestination)
		}
		return strings.TrimSpace(*b.ClientEmail), nil
	}

	return "", fmt.Errorf("%w: %s", ErrChannelUnavailable, b.NotificationMethod)
}
