package telegram_webhook

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/internal/notifications"
	"github.com/m04kA/SalonBookingService/internal/service/bookings"
	"github.com/m04kA/SalonBookingService/internal/service/bookings/models"
)

const maxUpdateBytes = 1 << 20

// secretTokenHeader заголовок с секретом, заданным при setWebhook
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// action решение по записи, пришедшее из Telegram
type action int

const (
	actionReminderConfirm action = iota
	actionReminderCancel
	actionMasterConfirm
	actionMasterCancel
)

type Handler struct {
	service BookingService
	chats   ChatRepository
	bot     Bot
	secret  string
	logger  Logger
}

func NewHandler(service BookingService, chats ChatRepository, bot Bot, secret string, logger Logger) *Handler {
	return &Handler{
		service: service,
		chats:   chats,
		bot:     bot,
		secret:  secret,
		logger:  logger,
	}
}

// Handle POST /api/v1/telegram/webhook
// Запросы без верного секрета отклоняются с 401.
// Telegram повторяет доставку при любом ответе кроме 2xx, поэтому его запросы всегда получают 200
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		h.logger.Warn("POST /telegram/webhook - Rejected request without valid secret token from %s", r.RemoteAddr)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	defer w.WriteHeader(http.StatusOK)

	var update tgbotapi.Update
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUpdateBytes)).Decode(&update); err != nil {
		h.logger.Warn("POST /telegram/webhook - Invalid update: %v", err)
		return
	}

	ctx := r.Context()
	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.Contact != nil:
		h.handleContact(ctx, update.Message)
	case update.Message != nil:
		h.handleText(ctx, update.Message)
	default:
		h.logger.Info("POST /telegram/webhook - Ignored update %d", update.UpdateID)
	}
}

func (h *Handler) authorized(r *http.Request) bool {
	if h.secret == "" {
		return false
	}
	got := r.Header.Get(secretTokenHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) == 1
}

func (h *Handler) handleContact(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	contact := msg.Contact

	// Номер можно связать только со своим чатом
	if msg.From != nil && contact.UserID != 0 && contact.UserID != msg.From.ID {
		h.logger.Warn("POST /telegram/webhook - Foreign contact from chat=%d", chatID)
		h.reply(ctx, chatID, msgForeignContact)
		return
	}

	phone := contactPhone(contact.PhoneNumber)
	if err := h.chats.Upsert(ctx, phone, chatID); err != nil {
		h.logger.Error("POST /telegram/webhook - Failed to save contact: chat=%d, error=%v", chatID, err)
		h.reply(ctx, chatID, msgContactFailed)
		return
	}

	h.logger.Info("POST /telegram/webhook - Contact saved: chat=%d", chatID)
	h.reply(ctx, chatID, msgContactSaved)
}

func (h *Handler) handleText(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch {
	case text == cmdStart:
		if err := h.bot.RequestContact(ctx, chatID, msgStart); err != nil {
			h.logger.Warn("POST /telegram/webhook - Failed to send start keyboard: chat=%d, error=%v", chatID, err)
		}

	case strings.HasPrefix(text, cmdConfirm):
		h.handleCommand(ctx, chatID, strings.TrimPrefix(text, cmdConfirm), actionMasterConfirm)

	case strings.HasPrefix(text, cmdCancel):
		h.handleCommand(ctx, chatID, strings.TrimPrefix(text, cmdCancel), actionMasterCancel)
	}
}

func (h *Handler) handleCommand(ctx context.Context, chatID int64, rawUID string, act action) {
	uid, err := uuid.Parse(strings.TrimSpace(rawUID))
	if err != nil {
		h.reply(ctx, chatID, msgInvalidUID)
		return
	}

	booking, err := h.apply(ctx, act, uid, chatID)
	if err != nil {
		h.reply(ctx, chatID, errorText(err))
		return
	}
	h.reply(ctx, chatID, masterReport(act, booking))
}

func (h *Handler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	var chatID int64
	if cq.Message != nil && cq.Message.Chat != nil {
		chatID = cq.Message.Chat.ID
	} else if cq.From != nil {
		chatID = cq.From.ID
	}

	act, rawUID, ok := parseCallback(cq.Data)
	if !ok {
		h.logger.Warn("POST /telegram/webhook - Unknown callback %q from chat=%d", cq.Data, chatID)
		h.answer(cq.ID, msgInternal)
		return
	}

	uid, err := uuid.Parse(rawUID)
	if err != nil {
		h.answer(cq.ID, msgInvalidUID)
		return
	}

	booking, err := h.apply(ctx, act, uid, chatID)
	if err != nil {
		h.answer(cq.ID, errorText(err))
		return
	}

	if act == actionReminderConfirm || act == actionMasterConfirm {
		h.answer(cq.ID, msgCallbackConfirm)
	} else {
		h.answer(cq.ID, msgCallbackCancel)
	}

	if act == actionMasterConfirm || act == actionMasterCancel {
		h.reply(ctx, chatID, masterReport(act, booking))
	}
}

func (h *Handler) apply(ctx context.Context, act action, uid uuid.UUID, chatID int64) (*models.BookingResponse, error) {
	var (
		booking *models.BookingResponse
		err     error
	)
	switch act {
	case actionReminderConfirm:
		booking, err = h.service.ConfirmFromReminder(ctx, uid)
	case actionReminderCancel:
		booking, err = h.service.CancelFromReminder(ctx, uid)
	case actionMasterConfirm:
		booking, err = h.service.ConfirmByMaster(ctx, uid, chatID)
	case actionMasterCancel:
		booking, err = h.service.CancelByMaster(ctx, uid, chatID)
	}

	if err != nil {
		h.logger.Warn("POST /telegram/webhook - Action %d on booking uid=%s by chat=%d failed: %v", act, uid, chatID, err)
		return nil, err
	}
	h.logger.Info("POST /telegram/webhook - Action %d on booking uid=%s by chat=%d: status=%s", act, uid, chatID, booking.Status)
	return booking, nil
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string) {
	if err := h.bot.Reply(ctx, chatID, text); err != nil {
		h.logger.Warn("POST /telegram/webhook - Failed to reply to chat=%d: %v", chatID, err)
	}
}

func (h *Handler) answer(callbackID, text string) {
	if err := h.bot.AnswerCallback(callbackID, text); err != nil {
		h.logger.Warn("POST /telegram/webhook - Failed to answer callback: %v", err)
	}
}

// parseCallback разбирает данные кнопки
// Префиксы напоминаний проверяются первыми: "reminder_confirm_" содержит "confirm_"
func parseCallback(data string) (action, string, bool) {
	prefixes := []struct {
		prefix string
		act    action
	}{
		{notifications.CallbackReminderConfirm, actionReminderConfirm},
		{notifications.CallbackReminderCancel, actionReminderCancel},
		{notifications.CallbackMasterConfirm, actionMasterConfirm},
		{notifications.CallbackMasterCancel, actionMasterCancel},
	}
	for _, p := range prefixes {
		if strings.HasPrefix(data, p.prefix) {
			return p.act, strings.TrimSpace(strings.TrimPrefix(data, p.prefix)), true
		}
	}
	return 0, "", false
}

// contactPhone приводит номер из контакта к формату записей
func contactPhone(raw string) string {
	if phone, err := domain.NormalizePhone(raw); err == nil {
		return phone
	}
	if strings.HasPrefix(raw, "+") {
		return raw
	}
	return "+" + raw
}

func errorText(err error) string {
	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		return msgNotFound
	case errors.Is(err, bookings.ErrAccessDenied):
		return msgUnauthorized
	case errors.Is(err, bookings.ErrCannotConfirm):
		return msgCannotConfirm
	case errors.Is(err, bookings.ErrCannotCancel):
		return msgCannotCancel
	default:
		return msgInternal
	}
}

func masterReport(act action, b *models.BookingResponse) string {
	if act == actionMasterCancel {
		return fmt.Sprintf("❌ Запись %s отменена.", b.UID)
	}
	return fmt.Sprintf("✅ Запись подтверждена!\nДата: %s в %s\nТелефон: %s\nКлиент: %s",
		b.BookingDate, b.StartTime, html.EscapeString(b.ClientPhone), html.EscapeString(b.ClientName))
}
