package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/m04kA/SalonBookingService/internal/notifications"
)

// ErrInvalidChatID возвращается, когда получатель не является chat id
var ErrInvalidChatID = errors.New("telegram: invalid chat id")

// BotAPI часть tgbotapi.BotAPI, используемая каналом
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
}

// Channel доставка сообщений через Telegram Bot API
type Channel struct {
	bot     BotAPI
	limiter *rate.Limiter
}

// New создает канал; perSecond ограничивает частоту отправки (<=0 без ограничения)
func New(bot BotAPI, perSecond float64) *Channel {
	limit := rate.Inf
	burst := 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = int(perSecond)
		if burst < 1 {
			burst = 1
		}
	}
	return &Channel{bot: bot, limiter: rate.NewLimiter(limit, burst)}
}

// Send отправляет сообщение в чат destination
func (c *Channel) Send(ctx context.Context, destination string, msg notifications.Message) error {
	chatID, err := strconv.ParseInt(destination, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidChatID, destination)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	out := tgbotapi.NewMessage(chatID, msg.Text)
	out.ParseMode = tgbotapi.ModeHTML
	if len(msg.Buttons) > 0 {
		out.ReplyMarkup = keyboard(msg.Buttons)
	}

	if _, err := c.bot.Send(out); err != nil {
		return fmt.Errorf("telegram: send to %d: %w", chatID, err)
	}
	return nil
}

// SetWebhook регистрирует вебхук с секретом, который Telegram вернет в X-Telegram-Bot-Api-Secret-Token
func (c *Channel) SetWebhook(url, secret string) error {
	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", secret)
	params.AddNonEmpty("allowed_updates", `["message","callback_query"]`)

	resp, err := c.bot.MakeRequest("setWebhook", params)
	if err != nil {
		return fmt.Errorf("telegram: set webhook: %w", err)
	}
	if !resp.Ok {
		return fmt.Errorf("telegram: set webhook: %s", resp.Description)
	}
	return nil
}

// AnswerCallback отвечает на нажатие inline-кнопки
func (c *Channel) AnswerCallback(callbackID, text string) error {
	if _, err := c.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("telegram: answer callback: %w", err)
	}
	return nil
}

// RequestContact просит клиента поделиться номером телефона
func (c *Channel) RequestContact(ctx context.Context, chatID int64, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	out := tgbotapi.NewMessage(chatID, text)
	kb := tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButtonContact("📱 Поделиться номером"),
	))
	kb.OneTimeKeyboard = true
	out.ReplyMarkup = kb

	if _, err := c.bot.Send(out); err != nil {
		return fmt.Errorf("telegram: request contact: %w", err)
	}
	return nil
}

// Reply отправляет простой текст без клавиатуры
func (c *Channel) Reply(ctx context.Context, chatID int64, text string) error {
	return c.Send(ctx, strconv.FormatInt(chatID, 10), notifications.Message{Text: text})
}

func keyboard(rows [][]notifications.Button) tgbotapi.InlineKeyboardMarkup {
	markup := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		markup = append(markup, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(markup...)
}
