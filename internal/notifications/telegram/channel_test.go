package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SalonBookingService/internal/notifications"
)

type fakeBot struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	sendErr  error

	endpoint string
	params   tgbotapi.Params
	apiResp  *tgbotapi.APIResponse
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.sendErr
}

func (f *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeBot) MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error) {
	f.endpoint = endpoint
	f.params = params
	if f.apiResp != nil {
		return f.apiResp, nil
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func TestChannel_Send(t *testing.T) {
	bot := &fakeBot{}
	ch := New(bot, 0)

	err := ch.Send(context.Background(), "12345", notifications.Message{
		Text:    "<b>hi</b>",
		Buttons: [][]notifications.Button{{{Text: "ok", Data: "reminder_confirm_x"}}},
	})
	require.NoError(t, err)
	require.Len(t, bot.sent, 1)

	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(12345), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)

	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	require.NotNil(t, markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "reminder_confirm_x", *markup.InlineKeyboard[0][0].CallbackData)
}

func TestChannel_Send_InvalidChatID(t *testing.T) {
	bot := &fakeBot{}
	ch := New(bot, 10)

	err := ch.Send(context.Background(), "not-a-chat", notifications.Message{Text: "x"})
	assert.ErrorIs(t, err, ErrInvalidChatID)
	assert.Empty(t, bot.sent)
}

func TestChannel_Send_BotError(t *testing.T) {
	bot := &fakeBot{sendErr: errors.New("blocked by user")}
	ch := New(bot, 0)

	err := ch.Send(context.Background(), "1", notifications.Message{Text: "x"})
	assert.Error(t, err)
}

func TestChannel_Send_CancelledContext(t *testing.T) {
	bot := &fakeBot{}
	ch := New(bot, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// первый токен доступен сразу, второй ждет и прерывается контекстом
	_ = ch.Send(context.Background(), "1", notifications.Message{Text: "x"})
	err := ch.Send(ctx, "1", notifications.Message{Text: "x"})
	assert.Error(t, err)
	assert.Len(t, bot.sent, 1)
}

func TestChannel_AnswerCallback(t *testing.T) {
	bot := &fakeBot{}
	ch := New(bot, 0)

	require.NoError(t, ch.AnswerCallback("cb-1", "Готово"))
	require.Len(t, bot.requests, 1)
	cb, ok := bot.requests[0].(tgbotapi.CallbackConfig)
	require.True(t, ok)
	assert.Equal(t, "cb-1", cb.CallbackQueryID)
}

func TestChannel_SetWebhook(t *testing.T) {
	bot := &fakeBot{}
	ch := New(bot, 0)

	require.NoError(t, ch.SetWebhook("https://salon.example.com/api/v1/telegram/webhook", "s3cret"))
	assert.Equal(t, "setWebhook", bot.endpoint)
	assert.Equal(t, "https://salon.example.com/api/v1/telegram/webhook", bot.params["url"])
	assert.Equal(t, "s3cret", bot.params["secret_token"])

	bot.apiResp = &tgbotapi.APIResponse{Ok: false, Description: "bad webhook"}
	assert.ErrorContains(t, ch.SetWebhook("http://x", "s3cret"), "bad webhook")
}
