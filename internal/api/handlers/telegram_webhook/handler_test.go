package telegram_webhook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SalonBookingService/internal/service/bookings"
	"github.com/m04kA/SalonBookingService/internal/service/bookings/models"
	"github.com/m04kA/SalonBookingService/pkg/logger"
)

type call struct {
	method string
	uid    uuid.UUID
	chatID int64
}

type stubService struct {
	calls []call
	err   error
}

func (s *stubService) record(method string, uid uuid.UUID, chatID int64, status string) (*models.BookingResponse, error) {
	s.calls = append(s.calls, call{method: method, uid: uid, chatID: chatID})
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingResponse{UID: uid.String(), Status: status, BookingDate: "2026-03-14", StartTime: "15:00"}, nil
}

func (s *stubService) ConfirmFromReminder(_ context.Context, uid uuid.UUID) (*models.BookingResponse, error) {
	return s.record("ConfirmFromReminder", uid, 0, "confirmed")
}

func (s *stubService) CancelFromReminder(_ context.Context, uid uuid.UUID) (*models.BookingResponse, error) {
	return s.record("CancelFromReminder", uid, 0, "cancelled")
}

func (s *stubService) ConfirmByMaster(_ context.Context, uid uuid.UUID, chatID int64) (*models.BookingResponse, error) {
	return s.record("ConfirmByMaster", uid, chatID, "confirmed")
}

func (s *stubService) CancelByMaster(_ context.Context, uid uuid.UUID, chatID int64) (*models.BookingResponse, error) {
	return s.record("CancelByMaster", uid, chatID, "cancelled")
}

type stubChats struct {
	phone  string
	chatID int64
}

func (c *stubChats) Upsert(_ context.Context, phone string, chatID int64) error {
	c.phone, c.chatID = phone, chatID
	return nil
}

type stubBot struct {
	answers  []string
	replies  []string
	contacts []int64
}

func (b *stubBot) AnswerCallback(_ string, text string) error {
	b.answers = append(b.answers, text)
	return nil
}

func (b *stubBot) RequestContact(_ context.Context, chatID int64, _ string) error {
	b.contacts = append(b.contacts, chatID)
	return nil
}

func (b *stubBot) Reply(_ context.Context, _ int64, text string) error {
	b.replies = append(b.replies, text)
	return nil
}

type fixture struct {
	svc   *stubService
	chats *stubChats
	bot   *stubBot
	h     *Handler
}

func newFixture() *fixture {
	f := &fixture{svc: &stubService{}, chats: &stubChats{}, bot: &stubBot{}}
	f.h = NewHandler(f.svc, f.chats, f.bot, testSecret, logger.NewNop())
	return f
}

const testSecret = "s3cret-token_1"

func (f *fixture) send(body, secret string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/telegram/webhook", strings.NewReader(body))
	if secret != "" {
		req.Header.Set(secretTokenHeader, secret)
	}
	rec := httptest.NewRecorder()
	f.h.Handle(rec, req)
	return rec
}

func (f *fixture) post(t *testing.T, body string) {
	t.Helper()
	require.Equal(t, http.StatusOK, f.send(body, testSecret).Code)
}

func callbackUpdate(data string, chatID string) string {
	return `{"update_id":1,"callback_query":{"id":"cb1","from":{"id":` + chatID + `},` +
		`"message":{"message_id":5,"date":0,"chat":{"id":` + chatID + `,"type":"private"}},"data":"` + data + `"}}`
}

func TestHandle_ReminderCallbacks(t *testing.T) {
	uid := uuid.New()

	f := newFixture()
	f.post(t, callbackUpdate("reminder_confirm_"+uid.String(), "100"))
	f.post(t, callbackUpdate("reminder_cancel_"+uid.String(), "100"))

	require.Len(t, f.svc.calls, 2)
	assert.Equal(t, "ConfirmFromReminder", f.svc.calls[0].method)
	assert.Equal(t, uid, f.svc.calls[0].uid)
	assert.Equal(t, "CancelFromReminder", f.svc.calls[1].method)
	assert.Equal(t, []string{msgCallbackConfirm, msgCallbackCancel}, f.bot.answers)
	assert.Empty(t, f.bot.replies)
}

func TestHandle_MasterCallbackPassesChat(t *testing.T) {
	uid := uuid.New()

	f := newFixture()
	f.post(t, callbackUpdate("confirm_"+uid.String(), "555"))

	require.Len(t, f.svc.calls, 1)
	assert.Equal(t, call{method: "ConfirmByMaster", uid: uid, chatID: 555}, f.svc.calls[0])
	assert.Equal(t, []string{msgCallbackConfirm}, f.bot.answers)
	require.Len(t, f.bot.replies, 1)
	assert.Contains(t, f.bot.replies[0], "15:00")
}

func TestHandle_CallbackErrors(t *testing.T) {
	f := newFixture()
	f.post(t, callbackUpdate("cancel_not-a-uuid", "555"))
	assert.Empty(t, f.svc.calls)
	assert.Equal(t, []string{msgInvalidUID}, f.bot.answers)

	f = newFixture()
	f.svc.err = bookings.ErrAccessDenied
	f.post(t, callbackUpdate("cancel_"+uuid.NewString(), "1"))
	assert.Equal(t, []string{msgUnauthorized}, f.bot.answers)
}

func TestHandle_TextCommands(t *testing.T) {
	uid := uuid.New()

	f := newFixture()
	f.post(t, `{"update_id":2,"message":{"message_id":1,"date":0,"chat":{"id":555,"type":"private"},"text":"/cancel_`+uid.String()+`"}}`)
	require.Len(t, f.svc.calls, 1)
	assert.Equal(t, call{method: "CancelByMaster", uid: uid, chatID: 555}, f.svc.calls[0])
	require.Len(t, f.bot.replies, 1)
	assert.Contains(t, f.bot.replies[0], uid.String())

	f = newFixture()
	f.post(t, `{"update_id":3,"message":{"message_id":1,"date":0,"chat":{"id":555,"type":"private"},"text":"/confirm_123"}}`)
	assert.Empty(t, f.svc.calls)
	assert.Equal(t, []string{msgInvalidUID}, f.bot.replies)

	f = newFixture()
	f.svc.err = errors.New("db down")
	f.post(t, `{"update_id":4,"message":{"message_id":1,"date":0,"chat":{"id":555,"type":"private"},"text":"/confirm_`+uid.String()+`"}}`)
	assert.Equal(t, []string{msgInternal}, f.bot.replies)
}

func TestHandle_StartRequestsContact(t *testing.T) {
	f := newFixture()
	f.post(t, `{"update_id":5,"message":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"},"text":"/start"}}`)

	assert.Equal(t, []int64{42}, f.bot.contacts)
}

func TestHandle_ContactSaved(t *testing.T) {
	f := newFixture()
	f.post(t, `{"update_id":6,"message":{"message_id":1,"date":0,"from":{"id":42},"chat":{"id":42,"type":"private"},`+
		`"contact":{"phone_number":"79990001122","first_name":"Анна","user_id":42}}}`)

	assert.Equal(t, "+79990001122", f.chats.phone)
	assert.Equal(t, int64(42), f.chats.chatID)
	assert.Equal(t, []string{msgContactSaved}, f.bot.replies)
}

func TestHandle_ForeignContactRejected(t *testing.T) {
	f := newFixture()
	f.post(t, `{"update_id":7,"message":{"message_id":1,"date":0,"from":{"id":42},"chat":{"id":42,"type":"private"},`+
		`"contact":{"phone_number":"+79990001122","first_name":"Иван","user_id":77}}}`)

	assert.Empty(t, f.chats.phone)
	assert.Equal(t, []string{msgForeignContact}, f.bot.replies)
}

func TestHandle_GarbageIsAcknowledged(t *testing.T) {
	f := newFixture()
	f.post(t, `not json`)

	assert.Empty(t, f.svc.calls)
}

func TestContactPhone(t *testing.T) {
	assert.Equal(t, "+79990001122", contactPhone("89990001122"))
	assert.Equal(t, "+79990001122", contactPhone("+79990001122"))
	assert.Equal(t, "+4915112345678", contactPhone("4915112345678"))
}

func TestHandle_RejectsMissingOrWrongSecret(t *testing.T) {
	update := callbackUpdate("confirm_"+uuid.NewString(), "555")

	f := newFixture()
	assert.Equal(t, http.StatusUnauthorized, f.send(update, "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.send(update, "guess").Code)
	assert.Empty(t, f.svc.calls)
	assert.Empty(t, f.bot.answers)

	f.h = NewHandler(f.svc, f.chats, f.bot, "", logger.NewNop())
	assert.Equal(t, http.StatusUnauthorized, f.send(update, "").Code)
	assert.Empty(t, f.svc.calls)
}

func TestMasterReport_EscapesClientFields(t *testing.T) {
	text := masterReport(actionMasterConfirm, &models.BookingResponse{
		BookingDate: "2026-03-14",
		StartTime:   "15:00",
		ClientPhone: "+79990001122",
		ClientName:  "Anna <3 & Co",
	})

	assert.Contains(t, text, "Клиент: Anna &lt;3 &amp; Co")
	assert.Contains(t, text, "Телефон: +79990001122")
}
