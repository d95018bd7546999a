package notifications

import (
	"bytes"
	"fmt"
	"html"
	"text/template"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// Kind тип уведомления
type Kind string

const (
	KindReminder   Kind = "reminder"
	KindConfirmed  Kind = "confirmed"
	KindCancelled  Kind = "cancelled"
	KindNewBooking Kind = "new_booking"
)

// Префиксы данных кнопок Telegram; за префиксом следует UID бронирования
const (
	CallbackReminderConfirm = "reminder_confirm_"
	CallbackReminderCancel  = "reminder_cancel_"
	CallbackMasterConfirm   = "confirm_"
	CallbackMasterCancel    = "cancel_"
)

const displayDateFormat = "02.01.2006"

var subjects = map[Kind]string{
	KindReminder:   "Напоминание о записи",
	KindConfirmed:  "Запись подтверждена",
	KindCancelled:  "Запись отменена",
	KindNewBooking: "Новая запись",
}

var rawTemplates = map[Kind]string{
	KindReminder: `🔔 <b>Напоминание о записи</b>

{{.ClientName}}, ждём вас {{.Date}} в {{.Time}}.
Процедура: {{.ProcedureTitle}}
Мастер: {{.MasterName}}
{{if .Address}}Адрес: {{.Address}}
{{end}}{{if .ContactPhone}}Телефон: {{.ContactPhone}}
{{end}}
Пожалуйста, подтвердите визит.`,

	KindConfirmed: `✅ <b>Запись подтверждена</b>

{{.ClientName}}, ваша запись на {{.ProcedureTitle}} {{.Date}} в {{.Time}} подтверждена.
Мастер: {{.MasterName}}
{{if .Address}}Адрес: {{.Address}}
{{end}}`,

	KindCancelled: `❌ <b>Запись отменена</b>

{{.ClientName}}, запись на {{.ProcedureTitle}} {{.Date}} в {{.Time}} отменена.
{{if .ContactPhone}}Для новой записи позвоните: {{.ContactPhone}}
{{end}}`,

	KindNewBooking: `🆕 <b>Новая запись</b>

Клиент: {{.ClientName}}
Телефон: {{.ClientPhone}}
Процедура: {{.ProcedureTitle}}
Мастер: {{.MasterName}}
Дата: {{.Date}} {{.Time}}
Уведомления: {{.Method}}`,
}

// SalonInfo контактные данные салона для сообщений
type SalonInfo struct {
	Address      string
	ContactPhone string
}

// templateData данные для шаблонов
type templateData struct {
	ClientName     string
	ClientPhone    string
	ProcedureTitle string
	MasterName     string
	Date           string
	Time           string
	Method         string
	Address        string
	ContactPhone   string
}

// Templates набор шаблонов сообщений
type Templates struct {
	salon     SalonInfo
	templates map[Kind]*template.Template
}

// NewTemplates разбирает встроенные шаблоны
func NewTemplates(salon SalonInfo) (*Templates, error) {
	parsed := make(map[Kind]*template.Template, len(rawTemplates))
	for kind, raw := range rawTemplates {
		tmpl, err := template.New(string(kind)).Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", ErrRender, kind, err)
		}
		parsed[kind] = tmpl
	}
	return &Templates{salon: salon, templates: parsed}, nil
}

// Render рендерит сообщение указанного типа для бронирования
func (t *Templates) Render(kind Kind, b *domain.Booking) (Message, error) {
	tmpl, ok := t.templates[kind]
	if !ok {
		return Message{}, fmt.Errorf("%w: unknown kind %q", ErrRender, kind)
	}

	// Сообщения уходят в HTML-разметке, поэтому все поля экранируются
	data := templateData{
		ClientName:     html.EscapeString(b.ClientName),
		ClientPhone:    html.EscapeString(b.ClientPhone),
		ProcedureTitle: html.EscapeString(b.ProcedureTitle),
		MasterName:     html.EscapeString(b.MasterName),
		Date:           b.BookingDate.Format(displayDateFormat),
		Time:           b.StartTime.String(),
		Method:         string(b.NotificationMethod),
		Address:        html.EscapeString(t.salon.Address),
		ContactPhone:   html.EscapeString(t.salon.ContactPhone),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("%w: execute %s: %v", ErrRender, kind, err)
	}

	msg := Message{Subject: subjects[kind], Text: buf.String()}

	switch kind {
	case KindReminder:
		msg.Buttons = [][]Button{{
			{Text: "✅ Подтвердить", Data: CallbackReminderConfirm + b.UID.String()},
			{Text: "❌ Отменить", Data: CallbackReminderCancel + b.UID.String()},
		}}
	case KindNewBooking:
		msg.Buttons = [][]Button{{
			{Text: "✅ Подтвердить", Data: CallbackMasterConfirm + b.UID.String()},
			{Text: "❌ Отменить", Data: CallbackMasterCancel + b.UID.String()},
		}}
	}

	return msg, nil
}
