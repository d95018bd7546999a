package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SalonBookingService/internal/notifications"
)

// ErrEmptyRecipient возвращается, когда адрес получателя пуст
var ErrEmptyRecipient = errors.New("email: empty recipient")

// Config параметры SMTP сервера
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Channel доставка сообщений по SMTP
type Channel struct {
	cfg    Config
	dialer net.Dialer
}

// New создает email канал
func New(cfg Config) *Channel {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &Channel{cfg: cfg, dialer: net.Dialer{Timeout: 10 * time.Second}}
}

// Send отправляет письмо на адрес destination
func (c *Channel) Send(ctx context.Context, destination string, msg notifications.Message) error {
	to := strings.TrimSpace(destination)
	if to == "" {
		return ErrEmptyRecipient
	}

	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))
	conn, err := c.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("email: dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, c.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("email: handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: c.cfg.Host}); err != nil {
			return fmt.Errorf("email: starttls: %w", err)
		}
	}

	if c.cfg.Username != "" {
		auth := smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("email: auth: %w", err)
		}
	}

	if err := client.Mail(c.cfg.From); err != nil {
		return fmt.Errorf("email: mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("email: rcpt %s: %w", to, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("email: data: %w", err)
	}
	if _, err := w.Write([]byte(buildMessage(c.cfg.From, to, msg.Subject, msg.Text))); err != nil {
		w.Close()
		return fmt.Errorf("email: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("email: close body: %w", err)
	}

	return client.Quit()
}

func buildMessage(from, to, subject, body string) string {
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\nContent-Transfer-Encoding: 8bit\r\n\r\n%s\r\n",
		from,
		to,
		mime.QEncoding.Encode("utf-8", subject),
		strings.ReplaceAll(body, "\n", "<br>\r\n"),
	)
}
