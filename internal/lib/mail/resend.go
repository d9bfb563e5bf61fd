package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/resendlabs/resend-go"

	"github.com/magabrotheeeer/coffeehouse/internal/config"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/sl"
)

// ErrNoAPIKey не задан ключ Resend.
var ErrNoAPIKey = errors.New("resend api key is required")

// Transport реализует Mailer поверх API Resend.
type Transport struct {
	client    *resend.Client
	fromEmail string
	fromName  string
	log       *slog.Logger
}

// NewTransport создает новый экземпляр Transport.
func NewTransport(cfg config.Mail, log *slog.Logger) (*Transport, error) {
	if cfg.ResendAPIKey == "" {
		return nil, ErrNoAPIKey
	}
	return &Transport{
		client:    resend.NewClient(cfg.ResendAPIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		log:       log,
	}, nil
}

// Send отправляет письмо. Клиент Resend не принимает контекст,
// поэтому отменённый контекст проверяется до запроса.
func (t *Transport) Send(ctx context.Context, msg Message) error {
	const op = "mail.Send"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", t.fromName, t.fromEmail),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	resp, err := t.client.Emails.Send(params)
	if err != nil {
		t.log.Error("failed to send email via Resend", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	t.log.Info("email sent", slog.String("op", op), slog.String("id", resp.Id))
	return nil
}
