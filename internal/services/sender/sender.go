// Package services формирует и отправляет письма по уведомлениям из очереди.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/coffeehouse/internal/lib/mail"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/sl"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
	"github.com/magabrotheeeer/coffeehouse/internal/rabbitmq"
)

// sendTimeout ограничивает время отправки одного письма.
const sendTimeout = 15 * time.Second

// SenderService превращает сообщения очереди в письма.
type SenderService struct {
	mailer mail.Mailer
	log    *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, mailer mail.Mailer) *SenderService {
	return &SenderService{
		mailer: mailer,
		log:    log,
	}
}

// SendPurchaseConfirmed отправляет подтверждение оплаты мерча.
func (s *SenderService) SendPurchaseConfirmed(body []byte) error {
	var message models.PurchaseConfirmedMessage
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("Failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w: %w", rabbitmq.ErrPermanent, err)
	}

	subject := "Your Reg's Coffee House order is confirmed"
	bodyHTML := fmt.Sprintf(`<p>Thanks for your order!</p>
<p>We received your payment for <strong>%s</strong> ($%.2f).</p>
<p>Order number: #%d</p>`,
		html.EscapeString(message.ItemName), message.ItemPrice, message.PurchaseID)

	return s.sendEmail(message.Email, subject, bodyHTML)
}

// SendRsvpReserved отправляет подтверждение брони места на событии.
func (s *SenderService) SendRsvpReserved(body []byte) error {
	var message models.RsvpReservedMessage
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("Failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w: %w", rabbitmq.ErrPermanent, err)
	}

	name := message.DisplayName
	if name == "" {
		name = "there"
	}
	subject := "You're on the list: " + message.EventName
	bodyHTML := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your spot for <strong>%s</strong> is reserved.</p>
<p>%s at %s, %s.</p>`,
		html.EscapeString(name), html.EscapeString(message.EventName),
		html.EscapeString(message.EventDate), html.EscapeString(message.EventTime),
		html.EscapeString(message.EventVenue))

	return s.sendEmail(message.Email, subject, bodyHTML)
}

func (s *SenderService) sendEmail(to, subject, bodyHTML string) error {
	if to == "" {
		// повтор не поможет, сообщение подтверждается
		s.log.Warn("notification without recipient, skipping", slog.String("subject", subject))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := s.mailer.Send(ctx, mail.Message{To: to, Subject: subject, HTML: bodyHTML}); err != nil {
		s.log.Error("Failed to send email", slog.String("to", to), sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.String("to", to))
	return nil
}
