// Package mail отправка транзакционных писем через Resend.
package mail

import "context"

// Message письмо одному получателю.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer интерфейс для отправки писем.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
