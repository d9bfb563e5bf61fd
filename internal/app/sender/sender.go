// Package sender собирает процесс, который читает очереди уведомлений и отправляет письма.
package sender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/coffeehouse/internal/config"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/mail"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/sl"
	"github.com/magabrotheeeer/coffeehouse/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/coffeehouse/internal/services/sender"
)

// App отправитель писем.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New подключается к RabbitMQ и объявляет очереди уведомлений.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "sender.New"

	transport, err := mail.NewTransport(cfg.Mail, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	conn, err := rabbitmq.Connect(ctx, logger, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderservice.NewSenderService(logger, transport),
		logger:        logger,
	}, nil
}

// Run запускает потребителей и блокируется до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	handlers := map[string]func([]byte) error{
		rabbitmq.RoutingPurchaseConfirmed: a.senderService.SendPurchaseConfirmed,
		rabbitmq.RoutingRsvpReserved:      a.senderService.SendRsvpReserved,
	}

	for _, q := range rabbitmq.GetNotificationQueues() {
		handler, ok := handlers[q.RoutingKey]
		if !ok {
			continue
		}
		if err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, q.QueueName, handler); err != nil {
			a.logger.Error("failed to start consumer", slog.String("queue", q.QueueName), sl.Err(err))
			a.close()
			return err
		}
	}

	<-ctx.Done()
	a.logger.Info("Sender service shutting down gracefully")
	a.close()
	return nil
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
}
