// Package rabbitmq подключение к RabbitMQ, объявление очередей уведомлений,
// публикация и потребление сообщений.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/coffeehouse/internal/lib/sl"
)

// prefetch число неподтверждённых сообщений на канал, совпадает с maxInFlight потребителя.
const prefetch = maxInFlight

// Connect подключается к брокеру. Делает до attempts попыток с паузой delay
// и прекращает ожидание при отмене ctx. В журнал попадает адрес без пароля.
func Connect(ctx context.Context, log *slog.Logger, url string, attempts int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	log = log.With(sl.Op(op), slog.String("broker", redact(url)))

	err := errors.New("no connection attempts")
	for attempt := 1; attempt <= attempts; attempt++ {
		var conn *amqp.Connection
		conn, err = amqp.Dial(url)
		if err == nil {
			log.Info("connected to broker", slog.Int("attempt", attempt))
			return conn, nil
		}
		log.Warn("broker is unavailable", slog.Int("attempt", attempt), slog.Int("attempts", attempts), sl.Err(err))
		if attempt == attempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		case <-timer.C:
		}
	}
	return nil, fmt.Errorf("%s: %w", op, err)
}

// redact убирает учётные данные из адреса брокера.
func redact(url string) string {
	uri, err := amqp.ParseURI(url)
	if err != nil {
		return "invalid uri"
	}
	return fmt.Sprintf("%s://%s:%d/%s", uri.Scheme, uri.Host, uri.Port, strings.TrimPrefix(uri.Vhost, "/"))
}

// SetupChannel открывает канал, объявляет exchange уведомлений и привязывает к нему очереди.
// При ошибке канал закрывается.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := declare(ch, queues); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ch, nil
}

func declare(ch *amqp.Channel, queues []QueueConfig) error {
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}
	// durable direct exchange
	if err := ch.ExchangeDeclare(Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("exchange %s: %w", Exchange, err)
	}
	for _, q := range queues {
		if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue %s: %w", q.QueueName, err)
		}
		if err := ch.QueueBind(q.QueueName, q.RoutingKey, Exchange, false, nil); err != nil {
			return fmt.Errorf("bind %s to %s: %w", q.QueueName, q.RoutingKey, err)
		}
	}
	return nil
}
