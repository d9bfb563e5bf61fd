package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/coffeehouse/internal/lib/sl"
)

// maxInFlight ограничивает число одновременно обрабатываемых сообщений.
const maxInFlight = 10

// ErrPermanent помечает ошибку обработки, которую повтор не исправит.
// Такое сообщение отбрасывается, а не возвращается в очередь.
var ErrPermanent = errors.New("permanent message failure")

// ConsumerMessage читает очередь queueName и передаёт тело каждого сообщения в handler.
// Сообщение подтверждается при успехе и возвращается в очередь при ошибке,
// кроме ошибок ErrPermanent.
func ConsumerMessage(ctx context.Context, log *slog.Logger, ch *amqp.Channel, queueName string, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(sl.Op(op), slog.String("queue", queueName))
	go consume(ctx, log, delivery, handler)
	return nil
}

// consume обрабатывает поставки до закрытия канала или отмены ctx.
func consume(ctx context.Context, log *slog.Logger, delivery <-chan amqp.Delivery, handler func([]byte) error) {
	sem := make(chan struct{}, maxInFlight)
	for {
		select {
		case d, ok := <-delivery:
			if !ok {
				return
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				if err := d.Nack(false, true); err != nil {
					log.Error("failed to nack message", sl.Err(err))
				}
				return
			}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				settle(log, d, handler(d.Body))
			}(d)
		case <-ctx.Done():
			return
		}
	}
}

func settle(log *slog.Logger, d amqp.Delivery, err error) {
	switch {
	case err == nil:
		if ackErr := d.Ack(false); ackErr != nil {
			log.Error("failed to ack message", sl.Err(ackErr))
		}
	case errors.Is(err, ErrPermanent):
		log.Error("handler failed permanently, drop", sl.Err(err))
		if nackErr := d.Nack(false, false); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
	default:
		log.Error("handler failed, requeue", sl.Err(err))
		if nackErr := d.Nack(false, true); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
	}
}
