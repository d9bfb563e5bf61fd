package rabbitmq

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumerMessage_AckAndRequeue(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	uri := amqpURL(ctx, t)

	conn, err := Connect(ctx, newNoopLogger(), uri, 3, time.Second)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	ch, err := SetupChannel(conn, []QueueConfig{{QueueName: "consumer-test", RoutingKey: "consumer"}})
	require.NoError(t, err)
	defer func() { _ = ch.Close() }()

	var (
		mu       sync.Mutex
		bodies   []string
		attempts atomic.Int32
	)
	handler := func(body []byte) error {
		// первая попытка падает, сообщение должно вернуться в очередь
		if attempts.Add(1) == 1 {
			return errors.New("temporary failure")
		}
		mu.Lock()
		bodies = append(bodies, string(body))
		mu.Unlock()
		return nil
	}

	require.NoError(t, ConsumerMessage(ctx, newNoopLogger(), ch, "consumer-test", handler))
	require.NoError(t, PublishMessage(ch, Exchange, "consumer", testMsg{ID: 7}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(bodies) == 1
	}, 10*time.Second, 50*time.Millisecond)

	assert.GreaterOrEqual(t, attempts.Load(), int32(2))
	assert.JSONEq(t, `{"id":7,"name":""}`, bodies[0])
}
