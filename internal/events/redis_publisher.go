package events

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// StreamAdder is the slice of the Redis client the publisher needs.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisStreamPublisher forwards events to a Redis stream for downstream
// consumers (notification workers, dashboards). Calls go through a circuit
// breaker so an unavailable Redis fails fast instead of slowing requests.
type RedisStreamPublisher struct {
	client StreamAdder
	stream string
	maxLen int64
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

// NewRedisStreamPublisher creates a publisher writing to stream.
func NewRedisStreamPublisher(client StreamAdder, stream string, logger *zap.Logger) *RedisStreamPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings := gobreaker.Settings{
		Name:        "redis-event-stream",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	return &RedisStreamPublisher{
		client: client,
		stream: stream,
		maxLen: 10_000,
		cb:     gobreaker.NewCircuitBreaker(settings),
		logger: logger,
	}
}

// Handle publishes event; it has the EventHandler signature so it can be
// subscribed directly on a Dispatcher.
func (p *RedisStreamPublisher) Handle(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		return nil, p.client.XAdd(ctx, &redis.XAddArgs{
			Stream: p.stream,
			MaxLen: p.maxLen,
			Approx: true,
			ID:     "*",
			Values: map[string]interface{}{
				"type": string(event.Type),
				"data": string(data),
			},
		}).Err()
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", p.stream, err)
	}
	return nil
}

// Attach subscribes the publisher to every event type.
func (p *RedisStreamPublisher) Attach(dispatcher Dispatcher) {
	for _, eventType := range AllEventTypes {
		dispatcher.Subscribe(eventType, p.Handle)
	}
}
