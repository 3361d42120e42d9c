package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/hotel-it/helpdesk/internal/config"
	"github.com/hotel-it/helpdesk/internal/events"
	"github.com/hotel-it/helpdesk/internal/priority"
)

// NotificationService logs ticket events and escalates high priority tickets
// to the configured webhook.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	webhook    *WebhookNotifier
}

// NewNotificationService creates the service. The webhook is disabled when
// cfg.WebhookURL is empty.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
	}
	if cfg.WebhookURL != "" {
		n.webhook = NewWebhookNotifier(cfg.WebhookURL, cfg.WebhookTimeout(), logger)
	}
	return n
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.logEvent)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.logEvent)
	n.dispatcher.Subscribe(events.EventTicketResponseAdded, n.logEvent)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok || payload.PriorityLevel != priority.LevelHigh {
		return n.logEvent(ctx, event)
	}

	n.logger.Warn("high priority ticket created",
		zap.String("ticket_id", event.TicketID),
		zap.String("external_key", payload.ExternalKey),
		zap.Int("priority_score", payload.PriorityScore))
	if n.webhook == nil {
		return nil
	}
	if err := n.webhook.Send(ctx, event); err != nil {
		return fmt.Errorf("escalate ticket %s: %w", event.TicketID, err)
	}
	return nil
}

func (n *NotificationService) logEvent(_ context.Context, event events.Event) error {
	n.logger.Info("ticket event",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.Any("payload", event.Payload))
	return nil
}

// WebhookNotifier POSTs events as JSON to an HTTP endpoint. Calls go through a
// circuit breaker so a dead endpoint stops costing request latency.
type WebhookNotifier struct {
	url     string
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker
}

// NewWebhookNotifier builds a notifier for url.
func NewWebhookNotifier(url string, timeout time.Duration, logger *zap.Logger) *WebhookNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings := gobreaker.Settings{
		Name:        "notification-webhook",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
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
	return &WebhookNotifier{
		url:     url,
		timeout: timeout,
		cb:      gobreaker.NewCircuitBreaker(settings),
	}
}

// Send delivers event; any non-2xx answer is an error.
func (w *WebhookNotifier) Send(ctx context.Context, event events.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	timeout := w.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	_, err = w.cb.Execute(func() (interface{}, error) {
		agent := fiber.Post(w.url).
			ContentType(fiber.MIMEApplicationJSON).
			Body(body).
			Timeout(timeout)
		status, _, errs := agent.Bytes()
		if len(errs) > 0 {
			return nil, errors.Join(errs...)
		}
		if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
			return nil, fmt.Errorf("webhook answered %d", status)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	return nil
}
