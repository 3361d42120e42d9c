package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hotel-it/helpdesk/internal/config"
	"github.com/hotel-it/helpdesk/internal/events"
	"github.com/hotel-it/helpdesk/internal/priority"
)

type webhookSink struct {
	hits   atomic.Int32
	status int
	last   atomic.Value
}

func newWebhookSink(t *testing.T, status int) (*webhookSink, *httptest.Server) {
	t.Helper()
	sink := &webhookSink{status: status}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sink.hits.Add(1)
		body, _ := io.ReadAll(r.Body)
		sink.last.Store(body)
		w.WriteHeader(sink.status)
	}))
	t.Cleanup(srv.Close)
	return sink, srv
}

func createdEvent(level priority.Level, score int) events.Event {
	return events.Event{
		ID:        "evt-1",
		Type:      events.EventTicketCreated,
		TicketID:  "t-1",
		Timestamp: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		Payload: events.TicketCreatedPayload{
			ExternalKey:   "TCK-0001",
			Title:         "Sin internet",
			PriorityScore: score,
			PriorityLevel: level,
		},
	}
}

func TestNotificationServicePostsHighPriorityTickets(t *testing.T) {
	sink, srv := newWebhookSink(t, http.StatusNoContent)
	core, logs := observer.New(zapcore.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{
		WebhookURL: srv.URL,
	}).RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(), createdEvent(priority.LevelHigh, 80)))

	require.Equal(t, int32(1), sink.hits.Load())
	var got map[string]any
	require.NoError(t, json.Unmarshal(sink.last.Load().([]byte), &got))
	assert.Equal(t, "ticket_created", got["type"])
	assert.Equal(t, "t-1", got["ticket_id"])
	payload := got["payload"].(map[string]any)
	assert.Equal(t, "high", payload["priority_level"])
	assert.EqualValues(t, 80, payload["priority_score"])
	assert.Equal(t, 1, logs.FilterMessage("high priority ticket created").Len())
}

func TestNotificationServiceSkipsLowerPriorities(t *testing.T) {
	sink, srv := newWebhookSink(t, http.StatusOK)
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{
		WebhookURL: srv.URL,
	}).RegisterHandlers()

	ctx := context.Background()
	require.NoError(t, dispatcher.Publish(ctx, createdEvent(priority.LevelMedium, 55)))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventTicketAssigned, TicketID: "t-1"}))

	assert.Zero(t, sink.hits.Load())
}

func TestNotificationServiceEscalatesFromTicketService(t *testing.T) {
	sink, srv := newWebhookSink(t, http.StatusOK)
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{
		WebhookURL: srv.URL,
	}).RegisterHandlers()

	svc := NewTicketService(TicketDependencies{
		TicketRepo:   newFakeTicketRepo(),
		ResponseRepo: &fakeResponseRepo{},
		Dispatcher:   dispatcher,
	})
	_, err := svc.CreateTicket(context.Background(), requester, TicketCreateInput{
		Title:       "Caída",
		Description: "sin internet, huésped esperando",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), sink.hits.Load())
}

func TestWebhookNotifierErrorsAndTrips(t *testing.T) {
	sink, srv := newWebhookSink(t, http.StatusBadGateway)
	notifier := NewWebhookNotifier(srv.URL, time.Second, nil)
	event := createdEvent(priority.LevelHigh, 90)

	for i := 0; i < 3; i++ {
		err := notifier.Send(context.Background(), event)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	}

	err := notifier.Send(context.Background(), event)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(3), sink.hits.Load())
}

func TestNotificationServiceWithoutWebhook(t *testing.T) {
	n := NewNotificationService(nil, nil, config.NotificationConfig{})
	assert.Nil(t, n.webhook)
	assert.NoError(t, n.handleTicketCreated(context.Background(), createdEvent(priority.LevelHigh, 100)))
}
