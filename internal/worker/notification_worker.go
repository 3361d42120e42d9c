package worker

import (
	"github.com/hotel-it/helpdesk/internal/events"
	"github.com/hotel-it/helpdesk/internal/service"
)

// StartNotificationWorker registers notification handlers and, when a stream
// publisher is given, forwards every event to Redis.
func StartNotificationWorker(dispatcher events.Dispatcher, notificationService *service.NotificationService, publisher *events.RedisStreamPublisher) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if publisher != nil && dispatcher != nil {
		publisher.Attach(dispatcher)
	}
}
