package service

import (
	"context"

	"ai-storyboard-be/internal/pkg/logger"
	"ai-storyboard-be/pkg/events"
)

// publishEvent emits a domain event after the state change has been
// committed. Failures are logged and never undo the change.
func publishEvent(ctx context.Context, publisher events.Publisher, log logger.ILogger, eventType string, data map[string]interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, events.New(eventType, data)); err != nil {
		log.Warn("EVENTS", "Failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}
