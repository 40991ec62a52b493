package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-storyboard-be/internal/pkg/logger"
	"ai-storyboard-be/internal/websocket"
	"ai-storyboard-be/pkg/events"
	pktNats "ai-storyboard-be/pkg/nats" // Renamed to avoid collision

	"github.com/google/uuid"
)

// NotificationDelivery defines how to push real-time updates.
// Implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification websocket.Notification)
}

// EventSubscriber is satisfied by *nats.Subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

type notificationTemplate struct {
	Title   string
	Message string
}

// Placeholders in {braces} are filled from the event payload.
var notificationTemplates = map[string]notificationTemplate{
	events.SignupTokensGranted: {Title: "Welcome!", Message: "You received {tokens} free tokens to start chatting."},
	events.TokensConsumed:      {Title: "Token used", Message: "You have {balance} tokens left."},
	events.TokenRefunded:       {Title: "Token refunded", Message: "The AI response failed, so your token was returned. Balance: {balance}."},
	events.TokensPurchased:     {Title: "Purchase complete", Message: "{pack_name} added {tokens} tokens. Balance: {balance}."},
	events.TokenBalanceLow:     {Title: "Running low", Message: "Only {balance} tokens left. Top up to keep chatting."},
	events.SceneReady:          {Title: "Scene ready", Message: "Your date scene has been drawn."},
	events.SceneFailed:         {Title: "Scene failed", Message: "We couldn't draw this scene."},
}

type NotificationService struct {
	subscriber EventSubscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub EventSubscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start(ctx context.Context) error {
	if err := s.subscriber.Subscribe(ctx, pktNats.SubjectPrefix+">", "notification-service", s.handleEvent); err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
		return err
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
	return nil
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	// Subjects carry the stream prefix.
	typeCode := strings.TrimPrefix(event.EventType(), pktNats.SubjectPrefix)

	tmpl, ok := notificationTemplates[typeCode]
	if !ok {
		s.logger.Debug("NotificationService", fmt.Sprintf("No template for '%s'", typeCode), nil)
		return nil
	}

	uidStr, ok := events.UserID(event)
	if !ok {
		s.logger.Warn("NotificationService", fmt.Sprintf("No user_id in payload for event %s", typeCode), nil)
		return nil
	}
	userID, err := uuid.Parse(uidStr)
	if err != nil {
		s.logger.Warn("NotificationService", "Malformed user_id in event payload", map[string]interface{}{
			"type":    typeCode,
			"user_id": uidStr,
		})
		return nil
	}

	if s.delivery != nil {
		s.delivery.Send(userID, buildNotification(typeCode, tmpl, event))
	}
	return nil
}

func buildNotification(typeCode string, tmpl notificationTemplate, event events.Event) websocket.Notification {
	// Simple Template Engine
	msg := tmpl.Message
	payload := event.Payload()
	for k, v := range payload {
		msg = strings.ReplaceAll(msg, fmt.Sprintf("{%s}", k), fmt.Sprintf("%v", v))
	}

	data := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		data[k] = v
	}

	createdAt := event.Timestamp()
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return websocket.Notification{
		Type:      typeCode,
		Title:     tmpl.Title,
		Message:   msg,
		Data:      data,
		CreatedAt: createdAt,
	}
}
