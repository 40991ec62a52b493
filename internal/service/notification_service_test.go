package service

import (
	"context"
	"sync"
	"testing"

	"ai-storyboard-be/internal/pkg/logger"
	"ai-storyboard-be/internal/websocket"
	"ai-storyboard-be/pkg/events"
	pktNats "ai-storyboard-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingSubscriber struct {
	subject string
	durable string
	handler pktNats.EventHandler
}

func (s *capturingSubscriber) Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error {
	s.subject, s.durable, s.handler = subject, durableName, handler
	return nil
}

type delivered struct {
	userID       uuid.UUID
	notification websocket.Notification
}

type recordingDelivery struct {
	mu  sync.Mutex
	out []delivered
}

func (d *recordingDelivery) Send(userID uuid.UUID, notification websocket.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.out = append(d.out, delivered{userID, notification})
}

func TestNotificationService_PushesUserEvents(t *testing.T) {
	sub := &capturingSubscriber{}
	delivery := &recordingDelivery{}
	svc := NewNotificationService(sub, delivery, logger.NewNopLogger())
	require.NoError(t, svc.Start(context.Background()))
	assert.Equal(t, "events.>", sub.subject)
	assert.Equal(t, "notification-service", sub.durable)

	user := uuid.New()
	// as decoded from JSON, where numbers are float64
	event := events.New("events."+events.TokensPurchased, map[string]interface{}{
		"user_id":   user.String(),
		"pack_name": "50 Tokens",
		"tokens":    float64(50),
		"balance":   float64(57),
	})
	require.NoError(t, sub.handler(context.Background(), event))

	require.Len(t, delivery.out, 1)
	got := delivery.out[0]
	assert.Equal(t, user, got.userID)
	assert.Equal(t, events.TokensPurchased, got.notification.Type)
	assert.Equal(t, "50 Tokens added 50 tokens. Balance: 57.", got.notification.Message)
	assert.Equal(t, "50 Tokens", got.notification.Data["pack_name"])
}

func TestNotificationService_SkipsUnroutableEvents(t *testing.T) {
	sub := &capturingSubscriber{}
	delivery := &recordingDelivery{}
	svc := NewNotificationService(sub, delivery, logger.NewNopLogger())
	require.NoError(t, svc.Start(context.Background()))

	tests := []events.Event{
		events.New("UNKNOWN_EVENT", map[string]interface{}{"user_id": uuid.NewString()}),
		events.New(events.TokenRefunded, nil),
		events.New(events.TokenRefunded, map[string]interface{}{"user_id": "not-a-uuid"}),
	}
	for _, e := range tests {
		assert.NoError(t, sub.handler(context.Background(), e))
	}
	assert.Empty(t, delivery.out)
}
