// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-storyboard-be/internal/dto"
	"ai-storyboard-be/internal/entity"
	"ai-storyboard-be/internal/pkg/logger"
	"ai-storyboard-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

// SceneRefreshTopic carries dto.SceneRefreshMessage jobs.
const SceneRefreshTopic = "scene_refresh"

type sceneRefreshScheduler struct {
	publisher IPublisherService
	delay     time.Duration
	logger    logger.ILogger
}

// NewSceneRefreshScheduler publishes each job after delay.
func NewSceneRefreshScheduler(publisher IPublisherService, delay time.Duration, log logger.ILogger) SceneRefreshScheduler {
	return &sceneRefreshScheduler{
		publisher: publisher,
		delay:     delay,
		logger:    log,
	}
}

func (s *sceneRefreshScheduler) Schedule(job dto.SceneRefreshMessage) {
	payload, err := json.Marshal(job)
	if err != nil {
		s.logger.Error("SCENE_REFRESH", "Failed to encode refresh job", map[string]interface{}{
			"scene_id": job.SceneId.String(),
			"error":    err.Error(),
		})
		return
	}

	time.AfterFunc(s.delay, func() {
		if err := s.publisher.Publish(context.Background(), payload); err != nil {
			s.logger.Error("SCENE_REFRESH", "Failed to publish refresh job", map[string]interface{}{
				"scene_id": job.SceneId.String(),
				"error":    err.Error(),
			})
		}
	})
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber        message.Subscriber
	topicName         string
	storyboardService IStoryboardService
	scheduler         SceneRefreshScheduler
	publisher         events.Publisher
	maxAttempts       int
	logger            logger.ILogger
}

// NewConsumerService polls generating scenes until they settle or maxAttempts runs out.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	storyboardService IStoryboardService,
	scheduler SceneRefreshScheduler,
	publisher events.Publisher,
	maxAttempts int,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:        subscriber,
		topicName:         topicName,
		storyboardService: storyboardService,
		scheduler:         scheduler,
		publisher:         publisher,
		maxAttempts:       maxAttempts,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	// Jobs are rescheduled explicitly, so redelivery is never wanted.
	msg.Ack()

	var job dto.SceneRefreshMessage
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		cs.logger.Error("SCENE_REFRESH", "Failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	scene, err := cs.storyboardService.PollAndUpdateScene(ctx, job.SceneId)
	if err != nil {
		cs.logger.Warn("SCENE_REFRESH", "Scene refresh failed", map[string]interface{}{
			"scene_id": job.SceneId.String(),
			"attempt":  job.Attempt,
			"error":    err.Error(),
		})
		return
	}

	switch scene.Status {
	case entity.SceneStatusComplete:
		publishEvent(ctx, cs.publisher, cs.logger, events.SceneReady, sceneEventData(job.UserId.String(), scene))
		return
	case entity.SceneStatusFailed:
		publishEvent(ctx, cs.publisher, cs.logger, events.SceneFailed, sceneEventData(job.UserId.String(), scene))
		return
	}

	next := job.Attempt + 1
	if next >= cs.maxAttempts {
		cs.logger.Warn("SCENE_REFRESH", "Giving up on scene refresh", map[string]interface{}{
			"scene_id": job.SceneId.String(),
			"attempts": next,
		})
		return
	}
	job.Attempt = next
	cs.scheduler.Schedule(job)
}

func sceneEventData(userId string, scene *entity.Scene) map[string]interface{} {
	data := map[string]interface{}{
		"user_id":         userId,
		"scene_id":        scene.Id.String(),
		"conversation_id": scene.ConversationId.String(),
		"status":          string(scene.Status),
	}
	if scene.ImageUrl != nil {
		data["image_url"] = *scene.ImageUrl
	}
	return data
}
