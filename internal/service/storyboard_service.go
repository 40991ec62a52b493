// FILE: internal/service/storyboard_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"ai-storyboard-be/internal/dto"
	"ai-storyboard-be/internal/entity"
	"ai-storyboard-be/internal/pkg/apperror"
	"ai-storyboard-be/internal/pkg/logger"
	"ai-storyboard-be/internal/pkg/metrics"
	"ai-storyboard-be/internal/repository/specification"
	"ai-storyboard-be/internal/repository/unitofwork"
	"ai-storyboard-be/pkg/imagegen"
	"ai-storyboard-be/pkg/storyboard"

	"github.com/google/uuid"
)

type IStoryboardService interface {
	ListPersonas() []storyboard.Persona
	CreateScene(ctx context.Context, userId, conversationId uuid.UUID, messageId *uuid.UUID, meta storyboard.SceneMetadata, personaId string) (*entity.Scene, error)
	PollAndUpdateScene(ctx context.Context, sceneId uuid.UUID) (*entity.Scene, error)
	PollSceneForUser(ctx context.Context, userId, sceneId uuid.UUID) (*dto.SceneResponse, error)
	GetLatestScene(ctx context.Context, userId, conversationId uuid.UUID) (*dto.SceneResponse, error)
	// ResumePending re-queues refresh jobs for scenes still generating. The
	// refresh queue is in-process, so jobs do not survive a restart.
	ResumePending(ctx context.Context) (int, error)
}

// SceneRefreshScheduler queues a background poll of a generating scene.
type SceneRefreshScheduler interface {
	Schedule(job dto.SceneRefreshMessage)
}

type storyboardService struct {
	uowFactory          unitofwork.RepositoryFactory
	conversationService IConversationService
	generator           imagegen.Generator
	scheduler           SceneRefreshScheduler
	logger              logger.ILogger
}

func NewStoryboardService(
	uowFactory unitofwork.RepositoryFactory,
	conversationService IConversationService,
	generator imagegen.Generator,
	scheduler SceneRefreshScheduler,
	log logger.ILogger,
) IStoryboardService {
	return &storyboardService{
		uowFactory:          uowFactory,
		conversationService: conversationService,
		generator:           generator,
		scheduler:           scheduler,
		logger:              log,
	}
}

func (s *storyboardService) ListPersonas() []storyboard.Persona {
	return storyboard.Personas()
}

func (s *storyboardService) CreateScene(ctx context.Context, userId, conversationId uuid.UUID, messageId *uuid.UUID, meta storyboard.SceneMetadata, personaId string) (*entity.Scene, error) {
	if meta.Scene == nil || *meta.Scene == "" {
		return nil, apperror.ImageGeneration("No scene description in metadata")
	}
	persona, ok := storyboard.PersonaByID(personaId)
	if !ok {
		return nil, apperror.ImageGeneration(fmt.Sprintf("Unknown persona: %s", personaId))
	}

	now := time.Now()
	scene := &entity.Scene{
		Id:               uuid.New(),
		ConversationId:   conversationId,
		MessageId:        messageId,
		SceneDescription: *meta.Scene,
		Mood:             meta.MoodOrDefault(),
		Thought:          meta.Thought,
		Status:           entity.SceneStatusGenerating,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SceneRepository().Create(ctx, scene); err != nil {
		return nil, err
	}

	generationId, err := s.generator.CreateGeneration(ctx, storyboard.BuildImagePrompt(*meta.Scene, persona))
	if err != nil {
		s.logger.Error("STORYBOARD", "Image generation request failed", map[string]interface{}{
			"scene_id": scene.Id.String(),
			"error":    err.Error(),
		})
		scene.Status = entity.SceneStatusFailed
	} else {
		scene.ExternalGenerationId = &generationId
	}
	scene.UpdatedAt = time.Now()

	if err := uow.SceneRepository().Update(ctx, scene); err != nil {
		return nil, err
	}
	metrics.SceneGenerations.WithLabelValues(string(scene.Status)).Inc()

	if scene.Status == entity.SceneStatusGenerating && s.scheduler != nil {
		s.scheduler.Schedule(dto.SceneRefreshMessage{SceneId: scene.Id, UserId: userId})
	}

	s.logger.Info("STORYBOARD", "Scene created", map[string]interface{}{
		"scene_id":        scene.Id.String(),
		"conversation_id": conversationId.String(),
		"status":          string(scene.Status),
	})
	return scene, nil
}

func (s *storyboardService) PollAndUpdateScene(ctx context.Context, sceneId uuid.UUID) (*entity.Scene, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	scene, err := uow.SceneRepository().FindOne(ctx, specification.ByID{ID: sceneId})
	if err != nil {
		return nil, err
	}
	if scene == nil {
		return nil, apperror.SceneNotFound()
	}

	if scene.Status.IsTerminal() || scene.ExternalGenerationId == nil {
		return scene, nil
	}

	result, err := s.generator.GetGeneration(ctx, *scene.ExternalGenerationId)
	if err != nil {
		s.logger.Error("STORYBOARD", "Scene poll failed", map[string]interface{}{
			"scene_id": sceneId.String(),
			"error":    err.Error(),
		})
		scene.Status = entity.SceneStatusFailed
	} else {
		scene.Status = entity.SceneStatus(result.Status)
		if result.ImageURL != "" {
			url := result.ImageURL
			scene.ImageUrl = &url
		}
	}
	scene.UpdatedAt = time.Now()

	if err := uow.SceneRepository().Update(ctx, scene); err != nil {
		return nil, err
	}
	if scene.Status.IsTerminal() {
		metrics.SceneGenerations.WithLabelValues(string(scene.Status)).Inc()
	}
	return scene, nil
}

func (s *storyboardService) PollSceneForUser(ctx context.Context, userId, sceneId uuid.UUID) (*dto.SceneResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	scene, err := uow.SceneRepository().FindOne(ctx, specification.ByID{ID: sceneId})
	if err != nil {
		return nil, err
	}
	if scene == nil {
		return nil, apperror.SceneNotFound()
	}
	if _, err := s.conversationService.FindOwned(ctx, userId, scene.ConversationId); err != nil {
		return nil, apperror.SceneNotFound()
	}

	updated, err := s.PollAndUpdateScene(ctx, sceneId)
	if err != nil {
		return nil, err
	}
	return toSceneResponse(updated), nil
}

func (s *storyboardService) GetLatestScene(ctx context.Context, userId, conversationId uuid.UUID) (*dto.SceneResponse, error) {
	if _, err := s.conversationService.FindOwned(ctx, userId, conversationId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scene, err := uow.SceneRepository().FindOne(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	if scene == nil {
		return nil, nil
	}
	return toSceneResponse(scene), nil
}

func (s *storyboardService) ResumePending(ctx context.Context) (int, error) {
	if s.scheduler == nil {
		return 0, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scenes, err := uow.SceneRepository().FindAll(ctx,
		specification.ByStatus{Status: string(entity.SceneStatusGenerating)},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return 0, err
	}

	resumed := 0
	for _, sc := range scenes {
		if sc.ExternalGenerationId == nil {
			continue
		}
		conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: sc.ConversationId})
		if err != nil {
			return resumed, err
		}
		if conversation == nil || conversation.UserId == nil {
			continue
		}
		s.scheduler.Schedule(dto.SceneRefreshMessage{SceneId: sc.Id, UserId: *conversation.UserId})
		resumed++
	}

	if resumed > 0 {
		s.logger.Info("STORYBOARD", "Resumed pending scene refreshes", map[string]interface{}{"count": resumed})
	}
	return resumed, nil
}

func toSceneResponse(sc *entity.Scene) *dto.SceneResponse {
	return &dto.SceneResponse{
		Id:               sc.Id,
		ConversationId:   sc.ConversationId,
		MessageId:        sc.MessageId,
		SceneDescription: sc.SceneDescription,
		Mood:             sc.Mood,
		Thought:          sc.Thought,
		ImageUrl:         sc.ImageUrl,
		Status:           string(sc.Status),
		CreatedAt:        sc.CreatedAt,
		UpdatedAt:        sc.UpdatedAt,
	}
}
