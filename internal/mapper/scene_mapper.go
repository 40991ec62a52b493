package mapper

import (
	"ai-storyboard-be/internal/entity"
	"ai-storyboard-be/internal/model"
)

type SceneMapper struct{}

func NewSceneMapper() *SceneMapper {
	return &SceneMapper{}
}

func (m *SceneMapper) ToEntity(s *model.StoryboardScene) *entity.Scene {
	if s == nil {
		return nil
	}
	return &entity.Scene{
		Id:                   s.Id,
		ConversationId:       s.ConversationId,
		MessageId:            s.MessageId,
		SceneDescription:     s.SceneDescription,
		Mood:                 s.Mood,
		Thought:              s.Thought,
		ImageUrl:             s.ImageUrl,
		ExternalGenerationId: s.ExternalGenerationId,
		Status:               entity.SceneStatus(s.Status),
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}

func (m *SceneMapper) ToModel(s *entity.Scene) *model.StoryboardScene {
	if s == nil {
		return nil
	}
	return &model.StoryboardScene{
		Id:                   s.Id,
		ConversationId:       s.ConversationId,
		MessageId:            s.MessageId,
		SceneDescription:     s.SceneDescription,
		Mood:                 s.Mood,
		Thought:              s.Thought,
		ImageUrl:             s.ImageUrl,
		ExternalGenerationId: s.ExternalGenerationId,
		Status:               string(s.Status),
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}
