package dto

import (
	"time"

	"github.com/google/uuid"
)

type SceneResponse struct {
	Id               uuid.UUID  `json:"id"`
	ConversationId   uuid.UUID  `json:"conversationId"`
	MessageId        *uuid.UUID `json:"messageId,omitempty"`
	SceneDescription string     `json:"sceneDescription"`
	Mood             string     `json:"mood"`
	Thought          *string    `json:"thought,omitempty"`
	ImageUrl         *string    `json:"imageUrl,omitempty"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type LatestSceneResponse struct {
	Scene *SceneResponse `json:"scene"`
}

type PollSceneResponse struct {
	Scene *SceneResponse `json:"scene"`
}

// SceneRefreshMessage is the background job that polls a scene until it settles.
type SceneRefreshMessage struct {
	SceneId uuid.UUID `json:"scene_id"`
	UserId  uuid.UUID `json:"user_id"`
	Attempt int       `json:"attempt"`
}
