package entity

import (
	"time"

	"github.com/google/uuid"
)

type SceneStatus string

const (
	SceneStatusPending    SceneStatus = "pending"
	SceneStatusGenerating SceneStatus = "generating"
	SceneStatusComplete   SceneStatus = "complete"
	SceneStatusFailed     SceneStatus = "failed"
)

func (s SceneStatus) IsTerminal() bool {
	return s == SceneStatusComplete || s == SceneStatusFailed
}

type Scene struct {
	Id                   uuid.UUID
	ConversationId       uuid.UUID
	MessageId            *uuid.UUID
	SceneDescription     string
	Mood                 string
	Thought              *string
	ImageUrl             *string
	ExternalGenerationId *string
	Status               SceneStatus
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
