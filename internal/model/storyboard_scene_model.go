package model

import (
	"time"

	"github.com/google/uuid"
)

type StoryboardScene struct {
	Id                   uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId       uuid.UUID  `gorm:"type:uuid;not null;index:idx_storyboard_scenes_conversation_created,priority:1"`
	MessageId            *uuid.UUID `gorm:"type:uuid"`
	SceneDescription     string     `gorm:"type:text;not null"`
	Mood                 string     `gorm:"type:varchar(32);not null"`
	Thought              *string    `gorm:"type:text"`
	ImageUrl             *string    `gorm:"type:text"`
	ExternalGenerationId *string    `gorm:"type:varchar(255)"`
	Status               string     `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt            time.Time  `gorm:"autoCreateTime;index:idx_storyboard_scenes_conversation_created,priority:2"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime"`
}

func (StoryboardScene) TableName() string {
	return "storyboard_scenes"
}
