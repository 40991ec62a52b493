package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	Content        string  `json:"content" validate:"required,min=1,max=10000"`
	ConversationId *string `json:"conversationId,omitempty" validate:"omitempty,uuid"`
	ArchetypeId    *string `json:"archetypeId,omitempty" validate:"omitempty,max=64"`
}

type CreateConversationRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

type UpdateConversationRequest struct {
	Id    uuid.UUID `json:"-"`
	Title string    `json:"title" validate:"required,min=1,max=200"`
}

type AddMessageRequest struct {
	ConversationId uuid.UUID `json:"-"`
	Role           string    `json:"role" validate:"required,oneof=user assistant"`
	Content        string    `json:"content" validate:"required,min=1,max=10000"`
}

type ConversationResponse struct {
	Id          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	ArchetypeId *string   `json:"archetypeId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type MessageResponse struct {
	Id             uuid.UUID `json:"id"`
	ConversationId uuid.UUID `json:"conversationId"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

type ConversationDetailResponse struct {
	ConversationResponse
	Messages []*MessageResponse `json:"messages"`
}
