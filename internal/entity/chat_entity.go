package entity

import (
	"time"

	"github.com/google/uuid"
)

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

type Conversation struct {
	Id          uuid.UUID
	UserId      *uuid.UUID
	Title       string
	ArchetypeId *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnedBy reports whether userId may read or modify the conversation.
func (c *Conversation) OwnedBy(userId uuid.UUID) bool {
	return c.UserId != nil && *c.UserId == userId
}

type Message struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	Role           MessageRole
	Content        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
