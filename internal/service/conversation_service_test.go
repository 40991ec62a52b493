package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"ai-storyboard-be/internal/dto"
	"ai-storyboard-be/internal/entity"
	"ai-storyboard-be/internal/pkg/apperror"
	"ai-storyboard-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"short", "Hello there", "Hello there"},
		{"trims", "   Hello there  \n", "Hello there"},
		{"exactly fifty", strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{"fifty one", strings.Repeat("a", 51), strings.Repeat("a", 50) + "..."},
		{"multibyte", strings.Repeat("é", 60), strings.Repeat("é", 50) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveTitle(tt.content))
		})
	}
}

func TestConversationService_Ownership(t *testing.T) {
	factory := newFakeFactory()
	svc := NewConversationService(factory, logger.NewNopLogger())
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()

	created, err := svc.Create(ctx, owner, &dto.CreateConversationRequest{Title: " Trip ideas "})
	require.NoError(t, err)
	assert.Equal(t, "Trip ideas", created.Title)

	_, err = svc.Show(ctx, stranger, created.Id)
	assert.True(t, apperror.HasCode(err, apperror.CodeConversationNotFound))

	_, err = svc.Rename(ctx, stranger, &dto.UpdateConversationRequest{Id: created.Id, Title: "mine"})
	assert.True(t, apperror.HasCode(err, apperror.CodeConversationNotFound))

	err = svc.Delete(ctx, stranger, created.Id)
	assert.True(t, apperror.HasCode(err, apperror.CodeConversationNotFound))

	_, err = svc.Show(ctx, owner, uuid.New())
	assert.True(t, apperror.HasCode(err, apperror.CodeConversationNotFound))

	list, err := svc.List(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestConversationService_MessagesInOrder(t *testing.T) {
	factory := newFakeFactory()
	svc := NewConversationService(factory, logger.NewNopLogger())
	ctx := context.Background()
	owner := uuid.New()

	conv, err := svc.Open(ctx, owner, "chat", nil)
	require.NoError(t, err)

	_, err = svc.AddMessage(ctx, owner, &dto.AddMessageRequest{ConversationId: conv.Id, Role: "user", Content: "one"})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = svc.AddMessage(ctx, owner, &dto.AddMessageRequest{ConversationId: conv.Id, Role: "assistant", Content: "two"})
	require.NoError(t, err)

	msgs, err := svc.GetMessages(ctx, owner, conv.Id)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "one", msgs[0].Content)
	assert.Equal(t, "assistant", msgs[1].Role)
}

func TestConversationService_DeleteCascades(t *testing.T) {
	factory := newFakeFactory()
	svc := NewConversationService(factory, logger.NewNopLogger())
	ctx := context.Background()
	owner := uuid.New()

	conv, err := svc.Open(ctx, owner, "chat", nil)
	require.NoError(t, err)
	_, err = svc.AppendMessage(ctx, conv.Id, entity.MessageRoleUser, "hi")
	require.NoError(t, err)
	factory.store.scenes[uuid.New()] = &entity.Scene{Id: uuid.New(), ConversationId: conv.Id}

	require.NoError(t, svc.Delete(ctx, owner, conv.Id))

	assert.Empty(t, factory.store.messagesOf(conv.Id))
	assert.Empty(t, factory.store.sceneList())
	_, err = svc.FindOwned(ctx, owner, conv.Id)
	assert.True(t, apperror.HasCode(err, apperror.CodeConversationNotFound))
}

func TestConversationService_Rename(t *testing.T) {
	factory := newFakeFactory()
	svc := NewConversationService(factory, logger.NewNopLogger())
	ctx := context.Background()
	owner := uuid.New()

	conv, err := svc.Open(ctx, owner, "old", nil)
	require.NoError(t, err)

	res, err := svc.Rename(ctx, owner, &dto.UpdateConversationRequest{Id: conv.Id, Title: "new"})
	require.NoError(t, err)
	assert.Equal(t, "new", res.Title)

	list, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "new", list[0].Title)
}
