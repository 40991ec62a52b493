// FILE: internal/service/conversation_service.go
package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"ai-storyboard-be/internal/constant"
	"ai-storyboard-be/internal/dto"
	"ai-storyboard-be/internal/entity"
	"ai-storyboard-be/internal/pkg/apperror"
	"ai-storyboard-be/internal/pkg/logger"
	"ai-storyboard-be/internal/repository/specification"
	"ai-storyboard-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IConversationService interface {
	List(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error)
	Show(ctx context.Context, userId, id uuid.UUID) (*dto.ConversationDetailResponse, error)
	Rename(ctx context.Context, userId uuid.UUID, req *dto.UpdateConversationRequest) (*dto.ConversationResponse, error)
	Delete(ctx context.Context, userId, id uuid.UUID) error
	GetMessages(ctx context.Context, userId, id uuid.UUID) ([]*dto.MessageResponse, error)
	AddMessage(ctx context.Context, userId uuid.UUID, req *dto.AddMessageRequest) (*dto.MessageResponse, error)

	// Used by the chat turn.
	FindOwned(ctx context.Context, userId, id uuid.UUID) (*entity.Conversation, error)
	Open(ctx context.Context, userId uuid.UUID, title string, archetypeId *string) (*entity.Conversation, error)
	AppendMessage(ctx context.Context, conversationId uuid.UUID, role entity.MessageRole, content string) (*entity.Message, error)
	History(ctx context.Context, conversationId uuid.UUID) ([]*entity.Message, error)
}

type conversationService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConversationService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IConversationService {
	return &conversationService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

// DeriveTitle turns the first message of a conversation into its title.
func DeriveTitle(content string) string {
	trimmed := strings.TrimSpace(content)
	if utf8.RuneCountInString(trimmed) <= constant.ChatDerivedTitleLength {
		return trimmed
	}
	return string([]rune(trimmed)[:constant.ChatDerivedTitleLength]) + constant.ChatDerivedTitleSuffix
}

func (s *conversationService) List(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		res = append(res, toConversationResponse(c))
	}
	return res, nil
}

func (s *conversationService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error) {
	conversation, err := s.Open(ctx, userId, strings.TrimSpace(req.Title), nil)
	if err != nil {
		return nil, err
	}
	return toConversationResponse(conversation), nil
}

func (s *conversationService) Show(ctx context.Context, userId, id uuid.UUID) (*dto.ConversationDetailResponse, error) {
	conversation, err := s.FindOwned(ctx, userId, id)
	if err != nil {
		return nil, err
	}

	messages, err := s.History(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.ConversationDetailResponse{
		ConversationResponse: *toConversationResponse(conversation),
		Messages:             toMessageResponses(messages),
	}, nil
}

func (s *conversationService) Rename(ctx context.Context, userId uuid.UUID, req *dto.UpdateConversationRequest) (*dto.ConversationResponse, error) {
	conversation, err := s.FindOwned(ctx, userId, req.Id)
	if err != nil {
		return nil, err
	}

	conversation.Title = strings.TrimSpace(req.Title)
	conversation.UpdatedAt = time.Now()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
		return nil, err
	}
	return toConversationResponse(conversation), nil
}

func (s *conversationService) Delete(ctx context.Context, userId, id uuid.UUID) error {
	if _, err := s.FindOwned(ctx, userId, id); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.SceneRepository().DeleteByConversationId(ctx, id); err != nil {
		return err
	}
	if err := uow.MessageRepository().DeleteByConversationId(ctx, id); err != nil {
		return err
	}
	if err := uow.ConversationRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.logger.Info("CONVERSATION", "Conversation deleted", map[string]interface{}{
		"conversation_id": id.String(),
		"user_id":         userId.String(),
	})
	return nil
}

func (s *conversationService) GetMessages(ctx context.Context, userId, id uuid.UUID) ([]*dto.MessageResponse, error) {
	if _, err := s.FindOwned(ctx, userId, id); err != nil {
		return nil, err
	}

	messages, err := s.History(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMessageResponses(messages), nil
}

func (s *conversationService) AddMessage(ctx context.Context, userId uuid.UUID, req *dto.AddMessageRequest) (*dto.MessageResponse, error) {
	if _, err := s.FindOwned(ctx, userId, req.ConversationId); err != nil {
		return nil, err
	}

	message, err := s.AppendMessage(ctx, req.ConversationId, entity.MessageRole(req.Role), req.Content)
	if err != nil {
		return nil, err
	}
	return toMessageResponse(message), nil
}

// FindOwned returns CONVERSATION_NOT_FOUND both for missing rows and for
// rows owned by someone else.
func (s *conversationService) FindOwned(ctx context.Context, userId, id uuid.UUID) (*entity.Conversation, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if conversation == nil || !conversation.OwnedBy(userId) {
		return nil, apperror.ConversationNotFound()
	}
	return conversation, nil
}

func (s *conversationService) Open(ctx context.Context, userId uuid.UUID, title string, archetypeId *string) (*entity.Conversation, error) {
	now := time.Now()
	owner := userId
	conversation := &entity.Conversation{
		Id:          uuid.New(),
		UserId:      &owner,
		Title:       title,
		ArchetypeId: archetypeId,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
		return nil, err
	}

	s.logger.Info("CONVERSATION", "Conversation created", map[string]interface{}{
		"conversation_id": conversation.Id.String(),
		"user_id":         userId.String(),
	})
	return conversation, nil
}

func (s *conversationService) AppendMessage(ctx context.Context, conversationId uuid.UUID, role entity.MessageRole, content string) (*entity.Message, error) {
	now := time.Now()
	message := &entity.Message{
		Id:             uuid.New(),
		ConversationId: conversationId,
		Role:           role,
		Content:        content,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MessageRepository().Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *conversationService) History(ctx context.Context, conversationId uuid.UUID) ([]*entity.Message, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at"},
	)
}

func toConversationResponse(c *entity.Conversation) *dto.ConversationResponse {
	return &dto.ConversationResponse{
		Id:          c.Id,
		Title:       c.Title,
		ArchetypeId: c.ArchetypeId,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toMessageResponse(m *entity.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		Id:             m.Id,
		ConversationId: m.ConversationId,
		Role:           string(m.Role),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}

func toMessageResponses(messages []*entity.Message) []*dto.MessageResponse {
	res := make([]*dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		res = append(res, toMessageResponse(m))
	}
	return res
}
