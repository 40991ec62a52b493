package controller

import (
	"context"

	"ai-storyboard-be/internal/constant"
	"ai-storyboard-be/internal/dto"
	"ai-storyboard-be/internal/entity"
	"ai-storyboard-be/internal/service"
	"ai-storyboard-be/pkg/settlement"
	"ai-storyboard-be/pkg/storyboard"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockChatService struct{ mock.Mock }

func (m *mockChatService) StartTurn(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*service.ChatTurn, error) {
	args := m.Called(ctx, userId, req)
	turn, _ := args.Get(0).(*service.ChatTurn)
	return turn, args.Error(1)
}

func (m *mockChatService) StreamTurn(turn *service.ChatTurn, w service.FrameWriter) settlement.State {
	args := m.Called(turn, w)
	return args.Get(0).(settlement.State)
}

type mockConversationService struct{ mock.Mock }

func (m *mockConversationService) List(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationResponse, error) {
	args := m.Called(ctx, userId)
	res, _ := args.Get(0).([]*dto.ConversationResponse)
	return res, args.Error(1)
}

func (m *mockConversationService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error) {
	args := m.Called(ctx, userId, req)
	res, _ := args.Get(0).(*dto.ConversationResponse)
	return res, args.Error(1)
}

func (m *mockConversationService) Show(ctx context.Context, userId, id uuid.UUID) (*dto.ConversationDetailResponse, error) {
	args := m.Called(ctx, userId, id)
	res, _ := args.Get(0).(*dto.ConversationDetailResponse)
	return res, args.Error(1)
}

func (m *mockConversationService) Rename(ctx context.Context, userId uuid.UUID, req *dto.UpdateConversationRequest) (*dto.ConversationResponse, error) {
	args := m.Called(ctx, userId, req)
	res, _ := args.Get(0).(*dto.ConversationResponse)
	return res, args.Error(1)
}

func (m *mockConversationService) Delete(ctx context.Context, userId, id uuid.UUID) error {
	return m.Called(ctx, userId, id).Error(0)
}

func (m *mockConversationService) GetMessages(ctx context.Context, userId, id uuid.UUID) ([]*dto.MessageResponse, error) {
	args := m.Called(ctx, userId, id)
	res, _ := args.Get(0).([]*dto.MessageResponse)
	return res, args.Error(1)
}

func (m *mockConversationService) AddMessage(ctx context.Context, userId uuid.UUID, req *dto.AddMessageRequest) (*dto.MessageResponse, error) {
	args := m.Called(ctx, userId, req)
	res, _ := args.Get(0).(*dto.MessageResponse)
	return res, args.Error(1)
}

func (m *mockConversationService) FindOwned(ctx context.Context, userId, id uuid.UUID) (*entity.Conversation, error) {
	args := m.Called(ctx, userId, id)
	res, _ := args.Get(0).(*entity.Conversation)
	return res, args.Error(1)
}

func (m *mockConversationService) Open(ctx context.Context, userId uuid.UUID, title string, archetypeId *string) (*entity.Conversation, error) {
	args := m.Called(ctx, userId, title, archetypeId)
	res, _ := args.Get(0).(*entity.Conversation)
	return res, args.Error(1)
}

func (m *mockConversationService) AppendMessage(ctx context.Context, conversationId uuid.UUID, role entity.MessageRole, content string) (*entity.Message, error) {
	args := m.Called(ctx, conversationId, role, content)
	res, _ := args.Get(0).(*entity.Message)
	return res, args.Error(1)
}

func (m *mockConversationService) History(ctx context.Context, conversationId uuid.UUID) ([]*entity.Message, error) {
	args := m.Called(ctx, conversationId)
	res, _ := args.Get(0).([]*entity.Message)
	return res, args.Error(1)
}

type mockBillingService struct{ mock.Mock }

func (m *mockBillingService) GetBalance(ctx context.Context, userId uuid.UUID) (*dto.BalanceResponse, error) {
	args := m.Called(ctx, userId)
	res, _ := args.Get(0).(*dto.BalanceResponse)
	return res, args.Error(1)
}

func (m *mockBillingService) GetTransactions(ctx context.Context, userId uuid.UUID, req *dto.TransactionHistoryRequest) (*dto.TransactionHistoryResponse, error) {
	args := m.Called(ctx, userId, req)
	res, _ := args.Get(0).(*dto.TransactionHistoryResponse)
	return res, args.Error(1)
}

func (m *mockBillingService) ListPacks() []constant.TokenPack {
	return m.Called().Get(0).([]constant.TokenPack)
}

func (m *mockBillingService) CreateCheckout(ctx context.Context, userId uuid.UUID, email string, req *dto.CheckoutRequest) (*dto.RedirectResponse, error) {
	args := m.Called(ctx, userId, email, req)
	res, _ := args.Get(0).(*dto.RedirectResponse)
	return res, args.Error(1)
}

func (m *mockBillingService) CreatePortalSession(ctx context.Context, userId uuid.UUID) (*dto.RedirectResponse, error) {
	args := m.Called(ctx, userId)
	res, _ := args.Get(0).(*dto.RedirectResponse)
	return res, args.Error(1)
}

func (m *mockBillingService) HandleBillingWebhook(ctx context.Context, event *dto.BillingWebhookEvent, payload []byte) error {
	return m.Called(ctx, event, payload).Error(0)
}

func (m *mockBillingService) HandleMidtransNotification(ctx context.Context, req *dto.MidtransWebhookRequest, payload []byte) error {
	return m.Called(ctx, req, payload).Error(0)
}

type mockStoryboardService struct{ mock.Mock }

func (m *mockStoryboardService) ListPersonas() []storyboard.Persona {
	return m.Called().Get(0).([]storyboard.Persona)
}

func (m *mockStoryboardService) CreateScene(ctx context.Context, userId, conversationId uuid.UUID, messageId *uuid.UUID, meta storyboard.SceneMetadata, personaId string) (*entity.Scene, error) {
	args := m.Called(ctx, userId, conversationId, messageId, meta, personaId)
	res, _ := args.Get(0).(*entity.Scene)
	return res, args.Error(1)
}

func (m *mockStoryboardService) PollAndUpdateScene(ctx context.Context, sceneId uuid.UUID) (*entity.Scene, error) {
	args := m.Called(ctx, sceneId)
	res, _ := args.Get(0).(*entity.Scene)
	return res, args.Error(1)
}

func (m *mockStoryboardService) PollSceneForUser(ctx context.Context, userId, sceneId uuid.UUID) (*dto.SceneResponse, error) {
	args := m.Called(ctx, userId, sceneId)
	res, _ := args.Get(0).(*dto.SceneResponse)
	return res, args.Error(1)
}

func (m *mockStoryboardService) GetLatestScene(ctx context.Context, userId, conversationId uuid.UUID) (*dto.SceneResponse, error) {
	args := m.Called(ctx, userId, conversationId)
	res, _ := args.Get(0).(*dto.SceneResponse)
	return res, args.Error(1)
}

func (m *mockStoryboardService) ResumePending(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) EnsureProvisioned(ctx context.Context, userId uuid.UUID, email string) error {
	return m.Called(ctx, userId, email).Error(0)
}

func (m *mockUserService) GetUser(ctx context.Context, userId uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, userId)
	res, _ := args.Get(0).(*entity.User)
	return res, args.Error(1)
}
