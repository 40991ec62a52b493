// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"strings"
	"time"

	"ai-storyboard-be/internal/constant"
	"ai-storyboard-be/internal/dto"
	"ai-storyboard-be/internal/entity"
	"ai-storyboard-be/internal/pkg/apperror"
	"ai-storyboard-be/internal/pkg/logger"
	"ai-storyboard-be/internal/pkg/metrics"
	"ai-storyboard-be/pkg/llm"
	"ai-storyboard-be/pkg/settlement"
	"ai-storyboard-be/pkg/storyboard"

	"github.com/google/uuid"
)

// CompletionStreamer is satisfied by *llm.CompletionGateway.
type CompletionStreamer interface {
	StreamChatCompletion(ctx context.Context, history []llm.Message, systemPromptOverride string) (*llm.Stream, error)
}

// FrameWriter is the response body of an SSE turn. *bufio.Writer satisfies it.
type FrameWriter interface {
	Write(p []byte) (int, error)
	Flush() error
}

// ChatTurn is a debited turn whose user message is stored and which is
// ready to stream.
type ChatTurn struct {
	ConversationId uuid.UUID
	Balance        int

	userId  uuid.UUID
	saga    *settlement.Saga
	persona *storyboard.Persona
	history []llm.Message
}

type IChatService interface {
	StartTurn(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*ChatTurn, error)
	StreamTurn(turn *ChatTurn, w FrameWriter) settlement.State
}

type chatService struct {
	conversationService IConversationService
	ledger              settlement.Ledger
	gateway             CompletionStreamer
	storyboardService   IStoryboardService
	streamTimeout       time.Duration
	logger              logger.ILogger
}

func NewChatService(
	conversationService IConversationService,
	ledger settlement.Ledger,
	gateway CompletionStreamer,
	storyboardService IStoryboardService,
	streamTimeout time.Duration,
	log logger.ILogger,
) IChatService {
	return &chatService{
		conversationService: conversationService,
		ledger:              ledger,
		gateway:             gateway,
		storyboardService:   storyboardService,
		streamTimeout:       streamTimeout,
		logger:              log,
	}
}

type doneScene struct {
	Mood    *string    `json:"mood,omitempty"`
	Thought *string    `json:"thought,omitempty"`
	SceneId *uuid.UUID `json:"sceneId,omitempty"`
}

type doneTrailer struct {
	Type  string     `json:"type"`
	Saved bool       `json:"saved"`
	Scene *doneScene `json:"scene,omitempty"`
}

type messageTrailer struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (s *chatService) StartTurn(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*ChatTurn, error) {
	persona, err := resolvePersona(req.ArchetypeId)
	if err != nil {
		return nil, err
	}

	var conversation *entity.Conversation
	if req.ConversationId != nil && *req.ConversationId != "" {
		id, err := uuid.Parse(*req.ConversationId)
		if err != nil {
			return nil, apperror.Validation("Invalid request", map[string]string{"conversationId": "must be a uuid"})
		}
		conversation, err = s.conversationService.FindOwned(ctx, userId, id)
		if err != nil {
			return nil, err
		}
		if persona == nil && conversation.ArchetypeId != nil {
			if p, ok := storyboard.PersonaByID(*conversation.ArchetypeId); ok {
				persona = &p
			}
		}
	} else {
		title := DeriveTitle(req.Content)
		var archetypeId *string
		if persona != nil {
			title = storyboard.ConversationTitle(*persona)
			archetypeId = &persona.ID
		}
		conversation, err = s.conversationService.Open(ctx, userId, title, archetypeId)
		if err != nil {
			return nil, err
		}
		s.logger.Info("CHAT", "Conversation created", map[string]interface{}{
			"conversation_id": conversation.Id.String(),
			"user_id":         userId.String(),
		})
	}

	saga := settlement.New(s.ledger, userId, conversation.Id)
	balance, err := saga.Debit(ctx)
	if err != nil {
		if apperror.HasCode(err, apperror.CodeInsufficientTokens) {
			metrics.ChatTurns.WithLabelValues("insufficient_tokens").Inc()
		} else {
			metrics.ChatTurns.WithLabelValues("failed").Inc()
		}
		return nil, err
	}

	if _, err := s.conversationService.AppendMessage(ctx, conversation.Id, entity.MessageRoleUser, req.Content); err != nil {
		s.abort(ctx, saga, "user message save failed", err)
		return nil, err
	}
	if err := saga.UserMessageSaved(); err != nil {
		return nil, apperror.Internal(err)
	}

	messages, err := s.conversationService.History(ctx, conversation.Id)
	if err != nil {
		s.abort(ctx, saga, "history load failed", err)
		return nil, err
	}
	history := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		history = append(history, llm.Message{Role: string(m.Role), Content: m.Content})
	}

	return &ChatTurn{
		ConversationId: conversation.Id,
		Balance:        balance,
		userId:         userId,
		saga:           saga,
		persona:        persona,
		history:        history,
	}, nil
}

// StreamTurn relays the completion to w and settles the turn. The upstream
// call runs detached from the client; a failed write only stops relaying.
func (s *chatService) StreamTurn(turn *ChatTurn, w FrameWriter) settlement.State {
	ctx, cancel := context.WithTimeout(context.Background(), s.streamTimeout)
	defer cancel()
	// Settlement must still run after the stream deadline.
	settleCtx := context.WithoutCancel(ctx)

	if err := turn.saga.Streaming(); err != nil {
		s.logger.Error("CHAT", "Turn cannot start streaming", map[string]interface{}{
			"conversation_id": turn.ConversationId.String(),
			"error":           err.Error(),
		})
		return turn.saga.State()
	}

	relay := &frameRelay{w: w}
	started := time.Now()

	systemPrompt := ""
	if turn.persona != nil {
		systemPrompt = storyboard.BuildDateNightPrompt(*turn.persona)
	}

	stream, err := s.gateway.StreamChatCompletion(ctx, turn.history, systemPrompt)
	if err != nil {
		metrics.CompletionStreamDuration.WithLabelValues("open_failed").Observe(time.Since(started).Seconds())
		s.settleFailed(settleCtx, turn, relay, "upstream open failed", err)
		return turn.saga.State()
	}

	for frame := range stream.Frames() {
		if !relay.send(frame) && !relay.reported {
			relay.reported = true
			s.logger.Warn("CHAT", "Client disconnected, draining upstream", map[string]interface{}{
				"conversation_id": turn.ConversationId.String(),
			})
		}
	}

	text, err := stream.Wait()
	if err != nil {
		metrics.CompletionStreamDuration.WithLabelValues("failed").Observe(time.Since(started).Seconds())
		s.settleFailed(settleCtx, turn, relay, "upstream stream failed", err)
		return turn.saga.State()
	}
	metrics.CompletionStreamDuration.WithLabelValues("completed").Observe(time.Since(started).Seconds())

	if strings.TrimSpace(text) == "" {
		s.settleFailed(settleCtx, turn, relay, "empty completion", nil)
		return turn.saga.State()
	}

	dialogue := text
	var meta *storyboard.SceneMetadata
	if turn.persona != nil {
		parsed := storyboard.ParseSceneMetadata(text)
		meta = &parsed
		dialogue = parsed.Dialogue
		if dialogue == "" {
			s.settleFailed(settleCtx, turn, relay, "completion had only scene tags", nil)
			return turn.saga.State()
		}
	}

	assistant, err := s.conversationService.AppendMessage(settleCtx, turn.ConversationId, entity.MessageRoleAssistant, dialogue)
	if err != nil {
		s.settleFailed(settleCtx, turn, relay, "assistant message save failed", err)
		return turn.saga.State()
	}
	if err := turn.saga.Complete(); err != nil {
		s.logger.Error("CHAT", "Turn cannot complete", map[string]interface{}{
			"conversation_id": turn.ConversationId.String(),
			"error":           err.Error(),
		})
	}
	metrics.ChatTurns.WithLabelValues("completed").Inc()

	trailer := doneTrailer{Type: "done", Saved: true}
	if meta != nil {
		trailer.Scene = &doneScene{Mood: meta.Mood, Thought: meta.Thought}
		trailer.Scene.SceneId = s.createScene(settleCtx, turn, assistant.Id, meta)
	}
	relay.send(llm.EventFrame(trailer))

	s.logger.Info("CHAT", "Turn completed", map[string]interface{}{
		"conversation_id": turn.ConversationId.String(),
		"user_id":         turn.userId.String(),
		"length":          len(text),
	})
	return turn.saga.State()
}

func (s *chatService) createScene(ctx context.Context, turn *ChatTurn, messageId uuid.UUID, meta *storyboard.SceneMetadata) *uuid.UUID {
	if meta.Scene == nil {
		fallback := storyboard.DefaultFirstScene(*turn.persona)
		meta.Scene = &fallback
	}
	scene, err := s.storyboardService.CreateScene(ctx, turn.userId, turn.ConversationId, &messageId, *meta, turn.persona.ID)
	if err != nil {
		s.logger.Error("CHAT", "Scene creation failed", map[string]interface{}{
			"conversation_id": turn.ConversationId.String(),
			"error":           err.Error(),
		})
		return nil
	}
	return &scene.Id
}

func (s *chatService) settleFailed(ctx context.Context, turn *ChatTurn, relay *frameRelay, reason string, cause error) {
	details := map[string]interface{}{
		"conversation_id": turn.ConversationId.String(),
		"user_id":         turn.userId.String(),
		"reason":          reason,
	}
	if cause != nil {
		details["error"] = cause.Error()
	}
	s.logger.Error("CHAT", "Turn failed", details)

	refunded, balance, err := turn.saga.Fail(ctx)
	if err != nil {
		s.logger.Error("CHAT", "Refund failed", map[string]interface{}{
			"conversation_id": turn.ConversationId.String(),
			"error":           err.Error(),
		})
	}
	metrics.ChatTurns.WithLabelValues("failed").Inc()

	if refunded {
		s.logger.Info("CHAT", "Token refunded", map[string]interface{}{
			"user_id": turn.userId.String(),
			"balance": balance,
		})
		relay.send(llm.EventFrame(messageTrailer{Type: "refund", Message: constant.ChatRefundMessage}))
	}
	relay.send(llm.EventFrame(messageTrailer{Type: "error", Message: constant.ChatErrorMessage}))
}

// abort fails a turn that never reached the stream.
func (s *chatService) abort(ctx context.Context, saga *settlement.Saga, reason string, cause error) {
	s.logger.Error("CHAT", "Turn aborted", map[string]interface{}{
		"conversation_id": saga.ConversationID.String(),
		"reason":          reason,
		"error":           cause.Error(),
	})
	if _, _, err := saga.Fail(context.WithoutCancel(ctx)); err != nil {
		s.logger.Error("CHAT", "Refund failed", map[string]interface{}{
			"conversation_id": saga.ConversationID.String(),
			"error":           err.Error(),
		})
	}
	metrics.ChatTurns.WithLabelValues("failed").Inc()
}

func resolvePersona(archetypeId *string) (*storyboard.Persona, error) {
	if archetypeId == nil || *archetypeId == "" {
		return nil, nil
	}
	p, ok := storyboard.PersonaByID(*archetypeId)
	if !ok {
		return nil, apperror.Validation("Invalid request", map[string]string{"archetypeId": "unknown persona"})
	}
	return &p, nil
}

// frameRelay writes frames until the first failure, then drops the rest.
type frameRelay struct {
	w        FrameWriter
	broken   bool
	reported bool
}

func (r *frameRelay) send(frame []byte) bool {
	if r.broken {
		return false
	}
	if _, err := r.w.Write(frame); err != nil {
		r.broken = true
		return false
	}
	if err := r.w.Flush(); err != nil {
		r.broken = true
		return false
	}
	return true
}
