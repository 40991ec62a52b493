package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"ai-storyboard-be/internal/dto"
	"ai-storyboard-be/internal/entity"
	"ai-storyboard-be/internal/pkg/apperror"
	"ai-storyboard-be/internal/pkg/logger"
	"ai-storyboard-be/pkg/llm"
	"ai-storyboard-be/pkg/settlement"
	"ai-storyboard-be/pkg/storyboard"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedDeltas struct {
	deltas []string
	end    error
	pos    int
}

func (d *scriptedDeltas) Recv() (string, error) {
	if d.pos < len(d.deltas) {
		delta := d.deltas[d.pos]
		d.pos++
		return delta, nil
	}
	return "", d.end
}

func (d *scriptedDeltas) Close() error {
	return nil
}

type scriptedProvider struct {
	deltas     []string
	end        error
	openErr    error
	openCtxErr error
	sent       []llm.Message
}

func (p *scriptedProvider) OpenStream(ctx context.Context, history []llm.Message, options ...llm.Option) (llm.DeltaStream, error) {
	p.sent = history
	p.openCtxErr = ctx.Err()
	if p.openErr != nil {
		return nil, p.openErr
	}
	return &scriptedDeltas{deltas: p.deltas, end: p.end}, nil
}

// stalledProvider opens a stream that never yields until its context ends.
type stalledProvider struct{}

func (stalledProvider) OpenStream(ctx context.Context, history []llm.Message, options ...llm.Option) (llm.DeltaStream, error) {
	return &stalledDeltas{ctx: ctx}, nil
}

type stalledDeltas struct {
	ctx context.Context
}

func (d *stalledDeltas) Recv() (string, error) {
	<-d.ctx.Done()
	return "", d.ctx.Err()
}

func (d *stalledDeltas) Close() error {
	return nil
}

type bufferWriter struct {
	bytes.Buffer
}

func (w *bufferWriter) Flush() error {
	return nil
}

// brokenWriter accepts n writes and then fails, like a client that went away.
type brokenWriter struct {
	n      int
	writes int
}

func (w *brokenWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.writes > w.n {
		return 0, io.ErrClosedPipe
	}
	return len(p), nil
}

func (w *brokenWriter) Flush() error {
	return nil
}

type chatFixture struct {
	factory  *fakeFactory
	tokens   ITokenService
	provider *scriptedProvider
	gen      *fakeGenerator
	svc      IChatService
	user     uuid.UUID
}

func newChatFixture(t *testing.T, grant bool) *chatFixture {
	t.Helper()
	factory := newFakeFactory()
	log := logger.NewNopLogger()
	tokens := NewTokenService(factory, &recordingPublisher{}, log, TokenServiceConfig{SignupBonus: 10, LowBalanceThreshold: 3})
	conversations := NewConversationService(factory, log)
	gen := &fakeGenerator{}
	boards := NewStoryboardService(factory, conversations, gen, &recordingScheduler{}, log)
	provider := &scriptedProvider{end: llm.ErrStreamDone}
	gateway := llm.NewCompletionGateway(provider, "default prompt", llm.NewContextWindow(llm.DefaultContextWindowSize))

	user := uuid.New()
	if grant {
		_, err := tokens.GrantSignupTokens(context.Background(), user)
		require.NoError(t, err)
	}

	return &chatFixture{
		factory:  factory,
		tokens:   tokens,
		provider: provider,
		gen:      gen,
		svc:      NewChatService(conversations, tokens, gateway, boards, 5*time.Second, log),
		user:     user,
	}
}

// withProvider rebuilds the service around another provider and stream timeout.
func (f *chatFixture) withProvider(provider llm.StreamingProvider, timeout time.Duration) {
	log := logger.NewNopLogger()
	conversations := NewConversationService(f.factory, log)
	boards := NewStoryboardService(f.factory, conversations, f.gen, &recordingScheduler{}, log)
	gateway := llm.NewCompletionGateway(provider, "default prompt", llm.NewContextWindow(llm.DefaultContextWindowSize))
	f.svc = NewChatService(conversations, f.tokens, gateway, boards, timeout, log)
}

func (f *chatFixture) balance(t *testing.T) int {
	t.Helper()
	b, err := f.tokens.GetTokenBalance(context.Background(), f.user)
	require.NoError(t, err)
	return b
}

func TestChatService_CompletedTurn(t *testing.T) {
	f := newChatFixture(t, true)
	f.provider.deltas = []string{"Hi ", "there"}

	turn, err := f.svc.StartTurn(context.Background(), f.user, &dto.SendMessageRequest{Content: "Hello, how are you?"})
	require.NoError(t, err)
	assert.Equal(t, 9, turn.Balance)

	w := &bufferWriter{}
	state := f.svc.StreamTurn(turn, w)
	assert.Equal(t, settlement.StateCompleted, state)

	body := w.String()
	assert.Contains(t, body, `data: {"content":"Hi "}`)
	assert.Contains(t, body, "data: [DONE]\n\n")
	assert.True(t, strings.HasSuffix(body, "data: {\"type\":\"done\",\"saved\":true}\n\n"))

	msgs := f.factory.store.messagesOf(turn.ConversationId)
	require.Len(t, msgs, 2)
	assert.Equal(t, entity.MessageRoleUser, msgs[0].Role)
	assert.Equal(t, "Hi there", msgs[1].Content)
	assert.Equal(t, 9, f.balance(t))

	// default prompt, then the user message
	require.Len(t, f.provider.sent, 2)
	assert.Equal(t, "default prompt", f.provider.sent[0].Content)
}

func TestChatService_InsufficientTokens(t *testing.T) {
	f := newChatFixture(t, false)

	_, err := f.svc.StartTurn(context.Background(), f.user, &dto.SendMessageRequest{Content: "hello"})
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientTokens))
	assert.Empty(t, f.factory.store.messages)
	assert.Equal(t, 0, f.balance(t))
}

func TestChatService_FailedTurnsRefund(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *chatFixture)
	}{
		{"open failure", func(f *chatFixture) {
			f.provider.openErr = &llm.ConnectionError{Err: errors.New("refused")}
		}},
		{"read failure", func(f *chatFixture) {
			f.provider.deltas = []string{"partial"}
			f.provider.end = errors.New("connection reset")
		}},
		{"empty completion", func(f *chatFixture) {
			f.provider.deltas = nil
		}},
		{"assistant save failure", func(f *chatFixture) {
			f.provider.deltas = []string{"fine"}
			f.factory.store.failMessageCreate = func(m *entity.Message) error {
				if m.Role == entity.MessageRoleAssistant {
					return errors.New("disk full")
				}
				return nil
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newChatFixture(t, true)
			turn, err := f.svc.StartTurn(context.Background(), f.user, &dto.SendMessageRequest{Content: "hello"})
			require.NoError(t, err)
			tt.setup(f)

			w := &bufferWriter{}
			state := f.svc.StreamTurn(turn, w)
			assert.Equal(t, settlement.StateFailed, state)

			body := w.String()
			refundAt := strings.Index(body, `"type":"refund"`)
			errorAt := strings.Index(body, `"type":"error"`)
			require.GreaterOrEqual(t, refundAt, 0)
			assert.Greater(t, errorAt, refundAt)
			assert.NotContains(t, body, `"type":"done"`)

			assert.Equal(t, 10, f.balance(t))
			txs := f.factory.store.transactionsOf(f.user)
			assert.Equal(t, 10, sumAmounts(txs))
		})
	}
}

func TestChatService_ClientDisconnectStillSettles(t *testing.T) {
	f := newChatFixture(t, true)
	f.provider.deltas = []string{"a", "b", "c", "d"}

	turn, err := f.svc.StartTurn(context.Background(), f.user, &dto.SendMessageRequest{Content: "hello"})
	require.NoError(t, err)

	w := &brokenWriter{n: 1}
	state := f.svc.StreamTurn(turn, w)
	assert.Equal(t, settlement.StateCompleted, state)
	assert.Equal(t, 2, w.writes) // one success, one failure, then nothing

	msgs := f.factory.store.messagesOf(turn.ConversationId)
	require.Len(t, msgs, 2)
	assert.Equal(t, "abcd", msgs[1].Content)
	assert.Equal(t, 9, f.balance(t))
}

func TestChatService_ThemedTurnCreatesScene(t *testing.T) {
	f := newChatFixture(t, true)
	persona := storyboard.Personas()[0]
	f.provider.deltas = []string{
		"Oh wow, hi! ",
		"[SCENE: a candle-lit table by the window]",
		"[MOOD: Flirty][THOUGHT: nailed it]",
	}

	turn, err := f.svc.StartTurn(context.Background(), f.user, &dto.SendMessageRequest{Content: "hey", ArchetypeId: &persona.ID})
	require.NoError(t, err)

	w := &bufferWriter{}
	assert.Equal(t, settlement.StateCompleted, f.svc.StreamTurn(turn, w))

	// date-night prompt replaces the default one
	assert.Contains(t, f.provider.sent[0].Content, persona.Name)

	msgs := f.factory.store.messagesOf(turn.ConversationId)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Oh wow, hi!", msgs[1].Content)

	scenes := f.factory.store.sceneList()
	require.Len(t, scenes, 1)
	assert.Equal(t, "flirty", scenes[0].Mood)
	require.NotNil(t, scenes[0].MessageId)
	assert.Equal(t, msgs[1].Id, *scenes[0].MessageId)

	body := w.String()
	assert.Contains(t, body, `"mood":"flirty"`)
	assert.Contains(t, body, `"thought":"nailed it"`)
	assert.Contains(t, body, `"sceneId":"`+scenes[0].Id.String()+`"`)

	var conv *entity.Conversation
	for _, c := range f.factory.store.conversations {
		conv = c
	}
	require.NotNil(t, conv)
	assert.Equal(t, storyboard.ConversationTitle(persona), conv.Title)
}

func TestChatService_ThemedTurnFallsBackToDefaultScene(t *testing.T) {
	f := newChatFixture(t, true)
	persona := storyboard.Personas()[1]
	f.provider.deltas = []string{"Hello stranger."}

	turn, err := f.svc.StartTurn(context.Background(), f.user, &dto.SendMessageRequest{Content: "hey", ArchetypeId: &persona.ID})
	require.NoError(t, err)
	f.svc.StreamTurn(turn, &bufferWriter{})

	scenes := f.factory.store.sceneList()
	require.Len(t, scenes, 1)
	assert.Equal(t, storyboard.DefaultFirstScene(persona), scenes[0].SceneDescription)
}

func TestChatService_SceneFailureDoesNotFailTurn(t *testing.T) {
	f := newChatFixture(t, true)
	f.gen.createErr = errors.New("leonardo down")
	persona := storyboard.Personas()[0]
	f.provider.deltas = []string{"hi [SCENE: a park]"}

	turn, err := f.svc.StartTurn(context.Background(), f.user, &dto.SendMessageRequest{Content: "hey", ArchetypeId: &persona.ID})
	require.NoError(t, err)

	w := &bufferWriter{}
	assert.Equal(t, settlement.StateCompleted, f.svc.StreamTurn(turn, w))
	assert.Contains(t, w.String(), `"type":"done"`)
	assert.Equal(t, 9, f.balance(t))
}

func TestChatService_RejectsBeforeDebit(t *testing.T) {
	f := newChatFixture(t, true)
	ctx := context.Background()

	foreign := uuid.New().String()
	_, err := f.svc.StartTurn(ctx, f.user, &dto.SendMessageRequest{Content: "hi", ConversationId: &foreign})
	assert.True(t, apperror.HasCode(err, apperror.CodeConversationNotFound))

	unknown := "nobody"
	_, err = f.svc.StartTurn(ctx, f.user, &dto.SendMessageRequest{Content: "hi", ArchetypeId: &unknown})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	assert.Equal(t, 10, f.balance(t))
}

func TestChatService_UserMessageSaveFailureRefunds(t *testing.T) {
	f := newChatFixture(t, true)
	f.factory.store.failMessageCreate = func(m *entity.Message) error {
		return errors.New("db unavailable")
	}

	_, err := f.svc.StartTurn(context.Background(), f.user, &dto.SendMessageRequest{Content: "hi"})
	require.Error(t, err)
	assert.Equal(t, 10, f.balance(t))
}

func TestChatService_UpstreamTimeoutRefunds(t *testing.T) {
	f := newChatFixture(t, true)
	f.withProvider(stalledProvider{}, 50*time.Millisecond)

	turn, err := f.svc.StartTurn(context.Background(), f.user, &dto.SendMessageRequest{Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, 9, turn.Balance)

	w := &bufferWriter{}
	started := time.Now()
	state := f.svc.StreamTurn(turn, w)
	assert.Equal(t, settlement.StateFailed, state)
	assert.Less(t, time.Since(started), 5*time.Second)

	body := w.String()
	refundAt := strings.Index(body, `"type":"refund"`)
	errorAt := strings.Index(body, `"type":"error"`)
	require.GreaterOrEqual(t, refundAt, 0)
	assert.Greater(t, errorAt, refundAt)

	assert.Equal(t, 10, f.balance(t))
	assert.Len(t, f.factory.store.messagesOf(turn.ConversationId), 1)
}

func TestChatService_CancelledRequestDoesNotCancelUpstream(t *testing.T) {
	f := newChatFixture(t, true)
	f.provider.deltas = []string{"still ", "here"}

	reqCtx, cancel := context.WithCancel(context.Background())
	turn, err := f.svc.StartTurn(reqCtx, f.user, &dto.SendMessageRequest{Content: "hello"})
	require.NoError(t, err)
	cancel()

	state := f.svc.StreamTurn(turn, &bufferWriter{})
	assert.Equal(t, settlement.StateCompleted, state)
	assert.NoError(t, f.provider.openCtxErr)

	msgs := f.factory.store.messagesOf(turn.ConversationId)
	require.Len(t, msgs, 2)
	assert.Equal(t, "still here", msgs[1].Content)
	assert.Equal(t, 9, f.balance(t))
}

func TestChatService_ThemedTurnWithOnlyTagsRefunds(t *testing.T) {
	f := newChatFixture(t, true)
	persona := storyboard.Personas()[0]
	f.provider.deltas = []string{"[SCENE: a rooftop bar]", " [MOOD: happy]"}

	turn, err := f.svc.StartTurn(context.Background(), f.user, &dto.SendMessageRequest{Content: "hey", ArchetypeId: &persona.ID})
	require.NoError(t, err)

	w := &bufferWriter{}
	assert.Equal(t, settlement.StateFailed, f.svc.StreamTurn(turn, w))
	assert.Contains(t, w.String(), `"type":"refund"`)
	assert.NotContains(t, w.String(), `"type":"done"`)

	assert.Len(t, f.factory.store.messagesOf(turn.ConversationId), 1)
	assert.Empty(t, f.factory.store.sceneList())
	assert.Equal(t, 10, f.balance(t))
}
