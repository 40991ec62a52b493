package llm

import (
	"context"
	"errors"
	"io"
	"strings"
)

const frameBuffer = 32

// CompletionGateway turns a provider's delta stream into relayable SSE frames
// while buffering the full assistant text.
type CompletionGateway struct {
	provider     StreamingProvider
	systemPrompt string
	window       ContextWindow
	options      []Option
}

func NewCompletionGateway(provider StreamingProvider, systemPrompt string, window ContextWindow, options ...Option) *CompletionGateway {
	return &CompletionGateway{
		provider:     provider,
		systemPrompt: systemPrompt,
		window:       window,
		options:      options,
	}
}

// StreamChatCompletion opens the upstream completion. Connection and HTTP
// status failures are returned directly; anything after that is reported by
// the returned Stream.
func (g *CompletionGateway) StreamChatCompletion(ctx context.Context, history []Message, systemPromptOverride string) (*Stream, error) {
	prompt := g.systemPrompt
	if systemPromptOverride != "" {
		prompt = systemPromptOverride
	}

	deltas, err := g.provider.OpenStream(ctx, g.window.BuildMessages(prompt, history), g.options...)
	if err != nil {
		return nil, err
	}

	s := newStream(frameBuffer)
	go g.pump(ctx, deltas, s)
	return s, nil
}

func (g *CompletionGateway) pump(ctx context.Context, deltas DeltaStream, s *Stream) {
	var full strings.Builder
	defer close(s.done)
	defer close(s.frames)
	defer deltas.Close()

	emit := func(frame []byte) bool {
		select {
		case s.frames <- frame:
			return true
		case <-ctx.Done():
			s.err = &StreamError{Err: ctx.Err()}
			return false
		}
	}

	for {
		delta, err := deltas.Recv()
		if errors.Is(err, ErrStreamDone) {
			emit(DoneFrame())
			break
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.err = &StreamError{Err: err}
			break
		}
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if !emit(ContentFrame(delta)) {
			break
		}
	}
	s.text = full.String()
}
