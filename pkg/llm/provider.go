package llm

import (
	"context"
	"errors"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// ApplyOptions folds opts over the defaults shared by every provider.
func ApplyOptions(opts ...Option) *Options {
	options := &Options{Temperature: 0.7}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// ErrStreamDone is returned by DeltaStream.Recv when the provider sent its
// explicit end-of-stream marker.
var ErrStreamDone = errors.New("llm: stream done")

// DeltaStream yields incremental content from an open completion.
// Recv returns ErrStreamDone on the provider's end marker and io.EOF when the
// body ends without one.
type DeltaStream interface {
	Recv() (string, error)
	Close() error
}

// StreamingProvider defines the contract for any streaming LLM backend.
// OpenStream must return *ConnectionError when the backend cannot be reached
// and *APIError on a non-2xx response.
type StreamingProvider interface {
	OpenStream(ctx context.Context, history []Message, options ...Option) (DeltaStream, error)
}
