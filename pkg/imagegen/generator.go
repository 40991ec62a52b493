package imagegen

import (
	"context"
	"fmt"
)

type Status string

const (
	StatusGenerating Status = "generating"
	StatusComplete   Status = "complete"
	StatusFailed     Status = "failed"
)

type Result struct {
	Status   Status
	ImageURL string
}

// Generator starts asynchronous image jobs and reports their progress.
type Generator interface {
	CreateGeneration(ctx context.Context, prompt string) (generationID string, err error)
	GetGeneration(ctx context.Context, generationID string) (*Result, error)
}

// APIError wraps any failure talking to the image API.
type APIError struct {
	StatusCode int // 0 when the request never got a response
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("image API error: %s", e.Message)
	}
	return fmt.Sprintf("image API error (%d): %s", e.StatusCode, e.Message)
}
