package factory

import (
	"errors"
	"fmt"
	"strings"

	"ai-storyboard-be/pkg/llm"
	"ai-storyboard-be/pkg/llm/ollama"
	"ai-storyboard-be/pkg/llm/openrouter"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"

	defaultOllamaURL = "http://localhost:11434"
)

var ErrMissingAPIKey = errors.New("openrouter provider requires an API key")

// NewStreamingProvider picks the completion backend by name. An empty name
// means OpenRouter.
func NewStreamingProvider(providerType, modelName, baseURL, apiKey string) (llm.StreamingProvider, error) {
	switch strings.ToLower(strings.TrimSpace(providerType)) {
	case ProviderOpenRouter, "":
		if apiKey == "" {
			return nil, ErrMissingAPIKey
		}
		return openrouter.NewOpenRouterProvider(baseURL, apiKey, modelName), nil
	case ProviderOllama:
		if baseURL == "" {
			baseURL = defaultOllamaURL
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
