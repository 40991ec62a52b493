package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LLM_CONTEXT_WINDOW", "")
	t.Setenv("LLM_STREAM_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, 20, cfg.Ai.ContextWindow)
	assert.Equal(t, 120*time.Second, cfg.Ai.StreamTimeout)
	assert.Equal(t, 10, cfg.Billing.SignupBonus)
	assert.Equal(t, 3, cfg.Billing.LowBalanceAt)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LLM_CONTEXT_WINDOW", "8")
	t.Setenv("LLM_STREAM_TIMEOUT", "45s")
	t.Setenv("MIDTRANS_ENV", "production")
	t.Setenv("GO_ENV", "production")

	cfg := Load()

	assert.Equal(t, 8, cfg.Ai.ContextWindow)
	assert.Equal(t, 45*time.Second, cfg.Ai.StreamTimeout)
	assert.True(t, cfg.Billing.MidtransProduction)
	assert.True(t, cfg.App.IsProduction())
}

func TestGetEnvAsInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	assert.Equal(t, 7, getEnvAsInt("SOME_INT", 7))
}

func TestLoad_Tracing(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SAMPLE_RATIO", "0.25")

	cfg := Load()

	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, 0.25, cfg.Tracing.SampleRatio)
	assert.Equal(t, "ai-storyboard-backend", cfg.Tracing.ServiceName)
}
