package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAs_UnwrapsChain(t *testing.T) {
	wrapped := fmt.Errorf("consume: %w", InsufficientTokens())

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusPaymentRequired, appErr.Status)
	assert.True(t, HasCode(wrapped, CodeInsufficientTokens))
	assert.False(t, HasCode(errors.New("plain"), CodeInsufficientTokens))
}

func TestAppError_UnwrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := UpstreamGateway(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusBadGateway, err.Status)
	assert.Contains(t, err.Error(), "UPSTREAM_GATEWAY_ERROR")
}

func TestConstructors_Statuses(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
		code   string
	}{
		{"validation", Validation("bad", nil), 400, CodeValidation},
		{"unauthorized", Unauthorized("no"), 401, CodeUnauthorized},
		{"invalid pack", InvalidPack("pack-1"), 400, CodeInvalidPack},
		{"not found", NotFound("Thing"), 404, CodeNotFound},
		{"conversation", ConversationNotFound(), 404, CodeConversationNotFound},
		{"scene", SceneNotFound(), 404, CodeSceneNotFound},
		{"billing", BillingProvider(nil), 502, CodeBillingProvider},
		{"leonardo", LeonardoAPI(nil), 502, CodeLeonardoAPI},
		{"image", ImageGeneration("x"), 500, CodeImageGeneration},
		{"internal", Internal(nil), 500, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}
