package leonardo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-storyboard-be/pkg/imagegen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateGeneration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generations", r.URL.Path)
		assert.Equal(t, "Bearer leo-key", r.Header.Get("Authorization"))

		var req generationRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a comic date", req.Prompt)
		assert.Equal(t, DefaultModelID, req.ModelID)
		assert.Equal(t, 1024, req.Width)
		assert.Equal(t, 768, req.Height)
		assert.Equal(t, "blurry", req.NegativePrompt)

		_, _ = io.WriteString(w, `{"sdGenerationJob":{"generationId":"gen-123"}}`)
	}))
	defer srv.Close()

	id, err := NewClient(srv.URL, "leo-key", "", "", "blurry").CreateGeneration(context.Background(), "a comic date")

	require.NoError(t, err)
	assert.Equal(t, "gen-123", id)
}

func TestClient_CreateGeneration_Errors(t *testing.T) {
	t.Run("non-2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusPaymentRequired)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, "k", "", "", "").CreateGeneration(context.Background(), "p")

		var apiErr *imagegen.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusPaymentRequired, apiErr.StatusCode)
	})

	t.Run("missing generation id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{}`)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, "k", "", "", "").CreateGeneration(context.Background(), "p")

		var apiErr *imagegen.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Contains(t, apiErr.Message, "No generationId")
	})
}

func TestClient_GetGeneration(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus imagegen.Status
		wantURL    string
	}{
		{"complete", `{"generations_by_pk":{"status":"COMPLETE","generated_images":[{"url":"https://img/1.jpg"}]}}`, imagegen.StatusComplete, "https://img/1.jpg"},
		{"failed", `{"generations_by_pk":{"status":"FAILED","generated_images":[]}}`, imagegen.StatusFailed, ""},
		{"pending", `{"generations_by_pk":{"status":"PENDING"}}`, imagegen.StatusGenerating, ""},
		{"missing body", `{}`, imagegen.StatusGenerating, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/generations/gen-9", r.URL.Path)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			res, err := NewClient(srv.URL, "k", "", "", "").GetGeneration(context.Background(), "gen-9")

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantURL, res.ImageURL)
		})
	}
}
