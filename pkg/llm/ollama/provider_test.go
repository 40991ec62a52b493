package ollama

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-storyboard-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider_StreamsNDJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		_, _ = io.WriteString(w, `{"message":{"role":"assistant","content":"Hey"},"done":false}`+"\n")
		_, _ = io.WriteString(w, "garbage\n")
		_, _ = io.WriteString(w, `{"message":{"role":"assistant","content":" you"},"done":false}`+"\n")
		_, _ = io.WriteString(w, `{"message":{"role":"assistant","content":""},"done":true}`+"\n")
	}))
	defer srv.Close()

	stream, err := NewOllamaProvider(srv.URL, "llama3").OpenStream(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	defer stream.Close()

	var got []string
	for {
		delta, err := stream.Recv()
		if err != nil {
			assert.ErrorIs(t, err, llm.ErrStreamDone)
			break
		}
		got = append(got, delta)
	}
	assert.Equal(t, []string{"Hey", " you"}, got)
}

func TestOllamaProvider_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, "missing").OpenStream(context.Background(), nil)

	var apiErr *llm.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
