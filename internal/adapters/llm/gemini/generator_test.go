package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bnema/notesgit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeneratorRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator(context.Background(), "  ")
	require.ErrorIs(t, err, domain.ErrMissingAPIKey)
}

func TestGeneratorSendsPromptAndReturnsText(t *testing.T) {
	t.Parallel()

	var gotPath, gotKey, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{
				map[string]any{
					"content": map[string]any{
						"role":  "model",
						"parts": []any{map[string]any{"text": "Mleko jest w lodówce."}},
					},
					"finishReason": "STOP",
				},
			},
		})
	}))
	t.Cleanup(server.Close)

	generator, err := NewGenerator(context.Background(), "test-key",
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
		WithModel("gemini-test"),
	)
	require.NoError(t, err)
	assert.Equal(t, "gemini-test", generator.Model())

	text, err := generator.Generate(context.Background(), "gdzie jest mleko?")
	require.NoError(t, err)

	assert.Equal(t, "Mleko jest w lodówce.", text)
	assert.True(t, strings.HasSuffix(gotPath, "models/gemini-test:generateContent"), gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Contains(t, gotBody, "gdzie jest mleko?")
}

func TestGeneratorWrapsAPIErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`)
	}))
	t.Cleanup(server.Close)

	generator, err := NewGenerator(context.Background(), "test-key",
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)

	_, err = generator.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini generate content")
}

func TestGeneratorHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	generator, err := NewGenerator(context.Background(), "test-key", WithBaseURL("http://127.0.0.1:1"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = generator.Generate(ctx, "prompt")
	require.ErrorIs(t, err, context.Canceled)
}
