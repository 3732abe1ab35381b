package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bnema/notesgit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionServer(t *testing.T, status int, body string, got *chatRequest, auth *string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if auth != nil {
			*auth = r.Header.Get("Authorization")
		}
		if got != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewGeneratorRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator("")
	require.ErrorIs(t, err, domain.ErrMissingAPIKey)
}

func TestGeneratorSendsUserMessage(t *testing.T) {
	t.Parallel()

	var got chatRequest
	var auth string
	server := completionServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "local-model",
		"choices": [{
			"index": 0,
			"finish_reason": "stop",
			"message": {"role": "assistant", "content": "Keys are on the hook."}
		}]
	}`, &got, &auth)

	generator, err := NewGenerator("sk-test",
		WithBaseURL(server.URL+"/v1"),
		WithModel("local-model"),
		WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)

	text, err := generator.Generate(context.Background(), "where are my keys?")
	require.NoError(t, err)

	assert.Equal(t, "Keys are on the hook.", text)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "local-model", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "where are my keys?", got.Messages[0].Content)
}

func TestGeneratorRejectsEmptyChoices(t *testing.T) {
	t.Parallel()

	server := completionServer(t, http.StatusOK, `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`, nil, nil)

	generator, err := NewGenerator("sk-test", WithBaseURL(server.URL+"/v1"), WithHTTPClient(server.Client()))
	require.NoError(t, err)

	_, err = generator.Generate(context.Background(), "prompt")
	require.EqualError(t, err, "openai returned no choices")
}

func TestGeneratorWrapsAPIErrors(t *testing.T) {
	t.Parallel()

	server := completionServer(t, http.StatusUnauthorized, `{"error":{"message":"bad key","type":"invalid_request_error"}}`, nil, nil)

	generator, err := NewGenerator("sk-test", WithBaseURL(server.URL+"/v1"), WithHTTPClient(server.Client()))
	require.NoError(t, err)

	_, err = generator.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai chat completion")
}

func TestGeneratorDefaults(t *testing.T) {
	t.Parallel()

	generator, err := NewGenerator("sk-test")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, generator.Model())
}
