package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/fwojciec/denote"
	"github.com/fwojciec/denote/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	mu      sync.Mutex
	path    string
	auth    string
	request struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
}

func newProvider(t *testing.T, status int, reply string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&rec.request)
		rec.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": reply},
				"finish_reason": "stop",
			}},
			"usage": map[string]int{"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func conversation() []denote.ChatMessage {
	return []denote.ChatMessage{
		{Role: denote.RoleUser, Content: "hi"},
		{Role: denote.RoleAssistant, Content: "hello"},
		{Role: denote.RoleUser, Content: "How do I install?"},
	}
}

func TestCompleter_Complete(t *testing.T) {
	t.Parallel()

	t.Run("sends system prompt and conversation", func(t *testing.T) {
		t.Parallel()

		srv, rec := newProvider(t, http.StatusOK, "Run the installer.")
		c, err := openai.NewCompleter(openai.Config{
			APIURL: srv.URL + "/v1/chat/completions",
			Model:  "test-model",
			APIKey: "sk-test",
		})
		require.NoError(t, err)

		reply, err := c.Complete(context.Background(), "SYSTEM", conversation())

		require.NoError(t, err)
		assert.Equal(t, "Run the installer.", reply)

		rec.mu.Lock()
		defer rec.mu.Unlock()
		assert.Equal(t, "/v1/chat/completions", rec.path)
		assert.Equal(t, "Bearer sk-test", rec.auth)
		assert.Equal(t, "test-model", rec.request.Model)
		assert.InDelta(t, openai.Temperature, rec.request.Temperature, 0.001)
		require.Len(t, rec.request.Messages, 4)
		assert.Equal(t, "system", rec.request.Messages[0].Role)
		assert.Equal(t, "SYSTEM", rec.request.Messages[0].Content)
		assert.Equal(t, "user", rec.request.Messages[1].Role)
		assert.Equal(t, "assistant", rec.request.Messages[2].Role)
		assert.Equal(t, "How do I install?", rec.request.Messages[3].Content)
	})

	t.Run("omits authorization without a key", func(t *testing.T) {
		t.Parallel()

		srv, rec := newProvider(t, http.StatusOK, "ok")
		c, err := openai.NewCompleter(openai.Config{APIURL: srv.URL + "/v1/chat/completions"})
		require.NoError(t, err)

		_, err = c.Complete(context.Background(), "SYSTEM", conversation())

		require.NoError(t, err)
		rec.mu.Lock()
		defer rec.mu.Unlock()
		assert.Empty(t, rec.auth)
		assert.Equal(t, openai.DefaultModel, rec.request.Model)
	})

	t.Run("returns error on non-success status", func(t *testing.T) {
		t.Parallel()

		srv, _ := newProvider(t, http.StatusServiceUnavailable, "")
		c, err := openai.NewCompleter(openai.Config{APIURL: srv.URL + "/v1/chat/completions", APIKey: "sk-test"})
		require.NoError(t, err)

		_, err = c.Complete(context.Background(), "SYSTEM", conversation())

		require.Error(t, err)
		assert.Equal(t, denote.EUNAVAILABLE, denote.ErrorCode(err))
	})

	t.Run("returns error when provider is unreachable", func(t *testing.T) {
		t.Parallel()

		srv, _ := newProvider(t, http.StatusOK, "")
		url := srv.URL
		srv.Close()
		c, err := openai.NewCompleter(openai.Config{APIURL: url + "/v1/chat/completions", APIKey: "sk-test"})
		require.NoError(t, err)

		_, err = c.Complete(context.Background(), "SYSTEM", conversation())

		assert.Error(t, err)
	})
}

func TestBaseURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://api.openai.com/v1", openai.BaseURL(openai.DefaultAPIURL))
	assert.Equal(t, "http://localhost:11434/v1", openai.BaseURL("http://localhost:11434/v1/chat/completions/"))
	assert.Equal(t, "http://localhost:8080/v1", openai.BaseURL("http://localhost:8080/v1"))
}
