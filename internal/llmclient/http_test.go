package llmclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity-dev/autoword-go/internal/config"
	"github.com/antigravity-dev/autoword-go/internal/errs"
)

func newTestClient(t *testing.T, server *httptest.Server) *HTTPClient {
	t.Helper()
	c := NewHTTPClient(config.LLMConfig{
		APIKey:           "test-key",
		Model:            "test-model",
		BaseURL:          server.URL,
		Timeout:          "30s",
		MaxRetries:       3,
		RetryBackoffBase: time.Millisecond,
		RetryBackoffMax:  5 * time.Millisecond,
		PerCallTimeout:   time.Second,
	})
	return c
}

func TestCompleteSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer auth header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	resp, err := client.Complete(context.Background(), Request{SystemPrompt: "sys", UserPrompt: "user"})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.RawText)
	assert.Equal(t, 1, resp.Attempts)
}

func TestCompleteRetriesOnRateLimit(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	resp, err := client.Complete(context.Background(), Request{SystemPrompt: "sys", UserPrompt: "user"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.RawText)
	assert.Equal(t, 3, attempts)
}

func TestCompleteAuthFailureIsNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.Complete(context.Background(), Request{SystemPrompt: "sys", UserPrompt: "user"})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errs.LLMAuth, e.Code)
}

func TestCompleteExhaustsRetriesOnPersistentFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.Complete(context.Background(), Request{SystemPrompt: "sys", UserPrompt: "user"})
	require.Error(t, err)
}

func TestCompleteCancelledContextStopsRetrying(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Complete(ctx, Request{SystemPrompt: "sys", UserPrompt: "user"})
	require.Error(t, err)
}

func TestCompleteFallsBackToSecondaryKeyOnAuthRejection(t *testing.T) {
	var gotKeys []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKeys = append(gotKeys, r.Header.Get("Authorization"))
		if r.Header.Get("Authorization") == "Bearer primary-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	client := NewHTTPClient(config.LLMConfig{
		APIKey:           "primary-key",
		APIKeySecondary:  "secondary-key",
		Model:            "test-model",
		BaseURL:          server.URL,
		Timeout:          "30s",
		MaxRetries:       3,
		RetryBackoffBase: time.Millisecond,
		RetryBackoffMax:  5 * time.Millisecond,
		PerCallTimeout:   time.Second,
	})

	resp, err := client.Complete(context.Background(), Request{SystemPrompt: "sys", UserPrompt: "user"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.RawText)
	assert.Equal(t, 1, resp.Attempts, "the secondary-key retry does not count against Attempts")
	assert.Equal(t, []string{"Bearer primary-key", "Bearer secondary-key"}, gotKeys)
}

func TestCompleteFailsWhenBothKeysRejected(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewHTTPClient(config.LLMConfig{
		APIKey:           "primary-key",
		APIKeySecondary:  "secondary-key",
		Model:            "test-model",
		BaseURL:          server.URL,
		Timeout:          "30s",
		MaxRetries:       3,
		RetryBackoffBase: time.Millisecond,
		RetryBackoffMax:  5 * time.Millisecond,
		PerCallTimeout:   time.Second,
	})

	_, err := client.Complete(context.Background(), Request{SystemPrompt: "sys", UserPrompt: "user"})
	require.Error(t, err)
	assert.Equal(t, 2, attempts, "tries both keys once each, then stops")
	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errs.LLMAuth, e.Code)
}

func TestMalformedResponseYieldsLLMFormatError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	client.maxRetries = 0
	_, err := client.Complete(context.Background(), Request{SystemPrompt: "sys", UserPrompt: "user"})
	require.Error(t, err)
	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errs.LLMFormat, e.Code)
}
