package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/peiassist/backend/internal/platform/logger"
)

func newTestClient(t *testing.T, srv *httptest.Server) Client {
	t.Helper()
	log, err := logger.New("test")
	require.NoError(t, err)
	c, err := NewClient(log, Options{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	return c
}

func TestChatCompletionSendsBothRolesAndReturnsContent(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"resposta do modelo"}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	text, err := c.ChatCompletion(context.Background(), "instrução de sistema", "pergunta")
	require.NoError(t, err)
	require.Equal(t, "resposta do modelo", text)

	require.Equal(t, "llama-3.3-70b-versatile", got.Model)
	require.Len(t, got.Messages, 2)
	require.Equal(t, "system", got.Messages[0].Role)
	require.Equal(t, "instrução de sistema", got.Messages[0].Content)
	require.Equal(t, "user", got.Messages[1].Role)
	require.InDelta(t, 0.7, got.Temperature, 0.001)
	require.Equal(t, 4096, got.MaxTokens)
}

func TestChatCompletionExtractsServiceErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.ChatCompletion(context.Background(), "sys", "user")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	require.Equal(t, "rate limit exceeded", apiErr.Error())
}

func TestChatCompletionNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.ChatCompletion(context.Background(), "sys", "user")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
	require.Contains(t, apiErr.Error(), "502")
}

func TestChatCompletionHonorsExplicitZeroTemperature(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	log, err := logger.New("test")
	require.NoError(t, err)
	temperature := 0.0
	maxTokens := 512
	c, err := NewClient(log, Options{
		APIKey:      "test-key",
		BaseURL:     srv.URL,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	require.NoError(t, err)

	_, err = c.ChatCompletion(context.Background(), "sys", "user")
	require.NoError(t, err)
	require.Zero(t, got.Temperature, "explicit zero must not be promoted to the default")
	require.Equal(t, 512, got.MaxTokens)
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	log, err := logger.New("test")
	require.NoError(t, err)
	_, err = NewClient(log, Options{})
	require.Error(t, err)
}
