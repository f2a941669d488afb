package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fintab-cli/internal/core/domain"
)

// completionReply builds a minimal chat completions response body.
func completionReply(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}, "finish_reason": "stop"},
		},
	})
	return string(body)
}

func testConversation() domain.Conversation {
	return domain.NewConversation(
		domain.SystemTurn("auditor"),
		domain.UserTurn("extract"),
	)
}

// TestNew_RequiresAPIKey tests that a gateway cannot be built without a key
func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

// TestNew_Defaults tests default configuration
func TestNew_Defaults(t *testing.T) {
	gw, err := New(Config{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, gw.ModelName())
}

// TestGateway_Extract tests a successful extraction round trip
func TestGateway_Extract(t *testing.T) {
	var captured chatCompletionRequest
	var auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		fmt.Fprint(w, completionReply(`{"table_type": "Balance Sheet", "total_assets": 1000}`))
	}))
	defer server.Close()

	gw, err := New(Config{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"})
	require.NoError(t, err)

	rec, err := gw.Extract(context.Background(), testConversation())
	require.NoError(t, err)

	assert.Equal(t, "Balance Sheet", rec[domain.FieldTableType])
	assert.Equal(t, 1000.0, rec[domain.FieldTotalAssets])

	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "test-model", captured.Model)
	assert.Equal(t, "json_object", captured.ResponseFormat.Type)
	assert.Zero(t, captured.Temperature)

	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "auditor", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
}

// TestGateway_TemperatureOnWire tests that temperature zero is serialised
// rather than omitted
func TestGateway_TemperatureOnWire(t *testing.T) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:          "m",
		ResponseFormat: responseFormat{Type: "json_object"},
		Temperature:    0,
	})
	require.NoError(t, err)
	assert.Contains(t, string(body), `"temperature":0`)
}

// TestGateway_UnparseableReply tests that a non-JSON model reply is an error
func TestGateway_UnparseableReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, completionReply("Sure! Here is the table data you asked for."))
	}))
	defer server.Close()

	gw, err := New(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = gw.Extract(context.Background(), testConversation())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse model reply")
}

// TestGateway_APIError tests that provider errors are surfaced
func TestGateway_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": {"message": "model not found", "type": "invalid_request_error"}}`)
	}))
	defer server.Close()

	gw, err := New(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = gw.Extract(context.Background(), testConversation())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

// TestGateway_ServerError tests a non-OK status without an error payload
func TestGateway_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	gw, err := New(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = gw.Extract(context.Background(), testConversation())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

// TestGateway_RateLimited tests that a 429 maps to the rate limit sentinel
func TestGateway_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	gw, err := New(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = gw.Extract(context.Background(), testConversation())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

// TestGateway_NoChoices tests an empty choices array
func TestGateway_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"choices": []}`)
	}))
	defer server.Close()

	gw, err := New(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = gw.Extract(context.Background(), testConversation())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response choices")
}
