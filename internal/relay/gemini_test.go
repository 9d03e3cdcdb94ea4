package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seenRequest struct {
	path   string
	apiKey string
	prompt string
}

func newGeminiStub(t *testing.T, status int, body string) (*httptest.Server, *seenRequest) {
	t.Helper()
	seen := &seenRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.path = r.URL.Path
		seen.apiKey = r.Header.Get("x-goog-api-key")
		var req generateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			seen.prompt = req.Contents[0].Parts[0].Text
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func TestGeminiClient_Generate(t *testing.T) {
	srv, seen := newGeminiStub(t, http.StatusOK, `{
		"candidates": [{"content": {"role": "model", "parts": [{"thought": true}, {"text": "First text part"}, {"text": "second"}]}}]
	}`)

	client := NewGeminiClient("test-key", 5*time.Second)
	client.BaseURL = srv.URL

	reply, err := client.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "First text part", reply)
	assert.Equal(t, "/models/gemini-2.5-flash:generateContent", seen.path)
	assert.Equal(t, "test-key", seen.apiKey)
	assert.Equal(t, "hello", seen.prompt)
}

func TestGeminiClient_NoCandidates(t *testing.T) {
	srv, _ := newGeminiStub(t, http.StatusOK, `{"candidates": []}`)
	client := NewGeminiClient("k", time.Second)
	client.BaseURL = srv.URL

	reply, err := client.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestGeminiClient_APIError(t *testing.T) {
	srv, _ := newGeminiStub(t, http.StatusTooManyRequests, `{"error": {"code": 429, "message": "Resource exhausted"}}`)
	client := NewGeminiClient("k", time.Second)
	client.BaseURL = srv.URL

	_, err := client.Generate(context.Background(), "hello")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Equal(t, "Resource exhausted", apiErr.Message)
}

func TestGeminiClient_NoAPIKey(t *testing.T) {
	_, err := NewGeminiClient("", time.Second).Generate(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}
