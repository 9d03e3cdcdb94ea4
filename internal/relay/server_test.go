package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	reply  string
	err    error
	prompt atomic.Value
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt.Store(prompt)
	return g.reply, g.err
}

func newTestServer(gen Generator, opts Options) *httptest.Server {
	opts.Logger = zerolog.Nop()
	return httptest.NewServer(NewServer(gen, opts).Handler())
}

func post(t *testing.T, url, body string) (int, map[string]string) {
	t.Helper()
	resp, err := http.Post(url+"/api/gemini", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestServer_Reply(t *testing.T) {
	gen := &stubGenerator{reply: "Plan in two-week sprints."}
	srv := newTestServer(gen, Options{})
	defer srv.Close()

	status, body := post(t, srv.URL, `{"message":"How long should sprints be?"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Plan in two-week sprints.", body["reply"])
	assert.Equal(t, "How long should sprints be?", gen.prompt.Load())
}

func TestServer_EmptyReply(t *testing.T) {
	srv := newTestServer(&stubGenerator{}, Options{})
	defer srv.Close()

	status, body := post(t, srv.URL, `{"message":"hi"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, NoResponse, body["reply"])
}

func TestServer_BadRequest(t *testing.T) {
	srv := newTestServer(&stubGenerator{reply: "unused"}, Options{})
	defer srv.Close()

	tests := []struct {
		name string
		body string
	}{
		{name: "missing message", body: `{}`},
		{name: "empty message", body: `{"message":""}`},
		{name: "number", body: `{"message":42}`},
		{name: "null", body: `{"message":null}`},
		{name: "not json", body: `message=hi`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := post(t, srv.URL, tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, ErrMessageRequired, body["error"])
		})
	}
}

func TestServer_UpstreamError(t *testing.T) {
	srv := newTestServer(&stubGenerator{err: errors.New("quota exhausted")}, Options{})
	defer srv.Close()

	status, body := post(t, srv.URL, `{"message":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, ErrFetchFailed, body["error"])
}

func TestServer_MissingAPIKey(t *testing.T) {
	srv := newTestServer(NewGeminiClient("", 0), Options{})
	defer srv.Close()

	status, body := post(t, srv.URL, `{"message":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, ErrFetchFailed, body["error"])
}

func TestServer_RateLimit(t *testing.T) {
	srv := newTestServer(&stubGenerator{reply: "ok"}, Options{RateLimit: 0.001, Burst: 1})
	defer srv.Close()

	status, _ := post(t, srv.URL, `{"message":"one"}`)
	assert.Equal(t, http.StatusOK, status)

	status, body := post(t, srv.URL, `{"message":"two"}`)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.NotEmpty(t, body["error"])
}

func TestServer_RateLimitPerClient(t *testing.T) {
	srv := newTestServer(&stubGenerator{reply: "ok"}, Options{RateLimit: 0.001, Burst: 1})
	defer srv.Close()

	postFrom := func(ip string) int {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/gemini", strings.NewReader(`{"message":"hi"}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Real-IP", ip)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, postFrom("203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, postFrom("203.0.113.7"))
	assert.Equal(t, http.StatusOK, postFrom("198.51.100.20"), "another client has its own bucket")
}

func TestServer_CORS(t *testing.T) {
	srv := newTestServer(&stubGenerator{reply: "ok"}, Options{})
	defer srv.Close()

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/gemini", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_MetricsAndHealth(t *testing.T) {
	srv := newTestServer(&stubGenerator{reply: "ok"}, Options{})
	defer srv.Close()

	post(t, srv.URL, `{"message":"hi"}`)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	scrape := func() string {
		resp, err := http.Get(srv.URL + "/metrics")
		if err != nil {
			return ""
		}
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		return string(data)
	}
	assert.Eventually(t, func() bool {
		return strings.Contains(scrape(), `glasschat_relay_http_requests_total{method="POST",path="/api/gemini",status="200"} 1`)
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, scrape(), "glasschat_relay_upstream_latency_seconds")
}
