package relay

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestClientLimiters_SeparateBuckets(t *testing.T) {
	l := newClientLimiters(rate.Every(time.Hour), 1)

	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.2"))
	assert.Equal(t, 2, l.size())
}

func TestClientLimiters_DropsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newClientLimiters(rate.Every(time.Hour), 1)
	l.now = func() time.Time { return now }

	l.allow("10.0.0.1")
	now = now.Add(5 * time.Minute)
	l.allow("10.0.0.2")

	now = now.Add(l.idleTTL + time.Second)
	assert.True(t, l.allow("10.0.0.3"))
	assert.Equal(t, 1, l.size(), "idle buckets are swept")
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/gemini", nil)
	r.RemoteAddr = "192.0.2.1:54321"
	assert.Equal(t, "192.0.2.1", clientIP(r))

	r.RemoteAddr = "192.0.2.9"
	assert.Equal(t, "192.0.2.9", clientIP(r))
}
