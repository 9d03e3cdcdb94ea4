package internal

import (
	"context"
	"testing"
	"time"

	"github.com/iksnae/glasschat/internal/clock"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2026, 1, 1, 15, 0, 0, 0, time.UTC)

func fakeClock() *clock.FakeClock {
	return clock.Fake(testEpoch)
}

// blockingReplier answers only when release is closed, ignoring ctx, so
// tests can deliver a completion after the turn was cancelled
type blockingReplier struct {
	reply   string
	err     error
	release chan struct{}
}

func newBlockingReplier(reply string) *blockingReplier {
	return &blockingReplier{reply: reply, release: make(chan struct{})}
}

func (r *blockingReplier) Reply(context.Context, string) (string, error) {
	<-r.release
	return r.reply, r.err
}

func waitTurn(t *testing.T, turn *Turn) {
	t.Helper()
	select {
	case <-turn.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("turn %s did not finish", turn.ID)
	}
}

func newTestSession(t *testing.T, c clock.Clock, replier Replier) *SessionController {
	t.Helper()
	seed, err := DefaultSeed()
	require.NoError(t, err)

	s, err := New(Options{
		Seed:         seed,
		Clock:        c,
		MessageIDs:   &SequentialIDs{Prefix: "m"},
		RoomIDs:      &SequentialIDs{Prefix: "r"},
		AssistantIDs: &SequentialIDs{Prefix: "a"},
		Tagger:       &SequentialTagger{},
		Replier:      replier,
	})
	require.NoError(t, err)
	return s
}
