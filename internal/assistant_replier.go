package internal

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/iksnae/glasschat/internal/clock"
)

// DefaultSimulatedLatency is how long the simulated assistant "types"
const DefaultSimulatedLatency = 1500 * time.Millisecond

var simulatedOpeners = []string{
	"That's an interesting point! Let me think about that...",
	"I understand your question. Here's what I think:",
	"Great question! Based on my knowledge:",
	"Let me help you with that:",
	"That's a thoughtful inquiry. My suggestion would be:",
}

// SimulatedReplier answers with a canned response after a fixed latency.
// It is the offline stand-in for the relay.
type SimulatedReplier struct {
	Clock   clock.Clock
	Latency time.Duration
	// Pick chooses an opener index in [0, n); defaults to a random choice
	Pick func(n int) int
}

// NewSimulatedReplier creates a replier with the default latency
func NewSimulatedReplier(c clock.Clock) *SimulatedReplier {
	return &SimulatedReplier{Clock: c, Latency: DefaultSimulatedLatency}
}

// Reply waits for the latency to elapse, or for ctx to be done
func (r *SimulatedReplier) Reply(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-r.Clock.After(r.Latency):
	}

	pick := r.Pick
	if pick == nil {
		pick = rand.IntN
	}
	opener := simulatedOpeners[pick(len(simulatedOpeners))]
	return fmt.Sprintf("%s Regarding \"%s\", I'd be happy to provide some insights and recommendations.", opener, prompt), nil
}
