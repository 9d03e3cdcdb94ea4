package internal

import (
	"crypto/rand"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/iksnae/glasschat/internal/clock"
	"github.com/oklog/ulid/v2"
)

// IDGenerator allocates identifiers for messages, rooms and assistant
// entries. Implementations must be safe for concurrent use.
type IDGenerator interface {
	NewID() string
}

// ULIDGenerator issues lexicographically sortable ids whose time component
// comes from the injected clock. Ids issued within the same millisecond stay
// ordered thanks to monotonic entropy.
type ULIDGenerator struct {
	mu      sync.Mutex
	clock   clock.Clock
	entropy *ulid.MonotonicEntropy
}

// NewULIDGenerator creates a ULID generator reading time from c
func NewULIDGenerator(c clock.Clock) *ULIDGenerator {
	return &ULIDGenerator{
		clock:   c,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// NewID returns the next ULID
func (g *ULIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.clock.Now()), g.entropy).String()
}

// UUIDGenerator issues random v4 UUIDs
type UUIDGenerator struct{}

// NewID returns a random UUID string
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequentialIDs issues "<prefix>1", "<prefix>2", ... and is meant for tests
// that assert exact ids.
type SequentialIDs struct {
	Prefix string
	n      atomic.Uint64
}

// NewID returns the next id in the sequence
func (s *SequentialIDs) NewID() string {
	return fmt.Sprintf("%s%d", s.Prefix, s.n.Add(1))
}
