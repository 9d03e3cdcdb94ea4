package internal

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// TransactionTagger mints the provenance id attached to each outgoing
// message. Ids are local correlation tags, not on-chain proofs; a ledger
// backed tagger would return the transaction hash of the write instead.
type TransactionTagger interface {
	Mint() string
}

// HashTagger mints ids shaped like a transaction hash: "0x" followed by 64
// hex characters. Uniqueness rests on a random UUID per call plus a
// session-local sequence number.
type HashTagger struct {
	seq atomic.Uint64
}

// NewHashTagger creates a tagger
func NewHashTagger() *HashTagger {
	return &HashTagger{}
}

// Mint returns a fresh correlation id
func (t *HashTagger) Mint() string {
	id := uuid.New()
	var buf [24]byte
	copy(buf[:16], id[:])
	binary.BigEndian.PutUint64(buf[16:], t.seq.Add(1))

	sum := blake3.Sum256(buf[:])
	return "0x" + hex.EncodeToString(sum[:])
}

// SequentialTagger mints "tx_000001", "tx_000002", ... for tests
type SequentialTagger struct {
	n atomic.Uint64
}

// Mint returns the next id in the sequence
func (t *SequentialTagger) Mint() string {
	return fmt.Sprintf("tx_%06d", t.n.Add(1))
}
