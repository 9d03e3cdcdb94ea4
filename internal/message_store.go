package internal

import (
	"strings"
	"sync"

	"github.com/iksnae/glasschat/internal/clock"
)

// MessageStore holds the ordered message sequence of every room. It is the
// only writer of Message values and only ever appends.
type MessageStore struct {
	mu     sync.RWMutex
	rooms  map[string][]Message
	clock  clock.Clock
	ids    IDGenerator
	tagger TransactionTagger
}

// NewMessageStore creates an empty store
func NewMessageStore(c clock.Clock, ids IDGenerator, tagger TransactionTagger) *MessageStore {
	return &MessageStore{
		rooms:  make(map[string][]Message),
		clock:  c,
		ids:    ids,
		tagger: tagger,
	}
}

// Seed appends pre-existing messages as-is, keeping their ids, timestamps
// and provenance ids. Messages with empty content are skipped.
func (s *MessageStore) Seed(roomID string, messages []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, msg := range messages {
		if strings.TrimSpace(msg.Content) == "" {
			LogWarn("Skipping empty seeded message %s in room %s", msg.ID, roomID)
			continue
		}
		msg.RoomID = roomID
		s.rooms[roomID] = append(s.rooms[roomID], msg)
	}
}

// Append creates a message authored by the local user (Sent) or by an
// unnamed peer (Received) and appends it to the room
func (s *MessageStore) Append(roomID, content string, direction Direction) (Message, error) {
	sender := LocalSender
	if direction == Received {
		sender = "Unknown"
	}
	return s.append(roomID, sender, content, direction)
}

// Receive appends a message received from sender
func (s *MessageStore) Receive(roomID, sender, content string) (Message, error) {
	return s.append(roomID, sender, content, Received)
}

func (s *MessageStore) append(roomID, sender, content string, direction Direction) (Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, &RoomError{RoomID: roomID, Op: "append", Err: ErrInvalidInput}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.rooms[roomID]
	createdAt := s.clock.Now()
	if n := len(seq); n > 0 && createdAt.Before(seq[n-1].CreatedAt) {
		createdAt = seq[n-1].CreatedAt
	}

	msg := Message{
		ID:           s.uniqueID(seq),
		RoomID:       roomID,
		Content:      content,
		Sender:       sender,
		CreatedAt:    createdAt,
		Direction:    direction,
		ProvenanceID: s.tagger.Mint(),
	}
	s.rooms[roomID] = append(seq, msg)
	LogDebug("Appended message %s to room %s (provenance %s)", msg.ID, roomID, msg.ProvenanceID)
	return msg, nil
}

// uniqueID draws ids until one is free within the room. Seeded rooms carry
// short ids like "1", "2" that a sequential generator could repeat.
func (s *MessageStore) uniqueID(seq []Message) string {
	for {
		id := s.ids.NewID()
		clash := false
		for i := range seq {
			if seq[i].ID == id {
				clash = true
				break
			}
		}
		if !clash {
			return id
		}
	}
}

// List returns a copy of the room's messages in insertion order. Unknown
// rooms yield an empty slice.
func (s *MessageStore) List(roomID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seq := s.rooms[roomID]
	out := make([]Message, len(seq))
	copy(out, seq)
	return out
}

// Len returns the number of messages in a room
func (s *MessageStore) Len(roomID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms[roomID])
}

// Last returns the most recent message of a room
func (s *MessageStore) Last(roomID string) (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seq := s.rooms[roomID]
	if len(seq) == 0 {
		return Message{}, false
	}
	return seq[len(seq)-1], true
}
