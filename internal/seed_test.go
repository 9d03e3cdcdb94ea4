package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSeed(t *testing.T) {
	seed, err := DefaultSeed()
	require.NoError(t, err)

	assert.Equal(t, "1", seed.ActiveRoom)
	require.Len(t, seed.Rooms, 5)
	assert.Equal(t, "General Chat", seed.Rooms[0].Name)
	assert.Equal(t, 3, seed.Rooms[0].UnreadCount)
	assert.Len(t, seed.Messages["1"], 4)
	assert.Len(t, seed.Messages["2"], 2)
	assert.Len(t, seed.Assistant, 3)
	assert.Equal(t, RoleUser, seed.Assistant[1].Role)
}

func TestParseSeed_InfersDirection(t *testing.T) {
	seed, err := ParseSeed([]byte(`
rooms:
  - id: a
    name: Alpha
messages:
  a:
    - id: "1"
      content: morning
      sender: Carol
      time: 9:15 AM
    - id: "2"
      content: hi Carol
      sender: You
      time: 9:16 AM
`))
	require.NoError(t, err)

	day := time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)
	msgs := seed.RoomMessages("a", day)
	require.Len(t, msgs, 2)
	assert.Equal(t, Received, msgs[0].Direction)
	assert.Equal(t, Sent, msgs[1].Direction)
	assert.Equal(t, time.Date(2026, 5, 4, 9, 15, 0, 0, time.UTC), msgs[0].CreatedAt)
	assert.Equal(t, "a", msgs[1].RoomID)
}

func TestParseSeed_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "missing id", yaml: "rooms:\n  - name: Nameless\n"},
		{name: "duplicate id", yaml: "rooms:\n  - id: x\n    name: A\n  - id: x\n    name: B\n"},
		{name: "negative unread", yaml: "rooms:\n  - id: x\n    name: A\n    unread_count: -1\n"},
		{name: "unknown active room", yaml: "active_room: y\nrooms:\n  - id: x\n    name: A\n"},
		{name: "messages for unknown room", yaml: "rooms:\n  - id: x\n    name: A\nmessages:\n  y:\n    - id: '1'\n      content: hi\n"},
		{name: "bad direction", yaml: "rooms:\n  - id: x\n    name: A\nmessages:\n  x:\n    - id: '1'\n      content: hi\n      direction: up\n"},
		{name: "message without id", yaml: "rooms:\n  - id: x\n    name: A\nmessages:\n  x:\n    - content: hi\n"},
		{name: "duplicate message id", yaml: "rooms:\n  - id: x\n    name: A\nmessages:\n  x:\n    - id: '1'\n      content: hi\n    - id: '1'\n      content: again\n"},
		{name: "not yaml", yaml: "rooms: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeed([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseSeed_MessageIDsScopedToRoom(t *testing.T) {
	seed, err := ParseSeed([]byte("rooms:\n  - id: x\n    name: A\n  - id: y\n    name: B\nmessages:\n  x:\n    - id: '1'\n      content: hi\n  y:\n    - id: '1'\n      content: hello\n"))
	require.NoError(t, err)
	assert.Len(t, seed.Messages["x"], 1)
	assert.Len(t, seed.Messages["y"], 1)

	_, err = ParseSeed([]byte("rooms:\n  - id: x\n    name: A\nmessages:\n  x:\n    - id: '7'\n      content: a\n    - id: '7'\n      content: b\n"))
	assert.True(t, errors.Is(err, ErrInvalidInput), "err = %v", err)
}

func TestLoadSeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("active_room: ops\nrooms:\n  - id: ops\n    name: Operations\n    icon: \"⚙\"\n"), 0o644))

	seed, err := LoadSeed(path)
	require.NoError(t, err)
	assert.Equal(t, "ops", seed.ActiveRoom)
	assert.Equal(t, "⚙", seed.Rooms[0].Icon)

	_, err = LoadSeed(filepath.Join(dir, "missing.yaml"))
	var seedErr *SeedError
	require.True(t, errors.As(err, &seedErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestAssistantHistory_DefaultsRole(t *testing.T) {
	seed := &Seed{Assistant: []SeedAssistantMessage{{ID: "1", Content: "Hello", Time: "bogus"}}}
	day := time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)

	history := seed.AssistantHistory(day)
	require.Len(t, history, 1)
	assert.Equal(t, RoleAssistant, history[0].Role)
	assert.Equal(t, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), history[0].CreatedAt)
}
