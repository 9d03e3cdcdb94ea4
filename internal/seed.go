package internal

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed seeds/default.yaml
var defaultSeedYAML []byte

// Seed is the declared shape of the initial session state. Message times
// are wall-clock labels ("2:25 PM") placed on the day the seed is applied.
type Seed struct {
	ActiveRoom string                   `yaml:"active_room"`
	Rooms      []Room                   `yaml:"rooms"`
	Messages   map[string][]SeedMessage `yaml:"messages"`
	Assistant  []SeedAssistantMessage   `yaml:"assistant"`
}

// SeedMessage is a room message as written in a seed file
type SeedMessage struct {
	ID           string    `yaml:"id"`
	Content      string    `yaml:"content"`
	Sender       string    `yaml:"sender"`
	Time         string    `yaml:"time"`
	Direction    Direction `yaml:"direction"`
	ProvenanceID string    `yaml:"provenance_id,omitempty"`
}

// SeedAssistantMessage is an assistant conversation entry in a seed file
type SeedAssistantMessage struct {
	ID      string `yaml:"id"`
	Content string `yaml:"content"`
	Role    Role   `yaml:"role"`
	Time    string `yaml:"time"`
}

// DefaultSeed returns the bundled sample workspace
func DefaultSeed() (*Seed, error) {
	seed, err := ParseSeed(defaultSeedYAML)
	if err != nil {
		return nil, &SeedError{Path: "<embedded>", Err: err}
	}
	return seed, nil
}

// LoadSeed reads a seed file from disk
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SeedError{Path: path, Err: err}
	}
	seed, err := ParseSeed(data)
	if err != nil {
		return nil, &SeedError{Path: path, Err: err}
	}
	LogDebug("Loaded seed %s: %d room(s)", path, len(seed.Rooms))
	return seed, nil
}

// ParseSeed decodes and validates seed YAML
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed YAML: %w", err)
	}
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

// Validate checks room ids and each room's message ids are present and
// unique, and that every reference points at a seeded room
func (s *Seed) Validate() error {
	ids := make(map[string]struct{}, len(s.Rooms))
	for i, room := range s.Rooms {
		if strings.TrimSpace(room.ID) == "" {
			return fmt.Errorf("room #%d has no id: %w", i+1, ErrInvalidInput)
		}
		if _, dup := ids[room.ID]; dup {
			return fmt.Errorf("duplicate room id %q: %w", room.ID, ErrInvalidInput)
		}
		if room.UnreadCount < 0 {
			return fmt.Errorf("room %q has negative unread count: %w", room.ID, ErrInvalidInput)
		}
		ids[room.ID] = struct{}{}
	}
	if s.ActiveRoom != "" {
		if _, ok := ids[s.ActiveRoom]; !ok {
			return &RoomError{RoomID: s.ActiveRoom, Op: "select", Err: ErrNotFound}
		}
	}
	for roomID, messages := range s.Messages {
		if _, ok := ids[roomID]; !ok {
			return &RoomError{RoomID: roomID, Op: "append", Err: ErrNotFound}
		}
		seen := make(map[string]struct{}, len(messages))
		for i, m := range messages {
			if strings.TrimSpace(m.ID) == "" {
				return fmt.Errorf("room %q message #%d has no id: %w", roomID, i+1, ErrInvalidInput)
			}
			if _, dup := seen[m.ID]; dup {
				return fmt.Errorf("room %q has duplicate message id %q: %w", roomID, m.ID, ErrInvalidInput)
			}
			seen[m.ID] = struct{}{}
		}
	}
	return nil
}

// RoomMessages resolves the seeded messages of a room against day
func (s *Seed) RoomMessages(roomID string, day time.Time) []Message {
	seeded := s.Messages[roomID]
	out := make([]Message, 0, len(seeded))
	for _, m := range seeded {
		direction := m.Direction
		if direction == 0 {
			direction = Received
			if m.Sender == LocalSender {
				direction = Sent
			}
		}
		out = append(out, Message{
			ID:           m.ID,
			RoomID:       roomID,
			Content:      m.Content,
			Sender:       m.Sender,
			CreatedAt:    clockOn(day, m.Time),
			Direction:    direction,
			ProvenanceID: m.ProvenanceID,
		})
	}
	return out
}

// AssistantHistory resolves the seeded assistant conversation against day
func (s *Seed) AssistantHistory(day time.Time) []AssistantMessage {
	out := make([]AssistantMessage, 0, len(s.Assistant))
	for _, m := range s.Assistant {
		role := m.Role
		if role == 0 {
			role = RoleAssistant
		}
		out = append(out, AssistantMessage{
			ID:        m.ID,
			Content:   m.Content,
			Role:      role,
			CreatedAt: clockOn(day, m.Time),
		})
	}
	return out
}

// clockOn places a "3:04 PM" label on day. Unparseable labels fall back to
// the start of the day.
func clockOn(day time.Time, label string) time.Time {
	y, m, d := day.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	t, err := time.Parse("3:04 PM", strings.TrimSpace(label))
	if err != nil {
		return midnight
	}
	return midnight.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
}
