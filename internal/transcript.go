package internal

import "time"

// Transcript is an exportable copy of one conversation: a room's messages
// or the assistant side channel
type Transcript struct {
	ID       string             `json:"id" yaml:"id"`
	Kind     string             `json:"kind" yaml:"kind"` // "room", "assistant"
	Title    string             `json:"title" yaml:"title"`
	Entries  []TranscriptEntry  `json:"entries" yaml:"entries"`
	Metadata TranscriptMetadata `json:"metadata" yaml:"metadata"`
}

// TranscriptEntry is a single exported message
type TranscriptEntry struct {
	ID           string    `json:"id" yaml:"id"`
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
	Actor        string    `json:"actor" yaml:"actor"`
	Direction    string    `json:"direction,omitempty" yaml:"direction,omitempty"`
	Content      string    `json:"content" yaml:"content"`
	ProvenanceID string    `json:"provenance_id,omitempty" yaml:"provenance_id,omitempty"`
}

// TranscriptMetadata contains additional transcript information
type TranscriptMetadata struct {
	ExportedAt   time.Time `json:"exported_at" yaml:"exported_at"`
	MessageCount int       `json:"message_count" yaml:"message_count"`
	Icon         string    `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// TranscriptKinds
const (
	KindRoom      = "room"
	KindAssistant = "assistant"
)

// RoomTranscript builds the transcript of a room
func (s *SessionController) RoomTranscript(roomID string) (*Transcript, error) {
	room, ok := s.rooms.Room(roomID)
	if !ok {
		return nil, &RoomError{RoomID: roomID, Op: "export", Err: ErrNotFound}
	}
	messages := s.messages.List(roomID)
	t := &Transcript{
		ID:      room.ID,
		Kind:    KindRoom,
		Title:   room.Name,
		Entries: make([]TranscriptEntry, 0, len(messages)),
		Metadata: TranscriptMetadata{
			ExportedAt:   s.clock.Now(),
			MessageCount: len(messages),
			Icon:         room.Icon,
		},
	}
	for _, msg := range messages {
		t.Entries = append(t.Entries, TranscriptEntry{
			ID:           msg.ID,
			Timestamp:    msg.CreatedAt,
			Actor:        msg.Sender,
			Direction:    msg.Direction.String(),
			Content:      msg.Content,
			ProvenanceID: msg.ProvenanceID,
		})
	}
	return t, nil
}

// RoomTranscripts builds a transcript per room in catalog order
func (s *SessionController) RoomTranscripts() []*Transcript {
	rooms := s.rooms.Rooms()
	out := make([]*Transcript, 0, len(rooms))
	for _, room := range rooms {
		t, err := s.RoomTranscript(room.ID)
		if err != nil {
			LogWarn("Skipping room %s: %v", room.ID, err)
			continue
		}
		out = append(out, t)
	}
	return out
}

// AssistantTranscript builds the transcript of the assistant conversation
func (s *SessionController) AssistantTranscript() *Transcript {
	messages := s.assistant.Messages()
	t := &Transcript{
		ID:      KindAssistant,
		Kind:    KindAssistant,
		Title:   "AI Assistant",
		Entries: make([]TranscriptEntry, 0, len(messages)),
		Metadata: TranscriptMetadata{
			ExportedAt:   s.clock.Now(),
			MessageCount: len(messages),
		},
	}
	for _, msg := range messages {
		t.Entries = append(t.Entries, TranscriptEntry{
			ID:        msg.ID,
			Timestamp: msg.CreatedAt,
			Actor:     msg.Role.String(),
			Content:   msg.Content,
		})
	}
	return t
}
