package internal

import (
	"fmt"
	"strings"
	"time"
)

// Room represents a named message channel with unread/preview metadata
type Room struct {
	ID                 string `json:"id" yaml:"id"`
	Name               string `json:"name" yaml:"name"`
	Icon               string `json:"icon" yaml:"icon"`
	LastMessagePreview string `json:"last_message" yaml:"last_message"`
	LastActivityLabel  string `json:"last_activity" yaml:"last_activity"`
	UnreadCount        int    `json:"unread_count" yaml:"unread_count"`
}

// Direction tells whether a message was sent by the local user or received
type Direction int

const (
	Sent Direction = iota + 1
	Received
)

func (d Direction) String() string {
	switch d {
	case Sent:
		return "sent"
	case Received:
		return "received"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Direction) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "sent":
		*d = Sent
	case "received":
		*d = Received
	default:
		return fmt.Errorf("unknown direction %q", text)
	}
	return nil
}

// LocalSender is the sender name recorded on messages the user sends
const LocalSender = "You"

// Message is a single chat message inside a room
type Message struct {
	ID           string    `json:"id" yaml:"id"`
	RoomID       string    `json:"room_id" yaml:"room_id"`
	Content      string    `json:"content" yaml:"content"`
	Sender       string    `json:"sender" yaml:"sender"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	Direction    Direction `json:"direction" yaml:"direction"`
	ProvenanceID string    `json:"provenance_id,omitempty" yaml:"provenance_id,omitempty"`
}

// Role identifies the author of an assistant conversation entry
type Role int

const (
	RoleUser Role = iota + 1
	RoleAssistant
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Role) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "user":
		*r = RoleUser
	case "assistant", "bot":
		*r = RoleAssistant
	default:
		return fmt.Errorf("unknown role %q", text)
	}
	return nil
}

// AssistantMessage is one entry of the assistant side-channel conversation
type AssistantMessage struct {
	ID        string    `json:"id" yaml:"id"`
	Content   string    `json:"content" yaml:"content"`
	Role      Role      `json:"role" yaml:"role"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	// Failed marks the notice injected when the upstream relay could not answer
	Failed bool `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// ActivityLabel formats a timestamp the way room lists show it: "2:30 PM"
// for today, "Yesterday", or a short date otherwise.
func ActivityLabel(t, now time.Time) string {
	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return t.Format("3:04 PM")
	}
	yesterday := now.AddDate(0, 0, -1)
	y3, m3, d3 := yesterday.Date()
	if y1 == y3 && m1 == m3 && d1 == d3 {
		return "Yesterday"
	}
	return t.Format("Jan 2")
}
