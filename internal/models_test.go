package internal

import (
	"encoding/json"
	"testing"
	"time"
)

func TestActivityLabel(t *testing.T) {
	now := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{name: "same day", at: time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC), want: "2:30 PM"},
		{name: "morning", at: time.Date(2026, 3, 10, 9, 5, 0, 0, time.UTC), want: "9:05 AM"},
		{name: "yesterday", at: time.Date(2026, 3, 9, 23, 59, 0, 0, time.UTC), want: "Yesterday"},
		{name: "older", at: time.Date(2026, 2, 28, 8, 0, 0, 0, time.UTC), want: "Feb 28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ActivityLabel(tt.at, now); got != tt.want {
				t.Errorf("ActivityLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDirectionText(t *testing.T) {
	var d Direction
	if err := d.UnmarshalText([]byte("Received")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if d != Received {
		t.Errorf("Direction = %v, want received", d)
	}

	if err := d.UnmarshalText([]byte("sideways")); err == nil {
		t.Error("expected error for unknown direction")
	}
}

func TestRoleText(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{in: "user", want: RoleUser},
		{in: "assistant", want: RoleAssistant},
		{in: "bot", want: RoleAssistant},
	}

	for _, tt := range tests {
		var r Role
		if err := r.UnmarshalText([]byte(tt.in)); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", tt.in, err)
		}
		if r != tt.want {
			t.Errorf("UnmarshalText(%q) = %v, want %v", tt.in, r, tt.want)
		}
	}
}

func TestMessageJSON(t *testing.T) {
	msg := Message{ID: "1", RoomID: "1", Content: "hi", Sender: LocalSender, Direction: Sent, ProvenanceID: "tx_1"}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded["direction"] != "sent" {
		t.Errorf("direction = %v, want sent", decoded["direction"])
	}
	if decoded["provenance_id"] != "tx_1" {
		t.Errorf("provenance_id = %v, want tx_1", decoded["provenance_id"])
	}
}
