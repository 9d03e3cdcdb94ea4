package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for empty or whitespace-only content
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a room id is not in the catalog
	ErrNotFound = errors.New("not found")

	// ErrBusy is returned when an assistant turn is already outstanding
	ErrBusy = errors.New("assistant is busy")

	// ErrNotAwaiting is returned by Cancel when no turn is outstanding
	ErrNotAwaiting = errors.New("no assistant turn in flight")

	// ErrUpstream covers every relay failure: transport errors and non-2xx replies
	ErrUpstream = errors.New("upstream failure")
)

// RoomError represents a failed operation against a room
type RoomError struct {
	RoomID string
	Op     string // "select", "append", "create"
	Err    error
}

func (e *RoomError) Error() string {
	return fmt.Sprintf("room error: %s %s: %v", e.Op, e.RoomID, e.Err)
}

func (e *RoomError) Unwrap() error {
	return e.Err
}

// TurnError represents a failed assistant turn
type TurnError struct {
	TurnID string
	Err    error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("assistant turn [%s]: %v", e.TurnID, e.Err)
}

func (e *TurnError) Unwrap() error {
	return e.Err
}

// SeedError represents errors loading seed data
type SeedError struct {
	Path string
	Err  error
}

func (e *SeedError) Error() string {
	return fmt.Sprintf("seed error %s: %v", e.Path, e.Err)
}

func (e *SeedError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
