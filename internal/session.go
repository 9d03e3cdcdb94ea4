package internal

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/iksnae/glasschat/internal/clock"
)

// Options wires a SessionController. Zero values select production
// defaults; tests inject deterministic ids, taggers and clocks.
type Options struct {
	Seed         *Seed
	Clock        clock.Clock
	MessageIDs   IDGenerator
	RoomIDs      IDGenerator
	AssistantIDs IDGenerator
	Tagger       TransactionTagger
	Replier      Replier
	ReplyTimeout time.Duration
	Breakpoints  Breakpoints
	InitialClass ViewportClass
	// OnChange is called whenever the assistant finishes, fails or is
	// cancelled, so a host event loop can re-render
	OnChange func()
}

// Snapshot is the read-only view of the session handed to renderers
type Snapshot struct {
	Rooms          []Room
	Search         string
	ActiveRoom     Room
	HasActiveRoom  bool
	Messages       []Message
	Assistant      []AssistantMessage
	AssistantState AssistantState
	Panels         PanelState
}

// SessionController is the composition root: user actions enter here and
// are dispatched to the component that owns the affected state.
type SessionController struct {
	clock       clock.Clock
	breakpoints Breakpoints

	rooms     *RoomRegistry
	messages  *MessageStore
	assistant *AIConversationController
	panels    *PanelVisibilityController

	mu     sync.Mutex
	search string
}

// New builds a session from opts.Seed, or from the bundled sample seed
func New(opts Options) (*SessionController, error) {
	seed := opts.Seed
	if seed == nil {
		var err error
		if seed, err = DefaultSeed(); err != nil {
			return nil, err
		}
	} else if err := seed.Validate(); err != nil {
		return nil, &SeedError{Path: "<options>", Err: err}
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.MessageIDs == nil {
		opts.MessageIDs = NewULIDGenerator(opts.Clock)
	}
	if opts.RoomIDs == nil {
		opts.RoomIDs = UUIDGenerator{}
	}
	if opts.AssistantIDs == nil {
		opts.AssistantIDs = UUIDGenerator{}
	}
	if opts.Tagger == nil {
		opts.Tagger = NewHashTagger()
	}
	if opts.Replier == nil {
		opts.Replier = NewSimulatedReplier(opts.Clock)
	}
	if opts.Breakpoints == (Breakpoints{}) {
		opts.Breakpoints = PixelBreakpoints
	}

	today := opts.Clock.Now()
	s := &SessionController{
		clock:       opts.Clock,
		breakpoints: opts.Breakpoints,
		rooms:       NewRoomRegistry(seed.Rooms, opts.RoomIDs),
		messages:    NewMessageStore(opts.Clock, opts.MessageIDs, opts.Tagger),
		panels:      NewPanelVisibilityController(opts.InitialClass),
		assistant: NewAIConversationController(AssistantOptions{
			Replier:      opts.Replier,
			Clock:        opts.Clock,
			IDs:          opts.AssistantIDs,
			ReplyTimeout: opts.ReplyTimeout,
			OnChange:     opts.OnChange,
			History:      seed.AssistantHistory(today),
		}),
	}
	for _, room := range seed.Rooms {
		s.messages.Seed(room.ID, seed.RoomMessages(room.ID, today))
	}
	if seed.ActiveRoom != "" {
		if err := s.rooms.SelectRoom(seed.ActiveRoom); err != nil {
			return nil, err
		}
	}
	LogDebug("Session ready: %d room(s), active %q", len(seed.Rooms), seed.ActiveRoom)
	return s, nil
}

// Rooms exposes the room registry
func (s *SessionController) Rooms() *RoomRegistry { return s.rooms }

// Messages exposes the message store
func (s *SessionController) Messages() *MessageStore { return s.messages }

// Assistant exposes the assistant controller
func (s *SessionController) Assistant() *AIConversationController { return s.assistant }

// Panels exposes the panel controller
func (s *SessionController) Panels() *PanelVisibilityController { return s.panels }

// SetOnChange replaces the assistant change notifier
func (s *SessionController) SetOnChange(fn func()) {
	s.assistant.SetOnChange(fn)
}

// SelectRoom switches the active room. Below the Desktop class the sidebar
// is an overlay, and picking a room dismisses it.
func (s *SessionController) SelectRoom(roomID string) (Snapshot, error) {
	if err := s.rooms.SelectRoom(roomID); err != nil {
		return Snapshot{}, err
	}
	if !s.panels.State().SidebarInline() {
		s.panels.CloseSidebar()
	}
	return s.Snapshot(), nil
}

// SendMessage appends a message from the local user to the active room
func (s *SessionController) SendMessage(content string) (Message, error) {
	roomID := s.rooms.ActiveID()
	if roomID == "" {
		return Message{}, &RoomError{Op: "append", Err: ErrNotFound}
	}
	msg, err := s.messages.Append(roomID, content, Sent)
	if err != nil {
		return Message{}, err
	}
	s.rooms.Touch(roomID, msg.Content, ActivityLabel(msg.CreatedAt, s.clock.Now()))
	return msg, nil
}

// ReceiveMessage appends a message from another participant. Rooms other
// than the active one accumulate unread counts.
func (s *SessionController) ReceiveMessage(roomID, sender, content string) (Message, error) {
	if _, ok := s.rooms.Room(roomID); !ok {
		return Message{}, &RoomError{RoomID: roomID, Op: "append", Err: ErrNotFound}
	}
	msg, err := s.messages.Receive(roomID, sender, content)
	if err != nil {
		return Message{}, err
	}
	s.rooms.Touch(roomID, msg.Content, ActivityLabel(msg.CreatedAt, s.clock.Now()))
	s.rooms.RecordIncoming(roomID)
	return msg, nil
}

// CreateRoom adds an empty room to the catalog
func (s *SessionController) CreateRoom(name, icon string) (Room, error) {
	room, err := s.rooms.CreateRoom(name, icon)
	if err != nil {
		return Room{}, err
	}
	LogInfo("Created room %s (%s)", room.Name, room.ID)
	return room, nil
}

// Search sets the room-list query used by Snapshot
func (s *SessionController) Search(query string) Snapshot {
	s.mu.Lock()
	s.search = query
	s.mu.Unlock()
	return s.Snapshot()
}

// SearchRooms returns the rooms matching query in catalog order
func (s *SessionController) SearchRooms(query string) []Room {
	return slices.Collect(s.rooms.Filter(query))
}

// AskAssistant submits a prompt to the assistant
func (s *SessionController) AskAssistant(ctx context.Context, text string) (*Turn, error) {
	return s.assistant.Submit(ctx, text)
}

// CancelAssistant abandons the outstanding assistant turn
func (s *SessionController) CancelAssistant() error {
	return s.assistant.Cancel()
}

// Resize consumes a viewport width change
func (s *SessionController) Resize(width int) PanelState {
	return s.ResizeClass(s.breakpoints.Classify(width))
}

// ResizeClass consumes a viewport class change
func (s *SessionController) ResizeClass(class ViewportClass) PanelState {
	return s.panels.Resize(class)
}

// ToggleSidebar flips the sidebar overlay
func (s *SessionController) ToggleSidebar() PanelState {
	return s.panels.ToggleSidebar()
}

// CloseSidebar dismisses the sidebar overlay
func (s *SessionController) CloseSidebar() PanelState {
	return s.panels.CloseSidebar()
}

// ToggleAssistant flips the assistant overlay. Hiding the panel while a
// reply is pending cancels the turn.
func (s *SessionController) ToggleAssistant() PanelState {
	return s.afterAssistantPanelChange(s.panels.ToggleAssistant())
}

// CloseAssistant dismisses the assistant overlay, cancelling a pending turn
// if the panel is no longer visible
func (s *SessionController) CloseAssistant() PanelState {
	return s.afterAssistantPanelChange(s.panels.CloseAssistant())
}

func (s *SessionController) afterAssistantPanelChange(state PanelState) PanelState {
	if state.AssistantVisible() {
		return state
	}
	if err := s.assistant.Cancel(); err != nil && !errors.Is(err, ErrNotAwaiting) {
		LogWarn("Failed to cancel assistant turn: %v", err)
	}
	return state
}

// Snapshot returns a consistent read-only view for rendering
func (s *SessionController) Snapshot() Snapshot {
	s.mu.Lock()
	query := s.search
	s.mu.Unlock()

	snap := Snapshot{
		Rooms:          s.SearchRooms(query),
		Search:         query,
		Assistant:      s.assistant.Messages(),
		AssistantState: s.assistant.State(),
		Panels:         s.panels.State(),
	}
	if room, ok := s.rooms.Active(); ok {
		snap.ActiveRoom = room
		snap.HasActiveRoom = true
		snap.Messages = s.messages.List(room.ID)
	}
	return snap
}
