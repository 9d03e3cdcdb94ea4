// Package tui is the terminal front end of a chat session. It owns no chat
// state: every key press is turned into a SessionController call and the
// screen is redrawn from a fresh Snapshot.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/iksnae/glasschat/internal"
)

type focus int

const (
	focusChat focus = iota
	focusRooms
	focusAssistant
)

// changedMsg is delivered when the assistant finishes a turn in the background
type changedMsg struct{}

// Options configures the model
type Options struct {
	// GlamourStyle is a glamour standard style name; empty picks "dark"
	GlamourStyle string
	// Context is the parent of every assistant turn
	Context context.Context
}

// Model is the bubbletea model hosting a SessionController
type Model struct {
	session *internal.SessionController
	opts    Options

	width  int
	height int
	focus  focus
	cursor int

	compose  textinput.Model
	search   textinput.Model
	ask      textinput.Model
	messages viewport.Model
	thread   viewport.Model
	spinner  spinner.Model

	renderer      *glamour.TermRenderer
	rendererWidth int

	theme  theme
	status string
	err    error
}

// New creates a model for session
func New(session *internal.SessionController, opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.GlamourStyle == "" {
		opts.GlamourStyle = "dark"
	}

	compose := textinput.New()
	compose.Prompt = "❯ "
	compose.Placeholder = "Type a message… (/new <name> creates a room)"
	compose.CharLimit = 4000
	compose.Focus()

	search := textinput.New()
	search.Prompt = "⌕ "
	search.Placeholder = "Search rooms"

	ask := textinput.New()
	ask.Prompt = "✦ "
	ask.Placeholder = "Ask the assistant"
	ask.CharLimit = 4000

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = newTheme().status

	return Model{
		session:  session,
		opts:     opts,
		compose:  compose,
		search:   search,
		ask:      ask,
		messages: viewport.New(0, 0),
		thread:   viewport.New(0, 0),
		spinner:  sp,
		theme:    newTheme(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.session.Resize(msg.Width)
		m.ensureFocusVisible()

	case changedMsg:
		if m.session.Assistant().Outcome() == internal.OutcomeFailed {
			m.setError(errors.New("assistant unavailable"))
		} else {
			m.status = ""
		}

	case spinner.TickMsg:
		if m.session.Assistant().State() == internal.StateAwaitingReply {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		cmd, quit := m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)
	}

	m.layout()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		if m.session.Assistant().State() == internal.StateAwaitingReply {
			_ = m.session.CancelAssistant()
		}
		return nil, true
	case "tab":
		m.cycleFocus()
		return nil, false
	case "ctrl+b":
		state := m.session.ToggleSidebar()
		if state.SidebarOpen {
			m.setFocus(focusRooms)
		} else {
			m.ensureFocusVisible()
		}
		return nil, false
	case "ctrl+a":
		state := m.session.ToggleAssistant()
		if state.AssistantOpen {
			m.setFocus(focusAssistant)
		} else {
			m.ensureFocusVisible()
		}
		return nil, false
	case "esc":
		m.escape()
		return nil, false
	}

	switch m.focus {
	case focusRooms:
		return m.handleRoomsKey(msg), false
	case focusAssistant:
		return m.handleAssistantKey(msg), false
	default:
		return m.handleChatKey(msg), false
	}
}

func (m *Model) handleChatKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		value := m.compose.Value()
		if name, ok := strings.CutPrefix(strings.TrimSpace(value), "/new "); ok {
			room, err := m.session.CreateRoom(name, "")
			if err != nil {
				m.setError(err)
				return nil
			}
			if _, err := m.session.SelectRoom(room.ID); err != nil {
				m.setError(err)
				return nil
			}
			m.compose.Reset()
			m.status = "Created " + room.Name
			return nil
		}
		if _, err := m.session.SendMessage(value); err != nil {
			if !errors.Is(err, internal.ErrInvalidInput) {
				m.setError(err)
			}
			return nil
		}
		m.compose.Reset()
		m.err = nil
		m.messages.GotoBottom()
		return nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.messages, cmd = m.messages.Update(msg)
		return cmd
	}
	var cmd tea.Cmd
	m.compose, cmd = m.compose.Update(msg)
	return cmd
}

func (m *Model) handleRoomsKey(msg tea.KeyMsg) tea.Cmd {
	rooms := m.session.Snapshot().Rooms
	switch msg.String() {
	case "up", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}
		return nil
	case "down", "ctrl+n":
		if m.cursor < len(rooms)-1 {
			m.cursor++
		}
		return nil
	case "enter":
		if m.cursor < len(rooms) {
			if _, err := m.session.SelectRoom(rooms[m.cursor].ID); err != nil {
				m.setError(err)
				return nil
			}
			m.setFocus(focusChat)
			m.ensureFocusVisible()
		}
		return nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.session.Search(m.search.Value())
	if n := len(m.session.Snapshot().Rooms); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	return cmd
}

func (m *Model) handleAssistantKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() != "enter" {
		var cmd tea.Cmd
		m.ask, cmd = m.ask.Update(msg)
		return cmd
	}

	_, err := m.session.AskAssistant(m.opts.Context, m.ask.Value())
	switch {
	case errors.Is(err, internal.ErrInvalidInput):
		return nil
	case errors.Is(err, internal.ErrBusy):
		m.status = "Assistant is still typing…"
		return nil
	case err != nil:
		m.setError(err)
		return nil
	}
	m.ask.Reset()
	m.err = nil
	m.status = ""
	m.thread.GotoBottom()
	return m.spinner.Tick
}

// escape cancels a pending turn first, then closes overlays
func (m *Model) escape() {
	snap := m.session.Snapshot()
	if m.focus == focusAssistant && snap.AssistantState == internal.StateAwaitingReply {
		if err := m.session.CancelAssistant(); err == nil {
			m.status = "Cancelled"
		}
		return
	}
	if snap.Panels.AssistantOpen {
		m.session.CloseAssistant()
	} else if snap.Panels.SidebarOpen {
		m.session.CloseSidebar()
	}
	m.ensureFocusVisible()
}

func (m *Model) cycleFocus() {
	order := []focus{focusChat, focusRooms, focusAssistant}
	panels := m.session.Panels().State()
	for i := 1; i <= len(order); i++ {
		next := order[(int(m.focus)+i)%len(order)]
		if m.focusable(next, panels) {
			m.setFocus(next)
			return
		}
	}
}

func (m *Model) focusable(f focus, panels internal.PanelState) bool {
	switch f {
	case focusRooms:
		return panels.SidebarVisible()
	case focusAssistant:
		return panels.AssistantVisible()
	default:
		return !panels.SidebarOpen && !panels.AssistantOpen
	}
}

// ensureFocusVisible moves focus off a panel that is no longer shown
func (m *Model) ensureFocusVisible() {
	panels := m.session.Panels().State()
	if m.focusable(m.focus, panels) {
		return
	}
	switch {
	case panels.AssistantOpen:
		m.setFocus(focusAssistant)
	case panels.SidebarOpen:
		m.setFocus(focusRooms)
	default:
		m.setFocus(focusChat)
	}
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	m.compose.Blur()
	m.search.Blur()
	m.ask.Blur()
	switch f {
	case focusRooms:
		m.search.Focus()
	case focusAssistant:
		m.ask.Focus()
	default:
		m.compose.Focus()
	}
}

func (m *Model) setError(err error) {
	m.err = err
	m.status = ""
	internal.LogDebug("tui: %v", err)
}

func (m *Model) markdown(content string, width int) string {
	if width < 20 {
		return content
	}
	if m.renderer == nil || m.rendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.opts.GlamourStyle),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return content
		}
		m.renderer, m.rendererWidth = r, width
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
