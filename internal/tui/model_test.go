package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/iksnae/glasschat/internal"
	"github.com/iksnae/glasschat/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gatedReplier struct {
	release chan struct{}
}

func (r *gatedReplier) Reply(ctx context.Context, prompt string) (string, error) {
	select {
	case <-r.release:
		return "**Sure.** Here is a plan for " + prompt, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func newTestSession(t *testing.T) (*internal.SessionController, *gatedReplier) {
	t.Helper()
	replier := &gatedReplier{release: make(chan struct{})}
	s, err := internal.New(internal.Options{
		Clock:       clock.Fake(time.Date(2026, 1, 1, 15, 0, 0, 0, time.UTC)),
		MessageIDs:  &internal.SequentialIDs{Prefix: "m"},
		Tagger:      &internal.SequentialTagger{},
		Replier:     replier,
		Breakpoints: internal.TerminalBreakpoints,
	})
	require.NoError(t, err)
	return s, replier
}

func newTestModel(t *testing.T, width int) (Model, *internal.SessionController, *gatedReplier) {
	t.Helper()
	s, replier := newTestSession(t)

	m := New(s, Options{})
	m = update(m, tea.WindowSizeMsg{Width: width, Height: 40})
	return m, s, replier
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func typeText(m Model, s string) Model {
	return update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestModel_WindowSizeDrivesPanels(t *testing.T) {
	m, s, _ := newTestModel(t, 150)
	assert.Equal(t, internal.Wide, s.Panels().State().ViewportClass)
	view := m.View()
	assert.Contains(t, view, "Rooms")
	assert.Contains(t, view, "AI Assistant")

	m = update(m, tea.WindowSizeMsg{Width: 50, Height: 30})
	assert.Equal(t, internal.Mobile, s.Panels().State().ViewportClass)
	view = m.View()
	assert.NotContains(t, view, "AI Assistant")
	assert.Contains(t, view, "General Chat")
}

func TestModel_SendMessage(t *testing.T) {
	m, s, _ := newTestModel(t, 120)

	m = typeText(m, "Mockups look great")
	m = update(m, key(tea.KeyEnter))

	msgs := s.Messages().List("1")
	require.Len(t, msgs, 5)
	assert.Equal(t, "Mockups look great", msgs[4].Content)
	assert.Equal(t, "tx_000001", msgs[4].ProvenanceID)
	assert.Empty(t, m.compose.Value())
	assert.Contains(t, m.View(), "Mockups look great")
}

func TestModel_CreateRoomCommand(t *testing.T) {
	m, s, _ := newTestModel(t, 120)

	m = typeText(m, "/new Research")
	m = update(m, key(tea.KeyEnter))

	active, ok := s.Rooms().Active()
	require.True(t, ok)
	assert.Equal(t, "Research", active.Name)
	assert.Contains(t, m.View(), "Created Research")
}

func TestModel_SelectRoomFromOverlay(t *testing.T) {
	m, s, _ := newTestModel(t, 50)

	m = update(m, key(tea.KeyCtrlB))
	require.True(t, s.Panels().State().SidebarOpen)
	assert.Equal(t, focusRooms, m.focus)

	m = typeText(m, "design")
	assert.Equal(t, "design", s.Snapshot().Search)
	m = update(m, key(tea.KeyEnter))

	assert.Equal(t, "3", s.Rooms().ActiveID())
	assert.False(t, s.Panels().State().SidebarOpen, "picking a room closes the overlay")
	assert.Equal(t, focusChat, m.focus)
}

func TestModel_AskAssistant(t *testing.T) {
	m, s, replier := newTestModel(t, 150)

	m = update(m, key(tea.KeyTab))
	m = update(m, key(tea.KeyTab))
	require.Equal(t, focusAssistant, m.focus)

	m = typeText(m, "sprint planning")
	m = update(m, key(tea.KeyEnter))
	assert.Equal(t, internal.StateAwaitingReply, s.Assistant().State())
	assert.Contains(t, m.View(), "Assistant is typing")

	turn := s.Assistant().Pending()
	require.NotNil(t, turn)
	close(replier.release)
	<-turn.Done()

	m = update(m, changedMsg{})
	assert.Equal(t, internal.StateIdle, s.Assistant().State())
	msgs := s.Assistant().Messages()
	require.Len(t, msgs, 5)
	assert.Equal(t, "**Sure.** Here is a plan for sprint planning", msgs[4].Content)
	assert.Contains(t, m.View(), "plan")
	assert.NotContains(t, m.View(), "Assistant is typing")
}

func TestModel_EscapeCancelsTurn(t *testing.T) {
	m, s, _ := newTestModel(t, 150)
	m = update(m, key(tea.KeyTab))
	m = update(m, key(tea.KeyTab))

	m = typeText(m, "hello")
	m = update(m, key(tea.KeyEnter))
	turn := s.Assistant().Pending()
	require.NotNil(t, turn)

	m = update(m, key(tea.KeyEsc))
	<-turn.Done()
	assert.Equal(t, internal.StateIdle, s.Assistant().State())
	assert.Equal(t, internal.OutcomeCancelled, s.Assistant().Outcome())
	assert.Len(t, s.Assistant().Messages(), 4)
	assert.Contains(t, m.View(), "Cancelled")
}

func TestModel_ClosingOverlayCancelsTurn(t *testing.T) {
	m, s, _ := newTestModel(t, 80)

	m = update(m, key(tea.KeyCtrlA))
	require.True(t, s.Panels().State().AssistantOpen)
	m = typeText(m, "question")
	m = update(m, key(tea.KeyEnter))
	turn := s.Assistant().Pending()
	require.NotNil(t, turn)

	m = update(m, key(tea.KeyCtrlA))
	<-turn.Done()
	assert.False(t, s.Panels().State().AssistantOpen)
	assert.Equal(t, internal.StateIdle, s.Assistant().State())
	assert.Equal(t, focusChat, m.focus)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hel…", truncate("hello", 4))
	assert.Equal(t, "", truncate("hello", 1))
}
