package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/glasschat/internal"
)

const (
	sidebarWidth   = 30
	assistantWidth = 44
	chromeHeight   = 2 // header and footer
	inputHeight    = 1
)

// layout sizes the viewports and refreshes their content from a snapshot
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	snap := m.session.Snapshot()
	bodyHeight := max(m.height-chromeHeight, 3)

	chatWidth := m.width
	if snap.Panels.SidebarInline() {
		chatWidth -= sidebarWidth
	}
	if snap.Panels.AssistantInline() {
		chatWidth -= assistantWidth
	}
	if snap.Panels.SidebarOpen || snap.Panels.AssistantOpen {
		chatWidth = m.width
	}
	chatWidth = max(chatWidth, 10)

	m.messages.Width = chatWidth
	m.messages.Height = max(bodyHeight-inputHeight, 1)
	m.messages.SetContent(m.renderMessages(snap, chatWidth))
	m.compose.Width = max(chatWidth-4, 1)

	threadWidth := assistantWidth - 2
	if snap.Panels.AssistantOpen {
		threadWidth = m.width - 2
	}
	m.thread.Width = threadWidth
	m.thread.Height = max(bodyHeight-inputHeight-3, 1)
	m.thread.SetContent(m.renderThread(snap, threadWidth))
	m.thread.GotoBottom()
	m.ask.Width = max(threadWidth-4, 1)
}

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Loading…"
	}
	snap := m.session.Snapshot()
	bodyHeight := max(m.height-chromeHeight, 3)

	var body string
	switch {
	case snap.Panels.SidebarOpen && (m.focus == focusRooms || !snap.Panels.AssistantOpen):
		body = m.viewSidebar(snap, m.width, bodyHeight)
	case snap.Panels.AssistantOpen:
		body = m.viewAssistant(snap, m.width, bodyHeight)
	default:
		var cols []string
		if snap.Panels.SidebarInline() {
			cols = append(cols, m.viewSidebar(snap, sidebarWidth, bodyHeight))
		}
		cols = append(cols, m.viewChat())
		if snap.Panels.AssistantInline() {
			cols = append(cols, m.viewAssistant(snap, assistantWidth, bodyHeight))
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.viewHeader(snap), body, m.viewFooter(snap))
}

func (m Model) viewHeader(snap internal.Snapshot) string {
	title := "GlassChat"
	if snap.HasActiveRoom {
		title = fmt.Sprintf("GlassChat · %s %s", snap.ActiveRoom.Icon, snap.ActiveRoom.Name)
	}
	header := m.theme.header.Render(title)

	var status string
	switch {
	case m.err != nil:
		status = m.theme.errorStatus.Render(" " + m.err.Error())
	case m.status != "":
		status = m.theme.status.Render(" " + m.status)
	}
	return header + status
}

func (m Model) viewFooter(snap internal.Snapshot) string {
	help := []string{"tab focus", "ctrl+b rooms", "ctrl+a assistant", "esc close", "ctrl+c quit"}
	return m.theme.footer.Render(fmt.Sprintf("%s · %s", snap.Panels.ViewportClass, strings.Join(help, " · ")))
}

func (m Model) viewChat() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.messages.View(), m.compose.View())
}

func (m Model) viewSidebar(snap internal.Snapshot, width, height int) string {
	style := m.theme.panel
	if m.focus == focusRooms {
		style = m.theme.panelFocus
	}
	inner := max(width-2, 4)

	lines := []string{m.theme.panelTitle.Render("Rooms"), m.search.View(), ""}
	for i, room := range snap.Rooms {
		lines = append(lines, m.renderRoom(room, i == m.cursor && m.focus == focusRooms, snap.ActiveRoom.ID == room.ID, inner))
	}
	if len(snap.Rooms) == 0 {
		lines = append(lines, m.theme.preview.Render("No rooms match"))
	}
	return style.Width(inner).Height(max(height-2, 1)).Render(strings.Join(lines, "\n"))
}

func (m Model) renderRoom(room internal.Room, cursor, active bool, width int) string {
	marker := "  "
	if cursor {
		marker = m.theme.roomCursor.Render("› ")
	}
	name := room.Icon + " " + room.Name
	style := m.theme.room
	if active {
		style = m.theme.roomActive
	}
	line := marker + style.Render(name)
	if room.UnreadCount > 0 {
		line += " " + m.theme.unread.Render(fmt.Sprint(room.UnreadCount))
	}
	preview := truncate(room.LastMessagePreview, width-4)
	if room.LastActivityLabel != "" {
		preview = truncate(room.LastActivityLabel+" · "+room.LastMessagePreview, width-4)
	}
	return line + "\n    " + m.theme.preview.Render(preview)
}

func (m Model) renderMessages(snap internal.Snapshot, width int) string {
	if !snap.HasActiveRoom {
		return m.theme.meta.Render("Select a room to start chatting")
	}
	if len(snap.Messages) == 0 {
		return m.theme.meta.Render("No messages yet. Say hello!")
	}

	var b strings.Builder
	for _, msg := range snap.Messages {
		label := msg.CreatedAt.Format("3:04 PM")
		if msg.Direction == internal.Sent {
			head := m.theme.self.Render(msg.Sender) + " " + m.theme.meta.Render(label)
			b.WriteString(m.theme.bubbleOut.Width(width).Render(head + "\n" + msg.Content))
		} else {
			head := m.theme.sender.Render(msg.Sender) + " " + m.theme.meta.Render(label)
			b.WriteString(m.theme.bubbleIn.Width(width).Render(head + "\n" + msg.Content))
		}
		b.WriteString("\n")
		if msg.ProvenanceID != "" {
			tag := m.theme.meta.Render("tx " + truncate(msg.ProvenanceID, 18))
			if msg.Direction == internal.Sent {
				tag = lipgloss.PlaceHorizontal(width, lipgloss.Right, tag)
			}
			b.WriteString(tag + "\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewAssistant(snap internal.Snapshot, width, height int) string {
	style := m.theme.panel
	if m.focus == focusAssistant {
		style = m.theme.panelFocus
	}
	inner := max(width-2, 4)

	typing := ""
	if snap.AssistantState == internal.StateAwaitingReply {
		typing = m.spinner.View() + " " + m.theme.meta.Render("Assistant is typing…")
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.panelTitle.Render("✦ AI Assistant"),
		m.thread.View(),
		typing,
		m.ask.View(),
	)
	return style.Width(inner).Height(max(height-2, 1)).Render(content)
}

func (m *Model) renderThread(snap internal.Snapshot, width int) string {
	var b strings.Builder
	for _, msg := range snap.Assistant {
		switch {
		case msg.Role == internal.RoleUser:
			b.WriteString(m.theme.self.Render("You") + "\n")
			b.WriteString(lipgloss.NewStyle().Width(width).Render(msg.Content))
		case msg.Failed:
			b.WriteString(m.theme.sender.Render("Assistant") + "\n")
			b.WriteString(m.theme.failed.Width(width).Render(msg.Content))
		default:
			b.WriteString(m.theme.sender.Render("Assistant") + "\n")
			b.WriteString(m.markdown(msg.Content, width))
		}
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, n int) string {
	if n <= 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
