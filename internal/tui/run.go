package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/iksnae/glasschat/internal"
)

// Run starts the full-screen UI and blocks until the user quits. The
// session's change notifier is pointed at the program so replies that
// arrive in the background trigger a redraw.
func Run(ctx context.Context, session *internal.SessionController, opts Options) error {
	p := newProgram(ctx, session, opts, tea.WithAltScreen())
	defer session.SetOnChange(nil)

	_, err := p.Run()
	return err
}

// newProgram builds the program and wires the session's change notifier.
// Submit and Cancel notify from inside Update, so Send must not block.
func newProgram(ctx context.Context, session *internal.SessionController, opts Options, extra ...tea.ProgramOption) *tea.Program {
	opts.Context = ctx
	progOpts := append([]tea.ProgramOption{tea.WithContext(ctx)}, extra...)
	p := tea.NewProgram(New(session, opts), progOpts...)

	session.SetOnChange(func() { go p.Send(changedMsg{}) })
	return p
}
