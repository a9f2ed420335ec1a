// Package tui is the full-screen front end: a bubbletea program whose model
// mirrors the frontend's UI callbacks and turns key presses into frontend
// events.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run drives front until the user quits or ctx is done. The bridge must be
// the UI front renders into; it is closed on return.
func Run(ctx context.Context, front Frontend, bridge *Bridge, opts ...tea.ProgramOption) error {
	defer bridge.Close()

	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(New(ctx, front, bridge), opts...)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
