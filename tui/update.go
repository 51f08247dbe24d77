// ABOUTME: Event handling and state updates for the TUI
// ABOUTME: Implements the Bubble Tea Update() function and message handlers

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"radiodial/nav"
)

// Update handles messages and updates the model
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		viewportWidth := msg.Width - 2
		if viewportWidth < minViewportWidth {
			viewportWidth = minViewportWidth
		}

		viewportHeight := msg.Height - totalUIChrome
		if viewportHeight < minViewportHeight {
			viewportHeight = minViewportHeight
		}

		m.viewport.Width = viewportWidth
		m.viewport.Height = viewportHeight
		m.viewport.YOffset = 0

		m.ensureCursorVisible()
		m.updateViewportContent()

		return m, nil

	case tickMsg:
		// Reconcile playback state with the actual process, so a stream that
		// ended on its own clears the status bar.
		m.machine.SyncPlayback()

		return m, tick()

	case configChangedMsg:
		m.setStatusMsg("Settings file changed on disk, restart to apply")

		return m, waitForConfigChange(m.watcher, m.configPath)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey translates a key press into a navigation event. Unrecognized
// keys are ignored without state change.
func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.apply(nav.Quit)

	case key.Matches(msg, m.keys.Up):
		return m, m.apply(nav.MoveUp)

	case key.Matches(msg, m.keys.Down):
		return m, m.apply(nav.MoveDown)

	case key.Matches(msg, m.keys.PageUp):
		return m, m.apply(nav.PageUp)

	case key.Matches(msg, m.keys.PageDown):
		return m, m.apply(nav.PageDown)

	case key.Matches(msg, m.keys.Home):
		return m, m.apply(nav.Home)

	case key.Matches(msg, m.keys.End):
		return m, m.apply(nav.End)

	case key.Matches(msg, m.keys.Activate):
		return m, m.apply(nav.Activate)

	case key.Matches(msg, m.keys.Collapse):
		return m, m.apply(nav.Collapse)

	case key.Matches(msg, m.keys.Stop):
		return m, m.apply(nav.Stop)

	case key.Matches(msg, m.keys.Favorite):
		return m, m.apply(nav.ToggleFavorite)
	}

	return m, nil
}

// apply runs one transition and surfaces its outcome on the status bar.
// Transition failures never escape the event loop.
func (m *model) apply(ev nav.Event) tea.Cmd {
	result := m.machine.Apply(ev)

	switch {
	case result.Err != nil:
		m.debugf("[TUI] Transition failed: %v", result.Err)
		m.setStatusMsg(result.Err.Error())
	case result.Status != "":
		m.setStatusMsg(result.Status)
	}

	m.ensureCursorVisible()
	m.updateViewportContent()

	if result.Quit {
		m.quitting = true

		return tea.Quit
	}

	return nil
}
