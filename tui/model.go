// ABOUTME: Terminal UI model and core state management
// ABOUTME: Bubble Tea model wiring the navigation machine to the screen

// Package tui provides the interactive terminal UI for browsing the radio
// directory and controlling playback.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"radiodial/config"
	"radiodial/nav"
)

// Layout constants for UI dimensions
const (
	titleHeight     = 2 // Title bar plus spacing
	statusBarHeight = 1 // Bottom status bar
	helpHeight      = 1 // Help text line
	totalUIChrome   = titleHeight + statusBarHeight + helpHeight

	// Minimum viewport dimensions to ensure usability
	minViewportWidth  = 20
	minViewportHeight = 5
)

const (
	tickInterval          = time.Second     // Playback status poll rate
	statusMessageDuration = 5 * time.Second // How long transient messages stay visible
)

// model holds the TUI state
type model struct {
	machine  *nav.Machine
	settings config.Settings
	keys     keyMap
	styles   styles
	debugf   func(string, ...interface{})

	watcher    *fsnotify.Watcher
	configPath string

	// UI state
	width        int
	height       int
	quitting     bool
	statusMsg    string    // Temporary status message (e.g., "Added to favorites")
	statusMsgAge time.Time // When the status message was set
	viewport     viewport.Model
}

// styles groups the lipgloss styles derived from the color settings.
type styles struct {
	title    lipgloss.Style
	cursor   lipgloss.Style
	status   lipgloss.Style
	help     lipgloss.Style
	favorite lipgloss.Style
}

func newStyles(c config.ColorSettings) styles {
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(c.Title)),
		cursor: lipgloss.NewStyle().
			Background(lipgloss.Color(c.SelectedBg)).
			Foreground(lipgloss.Color(c.Selected)),
		status: lipgloss.NewStyle().
			Background(lipgloss.Color(c.StatusBg)).
			Foreground(lipgloss.Color(c.Status)).
			Padding(0, 1),
		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Help)),
		favorite: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Favorite)),
	}
}

// Run starts the TUI over a prepared navigation machine.
func Run(machine *nav.Machine, settings config.Settings, configPath string, debugf func(string, ...interface{})) error {
	watcher := newConfigWatcher(configPath, debugf)
	if watcher != nil {
		defer func() {
			_ = watcher.Close()
		}()
	}

	m := initModel(machine, settings, configPath, watcher, debugf)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// initModel creates the initial model with injected dependencies
func initModel(machine *nav.Machine, settings config.Settings, configPath string, watcher *fsnotify.Watcher, debugf func(string, ...interface{})) model {
	return model{
		machine:    machine,
		settings:   settings,
		keys:       newKeyMap(settings.Keys),
		styles:     newStyles(settings.Colors),
		debugf:     debugf,
		watcher:    watcher,
		configPath: configPath,
		viewport:   viewport.New(0, 0), // Width and height set on first WindowSizeMsg
	}
}

// Init initializes the model
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}
	if m.watcher != nil {
		cmds = append(cmds, waitForConfigChange(m.watcher, m.configPath))
	}

	return tea.Batch(cmds...)
}

// setStatusMsg sets a transient status message with current timestamp
func (m *model) setStatusMsg(msg string) {
	m.statusMsg = msg
	m.statusMsgAge = time.Now()
}

// ensureCursorVisible adjusts the viewport offset to keep the cursor on
// screen with vim/less style middle scrolling.
func (m *model) ensureCursorVisible() {
	s := scroller{
		height: m.viewport.Height,
		cursor: m.machine.Cursor(),
		total:  len(m.machine.Rows()),
	}
	m.viewport.SetYOffset(s.offset())
}

// tickMsg drives the periodic playback status refresh.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
