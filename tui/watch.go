// ABOUTME: Settings file watcher surfacing a restart hint
// ABOUTME: Settings stay immutable for the session; changes only notify

package tui

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// configChangedMsg signals that the settings file was rewritten on disk.
type configChangedMsg struct{}

// newConfigWatcher watches the directory containing the settings file.
// Watching the directory instead of the file survives editors that replace
// the file by rename. Returns nil when watching is unavailable; the session
// simply runs without change notices.
func newConfigWatcher(path string, debugf func(string, ...interface{})) *fsnotify.Watcher {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		debugf("[TUI] Settings watch unavailable: %v", err)

		return nil
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		debugf("[TUI] Settings watch unavailable: %v", err)
		_ = watcher.Close()

		return nil
	}

	return watcher
}

// waitForConfigChange blocks until the settings file is written or created.
func waitForConfigChange(watcher *fsnotify.Watcher, path string) tea.Cmd {
	base := filepath.Base(path)

	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}

				if filepath.Base(ev.Name) == base && ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					return configChangedMsg{}
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}
