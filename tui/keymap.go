// ABOUTME: Key bindings derived from the settings key map
// ABOUTME: Maps configured key names onto bubbles key.Binding values

package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"radiodial/config"
)

// keyMap holds one binding per navigation action.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Activate key.Binding
	Collapse key.Binding
	Stop     key.Binding
	Favorite key.Binding
	Quit     key.Binding
}

// newKeyMap builds bindings from the configured key lists. The first key of
// each list names the binding in the help line.
func newKeyMap(k config.KeySettings) keyMap {
	return keyMap{
		Up:       bind(k.Up, "up"),
		Down:     bind(k.Down, "down"),
		PageUp:   bind(k.PageUp, "prev folder"),
		PageDown: bind(k.PageDown, "next folder"),
		Home:     bind(k.Home, "top"),
		End:      bind(k.End, "bottom"),
		Activate: bind(k.Activate, "open/play"),
		Collapse: bind(k.Collapse, "collapse"),
		Stop:     bind(k.Stop, "stop"),
		Favorite: bind(k.Favorite, "favorite"),
		Quit:     bind(k.Quit, "quit"),
	}
}

func bind(keyNames []string, help string) key.Binding {
	label := ""
	if len(keyNames) > 0 {
		label = keyNames[0]
	}

	return key.NewBinding(
		key.WithKeys(keyNames...),
		key.WithHelp(label, help),
	)
}
