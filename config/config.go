// ABOUTME: Settings management for key bindings, colors and display text
// ABOUTME: Handles loading/saving TOML settings with per-key defaults

// Package config loads the session settings. Missing or invalid entries fall
// back to built-in defaults key by key, never as a whole-file failure.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

const (
	localFile = "radiodial.toml"
	xdgConfig = "radiodial/config.toml"
	xdgData   = "radiodial/favorites.db"
)

// Settings holds everything the session reads from the settings file.
// Loaded once at startup and immutable for the session.
type Settings struct {
	RootURL string          `toml:"root_url"`
	Player  PlayerSettings  `toml:"player"`
	Keys    KeySettings     `toml:"keys"`
	Colors  ColorSettings   `toml:"colors"`
	Display DisplaySettings `toml:"display"`
}

// PlayerSettings selects the external player command.
type PlayerSettings struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// KeySettings maps actions to key names understood by the terminal layer.
type KeySettings struct {
	Up       []string `toml:"up"`
	Down     []string `toml:"down"`
	PageUp   []string `toml:"page_up"`
	PageDown []string `toml:"page_down"`
	Home     []string `toml:"home"`
	End      []string `toml:"end"`
	Activate []string `toml:"activate"`
	Collapse []string `toml:"collapse"`
	Stop     []string `toml:"stop"`
	Favorite []string `toml:"favorite"`
	Quit     []string `toml:"quit"`
}

// ColorSettings maps display roles to terminal color values.
type ColorSettings struct {
	Title      string `toml:"title"`
	Selected   string `toml:"selected"`
	SelectedBg string `toml:"selected_bg"`
	StatusBg   string `toml:"status_bg"`
	Status     string `toml:"status"`
	Help       string `toml:"help"`
	Favorite   string `toml:"favorite"`
}

// DisplaySettings holds the fixed display strings.
type DisplaySettings struct {
	Title           string `toml:"title"`
	ClosedDelimiter string `toml:"closed_delimiter"`
	OpenedDelimiter string `toml:"opened_delimiter"`
	StatusFormat    string `toml:"status_format"`
}

// DefaultSettings returns the built-in settings, matching the classic
// curses-radio key layout with vi alternatives.
func DefaultSettings() Settings {
	return Settings{
		RootURL: "http://opml.radiotime.com/",
		Player: PlayerSettings{
			Command: "mpv",
		},
		Keys: KeySettings{
			Up:       []string{"up", "k"},
			Down:     []string{"down", "j"},
			PageUp:   []string{"pgup", "u"},
			PageDown: []string{"pgdown", "d"},
			Home:     []string{"home", "g"},
			End:      []string{"end", "G"},
			Activate: []string{"enter"},
			Collapse: []string{"left", "h"},
			Stop:     []string{"s"},
			Favorite: []string{"f"},
			Quit:     []string{"q", "ctrl+c"},
		},
		Colors: ColorSettings{
			Title:      "12",
			Selected:   "15",
			SelectedBg: "240",
			StatusBg:   "236",
			Status:     "15",
			Help:       "241",
			Favorite:   "11",
		},
		Display: DisplaySettings{
			Title:           "radiodial",
			ClosedDelimiter: "▸",
			OpenedDelimiter: "▾",
			StatusFormat:    "Playing: %s",
		},
	}
}

// Load loads settings from a TOML file. A missing file yields defaults
// without error; a broken file yields defaults plus the parse error; a
// readable file is merged over the defaults entry by entry.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}

		return DefaultSettings(), fmt.Errorf("failed to read settings file: %w", err)
	}

	var s Settings
	if err := toml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse settings file: %w", err)
	}

	return withDefaults(s), nil
}

// Save writes settings to a TOML file, creating the directory if needed.
func Save(path string, s Settings) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create settings file: %w", err)
	}

	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close settings file: %v\n", err)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}

// Path returns the settings file location: ./radiodial.toml when present,
// otherwise the XDG config path.
func Path() string {
	if _, err := os.Stat("./" + localFile); err == nil {
		return "./" + localFile
	}

	if p, err := xdg.SearchConfigFile(xdgConfig); err == nil {
		return p
	}

	if p, err := xdg.ConfigFile(xdgConfig); err == nil {
		return p
	}

	return "./" + localFile
}

// FavoritesPath returns the favorites database location under the XDG data
// directory, falling back to the working directory.
func FavoritesPath() string {
	if p, err := xdg.DataFile(xdgData); err == nil {
		return p
	}

	return "./favorites.db"
}

// withDefaults fills every empty entry from the defaults, so a sparse
// settings file only overrides what it names.
func withDefaults(s Settings) Settings {
	def := DefaultSettings()

	if s.RootURL == "" {
		s.RootURL = def.RootURL
	}

	if s.Player.Command == "" {
		s.Player.Command = def.Player.Command
	}

	fillKeys(&s.Keys, def.Keys)
	fillColors(&s.Colors, def.Colors)
	fillDisplay(&s.Display, def.Display)

	return s
}

func fillKeys(k *KeySettings, def KeySettings) {
	fill := func(dst *[]string, d []string) {
		if len(*dst) == 0 {
			*dst = d
		}
	}

	fill(&k.Up, def.Up)
	fill(&k.Down, def.Down)
	fill(&k.PageUp, def.PageUp)
	fill(&k.PageDown, def.PageDown)
	fill(&k.Home, def.Home)
	fill(&k.End, def.End)
	fill(&k.Activate, def.Activate)
	fill(&k.Collapse, def.Collapse)
	fill(&k.Stop, def.Stop)
	fill(&k.Favorite, def.Favorite)
	fill(&k.Quit, def.Quit)
}

func fillColors(c *ColorSettings, def ColorSettings) {
	fill := func(dst *string, d string) {
		if *dst == "" {
			*dst = d
		}
	}

	fill(&c.Title, def.Title)
	fill(&c.Selected, def.Selected)
	fill(&c.SelectedBg, def.SelectedBg)
	fill(&c.StatusBg, def.StatusBg)
	fill(&c.Status, def.Status)
	fill(&c.Help, def.Help)
	fill(&c.Favorite, def.Favorite)
}

func fillDisplay(d *DisplaySettings, def DisplaySettings) {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}

	fill(&d.Title, def.Title)
	fill(&d.ClosedDelimiter, def.ClosedDelimiter)
	fill(&d.OpenedDelimiter, def.OpenedDelimiter)
	fill(&d.StatusFormat, def.StatusFormat)
}
