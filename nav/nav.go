// ABOUTME: Navigation state machine over the directory tree
// ABOUTME: Owns cursor, visible rows, expand/collapse and playback state

// Package nav implements the navigation and selection state machine backing
// the terminal UI. It performs no I/O of its own: playback and favorite
// persistence go through injected collaborators, and every transition is an
// in-memory operation that leaves the machine in a consistent state even
// when a collaborator fails.
package nav

import (
	"radiodial/opml"
)

// Event is a discrete input event driving one state transition.
type Event int

// Input events recognized by the state machine.
const (
	MoveUp Event = iota
	MoveDown
	PageUp
	PageDown
	Home
	End
	Activate
	Collapse
	Stop
	ToggleFavorite
	Quit
)

// Row is one visible line of the tree: a node and its indentation depth.
// Top-level nodes have depth 0; the root folder itself is never shown.
type Row struct {
	Node  opml.Node
	Depth int
}

// Handle identifies a running player process.
type Handle interface {
	Alive() bool
}

// Player starts and stops the external media player process.
type Player interface {
	Start(url string) (Handle, error)
	Stop(Handle) error
}

// FavoriteStore persists favorite flags across sessions, keyed by stream URL.
type FavoriteStore interface {
	Set(name, url string) error
	Remove(url string) error
}

// Expander loads the children of a link folder on first expansion.
type Expander interface {
	Expand(*opml.Folder) error
}

// Result reports the outcome of a transition to the caller. Err carries
// playback or load failures to be shown as a transient status message;
// navigation state is always left consistent regardless.
type Result struct {
	Status string
	Err    error
	Quit   bool
}

// Machine holds all per-session view state over the static tree.
type Machine struct {
	root   *opml.Folder
	rows   []Row
	cursor int

	playing *opml.Stream
	handle  Handle

	player   Player
	favs     FavoriteStore
	expander Expander
	debugf   func(string, ...interface{})
}

// NewMachine builds a machine over root. The root folder is forced expanded
// so its children form the initial visible rows.
func NewMachine(root *opml.Folder, player Player, favs FavoriteStore, expander Expander, debugf func(string, ...interface{})) *Machine {
	root.Expanded = true

	m := &Machine{
		root:     root,
		player:   player,
		favs:     favs,
		expander: expander,
		debugf:   debugf,
	}
	m.rows = flatten(nil, root, 0)

	return m
}

// Apply runs one transition. Unknown events are ignored without state change.
func (m *Machine) Apply(ev Event) Result {
	switch ev {
	case MoveUp:
		m.moveTo(m.cursor - 1)
	case MoveDown:
		m.moveTo(m.cursor + 1)
	case PageUp:
		m.pageJump(-1)
	case PageDown:
		m.pageJump(1)
	case Home:
		m.moveTo(0)
	case End:
		m.moveTo(len(m.rows) - 1)
	case Activate:
		return m.activate()
	case Collapse:
		m.collapseEnclosing()
	case Stop:
		return m.stop()
	case ToggleFavorite:
		return m.toggleFavorite()
	case Quit:
		return m.quit()
	}

	return Result{}
}

// Rows returns the currently visible rows in depth-first document order.
func (m *Machine) Rows() []Row {
	return m.rows
}

// Cursor returns the index of the selected row.
func (m *Machine) Cursor() int {
	return m.cursor
}

// Selected returns the node under the cursor, or nil when the tree is empty.
func (m *Machine) Selected() opml.Node {
	if len(m.rows) == 0 {
		return nil
	}

	return m.rows[m.cursor].Node
}

// NowPlaying returns the stream being played, or nil when idle.
func (m *Machine) NowPlaying() *opml.Stream {
	return m.playing
}

// SyncPlayback reconciles playback state with the actual process status.
// Returns true when a player that exited on its own was cleared. Called from
// the periodic UI tick.
func (m *Machine) SyncPlayback() bool {
	if m.playing == nil || m.handle == nil || m.handle.Alive() {
		return false
	}

	m.debugf("[NAV] Player exited on its own, back to idle")
	m.playing = nil
	m.handle = nil

	return true
}

// moveTo clamps target into the valid row range. No wraparound.
func (m *Machine) moveTo(target int) {
	if len(m.rows) == 0 {
		m.cursor = 0

		return
	}

	if target < 0 {
		target = 0
	}

	if target > len(m.rows)-1 {
		target = len(m.rows) - 1
	}

	m.cursor = target
}

// pageJump moves the cursor to the next or previous top-level folder
// boundary in the visible rows, clamping to the ends when no boundary
// remains in that direction.
func (m *Machine) pageJump(dir int) {
	if dir > 0 {
		for i := m.cursor + 1; i < len(m.rows); i++ {
			if isTopLevelFolder(m.rows[i]) {
				m.cursor = i

				return
			}
		}
		m.moveTo(len(m.rows) - 1)

		return
	}

	for i := m.cursor - 1; i >= 0; i-- {
		if isTopLevelFolder(m.rows[i]) {
			m.cursor = i

			return
		}
	}
	m.moveTo(0)
}

func isTopLevelFolder(r Row) bool {
	if r.Depth != 0 {
		return false
	}

	_, ok := r.Node.(*opml.Folder)

	return ok
}

// activate handles Enter on the selected node: folders toggle expansion,
// streams start playback.
func (m *Machine) activate() Result {
	switch n := m.Selected().(type) {
	case *opml.Folder:
		return m.toggleFolder(n)
	case *opml.Stream:
		return m.play(n)
	default:
		return Result{}
	}
}

func (m *Machine) toggleFolder(f *opml.Folder) Result {
	if f.Expanded {
		m.collapseFolder(f)

		return Result{}
	}

	if !f.Loaded && m.expander != nil {
		if err := m.expander.Expand(f); err != nil {
			// Folder stays collapsed; the session continues.
			return Result{Err: &LoadError{Err: err}}
		}
		f.Loaded = true
	}

	f.Expanded = true
	m.refreshKeeping(f)

	return Result{}
}

// collapseEnclosing collapses the folder containing the cursor: the selected
// folder itself when it is expanded, otherwise the nearest expanded ancestor.
func (m *Machine) collapseEnclosing() {
	sel := m.Selected()
	if sel == nil {
		return
	}

	if f, ok := sel.(*opml.Folder); ok && f.Expanded {
		m.collapseFolder(f)

		return
	}

	if parent := m.visibleParent(m.cursor); parent != nil {
		m.collapseFolder(parent)
	}
}

// visibleParent finds the closest row above idx with a smaller depth, which
// by depth-first ordering is the selected node's parent folder.
func (m *Machine) visibleParent(idx int) *opml.Folder {
	depth := m.rows[idx].Depth
	for i := idx - 1; i >= 0; i-- {
		if m.rows[i].Depth < depth {
			if f, ok := m.rows[i].Node.(*opml.Folder); ok {
				return f
			}
		}
	}

	return nil
}

// collapseFolder collapses f and re-clamps the cursor: the previously
// selected node keeps the cursor if still visible, otherwise the cursor
// lands on f, its nearest still-visible ancestor.
func (m *Machine) collapseFolder(f *opml.Folder) {
	sel := m.Selected()
	f.Expanded = false
	m.rows = flatten(nil, m.root, 0)

	if idx := m.indexOf(sel); idx >= 0 {
		m.cursor = idx

		return
	}

	if idx := m.indexOf(f); idx >= 0 {
		m.cursor = idx

		return
	}

	m.moveTo(m.cursor)
}

// refreshKeeping recomputes the rows after a visibility change, keeping the
// cursor on the given node.
func (m *Machine) refreshKeeping(n opml.Node) {
	m.rows = flatten(nil, m.root, 0)
	if idx := m.indexOf(n); idx >= 0 {
		m.cursor = idx

		return
	}

	m.moveTo(m.cursor)
}

func (m *Machine) indexOf(n opml.Node) int {
	for i, r := range m.rows {
		if r.Node == n {
			return i
		}
	}

	return -1
}

// play starts the selected stream, stopping any current playback first.
// A start failure keeps the machine idle.
func (m *Machine) play(s *opml.Stream) Result {
	if m.playing != nil {
		if err := m.player.Stop(m.handle); err != nil {
			m.debugf("[NAV] Stop before restart failed: %v", err)
		}
		m.playing = nil
		m.handle = nil
	}

	h, err := m.player.Start(s.URL)
	if err != nil {
		return Result{Err: &PlaybackError{Err: err}}
	}

	m.playing = s
	m.handle = h

	return Result{}
}

// stop terminates playback. State goes idle even when termination fails, so
// playback state matches the best-known process status.
func (m *Machine) stop() Result {
	if m.playing == nil {
		return Result{}
	}

	err := m.player.Stop(m.handle)
	m.playing = nil
	m.handle = nil

	if err != nil {
		return Result{Err: &PlaybackError{Err: err}}
	}

	return Result{Status: "Playback stopped"}
}

// toggleFavorite flips the flag on the selected stream and requests
// persistence. The in-memory flag stands even when persistence fails.
func (m *Machine) toggleFavorite() Result {
	s, ok := m.Selected().(*opml.Stream)
	if !ok {
		return Result{}
	}

	s.Favorite = !s.Favorite

	if m.favs != nil {
		var err error
		if s.Favorite {
			err = m.favs.Set(s.Text, s.URL)
		} else {
			err = m.favs.Remove(s.URL)
		}

		if err != nil {
			return Result{Err: &LoadError{Err: err}}
		}
	}

	if s.Favorite {
		return Result{Status: "Added to favorites: " + s.Text}
	}

	return Result{Status: "Removed from favorites: " + s.Text}
}

// quit stops any running playback and ends the session regardless of
// whether the stop succeeded.
func (m *Machine) quit() Result {
	if m.playing != nil {
		if err := m.player.Stop(m.handle); err != nil {
			m.debugf("[NAV] Stop on quit failed: %v", err)
		}
		m.playing = nil
		m.handle = nil
	}

	return Result{Quit: true}
}

// flatten appends the visible rows under f in depth-first document order.
// A node is visible iff all its ancestors are expanded.
func flatten(rows []Row, f *opml.Folder, depth int) []Row {
	for _, child := range f.Children {
		rows = append(rows, Row{Node: child, Depth: depth})
		if sub, ok := child.(*opml.Folder); ok && sub.Expanded {
			rows = flatten(rows, sub, depth+1)
		}
	}

	return rows
}
