// ABOUTME: Unit tests for the navigation state machine
// ABOUTME: Uses fake player, store and expander collaborators

package nav

import (
	"errors"
	"testing"

	"radiodial/opml"
)

type fakeHandle struct {
	alive bool
}

func (h *fakeHandle) Alive() bool { return h.alive }

type fakePlayer struct {
	startErr  error
	stopErr   error
	started   []string
	stopCalls int
	handle    *fakeHandle
}

func (p *fakePlayer) Start(url string) (Handle, error) {
	if p.startErr != nil {
		return nil, p.startErr
	}

	p.started = append(p.started, url)
	p.handle = &fakeHandle{alive: true}

	return p.handle, nil
}

func (p *fakePlayer) Stop(Handle) error {
	p.stopCalls++
	if p.handle != nil {
		p.handle.alive = false
	}

	return p.stopErr
}

type fakeStore struct {
	setErr    error
	removeErr error
	set       []string
	removed   []string
}

func (s *fakeStore) Set(name, url string) error {
	s.set = append(s.set, url)

	return s.setErr
}

func (s *fakeStore) Remove(url string) error {
	s.removed = append(s.removed, url)

	return s.removeErr
}

type fakeExpander struct {
	err      error
	children []opml.Node
	calls    int
}

func (e *fakeExpander) Expand(f *opml.Folder) error {
	e.calls++
	if e.err != nil {
		return e.err
	}

	f.Children = e.children

	return nil
}

func noopDebugf(string, ...interface{}) {}

// testTree builds Root[FolderA[Stream1, Stream2], Stream3].
func testTree() (*opml.Folder, *opml.Folder, *opml.Stream, *opml.Stream, *opml.Stream) {
	s1 := &opml.Stream{Text: "Stream1", URL: "http://one"}
	s2 := &opml.Stream{Text: "Stream2", URL: "http://two"}
	s3 := &opml.Stream{Text: "Stream3", URL: "http://three"}
	folderA := &opml.Folder{Text: "FolderA", Children: []opml.Node{s1, s2}, Loaded: true}
	root := &opml.Folder{Text: "Root", Children: []opml.Node{folderA, s3}, Loaded: true}

	return root, folderA, s1, s2, s3
}

func newTestMachine(t *testing.T) (*Machine, *fakePlayer, *fakeStore, *opml.Folder) {
	t.Helper()

	root, folderA, _, _, _ := testTree()
	player := &fakePlayer{}
	store := &fakeStore{}
	m := NewMachine(root, player, store, &fakeExpander{}, noopDebugf)

	return m, player, store, folderA
}

func TestInitialRows(t *testing.T) {
	m, _, _, _ := newTestMachine(t)

	rows := m.Rows()
	if len(rows) != 2 {
		t.Fatalf("Expected 2 initial rows, got %d", len(rows))
	}

	if rows[0].Node.Name() != "FolderA" || rows[0].Depth != 0 {
		t.Errorf("Expected FolderA at depth 0, got %s at depth %d", rows[0].Node.Name(), rows[0].Depth)
	}

	if m.Cursor() != 0 {
		t.Errorf("Expected cursor at 0, got %d", m.Cursor())
	}
}

func TestMoveClampsAtEdges(t *testing.T) {
	m, _, _, _ := newTestMachine(t)

	m.Apply(MoveUp)
	if m.Cursor() != 0 {
		t.Errorf("Expected cursor to stay at 0 after MoveUp at top, got %d", m.Cursor())
	}

	m.Apply(MoveDown)
	m.Apply(MoveDown)
	m.Apply(MoveDown)
	if m.Cursor() != 1 {
		t.Errorf("Expected cursor clamped to last row 1, got %d", m.Cursor())
	}
}

func TestHomeAndEnd(t *testing.T) {
	m, _, _, _ := newTestMachine(t)

	m.Apply(End)
	if m.Cursor() != len(m.Rows())-1 {
		t.Errorf("Expected End to select last row, got %d", m.Cursor())
	}

	m.Apply(Home)
	if m.Cursor() != 0 {
		t.Errorf("Expected Home to select first row, got %d", m.Cursor())
	}
}

func TestExpandFolderKeepsCursor(t *testing.T) {
	m, _, _, _ := newTestMachine(t)

	res := m.Apply(Activate)
	if res.Err != nil {
		t.Fatalf("Unexpected error expanding folder: %v", res.Err)
	}

	rows := m.Rows()
	want := []struct {
		name  string
		depth int
	}{
		{"FolderA", 0},
		{"Stream1", 1},
		{"Stream2", 1},
		{"Stream3", 0},
	}

	if len(rows) != len(want) {
		t.Fatalf("Expected %d rows after expand, got %d", len(want), len(rows))
	}

	for i, w := range want {
		if rows[i].Node.Name() != w.name || rows[i].Depth != w.depth {
			t.Errorf("Row %d: expected %s depth %d, got %s depth %d",
				i, w.name, w.depth, rows[i].Node.Name(), rows[i].Depth)
		}
	}

	if m.Cursor() != 0 {
		t.Errorf("Expected cursor to stay on FolderA, got %d", m.Cursor())
	}
}

func TestExpandCollapseRoundTrip(t *testing.T) {
	m, _, _, _ := newTestMachine(t)

	m.Apply(Activate)
	m.Apply(Activate)

	rows := m.Rows()
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows after round trip, got %d", len(rows))
	}

	if m.Cursor() != 0 {
		t.Errorf("Expected cursor back on FolderA, got %d", m.Cursor())
	}
}

func TestCollapseReclampsCursorToFolder(t *testing.T) {
	m, _, _, _ := newTestMachine(t)

	m.Apply(Activate) // expand FolderA
	m.Apply(MoveDown) // Stream1
	m.Apply(MoveDown) // Stream2

	m.Apply(Collapse)

	if m.Cursor() != 0 {
		t.Errorf("Expected cursor re-clamped to FolderA at 0, got %d", m.Cursor())
	}

	if f, ok := m.Selected().(*opml.Folder); !ok || f.Expanded {
		t.Errorf("Expected selected node to be the collapsed FolderA")
	}
}

func TestCollapseOnExpandedFolderCollapsesIt(t *testing.T) {
	m, _, _, folderA := newTestMachine(t)

	m.Apply(Activate)
	m.Apply(Collapse)

	if folderA.Expanded {
		t.Errorf("Expected FolderA collapsed")
	}

	if len(m.Rows()) != 2 {
		t.Errorf("Expected 2 rows after collapse, got %d", len(m.Rows()))
	}
}

func TestCollapseOutsideAnyFolderIsNoop(t *testing.T) {
	m, _, _, _ := newTestMachine(t)

	m.Apply(End) // Stream3 at top level
	m.Apply(Collapse)

	if m.Cursor() != 1 {
		t.Errorf("Expected cursor unchanged at 1, got %d", m.Cursor())
	}
}

func TestLazyExpandFetchesOnce(t *testing.T) {
	child := &opml.Stream{Text: "Lazy1", URL: "http://lazy"}
	link := &opml.Folder{Text: "Link", URL: "http://link"}
	root := &opml.Folder{Text: "Root", Children: []opml.Node{link}, Loaded: true}
	expander := &fakeExpander{children: []opml.Node{child}}
	m := NewMachine(root, &fakePlayer{}, &fakeStore{}, expander, noopDebugf)

	m.Apply(Activate)
	if expander.calls != 1 {
		t.Errorf("Expected 1 expand call, got %d", expander.calls)
	}

	if len(m.Rows()) != 2 {
		t.Fatalf("Expected link folder plus child, got %d rows", len(m.Rows()))
	}

	m.Apply(Activate)
	m.Apply(Activate)
	if expander.calls != 1 {
		t.Errorf("Expected children cached after first expand, got %d calls", expander.calls)
	}
}

func TestLazyExpandFailureStaysCollapsed(t *testing.T) {
	link := &opml.Folder{Text: "Link", URL: "http://link"}
	root := &opml.Folder{Text: "Root", Children: []opml.Node{link}, Loaded: true}
	expander := &fakeExpander{err: errors.New("network down")}
	m := NewMachine(root, &fakePlayer{}, &fakeStore{}, expander, noopDebugf)

	res := m.Apply(Activate)

	var loadErr *LoadError
	if !errors.As(res.Err, &loadErr) {
		t.Fatalf("Expected LoadError, got %v", res.Err)
	}

	if link.Expanded || link.Loaded {
		t.Errorf("Expected link folder to stay collapsed and unloaded")
	}

	if len(m.Rows()) != 1 {
		t.Errorf("Expected rows unchanged, got %d", len(m.Rows()))
	}
}

func TestActivateStreamStartsPlayback(t *testing.T) {
	m, player, _, _ := newTestMachine(t)

	m.Apply(End)
	res := m.Apply(Activate)

	if res.Err != nil {
		t.Fatalf("Unexpected playback error: %v", res.Err)
	}

	if len(player.started) != 1 || player.started[0] != "http://three" {
		t.Errorf("Expected player started with http://three, got %v", player.started)
	}

	if m.NowPlaying() == nil || m.NowPlaying().Text != "Stream3" {
		t.Errorf("Expected Stream3 playing")
	}
}

func TestActivateSecondStreamStopsFirst(t *testing.T) {
	m, player, _, _ := newTestMachine(t)

	m.Apply(Activate) // expand FolderA
	m.Apply(MoveDown)
	m.Apply(Activate) // play Stream1
	m.Apply(MoveDown)
	m.Apply(Activate) // play Stream2

	if player.stopCalls != 1 {
		t.Errorf("Expected old playback stopped once, got %d", player.stopCalls)
	}

	if len(player.started) != 2 {
		t.Fatalf("Expected 2 starts, got %d", len(player.started))
	}

	if m.NowPlaying().Text != "Stream2" {
		t.Errorf("Expected Stream2 playing, got %s", m.NowPlaying().Text)
	}
}

func TestPlaybackStartFailureStaysIdle(t *testing.T) {
	m, player, _, _ := newTestMachine(t)
	player.startErr = errors.New("no such command")

	m.Apply(End)
	res := m.Apply(Activate)

	var playErr *PlaybackError
	if !errors.As(res.Err, &playErr) {
		t.Fatalf("Expected PlaybackError, got %v", res.Err)
	}

	if m.NowPlaying() != nil {
		t.Errorf("Expected idle state after start failure")
	}

	if m.Cursor() != 1 {
		t.Errorf("Expected cursor untouched by start failure, got %d", m.Cursor())
	}
}

func TestStopGoesIdle(t *testing.T) {
	m, player, _, _ := newTestMachine(t)

	m.Apply(End)
	m.Apply(Activate)
	res := m.Apply(Stop)

	if res.Status != "Playback stopped" {
		t.Errorf("Expected stop status message, got %q", res.Status)
	}

	if m.NowPlaying() != nil {
		t.Errorf("Expected idle after stop")
	}

	if player.stopCalls != 1 {
		t.Errorf("Expected 1 stop call, got %d", player.stopCalls)
	}
}

func TestStopWhenIdleIsNoop(t *testing.T) {
	m, player, _, _ := newTestMachine(t)

	res := m.Apply(Stop)

	if res.Err != nil || res.Status != "" {
		t.Errorf("Expected silent no-op, got status %q err %v", res.Status, res.Err)
	}

	if player.stopCalls != 0 {
		t.Errorf("Expected no stop calls when idle, got %d", player.stopCalls)
	}
}

func TestStopFailureStillGoesIdle(t *testing.T) {
	m, player, _, _ := newTestMachine(t)
	player.stopErr = errors.New("process stuck")

	m.Apply(End)
	m.Apply(Activate)
	res := m.Apply(Stop)

	if res.Err == nil {
		t.Errorf("Expected stop error surfaced")
	}

	if m.NowPlaying() != nil {
		t.Errorf("Expected idle even when stop fails")
	}
}

func TestToggleFavoritePersists(t *testing.T) {
	m, _, store, _ := newTestMachine(t)

	m.Apply(End)
	res := m.Apply(ToggleFavorite)

	if res.Status != "Added to favorites: Stream3" {
		t.Errorf("Unexpected status %q", res.Status)
	}

	if len(store.set) != 1 || store.set[0] != "http://three" {
		t.Errorf("Expected Set called with http://three, got %v", store.set)
	}

	res = m.Apply(ToggleFavorite)
	if res.Status != "Removed from favorites: Stream3" {
		t.Errorf("Unexpected status %q", res.Status)
	}

	if len(store.removed) != 1 || store.removed[0] != "http://three" {
		t.Errorf("Expected Remove called with http://three, got %v", store.removed)
	}

	s, ok := m.Selected().(*opml.Stream)
	if !ok || s.Favorite {
		t.Errorf("Expected favorite flag cleared after second toggle")
	}
}

func TestToggleFavoriteOnFolderIsNoop(t *testing.T) {
	m, _, store, _ := newTestMachine(t)

	res := m.Apply(ToggleFavorite)

	if res.Status != "" || res.Err != nil {
		t.Errorf("Expected silent no-op on folder, got status %q err %v", res.Status, res.Err)
	}

	if len(store.set) != 0 {
		t.Errorf("Expected no store calls, got %v", store.set)
	}
}

func TestQuitStopsPlayback(t *testing.T) {
	m, player, _, _ := newTestMachine(t)
	player.stopErr = errors.New("process stuck")

	m.Apply(End)
	m.Apply(Activate)
	res := m.Apply(Quit)

	if !res.Quit {
		t.Errorf("Expected Quit result")
	}

	if player.stopCalls != 1 {
		t.Errorf("Expected stop attempted on quit, got %d calls", player.stopCalls)
	}

	if m.NowPlaying() != nil {
		t.Errorf("Expected idle after quit")
	}
}

func TestPageJumpToFolderBoundaries(t *testing.T) {
	s1 := &opml.Stream{Text: "A1", URL: "http://a1"}
	s2 := &opml.Stream{Text: "B1", URL: "http://b1"}
	folderA := &opml.Folder{Text: "A", Children: []opml.Node{s1}, Loaded: true, Expanded: true}
	folderB := &opml.Folder{Text: "B", Children: []opml.Node{s2}, Loaded: true, Expanded: true}
	root := &opml.Folder{Text: "Root", Children: []opml.Node{folderA, folderB}, Loaded: true}
	m := NewMachine(root, &fakePlayer{}, &fakeStore{}, &fakeExpander{}, noopDebugf)

	// Rows: A(0) A1(1) B(2) B1(3)
	m.Apply(PageDown)
	if m.Cursor() != 2 {
		t.Errorf("Expected jump to folder B at 2, got %d", m.Cursor())
	}

	m.Apply(PageDown)
	if m.Cursor() != 3 {
		t.Errorf("Expected clamp to last row past final folder, got %d", m.Cursor())
	}

	m.Apply(PageUp)
	if m.Cursor() != 2 {
		t.Errorf("Expected jump back to folder B, got %d", m.Cursor())
	}

	m.Apply(PageUp)
	if m.Cursor() != 0 {
		t.Errorf("Expected jump to folder A at 0, got %d", m.Cursor())
	}

	m.Apply(PageUp)
	if m.Cursor() != 0 {
		t.Errorf("Expected clamp at top, got %d", m.Cursor())
	}
}

func TestSyncPlaybackClearsDeadPlayer(t *testing.T) {
	m, player, _, _ := newTestMachine(t)

	m.Apply(End)
	m.Apply(Activate)

	if m.SyncPlayback() {
		t.Errorf("Expected no change while player alive")
	}

	player.handle.alive = false

	if !m.SyncPlayback() {
		t.Errorf("Expected dead player cleared")
	}

	if m.NowPlaying() != nil {
		t.Errorf("Expected idle after player exit")
	}
}

func TestEmptyTree(t *testing.T) {
	root := &opml.Folder{Text: "Root", Loaded: true}
	m := NewMachine(root, &fakePlayer{}, &fakeStore{}, &fakeExpander{}, noopDebugf)

	if m.Selected() != nil {
		t.Errorf("Expected nil selection on empty tree")
	}

	for _, ev := range []Event{MoveUp, MoveDown, PageUp, PageDown, Home, End, Activate, Collapse, ToggleFavorite} {
		res := m.Apply(ev)
		if res.Err != nil {
			t.Errorf("Event %d on empty tree returned error %v", ev, res.Err)
		}
	}

	if m.Cursor() != 0 {
		t.Errorf("Expected cursor pinned at 0, got %d", m.Cursor())
	}
}

func TestFavoritePersistenceFailureKeepsFlag(t *testing.T) {
	m, _, store, _ := newTestMachine(t)
	store.setErr = errors.New("db closed")

	m.Apply(End)
	res := m.Apply(ToggleFavorite)

	if res.Err == nil {
		t.Errorf("Expected persistence error surfaced")
	}

	s := m.Selected().(*opml.Stream)
	if !s.Favorite {
		t.Errorf("Expected in-memory flag kept despite store failure")
	}
}
