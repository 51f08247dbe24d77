// ABOUTME: Viewport offset calculation for cursor-to-middle scrolling
// ABOUTME: Implements vim/less style viewport scrolling behavior

package tui

// scroller computes the viewport Y offset that keeps the cursor visible.
//
// Scrolling behavior:
// - Top: cursor moves freely, viewport stays at 0
// - Middle: cursor stays at the middle line, content scrolls
// - Bottom: viewport shows the end, cursor moves to the bottom
type scroller struct {
	height int // Viewport height in lines
	cursor int // Current cursor position
	total  int // Total number of rows
}

// offset returns the Y offset to apply to the viewport.
func (s scroller) offset() int {
	if s.total == 0 || s.height < 1 {
		return 0
	}

	middle := s.height / 2

	// Cursor in the top half: viewport stays at the top.
	if s.cursor < middle {
		return 0
	}

	// Cursor in the middle section: keep it on the middle line until the
	// remaining rows fit on one screen.
	bottomThreshold := s.total - s.height + middle
	if s.cursor < bottomThreshold {
		return s.cursor - middle
	}

	// Near the bottom: show the last full screen of rows.
	maxOffset := s.total - s.height
	if maxOffset < 0 {
		maxOffset = 0
	}

	return maxOffset
}
