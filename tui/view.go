// ABOUTME: Rendering and display functions for the TUI
// ABOUTME: Implements the Bubble Tea View() function and all render helpers

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"radiodial/nav"
	"radiodial/opml"
)

// Column widths for the fixed stream attributes.
const (
	bitrateWidth     = 5 // e.g. "128k"
	reliabilityWidth = 7 // five bars plus separators

	maxReliabilityBars = 5
)

// View renders the TUI
func (m model) View() string {
	if m.quitting {
		return "Stopping playback and exiting...\n"
	}

	title := m.styles.title.Render(m.settings.Display.Title)

	return title + "\n\n" + m.viewport.View() + "\n" + m.renderStatus() + "\n" + m.renderHelp()
}

// updateViewportContent builds and sets the viewport content.
// Renders all visible rows - the viewport handles scrolling via YOffset.
func (m *model) updateViewportContent() {
	rows := m.machine.Rows()
	nameWidth, subWidth := m.columnWidths()

	var content strings.Builder

	for i, row := range rows {
		line := m.renderRow(row, nameWidth, subWidth)

		switch {
		case i == m.machine.Cursor():
			line = m.styles.cursor.Render(line)
		case isFavorite(row.Node):
			line = m.styles.favorite.Render(line)
		}

		content.WriteString(line)
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// renderRow formats one visible node as a fixed-width line. Styling happens
// afterwards so column widths are computed on plain text.
func (m *model) renderRow(row nav.Row, nameWidth, subWidth int) string {
	indent := strings.Repeat("  ", row.Depth)

	switch n := row.Node.(type) {
	case *opml.Folder:
		delim := m.settings.Display.ClosedDelimiter
		if n.Expanded {
			delim = m.settings.Display.OpenedDelimiter
		}

		name := fmt.Sprintf("%s%s %s", indent, delim, n.Text)

		return pad(name, nameWidth+subWidth+bitrateWidth+reliabilityWidth)
	case *opml.Stream:
		marker := "  "
		if n.Favorite {
			marker = "★ "
		}

		name := pad(indent+marker+n.Text, nameWidth)
		sub := pad(n.Subtext, subWidth)
		bitrate := ""
		if n.Bitrate > 0 {
			bitrate = fmt.Sprintf("%dk", n.Bitrate)
		}

		return fmt.Sprintf("%s %s %s %s",
			name,
			sub,
			pad(bitrate, bitrateWidth-1),
			pad(strings.Repeat("|", reliabilityBars(n.Reliability)), reliabilityWidth-2),
		)
	default:
		return indent
	}
}

// reliabilityBars maps a 0-100 reliability score to a bar count. Scores come
// from remote OPML attributes and can be out of range, so clamp both ends.
func reliabilityBars(score int) int {
	bars := score / 20
	if bars < 0 {
		return 0
	}

	if bars > maxReliabilityBars {
		return maxReliabilityBars
	}

	return bars
}

// columnWidths splits the viewport width between station name and subtext,
// keeping the fixed attribute columns on the right.
func (m *model) columnWidths() (int, int) {
	avail := m.viewport.Width - bitrateWidth - reliabilityWidth
	if avail < minViewportWidth {
		avail = minViewportWidth
	}

	nameWidth := avail * 6 / 10
	subWidth := avail - nameWidth

	return nameWidth, subWidth
}

// pad truncates and right-pads to a fixed display width, rune-width aware so
// wide station names keep the columns aligned.
func pad(s string, width int) string {
	if width < 1 {
		return ""
	}

	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

// renderStatus renders the status bar
func (m model) renderStatus() string {
	// Show transient status message if recent
	if m.statusMsg != "" && time.Since(m.statusMsgAge) < statusMessageDuration {
		return m.styles.status.Width(m.width).Render(m.statusMsg)
	}

	if playing := m.machine.NowPlaying(); playing != nil {
		return m.styles.status.Width(m.width).Render(
			fmt.Sprintf(m.settings.Display.StatusFormat, playing.Text),
		)
	}

	rows := m.machine.Rows()
	if len(rows) == 0 {
		return m.styles.status.Width(m.width).Render("Directory is empty")
	}

	status := fmt.Sprintf("%d entries | %d/%d", len(rows), m.machine.Cursor()+1, len(rows))

	return m.styles.status.Width(m.width).Render(status)
}

// renderHelp renders the help text from the configured bindings.
func (m model) renderHelp() string {
	entries := []struct {
		k    string
		desc string
	}{
		{m.keys.Up.Help().Key + "/" + m.keys.Down.Help().Key, "navigate"},
		{m.keys.Activate.Help().Key, m.keys.Activate.Help().Desc},
		{m.keys.Collapse.Help().Key, m.keys.Collapse.Help().Desc},
		{m.keys.Stop.Help().Key, m.keys.Stop.Help().Desc},
		{m.keys.Favorite.Help().Key, m.keys.Favorite.Help().Desc},
		{m.keys.Quit.Help().Key, m.keys.Quit.Help().Desc},
	}

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, e.k+": "+e.desc)
	}

	return m.styles.help.Render(" " + strings.Join(parts, " | "))
}

func isFavorite(n opml.Node) bool {
	s, ok := n.(*opml.Stream)

	return ok && s.Favorite
}
