// Package render draws glyph grids on the terminal.
package render

import (
	"fmt"
	"strings"

	"vid-to-ascii/internal/glyph"
)

// Display is the single owner of the terminal while a session is open.
type Display interface {
	// Show replaces the visible frame with lines, top to bottom.
	Show(lines []string) error
	// Close restores the terminal. It is safe to call more than once.
	Close() error
}

// DisplayKind names a Display implementation.
type DisplayKind string

const (
	// DisplayScreen is a tcell managed screen.
	DisplayScreen DisplayKind = "screen"
	// DisplayANSI writes escape sequences straight to the output stream.
	DisplayANSI DisplayKind = "ansi"
)

// ParseDisplay validates a display name.
func ParseDisplay(s string) (DisplayKind, error) {
	switch d := DisplayKind(s); d {
	case DisplayScreen, DisplayANSI:
		return d, nil
	default:
		return "", fmt.Errorf("unknown display %q (want screen or ansi)", s)
	}
}

// FormatLines renders every grid row as one line of glyphs joined by
// delimiter.
func FormatLines(g glyph.Grid, delimiter string) []string {
	lines := make([]string, g.Height)
	var sb strings.Builder
	for y := 0; y < g.Height; y++ {
		sb.Reset()
		for x, r := range g.Row(y) {
			if x > 0 {
				sb.WriteString(delimiter)
			}
			sb.WriteRune(r)
		}
		lines[y] = sb.String()
	}
	return lines
}

// StatusLine is the info line shown under the frame.
func StatusLine(frame int, fps float64, width, height int) string {
	return fmt.Sprintf("frame=%d fps=%.1f out=%dx%d", frame, fps, width, height)
}

// FrameSize is the number of terminal cells a grid needs.
func FrameSize(g glyph.Grid, delimiter string, status bool) (int, int) {
	cols := g.Width
	if g.Width > 1 {
		cols += (g.Width - 1) * len([]rune(delimiter))
	}
	rows := g.Height
	if status {
		rows++
	}
	return cols, rows
}
