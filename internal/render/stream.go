package render

import (
	"bufio"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

const (
	enterAltScreen = "\033[?1049h\033[?25l"
	leaveAltScreen = "\033[?25h\033[?1049l"
	clearScreen    = "\033[H\033[2J"
	cursorHome     = "\033[H"
	clearToEOL     = "\033[K"
)

// Stream writes frames as plain text plus escape sequences.
type Stream struct {
	out    *bufio.Writer
	closed bool
}

// NewStream enters the alternate screen on w.
func NewStream(w io.Writer) (*Stream, error) {
	s := &Stream{out: bufio.NewWriter(w)}
	s.out.WriteString(enterAltScreen)
	s.out.WriteString(clearScreen)
	if err := s.out.Flush(); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenTerminalStream is NewStream on f after checking f is a terminal large
// enough for cols x rows. Both checks only warn.
func OpenTerminalStream(f *os.File, cols, rows int) (*Stream, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		logrus.WithFields(logrus.Fields{
			"function": "OpenTerminalStream",
			"output":   f.Name(),
		}).Warn("Output is not a terminal, frames will be written as text")
	} else if width, height, err := term.GetSize(fd); err == nil && (width < cols || height < rows) {
		logrus.WithFields(logrus.Fields{
			"function": "OpenTerminalStream",
			"terminal": []int{width, height},
			"frame":    []int{cols, rows},
		}).Warn("Terminal is smaller than the frame, lines will wrap")
	}
	return NewStream(f)
}

// Show homes the cursor and overwrites the previous frame.
func (s *Stream) Show(lines []string) error {
	s.out.WriteString(cursorHome)
	for _, line := range lines {
		s.out.WriteString(line)
		s.out.WriteString(clearToEOL)
		s.out.WriteByte('\n')
	}
	return s.out.Flush()
}

// Close leaves the alternate screen.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.out.WriteString(leaveAltScreen)
	return s.out.Flush()
}
