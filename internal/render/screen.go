package render

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
)

// Screen is a tcell managed display. The managed mode is entered once when
// the screen is opened and left once on Close.
type Screen struct {
	screen  tcell.Screen
	style   tcell.Style
	resized atomic.Bool
	once    sync.Once
}

// OpenScreen takes over the terminal.
func OpenScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return NewScreen(s)
}

// NewScreen initialises s and wraps it.
func NewScreen(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	s.HideCursor()
	s.Clear()
	return &Screen{screen: s, style: tcell.StyleDefault}, nil
}

// Show draws lines starting at the top-left cell.
func (s *Screen) Show(lines []string) error {
	if s.resized.Swap(false) {
		s.screen.Sync()
	}

	s.screen.Clear()
	for y, line := range lines {
		x := 0
		for _, r := range line {
			s.screen.SetContent(x, y, r, nil, s.style)
			x++
		}
	}
	s.screen.Show()
	return nil
}

// WatchKeys polls terminal events until the screen is closed. q, Esc and
// Ctrl-C call quit.
func (s *Screen) WatchKeys(quit context.CancelFunc) {
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				s.resized.Store(true)
			case *tcell.EventKey:
				switch ev.Key() {
				case tcell.KeyEscape, tcell.KeyCtrlC:
					quit()
				case tcell.KeyRune:
					if ev.Rune() == 'q' {
						quit()
					}
				}
			}
		}
	}()
}

// Close restores the terminal.
func (s *Screen) Close() error {
	s.once.Do(s.screen.Fini)
	return nil
}
