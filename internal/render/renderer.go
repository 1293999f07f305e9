package render

import (
	"context"
	"time"

	"vid-to-ascii/internal/glyph"
	"vid-to-ascii/internal/pacer"
)

// Renderer shows grids on a display and bounds the display rate.
type Renderer struct {
	display   Display
	pacer     *pacer.Pacer
	delimiter string
	status    bool
	frames    int
	started   time.Time
}

// NewRenderer returns a renderer drawing on d and pacing with p. With status
// set an info line is added under every frame.
func NewRenderer(d Display, p *pacer.Pacer, delimiter string, status bool) *Renderer {
	return &Renderer{display: d, pacer: p, delimiter: delimiter, status: status}
}

// Render draws g and then waits for the pacer.
func (r *Renderer) Render(ctx context.Context, g glyph.Grid) error {
	if r.started.IsZero() {
		r.started = time.Now()
	}

	lines := FormatLines(g, r.delimiter)
	if r.status {
		lines = append(lines, StatusLine(r.frames, r.fps(), g.Width, g.Height))
	}
	if err := r.display.Show(lines); err != nil {
		return err
	}
	r.frames++

	_, err := r.pacer.Wait(ctx)
	return err
}

// Frames is the number of frames shown so far.
func (r *Renderer) Frames() int {
	return r.frames
}

func (r *Renderer) fps() float64 {
	elapsed := time.Since(r.started).Seconds()
	if r.frames == 0 || elapsed <= 0 {
		return 0
	}
	return float64(r.frames) / elapsed
}
