// Package glyph maps luma samples to characters of a brightness palette.
package glyph

import (
	"fmt"
	"unicode/utf8"
)

// DefaultPalette is ordered from least to most visually salient.
const DefaultPalette = "  ..,,--''``::!!11+*<>()\\/{}[]abcdefghijklmnopqrstuvwxyz 234567890ABCDEFGHIJKLMNOPQRSTUVWXYZ&@#$"

// Palette is an immutable ordered glyph sequence.
type Palette struct {
	glyphs []rune
}

// NewPalette returns the palette spelled by s. It needs at least two glyphs.
func NewPalette(s string) (Palette, error) {
	if !utf8.ValidString(s) {
		return Palette{}, fmt.Errorf("palette is not valid UTF-8")
	}
	glyphs := []rune(s)
	if len(glyphs) < 2 {
		return Palette{}, fmt.Errorf("palette needs at least 2 glyphs, got %d", len(glyphs))
	}
	return Palette{glyphs: glyphs}, nil
}

// Len is the number of glyphs.
func (p Palette) Len() int {
	return len(p.glyphs)
}

// At returns glyph i.
func (p Palette) At(i int) rune {
	return p.glyphs[i]
}

func (p Palette) String() string {
	return string(p.glyphs)
}

// Mode selects how a sample is turned into a palette index.
type Mode string

const (
	// ModeModulo indexes with sample mod (N-1). It is not monotonic in
	// brightness and the last glyph is never selected.
	ModeModulo Mode = "modulo"
	// ModeLinear indexes with sample*(N-1)/256.
	ModeLinear Mode = "linear"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeModulo, ModeLinear:
		return m, nil
	default:
		return "", fmt.Errorf("unknown quantization mode %q (want modulo or linear)", s)
	}
}

// Grid is a row-major glyph image.
type Grid struct {
	Width  int
	Height int
	Cells  []rune
}

// Row returns row y of the grid.
func (g Grid) Row(y int) []rune {
	return g.Cells[y*g.Width : (y+1)*g.Width]
}

// Quantizer turns luma planes into glyph grids.
type Quantizer struct {
	palette Palette
	mode    Mode
	table   [256]rune
}

// NewQuantizer precomputes the glyph of every sample value.
func NewQuantizer(p Palette, mode Mode) (*Quantizer, error) {
	if p.Len() < 2 {
		return nil, fmt.Errorf("palette needs at least 2 glyphs, got %d", p.Len())
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}

	q := &Quantizer{palette: p, mode: mode}
	n := p.Len() - 1
	for s := range q.table {
		switch mode {
		case ModeLinear:
			q.table[s] = p.At(s * n / 256)
		default:
			q.table[s] = p.At(s % n)
		}
	}
	return q, nil
}

// Glyph returns the glyph for one sample.
func (q *Quantizer) Glyph(sample byte) rune {
	return q.table[sample]
}

// Quantize maps a width x height plane whose rows start every stride bytes.
func (q *Quantizer) Quantize(plane []byte, stride, width, height int) (Grid, error) {
	if width <= 0 || height <= 0 {
		return Grid{}, fmt.Errorf("invalid grid size %dx%d", width, height)
	}
	if stride < width {
		return Grid{}, fmt.Errorf("stride %d shorter than width %d", stride, width)
	}
	if need := (height-1)*stride + width; len(plane) < need {
		return Grid{}, fmt.Errorf("plane has %d bytes, need %d", len(plane), need)
	}

	g := Grid{Width: width, Height: height, Cells: make([]rune, width*height)}
	for y := 0; y < height; y++ {
		row := plane[y*stride : y*stride+width]
		cells := g.Cells[y*width : (y+1)*width]
		for x, s := range row {
			cells[x] = q.table[s]
		}
	}
	return g, nil
}
