package decoder

import (
	"fmt"
)

// RawPicture is one decoded picture as delivered by an engine. The plane
// buffers belong to the engine and are only valid until the next call to
// NextPicture.
type RawPicture struct {
	Width    int
	Height   int
	Format   PixelFormat
	Planes   [][]byte
	Linesize []int
}

// SplitPicture slices a tightly packed picture buffer into its planes
// without copying.
func SplitPicture(buf []byte, w, h int, format PixelFormat) (*RawPicture, error) {
	layout, err := format.Layout(w, h)
	if err != nil {
		return nil, err
	}

	pic := &RawPicture{
		Width:    w,
		Height:   h,
		Format:   format,
		Planes:   make([][]byte, len(layout)),
		Linesize: make([]int, len(layout)),
	}

	off := 0
	for i, p := range layout {
		size := p.Linesize() * p.Height
		if off+size > len(buf) {
			return nil, fmt.Errorf("picture buffer too short: plane %d needs %d bytes at offset %d, have %d", i, size, off, len(buf))
		}
		pic.Planes[i] = buf[off : off+size : off+size]
		pic.Linesize[i] = p.Linesize()
		off += size
	}

	return pic, nil
}
