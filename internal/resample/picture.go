package resample

import (
	"vid-to-ascii/internal/decoder"
)

// Align is the row alignment of every plane the resampler writes.
const Align = 32

// Picture is a resampled yuv420p picture. Each plane row starts on an Align
// byte boundary, so Linesize may exceed the plane width.
type Picture struct {
	Width    int
	Height   int
	Format   decoder.PixelFormat
	Planes   [3][]byte
	Linesize [3]int
}

// NewPicture allocates a w x h yuv420p picture in a single buffer.
func NewPicture(w, h int) *Picture {
	cw, ch := (w+1)/2, (h+1)/2
	p := &Picture{
		Width:    w,
		Height:   h,
		Format:   decoder.YUV420P,
		Linesize: [3]int{alignUp(w), alignUp(cw), alignUp(cw)},
	}

	heights := [3]int{h, ch, ch}
	size := 0
	for i := range heights {
		size += p.Linesize[i] * heights[i]
	}

	buf := make([]byte, size)
	off := 0
	for i := range heights {
		n := p.Linesize[i] * heights[i]
		p.Planes[i] = buf[off : off+n : off+n]
		off += n
	}
	return p
}

// PlaneSize returns the visible width and height of plane i.
func (p *Picture) PlaneSize(i int) (int, int) {
	if i == 0 {
		return p.Width, p.Height
	}
	return (p.Width + 1) / 2, (p.Height + 1) / 2
}

// Luma returns the luma plane and its linesize.
func (p *Picture) Luma() ([]byte, int) {
	return p.Planes[0], p.Linesize[0]
}

func alignUp(n int) int {
	return (n + Align - 1) &^ (Align - 1)
}
