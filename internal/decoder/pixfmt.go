package decoder

import "fmt"

// PixelFormat is an ffmpeg pix_fmt name.
type PixelFormat string

const (
	YUV420P  PixelFormat = "yuv420p"
	YUVJ420P PixelFormat = "yuvj420p"
	YUV422P  PixelFormat = "yuv422p"
	YUVJ422P PixelFormat = "yuvj422p"
	YUV444P  PixelFormat = "yuv444p"
	YUVJ444P PixelFormat = "yuvj444p"
	Gray     PixelFormat = "gray"
	NV12     PixelFormat = "nv12"
	NV21     PixelFormat = "nv21"
	RGB24    PixelFormat = "rgb24"
	BGR24    PixelFormat = "bgr24"
	RGBA     PixelFormat = "rgba"
)

// Family groups pixel formats by how luminance is stored.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyPlanarYUV
	FamilySemiPlanarYUV
	FamilyGray
	FamilyPackedRGB
)

func (f Family) String() string {
	switch f {
	case FamilyPlanarYUV:
		return "planar yuv"
	case FamilySemiPlanarYUV:
		return "semi-planar yuv"
	case FamilyGray:
		return "gray"
	case FamilyPackedRGB:
		return "packed rgb"
	default:
		return "unknown"
	}
}

// PlaneLayout describes one plane of a tightly packed picture.
type PlaneLayout struct {
	Width         int
	Height        int
	BytesPerPixel int
}

// Linesize is the tight row length of the plane in bytes.
func (p PlaneLayout) Linesize() int {
	return p.Width * p.BytesPerPixel
}

// Supported reports whether the core can interpret the format.
func (f PixelFormat) Supported() bool {
	return f.Family() != FamilyUnknown
}

// Family returns the storage family of the format.
func (f PixelFormat) Family() Family {
	switch f {
	case YUV420P, YUVJ420P, YUV422P, YUVJ422P, YUV444P, YUVJ444P:
		return FamilyPlanarYUV
	case NV12, NV21:
		return FamilySemiPlanarYUV
	case Gray:
		return FamilyGray
	case RGB24, BGR24, RGBA:
		return FamilyPackedRGB
	default:
		return FamilyUnknown
	}
}

// ChromaShift returns the horizontal and vertical chroma subsampling as
// power-of-two shifts. Formats without chroma planes report 0, 0.
func (f PixelFormat) ChromaShift() (int, int) {
	switch f {
	case YUV420P, YUVJ420P, NV12, NV21:
		return 1, 1
	case YUV422P, YUVJ422P:
		return 1, 0
	default:
		return 0, 0
	}
}

// Layout returns the plane layout of a w x h picture in this format.
func (f PixelFormat) Layout(w, h int) ([]PlaneLayout, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid picture size %dx%d", w, h)
	}

	sx, sy := f.ChromaShift()
	cw := -((-w) >> sx)
	ch := -((-h) >> sy)

	switch f.Family() {
	case FamilyPlanarYUV:
		return []PlaneLayout{{w, h, 1}, {cw, ch, 1}, {cw, ch, 1}}, nil
	case FamilySemiPlanarYUV:
		return []PlaneLayout{{w, h, 1}, {cw, ch, 2}}, nil
	case FamilyGray:
		return []PlaneLayout{{w, h, 1}}, nil
	case FamilyPackedRGB:
		bpp := 3
		if f == RGBA {
			bpp = 4
		}
		return []PlaneLayout{{w, h, bpp}}, nil
	default:
		return nil, fmt.Errorf("unsupported pixel format %q", string(f))
	}
}

// FrameSize is the byte size of a tightly packed w x h picture.
func (f PixelFormat) FrameSize(w, h int) (int, error) {
	layout, err := f.Layout(w, h)
	if err != nil {
		return 0, err
	}
	size := 0
	for _, p := range layout {
		size += p.Linesize() * p.Height
	}
	return size, nil
}
