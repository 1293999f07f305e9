package resample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vid-to-ascii/internal/decoder"
	"vid-to-ascii/internal/fault"
)

// newRawPicture builds a tightly packed picture whose bytes come from fill.
func newRawPicture(t *testing.T, format decoder.PixelFormat, w, h int, fill func(plane, x, y, c int) byte) *decoder.RawPicture {
	t.Helper()

	layout, err := format.Layout(w, h)
	require.NoError(t, err)

	pic := &decoder.RawPicture{Width: w, Height: h, Format: format}
	for i, p := range layout {
		buf := make([]byte, p.Linesize()*p.Height)
		for y := 0; y < p.Height; y++ {
			for x := 0; x < p.Width; x++ {
				for c := 0; c < p.BytesPerPixel; c++ {
					buf[y*p.Linesize()+x*p.BytesPerPixel+c] = fill(i, x, y, c)
				}
			}
		}
		pic.Planes = append(pic.Planes, buf)
		pic.Linesize = append(pic.Linesize, p.Linesize())
	}
	return pic
}

func uniform(values ...byte) func(plane, x, y, c int) byte {
	return func(plane, x, y, c int) byte {
		if plane < len(values) {
			return values[plane]
		}
		return values[len(values)-1]
	}
}

func planeValues(p *Picture, i int) []byte {
	w, h := p.PlaneSize(i)
	out := make([]byte, 0, w*h)
	for y := 0; y < h; y++ {
		out = append(out, p.Planes[i][y*p.Linesize[i]:y*p.Linesize[i]+w]...)
	}
	return out
}

func TestResampleOutputSizeIsExact(t *testing.T) {
	sources := []struct {
		name string
		w, h int
	}{
		{"full hd", 1920, 1080},
		{"portrait", 90, 400},
		{"tiny", 3, 7},
		{"already target", 64, 48},
		{"single pixel", 1, 1},
	}

	r := New(64, 48, Bicubic)
	for _, src := range sources {
		t.Run(src.name, func(t *testing.T) {
			pic := newRawPicture(t, decoder.YUV420P, src.w, src.h, func(plane, x, y, c int) byte {
				return byte(x*7 + y*3 + plane)
			})

			out, err := r.Resample(pic)
			require.NoError(t, err)

			assert.Equal(t, 64, out.Width)
			assert.Equal(t, 48, out.Height)
			assert.Equal(t, decoder.YUV420P, out.Format)
			assert.Len(t, planeValues(out, 0), 64*48)
			assert.Len(t, planeValues(out, 1), 32*24)
		})
	}
}

func TestResampleZeroTargetKeepsSourceAxis(t *testing.T) {
	pic := newRawPicture(t, decoder.YUV420P, 100, 20, uniform(90))

	tests := []struct {
		name         string
		tw, th       int
		wantW, wantH int
	}{
		{"width passthrough", 0, 48, 100, 48},
		{"height passthrough", 64, 0, 64, 20},
		{"both passthrough", 0, 0, 100, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := New(tt.tw, tt.th, Bicubic).Resample(pic)
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, out.Width)
			assert.Equal(t, tt.wantH, out.Height)
		})
	}
}

func TestResampleAlignsRows(t *testing.T) {
	pic := newRawPicture(t, decoder.YUV420P, 320, 240, uniform(16))

	out, err := New(50, 30, Bicubic).Resample(pic)
	require.NoError(t, err)

	assert.Equal(t, [3]int{64, 32, 32}, out.Linesize)
	for i, ls := range out.Linesize {
		assert.Zero(t, ls%Align, "plane %d", i)
		_, h := out.PlaneSize(i)
		assert.Len(t, out.Planes[i], ls*h)
	}
}

func TestResampleIdentityCopiesSamples(t *testing.T) {
	luma := []byte{0, 50, 128, 255}
	pic := newRawPicture(t, decoder.YUV420P, 2, 2, func(plane, x, y, c int) byte {
		if plane == 0 {
			return luma[y*2+x]
		}
		return 128
	})

	out, err := New(2, 2, Bicubic).Resample(pic)
	require.NoError(t, err)
	assert.Equal(t, luma, planeValues(out, 0))
}

func TestResampleKeepsUniformPlanes(t *testing.T) {
	filters := []Filter{Nearest, Bilinear, Bicubic, Mitchell, Lanczos2, Lanczos3}
	pic := newRawPicture(t, decoder.YUV422P, 160, 90, uniform(100, 90, 170))

	for _, f := range filters {
		t.Run(string(f), func(t *testing.T) {
			out, err := New(64, 48, f).Resample(pic)
			require.NoError(t, err)

			for i, want := range []byte{100, 90, 170} {
				for _, v := range planeValues(out, i) {
					assert.InDelta(t, want, v, 1, "plane %d", i)
				}
			}
		})
	}
}

func TestResampleFormats(t *testing.T) {
	tests := []struct {
		name   string
		format decoder.PixelFormat
		fill   func(plane, x, y, c int) byte
		want   [3]byte
	}{
		{"gray gets neutral chroma", decoder.Gray, uniform(77), [3]byte{77, 128, 128}},
		{"nv12", decoder.NV12, func(plane, x, y, c int) byte {
			if plane == 0 {
				return 120
			}
			return []byte{60, 200}[c]
		}, [3]byte{120, 60, 200}},
		{"nv21 swaps chroma", decoder.NV21, func(plane, x, y, c int) byte {
			if plane == 0 {
				return 120
			}
			return []byte{60, 200}[c]
		}, [3]byte{120, 200, 60}},
		{"rgb24 gray", decoder.RGB24, uniform(200), [3]byte{200, 128, 128}},
		{"rgba gray", decoder.RGBA, uniform(40), [3]byte{40, 128, 128}},
		{"bgr24 gray", decoder.BGR24, uniform(10), [3]byte{10, 128, 128}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pic := newRawPicture(t, tt.format, 96, 72, tt.fill)

			out, err := New(64, 48, Bicubic).Resample(pic)
			require.NoError(t, err)

			for i, want := range tt.want {
				for _, v := range planeValues(out, i) {
					assert.InDelta(t, want, v, 1, "plane %d", i)
				}
			}
		})
	}
}

func TestResampleRespectsSourceStride(t *testing.T) {
	// 2x2 gray picture with 6 bytes of padding per row.
	pic := &decoder.RawPicture{
		Width:    2,
		Height:   2,
		Format:   decoder.Gray,
		Planes:   [][]byte{{10, 20, 9, 9, 9, 9, 9, 9, 30, 40}},
		Linesize: []int{8},
	}

	out, err := New(2, 2, Bicubic).Resample(pic)
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 20, 30, 40}, planeValues(out, 0))
}

func TestResampleDoesNotModifySource(t *testing.T) {
	pic := newRawPicture(t, decoder.YUV420P, 33, 17, func(plane, x, y, c int) byte {
		return byte(x ^ y)
	})
	before := make([][]byte, len(pic.Planes))
	for i, p := range pic.Planes {
		before[i] = append([]byte(nil), p...)
	}

	_, err := New(64, 48, Lanczos3).Resample(pic)
	require.NoError(t, err)
	assert.Equal(t, before, pic.Planes)
}

func TestResampleFailures(t *testing.T) {
	valid := func() *decoder.RawPicture {
		return newRawPicture(t, decoder.YUV420P, 8, 8, uniform(1))
	}

	tests := []struct {
		name   string
		filter Filter
		pic    func() *decoder.RawPicture
	}{
		{"nil picture", Bicubic, func() *decoder.RawPicture { return nil }},
		{"unknown filter", Filter("sinc"), valid},
		{"unsupported format", Bicubic, func() *decoder.RawPicture {
			p := valid()
			p.Format = "p010le"
			return p
		}},
		{"missing plane", Bicubic, func() *decoder.RawPicture {
			p := valid()
			p.Planes = p.Planes[:1]
			return p
		}},
		{"short plane", Bicubic, func() *decoder.RawPicture {
			p := valid()
			p.Planes[0] = p.Planes[0][:10]
			return p
		}},
		{"linesize below width", Bicubic, func() *decoder.RawPicture {
			p := valid()
			p.Linesize[0] = 4
			return p
		}},
		{"empty picture", Bicubic, func() *decoder.RawPicture {
			return &decoder.RawPicture{Format: decoder.YUV420P}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := New(64, 48, tt.filter).Resample(tt.pic())
			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, fault.Is(err, fault.Scaling))
		})
	}
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("bicubic")
	require.NoError(t, err)
	assert.Equal(t, Bicubic, f)

	_, err = ParseFilter("gaussian")
	assert.Error(t, err)
}
