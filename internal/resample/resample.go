// Package resample scales decoded pictures of any size and supported pixel
// format to a fixed-size yuv420p picture.
package resample

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"
	"github.com/sirupsen/logrus"

	"vid-to-ascii/internal/decoder"
	"vid-to-ascii/internal/fault"
)

const op = "resample"

// Resampler converts raw pictures to Width x Height yuv420p. A zero
// dimension keeps the source size on that axis.
type Resampler struct {
	width  int
	height int
	filter Filter
	kernel resize.InterpolationFunction
	warned map[decoder.PixelFormat]bool
}

// New returns a resampler for the given target size. An unknown filter is
// reported on the first Resample call.
func New(width, height int, filter Filter) *Resampler {
	return &Resampler{
		width:  width,
		height: height,
		filter: filter,
		kernel: kernels[filter],
		warned: make(map[decoder.PixelFormat]bool),
	}
}

// Resample scales pic in one pass. pic is not modified. On error no picture
// is returned.
func (r *Resampler) Resample(pic *decoder.RawPicture) (*Picture, error) {
	if pic == nil {
		return nil, fault.Newf(fault.Scaling, op, "no input picture")
	}
	if _, ok := kernels[r.filter]; !ok {
		return nil, fault.Newf(fault.Scaling, op, "unknown filter %q", string(r.filter))
	}
	if r.width < 0 || r.height < 0 {
		return nil, fault.Newf(fault.Scaling, op, "invalid target size %dx%d", r.width, r.height)
	}

	src, err := sourcePlanes(pic)
	if err != nil {
		return nil, fault.New(fault.Scaling, op, err)
	}
	if pic.Format.Family() == decoder.FamilyPackedRGB && !r.warned[pic.Format] {
		r.warned[pic.Format] = true
		logrus.WithFields(logrus.Fields{
			"function": "Resample",
			"pix_fmt":  pic.Format,
		}).Warn("Picture is not YUV, rendering a luminance approximation")
	}

	w, h := r.width, r.height
	if w == 0 {
		w = pic.Width
	}
	if h == 0 {
		h = pic.Height
	}

	out := NewPicture(w, h)
	for i := range out.Planes {
		pw, ph := out.PlaneSize(i)
		if src[i] == nil {
			fillPlane(out.Planes[i], out.Linesize[i], pw, ph, 128)
			continue
		}
		copyPlane(out.Planes[i], out.Linesize[i], r.scale(src[i], pw, ph))
	}

	return out, nil
}

func (r *Resampler) scale(src *image.Gray, w, h int) *image.Gray {
	b := src.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return src
	}
	return toGray(resize.Resize(uint(w), uint(h), src, r.kernel))
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g.Set(x, y, color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)))
		}
	}
	return g
}

func copyPlane(dst []byte, stride int, src *image.Gray) {
	b := src.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := src.PixOffset(b.Min.X, b.Min.Y+y)
		copy(dst[y*stride:y*stride+b.Dx()], src.Pix[row:row+b.Dx()])
	}
}

func fillPlane(dst []byte, stride, w, h int, v byte) {
	for y := 0; y < h; y++ {
		row := dst[y*stride : y*stride+w]
		for x := range row {
			row[x] = v
		}
	}
}
