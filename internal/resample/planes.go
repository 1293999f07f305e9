package resample

import (
	"fmt"
	"image"
	"image/color"

	"vid-to-ascii/internal/decoder"
)

// sourcePlanes views pic as Y, Cb and Cr gray images. A nil chroma entry
// means the source carries no chroma.
func sourcePlanes(pic *decoder.RawPicture) ([3]*image.Gray, error) {
	var planes [3]*image.Gray

	if pic.Width <= 0 || pic.Height <= 0 {
		return planes, fmt.Errorf("invalid source size %dx%d", pic.Width, pic.Height)
	}
	layout, err := pic.Format.Layout(pic.Width, pic.Height)
	if err != nil {
		return planes, err
	}
	if len(pic.Planes) < len(layout) || len(pic.Linesize) < len(layout) {
		return planes, fmt.Errorf("%s picture needs %d planes, got %d", pic.Format, len(layout), len(pic.Planes))
	}
	for i, p := range layout {
		if pic.Linesize[i] < p.Linesize() {
			return planes, fmt.Errorf("plane %d linesize %d shorter than row of %d bytes", i, pic.Linesize[i], p.Linesize())
		}
		if need := (p.Height-1)*pic.Linesize[i] + p.Linesize(); len(pic.Planes[i]) < need {
			return planes, fmt.Errorf("plane %d has %d bytes, need %d", i, len(pic.Planes[i]), need)
		}
	}

	switch pic.Format.Family() {
	case decoder.FamilyPlanarYUV:
		for i, p := range layout {
			planes[i] = grayView(pic.Planes[i], pic.Linesize[i], p.Width, p.Height)
		}
	case decoder.FamilySemiPlanarYUV:
		planes[0] = grayView(pic.Planes[0], pic.Linesize[0], layout[0].Width, layout[0].Height)
		cb, cr := deinterleave(pic.Planes[1], pic.Linesize[1], layout[1].Width, layout[1].Height)
		if pic.Format == decoder.NV21 {
			cb, cr = cr, cb
		}
		planes[1], planes[2] = cb, cr
	case decoder.FamilyGray:
		planes[0] = grayView(pic.Planes[0], pic.Linesize[0], layout[0].Width, layout[0].Height)
	case decoder.FamilyPackedRGB:
		planes = rgbToYCbCr(pic, layout[0].BytesPerPixel)
	default:
		return planes, fmt.Errorf("unsupported pixel format %q", string(pic.Format))
	}

	return planes, nil
}

func grayView(pix []byte, stride, w, h int) *image.Gray {
	return &image.Gray{Pix: pix, Stride: stride, Rect: image.Rect(0, 0, w, h)}
}

func deinterleave(pix []byte, stride, w, h int) (*image.Gray, *image.Gray) {
	a := image.NewGray(image.Rect(0, 0, w, h))
	b := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := pix[y*stride:]
		for x := 0; x < w; x++ {
			a.Pix[y*a.Stride+x] = row[2*x]
			b.Pix[y*b.Stride+x] = row[2*x+1]
		}
	}
	return a, b
}

// rgbToYCbCr converts a packed RGB picture into full resolution planes.
func rgbToYCbCr(pic *decoder.RawPicture, bpp int) [3]*image.Gray {
	ri, gi, bi := 0, 1, 2
	if pic.Format == decoder.BGR24 {
		ri, bi = 2, 0
	}

	w, h := pic.Width, pic.Height
	rect := image.Rect(0, 0, w, h)
	yp, cb, cr := image.NewGray(rect), image.NewGray(rect), image.NewGray(rect)

	for y := 0; y < h; y++ {
		row := pic.Planes[0][y*pic.Linesize[0]:]
		for x := 0; x < w; x++ {
			px := row[x*bpp:]
			yy, u, v := color.RGBToYCbCr(px[ri], px[gi], px[bi])
			off := y*w + x
			yp.Pix[off], cb.Pix[off], cr.Pix[off] = yy, u, v
		}
	}

	return [3]*image.Gray{yp, cb, cr}
}
