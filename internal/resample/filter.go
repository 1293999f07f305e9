package resample

import (
	"fmt"

	"github.com/nfnt/resize"
)

// Filter names an interpolation kernel.
type Filter string

const (
	Nearest  Filter = "nearest"
	Bilinear Filter = "bilinear"
	Bicubic  Filter = "bicubic"
	Mitchell Filter = "mitchell"
	Lanczos2 Filter = "lanczos2"
	Lanczos3 Filter = "lanczos3"
)

var kernels = map[Filter]resize.InterpolationFunction{
	Nearest:  resize.NearestNeighbor,
	Bilinear: resize.Bilinear,
	Bicubic:  resize.Bicubic,
	Mitchell: resize.MitchellNetravali,
	Lanczos2: resize.Lanczos2,
	Lanczos3: resize.Lanczos3,
}

// ParseFilter validates a filter name.
func ParseFilter(s string) (Filter, error) {
	f := Filter(s)
	if _, ok := kernels[f]; !ok {
		return "", fmt.Errorf("unknown resample filter %q", s)
	}
	return f, nil
}
