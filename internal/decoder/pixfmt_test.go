package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPixelFormatFamily(t *testing.T) {
	tests := []struct {
		format PixelFormat
		family Family
	}{
		{YUV420P, FamilyPlanarYUV},
		{YUVJ422P, FamilyPlanarYUV},
		{YUV444P, FamilyPlanarYUV},
		{NV12, FamilySemiPlanarYUV},
		{NV21, FamilySemiPlanarYUV},
		{Gray, FamilyGray},
		{RGB24, FamilyPackedRGB},
		{BGR24, FamilyPackedRGB},
		{RGBA, FamilyPackedRGB},
		{PixelFormat("p010le"), FamilyUnknown},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.Equal(t, tt.family, tt.format.Family())
			assert.Equal(t, tt.family != FamilyUnknown, tt.format.Supported())
		})
	}
}

func TestPixelFormatLayout(t *testing.T) {
	tests := []struct {
		name     string
		format   PixelFormat
		w, h     int
		expected []PlaneLayout
	}{
		{"420 even", YUV420P, 64, 48, []PlaneLayout{{64, 48, 1}, {32, 24, 1}, {32, 24, 1}}},
		{"420 odd rounds chroma up", YUV420P, 5, 3, []PlaneLayout{{5, 3, 1}, {3, 2, 1}, {3, 2, 1}}},
		{"422", YUV422P, 6, 4, []PlaneLayout{{6, 4, 1}, {3, 4, 1}, {3, 4, 1}}},
		{"444", YUVJ444P, 6, 4, []PlaneLayout{{6, 4, 1}, {6, 4, 1}, {6, 4, 1}}},
		{"nv12", NV12, 6, 4, []PlaneLayout{{6, 4, 1}, {3, 2, 2}}},
		{"gray", Gray, 6, 4, []PlaneLayout{{6, 4, 1}}},
		{"rgb24", RGB24, 6, 4, []PlaneLayout{{6, 4, 3}}},
		{"rgba", RGBA, 6, 4, []PlaneLayout{{6, 4, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := tt.format.Layout(tt.w, tt.h)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, layout)
		})
	}
}

func TestPixelFormatLayoutErrors(t *testing.T) {
	_, err := YUV420P.Layout(0, 10)
	assert.Error(t, err)

	_, err = PixelFormat("p010le").Layout(10, 10)
	assert.Error(t, err)
}

func TestFrameSize(t *testing.T) {
	size, err := YUV420P.FrameSize(64, 48)
	require.NoError(t, err)
	assert.Equal(t, 64*48*3/2, size)

	size, err = NV12.FrameSize(5, 3)
	require.NoError(t, err)
	assert.Equal(t, 15+3*2*2, size)

	size, err = RGB24.FrameSize(4, 2)
	require.NoError(t, err)
	assert.Equal(t, 24, size)
}

func TestSplitPicture(t *testing.T) {
	buf := make([]byte, 4*2+2*1*2)
	for i := range buf {
		buf[i] = byte(i)
	}

	pic, err := SplitPicture(buf, 4, 2, YUV420P)
	require.NoError(t, err)

	assert.Equal(t, 4, pic.Width)
	assert.Equal(t, 2, pic.Height)
	assert.Equal(t, []int{4, 2, 2}, pic.Linesize)
	assert.Equal(t, []byte{0, 1, 2, 3, 4, 5, 6, 7}, pic.Planes[0])
	assert.Equal(t, []byte{8, 9}, pic.Planes[1])
	assert.Equal(t, []byte{10, 11}, pic.Planes[2])
}

func TestSplitPictureShortBuffer(t *testing.T) {
	_, err := SplitPicture(make([]byte, 5), 4, 2, YUV420P)
	assert.Error(t, err)
}

func TestParseEngine(t *testing.T) {
	for _, name := range []string{"ffmpeg", "vidio", "mpeg1"} {
		e, err := ParseEngine(name)
		require.NoError(t, err)
		assert.Equal(t, Engine(name), e)
	}

	_, err := ParseEngine("gstreamer")
	assert.Error(t, err)
}
