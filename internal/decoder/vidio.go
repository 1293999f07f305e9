package decoder

import (
	"context"
	"io"

	vidio "github.com/AlexEidt/Vidio"
	"github.com/sirupsen/logrus"

	"vid-to-ascii/internal/fault"
)

// VidioSource decodes through Vidio, which hands out packed RGBA pictures.
type VidioSource struct {
	video *vidio.Video
	pic   RawPicture
	info  StreamInfo
}

// OpenVidio opens the first video stream of path.
func OpenVidio(path string) (*VidioSource, error) {
	video, err := vidio.NewVideo(path)
	if err != nil {
		return nil, fault.New(fault.StreamDiscovery, "open "+path, err)
	}

	w, h := video.Width(), video.Height()
	if w <= 0 || h <= 0 {
		video.Close()
		return nil, fault.Newf(fault.StreamDiscovery, "open "+path, "video stream has no picture size")
	}

	buf := make([]byte, w*h*4)
	if err := video.SetFrameBuffer(buf); err != nil {
		video.Close()
		return nil, fault.New(fault.Allocation, "frame buffer", err)
	}

	s := &VidioSource{
		video: video,
		pic: RawPicture{
			Width:    w,
			Height:   h,
			Format:   RGBA,
			Planes:   [][]byte{buf},
			Linesize: []int{w * 4},
		},
		info: StreamInfo{
			Codec:        video.Codec(),
			Width:        w,
			Height:       h,
			SourceFormat: string(RGBA),
			Format:       RGBA,
		},
	}

	logrus.WithFields(logrus.Fields{
		"function": "OpenVidio",
		"file":     path,
		"width":    w,
		"height":   h,
		"fps":      video.FPS(),
	}).Info("Opened video with vidio engine")

	return s, nil
}

// Info describes the decoded stream.
func (s *VidioSource) Info() StreamInfo {
	return s.info
}

// NextPicture decodes the next picture into the shared RGBA buffer.
func (s *VidioSource) NextPicture(ctx context.Context) (*RawPicture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.video.Read() {
		return nil, io.EOF
	}
	return &s.pic, nil
}

// Close stops the underlying decoder.
func (s *VidioSource) Close() error {
	s.video.Close()
	return nil
}
