package decoder

import (
	"context"
	"io"
	"os"

	"github.com/gen2brain/mpeg"
	"github.com/sirupsen/logrus"

	"vid-to-ascii/internal/fault"
)

// MPEG1Source decodes MPEG-1 program streams in process.
type MPEG1Source struct {
	file *os.File
	mpg  *mpeg.MPEG
	pic  RawPicture
	info StreamInfo
}

// OpenMPEG1 opens path as an MPEG-1 program stream.
func OpenMPEG1(path string) (*MPEG1Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fault.New(fault.StreamDiscovery, "open "+path, err)
	}

	mpg, err := mpeg.New(file)
	if err != nil {
		file.Close()
		return nil, fault.New(fault.StreamDiscovery, "read headers", err)
	}
	if mpg.NumVideoStreams() == 0 {
		file.Close()
		return nil, fault.Newf(fault.StreamDiscovery, "select stream", "no video stream found")
	}
	// Audio packets are buffered until read; nothing here reads them.
	mpg.SetAudioEnabled(false)

	width, height := mpg.Width(), mpg.Height()
	if width <= 0 || height <= 0 {
		file.Close()
		return nil, fault.Newf(fault.StreamDiscovery, "select stream", "video stream has no sequence header")
	}

	s := &MPEG1Source{
		file: file,
		mpg:  mpg,
		pic: RawPicture{
			Format:   YUV420P,
			Planes:   make([][]byte, 3),
			Linesize: make([]int, 3),
		},
		info: StreamInfo{
			Codec:        "mpeg1video",
			Width:        width,
			Height:       height,
			SourceFormat: string(YUV420P),
			Format:       YUV420P,
		},
	}

	logrus.WithFields(logrus.Fields{
		"function": "OpenMPEG1",
		"file":     path,
		"width":    width,
		"height":   height,
		"fps":      mpg.Framerate(),
	}).Info("Opened video with mpeg1 engine")

	return s, nil
}

// Info describes the decoded stream.
func (s *MPEG1Source) Info() StreamInfo {
	return s.info
}

// NextPicture decodes until a picture is produced or the stream ends.
func (s *MPEG1Source) NextPicture(ctx context.Context) (*RawPicture, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frame := s.mpg.DecodeVideo()
		if frame != nil {
			s.pic.Width = frame.Width
			s.pic.Height = frame.Height
			s.info.Width, s.info.Height = frame.Width, frame.Height
			for i, p := range []mpeg.Plane{frame.Y, frame.Cb, frame.Cr} {
				s.pic.Planes[i] = p.Data
				s.pic.Linesize[i] = p.Width
			}
			return &s.pic, nil
		}

		if s.mpg.HasEnded() {
			return nil, io.EOF
		}
	}
}

// Close releases the input file.
func (s *MPEG1Source) Close() error {
	return s.file.Close()
}
