// Package decoder turns a media file into a sequence of raw pictures.
//
// Three engines are available: ffmpeg (ffprobe discovery plus an ffmpeg
// rawvideo child process), vidio (packed RGBA frames through Vidio) and
// mpeg1 (an in-process MPEG-1 decoder). All of them deliver pictures one at a
// time, in decode order, and report the end of the stream with io.EOF.
package decoder

import (
	"context"
	"fmt"
	"time"
)

// Source delivers decoded pictures.
type Source interface {
	// NextPicture returns the next picture, io.EOF at the end of the stream,
	// or a decode failure. The returned picture is only valid until the next
	// call.
	NextPicture(ctx context.Context) (*RawPicture, error)
	// Info describes the selected video stream.
	Info() StreamInfo
	Close() error
}

// StreamInfo describes the video stream being decoded.
type StreamInfo struct {
	Index        int
	Codec        string
	Width        int
	Height       int
	SourceFormat string
	Format       PixelFormat
}

func (s StreamInfo) String() string {
	return fmt.Sprintf("stream #%d %s %dx%d %s->%s", s.Index, s.Codec, s.Width, s.Height, s.SourceFormat, s.Format)
}

// Engine names a decoder implementation.
type Engine string

const (
	EngineFFmpeg Engine = "ffmpeg"
	EngineVidio  Engine = "vidio"
	EngineMPEG1  Engine = "mpeg1"
)

// ParseEngine validates an engine name.
func ParseEngine(s string) (Engine, error) {
	switch e := Engine(s); e {
	case EngineFFmpeg, EngineVidio, EngineMPEG1:
		return e, nil
	default:
		return "", fmt.Errorf("unknown decoder engine %q (want ffmpeg, vidio or mpeg1)", s)
	}
}

// Options tune the engines.
type Options struct {
	FFmpegPath   string
	ProbeTimeout time.Duration
}

// Open selects the first video stream of path and prepares it for decoding.
func Open(ctx context.Context, engine Engine, path string, opts Options) (Source, error) {
	switch engine {
	case EngineFFmpeg:
		return OpenFFmpeg(ctx, path, opts)
	case EngineVidio:
		return OpenVidio(path)
	case EngineMPEG1:
		return OpenMPEG1(path)
	default:
		return nil, fmt.Errorf("unknown decoder engine %q", string(engine))
	}
}
