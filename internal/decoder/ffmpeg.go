package decoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	ffmpeg "github.com/u2takey/ffmpeg-go"
	"github.com/vansante/go-ffprobe"

	"vid-to-ascii/internal/fault"
)

// FFmpegSource decodes the first video stream of a file with an ffmpeg child
// process writing rawvideo to a pipe.
type FFmpegSource struct {
	info   StreamInfo
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer
	frames *frameReader
	done   bool
}

// OpenFFmpeg probes path, selects its first video stream and starts the
// decoder process.
func OpenFFmpeg(ctx context.Context, path string, opts Options) (*FFmpegSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := opts.ProbeTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	ffprobe.SetFFProbeBinPath(probeBinary(opts.FFmpegPath))
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	data, err := ffprobe.GetProbeDataContext(probeCtx, path)
	cancel()
	if err != nil {
		return nil, fault.New(fault.StreamDiscovery, "probe "+path, err)
	}

	info, err := selectVideoStream(data)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function": "OpenFFmpeg",
		"file":     path,
		"stream":   info.Index,
		"codec":    info.Codec,
		"width":    info.Width,
		"height":   info.Height,
		"pix_fmt":  info.SourceFormat,
	}).Info("Selected video stream")

	if info.Format != PixelFormat(info.SourceFormat) {
		logrus.WithFields(logrus.Fields{
			"function": "OpenFFmpeg",
			"pix_fmt":  info.SourceFormat,
			"output":   info.Format,
		}).Warn("Source pixel format is not handled natively, asking the decoder for a conversion")
	}

	cmd, err := decodeCommand(path, opts.FFmpegPath, info)
	if err != nil {
		return nil, err
	}

	s := &FFmpegSource{info: info, cmd: cmd}
	cmd.Stderr = &s.stderr
	s.stdout, err = cmd.StdoutPipe()
	if err != nil {
		return nil, fault.New(fault.Allocation, "ffmpeg stdout pipe", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fault.New(fault.Allocation, "start ffmpeg", err)
	}

	s.frames, err = newFrameReader(s.stdout, info.Width, info.Height, info.Format)
	if err != nil {
		s.Close()
		return nil, fault.New(fault.Allocation, "picture buffer", err)
	}

	return s, nil
}

// selectVideoStream picks the first video stream of the probe result.
func selectVideoStream(data *ffprobe.ProbeData) (StreamInfo, error) {
	if data == nil {
		return StreamInfo{}, fault.Newf(fault.StreamDiscovery, "select stream", "no probe data")
	}

	for _, s := range data.Streams {
		if s == nil || s.CodecType != "video" {
			continue
		}
		if s.Width <= 0 || s.Height <= 0 {
			return StreamInfo{}, fault.Newf(fault.StreamDiscovery, "select stream", "video stream #%d has no picture size", s.Index)
		}

		format := PixelFormat(s.PixFmt)
		if !format.Supported() {
			format = YUV420P
		}
		return StreamInfo{
			Index:        s.Index,
			Codec:        s.CodecName,
			Width:        s.Width,
			Height:       s.Height,
			SourceFormat: s.PixFmt,
			Format:       format,
		}, nil
	}

	return StreamInfo{}, fault.Newf(fault.StreamDiscovery, "select stream", "no video stream found")
}

// probeBinary returns the ffprobe that ships next to the ffmpeg binary.
func probeBinary(ffmpegBin string) string {
	if ffmpegBin == "" || filepath.Base(ffmpegBin) == ffmpegBin {
		return "ffprobe"
	}
	return filepath.Join(filepath.Dir(ffmpegBin), "ffprobe"+filepath.Ext(ffmpegBin))
}

// decodeStream keeps the coded orientation: the frame size comes from the
// probed stream, so ffmpeg must not rotate pictures by display matrix.
func decodeStream(path string, info StreamInfo) *ffmpeg.Stream {
	return ffmpeg.Input(path, ffmpeg.KwArgs{"noautorotate": ""}).
		Output("pipe:", ffmpeg.KwArgs{
			"map":     fmt.Sprintf("0:%d", info.Index),
			"format":  "rawvideo",
			"pix_fmt": string(info.Format),
		}).
		GlobalArgs("-hide_banner", "-loglevel", "error", "-nostdin")
}

func decodeCommand(path, bin string, info StreamInfo) (*exec.Cmd, error) {
	if bin == "" {
		bin = "ffmpeg"
	}
	resolved, err := exec.LookPath(bin)
	if err != nil {
		return nil, fault.New(fault.Allocation, "locate ffmpeg", err)
	}

	stream := decodeStream(path, info)
	logrus.WithFields(logrus.Fields{
		"function": "decodeCommand",
		"ffmpeg":   resolved,
		"args":     strings.Join(stream.GetArgs(), " "),
	}).Debug("Compiled decoder command")

	return stream.SetFfmpegPath(resolved).Silent(true).Compile(), nil
}

// Info describes the decoded stream.
func (s *FFmpegSource) Info() StreamInfo {
	return s.info
}

// NextPicture reads the next rawvideo picture from the decoder process.
func (s *FFmpegSource) NextPicture(ctx context.Context) (*RawPicture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.done {
		return nil, io.EOF
	}

	pic, err := s.frames.Next()
	if err == nil {
		return pic, nil
	}

	s.done = true
	if errors.Is(err, io.EOF) {
		if werr := s.cmd.Wait(); werr != nil {
			return nil, fault.New(fault.Decode, "ffmpeg", s.withStderr(werr))
		}
		return nil, io.EOF
	}

	s.kill()
	return nil, fault.New(fault.Decode, "read picture", s.withStderr(err))
}

func (s *FFmpegSource) withStderr(err error) error {
	msg := strings.TrimSpace(s.stderr.String())
	if msg == "" {
		return err
	}
	if i := strings.LastIndexByte(msg, '\n'); i >= 0 {
		msg = msg[i+1:]
	}
	return fmt.Errorf("%w: %s", err, msg)
}

func (s *FFmpegSource) kill() {
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
		_ = s.cmd.Wait()
	}
}

// Close stops the decoder process.
func (s *FFmpegSource) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	s.kill()
	return nil
}

// frameReader cuts a rawvideo byte stream into pictures, reusing one buffer.
type frameReader struct {
	r      io.Reader
	width  int
	height int
	format PixelFormat
	buf    []byte
}

func newFrameReader(r io.Reader, w, h int, format PixelFormat) (*frameReader, error) {
	size, err := format.FrameSize(w, h)
	if err != nil {
		return nil, err
	}
	return &frameReader{r: r, width: w, height: h, format: format, buf: make([]byte, size)}, nil
}

// Next returns io.EOF only when the stream ends exactly on a picture
// boundary; a partial picture is reported as io.ErrUnexpectedEOF.
func (f *frameReader) Next() (*RawPicture, error) {
	n, err := io.ReadFull(f.r, f.buf)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("truncated picture, got %d of %d bytes: %w", n, len(f.buf), err)
		}
		return nil, err
	}
	return SplitPicture(f.buf, f.width, f.height, f.format)
}
