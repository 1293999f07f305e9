// Package player drives pictures from a decoder through the resampler and
// quantizer to the renderer.
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"vid-to-ascii/internal/decoder"
	"vid-to-ascii/internal/glyph"
	"vid-to-ascii/internal/resample"
)

// Resampler scales raw pictures to the output size.
type Resampler interface {
	Resample(pic *decoder.RawPicture) (*resample.Picture, error)
}

// Renderer shows a grid and bounds the display rate.
type Renderer interface {
	Render(ctx context.Context, g glyph.Grid) error
}

// Player runs the per-picture pipeline synchronously.
type Player struct {
	Source    decoder.Source
	Resampler Resampler
	Quantizer *glyph.Quantizer
	Renderer  Renderer
	// MaxFrames caps the number of decoded pictures.
	MaxFrames int
	// SkipCorrupt logs and drops pictures that fail to resample instead of
	// aborting the run.
	SkipCorrupt bool
}

// Stats summarises a run.
type Stats struct {
	Decoded  int
	Rendered int
	Skipped  int
	Elapsed  time.Duration
	// Reason is why the loop stopped: "end of stream", "frame cap",
	// "interrupted" or "error".
	Reason string
}

// FPS is the effective display rate of the run.
func (s Stats) FPS() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Rendered) / s.Elapsed.Seconds()
}

// Run plays until the stream ends, MaxFrames pictures were decoded or ctx is
// cancelled, all of which return a nil error. Decode, resample and render
// failures stop the run and are returned.
func (p *Player) Run(ctx context.Context) (stats Stats, err error) {
	start := time.Now()
	defer func() {
		stats.Elapsed = time.Since(start)
		logrus.WithFields(logrus.Fields{
			"function": "Run",
			"decoded":  stats.Decoded,
			"rendered": stats.Rendered,
			"skipped":  stats.Skipped,
			"elapsed":  stats.Elapsed.Round(time.Millisecond),
			"fps":      fmt.Sprintf("%.1f", stats.FPS()),
			"reason":   stats.Reason,
		}).Info("Playback finished")
	}()

	for stats.Decoded < p.MaxFrames {
		pic, err := p.Source.NextPicture(ctx)
		if errors.Is(err, io.EOF) {
			stats.Reason = "end of stream"
			return stats, nil
		}
		if ctx.Err() != nil {
			stats.Reason = "interrupted"
			return stats, nil
		}
		if err != nil {
			stats.Reason = "error"
			return stats, err
		}
		stats.Decoded++

		out, err := p.Resampler.Resample(pic)
		if err != nil {
			if p.SkipCorrupt {
				stats.Skipped++
				logrus.WithFields(logrus.Fields{
					"function": "Run",
					"picture":  stats.Decoded,
					"error":    err,
				}).Warn("Skipping picture that could not be resampled")
				continue
			}
			stats.Reason = "error"
			return stats, err
		}

		luma, stride := out.Luma()
		grid, err := p.Quantizer.Quantize(luma, stride, out.Width, out.Height)
		if err != nil {
			stats.Reason = "error"
			return stats, fmt.Errorf("quantize picture %d: %w", stats.Decoded, err)
		}

		if err := p.Renderer.Render(ctx, grid); err != nil {
			if ctx.Err() != nil {
				stats.Rendered++
				stats.Reason = "interrupted"
				return stats, nil
			}
			stats.Reason = "error"
			return stats, fmt.Errorf("render picture %d: %w", stats.Decoded, err)
		}
		stats.Rendered++
	}

	stats.Reason = "frame cap"
	return stats, nil
}
