package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/sqweek/dialog"

	"vid-to-ascii/internal/config"
	"vid-to-ascii/internal/decoder"
	"vid-to-ascii/internal/fault"
	"vid-to-ascii/internal/glyph"
	"vid-to-ascii/internal/pacer"
	"vid-to-ascii/internal/player"
	"vid-to-ascii/internal/render"
	"vid-to-ascii/internal/resample"
)

/*
	./vid-to-ascii [flags] path_to_video
	./vid-to-ascii --pick
*/
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd(defaultDeps()).ExecuteContext(ctx)
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err != nil {
		return 1
	}
	return 0
}

// deps are the collaborators play reaches outside the process for.
type deps struct {
	openSource  func(ctx context.Context, engine decoder.Engine, path string, opts decoder.Options) (decoder.Source, error)
	openDisplay func(kind render.DisplayKind, cols, rows int, quit context.CancelFunc) (render.Display, error)
	pickFile    func() (string, error)
}

func defaultDeps() deps {
	return deps{
		openSource: func(ctx context.Context, engine decoder.Engine, path string, opts decoder.Options) (decoder.Source, error) {
			return decoder.Open(ctx, engine, path, opts)
		},
		openDisplay: openDisplay,
		pickFile: func() (string, error) {
			return dialog.File().
				Title("Select a video file").
				Filter("Video files", "mp4", "mkv", "avi", "mov", "webm", "mpg", "mpeg").
				Load()
		},
	}
}

func openDisplay(kind render.DisplayKind, cols, rows int, quit context.CancelFunc) (render.Display, error) {
	switch kind {
	case render.DisplayANSI:
		s, err := render.OpenTerminalStream(os.Stdout, cols, rows)
		if err != nil {
			return nil, fault.New(fault.Allocation, "open terminal stream", err)
		}
		return s, nil
	default:
		s, err := render.OpenScreen()
		if err != nil {
			return nil, fault.New(fault.Allocation, "open screen", err)
		}
		s.WatchKeys(quit)
		return s, nil
	}
}

func newRootCmd(d deps) *cobra.Command {
	var (
		configPath string
		pick       bool
		fv         = config.Default()
	)

	cmd := &cobra.Command{
		Use:           "vid-to-ascii [flags] <media-file>",
		Short:         "Play the first video stream of a media file as ASCII art in the terminal",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags(), configPath, fv)
			if err != nil {
				return report(err)
			}

			closer, err := setupLogging(cfg.LogLevel, cfg.LogFile)
			if err != nil {
				return report(err)
			}
			defer closer.Close()

			path, err := inputPath(args, pick, d.pickFile)
			if err != nil {
				return report(err)
			}

			return report(play(cmd.Context(), cfg, path, d))
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "YAML configuration file")
	f.BoolVar(&pick, "pick", false, "Choose the media file with a file dialog")
	f.StringVar(&fv.Engine, "engine", fv.Engine, "Decoder engine: ffmpeg, vidio or mpeg1")
	f.StringVar(&fv.Display, "display", fv.Display, "Display: screen (managed) or ansi (escape codes on stdout)")
	f.IntVar(&fv.Width, "width", fv.Width, "Output width in glyphs, 0 keeps the source width")
	f.IntVar(&fv.Height, "height", fv.Height, "Output height in glyphs, 0 keeps the source height")
	f.StringVar(&fv.Palette, "palette", fv.Palette, "Glyphs ordered from least to most salient")
	f.StringVar(&fv.Quant, "quant", fv.Quant, "Quantization: modulo or linear")
	f.StringVar(&fv.Filter, "filter", fv.Filter, "Resample filter: nearest, bilinear, bicubic, mitchell, lanczos2, lanczos3")
	f.IntVar(&fv.MaxFPS, "fps", fv.MaxFPS, "Maximum frames per second")
	f.StringVar(&fv.Pacing, "pacing", fv.Pacing, "Frame pacing: deadline or fixed")
	f.IntVar(&fv.MaxFrames, "max-frames", fv.MaxFrames, "Stop after this many decoded pictures")
	f.StringVar(&fv.Delimiter, "delimiter", fv.Delimiter, "Separator printed between glyphs")
	f.BoolVar(&fv.Status, "status", fv.Status, "Show a frame/fps info line under the picture")
	f.BoolVar(&fv.SkipCorrupt, "skip-corrupt", fv.SkipCorrupt, "Skip pictures that fail to resample instead of stopping")
	f.StringVar(&fv.FFmpegPath, "ffmpeg", fv.FFmpegPath, "Path to the ffmpeg binary")
	f.DurationVar(&fv.ProbeTimeout, "probe-timeout", fv.ProbeTimeout, "Timeout for reading stream information")
	f.StringVar(&fv.LogLevel, "log-level", fv.LogLevel, "Log level: debug, info, warn, error")
	f.StringVar(&fv.LogFile, "log-file", fv.LogFile, "Write the log to this file instead of stderr")

	return cmd
}

// resolveConfig loads the config file and applies the flags the user set.
func resolveConfig(flags *pflag.FlagSet, path string, fv *config.Config) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	overrides := map[string]func(){
		"engine":        func() { cfg.Engine = fv.Engine },
		"display":       func() { cfg.Display = fv.Display },
		"width":         func() { cfg.Width = fv.Width },
		"height":        func() { cfg.Height = fv.Height },
		"palette":       func() { cfg.Palette = fv.Palette },
		"quant":         func() { cfg.Quant = fv.Quant },
		"filter":        func() { cfg.Filter = fv.Filter },
		"fps":           func() { cfg.MaxFPS = fv.MaxFPS },
		"pacing":        func() { cfg.Pacing = fv.Pacing },
		"max-frames":    func() { cfg.MaxFrames = fv.MaxFrames },
		"delimiter":     func() { cfg.Delimiter = fv.Delimiter },
		"status":        func() { cfg.Status = fv.Status },
		"skip-corrupt":  func() { cfg.SkipCorrupt = fv.SkipCorrupt },
		"ffmpeg":        func() { cfg.FFmpegPath = fv.FFmpegPath },
		"probe-timeout": func() { cfg.ProbeTimeout = fv.ProbeTimeout },
		"log-level":     func() { cfg.LogLevel = fv.LogLevel },
		"log-file":      func() { cfg.LogFile = fv.LogFile },
	}
	flags.Visit(func(f *pflag.Flag) {
		if set, ok := overrides[f.Name]; ok {
			set()
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupLogging(level, file string) (io.Closer, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if file == "" {
		logrus.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func inputPath(args []string, pick bool, pickFile func() (string, error)) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if !pick {
		return "", errors.New("you need to specify a media file")
	}

	path, err := pickFile()
	if err != nil {
		return "", fmt.Errorf("select file: %w", err)
	}
	return path, nil
}

// errOut receives the one-line diagnostic for fatal errors.
var errOut io.Writer = os.Stderr

// report writes a fatal error to stderr, and to the log when the log is
// kept elsewhere.
func report(err error) error {
	if err == nil {
		return nil
	}
	fmt.Fprintln(errOut, "Error:", err)
	if logrus.StandardLogger().Out == errOut {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"function": "main",
		"kind":     fault.KindOf(err).String(),
	}).WithError(err).Error("Playback aborted")
	return err
}

// play opens the source first so that an input without video never touches
// the terminal, then holds the display for the whole session.
func play(ctx context.Context, cfg *config.Config, path string, d deps) error {
	if _, err := os.Stat(path); err != nil {
		return fault.New(fault.StreamDiscovery, "open "+path, err)
	}

	palette, err := glyph.NewPalette(cfg.Palette)
	if err != nil {
		return err
	}
	quant, err := glyph.NewQuantizer(palette, glyph.Mode(cfg.Quant))
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"function": "play",
		"file":     path,
		"engine":   cfg.Engine,
	}).Info("Initializing decoder")

	src, err := d.openSource(ctx, decoder.Engine(cfg.Engine), path, decoder.Options{
		FFmpegPath:   cfg.FFmpegPath,
		ProbeTimeout: cfg.ProbeTimeout,
	})
	if err != nil {
		return err
	}
	defer src.Close()

	width, height := cfg.Width, cfg.Height
	if info := src.Info(); width == 0 || height == 0 {
		if width == 0 {
			width = info.Width
		}
		if height == 0 {
			height = info.Height
		}
	}
	cols, rows := render.FrameSize(glyph.Grid{Width: width, Height: height}, cfg.Delimiter, cfg.Status)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	display, err := d.openDisplay(render.DisplayKind(cfg.Display), cols, rows, cancel)
	if err != nil {
		return err
	}
	defer display.Close()

	p := &player.Player{
		Source:      src,
		Resampler:   resample.New(cfg.Width, cfg.Height, resample.Filter(cfg.Filter)),
		Quantizer:   quant,
		Renderer:    render.NewRenderer(display, pacer.New(cfg.MaxFPS, pacer.Mode(cfg.Pacing)), cfg.Delimiter, cfg.Status),
		MaxFrames:   cfg.MaxFrames,
		SkipCorrupt: cfg.SkipCorrupt,
	}

	start := time.Now()
	stats, err := p.Run(ctx)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"function": "play",
		"frames":   stats.Rendered,
		"elapsed":  time.Since(start).Round(time.Second),
	}).Info("Releasing all the resources")
	return nil
}
