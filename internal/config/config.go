// Package config holds the player settings and their defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"vid-to-ascii/internal/decoder"
	"vid-to-ascii/internal/glyph"
	"vid-to-ascii/internal/pacer"
	"vid-to-ascii/internal/render"
	"vid-to-ascii/internal/resample"
)

// Reference playback constants.
const (
	DefaultWidth     = 64
	DefaultHeight    = 48
	DefaultMaxFPS    = 30
	DefaultMaxFrames = 100000
)

// Config holds all player configuration values.
type Config struct {
	Engine       string        `yaml:"engine"`
	Display      string        `yaml:"display"`
	Width        int           `yaml:"width"`
	Height       int           `yaml:"height"`
	Palette      string        `yaml:"palette"`
	Quant        string        `yaml:"quant"`
	Filter       string        `yaml:"filter"`
	MaxFPS       int           `yaml:"max_fps"`
	Pacing       string        `yaml:"pacing"`
	MaxFrames    int           `yaml:"max_frames"`
	Delimiter    string        `yaml:"delimiter"`
	Status       bool          `yaml:"status"`
	SkipCorrupt  bool          `yaml:"skip_corrupt"`
	FFmpegPath   string        `yaml:"ffmpeg"`
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
	LogLevel     string        `yaml:"log_level"`
	LogFile      string        `yaml:"log_file"`
}

// Default returns the reference configuration.
func Default() *Config {
	return &Config{
		Engine:       string(decoder.EngineFFmpeg),
		Display:      string(render.DisplayScreen),
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		Palette:      glyph.DefaultPalette,
		Quant:        string(glyph.ModeModulo),
		Filter:       string(resample.Bicubic),
		MaxFPS:       DefaultMaxFPS,
		Pacing:       string(pacer.ModeDeadline),
		MaxFrames:    DefaultMaxFrames,
		Delimiter:    " ",
		FFmpegPath:   "ffmpeg",
		ProbeTimeout: 5 * time.Second,
		LogLevel:     "info",
	}
}

// Load reads a YAML file on top of the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	if _, err := decoder.ParseEngine(c.Engine); err != nil {
		errs = append(errs, err)
	}
	if _, err := render.ParseDisplay(c.Display); err != nil {
		errs = append(errs, err)
	}
	if c.Width < 0 || c.Height < 0 {
		errs = append(errs, fmt.Errorf("invalid output size %dx%d", c.Width, c.Height))
	}
	if n := utf8.RuneCountInString(c.Palette); n < 2 {
		errs = append(errs, fmt.Errorf("palette needs at least 2 glyphs, got %d", n))
	}
	if _, err := glyph.ParseMode(c.Quant); err != nil {
		errs = append(errs, err)
	}
	if _, err := resample.ParseFilter(c.Filter); err != nil {
		errs = append(errs, err)
	}
	if c.MaxFPS <= 0 {
		errs = append(errs, fmt.Errorf("max fps must be positive, got %d", c.MaxFPS))
	}
	if _, err := pacer.ParseMode(c.Pacing); err != nil {
		errs = append(errs, err)
	}
	if c.MaxFrames <= 0 {
		errs = append(errs, fmt.Errorf("max frames must be positive, got %d", c.MaxFrames))
	}
	if c.ProbeTimeout <= 0 {
		errs = append(errs, fmt.Errorf("probe timeout must be positive, got %s", c.ProbeTimeout))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
