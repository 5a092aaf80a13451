// Package config loads the pixart command-line settings file.
//
// Settings live in a TOML file, by default ~/.config/pixart/config.toml.
// Keys missing from the file keep their defaults and unknown keys are
// rejected. Command-line flags are overlaid on top with Overlay.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/jinzhu/copier"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/pixart"
	"github.com/gogpu/pixart/tool"
)

// DefaultFile is the settings path before home directory expansion.
const DefaultFile = "~/.config/pixart/config.toml"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config holds the CLI settings. The struct is flat so that Overlay can
// skip zero fields one by one.
type Config struct {
	Width        int      `toml:"width"`
	Height       int      `toml:"height"`
	BrushRadius  int      `toml:"brush_radius"`
	SprayRadius  int      `toml:"spray_radius"`
	SprayDensity int      `toml:"spray_density"`
	HistoryLimit int      `toml:"history_limit"`
	Palette      []string `toml:"palette"`
	LogLevel     string   `toml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	palette := make([]string, len(pixart.DefaultPalette))
	for i, c := range pixart.DefaultPalette {
		palette[i] = c.Hex()
	}
	return Config{
		Width:        800,
		Height:       600,
		BrushRadius:  tool.DefaultBrushRadius,
		SprayRadius:  tool.DefaultSprayRadius,
		SprayDensity: tool.DefaultSprayDensity,
		Palette:      palette,
		LogLevel:     "info",
	}
}

// DefaultPath returns DefaultFile with the home directory expanded.
func DefaultPath() (string, error) {
	p, err := homedir.Expand(DefaultFile)
	if err != nil {
		return "", fmt.Errorf("config: expand %s: %w", DefaultFile, err)
	}
	return p, nil
}

// Load reads the settings file at path on top of Default. A missing file is
// not an error. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	path, err := homedir.Expand(path)
	if err != nil {
		return cfg, fmt.Errorf("config: expand %s: %w", path, err)
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, fs.ErrNotExist) {
		pixart.Logger().Debug("no config file, using defaults", "path", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML into cfg. Keys absent from data leave cfg untouched.
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("%w: %s", ErrInvalid, strict.String())
		}
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// Encode renders cfg as TOML.
func (c Config) Encode() ([]byte, error) {
	b, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	return b, nil
}

// Overlay copies every non-zero field of src onto c. It is how command-line
// flags override the file. A non-empty palette replaces the whole palette.
func (c *Config) Overlay(src Config) error {
	palette := src.Palette
	src.Palette = nil
	if err := copier.CopyWithOption(c, &src, copier.Option{IgnoreEmpty: true}); err != nil {
		return fmt.Errorf("config: overlay: %w", err)
	}
	if len(palette) > 0 {
		c.Palette = slices.Clone(palette)
	}
	return nil
}

// Validate rejects settings that cannot produce a working session.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: canvas size %dx%d", ErrInvalid, c.Width, c.Height))
	}
	if c.BrushRadius < 0 {
		errs = append(errs, fmt.Errorf("%w: brush_radius %d", ErrInvalid, c.BrushRadius))
	}
	if c.SprayRadius < 0 || c.SprayDensity < 0 {
		errs = append(errs, fmt.Errorf("%w: spray %d/%d", ErrInvalid, c.SprayRadius, c.SprayDensity))
	}
	if c.HistoryLimit < 0 {
		errs = append(errs, fmt.Errorf("%w: history_limit %d", ErrInvalid, c.HistoryLimit))
	}
	if _, err := c.Colors(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Colors parses the palette.
func (c Config) Colors() ([]pixart.RGBA, error) {
	out := make([]pixart.RGBA, 0, len(c.Palette))
	for i, s := range c.Palette {
		col, err := pixart.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("%w: palette[%d]: %w", ErrInvalid, i, err)
		}
		out = append(out, col)
	}
	return out, nil
}

// Level parses LogLevel. An empty level means info.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log_level: %w", ErrInvalid, err)
	}
	return l, nil
}

// ToolOptions returns the tool context options these settings describe.
func (c Config) ToolOptions() []tool.Option {
	return []tool.Option{
		tool.WithBrushRadius(c.BrushRadius),
		tool.WithSpray(c.SprayRadius, c.SprayDensity),
	}
}

// HistoryOptions returns the history options these settings describe.
func (c Config) HistoryOptions() []pixart.HistoryOption {
	return []pixart.HistoryOption{pixart.WithLimit(c.HistoryLimit)}
}
