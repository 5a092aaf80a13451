package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/pixart"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 600, cfg.Height)
	assert.Equal(t, 10, cfg.BrushRadius)
	assert.Equal(t, 50, cfg.SprayRadius)
	assert.Equal(t, 100, cfg.SprayDensity)
	assert.Zero(t, cfg.HistoryLimit)
	assert.Len(t, cfg.Palette, 28)
	require.NoError(t, cfg.Validate())

	colors, err := cfg.Colors()
	require.NoError(t, err)
	assert.Equal(t, pixart.DefaultPalette, colors)
}

func TestDefaultPath(t *testing.T) {
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(p))
	assert.Equal(t, "config.toml", filepath.Base(p))
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPartial(t *testing.T) {
	p := writeFile(t, t.TempDir(), "c.toml", `
width = 64
spray_density = 7
palette = ["#000", "#ff000080"]
log_level = "debug"
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 600, cfg.Height, "unset keys keep defaults")
	assert.Equal(t, 7, cfg.SprayDensity)
	assert.Equal(t, []string{"#000", "#ff000080"}, cfg.Palette)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	colors, err := cfg.Colors()
	require.NoError(t, err)
	assert.Equal(t, pixart.Black, colors[0])
	assert.InDelta(t, 128.0/255, colors[1].A, 1e-9)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "colour = 3\n"},
		{"bad syntax", "width = = 3\n"},
		{"zero size", "width = 0\n"},
		{"negative brush", "brush_radius = -1\n"},
		{"negative history", "history_limit = -2\n"},
		{"bad colour", "palette = [\"#12\"]\n"},
		{"bad level", "log_level = \"loud\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, t.TempDir(), "c.toml", tt.body)
			cfg, err := Load(p)
			require.Error(t, err)
			assert.Equal(t, Default(), cfg, "failed load returns defaults")
		})
	}
}

func TestValidateIsInvalid(t *testing.T) {
	cfg := Default()
	cfg.Width = -1
	cfg.SprayRadius = -5
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "canvas size")
	assert.Contains(t, err.Error(), "spray")
}

func TestOverlay(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Overlay(Config{Width: 32, Palette: []string{"#fff"}}))
	assert.Equal(t, 32, cfg.Width)
	assert.Equal(t, 600, cfg.Height, "zero fields are ignored")
	assert.Equal(t, 10, cfg.BrushRadius)
	assert.Equal(t, []string{"#fff"}, cfg.Palette)
}

func TestOverlayKeepsPaletteWhenEmpty(t *testing.T) {
	cfg := Default()
	want := slices.Clone(cfg.Palette)
	require.NoError(t, cfg.Overlay(Config{BrushRadius: 3}))
	assert.Equal(t, want, cfg.Palette)
	assert.Equal(t, 3, cfg.BrushRadius)
}

func TestOverlayDoesNotAlias(t *testing.T) {
	src := Config{Palette: []string{"#000", "#fff"}}
	cfg := Default()
	require.NoError(t, cfg.Overlay(src))
	src.Palette[0] = "#f00"
	assert.Equal(t, []string{"#000", "#fff"}, cfg.Palette)
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.HistoryLimit = 20
	data, err := cfg.Encode()
	require.NoError(t, err)

	var got Config
	require.NoError(t, Decode(data, &got))
	assert.Equal(t, cfg, got)
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "c.toml", "width = 10\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, p, func(cfg Config, err error) {
			if err == nil {
				got <- cfg
			}
		})
	}()

	// The watcher starts asynchronously, so keep rewriting until it reports.
	// Writes are spaced wider than the debounce window; closer writes would
	// keep pushing the reload back.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(3 * settle)
	defer tick.Stop()
	for {
		select {
		case cfg := <-got:
			assert.Equal(t, 20, cfg.Width)
			cancel()
			require.NoError(t, <-done)
			return
		case <-tick.C:
			writeFile(t, dir, "c.toml", "width = 20\n")
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "c.toml", "width = 10\n")

	ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
	defer cancel()

	calls := 0
	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0o600)
	}()
	require.NoError(t, WatchFiles(ctx, []string{p}, func(string) { calls++ }))
	assert.Zero(t, calls)
}
