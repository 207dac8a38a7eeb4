package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/plot"
	"github.com/gogpu/plot/devices/raster"
)

// config holds the settings of every subcommand.
type config struct {
	Store    string     // archive path
	LogLevel slog.Level // stderr log threshold
	Grow     int        // stream growth increment in bytes
	MaxSize  int        // stream size limit in bytes, 0 for none

	Width      int
	Height     int
	Format     raster.Format
	Background plot.Color
}

func defaultConfig() config {
	return config{
		Store:      "plbuf.db",
		LogLevel:   slog.LevelInfo,
		Grow:       plot.DefaultGrow,
		Width:      800,
		Height:     600,
		Format:     raster.PNG,
		Background: plot.RGB(255, 255, 255),
	}
}

// plbuf.toml key mapping to runtime settings.
type fileConfig struct {
	Store    string `toml:"store"`
	LogLevel string `toml:"log_level"`
	Stream   struct {
		Grow    int `toml:"grow"`
		MaxSize int `toml:"max_size"`
	} `toml:"stream"`
	Raster struct {
		Width      int    `toml:"width"`
		Height     int    `toml:"height"`
		Format     string `toml:"format"`
		Background string `toml:"background"`
	} `toml:"raster"`
}

// loadConfig reads path over the defaults. Only keys present in the file
// override a default. A missing file is not an error when optional is set.
func loadConfig(path string, optional bool) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("store") {
		cfg.Store = strings.TrimSpace(raw.Store)
	}
	if meta.IsDefined("log_level") {
		if err := cfg.LogLevel.UnmarshalText([]byte(raw.LogLevel)); err != nil {
			return config{}, fmt.Errorf("load config: log_level: %w", err)
		}
	}
	if meta.IsDefined("stream", "grow") {
		cfg.Grow = raw.Stream.Grow
	}
	if meta.IsDefined("stream", "max_size") {
		cfg.MaxSize = raw.Stream.MaxSize
	}
	if meta.IsDefined("raster", "width") {
		cfg.Width = raw.Raster.Width
	}
	if meta.IsDefined("raster", "height") {
		cfg.Height = raw.Raster.Height
	}
	if meta.IsDefined("raster", "format") {
		f, err := raster.ParseFormat(raw.Raster.Format)
		if err != nil {
			return config{}, fmt.Errorf("load config: %w", err)
		}
		cfg.Format = f
	}
	if meta.IsDefined("raster", "background") {
		c, err := parseHexColor(raw.Raster.Background)
		if err != nil {
			return config{}, fmt.Errorf("load config: background: %w", err)
		}
		cfg.Background = c
	}

	if err := cfg.validate(); err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c config) validate() error {
	switch {
	case c.Store == "":
		return errors.New("store path is empty")
	case c.Grow <= 0:
		return fmt.Errorf("stream grow must be positive, got %d", c.Grow)
	case c.MaxSize < 0:
		return fmt.Errorf("stream max_size must not be negative, got %d", c.MaxSize)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("raster size %dx%d is not positive", c.Width, c.Height)
	}
	return nil
}

// streamOptions returns the stream options the config asks for.
func (c config) streamOptions() []plot.Option {
	opts := []plot.Option{plot.WithGrow(c.Grow)}
	if c.MaxSize > 0 {
		opts = append(opts, plot.WithMaxSize(c.MaxSize))
	}
	return opts
}

// parseHexColor parses "#rrggbb" or "rrggbb".
func parseHexColor(s string) (plot.Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return plot.Color{}, fmt.Errorf("color %q is not #rrggbb", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return plot.Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return plot.RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}
