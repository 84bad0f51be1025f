// Package config handles application configuration and setup
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrogolib/config"
	"github.com/retroenv/retrogolib/log"
)

// Display defaults, a light indigo on dark indigo palette.
const (
	DefaultScale      = 20
	DefaultBackground = 0x1A237E
	DefaultForeground = 0x9FA8DA
)

// File is the optional configuration file shared by all front ends.
type File struct {
	Display Display `config:"display"`
	Log     Log     `config:"log"`
}

// Display configures how the framebuffer is rendered.
type Display struct {
	Scale      int `config:"scale,default=20"`         // Host pixels per CHIP-8 pixel
	Foreground int `config:"foreground,default=0x9FA8DA"` // RGB color of lit pixels
	Background int `config:"background,default=0x1A237E"` // RGB color of unlit pixels
}

// Log configures the logger.
type Log struct {
	Level string `config:"level,default=info"` // trace, debug, info, warn or error
}

// Default returns the configuration used when no file is given.
func Default() File {
	return File{
		Display: Display{
			Scale:      DefaultScale,
			Foreground: DefaultForeground,
			Background: DefaultBackground,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads a configuration file. An empty filename returns the defaults.
func Load(filename string) (File, error) {
	if filename == "" {
		return Default(), nil
	}

	doc, err := config.Open(filename, config.Options{})
	if err != nil {
		return File{}, fmt.Errorf("opening config file '%s': %w", filename, err)
	}

	var f File
	if err := doc.Unmarshal(&f); err != nil {
		return File{}, fmt.Errorf("reading config file '%s': %w", filename, err)
	}
	if err := f.validate(); err != nil {
		return File{}, fmt.Errorf("config file '%s': %w", filename, err)
	}
	return f, nil
}

func (f File) validate() error {
	if f.Display.Scale < 1 {
		return fmt.Errorf("display scale %d must be positive", f.Display.Scale)
	}
	for name, c := range map[string]int{
		"foreground": f.Display.Foreground,
		"background": f.Display.Background,
	} {
		if c < 0 || c > 0xFFFFFF {
			return fmt.Errorf("display %s 0x%X is not an RGB color", name, c)
		}
	}
	if _, err := ParseLevel(f.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel converts a level name to a log level.
func ParseLevel(name string) (log.Level, error) {
	switch strings.ToLower(name) {
	case "trace":
		return log.TraceLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("unsupported log level '%s'", name)
	}
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// NewLogger creates a logger for the configured level writing to output,
// or to stdout if output is nil. The debug and quiet flags take precedence
// over the level.
func NewLogger(level log.Level, debug, quiet bool, output io.Writer) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = level
	cfg.Output = output
	if debug {
		cfg.Level = min(cfg.Level, log.DebugLevel)
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
