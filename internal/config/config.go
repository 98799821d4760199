// Package config loads vgashell settings.
//
// Settings come from three layers, later layers winning:
//
//  1. Default(), which reproduces the stock NixOS console
//  2. an optional TOML or YAML file, chosen by extension
//  3. VGASHELL_* environment variables
//
// Example file:
//
//	[display]
//	width = 80
//	height = 25
//
//	[shell]
//	prompt = "$ "
//	input_row = 20
//	foreground = "white"
//	background = "green"
//
//	[boot]
//	delay = "500ms"
package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dshills/vgashell/internal/hw"
	"github.com/dshills/vgashell/internal/shell"
)

// EnvPrefix prefixes every environment override, e.g. VGASHELL_SHELL_PROMPT.
const EnvPrefix = "VGASHELL"

// Config is the complete configuration.
type Config struct {
	Display DisplayConfig `toml:"display" yaml:"display"`
	Shell   ShellConfig   `toml:"shell" yaml:"shell"`
	Boot    BootConfig    `toml:"boot" yaml:"boot"`
	Logging LogConfig     `toml:"logging" yaml:"logging"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics"`
}

// DisplayConfig is the text-mode geometry.
type DisplayConfig struct {
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`
}

// ShellConfig is the prompt and theme.
type ShellConfig struct {
	InputRow   int      `toml:"input_row" yaml:"input_row" split_words:"true"`
	Prompt     string   `toml:"prompt" yaml:"prompt"`
	Foreground hw.Color `toml:"foreground" yaml:"foreground"`
	Background hw.Color `toml:"background" yaml:"background"`
}

// BootConfig holds the banner strings and pacing delays.
type BootConfig struct {
	OSName      string   `toml:"os_name" yaml:"os_name" split_words:"true"`
	Version     string   `toml:"version" yaml:"version"`
	Tagline     string   `toml:"tagline" yaml:"tagline"`
	Delay       Duration `toml:"delay" yaml:"delay"`
	RebootDelay Duration `toml:"reboot_delay" yaml:"reboot_delay" split_words:"true"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `toml:"level" yaml:"level"`
	Development bool   `toml:"development" yaml:"development"`
	// File receives log output. Empty disables logging in interactive mode,
	// where the terminal belongs to the emulator.
	File string `toml:"file" yaml:"file"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address for /metrics. Empty disables it.
	Addr string `toml:"addr" yaml:"addr"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Width:  80,
			Height: 25,
		},
		Shell: ShellConfig{
			InputRow:   20,
			Prompt:     "$ ",
			Foreground: hw.ColorWhite,
			Background: hw.ColorGreen,
		},
		Boot: BootConfig{
			OSName:      "NixOS",
			Version:     "v1.0",
			Tagline:     "Where it all begins!",
			Delay:       Duration(500 * time.Millisecond),
			RebootDelay: Duration(time.Second),
		},
		Logging: LogConfig{
			Level: "info",
		},
	}
}

// Attribute returns the shell theme as a packed attribute.
func (c *Config) Attribute() hw.Attribute {
	return hw.MakeAttribute(c.Shell.Foreground, c.Shell.Background)
}

// ShellOptions converts the configuration into shell presentation options.
func (c *Config) ShellOptions() shell.Options {
	return shell.Options{
		InputRow:    c.Shell.InputRow,
		Prompt:      c.Shell.Prompt,
		Attr:        c.Attribute(),
		OSName:      c.Boot.OSName,
		Version:     c.Boot.Version,
		Tagline:     c.Boot.Tagline,
		RebootDelay: c.Boot.RebootDelay.Std(),
	}
}

// Duration is a time.Duration that reads "500ms" style text. A bare
// integer is taken as milliseconds.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String formats like time.Duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)
	if v, err := time.ParseDuration(s); err == nil {
		*d = Duration(v)
		return nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	*d = Duration(time.Duration(ms) * time.Millisecond)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
