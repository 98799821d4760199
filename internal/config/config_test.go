package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vgashell/internal/hw"
	"github.com/dshills/vgashell/internal/shell"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultMatchesShellDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, shell.DefaultOptions(), cfg.ShellOptions())
	assert.Equal(t, hw.Attribute(0x2F), cfg.Attribute())
	assert.Equal(t, 80, cfg.Display.Width)
	assert.Equal(t, 25, cfg.Display.Height)
	assert.Equal(t, 500*time.Millisecond, cfg.Boot.Delay.Std())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "vgashell.toml", `
[display]
width = 100
height = 30

[shell]
prompt = "> "
input_row = 28
foreground = "yellow"
background = "blue"

[boot]
os_name = "TestOS"
delay = "250ms"
reboot_delay = "2s"

[logging]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Display.Width)
	assert.Equal(t, 30, cfg.Display.Height)
	assert.Equal(t, "> ", cfg.Shell.Prompt)
	assert.Equal(t, 28, cfg.Shell.InputRow)
	assert.Equal(t, hw.ColorLightBrown, cfg.Shell.Foreground)
	assert.Equal(t, hw.ColorBlue, cfg.Shell.Background)
	assert.Equal(t, "TestOS", cfg.Boot.OSName)
	assert.Equal(t, 250*time.Millisecond, cfg.Boot.Delay.Std())
	assert.Equal(t, 2*time.Second, cfg.Boot.RebootDelay.Std())
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched keys keep their defaults.
	assert.Equal(t, "v1.0", cfg.Boot.Version)
	assert.Equal(t, "Where it all begins!", cfg.Boot.Tagline)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "vgashell.yaml", `
shell:
  prompt: "# "
  foreground: light-cyan
boot:
  version: v2.0
  delay: 0s
metrics:
  addr: ":9090"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "# ", cfg.Shell.Prompt)
	assert.Equal(t, hw.ColorLightCyan, cfg.Shell.Foreground)
	assert.Equal(t, hw.ColorGreen, cfg.Shell.Background)
	assert.Equal(t, "v2.0", cfg.Boot.Version)
	assert.Equal(t, time.Duration(0), cfg.Boot.Delay.Std())
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadUnknownKey(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "bad.toml", "[shell]\npromt = \"> \"\n"},
		{"yaml", "bad.yaml", "shell:\n  promt: \"> \"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Contains(t, perr.Path, tt.file)
		})
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load(writeFile(t, "vgashell.json", "{}"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadBadColor(t *testing.T) {
	_, err := Load(writeFile(t, "vgashell.toml", "[shell]\nforeground = \"mauve\"\n"))
	require.Error(t, err)

	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestEnvironmentOverrides(t *testing.T) {
	path := writeFile(t, "vgashell.toml", "[shell]\nprompt = \"> \"\n")

	t.Setenv("VGASHELL_SHELL_PROMPT", "% ")
	t.Setenv("VGASHELL_SHELL_INPUT_ROW", "22")
	t.Setenv("VGASHELL_SHELL_BACKGROUND", "red")
	t.Setenv("VGASHELL_BOOT_OS_NAME", "EnvOS")
	t.Setenv("VGASHELL_BOOT_REBOOT_DELAY", "10ms")
	t.Setenv("VGASHELL_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "% ", cfg.Shell.Prompt)
	assert.Equal(t, 22, cfg.Shell.InputRow)
	assert.Equal(t, hw.ColorRed, cfg.Shell.Background)
	assert.Equal(t, "EnvOS", cfg.Boot.OSName)
	assert.Equal(t, 10*time.Millisecond, cfg.Boot.RebootDelay.Std())
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestEnvironmentBadValue(t *testing.T) {
	t.Setenv("VGASHELL_DISPLAY_WIDTH", "wide")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"narrow", func(c *Config) { c.Display.Width = 10 }, "display.width"},
		{"too wide", func(c *Config) { c.Display.Width = 300 }, "display.width"},
		{"short", func(c *Config) { c.Display.Height = 2 }, "display.height"},
		{"below help rows", func(c *Config) { c.Display.Height = 15; c.Shell.InputRow = 14 }, "display.height"},
		{"input row below", func(c *Config) { c.Shell.InputRow = 25 }, "shell.input_row"},
		{"input row negative", func(c *Config) { c.Shell.InputRow = -1 }, "shell.input_row"},
		{"control prompt", func(c *Config) { c.Shell.Prompt = "\t$ " }, "non-printable"},
		{"foreground", func(c *Config) { c.Shell.Foreground = 16 }, "shell.foreground"},
		{"background", func(c *Config) { c.Shell.Background = 200 }, "shell.background"},
		{"boot delay", func(c *Config) { c.Boot.Delay = Duration(-time.Second) }, "boot.delay"},
		{"reboot delay", func(c *Config) { c.Boot.RebootDelay = Duration(-1) }, "boot.reboot_delay"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Display.Width = 1
	cfg.Shell.Foreground = 99
	cfg.Logging.Level = "nope"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "display.width")
	assert.Contains(t, err.Error(), "shell.foreground")
	assert.Contains(t, err.Error(), "logging.level")
}

func TestSmallestDisplay(t *testing.T) {
	cfg := Default()
	cfg.Display.Width = MinWidth
	cfg.Display.Height = MinHeight
	cfg.Shell.InputRow = MinHeight - 1

	assert.NoError(t, cfg.Validate())
}

func TestPromptWiderThanDisplay(t *testing.T) {
	cfg := Default()
	cfg.Display.Width = MinWidth
	cfg.Shell.Prompt = "0123456789012345678901234567890123456789"

	assert.ErrorContains(t, cfg.Validate(), "shell.prompt")
}

func TestDurationText(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"500ms", 500 * time.Millisecond},
		{"1s", time.Second},
		{"1m30s", 90 * time.Second},
		{"250", 250 * time.Millisecond},
		{"0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration
			require.NoError(t, d.UnmarshalText([]byte(tt.in)))
			assert.Equal(t, tt.want, d.Std())
		})
	}

	var d Duration
	assert.Error(t, d.UnmarshalText([]byte("soon")))

	text, err := Duration(1500 * time.Millisecond).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", string(text))
}
