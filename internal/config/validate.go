package config

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

// Geometry limits. Width*Height must stay below the hidden-cursor offset,
// and the built-in commands draw on fixed rows up to 15.
const (
	MinWidth  = 40
	MaxWidth  = 255
	MinHeight = 16
	MaxHeight = 255
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error

	if c.Display.Width < MinWidth || c.Display.Width > MaxWidth {
		err = multierr.Append(err, fmt.Errorf("display.width %d not in [%d, %d]", c.Display.Width, MinWidth, MaxWidth))
	}
	if c.Display.Height < MinHeight || c.Display.Height > MaxHeight {
		err = multierr.Append(err, fmt.Errorf("display.height %d not in [%d, %d]", c.Display.Height, MinHeight, MaxHeight))
	}
	if c.Shell.InputRow < 0 || c.Shell.InputRow >= c.Display.Height {
		err = multierr.Append(err, fmt.Errorf("shell.input_row %d outside the display", c.Shell.InputRow))
	}
	if len(c.Shell.Prompt) >= c.Display.Width {
		err = multierr.Append(err, fmt.Errorf("shell.prompt is %d bytes, display is %d wide", len(c.Shell.Prompt), c.Display.Width))
	}
	for i := 0; i < len(c.Shell.Prompt); i++ {
		if b := c.Shell.Prompt[i]; b < 32 || b > 126 {
			err = multierr.Append(err, fmt.Errorf("shell.prompt has non-printable byte %#x", b))
			break
		}
	}
	if !c.Shell.Foreground.Valid() {
		err = multierr.Append(err, fmt.Errorf("shell.foreground %d is not a palette color", c.Shell.Foreground))
	}
	if !c.Shell.Background.Valid() {
		err = multierr.Append(err, fmt.Errorf("shell.background %d is not a palette color", c.Shell.Background))
	}
	if c.Boot.Delay < 0 {
		err = multierr.Append(err, fmt.Errorf("boot.delay %s is negative", c.Boot.Delay))
	}
	if c.Boot.RebootDelay < 0 {
		err = multierr.Append(err, fmt.Errorf("boot.reboot_delay %s is negative", c.Boot.RebootDelay))
	}
	if _, lerr := zapcore.ParseLevel(c.Logging.Level); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("logging.level: %w", lerr))
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
