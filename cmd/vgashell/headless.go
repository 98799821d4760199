package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/dshills/vgashell/internal/config"
	"github.com/dshills/vgashell/internal/hw"
	"github.com/dshills/vgashell/internal/kernel"
	"github.com/dshills/vgashell/internal/keyboard"
	"github.com/dshills/vgashell/internal/metrics"
)

var scriptEscapes = strings.NewReplacer(`\n`, "\n", `\b`, "\b", `\t`, "\t", `\\`, `\`)

// headlessScript returns the key script, reading stdin for "-". Escapes
// are only expanded in flag text; stdin is taken literally.
func headlessScript(input string, stdin io.Reader) (string, error) {
	if input != "-" {
		return scriptEscapes.Replace(input), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// runHeadless boots the kernel on an in-memory machine, types script, and
// writes the final screen to out once the script runs dry.
func runHeadless(cfg *config.Config, script string, logger *zap.Logger, rec metrics.Recorder, out io.Writer) error {
	m := hw.NewNullMachine(cfg.Display.Width, cfg.Display.Height)
	m.Feed(keyboard.Script(script)...)

	err := kernel.Main(m,
		kernel.WithConfig(cfg),
		kernel.WithDelayer(hw.NoDelay{}),
		kernel.WithLogger(logger.Named("kernel")),
		kernel.WithRecorder(rec),
	)
	if !errors.Is(err, hw.ErrNoInput) {
		return err
	}

	if _, err := io.WriteString(out, m.Text()); err != nil {
		return fmt.Errorf("writing screen: %w", err)
	}
	return nil
}
