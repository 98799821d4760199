// Package kernel wires the display surface, keyboard decoder and shell onto
// a machine and runs the boot/reboot cycle.
package kernel

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/vgashell/internal/config"
	"github.com/dshills/vgashell/internal/hw"
	"github.com/dshills/vgashell/internal/keyboard"
	"github.com/dshills/vgashell/internal/metrics"
	"github.com/dshills/vgashell/internal/shell"
	"github.com/dshills/vgashell/internal/vga"
)

// Banner rows.
const (
	startingRow = 10
	welcomeRow  = 12
	ruleRow     = 13
)

const rule = "=================="

// Kernel boots a shell on a machine.
type Kernel struct {
	machine  hw.Machine
	source   func() *config.Config
	table    *shell.Table
	delay    hw.Delayer
	logger   *zap.Logger
	recorder metrics.Recorder

	boots  int
	bootID string
	shell  *shell.Shell
}

// Option configures a Kernel.
type Option func(*Kernel)

// WithConfig boots every time with cfg.
func WithConfig(cfg *config.Config) Option {
	return func(k *Kernel) {
		if cfg != nil {
			k.source = func() *config.Config { return cfg }
		}
	}
}

// WithConfigSource consults fn at the start of every boot, so a reloaded
// configuration takes effect after the next reboot.
func WithConfigSource(fn func() *config.Config) Option {
	return func(k *Kernel) {
		if fn != nil {
			k.source = fn
		}
	}
}

// WithTable replaces the built-in command table.
func WithTable(t *shell.Table) Option {
	return func(k *Kernel) {
		k.table = t
	}
}

// WithDelayer sets the pacing primitive for the boot and reboot pauses.
func WithDelayer(d hw.Delayer) Option {
	return func(k *Kernel) {
		if d != nil {
			k.delay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(k *Kernel) {
		if l != nil {
			k.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(k *Kernel) {
		k.recorder = metrics.OrNop(r)
	}
}

// New creates a kernel for m.
func New(m hw.Machine, opts ...Option) *Kernel {
	k := &Kernel{
		machine:  m,
		source:   config.Default,
		delay:    hw.Sleep{},
		logger:   zap.NewNop(),
		recorder: metrics.Nop{},
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Main runs the kernel on m until the keyboard source fails.
func Main(m hw.Machine, opts ...Option) error {
	return New(m, opts...).Run()
}

// Run boots repeatedly. When the shell halts the machine is reset; on real
// hardware Reset does not return, on a host it does and the kernel boots
// again. Run returns the first error that is not a reboot request.
func (k *Kernel) Run() error {
	for {
		err := k.Boot()
		if !errors.Is(err, shell.ErrReboot) {
			return err
		}
		k.logger.Warn("resetting machine", zap.String("boot_id", k.bootID))
		k.machine.Reset()
	}
}

// Boot performs one boot: banner, pause, then the shell loop. It returns
// whatever ends the shell loop.
func (k *Kernel) Boot() error {
	cfg := k.source()
	k.boots++
	k.bootID = uuid.NewString()
	logger := k.logger.With(zap.String("boot_id", k.bootID))

	surface := vga.New(k.machine,
		vga.WithSize(cfg.Display.Width, cfg.Display.Height),
		vga.WithRecorder(k.recorder),
	)
	k.Banner(surface, cfg)

	k.recorder.Booted()
	logger.Info("booted",
		zap.Int("boot", k.boots),
		zap.String("os", cfg.Boot.OSName),
		zap.Int("width", cfg.Display.Width),
		zap.Int("height", cfg.Display.Height),
	)

	opts := []shell.Option{
		shell.WithOptions(cfg.ShellOptions()),
		shell.WithDelayer(k.delay),
		shell.WithLogger(logger),
		shell.WithRecorder(k.recorder),
	}
	if k.table != nil {
		opts = append(opts, shell.WithTable(k.table))
	}
	k.shell = shell.New(surface, keyboard.NewDecoder(k.machine, k.recorder), opts...)

	return k.shell.Run()
}

// Banner paints the startup screen and waits out the boot delay. The
// hardware cursor stays hidden while the banner is up.
func (k *Kernel) Banner(surface *vga.Surface, cfg *config.Config) {
	surface.HideCursor()
	surface.Fill(cfg.Attribute())
	surface.PrintCentered(cfg.Boot.OSName+" Kernel Starting...", startingRow)
	surface.PrintCentered("Welcome to "+cfg.Boot.OSName+"!", welcomeRow)
	surface.PrintCentered(rule, ruleRow)
	k.delay.Delay(cfg.Boot.Delay.Std())
	surface.ShowCursor()
}

// Boots returns how many times the kernel has booted.
func (k *Kernel) Boots() int {
	return k.boots
}

// BootID identifies the current boot in logs.
func (k *Kernel) BootID() string {
	return k.bootID
}

// Shell returns the shell of the current boot, or nil before the first.
func (k *Kernel) Shell() *shell.Shell {
	return k.shell
}
