// Package shell implements the line-editing command shell: a prompt on a
// fixed input row, a bounded line buffer with backspace, and dispatch of
// completed lines to a fixed command table.
//
// The shell owns the surface and decoder it is given and runs on a single
// goroutine. Its only blocking point is the keyboard poll.
package shell

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/vgashell/internal/hw"
	"github.com/dshills/vgashell/internal/keyboard"
	"github.com/dshills/vgashell/internal/metrics"
	"github.com/dshills/vgashell/internal/vga"
)

// Line limits.
const (
	MaxLine = 255
	MaxName = 63
	MaxArgs = 191
)

// Outcome tells the loop whether to keep reading input.
type Outcome int

const (
	// Continue keeps the prompt loop running.
	Continue Outcome = iota
	// Halt ends the loop; the machine should be reset.
	Halt
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Halt:
		return "halt"
	default:
		return "unknown"
	}
}

// Options are the shell's fixed presentation settings.
type Options struct {
	// InputRow is the row the prompt is drawn on.
	InputRow int
	// Prompt is printed at the start of the input row.
	Prompt string
	// Attr is the shell theme, used for repaints and backspace blanks.
	Attr hw.Attribute
	// OSName, Version and Tagline appear in the banners.
	OSName  string
	Version string
	Tagline string
	// RebootDelay is paused after the reboot message.
	RebootDelay time.Duration
}

// DefaultOptions returns the stock NixOS shell look.
func DefaultOptions() Options {
	return Options{
		InputRow:    20,
		Prompt:      "$ ",
		Attr:        hw.MakeAttribute(hw.ColorWhite, hw.ColorGreen),
		OSName:      "NixOS",
		Version:     "v1.0",
		Tagline:     "Where it all begins!",
		RebootDelay: time.Second,
	}
}

// Shell is the interactive command loop.
type Shell struct {
	surface  *vga.Surface
	decoder  *keyboard.Decoder
	table    *Table
	opts     Options
	delay    hw.Delayer
	logger   *zap.Logger
	recorder metrics.Recorder

	line [MaxLine]byte
	n    int
}

// Option configures a Shell.
type Option func(*Shell)

// WithOptions replaces the presentation settings.
func WithOptions(o Options) Option {
	return func(s *Shell) {
		s.opts = o
	}
}

// WithTable replaces the built-in command table.
func WithTable(t *Table) Option {
	return func(s *Shell) {
		if t != nil {
			s.table = t
		}
	}
}

// WithDelayer sets the delay used by reboot.
func WithDelayer(d hw.Delayer) Option {
	return func(s *Shell) {
		if d != nil {
			s.delay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Shell) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Shell) {
		s.recorder = metrics.OrNop(r)
	}
}

// New creates a shell drawing on surface and reading from decoder.
func New(surface *vga.Surface, decoder *keyboard.Decoder, opts ...Option) *Shell {
	s := &Shell{
		surface:  surface,
		decoder:  decoder,
		table:    MustTable(Builtins()...),
		opts:     DefaultOptions(),
		delay:    hw.Sleep{},
		logger:   zap.NewNop(),
		recorder: metrics.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Surface returns the display the shell draws on.
func (s *Shell) Surface() *vga.Surface {
	return s.surface
}

// Options returns the presentation settings.
func (s *Shell) Options() Options {
	return s.opts
}

// Commands returns the command table in help order.
func (s *Shell) Commands() []Command {
	return s.table.Commands()
}

// Line returns the text typed since the last prompt.
func (s *Shell) Line() string {
	return string(s.line[:s.n])
}

// Run shows the welcome screen and then reads and dispatches lines until a
// command halts, returning ErrReboot, or the keyboard fails.
func (s *Shell) Run() error {
	s.Welcome()
	s.Prompt()
	for {
		ch, err := s.decoder.Poll()
		if err != nil {
			return err
		}
		if ch == 0 {
			continue
		}
		if s.Feed(ch) == Halt {
			return ErrReboot
		}
	}
}

// Welcome paints the shell banner.
func (s *Shell) Welcome() {
	s.repaint()
	s.surface.PrintCentered(s.opts.OSName+" Shell "+s.opts.Version, 2)
	s.surface.PrintCentered("Type 'help' for available commands.", 4)
	s.surface.PrintCentered("", 6)
	s.toInputRow()
}

// Prompt moves to the input row, prints the prompt and empties the line.
func (s *Shell) Prompt() {
	s.toInputRow()
	s.surface.Print(s.opts.Prompt)
	s.n = 0
}

// Feed applies one decoded character to the line. Enter dispatches the
// line and, unless the command halts, prompts again.
func (s *Shell) Feed(ch byte) Outcome {
	switch {
	case ch == keyboard.Enter:
		s.surface.PutChar('\n')
		line := s.Line()
		s.n = 0
		out := s.Dispatch(line)
		if out == Continue {
			s.Prompt()
		}
		return out

	case ch == keyboard.Backspace:
		if s.n > 0 {
			s.n--
			s.surface.EraseBack(s.opts.Attr)
		}

	case ch >= 32 && ch <= 126:
		if s.n < MaxLine {
			s.line[s.n] = ch
			s.n++
			s.surface.PutChar(ch)
		}
	}
	return Continue
}

// Dispatch runs a completed line. The name is everything before the first
// space and the argument is everything after it.
func (s *Shell) Dispatch(line string) Outcome {
	if line == "" {
		return Continue
	}

	name, args, _ := strings.Cut(line, " ")
	name = truncate(name, MaxName)
	args = truncate(args, MaxArgs)

	cmd, ok := s.table.Lookup(name)
	if !ok {
		s.recorder.Command(name, false)
		s.logger.Info("unknown command", zap.String("command", name))
		s.surface.Print("Unknown command: ")
		s.surface.Print(name)
		s.surface.Print("\nType 'help' for available commands.\n")
		return Continue
	}

	s.recorder.Command(cmd.Name, true)
	s.logger.Debug("dispatch", zap.String("command", cmd.Name), zap.Int("args_len", len(args)))

	out := cmd.Handler(s, args)
	if out == Halt {
		s.recorder.RebootRequested()
		s.logger.Warn("halt requested", zap.String("command", cmd.Name))
	}
	return out
}

func (s *Shell) repaint() {
	s.surface.Fill(s.opts.Attr)
}

func (s *Shell) toInputRow() {
	s.surface.MoveCursor(s.opts.InputRow, 0)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
