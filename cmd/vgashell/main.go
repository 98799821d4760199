// Package main is the entry point for vgashell, which runs the text-mode
// kernel shell in a terminal or, with -headless, against a scripted
// keyboard.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dshills/vgashell/internal/config"
	"github.com/dshills/vgashell/internal/configwatch"
	"github.com/dshills/vgashell/internal/emulator"
	"github.com/dshills/vgashell/internal/hw"
	"github.com/dshills/vgashell/internal/kernel"
	"github.com/dshills/vgashell/internal/logging"
	"github.com/dshills/vgashell/internal/metrics"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Options are the parsed command line.
type Options struct {
	ConfigPath  string
	LogLevel    string
	LogFile     string
	MetricsAddr string
	Headless    bool
	Input       string
	Watch       bool
	ShowVersion bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if opts.ShowVersion {
		fmt.Fprintf(stdout, "vgashell %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger, err := newLogger(cfg, opts.Headless)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()
	rec := metrics.NewPrometheus(reg)

	if cfg.Metrics.Addr != "" {
		srv, err := serveMetrics(cfg.Metrics.Addr, reg, logger)
		if err != nil {
			fmt.Fprintf(stderr, "Error: metrics endpoint: %v\n", err)
			return 1
		}
		defer srv.Close()
	}

	if opts.Headless {
		script, err := headlessScript(opts.Input, stdin)
		if err != nil {
			fmt.Fprintf(stderr, "Error: reading input: %v\n", err)
			return 1
		}
		if err := runHeadless(cfg, script, logger, rec, stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if err := runInteractive(cfg, opts, logger, rec); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (Options, error) {
	var opts Options
	fs := flag.NewFlagSet("vgashell", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file")
	fs.StringVar(&opts.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	fs.BoolVar(&opts.Headless, "headless", false, "Run against a scripted keyboard and print the final screen")
	fs.StringVar(&opts.Input, "input", "", `Headless key script; \n is Enter, \b is Backspace, - reads stdin`)
	fs.BoolVar(&opts.Watch, "watch", false, "Reload the config file on change, applied at next boot")
	fs.BoolVar(&opts.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.ShowVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "vgashell - text-mode kernel shell\n\n")
		fmt.Fprintf(stderr, "Usage: vgashell [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  vgashell                                 Boot in the terminal\n")
		fmt.Fprintf(stderr, "  vgashell -c vgashell.toml -watch         Boot with live config staging\n")
		fmt.Fprintf(stderr, "  vgashell -headless -input 'help\\n'       Print the screen after 'help'\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if opts.Watch && opts.ConfigPath == "" {
		return opts, errors.New("-watch requires -config")
	}
	return opts, nil
}

// loadConfig layers command line overrides over the loaded configuration.
func loadConfig(opts Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	overridden := false
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
		overridden = true
	}
	if opts.LogFile != "" {
		cfg.Logging.File = opts.LogFile
	}
	if opts.MetricsAddr != "" {
		cfg.Metrics.Addr = opts.MetricsAddr
	}
	if overridden {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newLogger writes to the configured file. Without one, headless runs log
// to stderr and interactive runs do not log, since tcell owns the terminal.
func newLogger(cfg *config.Config, headless bool) (*zap.Logger, error) {
	lc := logging.DefaultConfig()
	lc.Level = cfg.Logging.Level
	lc.Development = cfg.Logging.Development
	switch {
	case cfg.Logging.File != "":
		lc.OutputPaths = []string{cfg.Logging.File}
	case !headless:
		lc.OutputPaths = nil
	}
	return logging.New(lc)
}

func runInteractive(cfg *config.Config, opts Options, logger *zap.Logger, rec metrics.Recorder) error {
	emu, err := emulator.New(
		emulator.WithSize(cfg.Display.Width, cfg.Display.Height),
		emulator.WithLogger(logger.Named("emulator")),
	)
	if err != nil {
		return fmt.Errorf("failed to create terminal: %w", err)
	}
	if err := emu.Start(); err != nil {
		return fmt.Errorf("failed to start terminal: %w", err)
	}
	defer emu.Shutdown()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		select {
		case <-signals:
			emu.Close()
		case <-emu.Done():
		}
	}()

	kopts := []kernel.Option{
		kernel.WithConfig(cfg),
		kernel.WithDelayer(hw.Sleep{}),
		kernel.WithLogger(logger.Named("kernel")),
		kernel.WithRecorder(rec),
	}
	if opts.Watch {
		w, err := configwatch.New(opts.ConfigPath, cfg, configwatch.WithLogger(logger.Named("configwatch")))
		if err != nil {
			return err
		}
		defer w.Close()
		kopts = append(kopts, kernel.WithConfigSource(w.Current))
	}

	logger.Info("starting", zap.String("version", version))
	err = kernel.Main(emu, kopts...)
	if errors.Is(err, emulator.ErrClosed) {
		return nil
	}
	return err
}
