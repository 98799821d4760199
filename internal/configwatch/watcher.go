// Package configwatch reloads the configuration file when it changes on
// disk. A reloaded configuration is staged rather than applied: the kernel
// picks it up at the start of its next boot, so a running shell never sees
// its geometry or theme change underneath it.
package configwatch

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/dshills/vgashell/internal/config"
)

// Watcher errors.
var (
	// ErrClosed is returned when operating on a closed watcher.
	ErrClosed = errors.New("configwatch: watcher closed")

	// ErrGeometryChanged rejects a reload whose display size differs from
	// the size the machine was started with.
	ErrGeometryChanged = errors.New("configwatch: display size cannot change while running")
)

// Watcher stages configuration reloads for the next boot.
type Watcher struct {
	path     string
	name     string
	fsw      *fsnotify.Watcher
	logger   *zap.Logger
	load     func(string) (*config.Config, error)
	debounce time.Duration

	geometry config.DisplayConfig
	current  atomic.Pointer[config.Config]
	reloads  atomic.Int64
	failures atomic.Int64

	mu     sync.Mutex
	timer  *time.Timer
	closed bool

	closeCh chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithDebounce coalesces bursts of file events. Editors commonly write a
// file in several steps.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLoader replaces config.Load.
func WithLoader(fn func(string) (*config.Config, error)) Option {
	return func(w *Watcher) {
		if fn != nil {
			w.load = fn
		}
	}
}

// New watches path, starting from initial. The containing directory is
// watched so that atomic rename-over saves are seen. The display size of
// initial is fixed for the life of the watcher; reloads that change it are
// rejected.
func New(path string, initial *config.Config, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		name:     filepath.Base(abs),
		fsw:      fsw,
		logger:   zap.NewNop(),
		load:     config.Load,
		debounce: 100 * time.Millisecond,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if initial == nil {
		initial = config.Default()
	}
	w.geometry = initial.Display
	w.current.Store(initial)

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Current returns the most recently loaded valid configuration. It has the
// signature kernel.WithConfigSource expects.
func (w *Watcher) Current() *config.Config {
	return w.current.Load()
}

// Reloads returns how many reloads succeeded.
func (w *Watcher) Reloads() int {
	return int(w.reloads.Load())
}

// Failures returns how many reloads were rejected.
func (w *Watcher) Failures() int {
	return int(w.failures.Load())
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != w.name {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.schedule()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, w.reload)
		return
	}
	w.timer.Reset(w.debounce)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	cfg, err := w.load(w.path)
	if err == nil && cfg.Display != w.geometry {
		err = fmt.Errorf("%w: %dx%d, running %dx%d", ErrGeometryChanged,
			cfg.Display.Width, cfg.Display.Height, w.geometry.Width, w.geometry.Height)
	}
	if err != nil {
		w.failures.Add(1)
		w.logger.Warn("config reload rejected", zap.String("path", w.path), zap.Error(err))
		return
	}

	w.current.Store(cfg)
	n := w.reloads.Add(1)
	w.logger.Info("config staged for next boot", zap.String("path", w.path), zap.Int64("reloads", n))
}
