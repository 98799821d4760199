// Package emulator hosts the kernel in a terminal. Machine implements
// hw.Machine on a tcell screen: cell writes become styled screen content,
// the hardware cursor becomes the terminal cursor, and key presses are
// translated back into scan code set 1 press/release pairs.
package emulator

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/vgashell/internal/hw"
	"github.com/dshills/vgashell/internal/keyboard"
	"github.com/dshills/vgashell/internal/vga"
)

// ErrClosed is returned by ReadScanCode once the machine has been closed,
// either by Close or by Ctrl-C in the terminal.
var ErrClosed = errors.New("emulator: machine closed")

// Machine is a terminal-backed PC.
type Machine struct {
	screen tcell.Screen
	logger *zap.Logger

	width, height int
	refresh       time.Duration

	mu    sync.Mutex
	dirty atomic.Bool

	codes     chan byte
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	resets atomic.Int64
}

// Option configures a Machine.
type Option func(*Machine)

// WithSize sets the emulated text-mode geometry.
func WithSize(width, height int) Option {
	return func(m *Machine) {
		if width > 0 && height > 0 {
			m.width, m.height = width, height
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithRefresh sets how often pending writes are flushed to the terminal.
func WithRefresh(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.refresh = d
		}
	}
}

// New creates a machine on the user's terminal.
func New(opts ...Option) (*Machine, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen, opts...), nil
}

// NewWithScreen creates a machine on screen. The screen is initialized by
// Start.
func NewWithScreen(screen tcell.Screen, opts ...Option) *Machine {
	m := &Machine{
		screen:  screen,
		logger:  zap.NewNop(),
		width:   vga.Width,
		height:  vga.Height,
		refresh: 30 * time.Millisecond,
		codes:   make(chan byte, 64),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start initializes the screen and begins translating terminal events.
func (m *Machine) Start() error {
	m.mu.Lock()
	if err := m.screen.Init(); err != nil {
		m.mu.Unlock()
		return err
	}
	m.screen.Clear()
	m.screen.HideCursor()
	w, h := m.screen.Size()
	m.mu.Unlock()

	if w < m.width || h < m.height {
		m.logger.Warn("terminal smaller than display",
			zap.Int("terminal_width", w),
			zap.Int("terminal_height", h),
			zap.Int("width", m.width),
			zap.Int("height", m.height),
		)
	}

	m.wg.Add(2)
	go m.pump()
	go m.refreshLoop()
	return nil
}

// Close stops keyboard input. Pending and future ReadScanCode calls return
// ErrClosed. Close is safe to call more than once.
func (m *Machine) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
}

// Done is closed when the machine is closed.
func (m *Machine) Done() <-chan struct{} {
	return m.done
}

// Shutdown closes the machine, restores the terminal and waits for the
// event goroutines to exit.
func (m *Machine) Shutdown() {
	m.Close()
	m.mu.Lock()
	m.screen.Fini()
	m.mu.Unlock()
	m.wg.Wait()
}

// WriteCell implements hw.Display.
func (m *Machine) WriteCell(index int, c hw.Cell) {
	if index < 0 || index >= m.width*m.height {
		return
	}
	ch := rune(c.Char)
	if ch == 0 {
		ch = ' '
	}

	m.mu.Lock()
	m.screen.SetContent(index%m.width, index/m.width, ch, nil, Style(c.Attr))
	m.mu.Unlock()
	m.dirty.Store(true)
}

// SetCursor implements hw.Display.
func (m *Machine) SetCursor(offset uint16) {
	m.mu.Lock()
	if offset == hw.HiddenCursor || int(offset) >= m.width*m.height {
		m.screen.HideCursor()
	} else {
		m.screen.ShowCursor(int(offset)%m.width, int(offset)/m.width)
	}
	m.mu.Unlock()
	m.dirty.Store(true)
}

// ReadScanCode implements hw.Keyboard. It blocks until a key is pressed or
// the machine is closed. Keys typed before Close are still delivered.
func (m *Machine) ReadScanCode() (byte, error) {
	select {
	case code := <-m.codes:
		return code, nil
	default:
	}
	select {
	case code := <-m.codes:
		return code, nil
	case <-m.done:
		return 0, ErrClosed
	}
}

// Reset implements hw.Resetter. The terminal has no CPU to restart, so
// Reset discards buffered keystrokes, blanks the screen and returns.
func (m *Machine) Reset() {
	n := m.resets.Add(1)
	m.logger.Info("machine reset", zap.Int64("resets", n))

drain:
	for {
		select {
		case <-m.codes:
		default:
			break drain
		}
	}

	m.mu.Lock()
	m.screen.Clear()
	m.mu.Unlock()
	m.dirty.Store(true)
}

// Resets returns how many times Reset was called.
func (m *Machine) Resets() int {
	return int(m.resets.Load())
}

// Flush shows pending writes immediately.
func (m *Machine) Flush() {
	m.dirty.Store(false)
	m.mu.Lock()
	m.screen.Show()
	m.mu.Unlock()
}

func (m *Machine) refreshLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			if m.dirty.Swap(false) {
				m.mu.Lock()
				m.screen.Show()
				m.mu.Unlock()
			}
		}
	}
}

func (m *Machine) pump() {
	defer m.wg.Done()

	for {
		ev := m.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			m.handleKey(ev)
		case *tcell.EventResize:
			m.mu.Lock()
			m.screen.Sync()
			m.mu.Unlock()
		}
	}
}

func (m *Machine) handleKey(ev *tcell.EventKey) {
	var ch byte
	switch ev.Key() {
	case tcell.KeyCtrlC:
		m.logger.Info("interrupt from terminal")
		m.Close()
		return
	case tcell.KeyEnter:
		ch = keyboard.Enter
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ch = keyboard.Backspace
	case tcell.KeyTab:
		ch = keyboard.Tab
	case tcell.KeyRune:
		r := ev.Rune()
		if r > 0x7F {
			return
		}
		ch = byte(r)
		if ch >= 'A' && ch <= 'Z' {
			ch += 'a' - 'A'
		}
	default:
		return
	}

	code, ok := keyboard.ScanCode(ch)
	if !ok {
		m.logger.Debug("key has no scan code", zap.Uint8("char", ch))
		return
	}
	m.send(code)
	m.send(code | keyboard.ReleaseBit)
}

func (m *Machine) send(code byte) {
	select {
	case m.codes <- code:
	case <-m.done:
	}
}
