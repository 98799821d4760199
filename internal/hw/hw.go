// Package hw defines the hardware capabilities the console core runs on.
//
// The core never touches ports or fixed addresses directly. Production
// builds implement these interfaces over real PC hardware (see hw/pc),
// the terminal host implements them over tcell (see emulator), and tests
// use NullMachine.
package hw

import "errors"

// ErrNoInput is returned by a scripted keyboard once every queued scan code
// has been consumed.
var ErrNoInput = errors.New("hw: no more scripted input")

// Display is the text-mode framebuffer and the controller that positions
// the hardware cursor.
type Display interface {
	// WriteCell stores c at the linear cell index (row*width + column).
	WriteCell(index int, c Cell)

	// SetCursor moves the hardware cursor to the linear offset.
	// HiddenCursor moves it off-screen.
	SetCursor(offset uint16)
}

// Keyboard is the keyboard controller data port.
type Keyboard interface {
	// ReadScanCode blocks until the controller has a byte and returns it.
	// Real hardware never fails; hosted keyboards return an error once they
	// are closed.
	ReadScanCode() (byte, error)
}

// Resetter restarts the machine.
type Resetter interface {
	// Reset does not return on real hardware. Hosted machines may return,
	// in which case the caller boots again.
	Reset()
}

// Machine bundles every capability the kernel needs.
type Machine interface {
	Display
	Keyboard
	Resetter
}

// HiddenCursor is the cursor offset that places the VGA cursor outside the
// visible text area.
const HiddenCursor uint16 = 0xFFFF
