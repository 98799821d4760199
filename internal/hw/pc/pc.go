//go:build baremetal && amd64

// Package pc drives real PC hardware: the colour text buffer at 0xB8000,
// the CRT controller cursor registers, and the 8042 keyboard controller.
// It only builds for freestanding kernels (the baremetal tag); hosts use
// the emulator package instead.
package pc

import (
	"unsafe"

	"github.com/dshills/vgashell/internal/hw"
	"github.com/dshills/vgashell/internal/vga"
)

func inb(port uint16) byte
func outb(port uint16, val byte)
func halt()

const textBuffer = 0xB8000

// CRT controller and 8042 ports.
const (
	crtIndexPort uint16 = 0x3D4
	crtDataPort  uint16 = 0x3D5

	crtCursorHigh byte = 14
	crtCursorLow  byte = 15

	kbdDataPort   uint16 = 0x60
	kbdStatusPort uint16 = 0x64

	kbdOutputFull byte = 0x01
	kbdPulseReset byte = 0xFE
)

// Machine is the PC in 80x25 colour text mode.
type Machine struct {
	fb []uint16
}

// New maps the text buffer.
func New() *Machine {
	return &Machine{
		fb: unsafe.Slice((*uint16)(unsafe.Pointer(uintptr(textBuffer))), vga.Width*vga.Height),
	}
}

// WriteCell implements hw.Display.
func (m *Machine) WriteCell(index int, c hw.Cell) {
	if index < 0 || index >= len(m.fb) {
		return
	}
	m.fb[index] = c.Value()
}

// SetCursor implements hw.Display. HiddenCursor parks the cursor past the
// end of the buffer, which the CRT controller does not draw.
func (m *Machine) SetCursor(offset uint16) {
	outb(crtIndexPort, crtCursorHigh)
	outb(crtDataPort, byte(offset>>8))
	outb(crtIndexPort, crtCursorLow)
	outb(crtDataPort, byte(offset))
}

// ReadScanCode implements hw.Keyboard by polling the controller status
// register until a byte is waiting. It never fails.
func (m *Machine) ReadScanCode() (byte, error) {
	for inb(kbdStatusPort)&kbdOutputFull == 0 {
	}
	return inb(kbdDataPort), nil
}

// Reset implements hw.Resetter by pulsing the CPU reset line through the
// keyboard controller. It does not return.
func (m *Machine) Reset() {
	outb(kbdStatusPort, kbdPulseReset)
	for {
		halt()
	}
}

// Delayer returns the busy-wait pacing used before timers are set up.
func Delayer() hw.Delayer {
	return hw.Spin{}
}
