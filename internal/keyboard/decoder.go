// Package keyboard decodes raw PS/2 scan codes into characters.
//
// The decoder tracks which keys are held so a key produces one character
// per physical press: the controller's typematic repeats are swallowed
// until the key is released.
package keyboard

import (
	"github.com/dshills/vgashell/internal/hw"
	"github.com/dshills/vgashell/internal/metrics"
)

// Decoder turns scan codes into characters. It is not safe for concurrent
// use.
type Decoder struct {
	source   hw.Keyboard
	recorder metrics.Recorder
	pressed  [256]bool
}

// NewDecoder creates a decoder reading from source. A nil recorder is
// treated as metrics.Nop.
func NewDecoder(source hw.Keyboard, recorder metrics.Recorder) *Decoder {
	return &Decoder{
		source:   source,
		recorder: metrics.OrNop(recorder),
	}
}

// Poll blocks for one scan code and decodes it. A zero byte means the code
// produced no character. The error comes only from the keyboard source.
func (d *Decoder) Poll() (byte, error) {
	code, err := d.source.ReadScanCode()
	if err != nil {
		return 0, err
	}
	return d.Decode(code), nil
}

// Decode applies one scan code to the key state and returns the character
// it produces, or 0.
func (d *Decoder) Decode(code byte) byte {
	if code&ReleaseBit != 0 {
		d.pressed[code&^ReleaseBit] = false
		d.recorder.ScanCode(metrics.ScanRelease)
		return 0
	}
	if d.pressed[code] {
		d.recorder.ScanCode(metrics.ScanRepeat)
		return 0
	}
	d.pressed[code] = true
	d.recorder.ScanCode(metrics.ScanPress)

	ch := Lookup(code)
	if ch != 0 {
		d.recorder.CharDecoded()
	}
	return ch
}

// Pressed reports whether the key with the given make code is held.
func (d *Decoder) Pressed(code byte) bool {
	return d.pressed[code]
}
