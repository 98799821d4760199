package keyboard

// Control characters produced by the decoder.
const (
	Backspace byte = '\b'
	Tab       byte = '\t'
	Enter     byte = '\n'
)

// ReleaseBit marks a key-up scan code.
const ReleaseBit byte = 0x80

// scanSet1 maps PC/XT scan code set 1 make codes to ASCII for a US layout.
// Zero entries are keys without a character (Esc, Ctrl, Shift, Alt).
var scanSet1 = [...]byte{
	0, 0, '1', '2', '3', '4', '5', '6', '7', '8', '9', '0', '-', '=', Backspace,
	Tab, 'q', 'w', 'e', 'r', 't', 'y', 'u', 'i', 'o', 'p', '[', ']', Enter,
	0, 'a', 's', 'd', 'f', 'g', 'h', 'j', 'k', 'l', ';', '\'', '`',
	0, '\\', 'z', 'x', 'c', 'v', 'b', 'n', 'm', ',', '.', '/', 0,
	'*', 0, ' ',
}

// reverse is the character -> make code index built from scanSet1.
var reverse = func() [128]byte {
	var r [128]byte
	for code, ch := range scanSet1 {
		if ch != 0 && r[ch] == 0 {
			r[ch] = byte(code)
		}
	}
	return r
}()

// Lookup returns the character for a make code, or 0.
func Lookup(code byte) byte {
	if int(code) < len(scanSet1) {
		return scanSet1[code]
	}
	return 0
}

// ScanCode returns the make code that produces ch. Hosts that receive
// characters rather than key positions use it to synthesize key presses.
func ScanCode(ch byte) (byte, bool) {
	if ch >= 128 {
		return 0, false
	}
	code := reverse[ch]
	return code, code != 0
}

// Script converts text to press/release scan code pairs. Characters the
// layout cannot type are skipped; upper-case letters are typed lower-case
// since the layout has no shift state.
func Script(text string) []byte {
	codes := make([]byte, 0, 2*len(text))
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch >= 'A' && ch <= 'Z' {
			ch += 'a' - 'A'
		}
		if code, ok := ScanCode(ch); ok {
			codes = append(codes, code, code|ReleaseBit)
		}
	}
	return codes
}
