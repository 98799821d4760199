package hw

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is one of the sixteen VGA text-mode palette entries.
type Color uint8

// VGA palette.
const (
	ColorBlack Color = iota
	ColorBlue
	ColorGreen
	ColorCyan
	ColorRed
	ColorMagenta
	ColorBrown
	ColorLightGrey
	ColorDarkGrey
	ColorLightBlue
	ColorLightGreen
	ColorLightCyan
	ColorLightRed
	ColorLightMagenta
	ColorLightBrown
	ColorWhite
)

var colorNames = [...]string{
	"black", "blue", "green", "cyan", "red", "magenta", "brown", "lightgrey",
	"darkgrey", "lightblue", "lightgreen", "lightcyan", "lightred",
	"lightmagenta", "lightbrown", "white",
}

// String returns the palette name of the color.
func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "color(" + strconv.Itoa(int(c)) + ")"
}

// Valid reports whether c fits in an attribute nibble.
func (c Color) Valid() bool {
	return c <= ColorWhite
}

// ParseColor accepts a palette name ("green", "light-grey", "LightGrey",
// "yellow" for light brown) or a decimal index 0-15.
func ParseColor(s string) (Color, error) {
	trimmed := strings.TrimSpace(s)
	if n, err := strconv.Atoi(trimmed); err == nil {
		if n < 0 || n > int(ColorWhite) {
			return 0, fmt.Errorf("invalid color %q", s)
		}
		return Color(n), nil
	}
	name := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(trimmed))
	if name == "lightgray" || name == "gray" || name == "grey" {
		name = "lightgrey"
	}
	switch name {
	case "darkgray":
		name = "darkgrey"
	case "yellow":
		name = "lightbrown"
	}
	for i, n := range colorNames {
		if n == name {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("invalid color %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Attribute is a packed VGA attribute byte: foreground in the low nibble,
// background in the high nibble.
type Attribute uint8

// DefaultAttribute is light grey on black, the BIOS text-mode default.
const DefaultAttribute = Attribute(ColorLightGrey)

// MakeAttribute packs a foreground/background pair.
func MakeAttribute(fg, bg Color) Attribute {
	return Attribute(fg&0x0F) | Attribute(bg&0x0F)<<4
}

// Foreground returns the low nibble.
func (a Attribute) Foreground() Color {
	return Color(a & 0x0F)
}

// Background returns the high nibble.
func (a Attribute) Background() Color {
	return Color(a >> 4)
}

// Cell is one character position of the text buffer.
type Cell struct {
	Char byte
	Attr Attribute
}

// Blank returns a space painted with attr.
func Blank(attr Attribute) Cell {
	return Cell{Char: ' ', Attr: attr}
}

// Value returns the 16-bit word stored in VGA memory for the cell.
func (c Cell) Value() uint16 {
	return uint16(c.Attr)<<8 | uint16(c.Char)
}

// CellFromValue unpacks a VGA memory word.
func CellFromValue(v uint16) Cell {
	return Cell{Char: byte(v), Attr: Attribute(v >> 8)}
}
