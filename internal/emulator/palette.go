package emulator

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/vgashell/internal/hw"
)

// ansi maps the VGA palette order (blue before red) onto the ANSI order
// (red before blue) terminals use for their 16 base colors.
var ansi = [16]int{
	hw.ColorBlack:        0,
	hw.ColorBlue:         4,
	hw.ColorGreen:        2,
	hw.ColorCyan:         6,
	hw.ColorRed:          1,
	hw.ColorMagenta:      5,
	hw.ColorBrown:        3,
	hw.ColorLightGrey:    7,
	hw.ColorDarkGrey:     8,
	hw.ColorLightBlue:    12,
	hw.ColorLightGreen:   10,
	hw.ColorLightCyan:    14,
	hw.ColorLightRed:     9,
	hw.ColorLightMagenta: 13,
	hw.ColorLightBrown:   11,
	hw.ColorWhite:        15,
}

// Color converts a VGA palette entry to a terminal color.
func Color(c hw.Color) tcell.Color {
	return tcell.PaletteColor(ansi[c&0x0F])
}

// Style converts a VGA attribute byte to a terminal style.
func Style(a hw.Attribute) tcell.Style {
	return tcell.StyleDefault.
		Foreground(Color(a.Foreground())).
		Background(Color(a.Background()))
}
