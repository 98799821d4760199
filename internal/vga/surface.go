// Package vga implements the text-mode display surface: a fixed grid of
// character cells with a cursor, a current color attribute, and line
// scrolling.
//
// The surface keeps its own copy of the grid and mirrors every cell write
// to an hw.Display, so the grid can be read back without touching video
// memory. A Surface is owned by a single goroutine and is not safe for
// concurrent use.
package vga

import (
	"github.com/dshills/vgashell/internal/hw"
	"github.com/dshills/vgashell/internal/metrics"
)

// Default text-mode geometry.
const (
	Width  = 80
	Height = 25
)

// Surface is the character-cell display.
type Surface struct {
	display       hw.Display
	recorder      metrics.Recorder
	width, height int
	cells         []hw.Cell

	row, col int
	attr     hw.Attribute
	hidden   bool
}

// Option configures a Surface.
type Option func(*Surface)

// WithSize overrides the 80x25 geometry. Non-positive values are ignored.
func WithSize(width, height int) Option {
	return func(s *Surface) {
		if width > 0 {
			s.width = width
		}
		if height > 0 {
			s.height = height
		}
	}
}

// WithAttribute sets the initial attribute.
func WithAttribute(attr hw.Attribute) Option {
	return func(s *Surface) {
		s.attr = attr
	}
}

// WithRecorder reports scrolls to r.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Surface) {
		s.recorder = metrics.OrNop(r)
	}
}

// New creates a surface drawing to d. The grid starts zeroed, as video
// memory does, until the first Clear or Fill.
func New(d hw.Display, opts ...Option) *Surface {
	s := &Surface{
		display:  d,
		recorder: metrics.Nop{},
		width:    Width,
		height:   Height,
		attr:     hw.DefaultAttribute,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cells = make([]hw.Cell, s.width*s.height)
	return s
}

// Size returns the grid dimensions.
func (s *Surface) Size() (width, height int) {
	return s.width, s.height
}

// Cursor returns the cursor position.
func (s *Surface) Cursor() (row, col int) {
	return s.row, s.col
}

// Attr returns the attribute applied to subsequent writes.
func (s *Surface) Attr() hw.Attribute {
	return s.attr
}

// SetAttribute sets the attribute from a color pair. It does not repaint.
func (s *Surface) SetAttribute(fg, bg hw.Color) {
	s.attr = hw.MakeAttribute(fg, bg)
}

// SetAttr sets a packed attribute. It does not repaint.
func (s *Surface) SetAttr(attr hw.Attribute) {
	s.attr = attr
}

// Cell returns the cell at (row, col), or the zero Cell when out of range.
func (s *Surface) Cell(row, col int) hw.Cell {
	if row < 0 || row >= s.height || col < 0 || col >= s.width {
		return hw.Cell{}
	}
	return s.cells[row*s.width+col]
}

// Row returns the characters of one row.
func (s *Surface) Row(row int) string {
	if row < 0 || row >= s.height {
		return ""
	}
	b := make([]byte, s.width)
	for col := range b {
		b[col] = s.cells[row*s.width+col].Char
	}
	return string(b)
}

// Clear paints every cell with a blank in the current attribute and homes
// the cursor.
func (s *Surface) Clear() {
	s.paint(s.attr)
	s.row, s.col = 0, 0
	s.syncCursor()
}

// Fill makes attr current and repaints every cell with it, so text written
// afterwards carries the fill colors rather than the previous attribute.
// The cursor does not move.
func (s *Surface) Fill(attr hw.Attribute) {
	s.attr = attr
	s.paint(attr)
}

// PutChar writes c at the cursor and advances it, wrapping at the right
// edge and scrolling at the bottom. A newline moves to the start of the
// next row without writing.
func (s *Surface) PutChar(c byte) {
	if c == '\n' {
		s.col = 0
		s.nextRow()
	} else {
		s.set(s.row, s.col, hw.Cell{Char: c, Attr: s.attr})
		s.col++
		if s.col >= s.width {
			s.col = 0
			s.nextRow()
		}
	}
	s.syncCursor()
}

// Print writes every byte of text with PutChar.
func (s *Surface) Print(text string) {
	for i := 0; i < len(text); i++ {
		s.PutChar(text[i])
	}
}

// PrintCentered prints text on row starting at column (width-len)/2.
// Text wider than the surface starts at column 0.
func (s *Surface) PrintCentered(text string, row int) {
	start := (s.width - len(text)) / 2
	if start < 0 {
		start = 0
	}
	s.MoveCursor(row, start)
	s.Print(text)
}

// MoveCursor places the cursor, clamping into the grid.
func (s *Surface) MoveCursor(row, col int) {
	s.row = clamp(row, 0, s.height-1)
	s.col = clamp(col, 0, s.width-1)
	s.syncCursor()
}

// Scroll moves every row up by one, discarding the top row, and blanks the
// bottom row in the current attribute. The cursor ends on the bottom row.
func (s *Surface) Scroll() {
	s.scroll()
	s.syncCursor()
}

// EraseBack moves the cursor back one cell, wrapping to the end of the
// previous row, and blanks that cell with attr. At (0,0) the cursor stays
// and the home cell is blanked.
func (s *Surface) EraseBack(attr hw.Attribute) {
	if s.col > 0 {
		s.col--
	} else if s.row > 0 {
		s.row--
		s.col = s.width - 1
	}
	s.set(s.row, s.col, hw.Blank(attr))
	s.syncCursor()
}

// HideCursor moves the hardware cursor off-screen until ShowCursor.
// The logical cursor keeps tracking writes.
func (s *Surface) HideCursor() {
	s.hidden = true
	s.syncCursor()
}

// ShowCursor puts the hardware cursor back at the logical position.
func (s *Surface) ShowCursor() {
	s.hidden = false
	s.syncCursor()
}

func (s *Surface) nextRow() {
	s.row++
	if s.row >= s.height {
		s.scroll()
	}
}

func (s *Surface) scroll() {
	w := s.width
	copy(s.cells, s.cells[w:])
	for i := 0; i < len(s.cells)-w; i++ {
		s.display.WriteCell(i, s.cells[i])
	}
	last := s.height - 1
	for col := 0; col < w; col++ {
		s.set(last, col, hw.Blank(s.attr))
	}
	s.row = last
	s.recorder.Scrolled()
}

func (s *Surface) paint(attr hw.Attribute) {
	blank := hw.Blank(attr)
	for i := range s.cells {
		s.cells[i] = blank
		s.display.WriteCell(i, blank)
	}
}

func (s *Surface) set(row, col int, c hw.Cell) {
	i := row*s.width + col
	s.cells[i] = c
	s.display.WriteCell(i, c)
}

func (s *Surface) syncCursor() {
	if s.hidden {
		s.display.SetCursor(hw.HiddenCursor)
		return
	}
	s.display.SetCursor(uint16(s.row*s.width + s.col))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
