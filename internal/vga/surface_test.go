package vga

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vgashell/internal/hw"
	"github.com/dshills/vgashell/internal/metrics"
)

type scrollCounter struct {
	metrics.Nop
	scrolls int
}

func (c *scrollCounter) Scrolled() { c.scrolls++ }

func newSurface(t *testing.T, opts ...Option) (*Surface, *hw.NullMachine) {
	t.Helper()
	s := New(nil, opts...)
	w, h := s.Size()
	m := hw.NewNullMachine(w, h)
	s.display = m
	return s, m
}

func TestClearRoundTrip(t *testing.T) {
	s, m := newSurface(t)
	attr := hw.MakeAttribute(hw.ColorWhite, hw.ColorBlue)
	s.SetAttr(attr)
	s.Print("some text")
	s.Clear()

	for row := 0; row < Height; row++ {
		for col := 0; col < Width; col++ {
			require.Equal(t, hw.Blank(attr), s.Cell(row, col), "cell %d,%d", row, col)
			require.Equal(t, hw.Blank(attr), m.Cell(row, col), "hw cell %d,%d", row, col)
		}
	}
	row, col := s.Cursor()
	assert.Equal(t, 0, row)
	assert.Equal(t, 0, col)
	assert.Equal(t, uint16(0), m.Cursor())
}

func TestPutCharAdvancesAndSyncsCursor(t *testing.T) {
	s, m := newSurface(t)
	s.Clear()
	syncs := m.CursorSyncs()

	s.PutChar('A')
	assert.Equal(t, hw.Cell{Char: 'A', Attr: hw.DefaultAttribute}, s.Cell(0, 0))
	row, col := s.Cursor()
	assert.Equal(t, 0, row)
	assert.Equal(t, 1, col)
	assert.Equal(t, uint16(1), m.Cursor())
	assert.Equal(t, syncs+1, m.CursorSyncs())
}

func TestPutCharWrapsAtRightEdge(t *testing.T) {
	s, m := newSurface(t)
	s.Clear()
	s.MoveCursor(3, Width-1)
	s.PutChar('z')

	assert.Equal(t, byte('z'), s.Cell(3, Width-1).Char)
	row, col := s.Cursor()
	assert.Equal(t, 4, row)
	assert.Equal(t, 0, col)
	assert.Equal(t, uint16(4*Width), m.Cursor())
}

func TestNewlineDoesNotWrite(t *testing.T) {
	s, _ := newSurface(t)
	s.Clear()
	s.MoveCursor(2, 10)
	s.PutChar('\n')

	row, col := s.Cursor()
	assert.Equal(t, 3, row)
	assert.Equal(t, 0, col)
	assert.Equal(t, hw.Blank(hw.DefaultAttribute), s.Cell(2, 10))
}

func TestNewlineOnBottomRowScrolls(t *testing.T) {
	rec := &scrollCounter{}
	s, _ := newSurface(t, WithRecorder(rec))
	s.Clear()
	s.MoveCursor(Height-1, 0)
	s.Print("last")
	s.PutChar('\n')

	assert.Equal(t, 1, rec.scrolls)
	assert.Equal(t, "last", strings.TrimRight(s.Row(Height-2), " "))
	assert.Equal(t, strings.Repeat(" ", Width), s.Row(Height-1))
	row, col := s.Cursor()
	assert.Equal(t, Height-1, row)
	assert.Equal(t, 0, col)
}

func TestFullScreenPlusOneScrollsOnce(t *testing.T) {
	rec := &scrollCounter{}
	s, m := newSurface(t, WithRecorder(rec))
	s.Clear()

	// Row r is filled with letter 'a'+r%26 so rows are distinguishable.
	for row := 0; row < Height; row++ {
		for col := 0; col < Width; col++ {
			s.PutChar(byte('a' + row%26))
		}
	}
	s.PutChar('#')

	require.Equal(t, 1, rec.scrolls)

	// The H-th row written is now one above the bottom.
	assert.Equal(t, strings.Repeat(string(rune('a'+(Height-1)%26)), Width), s.Row(Height-2))
	// Row 0 was discarded; the old row 1 is on top.
	assert.Equal(t, strings.Repeat("b", Width), s.Row(0))
	// The extra character starts the bottom row, the rest is blank.
	assert.Equal(t, "#"+strings.Repeat(" ", Width-1), s.Row(Height-1))
	assert.Equal(t, strings.TrimRight(s.Row(Height-1), " "), strings.TrimRight(m.Row(Height-1), " "))

	row, col := s.Cursor()
	assert.Equal(t, Height-1, row)
	assert.Equal(t, 1, col)
}

func TestScrollBlanksBottomWithCurrentAttribute(t *testing.T) {
	s, m := newSurface(t, WithSize(10, 3))
	s.Clear()
	s.Print("0123456789abcdefghij")
	attr := hw.MakeAttribute(hw.ColorLightBrown, hw.ColorRed)
	s.SetAttr(attr)
	s.Scroll()

	assert.Equal(t, "abcdefghij", s.Row(0))
	assert.Equal(t, hw.Blank(hw.DefaultAttribute), s.Cell(1, 0))
	assert.Equal(t, hw.Blank(attr), s.Cell(2, 9))
	assert.Equal(t, hw.Blank(attr), m.Cell(2, 9))
	assert.Equal(t, "abcdefghij", m.Row(0))
	row, _ := s.Cursor()
	assert.Equal(t, 2, row)
}

func TestPrintCentered(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		start int
	}{
		{"short", "hi", 39},
		{"odd", "abc", 38},
		{"empty", "", 40},
		{"full", strings.Repeat("x", Width), 0},
		{"nix banner", "Welcome to NixOS!", 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newSurface(t)
			s.Clear()
			attr := hw.MakeAttribute(hw.ColorWhite, hw.ColorGreen)
			s.SetAttr(attr)

			s.PrintCentered(tt.text, 12)

			assert.Equal(t, attr, s.Attr())
			if tt.text != "" {
				assert.Equal(t, tt.text[0], s.Cell(12, tt.start).Char)
				assert.Equal(t, tt.text, s.Row(12)[tt.start:tt.start+len(tt.text)])
			} else {
				row, col := s.Cursor()
				assert.Equal(t, 12, row)
				assert.Equal(t, tt.start, col)
			}
		})
	}
}

func TestPrintCenteredWiderThanScreenClampsToZero(t *testing.T) {
	s, _ := newSurface(t)
	s.Clear()
	long := strings.Repeat("w", Width+6)

	s.PrintCentered(long, 5)

	assert.Equal(t, strings.Repeat("w", Width), s.Row(5))
	assert.Equal(t, "wwwwww", strings.TrimRight(s.Row(6), " "))
}

func TestMoveCursorClamps(t *testing.T) {
	s, m := newSurface(t)
	s.MoveCursor(99, -4)
	row, col := s.Cursor()
	assert.Equal(t, Height-1, row)
	assert.Equal(t, 0, col)
	assert.Equal(t, uint16((Height-1)*Width), m.Cursor())

	s.MoveCursor(-1, 500)
	row, col = s.Cursor()
	assert.Equal(t, 0, row)
	assert.Equal(t, Width-1, col)
}

func TestFillKeepsCursor(t *testing.T) {
	s, m := newSurface(t)
	s.Clear()
	s.MoveCursor(7, 9)
	green := hw.MakeAttribute(hw.ColorWhite, hw.ColorGreen)

	s.Fill(green)

	assert.Equal(t, green, s.Attr())
	assert.Equal(t, hw.Blank(green), s.Cell(24, 79))
	assert.Equal(t, hw.Blank(green), m.Cell(0, 0))
	row, col := s.Cursor()
	assert.Equal(t, 7, row)
	assert.Equal(t, 9, col)

	s.Print("ok")
	assert.Equal(t, hw.Cell{Char: 'o', Attr: green}, m.Cell(7, 9))
	assert.Equal(t, hw.Cell{Char: 'k', Attr: green}, m.Cell(7, 10))
}

func TestEraseBack(t *testing.T) {
	green := hw.MakeAttribute(hw.ColorWhite, hw.ColorGreen)

	t.Run("mid row", func(t *testing.T) {
		s, m := newSurface(t)
		s.Clear()
		s.MoveCursor(20, 0)
		s.Print("$ ab")

		s.EraseBack(green)

		row, col := s.Cursor()
		assert.Equal(t, 20, row)
		assert.Equal(t, 3, col)
		assert.Equal(t, hw.Blank(green), s.Cell(20, 3))
		assert.Equal(t, byte('a'), s.Cell(20, 2).Char)
		assert.Equal(t, uint16(20*Width+3), m.Cursor())
	})

	t.Run("wraps to previous row", func(t *testing.T) {
		s, _ := newSurface(t)
		s.Clear()
		s.MoveCursor(5, 0)

		s.EraseBack(green)

		row, col := s.Cursor()
		assert.Equal(t, 4, row)
		assert.Equal(t, Width-1, col)
		assert.Equal(t, hw.Blank(green), s.Cell(4, Width-1))
	})

	t.Run("home stays", func(t *testing.T) {
		s, _ := newSurface(t)
		s.Clear()
		s.PutChar('q')
		s.MoveCursor(0, 0)

		s.EraseBack(green)

		row, col := s.Cursor()
		assert.Equal(t, 0, row)
		assert.Equal(t, 0, col)
		assert.Equal(t, hw.Blank(green), s.Cell(0, 0))
	})
}

func TestHideAndShowCursor(t *testing.T) {
	s, m := newSurface(t)
	s.Clear()
	s.HideCursor()
	assert.Equal(t, hw.HiddenCursor, m.Cursor())

	s.Print("ab")
	assert.Equal(t, hw.HiddenCursor, m.Cursor())

	s.ShowCursor()
	assert.Equal(t, uint16(2), m.Cursor())
}

func TestSetAttributeDoesNotRepaint(t *testing.T) {
	s, _ := newSurface(t)
	s.Clear()
	s.SetAttribute(hw.ColorRed, hw.ColorBlack)

	assert.Equal(t, hw.MakeAttribute(hw.ColorRed, hw.ColorBlack), s.Attr())
	assert.Equal(t, hw.Blank(hw.DefaultAttribute), s.Cell(0, 0))
}

func TestOutOfRangeReads(t *testing.T) {
	s, _ := newSurface(t)
	assert.Equal(t, hw.Cell{}, s.Cell(-1, 0))
	assert.Equal(t, hw.Cell{}, s.Cell(0, Width))
	assert.Equal(t, "", s.Row(Height))
}
