package hw

import "strings"

// NullMachine is an in-memory Machine for tests and headless runs.
// It stores cells like VGA memory, records every cursor sync, and serves
// scan codes from a queue.
type NullMachine struct {
	width, height int
	cells         []Cell
	cursor        uint16
	cursorSyncs   int
	queue         []byte
	resets        int

	// OnReset, when set, runs every time Reset is called.
	OnReset func()
}

// NewNullMachine creates a machine with a width x height text buffer.
// Memory starts zeroed, as the buffer does before the first clear.
func NewNullMachine(width, height int) *NullMachine {
	return &NullMachine{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
}

// Size returns the text buffer dimensions.
func (m *NullMachine) Size() (int, int) {
	return m.width, m.height
}

// WriteCell implements Display. Out-of-range indexes are ignored.
func (m *NullMachine) WriteCell(index int, c Cell) {
	if index >= 0 && index < len(m.cells) {
		m.cells[index] = c
	}
}

// SetCursor implements Display.
func (m *NullMachine) SetCursor(offset uint16) {
	m.cursor = offset
	m.cursorSyncs++
}

// ReadScanCode implements Keyboard. It returns ErrNoInput when the queue
// is empty.
func (m *NullMachine) ReadScanCode() (byte, error) {
	if len(m.queue) == 0 {
		return 0, ErrNoInput
	}
	code := m.queue[0]
	m.queue = m.queue[1:]
	return code, nil
}

// Reset implements Resetter. It returns so the caller can boot again.
func (m *NullMachine) Reset() {
	m.resets++
	if m.OnReset != nil {
		m.OnReset()
	}
}

// Feed queues raw scan codes.
func (m *NullMachine) Feed(codes ...byte) {
	m.queue = append(m.queue, codes...)
}

// Pending returns the number of queued scan codes.
func (m *NullMachine) Pending() int {
	return len(m.queue)
}

// Cell returns the cell at (row, col), or the zero Cell when out of range.
func (m *NullMachine) Cell(row, col int) Cell {
	if row < 0 || row >= m.height || col < 0 || col >= m.width {
		return Cell{}
	}
	return m.cells[row*m.width+col]
}

// Cursor returns the last hardware cursor offset.
func (m *NullMachine) Cursor() uint16 {
	return m.cursor
}

// CursorSyncs returns how many times the cursor was written.
func (m *NullMachine) CursorSyncs() int {
	return m.cursorSyncs
}

// Resets returns how many times Reset was called.
func (m *NullMachine) Resets() int {
	return m.resets
}

// Row returns the characters of one row with NUL shown as a space.
func (m *NullMachine) Row(row int) string {
	if row < 0 || row >= m.height {
		return ""
	}
	b := make([]byte, m.width)
	for col := range b {
		ch := m.cells[row*m.width+col].Char
		if ch == 0 {
			ch = ' '
		}
		b[col] = ch
	}
	return string(b)
}

// Text returns the whole screen, one line per row, trailing blanks trimmed.
func (m *NullMachine) Text() string {
	var sb strings.Builder
	for row := 0; row < m.height; row++ {
		sb.WriteString(strings.TrimRight(m.Row(row), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}
