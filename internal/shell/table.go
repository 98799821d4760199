package shell

import "fmt"

// Handler runs a command. Commands that take no argument ignore args.
type Handler func(sh *Shell, args string) Outcome

// Command is one entry of the command table.
type Command struct {
	Name    string
	Summary string
	Handler Handler
}

// Table maps command names to commands by exact, case-sensitive match.
// It keeps registration order for help output and is immutable once built.
type Table struct {
	commands []Command
	index    map[string]int
}

// NewTable builds a table from cmds.
func NewTable(cmds ...Command) (*Table, error) {
	t := &Table{
		commands: make([]Command, 0, len(cmds)),
		index:    make(map[string]int, len(cmds)),
	}
	for _, c := range cmds {
		if c.Name == "" || c.Handler == nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCommand, c.Name)
		}
		if _, dup := t.index[c.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCommand, c.Name)
		}
		t.index[c.Name] = len(t.commands)
		t.commands = append(t.commands, c)
	}
	return t, nil
}

// MustTable is NewTable that panics on error. It is meant for static tables.
func MustTable(cmds ...Command) *Table {
	t, err := NewTable(cmds...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the command named exactly name.
func (t *Table) Lookup(name string) (Command, bool) {
	i, ok := t.index[name]
	if !ok {
		return Command{}, false
	}
	return t.commands[i], true
}

// Commands returns the commands in registration order.
func (t *Table) Commands() []Command {
	out := make([]Command, len(t.commands))
	copy(out, t.commands)
	return out
}
