package shell

import "errors"

// Shell errors.
var (
	// ErrReboot is returned by Run when a command asked for a machine reset.
	ErrReboot = errors.New("shell: reboot requested")

	// ErrDuplicateCommand indicates two table entries share a name.
	ErrDuplicateCommand = errors.New("shell: duplicate command name")

	// ErrInvalidCommand indicates a table entry without a name or handler.
	ErrInvalidCommand = errors.New("shell: invalid command")
)
