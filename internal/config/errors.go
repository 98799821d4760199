package config

import (
	"errors"
	"fmt"
)

// Configuration errors.
var (
	// ErrInvalid indicates a configuration value failed validation.
	ErrInvalid = errors.New("config: invalid configuration")

	// ErrUnsupportedFormat indicates a config file extension with no decoder.
	ErrUnsupportedFormat = errors.New("config: unsupported file format")
)

// ParseError wraps a decoding failure with the file it came from.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config: parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
