package script

import (
	"errors"
	"fmt"
)

// ErrUnknownFormat is returned for script files with an unrecognized extension.
var ErrUnknownFormat = errors.New("unknown script format")

// ParseError reports a script that could not be decoded.
type ParseError struct {
	Path   string
	Format Format
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s script %s: %v", e.Format, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Script sections named by ValidationError.
const (
	SectionHandler = "handler"
	SectionEmit    = "emit"
)

// ValidationError reports an invalid handler or emit definition.
type ValidationError struct {
	// Section is the list holding the entry, handler or emit.
	Section string

	// Index is the entry's position within Section.
	Index   int
	Handler string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Handler != "" {
		return fmt.Sprintf("script %s %d (%s): %s", e.Section, e.Index, e.Handler, e.Message)
	}
	return fmt.Sprintf("script %s %d: %s", e.Section, e.Index, e.Message)
}

// HandlerError reports a handler body that failed during an emit.
type HandlerError struct {
	Handler string
	Channel uint32
	Err     error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %s on channel %d: %v", e.Handler, e.Channel, e.Err)
}

// Unwrap returns the underlying error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}
