package lua

import "errors"

// ErrStateClosed is returned when operating on a closed state.
var ErrStateClosed = errors.New("lua state is closed")

// FunctionError is returned when Call names a global that is not a function.
type FunctionError struct {
	Name string
	Got  string
}

// Error implements the error interface.
func (e *FunctionError) Error() string {
	return "lua global " + e.Name + " is not a function (got " + e.Got + ")"
}
