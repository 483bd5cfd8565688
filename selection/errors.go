package selection

import "errors"

var (
	// ErrNotImplemented is returned by operations a selection kind does
	// not support.
	ErrNotImplemented = errors.New("selection: not implemented")
	// ErrInvalidSelection is returned by operations on a selection its
	// root no longer owns.
	ErrInvalidSelection = errors.New("selection: selection is not valid")
	ErrBadArgument      = errors.New("selection: bad argument")
	// ErrCannotEdit is returned when no editable property covers the
	// selection.
	ErrCannotEdit = errors.New("selection: cannot edit here")
	// ErrBadInteger is returned when the text of an integer property does
	// not parse.
	ErrBadInteger = errors.New("selection: text is not an integer")
)
