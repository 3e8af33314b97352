package content

import "errors"

var (
	ErrInvalidPath  = errors.New("invalid path")
	ErrOutOfRange   = errors.New("index out of range")
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidInput = errors.New("invalid input")
)
