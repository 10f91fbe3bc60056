package actionplan

import "errors"

var (
	ErrUnknownFamily     = errors.New("unknown equipment family")
	ErrInvalidTable      = errors.New("invalid action plan table")
	ErrUnsupportedFormat = errors.New("unsupported action plan table format")
)
