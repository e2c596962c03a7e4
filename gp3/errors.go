package gp3

import (
	"github.com/jsphweid/tabdex/gpread"
	"github.com/pkg/errors"
)

var (
	ErrUnexpectedEndOfInput   = gpread.ErrUnexpectedEndOfInput
	ErrMismatchedStringLength = gpread.ErrMismatchedStringLength
	ErrUnsupportedVersion     = errors.New("unsupported version")
	ErrUnsupportedChordFormat = errors.New("unsupported chord format")
	ErrInvalidCount           = errors.New("invalid count")
)

// recoverable lists the failures best-effort decoding logs and moves past.
// Everything else leaves the cursor somewhere it cannot be trusted.
func recoverable(err error) bool {
	return errors.Is(err, ErrUnsupportedVersion) || errors.Is(err, ErrMismatchedStringLength)
}
