package benc

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated        = errors.New("benc: truncated input")
	ErrMalformedLength  = errors.New("benc: malformed string length")
	ErrMalformedInteger = errors.New("benc: malformed integer")
	ErrInvalidKey       = errors.New("benc: dictionary key is not a byte string")
	ErrUnknownPrefix    = errors.New("benc: no grammar for leading byte")
	ErrDepthExceeded    = errors.New("benc: nesting depth limit exceeded")
	ErrTrailingData     = errors.New("benc: trailing bytes after value")
	ErrInvalidValue     = errors.New("benc: invalid value")
	ErrUnsupportedType  = errors.New("benc: unsupported type")
)

// SyntaxError reports the input offset at which decoding stopped. It
// wraps one of the package sentinels, so callers classify failures with
// errors.Is and locate them through Offset.
type SyntaxError struct {
	Offset int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Err, e.Offset)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
