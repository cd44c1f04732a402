package charset

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalCharsetName indicates a name that is empty or contains characters outside [A-Za-z0-9.:_-].
	ErrIllegalCharsetName = errors.New("charset: illegal charset name")

	// ErrUnsupportedCharset indicates a legal name that no registered charset answers to.
	ErrUnsupportedCharset = errors.New("charset: unsupported charset")

	// ErrDuplicateCharset indicates a name or alias that is already registered.
	ErrDuplicateCharset = errors.New("charset: duplicate charset name")

	// ErrIllegalState indicates a coder operation invoked out of order, such as
	// decoding after a flush without an intervening reset.
	ErrIllegalState = errors.New("charset: illegal coder state")

	// ErrUnsupportedOperation indicates Length was asked of a non-error result.
	ErrUnsupportedOperation = errors.New("charset: unsupported operation")

	// ErrCharacterCoding is matched by every malformed and unmappable error.
	ErrCharacterCoding = errors.New("charset: character coding error")

	// ErrNilIO is returned when a stream is built over a nil reader, writer or coder.
	ErrNilIO = errors.New("charset: nil reader, writer or coder")

	// ErrClosed is returned by reads and writes on a closed stream.
	ErrClosed = errors.New("charset: stream closed")
)

// MalformedInputError reports an input sequence that is not legal for the charset.
type MalformedInputError struct {
	Length int // number of malformed input units
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("charset: malformed input of length %d", e.Length)
}

func (e *MalformedInputError) Is(target error) bool { return target == ErrCharacterCoding }

// UnmappableCharacterError reports a well-formed input sequence that has no
// representation in the output charset.
type UnmappableCharacterError struct {
	Length int
}

func (e *UnmappableCharacterError) Error() string {
	return fmt.Sprintf("charset: unmappable character of length %d", e.Length)
}

func (e *UnmappableCharacterError) Is(target error) bool { return target == ErrCharacterCoding }

// CoderMalfunctionError is the panic value raised when a convenience
// conversion, which replaces every bad sequence, still fails.
type CoderMalfunctionError struct {
	Err error
}

func (e *CoderMalfunctionError) Error() string { return "charset: coder malfunction: " + e.Err.Error() }

func (e *CoderMalfunctionError) Unwrap() error { return e.Err }
