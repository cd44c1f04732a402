package nio

import "errors"

var (
	// ErrBufferUnderflow indicates a relative get was attempted with fewer
	// elements remaining than it needs.
	ErrBufferUnderflow = errors.New("nio: buffer underflow")

	// ErrBufferOverflow indicates a relative put was attempted with less
	// space remaining than it needs.
	ErrBufferOverflow = errors.New("nio: buffer overflow")

	// ErrReadOnlyBuffer indicates a mutating operation was attempted on a read-only view.
	ErrReadOnlyBuffer = errors.New("nio: read-only buffer")

	// ErrInvalidMark indicates Reset was called on a buffer whose mark is not set.
	ErrInvalidMark = errors.New("nio: invalid mark")

	// ErrIndexOutOfBounds indicates an absolute access outside [0, limit).
	ErrIndexOutOfBounds = errors.New("nio: index out of bounds")

	// ErrIllegalArgument indicates a cursor value or constructor argument outside its valid range.
	ErrIllegalArgument = errors.New("nio: illegal argument")
)

var (
	// ErrInvalidWrite indicates that an io.Writer returned an invalid (negative or outbound) count from Write.
	ErrInvalidWrite = errors.New("nio: writer returned invalid count from Write")

	// ErrInvalidRead indicates that an io.Reader returned an invalid (negative or outbound) count from Read.
	ErrInvalidRead = errors.New("nio: reader returned invalid count from Read")

	// ErrInvalidWhence indicates a Seek whence other than io.SeekStart, io.SeekCurrent or io.SeekEnd.
	ErrInvalidWhence = errors.New("nio: invalid whence")
)
