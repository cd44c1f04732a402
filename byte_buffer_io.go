package nio

import (
	"fmt"
	"io"
)

const maxConsecutiveEmptyReads = 100

var (
	_ io.Reader       = (*ByteBuffer)(nil)
	_ io.ByteReader   = (*ByteBuffer)(nil)
	_ io.WriterTo     = (*ByteBuffer)(nil)
	_ io.Writer       = (*ByteBuffer)(nil)
	_ io.ByteWriter   = (*ByteBuffer)(nil)
	_ io.StringWriter = (*ByteBuffer)(nil)
	_ io.ReaderFrom   = (*ByteBuffer)(nil)
	_ io.Seeker       = (*ByteBuffer)(nil)
)

// Read implements the [io.Reader] interface by draining the remaining bytes.
func (b *ByteBuffer) Read(p []byte) (int, error) {
	if !b.HasRemaining() {
		return 0, io.EOF
	}
	n := copy(p, b.window())
	b.position += n
	return n, nil
}

// ReadByte implements the [io.ByteReader] interface.
func (b *ByteBuffer) ReadByte() (byte, error) {
	if !b.HasRemaining() {
		return 0, io.EOF
	}
	return b.Get()
}

// WriteTo implements the [io.WriterTo] interface. The position advances by
// the number of bytes w accepted.
func (b *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	if !b.HasRemaining() {
		return 0, nil
	}
	n, err := w.Write(b.window())
	if n < 0 || n > b.Remaining() {
		return 0, ErrInvalidWrite
	}
	b.position += n
	if err == nil && b.HasRemaining() {
		err = io.ErrShortWrite
	}
	return int64(n), err
}

// Write implements the [io.Writer] interface. It never grows the buffer: if
// p does not fit it writes as much as it can and returns io.ErrShortWrite.
func (b *ByteBuffer) Write(p []byte) (int, error) {
	if b.kind != heap {
		return 0, ErrReadOnlyBuffer
	}
	if !b.HasRemaining() && len(p) > 0 {
		return 0, io.ErrShortWrite
	}
	n := copy(b.hb[b.offset+b.position:b.offset+b.limit], p)
	b.position += n
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// WriteString implements the [io.StringWriter] interface.
func (b *ByteBuffer) WriteString(s string) (int, error) {
	if b.kind != heap {
		return 0, ErrReadOnlyBuffer
	}
	if !b.HasRemaining() && len(s) > 0 {
		return 0, io.ErrShortWrite
	}
	n := copy(b.hb[b.offset+b.position:b.offset+b.limit], s)
	b.position += n
	if n < len(s) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// WriteByte implements the [io.ByteWriter] interface.
func (b *ByteBuffer) WriteByte(c byte) error {
	if b.kind == heap && !b.HasRemaining() {
		return io.ErrShortWrite
	}
	return b.Put(c)
}

// ReadFrom implements the [io.ReaderFrom] interface. It reads from r until
// the buffer is full or r returns io.EOF, which is reported as a nil error.
func (b *ByteBuffer) ReadFrom(r io.Reader) (int64, error) {
	if b.kind != heap {
		return 0, ErrReadOnlyBuffer
	}
	var total int64
	for empty := 0; b.HasRemaining(); {
		n, err := r.Read(b.window())
		if n < 0 || n > b.Remaining() {
			return total, ErrInvalidRead
		}
		b.position += n
		total += int64(n)
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
		if n > 0 {
			empty = 0
		} else if empty++; empty >= maxConsecutiveEmptyReads {
			return total, io.ErrNoProgress
		}
	}
	return total, nil
}

// Seek implements the [io.Seeker] interface by moving the position. Offsets
// from io.SeekEnd are relative to the limit, and the new position must lie
// in [0, limit].
func (b *ByteBuffer) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(b.position)
	case io.SeekEnd:
		base = int64(b.limit)
	default:
		return int64(b.position), fmt.Errorf("%w: value %d is not supported", ErrInvalidWhence, whence)
	}
	pos := base + offset
	if pos < 0 || pos > int64(b.limit) {
		return int64(b.position), fmt.Errorf("%w: seek to %d outside [0, %d]", ErrIllegalArgument, pos, b.limit)
	}
	_ = b.SetPosition(int(pos))
	return pos, nil
}
