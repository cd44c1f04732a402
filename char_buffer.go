package nio

import (
	"fmt"
	"slices"
	"unicode/utf16"
)

// CharBuffer is a fixed-capacity container of UTF-16 code units with a
// position/limit/mark cursor. It is either array-backed (mutable or
// read-only) or backed by a string, in which case it is always read-only.
//
// A CharBuffer is not safe for concurrent use.
type CharBuffer struct {
	array[uint16]
}

// AllocateChars returns a buffer that exclusively owns a new array of the given capacity.
func AllocateChars(capacity int) (*CharBuffer, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: negative capacity %d", ErrIllegalArgument, capacity)
	}
	return &CharBuffer{newArray(make([]uint16, capacity), 0, capacity, heap)}, nil
}

// WrapChars returns a buffer backed by c.
func WrapChars(c []uint16) *CharBuffer {
	return &CharBuffer{newArray(c, 0, len(c), heap)}
}

// WrapCharsRange is WrapChars with the position at offset and the limit at offset+length.
func WrapCharsRange(c []uint16, offset, length int) (*CharBuffer, error) {
	if offset < 0 || length < 0 || offset > len(c)-length {
		return nil, fmt.Errorf("%w: range [%d, %d+%d) outside array of %d", ErrIndexOutOfBounds, offset, offset, length, len(c))
	}
	cb := WrapChars(c)
	cb.limit = offset + length
	cb.position = offset
	return cb, nil
}

// WrapString returns a read-only buffer over the UTF-16 encoding of s.
func WrapString(s string) *CharBuffer {
	u := utf16.Encode([]rune(s))
	return &CharBuffer{newArray(u, 0, len(u), sequence)}
}

// WrapStringRange is WrapString positioned at start with its limit at end,
// both counted in UTF-16 code units.
func WrapStringRange(s string, start, end int) (*CharBuffer, error) {
	cb := WrapString(s)
	if start < 0 || end < start || end > cb.capacity {
		return nil, fmt.Errorf("%w: range [%d, %d) outside sequence of %d", ErrIndexOutOfBounds, start, end, cb.capacity)
	}
	cb.limit = end
	cb.position = start
	return cb, nil
}

// Chars returns the remaining code units without copying. The slice aliases
// the buffer and must not be written to when the buffer is read-only.
func (c *CharBuffer) Chars() []uint16 { return c.window() }

// GetChars fills dst from the position.
func (c *CharBuffer) GetChars(dst []uint16) error { return c.getSlice(dst) }

// PutChars writes all of src at the position.
func (c *CharBuffer) PutChars(src []uint16) error { return c.putSlice(src) }

// PutString writes the UTF-16 encoding of s at the position.
func (c *CharBuffer) PutString(s string) error { return c.putSlice(utf16.Encode([]rune(s))) }

// PutBuffer transfers the remaining chars of src into c.
func (c *CharBuffer) PutBuffer(src *CharBuffer) error { return c.putArray(&src.array) }

// Length returns the length of the character sequence, which is Remaining.
func (c *CharBuffer) Length() int { return c.Remaining() }

// CharAt returns the char at index i relative to the position.
func (c *CharBuffer) CharAt(i int) (uint16, error) {
	if i < 0 || i >= c.Remaining() {
		return 0, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfBounds, i, c.Remaining())
	}
	return c.hb[c.offset+c.position+i], nil
}

// SubSequence returns a buffer sharing this store whose position and limit
// are start and end chars past the current position. The capacity is unchanged.
func (c *CharBuffer) SubSequence(start, end int) (*CharBuffer, error) {
	n := c.Remaining()
	if start < 0 || end < start || end > n {
		return nil, fmt.Errorf("%w: range [%d, %d) outside sequence of %d", ErrIndexOutOfBounds, start, end, n)
	}
	d := c.duplicate(c.kind)
	d.limit = c.position + end
	d.position = c.position + start
	d.mark = noMark
	return &CharBuffer{d}, nil
}

// Slice returns a buffer over [position, limit) sharing this buffer's store.
func (c *CharBuffer) Slice() *CharBuffer { return &CharBuffer{c.slice()} }

// Duplicate returns a buffer sharing this buffer's store with an independent cursor.
func (c *CharBuffer) Duplicate() *CharBuffer { return &CharBuffer{c.duplicate(c.kind)} }

// AsReadOnlyBuffer is Duplicate with every mutating operation rejected.
func (c *CharBuffer) AsReadOnlyBuffer() *CharBuffer {
	return &CharBuffer{c.duplicate(c.readOnlyKind())}
}

// Compact moves the remaining chars to the start of the buffer, sets the
// position just past them and the limit to the capacity.
func (c *CharBuffer) Compact() error { return c.compact() }

// Equal reports whether the remaining chars of c and o are identical.
func (c *CharBuffer) Equal(o *CharBuffer) bool {
	return c == o || slices.Equal(c.window(), o.window())
}

// Compare orders the remaining chars of c and o lexicographically.
func (c *CharBuffer) Compare(o *CharBuffer) int {
	return slices.Compare(c.window(), o.window())
}

// String returns the remaining chars as a Go string. Unpaired surrogates
// become U+FFFD.
func (c *CharBuffer) String() string { return string(utf16.Decode(c.window())) }

// GoString describes the cursor rather than the content.
func (c *CharBuffer) GoString() string { return "nio.CharBuffer" + c.state() }
