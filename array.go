package nio

import "fmt"

// kind selects which backing store variant a buffer was constructed as.
type kind uint8

const (
	heap         kind = iota // mutable array
	heapReadOnly             // read-only view of an array
	sequence                 // read-only, built from an immutable string
)

// array is the backing store shared by ByteBuffer and CharBuffer. Element i
// of the buffer lives at hb[offset+i].
type array[E byte | uint16] struct {
	cursor
	hb     []E
	offset int
	kind   kind
}

func newArray[E byte | uint16](hb []E, offset, capacity int, k kind) array[E] {
	return array[E]{cursor: newCursor(capacity), hb: hb, offset: offset, kind: k}
}

// IsReadOnly reports whether mutating operations are rejected.
func (a *array[E]) IsReadOnly() bool { return a.kind != heap }

// HasArray reports whether the buffer is backed by an accessible, writable array.
func (a *array[E]) HasArray() bool { return a.kind == heap }

// Array returns the backing array. Changes to it are visible through the
// buffer and the other way round.
func (a *array[E]) Array() ([]E, error) {
	if a.kind != heap {
		return nil, ErrReadOnlyBuffer
	}
	return a.hb, nil
}

// ArrayOffset returns the index in Array of the buffer's element zero.
func (a *array[E]) ArrayOffset() (int, error) {
	if a.kind != heap {
		return 0, ErrReadOnlyBuffer
	}
	return a.offset, nil
}

// Get reads the element at the position and advances it.
func (a *array[E]) Get() (E, error) {
	p, err := a.nextGet(1)
	if err != nil {
		return 0, err
	}
	return a.hb[a.offset+p], nil
}

// GetAt reads the element at index i without moving the position.
func (a *array[E]) GetAt(i int) (E, error) {
	if err := a.checkIndex(i, 1); err != nil {
		return 0, err
	}
	return a.hb[a.offset+i], nil
}

// Put writes e at the position and advances it.
func (a *array[E]) Put(e E) error {
	if a.kind != heap {
		return ErrReadOnlyBuffer
	}
	p, err := a.nextPut(1)
	if err != nil {
		return err
	}
	a.hb[a.offset+p] = e
	return nil
}

// PutAt writes e at index i without moving the position.
func (a *array[E]) PutAt(i int, e E) error {
	if a.kind != heap {
		return ErrReadOnlyBuffer
	}
	if err := a.checkIndex(i, 1); err != nil {
		return err
	}
	a.hb[a.offset+i] = e
	return nil
}

// getSlice fills dst from the position. Nothing is transferred when fewer
// than len(dst) elements remain.
func (a *array[E]) getSlice(dst []E) error {
	p, err := a.nextGet(len(dst))
	if err != nil {
		return err
	}
	copy(dst, a.hb[a.offset+p:])
	return nil
}

// putSlice writes all of src at the position, or nothing when it does not fit.
func (a *array[E]) putSlice(src []E) error {
	if a.kind != heap {
		return ErrReadOnlyBuffer
	}
	p, err := a.nextPut(len(src))
	if err != nil {
		return err
	}
	copy(a.hb[a.offset+p:], src)
	return nil
}

// putArray transfers the remaining elements of src, advancing both positions.
func (a *array[E]) putArray(src *array[E]) error {
	if src == a {
		return fmt.Errorf("%w: source buffer is the destination", ErrIllegalArgument)
	}
	if a.kind != heap {
		return ErrReadOnlyBuffer
	}
	n := src.Remaining()
	if n > a.Remaining() {
		return fmt.Errorf("%w: need %d, remaining %d", ErrBufferOverflow, n, a.Remaining())
	}
	copy(a.hb[a.offset+a.position:], src.window())
	a.position += n
	src.position += n
	return nil
}

// window returns the elements in [position, limit) without copying.
func (a *array[E]) window() []E {
	return a.hb[a.offset+a.position : a.offset+a.limit]
}

// compact moves [position, limit) to the start of the buffer, positions the
// cursor just after it and opens the limit up to the capacity.
func (a *array[E]) compact() error {
	if a.kind != heap {
		return ErrReadOnlyBuffer
	}
	n := copy(a.hb[a.offset:a.offset+a.capacity], a.window())
	a.position = n
	a.limit = a.capacity
	a.mark = noMark
	return nil
}

// duplicate shares the store and copies the cursor.
func (a *array[E]) duplicate(k kind) array[E] {
	d := *a
	d.kind = k
	return d
}

// slice shares the store over [position, limit) with a fresh cursor.
func (a *array[E]) slice() array[E] {
	return newArray(a.hb, a.offset+a.position, a.Remaining(), a.kind)
}

// readOnlyKind is the kind a read-only view of a keeps.
func (a *array[E]) readOnlyKind() kind {
	if a.kind == heap {
		return heapReadOnly
	}
	return a.kind
}
