package nio

import (
	"cmp"
	"fmt"
	"math"
)

// ByteBuffer is a fixed-capacity byte container with a position/limit/mark
// cursor. Multi-byte primitives are assembled in the buffer's ByteOrder,
// which defaults to NativeOrder.
//
// A ByteBuffer is not safe for concurrent use.
type ByteBuffer struct {
	array[byte]
	order ByteOrder
}

// Allocate returns a buffer that exclusively owns a new zeroed array of the given capacity.
func Allocate(capacity int) (*ByteBuffer, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: negative capacity %d", ErrIllegalArgument, capacity)
	}
	return &ByteBuffer{array: newArray(make([]byte, capacity), 0, capacity, heap), order: nativeOrder}, nil
}

// Wrap returns a buffer backed by b. The buffer's capacity and limit are
// len(b) and writes through either are visible to the other.
func Wrap(b []byte) *ByteBuffer {
	return &ByteBuffer{array: newArray(b, 0, len(b), heap), order: nativeOrder}
}

// WrapRange is Wrap with the position at offset and the limit at offset+length.
func WrapRange(b []byte, offset, length int) (*ByteBuffer, error) {
	if offset < 0 || length < 0 || offset > len(b)-length {
		return nil, fmt.Errorf("%w: range [%d, %d+%d) outside array of %d", ErrIndexOutOfBounds, offset, offset, length, len(b))
	}
	bb := Wrap(b)
	bb.limit = offset + length
	bb.position = offset
	return bb, nil
}

// ByteOrder returns the order multi-byte primitives are read and written in.
func (b *ByteBuffer) ByteOrder() ByteOrder { return b.order }

// WithByteOrder sets the byte order and returns b for chaining.
func (b *ByteBuffer) WithByteOrder(order ByteOrder) *ByteBuffer {
	b.order = order
	return b
}

// Bytes returns the remaining bytes without copying. The slice aliases the
// buffer and must not be written to when the buffer is read-only.
func (b *ByteBuffer) Bytes() []byte { return b.window() }

// GetBytes fills dst from the position.
func (b *ByteBuffer) GetBytes(dst []byte) error { return b.getSlice(dst) }

// PutBytes writes all of src at the position.
func (b *ByteBuffer) PutBytes(src []byte) error { return b.putSlice(src) }

// PutBuffer transfers the remaining bytes of src into b.
func (b *ByteBuffer) PutBuffer(src *ByteBuffer) error { return b.putArray(&src.array) }

// Slice returns a buffer over [position, limit) sharing this buffer's store.
// Like every view it keeps b's byte order.
func (b *ByteBuffer) Slice() *ByteBuffer {
	return &ByteBuffer{array: b.slice(), order: b.order}
}

// Duplicate returns a buffer sharing this buffer's store with an independent cursor.
func (b *ByteBuffer) Duplicate() *ByteBuffer {
	return &ByteBuffer{array: b.duplicate(b.kind), order: b.order}
}

// AsReadOnlyBuffer is Duplicate with every mutating operation rejected.
func (b *ByteBuffer) AsReadOnlyBuffer() *ByteBuffer {
	return &ByteBuffer{array: b.duplicate(b.readOnlyKind()), order: b.order}
}

// Compact moves the remaining bytes to the start of the buffer, sets the
// position just past them and the limit to the capacity.
func (b *ByteBuffer) Compact() error { return b.compact() }

// Equal reports whether the remaining bytes of b and o are identical.
func (b *ByteBuffer) Equal(o *ByteBuffer) bool {
	if b == o {
		return true
	}
	return string(b.window()) == string(o.window())
}

// Compare orders the remaining bytes of b and o lexicographically, treating
// each byte as signed.
func (b *ByteBuffer) Compare(o *ByteBuffer) int {
	x, y := b.window(), o.window()
	for i := 0; i < len(x) && i < len(y); i++ {
		if c := cmp.Compare(int8(x[i]), int8(y[i])); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(x), len(y))
}

func (b *ByteBuffer) String() string { return "nio.ByteBuffer" + b.state() }

// --- Multi-byte primitives ---

func (b *ByteBuffer) getN(n int) ([]byte, error) {
	p, err := b.nextGet(n)
	if err != nil {
		return nil, err
	}
	return b.hb[b.offset+p : b.offset+p+n], nil
}

func (b *ByteBuffer) getNAt(i, n int) ([]byte, error) {
	if err := b.checkIndex(i, n); err != nil {
		return nil, err
	}
	return b.hb[b.offset+i : b.offset+i+n], nil
}

func (b *ByteBuffer) putN(n int) ([]byte, error) {
	if b.kind != heap {
		return nil, ErrReadOnlyBuffer
	}
	p, err := b.nextPut(n)
	if err != nil {
		return nil, err
	}
	return b.hb[b.offset+p : b.offset+p+n], nil
}

func (b *ByteBuffer) putNAt(i, n int) ([]byte, error) {
	if b.kind != heap {
		return nil, ErrReadOnlyBuffer
	}
	if err := b.checkIndex(i, n); err != nil {
		return nil, err
	}
	return b.hb[b.offset+i : b.offset+i+n], nil
}

func (b *ByteBuffer) GetShort() (int16, error) {
	p, err := b.getN(2)
	if err != nil {
		return 0, err
	}
	return int16(b.order.Binary().Uint16(p)), nil
}

func (b *ByteBuffer) GetShortAt(i int) (int16, error) {
	p, err := b.getNAt(i, 2)
	if err != nil {
		return 0, err
	}
	return int16(b.order.Binary().Uint16(p)), nil
}

func (b *ByteBuffer) PutShort(v int16) error {
	p, err := b.putN(2)
	if err != nil {
		return err
	}
	b.order.Binary().PutUint16(p, uint16(v))
	return nil
}

func (b *ByteBuffer) PutShortAt(i int, v int16) error {
	p, err := b.putNAt(i, 2)
	if err != nil {
		return err
	}
	b.order.Binary().PutUint16(p, uint16(v))
	return nil
}

// GetChar reads an unsigned 16-bit UTF-16 code unit.
func (b *ByteBuffer) GetChar() (uint16, error) {
	v, err := b.GetShort()
	return uint16(v), err
}

func (b *ByteBuffer) GetCharAt(i int) (uint16, error) {
	v, err := b.GetShortAt(i)
	return uint16(v), err
}

func (b *ByteBuffer) PutChar(c uint16) error { return b.PutShort(int16(c)) }

func (b *ByteBuffer) PutCharAt(i int, c uint16) error { return b.PutShortAt(i, int16(c)) }

func (b *ByteBuffer) GetInt() (int32, error) {
	p, err := b.getN(4)
	if err != nil {
		return 0, err
	}
	return int32(b.order.Binary().Uint32(p)), nil
}

func (b *ByteBuffer) GetIntAt(i int) (int32, error) {
	p, err := b.getNAt(i, 4)
	if err != nil {
		return 0, err
	}
	return int32(b.order.Binary().Uint32(p)), nil
}

func (b *ByteBuffer) PutInt(v int32) error {
	p, err := b.putN(4)
	if err != nil {
		return err
	}
	b.order.Binary().PutUint32(p, uint32(v))
	return nil
}

func (b *ByteBuffer) PutIntAt(i int, v int32) error {
	p, err := b.putNAt(i, 4)
	if err != nil {
		return err
	}
	b.order.Binary().PutUint32(p, uint32(v))
	return nil
}

func (b *ByteBuffer) GetLong() (int64, error) {
	p, err := b.getN(8)
	if err != nil {
		return 0, err
	}
	return int64(b.order.Binary().Uint64(p)), nil
}

func (b *ByteBuffer) GetLongAt(i int) (int64, error) {
	p, err := b.getNAt(i, 8)
	if err != nil {
		return 0, err
	}
	return int64(b.order.Binary().Uint64(p)), nil
}

func (b *ByteBuffer) PutLong(v int64) error {
	p, err := b.putN(8)
	if err != nil {
		return err
	}
	b.order.Binary().PutUint64(p, uint64(v))
	return nil
}

func (b *ByteBuffer) PutLongAt(i int, v int64) error {
	p, err := b.putNAt(i, 8)
	if err != nil {
		return err
	}
	b.order.Binary().PutUint64(p, uint64(v))
	return nil
}

func (b *ByteBuffer) GetFloat() (float32, error) {
	v, err := b.GetInt()
	return math.Float32frombits(uint32(v)), err
}

func (b *ByteBuffer) GetFloatAt(i int) (float32, error) {
	v, err := b.GetIntAt(i)
	return math.Float32frombits(uint32(v)), err
}

func (b *ByteBuffer) PutFloat(v float32) error { return b.PutInt(int32(math.Float32bits(v))) }

func (b *ByteBuffer) PutFloatAt(i int, v float32) error {
	return b.PutIntAt(i, int32(math.Float32bits(v)))
}

func (b *ByteBuffer) GetDouble() (float64, error) {
	v, err := b.GetLong()
	return math.Float64frombits(uint64(v)), err
}

func (b *ByteBuffer) GetDoubleAt(i int) (float64, error) {
	v, err := b.GetLongAt(i)
	return math.Float64frombits(uint64(v)), err
}

func (b *ByteBuffer) PutDouble(v float64) error { return b.PutLong(int64(math.Float64bits(v))) }

func (b *ByteBuffer) PutDoubleAt(i int, v float64) error {
	return b.PutLongAt(i, int64(math.Float64bits(v)))
}
