package charset

import (
	"fmt"
	"slices"
	"unicode/utf16"

	"github.com/oy3o/nio"
)

// Decoder converts bytes of one charset into UTF-16 chars. It is a state
// machine that moves from reset through one or more Decode calls, a final
// Decode with endOfInput set and a Flush. Reset returns it to the start.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	cs          *Charset
	loop        DecodeLoop
	replacement []uint16
	onMalformed CodingErrorAction
	onUnmapped  CodingErrorAction
	state       coderState
}

func newDecoder(cs *Charset, loop DecodeLoop) *Decoder {
	return &Decoder{cs: cs, loop: loop, replacement: []uint16{0xFFFD}}
}

// Charset returns the charset that created d.
func (d *Decoder) Charset() *Charset { return d.cs }

func (d *Decoder) AverageCharsPerByte() float32 { return d.cs.def.AverageCharsPerByte }
func (d *Decoder) MaxCharsPerByte() float32     { return d.cs.def.MaxCharsPerByte }

// Replacement returns the string written in place of bad input under Replace.
func (d *Decoder) Replacement() string { return string(utf16.Decode(d.replacement)) }

// ReplaceWith changes the replacement. It must be non-empty and no longer
// than MaxCharsPerByte chars.
func (d *Decoder) ReplaceWith(s string) error {
	r := utf16.Encode([]rune(s))
	if len(r) == 0 {
		return fmt.Errorf("%w: empty replacement", nio.ErrIllegalArgument)
	}
	if float32(len(r)) > d.MaxCharsPerByte() {
		return fmt.Errorf("%w: replacement of %d chars exceeds %v", nio.ErrIllegalArgument, len(r), d.MaxCharsPerByte())
	}
	d.replacement = r
	return nil
}

func (d *Decoder) MalformedInputAction() CodingErrorAction    { return d.onMalformed }
func (d *Decoder) UnmappableCharacterAction() CodingErrorAction { return d.onUnmapped }

// OnMalformedInput sets the action for malformed input and returns d for chaining.
func (d *Decoder) OnMalformedInput(a CodingErrorAction) *Decoder {
	d.onMalformed = normalize(a)
	return d
}

// OnUnmappableCharacter sets the action for unmappable characters and returns d for chaining.
func (d *Decoder) OnUnmappableCharacter(a CodingErrorAction) *Decoder {
	d.onUnmapped = normalize(a)
	return d
}

// Decode converts as many remaining bytes of in as fit into out, advancing
// both positions. It returns Underflow once in is exhausted, Overflow when out
// is full, or the error result of a bad sequence whose action is Report. The
// bad sequence is then left at in's position.
//
// When endOfInput is set, bytes left over after Underflow are malformed.
func (d *Decoder) Decode(in *nio.ByteBuffer, out *nio.CharBuffer, endOfInput bool) (*CoderResult, error) {
	next := stateCoding
	if endOfInput {
		next = stateEnd
	}
	if !d.state.canCode(endOfInput) {
		return nil, illegalTransition(d.state, next)
	}
	if out.IsReadOnly() {
		return nil, nio.ErrReadOnlyBuffer
	}
	d.state = next

	for {
		nDst, nSrc, res := d.loop.Decode(out.Chars(), in.Bytes())
		if err := skip(in, nSrc); err != nil {
			return nil, err
		}
		if err := skip(out, nDst); err != nil {
			return nil, err
		}

		if res.IsUnderflow() {
			if !endOfInput || !in.HasRemaining() {
				return res, nil
			}
			res = malformed(in.Remaining())
		}
		if res.IsOverflow() {
			return res, nil
		}

		action := d.onMalformed
		if res.IsUnmappable() {
			action = d.onUnmapped
		}
		switch action {
		case Report:
			return res, nil
		case Replace:
			if out.Remaining() < len(d.replacement) {
				return Overflow, nil
			}
			if err := out.PutChars(d.replacement); err != nil {
				return nil, err
			}
		}
		if err := skip(in, res.length); err != nil {
			return nil, err
		}
	}
}

// Flush writes any state the charset buffered until the end of input. It
// may only follow a Decode with endOfInput set and returns Underflow once
// everything is written.
func (d *Decoder) Flush(out *nio.CharBuffer) (*CoderResult, error) {
	switch d.state {
	case stateFlushed:
		return Underflow, nil
	case stateEnd:
	default:
		return nil, illegalTransition(d.state, stateFlushed)
	}
	res := Underflow
	if f, ok := d.loop.(DecodeFlusher); ok {
		if out.IsReadOnly() {
			return nil, nio.ErrReadOnlyBuffer
		}
		var n int
		n, res = f.FlushDecode(out.Chars())
		if err := skip(out, n); err != nil {
			return nil, err
		}
	}
	if res.IsUnderflow() {
		d.state = stateFlushed
	}
	return res, nil
}

// Reset discards any charset state and makes d ready for a new input.
func (d *Decoder) Reset() *Decoder {
	if r, ok := d.loop.(Resetter); ok {
		r.Reset()
	}
	d.state = stateReset
	return d
}

// DecodeAll resets d, decodes every remaining byte of in and flushes. The
// result is flipped and ready to read. A reported error result is returned
// as its Err, which matches ErrCharacterCoding.
func (d *Decoder) DecodeAll(in *nio.ByteBuffer) (*nio.CharBuffer, error) {
	n := int(float32(in.Remaining()) * d.AverageCharsPerByte())
	out, err := nio.AllocateChars(n)
	if err != nil {
		return nil, err
	}
	if n == 0 && !in.HasRemaining() {
		return out, nil
	}
	d.Reset()
	for {
		res, err := d.Decode(in, out, true)
		if err != nil {
			return nil, err
		}
		if res.IsUnderflow() {
			if res, err = d.Flush(out); err != nil {
				return nil, err
			}
		}
		if res.IsUnderflow() {
			break
		}
		if !res.IsOverflow() {
			return nil, res.Err()
		}
		grown, err := nio.AllocateChars(nio.GrowCapacity(out.Capacity(), 1))
		if err != nil {
			return nil, err
		}
		out.Flip()
		if err := grown.PutBuffer(out); err != nil {
			return nil, err
		}
		out = grown
	}
	out.Flip()
	return out, nil
}

// DecodeBytes is DecodeAll over b, returning the chars as a slice.
func (d *Decoder) DecodeBytes(b []byte) ([]uint16, error) {
	cb, err := d.DecodeAll(nio.Wrap(b))
	if err != nil {
		return nil, err
	}
	return slices.Clone(cb.Chars()), nil
}
