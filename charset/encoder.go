package charset

import (
	"fmt"
	"slices"

	"github.com/oy3o/nio"
)

// Encoder converts UTF-16 chars into bytes of one charset. It follows the
// same reset, coding, end of input and flushed cycle as Decoder.
//
// An Encoder is not safe for concurrent use.
type Encoder struct {
	cs          *Charset
	loop        EncodeLoop
	replacement []byte
	onMalformed CodingErrorAction
	onUnmapped  CodingErrorAction
	state       coderState
}

func newEncoder(cs *Charset, loop EncodeLoop) *Encoder {
	return &Encoder{cs: cs, loop: loop, replacement: cs.def.Replacement}
}

// Charset returns the charset that created e.
func (e *Encoder) Charset() *Charset { return e.cs }

func (e *Encoder) AverageBytesPerChar() float32 { return e.cs.def.AverageBytesPerChar }
func (e *Encoder) MaxBytesPerChar() float32     { return e.cs.def.MaxBytesPerChar }

// Replacement returns a copy of the bytes written in place of bad input under Replace.
func (e *Encoder) Replacement() []byte { return slices.Clone(e.replacement) }

// ReplaceWith changes the replacement. It must be non-empty, no longer than
// MaxBytesPerChar and decode cleanly in the encoder's charset.
func (e *Encoder) ReplaceWith(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("%w: empty replacement", nio.ErrIllegalArgument)
	}
	if float32(len(b)) > e.MaxBytesPerChar() {
		return fmt.Errorf("%w: replacement of %d bytes exceeds %v", nio.ErrIllegalArgument, len(b), e.MaxBytesPerChar())
	}
	if !e.IsLegalReplacement(b) {
		return fmt.Errorf("%w: illegal replacement % x for %s", nio.ErrIllegalArgument, b, e.cs.Name())
	}
	e.replacement = slices.Clone(b)
	return nil
}

// IsLegalReplacement reports whether repl decodes without error in the
// encoder's charset.
func (e *Encoder) IsLegalReplacement(repl []byte) bool {
	_, err := e.cs.NewDecoder().DecodeAll(nio.Wrap(repl))
	return err == nil
}

func (e *Encoder) MalformedInputAction() CodingErrorAction      { return e.onMalformed }
func (e *Encoder) UnmappableCharacterAction() CodingErrorAction { return e.onUnmapped }

// OnMalformedInput sets the action for malformed input and returns e for chaining.
func (e *Encoder) OnMalformedInput(a CodingErrorAction) *Encoder {
	e.onMalformed = normalize(a)
	return e
}

// OnUnmappableCharacter sets the action for unmappable characters and returns e for chaining.
func (e *Encoder) OnUnmappableCharacter(a CodingErrorAction) *Encoder {
	e.onUnmapped = normalize(a)
	return e
}

// Encode converts as many remaining chars of in as fit into out. Results
// follow Decoder.Decode.
func (e *Encoder) Encode(in *nio.CharBuffer, out *nio.ByteBuffer, endOfInput bool) (*CoderResult, error) {
	next := stateCoding
	if endOfInput {
		next = stateEnd
	}
	if !e.state.canCode(endOfInput) {
		return nil, illegalTransition(e.state, next)
	}
	if out.IsReadOnly() {
		return nil, nio.ErrReadOnlyBuffer
	}
	e.state = next

	for {
		nDst, nSrc, res := e.loop.Encode(out.Bytes(), in.Chars())
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

		action := e.onMalformed
		if res.IsUnmappable() {
			action = e.onUnmapped
		}
		switch action {
		case Report:
			return res, nil
		case Replace:
			if out.Remaining() < len(e.replacement) {
				return Overflow, nil
			}
			if err := out.PutBytes(e.replacement); err != nil {
				return nil, err
			}
		}
		if err := skip(in, res.length); err != nil {
			return nil, err
		}
	}
}

// Flush writes any state the charset buffered until the end of input.
func (e *Encoder) Flush(out *nio.ByteBuffer) (*CoderResult, error) {
	switch e.state {
	case stateFlushed:
		return Underflow, nil
	case stateEnd:
	default:
		return nil, illegalTransition(e.state, stateFlushed)
	}
	res := Underflow
	if f, ok := e.loop.(EncodeFlusher); ok {
		if out.IsReadOnly() {
			return nil, nio.ErrReadOnlyBuffer
		}
		var n int
		n, res = f.FlushEncode(out.Bytes())
		if err := skip(out, n); err != nil {
			return nil, err
		}
	}
	if res.IsUnderflow() {
		e.state = stateFlushed
	}
	return res, nil
}

// Reset discards any charset state and makes e ready for a new input.
func (e *Encoder) Reset() *Encoder {
	if r, ok := e.loop.(Resetter); ok {
		r.Reset()
	}
	e.state = stateReset
	return e
}

// EncodeAll resets e, encodes every remaining char of in and flushes. The
// result is flipped and ready to read.
func (e *Encoder) EncodeAll(in *nio.CharBuffer) (*nio.ByteBuffer, error) {
	n := int(float32(in.Remaining()) * e.AverageBytesPerChar())
	out, err := nio.Allocate(n)
	if err != nil {
		return nil, err
	}
	if n == 0 && !in.HasRemaining() {
		return out, nil
	}
	e.Reset()
	for {
		res, err := e.Encode(in, out, true)
		if err != nil {
			return nil, err
		}
		if res.IsUnderflow() {
			if res, err = e.Flush(out); err != nil {
				return nil, err
			}
		}
		if res.IsUnderflow() {
			break
		}
		if !res.IsOverflow() {
			return nil, res.Err()
		}
		grown, err := nio.Allocate(nio.GrowCapacity(out.Capacity(), 1))
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

// EncodeString is EncodeAll over the UTF-16 form of s, returning the bytes as a slice.
func (e *Encoder) EncodeString(s string) ([]byte, error) {
	bb, err := e.EncodeAll(nio.WrapString(s))
	if err != nil {
		return nil, err
	}
	return slices.Clone(bb.Bytes()), nil
}

// CanEncodeChar reports whether c alone can be encoded. A lone surrogate
// cannot. It fails with ErrIllegalState while a conversion is in progress.
func (e *Encoder) CanEncodeChar(c uint16) (bool, error) {
	return e.canEncode(nio.WrapChars([]uint16{c}))
}

// CanEncodeString reports whether every char of s can be encoded.
func (e *Encoder) CanEncodeString(s string) (bool, error) {
	return e.canEncode(nio.WrapString(s))
}

func (e *Encoder) canEncode(cb *nio.CharBuffer) (bool, error) {
	switch e.state {
	case stateFlushed:
		e.Reset()
	case stateReset:
	default:
		return false, illegalTransition(e.state, stateCoding)
	}
	malformedAction, unmappableAction := e.onMalformed, e.onUnmapped
	defer func() {
		e.onMalformed, e.onUnmapped = malformedAction, unmappableAction
		e.Reset()
	}()
	e.onMalformed, e.onUnmapped = Report, Report
	_, err := e.EncodeAll(cb)
	return err == nil, nil
}
