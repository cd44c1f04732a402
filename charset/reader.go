package charset

import (
	"fmt"
	"io"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/oy3o/nio"
	"go.uber.org/zap"
)

const maxConsecutiveEmptyReads = 100

// Reader decodes a byte stream in some charset and serves it as UTF-8 text,
// runes or UTF-16 chars. It tracks the first error; once one occurs every
// later read returns it.
type Reader struct {
	src   io.Reader
	dec   *Decoder
	chunk *[]byte
	in    *nio.ByteBuffer // undecoded bytes, ready to read
	chars *nio.CharBuffer // decoded chars, ready to read
	hi    uint16          // high surrogate waiting for its pair
	rest  []byte          // tail of a rune that did not fit the caller's slice
	utf8  [utf8.UTFMax]byte
	eof   bool // src is exhausted
	done  bool // dec is flushed
	count int64
	err   error
}

var (
	_ io.Reader     = (*Reader)(nil)
	_ io.RuneReader = (*Reader)(nil)
	_ io.Closer     = (*Reader)(nil)
)

// NewReaderSize returns a Reader that decodes src with dec, reading up to
// size bytes at a time. dec is reset first.
func NewReaderSize(src io.Reader, dec *Decoder, size int) (*Reader, error) {
	if src == nil || dec == nil {
		return nil, ErrNilIO
	}
	if size < MinChunkSize {
		return nil, fmt.Errorf("%w: reader size %d below %d", nio.ErrIllegalArgument, size, MinChunkSize)
	}
	chars, err := nio.AllocateChars(size)
	if err != nil {
		return nil, err
	}
	chunk := getChunk(size)
	r := &Reader{src: src, dec: dec.Reset(), chunk: chunk, in: nio.Wrap(*chunk), chars: chars}
	r.in.Flip()
	r.chars.Flip()
	return r, nil
}

// NewReader is NewReaderSize with DefaultChunkSize.
func NewReader(src io.Reader, dec *Decoder) (*Reader, error) {
	return NewReaderSize(src, dec, DefaultChunkSize)
}

func (r *Reader) Count() int64 { return r.count }
func (r *Reader) Err() error   { return r.err }
func (r *Reader) IsEOF() bool  { return r.err == io.EOF }

// setError records the first non-nil error.
func (r *Reader) setError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// readMore moves unconsumed input to the front and reads once from src.
func (r *Reader) readMore() {
	if err := r.in.Compact(); err != nil {
		r.setError(err)
		return
	}
	defer r.in.Flip()
	for empty := 0; ; empty++ {
		if empty == maxConsecutiveEmptyReads {
			r.setError(io.ErrNoProgress)
			return
		}
		n, err := r.src.Read(r.in.Bytes())
		if n < 0 || n > r.in.Remaining() {
			r.setError(nio.ErrInvalidRead)
			return
		}
		_ = r.in.SetPosition(r.in.Position() + n)
		r.count += int64(n)
		if err == io.EOF {
			r.eof = true
			return
		}
		if err != nil || n > 0 {
			r.setError(err)
			return
		}
	}
}

// fill decodes until at least one new char is available, the input ends
// or an error occurs. chars must be empty.
func (r *Reader) fill() {
	r.chars.Clear()
	defer r.chars.Flip()
	for r.chars.Position() == 0 && r.err == nil {
		if r.done {
			r.setError(io.EOF)
			return
		}
		res, err := r.dec.Decode(r.in, r.chars, r.eof)
		if err != nil {
			r.setError(err)
			return
		}
		switch {
		case res.IsOverflow():
			return
		case res.IsError():
			r.setError(res.Err())
			return
		case r.eof:
			if res, err = r.dec.Flush(r.chars); err != nil {
				r.setError(err)
				return
			}
			r.done = res.IsUnderflow()
		case r.chars.Position() > 0:
			return
		default:
			r.readMore()
		}
	}
}

// ReadRune returns the next decoded character. An unpaired surrogate comes
// back as utf8.RuneError.
func (r *Reader) ReadRune() (rune, int, error) {
	for {
		if !r.chars.HasRemaining() {
			if r.fill(); !r.chars.HasRemaining() {
				if r.hi != 0 {
					r.hi = 0
					return utf8.RuneError, 1, nil
				}
				return 0, 0, r.err
			}
		}
		c, _ := r.chars.Get()
		if r.hi != 0 {
			hi := r.hi
			r.hi = 0
			if isLowSurrogate(c) {
				rn := utf16.DecodeRune(rune(hi), rune(c))
				return rn, utf8.RuneLen(rn), nil
			}
			_ = r.chars.SetPosition(r.chars.Position() - 1)
			return utf8.RuneError, 1, nil
		}
		if isHighSurrogate(c) {
			r.hi = c
			continue
		}
		if isLowSurrogate(c) {
			return utf8.RuneError, 1, nil
		}
		return rune(c), utf8.RuneLen(rune(c)), nil
	}
}

// Read implements the io.Reader interface, writing the decoded text as UTF-8.
// It blocks on the source only when nothing decoded is buffered.
func (r *Reader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(r.rest) > 0 {
			c := copy(p[n:], r.rest)
			r.rest = r.rest[c:]
			n += c
			continue
		}
		if n > 0 && !r.chars.HasRemaining() {
			break
		}
		rn, _, err := r.ReadRune()
		if err != nil {
			if n > 0 {
				break
			}
			return 0, err
		}
		if utf8.RuneLen(rn) <= len(p)-n {
			n += utf8.EncodeRune(p[n:], rn)
			continue
		}
		k := utf8.EncodeRune(r.utf8[:], rn)
		r.rest = r.utf8[:k]
	}
	return n, nil
}

// ReadChars reads decoded UTF-16 chars into dst.
func (r *Reader) ReadChars(dst []uint16) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	n := 0
	if r.hi != 0 {
		dst[0], r.hi = r.hi, 0
		n = 1
	}
	if n == 0 && !r.chars.HasRemaining() {
		r.fill()
	}
	m := min(len(dst)-n, r.chars.Remaining())
	if err := r.chars.GetChars(dst[n : n+m]); err != nil {
		return n, err
	}
	n += m
	if n == 0 {
		return 0, r.err
	}
	return n, nil
}

// Close releases the buffers and closes the source if it is an io.Closer.
// Later reads fail with ErrClosed. Closing twice is a no-op.
func (r *Reader) Close() error {
	if r.in == nil {
		return nil
	}
	putChunk(r.chunk)
	r.chunk, r.in = nil, nil
	_ = r.chars.SetLimit(0)
	r.rest, r.hi = nil, 0
	r.err = ErrClosed
	if c, ok := r.src.(io.Closer); ok {
		if err := c.Close(); err != nil {
			Logger().Warn("closing charset reader source", zap.Error(err))
			return err
		}
	}
	return nil
}
