package charset

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/oy3o/nio"
	"go.uber.org/zap"
)

// Writer encodes text into some charset and writes the bytes to an
// underlying io.Writer. Text arrives as UTF-8, runes or UTF-16 chars and is
// buffered until Flush or Close. After an error all writes become no-ops
// returning it.
type Writer struct {
	dst     io.Writer
	enc     *Encoder
	chunk   *[]byte
	chars   *nio.CharBuffer // pending chars, ready to write into
	out     *nio.ByteBuffer // encoded bytes, ready to write into
	partial []byte          // incomplete UTF-8 sequence from the last Write
	utf8    [utf8.UTFMax]byte
	count   int64 // total bytes written to dst
	err     error
	closed  bool
}

var (
	_ io.Writer       = (*Writer)(nil)
	_ io.StringWriter = (*Writer)(nil)
	_ io.Closer       = (*Writer)(nil)
)

// NewWriterSize returns a Writer that encodes with enc into dst, buffering
// up to size chars and bytes. enc is reset first.
func NewWriterSize(dst io.Writer, enc *Encoder, size int) (*Writer, error) {
	if dst == nil || enc == nil {
		return nil, ErrNilIO
	}
	if size < MinChunkSize {
		return nil, fmt.Errorf("%w: writer size %d below %d", nio.ErrIllegalArgument, size, MinChunkSize)
	}
	chars, err := nio.AllocateChars(size)
	if err != nil {
		return nil, err
	}
	chunk := getChunk(size)
	return &Writer{dst: dst, enc: enc.Reset(), chunk: chunk, chars: chars, out: nio.Wrap(*chunk)}, nil
}

// NewWriter is NewWriterSize with DefaultChunkSize.
func NewWriter(dst io.Writer, enc *Encoder) (*Writer, error) {
	return NewWriterSize(dst, enc, DefaultChunkSize)
}

func (w *Writer) Count() int64 { return w.count }
func (w *Writer) Err() error   { return w.err }

// setError records the first non-nil error.
func (w *Writer) setError(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// drain writes the encoded bytes to dst.
func (w *Writer) drain() {
	w.out.Flip()
	n, err := w.out.WriteTo(w.dst)
	w.count += n
	w.setError(err)
	if err := w.out.Compact(); err != nil {
		w.setError(err)
	}
}

// encode runs the pending chars through the encoder. Chars it cannot take
// yet, such as a trailing high surrogate, stay pending.
func (w *Writer) encode(endOfInput bool) {
	w.chars.Flip()
	defer func() {
		if err := w.chars.Compact(); err != nil {
			w.setError(err)
		}
	}()
	for w.err == nil {
		res, err := w.enc.Encode(w.chars, w.out, endOfInput)
		if err != nil {
			w.setError(err)
			return
		}
		switch {
		case res.IsUnderflow():
			return
		case res.IsOverflow():
			w.drain()
		default:
			w.drain()
			w.setError(res.Err())
		}
	}
}

// WriteChars buffers UTF-16 chars for encoding.
func (w *Writer) WriteChars(src []uint16) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n := 0
	for n < len(src) {
		if !w.chars.HasRemaining() {
			if w.encode(false); w.err != nil {
				return n, w.err
			}
		}
		m := min(len(src)-n, w.chars.Remaining())
		if err := w.chars.PutChars(src[n : n+m]); err != nil {
			w.setError(err)
			return n, err
		}
		n += m
	}
	return n, nil
}

// WriteRune buffers r and returns its UTF-8 length. Invalid runes are
// written as U+FFFD.
func (w *Writer) WriteRune(r rune) (int, error) {
	if !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	var units [2]uint16
	n, _ := putRune(units[:], r)
	if _, err := w.WriteChars(units[:n]); err != nil {
		return 0, err
	}
	return utf8.RuneLen(r), nil
}

// Write implements the io.Writer interface for UTF-8 text. A sequence cut
// off at the end of p is completed by the next Write; invalid bytes are
// written as U+FFFD.
func (w *Writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	if len(w.partial) > 0 {
		held := len(w.partial)
		seq := append(w.partial, p[:min(len(p), utf8.UTFMax-held)]...)
		if !utf8.FullRune(seq) {
			w.partial = seq
			return len(p), nil
		}
		w.partial = nil
		r, size := utf8.DecodeRune(seq)
		if _, err := w.WriteRune(r); err != nil {
			return 0, err
		}
		// Held bytes left over after an invalid sequence are stray continuation bytes.
		for i := size; i < held; i++ {
			if _, err := w.WriteRune(utf8.RuneError); err != nil {
				return 0, err
			}
		}
		consumed := max(size-held, 0)
		n, err := w.write(p[consumed:])
		return consumed + n, err
	}
	return w.write(p)
}

func (w *Writer) write(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if !utf8.FullRune(p[n:]) {
			w.partial = append(w.utf8[:0], p[n:]...)
			return len(p), nil
		}
		r, size := utf8.DecodeRune(p[n:])
		if _, err := w.WriteRune(r); err != nil {
			return n, err
		}
		n += size
	}
	return n, nil
}

// WriteString implements the io.StringWriter interface.
func (w *Writer) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Flush encodes every pending char and writes the bytes to dst.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.encode(false)
	if w.err == nil {
		w.drain()
	}
	return w.err
}

// Result closes the writer and returns the number of bytes written to dst
// together with the error Close reported.
func (w *Writer) Result() (int64, error) {
	err := w.Close()
	return w.count, err
}

// Close ends the input, flushes the encoder and writes everything out. An
// incomplete UTF-8 sequence or surrogate at the end is bad input for the
// encoder. dst is closed if it is an io.Closer. Later writes fail with
// ErrClosed. Closing twice is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	defer func() {
		putChunk(w.chunk)
		w.chunk, w.out = nil, nil
		w.err = ErrClosed
	}()

	if len(w.partial) > 0 {
		w.partial = w.partial[:0]
		_, _ = w.WriteChars([]uint16{utf8.RuneError})
	}
	w.encode(true)
	for w.err == nil {
		res, err := w.enc.Flush(w.out)
		if err != nil {
			w.setError(err)
			break
		}
		if res.IsUnderflow() {
			break
		}
		w.drain()
	}
	if w.err == nil {
		w.drain()
	}
	err := w.err
	if c, ok := w.dst.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil {
			Logger().Warn("closing charset writer destination", zap.Error(cerr))
			if err == nil {
				err = cerr
			}
		}
	}
	return err
}
