package charset

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/oy3o/nio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Decoder Test Suite ---

type DecoderTestSuite struct {
	suite.Suite
	dec *Decoder
	out *nio.CharBuffer
}

func (s *DecoderTestSuite) SetupTest() {
	s.dec = MustForName("US-ASCII").NewDecoder()
	var err error
	s.out, err = nio.AllocateChars(16)
	s.Require().NoError(err)
}

func (s *DecoderTestSuite) decoded() string {
	s.out.Flip()
	return s.out.String()
}

func (s *DecoderTestSuite) TestDefaults() {
	s.Equal(Report, s.dec.MalformedInputAction())
	s.Equal(Report, s.dec.UnmappableCharacterAction())
	s.Equal("\uFFFD", s.dec.Replacement())
	s.Equal("US-ASCII", s.dec.Charset().Name())
	s.Equal(float32(1), s.dec.AverageCharsPerByte())
	s.Equal(float32(1), s.dec.MaxCharsPerByte())
}

func (s *DecoderTestSuite) TestReportLeavesInputAtError() {
	in := nio.Wrap([]byte{'A', 0x80, 'B'})
	res, err := s.dec.Decode(in, s.out, false)
	s.Require().NoError(err)
	s.True(res.IsMalformed())
	n, _ := res.Length()
	s.Equal(1, n)
	s.Equal(1, in.Position())
	s.Equal("A", s.decoded())
}

func (s *DecoderTestSuite) TestIgnore() {
	s.dec.OnMalformedInput(Ignore)
	in := nio.Wrap([]byte{'A', 0x80, 'B'})
	res, err := s.dec.Decode(in, s.out, true)
	s.Require().NoError(err)
	s.True(res.IsUnderflow())
	s.False(in.HasRemaining())
	s.Equal("AB", s.decoded())
}

func (s *DecoderTestSuite) TestReplace() {
	s.dec.OnMalformedInput(Replace)
	in := nio.Wrap([]byte{'A', 0x80, 'B'})
	_, err := s.dec.Decode(in, s.out, true)
	s.Require().NoError(err)
	s.Equal("A\uFFFDB", s.decoded())

	s.Require().NoError(s.dec.ReplaceWith("?"))
	s.Equal("?", s.dec.Replacement())
	s.out.Clear()
	in.Rewind()
	_, err = s.dec.Reset().Decode(in, s.out, true)
	s.Require().NoError(err)
	s.Equal("A?B", s.decoded())
}

func (s *DecoderTestSuite) TestReplaceWithValidation() {
	s.ErrorIs(s.dec.ReplaceWith(""), nio.ErrIllegalArgument)
	s.ErrorIs(s.dec.ReplaceWith("??"), nio.ErrIllegalArgument)
	s.Equal("\uFFFD", s.dec.Replacement())
}

func (s *DecoderTestSuite) TestReplaceOverflow() {
	out, err := nio.AllocateChars(1)
	s.Require().NoError(err)
	s.dec.OnMalformedInput(Replace)
	in := nio.Wrap([]byte{'A', 0x80})
	res, err := s.dec.Decode(in, out, true)
	s.Require().NoError(err)
	s.True(res.IsOverflow())
	s.Equal(1, in.Position())
}

func (s *DecoderTestSuite) TestOverflow() {
	out, err := nio.AllocateChars(2)
	s.Require().NoError(err)
	in := nio.Wrap([]byte("abc"))
	res, err := s.dec.Decode(in, out, false)
	s.Require().NoError(err)
	s.Same(Overflow, res)
	s.Equal(2, in.Position())
	s.Equal(2, out.Position())
}

func (s *DecoderTestSuite) TestStateMachine() {
	s.T().Run("FlushBeforeEnd", func(t *testing.T) {
		_, err := s.dec.Reset().Flush(s.out)
		assert.ErrorIs(t, err, ErrIllegalState)
	})

	s.T().Run("CodingAfterEnd", func(t *testing.T) {
		d := s.dec.Reset()
		_, err := d.Decode(nio.Wrap([]byte("a")), s.out, true)
		require.NoError(t, err)
		_, err = d.Decode(nio.Wrap([]byte("b")), s.out, false)
		assert.ErrorIs(t, err, ErrIllegalState)
		// Repeating the final call is allowed.
		_, err = d.Decode(nio.Wrap([]byte("b")), s.out, true)
		assert.NoError(t, err)
	})

	s.T().Run("FlushTwice", func(t *testing.T) {
		d := s.dec.Reset()
		_, err := d.Decode(nio.Wrap(nil), s.out, true)
		require.NoError(t, err)
		res, err := d.Flush(s.out)
		require.NoError(t, err)
		assert.Same(t, Underflow, res)
		res, err = d.Flush(s.out)
		require.NoError(t, err)
		assert.Same(t, Underflow, res)

		_, err = d.Decode(nio.Wrap([]byte("a")), s.out, true)
		assert.ErrorIs(t, err, ErrIllegalState)
		_, err = d.Reset().Decode(nio.Wrap([]byte("a")), s.out, true)
		assert.NoError(t, err)
	})

	s.T().Run("ReadOnlyOutput", func(t *testing.T) {
		_, err := s.dec.Reset().Decode(nio.Wrap([]byte("a")), s.out.AsReadOnlyBuffer(), false)
		assert.ErrorIs(t, err, nio.ErrReadOnlyBuffer)
	})
}

func (s *DecoderTestSuite) TestDecodeAll() {
	cb, err := s.dec.DecodeAll(nio.Wrap([]byte("hello")))
	s.Require().NoError(err)
	s.Equal("hello", cb.String())
	s.Equal(0, cb.Position())

	_, err = s.dec.DecodeAll(nio.Wrap([]byte{'h', 0xFF}))
	s.ErrorIs(err, ErrCharacterCoding)

	// DecodeAll resets first, so the decoder is reusable after an error.
	chars, err := s.dec.DecodeBytes([]byte("again"))
	s.Require().NoError(err)
	s.Equal([]uint16{'a', 'g', 'a', 'i', 'n'}, chars)

	empty, err := s.dec.DecodeAll(nio.Wrap(nil))
	s.Require().NoError(err)
	s.Equal(0, empty.Remaining())
}

func TestDecoder(t *testing.T) {
	suite.Run(t, new(DecoderTestSuite))
}

// --- Encoder Test Suite ---

type EncoderTestSuite struct {
	suite.Suite
	enc *Encoder
	out *nio.ByteBuffer
}

func (s *EncoderTestSuite) SetupTest() {
	s.enc = MustForName("ISO-8859-1").NewEncoder()
	var err error
	s.out, err = nio.Allocate(16)
	s.Require().NoError(err)
}

func (s *EncoderTestSuite) encoded() []byte {
	s.out.Flip()
	return s.out.Bytes()
}

func (s *EncoderTestSuite) TestReportUnmappable() {
	in := nio.WrapString("a€b")
	res, err := s.enc.Encode(in, s.out, true)
	s.Require().NoError(err)
	s.True(res.IsUnmappable())
	s.Same(unmappable(1), res)
	s.Equal(1, in.Position())
	s.Equal([]byte("a"), s.encoded())
}

func (s *EncoderTestSuite) TestReplaceUnmappable() {
	s.enc.OnUnmappableCharacter(Replace)
	_, err := s.enc.Encode(nio.WrapString("a€b"), s.out, true)
	s.Require().NoError(err)
	s.Equal([]byte("a?b"), s.encoded())
}

func (s *EncoderTestSuite) TestIgnoreUnmappable() {
	s.enc.OnUnmappableCharacter(Ignore)
	_, err := s.enc.Encode(nio.WrapString("a€b"), s.out, true)
	s.Require().NoError(err)
	s.Equal([]byte("ab"), s.encoded())
}

func (s *EncoderTestSuite) TestSurrogates() {
	s.T().Run("LoneLow", func(t *testing.T) {
		res, err := s.enc.Reset().Encode(nio.WrapChars([]uint16{'a', 0xDC00}), s.out, false)
		require.NoError(t, err)
		assert.Same(t, malformed(1), res)
	})

	s.T().Run("PairIsUnmappable", func(t *testing.T) {
		res, err := s.enc.Reset().Encode(nio.WrapString("😀"), s.out, false)
		require.NoError(t, err)
		assert.Same(t, unmappable(2), res)
	})

	s.T().Run("TrailingHighAtEnd", func(t *testing.T) {
		in := nio.WrapChars([]uint16{'a', 0xD83D})
		res, err := s.enc.Reset().Encode(in, s.out, false)
		require.NoError(t, err)
		assert.Same(t, Underflow, res)
		assert.Equal(t, 1, in.Remaining())

		res, err = s.enc.Encode(in, s.out, true)
		require.NoError(t, err)
		assert.Same(t, malformed(1), res)
	})
}

func (s *EncoderTestSuite) TestReplaceWith() {
	s.Equal([]byte("?"), s.enc.Replacement())
	s.ErrorIs(s.enc.ReplaceWith(nil), nio.ErrIllegalArgument)
	s.ErrorIs(s.enc.ReplaceWith([]byte("??")), nio.ErrIllegalArgument)
	s.Require().NoError(s.enc.ReplaceWith([]byte{'*'}))
	s.Equal([]byte("*"), s.enc.Replacement())

	ascii := MustForName("US-ASCII").NewEncoder()
	s.False(ascii.IsLegalReplacement([]byte{0x80}))
	s.ErrorIs(ascii.ReplaceWith([]byte{0x80}), nio.ErrIllegalArgument)

	utf8enc := MustForName("UTF-8").NewEncoder()
	s.True(utf8enc.IsLegalReplacement([]byte{0xC3, 0xA9}))
	s.False(utf8enc.IsLegalReplacement([]byte{0xFF}))
	s.NoError(utf8enc.ReplaceWith([]byte{0xC3, 0xA9}))
}

func (s *EncoderTestSuite) TestCanEncode() {
	ascii := MustForName("US-ASCII").NewEncoder()
	ok, err := ascii.CanEncodeChar('A')
	s.Require().NoError(err)
	s.True(ok)
	ok, _ = ascii.CanEncodeChar('é')
	s.False(ok)

	utf8enc := MustForName("UTF-8").NewEncoder().OnMalformedInput(Replace)
	ok, _ = utf8enc.CanEncodeChar(0xD800)
	s.False(ok)
	ok, _ = utf8enc.CanEncodeString("😀")
	s.True(ok)
	// The configured actions survive the check.
	s.Equal(Replace, utf8enc.MalformedInputAction())

	ok, _ = s.enc.CanEncodeString("😀")
	s.False(ok)

	_, err = s.enc.Reset().Encode(nio.WrapString("a"), s.out, false)
	s.Require().NoError(err)
	_, err = s.enc.CanEncodeChar('a')
	s.ErrorIs(err, ErrIllegalState)
}

func (s *EncoderTestSuite) TestEncodeAll() {
	bb, err := s.enc.EncodeAll(nio.WrapString("grüße"))
	s.Require().NoError(err)
	s.Equal([]byte{'g', 'r', 0xFC, 0xDF, 'e'}, bb.Bytes())

	_, err = s.enc.EncodeString("€")
	var uce *UnmappableCharacterError
	s.Require().True(errors.As(err, &uce))
	s.Equal(1, uce.Length)

	_, err = MustForName("UTF-8").NewEncoder().EncodeAll(nio.WrapChars([]uint16{'a', 0xD800}))
	var mie *MalformedInputError
	s.Require().True(errors.As(err, &mie))
	s.Equal(1, mie.Length)
}

func TestEncoder(t *testing.T) {
	suite.Run(t, new(EncoderTestSuite))
}

func TestCharsetConvenience(t *testing.T) {
	utf8cs := MustForName("UTF-8")
	assert.Equal(t, "A\uFFFDB", utf8cs.Decode(nio.Wrap([]byte{'A', 0xFF, 'B'})).String())

	latin1 := MustForName("ISO-8859-1")
	assert.Equal(t, []byte("a?"), latin1.Encode("a€").Bytes())
	assert.Equal(t, []byte("a?"), latin1.EncodeBuffer(nio.WrapChars([]uint16{'a', 0xD800})).Bytes())
}

// trailerLoop passes ASCII through and writes a trailer once the input has
// ended, as much of it per call as fits.
type trailerLoop struct {
	*singleByte
	trailer string
	written int
}

func (l *trailerLoop) FlushDecode(dst []uint16) (int, *CoderResult) {
	n := 0
	for ; n < len(dst) && l.written < len(l.trailer); n++ {
		dst[n] = uint16(l.trailer[l.written])
		l.written++
	}
	if l.written < len(l.trailer) {
		return n, Overflow
	}
	return n, Underflow
}

func (l *trailerLoop) FlushEncode(dst []byte) (int, *CoderResult) {
	n := copy(dst, l.trailer[l.written:])
	l.written += n
	if l.written < len(l.trailer) {
		return n, Overflow
	}
	return n, Underflow
}

func (l *trailerLoop) Reset() { l.written = 0 }

func trailerCharset(t *testing.T) *Charset {
	def := asciiDefinition("x-trailer")
	def.NewDecodeLoop = func() DecodeLoop { return &trailerLoop{singleByte: newASCIILoop(), trailer: "<EOF>"} }
	def.NewEncodeLoop = func() EncodeLoop { return &trailerLoop{singleByte: newASCIILoop(), trailer: "<EOF>"} }
	return mustNew(t, def)
}

func TestFlushDelegation(t *testing.T) {
	cs := trailerCharset(t)

	t.Run("Decoder", func(t *testing.T) {
		dec := cs.NewDecoder()
		out, err := nio.AllocateChars(5)
		require.NoError(t, err)
		res, err := dec.Decode(nio.Wrap([]byte("abc")), out, true)
		require.NoError(t, err)
		require.Same(t, Underflow, res)

		res, err = dec.Flush(out)
		require.NoError(t, err)
		assert.Same(t, Overflow, res)
		assert.Equal(t, stateEnd, dec.state)
		out.Flip()
		assert.Equal(t, "abc<E", out.String())

		out.Clear()
		res, err = dec.Flush(out)
		require.NoError(t, err)
		assert.Same(t, Underflow, res)
		assert.Equal(t, stateFlushed, dec.state)
		out.Flip()
		assert.Equal(t, "OF>", out.String())

		_, err = dec.Decode(nio.Wrap([]byte("d")), out, true)
		assert.ErrorIs(t, err, ErrIllegalState)

		chars, err := dec.DecodeBytes([]byte("x"))
		require.NoError(t, err)
		assert.Equal(t, "x<EOF>", string(utf16.Decode(chars)))
	})

	t.Run("Encoder", func(t *testing.T) {
		enc := cs.NewEncoder()
		out, err := nio.Allocate(4)
		require.NoError(t, err)
		res, err := enc.Encode(nio.WrapString("hi"), out, true)
		require.NoError(t, err)
		require.Same(t, Underflow, res)

		res, err = enc.Flush(out)
		require.NoError(t, err)
		assert.Same(t, Overflow, res)
		assert.Equal(t, stateEnd, enc.state)

		out.Flip()
		assert.Equal(t, []byte("hi<E"), out.Bytes())
		out.Clear()
		res, err = enc.Flush(out)
		require.NoError(t, err)
		assert.Same(t, Underflow, res)
		assert.Equal(t, stateFlushed, enc.state)
		out.Flip()
		assert.Equal(t, []byte("OF>"), out.Bytes())

		b, err := enc.EncodeString("x")
		require.NoError(t, err)
		assert.Equal(t, []byte("x<EOF>"), b)
	})

	t.Run("ReadOnlyOutput", func(t *testing.T) {
		dec := cs.NewDecoder()
		out, err := nio.AllocateChars(8)
		require.NoError(t, err)
		_, err = dec.Decode(nio.Wrap(nil), out, true)
		require.NoError(t, err)
		_, err = dec.Flush(out.AsReadOnlyBuffer())
		assert.ErrorIs(t, err, nio.ErrReadOnlyBuffer)
	})

	t.Run("Stream", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := NewWriterSize(&buf, cs.NewEncoder(), MinChunkSize)
		require.NoError(t, err)
		_, err = w.WriteString("body")
		require.NoError(t, err)
		require.NoError(t, w.Close())
		assert.Equal(t, "body<EOF>", buf.String())

		r, err := NewReaderSize(strings.NewReader("body"), cs.NewDecoder(), MinChunkSize)
		require.NoError(t, err)
		got, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "body<EOF>", string(got))
	})
}
