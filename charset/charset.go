package charset

import (
	"fmt"
	"slices"
	"strings"

	"github.com/oy3o/nio"
	"golang.org/x/text/encoding"
)

// Definition describes a charset to New.
type Definition struct {
	Name    string
	Aliases []string

	// Encoding is the equivalent golang.org/x/text encoding, if there is one.
	Encoding encoding.Encoding

	AverageCharsPerByte float32
	MaxCharsPerByte     float32
	AverageBytesPerChar float32
	MaxBytesPerChar     float32

	// Replacement is the encoder's initial replacement. The decoder's is always U+FFFD.
	Replacement []byte

	// Contains reports whether every character of other is representable in
	// this charset. A charset always contains itself.
	Contains func(other *Charset) bool

	NewDecodeLoop func() DecodeLoop
	NewEncodeLoop func() EncodeLoop
}

// Charset is a named mapping between UTF-16 chars and bytes. Charsets are
// immutable and safe for concurrent use; the Decoders and Encoders they create are not.
type Charset struct {
	def     Definition
	aliases []string
}

// New validates def and returns the charset it describes.
func New(def Definition) (*Charset, error) {
	if err := checkName(def.Name); err != nil {
		return nil, err
	}
	for _, a := range def.Aliases {
		if err := checkName(a); err != nil {
			return nil, err
		}
	}
	if def.NewDecodeLoop == nil || def.NewEncodeLoop == nil {
		return nil, fmt.Errorf("%w: charset %s has no coding loops", nio.ErrIllegalArgument, def.Name)
	}
	if def.MaxCharsPerByte <= 0 || def.AverageCharsPerByte <= 0 || def.AverageCharsPerByte > def.MaxCharsPerByte {
		return nil, fmt.Errorf("%w: charset %s chars per byte %v/%v", nio.ErrIllegalArgument, def.Name, def.AverageCharsPerByte, def.MaxCharsPerByte)
	}
	if def.MaxBytesPerChar <= 0 || def.AverageBytesPerChar <= 0 || def.AverageBytesPerChar > def.MaxBytesPerChar {
		return nil, fmt.Errorf("%w: charset %s bytes per char %v/%v", nio.ErrIllegalArgument, def.Name, def.AverageBytesPerChar, def.MaxBytesPerChar)
	}
	if len(def.Replacement) == 0 || float32(len(def.Replacement)) > def.MaxBytesPerChar {
		return nil, fmt.Errorf("%w: charset %s replacement of %d bytes", nio.ErrIllegalArgument, def.Name, len(def.Replacement))
	}
	def.Replacement = slices.Clone(def.Replacement)
	return &Charset{def: def, aliases: slices.Clone(def.Aliases)}, nil
}

// checkName enforces [A-Za-z0-9][A-Za-z0-9.:_-]*.
func checkName(s string) error {
	if s == "" {
		return fmt.Errorf("%w: empty name", ErrIllegalCharsetName)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		case i > 0 && (c == '.' || c == ':' || c == '_' || c == '-'):
		default:
			return fmt.Errorf("%w: %q", ErrIllegalCharsetName, s)
		}
	}
	return nil
}

// Name returns the canonical name.
func (c *Charset) Name() string { return c.def.Name }

// Aliases returns a copy of the charset's alternative names.
func (c *Charset) Aliases() []string { return slices.Clone(c.aliases) }

func (c *Charset) DisplayName() string { return c.def.Name }

// IsRegistered reports whether the name is IANA registered rather than an
// experimental "x-" name.
func (c *Charset) IsRegistered() bool {
	return !strings.HasPrefix(c.def.Name, "X-") && !strings.HasPrefix(c.def.Name, "x-")
}

// Encoding returns the equivalent golang.org/x/text encoding, or nil.
func (c *Charset) Encoding() encoding.Encoding { return c.def.Encoding }

// Contains reports whether c can represent every character of other.
func (c *Charset) Contains(other *Charset) bool {
	if c.Equal(other) {
		return true
	}
	return c.def.Contains != nil && c.def.Contains(other)
}

// Equal compares canonical names case-sensitively.
func (c *Charset) Equal(other *Charset) bool {
	return other != nil && c.def.Name == other.def.Name
}

// Compare orders charsets by canonical name.
func (c *Charset) Compare(other *Charset) int {
	return strings.Compare(c.def.Name, other.def.Name)
}

func (c *Charset) String() string { return "Charset[" + c.def.Name + "]" }

// NewDecoder returns a decoder in its reset state that reports every error.
func (c *Charset) NewDecoder() *Decoder {
	return newDecoder(c, c.def.NewDecodeLoop())
}

// NewEncoder returns an encoder in its reset state that reports every error.
func (c *Charset) NewEncoder() *Encoder {
	return newEncoder(c, c.def.NewEncodeLoop())
}

// Decode converts the remaining bytes of bb, replacing malformed and
// unmappable input, and returns a flipped buffer of the result.
//
// It panics with a *CoderMalfunctionError if the replacing decoder still fails.
func (c *Charset) Decode(bb *nio.ByteBuffer) *nio.CharBuffer {
	cb, err := c.NewDecoder().
		OnMalformedInput(Replace).
		OnUnmappableCharacter(Replace).
		DecodeAll(bb)
	if err != nil {
		panic(&CoderMalfunctionError{Err: err})
	}
	return cb
}

// EncodeBuffer converts the remaining chars of cb, replacing malformed and
// unmappable input, and returns a flipped buffer of the result.
//
// It panics with a *CoderMalfunctionError if the replacing encoder still fails.
func (c *Charset) EncodeBuffer(cb *nio.CharBuffer) *nio.ByteBuffer {
	bb, err := c.NewEncoder().
		OnMalformedInput(Replace).
		OnUnmappableCharacter(Replace).
		EncodeAll(cb)
	if err != nil {
		panic(&CoderMalfunctionError{Err: err})
	}
	return bb
}

// Encode is EncodeBuffer over the UTF-16 form of s.
func (c *Charset) Encode(s string) *nio.ByteBuffer {
	return c.EncodeBuffer(nio.WrapString(s))
}
