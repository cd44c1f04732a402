package charset

import "unicode/utf16"

// DecodeLoop is the charset-specific half of a Decoder. Decode converts as
// much of src into dst as it can and reports why it stopped:
//
//   - Underflow when src is exhausted or ends in an incomplete sequence,
//     which is left unconsumed.
//   - Overflow when dst has no room for the next character.
//   - A malformed or unmappable result when src[nSrc:] starts with a bad
//     sequence of that length. The bad sequence is not consumed.
//
// Decode never blocks and must not retain src or dst.
type DecodeLoop interface {
	Decode(dst []uint16, src []byte) (nDst, nSrc int, res *CoderResult)
}

// EncodeLoop is the mirror of DecodeLoop for encoders.
type EncodeLoop interface {
	Encode(dst []byte, src []uint16) (nDst, nSrc int, res *CoderResult)
}

// DecodeFlusher is implemented by decode loops that buffer state which must
// be written out once the input has ended.
type DecodeFlusher interface {
	FlushDecode(dst []uint16) (nDst int, res *CoderResult)
}

// EncodeFlusher is the mirror of DecodeFlusher for encoders.
type EncodeFlusher interface {
	FlushEncode(dst []byte) (nDst int, res *CoderResult)
}

// Resetter is implemented by loops that carry state between calls, such as
// a detected byte order mark.
type Resetter interface {
	Reset()
}

func isHighSurrogate(c uint16) bool { return 0xD800 <= c && c <= 0xDBFF }
func isLowSurrogate(c uint16) bool  { return 0xDC00 <= c && c <= 0xDFFF }
func isSurrogate(c uint16) bool     { return 0xD800 <= c && c <= 0xDFFF }

// parseSurrogate decodes the surrogate pair at the start of src, whose first
// char must be a surrogate. It returns Underflow when src ends after a high
// surrogate and malformed(1) for an unpaired surrogate.
func parseSurrogate(src []uint16) (rune, *CoderResult) {
	if !isHighSurrogate(src[0]) {
		return 0, malformed(1)
	}
	if len(src) < 2 {
		return 0, Underflow
	}
	if !isLowSurrogate(src[1]) {
		return 0, malformed(1)
	}
	return utf16.DecodeRune(rune(src[0]), rune(src[1])), nil
}

// putRune writes r as one or two UTF-16 code units. It reports false when
// dst is too short.
func putRune(dst []uint16, r rune) (int, bool) {
	if r < 0x10000 {
		if len(dst) < 1 {
			return 0, false
		}
		dst[0] = uint16(r)
		return 1, true
	}
	if len(dst) < 2 {
		return 0, false
	}
	hi, lo := utf16.EncodeRune(r)
	dst[0], dst[1] = uint16(hi), uint16(lo)
	return 2, true
}
