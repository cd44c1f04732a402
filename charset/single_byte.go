package charset

import "golang.org/x/text/encoding/charmap"

// singleByte maps each byte to exactly one BMP char.
type singleByte struct {
	decode func(b byte) (uint16, bool)
	encode func(c uint16) (byte, bool)
	// undefined is the result for a byte decode rejects.
	undefined *CoderResult
}

func (s *singleByte) Decode(dst []uint16, src []byte) (nDst, nSrc int, res *CoderResult) {
	for nSrc < len(src) {
		c, ok := s.decode(src[nSrc])
		if !ok {
			return nDst, nSrc, s.undefined
		}
		if nDst == len(dst) {
			return nDst, nSrc, Overflow
		}
		dst[nDst] = c
		nDst++
		nSrc++
	}
	return nDst, nSrc, Underflow
}

func (s *singleByte) Encode(dst []byte, src []uint16) (nDst, nSrc int, res *CoderResult) {
	for nSrc < len(src) {
		c := src[nSrc]
		b, ok := s.encode(c)
		if !ok {
			return nDst, nSrc, unencodable(src[nSrc:])
		}
		if nDst == len(dst) {
			return nDst, nSrc, Overflow
		}
		dst[nDst] = b
		nDst++
		nSrc++
	}
	return nDst, nSrc, Underflow
}

// unencodable classifies the char at src[0], which a charset without
// supplementary characters could not encode.
func unencodable(src []uint16) *CoderResult {
	if !isSurrogate(src[0]) {
		return unmappable(1)
	}
	if _, res := parseSurrogate(src); res != nil {
		return res
	}
	return unmappable(2)
}

func newASCIILoop() *singleByte {
	return &singleByte{
		decode:    func(b byte) (uint16, bool) { return uint16(b), b < 0x80 },
		encode:    func(c uint16) (byte, bool) { return byte(c), c < 0x80 },
		undefined: malformed(1),
	}
}

func newLatin1Loop() *singleByte {
	return &singleByte{
		decode: func(b byte) (uint16, bool) { return uint16(b), true },
		encode: func(c uint16) (byte, bool) { return byte(c), c < 0x100 },
	}
}

// newCharmapLoop adapts an x/text code page. Bytes the code page leaves
// undefined decode to U+FFFD there and are unmappable here.
func newCharmapLoop(cm *charmap.Charmap) *singleByte {
	return &singleByte{
		decode: func(b byte) (uint16, bool) {
			r := cm.DecodeByte(b)
			return uint16(r), r != '\uFFFD'
		},
		encode: func(c uint16) (byte, bool) {
			if isSurrogate(c) {
				return 0, false
			}
			return cm.EncodeRune(rune(c))
		},
		undefined: unmappable(1),
	}
}
