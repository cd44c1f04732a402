package charset

func isContinuation(b byte) bool { return b&0xC0 == 0x80 }

// utf8Loop decodes and encodes UTF-8. A malformed sequence is as long as
// its longest valid prefix, but at least one byte; encoded surrogates are
// malformed as a whole.
type utf8Loop struct{}

func (utf8Loop) Decode(dst []uint16, src []byte) (nDst, nSrc int, res *CoderResult) {
	for nSrc < len(src) {
		b1 := src[nSrc]
		if b1 < 0x80 {
			if nDst == len(dst) {
				return nDst, nSrc, Overflow
			}
			dst[nDst] = uint16(b1)
			nDst++
			nSrc++
			continue
		}

		var r rune
		var size int
		p := src[nSrc:]
		switch {
		case 0xC2 <= b1 && b1 <= 0xDF:
			if len(p) < 2 {
				return nDst, nSrc, Underflow
			}
			if !isContinuation(p[1]) {
				return nDst, nSrc, malformed(1)
			}
			r, size = rune(b1&0x1F)<<6|rune(p[1]&0x3F), 2

		case 0xE0 <= b1 && b1 <= 0xEF:
			if len(p) >= 2 && ((b1 == 0xE0 && p[1] < 0xA0) || !isContinuation(p[1])) {
				return nDst, nSrc, malformed(1)
			}
			if len(p) < 3 {
				return nDst, nSrc, Underflow
			}
			if !isContinuation(p[2]) {
				return nDst, nSrc, malformed(2)
			}
			r, size = rune(b1&0x0F)<<12|rune(p[1]&0x3F)<<6|rune(p[2]&0x3F), 3
			if 0xD800 <= r && r <= 0xDFFF {
				return nDst, nSrc, malformed(3)
			}

		case 0xF0 <= b1 && b1 <= 0xF4:
			if len(p) >= 2 {
				b2 := p[1]
				if (b1 == 0xF0 && (b2 < 0x90 || b2 > 0xBF)) || (b1 == 0xF4 && b2&0xF0 != 0x80) || !isContinuation(b2) {
					return nDst, nSrc, malformed(1)
				}
			}
			if len(p) >= 3 && !isContinuation(p[2]) {
				return nDst, nSrc, malformed(2)
			}
			if len(p) < 4 {
				return nDst, nSrc, Underflow
			}
			if !isContinuation(p[3]) {
				return nDst, nSrc, malformed(3)
			}
			r, size = rune(b1&0x07)<<18|rune(p[1]&0x3F)<<12|rune(p[2]&0x3F)<<6|rune(p[3]&0x3F), 4

		default:
			return nDst, nSrc, malformed(1)
		}

		n, ok := putRune(dst[nDst:], r)
		if !ok {
			return nDst, nSrc, Overflow
		}
		nDst += n
		nSrc += size
	}
	return nDst, nSrc, Underflow
}

func (utf8Loop) Encode(dst []byte, src []uint16) (nDst, nSrc int, res *CoderResult) {
	for nSrc < len(src) {
		c := src[nSrc]
		r, width := rune(c), 1
		if isSurrogate(c) {
			var bad *CoderResult
			if r, bad = parseSurrogate(src[nSrc:]); bad != nil {
				return nDst, nSrc, bad
			}
			width = 2
		}

		d := dst[nDst:]
		switch {
		case r < 0x80:
			if len(d) < 1 {
				return nDst, nSrc, Overflow
			}
			d[0] = byte(r)
			nDst++
		case r < 0x800:
			if len(d) < 2 {
				return nDst, nSrc, Overflow
			}
			d[0] = 0xC0 | byte(r>>6)
			d[1] = 0x80 | byte(r)&0x3F
			nDst += 2
		case r < 0x10000:
			if len(d) < 3 {
				return nDst, nSrc, Overflow
			}
			d[0] = 0xE0 | byte(r>>12)
			d[1] = 0x80 | byte(r>>6)&0x3F
			d[2] = 0x80 | byte(r)&0x3F
			nDst += 3
		default:
			if len(d) < 4 {
				return nDst, nSrc, Overflow
			}
			d[0] = 0xF0 | byte(r>>18)
			d[1] = 0x80 | byte(r>>12)&0x3F
			d[2] = 0x80 | byte(r>>6)&0x3F
			d[3] = 0x80 | byte(r)&0x3F
			nDst += 4
		}
		nSrc += width
	}
	return nDst, nSrc, Underflow
}
