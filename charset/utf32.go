package charset

import "github.com/oy3o/nio"

// utf32Decoder decodes UTF-32. Like utf16Decoder it can sniff a leading
// byte order mark. Code points above U+10FFFF and surrogate code points are
// malformed.
type utf32Decoder struct {
	fixed   nio.ByteOrder
	order   nio.ByteOrder
	sniff   bool
	sniffed bool
}

func newUTF32Decoder(order nio.ByteOrder, sniff bool) *utf32Decoder {
	return &utf32Decoder{fixed: order, order: order, sniff: sniff}
}

func (d *utf32Decoder) Decode(dst []uint16, src []byte) (nDst, nSrc int, res *CoderResult) {
	for len(src)-nSrc >= 4 {
		if d.sniff && !d.sniffed {
			d.sniffed = true
			switch nio.BE.Uint32(src[nSrc:]) {
			case byteOrderMark:
				d.order = nio.BigEndian
				nSrc += 4
				continue
			case 0xFFFE0000:
				d.order = nio.LittleEndian
				nSrc += 4
				continue
			}
		}

		cp := d.order.Binary().Uint32(src[nSrc:])
		if cp > 0x10FFFF || (0xD800 <= cp && cp <= 0xDFFF) {
			return nDst, nSrc, malformed(4)
		}
		n, ok := putRune(dst[nDst:], rune(cp))
		if !ok {
			return nDst, nSrc, Overflow
		}
		nDst += n
		nSrc += 4
	}
	return nDst, nSrc, Underflow
}

func (d *utf32Decoder) Reset() {
	d.order = d.fixed
	d.sniffed = false
}

// utf32Encoder encodes UTF-32 without a byte order mark.
type utf32Encoder struct {
	order nio.ByteOrder
}

func (e utf32Encoder) Encode(dst []byte, src []uint16) (nDst, nSrc int, res *CoderResult) {
	bo := e.order.Binary()
	for nSrc < len(src) {
		r, width := rune(src[nSrc]), 1
		if isSurrogate(src[nSrc]) {
			var bad *CoderResult
			if r, bad = parseSurrogate(src[nSrc:]); bad != nil {
				return nDst, nSrc, bad
			}
			width = 2
		}
		if len(dst)-nDst < 4 {
			return nDst, nSrc, Overflow
		}
		bo.PutUint32(dst[nDst:], uint32(r))
		nDst += 4
		nSrc += width
	}
	return nDst, nSrc, Underflow
}
