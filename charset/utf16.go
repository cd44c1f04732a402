package charset

import "github.com/oy3o/nio"

const (
	byteOrderMark = 0xFEFF
	reversedMark  = 0xFFFE
)

// utf16Decoder decodes UTF-16 in a fixed byte order, or, when sniff is set,
// in the order announced by a leading byte order mark (big-endian when
// there is none).
type utf16Decoder struct {
	fixed   nio.ByteOrder
	order   nio.ByteOrder
	sniff   bool
	sniffed bool
}

func newUTF16Decoder(order nio.ByteOrder, sniff bool) *utf16Decoder {
	return &utf16Decoder{fixed: order, order: order, sniff: sniff}
}

func (d *utf16Decoder) Decode(dst []uint16, src []byte) (nDst, nSrc int, res *CoderResult) {
	for len(src)-nSrc >= 2 {
		if d.sniff && !d.sniffed {
			d.sniffed = true
			switch nio.BE.Uint16(src[nSrc:]) {
			case byteOrderMark:
				d.order = nio.BigEndian
				nSrc += 2
				continue
			case reversedMark:
				d.order = nio.LittleEndian
				nSrc += 2
				continue
			}
		}

		bo := d.order.Binary()
		c := bo.Uint16(src[nSrc:])
		switch {
		case c == reversedMark:
			return nDst, nSrc, malformed(2)
		case isLowSurrogate(c):
			return nDst, nSrc, malformed(2)
		case isHighSurrogate(c):
			if len(src)-nSrc < 4 {
				return nDst, nSrc, Underflow
			}
			c2 := bo.Uint16(src[nSrc+2:])
			if !isLowSurrogate(c2) {
				return nDst, nSrc, malformed(4)
			}
			if len(dst)-nDst < 2 {
				return nDst, nSrc, Overflow
			}
			dst[nDst], dst[nDst+1] = c, c2
			nDst += 2
			nSrc += 4
		default:
			if nDst == len(dst) {
				return nDst, nSrc, Overflow
			}
			dst[nDst] = c
			nDst++
			nSrc += 2
		}
	}
	return nDst, nSrc, Underflow
}

func (d *utf16Decoder) Reset() {
	d.order = d.fixed
	d.sniffed = false
}

// utf16Encoder encodes UTF-16, optionally preceded by a byte order mark.
type utf16Encoder struct {
	order     nio.ByteOrder
	mark      bool
	needsMark bool
}

func newUTF16Encoder(order nio.ByteOrder, mark bool) *utf16Encoder {
	return &utf16Encoder{order: order, mark: mark, needsMark: mark}
}

func (e *utf16Encoder) Encode(dst []byte, src []uint16) (nDst, nSrc int, res *CoderResult) {
	bo := e.order.Binary()
	if e.needsMark && len(src) > 0 {
		if len(dst) < 2 {
			return 0, 0, Overflow
		}
		bo.PutUint16(dst, byteOrderMark)
		nDst = 2
		e.needsMark = false
	}
	for nSrc < len(src) {
		c := src[nSrc]
		if !isSurrogate(c) {
			if len(dst)-nDst < 2 {
				return nDst, nSrc, Overflow
			}
			bo.PutUint16(dst[nDst:], c)
			nDst += 2
			nSrc++
			continue
		}
		if _, bad := parseSurrogate(src[nSrc:]); bad != nil {
			return nDst, nSrc, bad
		}
		if len(dst)-nDst < 4 {
			return nDst, nSrc, Overflow
		}
		bo.PutUint16(dst[nDst:], c)
		bo.PutUint16(dst[nDst+2:], src[nSrc+1])
		nDst += 4
		nSrc += 2
	}
	return nDst, nSrc, Underflow
}

func (e *utf16Encoder) Reset() { e.needsMark = e.mark }
