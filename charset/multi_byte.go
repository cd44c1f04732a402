package charset

import (
	"bytes"
	"errors"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// transformDecoder steps an x/text decoder one character at a time so that
// every bad sequence is reported at its exact offset. x/text writes U+FFFD
// for the bytes it rejects; those bytes are malformed here unless they are
// the charset's own encoding of U+FFFD.
type transformDecoder struct {
	t    transform.Transformer
	fffd []byte // encoding of U+FFFD, nil when it has none
	buf  [2 * utf8.UTFMax]byte
}

func newTransformDecoder(e encoding.Encoding, fffd []byte) *transformDecoder {
	return &transformDecoder{t: e.NewDecoder(), fffd: fffd}
}

// replacementEncoding returns the bytes e encodes U+FFFD to, or nil.
func replacementEncoding(e encoding.Encoding) []byte {
	b, err := e.NewEncoder().Bytes([]byte("\uFFFD"))
	if err != nil {
		return nil
	}
	return b
}

// step decodes the first character of src into d.buf. Some characters decode
// to more than one rune; those runes are kept together.
func (d *transformDecoder) step(src []byte) (nb, ns int, err error) {
	d.t.Reset()
	nb, ns, err = d.t.Transform(d.buf[:], src, false)
	if nb == 0 {
		return nb, ns, err
	}
	_, size := utf8.DecodeRune(d.buf[:nb])
	for k := size; k < nb; k++ {
		d.t.Reset()
		if nk, nsk, _ := d.t.Transform(d.buf[:k], src, false); nsk > 0 {
			return nk, nsk, nil
		}
	}
	return nb, ns, err
}

func (d *transformDecoder) Decode(dst []uint16, src []byte) (nDst, nSrc int, res *CoderResult) {
	for nSrc < len(src) {
		nb, ns, err := d.step(src[nSrc:])
		if nb == 0 || ns == 0 {
			if errors.Is(err, transform.ErrShortSrc) {
				return nDst, nSrc, Underflow
			}
			return nDst, nSrc, malformed(max(ns, 1))
		}

		out := d.buf[:nb]
		if bytes.ContainsRune(out, utf8.RuneError) && !bytes.Equal(src[nSrc:nSrc+ns], d.fffd) {
			return nDst, nSrc, malformed(ns)
		}
		need := 0
		for i := 0; i < nb; {
			r, size := utf8.DecodeRune(out[i:])
			need += utf16.RuneLen(r)
			i += size
		}
		if len(dst)-nDst < need {
			return nDst, nSrc, Overflow
		}
		for i := 0; i < nb; {
			r, size := utf8.DecodeRune(out[i:])
			n, _ := putRune(dst[nDst:], r)
			nDst += n
			i += size
		}
		nSrc += ns
	}
	return nDst, nSrc, Underflow
}

// transformEncoder feeds an x/text encoder one character at a time. Any
// error other than a short destination means the character is outside the
// charset's repertoire.
type transformEncoder struct {
	t   transform.Transformer
	in  [utf8.UTFMax]byte
	out [8]byte
}

func newTransformEncoder(e encoding.Encoding) *transformEncoder {
	return &transformEncoder{t: e.NewEncoder()}
}

func (e *transformEncoder) Encode(dst []byte, src []uint16) (nDst, nSrc int, res *CoderResult) {
	for nSrc < len(src) {
		r, width := rune(src[nSrc]), 1
		if isSurrogate(src[nSrc]) {
			var bad *CoderResult
			if r, bad = parseSurrogate(src[nSrc:]); bad != nil {
				return nDst, nSrc, bad
			}
			width = 2
		}

		e.t.Reset()
		k := utf8.EncodeRune(e.in[:], r)
		nb, _, err := e.t.Transform(e.out[:], e.in[:k], true)
		if err != nil {
			return nDst, nSrc, unmappable(width)
		}
		if len(dst)-nDst < nb {
			return nDst, nSrc, Overflow
		}
		copy(dst[nDst:], e.out[:nb])
		nDst += nb
		nSrc += width
	}
	return nDst, nSrc, Underflow
}
