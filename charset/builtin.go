package charset

import (
	"github.com/oy3o/nio"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

var replacementByte = []byte{'?'}

// containsAll is the Contains of the Unicode transformation formats.
func containsAll(*Charset) bool { return true }

// containsASCII is the Contains of charsets that are ASCII supersets.
func containsASCII(other *Charset) bool { return other.Name() == "US-ASCII" }

func utf16Definition(name string, aliases []string, order nio.ByteOrder, bom bool) Definition {
	endian, repl := unicode.BigEndian, []byte{0xFF, 0xFD}
	if order == nio.LittleEndian {
		endian, repl = unicode.LittleEndian, []byte{0xFD, 0xFF}
	}
	policy, maxBytes := unicode.IgnoreBOM, float32(2)
	if bom {
		policy, maxBytes = unicode.UseBOM, 4
	}
	return Definition{
		Name:                name,
		Aliases:             aliases,
		Encoding:            unicode.UTF16(endian, policy),
		AverageCharsPerByte: 0.5,
		MaxCharsPerByte:     1,
		AverageBytesPerChar: 2,
		MaxBytesPerChar:     maxBytes,
		Replacement:         repl,
		Contains:            containsAll,
		NewDecodeLoop:       func() DecodeLoop { return newUTF16Decoder(order, bom) },
		NewEncodeLoop:       func() EncodeLoop { return newUTF16Encoder(order, bom) },
	}
}

func utf32Definition(name string, aliases []string, order nio.ByteOrder, bom bool) Definition {
	endian, repl := utf32.BigEndian, []byte{0, 0, 0xFF, 0xFD}
	if order == nio.LittleEndian {
		endian, repl = utf32.LittleEndian, []byte{0xFD, 0xFF, 0, 0}
	}
	policy := utf32.IgnoreBOM
	if bom {
		policy = utf32.UseBOM
	}
	return Definition{
		Name:                name,
		Aliases:             aliases,
		Encoding:            utf32.UTF32(endian, policy),
		AverageCharsPerByte: 0.25,
		MaxCharsPerByte:     1,
		AverageBytesPerChar: 4,
		MaxBytesPerChar:     4,
		Replacement:         repl,
		Contains:            containsAll,
		NewDecodeLoop:       func() DecodeLoop { return newUTF32Decoder(order, bom) },
		NewEncodeLoop:       func() EncodeLoop { return utf32Encoder{order: order} },
	}
}

// charmapDefinition describes a single-byte code page from x/text.
func charmapDefinition(name string, aliases []string, cm *charmap.Charmap) Definition {
	return Definition{
		Name:                name,
		Aliases:             aliases,
		Encoding:            cm,
		AverageCharsPerByte: 1,
		MaxCharsPerByte:     1,
		AverageBytesPerChar: 1,
		MaxBytesPerChar:     1,
		Replacement:         replacementByte,
		Contains:            containsASCII,
		NewDecodeLoop:       func() DecodeLoop { return newCharmapLoop(cm) },
		NewEncodeLoop:       func() EncodeLoop { return newCharmapLoop(cm) },
	}
}

// multiByteDefinition describes a CJK double-byte or GB18030 charset from x/text.
func multiByteDefinition(name string, aliases []string, e encoding.Encoding, avgBytes, maxBytes float32) Definition {
	fffd := replacementEncoding(e)
	return Definition{
		Name:                name,
		Aliases:             aliases,
		Encoding:            e,
		AverageCharsPerByte: 0.5,
		MaxCharsPerByte:     1,
		AverageBytesPerChar: avgBytes,
		MaxBytesPerChar:     maxBytes,
		Replacement:         replacementByte,
		Contains:            containsASCII,
		NewDecodeLoop:       func() DecodeLoop { return newTransformDecoder(e, fffd) },
		NewEncodeLoop:       func() EncodeLoop { return newTransformEncoder(e) },
	}
}

// Builtin returns the definitions of every charset this package provides,
// in registration order.
func Builtin() []Definition {
	return []Definition{
		{
			Name:                "US-ASCII",
			Aliases:             []string{"ASCII", "iso-ir-6", "ANSI_X3.4-1968", "ANSI_X3.4-1986", "ISO_646.irv:1991", "ISO646-US", "us", "IBM367", "cp367", "csASCII", "default", "646", "ascii7"},
			AverageCharsPerByte: 1,
			MaxCharsPerByte:     1,
			AverageBytesPerChar: 1,
			MaxBytesPerChar:     1,
			Replacement:         replacementByte,
			NewDecodeLoop:       func() DecodeLoop { return newASCIILoop() },
			NewEncodeLoop:       func() EncodeLoop { return newASCIILoop() },
		},
		{
			Name:                "ISO-8859-1",
			Aliases:             []string{"ISO8859_1", "ISO_8859-1", "ISO_8859-1:1987", "iso-ir-100", "latin1", "l1", "IBM819", "cp819", "csISOLatin1", "819", "IBM-819", "ISO8859-1", "8859_1"},
			Encoding:            charmap.ISO8859_1,
			AverageCharsPerByte: 1,
			MaxCharsPerByte:     1,
			AverageBytesPerChar: 1,
			MaxBytesPerChar:     1,
			Replacement:         replacementByte,
			Contains:            containsASCII,
			NewDecodeLoop:       func() DecodeLoop { return newLatin1Loop() },
			NewEncodeLoop:       func() EncodeLoop { return newLatin1Loop() },
		},
		{
			Name:                "UTF-8",
			Aliases:             []string{"UTF8", "unicode-1-1-utf-8"},
			Encoding:            unicode.UTF8,
			AverageCharsPerByte: 1,
			MaxCharsPerByte:     1,
			AverageBytesPerChar: 1.1,
			MaxBytesPerChar:     3,
			Replacement:         replacementByte,
			Contains:            containsAll,
			NewDecodeLoop:       func() DecodeLoop { return utf8Loop{} },
			NewEncodeLoop:       func() EncodeLoop { return utf8Loop{} },
		},
		utf16Definition("UTF-16BE", []string{"UTF_16BE", "ISO-10646-UCS-2", "X-UTF-16BE", "UnicodeBigUnmarked"}, nio.BigEndian, false),
		utf16Definition("UTF-16LE", []string{"UTF_16LE", "X-UTF-16LE", "UnicodeLittleUnmarked"}, nio.LittleEndian, false),
		utf16Definition("UTF-16", []string{"UTF_16", "utf16", "unicode", "UnicodeBig"}, nio.BigEndian, true),
		utf32Definition("UTF-32BE", []string{"UTF_32BE", "X-UTF-32BE"}, nio.BigEndian, false),
		utf32Definition("UTF-32LE", []string{"UTF_32LE", "X-UTF-32LE"}, nio.LittleEndian, false),
		utf32Definition("UTF-32", []string{"UTF_32", "UTF32"}, nio.BigEndian, true),

		charmapDefinition("ISO-8859-2", []string{"iso8859_2", "8859_2", "iso-ir-101", "ISO_8859-2", "ISO_8859-2:1987", "ISO8859-2", "latin2", "l2", "csISOLatin2"}, charmap.ISO8859_2),
		charmapDefinition("ISO-8859-4", []string{"iso8859_4", "8859_4", "iso-ir-110", "ISO_8859-4", "ISO_8859-4:1988", "ISO8859-4", "latin4", "l4", "csISOLatin4"}, charmap.ISO8859_4),
		charmapDefinition("ISO-8859-5", []string{"iso8859_5", "8859_5", "iso-ir-144", "ISO_8859-5", "ISO_8859-5:1988", "ISO8859-5", "cyrillic", "csISOLatinCyrillic"}, charmap.ISO8859_5),
		charmapDefinition("ISO-8859-7", []string{"iso8859_7", "8859_7", "iso-ir-126", "ISO_8859-7", "ISO_8859-7:1987", "ELOT_928", "ECMA-118", "greek", "greek8", "csISOLatinGreek"}, charmap.ISO8859_7),
		charmapDefinition("ISO-8859-9", []string{"iso8859_9", "8859_9", "iso-ir-148", "ISO_8859-9", "ISO_8859-9:1989", "ISO8859-9", "latin5", "l5", "csISOLatin5"}, charmap.ISO8859_9),
		charmapDefinition("ISO-8859-13", []string{"iso8859_13", "8859_13", "ISO8859-13"}, charmap.ISO8859_13),
		charmapDefinition("ISO-8859-15", []string{"ISO_8859-15", "8859_15", "ISO8859-15", "ISO8859_15", "IBM923", "cp923", "LATIN0", "LATIN9", "L9", "csISOlatin0", "csISOlatin9", "ISO8859_15_FDIS"}, charmap.ISO8859_15),
		charmapDefinition("ISO-8859-16", []string{"iso-ir-226", "ISO_8859-16", "ISO_8859-16:2001", "ISO8859-16", "latin10", "l10"}, charmap.ISO8859_16),
		charmapDefinition("KOI8-R", []string{"koi8_r", "koi8", "cskoi8r"}, charmap.KOI8R),
		charmapDefinition("KOI8-U", []string{"koi8_u"}, charmap.KOI8U),
		charmapDefinition("windows-1250", []string{"cp1250", "cp5346"}, charmap.Windows1250),
		charmapDefinition("windows-1251", []string{"cp1251", "cp5347", "ansi-1251"}, charmap.Windows1251),
		charmapDefinition("windows-1252", []string{"cp1252", "cp5348", "ibm-1252", "ibm1252"}, charmap.Windows1252),
		charmapDefinition("windows-1253", []string{"cp1253", "cp5349"}, charmap.Windows1253),
		charmapDefinition("windows-1254", []string{"cp1254", "cp5350"}, charmap.Windows1254),
		charmapDefinition("windows-1255", []string{"cp1255"}, charmap.Windows1255),
		charmapDefinition("windows-1256", []string{"cp1256"}, charmap.Windows1256),
		charmapDefinition("windows-1257", []string{"cp1257", "cp5353"}, charmap.Windows1257),
		charmapDefinition("windows-1258", []string{"cp1258"}, charmap.Windows1258),
		charmapDefinition("IBM437", []string{"cp437", "ibm-437", "437", "cspc8codepage437", "windows-437"}, charmap.CodePage437),
		charmapDefinition("IBM850", []string{"cp850", "ibm-850", "850", "cspc850multilingual"}, charmap.CodePage850),
		charmapDefinition("IBM866", []string{"cp866", "ibm-866", "866", "csIBM866"}, charmap.CodePage866),
		charmapDefinition("x-MacRoman", []string{"MacRoman", "macintosh"}, charmap.Macintosh),

		multiByteDefinition("Shift_JIS", []string{"sjis", "shift-jis", "ms_kanji", "x-sjis", "csShiftJIS"}, japanese.ShiftJIS, 2, 2),
		multiByteDefinition("EUC-JP", []string{"csEUCPkdFmtjapanese", "x-euc-jp", "eucjis", "Extended_UNIX_Code_Packed_Format_for_Japanese", "euc_jp", "eucjp", "x-eucjp"}, japanese.EUCJP, 3, 3),
		multiByteDefinition("EUC-KR", []string{"ksc5601", "euckr", "euc_kr", "ksc5601-1987", "ks_c_5601-1987", "csEUCKR"}, korean.EUCKR, 2, 2),
		multiByteDefinition("GBK", []string{"CP936", "windows-936"}, simplifiedchinese.GBK, 2, 2),
		multiByteDefinition("GB18030", []string{"gb18030-2022"}, simplifiedchinese.GB18030, 2.5, 4),
		multiByteDefinition("Big5", []string{"csBig5"}, traditionalchinese.Big5, 2, 2),
	}
}
