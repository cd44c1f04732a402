package charset

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/oy3o/nio"
)

var benchText = strings.Repeat("The quick brown fox, grüße, 日本語, 😀. ", 256)

func benchmarkEncode(b *testing.B, name string) {
	enc := MustForName(name).NewEncoder()
	in := nio.WrapString(benchText)
	b.SetBytes(int64(len(benchText)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		in.Rewind()
		_, _ = enc.EncodeAll(in)
	}
}

func benchmarkDecode(b *testing.B, name string) {
	src, err := MustForName(name).NewEncoder().EncodeString(benchText)
	if err != nil {
		b.Fatal(err)
	}
	dec := MustForName(name).NewDecoder()
	b.SetBytes(int64(len(src)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = dec.DecodeAll(nio.Wrap(src))
	}
}

func BenchmarkEncodeUTF8(b *testing.B)    { benchmarkEncode(b, "UTF-8") }
func BenchmarkEncodeUTF16(b *testing.B)   { benchmarkEncode(b, "UTF-16LE") }
func BenchmarkEncodeGB18030(b *testing.B) { benchmarkEncode(b, "GB18030") }
func BenchmarkDecodeUTF8(b *testing.B)    { benchmarkDecode(b, "UTF-8") }
func BenchmarkDecodeUTF16(b *testing.B)   { benchmarkDecode(b, "UTF-16LE") }
func BenchmarkDecodeGB18030(b *testing.B) { benchmarkDecode(b, "GB18030") }

// Baseline comparison using the x/text transformer directly, to see the overhead of per-character stepping
func BenchmarkStandardXTextDecodeGB18030(b *testing.B) {
	cs := MustForName("GB18030")
	src, _ := cs.NewEncoder().EncodeString(benchText)
	b.SetBytes(int64(len(src)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = cs.Encoding().NewDecoder().Bytes(src)
	}
}

func BenchmarkStreamTranscode(b *testing.B) {
	src, _ := MustForName("UTF-16LE").NewEncoder().EncodeString(benchText)
	b.SetBytes(int64(len(src)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r, _ := NewReader(bytes.NewReader(src), MustForName("UTF-16LE").NewDecoder())
		w, _ := NewWriter(io.Discard, MustForName("UTF-8").NewEncoder())
		_, _ = io.Copy(w, r)
		_ = w.Close()
		_ = r.Close()
	}
}
