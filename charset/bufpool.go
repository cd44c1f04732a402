package charset

import "sync"

// DefaultChunkSize is the stream buffer size NewReader and NewWriter use.
// 32KB is the size io.Copy uses.
const DefaultChunkSize = 32 * 1024

// MinChunkSize is the smallest buffer a stream accepts.
const MinChunkSize = 16

// chunkPool reuses the byte side of stream buffers of DefaultChunkSize.
var chunkPool = sync.Pool{
	New: func() any {
		b := make([]byte, DefaultChunkSize)
		return &b
	},
}

// getChunk returns a buffer of size bytes, pooled when size is the default.
func getChunk(size int) *[]byte {
	if size == DefaultChunkSize {
		return chunkPool.Get().(*[]byte)
	}
	b := make([]byte, size)
	return &b
}

func putChunk(b *[]byte) {
	if b != nil && len(*b) == DefaultChunkSize {
		chunkPool.Put(b)
	}
}
