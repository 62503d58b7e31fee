package codec

import (
	"bytes"
	"sync"
)

// bytesBufPool reuses the accumulation buffers of monolithic decoders.
// We pool *bytes.Buffer because they are easily reset and resized.
var bytesBufPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, BUFFER_SIZE))
	},
}

func getBytesBuf() *bytes.Buffer {
	b := bytesBufPool.Get().(*bytes.Buffer)
	b.Reset()
	return b
}

// putBytesBuf returns b to the pool unless it grew too large to keep around.
func putBytesBuf(b *bytes.Buffer) {
	if b.Cap() > 64*BUFFER_SIZE {
		return
	}
	bytesBufPool.Put(b)
}

// bufPool holds the default-sized chunk windows of the stream adapters.
var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, BUFFER_SIZE)
		return &b
	},
}

// getChunk returns a window of size bytes, pooled when size is the default.
func getChunk(size int) []byte {
	if size == BUFFER_SIZE {
		return *bufPool.Get().(*[]byte)
	}
	return make([]byte, size)
}

func putChunk(b []byte) {
	if cap(b) == BUFFER_SIZE {
		b = b[:BUFFER_SIZE]
		bufPool.Put(&b)
	}
}
