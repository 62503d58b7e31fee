package codec

import (
	"errors"
	"io"
)

// WriteBuf is the write window of a stream: bytes produced by encoders and
// flushed to an io.Writer. Pending bytes are B[head:tail].
type WriteBuf struct {
	B          []byte
	head, tail int
	wouldBlock bool
}

// NewWriteBuf creates a WriteBuf over the given backing slice.
func NewWriteBuf(b []byte) *WriteBuf {
	return &WriteBuf{B: b[:cap(b)]}
}

// Bytes returns the bytes waiting to be flushed.
func (w *WriteBuf) Bytes() []byte { return w.B[w.head:w.tail] }

// Room returns the free space of the window, compacting it first.
func (w *WriteBuf) Room() []byte {
	if w.head > 0 {
		w.tail = copy(w.B, w.B[w.head:w.tail])
		w.head = 0
	}
	return w.B[w.tail:]
}

// Commit marks n bytes of Room as written.
func (w *WriteBuf) Commit(n int) { w.tail += n }

// Len returns the number of pending bytes.
func (w *WriteBuf) Len() int { return w.tail - w.head }

// Size returns the size of the underlying byte slice.
func (w *WriteBuf) Size() int { return len(w.B) }

// Available returns the number of bytes available for writing.
func (w *WriteBuf) Available() int { return len(w.B) - w.Len() }

// WouldBlock reports whether the last Flush was suspended by the sink.
func (w *WriteBuf) WouldBlock() bool { return w.wouldBlock }

// Reset drops the pending bytes so the slice can be reused.
func (w *WriteBuf) Reset() { w.head, w.tail, w.wouldBlock = 0, 0, false }

// Flush writes the pending bytes to dst and returns how many were accepted.
// A would-block condition is recorded and is not an error.
func (w *WriteBuf) Flush(dst io.Writer) (int, error) {
	w.wouldBlock = false
	if w.Len() == 0 {
		return 0, nil
	}
	n, err := dst.Write(w.Bytes())
	if n < 0 || n > w.Len() {
		return 0, inconsistent("writer returned an invalid count")
	}
	w.head += n
	if w.head == w.tail {
		w.head, w.tail = 0, 0
	}
	switch {
	case err == nil:
	case isWouldBlock(err):
		w.wouldBlock = true
		return n, nil
	case errors.Is(err, io.ErrShortWrite):
		return n, wrap(ErrUnexpectedEos, err, "flush write buffer")
	default:
		return n, fromIO(err, "flush write buffer")
	}
	if n == 0 {
		w.wouldBlock = true
	}
	return n, nil
}

// EncodeTo lets e write into the free space of buf once. The stream behind
// a WriteBuf has no known end.
func EncodeTo[T any](e Encoder[T], buf *WriteBuf) error {
	n, err := e.Encode(buf.Room(), Eos{})
	buf.Commit(n)
	return err
}
