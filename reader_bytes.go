package codec

import (
	"errors"
	"io"
	"net"
	"os"
)

// ReadBuf is the read window of a stream: bytes filled from an io.Reader
// and consumed by decoders. Unread bytes are B[head:tail].
type ReadBuf struct {
	B          []byte
	head, tail int
	eos        bool
	wouldBlock bool
}

// NewReadBuf creates a ReadBuf over the given backing slice.
func NewReadBuf(b []byte) *ReadBuf {
	return &ReadBuf{B: b[:cap(b)]}
}

// Bytes returns the unread bytes.
func (r *ReadBuf) Bytes() []byte { return r.B[r.head:r.tail] }

// Consume marks n unread bytes as read.
func (r *ReadBuf) Consume(n int) {
	r.head += n
	if r.head == r.tail {
		r.head, r.tail = 0, 0
	}
}

// Len returns the number of unread bytes.
func (r *ReadBuf) Len() int { return r.tail - r.head }

// Size returns the size of the underlying byte slice.
func (r *ReadBuf) Size() int { return len(r.B) }

// Available returns the free space left for filling.
func (r *ReadBuf) Available() int { return len(r.B) - r.Len() }

// IsEos reports whether the source has reported its end.
func (r *ReadBuf) IsEos() bool { return r.eos }

// WouldBlock reports whether the last Fill was suspended by the source.
func (r *ReadBuf) WouldBlock() bool { return r.wouldBlock }

// Reset drops the unread bytes and the stream state so the slice can be reused.
func (r *ReadBuf) Reset() { r.head, r.tail, r.eos, r.wouldBlock = 0, 0, false, false }

// Fill reads once from src into the free space. io.EOF marks the end of the
// stream; a would-block condition is recorded and is not an error.
func (r *ReadBuf) Fill(src io.Reader) error {
	r.wouldBlock = false
	if r.eos {
		return nil
	}
	if r.head > 0 {
		r.tail = copy(r.B, r.B[r.head:r.tail])
		r.head = 0
	}
	if r.tail == len(r.B) {
		return nil
	}
	n, err := src.Read(r.B[r.tail:])
	if n < 0 || r.tail+n > len(r.B) {
		return inconsistent("reader returned an invalid count")
	}
	r.tail += n
	switch {
	case err == nil && n == 0:
		r.wouldBlock = true
	case err == nil:
	case errors.Is(err, io.EOF):
		r.eos = true
	case isWouldBlock(err):
		r.wouldBlock = n == 0
	default:
		return fromIO(err, "fill read buffer")
	}
	return nil
}

// isWouldBlock reports whether err is a suspension of a non-blocking or
// deadline-bound source or sink rather than a failure.
func isWouldBlock(err error) bool {
	if errors.Is(err, ErrWouldBlock) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// DecodeFrom feeds the unread bytes of buf to d once.
func DecodeFrom[T any](d Decoder[T], buf *ReadBuf) (T, bool, error) {
	n, item, ok, err := d.Decode(buf.Bytes(), NewEos(buf.IsEos()))
	buf.Consume(n)
	return item, ok, err
}
