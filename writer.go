package codec

import (
	"errors"
	"io"
)

// StreamEncoder drives an Encoder into an io.Writer through a WriteBuf.
// It tracks the first error; subsequent calls return it.
type StreamEncoder[T any] struct {
	dst   io.Writer
	e     Encoder[T]
	buf   WriteBuf
	count int64 // bytes accepted by dst
	err   error // first error encountered. Subsequent calls become no-ops.
}

// NewStreamEncoderSize creates a StreamEncoder with a chunk window of size bytes.
func NewStreamEncoderSize[T any](dst io.Writer, e Encoder[T], size int) (*StreamEncoder[T], error) {
	if dst == nil {
		return nil, ErrNilIO
	}
	if size < 16 {
		return nil, ErrSizeTooSmall
	}
	return &StreamEncoder[T]{dst: dst, e: e, buf: WriteBuf{B: getChunk(size)}}, nil
}

// NewStreamEncoder creates a StreamEncoder with the default window of BUFFER_SIZE bytes.
func NewStreamEncoder[T any](dst io.Writer, e Encoder[T]) (*StreamEncoder[T], error) {
	return NewStreamEncoderSize(dst, e, BUFFER_SIZE)
}

// Encode starts item and writes it out with Flush. It fails with
// ErrEncoderFull while a previous item has not been flushed completely.
func (s *StreamEncoder[T]) Encode(item T) error {
	if s.err != nil {
		return s.err
	}
	if err := s.e.StartEncoding(item); err != nil {
		if !errors.Is(err, ErrEncoderFull) {
			s.setError(err)
		}
		return err
	}
	return s.Flush()
}

// Flush encodes and writes until the encoder is idle and the window is empty.
// It returns ErrWouldBlock when the sink cannot accept more bytes right now;
// call Flush again later to resume.
func (s *StreamEncoder[T]) Flush() error {
	if s.err != nil {
		return s.err
	}
	for {
		if !s.e.IsIdle() && s.buf.Available() > 0 {
			pending := s.buf.Len()
			if err := EncodeTo(s.e, &s.buf); err != nil {
				s.setError(err)
				return s.err
			}
			if s.buf.Len() == pending && pending == 0 && !s.e.IsIdle() {
				s.setError(inconsistent("encoder made no progress"))
				return s.err
			}
		}
		if s.buf.Len() == 0 && s.e.IsIdle() {
			return nil
		}
		n, err := s.buf.Flush(s.dst)
		s.count += int64(n)
		if err != nil {
			s.setError(err)
			return s.err
		}
		if s.buf.WouldBlock() {
			return ErrWouldBlock
		}
	}
}

// Close flushes pending bytes, releases the chunk window and closes the
// sink if it implements io.Closer.
func (s *StreamEncoder[T]) Close() error {
	err := s.Flush()
	putChunk(s.buf.B)
	s.buf = WriteBuf{}
	s.setError(io.ErrClosedPipe)
	if c, ok := s.dst.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (s *StreamEncoder[T]) Encoder() Encoder[T] { return s.e }
func (s *StreamEncoder[T]) Size() int           { return s.buf.Size() }
func (s *StreamEncoder[T]) Count() int64        { return s.count }
func (s *StreamEncoder[T]) Err() error          { return s.err }

// Result flushes the window and returns the final count and error state.
func (s *StreamEncoder[T]) Result() (int64, error) {
	err := s.Flush()
	if err == nil {
		err = s.err
	}
	return s.count, err
}

// setError records the first non-nil error.
// This preserves the root cause of a failure chain instead of a later,
// less relevant error.
func (s *StreamEncoder[T]) setError(err error) {
	if s.err == nil && err != nil {
		s.err = err
	}
}
