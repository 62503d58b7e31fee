package codec

import (
	"io"
	"iter"
)

// StreamDecoder drives a Decoder over an io.Reader through a ReadBuf.
// It tracks the first error; subsequent calls return it.
type StreamDecoder[T any] struct {
	src   io.Reader
	d     Decoder[T]
	buf   ReadBuf
	count int64 // bytes consumed by d
	err   error // first error encountered
	ended bool  // d has been told about the end of the stream
}

// NewStreamDecoderSize creates a StreamDecoder with a chunk window of size bytes.
func NewStreamDecoderSize[T any](src io.Reader, d Decoder[T], size int) (*StreamDecoder[T], error) {
	if src == nil {
		return nil, ErrNilIO
	}
	if size < 16 {
		return nil, ErrSizeTooSmall
	}
	return &StreamDecoder[T]{src: src, d: d, buf: ReadBuf{B: getChunk(size)}}, nil
}

// NewStreamDecoder creates a StreamDecoder with the default window of BUFFER_SIZE bytes.
func NewStreamDecoder[T any](src io.Reader, d Decoder[T]) (*StreamDecoder[T], error) {
	return NewStreamDecoderSize(src, d, BUFFER_SIZE)
}

// Decode reads from the source until an item completes.
//
// It returns io.EOF when the stream ends cleanly between items and
// ErrWouldBlock when the source cannot make progress right now; the call
// may be retried later with no loss. Any other error is final.
func (s *StreamDecoder[T]) Decode() (T, error) {
	var zero T
	if s.err != nil {
		return zero, s.err
	}
	for {
		if s.buf.Len() > 0 || s.buf.IsEos() {
			if s.atCleanEnd() {
				return zero, io.EOF
			}
			s.ended = s.ended || s.buf.IsEos()
			before := s.buf.Len()
			item, ok, err := DecodeFrom(s.d, &s.buf)
			s.count += int64(before - s.buf.Len())
			if err != nil {
				s.setError(err)
				return zero, s.err
			}
			if ok {
				return item, nil
			}
			if s.buf.IsEos() {
				s.setError(inconsistent("decoder consumed the end of the stream without an item"))
				return zero, s.err
			}
		}
		if err := s.buf.Fill(s.src); err != nil {
			s.setError(err)
			return zero, s.err
		}
		if s.buf.WouldBlock() {
			return zero, ErrWouldBlock
		}
	}
}

// atCleanEnd reports whether the stream is over with no item pending.
// A decoder that needs the whole rest of the stream is told about the end once.
func (s *StreamDecoder[T]) atCleanEnd() bool {
	if s.buf.Len() > 0 || !s.buf.IsEos() || !s.d.IsIdle() {
		return false
	}
	return s.ended || !s.d.RequiringBytes().IsInfinite()
}

// All returns an iterator over the items of the stream. It stops at the
// clean end of the stream or at the first error, which is then returned
// by Err. A would-block source ends the iteration early without an error.
func (s *StreamDecoder[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			item, err := s.Decode()
			if err != nil {
				return
			}
			if !yield(item) {
				return
			}
		}
	}
}

// Close releases the chunk window and closes the source if it implements io.Closer.
func (s *StreamDecoder[T]) Close() error {
	putChunk(s.buf.B)
	s.buf = ReadBuf{}
	s.setError(io.ErrClosedPipe)
	if c, ok := s.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *StreamDecoder[T]) Decoder() Decoder[T] { return s.d }
func (s *StreamDecoder[T]) Size() int           { return s.buf.Size() }
func (s *StreamDecoder[T]) Count() int64        { return s.count }
func (s *StreamDecoder[T]) Err() error          { return s.err }
func (s *StreamDecoder[T]) IsEOF() bool         { return s.atCleanEnd() }

// setError records the first non-nil error.
func (s *StreamDecoder[T]) setError(err error) {
	if s.err == nil && err != nil {
		s.err = err
	}
}
