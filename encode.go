package codec

import (
	"fmt"
	"iter"
)

// MapFromEncoder converts items before handing them to its inner encoder.
type MapFromEncoder[T, U any] struct {
	inner Encoder[T]
	f     func(U) (T, error)
}

var (
	_ Encoder[int] = (*MapFromEncoder[uint8, int])(nil)
	_ Sizer        = (*MapFromEncoder[uint8, int])(nil)
)

// MapFrom returns an encoder of U items, each encoded as f(item).
func MapFrom[T, U any](e Encoder[T], f func(U) T) *MapFromEncoder[T, U] {
	return &MapFromEncoder[T, U]{inner: e, f: func(u U) (T, error) { return f(u), nil }}
}

// TryMapFrom is like MapFrom with a fallible conversion. A failure of f is
// reported as ErrInvalidInput with the original cause attached.
func TryMapFrom[T, U any](e Encoder[T], f func(U) (T, error)) *MapFromEncoder[T, U] {
	return &MapFromEncoder[T, U]{inner: e, f: f}
}

func (e *MapFromEncoder[T, U]) StartEncoding(item U) error {
	if !e.inner.IsIdle() {
		return ErrEncoderFull
	}
	v, err := e.f(item)
	if err != nil {
		return wrap(ErrInvalidInput, err, "map item to encode")
	}
	return e.inner.StartEncoding(v)
}

func (e *MapFromEncoder[T, U]) Encode(buf []byte, eos Eos) (int, error) {
	return e.inner.Encode(buf, eos)
}

func (e *MapFromEncoder[T, U]) RequiringBytes() ByteCount { return e.inner.RequiringBytes() }

func (e *MapFromEncoder[T, U]) ExactRequiringBytes() (uint64, bool) {
	return exactBytes(e.inner)
}

func (e *MapFromEncoder[T, U]) IsIdle() bool { return e.inner.IsIdle() }

// MapErrorEncoder rewrites the errors of its inner encoder.
type MapErrorEncoder[T any] struct {
	inner Encoder[T]
	f     func(error) error
}

// MapErrEncoder returns an encoder passing every error of e through f.
func MapErrEncoder[T any](e Encoder[T], f func(error) error) *MapErrorEncoder[T] {
	return &MapErrorEncoder[T]{inner: e, f: f}
}

func (e *MapErrorEncoder[T]) StartEncoding(item T) error {
	if err := e.inner.StartEncoding(item); err != nil {
		return e.f(err)
	}
	return nil
}

func (e *MapErrorEncoder[T]) Encode(buf []byte, eos Eos) (int, error) {
	n, err := e.inner.Encode(buf, eos)
	if err != nil {
		err = e.f(err)
	}
	return n, err
}

func (e *MapErrorEncoder[T]) RequiringBytes() ByteCount { return e.inner.RequiringBytes() }
func (e *MapErrorEncoder[T]) ExactRequiringBytes() (uint64, bool) {
	return exactBytes(e.inner)
}
func (e *MapErrorEncoder[T]) IsIdle() bool { return e.inner.IsIdle() }

// RepeatEncoder encodes every item of a sequence back to back.
// An abandoned encoder must be stopped with Stop to release the sequence.
type RepeatEncoder[T any] struct {
	inner Encoder[T]
	next  func() (T, bool)
	stop  func()
}

var _ Encoder[iter.Seq[int]] = (*RepeatEncoder[int])(nil)

// Repeat returns an encoder of sequences of T.
func Repeat[T any](e Encoder[T]) *RepeatEncoder[T] { return &RepeatEncoder[T]{inner: e} }

func (e *RepeatEncoder[T]) StartEncoding(seq iter.Seq[T]) error {
	if !e.IsIdle() {
		return ErrEncoderFull
	}
	e.next, e.stop = iter.Pull(seq)
	return nil
}

func (e *RepeatEncoder[T]) Encode(buf []byte, eos Eos) (int, error) {
	offset := 0
	for {
		if e.inner.IsIdle() {
			if e.next == nil {
				break
			}
			v, ok := e.next()
			if !ok {
				e.Stop()
				break
			}
			if err := e.inner.StartEncoding(v); err != nil {
				e.Stop()
				return offset, err
			}
		}
		n, err := e.inner.Encode(buf[offset:], eos)
		offset += n
		if err != nil {
			e.Stop()
			return offset, err
		}
		if !e.inner.IsIdle() {
			break
		}
	}
	return offset, nil
}

// Stop releases the sequence being encoded. Bytes of the current item
// still get emitted.
func (e *RepeatEncoder[T]) Stop() {
	if e.stop != nil {
		e.stop()
	}
	e.next, e.stop = nil, nil
}

func (e *RepeatEncoder[T]) RequiringBytes() ByteCount {
	if e.next != nil {
		return Unknown
	}
	return e.inner.RequiringBytes()
}

func (e *RepeatEncoder[T]) IsIdle() bool { return e.next == nil && e.inner.IsIdle() }

// OptionalEncoder encodes *T items; nil emits nothing.
type OptionalEncoder[T any] struct {
	inner Encoder[T]
}

var (
	_ Encoder[*int] = (*OptionalEncoder[int])(nil)
	_ Sizer         = (*OptionalEncoder[int])(nil)
)

// Optional returns an encoder of *T items around e.
func Optional[T any](e Encoder[T]) *OptionalEncoder[T] { return &OptionalEncoder[T]{inner: e} }

func (e *OptionalEncoder[T]) StartEncoding(item *T) error {
	if item == nil {
		if !e.inner.IsIdle() {
			return ErrEncoderFull
		}
		return nil
	}
	return e.inner.StartEncoding(*item)
}

func (e *OptionalEncoder[T]) Encode(buf []byte, eos Eos) (int, error) {
	return e.inner.Encode(buf, eos)
}

func (e *OptionalEncoder[T]) RequiringBytes() ByteCount { return e.inner.RequiringBytes() }

func (e *OptionalEncoder[T]) ExactRequiringBytes() (uint64, bool) {
	return exactBytes(e.inner)
}

func (e *OptionalEncoder[T]) IsIdle() bool { return e.inner.IsIdle() }

// ExactLengthEncoder requires every item of its inner encoder to span exactly n
// bytes. The inner encoder sees the end of the stream at n.
type ExactLengthEncoder[T any] struct {
	inner     Encoder[T]
	n         uint64
	remaining uint64
	loaded    bool
}

var _ Sizer = (*ExactLengthEncoder[int])(nil)

// LengthEncoder bounds every item of e to exactly n bytes. Sized items of
// another length are rejected when they start.
func LengthEncoder[T any](e Encoder[T], n uint64) *ExactLengthEncoder[T] {
	return &ExactLengthEncoder[T]{inner: e, n: n}
}

func (e *ExactLengthEncoder[T]) StartEncoding(item T) error {
	if e.loaded {
		return ErrEncoderFull
	}
	if err := e.inner.StartEncoding(item); err != nil {
		return err
	}
	if size, ok := exactBytes(e.inner); ok && size != e.n {
		abandon(e.inner)
		return fmt.Errorf("%w: item of %d bytes, length is %d", ErrInvalidInput, size, e.n)
	}
	e.remaining, e.loaded = e.n, true
	return nil
}

func (e *ExactLengthEncoder[T]) Encode(buf []byte, eos Eos) (int, error) {
	if !e.loaded {
		return 0, nil
	}
	view := buf
	if uint64(len(view)) > e.remaining {
		view = view[:e.remaining]
	}
	local := EosWithRemaining(e.remaining - uint64(len(view)))
	if outer := eos.Back(uint64(len(buf) - len(view))); outer.RemainingBytes().Less(local.RemainingBytes()) {
		return 0, fmt.Errorf("%w: output ends before length %d", ErrUnexpectedEos, e.n)
	}
	n, err := e.inner.Encode(view, local)
	e.remaining -= uint64(n)
	if err != nil {
		return n, err
	}
	switch {
	case e.inner.IsIdle() && e.remaining > 0:
		return n, fmt.Errorf("%w: item ended %d bytes before length %d", ErrInvalidInput, e.remaining, e.n)
	case e.inner.IsIdle():
		e.loaded = false
	case e.remaining == 0:
		return n, fmt.Errorf("%w: item exceeds length %d", ErrInvalidInput, e.n)
	}
	return n, nil
}

func (e *ExactLengthEncoder[T]) RequiringBytes() ByteCount { return Finite(e.remaining) }

func (e *ExactLengthEncoder[T]) ExactRequiringBytes() (uint64, bool) {
	return e.remaining, true
}

func (e *ExactLengthEncoder[T]) IsIdle() bool { return !e.loaded }

// MaxBytesEncoder fails items of its inner encoder spanning more than max bytes.
type MaxBytesEncoder[T any] struct {
	inner   Encoder[T]
	max     uint64
	written uint64
}

var _ Sizer = (*MaxBytesEncoder[int])(nil)

// LimitEncoder bounds every item of e to max bytes. Items of known size are
// rejected when they start, the others once they cross the bound.
func LimitEncoder[T any](e Encoder[T], max uint64) *MaxBytesEncoder[T] {
	return &MaxBytesEncoder[T]{inner: e, max: max}
}

func (e *MaxBytesEncoder[T]) StartEncoding(item T) error {
	if !e.inner.IsIdle() {
		return ErrEncoderFull
	}
	if err := e.inner.StartEncoding(item); err != nil {
		return err
	}
	if size, ok := exactBytes(e.inner); ok && size > e.max {
		abandon(e.inner)
		return fmt.Errorf("%w: item of %d bytes exceeds %d", ErrInvalidInput, size, e.max)
	}
	e.written = 0
	return nil
}

func (e *MaxBytesEncoder[T]) Encode(buf []byte, eos Eos) (int, error) {
	view := buf
	if left := e.max - e.written; uint64(len(view)) > left {
		view = view[:left]
	}
	n, err := e.inner.Encode(view, eos.Back(uint64(len(buf)-len(view))))
	e.written += uint64(n)
	if err != nil {
		return n, err
	}
	if e.inner.IsIdle() {
		e.written = 0
	} else if len(view) < len(buf) {
		return n, fmt.Errorf("%w: item exceeds %d bytes", ErrInvalidInput, e.max)
	}
	return n, nil
}

func (e *MaxBytesEncoder[T]) RequiringBytes() ByteCount { return e.inner.RequiringBytes() }

func (e *MaxBytesEncoder[T]) ExactRequiringBytes() (uint64, bool) {
	return exactBytes(e.inner)
}

func (e *MaxBytesEncoder[T]) IsIdle() bool { return e.inner.IsIdle() }

// PreEncoder encodes the whole item into memory when it starts, so that its
// exact size is known before the first byte is written.
type PreEncoder[T any] struct {
	inner Encoder[T]
	buf   []byte
	out   BytesEncoder
}

var _ Sizer = (*PreEncoder[int])(nil)

// PreEncode makes any encoder sized, at the cost of buffering each item.
func PreEncode[T any](e Encoder[T]) *PreEncoder[T] { return &PreEncoder[T]{inner: e} }

func (e *PreEncoder[T]) StartEncoding(item T) error {
	if e.out.loaded {
		return ErrEncoderFull
	}
	if err := e.inner.StartEncoding(item); err != nil {
		return err
	}
	b, err := drain(e.inner, e.buf[:0])
	if err != nil {
		abandon(e.inner)
		return err
	}
	e.buf = b
	return e.out.start(b)
}

func (e *PreEncoder[T]) Encode(buf []byte, eos Eos) (int, error) {
	return e.out.Encode(buf, eos)
}

func (e *PreEncoder[T]) RequiringBytes() ByteCount { return e.out.RequiringBytes() }

func (e *PreEncoder[T]) ExactRequiringBytes() (uint64, bool) {
	return e.out.ExactRequiringBytes()
}

func (e *PreEncoder[T]) IsIdle() bool { return e.out.IsIdle() }
