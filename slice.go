package codec

// SliceDecoder lets its inner decoder consume at most the bytes granted with
// SetConsumableBytes. Once the grant is used up the decoder is suspended:
// Decode returns without consuming anything, even with bytes left in buf.
// A suspended slice does not follow the consume-or-complete rule, so it must
// not be nested inside combinators that rely on it.
type SliceDecoder[T any] struct {
	inner      Decoder[T]
	consumable uint64
}

var _ Decoder[int] = (*SliceDecoder[int])(nil)

// Slice returns a suspended decoder over d.
func Slice[T any](d Decoder[T]) *SliceDecoder[T] { return &SliceDecoder[T]{inner: d} }

// SetConsumableBytes sets how many bytes the inner decoder may consume from
// now on. What was left of the previous grant is dropped.
func (d *SliceDecoder[T]) SetConsumableBytes(n uint64) { d.consumable = n }

func (d *SliceDecoder[T]) ConsumableBytes() uint64 { return d.consumable }

// IsSuspended reports whether the grant is used up.
func (d *SliceDecoder[T]) IsSuspended() bool { return d.consumable == 0 }

func (d *SliceDecoder[T]) Decode(buf []byte, eos Eos) (int, T, bool, error) {
	view := buf
	if uint64(len(view)) > d.consumable {
		view = view[:d.consumable]
	}
	n, v, ok, err := d.inner.Decode(view, eos.Back(uint64(len(buf)-len(view))))
	d.consumable -= uint64(n)
	return n, v, ok, err
}

func (d *SliceDecoder[T]) RequiringBytes() ByteCount { return d.inner.RequiringBytes() }
func (d *SliceDecoder[T]) IsIdle() bool              { return d.inner.IsIdle() }

// SliceEncoder lets its inner encoder emit at most the bytes granted with
// SetConsumableBytes. A suspended encoder writes nothing. It is handy to
// interleave the output of several encoders in fixed-size chunks.
type SliceEncoder[T any] struct {
	inner      Encoder[T]
	consumable uint64
}

var (
	_ Encoder[int] = (*SliceEncoder[int])(nil)
	_ Sizer        = (*SliceEncoder[int])(nil)
)

// SliceEncode returns a suspended encoder over e.
func SliceEncode[T any](e Encoder[T]) *SliceEncoder[T] { return &SliceEncoder[T]{inner: e} }

// SetConsumableBytes sets how many bytes the inner encoder may consume from
// now on. What was left of the previous grant is dropped.
func (e *SliceEncoder[T]) SetConsumableBytes(n uint64) { e.consumable = n }

func (e *SliceEncoder[T]) ConsumableBytes() uint64 { return e.consumable }

// IsSuspended reports whether the grant is used up.
func (e *SliceEncoder[T]) IsSuspended() bool { return e.consumable == 0 }

func (e *SliceEncoder[T]) StartEncoding(item T) error { return e.inner.StartEncoding(item) }

func (e *SliceEncoder[T]) Encode(buf []byte, eos Eos) (int, error) {
	view := buf
	if uint64(len(view)) > e.consumable {
		view = view[:e.consumable]
	}
	n, err := e.inner.Encode(view, eos.Back(uint64(len(buf)-len(view))))
	e.consumable -= uint64(n)
	return n, err
}

func (e *SliceEncoder[T]) RequiringBytes() ByteCount { return e.inner.RequiringBytes() }

func (e *SliceEncoder[T]) ExactRequiringBytes() (uint64, bool) {
	return exactBytes(e.inner)
}

func (e *SliceEncoder[T]) IsIdle() bool { return e.inner.IsIdle() }
