package codec

// Pair is the item of a two-stage chain.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Buffered holds at most one decoded item until it is taken. While an item is
// held Fill consumes nothing, which lets a caller look ahead one item.
type Buffered[T any] struct {
	inner Decoder[T]
	item  T
	has   bool
}

var _ Decoder[int] = (*Buffered[int])(nil)

// NewBuffered wraps d with an empty slot.
func NewBuffered[T any](d Decoder[T]) *Buffered[T] { return &Buffered[T]{inner: d} }

// Fill decodes into the internal slot. It is a no-op while an item is held.
func (b *Buffered[T]) Fill(buf []byte, eos Eos) (int, error) {
	if b.has {
		return 0, nil
	}
	n, v, ok, err := b.inner.Decode(buf, eos)
	if err != nil {
		return n, err
	}
	b.item, b.has = v, ok
	return n, nil
}

// Peek returns the held item without releasing it.
func (b *Buffered[T]) Peek() (T, bool) { return b.item, b.has }

// TakeItem releases the held item.
func (b *Buffered[T]) TakeItem() (T, bool) {
	var zero T
	item, ok := b.item, b.has
	b.item, b.has = zero, false
	return item, ok
}

func (b *Buffered[T]) HasItem() bool { return b.has }

func (b *Buffered[T]) Decode(buf []byte, eos Eos) (int, T, bool, error) {
	n, err := b.Fill(buf, eos)
	if err != nil {
		var zero T
		return n, zero, false, err
	}
	item, ok := b.TakeItem()
	return n, item, ok, nil
}

func (b *Buffered[T]) RequiringBytes() ByteCount {
	if b.has {
		return Finite(0)
	}
	return b.inner.RequiringBytes()
}

func (b *Buffered[T]) IsIdle() bool { return !b.has && b.inner.IsIdle() }

// ChainDecoder decodes A then B. B sees no byte before A completes.
type ChainDecoder[A, B any] struct {
	first  Buffered[A]
	second Decoder[B]
}

// Chain decodes an item of a, then an item of b, into a Pair.
func Chain[A, B any](a Decoder[A], b Decoder[B]) *ChainDecoder[A, B] {
	return &ChainDecoder[A, B]{first: Buffered[A]{inner: a}, second: b}
}

func (d *ChainDecoder[A, B]) Decode(buf []byte, eos Eos) (int, Pair[A, B], bool, error) {
	var zero Pair[A, B]
	offset, err := d.first.Fill(buf, eos)
	if err != nil || !d.first.HasItem() {
		return offset, zero, false, err
	}
	n, b, ok, err := d.second.Decode(buf[offset:], eos)
	offset += n
	if err != nil || !ok {
		return offset, zero, false, err
	}
	a, _ := d.first.TakeItem()
	return offset, Pair[A, B]{First: a, Second: b}, true, nil
}

func (d *ChainDecoder[A, B]) RequiringBytes() ByteCount {
	if d.first.HasItem() {
		return d.second.RequiringBytes()
	}
	return d.first.RequiringBytes().AddForDecoding(d.second.RequiringBytes())
}

func (d *ChainDecoder[A, B]) IsIdle() bool { return d.first.IsIdle() && d.second.IsIdle() }

// ChainedEncoder encodes A then B.
type ChainedEncoder[A, B any] struct {
	first  Encoder[A]
	second Encoder[B]
}

var _ Sizer = (*ChainedEncoder[uint8, uint8])(nil)

// ChainEncoder encodes the First member of a Pair with a, then the Second with b.
func ChainEncoder[A, B any](a Encoder[A], b Encoder[B]) *ChainedEncoder[A, B] {
	return &ChainedEncoder[A, B]{first: a, second: b}
}

func (e *ChainedEncoder[A, B]) StartEncoding(p Pair[A, B]) error {
	if !e.IsIdle() {
		return ErrEncoderFull
	}
	if err := e.first.StartEncoding(p.First); err != nil {
		return err
	}
	if err := e.second.StartEncoding(p.Second); err != nil {
		abandon(e.first)
		return err
	}
	return nil
}

func (e *ChainedEncoder[A, B]) Encode(buf []byte, eos Eos) (int, error) {
	offset := 0
	if !e.first.IsIdle() {
		n, err := e.first.Encode(buf, eos)
		offset = n
		if err != nil || !e.first.IsIdle() {
			return offset, err
		}
	}
	n, err := e.second.Encode(buf[offset:], eos)
	return offset + n, err
}

func (e *ChainedEncoder[A, B]) RequiringBytes() ByteCount {
	return e.first.RequiringBytes().AddForEncoding(e.second.RequiringBytes())
}

func (e *ChainedEncoder[A, B]) ExactRequiringBytes() (uint64, bool) {
	a, ok := exactBytes(e.first)
	if !ok {
		return 0, false
	}
	b, ok := exactBytes(e.second)
	return a + b, ok
}

func (e *ChainedEncoder[A, B]) IsIdle() bool { return e.first.IsIdle() && e.second.IsIdle() }
