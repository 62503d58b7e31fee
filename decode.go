package codec

import "fmt"

// MapDecoder transforms completed items with a pure function.
type MapDecoder[T, U any] struct {
	inner Decoder[T]
	f     func(T) U
}

var _ Decoder[int] = (*MapDecoder[uint8, int])(nil)

// Map returns a decoder yielding f(item) for every item of d.
func Map[T, U any](d Decoder[T], f func(T) U) *MapDecoder[T, U] {
	return &MapDecoder[T, U]{inner: d, f: f}
}

func (d *MapDecoder[T, U]) Decode(buf []byte, eos Eos) (int, U, bool, error) {
	n, v, ok, err := d.inner.Decode(buf, eos)
	if !ok || err != nil {
		var zero U
		return n, zero, false, err
	}
	return n, d.f(v), true, nil
}

func (d *MapDecoder[T, U]) RequiringBytes() ByteCount { return d.inner.RequiringBytes() }
func (d *MapDecoder[T, U]) IsIdle() bool              { return d.inner.IsIdle() }

// TryMapDecoder transforms completed items with a fallible function.
type TryMapDecoder[T, U any] struct {
	inner Decoder[T]
	f     func(T) (U, error)
}

// TryMap returns a decoder yielding f(item). A failure of f is reported as
// ErrInvalidInput with the original cause attached.
func TryMap[T, U any](d Decoder[T], f func(T) (U, error)) *TryMapDecoder[T, U] {
	return &TryMapDecoder[T, U]{inner: d, f: f}
}

func (d *TryMapDecoder[T, U]) Decode(buf []byte, eos Eos) (int, U, bool, error) {
	var zero U
	n, v, ok, err := d.inner.Decode(buf, eos)
	if !ok || err != nil {
		return n, zero, false, err
	}
	u, err := d.f(v)
	if err != nil {
		return n, zero, false, wrap(ErrInvalidInput, err, "map decoded item")
	}
	return n, u, true, nil
}

func (d *TryMapDecoder[T, U]) RequiringBytes() ByteCount { return d.inner.RequiringBytes() }
func (d *TryMapDecoder[T, U]) IsIdle() bool              { return d.inner.IsIdle() }

// Validate returns a decoder that rejects items for which f fails.
func Validate[T any](d Decoder[T], f func(T) error) *TryMapDecoder[T, T] {
	return TryMap(d, func(v T) (T, error) { return v, f(v) })
}

// MapErrDecoder rewrites the errors of its inner decoder.
type MapErrDecoder[T any] struct {
	inner Decoder[T]
	f     func(error) error
}

// MapErr returns a decoder passing every error of d through f.
func MapErr[T any](d Decoder[T], f func(error) error) *MapErrDecoder[T] {
	return &MapErrDecoder[T]{inner: d, f: f}
}

func (d *MapErrDecoder[T]) Decode(buf []byte, eos Eos) (int, T, bool, error) {
	n, v, ok, err := d.inner.Decode(buf, eos)
	if err != nil {
		err = d.f(err)
	}
	return n, v, ok, err
}

func (d *MapErrDecoder[T]) RequiringBytes() ByteCount { return d.inner.RequiringBytes() }
func (d *MapErrDecoder[T]) IsIdle() bool              { return d.inner.IsIdle() }

// AndThenDecoder decodes a first item, then continues with a decoder built
// from it. The item is the one of the second decoder.
type AndThenDecoder[T, U any] struct {
	first  Decoder[T]
	f      func(T) Decoder[U]
	second Decoder[U]
}

// AndThen is the building block of length-prefixed and tag-dispatched formats.
func AndThen[T, U any](d Decoder[T], f func(T) Decoder[U]) *AndThenDecoder[T, U] {
	return &AndThenDecoder[T, U]{first: d, f: f}
}

func (d *AndThenDecoder[T, U]) Decode(buf []byte, eos Eos) (int, U, bool, error) {
	var zero U
	offset := 0
	if d.second == nil {
		n, v, ok, err := d.first.Decode(buf, eos)
		offset = n
		if err != nil || !ok {
			return offset, zero, false, err
		}
		d.second = d.f(v)
	}
	n, u, ok, err := d.second.Decode(buf[offset:], eos)
	offset += n
	if err != nil || !ok {
		return offset, zero, false, err
	}
	d.second = nil
	return offset, u, true, nil
}

func (d *AndThenDecoder[T, U]) RequiringBytes() ByteCount {
	if d.second != nil {
		return d.second.RequiringBytes()
	}
	return d.first.RequiringBytes()
}

func (d *AndThenDecoder[T, U]) IsIdle() bool { return d.second == nil && d.first.IsIdle() }

// CollectDecoder decodes items until the end of the stream, or until its
// inner decoder terminates, and folds them into a container.
type CollectDecoder[T, C any] struct {
	inner   Decoder[T]
	init    func() C
	add     func(C, T) C
	items   C
	count   int
	started bool
}

// Collect gathers every item of d into a slice.
func Collect[T any](d Decoder[T]) *CollectDecoder[T, []T] {
	return CollectFunc(d, func() []T { return []T{} }, func(s []T, v T) []T { return append(s, v) })
}

// CollectFunc gathers items into any container: init makes an empty one and
// add inserts an item.
func CollectFunc[T, C any](d Decoder[T], init func() C, add func(C, T) C) *CollectDecoder[T, C] {
	return &CollectDecoder[T, C]{inner: d, init: init, add: add}
}

func (d *CollectDecoder[T, C]) Decode(buf []byte, eos Eos) (int, C, bool, error) {
	var zero C
	if !d.started {
		d.items, d.started = d.init(), true
	}
	offset := 0
	for offset < len(buf) && !hasTerminated(d.inner) {
		n, v, ok, err := d.inner.Decode(buf[offset:], eos)
		offset += n
		if err != nil {
			return offset, zero, false, err
		}
		if !ok {
			break
		}
		if n == 0 && !hasTerminated(d.inner) {
			return offset, zero, false, inconsistent("collect: item decoded without consuming input")
		}
		d.items = d.add(d.items, v)
		d.count++
	}
	if !hasTerminated(d.inner) {
		if !eos.IsReached() || offset < len(buf) {
			return offset, zero, false, nil
		}
		if !d.inner.IsIdle() {
			// the last item has only been partially seen, let it complete at EOS.
			_, v, ok, err := d.inner.Decode(nil, eos)
			if err != nil {
				return offset, zero, false, err
			}
			if !ok {
				return offset, zero, false, fmt.Errorf("%w: collect ended inside an item", ErrUnexpectedEos)
			}
			d.items = d.add(d.items, v)
		}
	}
	items := d.items
	d.items, d.count, d.started = zero, 0, false
	return offset, items, true, nil
}

func (d *CollectDecoder[T, C]) RequiringBytes() ByteCount {
	if hasTerminated(d.inner) {
		return Finite(0)
	}
	return Infinite
}

func (d *CollectDecoder[T, C]) IsIdle() bool { return d.count == 0 && d.inner.IsIdle() }

// CollectNDecoder decodes exactly n items into a slice.
type CollectNDecoder[T any] struct {
	inner Decoder[T]
	n     int
	items []T
}

// CollectN gathers n items of d. n == 0 completes at once.
func CollectN[T any](d Decoder[T], n int) *CollectNDecoder[T] {
	return &CollectNDecoder[T]{inner: d, n: n}
}

func (d *CollectNDecoder[T]) Decode(buf []byte, eos Eos) (int, []T, bool, error) {
	if d.items == nil {
		d.items = make([]T, 0, d.n)
	}
	offset := 0
	for len(d.items) < d.n {
		n, v, ok, err := d.inner.Decode(buf[offset:], eos)
		offset += n
		if err != nil {
			return offset, nil, false, err
		}
		if !ok {
			if eos.IsReached() {
				return offset, nil, false, fmt.Errorf("%w: got %d of %d items", ErrUnexpectedEos, len(d.items), d.n)
			}
			return offset, nil, false, nil
		}
		d.items = append(d.items, v)
	}
	items := d.items
	d.items = nil
	return offset, items, true, nil
}

func (d *CollectNDecoder[T]) RequiringBytes() ByteCount {
	if len(d.items) == d.n {
		return Finite(0)
	}
	return d.inner.RequiringBytes()
}

func (d *CollectNDecoder[T]) IsIdle() bool { return len(d.items) == 0 && d.inner.IsIdle() }

// TakeDecoder limits its inner decoder to at most limit bytes per item.
// The inner decoder sees the end of the stream at the limit.
type TakeDecoder[T any] struct {
	inner     Decoder[T]
	limit     uint64
	remaining uint64
}

// Take returns a decoder whose items span at most limit bytes.
func Take[T any](d Decoder[T], limit uint64) *TakeDecoder[T] {
	return &TakeDecoder[T]{inner: d, limit: limit, remaining: limit}
}

// Remaining returns how many bytes the current item may still consume.
func (d *TakeDecoder[T]) Remaining() uint64 { return d.remaining }

func (d *TakeDecoder[T]) Decode(buf []byte, eos Eos) (int, T, bool, error) {
	var zero T
	view := buf
	if uint64(len(view)) > d.remaining {
		view = view[:d.remaining]
	}
	local := EosWithRemaining(d.remaining - uint64(len(view)))
	if outer := eos.Back(uint64(len(buf) - len(view))); outer.RemainingBytes().Less(local.RemainingBytes()) {
		local = outer
	}
	n, v, ok, err := d.inner.Decode(view, local)
	d.remaining -= uint64(n)
	if err != nil {
		return n, zero, false, err
	}
	if ok {
		d.remaining = d.limit
		return n, v, true, nil
	}
	if n < len(buf) {
		return n, zero, false, inconsistent("take: limit reached without an item")
	}
	return n, zero, false, nil
}

func (d *TakeDecoder[T]) RequiringBytes() ByteCount {
	return d.inner.RequiringBytes().min(d.remaining)
}

func (d *TakeDecoder[T]) IsIdle() bool { return d.remaining == d.limit && d.inner.IsIdle() }

// LengthDecoder requires every item of its inner decoder to span exactly n bytes.
type LengthDecoder[T any] struct {
	take TakeDecoder[T]
}

// Length returns a decoder whose items span exactly n bytes. The inner
// decoder must complete at the boundary.
func Length[T any](d Decoder[T], n uint64) *LengthDecoder[T] {
	return &LengthDecoder[T]{take: TakeDecoder[T]{inner: d, limit: n, remaining: n}}
}

func (d *LengthDecoder[T]) Decode(buf []byte, eos Eos) (int, T, bool, error) {
	before := d.take.remaining
	n, v, ok, err := d.take.Decode(buf, eos)
	if !ok || err != nil {
		return n, v, ok, err
	}
	if short := before - uint64(n); short > 0 {
		var zero T
		if r, known := eos.Back(uint64(len(buf) - n)).RemainingBytes().Uint64(); known && r < short {
			return n, zero, false, fmt.Errorf("%w: %d bytes short of length %d", ErrUnexpectedEos, short, d.take.limit)
		}
		return n, zero, false, fmt.Errorf("%w: item ended %d bytes before length %d", ErrInvalidInput, short, d.take.limit)
	}
	return n, v, true, nil
}

func (d *LengthDecoder[T]) RequiringBytes() ByteCount { return Finite(d.take.remaining) }
func (d *LengthDecoder[T]) IsIdle() bool              { return d.take.IsIdle() }

// IgnoreRestDecoder discards every byte following the item of its inner
// decoder up to the end of the stream.
type IgnoreRestDecoder[T any] struct {
	inner Decoder[T]
	item  T
	done  bool
}

// IgnoreRest needs a bounded stream; an endless one is rejected with ErrInvalidInput.
func IgnoreRest[T any](d Decoder[T]) *IgnoreRestDecoder[T] {
	return &IgnoreRestDecoder[T]{inner: d}
}

func (d *IgnoreRestDecoder[T]) Decode(buf []byte, eos Eos) (int, T, bool, error) {
	var zero T
	if eos.RemainingBytes().IsInfinite() {
		return 0, zero, false, fmt.Errorf("%w: cannot ignore the rest of an endless stream", ErrInvalidInput)
	}
	if !d.done {
		n, v, ok, err := d.inner.Decode(buf, eos)
		if err != nil || !ok {
			return n, zero, false, err
		}
		d.item, d.done = v, true
	}
	if !eos.IsReached() {
		return len(buf), zero, false, nil
	}
	item := d.item
	d.item, d.done = zero, false
	return len(buf), item, true, nil
}

func (d *IgnoreRestDecoder[T]) RequiringBytes() ByteCount {
	if d.done {
		return Infinite
	}
	return d.inner.RequiringBytes()
}

func (d *IgnoreRestDecoder[T]) IsIdle() bool { return !d.done && d.inner.IsIdle() }

// MaybeEosDecoder accepts the end of the stream in front of an item:
// the inner decoder is not told about an end that arrives before its first byte.
type MaybeEosDecoder[T any] struct {
	inner   Decoder[T]
	started bool
}

// MaybeEos lets d yield nothing on an empty stream.
func MaybeEos[T any](d Decoder[T]) *MaybeEosDecoder[T] { return &MaybeEosDecoder[T]{inner: d} }

func (d *MaybeEosDecoder[T]) Decode(buf []byte, eos Eos) (int, T, bool, error) {
	if !d.started && len(buf) == 0 && eos.IsReached() {
		eos = Eos{}
	}
	n, v, ok, err := d.inner.Decode(buf, eos)
	d.started = !ok && (d.started || n > 0)
	return n, v, ok, err
}

func (d *MaybeEosDecoder[T]) RequiringBytes() ByteCount { return d.inner.RequiringBytes() }
func (d *MaybeEosDecoder[T]) IsIdle() bool              { return d.inner.IsIdle() }

// OmittableDecoder decodes optional items. While omitting, it consumes
// nothing and yields nil at once; otherwise it yields the inner item.
type OmittableDecoder[T any] struct {
	inner Decoder[T]
	omit  bool
}

var _ Decoder[*int] = (*OmittableDecoder[int])(nil)

// Omit returns a decoder of *T items that skips d when omit is set. Formats
// with presence flags toggle it with SetOmit before each item.
func Omit[T any](d Decoder[T], omit bool) *OmittableDecoder[T] {
	return &OmittableDecoder[T]{inner: d, omit: omit}
}

// SetOmit decides whether the next item is omitted.
func (d *OmittableDecoder[T]) SetOmit(omit bool) { d.omit = omit }

func (d *OmittableDecoder[T]) WillOmit() bool { return d.omit }

func (d *OmittableDecoder[T]) Decode(buf []byte, eos Eos) (int, *T, bool, error) {
	if d.omit {
		return 0, nil, true, nil
	}
	n, v, ok, err := d.inner.Decode(buf, eos)
	if !ok || err != nil {
		return n, nil, false, err
	}
	return n, &v, true, nil
}

func (d *OmittableDecoder[T]) RequiringBytes() ByteCount {
	if d.omit {
		return Finite(0)
	}
	return d.inner.RequiringBytes()
}

func (d *OmittableDecoder[T]) IsIdle() bool { return d.omit || d.inner.IsIdle() }

// MaxBytesDecoder fails items of its inner decoder spanning more than max bytes.
type MaxBytesDecoder[T any] struct {
	inner    Decoder[T]
	max      uint64
	consumed uint64
}

// MaxBytes bounds every item of d to max bytes. An item still incomplete
// at the bound fails with ErrInvalidInput.
func MaxBytes[T any](d Decoder[T], max uint64) *MaxBytesDecoder[T] {
	return &MaxBytesDecoder[T]{inner: d, max: max}
}

func (d *MaxBytesDecoder[T]) Decode(buf []byte, eos Eos) (int, T, bool, error) {
	var zero T
	view := buf
	if left := d.max - d.consumed; uint64(len(view)) > left {
		view = view[:left]
	}
	n, v, ok, err := d.inner.Decode(view, eos.Back(uint64(len(buf)-len(view))))
	d.consumed += uint64(n)
	if err != nil {
		return n, zero, false, err
	}
	if ok {
		d.consumed = 0
		return n, v, true, nil
	}
	if len(view) < len(buf) {
		return n, zero, false, fmt.Errorf("%w: item exceeds %d bytes", ErrInvalidInput, d.max)
	}
	return n, zero, false, nil
}

func (d *MaxBytesDecoder[T]) RequiringBytes() ByteCount { return d.inner.RequiringBytes() }
func (d *MaxBytesDecoder[T]) IsIdle() bool              { return d.consumed == 0 && d.inner.IsIdle() }

// OnceDecoder yields a single item, then fails with ErrDecoderTerminated.
type OnceDecoder[T any] struct {
	inner Decoder[T]
	done  bool
}

var _ Terminator = (*OnceDecoder[int])(nil)

// Once returns a decoder yielding the first item of d only.
func Once[T any](d Decoder[T]) *OnceDecoder[T] { return &OnceDecoder[T]{inner: d} }

func (d *OnceDecoder[T]) Decode(buf []byte, eos Eos) (int, T, bool, error) {
	if d.done {
		var zero T
		return 0, zero, false, ErrDecoderTerminated
	}
	n, v, ok, err := d.inner.Decode(buf, eos)
	d.done = ok && err == nil
	return n, v, ok, err
}

func (d *OnceDecoder[T]) RequiringBytes() ByteCount {
	if d.done {
		return Finite(0)
	}
	return d.inner.RequiringBytes()
}

func (d *OnceDecoder[T]) IsIdle() bool        { return d.done || d.inner.IsIdle() }
func (d *OnceDecoder[T]) HasTerminated() bool { return d.done }

// Reset rearms the decoder for another item.
func (d *OnceDecoder[T]) Reset() { d.done = false }
