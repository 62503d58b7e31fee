package codec

import "fmt"

// AlignedDecoder discards the zero padding that follows every item of its
// inner decoder up to the next multiple of align bytes. align must be a
// power of two; 0 and 1 disable padding. Padding cut short by the end of
// the stream is accepted, so the last item of a stream may be unpadded.
type AlignedDecoder[T any] struct {
	inner    Decoder[T]
	align    uint64
	consumed uint64
	pad      uint64
	padding  bool
	item     T
}

// Align returns a decoder skipping the padding after each item of d.
func Align[T any](d Decoder[T], align uint64) *AlignedDecoder[T] {
	return &AlignedDecoder[T]{inner: d, align: align}
}

func padFor(n, align uint64) uint64 {
	if align <= 1 {
		return 0
	}
	return Roundup(n, align) - n
}

func (d *AlignedDecoder[T]) Decode(buf []byte, eos Eos) (int, T, bool, error) {
	var zero T
	offset := 0
	if !d.padding {
		n, v, ok, err := d.inner.Decode(buf, eos)
		offset = n
		d.consumed += uint64(n)
		if err != nil || !ok {
			return offset, zero, false, err
		}
		d.item, d.pad, d.padding = v, padFor(d.consumed, d.align), true
	}
	for ; d.pad > 0 && offset < len(buf); d.pad-- {
		if buf[offset] != 0 {
			return offset, zero, false, fmt.Errorf("%w: non-zero alignment byte %#02x", ErrInvalidInput, buf[offset])
		}
		offset++
	}
	if d.pad > 0 && !eos.IsReached() {
		return offset, zero, false, nil
	}
	item := d.item
	d.item, d.consumed, d.pad, d.padding = zero, 0, 0, false
	return offset, item, true, nil
}

func (d *AlignedDecoder[T]) RequiringBytes() ByteCount {
	if d.padding {
		return Finite(d.pad)
	}
	return d.inner.RequiringBytes()
}

func (d *AlignedDecoder[T]) IsIdle() bool {
	return !d.padding && d.consumed == 0 && d.inner.IsIdle()
}

// AlignedEncoder writes zero padding after every item of its inner encoder up
// to the next multiple of align bytes.
type AlignedEncoder[T any] struct {
	inner   Encoder[T]
	align   uint64
	written uint64
	pad     uint64
	padding bool
	loaded  bool
}

var _ Sizer = (*AlignedEncoder[int])(nil)

// AlignEncoder pads every item of e to a multiple of align bytes. align must
// be a power of two; 0 and 1 disable padding.
func AlignEncoder[T any](e Encoder[T], align uint64) *AlignedEncoder[T] {
	return &AlignedEncoder[T]{inner: e, align: align}
}

func (e *AlignedEncoder[T]) StartEncoding(item T) error {
	if e.loaded {
		return ErrEncoderFull
	}
	if err := e.inner.StartEncoding(item); err != nil {
		return err
	}
	e.written, e.pad, e.padding, e.loaded = 0, 0, false, true
	return nil
}

func (e *AlignedEncoder[T]) Encode(buf []byte, eos Eos) (int, error) {
	if !e.loaded {
		return 0, nil
	}
	offset := 0
	if !e.padding {
		n, err := e.inner.Encode(buf, eos)
		offset = n
		e.written += uint64(n)
		if err != nil || !e.inner.IsIdle() {
			return offset, err
		}
		e.pad, e.padding = padFor(e.written, e.align), true
	}
	n := min(e.pad, uint64(len(buf)-offset))
	clear(buf[offset : offset+int(n)])
	offset += int(n)
	e.pad -= n
	if e.pad > 0 {
		if eos.IsReached() {
			return offset, fmt.Errorf("%w: %d alignment bytes left unwritten", ErrUnexpectedEos, e.pad)
		}
		return offset, nil
	}
	e.loaded = false
	return offset, nil
}

func (e *AlignedEncoder[T]) RequiringBytes() ByteCount {
	if n, ok := e.ExactRequiringBytes(); ok {
		return Finite(n)
	}
	return e.inner.RequiringBytes()
}

func (e *AlignedEncoder[T]) ExactRequiringBytes() (uint64, bool) {
	switch {
	case !e.loaded:
		return 0, true
	case e.padding:
		return e.pad, true
	}
	size, ok := exactBytes(e.inner)
	if !ok {
		return 0, false
	}
	return size + padFor(e.written+size, e.align), true
}

func (e *AlignedEncoder[T]) IsIdle() bool { return !e.loaded }
