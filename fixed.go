package codec

import (
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/puzpuzpuz/xsync/v4"
)

// sizeCache avoids the reflection cost of `binary.Size` for every codec
// built on the same payload type. It is shared by all goroutines.
var sizeCache = xsync.NewMap[reflect.Type, int]()

// fixedSize returns the encoded size of P, or an error when P holds
// variable-size fields like slices, maps or strings.
func fixedSize[P any]() (int, error) {
	t := reflect.TypeOf((*P)(nil)).Elem()
	size, ok := sizeCache.Load(t)
	if !ok {
		size = binary.Size(new(P))
		sizeCache.Store(t, size)
	}
	if size < 0 {
		return 0, fmt.Errorf("%w: %s is not a fixed-size type", ErrInvalidInput, t)
	}
	return size, nil
}

// FixedDecoder decodes a whole fixed-layout value, typically a struct of
// numbers and arrays, with encoding/binary.
type FixedDecoder[P any] struct {
	block
	order binary.ByteOrder
}

var _ Decoder[struct{ A, B uint16 }] = (*FixedDecoder[struct{ A, B uint16 }])(nil)

// NewFixedDecoder creates a decoder of fixed-size values of type P.
func NewFixedDecoder[P any](order binary.ByteOrder) (*FixedDecoder[P], error) {
	size, err := fixedSize[P]()
	if err != nil {
		return nil, err
	}
	return &FixedDecoder[P]{block: block{b: make([]byte, size)}, order: orderOr(order)}, nil
}

func (d *FixedDecoder[P]) Decode(buf []byte, eos Eos) (int, P, bool, error) {
	var p P
	n, ok, err := d.decode(buf, eos)
	if !ok || err != nil {
		return n, p, false, err
	}
	if _, err := binary.Decode(d.b, d.order, &p); err != nil {
		return n, p, false, wrap(ErrInvalidInput, err, "decode fixed value")
	}
	return n, p, true, nil
}

func (d *FixedDecoder[P]) RequiringBytes() ByteCount { return d.requiringBytes() }
func (d *FixedDecoder[P]) IsIdle() bool              { return d.isIdle() }

// FixedEncoder is the encoding side of FixedDecoder.
type FixedEncoder[P any] struct {
	blockWriter
	scratch []byte
	order   binary.ByteOrder
}

var _ Sizer = (*FixedEncoder[struct{ A, B uint16 }])(nil)

// NewFixedEncoder creates an encoder of fixed-size values of type P.
func NewFixedEncoder[P any](order binary.ByteOrder) (*FixedEncoder[P], error) {
	size, err := fixedSize[P]()
	if err != nil {
		return nil, err
	}
	return &FixedEncoder[P]{scratch: make([]byte, size), order: orderOr(order)}, nil
}

func (e *FixedEncoder[P]) StartEncoding(p P) error {
	if e.loaded {
		return ErrEncoderFull
	}
	if _, err := binary.Encode(e.scratch, e.order, &p); err != nil {
		return wrap(ErrInvalidInput, err, "encode fixed value")
	}
	return e.start(e.scratch)
}

func (e *FixedEncoder[P]) Encode(buf []byte, eos Eos) (int, error) {
	return e.encode(buf, eos)
}

func (e *FixedEncoder[P]) RequiringBytes() ByteCount { return Finite(e.remaining()) }

func (e *FixedEncoder[P]) ExactRequiringBytes() (uint64, bool) { return e.remaining(), true }

func (e *FixedEncoder[P]) IsIdle() bool { return !e.loaded }
