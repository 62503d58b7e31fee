package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// NumberDecoder decodes fixed-width numbers: a byte-order specific read
// function layered over a fixed-size byte block.
type NumberDecoder[T any] struct {
	block
	read func(b []byte) T
}

var _ Decoder[uint32] = (*NumberDecoder[uint32])(nil)

func newNumberDecoder[T any](width int, read func(b []byte) T) *NumberDecoder[T] {
	return &NumberDecoder[T]{block: block{b: make([]byte, width)}, read: read}
}

func (d *NumberDecoder[T]) Decode(buf []byte, eos Eos) (int, T, bool, error) {
	n, ok, err := d.decode(buf, eos)
	if !ok || err != nil {
		var zero T
		return n, zero, false, err
	}
	return n, d.read(d.b), true, nil
}

func (d *NumberDecoder[T]) RequiringBytes() ByteCount { return d.requiringBytes() }
func (d *NumberDecoder[T]) IsIdle() bool              { return d.isIdle() }

// NumberEncoder encodes fixed-width numbers.
type NumberEncoder[T any] struct {
	blockWriter
	scratch [8]byte
	width   int
	write   func(b []byte, v T) error
}

var (
	_ Encoder[uint32] = (*NumberEncoder[uint32])(nil)
	_ Sizer           = (*NumberEncoder[uint32])(nil)
)

func newNumberEncoder[T any](width int, write func(b []byte, v T) error) *NumberEncoder[T] {
	return &NumberEncoder[T]{width: width, write: write}
}

func (e *NumberEncoder[T]) StartEncoding(v T) error {
	if e.loaded {
		return ErrEncoderFull
	}
	b := e.scratch[:e.width]
	if err := e.write(b, v); err != nil {
		return err
	}
	return e.start(b)
}

func (e *NumberEncoder[T]) Encode(buf []byte, eos Eos) (int, error) {
	return e.encode(buf, eos)
}

func (e *NumberEncoder[T]) RequiringBytes() ByteCount { return Finite(e.remaining()) }

func (e *NumberEncoder[T]) ExactRequiringBytes() (uint64, bool) { return e.remaining(), true }

func (e *NumberEncoder[T]) IsIdle() bool { return !e.loaded }

func uintDecoder[T constraints.Unsigned](width int, order binary.ByteOrder) *NumberDecoder[T] {
	order = orderOr(order)
	return newNumberDecoder(width, func(b []byte) T { return T(getUint(order, b)) })
}

func intDecoder[T constraints.Signed](width int, order binary.ByteOrder) *NumberDecoder[T] {
	order = orderOr(order)
	shift := 64 - 8*width
	return newNumberDecoder(width, func(b []byte) T {
		return T(int64(getUint(order, b)<<shift) >> shift)
	})
}

func uintEncoder[T constraints.Unsigned](width int, order binary.ByteOrder) *NumberEncoder[T] {
	order = orderOr(order)
	return newNumberEncoder(width, func(b []byte, v T) error {
		if width < 8 && uint64(v)>>(8*width) != 0 {
			return fmt.Errorf("%w: %d does not fit in %d bits", ErrInvalidInput, uint64(v), 8*width)
		}
		putUint(order, b, uint64(v))
		return nil
	})
}

func intEncoder[T constraints.Signed](width int, order binary.ByteOrder) *NumberEncoder[T] {
	order = orderOr(order)
	bits := 8 * width
	return newNumberEncoder(width, func(b []byte, v T) error {
		n := int64(v)
		if bits < 64 && (n < -(1<<(bits-1)) || n > (1<<(bits-1))-1) {
			return fmt.Errorf("%w: %d does not fit in %d bits", ErrInvalidInput, n, bits)
		}
		putUint(order, b, uint64(n))
		return nil
	})
}

// NewU8Decoder decodes single bytes.
func NewU8Decoder() *NumberDecoder[uint8] { return uintDecoder[uint8](1, BE) }

// NewI8Decoder decodes signed bytes.
func NewI8Decoder() *NumberDecoder[int8] { return intDecoder[int8](1, BE) }

// NewU8Encoder encodes single bytes.
func NewU8Encoder() *NumberEncoder[uint8] { return uintEncoder[uint8](1, BE) }

// NewI8Encoder encodes signed bytes.
func NewI8Encoder() *NumberEncoder[int8] { return intEncoder[int8](1, BE) }

// NewU16Decoder decodes 16-bit unsigned integers in the given byte order.
func NewU16Decoder(order binary.ByteOrder) *NumberDecoder[uint16] {
	return uintDecoder[uint16](2, order)
}

// NewI16Decoder decodes 16-bit signed integers in the given byte order.
func NewI16Decoder(order binary.ByteOrder) *NumberDecoder[int16] {
	return intDecoder[int16](2, order)
}

// NewU16Encoder encodes 16-bit unsigned integers in the given byte order.
func NewU16Encoder(order binary.ByteOrder) *NumberEncoder[uint16] {
	return uintEncoder[uint16](2, order)
}

// NewI16Encoder encodes 16-bit signed integers in the given byte order.
func NewI16Encoder(order binary.ByteOrder) *NumberEncoder[int16] {
	return intEncoder[int16](2, order)
}

// NewU24Decoder decodes 24-bit unsigned integers in the given byte order.
// It is carried in a 32-bit integer.
func NewU24Decoder(order binary.ByteOrder) *NumberDecoder[uint32] {
	return uintDecoder[uint32](3, order)
}

// NewI24Decoder decodes 24-bit signed integers in the given byte order.
// It is carried in a 32-bit integer.
func NewI24Decoder(order binary.ByteOrder) *NumberDecoder[int32] {
	return intDecoder[int32](3, order)
}

// NewU24Encoder encodes 24-bit unsigned integers in the given byte order.
// It is carried in a 32-bit integer. Values above 24 bits are rejected with ErrInvalidInput.
func NewU24Encoder(order binary.ByteOrder) *NumberEncoder[uint32] {
	return uintEncoder[uint32](3, order)
}

// NewI24Encoder encodes 24-bit signed integers in the given byte order.
// It is carried in a 32-bit integer. Values outside 24 bits are rejected with ErrInvalidInput.
func NewI24Encoder(order binary.ByteOrder) *NumberEncoder[int32] {
	return intEncoder[int32](3, order)
}

// NewU32Decoder decodes 32-bit unsigned integers in the given byte order.
func NewU32Decoder(order binary.ByteOrder) *NumberDecoder[uint32] {
	return uintDecoder[uint32](4, order)
}

// NewI32Decoder decodes 32-bit signed integers in the given byte order.
func NewI32Decoder(order binary.ByteOrder) *NumberDecoder[int32] {
	return intDecoder[int32](4, order)
}

// NewU32Encoder encodes 32-bit unsigned integers in the given byte order.
func NewU32Encoder(order binary.ByteOrder) *NumberEncoder[uint32] {
	return uintEncoder[uint32](4, order)
}

// NewI32Encoder encodes 32-bit signed integers in the given byte order.
func NewI32Encoder(order binary.ByteOrder) *NumberEncoder[int32] {
	return intEncoder[int32](4, order)
}

// NewU40Decoder decodes 40-bit unsigned integers in the given byte order.
// It is carried in a 64-bit integer.
func NewU40Decoder(order binary.ByteOrder) *NumberDecoder[uint64] {
	return uintDecoder[uint64](5, order)
}

// NewI40Decoder decodes 40-bit signed integers in the given byte order.
// It is carried in a 64-bit integer.
func NewI40Decoder(order binary.ByteOrder) *NumberDecoder[int64] {
	return intDecoder[int64](5, order)
}

// NewU40Encoder encodes 40-bit unsigned integers in the given byte order.
// It is carried in a 64-bit integer. Values above 40 bits are rejected with ErrInvalidInput.
func NewU40Encoder(order binary.ByteOrder) *NumberEncoder[uint64] {
	return uintEncoder[uint64](5, order)
}

// NewI40Encoder encodes 40-bit signed integers in the given byte order.
// It is carried in a 64-bit integer. Values outside 40 bits are rejected with ErrInvalidInput.
func NewI40Encoder(order binary.ByteOrder) *NumberEncoder[int64] {
	return intEncoder[int64](5, order)
}

// NewU48Decoder decodes 48-bit unsigned integers in the given byte order.
// It is carried in a 64-bit integer.
func NewU48Decoder(order binary.ByteOrder) *NumberDecoder[uint64] {
	return uintDecoder[uint64](6, order)
}

// NewI48Decoder decodes 48-bit signed integers in the given byte order.
// It is carried in a 64-bit integer.
func NewI48Decoder(order binary.ByteOrder) *NumberDecoder[int64] {
	return intDecoder[int64](6, order)
}

// NewU48Encoder encodes 48-bit unsigned integers in the given byte order.
// It is carried in a 64-bit integer. Values above 48 bits are rejected with ErrInvalidInput.
func NewU48Encoder(order binary.ByteOrder) *NumberEncoder[uint64] {
	return uintEncoder[uint64](6, order)
}

// NewI48Encoder encodes 48-bit signed integers in the given byte order.
// It is carried in a 64-bit integer. Values outside 48 bits are rejected with ErrInvalidInput.
func NewI48Encoder(order binary.ByteOrder) *NumberEncoder[int64] {
	return intEncoder[int64](6, order)
}

// NewU56Decoder decodes 56-bit unsigned integers in the given byte order.
// It is carried in a 64-bit integer.
func NewU56Decoder(order binary.ByteOrder) *NumberDecoder[uint64] {
	return uintDecoder[uint64](7, order)
}

// NewI56Decoder decodes 56-bit signed integers in the given byte order.
// It is carried in a 64-bit integer.
func NewI56Decoder(order binary.ByteOrder) *NumberDecoder[int64] {
	return intDecoder[int64](7, order)
}

// NewU56Encoder encodes 56-bit unsigned integers in the given byte order.
// It is carried in a 64-bit integer. Values above 56 bits are rejected with ErrInvalidInput.
func NewU56Encoder(order binary.ByteOrder) *NumberEncoder[uint64] {
	return uintEncoder[uint64](7, order)
}

// NewI56Encoder encodes 56-bit signed integers in the given byte order.
// It is carried in a 64-bit integer. Values outside 56 bits are rejected with ErrInvalidInput.
func NewI56Encoder(order binary.ByteOrder) *NumberEncoder[int64] {
	return intEncoder[int64](7, order)
}

// NewU64Decoder decodes 64-bit unsigned integers in the given byte order.
func NewU64Decoder(order binary.ByteOrder) *NumberDecoder[uint64] {
	return uintDecoder[uint64](8, order)
}

// NewI64Decoder decodes 64-bit signed integers in the given byte order.
func NewI64Decoder(order binary.ByteOrder) *NumberDecoder[int64] {
	return intDecoder[int64](8, order)
}

// NewU64Encoder encodes 64-bit unsigned integers in the given byte order.
func NewU64Encoder(order binary.ByteOrder) *NumberEncoder[uint64] {
	return uintEncoder[uint64](8, order)
}

// NewI64Encoder encodes 64-bit signed integers in the given byte order.
func NewI64Encoder(order binary.ByteOrder) *NumberEncoder[int64] {
	return intEncoder[int64](8, order)
}

// NewF32Decoder decodes IEEE 754 single precision floats.
func NewF32Decoder(order binary.ByteOrder) *NumberDecoder[float32] {
	order = orderOr(order)
	return newNumberDecoder(4, func(b []byte) float32 { return math.Float32frombits(order.Uint32(b)) })
}

// NewF64Decoder decodes IEEE 754 double precision floats.
func NewF64Decoder(order binary.ByteOrder) *NumberDecoder[float64] {
	order = orderOr(order)
	return newNumberDecoder(8, func(b []byte) float64 { return math.Float64frombits(order.Uint64(b)) })
}

// NewF32Encoder encodes IEEE 754 single precision floats.
func NewF32Encoder(order binary.ByteOrder) *NumberEncoder[float32] {
	order = orderOr(order)
	return newNumberEncoder(4, func(b []byte, v float32) error {
		order.PutUint32(b, math.Float32bits(v))
		return nil
	})
}

// NewF64Encoder encodes IEEE 754 double precision floats.
func NewF64Encoder(order binary.ByteOrder) *NumberEncoder[float64] {
	order = orderOr(order)
	return newNumberEncoder(8, func(b []byte, v float64) error {
		order.PutUint64(b, math.Float64bits(v))
		return nil
	})
}
