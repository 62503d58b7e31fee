package codec

import (
	"bytes"
	"encoding"
)

// MonolithicDecoder adapts a whole-buffer decoding function: every byte up
// to the end of the stream is accumulated in memory, then decode runs once.
// decode must not retain the slice it is given.
type MonolithicDecoder[T any] struct {
	buf    *bytes.Buffer
	decode func([]byte) (T, error)
}

var _ Decoder[int] = (*MonolithicDecoder[int])(nil)

// NewMonolithicDecoder buffers the stream until its end, then hands it to decode.
func NewMonolithicDecoder[T any](decode func([]byte) (T, error)) *MonolithicDecoder[T] {
	return &MonolithicDecoder[T]{decode: decode}
}

func (d *MonolithicDecoder[T]) Decode(buf []byte, eos Eos) (int, T, bool, error) {
	var zero T
	if d.buf == nil {
		d.buf = getBytesBuf()
	}
	d.buf.Write(buf)
	if !eos.IsReached() {
		return len(buf), zero, false, nil
	}
	item, err := d.decode(d.buf.Bytes())
	putBytesBuf(d.buf)
	d.buf = nil
	if err != nil {
		return len(buf), zero, false, wrap(ErrOther, err, "monolithic decode")
	}
	return len(buf), item, true, nil
}

func (d *MonolithicDecoder[T]) RequiringBytes() ByteCount { return Infinite }
func (d *MonolithicDecoder[T]) IsIdle() bool              { return d.buf == nil || d.buf.Len() == 0 }

// MonolithicEncoder adapts a whole-item encoding function: the item is
// encoded into memory when it starts, then streamed out.
type MonolithicEncoder[T any] struct {
	BytesEncoder
	encode func(T) ([]byte, error)
}

var (
	_ Encoder[int] = (*MonolithicEncoder[int])(nil)
	_ Sizer        = (*MonolithicEncoder[int])(nil)
)

// NewMonolithicEncoder creates an encoder running encode once per item.
func NewMonolithicEncoder[T any](encode func(T) ([]byte, error)) *MonolithicEncoder[T] {
	return &MonolithicEncoder[T]{encode: encode}
}

func (e *MonolithicEncoder[T]) StartEncoding(item T) error {
	if e.loaded {
		return ErrEncoderFull
	}
	b, err := e.encode(item)
	if err != nil {
		return wrap(ErrOther, err, "monolithic encode")
	}
	return e.start(b)
}

// NewBinaryDecoder decodes values implementing encoding.BinaryUnmarshaler
// on their pointer type.
func NewBinaryDecoder[T any, PT interface {
	*T
	encoding.BinaryUnmarshaler
}]() *MonolithicDecoder[T] {
	return NewMonolithicDecoder(func(b []byte) (T, error) {
		var v T
		err := PT(&v).UnmarshalBinary(b)
		return v, err
	})
}

// NewBinaryEncoder encodes values implementing encoding.BinaryMarshaler.
func NewBinaryEncoder[T encoding.BinaryMarshaler]() *MonolithicEncoder[T] {
	return NewMonolithicEncoder(func(v T) ([]byte, error) { return v.MarshalBinary() })
}
