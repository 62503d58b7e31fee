package codec

import "fmt"

// PaddingDecoder discards every byte up to the end of the stream.
// It is meant to be framed by Take, Length or Align.
type PaddingDecoder struct {
	expected *byte
	consumed uint64
}

var _ Decoder[struct{}] = (*PaddingDecoder)(nil)

// NewPaddingDecoder accepts any padding byte when expected is nil,
// and fails with ErrInvalidInput on any other byte otherwise.
func NewPaddingDecoder(expected *byte) *PaddingDecoder {
	return &PaddingDecoder{expected: expected}
}

// Expected returns the accepted padding byte, nil meaning any.
func (d *PaddingDecoder) Expected() *byte { return d.expected }

func (d *PaddingDecoder) SetExpected(b *byte) { d.expected = b }

func (d *PaddingDecoder) Decode(buf []byte, eos Eos) (int, struct{}, bool, error) {
	if d.expected != nil {
		for i, b := range buf {
			if b != *d.expected {
				return i, struct{}{}, false, fmt.Errorf("%w: padding byte %#02x at offset %d, expected %#02x",
					ErrInvalidInput, b, d.consumed+uint64(i), *d.expected)
			}
		}
	}
	if !eos.IsReached() {
		d.consumed += uint64(len(buf))
		return len(buf), struct{}{}, false, nil
	}
	d.consumed = 0
	return len(buf), struct{}{}, true, nil
}

func (d *PaddingDecoder) RequiringBytes() ByteCount { return Infinite }

func (d *PaddingDecoder) IsIdle() bool { return d.consumed == 0 }

// PaddingEncoder writes one byte value repeatedly until the end of the stream.
type PaddingEncoder struct {
	b      byte
	loaded bool
}

var _ Encoder[byte] = (*PaddingEncoder)(nil)

// NewPaddingEncoder creates an encoder filling its output with a byte value.
func NewPaddingEncoder() *PaddingEncoder { return &PaddingEncoder{} }

func (e *PaddingEncoder) StartEncoding(b byte) error {
	if e.loaded {
		return ErrEncoderFull
	}
	e.b, e.loaded = b, true
	return nil
}

func (e *PaddingEncoder) Encode(buf []byte, eos Eos) (int, error) {
	if !e.loaded {
		return 0, nil
	}
	fill(buf, e.b)
	if eos.IsReached() {
		e.loaded = false
	}
	return len(buf), nil
}

func (e *PaddingEncoder) RequiringBytes() ByteCount {
	if e.loaded {
		return Infinite
	}
	return Finite(0)
}

func (e *PaddingEncoder) IsIdle() bool { return !e.loaded }
