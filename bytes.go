package codec

import (
	"fmt"
	"unicode/utf8"
)

// block fills a fixed-size buffer across Decode calls.
// It is the building block of every fixed-width decoder.
type block struct {
	b      []byte
	offset int
}

func (k *block) decode(buf []byte, eos Eos) (int, bool, error) {
	n := copy(k.b[k.offset:], buf)
	k.offset += n
	if k.offset < len(k.b) {
		need := uint64(len(k.b) - k.offset)
		if r, ok := eos.RemainingBytes().Uint64(); ok && r < need {
			return n, false, fmt.Errorf("%w: got %d of %d bytes", ErrUnexpectedEos, uint64(k.offset)+r, len(k.b))
		}
		return n, false, nil
	}
	k.offset = 0
	return n, true, nil
}

func (k *block) requiringBytes() ByteCount { return Finite(uint64(len(k.b) - k.offset)) }

func (k *block) isIdle() bool { return k.offset == 0 }

// blockWriter emits a byte slice across Encode calls.
type blockWriter struct {
	b      []byte
	offset int
	loaded bool
}

func (w *blockWriter) start(b []byte) error {
	if w.loaded {
		return ErrEncoderFull
	}
	w.b, w.offset, w.loaded = b, 0, true
	return nil
}

func (w *blockWriter) encode(buf []byte, eos Eos) (int, error) {
	if !w.loaded {
		return 0, nil
	}
	n := copy(buf, w.b[w.offset:])
	w.offset += n
	if w.offset < len(w.b) {
		if eos.IsReached() {
			return n, fmt.Errorf("%w: %d bytes left unwritten", ErrUnexpectedEos, len(w.b)-w.offset)
		}
		return n, nil
	}
	w.b, w.offset, w.loaded = nil, 0, false
	return n, nil
}

func (w *blockWriter) remaining() uint64 { return uint64(len(w.b) - w.offset) }

// BytesDecoder decodes fixed-size byte blocks.
type BytesDecoder struct {
	block
}

var _ Decoder[[]byte] = (*BytesDecoder)(nil)

// NewBytesDecoder creates a decoder for blocks of size bytes.
func NewBytesDecoder(size int) *BytesDecoder {
	return &BytesDecoder{block{b: make([]byte, size)}}
}

// Decode implements Decoder. Every item is a fresh copy of the block.
func (d *BytesDecoder) Decode(buf []byte, eos Eos) (int, []byte, bool, error) {
	n, ok, err := d.decode(buf, eos)
	if !ok || err != nil {
		return n, nil, false, err
	}
	return n, append([]byte(nil), d.b...), true, nil
}

func (d *BytesDecoder) RequiringBytes() ByteCount { return d.requiringBytes() }
func (d *BytesDecoder) IsIdle() bool              { return d.isIdle() }

// RemainingBytesDecoder collects every byte until the end of the stream
// into a single item.
type RemainingBytesDecoder struct {
	buf []byte
}

var _ Decoder[[]byte] = (*RemainingBytesDecoder)(nil)

// NewRemainingBytesDecoder creates a decoder yielding everything up to the end of the stream.
func NewRemainingBytesDecoder() *RemainingBytesDecoder { return &RemainingBytesDecoder{} }

func (d *RemainingBytesDecoder) Decode(buf []byte, eos Eos) (int, []byte, bool, error) {
	if r, ok := eos.RemainingBytes().Uint64(); ok && d.buf == nil {
		// the hint may come from a length prefix, grow no further than one window up front.
		d.buf = make([]byte, 0, len(buf)+int(min(r, BUFFER_SIZE)))
	}
	d.buf = append(d.buf, buf...)
	if !eos.IsReached() {
		return len(buf), nil, false, nil
	}
	item := d.buf
	if item == nil {
		item = []byte{}
	}
	d.buf = nil
	return len(buf), item, true, nil
}

func (d *RemainingBytesDecoder) RequiringBytes() ByteCount { return Infinite }
func (d *RemainingBytesDecoder) IsIdle() bool              { return len(d.buf) == 0 }

// BytesEncoder writes byte slices of any length.
// The slice is not copied and must not be modified until the encoder is idle.
type BytesEncoder struct {
	blockWriter
}

var (
	_ Encoder[[]byte] = (*BytesEncoder)(nil)
	_ Sizer           = (*BytesEncoder)(nil)
)

// NewBytesEncoder creates an encoder of raw byte slices.
func NewBytesEncoder() *BytesEncoder { return &BytesEncoder{} }

func (e *BytesEncoder) StartEncoding(item []byte) error { return e.start(item) }

func (e *BytesEncoder) Encode(buf []byte, eos Eos) (int, error) { return e.encode(buf, eos) }

func (e *BytesEncoder) RequiringBytes() ByteCount { return Finite(e.remaining()) }

func (e *BytesEncoder) ExactRequiringBytes() (uint64, bool) { return e.remaining(), true }

func (e *BytesEncoder) IsIdle() bool { return !e.loaded }

// Utf8Decoder decodes UTF-8 strings on top of a byte decoder.
type Utf8Decoder struct {
	inner Decoder[[]byte]
}

var _ Decoder[string] = (*Utf8Decoder)(nil)

// NewUtf8Decoder decodes the rest of the stream as one string.
func NewUtf8Decoder() *Utf8Decoder { return &Utf8Decoder{inner: NewRemainingBytesDecoder()} }

// NewUtf8DecoderWith decodes strings framed by the given byte decoder.
func NewUtf8DecoderWith(inner Decoder[[]byte]) *Utf8Decoder {
	return &Utf8Decoder{inner: inner}
}

func (d *Utf8Decoder) Decode(buf []byte, eos Eos) (int, string, bool, error) {
	n, b, ok, err := d.inner.Decode(buf, eos)
	if !ok || err != nil {
		return n, "", false, err
	}
	if !utf8.Valid(b) {
		return n, "", false, fmt.Errorf("%w: invalid UTF-8 sequence", ErrInvalidInput)
	}
	return n, string(b), true, nil
}

func (d *Utf8Decoder) RequiringBytes() ByteCount { return d.inner.RequiringBytes() }
func (d *Utf8Decoder) IsIdle() bool              { return d.inner.IsIdle() }

// Utf8Encoder writes strings as raw UTF-8 bytes.
type Utf8Encoder struct {
	blockWriter
}

var (
	_ Encoder[string] = (*Utf8Encoder)(nil)
	_ Sizer           = (*Utf8Encoder)(nil)
)

// NewUtf8Encoder creates an encoder of strings.
func NewUtf8Encoder() *Utf8Encoder { return &Utf8Encoder{} }

func (e *Utf8Encoder) StartEncoding(item string) error {
	if !utf8.ValidString(item) {
		return fmt.Errorf("%w: invalid UTF-8 sequence", ErrInvalidInput)
	}
	if e.loaded {
		return ErrEncoderFull
	}
	return e.start([]byte(item))
}

func (e *Utf8Encoder) Encode(buf []byte, eos Eos) (int, error) { return e.encode(buf, eos) }

func (e *Utf8Encoder) RequiringBytes() ByteCount { return Finite(e.remaining()) }

func (e *Utf8Encoder) ExactRequiringBytes() (uint64, bool) { return e.remaining(), true }

func (e *Utf8Encoder) IsIdle() bool { return !e.loaded }
