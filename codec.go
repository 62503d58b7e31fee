package codec

import (
	"fmt"
	"slices"
)

// Decoder decodes items of type T from a byte stream incrementally.
//
// Decode consumes a prefix of buf and reports whether an item completed.
// Exactly one of the following holds after a successful call:
//   - ok is true: an item completed after consuming buf[:n];
//   - ok is false: n == len(buf), the whole buffer was consumed.
//
// If eos.IsReached() and more bytes are still needed the decoder fails with
// ErrUnexpectedEos. After any error the decoder must be discarded.
type Decoder[T any] interface {
	Decode(buf []byte, eos Eos) (n int, item T, ok bool, err error)

	// RequiringBytes returns a lower bound of the bytes needed to make progress.
	// Finite(0) means an item can be produced without more input,
	// or that decoding has completed.
	RequiringBytes() ByteCount

	// IsIdle reports whether no item is partially decoded.
	IsIdle() bool
}

// Encoder encodes items of type T into a byte stream incrementally.
//
// StartEncoding loads one item; it fails with ErrEncoderFull if an item is
// still in flight. Encode writes as much of the current item as fits in buf
// and keeps the rest for the next call.
type Encoder[T any] interface {
	StartEncoding(item T) error
	Encode(buf []byte, eos Eos) (int, error)

	// RequiringBytes returns the bytes still to be emitted for the current item.
	RequiringBytes() ByteCount

	// IsIdle reports whether no item is loaded.
	IsIdle() bool
}

// Sizer is implemented by encoders that know the exact number of bytes
// remaining for the current item. ok is false when the size cannot be known,
// e.g. a composite with an unsized member.
type Sizer interface {
	ExactRequiringBytes() (n uint64, ok bool)
}

// Terminator is implemented by one-shot decoders.
type Terminator interface {
	HasTerminated() bool
}

// exactBytes returns the exact remaining size of v if it is a Sizer.
func exactBytes(v any) (uint64, bool) {
	if s, ok := v.(Sizer); ok {
		return s.ExactRequiringBytes()
	}
	return 0, false
}

func hasTerminated(v any) bool {
	t, ok := v.(Terminator)
	return ok && t.HasTerminated()
}

// DecodeBytes decodes exactly one item that spans the whole of buf.
func DecodeBytes[T any](d Decoder[T], buf []byte) (T, error) {
	var zero T
	n, item, ok, err := d.Decode(buf, NewEos(true))
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, ErrIncompleteDecoding
	}
	if n != len(buf) {
		return zero, fmt.Errorf("%w: %d trailing bytes after item", ErrInvalidInput, len(buf)-n)
	}
	return item, nil
}

// EncodeToBytes encodes item into a newly allocated slice.
func EncodeToBytes[T any](e Encoder[T], item T) ([]byte, error) {
	if err := e.StartEncoding(item); err != nil {
		return nil, err
	}
	return drain(e, nil)
}

// drain appends the remaining bytes of e's current item to dst. When e knows
// its exact size the output window ends with the item, so e sees the end of
// stream right after it.
func drain(e encoderState, dst []byte) ([]byte, error) {
	for !e.IsIdle() {
		size, eos := BUFFER_SIZE, Eos{}
		if n, ok := exactBytes(e); ok {
			size, eos = int(n), NewEos(true)
		} else if e.RequiringBytes().IsInfinite() {
			return dst, fmt.Errorf("%w: unbounded encoder needs a framed output", ErrInvalidInput)
		}
		offset := len(dst)
		dst = slices.Grow(dst, size)[:offset+size]
		n, err := e.Encode(dst[offset:], eos)
		dst = dst[:offset+n]
		if err != nil {
			return dst, err
		}
		if n == 0 && !e.IsIdle() {
			return dst, inconsistent("encoder made no progress")
		}
	}
	return dst, nil
}

// abandon discards the item loaded in e so that e is idle again. Composites
// use it to roll back members started before another member rejected its item.
func abandon(e encoderState) {
	if s, ok := e.(interface{ Stop() }); ok {
		s.Stop()
	}
	var scratch [64]byte
	for !e.IsIdle() {
		eos := Eos{}
		if e.RequiringBytes().IsInfinite() {
			eos = NewEos(true)
		}
		if n, err := e.Encode(scratch[:], eos); err != nil || n == 0 {
			return
		}
	}
}

// encoderState is the item-independent half of Encoder.
type encoderState interface {
	Encode(buf []byte, eos Eos) (int, error)
	RequiringBytes() ByteCount
	IsIdle() bool
}
