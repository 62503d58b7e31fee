package codec

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapFrom(t *testing.T) {
	e := MapFrom(NewU16Encoder(BE), func(s string) uint16 { return uint16(len(s)) })
	b, err := EncodeToBytes(e, "four")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 4}, b)
}

func TestTryMapFrom(t *testing.T) {
	e := TryMapFrom(NewU8Encoder(), func(s string) (uint8, error) {
		v, err := strconv.ParseUint(s, 10, 8)
		return uint8(v), err
	})
	b, err := EncodeToBytes(e, "200")
	require.NoError(t, err)
	assert.Equal(t, []byte{200}, b)

	err = e.StartEncoding("300")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, strconv.ErrRange)
	assert.True(t, e.IsIdle())
}

func TestMapErrEncoder(t *testing.T) {
	errWrapped := errors.New("wrapped")
	e := MapErrEncoder(NewU24Encoder(BE), func(err error) error { return fmt.Errorf("%w: %w", errWrapped, err) })
	err := e.StartEncoding(1 << 30)
	assert.ErrorIs(t, err, errWrapped)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRepeat(t *testing.T) {
	e := Repeat(NewU16Encoder(LE))
	b, err := EncodeToBytes(e, slices.Values([]uint16{1, 2, 3}))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 2, 0, 3, 0}, b)
	assert.True(t, e.IsIdle())

	b, err = EncodeToBytes(e, slices.Values([]uint16{}))
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestRepeatInSmallWindows(t *testing.T) {
	e := Repeat(NewU32Encoder(BE))
	got := encodeInChunks(t, e, slices.Values([]uint32{1, 2}), newRand(11))
	assert.Equal(t, []byte{0, 0, 0, 1, 0, 0, 0, 2}, got)
}

func TestRepeatUnknownSize(t *testing.T) {
	e := Repeat(NewU8Encoder())
	var seq iter.Seq[uint8] = func(yield func(uint8) bool) {
		for i := 0; yield(uint8(i)); i++ {
		}
	}
	require.NoError(t, e.StartEncoding(seq))
	assert.Equal(t, Unknown, e.RequiringBytes())
	assert.ErrorIs(t, e.StartEncoding(seq), ErrEncoderFull)

	buf := make([]byte, 4)
	n, err := e.Encode(buf, Eos{})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{0, 1, 2, 3}, buf)

	e.Stop()
	n, err = e.Encode(buf, Eos{})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "the pulled item is still emitted")
	assert.True(t, e.IsIdle())
}

func TestOptional(t *testing.T) {
	e := Optional(NewU16Encoder(BE))
	b, err := EncodeToBytes(e, Ptr[uint16](2))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 2}, b)

	b, err = EncodeToBytes(e, nil)
	require.NoError(t, err)
	assert.Empty(t, b)

	require.NoError(t, e.StartEncoding(Ptr[uint16](1)))
	assert.ErrorIs(t, e.StartEncoding(nil), ErrEncoderFull)
}

func TestLengthEncoder(t *testing.T) {
	b, err := EncodeToBytes(LengthEncoder(NewPaddingEncoder(), 4), 9)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9, 9, 9}, b)

	b, err = EncodeToBytes(LengthEncoder(NewBytesEncoder(), 3), []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), b)

	err = LengthEncoder(NewBytesEncoder(), 3).StartEncoding([]byte("ab"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = EncodeToBytes(LengthEncoder(Repeat(NewU8Encoder()), 3), slices.Values([]uint8{1, 2}))
	assert.ErrorIs(t, err, ErrInvalidInput, "an unsized item that ends early")
}

func TestLengthEncoderMismatchRollsBack(t *testing.T) {
	e := LengthEncoder(NewBytesEncoder(), 3)
	assert.ErrorIs(t, e.StartEncoding([]byte("ab")), ErrInvalidInput)
	assert.True(t, e.IsIdle())

	b, err := EncodeToBytes(e, []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), b)
}

func TestLengthEncoderInWindows(t *testing.T) {
	got := encodeInChunks(t, LengthEncoder(NewPaddingEncoder(), 20), 7, newRand(5))
	assert.Equal(t, slices.Repeat([]byte{7}, 20), got)
}

func TestPreEncode(t *testing.T) {
	e := PreEncode(Repeat(NewU8Encoder()))
	require.NoError(t, e.StartEncoding(slices.Values([]uint8{1, 2, 3})))
	size, ok := e.ExactRequiringBytes()
	assert.True(t, ok)
	assert.EqualValues(t, 3, size)
	assert.ErrorIs(t, e.StartEncoding(slices.Values([]uint8{4})), ErrEncoderFull)

	buf := make([]byte, 3)
	n, err := e.Encode(buf, NewEos(true))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{1, 2, 3}, buf)

	b, err := EncodeToBytes(LengthEncoder(PreEncode(Repeat(NewU8Encoder())), 2), slices.Values([]uint8{5, 6}))
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 6}, b)
}

func TestLimitEncoder(t *testing.T) {
	e := LimitEncoder(NewBytesEncoder(), 3)
	b, err := EncodeToBytes(e, []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), b)

	assert.ErrorIs(t, e.StartEncoding([]byte("abcd")), ErrInvalidInput)
	assert.True(t, e.IsIdle())

	require.NoError(t, e.StartEncoding([]byte("ab")))
	size, ok := e.ExactRequiringBytes()
	assert.True(t, ok)
	assert.EqualValues(t, 2, size)
	n, err := e.Encode(make([]byte, 8), Eos{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, e.IsIdle())
}

func TestLimitEncoderUnsized(t *testing.T) {
	b, err := EncodeToBytes(LimitEncoder(Repeat(NewU8Encoder()), 2), slices.Values([]uint8{1, 2}))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, b)

	_, err = EncodeToBytes(LimitEncoder(Repeat(NewU8Encoder()), 2), slices.Values([]uint8{1, 2, 3}))
	assert.ErrorIs(t, err, ErrInvalidInput)

	got := encodeInChunks(t, LimitEncoder(Repeat(NewU8Encoder()), 4), slices.Values([]uint8{1, 2, 3, 4}), newRand(2))
	assert.Equal(t, []byte{1, 2, 3, 4}, got)
}
