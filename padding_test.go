package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaddingEncoder(t *testing.T) {
	e := NewPaddingEncoder()
	require.NoError(t, e.StartEncoding(3))
	assert.Equal(t, Infinite, e.RequiringBytes())
	assert.ErrorIs(t, e.StartEncoding(4), ErrEncoderFull)

	buf := make([]byte, 8)
	n, err := e.Encode(buf, NewEos(true))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, []byte{3, 3, 3, 3, 3, 3, 3, 3}, buf)
	assert.True(t, e.IsIdle())
	assert.Equal(t, Finite(0), e.RequiringBytes())
}

func TestPaddingEncoderKeepsFillingUntilEos(t *testing.T) {
	e := NewPaddingEncoder()
	require.NoError(t, e.StartEncoding(0xaa))
	n, err := e.Encode(make([]byte, 4), Eos{})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.False(t, e.IsIdle())
}

func TestPaddingDecoder(t *testing.T) {
	_, err := DecodeBytes(NewPaddingDecoder(nil), make([]byte, 8))
	assert.NoError(t, err)

	_, err = DecodeBytes(NewPaddingDecoder(Ptr[byte](1)), bytes.Repeat([]byte{1}, 8))
	assert.NoError(t, err)

	_, err = DecodeBytes(NewPaddingDecoder(Ptr[byte](1)), make([]byte, 8))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = DecodeBytes(NewPaddingDecoder(Ptr[byte](1)), []byte{1, 1, 1, 2, 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPaddingDecoderChunks(t *testing.T) {
	d := NewPaddingDecoder(Ptr[byte](1))
	items := decodeInChunks(t, d, bytes.Repeat([]byte{1}, 100), newRand(3))
	assert.Len(t, items, 1)
	assert.True(t, d.IsIdle())
}

func TestNull(t *testing.T) {
	var d NullDecoder
	n, _, ok, err := d.Decode([]byte{1}, NewEos(true))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, ok)

	var e NullEncoder
	require.NoError(t, e.StartEncoding(struct{}{}))
	assert.True(t, e.IsIdle())
	n, err = e.Encode(make([]byte, 10), NewEos(true))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	b, err := EncodeToBytes[struct{}](e, struct{}{})
	require.NoError(t, err)
	assert.Empty(t, b)
}
