package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignEncoder(t *testing.T) {
	e := AlignEncoder(NewU8Encoder(), 4)
	b, err := EncodeToBytes(e, 7)
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 0, 0, 0}, b)

	b, err = EncodeToBytes(AlignEncoder(NewU32Encoder(BE), 4), 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 1}, b, "aligned items get no padding")

	b, err = EncodeToBytes(AlignEncoder(NewU16Encoder(BE), 0), 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1}, b)
}

func TestAlignEncoderInWindows(t *testing.T) {
	got := encodeInChunks(t, AlignEncoder(NewU8Encoder(), 8), 5, newRand(3))
	assert.Equal(t, []byte{5, 0, 0, 0, 0, 0, 0, 0}, got)
}

func TestAlignDecoder(t *testing.T) {
	items, err := DecodeBytes(Collect(Align(NewU16Decoder(BE), 4)), []byte{0, 1, 0, 0, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, []uint16{1, 2}, items)

	for seed := range uint64(8) {
		items := decodeInChunks(t, Align(NewU16Decoder(BE), 4), []byte{0, 1, 0, 0, 0, 2, 0, 0}, newRand(seed))
		assert.Equal(t, []uint16{1, 2}, items)
	}
}

func TestAlignDecoderRejectsNonZeroPadding(t *testing.T) {
	_, err := DecodeBytes(Align(NewU16Decoder(BE), 4), []byte{0, 1, 0, 9})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAlignRoundTrip(t *testing.T) {
	b := roundTrip(t, AlignEncoder(NewUtf8Encoder(), 8), Align(NewUtf8DecoderWith(NewBytesDecoder(3)), 8), "abc")
	assert.Equal(t, []byte{'a', 'b', 'c', 0, 0, 0, 0, 0}, b)
}
