package codec

import (
	"encoding/binary"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type benchmarkPayload struct {
	ID      uint32
	Val1    uint64
	Val2    uint64
	Val3    uint64
	IsAlive bool
	Padding [3]byte
}

func TestFixedRoundTrip(t *testing.T) {
	p := benchmarkPayload{ID: 1, Val1: 100, Val3: 1 << 60, IsAlive: true, Padding: [3]byte{1, 2, 3}}
	for _, order := range []binary.ByteOrder{BE, LE} {
		e, err := NewFixedEncoder[benchmarkPayload](order)
		require.NoError(t, err)
		d, err := NewFixedDecoder[benchmarkPayload](order)
		require.NoError(t, err)
		b := roundTrip(t, e, d, p)
		assert.Len(t, b, 32)
	}
}

func TestFixedLayout(t *testing.T) {
	e, err := NewFixedEncoder[struct{ A, B uint16 }](LE)
	require.NoError(t, err)
	b, err := EncodeToBytes(e, struct{ A, B uint16 }{A: 1, B: 0x0203})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 3, 2}, b)

	_, ok := sizeCache.Load(reflect.TypeFor[struct{ A, B uint16 }]())
	assert.True(t, ok)
}

func TestFixedInChunks(t *testing.T) {
	e, err := NewFixedEncoder[benchmarkPayload](nil)
	require.NoError(t, err)
	one, err := EncodeToBytes(e, benchmarkPayload{ID: 7})
	require.NoError(t, err)
	two, err := EncodeToBytes(e, benchmarkPayload{ID: 8, IsAlive: true})
	require.NoError(t, err)

	d, err := NewFixedDecoder[benchmarkPayload](nil)
	require.NoError(t, err)
	items := decodeInChunks(t, d, append(one, two...), newRand(9))
	require.Len(t, items, 2)
	assert.Equal(t, uint32(8), items[1].ID)
	assert.True(t, items[1].IsAlive)
}

func TestFixedRejectsVariableSize(t *testing.T) {
	type named struct {
		ID   uint32
		Name string
	}
	_, err := NewFixedDecoder[named](BE)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = NewFixedEncoder[named](BE)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func BenchmarkFixedEncode(b *testing.B) {
	e, _ := NewFixedEncoder[benchmarkPayload](Order)
	p := benchmarkPayload{ID: 1, Val1: 100}
	buf := make([]byte, 32)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.StartEncoding(p)
		_, _ = e.Encode(buf, NewEos(true))
	}
}

func BenchmarkFixedDecode(b *testing.B) {
	e, _ := NewFixedEncoder[benchmarkPayload](Order)
	data, _ := EncodeToBytes(e, benchmarkPayload{ID: 1, Val1: 100})
	d, _ := NewFixedDecoder[benchmarkPayload](Order)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _, _ = d.Decode(data, NewEos(true))
	}
}

// Baseline comparison with encoding/binary alone, to see the overhead of the codec.
func BenchmarkStandardBinaryEncode(b *testing.B) {
	p := benchmarkPayload{ID: 1, Val1: 100}
	buf := make([]byte, binary.Size(p))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = binary.Encode(buf, Order, &p)
	}
}
