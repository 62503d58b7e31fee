package codec

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// decodeInChunks feeds data to d in randomly sized chunks, the last one
// marked as the end of the stream, and returns every decoded item.
func decodeInChunks[T any](t testing.TB, d Decoder[T], data []byte, r *rand.Rand) []T {
	t.Helper()
	var items []T
	offset := 0
	for {
		end := offset
		if offset < len(data) {
			end += 1 + r.IntN(len(data)-offset)
		}
		chunk, eos := data[offset:end], NewEos(end == len(data))
		for {
			n, item, ok, err := d.Decode(chunk, eos)
			require.NoError(t, err)
			if !ok {
				require.Equal(t, len(chunk), n, "an incomplete decode must consume the whole chunk")
				break
			}
			items = append(items, item)
			chunk = chunk[n:]
			if len(chunk) == 0 {
				break
			}
		}
		offset = end
		if offset == len(data) {
			return items
		}
	}
}

// encodeInChunks drains e into output windows of random sizes.
func encodeInChunks[T any](t testing.TB, e Encoder[T], item T, r *rand.Rand) []byte {
	t.Helper()
	require.NoError(t, e.StartEncoding(item))
	var out []byte
	for !e.IsIdle() {
		buf := make([]byte, 1+r.IntN(8))
		n, err := e.Encode(buf, Eos{})
		require.NoError(t, err)
		out = append(out, buf[:n]...)
	}
	return out
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// countingDecoder records how its inner decoder is driven.
type countingDecoder[T any] struct {
	Decoder[T]
	calls    int
	consumed int
}

func (d *countingDecoder[T]) Decode(buf []byte, eos Eos) (int, T, bool, error) {
	d.calls++
	n, item, ok, err := d.Decoder.Decode(buf, eos)
	d.consumed += n
	return n, item, ok, err
}
