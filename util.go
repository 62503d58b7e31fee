package codec

import (
	"encoding/binary"

	"golang.org/x/exp/constraints"
)

var (
	BE = binary.BigEndian
	LE = binary.LittleEndian
	// Order is the byte order used when a constructor is given a nil order.
	Order binary.ByteOrder = BE
)

func orderOr(order binary.ByteOrder) binary.ByteOrder {
	if order == nil {
		return Order
	}
	return order
}

// BUFFER_SIZE is the default chunk size of the stream adapters.
const BUFFER_SIZE = 4096

// Ptr makes optional items in one expression.
func Ptr[T any](v T) *T { return &v }

// Roundup rounds n up to the nearest multiple of align.
func Roundup[T constraints.Integer](n, align T) T { return (n + (align - 1)) &^ (align - 1) }

// isLittle reports whether order stores the least significant byte first.
func isLittle(order binary.ByteOrder) bool {
	return order.Uint16([]byte{1, 0}) == 1
}

// getUint reads an unsigned integer of len(b) bytes, 1 <= len(b) <= 8.
func getUint(order binary.ByteOrder, b []byte) uint64 {
	var tmp [8]byte
	if isLittle(order) {
		copy(tmp[:], b)
		return binary.LittleEndian.Uint64(tmp[:])
	}
	copy(tmp[8-len(b):], b)
	return binary.BigEndian.Uint64(tmp[:])
}

// putUint writes the low len(b) bytes of v into b.
func putUint(order binary.ByteOrder, b []byte, v uint64) {
	var tmp [8]byte
	if isLittle(order) {
		binary.LittleEndian.PutUint64(tmp[:], v)
		copy(b, tmp[:len(b)])
		return
	}
	binary.BigEndian.PutUint64(tmp[:], v)
	copy(b, tmp[8-len(b):])
}

// fill writes c into every byte of p.
func fill(p []byte, c byte) {
	if c == 0 {
		clear(p)
		return
	}
	for i := range p {
		p[i] = c
	}
}
