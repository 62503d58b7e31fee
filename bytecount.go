package codec

import "strconv"

type byteCountKind uint8

const (
	unknownBytes byteCountKind = iota
	finiteBytes
	infiniteBytes
)

// ByteCount is a number of bytes of interest: a finite count, infinity or unknown.
// The zero value is Unknown.
type ByteCount struct {
	n    uint64
	kind byteCountKind
}

var (
	// Unknown is an incomparable, not yet known amount.
	Unknown = ByteCount{}
	// Infinite is larger than any finite amount.
	Infinite = ByteCount{kind: infiniteBytes}
)

// Finite returns a ByteCount of exactly n bytes.
func Finite(n uint64) ByteCount { return ByteCount{n: n, kind: finiteBytes} }

func (c ByteCount) IsFinite() bool   { return c.kind == finiteBytes }
func (c ByteCount) IsInfinite() bool { return c.kind == infiniteBytes }
func (c ByteCount) IsUnknown() bool  { return c.kind == unknownBytes }

// IsZero reports whether c is Finite(0).
func (c ByteCount) IsZero() bool { return c.kind == finiteBytes && c.n == 0 }

// Uint64 returns the count if it is finite.
func (c ByteCount) Uint64() (uint64, bool) { return c.n, c.kind == finiteBytes }

// Less reports c < o. Unknown is incomparable to everything, itself included.
func (c ByteCount) Less(o ByteCount) bool {
	switch {
	case c.IsUnknown() || o.IsUnknown():
		return false
	case c.IsInfinite():
		return false
	case o.IsInfinite():
		return true
	}
	return c.n < o.n
}

// AddForDecoding combines two sequential decoding requirements.
//
//	Finite(a) + Finite(b) = Finite(a+b)
//	Infinite  + _         = Infinite
//	Unknown   + Unknown   = Unknown
//	Finite(0) + Unknown   = Unknown
//	Finite(a) + Unknown   = Finite(a)
//
// and symmetrically.
func (c ByteCount) AddForDecoding(o ByteCount) ByteCount {
	switch {
	case c.IsFinite() && o.IsFinite():
		return Finite(c.n + o.n)
	case c.IsInfinite() || o.IsInfinite():
		return Infinite
	case c.IsFinite() && c.n > 0:
		return c
	case o.IsFinite() && o.n > 0:
		return o
	}
	return Unknown
}

// AddForEncoding combines two sequential encoding sizes. Unknown dominates finite.
func (c ByteCount) AddForEncoding(o ByteCount) ByteCount {
	switch {
	case c.IsFinite() && o.IsFinite():
		return Finite(c.n + o.n)
	case c.IsInfinite() || o.IsInfinite():
		return Infinite
	}
	return Unknown
}

// min returns the smaller of c and a finite bound. Unknown stays unknown.
func (c ByteCount) min(bound uint64) ByteCount {
	switch {
	case c.IsUnknown():
		return c
	case c.IsFinite() && c.n < bound:
		return c
	}
	return Finite(bound)
}

func (c ByteCount) String() string {
	switch c.kind {
	case finiteBytes:
		return strconv.FormatUint(c.n, 10)
	case infiniteBytes:
		return "infinite"
	}
	return "unknown"
}
