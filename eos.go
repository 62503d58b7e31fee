package codec

// Eos describes where the end of the stream is relative to the end of the
// buffer handed to a Decode or Encode call.
// The zero value means the position of the end is unknown.
type Eos struct {
	remaining ByteCount
}

// NewEos makes an Eos from an "is this the last chunk" flag.
func NewEos(reached bool) Eos {
	if reached {
		return Eos{remaining: Finite(0)}
	}
	return Eos{}
}

// EosWithRemaining makes an Eos that lies n bytes past the current buffer.
func EosWithRemaining(n uint64) Eos { return Eos{remaining: Finite(n)} }

// EosInfinite describes a stream that never ends.
func EosInfinite() Eos { return Eos{remaining: Infinite} }

// IsReached reports whether no byte follows the current buffer.
func (e Eos) IsReached() bool { return e.remaining.IsZero() }

// IsUnknown reports whether the position of the end is unknown.
func (e Eos) IsUnknown() bool { return e.remaining.IsUnknown() }

// RemainingBytes returns the number of bytes after the current buffer.
func (e Eos) RemainingBytes() ByteCount { return e.remaining }

// Back moves the end n bytes further away. It is used when a decoder only
// shows a prefix of its buffer to a child.
func (e Eos) Back(n uint64) Eos {
	if r, ok := e.remaining.Uint64(); ok {
		return Eos{remaining: Finite(r + n)}
	}
	return e
}

func (e Eos) String() string { return "eos(" + e.remaining.String() + ")" }
