package codec

// NullDecoder produces an empty item without consuming any byte.
type NullDecoder struct{}

var _ Decoder[struct{}] = NullDecoder{}

func (NullDecoder) Decode([]byte, Eos) (int, struct{}, bool, error) {
	return 0, struct{}{}, true, nil
}
func (NullDecoder) RequiringBytes() ByteCount { return Finite(0) }
func (NullDecoder) IsIdle() bool              { return true }

// NullEncoder accepts empty items and writes nothing.
type NullEncoder struct{}

var (
	_ Encoder[struct{}] = NullEncoder{}
	_ Sizer             = NullEncoder{}
)

func (NullEncoder) StartEncoding(struct{}) error        { return nil }
func (NullEncoder) Encode([]byte, Eos) (int, error)     { return 0, nil }
func (NullEncoder) RequiringBytes() ByteCount           { return Finite(0) }
func (NullEncoder) ExactRequiringBytes() (uint64, bool) { return 0, true }
func (NullEncoder) IsIdle() bool                        { return true }
