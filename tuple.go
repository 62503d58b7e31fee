package codec

// Tuple members are decoded and encoded strictly in positional order.
// Every member of a tuple decoder holds its item until the whole tuple completes.

type fieldDecoder interface {
	fill(buf []byte, eos Eos) (int, error)
	held() bool
	release()
	requiringBytes() ByteCount
	isIdle() bool
}

type decoderField[T any] struct {
	Buffered[T]
	dst *T
}

func newDecoderField[T any](d Decoder[T], dst *T) *decoderField[T] {
	return &decoderField[T]{Buffered: Buffered[T]{inner: d}, dst: dst}
}

func (f *decoderField[T]) fill(buf []byte, eos Eos) (int, error) { return f.Fill(buf, eos) }
func (f *decoderField[T]) held() bool                            { return f.HasItem() }
func (f *decoderField[T]) release()                              { *f.dst, _ = f.TakeItem() }
func (f *decoderField[T]) requiringBytes() ByteCount             { return f.RequiringBytes() }
func (f *decoderField[T]) isIdle() bool                          { return f.IsIdle() }

type tupleDecoder struct {
	fields []fieldDecoder
}

func (d *tupleDecoder) decode(buf []byte, eos Eos) (int, bool, error) {
	offset := 0
	for _, f := range d.fields {
		if f.held() {
			continue
		}
		n, err := f.fill(buf[offset:], eos)
		offset += n
		if err != nil || !f.held() {
			return offset, false, err
		}
	}
	for _, f := range d.fields {
		f.release()
	}
	return offset, true, nil
}

func (d *tupleDecoder) RequiringBytes() ByteCount {
	sum := Finite(0)
	for _, f := range d.fields {
		if !f.held() {
			sum = sum.AddForDecoding(f.requiringBytes())
		}
	}
	return sum
}

func (d *tupleDecoder) IsIdle() bool {
	for _, f := range d.fields {
		if !f.isIdle() {
			return false
		}
	}
	return true
}

type fieldEncoder interface {
	start() error
	encode(buf []byte, eos Eos) (int, error)
	requiringBytes() ByteCount
	exactBytes() (uint64, bool)
	isIdle() bool
	abandon()
}

type encoderField[T any] struct {
	e   Encoder[T]
	src *T
}

func (f *encoderField[T]) start() error { return f.e.StartEncoding(*f.src) }
func (f *encoderField[T]) encode(buf []byte, eos Eos) (int, error) {
	return f.e.Encode(buf, eos)
}
func (f *encoderField[T]) requiringBytes() ByteCount  { return f.e.RequiringBytes() }
func (f *encoderField[T]) exactBytes() (uint64, bool) { return exactBytes(f.e) }
func (f *encoderField[T]) isIdle() bool               { return f.e.IsIdle() }
func (f *encoderField[T]) abandon()                   { abandon(f.e) }

type tupleEncoder struct {
	fields []fieldEncoder
}

func (e *tupleEncoder) start() error {
	if !e.IsIdle() {
		return ErrEncoderFull
	}
	for i, f := range e.fields {
		if err := f.start(); err != nil {
			for _, started := range e.fields[:i] {
				started.abandon()
			}
			return err
		}
	}
	return nil
}

func (e *tupleEncoder) Encode(buf []byte, eos Eos) (int, error) {
	offset := 0
	for _, f := range e.fields {
		if f.isIdle() {
			continue
		}
		n, err := f.encode(buf[offset:], eos)
		offset += n
		if err != nil || !f.isIdle() {
			return offset, err
		}
	}
	return offset, nil
}

func (e *tupleEncoder) RequiringBytes() ByteCount {
	sum := Finite(0)
	for _, f := range e.fields {
		sum = sum.AddForEncoding(f.requiringBytes())
	}
	return sum
}

// ExactRequiringBytes is known only when every member knows its own size.
func (e *tupleEncoder) ExactRequiringBytes() (uint64, bool) {
	var sum uint64
	for _, f := range e.fields {
		n, ok := f.exactBytes()
		if !ok {
			return 0, false
		}
		sum += n
	}
	return sum, true
}

func (e *tupleEncoder) IsIdle() bool {
	for _, f := range e.fields {
		if !f.isIdle() {
			return false
		}
	}
	return true
}

// Tuple2 is a positional group of 2 items.
type Tuple2[A, B any] struct {
	V0 A
	V1 B
}

type Tuple2Decoder[A, B any] struct {
	tupleDecoder
	item Tuple2[A, B]
}

// NewTuple2Decoder decodes the members of a Tuple2 with one decoder each, in order.
func NewTuple2Decoder[A, B any](d0 Decoder[A], d1 Decoder[B]) *Tuple2Decoder[A, B] {
	d := &Tuple2Decoder[A, B]{}
	d.fields = []fieldDecoder{
		newDecoderField(d0, &d.item.V0),
		newDecoderField(d1, &d.item.V1),
	}
	return d
}

func (d *Tuple2Decoder[A, B]) Decode(buf []byte, eos Eos) (int, Tuple2[A, B], bool, error) {
	n, ok, err := d.decode(buf, eos)
	if !ok || err != nil {
		return n, Tuple2[A, B]{}, false, err
	}
	item := d.item
	d.item = Tuple2[A, B]{}
	return n, item, true, nil
}

type Tuple2Encoder[A, B any] struct {
	tupleEncoder
	item Tuple2[A, B]
}

// NewTuple2Encoder encodes the members of a Tuple2 one after the other.
func NewTuple2Encoder[A, B any](e0 Encoder[A], e1 Encoder[B]) *Tuple2Encoder[A, B] {
	e := &Tuple2Encoder[A, B]{}
	e.fields = []fieldEncoder{
		&encoderField[A]{e0, &e.item.V0},
		&encoderField[B]{e1, &e.item.V1},
	}
	return e
}

func (e *Tuple2Encoder[A, B]) StartEncoding(item Tuple2[A, B]) error {
	if !e.IsIdle() {
		return ErrEncoderFull
	}
	e.item = item
	return e.start()
}

// Tuple3 is a positional group of 3 items.
type Tuple3[A, B, C any] struct {
	V0 A
	V1 B
	V2 C
}

type Tuple3Decoder[A, B, C any] struct {
	tupleDecoder
	item Tuple3[A, B, C]
}

// NewTuple3Decoder decodes the members of a Tuple3 with one decoder each, in order.
func NewTuple3Decoder[A, B, C any](d0 Decoder[A], d1 Decoder[B], d2 Decoder[C]) *Tuple3Decoder[A, B, C] {
	d := &Tuple3Decoder[A, B, C]{}
	d.fields = []fieldDecoder{
		newDecoderField(d0, &d.item.V0),
		newDecoderField(d1, &d.item.V1),
		newDecoderField(d2, &d.item.V2),
	}
	return d
}

func (d *Tuple3Decoder[A, B, C]) Decode(buf []byte, eos Eos) (int, Tuple3[A, B, C], bool, error) {
	n, ok, err := d.decode(buf, eos)
	if !ok || err != nil {
		return n, Tuple3[A, B, C]{}, false, err
	}
	item := d.item
	d.item = Tuple3[A, B, C]{}
	return n, item, true, nil
}

type Tuple3Encoder[A, B, C any] struct {
	tupleEncoder
	item Tuple3[A, B, C]
}

// NewTuple3Encoder encodes the members of a Tuple3 one after the other.
func NewTuple3Encoder[A, B, C any](e0 Encoder[A], e1 Encoder[B], e2 Encoder[C]) *Tuple3Encoder[A, B, C] {
	e := &Tuple3Encoder[A, B, C]{}
	e.fields = []fieldEncoder{
		&encoderField[A]{e0, &e.item.V0},
		&encoderField[B]{e1, &e.item.V1},
		&encoderField[C]{e2, &e.item.V2},
	}
	return e
}

func (e *Tuple3Encoder[A, B, C]) StartEncoding(item Tuple3[A, B, C]) error {
	if !e.IsIdle() {
		return ErrEncoderFull
	}
	e.item = item
	return e.start()
}

// Tuple4 is a positional group of 4 items.
type Tuple4[A, B, C, D any] struct {
	V0 A
	V1 B
	V2 C
	V3 D
}

type Tuple4Decoder[A, B, C, D any] struct {
	tupleDecoder
	item Tuple4[A, B, C, D]
}

// NewTuple4Decoder decodes the members of a Tuple4 with one decoder each, in order.
func NewTuple4Decoder[A, B, C, D any](d0 Decoder[A], d1 Decoder[B], d2 Decoder[C], d3 Decoder[D]) *Tuple4Decoder[A, B, C, D] {
	d := &Tuple4Decoder[A, B, C, D]{}
	d.fields = []fieldDecoder{
		newDecoderField(d0, &d.item.V0),
		newDecoderField(d1, &d.item.V1),
		newDecoderField(d2, &d.item.V2),
		newDecoderField(d3, &d.item.V3),
	}
	return d
}

func (d *Tuple4Decoder[A, B, C, D]) Decode(buf []byte, eos Eos) (int, Tuple4[A, B, C, D], bool, error) {
	n, ok, err := d.decode(buf, eos)
	if !ok || err != nil {
		return n, Tuple4[A, B, C, D]{}, false, err
	}
	item := d.item
	d.item = Tuple4[A, B, C, D]{}
	return n, item, true, nil
}

type Tuple4Encoder[A, B, C, D any] struct {
	tupleEncoder
	item Tuple4[A, B, C, D]
}

// NewTuple4Encoder encodes the members of a Tuple4 one after the other.
func NewTuple4Encoder[A, B, C, D any](e0 Encoder[A], e1 Encoder[B], e2 Encoder[C], e3 Encoder[D]) *Tuple4Encoder[A, B, C, D] {
	e := &Tuple4Encoder[A, B, C, D]{}
	e.fields = []fieldEncoder{
		&encoderField[A]{e0, &e.item.V0},
		&encoderField[B]{e1, &e.item.V1},
		&encoderField[C]{e2, &e.item.V2},
		&encoderField[D]{e3, &e.item.V3},
	}
	return e
}

func (e *Tuple4Encoder[A, B, C, D]) StartEncoding(item Tuple4[A, B, C, D]) error {
	if !e.IsIdle() {
		return ErrEncoderFull
	}
	e.item = item
	return e.start()
}

// Tuple5 is a positional group of 5 items.
type Tuple5[A, B, C, D, E any] struct {
	V0 A
	V1 B
	V2 C
	V3 D
	V4 E
}

type Tuple5Decoder[A, B, C, D, E any] struct {
	tupleDecoder
	item Tuple5[A, B, C, D, E]
}

// NewTuple5Decoder decodes the members of a Tuple5 with one decoder each, in order.
func NewTuple5Decoder[A, B, C, D, E any](d0 Decoder[A], d1 Decoder[B], d2 Decoder[C], d3 Decoder[D], d4 Decoder[E]) *Tuple5Decoder[A, B, C, D, E] {
	d := &Tuple5Decoder[A, B, C, D, E]{}
	d.fields = []fieldDecoder{
		newDecoderField(d0, &d.item.V0),
		newDecoderField(d1, &d.item.V1),
		newDecoderField(d2, &d.item.V2),
		newDecoderField(d3, &d.item.V3),
		newDecoderField(d4, &d.item.V4),
	}
	return d
}

func (d *Tuple5Decoder[A, B, C, D, E]) Decode(buf []byte, eos Eos) (int, Tuple5[A, B, C, D, E], bool, error) {
	n, ok, err := d.decode(buf, eos)
	if !ok || err != nil {
		return n, Tuple5[A, B, C, D, E]{}, false, err
	}
	item := d.item
	d.item = Tuple5[A, B, C, D, E]{}
	return n, item, true, nil
}

type Tuple5Encoder[A, B, C, D, E any] struct {
	tupleEncoder
	item Tuple5[A, B, C, D, E]
}

// NewTuple5Encoder encodes the members of a Tuple5 one after the other.
func NewTuple5Encoder[A, B, C, D, E any](e0 Encoder[A], e1 Encoder[B], e2 Encoder[C], e3 Encoder[D], e4 Encoder[E]) *Tuple5Encoder[A, B, C, D, E] {
	e := &Tuple5Encoder[A, B, C, D, E]{}
	e.fields = []fieldEncoder{
		&encoderField[A]{e0, &e.item.V0},
		&encoderField[B]{e1, &e.item.V1},
		&encoderField[C]{e2, &e.item.V2},
		&encoderField[D]{e3, &e.item.V3},
		&encoderField[E]{e4, &e.item.V4},
	}
	return e
}

func (e *Tuple5Encoder[A, B, C, D, E]) StartEncoding(item Tuple5[A, B, C, D, E]) error {
	if !e.IsIdle() {
		return ErrEncoderFull
	}
	e.item = item
	return e.start()
}

// Tuple6 is a positional group of 6 items.
type Tuple6[A, B, C, D, E, F any] struct {
	V0 A
	V1 B
	V2 C
	V3 D
	V4 E
	V5 F
}

type Tuple6Decoder[A, B, C, D, E, F any] struct {
	tupleDecoder
	item Tuple6[A, B, C, D, E, F]
}

// NewTuple6Decoder decodes the members of a Tuple6 with one decoder each, in order.
func NewTuple6Decoder[A, B, C, D, E, F any](d0 Decoder[A], d1 Decoder[B], d2 Decoder[C], d3 Decoder[D], d4 Decoder[E], d5 Decoder[F]) *Tuple6Decoder[A, B, C, D, E, F] {
	d := &Tuple6Decoder[A, B, C, D, E, F]{}
	d.fields = []fieldDecoder{
		newDecoderField(d0, &d.item.V0),
		newDecoderField(d1, &d.item.V1),
		newDecoderField(d2, &d.item.V2),
		newDecoderField(d3, &d.item.V3),
		newDecoderField(d4, &d.item.V4),
		newDecoderField(d5, &d.item.V5),
	}
	return d
}

func (d *Tuple6Decoder[A, B, C, D, E, F]) Decode(buf []byte, eos Eos) (int, Tuple6[A, B, C, D, E, F], bool, error) {
	n, ok, err := d.decode(buf, eos)
	if !ok || err != nil {
		return n, Tuple6[A, B, C, D, E, F]{}, false, err
	}
	item := d.item
	d.item = Tuple6[A, B, C, D, E, F]{}
	return n, item, true, nil
}

type Tuple6Encoder[A, B, C, D, E, F any] struct {
	tupleEncoder
	item Tuple6[A, B, C, D, E, F]
}

// NewTuple6Encoder encodes the members of a Tuple6 one after the other.
func NewTuple6Encoder[A, B, C, D, E, F any](e0 Encoder[A], e1 Encoder[B], e2 Encoder[C], e3 Encoder[D], e4 Encoder[E], e5 Encoder[F]) *Tuple6Encoder[A, B, C, D, E, F] {
	e := &Tuple6Encoder[A, B, C, D, E, F]{}
	e.fields = []fieldEncoder{
		&encoderField[A]{e0, &e.item.V0},
		&encoderField[B]{e1, &e.item.V1},
		&encoderField[C]{e2, &e.item.V2},
		&encoderField[D]{e3, &e.item.V3},
		&encoderField[E]{e4, &e.item.V4},
		&encoderField[F]{e5, &e.item.V5},
	}
	return e
}

func (e *Tuple6Encoder[A, B, C, D, E, F]) StartEncoding(item Tuple6[A, B, C, D, E, F]) error {
	if !e.IsIdle() {
		return ErrEncoderFull
	}
	e.item = item
	return e.start()
}

// Tuple7 is a positional group of 7 items.
type Tuple7[A, B, C, D, E, F, G any] struct {
	V0 A
	V1 B
	V2 C
	V3 D
	V4 E
	V5 F
	V6 G
}

type Tuple7Decoder[A, B, C, D, E, F, G any] struct {
	tupleDecoder
	item Tuple7[A, B, C, D, E, F, G]
}

// NewTuple7Decoder decodes the members of a Tuple7 with one decoder each, in order.
func NewTuple7Decoder[A, B, C, D, E, F, G any](d0 Decoder[A], d1 Decoder[B], d2 Decoder[C], d3 Decoder[D], d4 Decoder[E], d5 Decoder[F], d6 Decoder[G]) *Tuple7Decoder[A, B, C, D, E, F, G] {
	d := &Tuple7Decoder[A, B, C, D, E, F, G]{}
	d.fields = []fieldDecoder{
		newDecoderField(d0, &d.item.V0),
		newDecoderField(d1, &d.item.V1),
		newDecoderField(d2, &d.item.V2),
		newDecoderField(d3, &d.item.V3),
		newDecoderField(d4, &d.item.V4),
		newDecoderField(d5, &d.item.V5),
		newDecoderField(d6, &d.item.V6),
	}
	return d
}

func (d *Tuple7Decoder[A, B, C, D, E, F, G]) Decode(buf []byte, eos Eos) (int, Tuple7[A, B, C, D, E, F, G], bool, error) {
	n, ok, err := d.decode(buf, eos)
	if !ok || err != nil {
		return n, Tuple7[A, B, C, D, E, F, G]{}, false, err
	}
	item := d.item
	d.item = Tuple7[A, B, C, D, E, F, G]{}
	return n, item, true, nil
}

type Tuple7Encoder[A, B, C, D, E, F, G any] struct {
	tupleEncoder
	item Tuple7[A, B, C, D, E, F, G]
}

// NewTuple7Encoder encodes the members of a Tuple7 one after the other.
func NewTuple7Encoder[A, B, C, D, E, F, G any](e0 Encoder[A], e1 Encoder[B], e2 Encoder[C], e3 Encoder[D], e4 Encoder[E], e5 Encoder[F], e6 Encoder[G]) *Tuple7Encoder[A, B, C, D, E, F, G] {
	e := &Tuple7Encoder[A, B, C, D, E, F, G]{}
	e.fields = []fieldEncoder{
		&encoderField[A]{e0, &e.item.V0},
		&encoderField[B]{e1, &e.item.V1},
		&encoderField[C]{e2, &e.item.V2},
		&encoderField[D]{e3, &e.item.V3},
		&encoderField[E]{e4, &e.item.V4},
		&encoderField[F]{e5, &e.item.V5},
		&encoderField[G]{e6, &e.item.V6},
	}
	return e
}

func (e *Tuple7Encoder[A, B, C, D, E, F, G]) StartEncoding(item Tuple7[A, B, C, D, E, F, G]) error {
	if !e.IsIdle() {
		return ErrEncoderFull
	}
	e.item = item
	return e.start()
}

// Tuple8 is a positional group of 8 items.
type Tuple8[A, B, C, D, E, F, G, H any] struct {
	V0 A
	V1 B
	V2 C
	V3 D
	V4 E
	V5 F
	V6 G
	V7 H
}

type Tuple8Decoder[A, B, C, D, E, F, G, H any] struct {
	tupleDecoder
	item Tuple8[A, B, C, D, E, F, G, H]
}

// NewTuple8Decoder decodes the members of a Tuple8 with one decoder each, in order.
func NewTuple8Decoder[A, B, C, D, E, F, G, H any](d0 Decoder[A], d1 Decoder[B], d2 Decoder[C], d3 Decoder[D], d4 Decoder[E], d5 Decoder[F], d6 Decoder[G], d7 Decoder[H]) *Tuple8Decoder[A, B, C, D, E, F, G, H] {
	d := &Tuple8Decoder[A, B, C, D, E, F, G, H]{}
	d.fields = []fieldDecoder{
		newDecoderField(d0, &d.item.V0),
		newDecoderField(d1, &d.item.V1),
		newDecoderField(d2, &d.item.V2),
		newDecoderField(d3, &d.item.V3),
		newDecoderField(d4, &d.item.V4),
		newDecoderField(d5, &d.item.V5),
		newDecoderField(d6, &d.item.V6),
		newDecoderField(d7, &d.item.V7),
	}
	return d
}

func (d *Tuple8Decoder[A, B, C, D, E, F, G, H]) Decode(buf []byte, eos Eos) (int, Tuple8[A, B, C, D, E, F, G, H], bool, error) {
	n, ok, err := d.decode(buf, eos)
	if !ok || err != nil {
		return n, Tuple8[A, B, C, D, E, F, G, H]{}, false, err
	}
	item := d.item
	d.item = Tuple8[A, B, C, D, E, F, G, H]{}
	return n, item, true, nil
}

type Tuple8Encoder[A, B, C, D, E, F, G, H any] struct {
	tupleEncoder
	item Tuple8[A, B, C, D, E, F, G, H]
}

// NewTuple8Encoder encodes the members of a Tuple8 one after the other.
func NewTuple8Encoder[A, B, C, D, E, F, G, H any](e0 Encoder[A], e1 Encoder[B], e2 Encoder[C], e3 Encoder[D], e4 Encoder[E], e5 Encoder[F], e6 Encoder[G], e7 Encoder[H]) *Tuple8Encoder[A, B, C, D, E, F, G, H] {
	e := &Tuple8Encoder[A, B, C, D, E, F, G, H]{}
	e.fields = []fieldEncoder{
		&encoderField[A]{e0, &e.item.V0},
		&encoderField[B]{e1, &e.item.V1},
		&encoderField[C]{e2, &e.item.V2},
		&encoderField[D]{e3, &e.item.V3},
		&encoderField[E]{e4, &e.item.V4},
		&encoderField[F]{e5, &e.item.V5},
		&encoderField[G]{e6, &e.item.V6},
		&encoderField[H]{e7, &e.item.V7},
	}
	return e
}

func (e *Tuple8Encoder[A, B, C, D, E, F, G, H]) StartEncoding(item Tuple8[A, B, C, D, E, F, G, H]) error {
	if !e.IsIdle() {
		return ErrEncoderFull
	}
	e.item = item
	return e.start()
}

var (
	_ Decoder[Tuple3[uint8, uint16, uint32]] = (*Tuple3Decoder[uint8, uint16, uint32])(nil)
	_ Encoder[Tuple3[uint8, uint16, uint32]] = (*Tuple3Encoder[uint8, uint16, uint32])(nil)
	_ Sizer                                  = (*Tuple3Encoder[uint8, uint16, uint32])(nil)
)
