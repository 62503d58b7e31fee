package codec

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"testing"
	"testing/iotest"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mocks and Helpers ---

// blockingReader alternates between a would-block signal and one chunk of data.
type blockingReader struct {
	chunks  [][]byte
	blocked bool
}

func (r *blockingReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	if r.blocked = !r.blocked; r.blocked {
		return 0, ErrWouldBlock
	}
	n := copy(p, r.chunks[0])
	if r.chunks[0] = r.chunks[0][n:]; len(r.chunks[0]) == 0 {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

// blockingWriter accepts every other write.
type blockingWriter struct {
	bytes.Buffer
	blocked bool
}

func (w *blockingWriter) Write(p []byte) (int, error) {
	if w.blocked = !w.blocked; w.blocked {
		return 0, ErrWouldBlock
	}
	return w.Buffer.Write(p)
}

// fixedWriter fails with io.ErrShortWrite once its backing slice is full.
type fixedWriter struct {
	b []byte
	n int
}

func (w *fixedWriter) Write(p []byte) (int, error) {
	n := copy(w.b[w.n:], p)
	w.n += n
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

// --- Decoder Test Suite ---

type StreamDecoderTestSuite struct {
	suite.Suite
}

func (s *StreamDecoderTestSuite) TestConstructors() {
	s.T().Run("FailsOnNilReader", func(t *testing.T) {
		_, err := NewStreamDecoder[uint8](nil, NewU8Decoder())
		assert.ErrorIs(t, err, ErrNilIO)
	})
	s.T().Run("FailsOnTinyWindow", func(t *testing.T) {
		_, err := NewStreamDecoderSize[uint8](bytes.NewReader(nil), NewU8Decoder(), 8)
		assert.ErrorIs(t, err, ErrSizeTooSmall)
	})
	s.T().Run("DefaultWindow", func(t *testing.T) {
		d, err := NewStreamDecoder[uint8](bytes.NewReader(nil), NewU8Decoder())
		require.NoError(t, err)
		assert.Equal(t, BUFFER_SIZE, d.Size())
		require.NoError(t, d.Close())
	})
}

func (s *StreamDecoderTestSuite) TestSuccessfulDecodes() {
	d, err := NewStreamDecoder[uint16](bytes.NewReader([]byte{0, 1, 0, 2, 0, 3}), NewU16Decoder(BE))
	s.Require().NoError(err)

	s.Assert().Equal([]uint16{1, 2, 3}, slices.Collect(d.All()))
	s.Require().NoError(d.Err())
	s.Assert().EqualValues(6, d.Count())
	s.Assert().True(d.IsEOF())

	// The end of the stream is reported again.
	_, err = d.Decode()
	s.Assert().ErrorIs(err, io.EOF)
}

func (s *StreamDecoderTestSuite) TestSmallReads() {
	data := []byte{0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0, 3}
	for name, src := range map[string]io.Reader{
		"OneByte":  iotest.OneByteReader(bytes.NewReader(data)),
		"DataErr":  iotest.DataErrReader(bytes.NewReader(data)),
		"HalfRead": iotest.HalfReader(bytes.NewReader(data)),
	} {
		s.T().Run(name, func(t *testing.T) {
			d, err := NewStreamDecoderSize[uint32](src, NewU32Decoder(BE), 16)
			require.NoError(t, err)
			assert.Equal(t, []uint32{1, 2, 3}, slices.Collect(d.All()))
			assert.NoError(t, d.Err())
		})
	}
}

func (s *StreamDecoderTestSuite) TestEmptyRestOfStream() {
	d, err := NewStreamDecoder[string](bytes.NewReader(nil), NewUtf8Decoder())
	s.Require().NoError(err)

	v, err := d.Decode()
	s.Require().NoError(err)
	s.Assert().Equal("", v, "a decoder of the whole rest gets to see the end once")

	_, err = d.Decode()
	s.Assert().ErrorIs(err, io.EOF)
}

func (s *StreamDecoderTestSuite) TestWouldBlock() {
	src := &blockingReader{chunks: [][]byte{{0}, {1, 0}, {2}}}
	d, err := NewStreamDecoderSize[uint16](src, NewU16Decoder(BE), 16)
	s.Require().NoError(err)

	var items []uint16
	blocks := 0
	for {
		v, err := d.Decode()
		if errors.Is(err, ErrWouldBlock) {
			blocks++
			s.Require().NoError(d.Err(), "would-block is not sticky")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		s.Require().NoError(err)
		items = append(items, v)
	}
	s.Assert().Equal([]uint16{1, 2}, items)
	s.Assert().Positive(blocks)
}

func (s *StreamDecoderTestSuite) TestErrorHandling() {
	s.T().Run("TruncatedStream", func(t *testing.T) {
		d, err := NewStreamDecoderSize[uint16](bytes.NewReader([]byte{0, 1, 0}), NewU16Decoder(BE), 16)
		require.NoError(t, err)

		v, err := d.Decode()
		require.NoError(t, err)
		assert.Equal(t, uint16(1), v)

		_, err = d.Decode()
		assert.ErrorIs(t, err, ErrUnexpectedEos)
		_, again := d.Decode()
		assert.Equal(t, err, again, "the first error is latched")
	})

	s.T().Run("SourceFailure", func(t *testing.T) {
		cause := errors.New("connection reset")
		d, err := NewStreamDecoderSize[uint16](iotest.ErrReader(cause), NewU16Decoder(BE), 16)
		require.NoError(t, err)

		_, err = d.Decode()
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, ErrOther, KindOf(err))
	})

	s.T().Run("InvalidInput", func(t *testing.T) {
		d, err := NewStreamDecoderSize[string](bytes.NewReader([]byte{0xff, 0xfe}), NewUtf8Decoder(), 16)
		require.NoError(t, err)

		_, err = d.Decode()
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Empty(t, slices.Collect(d.All()))
	})

	s.T().Run("DecodeAfterClose", func(t *testing.T) {
		d, err := NewStreamDecoderSize[uint8](bytes.NewReader([]byte{1}), NewU8Decoder(), 16)
		require.NoError(t, err)
		require.NoError(t, d.Close())
		_, err = d.Decode()
		assert.ErrorIs(t, err, io.ErrClosedPipe)
	})
}

func (s *StreamDecoderTestSuite) TestCompressedSource() {
	var compressed bytes.Buffer
	w := brotli.NewWriter(&compressed)
	e, err := NewStreamEncoder[Pair[uint32, string]](w, ChainEncoder(NewU32Encoder(BE), LengthEncoder(NewUtf8Encoder(), 4)))
	s.Require().NoError(err)
	for i, word := range []string{"zero", "one!", "two!"} {
		s.Require().NoError(e.Encode(Pair[uint32, string]{First: uint32(i), Second: word}))
	}
	s.Require().NoError(e.Close(), "closing the encoder closes the compressor")

	d, err := NewStreamDecoder[Pair[uint32, string]](brotli.NewReader(&compressed), Chain(NewU32Decoder(BE), NewUtf8DecoderWith(NewBytesDecoder(4))))
	s.Require().NoError(err)
	items := slices.Collect(d.All())
	s.Require().NoError(d.Err())
	s.Require().Len(items, 3)
	s.Assert().Equal(Pair[uint32, string]{First: 2, Second: "two!"}, items[2])
	s.Assert().EqualValues(24, d.Count())
}

func TestStreamDecoder(t *testing.T) {
	suite.Run(t, new(StreamDecoderTestSuite))
}

// --- Encoder Test Suite ---

type StreamEncoderTestSuite struct {
	suite.Suite
	buf *bytes.Buffer
	enc *StreamEncoder[uint16]
}

// SetupTest runs before each test in the suite, ensuring a clean state.
func (s *StreamEncoderTestSuite) SetupTest() {
	s.buf = &bytes.Buffer{}
	s.enc, _ = NewStreamEncoder[uint16](s.buf, NewU16Encoder(LE))
}

func (s *StreamEncoderTestSuite) TestConstructors() {
	s.T().Run("FailsOnNilWriter", func(t *testing.T) {
		_, err := NewStreamEncoder[uint8](nil, NewU8Encoder())
		assert.ErrorIs(t, err, ErrNilIO)
	})
	s.T().Run("FailsOnTinyWindow", func(t *testing.T) {
		_, err := NewStreamEncoderSize[uint8](io.Discard, NewU8Encoder(), 15)
		assert.ErrorIs(t, err, ErrSizeTooSmall)
	})
}

func (s *StreamEncoderTestSuite) TestBasicWrites() {
	for _, v := range []uint16{0xAABB, 1, 2} {
		s.Require().NoError(s.enc.Encode(v))
	}
	n, err := s.enc.Result()
	s.Require().NoError(err)
	s.Assert().EqualValues(6, n)
	s.Assert().Equal([]byte{0xBB, 0xAA, 1, 0, 2, 0}, s.buf.Bytes())
}

func (s *StreamEncoderTestSuite) TestInvalidItemIsLatched() {
	e, err := NewStreamEncoder[uint32](s.buf, NewU24Encoder(BE))
	s.Require().NoError(err)

	err = e.Encode(1 << 24)
	s.Require().ErrorIs(err, ErrInvalidInput)
	s.Assert().Equal(err, e.Encode(1))
	s.Assert().Zero(s.buf.Len())
}

func (s *StreamEncoderTestSuite) TestWouldBlock() {
	w := &blockingWriter{}
	e, err := NewStreamEncoderSize[[]byte](w, NewBytesEncoder(), 16)
	s.Require().NoError(err)

	payload := bytes.Repeat([]byte{7}, 100)
	s.Require().ErrorIs(e.Encode(payload), ErrWouldBlock)
	s.Assert().ErrorIs(e.Encode([]byte{1}), ErrEncoderFull, "the first item is still in flight")
	s.Require().NoError(e.Err())

	for err = e.Flush(); errors.Is(err, ErrWouldBlock); err = e.Flush() {
	}
	s.Require().NoError(err)
	s.Assert().Equal(payload, w.Bytes())
	s.Assert().EqualValues(100, e.Count())
}

func (s *StreamEncoderTestSuite) TestErrorHandling() {
	s.T().Run("ShortWrite", func(t *testing.T) {
		fixed := &fixedWriter{b: make([]byte, 5)}
		e, err := NewStreamEncoderSize[uint32](fixed, NewU32Encoder(LE), 16)
		require.NoError(t, err)

		err = e.Encode(0x11223344)
		require.NoError(t, err)
		err = e.Encode(0xAABBCCDD)
		require.Error(t, err)
		assert.ErrorIs(t, err, io.ErrShortWrite)
		assert.Equal(t, ErrUnexpectedEos, KindOf(err))
		assert.Equal(t, []byte{0x44, 0x33, 0x22, 0x11, 0xDD}, fixed.b)

		// Writes after an error are no-ops.
		assert.Equal(t, err, e.Encode(1))
		assert.Equal(t, err, e.Err())
	})

	s.T().Run("SinkFailure", func(t *testing.T) {
		cause := errors.New("disk full")
		e, err := NewStreamEncoderSize[uint8](failingWriter{cause}, NewU8Encoder(), 16)
		require.NoError(t, err)

		err = e.Encode(1)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, ErrOther, KindOf(err))
	})
}

func (s *StreamEncoderTestSuite) TestClose() {
	s.Require().NoError(s.enc.Encode(0x0102))
	s.Require().NoError(s.enc.Close())
	s.Assert().Equal([]byte{2, 1}, s.buf.Bytes())
	s.Assert().ErrorIs(s.enc.Encode(1), io.ErrClosedPipe)
}

func TestStreamEncoder(t *testing.T) {
	suite.Run(t, new(StreamEncoderTestSuite))
}

// --- Window Tests ---

func TestReadBuf(t *testing.T) {
	r := NewReadBuf(make([]byte, 4))
	src := bytes.NewReader([]byte{1, 2, 3, 4, 5})

	require.NoError(t, r.Fill(src))
	assert.Equal(t, []byte{1, 2, 3, 4}, r.Bytes())
	assert.Zero(t, r.Available())

	r.Consume(3)
	require.NoError(t, r.Fill(src))
	assert.Equal(t, []byte{4, 5}, r.Bytes(), "unread bytes move to the front")
	assert.False(t, r.IsEos())

	require.NoError(t, r.Fill(src))
	assert.True(t, r.IsEos())

	v, ok, err := DecodeFrom[uint16](NewU16Decoder(BE), r)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint16(0x0405), v)
	assert.Zero(t, r.Len())

	r.Reset()
	assert.False(t, r.IsEos())
}

func TestWriteBuf(t *testing.T) {
	w := NewWriteBuf(make([]byte, 4))
	require.NoError(t, EncodeTo[[]byte](NewBytesEncoder(), w))
	assert.Zero(t, w.Len())

	e := NewBytesEncoder()
	require.NoError(t, e.StartEncoding([]byte{1, 2, 3, 4, 5, 6}))
	require.NoError(t, EncodeTo[[]byte](e, w))
	assert.Equal(t, []byte{1, 2, 3, 4}, w.Bytes())

	var out bytes.Buffer
	n, err := w.Flush(&out)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	require.NoError(t, EncodeTo[[]byte](e, w))
	assert.True(t, e.IsIdle())
	assert.Equal(t, []byte{5, 6}, w.Bytes())

	_, err = w.Flush(&blockingWriter{})
	require.NoError(t, err)
	assert.True(t, w.WouldBlock())
	assert.Equal(t, 2, w.Len())
}
