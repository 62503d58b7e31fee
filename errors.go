package codec

import (
	"errors"
	"fmt"
	"io"

	pkgerrors "github.com/pkg/errors"
)

var (
	// ErrInvalidInput indicates malformed or out-of-range data, e.g. invalid UTF-8,
	// a number that does not fit its declared width or a mismatched padding byte.
	ErrInvalidInput = errors.New("codec: invalid input")

	// ErrUnexpectedEos indicates the stream ended while an item was incomplete.
	ErrUnexpectedEos = errors.New("codec: unexpected end of stream")

	// ErrEncoderFull indicates StartEncoding was called while an item is still in flight.
	ErrEncoderFull = errors.New("codec: encoder is full")

	// ErrDecoderTerminated indicates Decode was called on an exhausted one-shot decoder.
	ErrDecoderTerminated = errors.New("codec: decoder has terminated")

	// ErrIncompleteDecoding indicates an item was requested before the decoder completed it.
	ErrIncompleteDecoding = errors.New("codec: incomplete decoding")

	// ErrInconsistentState indicates an internal invariant was violated. It is a bug.
	ErrInconsistentState = errors.New("codec: inconsistent state")

	// ErrOther tags causes coming from collaborating code (formats, predicates, I/O).
	ErrOther = errors.New("codec: other error")

	// ErrNilIO indicates that a stream adapter was created with a nil io.Reader/io.Writer.
	ErrNilIO = errors.New("codec: stream adapter called with a nil io.Reader/io.Writer")

	// ErrSizeTooSmall indicates a stream adapter buffer too small to make progress.
	ErrSizeTooSmall = errors.New("codec: stream buffer size must be at least 16 bytes")

	// ErrWouldBlock is the suspension signal of non-blocking sources and sinks.
	// It is not a failure: retry the same call later.
	ErrWouldBlock = errors.New("codec: operation would block")
)

// Error carries an error kind together with the cause that produced it.
// Both are reachable through errors.Is and errors.As.
type Error struct {
	Kind  error
	Cause error
}

func (e *Error) Error() string { return e.Kind.Error() + ": " + e.Cause.Error() }

func (e *Error) Unwrap() []error { return []error{e.Kind, e.Cause} }

// Format prints the stack trace of the cause with %+v.
func (e *Error) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%v: %+v", e.Kind, e.Cause)
		return
	}
	io.WriteString(s, e.Error())
}

// wrap tags cause with kind, recording a stack trace at the wrapping site.
func wrap(kind, cause error, msg string) error {
	if cause == nil {
		return nil
	}
	var e *Error
	if errors.As(cause, &e) {
		// already classified, keep the innermost kind.
		return pkgerrors.Wrap(cause, msg)
	}
	return &Error{Kind: kind, Cause: pkgerrors.Wrap(cause, msg)}
}

// inconsistent reports a broken invariant with a stack trace attached.
func inconsistent(msg string) error {
	return &Error{Kind: ErrInconsistentState, Cause: pkgerrors.New(msg)}
}

// fromIO classifies an I/O failure: a truncated stream becomes ErrUnexpectedEos,
// everything else ErrOther.
func fromIO(err error, msg string) error {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return wrap(ErrUnexpectedEos, err, msg)
	}
	return wrap(ErrOther, err, msg)
}

var kinds = []error{
	ErrInvalidInput,
	ErrUnexpectedEos,
	ErrEncoderFull,
	ErrDecoderTerminated,
	ErrIncompleteDecoding,
	ErrInconsistentState,
	ErrOther,
}

// KindOf returns the kind sentinel of err, or ErrOther for foreign errors.
// It returns nil for a nil error.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrOther
}
