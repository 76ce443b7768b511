package wire

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies why a decode failed.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindMalformedVarint
	KindBufferUnderrun
	KindIntegerOverflow
	KindUnsupportedWireType
)

// Decoding errors, one per ErrorKind. Every *DecodeError unwraps to one of
// these, so callers can test with errors.Is.
var (
	ErrMalformedVarint     = errors.New("malformed varint")
	ErrBufferUnderrun      = errors.New("buffer underrun")
	ErrIntegerOverflow     = errors.New("integer overflow")
	ErrUnsupportedWireType = errors.New("unsupported wire type")
)

func (k ErrorKind) String() string {
	switch k {
	case KindMalformedVarint:
		return "MalformedVarint"
	case KindBufferUnderrun:
		return "BufferUnderrun"
	case KindIntegerOverflow:
		return "IntegerOverflow"
	case KindUnsupportedWireType:
		return "UnsupportedWireType"
	default:
		return "Unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindMalformedVarint:
		return ErrMalformedVarint
	case KindBufferUnderrun:
		return ErrBufferUnderrun
	case KindIntegerOverflow:
		return ErrIntegerOverflow
	case KindUnsupportedWireType:
		return ErrUnsupportedWireType
	default:
		return nil
	}
}

// DecodeError reports which decoder failed, where, and why.
type DecodeError struct {
	Kind ErrorKind
	Op   string // decoder name, e.g. "decode_uint32"
	Pos  int    // position the decoder was called with
	Msg  string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.sentinel().Error()
	}
	return fmt.Sprintf("wire: %s at position %d: %s", e.Op, e.Pos, msg)
}

// Unwrap returns the sentinel for the error kind.
func (e *DecodeError) Unwrap() error {
	return e.Kind.sentinel()
}

// KindOf returns the ErrorKind carried by err, or KindUnknown.
func KindOf(err error) ErrorKind {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind
	}
	for _, k := range []ErrorKind{KindMalformedVarint, KindBufferUnderrun, KindIntegerOverflow, KindUnsupportedWireType} {
		if errors.Is(err, k.sentinel()) {
			return k
		}
	}
	return KindUnknown
}

func underrun(op string, pos int, need uint64, buf []byte) error {
	have := 0
	if pos >= 0 && pos < len(buf) {
		have = len(buf) - pos
	}
	return &DecodeError{
		Kind: KindBufferUnderrun,
		Op:   op,
		Pos:  pos,
		Msg:  fmt.Sprintf("need %d bytes, have %d", need, have),
	}
}

// UnsupportedWireTypeError builds the error schema-aware callers return when
// a key carries a wire type the codec has no decoder for.
func UnsupportedWireTypeError(op string, pos int, wt WireType) error {
	return &DecodeError{
		Kind: KindUnsupportedWireType,
		Op:   op,
		Pos:  pos,
		Msg:  fmt.Sprintf("wire type %d (%s) is not supported", uint8(wt), wt),
	}
}

// FieldError represents a decoding error with a field path.
type FieldError struct {
	FieldPath []string // e.g., ["3", "1", "name"]
	Err       error    // underlying error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if len(e.FieldPath) == 0 {
		return e.Err.Error()
	}

	return fmt.Sprintf("error at proto path %s: %v", strings.Join(e.FieldPath, "."), e.Err)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *FieldError of any path, so
// errors.Is(err, &FieldError{}) tells whether err carries a field path.
// Use errors.As to inspect the path itself.
func (e *FieldError) Is(target error) bool {
	_, ok := target.(*FieldError)
	return ok
}

// WrapField prefixes the field path of err with fieldName. Wrapping is done
// innermost first, so the outermost field ends up at the front of the path.
func WrapField(err error, fieldName string) error {
	if err == nil {
		return nil
	}

	if fe, ok := err.(*FieldError); ok {
		return &FieldError{
			FieldPath: append([]string{fieldName}, fe.FieldPath...),
			Err:       fe.Err,
		}
	}

	return &FieldError{
		FieldPath: []string{fieldName},
		Err:       err,
	}
}
