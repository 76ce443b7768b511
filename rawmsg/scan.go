// Package rawmsg reads protobuf messages without a schema: it walks the
// key/value records of a buffer using the wire codec and reports each one as
// a Field. It is the loop a schema-aware decoder runs, minus the schema.
package rawmsg

import (
	"errors"
	"strconv"

	"github.com/anirudhraja/protocodec/wire"
)

// ErrInvalidFieldNumber is returned for keys carrying field number 0.
var ErrInvalidFieldNumber = errors.New("invalid field number 0")

// Field is one key/value record. Only the value member matching WireType is
// set; Bytes aliases the scanned buffer.
type Field struct {
	Number   uint64
	WireType wire.WireType
	Offset   int // position of the key
	End      int // position just past the value

	Varint  uint64
	Fixed32 uint32
	Fixed64 uint64
	Bytes   []byte
}

// Value returns the member selected by WireType.
func (f Field) Value() any {
	switch f.WireType {
	case wire.Varint:
		return f.Varint
	case wire.Bits32:
		return f.Fixed32
	case wire.Bits64:
		return f.Fixed64
	default:
		return f.Bytes
	}
}

// Next reads the key at pos and the value that follows it. Field number 0,
// groups and the unassigned wire types 6 and 7 are rejected.
func Next(pos int, buf []byte) (int, Field, error) {
	next, number, wireType, err := wire.DecodeKey(pos, buf)
	if err != nil {
		return 0, Field{}, err
	}
	if number == 0 {
		return 0, Field{}, ErrInvalidFieldNumber
	}

	f := Field{Number: number, WireType: wireType, Offset: pos}
	switch wireType {
	case wire.Varint:
		next, f.Varint, err = wire.DecodeVarint(next, buf)
	case wire.Bits64:
		next, f.Fixed64, err = wire.DecodeBits64(next, buf)
	case wire.LengthDelimited:
		next, f.Bytes, err = wire.DecodeLengthDelimited(next, buf)
	case wire.Bits32:
		next, f.Fixed32, err = wire.DecodeBits32(next, buf)
	default:
		err = wire.UnsupportedWireTypeError("decode_key", pos, wireType)
	}
	if err != nil {
		return 0, Field{}, wire.WrapField(err, strconv.FormatUint(number, 10))
	}

	f.End = next
	return next, f, nil
}

// Scan reads every field of buf in wire order.
func Scan(buf []byte) ([]Field, error) {
	fields := make([]Field, 0)
	for pos := 0; pos < len(buf); {
		next, f, err := Next(pos, buf)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
		pos = next
	}
	return fields, nil
}

// Seek returns the first field with the given number. Fields before it must
// be well formed; nothing after it is read.
func Seek(buf []byte, number uint64) (Field, bool, error) {
	for pos := 0; pos < len(buf); {
		next, f, err := Next(pos, buf)
		if err != nil {
			return Field{}, false, err
		}
		if f.Number == number {
			return f, true, nil
		}
		pos = next
	}
	return Field{}, false, nil
}
