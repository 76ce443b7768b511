package protocodec

import (
	"fmt"

	"github.com/anirudhraja/protocodec/schema"
	"github.com/anirudhraja/protocodec/wire"
)

type scalarDecoder struct {
	wireType wire.WireType
	decode   func(pos int, buf []byte) (int, any, error)
}

func scalar[T any](wt wire.WireType, decode func(int, []byte) (int, T, error)) scalarDecoder {
	return scalarDecoder{
		wireType: wt,
		decode: func(pos int, buf []byte) (int, any, error) {
			next, v, err := decode(pos, buf)
			if err != nil {
				return 0, nil, err
			}
			return next, v, nil
		},
	}
}

// scalarDecoders maps every protobuf scalar type to its wire type and decoder.
var scalarDecoders = map[schema.PrimitiveType]scalarDecoder{
	schema.TypeInt32:    scalar(wire.Varint, wire.DecodeInt32),
	schema.TypeInt64:    scalar(wire.Varint, wire.DecodeInt64),
	schema.TypeUint32:   scalar(wire.Varint, wire.DecodeUint32),
	schema.TypeUint64:   scalar(wire.Varint, wire.DecodeUint64),
	schema.TypeSint32:   scalar(wire.Varint, wire.DecodeSint32),
	schema.TypeSint64:   scalar(wire.Varint, wire.DecodeSint64),
	schema.TypeBool:     scalar(wire.Varint, wire.DecodeBool),
	schema.TypeFixed32:  scalar(wire.Bits32, wire.DecodeFixed32),
	schema.TypeSfixed32: scalar(wire.Bits32, wire.DecodeSfixed32),
	schema.TypeFloat:    scalar(wire.Bits32, wire.DecodeFloat),
	schema.TypeFixed64:  scalar(wire.Bits64, wire.DecodeFixed64),
	schema.TypeSfixed64: scalar(wire.Bits64, wire.DecodeSfixed64),
	schema.TypeDouble:   scalar(wire.Bits64, wire.DecodeDouble),
	schema.TypeString:   scalar(wire.LengthDelimited, wire.DecodeString),
	schema.TypeBytes:    scalar(wire.LengthDelimited, wire.DecodeBytes),
}

// ExpectedWireType returns the wire type a scalar of type t is encoded with
// when it is not packed.
func ExpectedWireType(t schema.PrimitiveType) (wire.WireType, bool) {
	d, ok := scalarDecoders[t]
	return d.wireType, ok
}

// DecodeScalar decodes one value of scalar type t at pos. The concrete type
// of the result follows the wire decoder: int32 for int32/sint32/sfixed32,
// uint32 for uint32/fixed32, string for string, []byte for bytes and so on.
func DecodeScalar(pos int, buf []byte, t schema.PrimitiveType) (int, any, error) {
	d, ok := scalarDecoders[t]
	if !ok {
		return 0, nil, fmt.Errorf("unknown scalar type %q", t)
	}
	return d.decode(pos, buf)
}

// decodePacked decodes a packed repeated payload of scalar type t.
func decodePacked(packed []byte, t schema.PrimitiveType) ([]any, error) {
	d, ok := scalarDecoders[t]
	if !ok || !schema.IsPackedType(t) {
		return nil, fmt.Errorf("type %q cannot be packed", t)
	}
	return wire.DecodePacked(packed, d.decode)
}
