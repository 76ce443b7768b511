package wire

// SkipField advances past one field payload of the given wire type without
// interpreting it. Groups and unassigned wire types fail with
// ErrUnsupportedWireType.
func SkipField(pos int, buf []byte, wireType WireType) (int, error) {
	switch wireType {
	case Varint:
		next, _, err := decodeVarint("skip_field", pos, buf)
		return next, err
	case Bits64:
		next, _, err := decodeBits64("skip_field", pos, buf)
		return next, err
	case LengthDelimited:
		next, _, err := decodeLengthDelimited("skip_field", pos, buf)
		return next, err
	case Bits32:
		next, _, err := decodeBits32("skip_field", pos, buf)
		return next, err
	default:
		return 0, UnsupportedWireTypeError("skip_field", pos, wireType)
	}
}

// DecodePacked applies decode repeatedly over a packed repeated payload (as
// returned by DecodePackedRepeated) until it is exhausted.
//
//	_, payload, err := wire.DecodePackedRepeated(pos, buf)
//	values, err := wire.DecodePacked(payload, wire.DecodeSint32)
func DecodePacked[T any](packed []byte, decode func(pos int, buf []byte) (int, T, error)) ([]T, error) {
	values := make([]T, 0)
	for pos := 0; pos < len(packed); {
		next, v, err := decode(pos, packed)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		pos = next
	}
	return values, nil
}
