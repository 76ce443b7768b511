package wire

// Varint scalar decoders. Each consumes exactly one varint and interprets it
// according to the protobuf scalar type it is named after.

// DecodeUint64 decodes a uint64 field value.
func DecodeUint64(pos int, buf []byte) (int, uint64, error) {
	return decodeVarint("decode_uint64", pos, buf)
}

// DecodeInt64 decodes an int64 field value.
func DecodeInt64(pos int, buf []byte) (int, int64, error) {
	next, v, err := decodeVarint("decode_int64", pos, buf)
	if err != nil {
		return 0, 0, err
	}
	return next, int64(v), nil
}

// DecodeUint32 decodes a uint32 field value. Values that do not fit in 32
// bits are rejected with ErrIntegerOverflow.
func DecodeUint32(pos int, buf []byte) (int, uint32, error) {
	return decodeUint32("decode_uint32", pos, buf)
}

// DecodeEnum decodes an enum field value. Enums share the uint32 rules.
func DecodeEnum(pos int, buf []byte) (int, uint32, error) {
	return decodeUint32("decode_enum", pos, buf)
}

func decodeUint32(op string, pos int, buf []byte) (int, uint32, error) {
	next, v, err := decodeVarint(op, pos, buf)
	if err != nil {
		return 0, 0, err
	}
	if v>>32 != 0 {
		return 0, 0, &DecodeError{
			Kind: KindIntegerOverflow,
			Op:   op,
			Pos:  pos,
			Msg:  "highest 4 bytes must be 0",
		}
	}
	return next, uint32(v), nil
}

// DecodeInt32 decodes an int32 field value. Negative int32 values are sign
// extended to 64 bits on the wire; the extension bits are dropped here.
func DecodeInt32(pos int, buf []byte) (int, int32, error) {
	next, v, err := decodeVarint("decode_int32", pos, buf)
	if err != nil {
		return 0, 0, err
	}
	return next, int32(uint32(v)), nil
}

// DecodeBool decodes a bool field value. Any nonzero varint is true.
func DecodeBool(pos int, buf []byte) (int, bool, error) {
	next, v, err := decodeVarint("decode_bool", pos, buf)
	if err != nil {
		return 0, false, err
	}
	return next, v != 0, nil
}

// DecodeSint32 decodes a zigzag-encoded sint32 field value.
func DecodeSint32(pos int, buf []byte) (int, int32, error) {
	next, v, err := decodeVarint("decode_sint32", pos, buf)
	if err != nil {
		return 0, 0, err
	}
	return next, DecodeZigZag32(v), nil
}

// DecodeSint64 decodes a zigzag-encoded sint64 field value.
func DecodeSint64(pos int, buf []byte) (int, int64, error) {
	next, v, err := decodeVarint("decode_sint64", pos, buf)
	if err != nil {
		return 0, 0, err
	}
	return next, DecodeZigZag64(v), nil
}
