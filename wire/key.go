package wire

// DecodeKey decodes a field tag at pos and splits it into field number and
// wire type. The wire type is returned as found on the wire; rejecting groups
// and unassigned codes is left to the caller.
func DecodeKey(pos int, buf []byte) (int, uint64, WireType, error) {
	next, tag, err := decodeVarint("decode_key", pos, buf)
	if err != nil {
		return 0, 0, 0, err
	}

	fieldNumber, wireType := ParseTag(Tag(tag))
	return next, fieldNumber, wireType, nil
}

// EncodeKey encodes the tag for fieldNumber and wireType as a varint.
func EncodeKey(fieldNumber uint64, wireType WireType) []byte {
	return EncodeVarint(uint64(MakeTag(fieldNumber, wireType)))
}
