package wire

// DecodeVarint decodes a base-128 varint starting at pos. It returns the
// position just past the varint and the decoded value.
func DecodeVarint(pos int, buf []byte) (int, uint64, error) {
	return decodeVarint("decode_varint", pos, buf)
}

// decodeVarint is shared by every varint based decoder so that failures name
// the decoder the caller actually invoked.
func decodeVarint(op string, pos int, buf []byte) (int, uint64, error) {
	if pos < 0 || pos >= len(buf) {
		return 0, 0, underrun(op, pos, 1, buf)
	}

	var result uint64
	for i := 0; i < MaxVarintLen; i++ {
		if pos+i >= len(buf) {
			return 0, 0, underrun(op, pos, uint64(i+1), buf)
		}

		b := buf[pos+i]

		// The tenth group only has room for bit 63; anything above it is dropped.
		result |= uint64(b&0x7F) << (7 * uint(i))

		// If MSB is not set, we're done
		if b&0x80 == 0 {
			return pos + i + 1, result, nil
		}
	}

	return 0, 0, &DecodeError{
		Kind: KindMalformedVarint,
		Op:   op,
		Pos:  pos,
		Msg:  "continuation bit set after 10 bytes",
	}
}

// EncodeVarint encodes v as a minimal base-128 varint.
func EncodeVarint(v uint64) []byte {
	return appendVarint(make([]byte, 0, VarintSize(v)), v)
}

func appendVarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

// DecodeZigZag32 decodes a zigzag-encoded 32-bit integer
func DecodeZigZag32(encoded uint64) int32 {
	n := uint32(encoded)
	return int32(n>>1) ^ -int32(n&1)
}

// DecodeZigZag64 decodes a zigzag-encoded 64-bit integer
func DecodeZigZag64(encoded uint64) int64 {
	return int64(encoded>>1) ^ -int64(encoded&1)
}

// VarintSize returns the number of bytes needed to encode the given varint
func VarintSize(v uint64) int {
	switch {
	case v < 1<<7:
		return 1
	case v < 1<<14:
		return 2
	case v < 1<<21:
		return 3
	case v < 1<<28:
		return 4
	case v < 1<<35:
		return 5
	case v < 1<<42:
		return 6
	case v < 1<<49:
		return 7
	case v < 1<<56:
		return 8
	case v < 1<<63:
		return 9
	default:
		return 10
	}
}
