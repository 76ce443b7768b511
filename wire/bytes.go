package wire

import "fmt"

// DecodeLengthDelimited decodes a varint length L at pos and returns the L
// bytes that follow it. The returned slice shares memory with buf and has its
// capacity clipped, so appending to it never writes into buf.
func DecodeLengthDelimited(pos int, buf []byte) (int, []byte, error) {
	return decodeLengthDelimited("decode_length_delimited", pos, buf)
}

// DecodeBytes decodes a bytes field value.
func DecodeBytes(pos int, buf []byte) (int, []byte, error) {
	return decodeLengthDelimited("decode_bytes", pos, buf)
}

// DecodeString decodes a string field value. The bytes are not checked for
// valid UTF-8.
func DecodeString(pos int, buf []byte) (int, string, error) {
	next, data, err := decodeLengthDelimited("decode_string", pos, buf)
	if err != nil {
		return 0, "", err
	}
	return next, string(data), nil
}

// DecodeEmbeddedMessage returns the encoded sub-message at pos. The payload
// is not decoded; callers decode it themselves with DecodeKey and friends.
func DecodeEmbeddedMessage(pos int, buf []byte) (int, []byte, error) {
	return decodeLengthDelimited("decode_embedded_message", pos, buf)
}

// DecodePackedRepeated returns the payload of a packed repeated field: the
// concatenated values with no tags between them. See DecodePacked.
func DecodePackedRepeated(pos int, buf []byte) (int, []byte, error) {
	return decodeLengthDelimited("decode_packed_repeated", pos, buf)
}

func decodeLengthDelimited(op string, pos int, buf []byte) (int, []byte, error) {
	next, length, err := decodeVarint(op, pos, buf)
	if err != nil {
		return 0, nil, err
	}

	remaining := len(buf) - next
	if length > uint64(remaining) {
		return 0, nil, &DecodeError{
			Kind: KindBufferUnderrun,
			Op:   op,
			Pos:  pos,
			Msg:  fmt.Sprintf("length prefix %d exceeds remaining %d bytes", length, remaining),
		}
	}

	end := next + int(length)
	return end, buf[next:end:end], nil
}
