package wire

import "fmt"

// ===== PROTOBUF WIRE FORMAT TYPES =====

// WireType represents protobuf wire format types
type WireType uint8

const (
	Varint          WireType = 0 // int32, int64, uint32, uint64, sint32, sint64, bool, enum
	Bits64          WireType = 1 // fixed64, sfixed64, double
	LengthDelimited WireType = 2 // string, bytes, embedded messages, packed repeated fields
	StartGroup      WireType = 3 // deprecated, never decoded
	EndGroup        WireType = 4 // deprecated, never decoded
	Bits32          WireType = 5 // fixed32, sfixed32, float
)

// MaxVarintLen is the longest legal varint encoding of a 64-bit value.
const MaxVarintLen = 10

// Supported reports whether the codec has a decoder family for the wire type.
// Groups (3, 4) and the unassigned codes 6 and 7 are not supported.
func (t WireType) Supported() bool {
	switch t {
	case Varint, Bits64, LengthDelimited, Bits32:
		return true
	}
	return false
}

func (t WireType) String() string {
	switch t {
	case Varint:
		return "varint"
	case Bits64:
		return "bits64"
	case LengthDelimited:
		return "length-delimited"
	case StartGroup:
		return "start-group"
	case EndGroup:
		return "end-group"
	case Bits32:
		return "bits32"
	default:
		return fmt.Sprintf("wiretype(%d)", uint8(t))
	}
}

// Tag represents a protobuf field tag (field number + wire type)
type Tag uint64

// MakeTag creates a tag from field number and wire type
func MakeTag(fieldNumber uint64, wireType WireType) Tag {
	return Tag(fieldNumber<<3 | uint64(wireType&0x7))
}

// ParseTag parses a tag into field number and wire type
func ParseTag(tag Tag) (uint64, WireType) {
	return uint64(tag >> 3), WireType(tag & 0x7)
}
