package wire

import (
	"encoding/binary"
	"math"
)

// DecodeBits32 reads 4 little-endian bytes at pos.
func DecodeBits32(pos int, buf []byte) (int, uint32, error) {
	return decodeBits32("decode_bits32", pos, buf)
}

// DecodeFixed32 decodes a fixed32 field value.
func DecodeFixed32(pos int, buf []byte) (int, uint32, error) {
	return decodeBits32("decode_fixed32", pos, buf)
}

// DecodeSfixed32 decodes an sfixed32 field value.
func DecodeSfixed32(pos int, buf []byte) (int, int32, error) {
	next, v, err := decodeBits32("decode_sfixed32", pos, buf)
	if err != nil {
		return 0, 0, err
	}
	return next, int32(v), nil
}

// DecodeFloat decodes a float field value.
func DecodeFloat(pos int, buf []byte) (int, float32, error) {
	next, v, err := decodeBits32("decode_float", pos, buf)
	if err != nil {
		return 0, 0, err
	}
	return next, math.Float32frombits(v), nil
}

// DecodeBits64 reads 8 little-endian bytes at pos.
func DecodeBits64(pos int, buf []byte) (int, uint64, error) {
	return decodeBits64("decode_bits64", pos, buf)
}

// DecodeFixed64 decodes a fixed64 field value.
func DecodeFixed64(pos int, buf []byte) (int, uint64, error) {
	return decodeBits64("decode_fixed64", pos, buf)
}

// DecodeSfixed64 decodes an sfixed64 field value.
func DecodeSfixed64(pos int, buf []byte) (int, int64, error) {
	next, v, err := decodeBits64("decode_sfixed64", pos, buf)
	if err != nil {
		return 0, 0, err
	}
	return next, int64(v), nil
}

// DecodeDouble decodes a double field value.
func DecodeDouble(pos int, buf []byte) (int, float64, error) {
	next, v, err := decodeBits64("decode_double", pos, buf)
	if err != nil {
		return 0, 0, err
	}
	return next, math.Float64frombits(v), nil
}

func decodeBits32(op string, pos int, buf []byte) (int, uint32, error) {
	if pos < 0 || len(buf)-pos < 4 {
		return 0, 0, underrun(op, pos, 4, buf)
	}
	return pos + 4, binary.LittleEndian.Uint32(buf[pos:]), nil
}

func decodeBits64(op string, pos int, buf []byte) (int, uint64, error) {
	if pos < 0 || len(buf)-pos < 8 {
		return 0, 0, underrun(op, pos, 8, buf)
	}
	return pos + 8, binary.LittleEndian.Uint64(buf[pos:]), nil
}
