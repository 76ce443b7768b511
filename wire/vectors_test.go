package wire

import (
	"encoding/hex"
	"fmt"
	"os"
	"testing"

	"gopkg.in/yaml.v3"
)

type vector struct {
	Name    string `yaml:"name"`
	Op      string `yaml:"op"`
	Pos     int    `yaml:"pos"`
	Hex     string `yaml:"hex"`
	WantPos int    `yaml:"want_pos"`
	Want    string `yaml:"want"`
	Error   string `yaml:"error"`
}

type vectorFile struct {
	Vectors []vector `yaml:"vectors"`
}

type anyDecoder func(pos int, buf []byte) (int, any, error)

func adapt[T any](decode func(int, []byte) (int, T, error)) anyDecoder {
	return func(pos int, buf []byte) (int, any, error) {
		next, v, err := decode(pos, buf)
		return next, v, err
	}
}

func adaptSlice(decode func(int, []byte) (int, []byte, error)) anyDecoder {
	return func(pos int, buf []byte) (int, any, error) {
		next, v, err := decode(pos, buf)
		return next, hex.EncodeToString(v), err
	}
}

var vectorDecoders = map[string]anyDecoder{
	"varint":   adapt(DecodeVarint),
	"uint64":   adapt(DecodeUint64),
	"int64":    adapt(DecodeInt64),
	"uint32":   adapt(DecodeUint32),
	"int32":    adapt(DecodeInt32),
	"sint32":   adapt(DecodeSint32),
	"sint64":   adapt(DecodeSint64),
	"bool":     adapt(DecodeBool),
	"enum":     adapt(DecodeEnum),
	"bits32":   adapt(DecodeBits32),
	"fixed32":  adapt(DecodeFixed32),
	"sfixed32": adapt(DecodeSfixed32),
	"bits64":   adapt(DecodeBits64),
	"fixed64":  adapt(DecodeFixed64),
	"sfixed64": adapt(DecodeSfixed64),
	"string":   adapt(DecodeString),
	"key": func(pos int, buf []byte) (int, any, error) {
		next, field, wt, err := DecodeKey(pos, buf)
		return next, fmt.Sprintf("%d/%s", field, wt), err
	},
	"length_delimited": adaptSlice(DecodeLengthDelimited),
	"bytes":            adaptSlice(DecodeBytes),
	"embedded_message": adaptSlice(DecodeEmbeddedMessage),
	"packed_repeated":  adaptSlice(DecodePackedRepeated),
}

func loadVectors(t *testing.T) []vector {
	t.Helper()
	raw, err := os.ReadFile("testdata/vectors.yaml")
	if err != nil {
		t.Fatalf("failed to read vectors: %v", err)
	}
	var f vectorFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		t.Fatalf("failed to parse vectors: %v", err)
	}
	if len(f.Vectors) == 0 {
		t.Fatal("no vectors loaded")
	}
	return f.Vectors
}

func TestGoldenVectors(t *testing.T) {
	for _, v := range loadVectors(t) {
		t.Run(v.Name, func(t *testing.T) {
			decode, ok := vectorDecoders[v.Op]
			if !ok {
				t.Fatalf("unknown op %q", v.Op)
			}

			pos, got, err := decode(v.Pos, mustHex(t, v.Hex))
			if v.Error != "" {
				if err == nil {
					t.Fatalf("expected %s, got pos=%d value=%v", v.Error, pos, got)
				}
				if KindOf(err).String() != v.Error {
					t.Fatalf("expected %s, got %v", v.Error, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if pos != v.WantPos {
				t.Errorf("expected pos %d, got %d", v.WantPos, pos)
			}
			if s := fmt.Sprint(got); s != v.Want {
				t.Errorf("expected %s, got %s", v.Want, s)
			}
		})
	}
}
