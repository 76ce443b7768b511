package protocodec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/anirudhraja/protocodec/schema"
	"github.com/anirudhraja/protocodec/wire"
)

func newUserInspector(t *testing.T) *Inspector {
	t.Helper()
	p := New("registry/testdata")
	require.NoError(t, p.LoadSchemaFromFile("user.proto"))
	return p
}

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	return protowire.AppendVarint(protowire.AppendTag(b, num, protowire.VarintType), v)
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	return protowire.AppendBytes(protowire.AppendTag(b, num, protowire.BytesType), v)
}

func byName(values []Value, name string) []Value {
	var out []Value
	for _, v := range values {
		if v.Name == name {
			out = append(out, v)
		}
	}
	return out
}

func TestInspect_Scalars(t *testing.T) {
	p := newUserInspector(t)

	var buf []byte
	buf = appendVarintField(buf, 1, 300)
	buf = appendBytesField(buf, 2, []byte("alice"))
	buf = appendVarintField(buf, 12, 1)

	values, err := p.Inspect(buf, "example.v1.User")
	require.NoError(t, err)
	require.Len(t, values, 3)

	assert.Equal(t, Value{Number: 1, Name: "id", Type: "uint64", WireType: wire.Varint, Value: uint64(300)}, values[0])
	assert.Equal(t, "alice", values[1].Value)
	assert.Equal(t, wire.LengthDelimited, values[1].WireType)
	assert.Equal(t, true, values[2].Value)
}

func TestInspect_ShortMessageName(t *testing.T) {
	p := newUserInspector(t)

	values, err := p.Inspect(appendVarintField(nil, 1, 7), "User")
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, uint64(7), values[0].Value)
}

func TestInspect_Empty(t *testing.T) {
	p := newUserInspector(t)

	values, err := p.Inspect(nil, "example.v1.User")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestInspect_UnknownMessageType(t *testing.T) {
	p := newUserInspector(t)

	_, err := p.Inspect(nil, "example.v1.Nope")
	assert.ErrorContains(t, err, "message type not found")
}

func TestInspect_Enums(t *testing.T) {
	p := newUserInspector(t)

	var buf []byte
	buf = appendVarintField(buf, 3, 2)
	buf = appendVarintField(buf, 11, 1)
	buf = appendVarintField(buf, 3, 42)

	values, err := p.Inspect(buf, "example.v1.User")
	require.NoError(t, err)
	require.Len(t, values, 3)

	assert.Equal(t, "STATUS_SUSPENDED", values[0].Value)
	assert.Equal(t, "example.common.Status", values[0].Type)
	assert.Equal(t, "ROLE_ADMIN", values[1].Value)
	// undeclared enum numbers are kept as numbers
	assert.Equal(t, int32(42), values[2].Value)
}

func newLevelInspector(t *testing.T) *Inspector {
	t.Helper()
	p := New("testdata")
	require.NoError(t, p.LoadSchemaFromFile("levels.proto"))
	return p
}

func TestInspect_NegativeEnum(t *testing.T) {
	p := newLevelInspector(t)

	var buf []byte
	buf = appendVarintField(buf, 1, uint64(1<<64-1)) // -1, sign extended to 10 bytes
	buf = appendVarintField(buf, 1, uint64(1<<64-7)) // -7, not declared

	values, err := p.Inspect(buf, "example.levels.Settings")
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, "LEVEL_NEG", values[0].Value)
	assert.Equal(t, int32(-7), values[1].Value)
}

func TestInspect_PackedRepeatedEnum(t *testing.T) {
	p := newLevelInspector(t)

	var packed []byte
	for _, n := range []uint64{1, 2, 1<<64 - 1, 9} {
		packed = protowire.AppendVarint(packed, n)
	}

	var buf []byte
	buf = appendBytesField(buf, 2, packed)
	buf = appendVarintField(buf, 2, 2)

	values, err := p.Inspect(buf, "example.levels.Settings")
	require.NoError(t, err)
	require.Len(t, values, 2)

	assert.Equal(t, "levels", values[0].Name)
	assert.Equal(t, []any{"LEVEL_LOW", "LEVEL_HIGH", "LEVEL_NEG", int32(9)}, values[0].Value)
	assert.Equal(t, "LEVEL_HIGH", values[1].Value)
}

func TestInspect_PackedRepeatedEnumTruncated(t *testing.T) {
	p := newLevelInspector(t)

	_, err := p.Inspect(appendBytesField(nil, 2, []byte{0x01, 0x80}), "example.levels.Settings")
	require.ErrorIs(t, err, wire.ErrBufferUnderrun)

	var fe *wire.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, []string{"levels"}, fe.FieldPath)
}

func TestInspect_RepeatedPackedAndUnpacked(t *testing.T) {
	p := newUserInspector(t)

	var packed []byte
	for _, s := range []int64{-1, 1, -2} {
		packed = protowire.AppendVarint(packed, protowire.EncodeZigZag(s))
	}

	var buf []byte
	buf = appendBytesField(buf, 4, packed)
	buf = appendVarintField(buf, 4, protowire.EncodeZigZag(-64))

	values, err := p.Inspect(buf, "example.v1.User")
	require.NoError(t, err)
	scores := byName(values, "scores")
	require.Len(t, scores, 2)

	assert.Equal(t, []any{int32(-1), int32(1), int32(-2)}, scores[0].Value)
	assert.Equal(t, int32(-64), scores[1].Value)
}

func TestInspect_PackedEmpty(t *testing.T) {
	p := newUserInspector(t)

	values, err := p.Inspect(appendBytesField(nil, 4, nil), "example.v1.User")
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, []any{}, values[0].Value)
}

func TestInspect_NestedMessages(t *testing.T) {
	p := newUserInspector(t)

	var home []byte
	home = appendBytesField(home, 1, []byte("Paris"))
	home = appendVarintField(home, 2, 75001)

	var buf []byte
	buf = appendBytesField(buf, 5, home)
	buf = appendBytesField(buf, 10, appendBytesField(nil, 1, []byte("Lyon")))
	buf = appendBytesField(buf, 10, nil)

	values, err := p.Inspect(buf, "example.v1.User")
	require.NoError(t, err)
	require.Len(t, values, 3)

	address := values[0]
	assert.Equal(t, "example.v1.User.Address", address.Type)
	require.Len(t, address.Children, 2)
	assert.Equal(t, "city", address.Children[0].Name)
	assert.Equal(t, "Paris", address.Children[0].Value)
	assert.Equal(t, int32(75001), address.Children[1].Value)

	previous := byName(values, "previous")
	require.Len(t, previous, 2)
	assert.Equal(t, "Lyon", previous[0].Children[0].Value)
	assert.Empty(t, previous[1].Children)
}

func TestInspect_Map(t *testing.T) {
	p := newUserInspector(t)

	var money []byte
	money = appendBytesField(money, 1, []byte("EUR"))
	money = appendVarintField(money, 2, protowire.EncodeZigZag(-5))
	money = protowire.AppendFixed32(protowire.AppendTag(money, 3, protowire.Fixed32Type), 250)

	var entry []byte
	entry = appendBytesField(entry, 1, []byte("savings"))
	entry = appendBytesField(entry, 2, money)

	values, err := p.Inspect(appendBytesField(nil, 6, entry), "example.v1.User")
	require.NoError(t, err)
	require.Len(t, values, 1)

	balances := values[0]
	assert.Equal(t, "map<string, example.common.Money>", balances.Type)
	require.Len(t, balances.Children, 2)
	assert.Equal(t, "key", balances.Children[0].Name)
	assert.Equal(t, "savings", balances.Children[0].Value)

	value := balances.Children[1]
	assert.Equal(t, "value", value.Name)
	require.Len(t, value.Children, 3)
	assert.Equal(t, "EUR", value.Children[0].Value)
	assert.Equal(t, int64(-5), value.Children[1].Value)
	assert.Equal(t, uint32(250), value.Children[2].Value)
}

func TestInspect_Oneof(t *testing.T) {
	p := newUserInspector(t)

	values, err := p.Inspect(appendBytesField(nil, 8, []byte("+33")), "example.v1.User")
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, "phone", values[0].Name)
	assert.Equal(t, "+33", values[0].Value)
}

func TestInspect_WellKnownTypeIsScannedRaw(t *testing.T) {
	p := newUserInspector(t)

	ts, err := proto.Marshal(&timestamppb.Timestamp{Seconds: 1700000000, Nanos: 9})
	require.NoError(t, err)

	values, err := p.Inspect(appendBytesField(nil, 9, ts), "example.v1.User")
	require.NoError(t, err)
	require.Len(t, values, 1)

	created := values[0]
	assert.Equal(t, "created_at", created.Name)
	assert.Equal(t, "google.protobuf.Timestamp", created.Type)
	require.Len(t, created.Children, 2)
	assert.True(t, created.Children[0].Unknown)
	assert.Equal(t, uint64(1700000000), created.Children[0].Value)
	assert.Equal(t, uint64(9), created.Children[1].Value)
}

func TestInspect_UnknownFieldsAreKept(t *testing.T) {
	p := newUserInspector(t)

	var buf []byte
	buf = appendVarintField(buf, 1, 1)
	buf = protowire.AppendFixed64(protowire.AppendTag(buf, 99, protowire.Fixed64Type), 0xdeadbeef)
	buf = appendBytesField(buf, 2, []byte("bob"))

	values, err := p.Inspect(buf, "example.v1.User")
	require.NoError(t, err)
	require.Len(t, values, 3)

	unknown := values[1]
	assert.True(t, unknown.Unknown)
	assert.Equal(t, uint64(99), unknown.Number)
	assert.Empty(t, unknown.Name)
	assert.Equal(t, "bits64", unknown.Type)
	assert.Equal(t, uint64(0xdeadbeef), unknown.Value)
	assert.Equal(t, "bob", values[2].Value)
}

func TestInspect_Errors(t *testing.T) {
	p := newUserInspector(t)

	tests := []struct {
		name string
		data []byte
		is   error
		path []string
	}{
		{
			name: "wire type mismatch",
			data: appendBytesField(nil, 1, []byte("x")),
			is:   ErrWireTypeMismatch,
			path: []string{"id"},
		},
		{
			name: "enum as fixed32",
			data: protowire.AppendFixed32(protowire.AppendTag(nil, 3, protowire.Fixed32Type), 1),
			is:   ErrWireTypeMismatch,
			path: []string{"status"},
		},
		{
			name: "group",
			data: protowire.AppendTag(nil, 1, protowire.StartGroupType),
			is:   wire.ErrUnsupportedWireType,
			path: []string{"1"},
		},
		{
			name: "truncated string",
			data: []byte{0x12, 0x05, 'a', 'b'},
			is:   wire.ErrBufferUnderrun,
			path: []string{"name"},
		},
		{
			name: "nested truncation",
			data: appendBytesField(nil, 5, []byte{0x10, 0x80}),
			is:   wire.ErrBufferUnderrun,
			path: []string{"address", "zip"},
		},
		{
			name: "truncated packed payload",
			data: appendBytesField(nil, 4, []byte{0x80}),
			is:   wire.ErrBufferUnderrun,
			path: []string{"scores"},
		},
		{
			name: "malformed varint",
			data: []byte{0x08, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01},
			is:   wire.ErrMalformedVarint,
			path: []string{"id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Inspect(tt.data, "example.v1.User")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.is)

			var fe *wire.FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.path, fe.FieldPath)
		})
	}
}

func TestInspect_RecursionLimit(t *testing.T) {
	p := New("testdata")
	require.NoError(t, p.LoadSchemaFromFile("node.proto"))
	p.RecursionLimit = 3

	payload := appendBytesField(nil, 2, []byte("leaf"))
	for i := 0; i < 5; i++ {
		payload = appendBytesField(nil, 1, payload)
	}

	_, err := p.Inspect(payload, "example.tree.Node")
	require.ErrorIs(t, err, ErrRecursionLimit)

	p.RecursionLimit = 0
	values, err := p.Inspect(payload, "example.tree.Node")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.Len(t, values, 1)
		values = values[0].Children
	}
	require.Len(t, values, 1)
	assert.Equal(t, "leaf", values[0].Value)
}

func TestDecodeScalar(t *testing.T) {
	tests := []struct {
		typ  schema.PrimitiveType
		data []byte
		want any
	}{
		{schema.TypeInt32, protowire.AppendVarint(nil, uint64(1<<64-1)), int32(-1)},
		{schema.TypeInt64, protowire.AppendVarint(nil, 5), int64(5)},
		{schema.TypeUint32, protowire.AppendVarint(nil, 5), uint32(5)},
		{schema.TypeSint64, protowire.AppendVarint(nil, 3), int64(-2)},
		{schema.TypeBool, []byte{0x00}, false},
		{schema.TypeFixed64, protowire.AppendFixed64(nil, 9), uint64(9)},
		{schema.TypeSfixed32, protowire.AppendFixed32(nil, 0xffffffff), int32(-1)},
		{schema.TypeFloat, []byte{0x00, 0x00, 0x80, 0x3f}, float32(1)},
		{schema.TypeDouble, []byte{0, 0, 0, 0, 0, 0, 0xf0, 0x3f}, float64(1)},
		{schema.TypeBytes, protowire.AppendBytes(nil, []byte{1, 2}), []byte{1, 2}},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			next, got, err := DecodeScalar(0, tt.data, tt.typ)
			require.NoError(t, err)
			assert.Equal(t, len(tt.data), next)
			assert.Equal(t, tt.want, got)
		})
	}

	_, _, err := DecodeScalar(0, []byte{0}, "decimal")
	assert.ErrorContains(t, err, "unknown scalar type")
}

func TestExpectedWireType(t *testing.T) {
	wt, ok := ExpectedWireType(schema.TypeSfixed64)
	assert.True(t, ok)
	assert.Equal(t, wire.Bits64, wt)

	wt, ok = ExpectedWireType(schema.TypeString)
	assert.True(t, ok)
	assert.Equal(t, wire.LengthDelimited, wt)

	_, ok = ExpectedWireType("decimal")
	assert.False(t, ok)
}

func TestListMessages(t *testing.T) {
	p := newUserInspector(t)
	assert.Contains(t, p.ListMessages(), "example.v1.User")
	assert.Contains(t, p.ListEnums(), "example.common.Status")
	assert.NotNil(t, p.GetRegistry())
}
