// Package protocodec inspects protobuf payloads against .proto schemas
// loaded at runtime, without generated code. Field decoding is done by the
// wire package; this package owns the schema lookup, the wire type checks
// and the decision to recurse into embedded messages.
package protocodec

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/anirudhraja/protocodec/rawmsg"
	"github.com/anirudhraja/protocodec/registry"
	"github.com/anirudhraja/protocodec/schema"
	"github.com/anirudhraja/protocodec/wire"
)

// DefaultRecursionLimit bounds message nesting, as protobuf runtimes do.
const DefaultRecursionLimit = 100

var (
	// ErrWireTypeMismatch is returned when a known field arrives with a wire
	// type its declared type cannot be encoded with.
	ErrWireTypeMismatch = errors.New("wire type does not match field type")

	// ErrRecursionLimit is returned when messages nest deeper than allowed.
	ErrRecursionLimit = errors.New("message nesting exceeds recursion limit")
)

// Value is one decoded field. Repeated fields produce one Value per record on
// the wire, except packed fields, whose values are collected in a []any.
type Value struct {
	Number   uint64        `json:"number"`
	Name     string        `json:"name,omitempty"`
	Type     string        `json:"type"`
	WireType wire.WireType `json:"-"`
	Value    any           `json:"value,omitempty"`
	Children []Value       `json:"children,omitempty"`
	Unknown  bool          `json:"unknown,omitempty"` // not declared in the schema
}

// Inspector provides schema-aware protobuf decoding without generated code
type Inspector struct {
	registry *registry.Registry

	// RecursionLimit overrides DefaultRecursionLimit when positive.
	RecursionLimit int
	// RawDepth is how deep fields of unloaded types (google.protobuf.* and
	// friends) are expanded by the schema-less scanner.
	RawDepth int
}

// New creates an Inspector that resolves .proto files from protoDirs.
func New(protoDirs ...string) *Inspector {
	return &Inspector{
		registry: registry.NewRegistry(protoDirs...),
		RawDepth: rawmsg.DefaultConfig.MaxDepth,
	}
}

// LoadSchemaFromFile loads a .proto file and its imports.
func (p *Inspector) LoadSchemaFromFile(protoPath string) error {
	return p.registry.LoadFile(protoPath)
}

// LoadSchema loads a .proto file or every .proto file below a directory.
func (p *Inspector) LoadSchema(protoPath string) error {
	return p.registry.LoadSchema(protoPath)
}

// Inspect decodes data as a messageType message.
func (p *Inspector) Inspect(data []byte, messageType string) ([]Value, error) {
	msg, err := p.registry.GetMessage(messageType)
	if err != nil {
		return nil, fmt.Errorf("message type not found: %w", err)
	}
	return p.inspectMessage(data, msg, 0)
}

func (p *Inspector) recursionLimit() int {
	if p.RecursionLimit > 0 {
		return p.RecursionLimit
	}
	return DefaultRecursionLimit
}

func (p *Inspector) inspectMessage(buf []byte, msg *schema.Message, depth int) ([]Value, error) {
	if depth > p.recursionLimit() {
		return nil, ErrRecursionLimit
	}

	values := make([]Value, 0)
	for pos := 0; pos < len(buf); {
		next, number, wireType, err := wire.DecodeKey(pos, buf)
		if err != nil {
			return nil, err
		}
		if !wireType.Supported() {
			return nil, wire.WrapField(wire.UnsupportedWireTypeError("decode_key", pos, wireType), strconv.FormatUint(number, 10))
		}

		field := msg.FieldByNumber(number)
		if field == nil {
			// Unknown field - keep it raw
			end, f, err := rawmsg.Next(pos, buf)
			if err != nil {
				return nil, err
			}
			values = append(values, Value{
				Number:   number,
				Type:     wireType.String(),
				WireType: wireType,
				Value:    f.Value(),
				Unknown:  true,
			})
			pos = end
			continue
		}

		end, v, err := p.inspectField(pos, next, buf, field, wireType, depth)
		if err != nil {
			return nil, wire.WrapField(err, field.Name)
		}
		v.Number = number
		v.Name = field.Name
		v.WireType = wireType
		values = append(values, v)
		pos = end
	}
	return values, nil
}

// inspectField decodes the payload of a known field. keyPos is where the
// field's key starts and pos is just past it.
func (p *Inspector) inspectField(keyPos, pos int, buf []byte, field *schema.Field, wireType wire.WireType, depth int) (int, Value, error) {
	t := field.Type
	v := Value{Type: t.String()}

	switch t.Kind {
	case schema.KindPrimitive:
		expected, _ := ExpectedWireType(t.PrimitiveType)
		// Parsers must accept packed and unpacked encodings alike.
		if field.Label == schema.LabelRepeated && wireType == wire.LengthDelimited && expected != wire.LengthDelimited {
			next, packed, err := wire.DecodePackedRepeated(pos, buf)
			if err != nil {
				return 0, Value{}, err
			}
			values, err := decodePacked(packed, t.PrimitiveType)
			if err != nil {
				return 0, Value{}, err
			}
			v.Value = values
			return next, v, nil
		}
		if wireType != expected {
			return 0, Value{}, mismatch(wireType, expected)
		}
		next, value, err := DecodeScalar(pos, buf, t.PrimitiveType)
		if err != nil {
			return 0, Value{}, err
		}
		v.Value = value
		return next, v, nil

	case schema.KindEnum:
		enum, _ := p.registry.GetEnum(t.EnumType)
		if field.Label == schema.LabelRepeated && wireType == wire.LengthDelimited {
			next, packed, err := wire.DecodePackedRepeated(pos, buf)
			if err != nil {
				return 0, Value{}, err
			}
			numbers, err := wire.DecodePacked(packed, wire.DecodeInt32)
			if err != nil {
				return 0, Value{}, err
			}
			values := make([]any, len(numbers))
			for i, n := range numbers {
				values[i] = enumValue(enum, n)
			}
			v.Value = values
			return next, v, nil
		}
		if wireType != wire.Varint {
			return 0, Value{}, mismatch(wireType, wire.Varint)
		}
		// Enum numbers are int32 and negative ones arrive sign extended.
		next, n, err := wire.DecodeInt32(pos, buf)
		if err != nil {
			return 0, Value{}, err
		}
		v.Value = enumValue(enum, n)
		return next, v, nil

	case schema.KindMessage, schema.KindMap:
		if wireType != wire.LengthDelimited {
			return 0, Value{}, mismatch(wireType, wire.LengthDelimited)
		}
		next, sub, err := wire.DecodeEmbeddedMessage(pos, buf)
		if err != nil {
			return 0, Value{}, err
		}

		var nested *schema.Message
		if t.Kind == schema.KindMap {
			nested = registry.MapEntryMessage(field)
		} else if nested, err = p.registry.GetMessage(t.MessageType); err != nil {
			return 0, Value{}, err
		}

		children, err := p.inspectMessage(sub, nested, depth+1)
		if err != nil {
			return 0, Value{}, err
		}
		v.Children = children
		return next, v, nil

	case schema.KindExternal:
		end, f, err := rawmsg.Next(keyPos, buf)
		if err != nil {
			return 0, Value{}, err
		}
		if wireType == wire.LengthDelimited {
			if nodes, err := rawmsg.Tree(f.Bytes, rawmsg.Config{MaxDepth: p.RawDepth}); err == nil {
				v.Children = fromNodes(nodes)
				return end, v, nil
			}
		}
		v.Value = f.Value()
		return end, v, nil

	default:
		return 0, Value{}, fmt.Errorf("field type %q is not resolved", t.TypeName)
	}
}

// enumValue returns the declared name of n, or n itself when enum is nil or
// does not declare it.
func enumValue(enum *schema.Enum, n int32) any {
	if enum != nil {
		if name, ok := enum.ValueName(n); ok {
			return name
		}
	}
	return n
}

func mismatch(got, want wire.WireType) error {
	return fmt.Errorf("%w: got %s, want %s", ErrWireTypeMismatch, got, want)
}

// fromNodes converts schema-less scan results into Values.
func fromNodes(nodes []rawmsg.Node) []Value {
	values := make([]Value, 0, len(nodes))
	for _, n := range nodes {
		v := Value{
			Number:   n.Number,
			Type:     n.WireType.String(),
			WireType: n.WireType,
			Unknown:  true,
		}
		if len(n.Children) > 0 {
			v.Children = fromNodes(n.Children)
		} else {
			v.Value = n.Value()
		}
		values = append(values, v)
	}
	return values
}

// ===== REGISTRY ACCESS =====

func (p *Inspector) GetRegistry() *registry.Registry { return p.registry }
func (p *Inspector) ListMessages() []string          { return p.registry.ListMessages() }
func (p *Inspector) ListEnums() []string             { return p.registry.ListEnums() }
