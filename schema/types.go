package schema

// ProtoFile represents a single .proto file
type ProtoFile struct {
	Name     string     `json:"name"`     // path the file was loaded from
	Package  string     `json:"package"`  // package name
	Syntax   string     `json:"syntax"`   // proto2 or proto3
	Imports  []string   `json:"imports"`  // resolved paths of imported files
	Messages []*Message `json:"messages"` // top-level message definitions
	Enums    []*Enum    `json:"enums"`    // top-level enum definitions
}

// Message represents a protobuf message definition
type Message struct {
	Name        string     `json:"name"`         // "User"
	FullName    string     `json:"full_name"`    // "example.v1.User"
	Fields      []*Field   `json:"fields"`       // message fields, oneof members included
	NestedTypes []*Message `json:"nested_types"` // nested messages
	NestedEnums []*Enum    `json:"nested_enums"` // nested enums
	MapEntry    bool       `json:"map_entry"`    // synthetic map entry message
}

// FieldByNumber returns the field with the given number, or nil.
func (m *Message) FieldByNumber(number uint64) *Field {
	for _, f := range m.Fields {
		if f.Number > 0 && uint64(f.Number) == number {
			return f
		}
	}
	return nil
}

// Field represents a message field
type Field struct {
	Name   string     `json:"name"`            // "user_name"
	Number int32      `json:"number"`          // 1
	Label  FieldLabel `json:"label"`           // optional, required, repeated
	Type   FieldType  `json:"type"`            // field type information
	Oneof  string     `json:"oneof,omitempty"` // enclosing oneof, if any
}

// FieldLabel represents field labels
type FieldLabel string

const (
	LabelOptional FieldLabel = "optional"
	LabelRequired FieldLabel = "required"
	LabelRepeated FieldLabel = "repeated"
)

// FieldType represents field type information
type FieldType struct {
	Kind          TypeKind      `json:"kind"`                     // primitive, message, enum, map
	PrimitiveType PrimitiveType `json:"primitive_type,omitempty"` // for primitive types
	MessageType   string        `json:"message_type,omitempty"`   // fully qualified once resolved
	EnumType      string        `json:"enum_type,omitempty"`      // fully qualified once resolved
	MapKey        *FieldType    `json:"map_key,omitempty"`        // for map key type
	MapValue      *FieldType    `json:"map_value,omitempty"`      // for map value type

	// TypeName is the reference exactly as written in the .proto file. It is
	// kept for diagnostics and for types that live outside the loaded files.
	TypeName string `json:"type_name,omitempty"`
}

// String renders the type the way it appears in a .proto file.
func (t FieldType) String() string {
	switch t.Kind {
	case KindPrimitive:
		return string(t.PrimitiveType)
	case KindMessage:
		return t.MessageType
	case KindEnum:
		return t.EnumType
	case KindMap:
		if t.MapKey == nil || t.MapValue == nil {
			return "map"
		}
		return "map<" + t.MapKey.String() + ", " + t.MapValue.String() + ">"
	default:
		return t.TypeName
	}
}

// TypeKind represents the kind of field type
type TypeKind string

const (
	KindPrimitive TypeKind = "primitive"
	KindMessage   TypeKind = "message"
	KindEnum      TypeKind = "enum"
	KindMap       TypeKind = "map"
	KindExternal  TypeKind = "external" // referenced but not loaded, e.g. google.protobuf.*
)

// PrimitiveType represents protobuf primitive types
type PrimitiveType string

const (
	TypeDouble   PrimitiveType = "double"
	TypeFloat    PrimitiveType = "float"
	TypeInt64    PrimitiveType = "int64"
	TypeUint64   PrimitiveType = "uint64"
	TypeInt32    PrimitiveType = "int32"
	TypeFixed64  PrimitiveType = "fixed64"
	TypeFixed32  PrimitiveType = "fixed32"
	TypeBool     PrimitiveType = "bool"
	TypeString   PrimitiveType = "string"
	TypeBytes    PrimitiveType = "bytes"
	TypeUint32   PrimitiveType = "uint32"
	TypeSfixed32 PrimitiveType = "sfixed32"
	TypeSfixed64 PrimitiveType = "sfixed64"
	TypeSint32   PrimitiveType = "sint32"
	TypeSint64   PrimitiveType = "sint64"
)

var primitiveTypes = map[string]PrimitiveType{
	"double":   TypeDouble,
	"float":    TypeFloat,
	"int64":    TypeInt64,
	"uint64":   TypeUint64,
	"int32":    TypeInt32,
	"fixed64":  TypeFixed64,
	"fixed32":  TypeFixed32,
	"bool":     TypeBool,
	"string":   TypeString,
	"bytes":    TypeBytes,
	"uint32":   TypeUint32,
	"sfixed32": TypeSfixed32,
	"sfixed64": TypeSfixed64,
	"sint32":   TypeSint32,
	"sint64":   TypeSint64,
}

// LookupPrimitive maps a scalar type name to its PrimitiveType.
func LookupPrimitive(name string) (PrimitiveType, bool) {
	t, ok := primitiveTypes[name]
	return t, ok
}

var packedEligible = map[PrimitiveType]struct{}{
	TypeDouble:   {},
	TypeFloat:    {},
	TypeInt64:    {},
	TypeUint64:   {},
	TypeInt32:    {},
	TypeFixed64:  {},
	TypeFixed32:  {},
	TypeBool:     {},
	TypeUint32:   {},
	TypeSfixed32: {},
	TypeSfixed64: {},
	TypeSint32:   {},
	TypeSint64:   {},
}

// IsPackedType checks and returns if the Primitive type is packed for repeated label
func IsPackedType(t PrimitiveType) bool {
	_, ok := packedEligible[t]
	return ok
}

// Enum represents an enum definition
type Enum struct {
	Name     string       `json:"name"`      // "Status"
	FullName string       `json:"full_name"` // "example.v1.Status"
	Values   []*EnumValue `json:"values"`    // enum values
}

// ValueName returns the name of the enum value with the given number.
func (e *Enum) ValueName(number int32) (string, bool) {
	for _, v := range e.Values {
		if v.Number == number {
			return v.Name, true
		}
	}
	return "", false
}

// EnumValue represents an enum value
type EnumValue struct {
	Name   string `json:"name"`   // "ACTIVE"
	Number int32  `json:"number"` // 1
}
