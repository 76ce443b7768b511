package registry

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/anirudhraja/protocodec/schema"
)

// Registry allows us to store the schema of the protobuf messages. We look
// this up when we need to label or type the fields of a wire payload.
type Registry struct {
	// ProtoDirectories are searched, in order, for the files named on the
	// command line and in import statements.
	ProtoDirectories []string

	files    map[string]*schema.ProtoFile // path -> parsed file
	messages map[string]*schema.Message   // fully qualified name -> message
	enums    map[string]*schema.Enum      // fully qualified name -> enum
}

// NewRegistry creates a registry that resolves files relative to protoDirs.
// With no directories, paths are used as given.
func NewRegistry(protoDirs ...string) *Registry {
	if len(protoDirs) == 0 {
		protoDirs = []string{""}
	}
	return &Registry{
		ProtoDirectories: protoDirs,
		files:            make(map[string]*schema.ProtoFile),
		messages:         make(map[string]*schema.Message),
		enums:            make(map[string]*schema.Enum),
	}
}

// LoadFile loads protoFile and every file it imports, then resolves the type
// references of all loaded messages.
func (r *Registry) LoadFile(protoFile string) error {
	paths, err := r.getAllProtoInfo(protoFile)
	if err != nil {
		return fmt.Errorf("failed to load proto file %s: %w", protoFile, err)
	}
	for _, p := range paths {
		r.registerNames(r.files[p])
	}
	return r.resolveTypes()
}

// LoadSchema loads a single .proto file, or every .proto file below a
// directory.
func (r *Registry) LoadSchema(protoPath string) error {
	info, err := os.Stat(protoPath)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}

	if !info.IsDir() {
		if !strings.HasSuffix(protoPath, ".proto") {
			return fmt.Errorf("file %s is not a .proto file", protoPath)
		}
		return r.LoadFile(protoPath)
	}

	err = filepath.WalkDir(protoPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip directories and non-proto files
		if d.IsDir() || !strings.HasSuffix(path, ".proto") {
			return nil
		}

		return r.LoadFile(path)
	})
	if err != nil {
		return fmt.Errorf("failed to walk directory: %w", err)
	}
	return nil
}

// registerNames registers all message and enum names of a file
func (r *Registry) registerNames(protoFile *schema.ProtoFile) {
	for _, msg := range protoFile.Messages {
		r.registerMessage(msg)
	}
	for _, enum := range protoFile.Enums {
		r.enums[enum.FullName] = enum
	}
}

func (r *Registry) registerMessage(msg *schema.Message) {
	r.messages[msg.FullName] = msg
	for _, nested := range msg.NestedTypes {
		r.registerMessage(nested)
	}
	for _, enum := range msg.NestedEnums {
		r.enums[enum.FullName] = enum
	}
}

// resolveTypes replaces the raw type names of message and enum fields with
// fully qualified names.
func (r *Registry) resolveTypes() error {
	entities := make(map[string]struct{}, len(r.messages)+len(r.enums))
	for name := range r.messages {
		entities[name] = struct{}{}
	}
	for name := range r.enums {
		entities[name] = struct{}{}
	}

	for _, msg := range r.messages {
		for _, field := range msg.Fields {
			if err := r.resolveFieldType(&field.Type, msg.FullName, entities); err != nil {
				return fmt.Errorf("field %s.%s: %w", msg.FullName, field.Name, err)
			}
			if field.Type.Kind == schema.KindMap {
				if err := r.resolveFieldType(field.Type.MapValue, msg.FullName, entities); err != nil {
					return fmt.Errorf("field %s.%s: %w", msg.FullName, field.Name, err)
				}
			}
		}
	}
	return nil
}

func (r *Registry) resolveFieldType(t *schema.FieldType, prefix string, entities map[string]struct{}) error {
	if t.TypeName == "" || t.Kind == schema.KindPrimitive || t.Kind == schema.KindMap {
		return nil
	}

	name, err := getReferencedType(t.TypeName, prefix, entities)
	if err != nil {
		if isWellKnown(t.TypeName) {
			t.Kind = schema.KindExternal
			return nil
		}
		return err
	}

	if _, ok := r.messages[name]; ok {
		t.Kind = schema.KindMessage
		t.MessageType = name
		return nil
	}
	t.Kind = schema.KindEnum
	t.EnumType = name
	return nil
}

func isWellKnown(typeName string) bool {
	return strings.HasPrefix(strings.TrimPrefix(typeName, "."), "google.protobuf.")
}

// GetMessage retrieves a message definition by name
func (r *Registry) GetMessage(name string) (*schema.Message, error) {
	name = strings.TrimPrefix(name, ".")
	if msg, exists := r.messages[name]; exists {
		return msg, nil
	}

	// Try without package prefix
	for _, fullName := range r.ListMessages() {
		if strings.HasSuffix(fullName, "."+name) {
			return r.messages[fullName], nil
		}
	}

	return nil, fmt.Errorf("message not found: %s", name)
}

// GetEnum retrieves an enum definition by name
func (r *Registry) GetEnum(name string) (*schema.Enum, error) {
	name = strings.TrimPrefix(name, ".")
	if enum, exists := r.enums[name]; exists {
		return enum, nil
	}

	// Try without package prefix
	for _, fullName := range r.ListEnums() {
		if strings.HasSuffix(fullName, "."+name) {
			return r.enums[fullName], nil
		}
	}

	return nil, fmt.Errorf("enum not found: %s", name)
}

// ListMessages returns all registered message names, sorted
func (r *Registry) ListMessages() []string {
	names := make([]string, 0, len(r.messages))
	for name := range r.messages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListEnums returns all registered enum names, sorted
func (r *Registry) ListEnums() []string {
	names := make([]string, 0, len(r.enums))
	for name := range r.enums {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MapEntryMessage builds the synthetic message a map field is encoded as:
// key is field 1 and value is field 2.
func MapEntryMessage(field *schema.Field) *schema.Message {
	entry := &schema.Message{
		Name:     field.Name + "Entry",
		MapEntry: true,
	}
	if field.Type.MapKey != nil {
		entry.Fields = append(entry.Fields, &schema.Field{Name: "key", Number: 1, Label: schema.LabelOptional, Type: *field.Type.MapKey})
	}
	if field.Type.MapValue != nil {
		entry.Fields = append(entry.Fields, &schema.Field{Name: "value", Number: 2, Label: schema.LabelOptional, Type: *field.Type.MapValue})
	}
	return entry
}
