package registry

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	protoparser "github.com/yoheimuta/go-protoparser/v4"
	protoparserparser "github.com/yoheimuta/go-protoparser/v4/parser"

	"github.com/anirudhraja/protocodec/schema"
)

// getAllProtoInfo uses DFS to parse protoFile and everything it imports. It
// returns the resolved paths of all files visited, already loaded files
// included.
func (r *Registry) getAllProtoInfo(protoFile string) ([]string, error) {
	visited := make(map[string]struct{}) // to make sure we don't end up in a loop
	result := make([]string, 0)

	var dfs func(protoPath string) error
	dfs = func(protoPath string) error {
		if _, ok := visited[protoPath]; ok {
			return nil
		}
		visited[protoPath] = struct{}{}
		result = append(result, protoPath)

		if _, ok := r.files[protoPath]; ok {
			return nil
		}

		protoBytes, err := os.ReadFile(protoPath)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		parsedBody, err := protoparser.Parse(bytes.NewBuffer(protoBytes), protoparser.WithFilename(protoPath))
		if err != nil {
			return err
		}

		file := convertProto(protoPath, parsedBody)
		for _, body := range parsedBody.ProtoBody {
			b, ok := body.(*protoparserparser.Import)
			if !ok {
				continue
			}
			importPath := strings.Trim(b.Location, `"`)
			// well-known types are not shipped with the schema
			if strings.HasPrefix(importPath, "google/protobuf/") {
				continue
			}
			fullImportPath, err := r.findIfProtoExists(importPath)
			if err != nil {
				return err
			}
			file.Imports = append(file.Imports, fullImportPath)
			if err = dfs(fullImportPath); err != nil {
				return err
			}
		}
		r.files[protoPath] = file
		return nil
	}

	protoPath, err := r.findIfProtoExists(protoFile)
	if err != nil {
		return nil, err
	}
	if err := dfs(protoPath); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Registry) findIfProtoExists(protoPath string) (string, error) {
	var (
		fullPath      string
		fullProtoPath string
		err           error
	)
	protoPath = strings.Trim(protoPath, `"`)
	for _, dir := range r.ProtoDirectories {
		fullPath = path.Join(dir, protoPath)
		if _, err = os.Stat(fullPath); err == nil {
			fullProtoPath = fullPath
			break
		}
	}
	// paths found by LoadSchema's directory walk are already complete
	if fullProtoPath == "" {
		if _, statErr := os.Stat(protoPath); statErr == nil {
			fullProtoPath = protoPath
		}
	}
	if fullProtoPath == "" {
		return "", fmt.Errorf("path does not exist: %s %w", fullPath, err)
	}
	if !strings.HasSuffix(fullProtoPath, ".proto") {
		return "", fmt.Errorf("is not a .proto file %s", fullPath)
	}
	return fullProtoPath, nil
}

// convertProto turns the parser AST of one file into schema definitions.
// Type references are left unresolved; see Registry.resolveTypes.
func convertProto(name string, proto *protoparserparser.Proto) *schema.ProtoFile {
	file := &schema.ProtoFile{
		Name:   name,
		Syntax: "proto2", // protoc's default when no syntax statement is present
	}
	if proto.Syntax != nil {
		file.Syntax = proto.Syntax.ProtobufVersion
	}

	for _, body := range proto.ProtoBody {
		if pkg, ok := body.(*protoparserparser.Package); ok {
			file.Package = pkg.Name
		}
	}

	for _, body := range proto.ProtoBody {
		switch b := body.(type) {
		case *protoparserparser.Message:
			file.Messages = append(file.Messages, convertMessage(b, file.Package))
		case *protoparserparser.Enum:
			file.Enums = append(file.Enums, convertEnum(b, file.Package))
		}
	}
	return file
}

func convertMessage(m *protoparserparser.Message, prefix string) *schema.Message {
	msg := &schema.Message{
		Name:     m.MessageName,
		FullName: qualify(prefix, m.MessageName),
	}

	for _, body := range m.MessageBody {
		switch b := body.(type) {
		case *protoparserparser.Field:
			label := schema.LabelOptional
			if b.IsRepeated {
				label = schema.LabelRepeated
			} else if b.IsRequired {
				label = schema.LabelRequired
			}
			msg.Fields = append(msg.Fields, &schema.Field{
				Name:   b.FieldName,
				Number: parseFieldNumber(b.FieldNumber),
				Label:  label,
				Type:   fieldType(b.Type),
			})
		case *protoparserparser.MapField:
			key := fieldType(b.KeyType)
			value := fieldType(b.Type)
			msg.Fields = append(msg.Fields, &schema.Field{
				Name:   b.MapName,
				Number: parseFieldNumber(b.FieldNumber),
				Label:  schema.LabelRepeated,
				Type: schema.FieldType{
					Kind:     schema.KindMap,
					MapKey:   &key,
					MapValue: &value,
				},
			})
		case *protoparserparser.Oneof:
			for _, of := range b.OneofFields {
				msg.Fields = append(msg.Fields, &schema.Field{
					Name:   of.FieldName,
					Number: parseFieldNumber(of.FieldNumber),
					Label:  schema.LabelOptional,
					Type:   fieldType(of.Type),
					Oneof:  b.OneofName,
				})
			}
		case *protoparserparser.Message:
			msg.NestedTypes = append(msg.NestedTypes, convertMessage(b, msg.FullName))
		case *protoparserparser.Enum:
			msg.NestedEnums = append(msg.NestedEnums, convertEnum(b, msg.FullName))
		}
	}
	return msg
}

func convertEnum(e *protoparserparser.Enum, prefix string) *schema.Enum {
	enum := &schema.Enum{
		Name:     e.EnumName,
		FullName: qualify(prefix, e.EnumName),
	}
	for _, body := range e.EnumBody {
		if v, ok := body.(*protoparserparser.EnumField); ok {
			enum.Values = append(enum.Values, &schema.EnumValue{
				Name:   v.Ident,
				Number: parseFieldNumber(v.Number),
			})
		}
	}
	return enum
}

func fieldType(typeName string) schema.FieldType {
	if p, ok := schema.LookupPrimitive(typeName); ok {
		return schema.FieldType{Kind: schema.KindPrimitive, PrimitiveType: p, TypeName: typeName}
	}
	return schema.FieldType{TypeName: typeName}
}

// parseFieldNumber accepts decimal, hex and octal literals, and negative enum
// numbers. Malformed numbers come back as 0, which never matches the wire.
func parseFieldNumber(s string) int32 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0
	}
	return int32(n)
}

func qualify(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

/*
This helper function will return the entity for any referenced type ,
Be it top/file,nested or imported entities.If not found will return an error
Ref - https://github.com/protocolbuffers/protobuf/blob/b7a5772caf08d62a20fd1bca258f501fa4db022c/src/google/protobuf/descriptor.proto#L186-L191
*/
func getReferencedType(typeName, prefix string, allResolvedEntities map[string]struct{}) (string, error) {
	// check if fully qualifed prefixed by dot
	if strings.HasPrefix(typeName, ".") {
		return getFullyQualifiedType(typeName, allResolvedEntities)
	}
	// try resolving from inner entities up till the parent package
	if result, ok := splitNameAndCheck(typeName, prefix, allResolvedEntities); ok {
		return result, nil
	}
	//  check if the entity is referenced to other packages via packageName
	if _, ok := allResolvedEntities[typeName]; ok {
		return typeName, nil
	}
	return "", fmt.Errorf("unable to resolve type name: %s", typeName)
}

// splitNameAndCheck splits the prefixName and tries to append the typeName and find the entity for resolution
// it also tries the find the entities defined using relative path
func splitNameAndCheck(typeName, prefix string, allResolvedEntities map[string]struct{}) (string, bool) {
	prefixSplit := strings.Split(prefix, ".")

	for len(prefixSplit) > 0 && prefixSplit[0] != "" {
		entityName := strings.Join(prefixSplit, ".") + "." + typeName
		if _, ok := allResolvedEntities[entityName]; ok {
			return entityName, true
		}
		// Omit the last element in each iteration as we go level above to outer entity
		prefixSplit = prefixSplit[:len(prefixSplit)-1]
	}
	return "", false
}

func getFullyQualifiedType(typeName string, allResolvedEntities map[string]struct{}) (string, error) {
	typeName = strings.TrimPrefix(typeName, ".")
	if _, ok := allResolvedEntities[typeName]; ok {
		return typeName, nil
	}
	return "", fmt.Errorf("unable to resolve fully qualified type name: %s", typeName)
}
