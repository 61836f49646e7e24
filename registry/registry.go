// Package registry stores display type definitions for known message
// types. The inspector looks fields up here to render them with their real
// kinds and names; anything not registered falls back to wire-type
// heuristics. Definitions come from TOML typedef files or from .proto
// schemas.
package registry

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	protoparser "github.com/yoheimuta/go-protoparser/v4"
	protoparserparser "github.com/yoheimuta/go-protoparser/v4/parser"

	"github.com/protosift/protosift/schema"
)

// Registry maps message type names to their known field tables and enum
// type names to their value labels. Lookups never fail hard: a miss means
// "render heuristically".
type Registry struct {
	messages map[string]*schema.Message
	enums    map[string]map[int32]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		messages: make(map[string]*schema.Message),
		enums:    make(map[string]map[int32]string),
	}
}

// Message returns the definition registered under typeName, trying an
// exact match first and then a suffix match so that short names resolve
// against package-qualified registrations.
func (r *Registry) Message(typeName string) (*schema.Message, bool) {
	if msg, ok := r.messages[typeName]; ok {
		return msg, true
	}
	for name, msg := range r.messages {
		if strings.HasSuffix(name, "."+typeName) {
			return msg, true
		}
	}
	return nil, false
}

// Lookup returns the field definition for a field number of typeName.
func (r *Registry) Lookup(typeName string, number int32) (schema.Field, bool) {
	msg, ok := r.Message(typeName)
	if !ok {
		return schema.Field{}, false
	}
	field, ok := msg.Fields[number]
	return field, ok
}

// EnumLabel resolves an enum value to its declared label.
func (r *Registry) EnumLabel(enumType string, value int32) (string, bool) {
	values, ok := r.enums[enumType]
	if !ok {
		for name, v := range r.enums {
			if strings.HasSuffix(name, "."+enumType) {
				values = v
				ok = true
				break
			}
		}
	}
	if !ok {
		return "", false
	}
	label, ok := values[value]
	return label, ok
}

// ===== TOML TYPEDEFS =====

// typedefFile is the TOML shape: [types.<message>] tables mapping field
// numbers to "<kind> <name>" strings, plus optional [enums.<name>] tables
// mapping values to labels.
type typedefFile struct {
	Types map[string]map[string]string `toml:"types"`
	Enums map[string]map[string]string `toml:"enums"`
}

// LoadTypedefs merges a TOML typedef file into the registry.
func (r *Registry) LoadTypedefs(path string) error {
	var file typedefFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return fmt.Errorf("failed to parse typedefs %s: %w", path, err)
	}

	for typeName, fields := range file.Types {
		msg, ok := r.messages[typeName]
		if !ok {
			msg = schema.NewMessage(typeName)
			r.messages[typeName] = msg
		}
		for numberText, def := range fields {
			number, err := strconv.ParseInt(numberText, 10, 32)
			if err != nil || number <= 0 {
				return fmt.Errorf("typedefs %s: bad field number %q in type %s", path, numberText, typeName)
			}
			msg.Fields[int32(number)] = parseFieldDef(def)
		}
	}

	for enumName, values := range file.Enums {
		labels, ok := r.enums[enumName]
		if !ok {
			labels = make(map[int32]string)
			r.enums[enumName] = labels
		}
		for valueText, label := range values {
			value, err := strconv.ParseInt(valueText, 10, 32)
			if err != nil {
				return fmt.Errorf("typedefs %s: bad enum value %q in enum %s", path, valueText, enumName)
			}
			labels[int32(value)] = label
		}
	}
	return nil
}

// parseFieldDef splits a "<kind> <name>" typedef string. An unknown first
// token is treated as a message type reference, mirroring the fallback of
// the display layer.
func parseFieldDef(def string) schema.Field {
	parts := strings.Fields(def)
	if len(parts) == 0 {
		return schema.Field{Kind: schema.KindMessage}
	}
	name := strings.Join(parts[1:], " ")
	if kind, ok := schema.KindFromName(parts[0]); ok {
		field := schema.Field{Name: name, Kind: kind}
		if kind == schema.KindEnum && len(parts) > 1 {
			// "enum Status status" carries the enum type before the name.
			field.TypeName = parts[1]
			field.Name = strings.Join(parts[2:], " ")
		}
		return field
	}
	return schema.Field{Name: name, Kind: schema.KindMessage, TypeName: parts[0]}
}

// ===== .PROTO SCHEMAS =====

// LoadSchema parses a .proto file, or recursively every .proto file under
// a directory, and registers the message and enum definitions found.
func (r *Registry) LoadSchema(protoPath string) error {
	info, err := os.Stat(protoPath)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}

	if !info.IsDir() {
		if !strings.HasSuffix(protoPath, ".proto") {
			return fmt.Errorf("file %s is not a .proto file", protoPath)
		}
		return r.loadSingleProtoFile(protoPath)
	}

	return filepath.WalkDir(protoPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".proto") {
			return nil
		}
		if err := r.loadSingleProtoFile(path); err != nil {
			return fmt.Errorf("failed to load proto file %s: %w", path, err)
		}
		return nil
	})
}

func (r *Registry) loadSingleProtoFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	parsed, err := protoparser.Parse(bytes.NewBuffer(content))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	pkg := ""
	for _, body := range parsed.ProtoBody {
		if p, ok := body.(*protoparserparser.Package); ok {
			pkg = p.Name
		}
	}

	// Pass 1: register enum names so field types can be told apart from
	// message references.
	for _, body := range parsed.ProtoBody {
		switch b := body.(type) {
		case *protoparserparser.Enum:
			r.addProtoEnum(qualify(pkg, b.EnumName), b)
		case *protoparserparser.Message:
			r.collectNestedEnums(qualify(pkg, b.MessageName), b)
		}
	}

	// Pass 2: build field tables.
	for _, body := range parsed.ProtoBody {
		if msg, ok := body.(*protoparserparser.Message); ok {
			r.addProtoMessage(qualify(pkg, msg.MessageName), msg)
		}
	}
	return nil
}

func qualify(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func (r *Registry) collectNestedEnums(fullName string, msg *protoparserparser.Message) {
	for _, body := range msg.MessageBody {
		switch b := body.(type) {
		case *protoparserparser.Enum:
			r.addProtoEnum(qualify(fullName, b.EnumName), b)
		case *protoparserparser.Message:
			r.collectNestedEnums(qualify(fullName, b.MessageName), b)
		}
	}
}

func (r *Registry) addProtoEnum(fullName string, enum *protoparserparser.Enum) {
	labels := make(map[int32]string)
	for _, body := range enum.EnumBody {
		field, ok := body.(*protoparserparser.EnumField)
		if !ok {
			continue
		}
		value, err := strconv.ParseInt(field.Number, 10, 32)
		if err != nil {
			continue
		}
		labels[int32(value)] = field.Ident
	}
	r.enums[fullName] = labels
}

func (r *Registry) addProtoMessage(fullName string, msg *protoparserparser.Message) {
	def := schema.NewMessage(fullName)
	r.messages[fullName] = def

	for _, body := range msg.MessageBody {
		switch b := body.(type) {
		case *protoparserparser.Field:
			if field, number, ok := r.protoField(b.Type, b.FieldName, b.FieldNumber, b.IsRepeated); ok {
				def.Fields[number] = field
			}
		case *protoparserparser.Oneof:
			for _, of := range b.OneofFields {
				if field, number, ok := r.protoField(of.Type, of.FieldName, of.FieldNumber, false); ok {
					def.Fields[number] = field
				}
			}
		case *protoparserparser.Message:
			r.addProtoMessage(qualify(fullName, b.MessageName), b)
		}
	}
}

// protoField converts one parsed field declaration. Repeated numeric
// fields map to the packed kind; unresolved type names become message
// references rendered by recursion.
func (r *Registry) protoField(typeName, fieldName, numberText string, repeated bool) (schema.Field, int32, bool) {
	number, err := strconv.ParseInt(numberText, 10, 32)
	if err != nil || number <= 0 {
		return schema.Field{}, 0, false
	}

	if kind, ok := schema.KindFromName(typeName); ok {
		if repeated && kind.WireType() != 2 {
			kind = schema.KindPacked
		}
		return schema.Field{Name: fieldName, Kind: kind}, int32(number), true
	}
	if _, ok := r.enumExists(typeName); ok {
		return schema.Field{Name: fieldName, Kind: schema.KindEnum, TypeName: typeName}, int32(number), true
	}
	return schema.Field{Name: fieldName, Kind: schema.KindMessage, TypeName: typeName}, int32(number), true
}

func (r *Registry) enumExists(name string) (string, bool) {
	if _, ok := r.enums[name]; ok {
		return name, true
	}
	for full := range r.enums {
		if strings.HasSuffix(full, "."+name) {
			return full, true
		}
	}
	return "", false
}
