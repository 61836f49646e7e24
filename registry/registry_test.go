package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protosift/protosift/schema"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTypedefs(t *testing.T) {
	path := writeFixture(t, "types.toml", `
[types.Person]
1 = "string name"
2 = "int32 id"
3 = "Address address"
4 = "enum Status status"

[types.Address]
1 = "string street"

[enums.Status]
0 = "STATUS_UNKNOWN"
1 = "STATUS_ACTIVE"
`)

	reg := NewRegistry()
	require.NoError(t, reg.LoadTypedefs(path))

	field, ok := reg.Lookup("Person", 1)
	require.True(t, ok)
	assert.Equal(t, schema.Field{Name: "name", Kind: schema.KindString}, field)

	field, ok = reg.Lookup("Person", 2)
	require.True(t, ok)
	assert.Equal(t, schema.KindInt32, field.Kind)

	// Unknown first token means a message type reference.
	field, ok = reg.Lookup("Person", 3)
	require.True(t, ok)
	assert.Equal(t, schema.KindMessage, field.Kind)
	assert.Equal(t, "Address", field.TypeName)
	assert.Equal(t, "address", field.Name)

	// Enum fields carry the enum type name before the field name.
	field, ok = reg.Lookup("Person", 4)
	require.True(t, ok)
	assert.Equal(t, schema.KindEnum, field.Kind)
	assert.Equal(t, "Status", field.TypeName)
	assert.Equal(t, "status", field.Name)

	label, ok := reg.EnumLabel("Status", 1)
	require.True(t, ok)
	assert.Equal(t, "STATUS_ACTIVE", label)

	_, ok = reg.Lookup("Person", 99)
	assert.False(t, ok)
	_, ok = reg.Lookup("Nonexistent", 1)
	assert.False(t, ok)
}

func TestLoadTypedefsRejectsBadFieldNumber(t *testing.T) {
	path := writeFixture(t, "types.toml", `
[types.Broken]
0 = "string name"
`)
	reg := NewRegistry()
	assert.Error(t, reg.LoadTypedefs(path))
}

func TestLoadSchemaSingleFile(t *testing.T) {
	path := writeFixture(t, "person.proto", `
syntax = "proto3";
package example;

enum Status {
  STATUS_UNKNOWN = 0;
  STATUS_ACTIVE = 1;
}

message Person {
  string name = 1;
  int32 id = 2;
  repeated int64 scores = 3;
  repeated string tags = 4;
  Status status = 5;
  Address address = 6;

  message Address {
    string street = 1;
  }

  oneof contact {
    string email = 7;
    fixed64 phone = 8;
  }
}
`)

	reg := NewRegistry()
	require.NoError(t, reg.LoadSchema(path))

	// Registered under the package-qualified name, reachable by suffix.
	msg, ok := reg.Message("example.Person")
	require.True(t, ok)
	assert.Equal(t, "example.Person", msg.Name)
	_, ok = reg.Message("Person")
	assert.True(t, ok)

	field, ok := reg.Lookup("Person", 1)
	require.True(t, ok)
	assert.Equal(t, schema.Field{Name: "name", Kind: schema.KindString}, field)

	// Repeated numerics become packed; repeated strings stay strings.
	field, _ = reg.Lookup("Person", 3)
	assert.Equal(t, schema.KindPacked, field.Kind)
	field, _ = reg.Lookup("Person", 4)
	assert.Equal(t, schema.KindString, field.Kind)

	// Enum references resolve because the enum was seen in pass one.
	field, _ = reg.Lookup("Person", 5)
	assert.Equal(t, schema.KindEnum, field.Kind)
	assert.Equal(t, "Status", field.TypeName)

	field, _ = reg.Lookup("Person", 6)
	assert.Equal(t, schema.KindMessage, field.Kind)
	assert.Equal(t, "Address", field.TypeName)

	// Nested messages register with their dotted prefix.
	field, ok = reg.Lookup("example.Person.Address", 1)
	require.True(t, ok)
	assert.Equal(t, "street", field.Name)

	// Oneof members land in the same field table.
	field, ok = reg.Lookup("Person", 7)
	require.True(t, ok)
	assert.Equal(t, schema.KindString, field.Kind)
	field, ok = reg.Lookup("Person", 8)
	require.True(t, ok)
	assert.Equal(t, schema.KindFixed64, field.Kind)

	label, ok := reg.EnumLabel("example.Status", 0)
	require.True(t, ok)
	assert.Equal(t, "STATUS_UNKNOWN", label)
}

func TestLoadSchemaDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.proto"), []byte(`
syntax = "proto3";
message First { string name = 1; }
`), 0o644))
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "b.proto"), []byte(`
syntax = "proto3";
message Second { int32 id = 1; }
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	reg := NewRegistry()
	require.NoError(t, reg.LoadSchema(dir))

	_, ok := reg.Message("First")
	assert.True(t, ok)
	_, ok = reg.Message("Second")
	assert.True(t, ok)
}

func TestLoadSchemaRejectsNonProtoFile(t *testing.T) {
	path := writeFixture(t, "schema.txt", "not a proto")
	reg := NewRegistry()
	assert.Error(t, reg.LoadSchema(path))
}

func TestLoadSchemaMissingPath(t *testing.T) {
	reg := NewRegistry()
	assert.Error(t, reg.LoadSchema(filepath.Join(t.TempDir(), "absent.proto")))
}
