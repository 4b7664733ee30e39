package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/okra-platform/protoc-gen-eams/internal/codegen/summary"
	"github.com/okra-platform/protoc-gen-eams/internal/schema"
)

// Test plan:
// 1. A nil generator is rejected
// 2. A file with unsupported syntax aborts the whole batch before any output
// 3. Invalid messages abort the batch with the offending file named
// 4. Each unit receives only the messages of its own file
// 5. References resolve across files in request order
// 6. A render failure is recorded and later files are still rendered
// 7. Unit names, namespaces and includes are derived from the file
// 8. Unresolved references are logged, collected and forwarded
// 9. Two runs over the same input produce identical output

// mockGenerator records the files it renders and fails for selected names
type mockGenerator struct {
	rendered []*schema.File
	failOn   map[string]bool
}

func (m *mockGenerator) Generate(file *schema.File) ([]byte, error) {
	if m.failOn[file.Name] {
		return nil, errors.New("template exploded")
	}
	m.rendered = append(m.rendered, file)

	names := make([]string, 0, len(file.Messages))
	for _, msg := range file.Messages {
		names = append(names, msg.FullName)
	}
	return []byte(strings.Join(names, ",")), nil
}

func (m *mockGenerator) Language() string      { return "mock" }
func (m *mockGenerator) FileExtension() string { return ".h" }

func protoFile(name, pkg string, messages ...*descriptorpb.DescriptorProto) *descriptorpb.FileDescriptorProto {
	fd := &descriptorpb.FileDescriptorProto{
		Name:        proto.String(name),
		Syntax:      proto.String("proto3"),
		MessageType: messages,
	}
	if pkg != "" {
		fd.Package = proto.String(pkg)
	}
	return fd
}

func msg(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

func scalar(name string, number int32, t descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Type:   t.Enum(),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
	}
}

func ref(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	f := scalar(name, number, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE)
	f.TypeName = proto.String(typeName)
	return f
}

func TestCompile_NilGenerator(t *testing.T) {
	_, err := Compile(nil, nil)
	assert.ErrorIs(t, err, ErrNilGenerator)
}

func TestCompile_UnsupportedSyntax(t *testing.T) {
	tests := []struct {
		name   string
		syntax *string
	}{
		{name: "proto2", syntax: proto.String("proto2")},
		{name: "unset", syntax: nil},
		{name: "editions", syntax: proto.String("editions")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			legacy := protoFile("legacy.proto", "", msg("Old"))
			legacy.Syntax = tt.syntax

			gen := &mockGenerator{}
			files := []*descriptorpb.FileDescriptorProto{
				protoFile("first.proto", "", msg("First")),
				legacy,
			}

			result, err := Compile(files, gen)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrUnsupportedSyntax)

			var fileErr *FileError
			require.ErrorAs(t, err, &fileErr)
			assert.Equal(t, "legacy.proto", fileErr.File)
			assert.Contains(t, err.Error(), "please use proto3")

			// Test: nothing was rendered, not even the valid first file
			assert.Empty(t, gen.rendered)
		})
	}
}

func TestCompile_InvalidMessageAborts(t *testing.T) {
	gen := &mockGenerator{}
	files := []*descriptorpb.FileDescriptorProto{
		protoFile("ok.proto", "", msg("Fine")),
		protoFile("bad.proto", "", msg("Clash",
			scalar("a", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32),
			scalar("b", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32),
		)),
	}

	result, err := Compile(files, gen)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, schema.ErrDuplicateFieldNumber)
	assert.True(t, strings.HasPrefix(err.Error(), "bad.proto: "))
	assert.Empty(t, gen.rendered)
}

func TestCompile_PerFileMessages(t *testing.T) {
	gen := &mockGenerator{}
	files := []*descriptorpb.FileDescriptorProto{
		protoFile("geo/point.proto", "geo", msg("Point",
			scalar("x", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32),
			scalar("label", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
		)),
		protoFile("geo/line.proto", "geo",
			msg("Line", ref("start", 1, ".geo.Point"), ref("end", 2, ".geo.Point")),
			msg("Path", ref("head", 1, ".geo.Line")),
		),
	}
	files[1].Dependency = []string{"geo/point.proto"}

	result, err := Compile(files, gen)
	require.NoError(t, err)
	require.Len(t, result.Units, 2)
	assert.Empty(t, result.Failures)
	assert.Empty(t, result.Unresolved)

	assert.Equal(t, Unit{Name: "geo/point.h", Content: "geo::Point"}, result.Units[0])
	assert.Equal(t, Unit{Name: "geo/line.h", Content: "geo::Line,geo::Path"}, result.Units[1])

	require.Len(t, gen.rendered, 2)
	line := gen.rendered[1]
	assert.Equal(t, "geo/line", line.Name)
	assert.Equal(t, "geo", line.Namespace)
	assert.Equal(t, []string{"geo/point.h"}, line.Dependencies)

	// Test: references into the earlier file are resolved and propagated
	lineMsg := line.Messages[0]
	assert.Equal(t, "geo::Point<start_label_LENGTH>", lineMsg.Fields[0].Type)
	assert.Equal(t, "geo::Point<end_label_LENGTH>", lineMsg.Fields[1].Type)
	assert.Equal(t, "geo::Line<head_start_label_LENGTH, head_end_label_LENGTH>", line.Messages[1].Fields[0].Type)
}

func TestCompile_RenderFailureContinues(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	gen := &mockGenerator{failOn: map[string]bool{"b": true}}
	files := []*descriptorpb.FileDescriptorProto{
		protoFile("a.proto", "", msg("A")),
		protoFile("b.proto", "", msg("B")),
		protoFile("c.proto", "", msg("C")),
	}

	result, err := Compile(files, gen, WithLogger(logger))
	require.NoError(t, err)

	require.Len(t, result.Units, 2)
	assert.Equal(t, "a.h", result.Units[0].Name)
	assert.Equal(t, "A", result.Units[0].Content)
	assert.Equal(t, "c.h", result.Units[1].Name)
	assert.Equal(t, "C", result.Units[1].Content)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, "b.proto", result.Failures[0].File)
	assert.Contains(t, result.Failures[0].Error(), "template exploded")

	assert.Contains(t, buf.String(), "failed to render file")
}

func TestCompile_Enums(t *testing.T) {
	fd := protoFile("status.proto", "", msg("Report",
		&descriptorpb.FieldDescriptorProto{
			Name:     proto.String("status"),
			Number:   proto.Int32(1),
			Type:     descriptorpb.FieldDescriptorProto_TYPE_ENUM.Enum(),
			TypeName: proto.String(".Status"),
		},
	))
	fd.EnumType = []*descriptorpb.EnumDescriptorProto{{
		Name: proto.String("Status"),
		Value: []*descriptorpb.EnumValueDescriptorProto{
			{Name: proto.String("UNKNOWN"), Number: proto.Int32(0)},
			{Name: proto.String("OK"), Number: proto.Int32(1)},
		},
	}}

	gen := &mockGenerator{}
	_, err := Compile([]*descriptorpb.FileDescriptorProto{fd}, gen)
	require.NoError(t, err)

	require.Len(t, gen.rendered, 1)
	file := gen.rendered[0]
	require.Len(t, file.Enums, 1)
	assert.Equal(t, "Status", file.Enums[0].Name)
	assert.Empty(t, file.Namespace)
	assert.Equal(t, "static_cast<Status>(0)", file.Messages[0].Fields[0].DefaultValue)
}

func TestCompile_Unresolved(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	var hooked []schema.Unresolved
	files := []*descriptorpb.FileDescriptorProto{
		protoFile("tree.proto", "",
			msg("Tree", ref("root", 1, ".Node")),
			msg("Node", ref("next", 1, ".Node")),
		),
	}

	result, err := Compile(files, &mockGenerator{},
		WithLogger(logger),
		WithUnresolvedHook(func(u schema.Unresolved) { hooked = append(hooked, u) }),
	)
	require.NoError(t, err)

	expected := []schema.Unresolved{
		{Message: "Tree", Field: "root", Type: "Node"},
		{Message: "Node", Field: "next", Type: "Node"},
	}
	assert.Equal(t, expected, result.Unresolved)
	assert.Equal(t, expected, hooked)
	assert.Contains(t, buf.String(), `"field":"root"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestCompile_Deterministic(t *testing.T) {
	build := func() []*descriptorpb.FileDescriptorProto {
		return []*descriptorpb.FileDescriptorProto{
			protoFile("names.proto", "demo", msg("Name",
				scalar("value", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			)),
			protoFile("people.proto", "demo", msg("Person",
				ref("first", 1, ".demo.Name"),
				ref("last", 2, ".demo.Name"),
				scalar("age", 3, descriptorpb.FieldDescriptorProto_TYPE_UINT32),
			)),
		}
	}

	run := func() []Unit {
		result, err := Compile(build(), summary.NewGenerator(""))
		require.NoError(t, err)
		return result.Units
	}

	first := run()
	second := run()
	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.Contains(t, first[1].Content, "first_value_LENGTH")
}

func TestCompile_NestedMessageWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.WarnLevel)

	outer := msg("Outer")
	outer.NestedType = []*descriptorpb.DescriptorProto{msg("Inner")}

	gen := &mockGenerator{}
	result, err := Compile([]*descriptorpb.FileDescriptorProto{protoFile("n.proto", "", outer)}, gen, WithLogger(logger))
	require.NoError(t, err)
	require.Len(t, result.Units, 1)
	assert.Equal(t, "Outer", result.Units[0].Content)
	assert.Contains(t, buf.String(), "nested message declarations are not generated")
}

func TestUnitName(t *testing.T) {
	tests := []struct {
		source, ext, expected string
	}{
		{"point.proto", ".h", "point.h"},
		{"geo/v1/point.proto", ".hpp", "geo/v1/point.hpp"},
		{"noext", ".h", "noext.h"},
		{"dotted.name/file.proto", ".h", "dotted.name/file.h"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s%s", tt.source, tt.ext), func(t *testing.T) {
			assert.Equal(t, tt.expected, UnitName(tt.source, tt.ext))
		})
	}
}

func TestNamespace(t *testing.T) {
	assert.Equal(t, "", Namespace(""))
	assert.Equal(t, "demo", Namespace("demo"))
	assert.Equal(t, "demo::v1", Namespace("demo.v1"))
}
