package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/okra-platform/protoc-gen-eams/internal/schema"
)

func field(name string, number int32, t descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Type:   t.Enum(),
	}
}

func TestGenerator_Defaults(t *testing.T) {
	gen := NewGenerator("")
	assert.Equal(t, "summary", gen.Language())
	assert.Equal(t, ".eams.txt", gen.FileExtension())
	assert.Equal(t, ".txt", NewGenerator(".txt").FileExtension())
}

func TestGenerator_Generate(t *testing.T) {
	ctx := schema.NewContext()

	_, err := ctx.Compile(&descriptorpb.DescriptorProto{
		Name:  proto.String("Name"),
		Field: []*descriptorpb.FieldDescriptorProto{field("value", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING)},
	}, "demo")
	require.NoError(t, err)

	owner := field("owner", 2, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE)
	owner.TypeName = proto.String(".demo.Name")
	next := field("next", 3, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE)
	next.TypeName = proto.String(".demo.Later")
	next.OneofIndex = proto.Int32(0)

	_, err = ctx.Compile(&descriptorpb.DescriptorProto{
		Name:      proto.String("Pet"),
		Field:     []*descriptorpb.FieldDescriptorProto{field("age", 1, descriptorpb.FieldDescriptorProto_TYPE_UINT32), owner, next},
		OneofDecl: []*descriptorpb.OneofDescriptorProto{{Name: proto.String("link")}},
	}, "demo")
	require.NoError(t, err)

	out, err := NewGenerator("").Generate(&schema.File{
		Name:         "demo/pet",
		Namespace:    "demo",
		Messages:     ctx.Messages(),
		Dependencies: []string{"demo/base.eams.txt"},
		Enums: []*schema.Enum{{
			Name:   "Kind",
			Values: []schema.EnumValue{{Name: "CAT", Number: 0}, {Name: "DOG", Number: 1}},
		}},
	})
	require.NoError(t, err)

	expected := `file demo/pet
namespace demo
include demo/base.eams.txt

enum Kind {
  CAT = 0
  DOG = 1
}

message demo::Name {
  template <uint32_t value_LENGTH>
  1 value: ::EmbeddedProto::FieldString<value_LENGTH> LENGTH_DELIMITED
  ids [VALUE]
}

message demo::Pet {
  template <uint32_t owner_value_LENGTH>
  1 age: EmbeddedProto::uint32 VARINT
  2 owner: demo::Name<owner_value_LENGTH> LENGTH_DELIMITED
  oneof link {
    3 next: demo::Later LENGTH_DELIMITED (unresolved)
  }
  ids [AGE, OWNER, NEXT]
}
`
	assert.Equal(t, expected, string(out))
}
