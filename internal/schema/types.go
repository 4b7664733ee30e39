package schema

import (
	"fmt"

	"google.golang.org/protobuf/types/descriptorpb"
)

// WireType is the binary framing category of a field
type WireType int

const (
	WireVarint WireType = iota
	WireFixed64
	WireLengthDelimited
	_ // start group, unused
	_ // end group, unused
	WireFixed32
)

// String returns the name used by the runtime's WireFormatter::WireType
func (w WireType) String() string {
	switch w {
	case WireVarint:
		return "VARINT"
	case WireFixed64:
		return "FIXED64"
	case WireLengthDelimited:
		return "LENGTH_DELIMITED"
	case WireFixed32:
		return "FIXED32"
	default:
		return fmt.Sprintf("WireType(%d)", int(w))
	}
}

// Kind classifies a field's declared type
type Kind int

const (
	KindScalar Kind = iota
	KindBool
	KindEnum
	KindString
	KindBytes
	KindMessage
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindBool:
		return "bool"
	case KindEnum:
		return "enum"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindMessage:
		return "message"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// TemplateParameter is one capacity parameter of a generated class template,
// e.g. {Type: "uint32_t", Name: "name_LENGTH"}.
type TemplateParameter struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// lengthParameterType is the integral type of every synthesized capacity parameter
const lengthParameterType = "uint32_t"

// typeInfo is one row of the type lookup table
type typeInfo struct {
	kind         Kind
	wireType     WireType
	defaultValue string
	cppType      string
}

var typeTable = map[descriptorpb.FieldDescriptorProto_Type]typeInfo{
	descriptorpb.FieldDescriptorProto_TYPE_INT32:    {KindScalar, WireVarint, "0", "EmbeddedProto::int32"},
	descriptorpb.FieldDescriptorProto_TYPE_INT64:    {KindScalar, WireVarint, "0", "EmbeddedProto::int64"},
	descriptorpb.FieldDescriptorProto_TYPE_UINT32:   {KindScalar, WireVarint, "0U", "EmbeddedProto::uint32"},
	descriptorpb.FieldDescriptorProto_TYPE_UINT64:   {KindScalar, WireVarint, "0U", "EmbeddedProto::uint64"},
	descriptorpb.FieldDescriptorProto_TYPE_SINT32:   {KindScalar, WireVarint, "0", "EmbeddedProto::sint32"},
	descriptorpb.FieldDescriptorProto_TYPE_SINT64:   {KindScalar, WireVarint, "0", "EmbeddedProto::sint64"},
	descriptorpb.FieldDescriptorProto_TYPE_BOOL:     {KindBool, WireVarint, "false", "EmbeddedProto::boolean"},
	descriptorpb.FieldDescriptorProto_TYPE_ENUM:     {KindEnum, WireVarint, "0", ""},
	descriptorpb.FieldDescriptorProto_TYPE_FIXED32:  {KindScalar, WireFixed32, "0U", "EmbeddedProto::fixed32"},
	descriptorpb.FieldDescriptorProto_TYPE_SFIXED32: {KindScalar, WireFixed32, "0", "EmbeddedProto::sfixed32"},
	descriptorpb.FieldDescriptorProto_TYPE_FLOAT:    {KindScalar, WireFixed32, "0.0", "EmbeddedProto::floatfixed"},
	descriptorpb.FieldDescriptorProto_TYPE_FIXED64:  {KindScalar, WireFixed64, "0U", "EmbeddedProto::fixed64"},
	descriptorpb.FieldDescriptorProto_TYPE_SFIXED64: {KindScalar, WireFixed64, "0", "EmbeddedProto::sfixed64"},
	descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:   {KindScalar, WireFixed64, "0.0", "EmbeddedProto::doublefixed"},
	descriptorpb.FieldDescriptorProto_TYPE_STRING:   {KindString, WireLengthDelimited, `""`, "::EmbeddedProto::FieldString"},
	descriptorpb.FieldDescriptorProto_TYPE_BYTES:    {KindBytes, WireLengthDelimited, "0U", "::EmbeddedProto::FieldBytes"},
	descriptorpb.FieldDescriptorProto_TYPE_MESSAGE:  {KindMessage, WireLengthDelimited, "", ""},
}

// lookupType returns the table row for t or ErrUnsupportedType
func lookupType(t descriptorpb.FieldDescriptorProto_Type) (typeInfo, error) {
	info, ok := typeTable[t]
	if !ok {
		return typeInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	return info, nil
}
