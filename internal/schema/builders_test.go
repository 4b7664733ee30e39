package schema

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

type fieldOption func(*descriptorpb.FieldDescriptorProto)

func repeated() fieldOption {
	return func(f *descriptorpb.FieldDescriptorProto) {
		f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	}
}

func inOneof(index int32) fieldOption {
	return func(f *descriptorpb.FieldDescriptorProto) {
		f.OneofIndex = proto.Int32(index)
	}
}

func typeName(name string) fieldOption {
	return func(f *descriptorpb.FieldDescriptorProto) {
		f.TypeName = proto.String(name)
	}
}

func field(name string, number int32, t descriptorpb.FieldDescriptorProto_Type, opts ...fieldOption) *descriptorpb.FieldDescriptorProto {
	f := &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Type:   t.Enum(),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func messageField(name string, number int32, ref string, opts ...fieldOption) *descriptorpb.FieldDescriptorProto {
	return field(name, number, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, append(opts, typeName(ref))...)
}

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{
		Name:  proto.String(name),
		Field: fields,
	}
}

func withOneofs(m *descriptorpb.DescriptorProto, names ...string) *descriptorpb.DescriptorProto {
	for _, n := range names {
		m.OneofDecl = append(m.OneofDecl, &descriptorpb.OneofDescriptorProto{Name: proto.String(n)})
	}
	return m
}

func paramNames(params []TemplateParameter) []string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Name)
	}
	return names
}
