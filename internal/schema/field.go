package schema

import (
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"
)

// OneofRef is the owning oneof context of a field
type OneofRef struct {
	Name       string `json:"name"`
	WhichOneof string `json:"whichOneof"`
}

// Field wraps one field declaration and the attributes derived from it.
// Message references, enum defaults and capacity parameters are filled in
// by resolve, which runs exactly once per field.
type Field struct {
	Name             string    `json:"name"`
	VariableName     string    `json:"variableName"`
	VariableFullName string    `json:"variableFullName"`
	VariableIDName   string    `json:"variableIdName"`
	Number           int32     `json:"number"`
	Kind             Kind      `json:"kind"`
	Repeated         bool      `json:"repeated"`
	WireType         WireType  `json:"wireType"`
	Oneof            *OneofRef `json:"oneof,omitempty"`

	// Type is the C++ type of a single element. For strings and bytes it is
	// the capacity-bearing container once resolved.
	Type         string `json:"type"`
	ShortType    string `json:"shortType"`
	RepeatedType string `json:"repeatedType,omitempty"`
	DefaultValue string `json:"defaultValue"`

	TemplateParameters []TemplateParameter `json:"templateParameters"`

	// Resolved is false when a message-typed field found no earlier message
	Resolved bool `json:"resolved"`

	declaredType string
	resolveDone  bool
}

// newField builds a Field from its descriptor. oneof is nil for plain fields.
func newField(desc *descriptorpb.FieldDescriptorProto, oneof *OneofRef) (*Field, error) {
	info, err := lookupType(desc.GetType())
	if err != nil {
		return nil, err
	}

	name := desc.GetName()
	f := &Field{
		Name:           name,
		VariableName:   name + "_",
		VariableIDName: strings.ToUpper(name),
		Number:         desc.GetNumber(),
		Kind:           info.kind,
		Repeated:       desc.GetLabel() == descriptorpb.FieldDescriptorProto_LABEL_REPEATED,
		WireType:       info.wireType,
		DefaultValue:   info.defaultValue,
		Resolved:       true,
	}

	if oneof != nil {
		f.Oneof = oneof
		f.VariableFullName = oneof.Name + "_." + f.VariableName
	} else {
		f.VariableFullName = f.VariableName
	}

	switch info.kind {
	case KindMessage, KindEnum:
		f.declaredType = qualifiedName(desc.GetTypeName())
		f.Type = f.declaredType
		f.ShortType = f.declaredType
		if i := strings.LastIndex(f.declaredType, "::"); i >= 0 {
			f.ShortType = f.declaredType[i+2:]
		}
	default:
		f.Type = info.cppType
		f.ShortType = f.Type[strings.LastIndex(f.Type, ":")+1:]
	}

	return f, nil
}

// qualifiedName turns a protobuf type reference (".pkg.Name") into the C++
// scoped name ("pkg::Name").
func qualifiedName(typeName string) string {
	return strings.ReplaceAll(strings.TrimPrefix(typeName, "."), ".", "::")
}

// IsMessage reports whether the field holds a message
func (f *Field) IsMessage() bool { return f.Kind == KindMessage }

// IsEnum reports whether the field holds an enum value
func (f *Field) IsEnum() bool { return f.Kind == KindEnum }

// IsString reports whether the field is a string
func (f *Field) IsString() bool { return f.Kind == KindString }

// IsBytes reports whether the field is a byte blob
func (f *Field) IsBytes() bool { return f.Kind == KindBytes }

// IsRepeated reports whether the field is a repeated field
func (f *Field) IsRepeated() bool { return f.Repeated }

// InOneof reports whether the field belongs to a oneof
func (f *Field) InOneof() bool { return f.Oneof != nil }

// HasCapacity reports whether the field is stored in a fixed capacity container
func (f *Field) HasCapacity() bool {
	return f.Repeated || f.Kind == KindString || f.Kind == KindBytes
}

// IsObject reports whether the field is a class instance inside a union and
// needs explicit construction and destruction there.
func (f *Field) IsObject() bool {
	return f.HasCapacity() || f.Kind == KindMessage
}

// StorageType is the C++ type of the member variable
func (f *Field) StorageType() string {
	if f.HasCapacity() {
		return f.RepeatedType
	}
	return f.Type
}

// LengthParameter is the name of the capacity parameter synthesized for
// repeated, string and bytes fields.
func (f *Field) LengthParameter() string {
	return f.VariableName + "LENGTH"
}

// resolve runs the second construction phase against the messages compiled
// strictly before the owning message. It returns false when the field
// references a message that is not among them.
func (f *Field) resolve(compiled []*Message) bool {
	if f.resolveDone {
		panic("schema: field " + f.Name + " resolved twice")
	}
	f.resolveDone = true

	if f.Kind == KindMessage {
		f.Resolved = false
		for _, msg := range compiled {
			if msg.FullName != f.declaredType {
				continue
			}
			f.Resolved = true

			params := make([]TemplateParameter, len(msg.TemplateParameters))
			copy(params, msg.TemplateParameters)
			for i := range params {
				params[i].Name = f.VariableName + params[i].Name
			}
			f.TemplateParameters = append(f.TemplateParameters, params...)

			if len(params) > 0 {
				names := make([]string, len(params))
				for i, p := range params {
					names[i] = p.Name
				}
				f.Type += "<" + strings.Join(names, ", ") + ">"
			}
			break
		}
	}

	if f.Kind == KindEnum {
		f.DefaultValue = "static_cast<" + f.Type + ">(0)"
	}

	if f.Repeated {
		f.RepeatedType = "::EmbeddedProto::RepeatedFieldFixedSize<" + f.Type + ", " + f.LengthParameter() + ">"
	}

	if f.Kind == KindString || f.Kind == KindBytes {
		f.RepeatedType = f.Type + "<" + f.LengthParameter() + ">"
		f.Type = f.RepeatedType
	}

	if f.HasCapacity() {
		f.TemplateParameters = append(f.TemplateParameters, TemplateParameter{
			Type: lengthParameterType,
			Name: f.LengthParameter(),
		})
	}

	return f.Resolved
}
