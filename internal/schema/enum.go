package schema

import "google.golang.org/protobuf/types/descriptorpb"

// EnumValue is a single value of an enum declaration
type EnumValue struct {
	Name   string `json:"name"`
	Number int32  `json:"number"`
}

// Enum wraps one enum declaration
type Enum struct {
	Name   string      `json:"name"`
	Values []EnumValue `json:"values"`
}

// NewEnum builds an Enum from its descriptor, keeping declaration order
func NewEnum(desc *descriptorpb.EnumDescriptorProto) *Enum {
	e := &Enum{
		Name:   desc.GetName(),
		Values: make([]EnumValue, 0, len(desc.GetValue())),
	}
	for _, v := range desc.GetValue() {
		e.Values = append(e.Values, EnumValue{Name: v.GetName(), Number: v.GetNumber()})
	}
	return e
}

// NewEnums wraps every enum in descs
func NewEnums(descs []*descriptorpb.EnumDescriptorProto) []*Enum {
	enums := make([]*Enum, 0, len(descs))
	for _, d := range descs {
		enums = append(enums, NewEnum(d))
	}
	return enums
}
