package schema

import "google.golang.org/protobuf/types/descriptorpb"

// Oneof wraps one oneof group. Its fields share one union slot and the
// WhichOneof discriminant.
type Oneof struct {
	Name       string   `json:"name"`
	Index      int      `json:"index"`
	WhichOneof string   `json:"whichOneof"`
	Fields     []*Field `json:"fields"`
}

// newOneof collects the fields of msg whose oneof index equals index, in
// declaration order.
func newOneof(name string, index int, msg *descriptorpb.DescriptorProto) (*Oneof, error) {
	o := &Oneof{
		Name:       name,
		Index:      index,
		WhichOneof: "which_" + name + "_",
	}
	ref := &OneofRef{Name: o.Name, WhichOneof: o.WhichOneof}

	for _, fd := range msg.GetField() {
		if fd.OneofIndex == nil || int(fd.GetOneofIndex()) != index {
			continue
		}
		f, err := newField(fd, ref)
		if err != nil {
			return nil, err
		}
		o.Fields = append(o.Fields, f)
	}
	return o, nil
}

// resolve resolves every member field in order and returns the unresolved ones
func (o *Oneof) resolve(compiled []*Message) []*Field {
	var unresolved []*Field
	for _, f := range o.Fields {
		if !f.resolve(compiled) {
			unresolved = append(unresolved, f)
		}
	}
	return unresolved
}
