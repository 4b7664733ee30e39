package schema

import (
	"fmt"
	"sort"

	"google.golang.org/protobuf/types/descriptorpb"
)

// FieldID pairs a field number with its symbolic id
type FieldID struct {
	Number int32  `json:"number"`
	Name   string `json:"name"`
}

// Message wraps one message declaration. TemplateParameters holds every
// capacity parameter needed anywhere in the message's closure, in field
// then oneof declaration order.
type Message struct {
	Name        string    `json:"name"`
	FullName    string    `json:"fullName"`
	Fields      []*Field  `json:"fields"`
	Oneofs      []*Oneof  `json:"oneofs"`
	NestedEnums []*Enum   `json:"nestedEnums"`
	FieldIDs    []FieldID `json:"fieldIds"`

	TemplateParameters []TemplateParameter `json:"templateParameters"`

	resolveDone bool
}

// newMessage builds the unresolved model of desc. pkg is the C++ namespace
// of the declaring file, empty when it has none.
func newMessage(desc *descriptorpb.DescriptorProto, pkg string) (*Message, error) {
	m := &Message{
		Name:     desc.GetName(),
		FullName: desc.GetName(),
	}
	if pkg != "" {
		m.FullName = pkg + "::" + m.Name
	}

	for _, fd := range desc.GetField() {
		if fd.GetProto3Optional() {
			return nil, fmt.Errorf("%w: %s.%s is declared optional", ErrUnsupportedPresence, m.Name, fd.GetName())
		}
		if fd.OneofIndex != nil {
			if idx := int(fd.GetOneofIndex()); idx < 0 || idx >= len(desc.GetOneofDecl()) {
				return nil, fmt.Errorf("%w: %s.%s has index %d", ErrInvalidOneofIndex, m.Name, fd.GetName(), idx)
			}
			continue
		}
		f, err := newField(fd, nil)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", m.Name, fd.GetName(), err)
		}
		m.Fields = append(m.Fields, f)
	}

	for i, od := range desc.GetOneofDecl() {
		o, err := newOneof(od.GetName(), i, desc)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", m.Name, od.GetName(), err)
		}
		m.Oneofs = append(m.Oneofs, o)
	}

	m.NestedEnums = NewEnums(desc.GetEnumType())

	seen := make(map[int32]string)
	for _, f := range m.AllFields() {
		if prev, ok := seen[f.Number]; ok {
			return nil, fmt.Errorf("%w: %s uses %d for both %s and %s", ErrDuplicateFieldNumber, m.Name, f.Number, prev, f.Name)
		}
		seen[f.Number] = f.Name
		m.FieldIDs = append(m.FieldIDs, FieldID{Number: f.Number, Name: f.VariableIDName})
	}
	sort.Slice(m.FieldIDs, func(i, j int) bool {
		return m.FieldIDs[i].Number < m.FieldIDs[j].Number
	})

	return m, nil
}

// AllFields returns the plain fields followed by the fields of every oneof
func (m *Message) AllFields() []*Field {
	all := make([]*Field, 0, len(m.Fields))
	all = append(all, m.Fields...)
	for _, o := range m.Oneofs {
		all = append(all, o.Fields...)
	}
	return all
}

// HasFields reports whether the message declares any field
func (m *Message) HasFields() bool {
	return len(m.Fields) > 0 || m.HasOneofs()
}

// HasOneofs reports whether the message declares any oneof
func (m *Message) HasOneofs() bool {
	return len(m.Oneofs) > 0
}

// IsTemplate reports whether the generated class takes capacity parameters
func (m *Message) IsTemplate() bool {
	return len(m.TemplateParameters) > 0
}

// resolve resolves the plain fields then the oneof fields against compiled
// and accumulates their capacity parameters. compiled must hold exactly the
// messages compiled before m.
func (m *Message) resolve(compiled []*Message) []*Field {
	if m.resolveDone {
		panic("schema: message " + m.Name + " resolved twice")
	}
	m.resolveDone = true

	var unresolved []*Field
	for _, f := range m.Fields {
		if !f.resolve(compiled) {
			unresolved = append(unresolved, f)
		}
		m.TemplateParameters = append(m.TemplateParameters, f.TemplateParameters...)
	}
	for _, o := range m.Oneofs {
		unresolved = append(unresolved, o.resolve(compiled)...)
		for _, f := range o.Fields {
			m.TemplateParameters = append(m.TemplateParameters, f.TemplateParameters...)
		}
	}
	return unresolved
}
