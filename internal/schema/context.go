package schema

import (
	"google.golang.org/protobuf/types/descriptorpb"
)

// Context is the append-only list of messages compiled during one run. A
// message is resolved against the messages added before it, so references
// to later messages, and to the message itself, stay unresolved.
type Context struct {
	messages     []*Message
	onUnresolved func(Unresolved)
}

// ContextOption configures a Context
type ContextOption func(*Context)

// WithUnresolvedHook registers fn to be called for every message-typed field
// that references a message not compiled before its own.
func WithUnresolvedHook(fn func(Unresolved)) ContextOption {
	return func(c *Context) {
		c.onUnresolved = fn
	}
}

// NewContext creates an empty compilation context
func NewContext(opts ...ContextOption) *Context {
	c := &Context{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile builds the model of desc, appends it to the context and resolves
// it against every message compiled before it. pkg is the protobuf package
// of the declaring file.
func (c *Context) Compile(desc *descriptorpb.DescriptorProto, pkg string) (*Message, error) {
	m, err := newMessage(desc, qualifiedName(pkg))
	if err != nil {
		return nil, err
	}

	c.messages = append(c.messages, m)
	prior := c.messages[:len(c.messages)-1 : len(c.messages)-1]

	for _, f := range m.resolve(prior) {
		if c.onUnresolved != nil {
			c.onUnresolved(Unresolved{Message: m.FullName, Field: f.Name, Type: f.Type})
		}
	}
	return m, nil
}

// Messages returns the compiled messages in compilation order
func (c *Context) Messages() []*Message {
	return c.messages
}

// Len returns the number of compiled messages
func (c *Context) Len() int {
	return len(c.messages)
}

// Since returns the messages compiled after the first n
func (c *Context) Since(n int) []*Message {
	return c.messages[n:len(c.messages):len(c.messages)]
}
