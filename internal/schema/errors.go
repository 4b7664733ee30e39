package schema

import "errors"

var (
	// Model building errors
	ErrUnsupportedType      = errors.New("unsupported field type")
	ErrDuplicateFieldNumber = errors.New("duplicate field number")
	ErrInvalidOneofIndex    = errors.New("oneof index out of range")
	ErrUnsupportedPresence  = errors.New("field presence is not supported")
)

// Unresolved describes a message-typed field whose type could not be found
// among the messages compiled before the one declaring it.
type Unresolved struct {
	Message string `json:"message"`
	Field   string `json:"field"`
	Type    string `json:"type"`
}

// String implements fmt.Stringer
func (u Unresolved) String() string {
	return u.Message + "." + u.Field + ": unresolved type " + u.Type
}
