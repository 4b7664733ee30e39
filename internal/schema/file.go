package schema

// File is the compiled view of one input file handed to a generator
type File struct {
	// Name is the source path with its extension removed
	Name string `json:"name"`

	// Namespace is the package path joined with "::", empty without a package
	Namespace string `json:"namespace"`

	// Messages holds only the messages declared by this file, in order
	Messages []*Message `json:"messages"`

	// Enums holds the top-level enums declared by this file
	Enums []*Enum `json:"enums"`

	// Dependencies holds the output unit names of the imported files
	Dependencies []string `json:"dependencies"`
}
