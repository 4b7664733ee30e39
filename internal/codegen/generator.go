package codegen

import "github.com/okra-platform/protoc-gen-eams/internal/schema"

// Generator is the interface that all output generators must implement
type Generator interface {
	// Generate renders one output unit for a compiled proto file
	Generate(file *schema.File) ([]byte, error)

	// Language returns the name of the generator (e.g., "cpp", "summary")
	Language() string

	// FileExtension returns the file extension for generated files (e.g., ".h")
	FileExtension() string
}

// Options contains common options for generators
type Options struct {
	// Extension overrides the generator's default file extension
	Extension string

	// TemplatePath points at a template replacing the built-in one
	TemplatePath string
}
