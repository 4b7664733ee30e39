package codegen

import (
	"github.com/okra-platform/protoc-gen-eams/internal/codegen/cpp"
	"github.com/okra-platform/protoc-gen-eams/internal/codegen/summary"
)

// DefaultRegistry is the global registry instance with pre-registered generators
var DefaultRegistry = NewRegistry()

func init() {
	// Register C++ header generator
	DefaultRegistry.Register("cpp", func(opts Options) (Generator, error) {
		return cpp.NewGenerator(opts.TemplatePath, opts.Extension)
	})

	// Register c++ as an alias for cpp
	DefaultRegistry.Register("c++", func(opts Options) (Generator, error) {
		return cpp.NewGenerator(opts.TemplatePath, opts.Extension)
	})

	// Register model summary generator
	DefaultRegistry.Register("summary", func(opts Options) (Generator, error) {
		return summary.NewGenerator(opts.Extension), nil
	})
}
