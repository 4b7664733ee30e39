package codegen

import (
	"fmt"
	"sort"
)

// Registry manages available code generators
type Registry struct {
	generators map[string]func(opts Options) (Generator, error)
}

// NewRegistry creates a new generator registry
func NewRegistry() *Registry {
	r := &Registry{
		generators: make(map[string]func(opts Options) (Generator, error)),
	}
	return r
}

// Register adds a new generator factory to the registry
func (r *Registry) Register(language string, factory func(opts Options) (Generator, error)) {
	r.generators[language] = factory
}

// Get returns a generator for the specified language
func (r *Registry) Get(language string, opts Options) (Generator, error) {
	factory, exists := r.generators[language]
	if !exists {
		return nil, fmt.Errorf("unsupported language: %s", language)
	}

	gen, err := factory(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s generator: %w", language, err)
	}
	return gen, nil
}

// Languages returns a sorted list of supported languages
func (r *Registry) Languages() []string {
	languages := make([]string, 0, len(r.generators))
	for lang := range r.generators {
		languages = append(languages, lang)
	}
	sort.Strings(languages)
	return languages
}
