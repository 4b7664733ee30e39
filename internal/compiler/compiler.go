// Package compiler drives a compilation run: it builds the resolved models of
// every message in file order and renders one output unit per file.
package compiler

import (
	"path"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/okra-platform/protoc-gen-eams/internal/codegen"
	"github.com/okra-platform/protoc-gen-eams/internal/schema"
)

// SupportedSyntax is the only schema dialect the generator accepts
const SupportedSyntax = "proto3"

// Unit is one generated output file
type Unit struct {
	Name    string
	Content string
}

// Result holds the output of a compilation run
type Result struct {
	Units      []Unit
	Failures   []RenderFailure
	Unresolved []schema.Unresolved
}

// Option configures a compilation run
type Option func(*options)

type options struct {
	logger       zerolog.Logger
	onUnresolved func(schema.Unresolved)
}

// WithLogger sets the logger used for diagnostics
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithUnresolvedHook registers fn to observe unresolved message references
func WithUnresolvedHook(fn func(schema.Unresolved)) Option {
	return func(o *options) {
		o.onUnresolved = fn
	}
}

// compiledFile is the model of one input file before rendering
type compiledFile struct {
	source string
	unit   string
	file   *schema.File
}

// Compile compiles files in order and renders them with gen. Unsupported
// syntax and invalid messages abort the run with a *FileError; a file that
// fails to render is recorded in Result.Failures and skipped.
func Compile(files []*descriptorpb.FileDescriptorProto, gen codegen.Generator, opts ...Option) (*Result, error) {
	if gen == nil {
		return nil, ErrNilGenerator
	}

	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	for _, fd := range files {
		if fd.GetSyntax() != SupportedSyntax {
			return nil, &FileError{File: fd.GetName(), Err: ErrUnsupportedSyntax}
		}
	}

	result := &Result{}
	ctx := schema.NewContext(schema.WithUnresolvedHook(func(u schema.Unresolved) {
		o.logger.Warn().
			Str("parent", u.Message).
			Str("field", u.Field).
			Str("type", u.Type).
			Msg("field type is not declared before its use, generating it without template parameters")
		result.Unresolved = append(result.Unresolved, u)
		if o.onUnresolved != nil {
			o.onUnresolved(u)
		}
	}))

	compiled := make([]compiledFile, 0, len(files))
	for _, fd := range files {
		cf, err := compileFile(ctx, fd, gen.FileExtension(), o.logger)
		if err != nil {
			return nil, &FileError{File: fd.GetName(), Err: err}
		}
		compiled = append(compiled, cf)
	}

	for _, cf := range compiled {
		content, err := gen.Generate(cf.file)
		if err != nil {
			o.logger.Error().
				Err(err).
				Str("file", cf.source).
				Msg("failed to render file")
			result.Failures = append(result.Failures, RenderFailure{File: cf.source, Err: err})
			continue
		}

		o.logger.Debug().
			Str("file", cf.source).
			Str("unit", cf.unit).
			Int("messages", len(cf.file.Messages)).
			Msg("rendered file")
		result.Units = append(result.Units, Unit{Name: cf.unit, Content: string(content)})
	}

	return result, nil
}

// compileFile compiles the messages of fd into ctx and collects the
// metadata of its output unit.
func compileFile(ctx *schema.Context, fd *descriptorpb.FileDescriptorProto, ext string, logger zerolog.Logger) (compiledFile, error) {
	start := ctx.Len()
	for _, desc := range fd.GetMessageType() {
		if _, err := ctx.Compile(desc, fd.GetPackage()); err != nil {
			return compiledFile{}, err
		}
		for _, nested := range desc.GetNestedType() {
			logger.Warn().
				Str("file", fd.GetName()).
				Str("parent", desc.GetName()).
				Str("nested", nested.GetName()).
				Msg("nested message declarations are not generated")
		}
	}

	deps := make([]string, 0, len(fd.GetDependency()))
	for _, dep := range fd.GetDependency() {
		deps = append(deps, UnitName(dep, ext))
	}

	name := trimExt(fd.GetName())
	return compiledFile{
		source: fd.GetName(),
		unit:   name + ext,
		file: &schema.File{
			Name:         name,
			Namespace:    Namespace(fd.GetPackage()),
			Messages:     ctx.Since(start),
			Enums:        schema.NewEnums(fd.GetEnumType()),
			Dependencies: deps,
		},
	}, nil
}

// UnitName returns the output unit name of a source path: its extension
// replaced by ext.
func UnitName(source, ext string) string {
	return trimExt(source) + ext
}

// Namespace converts a protobuf package to a C++ namespace
func Namespace(pkg string) string {
	return strings.ReplaceAll(pkg, ".", "::")
}

func trimExt(p string) string {
	return strings.TrimSuffix(p, path.Ext(p))
}
