// Package summary renders a plain-text report of the resolved models of a
// proto file: class template parameters, storage types and wire types.
package summary

import (
	"strings"

	"github.com/okra-platform/protoc-gen-eams/internal/codegen/writer"
	"github.com/okra-platform/protoc-gen-eams/internal/schema"
)

// DefaultExtension is the extension of generated reports
const DefaultExtension = ".eams.txt"

// Generator generates model reports
type Generator struct {
	extension string
}

// NewGenerator creates a new summary generator
func NewGenerator(extension string) *Generator {
	if extension == "" {
		extension = DefaultExtension
	}
	return &Generator{extension: extension}
}

// Language returns the name of the generator
func (g *Generator) Language() string {
	return "summary"
}

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string {
	return g.extension
}

// Generate writes the report for file
func (g *Generator) Generate(file *schema.File) ([]byte, error) {
	w := writer.NewWriter("  ")

	w.WriteLinef("file %s", file.Name)
	if file.Namespace != "" {
		w.WriteLinef("namespace %s", file.Namespace)
	}
	for _, dep := range file.Dependencies {
		w.WriteLinef("include %s", dep)
	}

	for _, e := range file.Enums {
		w.BlankLine()
		g.writeEnum(w, e)
	}

	for _, msg := range file.Messages {
		w.BlankLine()
		g.writeMessage(w, msg)
	}

	return w.Bytes(), nil
}

func (g *Generator) writeEnum(w *writer.Writer, e *schema.Enum) {
	w.WriteBlock("enum "+e.Name+" {", "}", func() {
		for _, v := range e.Values {
			w.WriteLinef("%s = %d", v.Name, v.Number)
		}
	})
}

func (g *Generator) writeMessage(w *writer.Writer, msg *schema.Message) {
	w.WriteBlock("message "+msg.FullName+" {", "}", func() {
		if msg.IsTemplate() {
			params := make([]string, len(msg.TemplateParameters))
			for i, p := range msg.TemplateParameters {
				params[i] = p.Type + " " + p.Name
			}
			w.WriteLinef("template <%s>", strings.Join(params, ", "))
		}

		for _, e := range msg.NestedEnums {
			g.writeEnum(w, e)
		}

		for _, f := range msg.Fields {
			g.writeField(w, f)
		}

		for _, o := range msg.Oneofs {
			w.WriteBlock("oneof "+o.Name+" {", "}", func() {
				for _, f := range o.Fields {
					g.writeField(w, f)
				}
			})
		}

		ids := make([]string, len(msg.FieldIDs))
		for i, id := range msg.FieldIDs {
			ids[i] = id.Name
		}
		w.WriteLinef("ids [%s]", strings.Join(ids, ", "))
	})
}

func (g *Generator) writeField(w *writer.Writer, f *schema.Field) {
	w.Writef("%d %s: %s %s", f.Number, f.Name, f.StorageType(), f.WireType)
	if !f.Resolved {
		w.Write(" (unresolved)")
	}
	w.Newline()
}
