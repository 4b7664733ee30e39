// Package cpp renders compiled proto files as C++ headers for the
// EmbeddedProto runtime.
package cpp

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"github.com/okra-platform/protoc-gen-eams/internal/schema"
)

//go:embed templates/header.h.tmpl
var headerTemplate string

// DefaultExtension is the extension of generated headers
const DefaultExtension = ".h"

// Generator renders one header per proto file from a text/template
type Generator struct {
	tmpl      *template.Template
	extension string
}

// NewGenerator creates a C++ generator. An empty templatePath selects the
// built-in header template and an empty extension selects DefaultExtension.
func NewGenerator(templatePath, extension string) (*Generator, error) {
	name := "header.h.tmpl"
	text := headerTemplate
	if templatePath != "" {
		data, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", templatePath, err)
		}
		name = filepath.Base(templatePath)
		text = string(data)
	}

	tmpl, err := parseTemplate(name, text)
	if err != nil {
		return nil, err
	}

	if extension == "" {
		extension = DefaultExtension
	}
	return &Generator{tmpl: tmpl, extension: extension}, nil
}

// Language returns the name of the target language
func (g *Generator) Language() string {
	return "cpp"
}

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string {
	return g.extension
}

// Generate renders the header for file
func (g *Generator) Generate(file *schema.File) ([]byte, error) {
	var buf strings.Builder
	if err := g.tmpl.Execute(&buf, file); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

func parseTemplate(name, text string) (*template.Template, error) {
	tmpl := template.New(name).Option("missingkey=error")
	tmpl.Funcs(template.FuncMap{
		// include renders a named template into a string so it can be piped
		"include": func(name string, data any) (string, error) {
			var buf strings.Builder
			if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
				return "", err
			}
			return buf.String(), nil
		},
		"indent":         indent,
		"guard":          guard,
		"upper":          strings.ToUpper,
		"join":           strings.Join,
		"templateParams": templateParams,
		"initializers":   initializers,
	})

	if _, err := tmpl.Parse(text); err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	return tmpl, nil
}

// indent prefixes every line but the first with n spaces. The first line is
// positioned by the calling template.
func indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = pad + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// guard derives the include guard macro from a unit name
func guard(name string) string {
	var b strings.Builder
	b.WriteString("_")
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune('_')
		}
	}
	b.WriteString("_H_")
	return b.String()
}

// templateParams renders a class template parameter list
func templateParams(params []schema.TemplateParameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Type + " " + p.Name
	}
	return strings.Join(parts, ", ")
}

// initializers returns the constructor member initializers of msg
func initializers(msg *schema.Message) []string {
	var inits []string
	for _, f := range msg.Fields {
		if f.IsEnum() {
			inits = append(inits, f.VariableFullName+"("+f.DefaultValue+")")
		} else {
			inits = append(inits, f.VariableFullName+"()")
		}
	}
	for _, o := range msg.Oneofs {
		inits = append(inits, o.WhichOneof+"(id::NOT_SET)")
	}
	return inits
}
