package writer

import (
	"bytes"
	"fmt"
	"strings"
)

// Writer builds indented text output line by line
type Writer struct {
	buf          bytes.Buffer
	indentLevel  int
	indentString string
	linePrefix   string
	needsIndent  bool
}

// NewWriter creates a new writer with the given indentation string
func NewWriter(indentString string) *Writer {
	return &Writer{
		indentString: indentString,
		needsIndent:  true,
	}
}

// Indent increases the indentation level
func (w *Writer) Indent() {
	w.indentLevel++
	w.linePrefix = strings.Repeat(w.indentString, w.indentLevel)
}

// Dedent decreases the indentation level
func (w *Writer) Dedent() {
	if w.indentLevel > 0 {
		w.indentLevel--
		w.linePrefix = strings.Repeat(w.indentString, w.indentLevel)
	}
}

// Write writes a string without adding a newline
func (w *Writer) Write(s string) {
	if w.needsIndent && s != "" {
		w.buf.WriteString(w.linePrefix)
		w.needsIndent = false
	}
	w.buf.WriteString(s)
}

// Writef writes a formatted string without adding a newline
func (w *Writer) Writef(format string, args ...any) {
	w.Write(fmt.Sprintf(format, args...))
}

// WriteLine writes a string and adds a newline
func (w *Writer) WriteLine(s string) {
	w.Write(s)
	w.Newline()
}

// WriteLinef writes a formatted string and adds a newline
func (w *Writer) WriteLinef(format string, args ...any) {
	w.Writef(format, args...)
	w.Newline()
}

// Newline adds a newline character
func (w *Writer) Newline() {
	w.buf.WriteByte('\n')
	w.needsIndent = true
}

// BlankLine adds an empty line unless the output is empty or already ends
// with one.
func (w *Writer) BlankLine() {
	if w.buf.Len() > 0 && !bytes.HasSuffix(w.buf.Bytes(), []byte("\n\n")) {
		w.Newline()
	}
}

// WriteBlock writes content between opener and closer, one level deeper
func (w *Writer) WriteBlock(opener, closer string, content func()) {
	w.WriteLine(opener)
	w.Indent()
	content()
	w.Dedent()
	w.WriteLine(closer)
}

// String returns the written text
func (w *Writer) String() string {
	return w.buf.String()
}

// Bytes returns a copy of the written text
func (w *Writer) Bytes() []byte {
	return bytes.Clone(w.buf.Bytes())
}
