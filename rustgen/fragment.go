// Package rustgen emits Rust source declarations from resolved shapes:
// structure declarations with accessors and redaction-aware Debug
// rendering, builders, and per-operation HTTP request binding
// procedures.
package rustgen

import (
	"bytes"
	"fmt"
	"strings"
)

// Fragment is one named, addressable piece of generated code. The
// orchestrator assembles fragments into complete files; generators
// never write output themselves.
type Fragment struct {
	// Name addresses the fragment, e.g. "struct", "accessors",
	// "uri_base".
	Name string

	// Content is the Rust source text.
	Content string
}

// writer accumulates one fragment's text. It wraps bytes.Buffer with
// the small set of helpers the emitters need.
type writer struct {
	buf    bytes.Buffer
	indent int
}

func (w *writer) line(format string, args ...any) {
	for i := 0; i < w.indent; i++ {
		w.buf.WriteString("    ")
	}
	fmt.Fprintf(&w.buf, format, args...)
	w.buf.WriteByte('\n')
}

func (w *writer) blank() {
	w.buf.WriteByte('\n')
}

// block opens a brace-delimited block, runs body at one deeper indent,
// and closes the block.
func (w *writer) block(header string, body func()) {
	w.line("%s {", header)
	w.indent++
	body()
	w.indent--
	w.line("}")
}

func (w *writer) doc(text string) {
	if text == "" {
		return
	}
	for _, l := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		w.line("/// %s", l)
	}
}

func (w *writer) fragment(name string) Fragment {
	return Fragment{Name: name, Content: w.buf.String()}
}
