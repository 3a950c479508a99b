// Package smithygen generates Rust source from a Smithy-style shape
// model: structure declarations with builders and redaction-aware Debug
// rendering, plus per-operation HTTP request binding procedures.
package smithygen

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/jackos/smithygen/model"
	"github.com/jackos/smithygen/rustgen"
	"github.com/jackos/smithygen/sink"
	"github.com/jackos/smithygen/symbol"
)

const fileHeader = "// Code generated by smithygen. DO NOT EDIT.\n"

// Generator drives one generation run over a loaded model.
type Generator struct {
	Config *Config

	// Logger defaults to a no-op logger.
	Logger *zap.Logger

	// Sink defaults to a FilesystemSink rooted at Config.OutDir.
	Sink sink.OutputSink
}

// Result summarizes a completed generation run.
type Result struct {
	// Files lists the written paths in sorted order.
	Files []string

	// Structures and Operations count the shapes generated.
	Structures int
	Operations int
}

// Generate loads the configured model and writes generated sources to
// the configured output directory.
func Generate(ctx context.Context, cfg *Config) (*Result, error) {
	g := &Generator{Config: cfg}
	return g.Run(ctx)
}

// Run executes the generation pipeline: load, resolve, emit, write.
// The run either fully completes or fails fast on the first contract
// error.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	if g.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := g.Config.Validate(); err != nil {
		return nil, err
	}
	log := g.Logger
	if log == nil {
		log = zap.NewNop()
	}
	out := g.Sink
	if out == nil {
		out = sink.NewFilesystemSink(g.Config.OutDir)
	}

	m, err := model.LoadFile(g.Config.Model)
	if err != nil {
		return nil, err
	}
	log.Info("model loaded", zap.String("path", g.Config.Model))

	return g.generate(ctx, m, out, log)
}

func (g *Generator) generate(ctx context.Context, m *model.Model, out sink.OutputSink, log *zap.Logger) (*Result, error) {
	chain := symbol.NewChain(m, nil)

	mode := rustgen.ModeClient
	if g.Config.Mode == "server" {
		mode = rustgen.ModeServer
	}
	structures := &rustgen.StructureGenerator{
		Model:         m,
		Resolver:      chain,
		Mode:          mode,
		ValidateInput: g.Config.ValidateInput,
	}
	bindings := &rustgen.RequestBindingGenerator{Model: m, Resolver: chain}

	files := newFileSet()
	result := &Result{}

	for _, s := range m.Shapes() {
		if s.ID.Namespace == "smithy.api" || s.Kind == model.KindMember {
			continue
		}
		switch s.Kind {
		case model.KindStructure:
			sym, err := chain.ResolveSymbol(s)
			if err != nil {
				return nil, err
			}
			frags, err := structures.Generate(s)
			if err != nil {
				return nil, err
			}
			files.add(fileFor(sym.Namespace), frags)
			result.Structures++
			log.Debug("structure generated", zap.String("shape", s.ID.String()))

		case model.KindOperation:
			ht, err := m.HTTPTraitOf(s)
			if err != nil {
				return nil, err
			}
			if ht == nil {
				log.Debug("operation has no http trait, skipped", zap.String("shape", s.ID.String()))
				continue
			}
			frags, err := bindings.Generate(s)
			if err != nil {
				return nil, err
			}
			files.addModule("src/operation.rs", operationModule(s.ID.Name), frags)
			result.Operations++
			log.Debug("operation bindings generated",
				zap.String("shape", s.ID.String()),
				zap.String("method", ht.Method))

		case model.KindList, model.KindSet, model.KindMap,
			model.KindString, model.KindBoolean, model.KindByte, model.KindShort,
			model.KindInteger, model.KindLong, model.KindFloat, model.KindDouble,
			model.KindTimestamp, model.KindBlob, model.KindDocument:
			sym, err := chain.ResolveSymbol(s)
			if err != nil {
				return nil, err
			}
			if sym.Wraps != nil {
				files.add(fileFor(sym.Namespace), []rustgen.Fragment{newtypeFragment(sym)})
			}
		}
	}

	for _, path := range files.paths() {
		if err := out.WriteFile(ctx, path, files.render(path)); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, path)
	}

	log.Info("generation complete",
		zap.Int("structures", result.Structures),
		zap.Int("operations", result.Operations),
		zap.Int("files", len(result.Files)))
	return result, nil
}

// newtypeFragment declares the wrapper newtype for a constrained
// shape's symbol. Crate-internal wrappers get pub(crate) visibility.
func newtypeFragment(sym symbol.Symbol) rustgen.Fragment {
	vis := "pub"
	if !sym.Public {
		vis = "pub(crate)"
	}
	return rustgen.Fragment{
		Name: "newtype",
		Content: fmt.Sprintf("#[derive(%s)]\n%s struct %s(pub(crate) %s);\n",
			strings.Join(sym.Derives, ", "), vis, sym.Name, sym.Wraps.Render()),
	}
}

// fileFor maps a symbol namespace to its output file.
func fileFor(namespace string) string {
	switch namespace {
	case "crate::input":
		return "src/input.rs"
	case "crate::error":
		return "src/error.rs"
	case "crate::constrained":
		return "src/constrained.rs"
	default:
		return "src/model.rs"
	}
}

// operationModule converts an operation name to its module name,
// e.g. "GetOrder" to "get_order".
func operationModule(opName string) string {
	var b strings.Builder
	for i, r := range opName {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// fileSet accumulates fragments per output file, preserving emission
// order within a file.
type fileSet struct {
	contents map[string][]string
}

func newFileSet() *fileSet {
	return &fileSet{contents: make(map[string][]string)}
}

func (f *fileSet) add(path string, frags []rustgen.Fragment) {
	for _, frag := range frags {
		f.contents[path] = append(f.contents[path], frag.Content)
	}
}

// addModule wraps an operation's fragments in a module block.
func (f *fileSet) addModule(path, module string, frags []rustgen.Fragment) {
	var b strings.Builder
	fmt.Fprintf(&b, "pub mod %s {\n", module)
	b.WriteString("    use std::fmt::Write as _;\n\n")
	for i, frag := range frags {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, line := range strings.Split(strings.TrimRight(frag.Content, "\n"), "\n") {
			if line == "" {
				b.WriteByte('\n')
				continue
			}
			b.WriteString("    ")
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	b.WriteString("}\n")
	f.add(path, []rustgen.Fragment{{Name: module, Content: b.String()}})
}

func (f *fileSet) paths() []string {
	out := make([]string, 0, len(f.contents))
	for p := range f.contents {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (f *fileSet) render(path string) []byte {
	var b strings.Builder
	b.WriteString(fileHeader)
	for _, part := range f.contents[path] {
		b.WriteByte('\n')
		b.WriteString(part)
	}
	return []byte(b.String())
}
