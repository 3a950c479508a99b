package rustgen

import (
	"fmt"

	"github.com/jackos/smithygen/model"
	"github.com/jackos/smithygen/symbol"
)

// redactedPlaceholder is what the generated Debug impl prints for
// members marked sensitive. Stored values are never touched; redaction
// happens only at render time.
const redactedPlaceholder = "*** Sensitive Data Redacted ***"

// Mode selects which builder fallibility rules apply.
type Mode int

const (
	// ModeClient generates request-construction code: builders fail
	// only when a required field without a default may be missing.
	ModeClient Mode = iota

	// ModeServer generates request-handling code: fallibility depends
	// on constraint reachability when validation is enforced.
	ModeServer
)

// StructureGenerator emits the declaration fragments for one structure
// shape: the struct itself, its accessors, its Debug impl, and its
// builder.
type StructureGenerator struct {
	Model    *model.Model
	Resolver symbol.Resolver
	Null     symbol.Nullability

	Mode Mode

	// ValidateInput applies in server mode: when set, builders accept
	// only fully validated values and fallibility follows constraint
	// reachability.
	ValidateInput bool
}

func (g *StructureGenerator) null() symbol.Nullability {
	if g.Null == nil {
		return symbol.TraitNullability{}
	}
	return g.Null
}

// Generate emits the fragments for a structure shape in a fixed order:
// struct, accessors, debug, builder.
func (g *StructureGenerator) Generate(s *model.Shape) ([]Fragment, error) {
	s.Expect(model.KindStructure)

	sym, err := g.Resolver.ResolveSymbol(s)
	if err != nil {
		return nil, err
	}
	members := g.Model.MembersOf(s)
	memberSyms := make([]symbol.Symbol, len(members))
	for i, m := range members {
		memberSyms[i], err = g.Resolver.ResolveSymbol(m)
		if err != nil {
			return nil, fmt.Errorf("structure %s: member %s: %w", s.ID, m.ID, err)
		}
	}

	fragments := []Fragment{
		g.emitStruct(s, sym, members, memberSyms),
		g.emitAccessors(s, sym, members, memberSyms),
		g.emitDebug(s, sym, members),
	}
	builder, err := g.emitBuilder(s, sym, members, memberSyms)
	if err != nil {
		return nil, err
	}
	fragments = append(fragments, builder)
	return fragments, nil
}

func (g *StructureGenerator) emitStruct(s *model.Shape, sym symbol.Symbol, members []*model.Shape, syms []symbol.Symbol) Fragment {
	w := &writer{}
	w.doc(s.Traits.Documentation())
	w.line("#[non_exhaustive]")
	w.line("#[derive(%s)]", deriveList(sym.Derives))
	w.block(fmt.Sprintf("pub struct %s", sym.Name), func() {
		for i, m := range members {
			w.doc(m.Traits.Documentation())
			w.line("pub %s: %s,", fieldName(m.ID.Member), syms[i].Type.Render())
		}
	})
	return w.fragment("struct")
}

// emitAccessors emits one accessor per member. The return shape depends
// on the resolved type: trivially copyable values are returned by
// value, optional dereferenceable values as Option of the dereferenced
// borrow, dereferenceable values as the dereferenced borrow, and
// everything else as a plain borrow.
func (g *StructureGenerator) emitAccessors(s *model.Shape, sym symbol.Symbol, members []*model.Shape, syms []symbol.Symbol) Fragment {
	w := &writer{}
	w.block(fmt.Sprintf("impl %s", sym.Name), func() {
		first := true
		for i, m := range members {
			if skipAccessor(s, m) {
				continue
			}
			if !first {
				w.blank()
			}
			first = false
			w.doc(m.Traits.Documentation())
			ret, body := accessorPlan(fieldName(m.ID.Member), syms[i].Type)
			w.block(fmt.Sprintf("pub fn %s(&self) -> %s", fieldName(m.ID.Member), ret), func() {
				w.line("%s", body)
			})
		}
	})
	return w.fragment("accessors")
}

// skipAccessor: the message member of an error structure is rendered by
// the error-trait emitter, not as a plain accessor.
func skipAccessor(s, m *model.Shape) bool {
	return s.Traits.Has(model.TraitError) && m.ID.Member == "message"
}

// accessorPlan returns the accessor's return type and body expression
// for a field of the given resolved type.
func accessorPlan(field string, t symbol.RustType) (ret, body string) {
	if inner, ok := symbol.IsOption(t); ok {
		if isCopyable(inner) {
			return t.Render(), fmt.Sprintf("self.%s", field)
		}
		if deref, ok := derefBorrow(inner); ok {
			return "std::option::Option<" + deref + ">", fmt.Sprintf("self.%s.as_deref()", field)
		}
		return "std::option::Option<&" + inner.Render() + ">", fmt.Sprintf("self.%s.as_ref()", field)
	}
	if isCopyable(t) {
		return t.Render(), fmt.Sprintf("self.%s", field)
	}
	if deref, ok := derefBorrow(t); ok {
		return deref, fmt.Sprintf("&*self.%s", field)
	}
	return "&" + t.Render(), fmt.Sprintf("&self.%s", field)
}

func isCopyable(t symbol.RustType) bool {
	p, ok := t.(symbol.Primitive)
	return ok && p.Copyable
}

// derefBorrow returns the borrowed view type reached through Deref, if
// the type has one: String -> &str, Vec<T> -> &[T], Box<T> -> &T.
func derefBorrow(t symbol.RustType) (string, bool) {
	switch v := t.(type) {
	case symbol.Primitive:
		if v.Deref != "" {
			return "&" + v.Deref, true
		}
	case symbol.Vec:
		return "&[" + v.Elem.Render() + "]", true
	case symbol.Box:
		return "&" + v.Inner.Render(), true
	}
	return "", false
}

// emitDebug emits a Debug impl that substitutes a fixed placeholder for
// sensitive members.
func (g *StructureGenerator) emitDebug(s *model.Shape, sym symbol.Symbol, members []*model.Shape) Fragment {
	w := &writer{}
	w.block(fmt.Sprintf("impl std::fmt::Debug for %s", sym.Name), func() {
		w.block("fn fmt(&self, f: &mut std::fmt::Formatter<'_>) -> std::fmt::Result", func() {
			w.line("let mut formatter = f.debug_struct(%q);", sym.Name)
			for _, m := range members {
				field := fieldName(m.ID.Member)
				if g.sensitive(m) {
					w.line("formatter.field(%q, &%q);", field, redactedPlaceholder)
				} else {
					w.line("formatter.field(%q, &self.%s);", field, field)
				}
			}
			w.line("formatter.finish()")
		})
	})
	return w.fragment("debug")
}

func (g *StructureGenerator) sensitive(m *model.Shape) bool {
	return m.Traits.Has(model.TraitSensitive) || g.Model.TargetOf(m).Traits.Has(model.TraitSensitive)
}

// BuilderFallible computes whether constructing a complete value of the
// structure may fail. Pure over (structure, model, resolved symbols).
func (g *StructureGenerator) BuilderFallible(s *model.Shape) (bool, error) {
	s.Expect(model.KindStructure)

	switch g.Mode {
	case ModeServer:
		if g.ValidateInput {
			return g.Model.IsConstrained(s), nil
		}
		for _, m := range g.Model.MembersOf(s) {
			sym, err := g.Resolver.ResolveSymbol(m)
			if err != nil {
				return false, err
			}
			if !sym.IsOptional() {
				return true, nil
			}
		}
		return false, nil

	default: // ModeClient
		if s.Traits.Has(model.TraitSyntheticInput) {
			return true, nil
		}
		for _, m := range g.Model.MembersOf(s) {
			sym, err := g.Resolver.ResolveSymbol(m)
			if err != nil {
				return false, err
			}
			if !sym.IsOptional() && !g.null().HasUsableDefault(m, sym) {
				return true, nil
			}
		}
		return false, nil
	}
}

func deriveList(derives []string) string {
	if len(derives) == 0 {
		return ""
	}
	out := derives[0]
	for _, d := range derives[1:] {
		out += ", " + d
	}
	return out
}
