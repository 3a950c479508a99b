package rustgen

import (
	"fmt"

	"github.com/jackos/smithygen/model"
	"github.com/jackos/smithygen/symbol"
)

// emitBuilder emits the builder module for a structure. Builder fields
// hold Option of the field's unwrapped type; build() returns a Result
// exactly when BuilderFallible reports the structure fallible.
func (g *StructureGenerator) emitBuilder(s *model.Shape, sym symbol.Symbol, members []*model.Shape, syms []symbol.Symbol) (Fragment, error) {
	fallible, err := g.BuilderFallible(s)
	if err != nil {
		return Fragment{}, err
	}

	w := &writer{}
	w.line("/// See [`%s`](%s)", sym.Name, sym.FullName())
	w.block(fmt.Sprintf("pub mod %s", moduleName(sym.Name)), func() {
		w.line("/// A builder for [`%s`](%s)", sym.Name, sym.FullName())
		w.line("#[non_exhaustive]")
		w.line("#[derive(std::default::Default, std::clone::Clone, std::cmp::PartialEq, std::fmt::Debug)]")
		w.block("pub struct Builder", func() {
			for i, m := range members {
				w.line("pub(crate) %s: std::option::Option<%s>,", fieldName(m.ID.Member), unwrapped(syms[i].Type).Render())
			}
		})
		w.block("impl Builder", func() {
			for i, m := range members {
				field := fieldName(m.ID.Member)
				inner := unwrapped(syms[i].Type)

				w.doc(m.Traits.Documentation())
				param, store := setterInput(inner)
				w.block(fmt.Sprintf("pub fn %s(mut self, input: %s) -> Self", field, param), func() {
					w.line("self.%s = Some(%s);", field, store)
					w.line("self")
				})
				w.doc(m.Traits.Documentation())
				w.block(fmt.Sprintf("pub fn set_%s(mut self, input: std::option::Option<%s>) -> Self", field, inner.Render()), func() {
					w.line("self.%s = input;", field)
					w.line("self")
				})
			}

			w.line("/// Consumes the builder and constructs a [`%s`](%s)", sym.Name, sym.FullName())
			if fallible {
				w.block(fmt.Sprintf(
					"pub fn build(self) -> std::result::Result<%s, smithy_http::operation::BuildError>",
					sym.FullName()), func() {
					w.line("Ok(%s {", sym.FullName())
					w.indent++
					g.emitBuildFields(w, members, syms, true)
					w.indent--
					w.line("})")
				})
			} else {
				w.block(fmt.Sprintf("pub fn build(self) -> %s", sym.FullName()), func() {
					w.block(sym.FullName(), func() {
						g.emitBuildFields(w, members, syms, false)
					})
				})
			}
		})
	})

	w.blank()
	w.block(fmt.Sprintf("impl %s", sym.Name), func() {
		w.line("/// Creates a new builder-style object to manufacture [`%s`](%s)", sym.Name, sym.FullName())
		w.block(fmt.Sprintf("pub fn builder() -> %s::%s::Builder", sym.Namespace, moduleName(sym.Name)), func() {
			w.line("%s::%s::Builder::default()", sym.Namespace, moduleName(sym.Name))
		})
	})
	return w.fragment("builder"), nil
}

// emitBuildFields writes the field initializers of build().
func (g *StructureGenerator) emitBuildFields(w *writer, members []*model.Shape, syms []symbol.Symbol, fallible bool) {
	for i, m := range members {
		field := fieldName(m.ID.Member)
		switch {
		case syms[i].IsOptional():
			w.line("%s: self.%s,", field, field)
		case g.null().HasUsableDefault(m, syms[i]):
			w.line("%s: self.%s.unwrap_or_default(),", field, field)
		case fallible:
			w.line("%s: self.%s.ok_or(smithy_http::operation::BuildError::MissingField { field: %q, details: \"required field was not set\" })?,",
				field, field, field)
		default:
			// BuilderFallible guarantees a required, defaultless member
			// only appears in fallible builders.
			panic(fmt.Sprintf("rustgen: member %s requires a value but builder is infallible", m.ID))
		}
	}
}

// unwrapped strips the outer Option, if any: builder fields always hold
// Option of the unwrapped type.
func unwrapped(t symbol.RustType) symbol.RustType {
	if inner, ok := symbol.IsOption(t); ok {
		return inner
	}
	return t
}

// setterInput returns the setter parameter type and the stored
// expression. String fields take impl Into for ergonomic call sites.
func setterInput(inner symbol.RustType) (param, store string) {
	if p, ok := inner.(symbol.Primitive); ok && p.Deref == "str" {
		return "impl Into<" + p.Path + ">", "input.into()"
	}
	return inner.Render(), "input"
}
