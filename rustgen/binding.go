package rustgen

import (
	"fmt"
	"strings"

	"github.com/jackos/smithygen/model"
	"github.com/jackos/smithygen/symbol"
)

// RequestBindingGenerator turns one operation's HTTP binding metadata
// into request-construction procedures: a path builder, a query
// builder, a header builder, and a composed updater that applies them
// in a fixed order.
type RequestBindingGenerator struct {
	Model      *model.Model
	Resolver   symbol.Resolver
	Timestamps TimestampResolver
}

func (g *RequestBindingGenerator) formatter() valueFormatter {
	ts := g.Timestamps
	if ts == nil {
		ts = TraitTimestampResolver{Model: g.Model}
	}
	return valueFormatter{model: g.Model, timestamps: ts}
}

// Generate emits the binding fragments for an operation. uri_base and
// update_http_builder are always present; uri_query appears only when
// a literal or dynamic query parameter exists, add_headers only when a
// member binds to a header.
func (g *RequestBindingGenerator) Generate(op *model.Shape) ([]Fragment, error) {
	op.Expect(model.KindOperation)

	ht, err := g.Model.HTTPTraitOf(op)
	if err != nil {
		return nil, err
	}
	if ht == nil {
		return nil, fmt.Errorf("operation %s has no http trait", op.ID)
	}
	if op.Input.IsZero() {
		return nil, fmt.Errorf("operation %s has no input structure", op.ID)
	}
	inputSym, err := g.Resolver.ResolveSymbol(g.Model.ExpectShape(op.Input))
	if err != nil {
		return nil, err
	}

	bindings, err := g.Model.BindingsOf(op, ht)
	if err != nil {
		return nil, err
	}
	var labels, queries, headers []model.Binding
	for _, b := range bindings {
		switch b.Location {
		case model.BindLabel:
			labels = append(labels, b)
		case model.BindQuery:
			queries = append(queries, b)
		case model.BindHeader:
			headers = append(headers, b)
		}
	}

	fragments := []Fragment{}
	uriBase, err := g.emitURIBase(inputSym, ht, labels)
	if err != nil {
		return nil, fmt.Errorf("operation %s: %w", op.ID, err)
	}
	fragments = append(fragments, uriBase)

	hasQuery := len(ht.URI.QueryLiterals) > 0 || len(queries) > 0
	if hasQuery {
		q, err := g.emitURIQuery(inputSym, ht, queries)
		if err != nil {
			return nil, fmt.Errorf("operation %s: %w", op.ID, err)
		}
		fragments = append(fragments, q)
	}
	if len(headers) > 0 {
		h, err := g.emitHeaders(inputSym, headers)
		if err != nil {
			return nil, fmt.Errorf("operation %s: %w", op.ID, err)
		}
		fragments = append(fragments, h)
	}

	fragments = append(fragments, g.emitUpdater(inputSym, ht, hasQuery, len(headers) > 0))
	return fragments, nil
}

// emitURIBase renders the URI template: label segments substitute the
// formatted member value, literal segments are emitted verbatim.
func (g *RequestBindingGenerator) emitURIBase(input symbol.Symbol, ht *model.HTTPTrait, labels []model.Binding) (Fragment, error) {
	byName := make(map[string]model.Binding, len(labels))
	for _, b := range labels {
		byName[b.LocationName] = b
	}

	w := &writer{}
	w.block(fmt.Sprintf(
		"fn uri_base(_input: &%s, output: &mut std::string::String) -> std::result::Result<(), smithy_http::operation::BuildError>",
		input.FullName()), func() {
		var template strings.Builder
		var args []string
		for _, seg := range ht.URI.Segments {
			template.WriteByte('/')
			if !seg.IsLabel {
				template.WriteString(seg.Content)
				continue
			}
			b := byName[seg.Content]
			local := fieldName(seg.Content)
			template.WriteString("{" + local + "}")
			args = append(args, local)
			g.emitLabelValue(w, b, local)
		}
		uri := template.String()
		if len(args) == 0 {
			w.line("output.push_str(%q);", uri)
		} else {
			var fmtArgs strings.Builder
			for _, a := range args {
				fmtArgs.WriteString(fmt.Sprintf(", %s = %s", a, a))
			}
			w.line("write!(output, %q%s).expect(\"formatting should succeed\");", uri, fmtArgs.String())
		}
		w.line("Ok(())")
	})
	return w.fragment("uri_base"), nil
}

// emitLabelValue binds a local holding the formatted label text and
// rejects empty values, which would produce a malformed path.
func (g *RequestBindingGenerator) emitLabelValue(w *writer, b model.Binding, local string) {
	field := fieldName(b.Member.ID.Member)
	sym := g.mustResolve(b.Member)
	if sym.IsOptional() {
		w.line("let %s = _input.%s.as_ref().ok_or(smithy_http::operation::BuildError::MissingField { field: %q, details: \"cannot be empty or unset\" })?;",
			local, field, field)
	} else {
		w.line("let %s = &_input.%s;", local, field)
	}
	w.line("let %s = %s;", local, g.formatter().expr(b.Member, local, model.BindLabel, b.Greedy))
	w.block(fmt.Sprintf("if %s.is_empty()", local), func() {
		w.line("return Err(smithy_http::operation::BuildError::MissingField { field: %q, details: \"cannot be empty or unset\" });", field)
	})
}

// emitURIQuery appends query parameters in the contract order: literal
// parameters in declared order first, then dynamic bindings in
// member-declaration order. Collection members expand to one append
// per element. Empty formatted values are still appended; only headers
// have a skip-empty rule.
func (g *RequestBindingGenerator) emitURIQuery(input symbol.Symbol, ht *model.HTTPTrait, queries []model.Binding) (Fragment, error) {
	w := &writer{}
	var err error
	w.block(fmt.Sprintf("fn uri_query(_input: &%s, output: &mut std::string::String)", input.FullName()), func() {
		w.line("let mut query = smithy_http::query::Writer::new(output);")
		for _, lit := range ht.URI.QueryLiterals {
			if lit.Value == "" {
				w.line("query.push_key(%q);", lit.Key)
			} else {
				w.line("query.push_kv(%q, %q);", lit.Key, lit.Value)
			}
		}
		for _, b := range queries {
			if e := g.emitQueryBinding(w, b); e != nil && err == nil {
				err = e
			}
		}
	})
	if err != nil {
		return Fragment{}, err
	}
	return w.fragment("uri_query"), nil
}

func (g *RequestBindingGenerator) emitQueryBinding(w *writer, b model.Binding) error {
	field := fieldName(b.Member.ID.Member)
	sym := g.mustResolve(b.Member)
	target := g.Model.TargetOf(b.Member)

	push := func(member *model.Shape, value string) {
		w.line("query.push_kv(%q, &%s);", b.LocationName, g.formatter().expr(member, value, model.BindQuery, false))
	}

	switch target.Kind {
	case model.KindList, model.KindSet:
		elemMember := g.Model.ExpectShape(target.Elem)
		if sym.IsOptional() {
			w.block(fmt.Sprintf("if let Some(inner) = &_input.%s", field), func() {
				w.block("for value in inner.iter()", func() {
					push(elemMember, "value")
				})
			})
		} else {
			w.block(fmt.Sprintf("for value in _input.%s.iter()", field), func() {
				push(elemMember, "value")
			})
		}
	case model.KindMap:
		return fmt.Errorf("member %s: map-valued query bindings are not supported", b.Member.ID)
	default:
		if sym.IsOptional() {
			w.block(fmt.Sprintf("if let Some(value) = &_input.%s", field), func() {
				push(b.Member, "value")
			})
		} else {
			w.line("let value = &_input.%s;", field)
			push(b.Member, "value")
		}
	}
	return nil
}

// emitHeaders emits one header line per formatted element. A formatted
// value that is empty is skipped, never emitted as an empty header.
func (g *RequestBindingGenerator) emitHeaders(input symbol.Symbol, headers []model.Binding) (Fragment, error) {
	w := &writer{}
	var err error
	w.block(fmt.Sprintf(
		"fn add_headers(_input: &%s, mut builder: http::request::Builder) -> std::result::Result<http::request::Builder, smithy_http::operation::BuildError>",
		input.FullName()), func() {
		for _, b := range headers {
			if e := g.emitHeaderBinding(w, b); e != nil && err == nil {
				err = e
			}
		}
		w.line("Ok(builder)")
	})
	if err != nil {
		return Fragment{}, err
	}
	return w.fragment("add_headers"), nil
}

func (g *RequestBindingGenerator) emitHeaderBinding(w *writer, b model.Binding) error {
	field := fieldName(b.Member.ID.Member)
	sym := g.mustResolve(b.Member)
	target := g.Model.TargetOf(b.Member)

	emitValue := func(member *model.Shape) {
		w.line("let formatted = %s;", g.formatter().expr(member, "value", model.BindHeader, false))
		w.block("if !formatted.is_empty()", func() {
			w.line("builder = builder.header(%q, formatted);", b.LocationName)
		})
	}

	switch target.Kind {
	case model.KindList, model.KindSet:
		elemMember := g.Model.ExpectShape(target.Elem)
		if sym.IsOptional() {
			w.block(fmt.Sprintf("if let Some(inner) = &_input.%s", field), func() {
				w.block("for value in inner.iter()", func() {
					emitValue(elemMember)
				})
			})
		} else {
			w.block(fmt.Sprintf("for value in _input.%s.iter()", field), func() {
				emitValue(elemMember)
			})
		}
	case model.KindMap:
		return fmt.Errorf("member %s: map-valued header bindings are not supported", b.Member.ID)
	default:
		// Scalars are the single-element case of the same expansion.
		if sym.IsOptional() {
			w.block(fmt.Sprintf("if let Some(value) = &_input.%s", field), func() {
				emitValue(b.Member)
			})
		} else {
			w.line("let value = &_input.%s;", field)
			emitValue(b.Member)
		}
	}
	return nil
}

// emitUpdater composes the builders. The order is fixed: method and
// path always, query appended onto the same string when present,
// headers applied to the outgoing builder last.
func (g *RequestBindingGenerator) emitUpdater(input symbol.Symbol, ht *model.HTTPTrait, hasQuery, hasHeaders bool) Fragment {
	w := &writer{}
	w.block(fmt.Sprintf(
		"pub fn update_http_builder(input: &%s, builder: http::request::Builder) -> std::result::Result<http::request::Builder, smithy_http::operation::BuildError>",
		input.FullName()), func() {
		w.line("let mut uri = std::string::String::new();")
		w.line("uri_base(input, &mut uri)?;")
		if hasQuery {
			w.line("uri_query(input, &mut uri);")
		}
		if hasHeaders {
			w.line("let builder = builder.method(%q).uri(uri);", ht.Method)
			w.line("let builder = add_headers(input, builder)?;")
			w.line("Ok(builder)")
		} else {
			w.line("Ok(builder.method(%q).uri(uri))", ht.Method)
		}
	})
	return w.fragment("update_http_builder")
}

// mustResolve resolves a member symbol, panicking on failure. Binding
// generation only runs after the input structure resolved successfully,
// so a member that fails here is a resolution-chain bug.
func (g *RequestBindingGenerator) mustResolve(member *model.Shape) symbol.Symbol {
	sym, err := g.Resolver.ResolveSymbol(member)
	if err != nil {
		panic(fmt.Sprintf("rustgen: member %s failed to resolve during binding emission: %v", member.ID, err))
	}
	return sym
}
