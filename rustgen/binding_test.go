package rustgen_test

import (
	"strings"
	"testing"

	"github.com/jackos/smithygen/internal/modeltest"
	"github.com/jackos/smithygen/model"
	"github.com/jackos/smithygen/rustgen"
	"github.com/jackos/smithygen/symbol"
)

func generateBindings(t *testing.T, m *model.Model, opID string) map[string]string {
	t.Helper()
	g := &rustgen.RequestBindingGenerator{
		Model:    m,
		Resolver: symbol.NewChain(m, nil),
	}
	frags, err := g.Generate(m.ExpectShape(model.MustParseShapeID(opID)))
	if err != nil {
		t.Fatalf("Generate(%s): %v", opID, err)
	}
	out := make(map[string]string, len(frags))
	for _, f := range frags {
		out[f.Name] = f.Content
	}
	return out
}

func TestBindingGenerator_URIBase(t *testing.T) {
	m := modeltest.NewBuilder("example.orders").
		StructureWith("GetOrderInput",
			[]model.Trait{modeltest.WithTrait(model.TraitSyntheticInput, map[string]any{})},
			modeltest.Member{Name: "id", Target: "smithy.api#String", Traits: []model.Trait{
				modeltest.Required(),
				modeltest.WithTrait(model.TraitHTTPLabel, map[string]any{}),
			}},
		).
		Operation("GetOrder", "GetOrderInput", modeltest.HTTP("GET", "/orders/{id}")).
		Build(t)

	frags := generateBindings(t, m, "example.orders#GetOrder")
	assertContains(t, frags["uri_base"], []string{
		"fn uri_base(_input: &crate::input::GetOrderInput, output: &mut std::string::String) -> std::result::Result<(), smithy_http::operation::BuildError> {",
		"let id = &_input.id;",
		"let id = smithy_http::label::fmt_string(id, false);",
		"if id.is_empty() {",
		`return Err(smithy_http::operation::BuildError::MissingField { field: "id", details: "cannot be empty or unset" });`,
		`write!(output, "/orders/{id}", id = id).expect("formatting should succeed");`,
		"Ok(())",
	})
}

func TestBindingGenerator_OptionalLabelRejected(t *testing.T) {
	// An optional label member must surface as a missing-field error at
	// request build time, not silently produce a broken path.
	m := modeltest.NewBuilder("example.orders").
		StructureWith("In",
			[]model.Trait{modeltest.WithTrait(model.TraitSyntheticInput, map[string]any{})},
			modeltest.Member{Name: "id", Target: "smithy.api#String", Traits: []model.Trait{
				modeltest.WithTrait(model.TraitHTTPLabel, map[string]any{}),
			}},
		).
		Operation("Op", "In", modeltest.HTTP("GET", "/orders/{id}")).
		Build(t)

	frags := generateBindings(t, m, "example.orders#Op")
	assertContains(t, frags["uri_base"], []string{
		`let id = _input.id.as_ref().ok_or(smithy_http::operation::BuildError::MissingField { field: "id", details: "cannot be empty or unset" })?;`,
	})
}

func TestBindingGenerator_GreedyLabel(t *testing.T) {
	m := modeltest.NewBuilder("example.files").
		StructureWith("In",
			[]model.Trait{modeltest.WithTrait(model.TraitSyntheticInput, map[string]any{})},
			modeltest.Member{Name: "path", Target: "smithy.api#String", Traits: []model.Trait{
				modeltest.Required(),
				modeltest.WithTrait(model.TraitHTTPLabel, map[string]any{}),
			}},
		).
		Operation("Op", "In", modeltest.HTTP("GET", "/files/{path+}")).
		Build(t)

	frags := generateBindings(t, m, "example.files#Op")
	assertContains(t, frags["uri_base"], []string{
		"smithy_http::label::fmt_string(path, true)",
	})
}

// Query parameters go out in a fixed order: literals from the URI
// pattern first, in declared order, then member bindings in member
// declaration order.
func TestBindingGenerator_QueryOrdering(t *testing.T) {
	m := modeltest.NewBuilder("example.orders").
		List("TagList", "smithy.api#String").
		StructureWith("In",
			[]model.Trait{modeltest.WithTrait(model.TraitSyntheticInput, map[string]any{})},
			modeltest.Member{Name: "kind", Target: "smithy.api#String", Traits: []model.Trait{
				modeltest.WithTrait(model.TraitHTTPQuery, "kind"),
			}},
			modeltest.Member{Name: "tags", Target: "TagList", Traits: []model.Trait{
				modeltest.WithTrait(model.TraitHTTPQuery, "tag"),
			}},
		).
		Operation("Op", "In", modeltest.HTTP("GET", "/orders?archived&view=full")).
		Build(t)

	frags := generateBindings(t, m, "example.orders#Op")
	q := frags["uri_query"]
	assertContains(t, q, []string{
		"fn uri_query(_input: &crate::input::In, output: &mut std::string::String) {",
		"let mut query = smithy_http::query::Writer::new(output);",
		// Value-less literal appends a bare key.
		`query.push_key("archived");`,
		`query.push_kv("view", "full");`,
		"if let Some(value) = &_input.kind {",
		`query.push_kv("kind", &smithy_http::query::fmt_string(value));`,
		"if let Some(inner) = &_input.tags {",
		"for value in inner.iter() {",
		`query.push_kv("tag", &smithy_http::query::fmt_string(value));`,
	})

	order := []string{`push_key("archived")`, `push_kv("view"`, `push_kv("kind"`, `push_kv("tag"`}
	last := -1
	for _, marker := range order {
		idx := strings.Index(q, marker)
		if idx < 0 {
			t.Fatalf("uri_query missing %q\n---\n%s", marker, q)
		}
		if idx < last {
			t.Errorf("uri_query emits %q out of order\n---\n%s", marker, q)
		}
		last = idx
	}

	// Query values are appended unconditionally once present; only
	// headers skip empty strings.
	assertNotContains(t, q, []string{"is_empty"})
}

// A GET with one label and one list-valued query parameter: the path
// builder substitutes the label, the query builder appends every
// element unconditionally, and no header builder exists to skip
// anything. Empty-value skipping applies to headers only.
func TestBindingGenerator_OrderScenario(t *testing.T) {
	m := modeltest.NewBuilder("example.orders").
		List("TagList", "smithy.api#String").
		StructureWith("GetOrderInput",
			[]model.Trait{modeltest.WithTrait(model.TraitSyntheticInput, map[string]any{})},
			modeltest.Member{Name: "id", Target: "smithy.api#String", Traits: []model.Trait{
				modeltest.Required(),
				modeltest.WithTrait(model.TraitHTTPLabel, map[string]any{}),
			}},
			modeltest.Member{Name: "tags", Target: "TagList", Traits: []model.Trait{
				modeltest.WithTrait(model.TraitHTTPQuery, "Tag"),
			}},
		).
		Operation("GetOrder", "GetOrderInput", modeltest.HTTP("GET", "/orders/{id}")).
		Build(t)

	frags := generateBindings(t, m, "example.orders#GetOrder")
	assertContains(t, frags["uri_base"], []string{
		`write!(output, "/orders/{id}", id = id)`,
	})
	assertContains(t, frags["uri_query"], []string{
		"for value in inner.iter() {",
		`query.push_kv("Tag", &smithy_http::query::fmt_string(value));`,
	})
	// Every element is appended, including ones formatting to "".
	assertNotContains(t, frags["uri_query"], []string{"is_empty"})
	if _, ok := frags["add_headers"]; ok {
		t.Error("add_headers emitted with no header bindings")
	}
}

func TestBindingGenerator_Headers(t *testing.T) {
	m := modeltest.NewBuilder("example.orders").
		List("TagList", "smithy.api#String").
		StructureWith("In",
			[]model.Trait{modeltest.WithTrait(model.TraitSyntheticInput, map[string]any{})},
			modeltest.Member{Name: "apiKey", Target: "smithy.api#String", Traits: []model.Trait{
				modeltest.WithTrait(model.TraitHTTPHeader, "x-api-key"),
			}},
			modeltest.Member{Name: "tags", Target: "TagList", Traits: []model.Trait{
				modeltest.WithTrait(model.TraitHTTPHeader, "x-tag"),
			}},
		).
		Operation("Op", "In", modeltest.HTTP("GET", "/orders")).
		Build(t)

	frags := generateBindings(t, m, "example.orders#Op")
	h := frags["add_headers"]
	assertContains(t, h, []string{
		"fn add_headers(_input: &crate::input::In, mut builder: http::request::Builder) -> std::result::Result<http::request::Builder, smithy_http::operation::BuildError> {",
		"if let Some(value) = &_input.api_key {",
		"let formatted = value.to_string();",
		// Empty formatted values never become empty headers.
		"if !formatted.is_empty() {",
		`builder = builder.header("x-api-key", formatted);`,
		// Collection bindings expand to one header per element.
		"if let Some(inner) = &_input.tags {",
		"for value in inner.iter() {",
		`builder = builder.header("x-tag", formatted);`,
		"Ok(builder)",
	})
}

func TestBindingGenerator_HeaderMediaTypeBase64(t *testing.T) {
	m := modeltest.NewBuilder("example.orders").
		String("JSONValue", modeltest.WithTrait(model.TraitMediaType, "application/json")).
		StructureWith("In",
			[]model.Trait{modeltest.WithTrait(model.TraitSyntheticInput, map[string]any{})},
			modeltest.Member{Name: "payload", Target: "JSONValue", Traits: []model.Trait{
				modeltest.WithTrait(model.TraitHTTPHeader, "x-payload"),
			}},
		).
		Operation("Op", "In", modeltest.HTTP("GET", "/orders")).
		Build(t)

	frags := generateBindings(t, m, "example.orders#Op")
	assertContains(t, frags["add_headers"], []string{
		"smithy_types::base64::encode(value)",
	})
	assertNotContains(t, frags["add_headers"], []string{"value.to_string()"})
}

func TestBindingGenerator_TimestampHeader(t *testing.T) {
	m := modeltest.NewBuilder("example.orders").
		StructureWith("In",
			[]model.Trait{modeltest.WithTrait(model.TraitSyntheticInput, map[string]any{})},
			modeltest.Member{Name: "since", Target: "smithy.api#Timestamp", Traits: []model.Trait{
				modeltest.WithTrait(model.TraitHTTPHeader, "x-since"),
			}},
			modeltest.Member{Name: "until", Target: "smithy.api#Timestamp", Traits: []model.Trait{
				modeltest.WithTrait(model.TraitHTTPQuery, "until"),
			}},
		).
		Operation("Op", "In", modeltest.HTTP("GET", "/orders")).
		Build(t)

	frags := generateBindings(t, m, "example.orders#Op")
	// Headers default to the HTTP date format, queries to RFC 3339.
	assertContains(t, frags["add_headers"], []string{
		"smithy_http::header::fmt_timestamp(value, smithy_types::instant::Format::HttpDate)",
	})
	assertContains(t, frags["uri_query"], []string{
		"smithy_http::query::fmt_timestamp(value, smithy_types::instant::Format::DateTime)",
	})
}

func TestBindingGenerator_Updater(t *testing.T) {
	m := modeltest.NewBuilder("example.orders").
		StructureWith("In",
			[]model.Trait{modeltest.WithTrait(model.TraitSyntheticInput, map[string]any{})},
			modeltest.Member{Name: "id", Target: "smithy.api#String", Traits: []model.Trait{
				modeltest.Required(),
				modeltest.WithTrait(model.TraitHTTPLabel, map[string]any{}),
			}},
			modeltest.Member{Name: "kind", Target: "smithy.api#String", Traits: []model.Trait{
				modeltest.WithTrait(model.TraitHTTPQuery, "kind"),
			}},
			modeltest.Member{Name: "apiKey", Target: "smithy.api#String", Traits: []model.Trait{
				modeltest.WithTrait(model.TraitHTTPHeader, "x-api-key"),
			}},
		).
		Operation("Op", "In", modeltest.HTTP("POST", "/orders/{id}")).
		Build(t)

	frags := generateBindings(t, m, "example.orders#Op")
	u := frags["update_http_builder"]
	assertContains(t, u, []string{
		"pub fn update_http_builder(input: &crate::input::In, builder: http::request::Builder) -> std::result::Result<http::request::Builder, smithy_http::operation::BuildError> {",
		"let mut uri = std::string::String::new();",
		"uri_base(input, &mut uri)?;",
		"uri_query(input, &mut uri);",
		`let builder = builder.method("POST").uri(uri);`,
		"let builder = add_headers(input, builder)?;",
		"Ok(builder)",
	})

	// Fixed composition order: path, query, then headers.
	base := strings.Index(u, "uri_base(")
	query := strings.Index(u, "uri_query(")
	headers := strings.Index(u, "add_headers(")
	if !(base < query && query < headers) {
		t.Errorf("updater order wrong: base=%d query=%d headers=%d\n---\n%s", base, query, headers, u)
	}
}

func TestBindingGenerator_NoQueryNoHeaderFragments(t *testing.T) {
	m := modeltest.NewBuilder("example.orders").
		StructureWith("In",
			[]model.Trait{modeltest.WithTrait(model.TraitSyntheticInput, map[string]any{})},
			modeltest.Member{Name: "note", Target: "smithy.api#String"},
		).
		Operation("Op", "In", modeltest.HTTP("GET", "/orders")).
		Build(t)

	frags := generateBindings(t, m, "example.orders#Op")
	if _, ok := frags["uri_query"]; ok {
		t.Error("uri_query emitted with no query parameters")
	}
	if _, ok := frags["add_headers"]; ok {
		t.Error("add_headers emitted with no header bindings")
	}
	assertContains(t, frags["update_http_builder"], []string{
		`Ok(builder.method("GET").uri(uri))`,
	})
}

func TestBindingGenerator_Errors(t *testing.T) {
	tests := []struct {
		name    string
		build   func(t *testing.T) *model.Model
		wantErr string
	}{
		{
			name: "no http trait",
			build: func(t *testing.T) *model.Model {
				return modeltest.NewBuilder("example.orders").
					Structure("In").
					Operation("Op", "In", nil).
					Build(t)
			},
			wantErr: "no http trait",
		},
		{
			name: "no input",
			build: func(t *testing.T) *model.Model {
				return modeltest.NewBuilder("example.orders").
					Operation("Op", "", modeltest.HTTP("GET", "/orders")).
					Build(t)
			},
			wantErr: "no input structure",
		},
		{
			name: "map query binding",
			build: func(t *testing.T) *model.Model {
				return modeltest.NewBuilder("example.orders").
					Map("Params", "smithy.api#String").
					StructureWith("In",
						[]model.Trait{modeltest.WithTrait(model.TraitSyntheticInput, map[string]any{})},
						modeltest.Member{Name: "params", Target: "Params", Traits: []model.Trait{
							modeltest.WithTrait(model.TraitHTTPQuery, "p"),
						}},
					).
					Operation("Op", "In", modeltest.HTTP("GET", "/orders")).
					Build(t)
			},
			wantErr: "map-valued query bindings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.build(t)
			g := &rustgen.RequestBindingGenerator{
				Model:    m,
				Resolver: symbol.NewChain(m, nil),
			}
			_, err := g.Generate(m.ExpectShape(model.MustParseShapeID("example.orders#Op")))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Generate err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
