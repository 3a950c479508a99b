package model_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jackos/smithygen/internal/modeltest"
	"github.com/jackos/smithygen/model"
)

func TestParseURITemplate(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		want    model.URITemplate
		wantErr string
	}{
		{
			name: "literal path",
			uri:  "/orders",
			want: model.URITemplate{
				Segments: []model.PathSegment{{Content: "orders"}},
			},
		},
		{
			name: "label segment",
			uri:  "/orders/{id}",
			want: model.URITemplate{
				Segments: []model.PathSegment{
					{Content: "orders"},
					{Content: "id", IsLabel: true},
				},
			},
		},
		{
			name: "greedy label",
			uri:  "/files/{path+}",
			want: model.URITemplate{
				Segments: []model.PathSegment{
					{Content: "files"},
					{Content: "path", IsLabel: true, Greedy: true},
				},
			},
		},
		{
			name: "query literals keep declared order",
			uri:  "/orders?archived&kind=full&x=1",
			want: model.URITemplate{
				Segments: []model.PathSegment{{Content: "orders"}},
				QueryLiterals: []model.QueryLiteral{
					{Key: "archived"},
					{Key: "kind", Value: "full"},
					{Key: "x", Value: "1"},
				},
			},
		},
		{
			name:    "no leading slash",
			uri:     "orders/{id}",
			wantErr: "must start with /",
		},
		{
			name:    "duplicate label",
			uri:     "/orders/{id}/items/{id}",
			wantErr: "duplicate label",
		},
		{
			name:    "empty label",
			uri:     "/orders/{}",
			wantErr: "empty label",
		},
		{
			name:    "malformed segment",
			uri:     "/orders/{id",
			wantErr: "malformed segment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.ParseURITemplate(tt.uri)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ParseURITemplate(%q) err = %v, want %q", tt.uri, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseURITemplate(%q): %v", tt.uri, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseURITemplate(%q) mismatch (-want +got):\n%s", tt.uri, diff)
			}
		})
	}
}

func bindingModel(t *testing.T) *model.Model {
	t.Helper()
	return modeltest.NewBuilder("example.orders").
		List("TagList", "smithy.api#String").
		Structure("GetOrderInput",
			modeltest.Member{Name: "id", Target: "smithy.api#String", Traits: []model.Trait{
				modeltest.Required(),
				modeltest.WithTrait(model.TraitHTTPLabel, map[string]any{}),
			}},
			modeltest.Member{Name: "kind", Target: "smithy.api#String", Traits: []model.Trait{
				modeltest.WithTrait(model.TraitHTTPQuery, "kind"),
			}},
			modeltest.Member{Name: "tags", Target: "TagList", Traits: []model.Trait{
				modeltest.WithTrait(model.TraitHTTPHeader, "x-tags"),
			}},
			modeltest.Member{Name: "note", Target: "smithy.api#String"},
		).
		Operation("GetOrder", "GetOrderInput", modeltest.HTTP("GET", "/orders/{id}")).
		Build(t)
}

func TestBindingsOf(t *testing.T) {
	m := bindingModel(t)
	op := m.ExpectShape(model.MustParseShapeID("example.orders#GetOrder"))
	ht, err := m.HTTPTraitOf(op)
	if err != nil {
		t.Fatalf("HTTPTraitOf: %v", err)
	}

	bindings, err := m.BindingsOf(op, ht)
	if err != nil {
		t.Fatalf("BindingsOf: %v", err)
	}

	type flat struct {
		Member   string
		Location model.BindingLocation
		Name     string
	}
	var got []flat
	for _, b := range bindings {
		got = append(got, flat{b.Member.ID.Member, b.Location, b.LocationName})
	}
	want := []flat{
		{"id", model.BindLabel, "id"},
		{"kind", model.BindQuery, "kind"},
		{"tags", model.BindHeader, "x-tags"},
		{"note", model.BindDocument, "note"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("bindings mismatch (-want +got):\n%s", diff)
	}
}

func TestBindingsOf_Errors(t *testing.T) {
	tests := []struct {
		name    string
		build   func(t *testing.T) *model.Model
		wantErr string
	}{
		{
			name: "label not in URI",
			build: func(t *testing.T) *model.Model {
				return modeltest.NewBuilder("example.orders").
					Structure("In",
						modeltest.Member{Name: "id", Target: "smithy.api#String", Traits: []model.Trait{
							modeltest.Required(),
							modeltest.WithTrait(model.TraitHTTPLabel, map[string]any{}),
						}},
					).
					Operation("Op", "In", modeltest.HTTP("GET", "/orders")).
					Build(t)
			},
			wantErr: "label absent from URI pattern",
		},
		{
			name: "URI label with no bound member",
			build: func(t *testing.T) *model.Model {
				return modeltest.NewBuilder("example.orders").
					Structure("In",
						modeltest.Member{Name: "note", Target: "smithy.api#String"},
					).
					Operation("Op", "In", modeltest.HTTP("GET", "/orders/{id}")).
					Build(t)
			},
			wantErr: "no bound input member",
		},
		{
			name: "prefix headers unsupported",
			build: func(t *testing.T) *model.Model {
				return modeltest.NewBuilder("example.orders").
					Map("HeaderMap", "smithy.api#String").
					Structure("In",
						modeltest.Member{Name: "meta", Target: "HeaderMap", Traits: []model.Trait{
							modeltest.WithTrait(model.TraitHTTPPrefixHdrs, "x-meta-"),
						}},
					).
					Operation("Op", "In", modeltest.HTTP("GET", "/orders")).
					Build(t)
			},
			wantErr: "httpPrefixHeaders",
		},
		{
			name: "labels without input",
			build: func(t *testing.T) *model.Model {
				return modeltest.NewBuilder("example.orders").
					Operation("Op", "", modeltest.HTTP("GET", "/orders/{id}")).
					Build(t)
			},
			wantErr: "no input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.build(t)
			op := m.ExpectShape(model.MustParseShapeID("example.orders#Op"))
			ht, err := m.HTTPTraitOf(op)
			if err != nil {
				t.Fatalf("HTTPTraitOf: %v", err)
			}
			_, err = m.BindingsOf(op, ht)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("BindingsOf err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestHTTPTraitOf_Absent(t *testing.T) {
	m := modeltest.NewBuilder("example.orders").
		Operation("Op", "", nil).
		Build(t)
	op := m.ExpectShape(model.MustParseShapeID("example.orders#Op"))
	ht, err := m.HTTPTraitOf(op)
	if err != nil {
		t.Fatalf("HTTPTraitOf: %v", err)
	}
	if ht != nil {
		t.Errorf("HTTPTraitOf = %+v, want nil", ht)
	}
}
