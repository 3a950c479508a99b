// Package modeltest provides fluent builders for assembling shape models in
// tests without going through the JSON AST loader. This package is designed
// to be import-cycle safe and can be used from any package within the module.
package modeltest

import (
	"strings"
	"testing"

	"github.com/jackos/smithygen/model"
)

// WithTrait constructs a trait for use with the builder methods.
func WithTrait(name string, value any) model.Trait {
	return model.Trait{Name: name, Value: value}
}

// Required is the required trait with its conventional empty payload.
func Required() model.Trait {
	return model.Trait{Name: model.TraitRequired, Value: map[string]any{}}
}

// Member describes one structure or union member.
type Member struct {
	Name   string
	Target string
	Traits []model.Trait
}

// Builder accumulates shapes under a default namespace with a fluent API.
//
// Example:
//
//	m := modeltest.NewBuilder("example.orders").
//	    String("Tag").
//	    List("TagList", "Tag").
//	    Structure("GetOrderInput", modeltest.Member{Name: "id", Target: "smithy.api#String", Traits: []model.Trait{modeltest.Required()}}).
//	    Build(t)
type Builder struct {
	ns     string
	shapes []*model.Shape
}

// NewBuilder creates a builder. Shapes added with a bare name (no '#')
// land in namespace ns; absolute IDs pass through unchanged.
func NewBuilder(ns string) *Builder {
	return &Builder{ns: ns}
}

func (b *Builder) id(name string) model.ShapeID {
	if strings.Contains(name, "#") {
		return model.MustParseShapeID(name)
	}
	return model.ShapeID{Namespace: b.ns, Name: name}
}

func traitMap(traits []model.Trait) model.Traits {
	if len(traits) == 0 {
		return nil
	}
	out := make(model.Traits, len(traits))
	for _, tr := range traits {
		out[tr.Name] = tr
	}
	return out
}

// Shape adds a simple shape of the given kind.
func (b *Builder) Shape(name string, kind model.ShapeKind, traits ...model.Trait) *Builder {
	b.shapes = append(b.shapes, &model.Shape{
		ID:     b.id(name),
		Kind:   kind,
		Traits: traitMap(traits),
	})
	return b
}

// String adds a string shape.
func (b *Builder) String(name string, traits ...model.Trait) *Builder {
	return b.Shape(name, model.KindString, traits...)
}

// Integer adds an integer shape.
func (b *Builder) Integer(name string, traits ...model.Trait) *Builder {
	return b.Shape(name, model.KindInteger, traits...)
}

// Timestamp adds a timestamp shape.
func (b *Builder) Timestamp(name string, traits ...model.Trait) *Builder {
	return b.Shape(name, model.KindTimestamp, traits...)
}

// Blob adds a blob shape.
func (b *Builder) Blob(name string, traits ...model.Trait) *Builder {
	return b.Shape(name, model.KindBlob, traits...)
}

// List adds a list shape whose member targets target.
func (b *Builder) List(name, target string, traits ...model.Trait) *Builder {
	id := b.id(name)
	b.shapes = append(b.shapes,
		&model.Shape{ID: id, Kind: model.KindList, Traits: traitMap(traits), Elem: id.WithMember("member")},
		&model.Shape{ID: id.WithMember("member"), Kind: model.KindMember, Target: b.id(target)},
	)
	return b
}

// Set adds a set shape whose member targets target.
func (b *Builder) Set(name, target string, traits ...model.Trait) *Builder {
	id := b.id(name)
	b.shapes = append(b.shapes,
		&model.Shape{ID: id, Kind: model.KindSet, Traits: traitMap(traits), Elem: id.WithMember("member")},
		&model.Shape{ID: id.WithMember("member"), Kind: model.KindMember, Target: b.id(target)},
	)
	return b
}

// Map adds a map shape with string keys and values targeting value.
func (b *Builder) Map(name, value string, traits ...model.Trait) *Builder {
	id := b.id(name)
	b.shapes = append(b.shapes,
		&model.Shape{ID: id, Kind: model.KindMap, Traits: traitMap(traits), Key: id.WithMember("key"), Value: id.WithMember("value")},
		&model.Shape{ID: id.WithMember("key"), Kind: model.KindMember, Target: model.ShapeID{Namespace: "smithy.api", Name: "String"}},
		&model.Shape{ID: id.WithMember("value"), Kind: model.KindMember, Target: b.id(value)},
	)
	return b
}

// Structure adds a structure shape with the given members in declaration order.
func (b *Builder) Structure(name string, members ...Member) *Builder {
	return b.StructureWith(name, nil, members...)
}

// StructureWith adds a structure shape carrying shape-level traits.
func (b *Builder) StructureWith(name string, traits []model.Trait, members ...Member) *Builder {
	id := b.id(name)
	shape := &model.Shape{ID: id, Kind: model.KindStructure, Traits: traitMap(traits)}
	for _, mem := range members {
		shape.MemberNames = append(shape.MemberNames, mem.Name)
		b.shapes = append(b.shapes, &model.Shape{
			ID:     id.WithMember(mem.Name),
			Kind:   model.KindMember,
			Target: b.id(mem.Target),
			Traits: traitMap(mem.Traits),
		})
	}
	b.shapes = append(b.shapes, shape)
	return b
}

// Union adds a union shape with the given members in declaration order.
func (b *Builder) Union(name string, members ...Member) *Builder {
	id := b.id(name)
	shape := &model.Shape{ID: id, Kind: model.KindUnion}
	for _, mem := range members {
		shape.MemberNames = append(shape.MemberNames, mem.Name)
		b.shapes = append(b.shapes, &model.Shape{
			ID:     id.WithMember(mem.Name),
			Kind:   model.KindMember,
			Target: b.id(mem.Target),
			Traits: traitMap(mem.Traits),
		})
	}
	b.shapes = append(b.shapes, shape)
	return b
}

// Operation adds an operation shape bound to input with an http trait.
// Pass a nil httpTrait for operations without protocol bindings.
func (b *Builder) Operation(name, input string, httpTrait map[string]any) *Builder {
	var traits model.Traits
	if httpTrait != nil {
		traits = model.Traits{model.TraitHTTP: {Name: model.TraitHTTP, Value: httpTrait}}
	}
	shape := &model.Shape{ID: b.id(name), Kind: model.KindOperation, Traits: traits}
	if input != "" {
		shape.Input = b.id(input)
	}
	b.shapes = append(b.shapes, shape)
	return b
}

// HTTP builds an http trait payload for Operation.
func HTTP(method, uri string) map[string]any {
	return map[string]any{"method": method, "uri": uri}
}

// Build assembles the model, failing the test on reference or duplicate errors.
func (b *Builder) Build(t *testing.T) *model.Model {
	t.Helper()
	m, err := model.NewModel(append(model.PreludeShapes(), b.shapes...))
	if err != nil {
		t.Fatalf("build model: %v", err)
	}
	return m
}
