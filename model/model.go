// Package model defines the shape graph consumed by the generator: shapes,
// traits, and the query operations the resolution chain and emitters use.
// A Model is loaded once and never mutated for the duration of a run.
package model

import (
	"fmt"
	"sort"
)

// Model is an immutable, fully-loaded shape graph.
type Model struct {
	shapes map[ShapeID]*Shape

	// boxed records member edges that participate in a reference cycle
	// and therefore need owning indirection. Populated by the recursion
	// analysis on load.
	boxed map[ShapeID]bool
}

// NewModel builds a model from a set of shapes and runs the recursion
// analysis over the resulting graph.
func NewModel(shapes []*Shape) (*Model, error) {
	m := &Model{shapes: make(map[ShapeID]*Shape, len(shapes))}
	for _, s := range shapes {
		if _, dup := m.shapes[s.ID]; dup {
			return nil, fmt.Errorf("duplicate shape ID %s", s.ID)
		}
		m.shapes[s.ID] = s
	}
	if err := m.check(); err != nil {
		return nil, err
	}
	m.boxed = markRecursiveMembers(m)
	return m, nil
}

// check verifies that every reference inside the graph resolves.
func (m *Model) check() error {
	for _, s := range m.shapes {
		var refs []ShapeID
		switch s.Kind {
		case KindMember:
			refs = append(refs, s.Target)
		case KindList, KindSet:
			refs = append(refs, s.Elem)
		case KindMap:
			refs = append(refs, s.Key, s.Value)
		case KindStructure, KindUnion:
			for _, name := range s.MemberNames {
				refs = append(refs, s.ID.WithMember(name))
			}
		case KindOperation:
			if !s.Input.IsZero() {
				refs = append(refs, s.Input)
			}
			if !s.Output.IsZero() {
				refs = append(refs, s.Output)
			}
			refs = append(refs, s.Errors...)
		case KindService:
			refs = append(refs, s.Operations...)
		}
		for _, ref := range refs {
			if _, ok := m.shapes[ref]; !ok {
				return fmt.Errorf("shape %s references unknown shape %s", s.ID, ref)
			}
		}
	}
	return nil
}

// ShapeOf returns the shape with the given ID, or nil if absent.
func (m *Model) ShapeOf(id ShapeID) *Shape {
	return m.shapes[id]
}

// ExpectShape returns the shape with the given ID and panics if it is
// absent. Use only where absence indicates a bug, not bad input.
func (m *Model) ExpectShape(id ShapeID) *Shape {
	s := m.shapes[id]
	if s == nil {
		panic(fmt.Sprintf("model: no shape with ID %s", id))
	}
	return s
}

// TraitsOf returns the trait set of a shape.
func (m *Model) TraitsOf(s *Shape) Traits { return s.Traits }

// MembersOf returns the member shapes of a Structure or Union in
// declaration order.
func (m *Model) MembersOf(s *Shape) []*Shape {
	if s.Kind != KindStructure && s.Kind != KindUnion {
		panic(fmt.Sprintf("model: MembersOf called on %s shape %s", s.Kind, s.ID))
	}
	members := make([]*Shape, 0, len(s.MemberNames))
	for _, name := range s.MemberNames {
		members = append(members, m.ExpectShape(s.ID.WithMember(name)))
	}
	return members
}

// TargetOf resolves a member shape's target.
func (m *Model) TargetOf(member *Shape) *Shape {
	member.Expect(KindMember)
	return m.ExpectShape(member.Target)
}

// RequiresIndirection reports whether a member edge participates in a
// reference cycle and must be boxed in the generated representation.
func (m *Model) RequiresIndirection(member *Shape) bool {
	member.Expect(KindMember)
	return m.boxed[member.ID]
}

// Shapes returns all shapes sorted by ID for deterministic iteration.
func (m *Model) Shapes() []*Shape {
	out := make([]*Shape, 0, len(m.shapes))
	for _, s := range m.shapes {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

// Structures returns all structure shapes sorted by ID.
func (m *Model) Structures() []*Shape {
	var out []*Shape
	for _, s := range m.Shapes() {
		if s.Kind == KindStructure {
			out = append(out, s)
		}
	}
	return out
}

// Operations returns all operation shapes sorted by ID.
func (m *Model) Operations() []*Shape {
	var out []*Shape
	for _, s := range m.Shapes() {
		if s.Kind == KindOperation {
			out = append(out, s)
		}
	}
	return out
}
