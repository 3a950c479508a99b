package model

import "fmt"

// Classification describes how a shape relates to constraint traits.
type Classification int

const (
	// Unconstrained: no constraint trait on the shape or anything it
	// can reach.
	Unconstrained Classification = iota

	// DirectlyConstrained: the shape itself carries a constraint trait.
	DirectlyConstrained

	// TransitivelyConstrained: the shape carries no constraint trait,
	// but a shape reachable through aggregation does. Only aggregate
	// shapes and members can be transitively constrained.
	TransitivelyConstrained
)

// String returns the string representation of the classification.
func (c Classification) String() string {
	switch c {
	case Unconstrained:
		return "Unconstrained"
	case DirectlyConstrained:
		return "DirectlyConstrained"
	case TransitivelyConstrained:
		return "TransitivelyConstrained"
	default:
		return fmt.Sprintf("Classification(%d)", int(c))
	}
}

// Classify determines the constraint classification of a shape.
// Classification is a pure function of the model; the same shape always
// classifies identically within one model.
func (m *Model) Classify(s *Shape) Classification {
	if s.Traits.HasConstraint() {
		return DirectlyConstrained
	}
	if s.Kind.IsSimple() {
		// Simple shapes cannot inherit constraints from elsewhere.
		return Unconstrained
	}
	if m.reachesConstraint(s, make(map[ShapeID]bool)) {
		return TransitivelyConstrained
	}
	return Unconstrained
}

// IsConstrained reports whether a shape is directly or transitively
// constrained.
func (m *Model) IsConstrained(s *Shape) bool {
	return m.Classify(s) != Unconstrained
}

// reachesConstraint walks aggregation edges looking for a constraint
// trait. The seen set makes the walk cycle-safe.
func (m *Model) reachesConstraint(s *Shape, seen map[ShapeID]bool) bool {
	if seen[s.ID] {
		return false
	}
	seen[s.ID] = true

	var next []ShapeID
	switch s.Kind {
	case KindMember:
		next = []ShapeID{s.Target}
	case KindList, KindSet:
		next = []ShapeID{s.Elem}
	case KindMap:
		next = []ShapeID{s.Key, s.Value}
	case KindStructure, KindUnion:
		for _, name := range s.MemberNames {
			next = append(next, s.ID.WithMember(name))
		}
	default:
		return false
	}

	for _, id := range next {
		t := m.ExpectShape(id)
		if t.Traits.HasConstraint() || m.reachesConstraint(t, seen) {
			return true
		}
	}
	return false
}
