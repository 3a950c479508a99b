package model

import (
	"fmt"
	"strings"
)

// ShapeKind identifies the category of a shape.
type ShapeKind int

const (
	// Simple shapes
	KindBoolean ShapeKind = iota
	KindByte
	KindShort
	KindInteger
	KindLong
	KindFloat
	KindDouble
	KindString
	KindTimestamp
	KindBlob
	KindDocument

	// Aggregate shapes
	KindList
	KindSet
	KindMap
	KindStructure
	KindUnion

	// Graph-edge and service shapes
	KindMember
	KindOperation
	KindService
	KindResource
)

// String returns the string representation of the shape kind.
func (k ShapeKind) String() string {
	switch k {
	case KindBoolean:
		return "Boolean"
	case KindByte:
		return "Byte"
	case KindShort:
		return "Short"
	case KindInteger:
		return "Integer"
	case KindLong:
		return "Long"
	case KindFloat:
		return "Float"
	case KindDouble:
		return "Double"
	case KindString:
		return "String"
	case KindTimestamp:
		return "Timestamp"
	case KindBlob:
		return "Blob"
	case KindDocument:
		return "Document"
	case KindList:
		return "List"
	case KindSet:
		return "Set"
	case KindMap:
		return "Map"
	case KindStructure:
		return "Structure"
	case KindUnion:
		return "Union"
	case KindMember:
		return "Member"
	case KindOperation:
		return "Operation"
	case KindService:
		return "Service"
	case KindResource:
		return "Resource"
	default:
		return "Unknown"
	}
}

// IsSimple reports whether the kind is a simple (non-aggregate) shape kind.
func (k ShapeKind) IsSimple() bool {
	return k >= KindBoolean && k <= KindDocument
}

// IsAggregate reports whether the kind aggregates other shapes
// (List, Set, Map, Structure, Union).
func (k ShapeKind) IsAggregate() bool {
	return k >= KindList && k <= KindUnion
}

// ShapeID is an absolute shape identifier: "namespace#name" with an
// optional "$member" suffix for member shapes.
type ShapeID struct {
	// Namespace is the dotted namespace, e.g. "example.orders".
	Namespace string

	// Name is the shape name within the namespace.
	Name string

	// Member is the member name for member shapes, empty otherwise.
	Member string
}

// ParseShapeID parses an absolute shape ID string.
func ParseShapeID(s string) (ShapeID, error) {
	hash := strings.Index(s, "#")
	if hash <= 0 || hash == len(s)-1 {
		return ShapeID{}, fmt.Errorf("invalid shape ID %q: expected namespace#name", s)
	}
	id := ShapeID{Namespace: s[:hash]}
	rest := s[hash+1:]
	if dollar := strings.Index(rest, "$"); dollar >= 0 {
		if dollar == 0 || dollar == len(rest)-1 {
			return ShapeID{}, fmt.Errorf("invalid shape ID %q: malformed member suffix", s)
		}
		id.Name = rest[:dollar]
		id.Member = rest[dollar+1:]
	} else {
		id.Name = rest
	}
	return id, nil
}

// MustParseShapeID parses an absolute shape ID and panics on failure.
// Intended for tests and literals.
func MustParseShapeID(s string) ShapeID {
	id, err := ParseShapeID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the canonical "namespace#name[$member]" form.
func (id ShapeID) String() string {
	if id.Member != "" {
		return id.Namespace + "#" + id.Name + "$" + id.Member
	}
	return id.Namespace + "#" + id.Name
}

// IsZero returns true if the identifier is empty.
func (id ShapeID) IsZero() bool {
	return id.Namespace == "" && id.Name == ""
}

// WithMember returns the member shape ID for the named member of this shape.
func (id ShapeID) WithMember(name string) ShapeID {
	return ShapeID{Namespace: id.Namespace, Name: id.Name, Member: name}
}

// Container returns the containing shape's ID for a member shape ID.
// For non-member IDs it returns the ID unchanged.
func (id ShapeID) Container() ShapeID {
	return ShapeID{Namespace: id.Namespace, Name: id.Name}
}

// Shape is a node in the shape graph. Shapes are immutable once the
// model is loaded.
type Shape struct {
	// ID is the absolute identifier of this shape.
	ID ShapeID

	// Kind is the shape's kind.
	Kind ShapeKind

	// Traits holds the annotations attached to this shape, keyed by
	// absolute trait name (e.g. "smithy.api#required").
	Traits Traits

	// Target is set for Member shapes: the shape this member points at.
	Target ShapeID

	// MemberNames holds the declared member order for Structure and
	// Union shapes. Member shape IDs are derived via ID.WithMember.
	MemberNames []string

	// Elem is the element member ID for List and Set shapes.
	Elem ShapeID

	// Key and Value are the member IDs for Map shapes.
	Key   ShapeID
	Value ShapeID

	// Input and Output are set for Operation shapes.
	Input  ShapeID
	Output ShapeID

	// Errors lists the error structures an Operation may return.
	Errors []ShapeID

	// Operations lists the operations bound to a Service shape.
	Operations []ShapeID
}

// IsMember reports whether this shape is a member edge.
func (s *Shape) IsMember() bool { return s.Kind == KindMember }

// Expect panics unless the shape has the given kind. It marks places
// where a kind mismatch is a bug in generation logic, not bad input.
func (s *Shape) Expect(kind ShapeKind) *Shape {
	if s.Kind != kind {
		panic(fmt.Sprintf("shape %s: expected kind %s, got %s", s.ID, kind, s.Kind))
	}
	return s
}
