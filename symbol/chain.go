package symbol

import (
	"fmt"

	"github.com/jackos/smithygen/model"
)

// Resolver maps shapes to symbols. Implementations must be
// deterministic and side-effect-free.
type Resolver interface {
	ResolveSymbol(s *model.Shape) (Symbol, error)
}

// Stage is one layer of the resolution chain. Stages are pure
// rewrites: given the shape, its constraint classification, and the
// symbol produced so far, they return the (possibly rewritten) symbol.
type Stage interface {
	Name() string
	Apply(c *Chain, s *model.Shape, class model.Classification, sym Symbol) (Symbol, error)
}

// Chain resolves shapes by computing a base symbol and then applying a
// fixed, ordered list of stages left to right. Member resolution
// recurses through the whole chain, so wrapper types introduced by
// later stages propagate into containers and fields.
type Chain struct {
	model  *model.Model
	null   Nullability
	stages []Stage
	memo   map[model.ShapeID]Symbol
}

// NewChain builds the standard resolution chain: base resolution, then
// the public constrained-wrapper stage, then the crate-internal
// constrained-wrapper stage.
func NewChain(m *model.Model, null Nullability) *Chain {
	if null == nil {
		null = TraitNullability{}
	}
	return &Chain{
		model:  m,
		null:   null,
		stages: []Stage{constrainedStage{}, internalWrapperStage{}},
		memo:   make(map[model.ShapeID]Symbol),
	}
}

// ResolveSymbol resolves a shape to its symbol. Symbols are memoized;
// resolution is pure, so a cache hit is indistinguishable from a fresh
// computation.
func (c *Chain) ResolveSymbol(s *model.Shape) (Symbol, error) {
	if sym, ok := c.memo[s.ID]; ok {
		return sym, nil
	}

	sym, err := c.resolveBase(s)
	if err != nil {
		return Symbol{}, err
	}
	class := c.model.Classify(s)
	for _, stage := range c.stages {
		sym, err = stage.Apply(c, s, class, sym)
		if err != nil {
			return Symbol{}, fmt.Errorf("stage %s: shape %s: %w", stage.Name(), s.ID, err)
		}
	}

	c.memo[s.ID] = sym
	return sym, nil
}

// resolveBase maps a shape to its canonical representation before any
// constraint stages run.
func (c *Chain) resolveBase(s *model.Shape) (Symbol, error) {
	switch s.Kind {
	case model.KindBoolean:
		return primitiveSymbol(Bool), nil
	case model.KindByte:
		return primitiveSymbol(I8), nil
	case model.KindShort:
		return primitiveSymbol(I16), nil
	case model.KindInteger:
		return primitiveSymbol(I32), nil
	case model.KindLong:
		return primitiveSymbol(I64), nil
	case model.KindFloat:
		return primitiveSymbol(F32), nil
	case model.KindDouble:
		return primitiveSymbol(F64), nil
	case model.KindString:
		return primitiveSymbol(String), nil
	case model.KindTimestamp:
		return primitiveSymbol(DateTime), nil
	case model.KindBlob:
		return primitiveSymbol(Blob), nil
	case model.KindDocument:
		return primitiveSymbol(Document), nil

	case model.KindList, model.KindSet:
		elem, err := c.resolveElement(s.Elem)
		if err != nil {
			return Symbol{}, err
		}
		return Symbol{Name: s.ID.Name, Type: Vec{Elem: elem.Type}, Public: true}, nil

	case model.KindMap:
		key, err := c.resolveElement(s.Key)
		if err != nil {
			return Symbol{}, err
		}
		value, err := c.resolveElement(s.Value)
		if err != nil {
			return Symbol{}, err
		}
		return Symbol{Name: s.ID.Name, Type: HashMap{Key: key.Type, Value: value.Type}, Public: true}, nil

	case model.KindStructure, model.KindUnion:
		return Symbol{
			Name:      s.ID.Name,
			Namespace: structureNamespace(s),
			Type:      Opaque{Name: s.ID.Name, Namespace: structureNamespace(s)},
			Public:    true,
			Derives:   defaultDerives,
		}, nil

	case model.KindMember:
		return c.resolveMember(s)

	default:
		// Operation, Service, and Resource shapes have no value
		// representation. Asking for one is a bug in generation logic.
		panic(fmt.Sprintf("symbol: cannot resolve %s shape %s", s.Kind, s.ID))
	}
}

// resolveElement resolves a collection's element member: the member's
// target through the full chain, with no optionality. Only structure
// members are subject to optional wrapping.
func (c *Chain) resolveElement(memberID model.ShapeID) (Symbol, error) {
	member := c.model.ExpectShape(memberID)
	return c.ResolveSymbol(c.model.TargetOf(member))
}

// resolveMember resolves a member edge: the target symbol, boxed if the
// edge participates in a reference cycle, then Option-wrapped per the
// nullability rules. Boxing is applied strictly before optionality so a
// recursive optional member resolves to Option<Box<T>>; the reverse
// order is never a valid resolution.
func (c *Chain) resolveMember(m *model.Shape) (Symbol, error) {
	target := c.model.TargetOf(m)
	sym, err := c.ResolveSymbol(target)
	if err != nil {
		return Symbol{}, err
	}

	if c.model.RequiresIndirection(m) {
		sym = sym.mapType(func(t RustType) RustType { return Box{Inner: t} })
	}

	container := c.model.ExpectShape(m.ID.Container())
	if container.Kind == model.KindStructure && c.memberOptional(m, sym) {
		sym = sym.mapType(func(t RustType) RustType { return Option{Inner: t} })
	}
	return sym, nil
}

// memberOptional decides whether a structure member is Option-wrapped.
func (c *Chain) memberOptional(m *model.Shape, sym Symbol) bool {
	if m.Traits.Has(model.TraitRequired) {
		return false
	}
	if !c.null.IsNullable(m) && c.null.HasUsableDefault(m, sym) {
		return false
	}
	return true
}

func primitiveSymbol(p Primitive) Symbol {
	return Symbol{Name: p.Path, Type: p, Public: true}
}

// structureNamespace places generated structures and unions: synthetic
// operation inputs in crate::input, error structures in crate::error,
// everything else in crate::model.
func structureNamespace(s *model.Shape) string {
	switch {
	case s.Traits.Has(model.TraitSyntheticInput):
		return "crate::input"
	case s.Traits.Has(model.TraitError):
		return "crate::error"
	default:
		return "crate::model"
	}
}
