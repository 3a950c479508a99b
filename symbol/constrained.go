package symbol

import (
	"fmt"

	"github.com/jackos/smithygen/model"
)

// constrainedStage rewrites directly-constrained shapes to distinct
// opaque wrapper types. The wrapper is part of the public surface and
// is named deterministically from the shape's identifier.
type constrainedStage struct{}

func (constrainedStage) Name() string { return "constrained" }

func (constrainedStage) Apply(c *Chain, s *model.Shape, class model.Classification, sym Symbol) (Symbol, error) {
	if class != model.DirectlyConstrained {
		return sym, nil
	}

	switch s.Kind {
	case model.KindStructure, model.KindUnion:
		// Structures and unions already surface as opaque named types;
		// the constraint does not change their symbol.
		return sym, nil
	case model.KindMember:
		// Constraint traits on a member refine its target; the member
		// symbol picks the wrapper up through target resolution.
		return sym, nil
	default:
		return Symbol{
			Name:      s.ID.Name,
			Namespace: "crate::model",
			Type:      Opaque{Name: s.ID.Name, Namespace: "crate::model"},
			Wraps:     sym.Type,
			Public:    true,
			Derives:   defaultDerives,
		}, nil
	}
}

// internalWrapperStage rewrites transitively-constrained aggregate
// shapes to crate-internal wrapper newtypes. A collection holding
// constrained elements needs its own invariant-holding type, but that
// type must not leak into the public API; only shapes that are
// themselves constrained are user-visible constrained types.
type internalWrapperStage struct{}

func (internalWrapperStage) Name() string { return "internal-wrapper" }

func (internalWrapperStage) Apply(c *Chain, s *model.Shape, class model.Classification, sym Symbol) (Symbol, error) {
	if class != model.TransitivelyConstrained {
		return sym, nil
	}

	switch s.Kind {
	case model.KindList, model.KindSet, model.KindMap:
		// The base symbol's container type already holds the
		// recursively resolved (wrapped) element symbols.
		return Symbol{
			Name:      s.ID.Name + "Constrained",
			Namespace: "crate::constrained",
			Type:      Opaque{Name: s.ID.Name + "Constrained", Namespace: "crate::constrained"},
			Wraps:     sym.Type,
			Public:    false,
			Derives:   defaultDerives,
		}, nil

	case model.KindMember:
		target := c.model.TargetOf(s)
		if target.Kind.IsSimple() {
			// No wrapper exists for a simple target, so the member
			// must be required. The caller guarantees this upstream;
			// an optional member here is a generation-logic bug.
			if !s.Traits.Has(model.TraitRequired) {
				panic(fmt.Sprintf(
					"symbol: transitively constrained member %s targets simple shape %s but is not required",
					s.ID, target.ID))
			}
		}
		// The member's base resolution already recursed into the
		// target's wrapper, boxing before optionality.
		return sym, nil

	case model.KindStructure, model.KindUnion:
		// Already opaque regardless of transitivity.
		return sym, nil

	default:
		panic(fmt.Sprintf(
			"symbol: %s shape %s classified as %s cannot reach the internal wrapper stage",
			s.Kind, s.ID, class))
	}
}
