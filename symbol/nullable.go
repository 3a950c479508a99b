package symbol

import "github.com/jackos/smithygen/model"

// Nullability answers whether a member may be absent and whether a
// usable default value can be generated for it.
type Nullability interface {
	// IsNullable reports whether the member's value may be absent.
	IsNullable(member *model.Shape) bool

	// HasUsableDefault reports whether a default value can be
	// generated for the member's resolved symbol.
	HasUsableDefault(member *model.Shape, sym Symbol) bool
}

// TraitNullability derives nullability from the member's traits: a
// member is non-nullable when it is required or carries a default.
type TraitNullability struct{}

func (TraitNullability) IsNullable(member *model.Shape) bool {
	if member.Traits.Has(model.TraitRequired) {
		return false
	}
	if member.Traits.Has(model.TraitDefault) {
		return false
	}
	return true
}

// HasUsableDefault accepts defaults only for representations a literal
// can be generated for: scalars and empty collections. Opaque generated
// types have no generatable default.
func (TraitNullability) HasUsableDefault(member *model.Shape, sym Symbol) bool {
	if !member.Traits.Has(model.TraitDefault) {
		return false
	}
	switch Unbox(sym.Type).(type) {
	case Primitive, Vec, HashMap:
		return true
	default:
		return false
	}
}
