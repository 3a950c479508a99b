package symbol

// Symbol is the resolved target-language descriptor for one shape.
type Symbol struct {
	// Name is the display name: a Rust type name for generated types,
	// or the primitive path for scalars.
	Name string

	// Namespace is the module the type is defined in. Empty for
	// primitives and containers of primitives.
	Namespace string

	// Type is the full type shape, including Option and Box wrapping.
	Type RustType

	// Wraps is set on constrained wrapper symbols: the underlying
	// representation the newtype wraps.
	Wraps RustType

	// Public is false for wrappers scoped to crate-internal
	// visibility.
	Public bool

	// Derives lists the derived behaviors the generated declaration
	// carries.
	Derives []string
}

// FullName returns the namespace-qualified name.
func (s Symbol) FullName() string {
	if s.Namespace == "" {
		return s.Name
	}
	return s.Namespace + "::" + s.Name
}

// IsOptional reports whether the symbol's type is Option-wrapped.
func (s Symbol) IsOptional() bool {
	_, ok := s.Type.(Option)
	return ok
}

// mapType returns a copy of the symbol with its type rewritten.
func (s Symbol) mapType(f func(RustType) RustType) Symbol {
	s.Type = f(s.Type)
	return s
}

var defaultDerives = []string{"std::clone::Clone", "std::cmp::PartialEq"}
