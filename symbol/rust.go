// Package symbol resolves shapes to Rust type descriptors. Resolution is
// a pure function of (shape, model, chain configuration): resolving the
// same shape twice always yields an identical descriptor.
package symbol

// TypeKind identifies the category of a Rust type descriptor.
type TypeKind int

const (
	KindPrimitive TypeKind = iota // built-in scalar or runtime primitive
	KindVec                       // std::vec::Vec<T>
	KindHashMap                   // std::collections::HashMap<K, V>
	KindOpaque                    // named generated type
	KindOption                    // std::option::Option<T>
	KindBox                       // std::boxed::Box<T>
	KindRef                       // borrowed reference &T
)

// String returns the string representation of the type kind.
func (k TypeKind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindVec:
		return "Vec"
	case KindHashMap:
		return "HashMap"
	case KindOpaque:
		return "Opaque"
	case KindOption:
		return "Option"
	case KindBox:
		return "Box"
	case KindRef:
		return "Ref"
	default:
		return "Unknown"
	}
}

// RustType is the closed set of type shapes a symbol can resolve to.
type RustType interface {
	// Kind returns the type kind for switching.
	Kind() TypeKind

	// Render emits the fully qualified Rust syntax for the type.
	Render() string

	// Ensure only types in this package implement RustType.
	sealed()
}

// Primitive is a built-in scalar or a runtime-provided primitive such
// as DateTime or Blob. Path is the fully qualified Rust path.
type Primitive struct {
	// Path is the Rust path, e.g. "bool" or "std::string::String".
	Path string

	// Copyable marks types that are cheap to return by value.
	Copyable bool

	// Deref marks types whose borrowed form goes through Deref
	// (String -> &str, Vec<T> -> &[T]).
	Deref string
}

func (t Primitive) Kind() TypeKind { return KindPrimitive }
func (t Primitive) Render() string { return t.Path }
func (Primitive) sealed()          {}

// Canonical primitives for the simple shape kinds.
var (
	Bool     = Primitive{Path: "bool", Copyable: true}
	I8       = Primitive{Path: "i8", Copyable: true}
	I16      = Primitive{Path: "i16", Copyable: true}
	I32      = Primitive{Path: "i32", Copyable: true}
	I64      = Primitive{Path: "i64", Copyable: true}
	F32      = Primitive{Path: "f32", Copyable: true}
	F64      = Primitive{Path: "f64", Copyable: true}
	String   = Primitive{Path: "std::string::String", Deref: "str"}
	DateTime = Primitive{Path: "smithy_types::DateTime"}
	Blob     = Primitive{Path: "smithy_types::Blob"}
	Document = Primitive{Path: "smithy_types::Document"}
)

// Vec is an ordered collection over an element type.
type Vec struct {
	Elem RustType
}

func (t Vec) Kind() TypeKind { return KindVec }
func (t Vec) Render() string { return "std::vec::Vec<" + t.Elem.Render() + ">" }
func (Vec) sealed()          {}

// HashMap is a key-value mapping.
type HashMap struct {
	Key   RustType
	Value RustType
}

func (t HashMap) Kind() TypeKind { return KindHashMap }
func (t HashMap) Render() string {
	return "std::collections::HashMap<" + t.Key.Render() + ", " + t.Value.Render() + ">"
}
func (HashMap) sealed() {}

// Opaque is a named generated type: a structure, union, or constrained
// wrapper newtype.
type Opaque struct {
	// Name is the Rust type name.
	Name string

	// Namespace is the module the type is defined in,
	// e.g. "crate::model" or "crate::constrained".
	Namespace string
}

func (t Opaque) Kind() TypeKind { return KindOpaque }
func (t Opaque) Render() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "::" + t.Name
}
func (Opaque) sealed() {}

// Option wraps a type in std::option::Option.
type Option struct {
	Inner RustType
}

func (t Option) Kind() TypeKind { return KindOption }
func (t Option) Render() string { return "std::option::Option<" + t.Inner.Render() + ">" }
func (Option) sealed()          {}

// Box wraps a type in an owning indirection.
type Box struct {
	Inner RustType
}

func (t Box) Kind() TypeKind { return KindBox }
func (t Box) Render() string { return "std::boxed::Box<" + t.Inner.Render() + ">" }
func (Box) sealed()          {}

// Ref is a borrowed reference. Only produced by accessor planning,
// never by shape resolution.
type Ref struct {
	Inner RustType
}

func (t Ref) Kind() TypeKind { return KindRef }
func (t Ref) Render() string { return "&" + t.Inner.Render() }
func (Ref) sealed()          {}

// IsOption reports whether t is an Option and returns its inner type.
func IsOption(t RustType) (RustType, bool) {
	opt, ok := t.(Option)
	if !ok {
		return nil, false
	}
	return opt.Inner, true
}

// Unbox strips a Box wrapper, if present.
func Unbox(t RustType) RustType {
	if b, ok := t.(Box); ok {
		return b.Inner
	}
	return t
}
