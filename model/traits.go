package model

// Absolute trait names understood by the generator. Traits are the sole
// source of semantic policy; generators never special-case shape IDs.
const (
	TraitRequired        = "smithy.api#required"
	TraitSensitive       = "smithy.api#sensitive"
	TraitError           = "smithy.api#error"
	TraitDefault         = "smithy.api#default"
	TraitDocumentation   = "smithy.api#documentation"
	TraitHTTP            = "smithy.api#http"
	TraitHTTPLabel       = "smithy.api#httpLabel"
	TraitHTTPQuery       = "smithy.api#httpQuery"
	TraitHTTPHeader      = "smithy.api#httpHeader"
	TraitHTTPPayload     = "smithy.api#httpPayload"
	TraitHTTPPrefixHdrs  = "smithy.api#httpPrefixHeaders"
	TraitHTTPStatus      = "smithy.api#httpResponseCode"
	TraitMediaType       = "smithy.api#mediaType"
	TraitTimestampFormat = "smithy.api#timestampFormat"

	// Constraint traits. Only their presence matters to this generator;
	// their payloads drive a separate validation emitter.
	TraitLength      = "smithy.api#length"
	TraitPattern     = "smithy.api#pattern"
	TraitRange       = "smithy.api#range"
	TraitUniqueItems = "smithy.api#uniqueItems"
	TraitEnum        = "smithy.api#enum"

	// SyntheticInput marks a structure synthesized as an operation's
	// input wrapper rather than modeled by the user.
	TraitSyntheticInput = "smithy.synthetic#input"
)

// constraintTraits are the traits that make a shape directly constrained.
var constraintTraits = []string{
	TraitLength,
	TraitPattern,
	TraitRange,
	TraitUniqueItems,
	TraitEnum,
}

// Trait is a named annotation on a shape with an optional data payload.
type Trait struct {
	// Name is the absolute trait name.
	Name string

	// Value is the decoded trait payload. Annotation traits carry nil
	// or an empty object.
	Value any
}

// Traits is the set of traits attached to one shape.
type Traits map[string]Trait

// Has reports whether the named trait is present.
func (t Traits) Has(name string) bool {
	_, ok := t[name]
	return ok
}

// Get returns the named trait and whether it is present.
func (t Traits) Get(name string) (Trait, bool) {
	tr, ok := t[name]
	return tr, ok
}

// StringValue returns the trait's payload as a string, or "" if the
// trait is absent or its payload is not a string.
func (t Traits) StringValue(name string) string {
	tr, ok := t[name]
	if !ok {
		return ""
	}
	s, _ := tr.Value.(string)
	return s
}

// HasConstraint reports whether the shape carries a constraint trait
// directly.
func (t Traits) HasConstraint() bool {
	for _, name := range constraintTraits {
		if t.Has(name) {
			return true
		}
	}
	return false
}

// Documentation returns the shape's documentation text, if any.
func (t Traits) Documentation() string {
	return t.StringValue(TraitDocumentation)
}
