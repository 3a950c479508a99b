package rustgen

import (
	"fmt"

	"github.com/jackos/smithygen/model"
)

// valueFormatter produces the Rust expression that renders one scalar
// member value as text for a given binding location. Dispatch is on the
// member's target shape kind; collection targets are never formatted
// here, the caller expands them element by element first.
type valueFormatter struct {
	model      *model.Model
	timestamps TimestampResolver
}

// expr returns the formatting expression for value (a Rust expression
// evaluating to a borrow of the scalar).
func (f valueFormatter) expr(member *model.Shape, value string, loc model.BindingLocation, greedy bool) string {
	target := f.model.TargetOf(member)

	switch target.Kind {
	case model.KindList, model.KindSet, model.KindMap:
		// Collections reach the formatter only through a missing
		// expansion in the calling generator.
		panic(fmt.Sprintf(
			"rustgen: member %s: collection value passed to the scalar formatter; expand elements first",
			member.ID))
	case model.KindString:
		return f.stringExpr(member, target, value, loc, greedy)
	case model.KindTimestamp:
		format := f.timestamps.Resolve(member, loc, defaultTimestampFormat(loc))
		return fmt.Sprintf("%s(%s, %s)", formatFn(loc, "fmt_timestamp"), value, format.RustPath())
	default:
		return fmt.Sprintf("%s(%s)", formatFn(loc, "fmt_default"), value)
	}
}

func (f valueFormatter) stringExpr(member, target *model.Shape, value string, loc model.BindingLocation, greedy bool) string {
	if loc == model.BindLabel {
		return fmt.Sprintf("smithy_http::label::fmt_string(%s, %t)", value, greedy)
	}
	if loc == model.BindHeader {
		if member.Traits.Has(model.TraitMediaType) || target.Traits.Has(model.TraitMediaType) {
			// Structured media type values are not valid header text;
			// they travel base64-encoded.
			return fmt.Sprintf("smithy_types::base64::encode(%s)", value)
		}
		return fmt.Sprintf("%s.to_string()", value)
	}
	return fmt.Sprintf("%s(%s)", formatFn(loc, "fmt_string"), value)
}

// formatFn returns the runtime formatting function path for a location.
func formatFn(loc model.BindingLocation, name string) string {
	switch loc {
	case model.BindLabel:
		return "smithy_http::label::" + name
	case model.BindQuery:
		return "smithy_http::query::" + name
	case model.BindHeader:
		return "smithy_http::header::" + name
	default:
		panic(fmt.Sprintf("rustgen: no formatter namespace for binding location %s", loc))
	}
}
