package rustgen

import "github.com/jackos/smithygen/model"

// TimestampFormat enumerates the wire formats a timestamp can be
// serialized in.
type TimestampFormat int

const (
	FormatEpochSeconds TimestampFormat = iota
	FormatDateTime                     // RFC 3339
	FormatHTTPDate                     // IMF-fixdate
)

// RustPath returns the runtime enum variant path for the format.
func (f TimestampFormat) RustPath() string {
	switch f {
	case FormatEpochSeconds:
		return "smithy_types::instant::Format::EpochSeconds"
	case FormatDateTime:
		return "smithy_types::instant::Format::DateTime"
	case FormatHTTPDate:
		return "smithy_types::instant::Format::HttpDate"
	default:
		return "smithy_types::instant::Format::DateTime"
	}
}

// String returns the trait value spelling of the format.
func (f TimestampFormat) String() string {
	switch f {
	case FormatEpochSeconds:
		return "epoch-seconds"
	case FormatDateTime:
		return "date-time"
	case FormatHTTPDate:
		return "http-date"
	default:
		return "date-time"
	}
}

// TimestampResolver resolves the wire format for a timestamp member at
// a given binding location.
type TimestampResolver interface {
	Resolve(member *model.Shape, loc model.BindingLocation, def TimestampFormat) TimestampFormat
}

// TraitTimestampResolver prefers an explicit timestampFormat trait on
// the member, then on the member's target, then the location default.
type TraitTimestampResolver struct {
	Model *model.Model
}

func (r TraitTimestampResolver) Resolve(member *model.Shape, loc model.BindingLocation, def TimestampFormat) TimestampFormat {
	if f, ok := formatFromTrait(member.Traits); ok {
		return f
	}
	if r.Model != nil {
		if f, ok := formatFromTrait(r.Model.TargetOf(member).Traits); ok {
			return f
		}
	}
	return def
}

func formatFromTrait(traits model.Traits) (TimestampFormat, bool) {
	switch traits.StringValue(model.TraitTimestampFormat) {
	case "epoch-seconds":
		return FormatEpochSeconds, true
	case "date-time":
		return FormatDateTime, true
	case "http-date":
		return FormatHTTPDate, true
	default:
		return FormatDateTime, false
	}
}

// defaultTimestampFormat is the per-location default wire format.
func defaultTimestampFormat(loc model.BindingLocation) TimestampFormat {
	switch loc {
	case model.BindHeader:
		return FormatHTTPDate
	default:
		return FormatDateTime
	}
}
