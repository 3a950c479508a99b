package model

import (
	"fmt"
	"strings"
)

// BindingLocation is the wire location a member is serialized into.
type BindingLocation int

const (
	BindDocument BindingLocation = iota // default: request document/body
	BindLabel                           // URI label segment
	BindQuery                           // query string parameter
	BindHeader                          // HTTP header
	BindPayload                         // raw payload
	BindStatus                          // response status code
	BindPrefixHeaders                   // prefixed header map (unsupported)
)

// String returns the string representation of the binding location.
func (l BindingLocation) String() string {
	switch l {
	case BindDocument:
		return "document"
	case BindLabel:
		return "label"
	case BindQuery:
		return "query"
	case BindHeader:
		return "header"
	case BindPayload:
		return "payload"
	case BindStatus:
		return "statusCode"
	case BindPrefixHeaders:
		return "prefixHeaders"
	default:
		return "unknown"
	}
}

// Binding associates one input-structure member with a wire location.
type Binding struct {
	// Member is the bound member shape.
	Member *Shape

	// Location is where the member's value is written.
	Location BindingLocation

	// LocationName is the header name, query key, or label name.
	LocationName string

	// Greedy is set for labels declared with a "+" suffix, which match
	// across path segment boundaries.
	Greedy bool
}

// PathSegment is one segment of a parsed URI template.
type PathSegment struct {
	// Literal content, or the label name when IsLabel is set.
	Content string
	IsLabel bool
	Greedy  bool
}

// QueryLiteral is a literal query parameter declared in the URI.
type QueryLiteral struct {
	Key   string
	Value string
}

// URITemplate is a parsed HTTP trait URI: literal and label path
// segments plus literal query parameters, all in declared order.
type URITemplate struct {
	Segments      []PathSegment
	QueryLiterals []QueryLiteral
}

// HTTPTrait is an operation's HTTP binding metadata.
type HTTPTrait struct {
	Method string
	URI    URITemplate
	Code   int
}

// Labels returns the label names in path order.
func (u URITemplate) Labels() []string {
	var out []string
	for _, seg := range u.Segments {
		if seg.IsLabel {
			out = append(out, seg.Content)
		}
	}
	return out
}

// ParseURITemplate parses an HTTP trait URI pattern such as
// "/orders/{id}/items/{path+}?archived&kind=full".
func ParseURITemplate(uri string) (URITemplate, error) {
	if !strings.HasPrefix(uri, "/") {
		return URITemplate{}, fmt.Errorf("invalid URI pattern %q: must start with /", uri)
	}

	var tmpl URITemplate
	path := uri
	if q := strings.Index(uri, "?"); q >= 0 {
		path = uri[:q]
		for _, pair := range strings.Split(uri[q+1:], "&") {
			if pair == "" {
				continue
			}
			lit := QueryLiteral{Key: pair}
			if eq := strings.Index(pair, "="); eq >= 0 {
				lit.Key = pair[:eq]
				lit.Value = pair[eq+1:]
			}
			tmpl.QueryLiterals = append(tmpl.QueryLiterals, lit)
		}
	}

	seen := make(map[string]bool)
	for _, seg := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			name := seg[1 : len(seg)-1]
			greedy := strings.HasSuffix(name, "+")
			if greedy {
				name = strings.TrimSuffix(name, "+")
			}
			if name == "" {
				return URITemplate{}, fmt.Errorf("invalid URI pattern %q: empty label", uri)
			}
			if seen[name] {
				return URITemplate{}, fmt.Errorf("invalid URI pattern %q: duplicate label %q", uri, name)
			}
			seen[name] = true
			tmpl.Segments = append(tmpl.Segments, PathSegment{Content: name, IsLabel: true, Greedy: greedy})
		} else if strings.ContainsAny(seg, "{}") {
			return URITemplate{}, fmt.Errorf("invalid URI pattern %q: malformed segment %q", uri, seg)
		} else {
			tmpl.Segments = append(tmpl.Segments, PathSegment{Content: seg})
		}
	}
	return tmpl, nil
}

// HTTPTraitOf decodes the operation's HTTP trait, if present.
func (m *Model) HTTPTraitOf(op *Shape) (*HTTPTrait, error) {
	op.Expect(KindOperation)
	tr, ok := op.Traits.Get(TraitHTTP)
	if !ok {
		return nil, nil
	}
	payload, ok := tr.Value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("operation %s: malformed http trait payload", op.ID)
	}
	method, _ := payload["method"].(string)
	uri, _ := payload["uri"].(string)
	if method == "" || uri == "" {
		return nil, fmt.Errorf("operation %s: http trait requires method and uri", op.ID)
	}
	tmpl, err := ParseURITemplate(uri)
	if err != nil {
		return nil, fmt.Errorf("operation %s: %w", op.ID, err)
	}
	ht := &HTTPTrait{Method: method, URI: tmpl}
	if code, ok := payload["code"].(float64); ok {
		ht.Code = int(code)
	}
	return ht, nil
}

// BindingsOf computes the wire binding for every member of an
// operation's input structure, in member-declaration order. Members
// without an explicit binding trait default to the document body.
func (m *Model) BindingsOf(op *Shape, ht *HTTPTrait) ([]Binding, error) {
	op.Expect(KindOperation)
	if op.Input.IsZero() {
		if len(ht.URI.Labels()) > 0 {
			return nil, fmt.Errorf("operation %s: URI declares labels but operation has no input", op.ID)
		}
		return nil, nil
	}
	input := m.ExpectShape(op.Input)

	labels := make(map[string]bool)
	greedy := make(map[string]bool)
	for _, seg := range ht.URI.Segments {
		if seg.IsLabel {
			labels[seg.Content] = true
			greedy[seg.Content] = seg.Greedy
		}
	}

	var bindings []Binding
	bound := make(map[string]bool)
	for _, member := range m.MembersOf(input) {
		b := Binding{Member: member, Location: BindDocument, LocationName: member.ID.Member}
		switch {
		case member.Traits.Has(TraitHTTPLabel):
			name := member.ID.Member
			if !labels[name] {
				return nil, fmt.Errorf("operation %s: member %s bound to label absent from URI pattern", op.ID, member.ID)
			}
			b.Location = BindLabel
			b.LocationName = name
			b.Greedy = greedy[name]
			bound[name] = true
		case member.Traits.Has(TraitHTTPQuery):
			b.Location = BindQuery
			if n := member.Traits.StringValue(TraitHTTPQuery); n != "" {
				b.LocationName = n
			}
		case member.Traits.Has(TraitHTTPHeader):
			b.Location = BindHeader
			if n := member.Traits.StringValue(TraitHTTPHeader); n != "" {
				b.LocationName = n
			}
		case member.Traits.Has(TraitHTTPPayload):
			b.Location = BindPayload
		case member.Traits.Has(TraitHTTPStatus):
			b.Location = BindStatus
		case member.Traits.Has(TraitHTTPPrefixHdrs):
			return nil, fmt.Errorf("operation %s: member %s uses httpPrefixHeaders, which is not supported", op.ID, member.ID)
		}
		bindings = append(bindings, b)
	}

	for name := range labels {
		if !bound[name] {
			return nil, fmt.Errorf("operation %s: URI label %q has no bound input member", op.ID, name)
		}
	}
	return bindings, nil
}
