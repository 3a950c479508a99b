package rustgen

import (
	"strings"
	"unicode"
)

// rustKeywords are the Rust identifiers that need a raw-identifier
// prefix when used as field or variable names.
var rustKeywords = map[string]bool{
	"as": true, "async": true, "await": true, "box": true, "break": true,
	"const": true, "continue": true, "crate": true, "dyn": true,
	"else": true, "enum": true, "extern": true, "false": true, "fn": true,
	"for": true, "if": true, "impl": true, "in": true, "let": true,
	"loop": true, "match": true, "mod": true, "move": true, "mut": true,
	"pub": true, "ref": true, "return": true, "self": true, "static": true,
	"struct": true, "super": true, "trait": true, "true": true,
	"type": true, "unsafe": true, "use": true, "where": true, "while": true,
}

// fieldName converts a member name to a snake_case Rust field name,
// escaping keywords with the raw-identifier prefix.
func fieldName(member string) string {
	name := toSnakeCase(member)
	if rustKeywords[name] {
		return "r#" + name
	}
	return name
}

// toSnakeCase converts camelCase or PascalCase to snake_case. Runs of
// upper-case letters are kept together: "HTMLBody" becomes "html_body".
func toSnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || (nextLower && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// moduleName converts a type name to the snake_case module name its
// builder lives in.
func moduleName(typeName string) string {
	return toSnakeCase(typeName)
}
