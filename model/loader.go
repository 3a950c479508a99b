package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// astFile is the top level of a Smithy JSON AST document.
type astFile struct {
	Smithy string                     `json:"smithy"`
	Shapes map[string]json.RawMessage `json:"shapes"`
}

// astShape is one shape entry in the AST.
type astShape struct {
	Type       string               `json:"type"`
	Traits     map[string]any       `json:"traits"`
	Members    map[string]astMember `json:"members"`
	Member     *astMember           `json:"member"`
	Key        *astMember           `json:"key"`
	Value      *astMember           `json:"value"`
	Input      *astRef              `json:"input"`
	Output     *astRef              `json:"output"`
	Errors     []astRef             `json:"errors"`
	Operations []astRef             `json:"operations"`
}

type astMember struct {
	Target string         `json:"target"`
	Traits map[string]any `json:"traits"`
}

type astRef struct {
	Target string `json:"target"`
}

var astShapeKinds = map[string]ShapeKind{
	"boolean":   KindBoolean,
	"byte":      KindByte,
	"short":     KindShort,
	"integer":   KindInteger,
	"intEnum":   KindInteger,
	"long":      KindLong,
	"float":     KindFloat,
	"double":    KindDouble,
	"string":    KindString,
	"enum":      KindString,
	"timestamp": KindTimestamp,
	"blob":      KindBlob,
	"document":  KindDocument,
	"list":      KindList,
	"set":       KindSet,
	"map":       KindMap,
	"structure": KindStructure,
	"union":     KindUnion,
	"operation": KindOperation,
	"service":   KindService,
	"resource":  KindResource,
}

// preludeSimple maps prelude shape names to their kinds. These shapes
// are referenced by user models without being declared.
var preludeSimple = map[string]ShapeKind{
	"Boolean":   KindBoolean,
	"Byte":      KindByte,
	"Short":     KindShort,
	"Integer":   KindInteger,
	"Long":      KindLong,
	"Float":     KindFloat,
	"Double":    KindDouble,
	"String":    KindString,
	"Timestamp": KindTimestamp,
	"Blob":      KindBlob,
	"Document":  KindDocument,
}

// PreludeShapes returns the smithy.api shapes every model may reference
// without declaring them. The slice is freshly allocated and sorted.
func PreludeShapes() []*Shape {
	names := make([]string, 0, len(preludeSimple))
	for name := range preludeSimple {
		names = append(names, name)
	}
	sort.Strings(names)
	shapes := make([]*Shape, 0, len(names)+1)
	for _, name := range names {
		shapes = append(shapes, &Shape{
			ID:   ShapeID{Namespace: "smithy.api", Name: name},
			Kind: preludeSimple[name],
		})
	}
	shapes = append(shapes, &Shape{
		ID:   ShapeID{Namespace: "smithy.api", Name: "Unit"},
		Kind: KindStructure,
	})
	return shapes
}

// LoadFile reads and parses a Smithy JSON AST file.
func LoadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	m, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return m, nil
}

// Load parses a Smithy JSON AST document into a Model.
func Load(data []byte) (*Model, error) {
	var file astFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse AST: %w", err)
	}
	if file.Smithy == "" {
		return nil, fmt.Errorf("parse AST: missing smithy version field")
	}

	// Prelude shapes first so references to them resolve.
	shapes := PreludeShapes()

	// Deterministic shape order regardless of JSON map iteration.
	ids := make([]string, 0, len(file.Shapes))
	for id := range file.Shapes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, idStr := range ids {
		raw := file.Shapes[idStr]
		id, err := ParseShapeID(idStr)
		if err != nil {
			return nil, err
		}
		var ast astShape
		if err := json.Unmarshal(raw, &ast); err != nil {
			return nil, fmt.Errorf("shape %s: %w", idStr, err)
		}
		kind, ok := astShapeKinds[ast.Type]
		if !ok {
			return nil, fmt.Errorf("shape %s: unknown shape type %q", idStr, ast.Type)
		}

		built, err := buildShape(id, kind, &ast, raw)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, built...)
	}

	return NewModel(shapes)
}

// buildShape converts one AST entry into a shape plus any member shapes
// it declares.
func buildShape(id ShapeID, kind ShapeKind, ast *astShape, raw json.RawMessage) ([]*Shape, error) {
	s := &Shape{ID: id, Kind: kind, Traits: decodeTraits(ast.Traits)}
	out := []*Shape{s}

	addMember := func(name string, am *astMember) error {
		target, err := ParseShapeID(am.Target)
		if err != nil {
			return fmt.Errorf("shape %s member %s: %w", id, name, err)
		}
		out = append(out, &Shape{
			ID:     id.WithMember(name),
			Kind:   KindMember,
			Traits: decodeTraits(am.Traits),
			Target: target,
		})
		return nil
	}

	switch kind {
	case KindList, KindSet:
		if ast.Member == nil {
			return nil, fmt.Errorf("shape %s: %s requires a member", id, kind)
		}
		s.Elem = id.WithMember("member")
		if err := addMember("member", ast.Member); err != nil {
			return nil, err
		}
	case KindMap:
		if ast.Key == nil || ast.Value == nil {
			return nil, fmt.Errorf("shape %s: map requires key and value", id)
		}
		s.Key = id.WithMember("key")
		s.Value = id.WithMember("value")
		if err := addMember("key", ast.Key); err != nil {
			return nil, err
		}
		if err := addMember("value", ast.Value); err != nil {
			return nil, err
		}
	case KindStructure, KindUnion:
		// encoding/json maps lose declaration order, which is load
		// bearing for binding emission. Recover it from the raw bytes.
		order, err := memberOrder(raw)
		if err != nil {
			return nil, fmt.Errorf("shape %s: %w", id, err)
		}
		s.MemberNames = order
		for _, name := range order {
			am := ast.Members[name]
			if err := addMember(name, &am); err != nil {
				return nil, err
			}
		}
	case KindOperation:
		if ast.Input != nil {
			target, err := ParseShapeID(ast.Input.Target)
			if err != nil {
				return nil, fmt.Errorf("shape %s input: %w", id, err)
			}
			s.Input = target
		}
		if ast.Output != nil {
			target, err := ParseShapeID(ast.Output.Target)
			if err != nil {
				return nil, fmt.Errorf("shape %s output: %w", id, err)
			}
			s.Output = target
		}
		for _, e := range ast.Errors {
			target, err := ParseShapeID(e.Target)
			if err != nil {
				return nil, fmt.Errorf("shape %s errors: %w", id, err)
			}
			s.Errors = append(s.Errors, target)
		}
	case KindService:
		for _, op := range ast.Operations {
			target, err := ParseShapeID(op.Target)
			if err != nil {
				return nil, fmt.Errorf("shape %s operations: %w", id, err)
			}
			s.Operations = append(s.Operations, target)
		}
	}

	return out, nil
}

// decodeTraits converts a raw trait payload map into a Traits set.
func decodeTraits(raw map[string]any) Traits {
	traits := make(Traits, len(raw))
	for name, value := range raw {
		traits[name] = Trait{Name: name, Value: value}
	}
	return traits
}

// memberOrder extracts the declaration order of the "members" object
// keys from a shape's raw JSON by walking decoder tokens.
func memberOrder(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	// Enter the shape object.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		if key != "members" {
			if err := skipValue(dec); err != nil {
				return nil, err
			}
			continue
		}

		// Enter the members object.
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		var order []string
		for dec.More() {
			nameTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			name, _ := nameTok.(string)
			order = append(order, name)
			if err := skipValue(dec); err != nil {
				return nil, err
			}
		}
		return order, nil
	}
	return nil, nil
}

// skipValue consumes one complete JSON value from the decoder.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); ok && (delim == '{' || delim == '[') {
		depth := 1
		for depth > 0 {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			if delim, ok := tok.(json.Delim); ok {
				switch delim {
				case '{', '[':
					depth++
				case '}', ']':
					depth--
				}
			}
		}
	}
	return nil
}
