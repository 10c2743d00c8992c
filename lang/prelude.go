package lang

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goccy/go-yaml"
)

// Prelude is a host-supplied set of default top-level bindings available
// to every document without explicit declaration. Document bindings shadow
// same-named prelude bindings.
//
// A Prelude is built programmatically with [Prelude.Define], parsed from
// source with [ParsePrelude], or loaded from YAML with [PreludeFromYAML].
type Prelude struct {
	entries []*Entry
}

// NewPrelude returns an empty prelude.
func NewPrelude() *Prelude {
	return &Prelude{}
}

// Define binds name to a raw value. Bindings keep definition order;
// duplicate names are detected during resolution, not here.
func (p *Prelude) Define(name string, value *Value) *Prelude {
	p.entries = append(p.entries, &Entry{Name: name, Value: value})

	return p
}

// DefineLiteral binds name to a string literal.
func (p *Prelude) DefineLiteral(name, literal string) *Prelude {
	return p.Define(name, NewLiteral(literal))
}

// Entries returns the prelude bindings in definition order.
func (p *Prelude) Entries() []*Entry {
	if p == nil {
		return nil
	}

	return p.entries
}

// Len returns the number of bindings.
func (p *Prelude) Len() int {
	if p == nil {
		return 0
	}

	return len(p.entries)
}

// ParsePrelude parses source text in the document grammar into a prelude.
// Prelude source may use the full grammar, including references between
// its own bindings.
func ParsePrelude(ctx context.Context, src string, opts ...Option) (*Prelude, error) {
	doc, err := ParseString(ctx, src, opts...)
	if err != nil {
		return nil, err
	}

	return PreludeFromDocument(doc), nil
}

// PreludeFromDocument converts a parsed document into a prelude.
func PreludeFromDocument(doc *Document) *Prelude {
	p := NewPrelude()
	p.entries = append(p.entries, doc.Entries...)

	return p
}

// PreludeFromYAML loads a prelude from a YAML mapping. Mapping values
// become objects, scalars become string literals. Sequences and null
// values have no representation in the language and are rejected.
func PreludeFromYAML(data []byte) (*Prelude, error) {
	var root yaml.MapSlice

	if err := yaml.UnmarshalWithOptions(data, &root, yaml.UseOrderedMap()); err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	p := NewPrelude()

	for _, item := range root {
		value, err := yamlValue(item.Value)
		if err != nil {
			return nil, err
		}

		p.Define(fmt.Sprint(item.Key), value)
	}

	return p, nil
}

// yamlValue converts a decoded YAML node into a raw value.
func yamlValue(node any) (*Value, error) {
	switch v := node.(type) {
	case string:
		return NewLiteral(v), nil

	case bool, int, int64, uint64, float64:
		return NewLiteral(fmt.Sprint(v)), nil

	case yaml.MapSlice:
		overrides := make([]*Entry, 0, len(v))

		for _, item := range v {
			member, err := yamlValue(item.Value)
			if err != nil {
				return nil, err
			}

			overrides = append(overrides, NewEntry(fmt.Sprint(item.Key), member))
		}

		return NewComposition(nil, overrides), nil

	default:
		return nil, ErrPreludeValue.
			With(slog.String("type", fmt.Sprintf("%T", node)))
	}
}
