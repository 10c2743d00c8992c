package lang

// NewLiteral constructs a raw string literal value.
func NewLiteral(s string) *Value {
	return &Value{Kind: KindLiteral, Literal: s}
}

// NewComposition constructs a raw composition value. Either argument may
// be nil: a nil prototype means the composition declares its members from
// scratch, a nil overrides slice means a bare reference with no brace
// block. At least one must be non-nil to form a valid value.
func NewComposition(prototype Path, overrides []*Entry) *Value {
	return &Value{
		Kind:      KindComposition,
		Prototype: prototype,
		Overrides: overrides,
	}
}

// NewReference constructs a bare reference to the given dotted path.
func NewReference(path string) *Value {
	return NewComposition(ParsePath(path), nil)
}

// NewEntry constructs a named entry for use in overrides or preludes.
func NewEntry(name string, value *Value) *Entry {
	return &Entry{Name: name, Value: value}
}
