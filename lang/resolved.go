package lang

import "iter"

// ResolvedValue is a fully-resolved value: either a [*Leaf] string or a
// [*Object] with all prototype references expanded and overrides merged.
//
// The union is closed; no other types implement it. Resolved values are
// immutable once returned, so prototype expansions may share subtrees.
type ResolvedValue interface {
	resolvedValue()
}

// Leaf is a resolved string value.
type Leaf struct {
	Value string
}

func (*Leaf) resolvedValue() {}

// Object is a resolved object: an ordered collection of named members.
// Member order is insertion order, meaning prototype members first, then
// any overrides that introduced new names, in source order.
type Object struct {
	names  []string
	member map[string]ResolvedValue
}

func (*Object) resolvedValue() {}

// NewObject returns an empty Object ready for insertion.
func NewObject() *Object {
	return &Object{
		names:  make([]string, 0),
		member: make(map[string]ResolvedValue),
	}
}

// Len returns the number of members.
func (o *Object) Len() int { return len(o.names) }

// Keys returns member names in insertion order.
// The returned slice is a copy.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.names))
	copy(keys, o.names)

	return keys
}

// Get retrieves the member with the given name.
func (o *Object) Get(name string) (ResolvedValue, bool) {
	v, ok := o.member[name]

	return v, ok
}

// Set inserts or replaces a member. An existing name keeps its position;
// a new name is appended.
func (o *Object) Set(name string, value ResolvedValue) {
	if _, ok := o.member[name]; !ok {
		o.names = append(o.names, name)
	}

	o.member[name] = value
}

// All returns an iterator over members in insertion order.
func (o *Object) All() iter.Seq2[string, ResolvedValue] {
	return func(yield func(string, ResolvedValue) bool) {
		for _, name := range o.names {
			if !yield(name, o.member[name]) {
				return
			}
		}
	}
}

// clone returns a shallow copy of o: member order and identity are copied,
// member values are shared. Safe because resolved values are immutable.
func (o *Object) clone() *Object {
	c := &Object{
		names:  make([]string, len(o.names)),
		member: make(map[string]ResolvedValue, len(o.member)),
	}

	copy(c.names, o.names)

	for name, value := range o.member {
		c.member[name] = value
	}

	return c
}

// Equal reports whether two resolved values are structurally equal:
// identical member names in identical order with equal values.
func Equal(a, b ResolvedValue) bool {
	switch av := a.(type) {
	case *Leaf:
		bv, ok := b.(*Leaf)

		return ok && av.Value == bv.Value

	case *Object:
		bv, ok := b.(*Object)
		if !ok || len(av.names) != len(bv.names) {
			return false
		}

		for i, name := range av.names {
			if bv.names[i] != name {
				return false
			}

			if !Equal(av.member[name], bv.member[name]) {
				return false
			}
		}

		return true

	default:
		return false
	}
}

// ResolvedDocument is the result of resolving an entire document: an
// ordered object whose members are the document's top-level entries.
type ResolvedDocument struct {
	*Object
}
