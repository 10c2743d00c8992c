package lang

import (
	"iter"
	"strings"

	"github.com/ardnew/protempl/log"
)

// Document is the raw parse result: an ordered sequence of named entries.
// It is immutable after parsing; the resolver never mutates it.
type Document struct {
	Entries []*Entry

	index  map[string]int // first occurrence of each top-level name
	opts   optionsKey
	logger log.Logger
}

// Entry is a single named declaration, either at the top level of a
// document or inside an override block.
type Entry struct {
	Name  string // may be empty (reserved for future implicit indexing)
	Value *Value
	Pos   Position
}

// ValueKind discriminates the raw value union.
type ValueKind int

const (
	// KindLiteral is a string literal value.
	KindLiteral ValueKind = iota

	// KindComposition is a composition: an optional prototype path plus an
	// ordered list of override entries.
	KindComposition
)

// String returns a string representation of the value kind.
func (k ValueKind) String() string {
	switch k {
	case KindLiteral:
		return "Literal"

	case KindComposition:
		return "Composition"

	default:
		return "Unknown"
	}
}

// Value is a raw, unresolved value.
// Exactly one set of fields is meaningful based on Kind.
type Value struct {
	Kind      ValueKind
	Literal   string   // KindLiteral only
	Prototype Path     // KindComposition: nil when no prototype is named
	Overrides []*Entry // KindComposition: nil when there is no brace block
	Pos       Position
}

// Path is an ordered, non-empty sequence of names referencing a top-level
// object or a nested member of one (`a.b.c`).
type Path []string

// String returns the dotted form of the path.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// ParsePath splits a dotted reference string into a Path.
// Empty segments are preserved; they address nothing today but are
// accepted by the grammar.
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}

	return Path(strings.Split(s, "."))
}

// Get retrieves the first top-level entry with the given name.
// Returns (nil, false) if no such entry exists.
func (doc *Document) Get(name string) (*Entry, bool) {
	if i, ok := doc.index[name]; ok {
		return doc.Entries[i], true
	}

	return nil, false
}

// All returns an iterator over all top-level entries in declaration order.
func (doc *Document) All() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		for _, ent := range doc.Entries {
			if !yield(ent) {
				return
			}
		}
	}
}

// Names returns the top-level entry names in declaration order.
// Duplicates, which resolution rejects, appear as declared.
func (doc *Document) Names() []string {
	names := make([]string, len(doc.Entries))
	for i, ent := range doc.Entries {
		names[i] = ent.Name
	}

	return names
}

// buildIndex records the first occurrence of each top-level name for O(1)
// lookups. Duplicate detection is a resolution-time concern.
func (doc *Document) buildIndex() {
	doc.index = make(map[string]int, len(doc.Entries))

	for i, ent := range doc.Entries {
		if _, ok := doc.index[ent.Name]; !ok {
			doc.index[ent.Name] = i
		}
	}
}

// DefaultMaxDepth is the default maximum depth for nested resolution.
// Users may modify this before parsing to change the default.
var DefaultMaxDepth = 100

// optionsKey holds document configuration options.
// This type is gob-encodable for cache key hashing.
type optionsKey struct {
	maxDepth int
}

// Option configures parsing or resolution behavior.
type Option func(*Document)

// WithMaxDepth sets the maximum recursion depth for resolution, bounding
// pathological (non-cyclic but extremely deep) prototype chains.
func WithMaxDepth(depth int) Option {
	return func(doc *Document) {
		doc.opts.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(doc *Document) {
		doc.logger = logger
	}
}

// applyDefaults sets default option values on a Document.
func applyDefaults(doc *Document) {
	doc.opts.maxDepth = DefaultMaxDepth
}

// applyOptions applies functional options to a Document.
func applyOptions(doc *Document, opts ...Option) {
	for _, opt := range opts {
		opt(doc)
	}
}
