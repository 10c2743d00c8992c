package lang

import (
	"context"
	"io"
	"iter"
	"sync"
)

// Stream provides on-demand resolution over a single parsed document:
// callers query individual paths and only the subtrees they touch are
// resolved, with results memoized across queries.
//
// A Stream is safe for concurrent use; the shared memoization table is
// written once per name under an internal lock.
type Stream struct {
	doc *Document

	mu sync.Mutex
	r  *resolver
}

// NewStream parses all of rd and prepares it for on-demand resolution.
func NewStream(
	ctx context.Context,
	rd io.Reader,
	prelude *Prelude,
	opts ...Option,
) (*Stream, error) {
	doc, err := ParseReader(ctx, rd, opts...)
	if err != nil {
		return nil, err
	}

	return NewStreamFromDocument(doc, prelude)
}

// NewStreamFromString parses src and prepares it for on-demand resolution.
func NewStreamFromString(
	ctx context.Context,
	src string,
	prelude *Prelude,
	opts ...Option,
) (*Stream, error) {
	doc, err := ParseString(ctx, src, opts...)
	if err != nil {
		return nil, err
	}

	return NewStreamFromDocument(doc, prelude)
}

// NewStreamFromDocument prepares an already-parsed document for on-demand
// resolution. Scope construction errors (duplicate names) surface here.
func NewStreamFromDocument(doc *Document, prelude *Prelude) (*Stream, error) {
	r, err := newResolver(doc, prelude)
	if err != nil {
		return nil, err
	}

	return &Stream{doc: doc, r: r}, nil
}

// Document returns the underlying raw document.
func (s *Stream) Document() *Document {
	return s.doc
}

// Get resolves the subtree addressed by the dotted path, reusing results
// memoized by earlier queries.
func (s *Stream) Get(ctx context.Context, path string) (ResolvedValue, error) {
	p := ParsePath(path)
	if len(p) == 0 {
		return nil, ErrUndefinedName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.r.resolvePath(ctx, p, Position{}, 0)
}

// Entries resolves each top-level entry in declaration order, yielding
// one result per entry. Failures are isolated per entry.
func (s *Stream) Entries(ctx context.Context) iter.Seq[EntryResult] {
	return func(yield func(EntryResult) bool) {
		for _, ent := range s.doc.Entries {
			s.mu.Lock()
			value, err := s.r.resolveEntry(ctx, ent)
			s.mu.Unlock()

			if !yield(EntryResult{Name: ent.Name, Value: value, Err: err}) {
				return
			}
		}
	}
}
