package lang

import (
	"context"
	"iter"
	"log/slog"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/protempl/log"
)

// Resolve fully resolves every top-level entry of doc against an optional
// prelude, expanding prototype references, merging overrides, and
// materializing the result as a [ResolvedDocument].
//
// The whole call fails on the first error. Use [ResolveEach] for per-entry
// isolation, or [ResolvePath] to resolve a single subtree on demand.
func Resolve(
	ctx context.Context,
	doc *Document,
	prelude *Prelude,
) (*ResolvedDocument, error) {
	r, err := newResolver(doc, prelude)
	if err != nil {
		return nil, err
	}

	out := NewObject()

	for _, ent := range doc.Entries {
		value, err := r.resolveEntry(ctx, ent)
		if err != nil {
			return nil, err
		}

		out.Set(ent.Name, value)
	}

	r.logger.TraceContext(ctx, "resolve complete",
		slog.Int("entry_count", out.Len()))

	return &ResolvedDocument{Object: out}, nil
}

// EntryResult is the outcome of resolving a single top-level entry in
// isolation. Exactly one of Value and Err is set.
type EntryResult struct {
	Name  string
	Value ResolvedValue
	Err   error
}

// ResolveEach resolves each top-level entry of doc independently and yields
// one [EntryResult] per entry in declaration order. An entry that fails
// does not prevent later entries from resolving; shared prototypes remain
// memoized across entries.
//
// A scope construction failure (duplicate names) yields a single result
// carrying that error.
func ResolveEach(
	ctx context.Context,
	doc *Document,
	prelude *Prelude,
) iter.Seq[EntryResult] {
	return func(yield func(EntryResult) bool) {
		r, err := newResolver(doc, prelude)
		if err != nil {
			yield(EntryResult{Err: err})

			return
		}

		for _, ent := range doc.Entries {
			value, err := r.resolveEntry(ctx, ent)

			if !yield(EntryResult{Name: ent.Name, Value: value, Err: err}) {
				return
			}
		}
	}
}

// ResolvePath resolves only the subtree reachable through path, without
// materializing the rest of the document. Cycle detection and memoization
// behave identically to full resolution.
func ResolvePath(
	ctx context.Context,
	doc *Document,
	prelude *Prelude,
	path Path,
) (ResolvedValue, error) {
	if len(path) == 0 {
		return nil, ErrUndefinedName.With(slog.String("name", ""))
	}

	r, err := newResolver(doc, prelude)
	if err != nil {
		return nil, err
	}

	return r.resolvePath(ctx, path, Position{}, 0)
}

// scopeEntry is one binding in the active scope.
type scopeEntry struct {
	value *Value
	pos   Position
}

// resolver carries the state of one resolution session.
// It is not safe for concurrent use; each call to [Resolve], [ResolveEach],
// or [ResolvePath] constructs its own.
type resolver struct {
	scope      map[string]*scopeEntry
	names      []string // scope names, for suggestions
	memo       map[string]ResolvedValue
	inProgress map[string]bool
	stack      []string // resolution chain, for cycle diagnostics
	maxDepth   int
	logger     log.Logger
}

// newResolver builds the lookup scope: prelude bindings first, then
// document bindings, which shadow same-named prelude bindings. Duplicate
// names within the same level fail with [ErrDuplicateName].
func newResolver(doc *Document, prelude *Prelude) (*resolver, error) {
	// Hand-assembled documents never pass through applyDefaults, so a
	// zero or negative depth means "unset", not "forbid recursion".
	maxDepth := doc.opts.maxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	r := &resolver{
		scope:      make(map[string]*scopeEntry),
		memo:       make(map[string]ResolvedValue),
		inProgress: make(map[string]bool),
		maxDepth:   maxDepth,
		logger:     doc.logger,
	}

	if prelude != nil {
		for _, ent := range prelude.Entries() {
			if _, ok := r.scope[ent.Name]; ok {
				return nil, ErrDuplicateName.WithPosition(ent.Pos).
					With(
						slog.String("name", ent.Name),
						slog.String("level", "prelude"),
					)
			}

			r.scope[ent.Name] = &scopeEntry{value: ent.Value, pos: ent.Pos}
			r.names = append(r.names, ent.Name)
		}
	}

	seen := make(map[string]bool, len(doc.Entries))

	for _, ent := range doc.Entries {
		if seen[ent.Name] {
			return nil, ErrDuplicateName.WithPosition(ent.Pos).
				With(
					slog.String("name", ent.Name),
					slog.String("level", "document"),
				)
		}

		seen[ent.Name] = true

		if _, shadowed := r.scope[ent.Name]; !shadowed {
			r.names = append(r.names, ent.Name)
		}

		r.scope[ent.Name] = &scopeEntry{value: ent.Value, pos: ent.Pos}
	}

	return r, nil
}

// resolveEntry resolves a single top-level entry through the memoizing
// name path so shared prototypes are computed once.
func (r *resolver) resolveEntry(ctx context.Context, ent *Entry) (ResolvedValue, error) {
	return r.resolveName(ctx, ent.Name, ent.Pos, 0)
}

// resolveName resolves the top-level binding for name.
// State machine per name: unvisited, in progress, resolved. A request for
// a name already in progress on the current stack is a cycle.
func (r *resolver) resolveName(
	ctx context.Context,
	name string,
	pos Position,
	depth int,
) (ResolvedValue, error) {
	if value, ok := r.memo[name]; ok {
		return value, nil
	}

	ent, ok := r.scope[name]
	if !ok {
		err := ErrUndefinedName.WithPosition(pos).
			With(slog.String("name", name))

		if hint, found := r.suggest(name, r.names); found {
			err = err.With(slog.String("did_you_mean", hint))
		}

		return nil, err
	}

	if r.inProgress[name] {
		return nil, ErrCyclicPrototype.WithPosition(pos).
			WithChain(append(append([]string{}, r.stack...), name))
	}

	r.inProgress[name] = true
	r.stack = append(r.stack, name)

	r.logger.TraceContext(ctx, "resolving name",
		slog.String("name", name),
		slog.Int("depth", depth))

	value, err := r.resolveValue(ctx, ent.value, depth)

	r.stack = r.stack[:len(r.stack)-1]
	delete(r.inProgress, name)

	if err != nil {
		return nil, err
	}

	r.memo[name] = value

	return value, nil
}

// resolveValue resolves a raw value at the given recursion depth.
func (r *resolver) resolveValue(
	ctx context.Context,
	value *Value,
	depth int,
) (ResolvedValue, error) {
	if depth > r.maxDepth {
		return nil, ErrMaxDepthExceeded.WithPosition(value.Pos).
			With(slog.Int("max_depth", r.maxDepth)).
			WithChain(r.stack)
	}

	if value.Kind == KindLiteral {
		return &Leaf{Value: value.Literal}, nil
	}

	var base ResolvedValue

	if value.Prototype != nil {
		proto, err := r.resolvePath(ctx, value.Prototype, value.Pos, depth+1)
		if err != nil {
			return nil, err
		}

		base = proto
	}

	// A composition with no brace block is a bare reference: it aliases
	// whatever the path resolves to, object or leaf.
	if value.Overrides == nil {
		return base, nil
	}

	obj := NewObject()

	if base != nil {
		proto, ok := base.(*Object)
		if !ok {
			return nil, ErrPrototypeNotObject.WithPosition(value.Pos).
				With(slog.String("prototype", value.Prototype.String()))
		}

		obj = proto.clone()
	}

	// Merge overrides in source order: replace by name, insert when new.
	for _, ent := range value.Overrides {
		member, err := r.resolveValue(ctx, ent.Value, depth+1)
		if err != nil {
			return nil, err
		}

		obj.Set(ent.Name, member)
	}

	return obj, nil
}

// resolvePath resolves a dotted path: the first name against the active
// scope, each subsequent name as a member lookup on the previous result.
func (r *resolver) resolvePath(
	ctx context.Context,
	path Path,
	pos Position,
	depth int,
) (ResolvedValue, error) {
	current, err := r.resolveName(ctx, path[0], pos, depth)
	if err != nil {
		return nil, err
	}

	for i, name := range path[1:] {
		obj, ok := current.(*Object)
		if !ok {
			return nil, ErrUndefinedMember.WithPosition(pos).
				With(
					slog.String("path", path[:i+2].String()),
					slog.String("member", name),
					slog.String("cause", "value has no members"),
				)
		}

		member, ok := obj.Get(name)
		if !ok {
			err := ErrUndefinedMember.WithPosition(pos).
				With(
					slog.String("path", path[:i+2].String()),
					slog.String("member", name),
				)

			if hint, found := r.suggest(name, obj.Keys()); found {
				err = err.With(slog.String("did_you_mean", hint))
			}

			return nil, err
		}

		current = member
	}

	return current, nil
}

// suggest returns the closest fuzzy match to name among candidates.
func (r *resolver) suggest(name string, candidates []string) (string, bool) {
	if name == "" {
		return "", false
	}

	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 {
		return "", false
	}

	return matches[0].Str, true
}
