package repl

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/protempl/lang"
)

// completer suggests dotted paths from a document's top-level names and,
// once a path has a dotted prefix, from the members of the object that
// prefix resolves to.
type completer struct {
	stream *lang.Stream
}

// complete returns candidate completions for the given partial input,
// ranked by fuzzy match quality. An empty input lists every top-level
// name.
func (c *completer) complete(ctx context.Context, input string) []string {
	names, prefix := c.candidates(ctx, input)

	last := input
	if i := strings.LastIndex(input, "."); i >= 0 {
		last = input[i+1:]
	}

	if last == "" {
		return prepend(prefix, names)
	}

	matches := fuzzy.Find(last, names)

	ranked := make([]string, 0, len(matches))
	for _, m := range matches {
		ranked = append(ranked, prefix+m.Str)
	}

	return ranked
}

// candidates returns the completable names at the current path position
// along with the already-typed dotted prefix.
func (c *completer) candidates(
	ctx context.Context,
	input string,
) (names []string, prefix string) {
	i := strings.LastIndex(input, ".")
	if i < 0 {
		names := c.stream.Document().Names()

		// Empty names are valid entries but not addressable by path.
		return deleteEmpty(names), ""
	}

	prefix = input[:i+1]

	value, err := c.stream.Get(ctx, strings.TrimSuffix(prefix, "."))
	if err != nil {
		return nil, prefix
	}

	obj, ok := value.(*lang.Object)
	if !ok {
		return nil, prefix
	}

	return deleteEmpty(obj.Keys()), prefix
}

func prepend(prefix string, names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = prefix + name
	}

	return out
}

func deleteEmpty(names []string) []string {
	out := names[:0]

	for _, name := range names {
		if name != "" {
			out = append(out, name)
		}
	}

	return out
}
