package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/protempl/lang"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given
// kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type preludeKey struct{}

// WithPrelude returns a new context.Context carrying the given prelude.
func WithPrelude(ctx context.Context, prelude *lang.Prelude) context.Context {
	return context.WithValue(ctx, preludeKey{}, prelude)
}

// PreludeFrom retrieves the prelude stored in ctx, or nil.
func PreludeFrom(ctx context.Context) *lang.Prelude {
	p, _ := ctx.Value(preludeKey{}).(*lang.Prelude)

	return p
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// openSource opens the named source file, or stdin for "-".
// The caller must close the returned reader.
func openSource(path string) (io.ReadCloser, error) {
	if path == stdinSource {
		return io.NopCloser(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, ErrReadSource.
			With(slog.String("file", path)).
			Wrap(err)
	}

	return file, nil
}

// parseSource parses the named source file, or stdin for "-".
func parseSource(ctx context.Context, path string) (*lang.Document, error) {
	file, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	doc, err := lang.ParseReader(ctx, file)
	if err != nil {
		return nil, lang.WrapError(err).
			With(slog.String("file", path))
	}

	return doc, nil
}

// LoadPrelude reads a prelude from the named file. Files with a .yaml or
// .yml extension are decoded as YAML mappings; anything else is parsed in
// the document grammar. An empty path yields a nil prelude.
func LoadPrelude(ctx context.Context, path string) (*lang.Prelude, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrReadPrelude.
			With(slog.String("file", path)).
			Wrap(err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		prelude, err := lang.PreludeFromYAML(data)
		if err != nil {
			return nil, ErrReadPrelude.
				With(slog.String("file", path)).
				Wrap(err)
		}

		return prelude, nil

	default:
		prelude, err := lang.ParsePrelude(ctx, string(data))
		if err != nil {
			return nil, ErrReadPrelude.
				With(slog.String("file", path)).
				Wrap(err)
		}

		return prelude, nil
	}
}
