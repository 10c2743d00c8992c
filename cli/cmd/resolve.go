package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ardnew/protempl/lang"
	"github.com/ardnew/protempl/log"
)

// Resolve fully resolves a document and prints the result.
type Resolve struct {
	Format string `default:"native" enum:"native,json,yaml" help:"Output format."                             short:"o"`
	Each   bool   `                                         help:"Resolve each top-level entry in isolation."           negatable:""`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the resolve command.
func (r *Resolve) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	format, err := lang.ParseOutputFormat(r.Format)
	if err != nil {
		return err
	}

	doc, err := parseSource(ctx, r.Source)
	if err != nil {
		return err
	}

	prelude := PreludeFrom(ctx)

	if r.Each {
		return r.runEach(ctx, doc, prelude, format)
	}

	resolved, err := lang.Resolve(ctx, doc, prelude)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "resolve"))
	}

	out, err := lang.FormatDocument(resolved, format)
	if err != nil {
		return err
	}

	fmt.Print(out)

	return nil
}

// runEach resolves entries independently: failures are logged and skipped,
// successes are printed as a document in the requested format.
func (r *Resolve) runEach(
	ctx context.Context,
	doc *lang.Document,
	prelude *lang.Prelude,
	format lang.OutputFormat,
) error {
	out := lang.NewObject()
	failed := 0

	for result := range lang.ResolveEach(ctx, doc, prelude) {
		if result.Err != nil {
			failed++

			log.ErrorContext(ctx, "entry failed to resolve",
				slog.String("name", result.Name),
				slog.Any("error", result.Err))

			continue
		}

		out.Set(result.Name, result.Value)
	}

	rendered, err := lang.FormatDocument(
		&lang.ResolvedDocument{Object: out}, format)
	if err != nil {
		return err
	}

	fmt.Print(rendered)

	if failed > 0 {
		log.WarnContext(ctx, "document resolved partially",
			slog.Int("failed", failed),
			slog.Int("resolved", out.Len()))
	}

	return nil
}

// Query resolves a single dotted path on demand, without materializing the
// rest of the document.
type Query struct {
	Format string `default:"native" enum:"native,json,yaml" help:"Output format." short:"o"`

	Path   string `arg:""             help:"Dotted path to resolve."              name:"path"`
	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source" optional:""`
}

// Run executes the query command.
func (q *Query) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	format, err := lang.ParseOutputFormat(q.Format)
	if err != nil {
		return err
	}

	doc, err := parseSource(ctx, q.Source)
	if err != nil {
		return err
	}

	value, err := lang.ResolvePath(ctx, doc, PreludeFrom(ctx), lang.ParsePath(q.Path))
	if err != nil {
		return lang.WrapError(err).
			With(
				slog.String("command", "query"),
				slog.String("path", q.Path),
			)
	}

	out, err := lang.FormatResolved(value, format)
	if err != nil {
		return err
	}

	fmt.Println(out)

	return nil
}

// Fmt parses a document and prints it in canonical native syntax.
type Fmt struct {
	Write  bool `help:"Rewrite the source file in place."    short:"w"`
	Indent int  `help:"Indent width for nested blocks." default:"2"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	doc, err := parseSource(ctx, f.Source)
	if err != nil {
		return err
	}

	formatted := lang.FormatIndent(doc, f.Indent)

	if f.Write && f.Source != stdinSource {
		err := os.WriteFile(f.Source, []byte(formatted), 0o644)
		if err != nil {
			return ErrWriteOutput.
				With(slog.String("file", f.Source)).
				Wrap(err)
		}

		return nil
	}

	fmt.Print(formatted)

	return nil
}
