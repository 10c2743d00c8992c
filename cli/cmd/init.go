package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/ardnew/protempl/lang"
	"github.com/ardnew/protempl/log"
	"github.com/ardnew/protempl/profile"
)

// Init generates a default configuration file with current flag values.
//
// The file is written in the document grammar itself: a single top-level
// "config" object whose members are flag names bound to string literals.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	_, err = file.WriteString(lang.Format(i.buildDocument(ctx)))
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath))

	return nil
}

// buildDocument constructs the config document from current flag values.
// Every value is rendered as a string literal since the language has no
// other scalar type.
func (i *Init) buildDocument(ctx context.Context) *lang.Document {
	ktx := kongContextFrom(ctx)

	members := make([]*lang.Entry, 0)

	prefixIgnore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val := ktx.FlagValue(flag)
		if val == nil {
			continue
		}

		text := fmt.Sprint(val)
		if text == "" {
			continue
		}

		members = append(members,
			lang.NewEntry(flag.Name, lang.NewLiteral(text)))
	}

	doc := new(lang.Document)
	doc.Entries = []*lang.Entry{
		lang.NewEntry(ConfigIdentifier, lang.NewComposition(nil, members)),
	}

	return doc
}
