package cli

import (
	"context"
	"io"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/protempl/lang"
)

// resolve returns a [kong.ConfigurationLoader] that reads config files
// written in the document grammar itself.
//
// The file declares a single top-level object named by the given name;
// its leaf members map flag names to values:
//
//	config: {
//	  log-level: "debug"
//	  log-format: "json"
//	  log-pretty: "true"
//	}
//
// Prototype references work as in any document, so a config file can
// compose shared defaults:
//
//	base: { log-format: "json" }
//	config: base { log-level: "debug" }
//
// Flag names with hyphens may use underscores in the config file.
// Command-line flags override config file values.
func resolve(ctx context.Context, name string) func(io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		doc, err := lang.ParseReader(ctx, r)
		if err != nil {
			// Unreadable config files are ignored, not fatal.
			return config{}, nil
		}

		value, err := lang.ResolvePath(ctx, doc, nil, lang.Path{name})
		if err != nil {
			return config{}, nil
		}

		obj, ok := value.(*lang.Object)
		if !ok {
			return config{}, nil
		}

		flags := make(config, obj.Len())

		for member, v := range obj.All() {
			if leaf, ok := v.(*lang.Leaf); ok {
				flags[member] = leaf.Value
			}
		}

		return flags, nil
	}
}

// config implements [kong.Resolver] for document-grammar config files.
type config map[string]string

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Allow underscores where the flag name has hyphens.
	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}
