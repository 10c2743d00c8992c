package lang

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
)

// OutputFormat selects a rendering for resolved values.
type OutputFormat int

const (
	// FormatNative renders the document grammar itself.
	FormatNative OutputFormat = iota

	// FormatJSON renders compact JSON with member order preserved.
	FormatJSON

	// FormatYAML renders YAML with member order preserved.
	FormatYAML
)

// String returns a string representation of the output format.
func (f OutputFormat) String() string {
	switch f {
	case FormatNative:
		return "native"

	case FormatJSON:
		return "json"

	case FormatYAML:
		return "yaml"

	default:
		return "unknown"
	}
}

// ParseOutputFormat parses an output format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "native", "":
		return FormatNative, nil

	case "json":
		return FormatJSON, nil

	case "yaml", "yml":
		return FormatYAML, nil

	default:
		return FormatNative, ErrInvalidFormat.With(slog.String("format", s))
	}
}

// FormatResolved renders a resolved value in the requested format.
func FormatResolved(v ResolvedValue, format OutputFormat) (string, error) {
	switch format {
	case FormatNative:
		var sb strings.Builder

		writeResolved(&sb, v, 0)

		return sb.String(), nil

	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", WrapError(err)
		}

		return string(data) + "\n", nil

	case FormatYAML:
		data, err := yaml.Marshal(ToMapSlice(v))
		if err != nil {
			return "", WrapError(err)
		}

		return string(data), nil

	default:
		return "", ErrInvalidFormat.With(slog.String("format", format.String()))
	}
}

// Format renders a raw document in canonical native syntax: one top-level
// entry per line, nested blocks indented by two spaces, string literals
// re-quoted with the quote escape applied.
func Format(doc *Document) string {
	return FormatIndent(doc, 2)
}

// FormatIndent renders like [Format] with nested blocks indented by width
// spaces per level.
func FormatIndent(doc *Document, width int) string {
	if width < 0 {
		width = 0
	}

	var sb strings.Builder

	pad := strings.Repeat(" ", width)

	for _, ent := range doc.Entries {
		writeEntry(&sb, ent, pad, 0)
	}

	return sb.String()
}

func writeEntry(sb *strings.Builder, ent *Entry, pad string, indent int) {
	sb.WriteString(strings.Repeat(pad, indent))
	sb.WriteString(ent.Name)
	sb.WriteString(": ")
	writeValue(sb, ent.Value, pad, indent)
	sb.WriteByte('\n')
}

func writeValue(sb *strings.Builder, v *Value, pad string, indent int) {
	if v.Kind == KindLiteral {
		sb.WriteString(quote(v.Literal))

		return
	}

	if v.Prototype != nil {
		sb.WriteString(v.Prototype.String())

		if v.Overrides != nil {
			sb.WriteByte(' ')
		}
	}

	if v.Overrides == nil {
		return
	}

	if len(v.Overrides) == 0 {
		sb.WriteString("{}")

		return
	}

	sb.WriteString("{\n")

	for _, ent := range v.Overrides {
		writeEntry(sb, ent, pad, indent+1)
	}

	sb.WriteString(strings.Repeat(pad, indent))
	sb.WriteByte('}')
}

func writeResolved(sb *strings.Builder, v ResolvedValue, indent int) {
	switch rv := v.(type) {
	case *Leaf:
		sb.WriteString(quote(rv.Value))

	case *Object:
		if rv.Len() == 0 {
			sb.WriteString("{}")

			return
		}

		sb.WriteString("{\n")

		for name, member := range rv.All() {
			sb.WriteString(strings.Repeat("  ", indent+1))
			sb.WriteString(name)
			sb.WriteString(": ")
			writeResolved(sb, member, indent+1)
			sb.WriteByte('\n')
		}

		sb.WriteString(strings.Repeat("  ", indent))
		sb.WriteByte('}')
	}
}

// FormatDocument renders a fully resolved document: one top-level entry
// per line in the requested format. JSON and YAML render the document as
// a single mapping.
func FormatDocument(doc *ResolvedDocument, format OutputFormat) (string, error) {
	if format != FormatNative {
		return FormatResolved(doc.Object, format)
	}

	var sb strings.Builder

	for name, member := range doc.All() {
		sb.WriteString(name)
		sb.WriteString(": ")
		writeResolved(&sb, member, 0)
		sb.WriteByte('\n')
	}

	return sb.String(), nil
}

// quote re-encodes a literal in source form: wrapped in quotes with every
// interior quote escaped.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
