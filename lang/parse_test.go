package lang

import (
	"context"
	"errors"
	"testing"
)

func mustParse(t *testing.T, src string) *Document {
	t.Helper()

	doc, err := ParseString(context.Background(), src)
	if err != nil {
		t.Fatalf("ParseString(%q) error: %v", src, err)
	}

	return doc
}

func TestParseLiteral(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `greeting: "hello"`)

	if len(doc.Entries) != 1 {
		t.Fatalf("entry count = %d, want 1", len(doc.Entries))
	}

	ent := doc.Entries[0]
	if ent.Name != "greeting" {
		t.Errorf("name = %q, want %q", ent.Name, "greeting")
	}

	if ent.Value.Kind != KindLiteral || ent.Value.Literal != "hello" {
		t.Errorf("value = %+v, want literal %q", ent.Value, "hello")
	}
}

func TestParseComposition(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `ok_button: button { text: ok_text }`)

	ent := doc.Entries[0]
	if ent.Value.Kind != KindComposition {
		t.Fatalf("kind = %v, want %v", ent.Value.Kind, KindComposition)
	}

	if got := ent.Value.Prototype.String(); got != "button" {
		t.Errorf("prototype = %q, want %q", got, "button")
	}

	if len(ent.Value.Overrides) != 1 {
		t.Fatalf("override count = %d, want 1", len(ent.Value.Overrides))
	}

	override := ent.Value.Overrides[0]
	if override.Name != "text" {
		t.Errorf("override name = %q, want %q", override.Name, "text")
	}

	if got := override.Value.Prototype.String(); got != "ok_text" {
		t.Errorf("override prototype = %q, want %q", got, "ok_text")
	}
}

func TestParseBareReferenceVersusEmptyBlock(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, "alias: target\ncopy: target {}")

	alias := doc.Entries[0].Value
	if alias.Overrides != nil {
		t.Errorf("bare reference overrides = %v, want nil", alias.Overrides)
	}

	copied := doc.Entries[1].Value
	if copied.Overrides == nil || len(copied.Overrides) != 0 {
		t.Errorf("empty block overrides = %v, want empty non-nil", copied.Overrides)
	}
}

func TestParseDottedPrototype(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `ref: theme.colors.accent`)

	want := Path{"theme", "colors", "accent"}
	got := doc.Entries[0].Value.Prototype

	if len(got) != len(want) {
		t.Fatalf("path = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseNestedBlocks(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `
		window: {
			title: "Main"
			frame: {
				w: "800"
				h: "600"
			}
		}
	`)

	window := doc.Entries[0].Value
	if len(window.Overrides) != 2 {
		t.Fatalf("member count = %d, want 2", len(window.Overrides))
	}

	frame := window.Overrides[1]
	if frame.Name != "frame" {
		t.Fatalf("member name = %q, want %q", frame.Name, "frame")
	}

	if len(frame.Value.Overrides) != 2 {
		t.Errorf("nested member count = %d, want 2", len(frame.Value.Overrides))
	}
}

func TestParseEmptyName(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `: "anonymous"`)

	if doc.Entries[0].Name != "" {
		t.Errorf("name = %q, want empty", doc.Entries[0].Name)
	}

	if doc.Entries[0].Value.Literal != "anonymous" {
		t.Errorf("literal = %q, want %q",
			doc.Entries[0].Value.Literal, "anonymous")
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"missing value", `a:`, ErrEmptyValue},
		{"colon as value", `a: : "1"`, ErrEmptyValue},
		{"closing brace as value", `a: { b: } `, ErrEmptyValue},
		{"missing colon", `a "1"`, ErrUnexpectedToken},
		{"unmatched open brace", `a: { b: "1"`, ErrUnexpectedToken},
		{"stray closing brace", `a: "1" }`, ErrUnexpectedToken},
		{"dot without member", `a: b. `, ErrUnexpectedToken},
		{"leading dot in path", `a: .b`, ErrEmptyValue},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseString(context.Background(), test.input)
			if !errors.Is(err, test.want) {
				t.Errorf("ParseString(%q) error = %v, want %v",
					test.input, err, test.want)
			}
		})
	}
}

func TestDocumentGet(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, "a: \"1\"\nb: \"2\"")

	ent, ok := doc.Get("b")
	if !ok || ent.Value.Literal != "2" {
		t.Errorf("Get(b) = %+v, %v", ent, ok)
	}

	if _, ok := doc.Get("missing"); ok {
		t.Error("Get(missing) reported found")
	}
}

func TestDocumentNames(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, "b: \"1\"\na: \"2\"\nc: \"3\"")

	want := []string{"b", "a", "c"}
	got := doc.Names()

	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("name %d = %q, want %q", i, got[i], want[i])
		}
	}
}
