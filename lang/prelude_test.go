package lang

import (
	"context"
	"errors"
	"testing"
)

func TestParsePrelude(t *testing.T) {
	t.Parallel()

	prelude, err := ParsePrelude(context.Background(), `
		spacing: "8"
		panel: { pad: spacing border: "none" }
	`)
	if err != nil {
		t.Fatalf("ParsePrelude error: %v", err)
	}

	if prelude.Len() != 2 {
		t.Fatalf("Len = %d, want 2", prelude.Len())
	}

	// Prelude bindings may reference each other from a document.
	resolved := mustResolve(t, `box: panel { border: "thin" }`, prelude)

	box, _ := resolved.Get("box")
	obj := box.(*Object)

	if got := leafValue(t, obj, "pad"); got != "8" {
		t.Errorf("box.pad = %q, want %q", got, "8")
	}

	if got := leafValue(t, obj, "border"); got != "thin" {
		t.Errorf("box.border = %q, want %q", got, "thin")
	}
}

func TestPreludeFromYAML(t *testing.T) {
	t.Parallel()

	prelude, err := PreludeFromYAML([]byte(`
defaults:
  retries: 3
  verbose: true
  region: us-east
motd: welcome
`))
	if err != nil {
		t.Fatalf("PreludeFromYAML error: %v", err)
	}

	if prelude.Len() != 2 {
		t.Fatalf("Len = %d, want 2", prelude.Len())
	}

	resolved := mustResolve(t, `cfg: defaults { region: "eu-west" }`, prelude)

	cfg, _ := resolved.Get("cfg")
	obj := cfg.(*Object)

	// Scalars become string literals.
	if got := leafValue(t, obj, "retries"); got != "3" {
		t.Errorf("cfg.retries = %q, want %q", got, "3")
	}

	if got := leafValue(t, obj, "verbose"); got != "true" {
		t.Errorf("cfg.verbose = %q, want %q", got, "true")
	}

	if got := leafValue(t, obj, "region"); got != "eu-west" {
		t.Errorf("cfg.region = %q, want %q", got, "eu-west")
	}

	// Mapping order is preserved.
	want := []string{"retries", "verbose", "region"}
	got := obj.Keys()

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPreludeFromYAMLRejectsSequences(t *testing.T) {
	t.Parallel()

	_, err := PreludeFromYAML([]byte("items:\n  - a\n  - b\n"))
	if !errors.Is(err, ErrPreludeValue) {
		t.Errorf("error = %v, want %v", err, ErrPreludeValue)
	}
}

func TestPreludeFromYAMLInvalid(t *testing.T) {
	t.Parallel()

	_, err := PreludeFromYAML([]byte("a: [unclosed"))
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("error = %v, want %v", err, ErrReadInput)
	}
}

func TestNilPrelude(t *testing.T) {
	t.Parallel()

	var prelude *Prelude

	if prelude.Len() != 0 || prelude.Entries() != nil {
		t.Error("nil prelude should be empty")
	}

	resolved := mustResolve(t, `a: "1"`, prelude)
	if resolved.Len() != 1 {
		t.Errorf("entry count = %d, want 1", resolved.Len())
	}
}
