package lang

import (
	"context"
	"strings"
	"testing"
)

func TestParseStringCached(t *testing.T) {
	const src = `cached_doc_a: "1"`

	first := mustParse(t, src)
	second := mustParse(t, src)

	// Identical sources share one memoized parse.
	if first != second {
		t.Error("repeated parse of identical source returned distinct documents")
	}

	third := mustParse(t, src+" ")
	if first == third {
		t.Error("distinct sources shared a cached document")
	}
}

func TestParseStringCachedError(t *testing.T) {
	const src = `cached_err:`

	_, err1 := ParseString(context.Background(), src)
	_, err2 := ParseString(context.Background(), src)

	if err1 == nil || err2 == nil {
		t.Fatal("expected parse errors")
	}
}

func TestParseOptionsBypassCache(t *testing.T) {
	const src = `cached_opt: "1"`

	cached := mustParse(t, src)

	custom, err := ParseString(context.Background(), src, WithMaxDepth(5))
	if err != nil {
		t.Fatal(err)
	}

	if cached == custom {
		t.Error("parse with options returned the cached default-option document")
	}
}

func TestClearCache(t *testing.T) {
	const src = `cached_clear: "1"`

	before := mustParse(t, src)

	ClearCache()

	after := mustParse(t, src)
	if before == after {
		t.Error("ClearCache did not discard the memoized document")
	}
}

func TestParseReader(t *testing.T) {
	t.Parallel()

	doc, err := ParseReader(context.Background(),
		strings.NewReader(`from_reader: "ok"`))
	if err != nil {
		t.Fatalf("ParseReader error: %v", err)
	}

	ent, ok := doc.Get("from_reader")
	if !ok || ent.Value.Literal != "ok" {
		t.Errorf("entry = %+v, %v", ent, ok)
	}
}
