package lang

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func mustResolve(t *testing.T, src string, prelude *Prelude) *ResolvedDocument {
	t.Helper()

	doc := mustParse(t, src)

	resolved, err := Resolve(context.Background(), doc, prelude)
	if err != nil {
		t.Fatalf("Resolve(%q) error: %v", src, err)
	}

	return resolved
}

func leafValue(t *testing.T, obj *Object, name string) string {
	t.Helper()

	v, ok := obj.Get(name)
	if !ok {
		t.Fatalf("member %q not found; have %v", name, obj.Keys())
	}

	leaf, ok := v.(*Leaf)
	if !ok {
		t.Fatalf("member %q is %T, want *Leaf", name, v)
	}

	return leaf.Value
}

func TestResolveOverride(t *testing.T) {
	t.Parallel()

	resolved := mustResolve(t, `
		h: { t: "Hi" }
		h2: h { t: "Bye" }
	`, nil)

	h2, _ := resolved.Get("h2")

	obj, ok := h2.(*Object)
	if !ok {
		t.Fatalf("h2 is %T, want *Object", h2)
	}

	if got := leafValue(t, obj, "t"); got != "Bye" {
		t.Errorf("h2.t = %q, want %q", got, "Bye")
	}

	// The prototype is unchanged.
	h, _ := resolved.Get("h")
	if got := leafValue(t, h.(*Object), "t"); got != "Hi" {
		t.Errorf("h.t = %q, want %q", got, "Hi")
	}
}

func TestResolveInsertionOrder(t *testing.T) {
	t.Parallel()

	resolved := mustResolve(t, `
		base: { x: "1" y: "2" }
		child: base { y: "3" z: "4" }
	`, nil)

	child, _ := resolved.Get("child")
	obj := child.(*Object)

	want := []string{"x", "y", "z"}
	got := obj.Keys()

	if len(got) != len(want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key %d = %q, want %q", i, got[i], want[i])
		}
	}

	if v := leafValue(t, obj, "x"); v != "1" {
		t.Errorf("child.x = %q, want %q", v, "1")
	}

	if v := leafValue(t, obj, "y"); v != "3" {
		t.Errorf("child.y = %q, want %q", v, "3")
	}

	if v := leafValue(t, obj, "z"); v != "4" {
		t.Errorf("child.z = %q, want %q", v, "4")
	}
}

func TestResolveMemberReference(t *testing.T) {
	t.Parallel()

	resolved := mustResolve(t, `
		a: { name: "Peter Parker" }
		ref: a.name
	`, nil)

	ref, _ := resolved.Get("ref")

	leaf, ok := ref.(*Leaf)
	if !ok {
		t.Fatalf("ref is %T, want *Leaf", ref)
	}

	if leaf.Value != "Peter Parker" {
		t.Errorf("ref = %q, want %q", leaf.Value, "Peter Parker")
	}
}

func TestResolveLeafAlias(t *testing.T) {
	t.Parallel()

	resolved := mustResolve(t, `
		ok_text: "Ok"
		button: { visible: "true" text: "Click Here" }
		ok_button: button { text: ok_text }
	`, nil)

	button, _ := resolved.Get("ok_button")
	obj := button.(*Object)

	if got := leafValue(t, obj, "text"); got != "Ok" {
		t.Errorf("ok_button.text = %q, want %q", got, "Ok")
	}

	if got := leafValue(t, obj, "visible"); got != "true" {
		t.Errorf("ok_button.visible = %q, want %q", got, "true")
	}
}

func TestResolveTypeChangingOverride(t *testing.T) {
	t.Parallel()

	resolved := mustResolve(t, `
		p: { x: { y: "1" } }
		c: p { x: "flat" }
	`, nil)

	c, _ := resolved.Get("c")

	x, _ := c.(*Object).Get("x")
	if _, ok := x.(*Leaf); !ok {
		t.Errorf("c.x is %T, want *Leaf", x)
	}
}

func TestResolveErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{
			name:  "duplicate top-level name",
			input: "a: \"1\"\na: \"2\"",
			want:  ErrDuplicateName,
		},
		{
			name:  "undefined name",
			input: `a: missing {}`,
			want:  ErrUndefinedName,
		},
		{
			name:  "undefined member",
			input: "a: { b: \"1\" }\nr: a.c",
			want:  ErrUndefinedMember,
		},
		{
			name:  "member lookup on leaf",
			input: "a: \"1\"\nr: a.b",
			want:  ErrUndefinedMember,
		},
		{
			name:  "leaf prototype with block",
			input: "s: \"str\"\no: s {}",
			want:  ErrPrototypeNotObject,
		},
		{
			name:  "two-object cycle",
			input: "a: b {}\nb: a {}",
			want:  ErrCyclicPrototype,
		},
		{
			name:  "self cycle",
			input: `a: a {}`,
			want:  ErrCyclicPrototype,
		},
		{
			name:  "cycle through member reference",
			input: "a: { m: b }\nb: { m: a }",
			want:  ErrCyclicPrototype,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			doc := mustParse(t, test.input)

			_, err := Resolve(context.Background(), doc, nil)
			if !errors.Is(err, test.want) {
				t.Errorf("Resolve(%q) error = %v, want %v",
					test.input, err, test.want)
			}
		})
	}
}

func TestResolveMaxDepth(t *testing.T) {
	t.Parallel()

	// A deep but acyclic chain, deepest entry first so resolution
	// recurses the full length before memoization can help.
	var sb strings.Builder

	const links = 9

	for i := links; i > 0; i-- {
		sb.WriteString("a")
		sb.WriteString(string(rune('0' + i)))
		sb.WriteString(": a")
		sb.WriteString(string(rune('0' + i - 1)))
		sb.WriteString(" {}\n")
	}

	sb.WriteString("a0: { x: \"1\" }\n")

	doc, err := Parse(context.Background(),
		mustTokens(t, sb.String()), WithMaxDepth(3))
	if err != nil {
		t.Fatal(err)
	}

	_, err = Resolve(context.Background(), doc, nil)
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("error = %v, want %v", err, ErrMaxDepthExceeded)
	}

	// The same chain resolves with the default depth.
	relaxed := mustParse(t, sb.String())

	_, err = Resolve(context.Background(), relaxed, nil)
	if err != nil {
		t.Errorf("default depth error: %v", err)
	}
}

func mustTokens(t *testing.T, src string) []Token {
	t.Helper()

	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatal(err)
	}

	return tokens
}

func TestResolveHandBuiltDocument(t *testing.T) {
	t.Parallel()

	// A document assembled from constructors never sees parser defaults;
	// resolution must still recurse to the default depth.
	doc := &Document{
		Entries: []*Entry{
			NewEntry("base", NewComposition(nil, []*Entry{
				NewEntry("x", NewLiteral("1")),
				NewEntry("nested", NewComposition(nil, []*Entry{
					NewEntry("y", NewLiteral("2")),
				})),
			})),
			NewEntry("child", NewComposition(ParsePath("base"), []*Entry{
				NewEntry("z", NewLiteral("3")),
			})),
			NewEntry("alias", NewReference("child.nested.y")),
		},
	}

	resolved, err := Resolve(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	child, _ := resolved.Get("child")
	obj := child.(*Object)

	if got := leafValue(t, obj, "x"); got != "1" {
		t.Errorf("child.x = %q, want %q", got, "1")
	}

	if got := leafValue(t, obj, "z"); got != "3" {
		t.Errorf("child.z = %q, want %q", got, "3")
	}

	alias, _ := resolved.Get("alias")
	if leaf, ok := alias.(*Leaf); !ok || leaf.Value != "2" {
		t.Errorf("alias = %+v, want leaf %q", alias, "2")
	}
}

func TestResolveIdempotentOverride(t *testing.T) {
	t.Parallel()

	once := mustResolve(t, "p: { x: \"1\" }\nc: p { y: \"2\" }", nil)
	twice := mustResolve(t, "p: { x: \"1\" }\nc: p { y: \"2\" y: \"2\" }", nil)

	a, _ := once.Get("c")
	b, _ := twice.Get("c")

	if !Equal(a, b) {
		t.Error("duplicate identical override changed the result")
	}
}

func TestResolvePureCopy(t *testing.T) {
	t.Parallel()

	resolved := mustResolve(t, "y: { a: \"1\" b: { c: \"2\" } }\nx: y {}", nil)

	x, _ := resolved.Get("x")
	y, _ := resolved.Get("y")

	if !Equal(x, y) {
		t.Error("X: Y {} is not structurally equal to Y")
	}
}

func TestResolveDeterministic(t *testing.T) {
	t.Parallel()

	const src = `
		base: { x: "1" y: "2" }
		child: base { y: "3" z: "4" }
		ref: child.z
	`

	first := mustResolve(t, src, nil)
	second := mustResolve(t, src, nil)

	if !Equal(first.Object, second.Object) {
		t.Error("repeated resolution produced different results")
	}
}

func TestResolveEmptyNames(t *testing.T) {
	t.Parallel()

	resolved := mustResolve(t, `: "anonymous"`, nil)

	v, ok := resolved.Get("")
	if !ok {
		t.Fatal("empty-named entry missing from result")
	}

	if leaf, ok := v.(*Leaf); !ok || leaf.Value != "anonymous" {
		t.Errorf("value = %+v, want leaf %q", v, "anonymous")
	}
}

func TestResolveEach(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `
		good: { x: "1" }
		bad: missing {}
		alias: good
	`)

	var (
		failed []string
		passed []string
	)

	for result := range ResolveEach(context.Background(), doc, nil) {
		if result.Err != nil {
			failed = append(failed, result.Name)

			continue
		}

		passed = append(passed, result.Name)
	}

	if len(failed) != 1 || failed[0] != "bad" {
		t.Errorf("failed = %v, want [bad]", failed)
	}

	if len(passed) != 2 {
		t.Errorf("passed = %v, want [good alias]", passed)
	}
}

func TestResolvePath(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `
		theme: { colors: { accent: "teal" } }
		unrelated: broken {}
	`)

	// Only the queried subtree resolves, so the broken entry is never
	// touched.
	value, err := ResolvePath(
		context.Background(), doc, nil, ParsePath("theme.colors.accent"))
	if err != nil {
		t.Fatalf("ResolvePath error: %v", err)
	}

	leaf, ok := value.(*Leaf)
	if !ok || leaf.Value != "teal" {
		t.Errorf("value = %+v, want leaf %q", value, "teal")
	}
}

func TestResolveWithPrelude(t *testing.T) {
	t.Parallel()

	prelude := NewPrelude().
		DefineLiteral("color", "red").
		Define("widget", NewComposition(nil, []*Entry{
			NewEntry("visible", NewLiteral("true")),
		}))

	resolved := mustResolve(t, `
		color: "blue"
		banner: widget { label: color }
	`, prelude)

	// Document bindings shadow same-named prelude bindings.
	banner, _ := resolved.Get("banner")
	obj := banner.(*Object)

	if got := leafValue(t, obj, "label"); got != "blue" {
		t.Errorf("banner.label = %q, want %q (document shadows prelude)",
			got, "blue")
	}

	if got := leafValue(t, obj, "visible"); got != "true" {
		t.Errorf("banner.visible = %q, want %q", got, "true")
	}
}

func TestResolveDuplicateInPrelude(t *testing.T) {
	t.Parallel()

	prelude := NewPrelude().
		DefineLiteral("x", "1").
		DefineLiteral("x", "2")

	doc := mustParse(t, `a: "1"`)

	_, err := Resolve(context.Background(), doc, prelude)
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("error = %v, want %v", err, ErrDuplicateName)
	}
}

func TestResolveCycleChain(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, "a: b {}\nb: c {}\nc: a {}")

	_, err := Resolve(context.Background(), doc, nil)

	var le *Error
	if !errors.As(err, &le) {
		t.Fatalf("error type = %T, want *Error", err)
	}

	if !errors.Is(err, ErrCyclicPrototype) {
		t.Fatalf("error = %v, want %v", err, ErrCyclicPrototype)
	}
}
