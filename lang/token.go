package lang

// Kind identifies the lexical class of a token.
type Kind int

const (
	// KindString is a quoted string literal with the quotes and escapes
	// already decoded.
	KindString Kind = iota

	// KindName is a bare name: a maximal run of characters excluding
	// '{', '}', ':', '.', '"', and whitespace.
	KindName

	// KindColon is the ':' separating a name from its value.
	KindColon

	// KindDot is the '.' separating names in a reference path.
	KindDot

	// KindLBrace is the '{' opening an override block.
	KindLBrace

	// KindRBrace is the '}' closing an override block.
	KindRBrace

	// KindEOF marks the end of input.
	KindEOF
)

// String returns a string representation of the token kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"

	case KindName:
		return "name"

	case KindColon:
		return ":"

	case KindDot:
		return "."

	case KindLBrace:
		return "{"

	case KindRBrace:
		return "}"

	case KindEOF:
		return "EOF"

	default:
		return "unknown"
	}
}

// Position locates a token or error within source text.
type Position struct {
	Offset int // byte offset, starting at 0
	Line   int // line number, starting at 1
	Column int // column number in runes, starting at 1
}

// Token is a single lexeme produced by [Tokenize].
type Token struct {
	Kind Kind
	Text string // decoded literal for strings, verbatim for names
	Pos  Position
}

// String returns a display form of the token for diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case KindString:
		return `"` + t.Text + `"`

	case KindName:
		return t.Text

	default:
		return t.Kind.String()
	}
}
