package lang

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize converts source text into a token sequence ending in a
// [KindEOF] token. Whitespace is insignificant and never emitted; '//'
// line comments are discarded.
func Tokenize(src string) ([]Token, error) {
	lx := &lexer{input: []byte(src), line: 1, col: 1}

	return lx.scan()
}

// lexer holds the lexical scanner state.
type lexer struct {
	input []byte
	pos   int
	line  int
	col   int
}

// scan runs the scanner over the whole input.
func (lx *lexer) scan() ([]Token, error) {
	// A small document yields roughly one token per few bytes.
	tokens := make([]Token, 0, len(lx.input)/4+1)

	for {
		lx.skipWhitespaceAndComments()

		if lx.eof() {
			tokens = append(tokens, Token{Kind: KindEOF, Pos: lx.position()})

			return tokens, nil
		}

		pos := lx.position()

		switch ch := lx.peek(); ch {
		case ':':
			lx.advance()
			tokens = append(tokens, Token{Kind: KindColon, Pos: pos})

		case '.':
			lx.advance()
			tokens = append(tokens, Token{Kind: KindDot, Pos: pos})

		case '{':
			lx.advance()
			tokens = append(tokens, Token{Kind: KindLBrace, Pos: pos})

		case '}':
			lx.advance()
			tokens = append(tokens, Token{Kind: KindRBrace, Pos: pos})

		case '"':
			text, err := lx.scanString()
			if err != nil {
				return nil, err
			}

			tokens = append(tokens, Token{Kind: KindString, Text: text, Pos: pos})

		default:
			tokens = append(tokens, Token{Kind: KindName, Text: lx.scanName(), Pos: pos})
		}
	}
}

// scanString consumes a quoted string literal and returns its decoded text.
// The only recognized escape is backslash-quote; any other backslash use is
// rejected so the grammar stays unambiguous.
func (lx *lexer) scanString() (string, error) {
	lx.advance() // skip opening quote

	var sb strings.Builder

	for !lx.eof() {
		ch := lx.peek()

		switch ch {
		case '\\':
			escPos := lx.position()

			lx.advance() // skip backslash

			if lx.eof() || lx.peek() != '"' {
				return "", ErrInvalidEscape.WithPosition(escPos).
					With(slog.String("expected", `\"`))
			}

			sb.WriteByte('"')
			lx.advance()

		case '"':
			lx.advance() // skip closing quote

			return sb.String(), nil

		default:
			sb.WriteRune(ch)
			lx.advance()
		}
	}

	return "", ErrUnterminatedString.WithPosition(lx.position())
}

// scanName consumes a maximal run of name characters. The caller guarantees
// at least one is present.
func (lx *lexer) scanName() string {
	start := lx.pos

	for !lx.eof() && isNameRune(lx.peek()) {
		// A '//' inside a name starts a comment, not more name.
		if lx.peek() == '/' && lx.peekN(2) == "//" {
			break
		}

		lx.advance()
	}

	return string(lx.input[start:lx.pos])
}

// isNameRune reports whether r may appear in a bare name.
func isNameRune(r rune) bool {
	if unicode.IsSpace(r) {
		return false
	}

	switch r {
	case '{', '}', ':', '.', '"':
		return false
	}

	return true
}

// Helper methods

func (lx *lexer) peek() rune {
	if lx.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(lx.input[lx.pos:])

	return r
}

func (lx *lexer) peekN(n int) string {
	if lx.pos+n > len(lx.input) {
		return string(lx.input[lx.pos:])
	}

	return string(lx.input[lx.pos : lx.pos+n])
}

func (lx *lexer) advance() {
	if lx.eof() {
		return
	}

	r, size := utf8.DecodeRune(lx.input[lx.pos:])

	lx.pos += size
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
}

func (lx *lexer) eof() bool {
	return lx.pos >= len(lx.input)
}

func (lx *lexer) position() Position {
	return Position{
		Offset: lx.pos,
		Line:   lx.line,
		Column: lx.col,
	}
}

func (lx *lexer) skipWhitespace() {
	for !lx.eof() && unicode.IsSpace(lx.peek()) {
		lx.advance()
	}
}

func (lx *lexer) skipWhitespaceAndComments() {
	for {
		lx.skipWhitespace()

		if lx.eof() {
			return
		}

		if lx.peek() == '/' && lx.peekN(2) == "//" {
			lx.skipLineComment()

			continue
		}

		break
	}
}

func (lx *lexer) skipLineComment() {
	for !lx.eof() && lx.peek() != '\n' {
		lx.advance()
	}

	if !lx.eof() {
		lx.advance() // skip '\n'
	}
}
