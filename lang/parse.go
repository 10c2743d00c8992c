package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/protempl/log"
)

// ParseString parses source text and returns the raw Document.
// Options can be provided to customize resolution behavior later.
// The result is cached for efficient repeated parsing of the same content
// when no options or default options are used.
func ParseString(
	ctx context.Context,
	src string,
	opts ...Option,
) (*Document, error) {
	if len(opts) == 0 {
		return parseStringCached(ctx, src)
	}

	return parse(ctx, src, opts...)
}

// Parse builds a Document from a token sequence produced by [Tokenize].
func Parse(ctx context.Context, tokens []Token, opts ...Option) (*Document, error) {
	doc := new(Document)
	applyDefaults(doc)
	applyOptions(doc, opts...)

	p := &parser{tokens: tokens, logger: doc.logger}

	entries, err := p.parseDocument()
	if err != nil {
		return nil, err
	}

	doc.Entries = entries
	doc.buildIndex()

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("entry_count", len(doc.Entries)))

	return doc, nil
}

// parse is the internal uncached implementation behind ParseString.
func parse(ctx context.Context, src string, opts ...Option) (*Document, error) {
	var tempDoc Document

	applyDefaults(&tempDoc)
	applyOptions(&tempDoc, opts...)

	tempDoc.logger.TraceContext(ctx, "parse start",
		slog.Int("source_length", len(src)))

	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}

	return Parse(ctx, tokens, opts...)
}

// parser holds the syntactic analyzer state.
type parser struct {
	tokens []Token
	pos    int
	logger log.Logger
}

// parseDocument parses the entire input: document = { object } EOF.
func (p *parser) parseDocument() ([]*Entry, error) {
	entries := make([]*Entry, 0)

	for p.peek().Kind != KindEOF {
		ent, err := p.parseObject()
		if err != nil {
			return nil, err
		}

		entries = append(entries, ent)
	}

	return entries, nil
}

// parseObject parses: object = name ":" value.
// The name may be empty, written as a bare ":" where a name is expected.
func (p *parser) parseObject() (*Entry, error) {
	var (
		name string
		pos  Position
	)

	switch tok := p.peek(); tok.Kind {
	case KindName:
		name = tok.Text
		pos = tok.Pos

		p.advance()

	case KindColon:
		// Empty name: reserved for future implicit indexing.
		pos = tok.Pos

	default:
		return nil, p.unexpected("name", tok)
	}

	if tok := p.peek(); tok.Kind != KindColon {
		return nil, p.unexpected(":", tok)
	}

	p.advance() // skip ':'

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	return &Entry{Name: name, Value: value, Pos: pos}, nil
}

// parseValue parses: value = string | composition.
func (p *parser) parseValue() (*Value, error) {
	switch tok := p.peek(); tok.Kind {
	case KindString:
		p.advance()

		return &Value{Kind: KindLiteral, Literal: tok.Text, Pos: tok.Pos}, nil

	case KindName, KindLBrace:
		return p.parseComposition()

	default:
		// A value must be a string, a bare path, a bare {}, or a path
		// with overrides. Anything else means the value is missing.
		return nil, ErrEmptyValue.WithPosition(tok.Pos).
			With(slog.String("found", tok.String()))
	}
}

// parseComposition parses: composition = [ path ] [ "{" { object } "}" ].
// The caller guarantees the next token is a name or '{'.
func (p *parser) parseComposition() (*Value, error) {
	pos := p.peek().Pos

	var prototype Path

	if p.peek().Kind == KindName {
		path, err := p.parsePath()
		if err != nil {
			return nil, err
		}

		prototype = path
	}

	// A nil Overrides slice means no brace block at all: the value is a
	// bare reference. An empty non-nil slice means an explicit "{}".
	var overrides []*Entry

	if p.peek().Kind == KindLBrace {
		overrides = make([]*Entry, 0)

		p.advance() // skip '{'

		for {
			tok := p.peek()

			if tok.Kind == KindRBrace {
				p.advance()

				break
			}

			if tok.Kind == KindEOF {
				return nil, p.unexpected("}", tok)
			}

			ent, err := p.parseObject()
			if err != nil {
				return nil, err
			}

			overrides = append(overrides, ent)
		}
	}

	return &Value{
		Kind:      KindComposition,
		Prototype: prototype,
		Overrides: overrides,
		Pos:       pos,
	}, nil
}

// parsePath parses: path = name { "." name }.
func (p *parser) parsePath() (Path, error) {
	path := Path{p.peek().Text}

	p.advance() // skip first name

	for p.peek().Kind == KindDot {
		p.advance() // skip '.'

		tok := p.peek()
		if tok.Kind != KindName {
			return nil, p.unexpected("name", tok)
		}

		path = append(path, tok.Text)
		p.advance()
	}

	return path, nil
}

// Helper methods

func (p *parser) peek() Token {
	if p.pos >= len(p.tokens) {
		// Tokenize always ends the stream with EOF, so this is only
		// reachable on malformed caller input.
		return Token{Kind: KindEOF}
	}

	return p.tokens[p.pos]
}

func (p *parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *parser) unexpected(expected string, found Token) error {
	return ErrUnexpectedToken.WithPosition(found.Pos).
		With(
			slog.String("expected", expected),
			slog.String("found", found.String()),
		)
}
