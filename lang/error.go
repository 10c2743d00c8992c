package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	// Lexer errors.
	ErrUnterminatedString = NewError("unterminated string literal")
	ErrInvalidEscape      = NewError("invalid escape sequence")

	// Parser errors.
	ErrUnexpectedToken = NewError("unexpected token")
	ErrEmptyValue      = NewError("empty value")

	// Resolver errors.
	ErrUndefinedName      = NewError("undefined name")
	ErrUndefinedMember    = NewError("undefined member")
	ErrPrototypeNotObject = NewError("prototype is not an object")
	ErrDuplicateName      = NewError("duplicate name")
	ErrCyclicPrototype    = NewError("cyclic prototype reference")
	ErrMaxDepthExceeded   = NewError("maximum resolution depth exceeded")

	// Input/output errors.
	ErrReadInput     = NewError("failed to read input")
	ErrInvalidFormat = NewError("invalid output format")
	ErrPreludeValue  = NewError("unsupported prelude value")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel this error was derived from.
// Derived errors created by With, Wrap, and WithPosition share the
// sentinel's message, which is the identity used for comparison.
func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.msg == te.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// WithPosition adds source position attributes to the error.
func (e *Error) WithPosition(pos Position) *Error {
	return e.With(
		slog.Int("line", pos.Line),
		slog.Int("column", pos.Column),
		slog.Int("offset", pos.Offset),
	)
}

// WithChain adds the prototype reference chain to the error, joined in
// traversal order. Used by cycle and depth diagnostics.
func (e *Error) WithChain(chain []string) *Error {
	return e.With(slog.String("chain", strings.Join(chain, " -> ")))
}

// Diagnostic renders a human-readable diagnostic for an error at the given
// position within source. The offending line is printed with a caret marker
// pointing at the column.
func Diagnostic(source string, pos Position) string {
	lines := strings.Split(source, "\n")

	var buf strings.Builder

	buf.WriteString("line ")
	buf.WriteString(strconv.Itoa(pos.Line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(pos.Column))
	buf.WriteString(":\n")

	// Show the offending line if within bounds
	if pos.Line > 0 && pos.Line <= len(lines) {
		lineText := lines[pos.Line-1]

		buf.WriteString("  ")
		buf.WriteString(strconv.Itoa(pos.Line))
		buf.WriteString(" | ")
		buf.WriteString(lineText)
		buf.WriteRune('\n')

		// Marker pointing to the column.
		// +5 accounts for: 2 leading spaces + " | " (3 chars)
		lineNumWidth := len(strconv.Itoa(pos.Line))
		padding := strings.Repeat(" ", lineNumWidth+5)

		if pos.Column > 0 {
			padding += strings.Repeat(" ", pos.Column-1)
		}

		buf.WriteString(padding + "^\n")
	}

	return buf.String()
}
