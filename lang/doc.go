// Package lang implements a minimalist structured-data language with
// prototypal inheritance.
//
// A document is an ordered sequence of named entries. Each value is either
// a quoted string literal or a composition: an optional prototype
// reference followed by an optional block of overrides.
//
//	document    = { object } ;
//	object      = name ":" value ;
//	value       = string | composition ;
//	composition = [ path ] [ "{" { object } "}" ] ;
//	path        = name { "." name } ;
//
// String literals are delimited by double quotes; the only escape is \"
// for a literal quote. Comments run from "//" to end of line. Names may
// use any characters except braces, colon, dot, quote, and whitespace.
//
// Composition inherits every member of the prototype, then applies the
// block's overrides in source order: a member with a matching name is
// replaced, a new name is appended. Prototype references may be dotted
// paths reaching into nested members:
//
//	ok_text: "Ok"
//	button: { visible: "true" text: "Click Here" }
//	ok_button: button { text: ok_text }
//
// Resolution ([Resolve], [ResolveEach], [ResolvePath], [Stream]) expands
// every reference against the document scope plus an optional host
// [Prelude], detects cyclic prototype chains, and produces an immutable
// tree of [Leaf] and [Object] values with member order preserved.
package lang
