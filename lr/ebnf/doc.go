/*
Package ebnf loads grammars from EBNF files, in the notation used by the Go
language specification (see golang.org/x/exp/ebnf).

	Stmt    = "if" Expr "then" Stmt [ "else" Stmt ] | ident "=" Expr .
	Expr    = Term { ( "+" | "-" ) Term } .
	Term    = number | ident .
	ident   = letter { letter | digit } .
	number  = digit { digit } .
	letter  = "a" … "z" | "A" … "Z" .
	digit   = "0" … "9" .

Productions with a capitalized name are syntactic and become non-terminals.
Options, repetitions and groups are rewritten into helper non-terminals, named
after the production they appear in (e.g. "Expr~1"). Repetitions are left-recursive.

Quoted strings in syntactic productions become terminals, named by their text.
Strings looking like identifiers are keywords, all others are literals.
Lexical productions (lower-case names) referenced from syntactic productions
become terminals as well. Their bodies are compiled into regular expressions
for lexmachine; lexical productions used only by other lexical productions are
inlined. Spec.Lexer creates a scanner for the language, skipping white space.

Productions not reachable from the start production are ignored, as are
any errors inside them. Token types are assigned in order of first appearance
among the reachable productions, starting at 1.

Overrides for shift/reduce conflicts may be given as options to Load, or as
directives inside the grammar file:

	//clr:prefer-shift else  Stmt~1 → ε

The first field is the look-ahead terminal, the rest is the rule to reduce,
as printed by lr.Rule.Production ("->" may be used instead of "→"). For the
grammar above, this binds an "else" to the innermost "if".

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ebnf

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'clr.lr'.
func tracer() tracing.Trace {
	return tracing.Select("clr.lr")
}
