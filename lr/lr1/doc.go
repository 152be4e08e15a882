/*
Package lr1 provides a canonical LR(1)-parser. Clients have to use the tools
of package lr to prepare the necessary parse table. The parser
utilizes this table to create a right derivation for a given input,
provided through a scanner interface.

The main focus for this implementation is adaptability and on-the-fly usage.
Clients are able to construct the parse table from a grammar and use the
parser directly, without a code-generation or compile step. If you want, you
can create a grammar from user input and use a parser for it in a couple of
lines of code.

Usage

Clients construct a grammar, usually by using a grammar builder:

	b := lr.NewGrammarBuilder("Signed Variables Grammar")
	b.LHS("Var").N("Sign").T("a", scanner.Ident).End()  // Var  --> Sign Id
	b.LHS("Sign").T("+", '+').End()                     // Sign --> +
	b.LHS("Sign").T("-", '-').End()                     // Sign --> -
	b.LHS("Sign").Epsilon()                             // Sign -->
	g, err := b.Grammar()

This grammar is subjected to grammar analysis and table generation.

	lrgen := lr.NewTableGenerator(lr.Analysis(g))
	if err := lrgen.CreateTables(); err != nil { ... }  // grammar is not LR(1)

Finally parse some input:

	p := lr1.NewParser(lrgen.Table(), nil)
	scan := scanner.GoTokenizer("input", strings.NewReader("+a"))
	result, err := p.Parse(scan)

Reduction actions

Clients may instrument the grammar with semantic operations. Without any
actions, the parser creates a parse tree of *Node values, with the input tokens
as leaves.

	actions := lr1.NewActions(g)
	actions.OnLHS("Sign", func(rule *lr.Rule, children []interface{}) (interface{}, error) {
		if len(children) == 0 { return 1, nil }
		...
	})
	p := lr1.NewParser(table, actions)

Each reduction receives a freshly allocated slice of the values of the
right hand side symbols; actions may keep it. An action returning an error
aborts the parse.

Parsers are not safe for concurrent use, but tables and actions are. For parsing
many inputs concurrently use ParseAll, which creates a parser per input.

Configuration

The initial capacity of the parse stacks is taken from configuration key
"parser-stack-capacity" (package gconf), defaulting to 512.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr1

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'clr.lr'.
func tracer() tracing.Trace {
	return tracing.Select("clr.lr")
}
