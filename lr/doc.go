/*
Package lr implements prerequisites for canonical LR(1) parsing: grammars,
grammar analysis, the LR(1) item-set construction and parser tables.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add
rules, consisting of non-terminal symbols and terminals. Terminals
carry a token value of type int, which is the token type the scanner will
produce for them. Grammars may contain epsilon-productions.

Example:

    b := lr.NewGrammarBuilder("G")
    b.LHS("S").N("A").T("a", 1).End()  // S  ->  A a
    b.LHS("A").N("B").N("D").End()     // A  ->  B D
    b.LHS("B").T("b", 2).End()         // B  ->  b
    b.LHS("B").Epsilon()               // B  ->
    b.LHS("D").T("d", 3).End()         // D  ->  d
    b.LHS("D").Epsilon()               // D  ->

The left hand side of the first rule is the start symbol. The builder
prepends an augmented start rule, so the grammar above results in:

   g, err := b.Grammar()
   g.Dump()

   0: [S'] ::= [S]
   1: [S] ::= [A a]
   2: [A] ::= [B D]
   3: [B] ::= [b]
   4: [B] ::= []
   5: [D] ::= [d]
   6: [D] ::= []

Every symbol is assigned a dense integer ID. Terminals come first, starting
with the end-of-input marker #eof, followed by the non-terminals.
All table construction and parsing is done on IDs.

Static Grammar Analysis

After the grammar is complete, it has to be analysed. For this end, the
grammar is subjected to an LRAnalysis object, which computes FIRST and
FOLLOW sets for the grammar and determines all epsilon-derivable symbols.

    ga := lr.Analysis(g)
    ga.Grammar().EachNonTerminal(func(N *lr.Symbol) interface{} {
        fmt.Printf("FIRST(%s) = %v\n", N, ga.First(N))
        return nil
    })

Parser Construction

Using grammar analysis as input, a canonical LR(1) parser table can be
constructed. First a characteristic finite state machine (CFSM) is built from the
grammar, with states made of LR(1) items. States are never merged, i.e. no
LALR compression takes place. The CFSM is then transformed into a parser table
holding shift, reduce, goto and accept actions.

    lrgen := lr.NewTableGenerator(ga, lr.PreferShift(elseRule, elseToken))
    if err := lrgen.CreateTables(); err != nil {
        // err is a *lr.ConflictError
    }
    table := lrgen.Table()

Conflicts are reported as errors, unless an explicit override has been registered
for the conflicting (rule, lookahead) pair. The CFSM is made available to the
client, intended for debugging purposes. It can be exported to Graphviz's Dot-format.

Tables may be written in a tab-separated text format and re-loaded later, given
the same grammar:

    table.WriteTo(w)
    ...
    table, err := lr.ReadTable(r, g)

Configuration

If configuration flag "lr-dump-states" is set (package gconf), all CFSM states
will be traced after construction.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'clr.lr'.
func tracer() tracing.Trace {
	return tracing.Select("clr.lr")
}

// debugging is true if the tracer is set to LevelDebug. Used to
// avoid formatting large item sets for nothing.
func debugging() bool {
	return tracer().GetTraceLevel() >= tracing.LevelDebug
}
