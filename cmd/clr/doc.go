/*
Command clr builds canonical LR(1) parse tables and parses input with them.

	clr build  [-g grammar.ebnf -s Start] [-o table.clr] [--pretty]
	clr parse  [-g grammar.ebnf -s Start] [--table table.clr] <input>…
	clr dot    [-g grammar.ebnf -s Start] [-o cfsm.dot]
	clr repl   [-g grammar.ebnf -s Start]

Grammars are read from EBNF files (see package lr/ebnf). Without a grammar
file, clr uses a built-in grammar for arithmetic expressions, whose reduction
actions evaluate the expression.

Configuration is read from NestedText files at the standard locations for
application tag "clr". Trace levels may be set with keys of the form

	trace:
	    clr.lr: Debug

and the tracing backend with key "tracing.adapter" ("go" or "logrus").
Command line flags take precedence.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'clr.cli'.
func tracer() tracing.Trace {
	return tracing.Select("clr.cli")
}
