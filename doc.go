/*
Package clr is a canonical LR(1) parsing toolbox.

It generates LR(1) parser tables from a context-free grammar and drives a
table-driven, bottom-up parser over a stream of tokens. Tables are built at
runtime, without a code-generation step, and may be saved to and re-loaded from
a plain text format. Package structure is as follows:

■ lr: Package lr holds grammars, grammar analysis (FIRST/FOLLOW), the LR(1)
item-set engine and the table generator, together with the table type and its
serialization.

■ lr/lr1: Package lr1 implements the parser driver, which uses the tables of
package lr and calls user-supplied reduction actions.

■ lr/scanner: Tokenizers feeding the parser, including an adapter for lexmachine.

■ lr/ebnf: Loads grammars from EBNF files.

■ cmd/clr: A command line tool to build tables and parse input interactively.

The base package contains data types which are used throughout all the other
packages, mainly tokens and input spans.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package clr
