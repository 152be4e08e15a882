/*
Package lexmach adapts the lexmachine scanner generator to the scanner.Tokenizer
interface, which is what the parsers of package lr/lr1 read from.

For more information on lexmachine, see e.g.
https://hackthology.com/how-to-tokenize-complex-strings-with-lexmachine.html

Most clients never set up an adapter by hand. A grammar file loaded with
package lr/ebnf already knows its literals, keywords and lexical productions,
and hands out a ready adapter:

	spec, err := ebnf.Load("calc.ebnf", src, "Expr")
	…
	lm, err := spec.Lexer()     // whitespace is skipped
	scan, err := lm.Scanner("1 + 2")

For hand-written lexers, NewLMAdapter takes the literal strings and keywords
together with their token values, plus an init function adding regular
expressions for everything else. Skip and MakeToken are the two actions
clients usually need:

	init := func(lexer *lexmachine.Lexer) {
		lexer.Add([]byte("[a-z]+"), lexmach.MakeToken("ident", Ident))
		lexer.Add([]byte("( |\t|\n)+"), lexmach.Skip)
	}
	lm, err := lexmach.NewLMAdapter(init, []string{"(", ")"}, []string{"let"},
		map[string]int{"(": '(', ")": ')', "let": Let})

Literals and keywords are added before the patterns of init. A keyword
therefore wins over an identifier pattern matching the same text.

Tokens carry their byte span and, with LMScanner.Source set, a line/column
location.

Input no pattern matches is reported to the scanner's error handler as a
*scanner.Error holding the span and location of the bad input. The scanner
then skips it and carries on with the next token. The default handler only
traces the error. Parsers of package lr/lr1 install their own handler and
stop at the first such error.

________________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexmach
