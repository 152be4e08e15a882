package lr1

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/clr"
	"github.com/npillmayer/clr/lr"
	"github.com/npillmayer/clr/lr/scanner"
)

// ParseError is returned for input which is not a sentence of the grammar.
type ParseError struct {
	State    int        // parser state in which the error occurred
	Symbol   *lr.Symbol // terminal for Token, nil if the token type is unknown
	Token    clr.Token  // offending token
	Location clr.Location
	Expected []*lr.Symbol // terminals which would have been accepted
	Err      error        // scanner error, if the input could not be tokenized
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "syntax error: " + e.Err.Error()
	}
	var b strings.Builder
	b.WriteString("syntax error")
	if e.Location.Line > 0 {
		b.WriteString(" at ")
		b.WriteString(e.Location.String())
	} else if e.Token != nil {
		fmt.Fprintf(&b, " at %v", e.Token.Span())
	}
	switch {
	case e.Symbol == nil && e.Token != nil:
		fmt.Fprintf(&b, ": unknown token type %d %q", e.Token.TokType(), e.Token.Lexeme())
	case e.Symbol != nil && e.Symbol.IsEOF():
		b.WriteString(": unexpected end of input")
	case e.Symbol != nil:
		fmt.Fprintf(&b, ": unexpected %s %q", e.Symbol.Name, e.Token.Lexeme())
	}
	if len(e.Expected) > 0 {
		names := make([]string, len(e.Expected))
		for i, T := range e.Expected {
			names[i] = T.Name
		}
		fmt.Fprintf(&b, ", expected one of [%s]", strings.Join(names, " "))
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Span returns the input span of the offending token, or of the offending
// input for scanner errors.
func (e *ParseError) Span() clr.Span {
	var serr *scanner.Error
	if errors.As(e.Err, &serr) {
		return serr.Span
	}
	if e.Token == nil {
		return clr.Span{}
	}
	return e.Token.Span()
}

// ActionError wraps an error returned by a semantic action.
type ActionError struct {
	Rule *lr.Rule
	Span clr.Span
	Err  error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action for rule %d (%s) at %v failed: %v", e.Rule.Serial,
		e.Rule.Production(), e.Span, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// TableError signals a parse table which is inconsistent with its grammar,
// usually the result of loading a damaged table.
type TableError struct {
	State  int
	Rule   *lr.Rule
	Symbol *lr.Symbol
	Msg    string
}

func (e *TableError) Error() string {
	s := fmt.Sprintf("inconsistent parse table in state %d", e.State)
	if e.Rule != nil {
		s += fmt.Sprintf(", rule %d", e.Rule.Serial)
	}
	if e.Symbol != nil {
		s += ", symbol " + e.Symbol.Name
	}
	return s + ": " + e.Msg
}
