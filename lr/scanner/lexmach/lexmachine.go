package lexmach

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/npillmayer/clr"
	"github.com/npillmayer/clr/lr/scanner"
	"github.com/npillmayer/schuko/tracing"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// lexmachine adapter

// tracer traces with key 'clr.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("clr.scanner")
}

// LMAdapter is a lexmachine adapter to use lexmachine as a scanner.
type LMAdapter struct {
	Lexer *lexmachine.Lexer
}

// NewLMAdapter creates a new lexmachine adapter. It receives a list of
// literals ('[', ';', …), a list of keywords ("if", "for", …) and a
// map for translating token strings to their values.
//
// Keywords and literals are added to the lexer before the patterns of init,
// so a keyword wins over an identifier pattern matching the same text.
//
// NewLMAdapter will return an error if a literal or keyword has no token value,
// or if compiling the DFA failed.
func NewLMAdapter(init func(*lexmachine.Lexer), literals []string, keywords []string, tokenIds map[string]int) (*LMAdapter, error) {
	adapter := &LMAdapter{}
	adapter.Lexer = lexmachine.NewLexer()
	for _, lit := range literals {
		id, ok := tokenIds[lit]
		if !ok {
			return nil, fmt.Errorf("no token value for literal %q", lit)
		}
		adapter.Lexer.Add([]byte(QuoteLiteral(lit)), MakeToken(lit, id))
	}
	for _, name := range keywords {
		id, ok := tokenIds[name]
		if !ok {
			return nil, fmt.Errorf("no token value for keyword %q", name)
		}
		adapter.Lexer.Add([]byte(QuoteLiteral(name)), MakeToken(name, id))
	}
	if init != nil {
		init(adapter.Lexer)
	}
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// QuoteLiteral escapes all characters of a string which have a special
// meaning in lexmachine regular expressions.
func QuoteLiteral(lit string) string {
	var b strings.Builder
	for _, r := range lit {
		if r < unicode.MaxASCII && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Scanner creates a scanner for a given input. The scanner will implement the
// Tokenizer interface.
func (lm *LMAdapter) Scanner(input string) (*LMScanner, error) {
	s, err := lm.Lexer.Scanner([]byte(input))
	if err != nil {
		return &LMScanner{}, err
	}
	return &LMScanner{scanner: s, Error: logError, end: uint64(len(input))}, nil
}

// LMScanner is a scanner type for lexmachine scanners, implementing the
// Tokenizer interface.
type LMScanner struct {
	scanner *lexmachine.Scanner
	Error   func(error)
	Source  string // name of the input, used for token locations
	end     uint64
}

var _ scanner.Tokenizer = (*LMScanner)(nil)

// SetErrorHandler sets an error handler for the scanner.
func (lms *LMScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		lms.Error = logError
		return
	}
	lms.Error = h
}

// Default error reporting function for lexmachine-based scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// NextToken is part of the Tokenizer interface. Unconsumable input is
// reported to the error handler and skipped.
func (lms *LMScanner) NextToken() clr.Token {
	if lms.scanner == nil {
		return scanner.MakeDefaultToken(scanner.EOF, "", clr.Span{})
	}
	tok, err, eof := lms.scanner.Next()
	for err != nil {
		ui, is := err.(*machines.UnconsumedInput)
		if !is { // no way to resume
			tc := uint64(lms.scanner.TC)
			lms.Error(&scanner.Error{Span: clr.Span{tc, tc}, Err: err})
			eof = true
			break
		}
		lms.Error(&scanner.Error{
			Span: clr.Span{uint64(ui.StartTC), uint64(ui.FailTC)},
			Location: clr.Location{
				Source: lms.Source,
				Line:   ui.StartLine,
				Column: ui.StartColumn,
			},
			Err: ui,
		})
		next := ui.FailTC // skip bad input, but at least one byte
		if next <= lms.scanner.TC {
			next = lms.scanner.TC + 1
		}
		lms.scanner.TC = next
		tok, err, eof = lms.scanner.Next()
	}
	if eof {
		return scanner.MakeDefaultToken(scanner.EOF, "", clr.Span{lms.end, lms.end})
	}
	token := tok.(*lexmachine.Token)
	tracer().Debugf("token %d | %q", token.Type, token.Lexeme)
	t := scanner.MakeDefaultToken(
		clr.TokType(token.Type),
		string(token.Lexeme),
		clr.Span{uint64(token.TC), uint64(token.TC + len(token.Lexeme))},
	).At(clr.Location{
		Source: lms.Source,
		Line:   token.StartLine,
		Column: token.StartColumn,
	})
	t.Val = token.Value
	return t
}

// ---------------------------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action which wraps a scanned match into a token.
func MakeToken(name string, id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}
