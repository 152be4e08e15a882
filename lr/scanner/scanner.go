/*
Package scanner defines an interface for scanners to be used with parsers of package lr.

Three scanner implementations are provided: (1) a thin wrapper over the Go std lib
'text/scanner', (2) a token slice for pre-scanned input, and (3) an adapter for
lexmachine, living in sub-package `lexmach`.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/scanner"

	"github.com/npillmayer/clr"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'clr.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("clr.scanner")
}

// EOF is identical to text/scanner.EOF.
// Token types are replicated here for practical reasons.
const (
	EOF       = scanner.EOF
	Ident     = scanner.Ident
	Int       = scanner.Int
	Float     = scanner.Float
	Char      = scanner.Char
	String    = scanner.String
	RawString = scanner.RawString
	Comment   = scanner.Comment
)

// Tokenizer is a scanner interface. After the end of input has been reached,
// NextToken will return tokens of type EOF.
type Tokenizer interface {
	NextToken() clr.Token
	SetErrorHandler(func(error))
}

// Error is reported to a tokenizer's error handler for input which cannot be
// tokenized.
type Error struct {
	Span     clr.Span     // offending input
	Location clr.Location // start of the offending input, if known
	Err      error
}

func (e *Error) Error() string {
	if e.Location.Line > 0 {
		return fmt.Sprintf("%s: %v", e.Location, e.Err)
	}
	return fmt.Sprintf("%v: %v", e.Span, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// DefaultTokenizer is a default implementation, backed by scanner.Scanner.
// Create one with GoTokenizer.
type DefaultTokenizer struct {
	scanner.Scanner
	lastToken     rune        // last token this scanner has produced
	Error         func(error) // error handler
	unifyStrings  bool        // convert single chars to strings
	convertValues bool        // set token values for numbers and strings
}

var _ Tokenizer = (*DefaultTokenizer)(nil)

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// GoTokenizer creates a scanner/tokenizer accepting tokens similar to the Go language.
func GoTokenizer(sourceID string, input io.Reader, opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{}
	t.Error = logError
	t.Init(input)
	t.Filename = sourceID
	t.Scanner.Error = func(s *scanner.Scanner, msg string) {
		pos := s.Pos()
		t.Error(&Error{
			Span:     clr.Span{uint64(pos.Offset), uint64(pos.Offset)},
			Location: clr.Location{Source: pos.Filename, Line: pos.Line, Column: pos.Column},
			Err:      errors.New(msg),
		})
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetErrorHandler sets an error handler for the scanner.
func (t *DefaultTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.Error = logError
		return
	}
	t.Error = h
}

// NextToken is part of the Tokenizer interface.
func (t *DefaultTokenizer) NextToken() clr.Token {
	t.lastToken = t.Scan()
	if t.lastToken == scanner.EOF {
		tracer().Debugf("DefaultTokenizer reached end of input")
	}
	if t.unifyStrings &&
		(t.lastToken == scanner.RawString || t.lastToken == scanner.Char) {
		t.lastToken = scanner.String
	}
	tok := DefaultToken{
		kind:   clr.TokType(t.lastToken),
		lexeme: t.TokenText(),
		span:   clr.Span{uint64(t.Position.Offset), uint64(t.Pos().Offset)},
		loc: clr.Location{
			Source: t.Position.Filename,
			Line:   t.Position.Line,
			Column: t.Position.Column,
		},
	}
	if t.convertValues {
		tok.Val = t.convert(tok.lexeme)
	}
	return tok
}

func (t *DefaultTokenizer) convert(lexeme string) interface{} {
	var v interface{}
	var err error
	switch t.lastToken {
	case scanner.Int:
		v, err = strconv.ParseInt(lexeme, 0, 64)
	case scanner.Float:
		v, err = strconv.ParseFloat(lexeme, 64)
	case scanner.String, scanner.RawString:
		v, err = strconv.Unquote(lexeme)
	default:
		return nil
	}
	if err != nil {
		t.Error(&Error{
			Span:     clr.Span{uint64(t.Position.Offset), uint64(t.Position.Offset + len(lexeme))},
			Location: clr.Location{Source: t.Position.Filename, Line: t.Position.Line, Column: t.Position.Column},
			Err:      fmt.Errorf("cannot convert %q: %w", lexeme, err),
		})
		return nil
	}
	return v
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, used as default for the Go
// tokenizer as well as the LexMachine scanner.
type DefaultToken struct {
	kind   clr.TokType
	lexeme string
	Val    interface{}
	span   clr.Span
	loc    clr.Location
}

// MakeDefaultToken creates a token without a value.
func MakeDefaultToken(typ clr.TokType, lexeme string, span clr.Span) DefaultToken {
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

// At returns a copy of the token, located at loc.
func (t DefaultToken) At(loc clr.Location) DefaultToken {
	t.loc = loc
	return t
}

// TokType is part of interface clr.Token.
func (t DefaultToken) TokType() clr.TokType {
	return t.kind
}

// Value is part of interface clr.Token.
func (t DefaultToken) Value() interface{} {
	return t.Val
}

// Lexeme is part of interface clr.Token.
func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

// Span is part of interface clr.Token.
func (t DefaultToken) Span() clr.Span {
	return t.span
}

// Location is part of interface clr.Locator. Tokens without position
// information return a location with line 0.
func (t DefaultToken) Location() clr.Location {
	return t.loc
}

func (t DefaultToken) String() string {
	return fmt.Sprintf("%q/%d%v", t.lexeme, t.kind, t.span)
}

// --- Scanner options for the default (Go) tokenizer ---------------------------

// Option configures a default tokenier.
type Option func(p *DefaultTokenizer)

const (
	optionSkipComments uint = 1 << 1 // do not pass comments
	optionUnifyStrings uint = 1 << 2 // treat raw strings and single chars as strings
)

// SkipComments set or clears mode-flag SkipComments.
func SkipComments(b bool) Option {
	return func(t *DefaultTokenizer) {
		if b {
			t.Mode |= scanner.SkipComments
		} else {
			t.Mode &^= scanner.SkipComments
		}
	}
}

// UnifyStrings sets or clears option UnifyStrings:
// treat raw strings and single chars as strings.
func UnifyStrings(b bool) Option {
	return func(t *DefaultTokenizer) {
		t.unifyStrings = b
	}
}

// ConvertValues sets or clears option ConvertValues: tokens for numbers
// carry an int64 or float64 value, and string tokens carry the unquoted string.
func ConvertValues(b bool) Option {
	return func(t *DefaultTokenizer) {
		t.convertValues = b
	}
}

func (t *DefaultTokenizer) hasmode(m uint) bool {
	switch m {
	case optionUnifyStrings:
		return t.unifyStrings
	case optionSkipComments:
		return t.Mode&scanner.SkipComments > 0
	}
	return false
}

// --- Token slices ----------------------------------------------------------

// TokenSlice is a tokenizer over a pre-scanned sequence of tokens. After the
// last token, it produces EOF tokens positioned at the end of the last token.
type TokenSlice struct {
	tokens []clr.Token
	pos    int
	Error  func(error)
}

var _ Tokenizer = (*TokenSlice)(nil)

// NewTokenSlice creates a tokenizer for a sequence of tokens.
func NewTokenSlice(tokens ...clr.Token) *TokenSlice {
	return &TokenSlice{tokens: tokens, Error: logError}
}

// NextToken is part of the Tokenizer interface.
func (ts *TokenSlice) NextToken() clr.Token {
	if ts.pos < len(ts.tokens) {
		tok := ts.tokens[ts.pos]
		ts.pos++
		return tok
	}
	var end uint64
	if n := len(ts.tokens); n > 0 {
		end = ts.tokens[n-1].Span().To()
	}
	return MakeDefaultToken(EOF, "", clr.Span{end, end})
}

// SetErrorHandler is part of the Tokenizer interface.
func (ts *TokenSlice) SetErrorHandler(h func(error)) {
	if h == nil {
		h = logError
	}
	ts.Error = h
}

// Lexeme is a helper function to receive a string from a token.
func Lexeme(token interface{}) string {
	switch t := token.(type) {
	case clr.Token:
		return t.Lexeme()
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
