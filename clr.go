package clr

import "fmt"

// --- A general purpose interface for tokens --------------------------------

// TokType is a category type for a Token. We do not define any constants here, as
// it is up to applications to define them. Grammars map token types to terminals.
type TokType int

// TokTypeStringer is a type to be provided by a scanner/parser combination to be able
// to print out token categories.
type TokTypeStringer func(TokType) string

// Tokens represent input tokens. They are usually produced by a scanner and
// reflect terminals in a language.
//
// An example would be a token for a floating point numer:
//
//    TokType = Float       // identifier for this kind of tokens (application specific)
//    Lexeme  = "3.1316"    // lexeme how it appreared in the input stream
//    Value   = 3.1416      // is a float64 value
//    Span    = 67…73       // occured from position 67 in the input stream
//
type Token interface {
	TokType() TokType
	Lexeme() string
	Value() interface{}
	Span() Span
}

// Locator is implemented by tokens which know about their human-readable
// position in the input. Parse errors will include the location if the
// offending token is a Locator.
type Locator interface {
	Location() Location
}

// Location is a position in a named input, with lines and columns counting from 1.
type Location struct {
	Source string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.Line == 0 {
		return l.Source
	}
	if l.Source == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.Source, l.Line, l.Column)
}

// LocationOf returns the location of a token, if it carries one.
func LocationOf(tok Token) (Location, bool) {
	if tok == nil {
		return Location{}, false
	}
	if l, ok := tok.(Locator); ok {
		return l.Location(), true
	}
	return Location{}, false
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input token run. For every
// terminal and non-terminal, the parser will track which input positions
// this symbol covers. A span denotes a start position and the position just
// behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

// IsNull is true for the zero span.
func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend returns the smallest span covering both s and other.
// A null span is neutral.
func (s Span) Extend(other Span) Span {
	if s.IsNull() {
		return other
	}
	if other.IsNull() {
		return s
	}
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
