package lr

import (
	"fmt"
	"text/scanner"

	"github.com/npillmayer/clr"
)

// EOFType is the token type of the end-of-input marker #eof. It is identical
// to text/scanner.EOF.
const EOFType clr.TokType = scanner.EOF

// Names of the sentinel symbols.
const (
	EOFName     = "#eof"
	EpsilonName = "#eps"
)

// epsilonID marks the empty word within FIRST-sets. It is never the ID of
// a grammar symbol and never appears in rules or tables.
const epsilonID = -1

// Symbol is a symbol type used for grammars and grammar builders.
// Symbols are either terminals or non-terminals. Terminals carry the token
// type a scanner will produce for them.
//
// Every symbol of a grammar has a dense, unique ID. IDs define a total order
// on symbols: terminals come before non-terminals, #eof has ID 0.
type Symbol struct {
	Name  string // visual representation, unique within a grammar
	Value int    // token value for terminals
	ID    int    // dense serial number
	term  bool
}

// IsTerminal returns true if this symbol represents a terminal.
func (s *Symbol) IsTerminal() bool {
	return s.term
}

// TokenType returns the token type of a terminal.
func (s *Symbol) TokenType() clr.TokType {
	return clr.TokType(s.Value)
}

// IsEOF is true for the end-of-input marker.
func (s *Symbol) IsEOF() bool {
	return s.term && s.Name == EOFName
}

func (s *Symbol) String() string {
	return s.Name
}

// Dump returns a debug representation of a symbol.
func (s *Symbol) Dump() string {
	if s.term {
		return fmt.Sprintf("<%s #%d tok=%d>", s.Name, s.ID, s.Value)
	}
	return fmt.Sprintf("<%s #%d>", s.Name, s.ID)
}

// --- Symbol space ----------------------------------------------------------

// symbolSpace is a bijection between symbol names and symbols, plus an index
// from IDs to symbols and from token types to terminals. The name map is for
// setup and diagnostics; construction and parsing work with IDs.
type symbolSpace struct {
	byName  map[string]*Symbol
	byID    []*Symbol
	byToken map[clr.TokType]*Symbol
	termcnt int
}

func newSymbolSpace() *symbolSpace {
	return &symbolSpace{
		byName:  make(map[string]*Symbol),
		byToken: make(map[clr.TokType]*Symbol),
	}
}

// enumerate assigns IDs, terminals first, each group in order of declaration.
func (sp *symbolSpace) enumerate(terms, nonterms []*Symbol) {
	sp.byID = make([]*Symbol, 0, len(terms)+len(nonterms))
	for _, t := range terms {
		t.ID = len(sp.byID)
		sp.byID = append(sp.byID, t)
		sp.byName[t.Name] = t
		sp.byToken[t.TokenType()] = t
	}
	sp.termcnt = len(terms)
	for _, n := range nonterms {
		n.ID = len(sp.byID)
		sp.byID = append(sp.byID, n)
		sp.byName[n.Name] = n
	}
}

func (sp *symbolSpace) symbol(id int) *Symbol {
	if id < 0 || id >= len(sp.byID) {
		return nil
	}
	return sp.byID[id]
}
