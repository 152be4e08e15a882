package lr

import (
	"fmt"

	"github.com/npillmayer/clr/lr/sparse"
)

// ActionKind is the category of a parser table entry.
type ActionKind int8

// Kinds of parser actions. NoAction denotes an empty table cell.
const (
	NoAction ActionKind = iota
	Shift               // shift terminal, go to state Target
	Reduce              // reduce by rule Target
	Goto                // after reduction, go to state Target
	Accept              // input accepted
)

func (k ActionKind) String() string {
	switch k {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Goto:
		return "goto"
	case Accept:
		return "accept"
	}
	return "none"
}

// Action is an entry of the parser table. Target is a state ID for Shift and
// Goto, and a rule index for Reduce.
type Action struct {
	Kind   ActionKind
	Target int
}

// IsNone is true for empty table cells.
func (a Action) IsNone() bool {
	return a.Kind == NoAction
}

func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return fmt.Sprintf("<shift %d>", a.Target)
	case Reduce:
		return fmt.Sprintf("<reduce %d>", a.Target)
	case Goto:
		return fmt.Sprintf("<goto %d>", a.Target)
	case Accept:
		return "<accept>"
	}
	return "<none>"
}

// Cell returns the textual representation of an action used in serialized tables:
// s<N>, r<N>, acc, a bare state number for gotos, or the empty string.
func (a Action) Cell() string {
	switch a.Kind {
	case Shift:
		return fmt.Sprintf("s%d", a.Target)
	case Reduce:
		return fmt.Sprintf("r%d", a.Target)
	case Goto:
		return fmt.Sprintf("%d", a.Target)
	case Accept:
		return "acc"
	}
	return ""
}

// Actions are stored in the matrix with the kind in the low bits.
// The zero value encodes NoAction and doubles as the matrix' null value.
const kindBits = 3

func (a Action) encode() int32 {
	return int32(a.Target)<<kindBits | int32(a.Kind)
}

func decode(v int32) Action {
	return Action{Kind: ActionKind(v & (1<<kindBits - 1)), Target: int(v >> kindBits)}
}

// --- Table -----------------------------------------------------------------

// Table is a canonical LR(1) parser table: rows are parser states, columns are
// grammar symbols. Terminal columns hold shift, reduce and accept actions;
// non-terminal columns hold gotos. Tables are immutable once built and may be
// shared between parsers.
type Table struct {
	g      *Grammar
	matrix *sparse.IntMatrix
}

func newTable(g *Grammar, states int) *Table {
	return &Table{
		g:      g,
		matrix: sparse.NewIntMatrix(states, g.SymbolCount(), 0),
	}
}

// Grammar returns the grammar the table has been built for.
func (t *Table) Grammar() *Grammar {
	return t.g
}

// StateCount returns the number of parser states. State 0 is the start state.
func (t *Table) StateCount() int {
	return t.matrix.M()
}

// EntryCount returns the number of non-empty cells.
func (t *Table) EntryCount() int {
	return t.matrix.ValueCount()
}

// Action returns the table entry for a state and a grammar symbol.
func (t *Table) Action(state int, A *Symbol) Action {
	return t.ActionFor(state, A.ID)
}

// ActionFor returns the table entry for a state and a symbol ID.
func (t *Table) ActionFor(state int, symID int) Action {
	return decode(t.matrix.Value(state, symID))
}

// Expected returns the terminals for which state has an entry.
func (t *Table) Expected(state int) []*Symbol {
	var exp []*Symbol
	t.matrix.EachInRow(state, func(j int, v int32) {
		if A := t.g.Symbol(j); A.IsTerminal() {
			exp = append(exp, A)
		}
	})
	return exp
}

// EachEntry calls f for every non-empty cell of a state, in symbol order.
func (t *Table) EachEntry(state int, f func(A *Symbol, a Action)) {
	t.matrix.EachInRow(state, func(j int, v int32) {
		f(t.g.Symbol(j), decode(v))
	})
}

func (t *Table) set(state int, A *Symbol, a Action) {
	if err := t.matrix.Set(state, A.ID, a.encode()); err != nil {
		tracer().Errorf("parser table: %v", err)
	}
}

// Columns returns the symbols with at least one entry, in ID order.
func (t *Table) Columns() []*Symbol {
	var cols []*Symbol
	for id := 0; id < t.g.SymbolCount(); id++ {
		if t.matrix.ColumnUsed(id) {
			cols = append(cols, t.g.Symbol(id))
		}
	}
	return cols
}
