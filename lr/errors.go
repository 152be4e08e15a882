package lr

import (
	"fmt"
	"strings"
)

// GrammarError is returned by GrammarBuilder.Grammar for grammars which
// are not well-formed. All problems found are listed.
type GrammarError struct {
	Grammar  string
	Problems []string
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("grammar %s: %s", e.Grammar, strings.Join(e.Problems, "; "))
}

// ConflictError is returned by the table generator if two different actions
// compete for the same (state, symbol) cell and no override decides between them.
// No table is produced in this case.
type ConflictError struct {
	State    int      // CFSM state
	Symbol   *Symbol  // lookahead symbol
	Existing Action   // action entered first
	Incoming Action   // competing action
	Items    []string // the items responsible for the two actions
}

// Kind returns "shift/reduce", "accept/reduce" or "reduce/reduce".
func (e *ConflictError) Kind() string {
	switch {
	case e.Existing.Kind == Shift || e.Incoming.Kind == Shift:
		return "shift/reduce"
	case e.Existing.Kind == Accept || e.Incoming.Kind == Accept:
		return "accept/reduce"
	}
	return "reduce/reduce"
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict in state %d on %s: %v vs %v, items %s",
		e.Kind(), e.State, e.Symbol, e.Existing, e.Incoming, strings.Join(e.Items, " | "))
}

// TableFormatError is returned when reading a serialized table fails.
type TableFormatError struct {
	Line int
	Msg  string
}

func (e *TableFormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parser table line %d: %s", e.Line, e.Msg)
	}
	return "parser table: " + e.Msg
}
