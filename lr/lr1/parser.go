package lr1

import (
	"errors"
	"fmt"

	"github.com/npillmayer/clr"
	"github.com/npillmayer/schuko/gconf"

	"github.com/npillmayer/clr/lr"
	"github.com/npillmayer/clr/lr/scanner"
)

// Parser is a canonical LR(1)-parser type. Create and initialize one with lr1.NewParser(...)
type Parser struct {
	g       *lr.Grammar
	table   *lr.Table   // parser table
	actions *Actions    // reduction actions
	stack   []stackitem // parser stack
}

// We store states, grammar symbols and semantic values on the parse stack. They
// are always pushed and popped together. The bottom entry holds the start state
// and no symbol.
type stackitem struct {
	stateID int         // ID of a parser state
	sym     *lr.Symbol  // grammar symbol (terminal or non-terminal)
	value   interface{} // semantic value of sym
	span    clr.Span    // input span over which this symbol reaches
}

// DefaultStackCapacity is the initial capacity of the parse stack, if not
// configured otherwise.
const DefaultStackCapacity = 512

// NewParser creates a parser for a table. If actions is nil, the parser
// builds a parse tree of *Node.
func NewParser(table *lr.Table, actions *Actions) *Parser {
	capacity := gconf.GetInt("parser-stack-capacity")
	if capacity <= 0 {
		capacity = DefaultStackCapacity
	}
	parser := &Parser{
		table:   table,
		actions: actions,
		stack:   make([]stackitem, 0, capacity),
	}
	if table != nil {
		parser.g = table.Grammar()
	}
	if parser.actions == nil && parser.g != nil {
		parser.actions = NewActions(parser.g)
	}
	return parser
}

// Parse starts a new parse, given a scanner tokenizing the input.
// The parser must have been initialized.
//
// If the input is accepted, Parse returns the semantic value of the start
// symbol. Otherwise it returns nil and a *ParseError for syntax errors, an
// *ActionError if a reduction action failed, or a *TableError if the table is
// inconsistent.
//
// Parse installs its own error handler on scan. The first error reported by
// the scanner stops the parse with a *ParseError wrapping the scanner error.
func (p *Parser) Parse(scan scanner.Tokenizer) (interface{}, error) {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	if p.g == nil || p.table == nil {
		tracer().Errorf("LR(1)-parser not initialized")
		return nil, fmt.Errorf("LR(1)-parser not initialized")
	}
	var scanErr error
	scan.SetErrorHandler(func(e error) {
		if scanErr == nil {
			scanErr = e
		}
	})
	p.stack = append(p.stack[:0], stackitem{stateID: 0}) // push start state
	token := scan.NextToken()
	for {
		state := p.stack[len(p.stack)-1] // TOS
		if scanErr != nil {
			return nil, p.scanError(state.stateID, token, scanErr)
		}
		tokval := token.TokType()
		T := p.g.Terminal(tokval)
		if T == nil {
			tracer().Errorf("token type %d is not a terminal of %s", tokval, p.g.Name)
			return nil, p.syntaxError(state.stateID, nil, token)
		}
		tracer().Debugf("got token %q/%s from scanner", token.Lexeme(), T)
		action := p.table.Action(state.stateID, T)
		tracer().Debugf("action(%d,%s)=%v", state.stateID, T, action)
		switch action.Kind {
		case lr.Shift:
			p.stack = append(p.stack, // push a terminal onto stack
				stackitem{action.Target, T, token, token.Span()})
			token = scan.NextToken()
		case lr.Reduce:
			if err := p.reduce(state.stateID, action.Target, token); err != nil {
				return nil, err
			}
		case lr.Accept:
			if !T.IsEOF() {
				return nil, &TableError{State: state.stateID, Symbol: T, Msg: "accept before end of input"}
			}
			if len(p.stack) < 2 {
				return nil, &TableError{State: state.stateID, Symbol: T, Msg: "accept on empty stack"}
			}
			tracer().Infof("input accepted")
			return state.value, nil
		default:
			return nil, p.syntaxError(state.stateID, T, token)
		}
	}
}

// reduce performs a reduce action for a rule
//
//    LHS --> X1 ... Xn   (with X being terminals or non-terminals)
//
// Symbols X1 to Xn should be represented on the stack as
//
//    [TOS]  Sn(Xn, span_n) ... S1(X1, span1)  ...
//
// They are popped and their values are handed to the rule's action. The
// action's result is pushed together with the LHS and the goto-state.
func (p *Parser) reduce(stateID int, ruleNo int, lookahead clr.Token) error {
	rule := p.g.Rule(ruleNo)
	if rule == nil || ruleNo == 0 {
		return &TableError{State: stateID, Msg: fmt.Sprintf("reduce by illegal rule %d", ruleNo)}
	}
	tracer().Debugf("reduce %v", rule)
	n := rule.Len()
	if len(p.stack)-1 < n {
		return &TableError{State: stateID, Rule: rule, Msg: "stack underflow"}
	}
	handle := p.stack[len(p.stack)-n:]
	children := make([]interface{}, n) // owned by the action
	var handlespan clr.Span
	for i, item := range handle {
		if item.sym != rule.Symbol(i) {
			return &TableError{State: stateID, Rule: rule,
				Msg: fmt.Sprintf("expected %v on stack, got %v", rule.Symbol(i), item.sym)}
		}
		children[i] = item.value
		handlespan = handlespan.Extend(item.span)
	}
	p.stack = p.stack[:len(p.stack)-n] // pop handle
	if n == 0 {                        // epsilon was just before lookahead
		pos := lookahead.Span().From()
		handlespan = clr.Span{pos, pos}
	}
	value, err := p.actions.reduce(rule, children, handlespan)
	if err != nil {
		tracer().Errorf("action for rule %d failed: %v", rule.Serial, err)
		return &ActionError{Rule: rule, Span: handlespan, Err: err}
	}
	tos := p.stack[len(p.stack)-1]
	next := p.table.Action(tos.stateID, rule.LHS)
	if next.Kind != lr.Goto {
		return &TableError{State: tos.stateID, Rule: rule, Symbol: rule.LHS,
			Msg: "missing goto after reduce"}
	}
	tracer().Debugf("reduced to next state = %d", next.Target)
	p.stack = append(p.stack, // push a non-terminal onto stack
		stackitem{next.Target, rule.LHS, value, handlespan})
	return nil
}

func (p *Parser) syntaxError(stateID int, T *lr.Symbol, token clr.Token) *ParseError {
	e := &ParseError{
		State:    stateID,
		Symbol:   T,
		Token:    token,
		Expected: p.table.Expected(stateID),
	}
	if loc, ok := clr.LocationOf(token); ok && loc.Line > 0 {
		e.Location = loc
	}
	tracer().Errorf("%v", e)
	return e
}

// scanError reports input the scanner could not tokenize. If the scanner
// error carries no position, the position of token is used.
func (p *Parser) scanError(stateID int, token clr.Token, err error) *ParseError {
	e := &ParseError{
		State: stateID,
		Token: token,
		Err:   err,
	}
	var serr *scanner.Error
	if errors.As(err, &serr) {
		e.Location = serr.Location
	} else if loc, ok := clr.LocationOf(token); ok && loc.Line > 0 {
		e.Location = loc
	}
	tracer().Errorf("%v", e)
	return e
}
