package lr1

import (
	"fmt"
	"strings"

	"github.com/npillmayer/clr"
	"github.com/npillmayer/clr/lr"
)

// ReduceFunc is a semantic action, called by the parser for every reduction
// by a rule. children holds the semantic values of the right hand side
// symbols: tokens for terminals and results of earlier reductions for
// non-terminals. The slice is freshly allocated for every call.
type ReduceFunc func(rule *lr.Rule, children []interface{}) (interface{}, error)

// Actions maps grammar rules to semantic actions. Rules without an action
// reduce to a *Node. Actions must not be changed while parsers are using them.
type Actions struct {
	g     *lr.Grammar
	rules map[int]ReduceFunc // rule serial -> action
}

// NewActions creates an empty set of actions for a grammar.
func NewActions(g *lr.Grammar) *Actions {
	return &Actions{
		g:     g,
		rules: make(map[int]ReduceFunc),
	}
}

// On sets the action for a rule. Setting a nil action restores the default
// action for the rule.
func (a *Actions) On(rule *lr.Rule, fn ReduceFunc) *Actions {
	if rule == nil {
		return a
	}
	if fn == nil {
		delete(a.rules, rule.Serial)
		return a
	}
	a.rules[rule.Serial] = fn
	return a
}

// OnLHS sets the action for all rules with left hand side symbol name.
// It is an error if name is not a non-terminal of the grammar.
func (a *Actions) OnLHS(name string, fn ReduceFunc) error {
	A := a.g.SymbolByName(name)
	if A == nil || A.IsTerminal() {
		return fmt.Errorf("%q is not a non-terminal of grammar %s", name, a.g.Name)
	}
	for _, r := range a.g.RulesFor(A) {
		a.On(r, fn)
	}
	return nil
}

// For returns the action for a rule, or nil if the rule uses the default action.
func (a *Actions) For(rule *lr.Rule) ReduceFunc {
	if a == nil || rule == nil {
		return nil
	}
	return a.rules[rule.Serial]
}

func (a *Actions) reduce(rule *lr.Rule, children []interface{}, span clr.Span) (interface{}, error) {
	if fn := a.For(rule); fn != nil {
		return fn(rule, children)
	}
	return &Node{Rule: rule, Children: children, Span: span}, nil
}

// --- Default parse tree ----------------------------------------------------

// Node is a parse tree node, created for reductions without a client action.
// Children are either tokens, or nodes for non-terminals.
type Node struct {
	Rule     *lr.Rule
	Children []interface{}
	Span     clr.Span
}

// Symbol returns the non-terminal this node has been reduced to.
func (n *Node) Symbol() *lr.Symbol {
	return n.Rule.LHS
}

// String returns the tree below n in bracket notation, e.g.
//
//     (E (E (T 1)) + (T 2))
//
func (n *Node) String() string {
	var b strings.Builder
	n.bracket(&b)
	return b.String()
}

func (n *Node) bracket(b *strings.Builder) {
	b.WriteByte('(')
	b.WriteString(n.Rule.LHS.Name)
	for _, ch := range n.Children {
		b.WriteByte(' ')
		switch c := ch.(type) {
		case *Node:
			c.bracket(b)
		case clr.Token:
			b.WriteString(c.Lexeme())
		default:
			fmt.Fprintf(b, "%v", c)
		}
	}
	b.WriteByte(')')
}

// Walk calls f for n and every node below it, in pre-order. Walking the
// subtree of a node stops if f returns false for it.
func (n *Node) Walk(f func(node *Node, depth int) bool) {
	n.walk(f, 0)
}

func (n *Node) walk(f func(*Node, int) bool, depth int) {
	if !f(n, depth) {
		return
	}
	for _, ch := range n.Children {
		if c, ok := ch.(*Node); ok {
			c.walk(f, depth+1)
		}
	}
}
