package lr

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/npillmayer/clr"
)

// --- Rules -----------------------------------------------------------------

// Rule is a type for rules of a grammar. Rules cannot be shared between grammars.
// Rules are immutable once the grammar has been built; they are referenced by
// their serial number, which is their index within the grammar.
type Rule struct {
	Serial int     // order number of this rule within a grammar
	LHS    *Symbol // symbol of left hand side
	rhs    []*Symbol
}

// RHS gets the right hand side of a rule as a shallow copy. Clients should
// not modify the symbols themselves.
func (r *Rule) RHS() []*Symbol {
	dup := make([]*Symbol, len(r.rhs))
	copy(dup, r.rhs)
	return dup
}

// Len returns the number of symbols of the right hand side.
func (r *Rule) Len() int {
	return len(r.rhs)
}

// Symbol returns the symbol at position i of the right hand side, or nil.
func (r *Rule) Symbol(i int) *Symbol {
	if i < 0 || i >= len(r.rhs) {
		return nil
	}
	return r.rhs[i]
}

// IsEpsilon is true for rules with an empty right hand side.
func (r *Rule) IsEpsilon() bool {
	return len(r.rhs) == 0
}

// Equals compares two rules structurally, i.e. by their symbols.
func (r *Rule) Equals(other *Rule) bool {
	if r == other {
		return true
	}
	if r == nil || other == nil || r.LHS.Name != other.LHS.Name || len(r.rhs) != len(other.rhs) {
		return false
	}
	for i, A := range r.rhs {
		if A.Name != other.rhs[i].Name {
			return false
		}
	}
	return true
}

// Compare orders rules by their serial number.
func (r *Rule) Compare(other *Rule) int {
	switch {
	case r.Serial < other.Serial:
		return -1
	case r.Serial > other.Serial:
		return 1
	}
	return 0
}

func (r *Rule) String() string {
	return fmt.Sprintf("[%s] ::= %v", r.LHS.Name, r.rhs)
}

// Production returns the rule as a human readable production string.
func (r *Rule) Production() string {
	var b strings.Builder
	b.WriteString(r.LHS.Name)
	b.WriteString(" →")
	if len(r.rhs) == 0 {
		b.WriteString(" ε")
	}
	for _, A := range r.rhs {
		b.WriteByte(' ')
		b.WriteString(A.Name)
	}
	return b.String()
}

// --- Grammar ---------------------------------------------------------------

// Grammar is a type for a grammar. Usually created using a GrammarBuilder.
type Grammar struct {
	Name    string         // a grammar has a name, for documentation only
	rules   []*Rule        // rule 0 is the augmented start rule
	space   *symbolSpace   // symbols by name, by ID and by token type
	lhsIdx  [][]*Rule      // rules per non-terminal, indexed by ID - #terminals
	start   *Symbol        // start symbol of the user's grammar
	eof     *Symbol        // end-of-input marker
	tokname clr.TokTypeStringer
}

// Size returns the number of rules in the grammar, including the start rule.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// Rule gets a grammar rule by serial number, or nil.
func (g *Grammar) Rule(no int) *Rule {
	if no < 0 || no >= len(g.rules) {
		return nil
	}
	return g.rules[no]
}

// Start returns the start symbol of the grammar (not the augmented one).
func (g *Grammar) Start() *Symbol {
	return g.start
}

// EOF returns the end-of-input terminal.
func (g *Grammar) EOF() *Symbol {
	return g.eof
}

// SymbolCount returns the number of symbols, terminals and non-terminals.
// Symbol IDs range from 0 to SymbolCount()-1.
func (g *Grammar) SymbolCount() int {
	return len(g.space.byID)
}

// TerminalCount returns the number of terminals, including #eof.
// Terminals have IDs below TerminalCount().
func (g *Grammar) TerminalCount() int {
	return g.space.termcnt
}

// Symbol returns the symbol with ID id, or nil.
func (g *Grammar) Symbol(id int) *Symbol {
	return g.space.symbol(id)
}

// SymbolByName gets a symbol for a given name, if found in the grammar.
func (g *Grammar) SymbolByName(name string) *Symbol {
	return g.space.byName[name]
}

// Terminal returns the terminal for a token type, or nil.
func (g *Grammar) Terminal(tokval clr.TokType) *Symbol {
	return g.space.byToken[tokval]
}

// SetTokenNames sets a stringer for token types, used for diagnostics.
func (g *Grammar) SetTokenNames(s clr.TokTypeStringer) {
	g.tokname = s
}

// TokenName returns a printable name for a token type.
func (g *Grammar) TokenName(tokval clr.TokType) string {
	if g.tokname != nil {
		return g.tokname(tokval)
	}
	if T := g.Terminal(tokval); T != nil {
		return T.Name
	}
	return fmt.Sprintf("token(%d)", tokval)
}

// RulesFor returns all rules with non-terminal A as their LHS, in serial order.
func (g *Grammar) RulesFor(A *Symbol) []*Rule {
	if A == nil || A.IsTerminal() {
		return nil
	}
	return g.lhsIdx[A.ID-g.space.termcnt]
}

// EachSymbol iterates over all symbols of the grammar in ID order.
// Return values of the mapper function are collected and returned.
func (g *Grammar) EachSymbol(mapper func(A *Symbol) interface{}) []interface{} {
	var r []interface{}
	for _, A := range g.space.byID {
		r = append(r, mapper(A))
	}
	return r
}

// EachTerminal iterates over all terminals of the grammar in ID order.
func (g *Grammar) EachTerminal(mapper func(A *Symbol) interface{}) []interface{} {
	var r []interface{}
	for _, A := range g.space.byID[:g.space.termcnt] {
		r = append(r, mapper(A))
	}
	return r
}

// EachNonTerminal iterates over all non-terminals of the grammar in ID order.
func (g *Grammar) EachNonTerminal(mapper func(A *Symbol) interface{}) []interface{} {
	var r []interface{}
	for _, A := range g.space.byID[g.space.termcnt:] {
		r = append(r, mapper(A))
	}
	return r
}

// Dump is a debugging helper: dump symbols and rules to the tracer.
func (g *Grammar) Dump() {
	tracer().Debugf("--- %s --------------------------------------------", g.Name)
	tracer().Debugf("#Terminals = %d", g.space.termcnt)
	tracer().Debugf("#NonTerminals = %d", len(g.space.byID)-g.space.termcnt)
	for _, A := range g.space.byID {
		tracer().Debugf("%s", A.Dump())
	}
	for _, r := range g.rules {
		tracer().Debugf("%3d: %s", r.Serial, r)
	}
	tracer().Debugf("-------------------------------------------------------")
}

// Productions lists all rules as human readable production strings.
func (g *Grammar) Productions() string {
	var b bytes.Buffer
	for _, r := range g.rules {
		fmt.Fprintf(&b, "%3d: %s\n", r.Serial, r.Production())
	}
	return b.String()
}

// --- Grammar Builder -------------------------------------------------------

// GrammarBuilder is a builder type for grammars. Create one with
//
//     b := lr.NewGrammarBuilder("My Grammar")
//
// The left hand side of the first rule added becomes the start symbol.
// Errors are collected and reported by b.Grammar().
type GrammarBuilder struct {
	name     string
	rules    []*Rule
	symbols  map[string]*Symbol
	terms    []*Symbol
	nonterms []*Symbol
	defined  map[string]bool // non-terminals with at least one rule
	errors   []string
}

// NewGrammarBuilder gets a new grammar builder, given the name of the grammar to build.
func NewGrammarBuilder(gname string) *GrammarBuilder {
	return &GrammarBuilder{
		name:    gname,
		symbols: make(map[string]*Symbol),
		defined: make(map[string]bool),
	}
}

// RuleBuilder is a builder type for a single rule, created by GrammarBuilder.LHS.
type RuleBuilder struct {
	gb  *GrammarBuilder
	lhs *Symbol
	rhs []*Symbol
}

// LHS starts a rule given the left hand side symbol (non-terminal).
func (gb *GrammarBuilder) LHS(name string) *RuleBuilder {
	A := gb.nonterminal(name)
	return &RuleBuilder{gb: gb, lhs: A}
}

// N appends a non-terminal to the builder.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.rhs = append(rb.rhs, rb.gb.nonterminal(name))
	return rb
}

// T appends a terminal to the builder, carrying token value tokval.
func (rb *RuleBuilder) T(name string, tokval int) *RuleBuilder {
	rb.rhs = append(rb.rhs, rb.gb.terminal(name, tokval))
	return rb
}

// End a rule.
func (rb *RuleBuilder) End() *Rule {
	r := &Rule{
		Serial: len(rb.gb.rules) + 1,
		LHS:    rb.lhs,
		rhs:    rb.rhs,
	}
	rb.gb.rules = append(rb.gb.rules, r)
	rb.gb.defined[rb.lhs.Name] = true
	return r
}

// Epsilon sets epsilon as the RHS of a production and ends the rule.
func (rb *RuleBuilder) Epsilon() *Rule {
	rb.rhs = nil
	return rb.End()
}

func (gb *GrammarBuilder) nonterminal(name string) *Symbol {
	if err := checkName(name); err != "" {
		gb.errorf("%s", err)
	}
	if A, ok := gb.symbols[name]; ok {
		if A.IsTerminal() {
			gb.errorf("symbol %q used both as terminal and as non-terminal", name)
		}
		return A
	}
	A := &Symbol{Name: name}
	gb.symbols[name] = A
	gb.nonterms = append(gb.nonterms, A)
	return A
}

func (gb *GrammarBuilder) terminal(name string, tokval int) *Symbol {
	if err := checkName(name); err != "" {
		gb.errorf("%s", err)
	}
	if clr.TokType(tokval) == EOFType {
		gb.errorf("terminal %q uses the token value reserved for %s", name, EOFName)
	}
	if A, ok := gb.symbols[name]; ok {
		if !A.IsTerminal() {
			gb.errorf("symbol %q used both as terminal and as non-terminal", name)
		} else if A.Value != tokval {
			gb.errorf("terminal %q declared with token values %d and %d", name, A.Value, tokval)
		}
		return A
	}
	for _, T := range gb.terms {
		if T.Value == tokval {
			gb.errorf("terminals %q and %q share token value %d", T.Name, name, tokval)
		}
	}
	T := &Symbol{Name: name, Value: tokval, term: true}
	gb.symbols[name] = T
	gb.terms = append(gb.terms, T)
	return T
}

func checkName(name string) string {
	if name == "" {
		return "empty symbol name"
	}
	if strings.HasPrefix(name, "#") {
		return fmt.Sprintf("symbol name %q is reserved", name)
	}
	return ""
}

func (gb *GrammarBuilder) errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	tracer().Errorf("grammar %s: %s", gb.name, msg)
	gb.errors = append(gb.errors, msg)
}

// Grammar returns the (completed) grammar, or a *GrammarError if the
// grammar is not well-formed. Non-terminals which are not reachable from the
// start symbol are allowed; non-terminals without any rule are not.
func (gb *GrammarBuilder) Grammar() (*Grammar, error) {
	if len(gb.rules) == 0 {
		return nil, &GrammarError{Grammar: gb.name, Problems: []string{"grammar has no rules"}}
	}
	problems := append([]string(nil), gb.errors...)
	for _, A := range gb.nonterms {
		if !gb.defined[A.Name] {
			problems = append(problems, fmt.Sprintf("non-terminal %q has no productions", A.Name))
		}
	}
	for i, r := range gb.rules {
		for _, other := range gb.rules[:i] {
			if r.Equals(other) {
				problems = append(problems, fmt.Sprintf("duplicate rule %s", r))
			}
		}
	}
	if len(problems) > 0 {
		return nil, &GrammarError{Grammar: gb.name, Problems: problems}
	}
	start := gb.rules[0].LHS
	sname := start.Name + "'"
	for gb.symbols[sname] != nil {
		sname += "'"
	}
	S0 := &Symbol{Name: sname}
	eof := &Symbol{Name: EOFName, Value: int(EOFType), term: true}
	g := &Grammar{
		Name:  gb.name,
		space: newSymbolSpace(),
		start: start,
		eof:   eof,
	}
	g.space.enumerate(
		append([]*Symbol{eof}, gb.terms...),
		append([]*Symbol{S0}, gb.nonterms...),
	)
	g.rules = make([]*Rule, 0, len(gb.rules)+1)
	g.rules = append(g.rules, &Rule{Serial: 0, LHS: S0, rhs: []*Symbol{start}})
	g.rules = append(g.rules, gb.rules...)
	g.lhsIdx = make([][]*Rule, len(g.space.byID)-g.space.termcnt)
	for _, r := range g.rules {
		inx := r.LHS.ID - g.space.termcnt
		g.lhsIdx[inx] = append(g.lhsIdx[inx], r)
	}
	return g, nil
}
