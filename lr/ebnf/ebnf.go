package ebnf

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/clr"
	"github.com/npillmayer/clr/lr"
	"github.com/npillmayer/clr/lr/scanner/lexmach"
	"github.com/timtadh/lexmachine"
	"golang.org/x/exp/ebnf"
)

// Spec is a grammar loaded from an EBNF file, together with the information
// needed to create a scanner for it.
type Spec struct {
	Grammar  *lr.Grammar
	Literals []string       // literal terminals, e.g. "+"
	Keywords []string       // keyword terminals, e.g. "if"
	Lexical  []LexicalToken // terminals for lexical productions
	TokenIDs map[string]int // terminal name -> token type
	Options  []lr.Option    // overrides for the table generator
	tokNames map[int]string // token type -> terminal name
	skip     string         // regular expression for input to skip
}

// LexicalToken is a terminal defined by a lexical production, with its body
// translated to a lexmachine regular expression.
type LexicalToken struct {
	Name  string
	Regex string
}

// WhiteSpace is the default pattern for input to skip between tokens.
const WhiteSpace = `( |\t|\n|\r)+`

// Option configures the loader.
type Option func(*loader)

// PreferShift registers an override for a shift/reduce conflict between
// reducing by the rule given as a production string (see lr.Rule.Production)
// and shifting terminal lookahead.
func PreferShift(lookahead string, production string) Option {
	return func(l *loader) {
		l.directives = append(l.directives, directive{lookahead, normalizeProduction(production), true})
	}
}

// PreferReduce is the counterpart of PreferShift.
func PreferReduce(lookahead string, production string) Option {
	return func(l *loader) {
		l.directives = append(l.directives, directive{lookahead, normalizeProduction(production), false})
	}
}

// Skip sets the pattern for input to skip between tokens, replacing WhiteSpace.
func Skip(regex string) Option {
	return func(l *loader) {
		l.skip = regex
	}
}

type directive struct {
	lookahead  string
	production string
	shift      bool
}

// loader holds the state for converting an EBNF grammar into an lr.Grammar.
type loader struct {
	src        ebnf.Grammar
	b          *lr.GrammarBuilder
	spec       *Spec
	queue      []string        // syntactic productions to convert
	pending    []pendingRule   // rules for helper non-terminals
	seen       map[string]bool // productions already queued
	helpers    map[string]int  // count of helper non-terminals per production
	directives []directive
	skip       string
	nextID     int
	errors     []string
}

// Load reads an EBNF grammar from src and converts it into a context-free
// grammar, starting at production start. filename is used for error messages.
func Load(filename string, src io.Reader, start string, opts ...Option) (*Spec, error) {
	text, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("reading grammar %s: %w", filename, err)
	}
	l := &loader{
		b:       lr.NewGrammarBuilder(grammarName(filename, start)),
		seen:    make(map[string]bool),
		helpers: make(map[string]int),
		skip:    WhiteSpace,
		nextID:  1,
		spec: &Spec{
			TokenIDs: make(map[string]int),
			tokNames: make(map[int]string),
		},
	}
	if err := l.scanDirectives(text); err != nil {
		return nil, fmt.Errorf("grammar %s: %w", filename, err)
	}
	for _, opt := range opts {
		opt(l)
	}
	l.src, err = ebnf.Parse(filename, bytes.NewReader(text))
	if err != nil {
		return nil, err
	}
	if !isSyntactic(start) {
		return nil, fmt.Errorf("grammar %s: start production %q is not syntactic", filename, start)
	}
	l.src = reachable(l.src, start)
	if err = ebnf.Verify(l.src, start); err != nil {
		return nil, err
	}
	l.enqueue(start)
	for len(l.queue) > 0 {
		name := l.queue[0]
		l.queue = l.queue[1:]
		l.production(name, l.src[name].Expr)
	}
	if len(l.errors) > 0 {
		return nil, fmt.Errorf("grammar %s: %s", filename, strings.Join(l.errors, "; "))
	}
	g, err := l.b.Grammar()
	if err != nil {
		return nil, err
	}
	g.SetTokenNames(l.spec.TokenName)
	l.spec.Grammar = g
	l.spec.skip = l.skip
	if err := l.resolveDirectives(); err != nil {
		return nil, fmt.Errorf("grammar %s: %w", filename, err)
	}
	tracer().Infof("loaded grammar %s with %d rules and %d terminals", g.Name, g.Size()-1,
		g.TerminalCount()-1)
	return l.spec, nil
}

// reachable returns the productions of src reachable from start. Productions
// referenced but not defined are left for ebnf.Verify to report.
func reachable(src ebnf.Grammar, start string) ebnf.Grammar {
	used := make(ebnf.Grammar)
	var walk func(x ebnf.Expression)
	visit := func(name string) {
		if _, ok := used[name]; ok {
			return
		}
		if p, ok := src[name]; ok {
			used[name] = p
			walk(p.Expr)
		}
	}
	walk = func(x ebnf.Expression) {
		switch x := x.(type) {
		case ebnf.Alternative:
			for _, e := range x {
				walk(e)
			}
		case ebnf.Sequence:
			for _, e := range x {
				walk(e)
			}
		case *ebnf.Name:
			visit(x.String)
		case *ebnf.Group:
			walk(x.Body)
		case *ebnf.Option:
			walk(x.Body)
		case *ebnf.Repetition:
			walk(x.Body)
		}
	}
	visit(start)
	for name := range src {
		if _, ok := used[name]; !ok {
			tracer().Infof("production %s is not reachable from %s, ignored", name, start)
		}
	}
	return used
}

func grammarName(filename, start string) string {
	if filename == "" {
		return start
	}
	return filename
}

func (l *loader) errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	tracer().Errorf("%s", msg)
	l.errors = append(l.errors, msg)
}

func (l *loader) enqueue(name string) {
	if !l.seen[name] {
		l.seen[name] = true
		l.queue = append(l.queue, name)
	}
}

// --- Syntactic productions -------------------------------------------------

// production adds the rules for non-terminal lhs, with one rule per
// top-level alternative.
func (l *loader) production(lhs string, expr ebnf.Expression) {
	var alternatives []ebnf.Expression
	if alt, ok := expr.(ebnf.Alternative); ok {
		alternatives = alt
	} else {
		alternatives = []ebnf.Expression{expr}
	}
	for _, alt := range alternatives {
		l.rule(lhs, l.sequence(lhs, alt, nil))
	}
	for _, p := range l.pending {
		l.rule(p.lhs, p.rhs)
	}
	l.pending = l.pending[:0]
}

// Rules for helper non-terminals are added after the rules of the production
// they appear in. Otherwise a helper could become the start symbol.
type pendingRule struct {
	lhs string
	rhs []sym
}

func (l *loader) helperRule(H string, rhs []sym) {
	l.pending = append(l.pending, pendingRule{H, rhs})
}

// sym is a right hand side symbol collected during conversion.
type sym struct {
	name   string
	tokval int
	term   bool
}

func (l *loader) rule(lhs string, rhs []sym) *lr.Rule {
	rb := l.b.LHS(lhs)
	if len(rhs) == 0 {
		return rb.Epsilon()
	}
	for _, s := range rhs {
		if s.term {
			rb = rb.T(s.name, s.tokval)
		} else {
			rb = rb.N(s.name)
		}
	}
	return rb.End()
}

// sequence appends the symbols for expr to rhs. Sub-expressions which are
// not plain sequences are replaced by helper non-terminals.
func (l *loader) sequence(lhs string, expr ebnf.Expression, rhs []sym) []sym {
	switch x := expr.(type) {
	case nil:
		return rhs
	case ebnf.Sequence:
		for _, e := range x {
			rhs = l.sequence(lhs, e, rhs)
		}
	case *ebnf.Name:
		if isSyntactic(x.String) {
			l.enqueue(x.String)
			return append(rhs, sym{name: x.String})
		}
		return append(rhs, l.lexicalTerminal(x.String))
	case *ebnf.Token:
		if x.String == "" {
			l.errorf("%s: empty token in production %s", x.Pos(), lhs)
			return rhs
		}
		return append(rhs, l.tokenTerminal(x.String))
	case *ebnf.Group:
		if alt, ok := x.Body.(ebnf.Alternative); ok {
			H := l.helper(lhs)
			for _, a := range alt {
				l.helperRule(H, l.sequence(lhs, a, nil))
			}
			return append(rhs, sym{name: H})
		}
		return l.sequence(lhs, x.Body, rhs)
	case *ebnf.Option: // H → body | ε
		H := l.helper(lhs)
		l.alternatives(lhs, H, x.Body, nil)
		l.helperRule(H, nil)
		return append(rhs, sym{name: H})
	case *ebnf.Repetition: // H → H body | ε
		H := l.helper(lhs)
		l.alternatives(lhs, H, x.Body, []sym{{name: H}})
		l.helperRule(H, nil)
		return append(rhs, sym{name: H})
	case ebnf.Alternative:
		H := l.helper(lhs)
		l.alternatives(lhs, H, x, nil)
		return append(rhs, sym{name: H})
	case *ebnf.Range:
		l.errorf("%s: character range in syntactic production %s", x.Pos(), lhs)
	default:
		l.errorf("%s: unsupported expression in production %s", expr.Pos(), lhs)
	}
	return rhs
}

// alternatives adds a rule H → prefix alt for every alternative of body.
func (l *loader) alternatives(lhs, H string, body ebnf.Expression, prefix []sym) {
	alts := []ebnf.Expression{body}
	if alt, ok := body.(ebnf.Alternative); ok {
		alts = alt
	} else if grp, ok := body.(*ebnf.Group); ok {
		if alt, ok := grp.Body.(ebnf.Alternative); ok {
			alts = alt
		}
	}
	for _, a := range alts {
		rhs := append(append([]sym(nil), prefix...), l.sequence(lhs, a, nil)...)
		l.helperRule(H, rhs)
	}
}

// helper creates the name of a new helper non-terminal for production lhs.
func (l *loader) helper(lhs string) string {
	l.helpers[lhs]++
	return fmt.Sprintf("%s~%d", lhs, l.helpers[lhs])
}

func (l *loader) tokenTerminal(text string) sym {
	if id, ok := l.spec.TokenIDs[text]; ok {
		return sym{name: text, tokval: id, term: true}
	}
	id := l.newTokenID(text)
	if isIdentifier(text) {
		l.spec.Keywords = append(l.spec.Keywords, text)
	} else {
		l.spec.Literals = append(l.spec.Literals, text)
	}
	return sym{name: text, tokval: id, term: true}
}

func (l *loader) lexicalTerminal(name string) sym {
	if id, ok := l.spec.TokenIDs[name]; ok {
		return sym{name: name, tokval: id, term: true}
	}
	id := l.newTokenID(name)
	regex := l.regex(name, l.src[name].Expr, map[string]bool{name: true})
	l.spec.Lexical = append(l.spec.Lexical, LexicalToken{Name: name, Regex: regex})
	tracer().Debugf("lexical token %s = %s", name, regex)
	return sym{name: name, tokval: id, term: true}
}

func (l *loader) newTokenID(name string) int {
	id := l.nextID
	l.nextID++
	l.spec.TokenIDs[name] = id
	l.spec.tokNames[id] = name
	return id
}

// --- Lexical productions ---------------------------------------------------

// regex translates the body of a lexical production into a lexmachine
// regular expression. Names of other lexical productions are inlined.
func (l *loader) regex(name string, expr ebnf.Expression, active map[string]bool) string {
	switch x := expr.(type) {
	case nil:
		return ""
	case *ebnf.Token:
		return lexmach.QuoteLiteral(x.String)
	case *ebnf.Range:
		return "[" + classChar(x.Begin.String) + "-" + classChar(x.End.String) + "]"
	case ebnf.Sequence:
		var b strings.Builder
		for _, e := range x {
			b.WriteString(l.regex(name, e, active))
		}
		return b.String()
	case ebnf.Alternative:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = l.regex(name, e, active)
		}
		return "(" + strings.Join(parts, "|") + ")"
	case *ebnf.Group:
		return "(" + l.regex(name, x.Body, active) + ")"
	case *ebnf.Option:
		return "(" + l.regex(name, x.Body, active) + ")?"
	case *ebnf.Repetition:
		return "(" + l.regex(name, x.Body, active) + ")*"
	case *ebnf.Name:
		if active[x.String] {
			l.errorf("%s: lexical production %s is recursive", x.Pos(), x.String)
			return ""
		}
		active[x.String] = true
		defer delete(active, x.String)
		return "(" + l.regex(x.String, l.src[x.String].Expr, active) + ")"
	}
	l.errorf("%s: unsupported expression in lexical production %s", expr.Pos(), name)
	return ""
}

func classChar(s string) string {
	return lexmach.QuoteLiteral(s)
}

func isSyntactic(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if !(unicode.IsLetter(r) || r == '_' || (i > 0 && unicode.IsDigit(r))) {
			return false
		}
	}
	return s != ""
}

// --- Directives ------------------------------------------------------------

const directivePrefix = "//clr:"

func (l *loader) scanDirectives(text []byte) error {
	lines := bufio.NewScanner(bytes.NewReader(text))
	for lineno := 1; lines.Scan(); lineno++ {
		line := strings.TrimSpace(lines.Text())
		if !strings.HasPrefix(line, directivePrefix) {
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(line, directivePrefix))
		if len(fields) < 3 {
			return fmt.Errorf("line %d: malformed directive %q", lineno, line)
		}
		production := strings.Join(fields[2:], " ")
		switch fields[0] {
		case "prefer-shift":
			PreferShift(fields[1], production)(l)
		case "prefer-reduce":
			PreferReduce(fields[1], production)(l)
		default:
			return fmt.Errorf("line %d: unknown directive %q", lineno, fields[0])
		}
	}
	return lines.Err()
}

func normalizeProduction(p string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(p, "->", "→")), " ")
}

func (l *loader) resolveDirectives() error {
	g := l.spec.Grammar
	for _, d := range l.directives {
		T := g.SymbolByName(d.lookahead)
		if T == nil || !T.IsTerminal() {
			return fmt.Errorf("override: %q is not a terminal", d.lookahead)
		}
		var rule *lr.Rule
		for i := 1; i < g.Size(); i++ {
			if g.Rule(i).Production() == d.production {
				rule = g.Rule(i)
				break
			}
		}
		if rule == nil {
			return fmt.Errorf("override: no rule %q", d.production)
		}
		if d.shift {
			l.spec.Options = append(l.spec.Options, lr.PreferShift(rule, T))
		} else {
			l.spec.Options = append(l.spec.Options, lr.PreferReduce(rule, T))
		}
	}
	return nil
}

// --- Spec ------------------------------------------------------------------

// TokenName returns the terminal name for a token type. It is suitable as
// a clr.TokTypeStringer.
func (s *Spec) TokenName(t clr.TokType) string {
	if name, ok := s.tokNames[int(t)]; ok {
		return name
	}
	return fmt.Sprintf("<%d>", int(t))
}

// TableGenerator returns a table generator for the grammar, configured
// with the overrides of the spec.
func (s *Spec) TableGenerator() *lr.TableGenerator {
	return lr.NewTableGenerator(lr.Analysis(s.Grammar), s.Options...)
}

// Lexer creates a lexmachine-based scanner generator for the terminals of
// the grammar.
func (s *Spec) Lexer() (*lexmach.LMAdapter, error) {
	init := func(lexer *lexmachine.Lexer) {
		for _, lt := range s.Lexical {
			lexer.Add([]byte(lt.Regex), lexmach.MakeToken(lt.Name, s.TokenIDs[lt.Name]))
		}
		if s.skip != "" {
			lexer.Add([]byte(s.skip), lexmach.Skip)
		}
	}
	return lexmach.NewLMAdapter(init, s.Literals, s.Keywords, s.TokenIDs)
}
