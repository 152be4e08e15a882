package lr

import (
	"errors"
	"strings"
	"testing"
	"text/scanner"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// E  ➞ E + T  |  T
// T  ➞ num
func makeSumGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("G")
	b.LHS("E").N("E").T("+", '+').N("T").End()
	b.LHS("E").N("T").End()
	b.LHS("T").T("num", scanner.Int).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestGrammarBuilder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.lr")
	defer teardown()
	//
	g := makeSumGrammar(t)
	g.Dump()
	if g.Size() != 4 {
		t.Errorf("expected 4 rules including start rule, have %d", g.Size())
	}
	if r := g.Rule(0); r.LHS.Name != "E'" || r.Len() != 1 || r.Symbol(0) != g.Start() {
		t.Errorf("expected rule 0 to be E' → E, is %s", r)
	}
	if g.Rule(1).Production() != "E → E + T" {
		t.Errorf("unexpected production %q", g.Rule(1).Production())
	}
	names := []string{"#eof", "+", "num", "E'", "E", "T"}
	for id, name := range names {
		if A := g.Symbol(id); A == nil || A.Name != name {
			t.Errorf("expected symbol #%d to be %s, is %v", id, name, A)
		}
	}
	if g.TerminalCount() != 3 {
		t.Errorf("expected 3 terminals, have %d", g.TerminalCount())
	}
	if T := g.Terminal('+'); T == nil || T.Name != "+" {
		t.Errorf("expected token '+' to map to terminal +, is %v", T)
	}
	if T := g.Terminal(EOFType); T != g.EOF() {
		t.Errorf("expected EOF token type to map to %s", EOFName)
	}
	if rules := g.RulesFor(g.SymbolByName("E")); len(rules) != 2 {
		t.Errorf("expected 2 rules for E, have %d", len(rules))
	}
}

func TestGrammarRuleEquality(t *testing.T) {
	g := makeSumGrammar(t)
	rhs := g.Rule(1).RHS()
	rhs[0] = nil // must not affect the rule
	if g.Rule(1).Symbol(0) == nil {
		t.Errorf("RHS() should return a copy")
	}
	if !g.Rule(1).Equals(g.Rule(1)) || g.Rule(1).Equals(g.Rule(2)) {
		t.Errorf("rule equality broken")
	}
	if g.Rule(1).Compare(g.Rule(2)) >= 0 {
		t.Errorf("expected rule 1 < rule 2")
	}
}

func TestGrammarErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.lr")
	defer teardown()
	//
	cases := []struct {
		build   func(b *GrammarBuilder)
		problem string
	}{
		{func(b *GrammarBuilder) {}, "no rules"},
		{func(b *GrammarBuilder) {
			b.LHS("S").N("X").End()
		}, `"X" has no productions`},
		{func(b *GrammarBuilder) {
			b.LHS("S").T("a", 1).End()
			b.LHS("S").N("a").End()
		}, "both as terminal and as non-terminal"},
		{func(b *GrammarBuilder) {
			b.LHS("S").T("a", 1).T("b", 1).End()
		}, "share token value"},
		{func(b *GrammarBuilder) {
			b.LHS("S").T("a", 1).End()
			b.LHS("S").T("a", 1).End()
		}, "duplicate rule"},
		{func(b *GrammarBuilder) {
			b.LHS("S").T("#x", 1).End()
		}, "reserved"},
	}
	for i, c := range cases {
		b := NewGrammarBuilder("Bad")
		c.build(b)
		_, err := b.Grammar()
		var gerr *GrammarError
		if !errors.As(err, &gerr) {
			t.Errorf("case %d: expected grammar error, got %v", i, err)
			continue
		}
		if !strings.Contains(err.Error(), c.problem) {
			t.Errorf("case %d: expected error to mention %q, is %q", i, c.problem, err.Error())
		}
	}
}

func TestGrammarUnreachableIsAllowed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Unreachable")
	b.LHS("S").T("a", 1).End()
	b.LHS("U").T("u", 2).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("unreachable non-terminal should be allowed: %v", err)
	}
	lrgen := NewTableGenerator(Analysis(g))
	if err := lrgen.CreateTables(); err != nil {
		t.Fatal(err)
	}
	U := g.SymbolByName("U")
	for state := 0; state < lrgen.Table().StateCount(); state++ {
		if a := lrgen.Table().Action(state, U); !a.IsNone() {
			t.Errorf("unreachable U should not have table entries, found %v in state %d", a, state)
		}
	}
}

func TestGrammarStartNameClash(t *testing.T) {
	b := NewGrammarBuilder("Clash")
	b.LHS("S").N("S'").End()
	b.LHS("S'").T("a", 1).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	if g.Rule(0).LHS.Name != "S''" {
		t.Errorf("expected augmented start symbol S'', is %s", g.Rule(0).LHS)
	}
}
