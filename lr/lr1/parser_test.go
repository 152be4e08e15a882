package lr1

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/clr"
	"github.com/npillmayer/clr/lr"
	"github.com/npillmayer/clr/lr/scanner"
	"github.com/npillmayer/clr/lr/scanner/lexmach"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/timtadh/lexmachine"
)

// E  ➞ E + T  |  T
// T  ➞ num
func makeSumGrammar(t *testing.T) *lr.Grammar {
	b := lr.NewGrammarBuilder("G")
	b.LHS("E").N("E").T("+", '+').N("T").End()
	b.LHS("E").N("T").End()
	b.LHS("T").T("num", scanner.Int).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func makeTable(t *testing.T, g *lr.Grammar, opts ...lr.Option) *lr.Table {
	lrgen := lr.NewTableGenerator(lr.Analysis(g), opts...)
	if err := lrgen.CreateTables(); err != nil {
		t.Fatal(err)
	}
	return lrgen.Table()
}

func scan(input string) scanner.Tokenizer {
	return scanner.GoTokenizer("test", strings.NewReader(input), scanner.ConvertValues(true))
}

func TestParseTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.lr")
	defer teardown()
	//
	g := makeSumGrammar(t)
	p := NewParser(makeTable(t, g), nil)
	result, err := p.Parse(scan("1 + 2 + 3"))
	if err != nil {
		t.Fatal(err)
	}
	root, ok := result.(*Node)
	if !ok {
		t.Fatalf("expected parse tree, have %T", result)
	}
	want := "(E (E (E (T 1)) + (T 2)) + (T 3))"
	if diff := cmp.Diff(want, root.String()); diff != "" {
		t.Errorf("parse tree mismatch (-want +got):\n%s", diff)
	}
	if root.Span != (clr.Span{0, 9}) {
		t.Errorf("expected root to span the input, is %v", root.Span)
	}
	var lhs []string
	root.Walk(func(n *Node, depth int) bool {
		lhs = append(lhs, n.Symbol().Name)
		return depth < 1
	})
	if diff := cmp.Diff([]string{"E", "E", "T"}, lhs); diff != "" {
		t.Errorf("unexpected walk (-want +got):\n%s", diff)
	}
}

func TestParseWithActions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.lr")
	defer teardown()
	//
	g := makeSumGrammar(t)
	actions := NewActions(g)
	actions.On(g.Rule(1), func(r *lr.Rule, children []interface{}) (interface{}, error) {
		return children[0].(int64) + children[2].(int64), nil
	})
	actions.On(g.Rule(2), func(r *lr.Rule, children []interface{}) (interface{}, error) {
		return children[0], nil
	})
	var seen [][]interface{}
	if err := actions.OnLHS("T", func(r *lr.Rule, children []interface{}) (interface{}, error) {
		seen = append(seen, children)
		return children[0].(clr.Token).Value(), nil
	}); err != nil {
		t.Fatal(err)
	}
	if err := actions.OnLHS("num", nil); err == nil {
		t.Errorf("expected OnLHS to reject a terminal")
	}
	p := NewParser(makeTable(t, g), actions)
	result, err := p.Parse(scan("10 + 20 + 12"))
	if err != nil {
		t.Fatal(err)
	}
	if result != int64(42) {
		t.Errorf("expected 42, have %v", result)
	}
	// every action call received its own slice
	var lexemes []string
	for _, children := range seen {
		lexemes = append(lexemes, children[0].(clr.Token).Lexeme())
	}
	if diff := cmp.Diff([]string{"10", "20", "12"}, lexemes); diff != "" {
		t.Errorf("children have been overwritten (-want +got):\n%s", diff)
	}
	// parser is reusable
	if result, err = p.Parse(scan("1+1")); err != nil || result != int64(2) {
		t.Errorf("expected 2 from second parse, have %v, %v", result, err)
	}
}

func TestActionErrorAbortsParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.lr")
	defer teardown()
	//
	g := makeSumGrammar(t)
	boom := errors.New("boom")
	calls := 0
	actions := NewActions(g).On(g.Rule(3), func(r *lr.Rule, children []interface{}) (interface{}, error) {
		calls++
		return nil, boom
	})
	p := NewParser(makeTable(t, g), actions)
	_, err := p.Parse(scan("1 + 2"))
	var aerr *ActionError
	if !errors.As(err, &aerr) || !errors.Is(err, boom) {
		t.Fatalf("expected action error wrapping boom, have %v", err)
	}
	if aerr.Rule != g.Rule(3) || calls != 1 {
		t.Errorf("expected parse to stop after first failing action, rule=%v, calls=%d", aerr.Rule, calls)
	}
}

func TestSyntaxErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.lr")
	defer teardown()
	//
	g := makeSumGrammar(t)
	p := NewParser(makeTable(t, g), nil)
	_, err := p.Parse(scan("1 +\n+ 2"))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected a parse error, have %v", err)
	}
	if perr.Symbol.Name != "+" || perr.Location.Line != 2 || perr.Location.Column != 1 {
		t.Errorf("expected unexpected + at test:2:1, have %v", perr)
	}
	if len(perr.Expected) != 1 || perr.Expected[0].Name != "num" {
		t.Errorf("expected num to be expected, have %v", perr.Expected)
	}
	t.Logf("error message: %v", err)
	//
	_, err = p.Parse(scan("1 * 2"))
	if !errors.As(err, &perr) || perr.Symbol != nil || perr.Token.Lexeme() != "*" {
		t.Errorf("expected unknown token error for '*', have %v", err)
	}
	_, err = p.Parse(scan(""))
	if !errors.As(err, &perr) || !perr.Symbol.IsEOF() {
		t.Errorf("expected unexpected end of input, have %v", err)
	}
}

// L  ➞ a L  |  ε
func TestEmptyInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("List")
	b.LHS("L").T("a", scanner.Ident).N("L").End()
	b.LHS("L").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	p := NewParser(makeTable(t, g), nil)
	result, err := p.Parse(scan(""))
	if err != nil {
		t.Fatal(err)
	}
	if s := result.(*Node).String(); s != "(L)" {
		t.Errorf("expected empty list, have %s", s)
	}
	result, err = p.Parse(scan("a a"))
	if err != nil {
		t.Fatal(err)
	}
	root := result.(*Node)
	if root.String() != "(L a (L a (L)))" {
		t.Errorf("unexpected list %s", root)
	}
	inner := root.Children[1].(*Node).Children[1].(*Node)
	if !inner.Span.IsNull() && inner.Span.Len() != 0 {
		t.Errorf("expected empty span for ε-reduction, have %v", inner.Span)
	}
}

func TestEpsilonAction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("List")
	b.LHS("L").T("a", scanner.Ident).N("L").End()
	b.LHS("L").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	empty := 0
	actions := NewActions(g)
	actions.On(g.Rule(1), func(r *lr.Rule, children []interface{}) (interface{}, error) {
		if len(children) != 2 {
			return nil, errors.New("expected 2 children for L → a L")
		}
		return 1 + children[1].(int), nil
	})
	actions.On(g.Rule(2), func(r *lr.Rule, children []interface{}) (interface{}, error) {
		if len(children) != 0 {
			return nil, errors.New("ε-rule called with children")
		}
		empty++
		return 0, nil
	})
	p := NewParser(makeTable(t, g), actions)
	for input, want := range map[string]int{"": 0, "a": 1, "a a a": 3} {
		empty = 0
		result, err := p.Parse(scan(input))
		if err != nil {
			t.Fatalf("%q: %v", input, err)
		}
		if result != want || empty != 1 {
			t.Errorf("%q: expected length %d with one ε-reduction, have %v with %d", input, want, result, empty)
		}
	}
}

func makeSumLexer(t *testing.T) *lexmach.LMAdapter {
	init := func(lexer *lexmachine.Lexer) {
		lexer.Add([]byte("[0-9]+"), lexmach.MakeToken("num", scanner.Int))
		lexer.Add([]byte("( |\t)+"), lexmach.Skip)
	}
	lm, err := lexmach.NewLMAdapter(init, []string{"+"}, nil, map[string]int{"+": '+'})
	if err != nil {
		t.Fatal(err)
	}
	return lm
}

func TestScannerErrorAbortsParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.lr")
	defer teardown()
	//
	table := makeTable(t, makeSumGrammar(t))
	lm := makeSumLexer(t)
	sc, err := lm.Scanner("1 + $$ 2")
	if err != nil {
		t.Fatal(err)
	}
	result, err := NewParser(table, nil).Parse(sc)
	var perr *ParseError
	if !errors.As(err, &perr) || result != nil {
		t.Fatalf("expected parse error and no result, have %v / %v", result, err)
	}
	var serr *scanner.Error
	if !errors.As(err, &serr) {
		t.Errorf("expected scanner error to be wrapped, have %v", err)
	}
	if perr.Span().From() != 4 {
		t.Errorf("expected error at offset 4, have %v", perr.Span())
	}
	//
	good, _ := lm.Scanner("1 + 2")
	bad, _ := lm.Scanner("3 # 4")
	_, err = ParseAll(context.Background(), table, nil, []scanner.Tokenizer{good, bad})
	if !errors.As(err, &perr) || !strings.Contains(err.Error(), "input #1") {
		t.Errorf("expected parse error for input #1, have %v", err)
	}
}

// S  ➞ if E then S  |  if E then S else S  |  x
// E  ➞ b
func TestDanglingElse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("Dangling Else")
	ifThen := b.LHS("S").T("if", 1).N("E").T("then", 2).N("S").End()
	b.LHS("S").T("if", 1).N("E").T("then", 2).N("S").T("else", 3).N("S").End()
	b.LHS("S").T("x", 4).End()
	b.LHS("E").T("b", 5).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	table := makeTable(t, g, lr.PreferShift(ifThen, g.SymbolByName("else")))
	words := strings.Fields("if b then if b then x else x")
	toks := make([]clr.Token, len(words))
	var pos uint64
	for i, w := range words {
		T := g.SymbolByName(w)
		toks[i] = scanner.MakeDefaultToken(T.TokenType(), w, clr.Span{pos, pos + uint64(len(w))})
		pos += uint64(len(w)) + 1
	}
	result, err := NewParser(table, nil).Parse(scanner.NewTokenSlice(toks...))
	if err != nil {
		t.Fatal(err)
	}
	want := "(S if (E b) then (S if (E b) then (S x) else (S x)))"
	if diff := cmp.Diff(want, result.(*Node).String()); diff != "" {
		t.Errorf("else should bind to the inner if (-want +got):\n%s", diff)
	}
}

func TestReloadedTableParsesIdentically(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.lr")
	defer teardown()
	//
	g := makeSumGrammar(t)
	table := makeTable(t, g)
	var buf bytes.Buffer
	if _, err := table.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	reloaded, err := lr.ReadTable(bytes.NewReader(buf.Bytes()), g)
	if err != nil {
		t.Fatal(err)
	}
	r1, err1 := NewParser(table, nil).Parse(scan("1+2+3"))
	r2, err2 := NewParser(reloaded, nil).Parse(scan("1+2+3"))
	if err1 != nil || err2 != nil {
		t.Fatalf("parse failed: %v / %v", err1, err2)
	}
	if diff := cmp.Diff(r1.(*Node).String(), r2.(*Node).String()); diff != "" {
		t.Errorf("reloaded table parses differently (-orig +reloaded):\n%s", diff)
	}
	// reduce by E → T instead of T → num in state 1
	damaged := strings.Replace(buf.String(), "r3", "r2", 1)
	broken, err := lr.ReadTable(strings.NewReader(damaged), g)
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewParser(broken, nil).Parse(scan("1"))
	var terr *TableError
	if !errors.As(err, &terr) {
		t.Errorf("expected table error for damaged table, have %v", err)
	}
}

func TestUninitializedParser(t *testing.T) {
	p := NewParser(nil, nil)
	if _, err := p.Parse(scan("1")); err == nil {
		t.Errorf("expected parser without table to fail")
	}
}

func TestParseAll(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.lr")
	defer teardown()
	//
	g := makeSumGrammar(t)
	table := makeTable(t, g)
	actions := NewActions(g)
	actions.On(g.Rule(1), func(r *lr.Rule, children []interface{}) (interface{}, error) {
		return children[0].(int64) + children[2].(int64), nil
	})
	actions.On(g.Rule(2), func(r *lr.Rule, children []interface{}) (interface{}, error) {
		return children[0], nil
	})
	actions.On(g.Rule(3), func(r *lr.Rule, children []interface{}) (interface{}, error) {
		return children[0].(clr.Token).Value(), nil
	})
	inputs := []string{"1", "1+2", "1+2+3", "10+20+30+40"}
	tokenizers := make([]scanner.Tokenizer, len(inputs))
	for i, input := range inputs {
		tokenizers[i] = scan(input)
	}
	results, err := ParseAll(context.Background(), table, actions, tokenizers)
	if err != nil {
		t.Fatal(err)
	}
	want := []interface{}{int64(1), int64(3), int64(6), int64(100)}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Errorf("unexpected results (-want +got):\n%s", diff)
	}
	//
	tokenizers = []scanner.Tokenizer{scan("1"), scan("1 +"), scan("2")}
	_, err = ParseAll(context.Background(), table, actions, tokenizers)
	var perr *ParseError
	if !errors.As(err, &perr) || !strings.Contains(err.Error(), "input #1") {
		t.Errorf("expected parse error for input #1, have %v", err)
	}
}
