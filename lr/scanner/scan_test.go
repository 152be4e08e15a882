package scanner

import (
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/clr"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var inputStrings = []string{
	"1",
	"1+12",
	"Hello #World",
	`x="mystring" // commented `,
	"1,22,333",
}

var tokenCounts = []int{1, 3, 3, 3, 5}

func TestScan1(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.scanner")
	defer teardown()
	//
	for i, input := range inputStrings {
		t.Logf("------+-----------------+--------")
		reader := strings.NewReader(input)
		name := fmt.Sprintf("input #%d", i)
		scanner := GoTokenizer(name, reader)
		token := scanner.NextToken()
		count := 0
		for token.TokType() != EOF {
			t.Logf(" %4d | %15s | @%5d", token.TokType(), token.Lexeme(), token.Span().From())
			token = scanner.NextToken()
			count++
		}
		if count != tokenCounts[i] {
			t.Errorf("Expected token count for #%d to be %d, is %d", i, tokenCounts[i], count)
		}
	}
	t.Logf("------+-----------------+--------")
}

func TestScanLocationsAndValues(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.scanner")
	defer teardown()
	//
	scanner := GoTokenizer("calc", strings.NewReader("1 +\n  2.5 \"s\""), ConvertValues(true))
	var toks []clr.Token
	for tok := scanner.NextToken(); tok.TokType() != EOF; tok = scanner.NextToken() {
		toks = append(toks, tok)
	}
	if len(toks) != 4 {
		t.Fatalf("expected 4 tokens, have %d", len(toks))
	}
	if v, ok := toks[0].Value().(int64); !ok || v != 1 {
		t.Errorf("expected int value 1, have %v", toks[0].Value())
	}
	if v, ok := toks[2].Value().(float64); !ok || v != 2.5 {
		t.Errorf("expected float value 2.5, have %v", toks[2].Value())
	}
	if v, ok := toks[3].Value().(string); !ok || v != "s" {
		t.Errorf("expected unquoted string value, have %v", toks[3].Value())
	}
	loc, ok := clr.LocationOf(toks[2])
	if !ok || loc.Line != 2 || loc.Column != 3 || loc.Source != "calc" {
		t.Errorf("expected token 2.5 at calc:2:3, is at %v", loc)
	}
	if toks[1].Value() != nil {
		t.Errorf("operator tokens should not carry a value")
	}
}

func TestScanOptions(t *testing.T) {
	scanner := GoTokenizer("opts", strings.NewReader("// c\n'x'"), SkipComments(false), UnifyStrings(true))
	if scanner.hasmode(optionSkipComments) {
		t.Errorf("expected comments not to be skipped")
	}
	if tok := scanner.NextToken(); tok.TokType() != Comment {
		t.Errorf("expected a comment token, have %v", tok)
	}
	if tok := scanner.NextToken(); tok.TokType() != String {
		t.Errorf("expected char literal to be unified to a string, have %v", tok)
	}
	var errs []error
	scanner = GoTokenizer("err", strings.NewReader(`"unterminated`))
	scanner.SetErrorHandler(func(e error) { errs = append(errs, e) })
	scanner.NextToken()
	if len(errs) == 0 {
		t.Errorf("expected scanner error to be reported to the handler")
	}
}

func TestTokenSlice(t *testing.T) {
	ts := NewTokenSlice(
		MakeDefaultToken(Int, "1", clr.Span{0, 1}),
		MakeDefaultToken('+', "+", clr.Span{1, 2}),
	)
	for i := 0; i < 2; i++ {
		if tok := ts.NextToken(); tok.TokType() == EOF {
			t.Fatalf("premature EOF at token %d", i)
		}
	}
	for i := 0; i < 2; i++ {
		tok := ts.NextToken()
		if tok.TokType() != EOF || tok.Span() != (clr.Span{2, 2}) {
			t.Errorf("expected EOF at end of input, have %v", tok)
		}
	}
}
