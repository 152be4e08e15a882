package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/clr/lr"
	"github.com/npillmayer/clr/lr/lr1"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func calculatorTable(t *testing.T) (*language, *lr.Table) {
	lang, err := calculator()
	if err != nil {
		t.Fatal(err)
	}
	lrgen, err := lang.tables()
	if err != nil {
		t.Fatal(err)
	}
	return lang, lrgen.Table()
}

func TestCalculator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.cli")
	defer teardown()
	//
	lang, table := calculatorTable(t)
	for input, want := range map[string]float64{
		"1 + 2 * (3 - 1)": 5,
		"-2 * 3":          -6,
		"10 / 4":          2.5,
		"1.5 + 1":         2.5,
		"2 - - 2":         4,
	} {
		result, err := lang.parse(table, "test", input)
		if err != nil {
			t.Errorf("%q: %v", input, err)
			continue
		}
		if result != want {
			t.Errorf("%q: expected %g, have %v", input, want, result)
		}
	}
	_, err := lang.parse(table, "test", "1 / (2 - 2)")
	var aerr *lr1.ActionError
	if !errors.As(err, &aerr) || !errors.Is(err, errDivisionByZero) {
		t.Errorf("expected division by zero, have %v", err)
	}
	if result, err := lang.parse(table, "test", "1 +"); err == nil || result != nil {
		t.Errorf("expected syntax error and no result for incomplete input, have %v", result)
	}
}

func TestParseLines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.cli")
	defer teardown()
	//
	lang, table := calculatorTable(t)
	results, err := parseLines(lang, table, "1+1\n\n2*3\n  7 \n")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]interface{}{2.0, 6.0, 7.0}, results); diff != "" {
		t.Errorf("unexpected results (-want +got):\n%s", diff)
	}
}

func TestBuildFormats(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.cli")
	defer teardown()
	//
	lang, _ := calculatorTable(t)
	for format, want := range map[string]string{
		"table":  "#clr-table\tCalculator\t",
		"pretty": "STATE",
		"html":   "<table",
	} {
		var buf bytes.Buffer
		if err := build(lang, &buf, format); err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if !strings.Contains(strings.ToUpper(buf.String()), strings.ToUpper(want)) {
			t.Errorf("%s: expected output to contain %q, have\n%s", format, want, buf.String())
		}
	}
	if err := build(lang, &bytes.Buffer{}, "xml"); err == nil {
		t.Errorf("expected error for unknown format")
	}
}

func writeGrammar(t *testing.T, src string) string {
	path := filepath.Join(t.TempDir(), "grammar.ebnf")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildReportsConflicts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.cli")
	defer teardown()
	//
	path := writeGrammar(t, `E = E "+" E | "a" .`)
	lang, err := loadLanguage(&options{grammar: path, start: "E"})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	err = build(lang, &buf, "table")
	var conflict *lr.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflict, have %v", err)
	}
	if !strings.HasPrefix(buf.String(), "shift/reduce conflict") {
		t.Errorf("expected conflict report, have %q", buf.String())
	}
	if _, err = loadLanguage(&options{grammar: path}); err == nil {
		t.Errorf("expected error for missing start production")
	}
}

func TestGrammarFileLanguage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.cli")
	defer teardown()
	//
	path := writeGrammar(t, `
Call  = name "(" [ Args ] ")" .
Args  = Call { "," Call } .
name  = "a" … "z" { "a" … "z" } .
`)
	lang, err := loadLanguage(&options{grammar: path, start: "Call"})
	if err != nil {
		t.Fatal(err)
	}
	lrgen, err := lang.tables()
	if err != nil {
		t.Fatal(err)
	}
	result, err := lang.parse(lrgen.Table(), "test", "f(g(), h())")
	if err != nil {
		t.Fatal(err)
	}
	ll := leveled(result.(*lr1.Node))
	if ll[0].Text != "Call" || ll[0].Level != 0 || ll[1].Text != `"f"` || ll[1].Level != 1 {
		t.Errorf("unexpected leveled list %v", ll)
	}
	if _, err = lang.parse(lrgen.Table(), "test", "f(g() h())"); err == nil {
		t.Errorf("expected syntax error for missing comma")
	}
	if result, err = lang.parse(lrgen.Table(), "test", "f(G())"); err == nil || result != nil {
		t.Errorf("expected scanner error and no result for upper case name, have %v", result)
	}
	var perr *lr1.ParseError
	if !errors.As(err, &perr) || perr.Err == nil {
		t.Errorf("expected parse error wrapping the scanner error, have %v", err)
	}
}

func TestReplCommands(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.cli")
	defer teardown()
	//
	lang, table := calculatorTable(t)
	intp := newIntp(lang, table)
	var out bytes.Buffer
	if quit, err := intp.Eval("6 * 7", &out); quit || err != nil || intp.lastValue != 42.0 {
		t.Errorf("expected 42, have %v (%v)", intp.lastValue, err)
	}
	if _, err := intp.Eval(":table", &out); err != nil || !strings.Contains(out.String(), "acc") {
		t.Errorf("expected table output, have %v\n%s", err, out.String())
	}
	path := filepath.Join(t.TempDir(), "calc.clr")
	if _, err := intp.Eval(":save "+path, &out); err != nil {
		t.Fatal(err)
	}
	if _, err := lang.loadTable(path); err != nil {
		t.Errorf("saved table cannot be loaded: %v", err)
	}
	if _, err := intp.Eval(":frobnicate", &out); err == nil {
		t.Errorf("expected error for unknown command")
	}
	if quit, _ := intp.Eval(":quit", &out); !quit {
		t.Errorf("expected :quit to end the session")
	}
}

func TestBuildCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.clr")
	root := newRootCommand()
	root.SetArgs([]string{"build", "-o", path, "--stack", "64"})
	root.SetOut(&bytes.Buffer{})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	lang, err := calculator()
	if err != nil {
		t.Fatal(err)
	}
	table, err := lang.loadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if result, err := lang.parse(table, "test", "(1+2)*3"); err != nil || result != 9.0 {
		t.Errorf("expected 9 from re-loaded table, have %v (%v)", result, err)
	}
}
