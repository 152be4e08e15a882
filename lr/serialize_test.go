package lr

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestWriteTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.lr")
	defer teardown()
	//
	g := makeSumGrammar(t)
	_, T := buildTable(t, g)
	var buf bytes.Buffer
	n, err := T.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo reported %d bytes, wrote %d", n, buf.Len())
	}
	lines := strings.Split(buf.String(), "\n")
	if !strings.HasPrefix(lines[0], "#clr-table\tG\tv1_") || !strings.HasSuffix(lines[0], "\t6") {
		t.Errorf("unexpected header %q", lines[0])
	}
	want := []string{
		"state\t#eof\t+\tnum\tE\tT",
		"0\t\t\ts1\t2\t3",
		"1\tr3\tr3\t\t\t",
		"2\tacc\ts4\t\t\t",
		"3\tr2\tr2\t\t\t",
		"4\t\t\ts1\t\t5",
		"5\tr1\tr1\t\t\t",
		"%%",
		"0\tE' → E",
		"1\tE → E + T",
		"2\tE → T",
		"3\tT → num",
		"",
	}
	if strings.Join(lines[1:], "\n") != strings.Join(want, "\n") {
		t.Errorf("unexpected table output:\n%s", buf.String())
	}
}

func TestTableRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.lr")
	defer teardown()
	//
	g, r := makeDanglingElseGrammar(t)
	_, T := buildTable(t, g, PreferShift(r, g.SymbolByName("else")))
	var buf bytes.Buffer
	if _, err := T.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	text := buf.String()
	T2, err := ReadTable(strings.NewReader(text), g)
	if err != nil {
		t.Fatal(err)
	}
	if T2.StateCount() != T.StateCount() || T2.EntryCount() != T.EntryCount() {
		t.Fatalf("re-loaded table differs in size")
	}
	for state := 0; state < T.StateCount(); state++ {
		for id := 0; id < g.SymbolCount(); id++ {
			if a, b := T.ActionFor(state, id), T2.ActionFor(state, id); a != b {
				t.Errorf("cell (%d, %s) differs: %v vs %v", state, g.Symbol(id), a, b)
			}
		}
	}
	var buf2 bytes.Buffer
	T2.WriteTo(&buf2)
	if buf2.String() != text {
		t.Errorf("re-loaded table does not serialize identically")
	}
}

func TestReadTableErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "clr.lr")
	defer teardown()
	//
	g := makeSumGrammar(t)
	_, T := buildTable(t, g)
	var buf bytes.Buffer
	T.WriteTo(&buf)
	good := buf.String()
	other, _ := makeDanglingElseGrammar(t)
	if _, err := ReadTable(strings.NewReader(good), other); err == nil {
		t.Errorf("expected error when loading a table for a different grammar")
	}
	corrupt := []string{
		"",
		strings.Replace(good, "s4", "s99", 1),
		strings.Replace(good, "r2", "x2", 1),
		strings.Replace(good, "\tnum\t", "\tfoo\t", 1),
		strings.Replace(good, "%%", "%", 1),
		strings.Replace(good, "\tacc\ts4", "\tacc\tacc", 1),
		good[:strings.Index(good, "3\tT → num")],
		good + "4\tX → y\n",
	}
	for i, text := range corrupt {
		_, err := ReadTable(strings.NewReader(text), g)
		var ferr *TableFormatError
		if !errors.As(err, &ferr) {
			t.Errorf("case %d: expected table format error, got %v", i, err)
		}
	}
}
