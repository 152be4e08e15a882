package lr

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cnf/structhash"
)

// Serialized tables are tab-separated text:
//
//     #clr-table  <grammar name>  <grammar fingerprint>  <number of states>
//     state       #eof   +   num   E   T        ← every symbol with an entry
//     0                      s3    1   2
//     1           acc    s4
//     …
//     %%
//     0           E' → E                         ← rule index and production
//     1           E → E + T
//     …
//
// Cells are s<N> (shift to state N), r<N> (reduce by rule N), acc, a bare
// state number for gotos, or empty. Writing the same table twice gives
// identical output.

const (
	tableMagic    = "#clr-table"
	tableRulesSep = "%%"
)

// grammarPrint is the hash input identifying a grammar.
type grammarPrint struct {
	Name    string
	Symbols []string
	Rules   []string
}

// Fingerprint returns a hash identifying the grammar's symbols, token values and rules.
func (g *Grammar) Fingerprint() string {
	gp := grammarPrint{Name: g.Name}
	for _, A := range g.space.byID {
		gp.Symbols = append(gp.Symbols, A.Dump())
	}
	for _, r := range g.rules {
		gp.Rules = append(gp.Rules, r.Production())
	}
	h, err := structhash.Hash(gp, 1)
	if err != nil {
		tracer().Errorf("cannot hash grammar %s: %v", g.Name, err)
		return ""
	}
	return h
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// WriteTo writes the table in textual form. It implements io.WriterTo.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	out := csv.NewWriter(cw)
	out.Comma = '\t'
	cols := t.Columns()
	out.Write([]string{tableMagic, t.g.Name, t.g.Fingerprint(), strconv.Itoa(t.StateCount())})
	header := make([]string, 0, len(cols)+1)
	header = append(header, "state")
	for _, A := range cols {
		header = append(header, A.Name)
	}
	out.Write(header)
	row := make([]string, len(cols)+1)
	for state := 0; state < t.StateCount(); state++ {
		row[0] = strconv.Itoa(state)
		for k, A := range cols {
			row[k+1] = t.Action(state, A).Cell()
		}
		out.Write(row)
	}
	out.Write([]string{tableRulesSep})
	for _, r := range t.g.rules {
		out.Write([]string{strconv.Itoa(r.Serial), r.Production()})
	}
	out.Flush()
	return cw.n, out.Error()
}

// ReadTable reads a table in the format written by Table.WriteTo. The grammar
// has to be the one the table has been built from; this is checked by fingerprint
// and by comparing the rule section to the grammar's rules.
func ReadTable(r io.Reader, g *Grammar) (*Table, error) {
	in := csv.NewReader(r)
	in.Comma = '\t'
	in.FieldsPerRecord = -1
	line := 0
	next := func() ([]string, error) {
		line++
		rec, err := in.Read()
		if err == io.EOF {
			return nil, &TableFormatError{Line: line, Msg: "unexpected end of input"}
		}
		if err != nil {
			return nil, &TableFormatError{Line: line, Msg: err.Error()}
		}
		return rec, nil
	}
	rec, err := next()
	if err != nil {
		return nil, err
	}
	if len(rec) != 4 || rec[0] != tableMagic {
		return nil, &TableFormatError{Line: line, Msg: "missing table header"}
	}
	if fp := g.Fingerprint(); rec[2] != fp {
		return nil, &TableFormatError{Line: line,
			Msg: fmt.Sprintf("table has been built for a different grammar (%s, not %s)", rec[1], g.Name)}
	}
	nstates, err := strconv.Atoi(rec[3])
	if err != nil || nstates <= 0 {
		return nil, &TableFormatError{Line: line, Msg: "illegal number of states"}
	}
	if rec, err = next(); err != nil {
		return nil, err
	}
	if len(rec) == 0 || rec[0] != "state" {
		return nil, &TableFormatError{Line: line, Msg: "missing column header"}
	}
	cols := make([]*Symbol, len(rec)-1)
	for k, name := range rec[1:] {
		if cols[k] = g.SymbolByName(name); cols[k] == nil {
			return nil, &TableFormatError{Line: line, Msg: fmt.Sprintf("unknown symbol %q", name)}
		}
	}
	T := newTable(g, nstates)
	for state := 0; state < nstates; state++ {
		if rec, err = next(); err != nil {
			return nil, err
		}
		if len(rec) != len(cols)+1 || rec[0] != strconv.Itoa(state) {
			return nil, &TableFormatError{Line: line, Msg: fmt.Sprintf("malformed row for state %d", state)}
		}
		for k, cell := range rec[1:] {
			a, err := parseCell(cell, cols[k], nstates, g.Size())
			if err != nil {
				return nil, &TableFormatError{Line: line, Msg: err.Error()}
			}
			if !a.IsNone() {
				T.set(state, cols[k], a)
			}
		}
	}
	if rec, err = next(); err != nil {
		return nil, err
	}
	if len(rec) != 1 || rec[0] != tableRulesSep {
		return nil, &TableFormatError{Line: line, Msg: "missing rule section"}
	}
	for _, rule := range g.rules {
		if rec, err = next(); err != nil {
			return nil, err
		}
		if len(rec) != 2 || rec[0] != strconv.Itoa(rule.Serial) || rec[1] != rule.Production() {
			return nil, &TableFormatError{Line: line,
				Msg: fmt.Sprintf("rule %d does not match grammar, expected %q", rule.Serial, rule.Production())}
		}
	}
	line++
	if _, err := in.Read(); err != io.EOF {
		return nil, &TableFormatError{Line: line, Msg: "trailing input after rule section"}
	}
	tracer().Infof("loaded parser table for %s with %d states", g.Name, nstates)
	return T, nil
}

func parseCell(cell string, A *Symbol, nstates, nrules int) (Action, error) {
	if cell == "" {
		return Action{}, nil
	}
	if !A.IsTerminal() {
		n, err := strconv.Atoi(cell)
		if err != nil || n < 0 || n >= nstates {
			return Action{}, fmt.Errorf("illegal goto entry %q for %s", cell, A)
		}
		return Action{Kind: Goto, Target: n}, nil
	}
	if cell == "acc" {
		if !A.IsEOF() {
			return Action{}, fmt.Errorf("accept entry for %s, only allowed for %s", A, EOFName)
		}
		return Action{Kind: Accept}, nil
	}
	if len(cell) < 2 {
		return Action{}, fmt.Errorf("illegal action entry %q for %s", cell, A)
	}
	n, err := strconv.Atoi(cell[1:])
	if err != nil || n < 0 {
		return Action{}, fmt.Errorf("illegal action entry %q for %s", cell, A)
	}
	switch cell[0] {
	case 's':
		if n >= nstates {
			return Action{}, fmt.Errorf("shift to unknown state %d", n)
		}
		return Action{Kind: Shift, Target: n}, nil
	case 'r':
		if n >= nrules {
			return Action{}, fmt.Errorf("reduce by unknown rule %d", n)
		}
		return Action{Kind: Reduce, Target: n}, nil
	}
	return Action{}, fmt.Errorf("illegal action entry %q for %s", cell, A)
}
