package lr

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strings"
)

// CFSM2GraphViz exports a CFSM to the Graphviz Dot format.
func (c *CFSM) CFSM2GraphViz(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	it := c.states.Iterator()
	for it.Next() {
		s := it.Value().(*CFSMState)
		fmt.Fprintf(bw, "s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, forGraphviz(c.g, s.items))
	}
	it = c.edges.Iterator()
	for it.Next() {
		edge := it.Value().(*cfsmEdge)
		fmt.Fprintf(bw, "s%03d -> s%03d [label=\"%s\"]\n", edge.from.ID, edge.to.ID,
			dotEscape(edge.label.Name))
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

func nodecolor(state *CFSMState) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}

func forGraphviz(g *Grammar, S itemSet) string {
	var lines []string
	for _, i := range S.items() {
		lines = append(lines, dotEscape(i.Format(g)))
	}
	return strings.Join(lines, "\\l") + "\\l"
}

var dotReplacer = strings.NewReplacer(
	`\`, `\\`, `"`, `\"`, `{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`,
)

func dotEscape(s string) string {
	return dotReplacer.Replace(s)
}

// TableAsHTML exports the parser table in HTML-format.
func TableAsHTML(T *Table, w io.Writer) error {
	if T == nil {
		return fmt.Errorf("parser table not yet created, cannot export to HTML")
	}
	bw := bufio.NewWriter(w)
	bw.WriteString("<html><body>\n")
	fmt.Fprintf(bw, "<p>%s: parser table with %d states and %d entries</p>\n",
		html.EscapeString(T.g.Name), T.StateCount(), T.EntryCount())
	bw.WriteString("<table border=1 cellspacing=0 cellpadding=5>\n")
	bw.WriteString("<tr bgcolor=#cccccc><td></td>")
	cols := T.Columns()
	for _, A := range cols {
		fmt.Fprintf(bw, "<td>%s</td>", html.EscapeString(A.Name))
	}
	bw.WriteString("</tr>\n")
	for state := 0; state < T.StateCount(); state++ {
		fmt.Fprintf(bw, "<tr><td>state %d</td>", state)
		for _, A := range cols {
			td := T.Action(state, A).Cell()
			if td == "" {
				td = "&nbsp;"
			}
			fmt.Fprintf(bw, "<td>%s</td>", td)
		}
		bw.WriteString("</tr>\n")
	}
	bw.WriteString("</table></body></html>\n")
	return bw.Flush()
}
