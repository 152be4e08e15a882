package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/npillmayer/clr"
	"github.com/npillmayer/clr/lr"
	"github.com/npillmayer/clr/lr/lr1"
	"github.com/olekukonko/tablewriter"
	"github.com/pterm/pterm"
)

// printResult displays the result of a parse: a tree for parse trees, the
// plain value otherwise.
func printResult(result interface{}) {
	if root, ok := result.(*lr1.Node); ok {
		pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(leveled(root))).Render()
		return
	}
	pterm.Info.Println(fmt.Sprintf("%v", result))
}

// leveled flattens a parse tree into a pterm leveled list, in pre-order.
func leveled(root *lr1.Node) pterm.LeveledList {
	var ll pterm.LeveledList
	var walk func(n *lr1.Node, level int)
	walk = func(n *lr1.Node, level int) {
		ll = append(ll, pterm.LeveledListItem{Level: level, Text: n.Symbol().Name})
		for _, ch := range n.Children {
			switch c := ch.(type) {
			case *lr1.Node:
				walk(c, level+1)
			case clr.Token:
				ll = append(ll, pterm.LeveledListItem{Level: level + 1, Text: strconv.Quote(c.Lexeme())})
			}
		}
	}
	walk(root, 0)
	return ll
}

// printTable writes the action table as a text table, one row per state.
func printTable(w io.Writer, T *lr.Table) {
	cols := T.Columns()
	header := make([]string, len(cols)+1)
	header[0] = "state"
	for i, A := range cols {
		header[i+1] = A.Name
	}
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(header)
	tw.SetAutoFormatHeaders(false)
	tw.SetAlignment(tablewriter.ALIGN_CENTER)
	for state := 0; state < T.StateCount(); state++ {
		row := make([]string, len(cols)+1)
		row[0] = strconv.Itoa(state)
		for i, A := range cols {
			row[i+1] = T.Action(state, A).Cell()
		}
		tw.Append(row)
	}
	tw.Render()
}

// printConflict explains a conflict of the grammar.
func printConflict(w io.Writer, err *lr.ConflictError) {
	fmt.Fprintf(w, "%s conflict in state %d on %s: %v vs %v\n", err.Kind(), err.State,
		err.Symbol.Name, err.Existing, err.Incoming)
	for _, item := range err.Items {
		fmt.Fprintf(w, "    %s\n", item)
	}
}
