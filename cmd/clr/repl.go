package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/clr/lr"
	"github.com/pterm/pterm"
)

// Intp is our interpreter object
type Intp struct {
	lang      *language
	table     *lr.Table
	lastValue interface{}
	count     int // number of inputs parsed
}

func newIntp(lang *language, table *lr.Table) *Intp {
	return &Intp{lang: lang, table: table}
}

// REPL starts interactive mode.
func (intp *Intp) REPL(out io.Writer) error {
	repl, err := readline.New("clr> ")
	if err != nil {
		return err
	}
	defer repl.Close()
	pterm.Info.Println(fmt.Sprintf("Parsing %s, quit with <ctrl>D", intp.lang.g.Name))
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.Eval(line, out)
		if err != nil {
			reportError(err)
			continue
		}
		if quit {
			break
		}
	}
	fmt.Fprintln(out, "Good bye!")
	return nil
}

// Eval executes a command or parses a line of input.
func (intp *Intp) Eval(line string, out io.Writer) (bool, error) {
	if strings.HasPrefix(line, ":") {
		return intp.command(strings.Fields(line[1:]), out)
	}
	intp.count++
	result, err := intp.lang.parse(intp.table, fmt.Sprintf("input #%d", intp.count), line)
	if err != nil {
		return false, err
	}
	intp.lastValue = result
	printResult(result)
	return false, nil
}

func (intp *Intp) command(args []string, out io.Writer) (bool, error) {
	if len(args) == 0 {
		return false, fmt.Errorf("missing command")
	}
	switch args[0] {
	case "quit", "q":
		return true, nil
	case "table":
		printTable(out, intp.table)
	case "grammar":
		fmt.Fprint(out, intp.lang.g.Productions())
	case "save":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: :save <file>")
		}
		f, err := os.Create(args[1])
		if err != nil {
			return false, err
		}
		if _, err = intp.table.WriteTo(f); err != nil {
			f.Close()
			return false, err
		}
		if err = f.Close(); err != nil {
			return false, err
		}
		tracer().Infof("parse table saved to %s", args[1])
	default:
		return false, fmt.Errorf("unknown command :%s", args[0])
	}
	return false, nil
}
