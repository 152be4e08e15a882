package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/clr/lr"
	"github.com/npillmayer/clr/lr/lr1"
	"github.com/npillmayer/clr/lr/scanner"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// --- build -----------------------------------------------------------------

func newBuildCommand(opts *options) *cobra.Command {
	var output, format string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the parse table for a grammar",
		Long: `Build the canonical LR(1) parse table for a grammar and write it.

Conflicts are reported with the items responsible for them. The table is
written in the textual format read by 'clr parse --table', or, with
--format, as a pretty printed text table or as HTML.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := loadLanguage(opts)
			if err != nil {
				return err
			}
			return withOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return build(lang, w, format)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&format, "format", "table", "output format [table|pretty|html]")
	return cmd
}

func build(lang *language, w io.Writer, format string) error {
	lrgen, err := lang.tables()
	var conflict *lr.ConflictError
	if errors.As(err, &conflict) {
		printConflict(w, conflict)
		return err
	} else if err != nil {
		return err
	}
	switch format {
	case "pretty":
		printTable(w, lrgen.Table())
	case "html":
		return lr.TableAsHTML(lrgen.Table(), w)
	case "table", "":
		_, err = lrgen.Table().WriteTo(w)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}

// withOutput calls f with a writer for a file, or for out if filename is empty.
func withOutput(out io.Writer, filename string, f func(io.Writer) error) error {
	if filename == "" {
		return f(out)
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err = f(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// --- parse -----------------------------------------------------------------

func newParseCommand(opts *options) *cobra.Command {
	var tablefile string
	var lines bool
	cmd := &cobra.Command{
		Use:   "parse <input>…",
		Short: "Parse input",
		Long: `Parse input and print the parse tree, or the value for the built-in grammar.

Input is given as arguments, or read from stdin if the only argument is '-'.
With --lines, every line of input is parsed separately and concurrently.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := loadLanguage(opts)
			if err != nil {
				return err
			}
			table, err := parseTable(lang, tablefile)
			if err != nil {
				return err
			}
			input := strings.Join(args, " ")
			if input == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				input = string(b)
			}
			if lines {
				results, err := parseLines(lang, table, input)
				if err != nil {
					return err
				}
				for _, r := range results {
					printResult(r)
				}
				return nil
			}
			result, err := lang.parse(table, "input", input)
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}
	cmd.Flags().StringVar(&tablefile, "table", "", "parse table written by 'clr build'")
	cmd.Flags().BoolVar(&lines, "lines", false, "parse every line of input separately")
	return cmd
}

// parseTable loads a table from a file, or builds it if no file is given.
func parseTable(lang *language, tablefile string) (*lr.Table, error) {
	if tablefile != "" {
		return lang.loadTable(tablefile)
	}
	lrgen, err := lang.tables()
	if err != nil {
		return nil, err
	}
	return lrgen.Table(), nil
}

// parseLines parses the non-empty lines of input concurrently.
func parseLines(lang *language, table *lr.Table, input string) ([]interface{}, error) {
	var tokenizers []scanner.Tokenizer
	sc := bufio.NewScanner(strings.NewReader(input))
	for lineno := 1; sc.Scan(); lineno++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		tok, err := lang.scanner(fmt.Sprintf("line %d", lineno), line)
		if err != nil {
			return nil, err
		}
		tokenizers = append(tokenizers, tok)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lr1.ParseAll(context.Background(), table, lang.actions, tokenizers)
}

// --- dot -------------------------------------------------------------------

func newDotCommand(opts *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Write the LR(1) state machine in Graphviz format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := loadLanguage(opts)
			if err != nil {
				return err
			}
			lrgen, err := lang.tables()
			if err != nil {
				return err
			}
			return withOutput(cmd.OutOrStdout(), output, lrgen.CFSM().CFSM2GraphViz)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// --- repl ------------------------------------------------------------------

func newReplCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Parse input interactively",
		Long: `Start an interactive session. Every line is parsed and the result is printed.

Commands:
    :table        print the parse table
    :save <file>  save the parse table to a file
    :quit         end the session (or <ctrl>D)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := loadLanguage(opts)
			if err != nil {
				return err
			}
			lrgen, err := lang.tables()
			if err != nil {
				return err
			}
			return newIntp(lang, lrgen.Table()).REPL(cmd.OutOrStdout())
		},
	}
}

// reportError prints an error for interactive use.
func reportError(err error) {
	pterm.Error.Println(err.Error())
}
