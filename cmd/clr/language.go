package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/clr/lr"
	"github.com/npillmayer/clr/lr/ebnf"
	"github.com/npillmayer/clr/lr/lr1"
	"github.com/npillmayer/clr/lr/scanner"
	"github.com/npillmayer/clr/lr/scanner/lexmach"
)

// language bundles everything needed to parse input of a language: the
// grammar, table generator options, a scanner factory and reduction actions.
type language struct {
	g       *lr.Grammar
	options []lr.Option
	actions *lr1.Actions // nil for parse trees
	lexer   *lexmach.LMAdapter
}

// loadLanguage loads the grammar of opts, or the built-in calculator grammar
// if no grammar file is given.
func loadLanguage(opts *options) (*language, error) {
	if opts.grammar == "" {
		return calculator()
	}
	f, err := os.Open(opts.grammar)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	start := opts.start
	if start == "" {
		return nil, fmt.Errorf("grammar %s: please name a start production with --start", opts.grammar)
	}
	spec, err := ebnf.Load(opts.grammar, f, start)
	if err != nil {
		return nil, err
	}
	lexer, err := spec.Lexer()
	if err != nil {
		return nil, fmt.Errorf("grammar %s: cannot create scanner: %w", opts.grammar, err)
	}
	return &language{
		g:       spec.Grammar,
		options: spec.Options,
		lexer:   lexer,
	}, nil
}

// tables builds the parse table for the language.
func (lang *language) tables() (*lr.TableGenerator, error) {
	lrgen := lr.NewTableGenerator(lr.Analysis(lang.g), lang.options...)
	if err := lrgen.CreateTables(); err != nil {
		return lrgen, err
	}
	for _, r := range lrgen.Resolutions() {
		tracer().Infof("%v", r)
	}
	tracer().Infof("%s: %d states, %d table entries", lang.g.Name,
		lrgen.Table().StateCount(), lrgen.Table().EntryCount())
	return lrgen, nil
}

// loadTable reads a table written by 'clr build' and checks it against the grammar.
func (lang *language) loadTable(filename string) (*lr.Table, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return lr.ReadTable(f, lang.g)
}

// scanner creates a tokenizer for an input, named source.
func (lang *language) scanner(source, input string) (scanner.Tokenizer, error) {
	if lang.lexer == nil {
		return scanner.GoTokenizer(source, strings.NewReader(input), scanner.ConvertValues(true)), nil
	}
	sc, err := lang.lexer.Scanner(input)
	if err != nil {
		return nil, err
	}
	sc.Source = source
	return sc, nil
}

// parse parses a single input with a table. Scanner errors abort the parse.
func (lang *language) parse(table *lr.Table, source, input string) (interface{}, error) {
	scan, err := lang.scanner(source, input)
	if err != nil {
		return nil, err
	}
	result, err := lr1.NewParser(table, lang.actions).Parse(scan)
	if err != nil {
		return nil, err
	}
	return result, nil
}
