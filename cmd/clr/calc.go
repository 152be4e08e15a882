package main

import (
	"errors"
	"fmt"

	"github.com/npillmayer/clr"
	"github.com/npillmayer/clr/lr"
	"github.com/npillmayer/clr/lr/lr1"
	"github.com/npillmayer/clr/lr/scanner"
)

// We provide a simple expression grammar as a default.
//
//  Expr   ➞ Expr SumOp Term  |  Term
//  Term   ➞ Term ProdOp Factor  |  Factor
//  Factor ➞ number  |  decimal  |  ( Expr )  |  - Factor
//  SumOp  ➞ +  |  -
//  ProdOp ➞ *  |  /
//
func calculator() (*language, error) {
	b := lr.NewGrammarBuilder("Calculator")
	b.LHS("Expr").N("Expr").N("SumOp").N("Term").End()
	b.LHS("Expr").N("Term").End()
	b.LHS("Term").N("Term").N("ProdOp").N("Factor").End()
	b.LHS("Term").N("Factor").End()
	b.LHS("Factor").T("number", scanner.Int).End()
	b.LHS("Factor").T("decimal", scanner.Float).End()
	b.LHS("Factor").T("(", '(').N("Expr").T(")", ')').End()
	b.LHS("Factor").T("-", '-').N("Factor").End()
	b.LHS("SumOp").T("+", '+').End()
	b.LHS("SumOp").T("-", '-').End()
	b.LHS("ProdOp").T("*", '*').End()
	b.LHS("ProdOp").T("/", '/').End()
	g, err := b.Grammar()
	if err != nil {
		return nil, err
	}
	actions := lr1.NewActions(g)
	binary := func(rule *lr.Rule, children []interface{}) (interface{}, error) {
		x, y := children[0].(float64), children[2].(float64)
		switch children[1].(clr.Token).Lexeme() {
		case "+":
			return x + y, nil
		case "-":
			return x - y, nil
		case "*":
			return x * y, nil
		case "/":
			if y == 0 {
				return nil, errDivisionByZero
			}
			return x / y, nil
		}
		return nil, fmt.Errorf("unknown operator in rule %s", rule.Production())
	}
	passOn := func(rule *lr.Rule, children []interface{}) (interface{}, error) {
		return children[0], nil
	}
	actions.On(g.Rule(1), binary).On(g.Rule(2), passOn)
	actions.On(g.Rule(3), binary).On(g.Rule(4), passOn)
	number := func(rule *lr.Rule, children []interface{}) (interface{}, error) {
		tok := children[0].(clr.Token)
		switch v := tok.Value().(type) {
		case int64:
			return float64(v), nil
		case float64:
			return v, nil
		}
		return nil, fmt.Errorf("not a number: %q", tok.Lexeme())
	}
	actions.On(g.Rule(5), number).On(g.Rule(6), number)
	actions.On(g.Rule(7), func(rule *lr.Rule, children []interface{}) (interface{}, error) {
		return children[1], nil
	})
	actions.On(g.Rule(8), func(rule *lr.Rule, children []interface{}) (interface{}, error) {
		return -children[1].(float64), nil
	})
	// operators are kept as tokens, for the binary action to inspect
	if err := actions.OnLHS("SumOp", passOn); err != nil {
		return nil, err
	}
	if err := actions.OnLHS("ProdOp", passOn); err != nil {
		return nil, err
	}
	return &language{g: g, actions: actions}, nil
}

var errDivisionByZero = errors.New("division by zero")
