package grammar

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// A small arithmetic-expression symbol inventory over rune tokens.
//
//     Sum     → Sum [+-] Product  |  Product
//     Product → Product [*/] Factor  |  Factor
//     Factor  → '(' Sum ')'  |  Number
//     Number  → Number digit  |  digit Number  |  digit
//
type symbol int

const (
	Sum symbol = iota
	Product
	Factor
	Number
	OpSum   // [+-]
	OpProd  // [*/]
	LParen  // (
	RParen  // )
	Digit   // [0-9]
	symbolCount
)

type exprAlphabet struct{}

func (exprAlphabet) SymbolCount() int       { return int(symbolCount) }
func (exprAlphabet) Index(sym symbol) int   { return int(sym) }
func (exprAlphabet) IsTerminal(sym symbol) bool { return sym >= OpSum }

func (exprAlphabet) MatchesTerminal(sym symbol, tok rune) bool {
	switch sym {
	case OpSum:
		return tok == '+' || tok == '-'
	case OpProd:
		return tok == '*' || tok == '/'
	case LParen:
		return tok == '('
	case RParen:
		return tok == ')'
	case Digit:
		return tok >= '0' && tok <= '9'
	}
	return false
}

func exprGrammar(t *testing.T) *Grammar[symbol, rune] {
	b := NewBuilder[symbol, rune](exprAlphabet{})
	b.Rule(Sum, Sum, OpSum, Product)
	b.Rule(Sum, Product)
	b.Rule(Product, Product, OpProd, Factor)
	b.Rule(Product, Factor)
	b.Rule(Factor, LParen, Sum, RParen)
	b.Rule(Factor, Number)
	b.Rule(Number, Number, Digit)
	b.Rule(Number, Digit, Number)
	b.Rule(Number, Digit)
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar construction failed: %v", err)
	}
	return g
}

func TestRuleSpans(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "earlybird.grammar")
	defer teardown()
	//
	g := exprGrammar(t)
	first, last := g.RulesFor(Number)
	if last-first != 3 {
		t.Errorf("expected 3 rules for Number, have %d", last-first)
	}
	for inx := first; inx < last; inx++ {
		if g.Rule(inx).LHS != Number {
			t.Errorf("rule %d in Number's span has LHS %v", inx, g.Rule(inx).LHS)
		}
	}
	if first, last := g.RulesFor(Digit); first != last {
		t.Errorf("terminal Digit should have an empty rule span, has [%d,%d)", first, last)
	}
}

func TestRuleGrouping(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "earlybird.grammar")
	defer teardown()
	//
	// interleave rules of two nonterminals; the builder has to group them
	b := NewBuilder[symbol, rune](exprAlphabet{})
	b.Rule(Sum, Product)
	b.Rule(Product, Factor)
	b.Rule(Sum, Sum, OpSum, Product)
	b.Rule(Product, Product, OpProd, Factor)
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar construction failed: %v", err)
	}
	first, last := g.RulesFor(Sum)
	if first != 0 || last != 2 {
		t.Errorf("expected Sum's rules at [0,2), have [%d,%d)", first, last)
	}
	if len(g.Rule(0).RHS) != 1 || len(g.Rule(1).RHS) != 3 {
		t.Errorf("rules within the Sum group lost their insertion order")
	}
	first, last = g.RulesFor(Product)
	if first != 2 || last != 4 {
		t.Errorf("expected Product's rules at [2,4), have [%d,%d)", first, last)
	}
}

func TestDuplicateRulesDropped(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "earlybird.grammar")
	defer teardown()
	//
	b := NewBuilder[symbol, rune](exprAlphabet{})
	b.Rule(Sum, Product)
	b.Rule(Sum, Product)
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar construction failed: %v", err)
	}
	if len(g.Rules()) != 1 {
		t.Errorf("expected duplicate rule to be dropped, table has %d rules", len(g.Rules()))
	}
}

func TestNoNullablesInExprGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "earlybird.grammar")
	defer teardown()
	//
	g := exprGrammar(t)
	for sym := Sum; sym < symbolCount; sym++ {
		if g.IsNullable(sym) {
			t.Errorf("%v should not be nullable in the expression grammar", sym)
		}
	}
}

// Symbols for a cyclic nullable grammar  A → ε | B,  B → A.
type abSymbol int

const (
	symA abSymbol = iota
	symB
	symX // a terminal, unused by the rules
	abSymbolCount
)

type abAlphabet struct{}

func (abAlphabet) SymbolCount() int                        { return int(abSymbolCount) }
func (abAlphabet) Index(sym abSymbol) int                  { return int(sym) }
func (abAlphabet) IsTerminal(sym abSymbol) bool            { return sym == symX }
func (abAlphabet) MatchesTerminal(sym abSymbol, tok rune) bool { return sym == symX && tok == 'x' }

func TestNullableFixedPoint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "earlybird.grammar")
	defer teardown()
	//
	b := NewBuilder[abSymbol, rune](abAlphabet{})
	b.Epsilon(symA)
	b.Rule(symA, symB)
	b.Rule(symB, symA)
	g, err := b.Grammar()
	if err != nil {
		t.Fatalf("grammar construction failed: %v", err)
	}
	if !g.IsNullable(symA) {
		t.Errorf("A has an ε-production, must be nullable")
	}
	if !g.IsNullable(symB) {
		t.Errorf("B derives ε through A, must be nullable")
	}
	if g.IsNullable(symX) {
		t.Errorf("terminal x can never be nullable")
	}
}
