package earley

import (
	"testing"

	"github.com/npillmayer/earlybird"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// --- Traversal with the low-level helpers -----------------------------

func TestTraversalOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "earlybird.earley")
	defer teardown()
	//
	p, states := parseExpr(t, "1+(8*9)")
	res, ok := FindFullParse(p.g, Sum, states, 7)
	if !ok {
		t.Fatalf("expected a full parse of '1+(8*9)'")
	}
	// Root is Sum → Sum [+-] Product (0). Walking its RHS right to left:
	seg := res.Segment()
	//
	// rightmost subcomponent: a completed Product, expected Product → Factor
	inx, ok := FindCompletedItem(p.g, seg.Span(), 0, Product)
	if !ok {
		t.Fatalf("no completed Product item in S7")
	}
	product := *seg.Span().At(inx)
	if r := p.g.Rule(int(product.Rule)); len(r.RHS) != 1 || r.RHS[0] != Factor {
		t.Errorf("expected completed 'Product → Factor', is %s", p.itemString(product))
	}
	AdvanceFromNonterminal(states, &seg, product)
	if seg.Pos() != 2 {
		t.Fatalf("after the Product subtree, S2 should be current, S%d is", seg.Pos())
	}
	//
	// next: the [+-] terminal, consumed by a scan from S1 into S2
	if tok := p.TokenAt(seg.Pos() - 1); tok != '+' {
		t.Errorf("expected the matched operator to be '+', is %q", tok)
	}
	AdvanceFromTerminal(&seg)
	if seg.Pos() != 1 {
		t.Fatalf("after the operator, S1 should be current, S%d is", seg.Pos())
	}
	//
	// leftmost subcomponent: a completed Sum, expected Sum → Product
	inx, ok = FindCompletedItem(p.g, seg.Span(), 0, Sum)
	if !ok {
		t.Fatalf("no completed Sum item in S1")
	}
	sum := *seg.Span().At(inx)
	if r := p.g.Rule(int(sum.Rule)); len(r.RHS) != 1 || r.RHS[0] != Product {
		t.Errorf("expected completed 'Sum → Product', is %s", p.itemString(sum))
	}
	if sum.Origin != 0 {
		t.Errorf("leftmost child must begin at position 0, begins at %d", sum.Origin)
	}
}

// --- Expression listener for testing ----------------------------------

type reducer func(rule int, children []*RuleNode[symbol]) interface{}

type exprListener struct {
	t        *testing.T
	dispatch map[symbol]reducer
}

func newExprListener(t *testing.T) *exprListener {
	el := &exprListener{t: t}
	el.dispatch = map[symbol]reducer{
		Sum:     el.reduceSum,
		Product: el.reduceProduct,
		Factor:  el.reduceFactor,
	}
	return el
}

func (el *exprListener) Reduce(lhs symbol, rule int, children []*RuleNode[symbol],
	extent earlybird.Span, level int) interface{} {
	//
	if r, ok := el.dispatch[lhs]; ok {
		return r(rule, children)
	}
	el.t.Logf("%sreduce %v", indent(level), lhs)
	return children[0].Value // Number → digit
}

func (el *exprListener) reduceSum(rule int, children []*RuleNode[symbol]) interface{} {
	v := children[0].Value // Product
	if len(children) > 1 {
		if children[1].Value.(rune) == '+' {
			v = children[0].Value.(int) + children[2].Value.(int)
		} else {
			v = children[0].Value.(int) - children[2].Value.(int)
		}
	}
	return v
}

func (el *exprListener) reduceProduct(rule int, children []*RuleNode[symbol]) interface{} {
	v := children[0].Value // Factor
	if len(children) > 1 {
		if children[1].Value.(rune) == '*' {
			v = children[0].Value.(int) * children[2].Value.(int)
		} else {
			v = children[0].Value.(int) / children[2].Value.(int)
		}
	}
	return v
}

func (el *exprListener) reduceFactor(rule int, children []*RuleNode[symbol]) interface{} {
	v := children[0].Value // Number
	if len(children) > 1 {
		v = children[1].Value // ( Sum )
	}
	return v
}

func (el *exprListener) Terminal(sym symbol, tok rune, span earlybird.Span,
	level int) interface{} {
	//
	el.t.Logf("%stoken %q", indent(level), tok)
	if sym == Digit {
		return int(tok - '0')
	}
	return tok
}

func indent(level int) string {
	in := ""
	for level > 0 {
		in = in + ". "
		level--
	}
	return in
}

// --- Listener walk tests ----------------------------------------------

func TestWalkDerivation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "earlybird.earley")
	defer teardown()
	//
	for _, tc := range []struct {
		input string
		value int
	}{
		{"1", 1},
		{"1+2*3", 7},
		{"1+(8*9)", 73},
		{"9-2-3", 4}, // (9-2)-3, the grammar is left-recursive
		{"8/2", 4},
	} {
		p, _ := parseExpr(t, tc.input)
		root := p.WalkDerivation(newExprListener(t))
		if root == nil {
			t.Fatalf("derivation walk of '%s' returned no tree", tc.input)
		}
		if root.Sym != Sum {
			t.Errorf("root node of '%s' should be a Sum, is %v", tc.input, root.Sym)
		}
		if value, ok := root.Value.(int); !ok || value != tc.value {
			t.Errorf("expected '%s' to evaluate to %d, got %v", tc.input, tc.value, root.Value)
		}
		if root.Extent.From() != 0 || root.Extent.To() != uint64(len(tc.input)) {
			t.Errorf("root of '%s' should cover %v, covers %v", tc.input,
				earlybird.Span{0, uint64(len(tc.input))}, root.Extent)
		}
	}
}

func TestWalkFailedParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "earlybird.earley")
	defer teardown()
	//
	p, _ := parseExpr(t, "1+")
	if root := p.WalkDerivation(newExprListener(t)); root != nil {
		t.Errorf("walk of a failed parse should return nil, returned %v", root)
	}
}

// Counting listener for derivations without terminals.
type countingListener struct {
	reductions int
}

func (cl *countingListener) Reduce(lhs abSymbol, rule int, children []*RuleNode[abSymbol],
	extent earlybird.Span, level int) interface{} {
	cl.reductions++
	return nil
}

func (cl *countingListener) Terminal(sym abSymbol, tok rune, span earlybird.Span,
	level int) interface{} {
	return nil
}

func TestWalkEpsilonDerivation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "earlybird.earley")
	defer teardown()
	//
	g := newABGrammar(t)
	p := NewRecognizer(g, symA)
	if _, err := p.Parse(100, SliceTokens([]rune{})); err != nil {
		t.Fatalf("parse of empty input failed: %v", err)
	}
	cl := &countingListener{}
	root := p.WalkDerivation(cl)
	if root == nil {
		t.Fatalf("empty input has a derivation for nullable A, walk found none")
	}
	if root.Sym != symA {
		t.Errorf("root should be A, is %v", root.Sym)
	}
	if cl.reductions != 1 { // the first full-parse item is A → ε
		t.Errorf("expected exactly 1 reduction for the ε-derivation, got %d", cl.reductions)
	}
}
