package earley

import (
	"fmt"

	"github.com/npillmayer/earlybird"
	"github.com/npillmayer/earlybird/grammar"
	"github.com/npillmayer/earlybird/spanlist"
	"github.com/npillmayer/schuko/gconf"
)

// Result identifies a completed root item within the state sets: the
// segment holding the item, and the item's position within that segment.
type Result struct {
	seg   spanlist.Iterator[Item]
	index int
}

// Item returns the completed root item.
func (r Result) Item() Item {
	return *r.seg.Span().At(r.index)
}

// Segment returns an iterator addressing the state set containing the root
// item.
func (r Result) Segment() spanlist.Iterator[Item] {
	return r.seg
}

// FindFullParse searches state set S[inputLen] for the first item which is
// complete, starts at position 0, and has left-hand side start. The second
// return value is false if the state sets end before inputLen or no such
// item exists.
//
// If the grammar is ambiguous, several such items may exist; the first one
// wins. Callers wanting the alternatives have to enumerate the segment
// themselves.
func FindFullParse[S comparable, T any](g *grammar.Grammar[S, T], start S,
	states *StateSets, inputLen int) (Result, bool) {
	//
	if states == nil || states.SegmentCount() < inputLen+1 {
		return Result{}, false
	}
	seg := states.Begin().Add(inputLen)
	set := seg.Span()
	for i := 0; i < set.Len(); i++ {
		item := *set.At(i)
		if item.Origin != 0 {
			continue
		}
		rule := g.Rule(int(item.Rule))
		if int(item.Progress) == len(rule.RHS) && rule.LHS == start {
			tracer().Debugf("full parse: item %d of S%d", i, inputLen)
			return Result{seg: seg, index: i}, true
		}
	}
	return Result{}, false
}

// --- Traversal helpers ------------------------------------------------

// The walk over a derivation runs right to left: given a completed parent
// item we know the state set where the parent ended, and reading a child's
// Origin tells us where that child began — but nothing tells us where a
// child ended except the position of the sibling to its right. So the
// rightmost child is resolved first.

// AdvanceFromTerminal moves the segment cursor one state set back: the
// terminal under consideration was consumed by a scan, so the state set
// before it becomes relevant.
func AdvanceFromTerminal(seg *spanlist.Iterator[Item]) {
	seg.Dec()
}

// AdvanceFromNonterminal repositions the segment cursor at the state set
// where the completed child item began.
func AdvanceFromNonterminal(states *StateSets, seg *spanlist.Iterator[Item], completed Item) {
	*seg = states.Begin().Add(int(completed.Origin))
}

// FindCompletedItem searches set, beginning at position from, for a
// completed item with left-hand side sym. It returns the position of the
// first match; continuing the search from position+1 yields the
// alternatives of an ambiguous derivation.
//
// TODO the match is not filtered by start position, so for highly
// ambiguous grammars it may select a subderivation that cannot extend to
// the parent's origin.
func FindCompletedItem[S comparable, T any](g *grammar.Grammar[S, T],
	set spanlist.Span[Item], from int, sym S) (int, bool) {
	//
	for i := from; i < set.Len(); i++ {
		item := *set.At(i)
		rule := g.Rule(int(item.Rule))
		if int(item.Progress) == len(rule.RHS) && rule.LHS == sym {
			return i, true
		}
	}
	return 0, false
}

// --- Derivation listener ----------------------------------------------

// Listener is a type for walking a derivation. Reduce is called for every
// completed nonterminal, Terminal for every matched input token. The
// returned values propagate into the Value fields of the RuleNodes handed
// to enclosing Reduce calls.
type Listener[S comparable, T any] interface {
	Reduce(lhs S, rule int, rhs []*RuleNode[S], span earlybird.Span, level int) interface{}
	Terminal(sym S, tok T, span earlybird.Span, level int) interface{}
}

// RuleNode represents a node occurring during a derivation walk.
type RuleNode[S comparable] struct {
	Sym    S
	Extent earlybird.Span // span of input positions this node covers
	Value  interface{}    // user defined value
}

// WalkDerivation finds a full parse and walks one concrete derivation of
// it, calling the listener along the way. Children of a node are resolved
// right to left (see above), but handed to Reduce in left-to-right order.
// Returns nil if no full parse exists or the walk got stuck.
//
// The walk needs the consumed tokens, so the recognizer must have been
// left with token storing enabled.
func (p *Recognizer[S, T]) WalkDerivation(listener Listener[S, T]) *RuleNode[S] {
	tracer().Debugf("=== Walk ===============================")
	res, ok := FindFullParse(p.g, p.start, p.states, len(p.tokens))
	if !ok {
		return nil
	}
	return p.walk(res.Item(), res.Segment(), listener, 0)
}

func (p *Recognizer[S, T]) walk(item Item, seg spanlist.Iterator[Item],
	listener Listener[S, T], level int) *RuleNode[S] {
	//
	rule := p.g.Rule(int(item.Rule))
	extent := earlybird.Span{uint64(item.Origin), uint64(seg.Pos())}
	tracer().Debugf("walk from item %s %v", p.itemString(item), extent)
	nodes := make([]*RuleNode[S], len(rule.RHS))
	for n := len(rule.RHS) - 1; n >= 0; n-- { // iterate backwards over RHS symbols
		sym := rule.RHS[n]
		if p.g.IsTerminal(sym) {
			pos := seg.Pos()
			span := earlybird.Span{uint64(pos - 1), uint64(pos)}
			value := listener.Terminal(sym, p.tokens[pos-1], span, level+1)
			nodes[n] = &RuleNode[S]{Sym: sym, Extent: span, Value: value}
			AdvanceFromTerminal(&seg)
			continue
		}
		inx, ok := FindCompletedItem(p.g, seg.Span(), 0, sym)
		if !ok {
			if stuck(fmt.Sprintf("no completed item for %v in S%d", sym, seg.Pos())) {
				return nil
			}
		}
		child := *seg.Span().At(inx)
		nodes[n] = p.walk(child, seg, listener, level+1)
		if nodes[n] == nil {
			return nil
		}
		AdvanceFromNonterminal(p.states, &seg, child)
	}
	if seg.Pos() > int(item.Origin) {
		if stuck("did not reach start of rule derivation, walk is stuck") {
			return nil
		}
	}
	value := listener.Reduce(rule.LHS, int(item.Rule), nodes, extent, level)
	return &RuleNode[S]{Sym: rule.LHS, Extent: extent, Value: value}
}

func stuck(msg string) bool {
	tracer().Errorf(msg)
	if gconf.GetBool("panic-on-walk-stuck") {
		panic(`Earley derivation walk is stuck.

Configuration flag panic-on-walk-stuck is set to true. It is aimed at
helping to debug a grammar and do a post-mortem of why the walk got stuck.
If this is a production environment and you did not expect this to panic,
please unset panic-on-walk-stuck to its default (false).

` + msg)
	}
	return true
}
