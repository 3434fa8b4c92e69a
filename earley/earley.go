/*
Package earley provides a generic Earley recognizer.

Earley's algorithm recognizes any context-free grammar, ambiguous or not,
without the grammar-shape restrictions of LL- or LR-parsing. The recognizer
here follows the classic construction: given an input

    x1 x2 … xn,

it builds n+1 state sets, an initial set S0 and one set Si for each input
symbol xi. Elements of these sets are Earley items [A→α•β, j], which
consist of three parts: a grammar rule, a position in the right-hand side
of the rule indicating how much of that rule has been seen, and a pointer
to the earlier state set where the match began.

Each state set acts as a work queue while it is being built: items are
examined in order, applying the Scanner, Predictor and Completer steps, and
items these steps derive are appended onto the end of the set. State sets
live in a spanlist.List, whose stable-address live views make this
iterate-while-appending discipline safe.

Prediction of nullable nonterminals additionally produces a dot-advanced
copy of the predicting item, following "Practical Earley Parsing" by John
Aycock and R. Nigel Horspool, 2002
(http://citeseerx.ist.psu.edu/viewdoc/download?doi=10.1.1.12.4254&rep=rep1&type=pdf).
Without this correction, completions that depend on an ε-derivation can be
missed when the producing item has not yet been added.

The recognizer is parameterized over the application's symbol type S and
token type T; see earlybird.Alphabet for the obligations of S.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package earley

import (
	"github.com/npillmayer/earlybird/grammar"
	"github.com/npillmayer/earlybird/spanlist"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'earlybird.earley'.
func tracer() tracing.Trace {
	return tracing.Select("earlybird.earley")
}

// StateSets is the segmented item store a parse produces: segment i holds
// state set Si, the set of Earley items live after consuming i input
// tokens.
type StateSets = spanlist.List[Item]

// TokenStream is a single-pass sequence of input tokens. The recognizer
// pulls one token per state-set transition and never rewinds.
type TokenStream[T any] interface {
	Next() (T, bool)
}

type sliceStream[T any] struct {
	toks []T
}

func (s *sliceStream[T]) Next() (T, bool) {
	if len(s.toks) == 0 {
		var none T
		return none, false
	}
	tok := s.toks[0]
	s.toks = s.toks[1:]
	return tok, true
}

// SliceTokens wraps a token slice into a TokenStream.
func SliceTokens[T any](toks []T) TokenStream[T] {
	return &sliceStream[T]{toks: toks}
}

// Recognizer executes Earley parses for one grammar and start symbol.
// Create and initialize one with earley.NewRecognizer(…). A Recognizer is
// good for repeated parses, one at a time; the grammar may be shared
// between several recognizers.
type Recognizer[S comparable, T any] struct {
	g      *grammar.Grammar[S, T] // the indexed grammar we operate on
	start  S                      // root symbol of the derivations we look for
	states *StateSets             // state sets of the last parse
	tokens []T                    // input tokens consumed, if requested
	mode   uint                   // flags controlling some behaviour
}

// NewRecognizer creates and initializes an Earley recognizer.
func NewRecognizer[S comparable, T any](g *grammar.Grammar[S, T], start S,
	opts ...Option[S, T]) *Recognizer[S, T] {
	//
	p := &Recognizer[S, T]{
		g:     g,
		start: start,
		mode:  optionStoreTokens,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse runs the recognizer over a single-pass input. itemCapacity bounds
// the total number of Earley items across the whole parse; exceeding it
// surfaces varray.ErrOutOfCapacity, with the state sets built so far left
// available for inspection.
//
// On return, segment i of the state sets is Si, and the number of segments
// is k+1, where k is the number of tokens consumed before no further
// progress was possible (k = input length for a complete parse). Whether
// a full parse exists is a separate question; ask FindFullParse.
func (p *Recognizer[S, T]) Parse(itemCapacity int, input TokenStream[T]) (*StateSets, error) {
	states, err := spanlist.New[Item](itemCapacity)
	if err != nil {
		return nil, err
	}
	p.states = states
	p.tokens = p.tokens[:0]
	states.OpenSegment() // S0
	first, last := p.g.RulesFor(p.start)
	for r := first; r < last; r++ { // S0 = { [start→•α, 0] … }
		if err := p.insert(states.CurrentSegment(), Item{Rule: uint16(r)}); err != nil {
			return states, err
		}
	}
	tok, haveTok := input.Next()
	var staged []Item // scans for the next state set
	for pos := 0; ; pos++ {
		set := states.CurrentSegment()
		if set.Empty() { // no livable items: input beyond pos-1 stays unconsumed
			break
		}
		staged = staged[:0]
		for i := 0; i < set.Len(); i++ { // set grows while we walk it
			item := *set.At(i)
			rule := p.g.Rule(int(item.Rule))
			if int(item.Progress) == len(rule.RHS) {
				if err := p.complete(set, item); err != nil {
					return states, err
				}
			} else if x := rule.RHS[item.Progress]; p.g.IsTerminal(x) {
				if haveTok && p.g.MatchesTerminal(x, tok) {
					staged = append(staged, item.advance())
				}
			} else {
				if err := p.predict(set, item, x, pos); err != nil {
					return states, err
				}
			}
		}
		p.dumpState(pos)
		if len(staged) == 0 { // nothing scanned: Si+1 would be empty
			break
		}
		states.OpenSegment()
		if err := states.Append(staged...); err != nil {
			return states, err
		}
		if p.hasmode(optionStoreTokens) {
			p.tokens = append(p.tokens, tok)
		}
		tok, haveTok = input.Next()
	}
	return states, nil
}

// Completer:
// If [A→…•, j] is in Si, add [B→…A•…, k] to Si for all items [B→…•A…, k] in Sj.
func (p *Recognizer[S, T]) complete(set spanlist.Span[Item], item Item) error {
	lhs := p.g.Rule(int(item.Rule)).LHS
	origin := p.states.Segment(int(item.Origin))
	for j := 0; j < origin.Len(); j++ {
		parent := *origin.At(j)
		rule := p.g.Rule(int(parent.Rule))
		if int(parent.Progress) < len(rule.RHS) && rule.RHS[parent.Progress] == lhs {
			if err := p.insert(set, parent.advance()); err != nil {
				return err
			}
		}
	}
	return nil
}

// Predictor:
// If [A→…•B…, j] is in Si, add [B→•α, i] to Si for all rules B→α.
// If B is nullable, also add [A→…B•…, j] to Si (Aycock-Horspool).
func (p *Recognizer[S, T]) predict(set spanlist.Span[Item], item Item, x S, pos int) error {
	first, last := p.g.RulesFor(x)
	for r := first; r < last; r++ {
		if err := p.insert(set, Item{Rule: uint16(r), Origin: uint32(pos)}); err != nil {
			return err
		}
	}
	if p.g.IsNullable(x) {
		return p.insert(set, item.advance())
	}
	return nil
}

// insert adds an item to a state set unless an equal item is already
// present. The linear scan is fine for moderate state-set sizes; a
// per-segment hash index would not change the semantics.
func (p *Recognizer[S, T]) insert(set spanlist.Span[Item], item Item) error {
	for i := 0; i < set.Len(); i++ {
		if *set.At(i) == item {
			return nil
		}
	}
	return p.states.Push(item)
}

// StateSets returns the state sets of the last parse, or nil before the
// first one.
func (p *Recognizer[S, T]) StateSets() *StateSets {
	return p.states
}

// TokenCount returns the number of input tokens the last parse consumed.
// It counts stored tokens, so it is 0 if token storing was switched off.
func (p *Recognizer[S, T]) TokenCount() int {
	return len(p.tokens)
}

// TokenAt returns the input token consumed between state sets Spos and
// Spos+1. Only available if the recognizer stores tokens (the default).
func (p *Recognizer[S, T]) TokenAt(pos int) T {
	return p.tokens[pos]
}

// Parse is a one-shot convenience: it recognizes input against g with the
// given start symbol and returns the state sets.
func Parse[S comparable, T any](g *grammar.Grammar[S, T], start S, itemCapacity int,
	input TokenStream[T]) (*StateSets, error) {
	//
	return NewRecognizer(g, start).Parse(itemCapacity, input)
}

// --- Option handling --------------------------------------------------

// Option configures a recognizer.
type Option[S comparable, T any] func(p *Recognizer[S, T])

const (
	optionStoreTokens uint = 1 << 1 // remember all input tokens, defaults to true
)

// StoreTokens configures the recognizer to remember all consumed input
// tokens. This is necessary for listeners during derivation walks to have
// access to the tokens matched by terminals. Defaults to true.
func StoreTokens[S comparable, T any](b bool) Option[S, T] {
	return func(p *Recognizer[S, T]) {
		if b {
			p.mode |= optionStoreTokens
		} else {
			p.mode &^= optionStoreTokens
		}
	}
}

func (p *Recognizer[S, T]) hasmode(m uint) bool {
	return p.mode&m > 0
}
