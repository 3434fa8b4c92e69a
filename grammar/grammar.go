/*
Package grammar holds rule tables for context-free grammars, together with
the index the Earley recognizer operates on.

A grammar is a set of production rules over an application-supplied symbol
type. The application describes its symbol inventory with an
earlybird.Alphabet; the grammar itself stays a plain, immutable value. The
index groups rules by left-hand side and knows for every nonterminal
whether it can derive the empty string.

Rule tables handed to New must keep all rules sharing a left-hand side at
contiguous indices. Grammars violating this produce undefined (but memory
safe) recognizer results; use the Builder to have the grouping done for
you.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package grammar

import (
	"fmt"

	"github.com/npillmayer/earlybird"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'earlybird.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("earlybird.grammar")
}

// A Rule is one production (LHS → RHS). The RHS may be empty, denoting an
// ε-production.
type Rule[S comparable] struct {
	LHS S
	RHS []S
}

// MaxRules bounds the size of a rule table: rule indices are dense 16 bit
// values, both in the grammar and inside Earley items.
const MaxRules = 1<<16 - 1

// ruleSpan is a half-open range [first,last) of rule indices.
type ruleSpan struct {
	first, last uint16
}

// Grammar is an indexed rule table. It is immutable after construction and
// may be shared between concurrent parses. The grammar borrows the rule
// table; callers must not mutate it afterwards.
type Grammar[S comparable, T any] struct {
	alphabet earlybird.Alphabet[S, T]
	rules    []Rule[S]
	spans    []ruleSpan // per symbol index: rules with this LHS
	nullable []uint64   // bitset per symbol index
}

// New indexes a rule table. The table must be grouped by LHS (see package
// documentation); grouping is not validated here. New fails if the table
// exceeds MaxRules or mentions a symbol outside the alphabet's index range.
func New[S comparable, T any](alphabet earlybird.Alphabet[S, T], rules []Rule[S]) (*Grammar[S, T], error) {
	if len(rules) > MaxRules {
		return nil, fmt.Errorf("grammar has %d rules, at most %d are supported", len(rules), MaxRules)
	}
	symcnt := alphabet.SymbolCount()
	g := &Grammar[S, T]{
		alphabet: alphabet,
		rules:    rules,
		spans:    make([]ruleSpan, symcnt),
		nullable: make([]uint64, (symcnt+63)/64),
	}
	for i, r := range rules {
		if inx := alphabet.Index(r.LHS); inx < 0 || inx >= symcnt {
			return nil, fmt.Errorf("rule %d uses symbol with index %d, outside of [0,%d)",
				i, inx, symcnt)
		}
		for _, sym := range r.RHS {
			if inx := alphabet.Index(sym); inx < 0 || inx >= symcnt {
				return nil, fmt.Errorf("rule %d uses symbol with index %d, outside of [0,%d)",
					i, inx, symcnt)
			}
		}
		span := &g.spans[alphabet.Index(r.LHS)]
		if span.last == span.first { // first rule for this LHS
			span.first = uint16(i)
			span.last = uint16(i + 1)
		} else {
			span.last = uint16(i + 1)
		}
	}
	g.closeNullables()
	return g, nil
}

// Rules returns the underlying rule table.
func (g *Grammar[S, T]) Rules() []Rule[S] {
	return g.rules
}

// Rule returns rule no. inx of the table.
func (g *Grammar[S, T]) Rule(inx int) Rule[S] {
	return g.rules[inx]
}

// RulesFor returns the half-open range [first,last) of indices of rules
// with left-hand side sym. The range is empty for terminals and for
// nonterminals without rules.
func (g *Grammar[S, T]) RulesFor(sym S) (first, last int) {
	span := g.spans[g.alphabet.Index(sym)]
	return int(span.first), int(span.last)
}

// IsNullable is a predicate: can sym derive the empty string? Constant
// time; terminals are never nullable.
func (g *Grammar[S, T]) IsNullable(sym S) bool {
	inx := g.alphabet.Index(sym)
	return g.nullable[inx/64]&(1<<(inx%64)) != 0
}

// Alphabet returns the symbol contract this grammar was built with.
func (g *Grammar[S, T]) Alphabet() earlybird.Alphabet[S, T] {
	return g.alphabet
}

// IsTerminal delegates to the alphabet.
func (g *Grammar[S, T]) IsTerminal(sym S) bool {
	return g.alphabet.IsTerminal(sym)
}

// MatchesTerminal delegates to the alphabet.
func (g *Grammar[S, T]) MatchesTerminal(sym S, tok T) bool {
	return g.alphabet.MatchesTerminal(sym, tok)
}

// closeNullables computes the least set of nullable nonterminals: N is
// nullable if some rule N → α exists with every symbol of α already
// nullable (vacuously true for α = ε). Iterates the rule table to a fixed
// point.
func (g *Grammar[S, T]) closeNullables() {
	for changed := true; changed; {
		changed = false
		for _, r := range g.rules {
			inx := g.alphabet.Index(r.LHS)
			if g.nullable[inx/64]&(1<<(inx%64)) != 0 {
				continue
			}
			allNullable := true
			for _, sym := range r.RHS {
				if g.alphabet.IsTerminal(sym) || !g.IsNullable(sym) {
					allNullable = false
					break
				}
			}
			if allNullable {
				g.nullable[inx/64] |= 1 << (inx % 64)
				changed = true
				tracer().Debugf("%v is nullable", r.LHS)
			}
		}
	}
}
