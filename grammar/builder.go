package grammar

import (
	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/npillmayer/earlybird"
	"golang.org/x/exp/slices"
)

// Builder collects production rules before indexing them into a Grammar.
// Rules may be added in any order; the builder groups them by left-hand
// side, so the resulting table satisfies the contiguity requirement of New.
// Duplicate rules are dropped.
//
// Example:
//
//     b := grammar.NewBuilder[symbol, rune](alphabet)
//     b.Rule(Sum, Sum, OpSum, Product)
//     b.Rule(Sum, Product)
//     g, err := b.Grammar()
//
type Builder[S comparable, T any] struct {
	alphabet earlybird.Alphabet[S, T]
	rules    *arraylist.List
	hashes   map[string]bool
}

// NewBuilder creates an empty builder over the given alphabet.
func NewBuilder[S comparable, T any](alphabet earlybird.Alphabet[S, T]) *Builder[S, T] {
	return &Builder[S, T]{
		alphabet: alphabet,
		rules:    arraylist.New(),
		hashes:   make(map[string]bool),
	}
}

// Rule adds the production lhs → rhs. Adding a rule a second time is a
// no-op. Returns the builder for chaining.
func (b *Builder[S, T]) Rule(lhs S, rhs ...S) *Builder[S, T] {
	r := Rule[S]{LHS: lhs, RHS: rhs}
	h, err := structhash.Hash(r, 1)
	if err != nil { // no reason for this to happen, but the API demands it
		panic(err)
	}
	if b.hashes[h] {
		tracer().Debugf("dropping duplicate rule for %v", lhs)
		return b
	}
	b.hashes[h] = true
	b.rules.Add(r)
	return b
}

// Epsilon adds the ε-production lhs → .
func (b *Builder[S, T]) Epsilon(lhs S) *Builder[S, T] {
	return b.Rule(lhs)
}

// Grammar groups the collected rules by left-hand side and indexes them.
// Groups appear in order of their first-added rule; within a group, rules
// keep insertion order.
func (b *Builder[S, T]) Grammar() (*Grammar[S, T], error) {
	rules := make([]Rule[S], 0, b.rules.Size())
	b.rules.Each(func(_ int, value interface{}) {
		rules = append(rules, value.(Rule[S]))
	})
	rank := make(map[S]int) // first-appearance rank per LHS
	for _, r := range rules {
		if _, ok := rank[r.LHS]; !ok {
			rank[r.LHS] = len(rank)
		}
	}
	slices.SortStableFunc(rules, func(a, b Rule[S]) bool {
		return rank[a.LHS] < rank[b.LHS]
	})
	return New(b.alphabet, rules)
}
