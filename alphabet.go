package earlybird

// Alphabet is the contract between an application's symbol inventory and the
// recognizer. S is the application's grammar-symbol type, T its input-token
// type. Symbols are plain values; the alphabet supplies the classification
// and indexing the core needs:
//
//    SymbolCount     exclusive upper bound for Index
//    Index           dense injective mapping of symbols to [0, SymbolCount)
//    IsTerminal      terminal/nonterminal classification
//    MatchesTerminal match a terminal symbol against one input token
//
// Calling IsTerminal on a symbol which appears as a rule's left-hand side is
// undefined; the grammar is expected to be well-formed.
type Alphabet[S comparable, T any] interface {
	SymbolCount() int
	Index(sym S) int
	IsTerminal(sym S) bool
	MatchesTerminal(sym S, tok T) bool
}
