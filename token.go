package earlybird

import "fmt"

// --- Tokens -----------------------------------------------------------

// TokType categorizes a Token. The core defines no constants of it;
// applications choose their own inventory (scanner.GoTokenizer, for
// instance, reuses the rune values of text/scanner).
type TokType int

// TokTypeStringer translates token categories to a printable form.
// Scanner/parser combinations may provide one for diagnostics.
type TokTypeStringer func(TokType) string

// A Token is one classified piece of input, the way a scanner would
// deliver it. The recognizer never looks inside: tokens pass through it
// opaquely and are matched against terminal symbols by the grammar's
// Alphabet.
//
// A floating-point literal might travel as
//
//    TokType = Float       // application-chosen category
//    Lexeme  = "3.1416"    // the characters as they stood in the input
//    Value   = 3.1416      // converted value, or nil if the tokenizer does not convert
//    Span    = 67…73       // where in the input it stood
//
type Token interface {
	TokType() TokType
	Lexeme() string
	Value() interface{}
	Span() Span
}

// --- Spans ------------------------------------------------------------

// Span is a half-open range of input positions, (from…to). Derivation
// walks report a span for every tree node, telling which stretch of the
// input the node covers.
type Span [2]uint64 // (from…to)

// From returns the first position of the span.
func (s Span) From() uint64 { return s[0] }

// To returns the position just behind the span.
func (s Span) To() uint64 { return s[1] }

// Len returns the number of positions the span covers.
func (s Span) Len() uint64 { return s[1] - s[0] }

// IsNull is a predicate: is this the zero span?
func (s Span) IsNull() bool { return s == Span{} }

// Extend widens the span just enough to cover other as well.
func (s Span) Extend(other Span) Span {
	return Span{minPos(s[0], other[0]), maxPos(s[1], other[1])}
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}

func minPos(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

func maxPos(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
