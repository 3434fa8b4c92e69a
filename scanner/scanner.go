/*
Package scanner defines a tokenizer interface for feeding the Earley
recognizer, plus two implementations: a thin wrapper over the Go std lib
'text/scanner', and an adapter for lexmachine.

The recognizer itself is token-agnostic; it consumes any single-pass
stream. This package is for applications whose tokens are classified
lexemes of a text: its tokenizers produce earlybird.Token values, and
Stream turns a tokenizer into the pull-stream the recognizer wants.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package scanner

import (
	"io"
	"text/scanner"

	"github.com/npillmayer/earlybird"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'earlybird.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("earlybird.scanner")
}

// The default tokenizer reuses the rune values of text/scanner as token
// kinds. The common ones are replicated here, so that clients matching on
// them need not import text/scanner themselves.
const (
	EOF    = scanner.EOF
	Ident  = scanner.Ident
	Int    = scanner.Int
	Float  = scanner.Float
	Char   = scanner.Char
	String = scanner.String
)

// Tokenizer is a scanner interface. NextToken returns a token with type
// EOF when the input is exhausted.
type Tokenizer interface {
	NextToken() earlybird.Token
	SetErrorHandler(func(error))
}

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// DefaultTokenizer is a default implementation, backed by scanner.Scanner.
// Create one with GoTokenizer.
type DefaultTokenizer struct {
	scanner.Scanner
	Error func(error) // error handler
}

var _ Tokenizer = (*DefaultTokenizer)(nil)

// GoTokenizer creates a tokenizer accepting tokens similar to the Go language.
func GoTokenizer(sourceID string, input io.Reader) *DefaultTokenizer {
	t := &DefaultTokenizer{}
	t.Error = logError
	t.Init(input)
	t.Filename = sourceID
	return t
}

// SetErrorHandler sets an error handler for the scanner.
func (t *DefaultTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.Error = logError
		return
	}
	t.Error = h
}

// NextToken is part of the Tokenizer interface.
func (t *DefaultTokenizer) NextToken() earlybird.Token {
	kind := t.Scan()
	if kind == scanner.EOF {
		tracer().Debugf("DefaultTokenizer reached end of input")
	}
	return DefaultToken{
		Kind: earlybird.TokType(kind),
		Text: t.TokenText(),
		Pos:  earlybird.Span{uint64(t.Position.Offset), uint64(t.Pos().Offset)},
	}
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is the plain token type both tokenizers of this package
// produce: a kind, a lexeme, a position — nothing else. It carries no
// semantic value; Value always answers nil, converting the lexeme is left
// to listeners.
type DefaultToken struct {
	Kind earlybird.TokType
	Text string
	Pos  earlybird.Span
}

var _ earlybird.Token = DefaultToken{}

func (t DefaultToken) TokType() earlybird.TokType { return t.Kind }
func (t DefaultToken) Lexeme() string             { return t.Text }
func (t DefaultToken) Value() interface{}         { return nil }
func (t DefaultToken) Span() earlybird.Span       { return t.Pos }

// --- Token streams ----------------------------------------------------

// TokenStream adapts a Tokenizer to the single-pass pull stream the
// recognizer consumes. The stream ends at the tokenizer's EOF token.
type TokenStream struct {
	tz  Tokenizer
	eof bool
}

// Stream wraps a tokenizer into a TokenStream.
func Stream(tz Tokenizer) *TokenStream {
	return &TokenStream{tz: tz}
}

// Next returns the next token, or false at end of input.
func (s *TokenStream) Next() (earlybird.Token, bool) {
	if s.eof {
		return nil, false
	}
	tok := s.tz.NextToken()
	if tok.TokType() == EOF {
		s.eof = true
		return nil, false
	}
	return tok, true
}
