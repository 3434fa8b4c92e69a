package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/earlybird"
	"github.com/npillmayer/earlybird/earley"
	"github.com/npillmayer/earlybird/grammar"
	"github.com/npillmayer/earlybird/scanner"
)

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/

// ebparse demonstrates the Earley recognizer on arithmetic expressions:
//
//    Sum     ➞ Sum [+-] Product  |  Product
//    Product ➞ Product [*/] Factor  |  Factor
//    Factor  ➞ ( Sum )  |  number
//
// Called with arguments, it parses them as one expression and exits with 0
// on success, 1 on a parse failure or usage error. Called without
// arguments, it starts an interactive prompt.

type exprSymbol int

const (
	Sum exprSymbol = iota
	Product
	Factor
	OpSum   // + or -
	OpProd  // * or /
	LParen  // (
	RParen  // )
	Number  // integer literal
	symbolCount
)

var symbolNames = []string{"Sum", "Product", "Factor",
	"[+-]", "[*/]", "'('", "')'", "number"}

func (sym exprSymbol) String() string {
	return symbolNames[sym]
}

// exprAlphabet matches terminals against tokens from scanner.GoTokenizer:
// operators and parentheses arrive with their rune as the token type,
// integer literals as scanner.Int.
type exprAlphabet struct{}

func (exprAlphabet) SymbolCount() int               { return int(symbolCount) }
func (exprAlphabet) Index(sym exprSymbol) int       { return int(sym) }
func (exprAlphabet) IsTerminal(sym exprSymbol) bool { return sym >= OpSum }

func (exprAlphabet) MatchesTerminal(sym exprSymbol, tok earlybird.Token) bool {
	switch sym {
	case OpSum:
		return tok.TokType() == '+' || tok.TokType() == '-'
	case OpProd:
		return tok.TokType() == '*' || tok.TokType() == '/'
	case LParen:
		return tok.TokType() == '('
	case RParen:
		return tok.TokType() == ')'
	case Number:
		return tok.TokType() == scanner.Int
	}
	return false
}

func makeExprGrammar() *grammar.Grammar[exprSymbol, earlybird.Token] {
	b := grammar.NewBuilder[exprSymbol, earlybird.Token](exprAlphabet{})
	b.Rule(Sum, Sum, OpSum, Product)
	b.Rule(Sum, Product)
	b.Rule(Product, Product, OpProd, Factor)
	b.Rule(Product, Factor)
	b.Rule(Factor, LParen, Sum, RParen)
	b.Rule(Factor, Number)
	g, err := b.Grammar()
	if err != nil {
		panic(fmt.Errorf("error creating grammar: %s", err.Error()))
	}
	return g
}

var itemCapacity = flag.Int("capacity", 100_000, "Earley item capacity per parse")

func main() {
	initDisplay()
	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)
	if err := flag.CommandLine.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1) // usage error, flag has printed the details
	}
	g := makeExprGrammar()
	if flag.NArg() > 0 { // one-shot mode
		input := strings.TrimSpace(strings.Join(flag.Args(), " "))
		if input == "" {
			pterm.Error.Println("usage: ebparse [expression]")
			os.Exit(1)
		}
		if !parseAndPrint(g, input) {
			os.Exit(1)
		}
		return
	}
	repl(g)
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func repl(g *grammar.Grammar[exprSymbol, earlybird.Token]) {
	pterm.Info.Println("Welcome to ebparse")
	pterm.Info.Println("Quit with <ctrl>D")
	rl, err := readline.New("ebparse> ")
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	defer rl.Close()
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF on <ctrl>D, readline.ErrInterrupt on <ctrl>C
			if err != io.EOF && err != readline.ErrInterrupt {
				pterm.Error.Println(err.Error())
			}
			return
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		parseAndPrint(g, line)
	}
}

// parseAndPrint recognizes input, walks the derivation and prints it,
// together with the value of the expression.
func parseAndPrint(g *grammar.Grammar[exprSymbol, earlybird.Token], input string) bool {
	tokens, ok := tokenize(input)
	if !ok {
		return false
	}
	p := earley.NewRecognizer(g, Sum)
	states, err := p.Parse(*itemCapacity, earley.SliceTokens(tokens))
	if err != nil {
		pterm.Error.Println(fmt.Sprintf("parse aborted: %v", err))
		return false
	}
	defer states.Release()
	if _, ok := earley.FindFullParse(g, Sum, states, len(tokens)); !ok {
		consumed := states.SegmentCount() - 1
		pterm.Error.Println(fmt.Sprintf("not a valid expression (parse stopped after %d of %d tokens)",
			consumed, len(tokens)))
		return false
	}
	root := p.WalkDerivation(&printingListener{})
	if root == nil {
		pterm.Error.Println("could not extract a derivation")
		return false
	}
	pterm.Info.Println(fmt.Sprintf("%s = %v", input, root.Value))
	return true
}

func tokenize(input string) ([]earlybird.Token, bool) {
	tz := scanner.GoTokenizer("ebparse", strings.NewReader(input))
	scanErr := false
	tz.SetErrorHandler(func(e error) {
		pterm.Error.Println(e.Error())
		scanErr = true
	})
	var tokens []earlybird.Token
	stream := scanner.Stream(tz)
	for {
		tok, ok := stream.Next()
		if !ok {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens, !scanErr
}

// printingListener evaluates the expression and prints every reduction,
// indented by derivation depth.
type printingListener struct{}

func (pl *printingListener) Reduce(lhs exprSymbol, rule int,
	children []*earley.RuleNode[exprSymbol], extent earlybird.Span, level int) interface{} {
	//
	var v interface{}
	switch {
	case lhs == Sum && len(children) == 3:
		if children[1].Value.(rune) == '+' {
			v = children[0].Value.(int) + children[2].Value.(int)
		} else {
			v = children[0].Value.(int) - children[2].Value.(int)
		}
	case lhs == Product && len(children) == 3:
		if children[1].Value.(rune) == '*' {
			v = children[0].Value.(int) * children[2].Value.(int)
		} else if d := children[2].Value.(int); d != 0 {
			v = children[0].Value.(int) / d
		} else {
			pterm.Error.Println("division by zero")
			v = 0
		}
	case lhs == Factor && len(children) == 3:
		v = children[1].Value // ( Sum )
	default:
		v = children[0].Value
	}
	pterm.Printf("%s%v %v = %v\n", strings.Repeat(". ", level), lhs, extent, v)
	return v
}

func (pl *printingListener) Terminal(sym exprSymbol, tok earlybird.Token,
	span earlybird.Span, level int) interface{} {
	//
	pterm.Printf("%s%q %v\n", strings.Repeat(". ", level), tok.Lexeme(), span)
	if sym == Number {
		n, err := strconv.Atoi(tok.Lexeme())
		if err != nil {
			pterm.Error.Println("not a number: " + tok.Lexeme())
			return 0
		}
		return n
	}
	return rune(tok.TokType())
}
