package fnplot

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Expr = num | 'x' | const | Call | Neg | Add | Sub | Mul | Div | Pow | '(' Expr ')'
// Call = funcname '(' Expr ')'
// Neg = '-' Expr
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr
// Div = Expr '/' Expr
// Pow = Expr '^' Expr | Expr '**' Expr

// Expr is a parsed expression of the variable x. An Expr is never modified
// after parsing, so it is safe to evaluate concurrently.
type Expr struct {
	// n is the root node of the expression.
	n *node
}

// tokenSource produces tokens for the parser.
type tokenSource interface {
	next() (Token, error)
}

// sliceTokens is a tokenSource over already lexed tokens.
type sliceTokens struct {
	toks []Token
	k    int
}

func (s *sliceTokens) next() (Token, error) {
	if s.k < len(s.toks) {
		tok := s.toks[s.k]
		s.k++
		return tok, nil
	}
	// A token list without an EOF token ends after its last token.
	pos := 1
	if len(s.toks) > 0 {
		last := s.toks[len(s.toks)-1]
		pos = last.Pos + utf8.RuneCountInString(last.Text)
	}
	return Token{Kind: TokenEOF, Pos: pos}, nil
}

// scanner adds one token of pushback to a tokenSource.
type scanner struct {
	src tokenSource
	p   Token
}

// next scans the next token, which is the pushed token if there is one.
func (s *scanner) next() (Token, error) {
	if s.p.Kind != tokenNone {
		tok := s.p
		s.p = Token{}
		return tok, nil
	}
	return s.src.next()
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (s *scanner) push(tok Token) {
	if s.p.Kind != tokenNone {
		panic("fnplot: double push")
	}
	s.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (s *scanner) must() Token {
	tok := s.p
	if tok.Kind == tokenNone {
		panic("fnplot: no pushed token")
	}
	s.p = Token{}
	return tok
}

// Parse parses an expression. The given options are applied in order.
//
// Lexing happens as the parser needs tokens, so the first error in the input
// is the one reported: "eval('1')" fails on the unknown identifier eval
// before the lexer sees the quote.
func Parse(src string, opts ...ParseOption) (*Expr, error) {
	return parse(lex(strings.NewReader(src)), opts)
}

// ParseTokens parses an expression from tokens produced by Tokenize. Tokens
// after the first EOF token are ignored.
func ParseTokens(toks []Token, opts ...ParseOption) (*Expr, error) {
	return parse(&sliceTokens{toks: toks}, opts)
}

func parse(src tokenSource, opts []ParseOption) (*Expr, error) {
	var p parsectx
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	if p.funcs == nil {
		p.funcs = globalfuncs
	} else if !p.nodefaults {
		// Only set default functions that aren't already set.
		for k, v := range globalfuncs {
			if _, ok := p.funcs[k]; !ok {
				p.funcs[k] = v
			}
		}
	}
	scan := &scanner{src: src}
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.Kind == TokenEOF {
		return nil, &EmptyExpressionError{Col: tok.Pos}
	}
	scan.push(tok)
	n, err := parseterm(scan, &p, exprprec)
	if err != nil {
		return nil, err
	}
	if tok := scan.must(); tok.Kind != TokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok, false)
	}
	return &Expr{n: n}, nil
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// parseterm parses operands joined by binary operators at least as binding
// as until. If there is no error, then parseterm pushes the last token it
// scans, which is a close parenthesis, a separator, EOF, or an operator that
// binds less tightly than until.
func parseterm(scan *scanner, p *parsectx, until operator) (*node, error) {
	n, err := parselhs(scan, p, until)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case TokenOp:
			prec := binop(tok.Text)
			if prec.op == nodeNone {
				return nil, &UnexpectedTokenError{Col: tok.Pos, Expected: "operator", Found: tok.describe()}
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			n = &node{kind: prec.op, left: n, right: rhs}
		case TokenClose, TokenSep, TokenEOF:
			// End of expression.
			scan.push(tok)
			return n, nil
		default:
			// No implicit multiplication: 2 x, x(y), and pi x are errors.
			return nil, &UnexpectedTokenError{Col: tok.Pos, Expected: "operator", Found: tok.describe()}
		}
	}
}

// parselhs parses the first operand of a term. Operators are unary, and any
// token must be valid as the start of a subexpression.
func parselhs(scan *scanner, p *parsectx, until operator) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case TokenNum:
		v, err := strconv.ParseFloat(tok.Text, 64)
		// Out of range literals become ±Inf or 0. Evaluating an infinite
		// literal reports overflow at every point.
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, &LexError{Col: tok.Pos, Text: tok.Text, Kind: "number"}
		}
		return &node{kind: nodeNum, num: v, name: tok.Text}, nil
	case TokenIdent:
		return parseident(scan, p, tok)
	case TokenOp:
		prec := unop(tok.Text)
		if prec.op == nodeNone {
			return nil, &UnexpectedTokenError{Col: tok.Pos, Expected: "operand", Found: tok.describe()}
		}
		if !prec.moreBinding(until) {
			// x^-y -> x^(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := parseterm(scan, p, prec)
		if err != nil {
			return nil, err
		}
		return &node{kind: prec.op, left: rhs}, nil
	case TokenOpen:
		return parseparens(scan, p)
	default:
		return nil, &UnexpectedTokenError{Col: tok.Pos, Expected: "operand", Found: tok.describe()}
	}
}

// parseparens parses a parenthesized subexpression after its open
// parenthesis, consuming the close parenthesis.
func parseparens(scan *scanner, p *parsectx) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case TokenClose:
		return nil, &EmptyExpressionError{Col: tok.Pos, End: tok.Text}
	case TokenEOF:
		return nil, &UnbalancedParensError{Col: tok.Pos, Missing: ")"}
	}
	scan.push(tok)
	n, err := parseterm(scan, p, exprprec)
	if err != nil {
		return nil, err
	}
	if end := scan.must(); end.Kind != TokenClose {
		return nil, itShouldNotHaveEndedThisWay(end, true)
	}
	return n, nil
}

// parseident parses an identifier, which must be x or a whitelisted name.
func parseident(scan *scanner, p *parsectx, tok Token) (*node, error) {
	name := tok.Text
	if name == "x" {
		return &node{kind: nodeVar}, nil
	}
	fn := p.funcs[name]
	switch {
	case fn == nil:
		return nil, &UnknownIdentifierError{Col: tok.Pos, Name: name}
	case fn.CanCall(0):
		v, err := fn.Call(nil)
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeNum, num: v, name: name}, nil
	case fn.CanCall(1):
		open, err := scan.next()
		if err != nil {
			return nil, err
		}
		if open.Kind != TokenOpen {
			return nil, &UnexpectedTokenError{Col: open.Pos, Expected: `"(" after ` + name, Found: open.describe()}
		}
		arg, err := parseparens(scan, p)
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeCall, name: name, fn: fn, left: arg}, nil
	default:
		// Only constants and functions of one argument have syntax.
		return nil, &UnknownIdentifierError{Col: tok.Pos, Name: name}
	}
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. parens is whether the subexpression
// is inside parentheses.
func itShouldNotHaveEndedThisWay(tok Token, parens bool) error {
	switch {
	case tok.Kind == TokenEOF && parens:
		return &UnbalancedParensError{Col: tok.Pos, Missing: ")"}
	case tok.Kind == TokenClose && !parens:
		return &UnbalancedParensError{Col: tok.Pos, Missing: "("}
	case tok.Kind == TokenSep && parens:
		return &UnexpectedTokenError{Col: tok.Pos, Expected: `")"`, Found: tok.describe()}
	case tok.Kind == TokenSep:
		return &UnexpectedTokenError{Col: tok.Pos, Expected: "operator", Found: tok.describe()}
	default:
		panic("fnplot: it really should not have ended this way: " + tok.String())
	}
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	var b strings.Builder
	e.n.fmt(&b, false)
	return b.String()
}

// Source returns the expression fully parenthesized in the input syntax.
// Parsing the result gives an identical tree.
func (e *Expr) Source() string {
	var b strings.Builder
	e.n.plain(&b)
	return b.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*":
		return operator{5, false, nodeMul}
	case "/":
		return operator{5, false, nodeDiv}
	case "^":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "-":
		return operator{10, true, nodeNeg}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
