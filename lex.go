package fnplot

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Token is a single lexical element of an expression.
type Token struct {
	// Text is the source text of the token. Operator tokens spelled "**"
	// have the text "^". The EOF token has no text.
	Text string
	// Kind is the token's kind.
	Kind TokenKind
	// Pos is the 1-based rune column where the token starts.
	Pos int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// describe names the token for error messages.
func (t Token) describe() string {
	if t.Kind == TokenEOF {
		return "end of input"
	}
	return strconv.Quote(t.Text)
}

// TokenKind is the kind of a token.
type TokenKind int8

const (
	tokenNone TokenKind = iota
	// TokenEOF indicates the end of the input.
	TokenEOF
	// TokenNum is a decimal number.
	TokenNum
	// TokenIdent is a variable, constant, or function name.
	TokenIdent
	// TokenOp is an operator.
	TokenOp
	// TokenOpen is an open parenthesis.
	TokenOpen
	// TokenClose is a close parenthesis.
	TokenClose
	// TokenSep is a comma.
	TokenSep
)

func (k TokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case TokenEOF:
		return "EOF"
	case TokenNum:
		return "Num"
	case TokenIdent:
		return "Ident"
	case TokenOp:
		return "Op"
	case TokenOpen:
		return "Open"
	case TokenClose:
		return "Close"
	case TokenSep:
		return "Sep"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operators contains the runes which are considered to be operators. The
// two-rune operator "**" is an alias for "^".
const Operators = "+-*/^"

// stops contains the runes that end a number without being part of it.
const stops = Operators + "(),"

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
	eof  bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// next scans the next token from the input. The first time EOF is
// encountered, the result is an EOF token with a nil error. Subsequent times,
// the result is an empty token with io.EOF.
func (l *lexer) next() (Token, error) {
	if l.eof {
		return Token{}, io.EOF
	}
	defer l.buf.Reset()
	tok := Token{Pos: l.rune}
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.Kind = TokenEOF
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case unicode.IsSpace(r):
			tok.Pos++
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			if err := l.scanNum(tok.Pos); err != nil {
				return tok, err
			}
			tok.Text = l.buf.String()
			tok.Kind = TokenNum
			return tok, nil
		case r == '_', unicode.IsLetter(r):
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			tok.Text = l.buf.String()
			tok.Kind = TokenIdent
			return tok, nil
		case r == '*':
			tok.Kind = TokenOp
			tok.Text = "*"
			s, err := l.readRune()
			switch {
			case err == nil && s == '*':
				tok.Text = "^"
			case err == nil:
				l.unreadRune()
			case !errors.Is(err, io.EOF):
				return tok, err
			}
			return tok, nil
		case strings.ContainsRune(Operators, r):
			tok.Text = string(r)
			tok.Kind = TokenOp
			return tok, nil
		case r == '(':
			tok.Text = "("
			tok.Kind = TokenOpen
			return tok, nil
		case r == ')':
			tok.Text = ")"
			tok.Kind = TokenClose
			return tok, nil
		case r == ',':
			tok.Text = ","
			tok.Kind = TokenSep
			return tok, nil
		default:
			l.eof = true
			return tok, &LexError{Col: tok.Pos, Text: string(r), Rune: r}
		}
	}
}

// scanNum scans a decimal number with optional fraction and exponent into
// the lexer's buffer.
func (l *lexer) scanNum(pos int) error {
	var dig, dot, e, le, ed bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if unicode.IsSpace(r) {
			l.unreadRune()
			break
		}
		if (r == '+' || r == '-') && le {
			// Sign of an exponent.
			le = false
			l.buf.WriteRune(r)
			continue
		}
		if strings.ContainsRune(stops, r) {
			l.unreadRune()
			break
		}
		l.buf.WriteRune(r)
		switch r {
		case '.':
			if dot || e {
				return l.error(pos)
			}
			dot = true
			le = false
		case 'e', 'E':
			if !dig || e {
				return l.error(pos)
			}
			e = true
			le = true
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			if e {
				ed = true
			} else {
				dig = true
			}
			le = false
		default:
			return l.error(pos)
		}
	}
	if !dig || (e && !ed) {
		return l.error(pos)
	}
	return nil
}

func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// next unreads the rune that decides ident scanning before
				// calling scanIdent, so we have scanned at least one rune.
				return nil
			}
			return err
		}
		switch {
		case r == '_', r == '.', unicode.IsLetter(r), unicode.IsDigit(r):
			l.buf.WriteRune(r)
		default:
			l.unreadRune()
			return nil
		}
	}
}

// error creates an error for a malformed number starting at pos and stops
// the lexer.
func (l *lexer) error(pos int) error {
	l.eof = true
	return &LexError{
		Col:  pos,
		Text: l.buf.String(),
		Kind: "number",
	}
}

// Tokenize splits an expression into tokens. On success, the last token is
// always the EOF token.
func Tokenize(src string) ([]Token, error) {
	scan := lex(strings.NewReader(src))
	toks := make([]Token, 0, len(src)/2+1)
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks, nil
		}
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Col is the column of the start of the invalid token.
	Col int
	// Text is the invalid token. For malformed numbers, it is the text of
	// the number up to and including the rune that made it invalid.
	Text string
	// Kind is the type of token the lexer was scanning. It is "number" for
	// malformed numbers and the empty string for characters that cannot
	// start any token.
	Kind string
	// Rune is the unexpected character when Kind is empty.
	Rune rune
}

func (err *LexError) Error() string {
	if err.Kind == "" {
		return errpos(err.Col, "unexpected character "+strconv.QuoteRune(err.Rune))
	}
	return errpos(err.Col, "invalid "+err.Kind+" "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}
