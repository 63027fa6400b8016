package fnplot

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"testing"
)

// diff finds the first in-order node of n that differs from m, or nil, nil if
// the two ASTs are equal. If any node is nodeNone, it is returned.
func (n *node) diff(m *node) (*node, *node) {
	if n == nil {
		if m != nil {
			return n, m
		}
		return nil, nil
	}
	if m == nil {
		return n, m
	}
	if n.kind == nodeNone || m.kind == nodeNone {
		return n, m
	}
	if n.kind != m.kind {
		return n, m
	}
	switch n.kind {
	case nodeNum:
		if n.num != m.num && !(math.IsNaN(n.num) && math.IsNaN(m.num)) {
			return n, m
		}
	case nodeVar:
		// nothing
	case nodeCall:
		if n.name != m.name {
			return n, m
		}
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
	case nodeNeg:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
		if d, e := n.right.diff(m.right); d != nil || e != nil {
			return d, e
		}
	default:
		panic(fmt.Errorf("invalid node kind: n=%+v m=%+v", n, m))
	}
	return nil, nil
}

// haskind checks whether a parse tree contains a node of the given type.
func (n *node) haskind(k nodeKind) bool {
	if n == nil {
		return false
	}
	if n.kind == k {
		return true
	}
	if n.left.haskind(k) {
		return true
	}
	return n.right.haskind(k)
}

type mockfn struct {
	can []int
}

func mockFunc(n ...int) Func {
	return mockfn{can: n}
}

func (f mockfn) Call(invoc []float64) (float64, error) {
	return float64(len(invoc)), nil
}

func (f mockfn) CanCall(n int) bool {
	for _, v := range f.can {
		if v == n {
			return true
		}
	}
	return false
}

var testfns = map[string]Func{
	"zero": mockFunc(0),
	"one":  mockFunc(1),
	"two":  mockFunc(2),
}

func TestOpPrecsExist(t *testing.T) {
	for _, r := range Operators {
		b := binop(string(r))
		u := unop(string(r))
		if b.op == nodeNone && u.op == nodeNone {
			t.Errorf("no operator for %c", r)
		}
	}
}

func TestNegBindsLooserThanPow(t *testing.T) {
	neg, pow, mul := unop("-"), binop("^"), binop("*")
	if !pow.moreBinding(neg) {
		t.Errorf("^ (%d) does not bind more tightly than unary - (%d)", pow.prec, neg.prec)
	}
	if !neg.moreBinding(mul) {
		t.Errorf("unary - (%d) does not bind more tightly than * (%d)", neg.prec, mul.prec)
	}
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"paren", "(x)", "x"},
		{"multi", "((((x))))", "x"},
		{"spaces", " \tx\n ", "x"},

		{"neg", "-x", "(-(x))"},
		{"negnum", "-1", "(-(1))"},
		{"add", "x+1", "((x)+(1))"},
		{"sub", "x-1", "((x)-(1))"},
		{"mul", "x*2", "((x)*(2))"},
		{"div", "x/2", "((x)/(2))"},
		{"pow", "x^2", "((x)^(2))"},
		{"starstar", "x**2", "x^2"},
		{"starstar-spaced", "x ** 2", "x^2"},

		{"add4", "x+1+2+3", "((x+1)+2)+3"},
		{"sub4", "x-1-2-3", "((x-1)-2)-3"},
		{"mul4", "x*1*2*3", "((x*1)*2)*3"},
		{"div4", "x/1/2/3", "((x/1)/2)/3"},
		{"pow3", "2^3^2", "2^(3^2)"},
		{"pow4", "x^1^2^3", "x^(1^(2^3))"},

		{"negpow", "-2^2", "-(2^2)"},
		{"negpowx", "-x^2", "-(x^2)"},
		{"desc", "x^2*3+4", "((x^2)*3)+4"},
		{"asc", "1+2*x^3", "1+(2*(x^3))"},
		{"negneg", "--x", "-(-x)"},
		{"negsub", "-x-x", "(-x)-x"},
		{"mulneg", "2*-x", "2*(-x)"},
		{"powneg", "x^-1", "x^(-1)"},
		{"pownegpow", "2^-x^-3", "2^(-(x^(-3)))"},
		{"pownegneg", "x^--2", "x^(-(-2))"},

		{"const", "pi*x", "(pi)*x"},
		{"call", "sin(x)", "sin((x))"},
		{"callpow", "sin(x)^2", "(sin(x))^2"},
		{"gauss", "exp(-x**2)", "exp(-(x^2))"},
		{"product", "sin(2*x) * cos(x/3)", "(sin((2*x)))*(cos((x/3)))"},
		{"nested", "sqrt(abs(log(x)))", "sqrt((abs((log((x))))))"},
		{"mock0", "zero*x", "(zero)*(x)"},
		{"mock1", "one(x+1)", "one((x+1))"},
	}
	preset := ParsingPreset(ParseFuncs(testfns))
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(c.a, preset)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.a, err)
			}
			b, err := Parse(c.b, preset)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.b, err)
			}
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.a, a.n, d, c.b, b.n, e)
			}
		})
	}
}

func TestParseExact(t *testing.T) {
	cases := []struct {
		name string
		src  string
		n    *node
	}{
		{
			name: "var",
			src:  "x",
			n:    &node{kind: nodeVar},
		},
		{
			name: "pi",
			src:  "pi",
			n:    &node{kind: nodeNum, num: math.Pi, name: "pi"},
		},
		{
			name: "huge",
			src:  "1e999",
			n:    &node{kind: nodeNum, num: math.Inf(1), name: "1e999"},
		},
		{
			name: "call",
			src:  "sin(x)",
			n: &node{
				kind: nodeCall,
				name: "sin",
				left: &node{kind: nodeVar},
			},
		},
		{
			name: "negpow",
			src:  "-2^2",
			n: &node{
				kind: nodeNeg,
				left: &node{
					kind:  nodePow,
					left:  &node{kind: nodeNum, num: 2, name: "2"},
					right: &node{kind: nodeNum, num: 2, name: "2"},
				},
			},
		},
		{
			name: "mixed",
			src:  "2*x + 1",
			n: &node{
				kind: nodeAdd,
				left: &node{
					kind:  nodeMul,
					left:  &node{kind: nodeNum, num: 2, name: "2"},
					right: &node{kind: nodeVar},
				},
				right: &node{kind: nodeNum, num: 1, name: "1"},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(c.src)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.src, err)
			}
			d, e := a.n.diff(c.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\twant %v has %v", c.src, a.n, d, c.n, e)
			}
		})
	}
}

func TestExprString(t *testing.T) {
	cases := []struct {
		src    string
		str    string
		source string
	}{
		{"x", "(x)", "x"},
		{"-2^2", "(-[(2) ^ (2)])", "(-(2 ^ 2))"},
		{"sin(x)+1", "([sin(x)] + [1])", "(sin(x) + 1)"},
		{"x**2", "([x] ^ [2])", "(x ^ 2)"},
		{"pi*x", "([pi] * [x])", "(pi * x)"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			a, err := Parse(c.src)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.src, err)
			}
			if s := a.String(); s != c.str {
				t.Errorf("%q formatted as %q, want %q", c.src, s, c.str)
			}
			if s := a.Source(); s != c.source {
				t.Errorf("%q has source %q, want %q", c.src, s, c.source)
			}
		})
	}
}

func TestSourceRoundTrip(t *testing.T) {
	srcs := []string{
		"x",
		"-x^2",
		"2^-x^-3",
		"exp(-x**2)",
		"sin(2*x) * cos(x/3)",
		"1/(x-1) - log10(abs(x)) + e",
		"--x - -x",
		"1e999 * .5",
	}
	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			a, err := Parse(src)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", src, err)
			}
			s := a.Source()
			b, err := Parse(s)
			if err != nil {
				t.Fatalf("source %q of %q failed to parse: %v", s, src, err)
			}
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", src, a.n, d, s, b.n, e)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  InputError
		pos  int
		res  []string
	}{
		{"empty", "", new(EmptyExpressionError), 1, []string{`(?i)\bno expression\b`}},
		{"blank", "   ", new(EmptyExpressionError), 4, []string{`(?i)\bno expression\b`}},
		{"emptyparen", "()", new(EmptyExpressionError), 2, []string{`(?i)\bno expression\b`, `\)`}},
		{"emptycall", "sin()", new(EmptyExpressionError), 5, []string{`(?i)\bno expression\b`, `\)`}},

		{"open", "(", new(UnbalancedParensError), 2, []string{`(?i)\bopen parenthesis\b`}},
		{"left", "(x", new(UnbalancedParensError), 3, []string{`(?i)\bno close parenthesis\b`}},
		{"call-left", "sin(x", new(UnbalancedParensError), 6, []string{`(?i)\bno close parenthesis\b`}},
		{"right", "x)", new(UnbalancedParensError), 2, []string{`(?i)\bno open parenthesis\b`}},
		{"extra-right", "(x))", new(UnbalancedParensError), 4, []string{`(?i)\bno open parenthesis\b`}},

		{"dangling", "x*", new(UnexpectedTokenError), 3, []string{`(?i)\bexpected operand\b`, `(?i)\bend of input\b`}},
		{"dangling-pow", "x^", new(UnexpectedTokenError), 3, []string{`(?i)\bexpected operand\b`}},
		{"bare-neg", "-", new(UnexpectedTokenError), 2, []string{`(?i)\bexpected operand\b`}},
		{"nonunary", "*x", new(UnexpectedTokenError), 1, []string{`(?i)\bexpected operand\b`, `"\*"`}},
		{"unary-plus", "+x", new(UnexpectedTokenError), 1, []string{`(?i)\bexpected operand\b`, `"\+"`}},
		{"juxtapose", "2 x", new(UnexpectedTokenError), 3, []string{`(?i)\bexpected operator\b`, `"x"`}},
		{"paren-mul", "x(2)", new(UnexpectedTokenError), 2, []string{`(?i)\bexpected operator\b`, `"\("`}},
		{"const-call", "pi(2)", new(UnexpectedTokenError), 3, []string{`(?i)\bexpected operator\b`}},
		{"bare-call", "sin x", new(UnexpectedTokenError), 5, []string{`"\(" after sin`}},
		{"call-eof", "sin", new(UnexpectedTokenError), 4, []string{`"\(" after sin`, `(?i)\bend of input\b`}},
		{"sep", "x, x", new(UnexpectedTokenError), 2, []string{`(?i)\bexpected operator\b`, `","`}},
		{"call-sep", "log(x, 2)", new(UnexpectedTokenError), 6, []string{`expected "\)"`, `","`}},

		{"import", "import", new(UnknownIdentifierError), 1, []string{`"import"`}},
		{"open-call", "open(x)", new(UnknownIdentifierError), 1, []string{`"open"`}},
		{"dunder", "__class__", new(UnknownIdentifierError), 1, []string{`"__class__"`}},
		{"dotted", "os.system(x)", new(UnknownIdentifierError), 1, []string{`"os\.system"`}},
		{"upper", "X", new(UnknownIdentifierError), 1, []string{`"X"`}},
		{"other-var", "x + y", new(UnknownIdentifierError), 5, []string{`"y"`}},
		{"eval", "2*x + eval('1')", new(UnknownIdentifierError), 7, []string{`(?i)\bunknown identifier\b`, `"eval"`}},
		{"arity", "two(x)", new(UnknownIdentifierError), 1, []string{`"two"`}},

		{"semicolon", "x;", new(LexError), 2, []string{`';'`}},
		{"badnum", "2x", new(LexError), 1, []string{`(?i)\binvalid number\b`, `"2x"`}},
		{"lex-in-call", "exp(-$)", new(LexError), 6, []string{`\$`}},
	}
	preset := ParsingPreset(ParseFuncs(testfns))
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(c.src, preset)
			if a != nil {
				t.Errorf("%q parsed non-nil to %v", c.src, a.n)
			}
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Fatalf("wrong error type from %q: want %T, got %T (%v)", c.src, c.err, err, err)
			}
			if p := err.(InputError).Pos(); p != c.pos {
				t.Errorf("%q error at %d, want %d: %v", c.src, p, c.pos, err)
			}
			msg := err.Error()
			for _, re := range c.res {
				if !regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q does not match %s", msg, re)
				}
			}
		})
	}
}

func TestDefaultFuncsParse(t *testing.T) {
	names := DefaultFuncs()
	if len(names) != len(globalfuncs) {
		t.Fatalf("DefaultFuncs returned %d names for %d functions", len(names), len(globalfuncs))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %q before %q", names[i-1], names[i])
		}
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			src := name + "(x)"
			if globalfuncs[name].CanCall(0) {
				src = name
			}
			a, err := Parse(src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", src, err)
			}
			if globalfuncs[name].CanCall(0) == a.n.haskind(nodeCall) {
				t.Errorf("%q parsed to %v", src, a.n)
			}
			_, err = Parse(src, DisableDefaultFuncs())
			if _, ok := err.(*UnknownIdentifierError); !ok {
				t.Errorf("%q with defaults disabled gave %#v", src, err)
			}
		})
	}
}

func TestParseFuncs(t *testing.T) {
	sq := Monadic("sq", func(x float64) float64 { return x * x }, nil)

	t.Run("add", func(t *testing.T) {
		a, err := Parse("sq(x) + sin(x)", ParseFunc("sq", sq))
		if err != nil {
			t.Fatal(err)
		}
		if r, err := a.Eval(3); err != nil || r != 9+math.Sin(3) {
			t.Errorf("wrong result: %v, %v", r, err)
		}
	})
	t.Run("disable", func(t *testing.T) {
		if _, err := Parse("sin(x)", DisableFuncs("sin")); err == nil {
			t.Error("disabled sin parsed")
		}
		if _, err := Parse("cos(x)", DisableFuncs("sin")); err != nil {
			t.Errorf("cos failed to parse with sin disabled: %v", err)
		}
		if _, err := Parse("sin(x)", ParseFunc("sin", nil)); err == nil {
			t.Error("nil sin parsed")
		}
	})
	t.Run("replace", func(t *testing.T) {
		a, err := Parse("pi", ParseFunc("pi", Niladic(3)))
		if err != nil {
			t.Fatal(err)
		}
		if r, err := a.Eval(0); err != nil || r != 3 {
			t.Errorf("wrong result: %v, %v", r, err)
		}
	})
	t.Run("x", func(t *testing.T) {
		a, err := Parse("x", ParseFunc("x", Niladic(1)))
		if err != nil {
			t.Fatal(err)
		}
		if r, err := a.Eval(5); err != nil || r != 5 {
			t.Errorf("x was redefined: %v, %v", r, err)
		}
	})
	t.Run("only", func(t *testing.T) {
		opts := []ParseOption{DisableDefaultFuncs(), ParseFunc("sq", sq)}
		if _, err := Parse("sq(x)", opts...); err != nil {
			t.Errorf("sq failed to parse: %v", err)
		}
		if _, err := Parse("sin(x)", opts...); err == nil {
			t.Error("sin parsed with defaults disabled")
		}
	})
}

func TestParsingPreset(t *testing.T) {
	sq := Monadic("sq", func(x float64) float64 { return x * x }, nil)
	preset := ParsingPreset(DisableFuncs("exp"))
	if _, err := Parse("exp(x)", preset); err == nil {
		t.Error("exp parsed with preset disabling it")
	}
	if _, err := Parse("sq(x) + exp(x)", preset, ParseFunc("sq", sq), ParseFunc("exp", Monadic("exp", math.Exp, nil))); err != nil {
		t.Errorf("options after preset failed: %v", err)
	}
	// Later options must not leak into the preset.
	if _, err := Parse("sq(x)", preset); err == nil {
		t.Error("sq parsed with bare preset")
	}
	if _, err := Parse("exp(x)", preset); err == nil {
		t.Error("exp parsed with bare preset after re-enabling it once")
	}
	if _, err := Parse("log(x)", preset); err != nil {
		t.Errorf("default function failed to parse with preset: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("preset after other options did not panic")
		}
	}()
	Parse("x", ParseFunc("sq", sq), preset)
}

func TestParseTokens(t *testing.T) {
	srcs := []string{"x", "-2^2", "exp(-x**2)", "sin(2*x) * cos(x/3)"}
	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			toks, err := Tokenize(src)
			if err != nil {
				t.Fatalf("%q failed to lex: %v", src, err)
			}
			a, err := Parse(src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", src, err)
			}
			b, err := ParseTokens(toks)
			if err != nil {
				t.Fatalf("%q tokens failed to parse: %v", src, err)
			}
			if d, e := a.n.diff(b.n); d != nil || e != nil {
				t.Errorf("mismatched AST: %v has %v, %v has %v", a.n, d, b.n, e)
			}
			// Without the EOF token.
			c, err := ParseTokens(toks[:len(toks)-1])
			if err != nil {
				t.Fatalf("%q tokens without EOF failed to parse: %v", src, err)
			}
			if d, e := a.n.diff(c.n); d != nil || e != nil {
				t.Errorf("mismatched AST: %v has %v, %v has %v", a.n, d, c.n, e)
			}
		})
	}

	t.Run("nil", func(t *testing.T) {
		_, err := ParseTokens(nil)
		if e, ok := err.(*EmptyExpressionError); !ok || e.Col != 1 {
			t.Errorf("nil tokens gave %#v", err)
		}
	})
	t.Run("truncated", func(t *testing.T) {
		toks := []Token{{Text: "x", Kind: TokenIdent, Pos: 1}, {Text: "+", Kind: TokenOp, Pos: 2}}
		_, err := ParseTokens(toks)
		if e, ok := err.(*UnexpectedTokenError); !ok || e.Col != 3 {
			t.Errorf("truncated tokens gave %#v", err)
		}
	})
}

func BenchmarkParse(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"desc", "x^2*3+4"},
		{"desc-parens", "((x^2)*3)+4"},
		{"asc", "1+2*x^3^4"},
		{"nums", "1^1.1*1.1e1+1.1e-1+.1"},
		{"calls", "sin(2*x) * cos(x/3)"},
		{"gauss", "exp(-x**2)"},
	}
	preset := ParsingPreset(ParseFuncs(testfns))
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Parse(c.src, preset)
			}
		})
	}
}
