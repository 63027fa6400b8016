package fnplot

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression.
type node struct {
	kind nodeKind

	// num is the value of a nodeNum.
	num float64
	// name is the source text of a nodeNum or the function of a nodeCall.
	name string
	fn   Func

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum // constant num
	nodeVar // the free variable

	nodeCall // call fn on left

	nodeNeg // evaluate left, then negate
	nodeAdd // evaluate left, add right
	nodeSub // evaluate left, sub right
	nodeMul // evaluate left, mul right
	nodeDiv // evaluate left, div by right
	nodePow // evaluate left, exp by right
)

func (k nodeKind) String() string {
	switch k {
	case nodeNone:
		return "None"
	case nodeNum:
		return "Num"
	case nodeVar:
		return "Var"
	case nodeCall:
		return "Call"
	case nodeNeg:
		return "Neg"
	case nodeAdd:
		return "Add"
	case nodeSub:
		return "Sub"
	case nodeMul:
		return "Mul"
	case nodeDiv:
		return "Div"
	case nodePow:
		return "Pow"
	default:
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

// fmt writes n fully parenthesized, alternating round and square brackets
// at each level so that the nesting is easy to read. Square brackets are
// not valid input, so only the round form parses again.
func (n *node) fmt(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b, !square)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b, !square)
		}
		b.WriteByte('$')
	case nodeNum:
		b.WriteString(n.name)
	case nodeVar:
		b.WriteByte('x')
	case nodeCall:
		b.WriteString(n.name)
		n.left.fmt(b, !square)
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b, !square)
	case nodeAdd:
		n.left.fmt(b, !square)
		b.WriteString(" + ")
		n.right.fmt(b, !square)
	case nodeSub:
		n.left.fmt(b, !square)
		b.WriteString(" - ")
		n.right.fmt(b, !square)
	case nodeMul:
		n.left.fmt(b, !square)
		b.WriteString(" * ")
		n.right.fmt(b, !square)
	case nodeDiv:
		n.left.fmt(b, !square)
		b.WriteString(" / ")
		n.right.fmt(b, !square)
	case nodePow:
		n.left.fmt(b, !square)
		b.WriteString(" ^ ")
		n.right.fmt(b, !square)
	default:
		panic("fnplot: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

// plain writes n fully parenthesized using only round brackets, so that the
// result parses back to the same tree.
func (n *node) plain(b *strings.Builder) {
	switch n.kind {
	case nodeNum:
		if n.name != "" {
			b.WriteString(n.name)
			return
		}
		b.WriteString(strconv.FormatFloat(n.num, 'g', -1, 64))
	case nodeVar:
		b.WriteByte('x')
	case nodeCall:
		b.WriteString(n.name)
		b.WriteByte('(')
		n.left.plain(b)
		b.WriteByte(')')
	case nodeNeg:
		b.WriteString("(-")
		n.left.plain(b)
		b.WriteByte(')')
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		b.WriteByte('(')
		n.left.plain(b)
		b.WriteString(binsym[n.kind])
		n.right.plain(b)
		b.WriteByte(')')
	default:
		panic("fnplot: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

var binsym = map[nodeKind]string{
	nodeAdd: " + ",
	nodeSub: " - ",
	nodeMul: " * ",
	nodeDiv: " / ",
	nodePow: " ^ ",
}
