package xlformula

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of a formula.
type node struct {
	kind nodeKind

	// name is the reference name, the upper-cased function name, or the
	// source text of a literal.
	name string
	// val is the value of a literal.
	val Value
	// args are the arguments of a call or the elements of an array.
	args []*node
	// err is the diagnostic of a parse failure.
	err error

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeLit   // val
	nodeRef   // resolve(name)
	nodeCall  // name is the function, args are the arguments
	nodeArray // args are the elements
	nodeFail  // err is why parsing failed

	nodeNeg // evaluate left, then negate
	nodeAdd // evaluate left, add right
	nodeSub // evaluate left, sub right
	nodeMul // evaluate left, mul right
	nodeDiv // evaluate left, div by right
	nodePow // evaluate left, exp by right
	nodeCat // evaluate left, concatenate right
	nodeEq  // evaluate left, compare with right
	nodeNe
	nodeLt
	nodeLe
	nodeGt
	nodeGe
)

var nodeKindNames = [...]string{
	nodeNone:  "None",
	nodeLit:   "Lit",
	nodeRef:   "Ref",
	nodeCall:  "Call",
	nodeArray: "Array",
	nodeFail:  "Fail",
	nodeNeg:   "Neg",
	nodeAdd:   "Add",
	nodeSub:   "Sub",
	nodeMul:   "Mul",
	nodeDiv:   "Div",
	nodePow:   "Pow",
	nodeCat:   "Cat",
	nodeEq:    "Eq",
	nodeNe:    "Ne",
	nodeLt:    "Lt",
	nodeLe:    "Le",
	nodeGt:    "Gt",
	nodeGe:    "Ge",
}

func (k nodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeKindNames[k]
}

// opText is the source text of each binary operator.
var opText = map[nodeKind]string{
	nodeAdd: "+",
	nodeSub: "-",
	nodeMul: "*",
	nodeDiv: "/",
	nodePow: "^",
	nodeCat: "&",
	nodeEq:  "=",
	nodeNe:  "<>",
	nodeLt:  "<",
	nodeLe:  "<=",
	nodeGt:  ">",
	nodeGe:  ">=",
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

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
	case nodeLit:
		if n.val.kind == KindText {
			b.WriteString(strconv.Quote(n.val.str))
		} else {
			b.WriteString(n.val.String())
		}
	case nodeRef:
		b.WriteString(n.name)
	case nodeCall:
		b.WriteString(n.name)
		n.fmtargs(b, !square, '(', ')')
	case nodeArray:
		n.fmtargs(b, !square, '{', '}')
	case nodeFail:
		b.WriteString("!")
		if n.err != nil {
			b.WriteString(n.err.Error())
		}
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b, !square)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow, nodeCat,
		nodeEq, nodeNe, nodeLt, nodeLe, nodeGt, nodeGe:
		n.left.fmt(b, !square)
		b.WriteByte(' ')
		b.WriteString(opText[n.kind])
		b.WriteByte(' ')
		n.right.fmt(b, !square)
	default:
		panic("xlformula: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

func (n *node) fmtargs(b *strings.Builder, square bool, l, r byte) {
	b.WriteByte(l)
	defer b.WriteByte(r)
	for i, a := range n.args {
		if i > 0 {
			b.WriteString(", ")
		}
		a.fmt(b, square)
	}
}
