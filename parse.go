package xlformula

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Formula = '=' Expr | constant
// Expr = num | text | bool | name | Call | Array | Neg | Binary | '(' Expr ')'
// Call = funcname '(' [ Expr { ',' Expr } ] ')'
// Array = '{' Expr { ',' Expr } '}'
// Neg = '-' Expr
// Binary = Expr op Expr, op one of + - * / ^ & = <> < <= > >=

// MaxNesting is the deepest nesting of brackets, calls, and unary operators
// that Parse accepts. Deeper formulas parse to a NestingError.
const MaxNesting = 256

// Formula is a parsed formula that can be evaluated with a Resolver. A Formula
// is never modified after Parse returns it, so it is safe to evaluate
// concurrently.
type Formula struct {
	// n is the root node of the formula.
	n *node
	// names is the sorted list of reference names used in the formula.
	names []string
	// src is the text that was parsed.
	src string
}

// parsectx holds general data for parsing.
type parsectx struct {
	// names is the set of reference names that have been seen this parse.
	names map[string]bool
	// upper folds function names.
	upper cases.Caser
	// depth is the current nesting depth.
	depth int
}

// Parse parses a formula. If text begins with "=", the remainder is parsed as
// an expression. Otherwise, text is a constant: a number if ParseNumber
// accepts it, and text otherwise.
//
// Parse never fails. If the expression is malformed, the result evaluates to
// an error value of kind ParseError, and its Err method returns the reason.
func Parse(text string) *Formula {
	if !strings.HasPrefix(text, "=") {
		return &Formula{n: &node{kind: nodeLit, name: text, val: constant(text)}, src: text}
	}
	p := parsectx{
		names: make(map[string]bool),
		upper: cases.Upper(language.Und),
	}
	src := strings.NewReader(text)
	src.ReadRune() // =
	scan := lex(src)
	scan.rune = 2
	n, err := parseexpr(scan, &p)
	if err != nil {
		n = &node{kind: nodeFail, err: errors.Wrapf(err, "parsing %q", text)}
		return &Formula{n: n, src: text}
	}
	f := Formula{
		n:     n,
		names: make([]string, 0, len(p.names)),
		src:   text,
	}
	for k := range p.names {
		f.names = append(f.names, k)
	}
	sort.Strings(f.names)
	return &f
}

// constant gives the value of a string that is not a formula.
func constant(text string) Value {
	if f, ok := ParseNumber(text); ok {
		return Num(f)
	}
	return Str(text)
}

// parseexpr parses a complete expression up to EOF.
func parseexpr(scan *lexer, p *parsectx) (*node, error) {
	n, err := parseterm(scan, p, exprprec)
	if err != nil {
		return nil, err
	}
	tok := scan.must()
	if n == nil {
		if tok.kind == tokenEOF {
			return nil, &EmptyExpressionError{Col: tok.pos}
		}
		return nil, itShouldNotHaveEndedThisWay(tok, -1)
	}
	if tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok, -1)
	}
	return n, nil
}

// parseterm parses a single term. If there is no error, then parseterm pushes
// the last token it scans, including EOF. If the input is an empty
// subexpression, the result is nil with no error; callers must create an error
// in contexts where empty subexpressions are illegal.
func parseterm(scan *lexer, p *parsectx, until operator) (*node, error) {
	p.depth++
	defer func() { p.depth-- }()
	n, err := parselhs(scan, p, until)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenOp:
			prec := binop(tok.text)
			if prec.op == nodeNone {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: false}
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				end := scan.must()
				return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
			}
			n = &node{kind: prec.op, left: n, right: rhs}
		case tokenClose, tokenSep, tokenEOF:
			// End of expression.
			scan.push(tok)
			return n, nil
		case tokenNum, tokenText, tokenBool, tokenIdent, tokenFunc, tokenOpen:
			// Two operands with nothing joining them.
			return nil, &TokenError{Col: tok.pos, Text: tok.text}
		default:
			panic("xlformula: unknown token: " + tok.String())
		}
	}
}

// parselhs parses the first component of a term. I.e., operators are unary,
// and any encountered token must be valid as the start of a subexpression.
func parselhs(scan *lexer, p *parsectx, until operator) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if p.depth > MaxNesting {
		return nil, &NestingError{Col: tok.pos, Depth: MaxNesting}
	}
	var n *node
	switch tok.kind {
	case tokenNum:
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, &LexError{Text: tok.text, Kind: "number", Col: tok.pos}
		}
		n = &node{kind: nodeLit, name: tok.text, val: Num(f)}
	case tokenText:
		n = &node{kind: nodeLit, name: tok.text, val: Str(tok.text)}
	case tokenBool:
		n = &node{kind: nodeLit, name: tok.text, val: Bool(strings.EqualFold(tok.text, "TRUE"))}
	case tokenIdent:
		p.names[tok.text] = true
		n = &node{kind: nodeRef, name: tok.text}
	case tokenFunc:
		args, _, err := parsearglist(scan, p, "(")
		if err != nil {
			return nil, err
		}
		n = &node{kind: nodeCall, name: p.upper.String(tok.text), args: args}
	case tokenOp:
		// unary operator
		prec := unop(tok.text)
		if prec.op == nodeNone {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
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
		if rhs == nil {
			end := scan.must()
			return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
		}
		n = &node{kind: prec.op, left: rhs}
	case tokenOpen:
		if tok.text == "{" {
			elems, end, err := parsearglist(scan, p, "{")
			if err != nil {
				return nil, err
			}
			if len(elems) == 0 {
				return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
			}
			n = &node{kind: nodeArray, args: elems}
			break
		}
		match := rightbracket(tok.text)
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, err
		}
		end := scan.must()
		if end.kind != tokenClose || end.text != closebrackets[match] {
			return nil, itShouldNotHaveEndedThisWay(end, match)
		}
		if rhs == nil {
			return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
		}
		n = rhs
	case tokenClose:
		// This might be part of a niladic f(), so just let the caller decide
		// what to do.
		scan.push(tok)
		return nil, nil
	case tokenSep:
		return nil, &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenEOF:
		scan.push(tok)
		return nil, nil
	default:
		panic("xlformula: unknown token: " + tok.String())
	}
	return n, nil
}

// parsearglist parses a comma-separated list of zero or more expressions up to
// the close bracket matching open. The open bracket has already been scanned.
// The second result is the close bracket.
func parsearglist(scan *lexer, p *parsectx, open string) ([]*node, lexToken, error) {
	match := rightbracket(open)
	var args []*node
	for {
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, lexToken{}, err
		}
		end := scan.must()
		switch end.kind {
		case tokenClose:
			if end.text != closebrackets[match] {
				return nil, end, &BracketError{Col: end.pos, Left: open, Right: end.text}
			}
			if rhs == nil {
				// f() is allowed, but f(a,) isn't.
				if len(args) != 0 {
					return nil, end, &EmptyExpressionError{Col: end.pos, End: end.text}
				}
				return nil, end, nil
			}
			return append(args, rhs), end, nil
		case tokenSep:
			args = append(args, rhs)
		case tokenEOF:
			return nil, end, &BracketError{Col: end.pos, Left: open, Right: ""}
		default:
			panic("xlformula: parseterm ended on non-end token " + end.String())
		}
	}
}

// rightbracket gets the closing bracket index for an opening bracket.
func rightbracket(left string) int {
	r, sz := utf8.DecodeRuneInString(left)
	k := strings.IndexRune(OpenBrackets, r)
	if k < 0 || sz != len(left) {
		panic("xlformula: invalid bracket " + strconv.Quote(left))
	}
	return k
}

// leftbracket gets the opening bracket matching right. If right is no bracket,
// then the result is the empty string.
func leftbracket(right int) string {
	if right == -1 {
		return ""
	}
	return openbrackets[right]
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. match is the bracket rune index that
// the expression should have matched, or -1 if none.
func itShouldNotHaveEndedThisWay(tok lexToken, match int) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.pos, Left: leftbracket(match), Right: ""}
	case tokenClose:
		// A bracket could be the wrong bracket for the opening brace or any
		// bracket at the end of an input.
		return &BracketError{Col: tok.pos, Left: leftbracket(match), Right: tok.text}
	case tokenSep:
		// Separator outside a call or array.
		return &SeparatorError{Col: tok.pos, Sep: tok.text}
	default:
		panic("xlformula: it really should not have ended this way: " + tok.String())
	}
}

// Refs returns the names of the references in the formula, sorted and
// without duplicates.
func (f *Formula) Refs() []string {
	return append(([]string)(nil), f.names...)
}

// Err returns the reason the formula failed to parse, or nil if it parsed.
// The error wraps an InputError.
func (f *Formula) Err() error {
	if f.n.kind != nodeFail {
		return nil
	}
	return f.n.err
}

// Source returns the text that was parsed to produce f.
func (f *Formula) Source() string {
	return f.src
}

// String creates a string representation of the parsed formula, with
// alternating round and square brackets grouping each term.
func (f *Formula) String() string {
	return f.n.String()
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
	case "=":
		return operator{1, false, nodeEq}
	case "<>":
		return operator{1, false, nodeNe}
	case "<":
		return operator{1, false, nodeLt}
	case "<=":
		return operator{1, false, nodeLe}
	case ">":
		return operator{1, false, nodeGt}
	case ">=":
		return operator{1, false, nodeGe}
	case "&":
		return operator{2, false, nodeCat}
	case "+":
		return operator{3, false, nodeAdd}
	case "-":
		return operator{3, false, nodeSub}
	case "*":
		return operator{4, false, nodeMul}
	case "/":
		return operator{4, false, nodeDiv}
	case "^":
		return operator{6, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "-":
		return operator{5, true, nodeNeg}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
