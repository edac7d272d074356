package xlformula

import (
	"math"
	"math/big"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// toNumber coerces a value to a number. Numbers are used as is, booleans are 0
// or 1, and text is parsed with ParseNumber. Other values do not coerce.
func toNumber(v Value) (float64, bool) {
	switch v.kind {
	case KindNumber, KindBool:
		return v.num, true
	case KindText:
		return ParseNumber(v.str)
	default:
		return 0, false
	}
}

// toBool coerces a value to a boolean. Numbers are true when nonzero. Text is
// "true" or "false" in any case, or else a number.
func toBool(v Value) (bool, bool) {
	switch v.kind {
	case KindBool, KindNumber:
		return v.num != 0, true
	case KindText:
		switch {
		case strings.EqualFold(v.str, "TRUE"):
			return true, true
		case strings.EqualFold(v.str, "FALSE"):
			return false, true
		}
		f, ok := ParseNumber(v.str)
		return f != 0, ok
	default:
		return false, false
	}
}

// flatten appends v to dst, recursively expanding arrays.
func flatten(dst []Value, v Value) []Value {
	if v.kind != KindArray {
		return append(dst, v)
	}
	for _, e := range v.arr {
		dst = flatten(dst, e)
	}
	return dst
}

// firstError returns the first error value among vs.
func firstError(vs []Value) (Value, bool) {
	for _, v := range vs {
		if v.kind == KindError {
			return v, true
		}
	}
	return Value{}, false
}

// finite returns r as a number, or InvalidArgument if r is infinite or NaN.
func finite(r float64, fn string) Value {
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return errorf(InvalidArgument, &DomainError{X: r, Func: fn})
	}
	return Num(r)
}

// apply applies a binary operator. An error operand is the result, checking
// the left first. Arrays apply element-wise.
func apply(op nodeKind, l, r Value) Value {
	if l.kind == KindError {
		return l
	}
	if r.kind == KindError {
		return r
	}
	if l.kind == KindArray || r.kind == KindArray {
		return broadcast(op, l, r)
	}
	switch op {
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		return arith(op, l, r)
	case nodeCat:
		return Str(l.String() + r.String())
	case nodeEq, nodeNe, nodeLt, nodeLe, nodeGt, nodeGe:
		return compare(op, l, r)
	default:
		panic("xlformula: invalid binary operator " + op.String())
	}
}

// broadcast applies op element-wise. Two arrays pair elements by position,
// ignoring the excess of the longer one. A scalar pairs with every element.
func broadcast(op nodeKind, l, r Value) Value {
	var out []Value
	switch {
	case l.kind == KindArray && r.kind == KindArray:
		out = make([]Value, min(len(l.arr), len(r.arr)))
		for i := range out {
			out[i] = apply(op, l.arr[i], r.arr[i])
		}
	case l.kind == KindArray:
		out = make([]Value, len(l.arr))
		for i, x := range l.arr {
			out[i] = apply(op, x, r)
		}
	default:
		out = make([]Value, len(r.arr))
		for i, y := range r.arr {
			out[i] = apply(op, l, y)
		}
	}
	return array(out)
}

// negate applies unary minus.
func negate(v Value) Value {
	switch v.kind {
	case KindError:
		return v
	case KindArray:
		out := make([]Value, len(v.arr))
		for i, x := range v.arr {
			out[i] = negate(x)
		}
		return array(out)
	}
	x, ok := toNumber(v)
	if !ok {
		return Err(TypeCast)
	}
	return Num(-x)
}

func arith(op nodeKind, l, r Value) Value {
	if l.kind == KindDate || r.kind == KindDate {
		return dateArith(op, l, r)
	}
	x, ok := toNumber(l)
	if !ok {
		return Err(TypeCast)
	}
	y, ok := toNumber(r)
	if !ok {
		return Err(TypeCast)
	}
	switch op {
	case nodeAdd:
		return finite(x+y, "+")
	case nodeSub:
		return finite(x-y, "-")
	case nodeMul:
		return finite(x*y, "*")
	case nodeDiv:
		if y == 0 {
			return Err(DivisionByZero)
		}
		return finite(x/y, "/")
	case nodePow:
		return pow(x, y)
	default:
		panic("xlformula: invalid arithmetic operator " + op.String())
	}
}

// maxDayShift bounds the number of days a date may shift in one operation.
const maxDayShift = 1e7

// dateArith shifts a date by a whole number of days. Only date + number,
// number + date, and date - number are defined.
func dateArith(op nodeKind, l, r Value) Value {
	var d Value
	var n Value
	switch {
	case l.kind == KindDate && r.kind != KindDate && (op == nodeAdd || op == nodeSub):
		d, n = l, r
	case r.kind == KindDate && l.kind != KindDate && op == nodeAdd:
		d, n = r, l
	default:
		return Err(TypeCast)
	}
	x, ok := toNumber(n)
	if !ok {
		return Err(TypeCast)
	}
	x = math.Trunc(x)
	if math.Abs(x) > maxDayShift {
		return errorf(InvalidArgument, &DomainError{X: x, Arg: 2, Func: opText[op]})
	}
	if op == nodeSub {
		x = -x
	}
	return Date(d.t.AddDate(0, 0, int(x)))
}

// powPrec is the precision of intermediate results for non-integer powers.
const powPrec = 128

// maxExp is slightly more than the natural log of the largest float64.
const maxExp = 710

func pow(x, y float64) Value {
	switch {
	case x == 0 && y < 0:
		return Err(DivisionByZero)
	case y == 0:
		return Num(1)
	case x < 0 && y != math.Trunc(y):
		return errorf(InvalidArgument, &DomainError{X: x, Arg: 1, Func: "^"})
	case x <= 0, y == math.Trunc(y), math.IsInf(x, 0), math.IsInf(y, 0):
		return finite(math.Pow(x, y), "^")
	case math.Abs(y*math.Log(x)) > maxExp:
		// Overflows or underflows float64 regardless of precision.
		return finite(math.Pow(x, y), "^")
	}
	return bigpow(x, y)
}

// bigpow computes x^y for positive finite x and non-integer y at high
// precision, rounding once to float64.
func bigpow(x, y float64) (r Value) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if _, ok := p.(big.ErrNaN); !ok {
			panic(p)
		}
		r = errorf(InvalidArgument, &DomainError{X: x, Arg: 1, Func: "^"})
	}()
	var z, bx, by big.Float
	z.SetPrec(powPrec)
	bx.SetPrec(powPrec).SetFloat64(x)
	by.SetPrec(powPrec).SetFloat64(y)
	bigfloat.Pow(&z, &bx, &by)
	f, _ := z.Float64()
	return finite(f, "^")
}

// compare applies a comparison operator to values of compatible types.
func compare(op nodeKind, l, r Value) Value {
	c, ok := order(l, r)
	if !ok {
		return Err(TypeCast)
	}
	switch op {
	case nodeEq:
		return Bool(c == 0)
	case nodeNe:
		return Bool(c != 0)
	case nodeLt:
		return Bool(c < 0)
	case nodeLe:
		return Bool(c <= 0)
	case nodeGt:
		return Bool(c > 0)
	case nodeGe:
		return Bool(c >= 0)
	default:
		panic("xlformula: invalid comparison operator " + op.String())
	}
}

// order compares two scalar values. Numbers and booleans compare with each
// other as numbers, text compares with text by bytes, and dates compare with
// dates chronologically. Other pairs are not ordered.
func order(l, r Value) (int, bool) {
	switch {
	case l.kind == KindText && r.kind == KindText:
		return strings.Compare(l.str, r.str), true
	case l.kind == KindDate && r.kind == KindDate:
		return l.t.Compare(r.t), true
	case (l.kind == KindNumber || l.kind == KindBool) && (r.kind == KindNumber || r.kind == KindBool):
		switch {
		case l.num < r.num:
			return -1, true
		case l.num > r.num:
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}
