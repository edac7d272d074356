package xlformula

import "math"

// Func is a function callable from formulas.
type Func interface {
	// Call evaluates the function. Array arguments have already been
	// flattened into args, and none of args is an error value: the evaluator
	// returns the first error argument instead of calling the function. Call
	// reports failures by returning error values. Call must not modify args.
	Call(args []Value) Value

	// CanCall returns whether the function can be called with n arguments as
	// written in the formula, before flattening. Calls with other numbers of
	// arguments evaluate to InvalidArgument.
	CanCall(n int) bool
}

var globalfuncs = map[string]Func{
	"ABS": Monadic(func(x Value) Value {
		if x.kind != KindNumber {
			return Err(TypeCast)
		}
		return Num(math.Abs(x.num))
	}),
	"SUM":     Variadic(sum),
	"PRODUCT": Variadic(product),
	"AVERAGE": Variadic(average),
	"AND": Variadic(func(args []Value) Value {
		return logical(args, func(n, k int) bool { return n == k })
	}),
	"OR": Variadic(func(args []Value) Value {
		return logical(args, func(n, k int) bool { return n > 0 })
	}),
	"XOR": Variadic(func(args []Value) Value {
		return logical(args, func(n, k int) bool { return n%2 == 1 })
	}),
	"NOT": Monadic(func(x Value) Value {
		b, ok := toBool(x)
		if !ok {
			return Err(TypeCast)
		}
		return Bool(!b)
	}),
	"DAYS": Dyadic(days),
}

// DisableDefaultFuncs returns a functions map suitable for disabling all
// default functions when passed to EvalFuncs.
func DisableDefaultFuncs() map[string]Func {
	m := make(map[string]Func, len(globalfuncs))
	for k := range globalfuncs {
		m[k] = nil
	}
	return m
}

// DefaultFuncs returns the names of the default functions.
func DefaultFuncs() []string {
	names := make([]string, 0, len(globalfuncs))
	for k := range globalfuncs {
		names = append(names, k)
	}
	sortstrs(names)
	return names
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

type monadic struct {
	f func(Value) Value
}

func (m monadic) Call(args []Value) Value {
	switch len(args) {
	case 0:
		return Err(InvalidArgument)
	case 1:
		return m.f(args[0])
	}
	// The argument was an array. Apply f to each element.
	r := make([]Value, len(args))
	for i, x := range args {
		r[i] = m.f(x)
	}
	return array(r)
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one value into a Func. If the argument is an
// array, the result is an array of f applied to each element.
func Monadic(f func(Value) Value) Func {
	return monadic{f}
}

type dyadic struct {
	f func(x, y Value) Value
}

func (d dyadic) Call(args []Value) Value {
	if len(args) != 2 {
		return Err(InvalidArgument)
	}
	return d.f(args[0], args[1])
}

func (d dyadic) CanCall(n int) bool {
	return n == 2
}

// Dyadic wraps a function of two values into a Func. Array arguments that
// flatten to anything other than exactly two values evaluate to
// InvalidArgument.
func Dyadic(f func(x, y Value) Value) Func {
	return dyadic{f}
}

type variadic struct {
	f func(args []Value) Value
}

func (v variadic) Call(args []Value) Value {
	return v.f(args)
}

func (v variadic) CanCall(n int) bool {
	return n >= 1
}

// Variadic wraps a function of one or more values into a Func.
func Variadic(f func(args []Value) Value) Func {
	return variadic{f}
}

func sum(args []Value) Value {
	var s float64
	for _, x := range args {
		f, ok := toNumber(x)
		if !ok {
			return Err(TypeCast)
		}
		s += f
	}
	return finite(s, "SUM")
}

func product(args []Value) Value {
	if len(args) == 0 {
		return Num(0)
	}
	p := 1.0
	for _, x := range args {
		f, ok := toNumber(x)
		if !ok {
			return Err(TypeCast)
		}
		p *= f
	}
	return finite(p, "PRODUCT")
}

func average(args []Value) Value {
	if len(args) == 0 {
		return Err(DivisionByZero)
	}
	var s float64
	for _, x := range args {
		f, ok := toNumber(x)
		if !ok {
			return Err(TypeCast)
		}
		s += f
	}
	return finite(s/float64(len(args)), "AVERAGE")
}

// logical counts the truthy args and decides the result with pred, which
// receives the number of truthy args and the total number of args.
func logical(args []Value, pred func(n, k int) bool) Value {
	if len(args) == 0 {
		return Err(InvalidArgument)
	}
	n := 0
	for _, x := range args {
		b, ok := toBool(x)
		if !ok {
			return Err(TypeCast)
		}
		if b {
			n++
		}
	}
	return Bool(pred(n, len(args)))
}

// days gives the number of whole days from start to end, truncated toward
// zero.
func days(end, start Value) Value {
	if end.kind != KindDate || start.kind != KindDate {
		return Err(TypeCast)
	}
	secs := float64(end.t.Unix()-start.t.Unix()) + float64(end.t.Nanosecond()-start.t.Nanosecond())/1e9
	return Num(math.Trunc(secs / secondsPerDay))
}

const secondsPerDay = 24 * 60 * 60
