package xlformula

import (
	"strings"

	"github.com/rs/zerolog"
)

// Resolver looks up the values of names in formulas. A Resolver should answer
// Err(UnresolvedReference) for names it does not know. If the answer is text
// beginning with "=", it is parsed and evaluated as a formula with the same
// Resolver.
type Resolver interface {
	Resolve(name string) Value
}

// ResolverFunc adapts a function to a Resolver.
type ResolverFunc func(name string) Value

// Resolve calls f(name).
func (f ResolverFunc) Resolve(name string) Value {
	return f(name)
}

// Names is a Resolver backed by a map.
type Names map[string]Value

// Resolve returns the value of name, or an UnresolvedReference error if there
// is no such name.
func (m Names) Resolve(name string) Value {
	v, ok := m[name]
	if !ok {
		return errorf(UnresolvedReference, &NameError{Name: name})
	}
	return v
}

// DefaultMaxDepth is the default limit on how many formulas deep names may
// resolve.
const DefaultMaxDepth = 64

// evaluator holds the state of one evaluation. A new evaluator is created for
// each call to Evaluate, so no state is shared between evaluations.
type evaluator struct {
	r     Resolver
	funcs map[string]Func
	// copied is set once funcs is a private copy of the defaults.
	copied bool
	log    zerolog.Logger
	// max is the depth limit for nested formulas, or 0 for none.
	max   int
	depth int
}

// Evaluate evaluates a formula. Names are looked up with r, which may be nil
// if the formula has no references. The result is never a Go error; failures
// produce values of kind KindError.
func Evaluate(f *Formula, r Resolver, opts ...EvalOption) Value {
	ev := evaluator{
		r:     r,
		funcs: globalfuncs,
		log:   zerolog.Nop(),
		max:   DefaultMaxDepth,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.evalOption(&ev)
	}
	return ev.eval(f.n)
}

// Eval evaluates the formula. It is the same as Evaluate(f, r, opts...).
func (f *Formula) Eval(r Resolver, opts ...EvalOption) Value {
	return Evaluate(f, r, opts...)
}

// EvalString is a shortcut to parse and evaluate a formula.
func EvalString(text string, r Resolver, opts ...EvalOption) Value {
	return Evaluate(Parse(text), r, opts...)
}

// eval computes the node's value.
func (ev *evaluator) eval(n *node) Value {
	switch n.kind {
	case nodeLit:
		return n.val
	case nodeRef:
		return ev.resolve(n.name)
	case nodeCall:
		return ev.call(n)
	case nodeArray:
		elems := make([]Value, len(n.args))
		for i, a := range n.args {
			elems[i] = ev.eval(a)
		}
		return array(elems)
	case nodeFail:
		return errorf(ParseError, n.err)
	case nodeNeg:
		return negate(ev.eval(n.left))
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow, nodeCat,
		nodeEq, nodeNe, nodeLt, nodeLe, nodeGt, nodeGe:
		l := ev.eval(n.left)
		if l.kind == KindError {
			return l
		}
		return apply(n.kind, l, ev.eval(n.right))
	default:
		panic("xlformula: invalid AST node " + n.kind.String())
	}
}

// resolve looks up a name, evaluating nested formulas.
func (ev *evaluator) resolve(name string) Value {
	if ev.r == nil {
		ev.log.Debug().Str("name", name).Msg("no resolver for reference")
		return errorf(UnresolvedReference, &NameError{Name: name})
	}
	v := ev.r.Resolve(name)
	ev.log.Debug().Str("name", name).Stringer("kind", v.kind).Int("depth", ev.depth).Msg("resolved reference")
	if v.kind != KindText || !strings.HasPrefix(v.str, "=") {
		return v
	}
	if ev.max > 0 && ev.depth >= ev.max {
		ev.log.Warn().Str("name", name).Int("max", ev.max).Msg("nested formulas too deep")
		return errorf(UnresolvedReference, &DepthError{Name: name, Depth: ev.max})
	}
	f := Parse(v.str)
	if err := f.Err(); err != nil {
		ev.log.Debug().Str("name", name).Err(err).Msg("reference holds malformed formula")
	}
	ev.depth++
	defer func() { ev.depth-- }()
	return ev.eval(f.n)
}

// call evaluates a function call. Arguments evaluate left to right, stopping
// at the first error.
func (ev *evaluator) call(n *node) Value {
	fn := ev.funcs[n.name]
	if fn == nil {
		return errorf(InvalidArgument, &NameError{Name: n.name, Func: true})
	}
	if !fn.CanCall(len(n.args)) {
		return errorf(InvalidArgument, &CallError{Func: n.name, Len: len(n.args)})
	}
	args := make([]Value, 0, len(n.args))
	for _, a := range n.args {
		k := len(args)
		args = flatten(args, ev.eval(a))
		if err, ok := firstError(args[k:]); ok {
			return err
		}
	}
	return fn.Call(args)
}
