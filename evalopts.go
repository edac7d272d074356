package xlformula

import (
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// EvalOption is an option for evaluation.
type EvalOption interface {
	evalOption(*evaluator)
}

type (
	funcopt struct {
		name string
		fn   Func
	}
	funcsopt map[string]Func
	depthopt int
	logopt   struct {
		log zerolog.Logger
	}
)

// EvalFunc sets a function for evaluation. Function names are not case
// sensitive. To disable a default function, pass nil for fn.
func EvalFunc(name string, fn Func) EvalOption {
	return &funcopt{name, fn}
}

func (o *funcopt) evalOption(ev *evaluator) {
	ev.ownfuncs()
	ev.funcs[cases.Upper(language.Und).String(o.name)] = o.fn
}

// EvalFuncs sets a group of functions for evaluation. To disable any function,
// set it to nil.
func EvalFuncs(fns map[string]Func) EvalOption {
	return funcsopt(fns)
}

func (o funcsopt) evalOption(ev *evaluator) {
	ev.ownfuncs()
	upper := cases.Upper(language.Und)
	for k, v := range o {
		ev.funcs[upper.String(k)] = v
	}
}

// ownfuncs makes the evaluator's function table a copy that options may
// modify.
func (ev *evaluator) ownfuncs() {
	if !ev.copied {
		m := make(map[string]Func, len(ev.funcs))
		for k, v := range ev.funcs {
			m[k] = v
		}
		ev.funcs = m
		ev.copied = true
	}
}

// MaxDepth limits how many formulas deep names may resolve before evaluation
// gives up with an UnresolvedReference error whose cause is a *DepthError. A
// limit of zero or less removes the guard, so that a name which refers to
// itself recurses until the stack is exhausted. The default is
// DefaultMaxDepth.
func MaxDepth(n int) EvalOption {
	return depthopt(n)
}

func (o depthopt) evalOption(ev *evaluator) {
	ev.max = max(int(o), 0)
}

// Logger sets a logger for evaluation events: reference resolution at debug
// level, and the depth limit at warn level. The default discards everything.
func Logger(log zerolog.Logger) EvalOption {
	return logopt{log}
}

func (o logopt) evalOption(ev *evaluator) {
	ev.log = o.log
}
