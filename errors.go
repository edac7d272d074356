package xlformula

import "strconv"

// ErrorKind is the kind of an error value. ErrorKind implements error, so the
// kind of a Value can be compared with errors.Is(v.Cause(), kind) when the
// cause wraps it.
type ErrorKind int8

const (
	// NoError is the ErrorKind of values which are not errors.
	NoError ErrorKind = iota
	// DivisionByZero is a division by zero, rendered #DIV/0!.
	DivisionByZero
	// TypeCast is an operand of a type that an operator or function cannot
	// use, rendered #CAST!.
	TypeCast
	// UnresolvedReference is a name with no value, rendered #NAME?.
	UnresolvedReference
	// InvalidArgument is a call to an unknown function, a call with the wrong
	// number of arguments, or an argument outside a function's domain,
	// rendered #VALUE!.
	InvalidArgument
	// ParseError is a malformed formula, rendered #PARSE!.
	ParseError
)

// Code returns the sentinel display code for the error kind.
func (k ErrorKind) Code() string {
	switch k {
	case NoError:
		return ""
	case DivisionByZero:
		return "#DIV/0!"
	case TypeCast:
		return "#CAST!"
	case UnresolvedReference:
		return "#NAME?"
	case InvalidArgument:
		return "#VALUE!"
	case ParseError:
		return "#PARSE!"
	default:
		return "#ERROR" + strconv.Itoa(int(k)) + "!"
	}
}

func (k ErrorKind) Error() string {
	switch k {
	case NoError:
		return "no error"
	case DivisionByZero:
		return "division by zero"
	case TypeCast:
		return "incompatible operand type"
	case UnresolvedReference:
		return "unresolved reference"
	case InvalidArgument:
		return "invalid argument"
	case ParseError:
		return "malformed formula"
	default:
		return "error kind " + strconv.Itoa(int(k))
	}
}

// DomainError is the cause of an InvalidArgument value produced when an
// operation is applied to arguments outside its domain or its result is not a
// finite number. It unwraps to InvalidArgument.
type DomainError struct {
	// X is the out-of-domain argument, or the result if Arg is 0.
	X float64
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function or operator.
	Func string
}

func (err *DomainError) Error() string {
	x := strconv.FormatFloat(err.X, 'g', -1, 64)
	if err.Arg == 0 {
		return "result " + x + " of " + err.Func + " is not finite"
	}
	r := x + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	return r + " (argument " + strconv.Itoa(err.Arg) + ")"
}

func (err *DomainError) Unwrap() error {
	return InvalidArgument
}

// DepthError is the cause of an UnresolvedReference value produced when names
// resolve to nested formulas more deeply than the evaluation allows, usually
// because a name refers to itself. It unwraps to UnresolvedReference.
type DepthError struct {
	// Name is the reference at which evaluation stopped.
	Name string
	// Depth is the depth limit that was exceeded.
	Depth int
}

func (err *DepthError) Error() string {
	return "reference " + strconv.Quote(err.Name) + " nested deeper than " + strconv.Itoa(err.Depth) + " formulas"
}

func (err *DepthError) Unwrap() error {
	return UnresolvedReference
}

// NameError is the cause of an error value for a name that could not be
// resolved because no resolver was supplied, or the cause of an
// InvalidArgument value for a call to an unknown function.
type NameError struct {
	// Name is the name that was missing.
	Name string
	// Func is true if the name was a function name.
	Func bool
}

func (err *NameError) Error() string {
	if err.Func {
		return "undefined function: " + strconv.Quote(err.Name)
	}
	return "undefined variable: " + strconv.Quote(err.Name)
}

func (err *NameError) Unwrap() error {
	if err.Func {
		return InvalidArgument
	}
	return UnresolvedReference
}

// CallError is the cause of an InvalidArgument value for a call with the wrong
// number of arguments.
type CallError struct {
	// Func is the function name that was called.
	Func string
	// Len is the number of arguments in the call.
	Len int
}

func (err *CallError) Error() string {
	return "cannot call " + err.Func + " with " + strconv.Itoa(err.Len) + " arguments"
}

func (err *CallError) Unwrap() error {
	return InvalidArgument
}
