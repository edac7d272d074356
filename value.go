package xlformula

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the type of a Value.
type Kind int8

const (
	KindNumber Kind = iota
	KindText
	KindBool
	KindDate
	KindArray
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindText:
		return "Text"
	case KindBool:
		return "Bool"
	case KindDate:
		return "Date"
	case KindArray:
		return "Array"
	case KindError:
		return "Error"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is the result of evaluating a formula. The zero Value is the number 0.
// Values are immutable and safe to copy.
type Value struct {
	kind Kind
	num  float64
	str  string
	t    time.Time
	arr  []Value
	err  ErrorKind
	// cause is an optional diagnostic for error values. It does not take part
	// in rendering or equality.
	cause error
}

// Num returns a number value.
func Num(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Str returns a text value.
func Str(s string) Value {
	return Value{kind: KindText, str: s}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}
	return v
}

// Date returns a date value. Date arithmetic works in whole days in the
// location of t.
func Date(t time.Time) Value {
	return Value{kind: KindDate, t: t}
}

// Array returns an array value holding a copy of elems.
func Array(elems ...Value) Value {
	return Value{kind: KindArray, arr: append([]Value(nil), elems...)}
}

// Err returns an error value of the given kind.
func Err(kind ErrorKind) Value {
	return Value{kind: KindError, err: kind}
}

// errorf returns an error value carrying a diagnostic cause.
func errorf(kind ErrorKind, cause error) Value {
	return Value{kind: KindError, err: kind, cause: cause}
}

// array wraps elems without copying. The caller must not keep elems.
func array(elems []Value) Value {
	return Value{kind: KindArray, arr: elems}
}

// Kind returns the type of v.
func (v Value) Kind() Kind {
	return v.kind
}

// Float returns the number held by v, or 0 if v is not a number.
func (v Value) Float() float64 {
	if v.kind != KindNumber {
		return 0
	}
	return v.num
}

// Text returns the string held by v, or "" if v is not text.
func (v Value) Text() string {
	if v.kind != KindText {
		return ""
	}
	return v.str
}

// Truth returns the boolean held by v, or false if v is not a boolean.
func (v Value) Truth() bool {
	return v.kind == KindBool && v.num != 0
}

// Time returns the date held by v, or the zero time if v is not a date.
func (v Value) Time() time.Time {
	if v.kind != KindDate {
		return time.Time{}
	}
	return v.t
}

// Elems returns a copy of the elements of an array value, or nil if v is not
// an array.
func (v Value) Elems() []Value {
	if v.kind != KindArray {
		return nil
	}
	return append([]Value(nil), v.arr...)
}

// Len returns the number of elements in an array value, or 0 otherwise.
func (v Value) Len() int {
	return len(v.arr)
}

// ErrorKind returns the kind of an error value, or NoError if v is not an
// error.
func (v Value) ErrorKind() ErrorKind {
	if v.kind != KindError {
		return NoError
	}
	return v.err
}

// Cause returns the Go error explaining an error value. If no diagnostic was
// recorded, the result is the ErrorKind itself. For non-error values the
// result is nil.
func (v Value) Cause() error {
	if v.kind != KindError {
		return nil
	}
	if v.cause != nil {
		return v.cause
	}
	return v.err
}

// IsError reports whether v is an error value.
func (v Value) IsError() bool {
	return v.kind == KindError
}

// Equal reports whether v and w are the same kind and hold the same value.
// Numbers compare with ==, so NaN is unequal to itself. Dates compare as
// instants. Error causes are ignored.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case KindNumber, KindBool:
		return v.num == w.num
	case KindText:
		return v.str == w.str
	case KindDate:
		return v.t.Equal(w.t)
	case KindArray:
		if len(v.arr) != len(w.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(w.arr[i]) {
				return false
			}
		}
		return true
	case KindError:
		return v.err == w.err
	default:
		panic("xlformula: invalid value kind " + v.kind.String())
	}
}

// String renders v. It is the same as Render(v).
func (v Value) String() string {
	var b strings.Builder
	v.render(&b)
	return b.String()
}

// Render formats a value as display text: numbers in shortest decimal form,
// booleans as TRUE or FALSE, text as is, dates in RFC 3339 form, and errors as
// their sentinel codes.
func Render(v Value) string {
	return v.String()
}

func (v Value) render(b *strings.Builder) {
	switch v.kind {
	case KindNumber:
		b.WriteString(formatNumber(v.num))
	case KindText:
		b.WriteString(v.str)
	case KindBool:
		if v.num != 0 {
			b.WriteString("TRUE")
		} else {
			b.WriteString("FALSE")
		}
	case KindDate:
		b.WriteString(v.t.Format(time.RFC3339))
	case KindArray:
		b.WriteByte('{')
		for i, e := range v.arr {
			if i > 0 {
				b.WriteByte(',')
			}
			e.render(b)
		}
		b.WriteByte('}')
	case KindError:
		b.WriteString(v.err.Code())
	default:
		panic("xlformula: invalid value kind " + v.kind.String())
	}
}

// formatNumber gives the shortest decimal text that parses back to f, without
// an exponent.
func formatNumber(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return decimal.NewFromFloat(f).String()
}
