package xlformula_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/zephyrtronium/xlformula"
)

func TestValueAccessors(t *testing.T) {
	when := day(2019, 8, 30)
	cases := []struct {
		v     xlformula.Value
		kind  xlformula.Kind
		f     float64
		s     string
		b     bool
		t     time.Time
		n     int
		isErr bool
	}{
		{v: xlformula.Value{}, kind: xlformula.KindNumber},
		{v: xlformula.Num(1.5), kind: xlformula.KindNumber, f: 1.5},
		{v: xlformula.Str("x"), kind: xlformula.KindText, s: "x"},
		{v: xlformula.Bool(true), kind: xlformula.KindBool, b: true},
		{v: xlformula.Bool(false), kind: xlformula.KindBool},
		{v: xlformula.Date(when), kind: xlformula.KindDate, t: when},
		{v: xlformula.Array(xlformula.Num(1), xlformula.Num(2)), kind: xlformula.KindArray, n: 2},
		{v: xlformula.Err(xlformula.TypeCast), kind: xlformula.KindError, isErr: true},
	}
	for _, c := range cases {
		v := c.v
		if v.Kind() != c.kind {
			t.Errorf("%v: want kind %v, got %v", v, c.kind, v.Kind())
		}
		if v.Float() != c.f {
			t.Errorf("%v: want Float %v, got %v", v, c.f, v.Float())
		}
		if v.Text() != c.s {
			t.Errorf("%v: want Text %q, got %q", v, c.s, v.Text())
		}
		if v.Truth() != c.b {
			t.Errorf("%v: want Truth %t, got %t", v, c.b, v.Truth())
		}
		if !v.Time().Equal(c.t) {
			t.Errorf("%v: want Time %v, got %v", v, c.t, v.Time())
		}
		if v.Len() != c.n || len(v.Elems()) != c.n {
			t.Errorf("%v: want %d elements, got %d and %d", v, c.n, v.Len(), len(v.Elems()))
		}
		if v.IsError() != c.isErr {
			t.Errorf("%v: want IsError %t", v, c.isErr)
		}
		if !c.isErr && (v.ErrorKind() != xlformula.NoError || v.Cause() != nil) {
			t.Errorf("%v: non-error has error kind %v and cause %v", v, v.ErrorKind(), v.Cause())
		}
	}
}

func TestValueArrayCopies(t *testing.T) {
	elems := []xlformula.Value{xlformula.Num(1), xlformula.Num(2)}
	v := xlformula.Array(elems...)
	elems[0] = xlformula.Num(3)
	if got := v.Elems()[0]; !got.Equal(xlformula.Num(1)) {
		t.Errorf("Array kept the caller's slice: first element is %v", got)
	}
	e := v.Elems()
	e[1] = xlformula.Num(4)
	if got := v.Elems()[1]; !got.Equal(xlformula.Num(2)) {
		t.Errorf("Elems exposed the array: second element is %v", got)
	}
}

func TestValueEqual(t *testing.T) {
	when := day(2019, 8, 30)
	cases := []struct {
		name string
		a, b xlformula.Value
		eq   bool
	}{
		{"num", xlformula.Num(1), xlformula.Num(1), true},
		{"numne", xlformula.Num(1), xlformula.Num(2), false},
		{"nan", xlformula.Num(math.NaN()), xlformula.Num(math.NaN()), false},
		{"numbool", xlformula.Num(1), xlformula.Bool(true), false},
		{"numtext", xlformula.Num(1), xlformula.Str("1"), false},
		{"text", xlformula.Str("a"), xlformula.Str("a"), true},
		{"textcase", xlformula.Str("a"), xlformula.Str("A"), false},
		{"bool", xlformula.Bool(false), xlformula.Bool(false), true},
		{"date", xlformula.Date(when), xlformula.Date(when.In(time.FixedZone("x", 3600))), true},
		{"datene", xlformula.Date(when), xlformula.Date(when.AddDate(0, 0, 1)), false},
		{"array", xlformula.Array(xlformula.Num(1), xlformula.Str("a")), xlformula.Array(xlformula.Num(1), xlformula.Str("a")), true},
		{"arraylen", xlformula.Array(xlformula.Num(1)), xlformula.Array(xlformula.Num(1), xlformula.Num(1)), false},
		{"arrayelem", xlformula.Array(xlformula.Num(1)), xlformula.Array(xlformula.Num(2)), false},
		{"err", xlformula.Err(xlformula.TypeCast), xlformula.Err(xlformula.TypeCast), true},
		{"errcause", xlformula.Err(xlformula.InvalidArgument), xlformula.EvalString("=FOO()", nil), true},
		{"errne", xlformula.Err(xlformula.TypeCast), xlformula.Err(xlformula.DivisionByZero), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.a.Equal(c.b); got != c.eq {
				t.Errorf("%v == %v: want %t, got %t", c.a, c.b, c.eq, got)
			}
			if got := c.b.Equal(c.a); got != c.eq {
				t.Errorf("%v == %v: want %t, got %t", c.b, c.a, c.eq, got)
			}
		})
	}
}

func TestValueCause(t *testing.T) {
	v := xlformula.Err(xlformula.DivisionByZero)
	if !errors.Is(v.Cause(), xlformula.DivisionByZero) {
		t.Errorf("cause of bare error value is %v", v.Cause())
	}
	if v.ErrorKind() != xlformula.DivisionByZero {
		t.Errorf("wrong error kind %v", v.ErrorKind())
	}
	for k := xlformula.NoError; k <= xlformula.ParseError; k++ {
		if k.Error() == "" {
			t.Errorf("error kind %d has no message", k)
		}
		if (k.Code() == "") != (k == xlformula.NoError) {
			t.Errorf("error kind %v has code %q", k, k.Code())
		}
	}
}

func TestKindString(t *testing.T) {
	want := map[xlformula.Kind]string{
		xlformula.KindNumber: "Number",
		xlformula.KindText:   "Text",
		xlformula.KindBool:   "Bool",
		xlformula.KindDate:   "Date",
		xlformula.KindArray:  "Array",
		xlformula.KindError:  "Error",
	}
	for k, s := range want {
		if k.String() != s {
			t.Errorf("kind %d: want %q, got %q", k, s, k.String())
		}
	}
}
