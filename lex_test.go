package xlformula

import (
	"io"
	"strings"
	"testing"
)

func TestLex(t *testing.T) {
	cases := []struct {
		src    string
		tokens []lexToken
		errs   int
	}{
		// spaces
		{"", nil, 0},
		{" \t \r\n ", nil, 0},
		// numbers
		{"0", []lexToken{{text: "0", kind: tokenNum, pos: 1}}, 0},
		{"9876543210", []lexToken{{text: "9876543210", kind: tokenNum, pos: 1}}, 0},
		{"1 0", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "0", kind: tokenNum, pos: 3}}, 0},
		{"1.0", []lexToken{{text: "1.0", kind: tokenNum, pos: 1}}, 0},
		{"-1", []lexToken{{text: "-", kind: tokenOp, pos: 1}, {text: "1", kind: tokenNum, pos: 2}}, 0},
		{"1e1", []lexToken{{text: "1e1", kind: tokenNum, pos: 1}}, 0},
		{"1e", []lexToken{{pos: 1}}, 1},
		{"1e+1", []lexToken{{text: "1e+1", kind: tokenNum, pos: 1}}, 0},
		{"1E-1", []lexToken{{text: "1E-1", kind: tokenNum, pos: 1}}, 0},
		{"1.1.1", []lexToken{{pos: 1}, {text: "1", kind: tokenNum, pos: 5}}, 1},
		{".", []lexToken{{pos: 1}}, 1},
		{".1", []lexToken{{text: ".1", kind: tokenNum, pos: 1}}, 0},
		{"1+0", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "+", kind: tokenOp, pos: 2}, {text: "0", kind: tokenNum, pos: 3}}, 0},
		{"1a", []lexToken{{pos: 1}}, 1},
		// text
		{`"a b"`, []lexToken{{text: "a b", kind: tokenText, pos: 1}}, 0},
		{`""`, []lexToken{{text: "", kind: tokenText, pos: 1}}, 0},
		{`"a"&"b"`, []lexToken{{text: "a", kind: tokenText, pos: 1}, {text: "&", kind: tokenOp, pos: 4}, {text: "b", kind: tokenText, pos: 5}}, 0},
		{`"abc`, []lexToken{{pos: 1}}, 1},
		// identifiers
		{"A", []lexToken{{text: "A", kind: tokenIdent, pos: 1}}, 0},
		{"A1", []lexToken{{text: "A1", kind: tokenIdent, pos: 1}}, 0},
		{"_x.y", []lexToken{{text: "_x.y", kind: tokenIdent, pos: 1}}, 0},
		{"A (", []lexToken{{text: "A", kind: tokenIdent, pos: 1}, {text: "(", kind: tokenOpen, pos: 3}}, 0},
		{"SUM(", []lexToken{{text: "SUM", kind: tokenFunc, pos: 1}}, 0},
		{"sum(1)", []lexToken{{text: "sum", kind: tokenFunc, pos: 1}, {text: "1", kind: tokenNum, pos: 5}, {text: ")", kind: tokenClose, pos: 6}}, 0},
		{"TRUE", []lexToken{{text: "TRUE", kind: tokenBool, pos: 1}}, 0},
		{"false", []lexToken{{text: "false", kind: tokenBool, pos: 1}}, 0},
		{"TRUE(", []lexToken{{text: "TRUE", kind: tokenFunc, pos: 1}}, 0},
		// operators
		{"^&", []lexToken{{text: "^", kind: tokenOp, pos: 1}, {text: "&", kind: tokenOp, pos: 2}}, 0},
		{"<>", []lexToken{{text: "<>", kind: tokenOp, pos: 1}}, 0},
		{"<=", []lexToken{{text: "<=", kind: tokenOp, pos: 1}}, 0},
		{">=", []lexToken{{text: ">=", kind: tokenOp, pos: 1}}, 0},
		{"><", []lexToken{{text: ">", kind: tokenOp, pos: 1}, {text: "<", kind: tokenOp, pos: 2}}, 0},
		{"<", []lexToken{{text: "<", kind: tokenOp, pos: 1}}, 0},
		{"a<b", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {text: "<", kind: tokenOp, pos: 2}, {text: "b", kind: tokenIdent, pos: 3}}, 0},
		{"a--b", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {text: "-", kind: tokenOp, pos: 2}, {text: "-", kind: tokenOp, pos: 3}, {text: "b", kind: tokenIdent, pos: 4}}, 0},
		// brackets and separators
		{"()", []lexToken{{text: "(", kind: tokenOpen, pos: 1}, {text: ")", kind: tokenClose, pos: 2}}, 0},
		{"{1,2}", []lexToken{{text: "{", kind: tokenOpen, pos: 1}, {text: "1", kind: tokenNum, pos: 2}, {text: ",", kind: tokenSep, pos: 3}, {text: "2", kind: tokenNum, pos: 4}, {text: "}", kind: tokenClose, pos: 5}}, 0},
		// erroneous symbols
		{"$", []lexToken{{pos: 1}}, 1},
		{"a$", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {pos: 2}}, 1},
		{"$a", []lexToken{{pos: 1}, {text: "a", kind: tokenIdent, pos: 2}}, 1},
		{"[a]", []lexToken{{pos: 1}, {text: "a", kind: tokenIdent, pos: 2}, {pos: 3}}, 2},
		{";", []lexToken{{pos: 1}}, 1},
	}

	for _, c := range cases {
		scan := lex(strings.NewReader(c.src))
		for _, want := range c.tokens {
			got, err := scan.next()
			if err == io.EOF {
				t.Errorf("scanning %q: expected token %v but got EOF", c.src, want)
				continue
			}
			if got != want {
				t.Errorf("scanning %q: want %v, got %v", c.src, want, got)
			}
			if err != nil {
				if c.errs > 0 {
					c.errs--
					continue
				}
				t.Errorf("scanning %q: unexpected error %v", c.src, err)
			}
		}
		for got, err := scan.next(); err != io.EOF; got, err = scan.next() {
			if got.kind == tokenEOF {
				continue
			}
			if c.errs > 0 {
				c.errs--
			}
			t.Errorf("scanning %q: extra token %v with error: %v", c.src, got, err)
		}
		if c.errs > 0 {
			t.Errorf("scanning %q: not enough errors", c.src)
		}
	}
}

func TestLexErrorKinds(t *testing.T) {
	cases := []struct {
		src  string
		kind string
	}{
		{"1e", "number"},
		{"1a", "number"},
		{`"open`, "text"},
		{"#", ""},
	}
	for _, c := range cases {
		_, err := lex(strings.NewReader(c.src)).next()
		le, ok := err.(*LexError)
		if !ok {
			t.Errorf("scanning %q: want *LexError, got %#v", c.src, err)
			continue
		}
		if le.Kind != c.kind {
			t.Errorf("scanning %q: want kind %q, got %q", c.src, c.kind, le.Kind)
		}
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		src string
		f   float64
		ok  bool
	}{
		{"1.2", 1.2, true},
		{"  3 ", 3, true},
		{"-4", -4, true},
		{"+.5", 0.5, true},
		{"1e3", 1000, true},
		{"", 0, false},
		{"-", 0, false},
		{"Hello World", 0, false},
		{"1 2", 0, false},
		{"1-2", 0, false},
		{"inf", 0, false},
		{"NaN", 0, false},
		{"0x10", 0, false},
		{"1e999", 0, false},
	}
	for _, c := range cases {
		f, ok := ParseNumber(c.src)
		if f != c.f || ok != c.ok {
			t.Errorf("ParseNumber(%q): want %v, %t; got %v, %t", c.src, c.f, c.ok, f, ok)
		}
	}
}
