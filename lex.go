package xlformula

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a number literal.
	tokenNum
	// tokenText is a quoted text literal. The token text excludes the quotes.
	tokenText
	// tokenBool is TRUE or FALSE in any case.
	tokenBool
	// tokenIdent is a reference name.
	tokenIdent
	// tokenFunc is a function name. The lexer consumes the open parenthesis
	// that follows it.
	tokenFunc
	// tokenOp is an operator.
	tokenOp
	// tokenOpen is an open bracket, ( or {.
	tokenOpen
	// tokenClose is a close bracket, ) or }.
	tokenClose
	// tokenSep is an argument or array element separator.
	tokenSep
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenEOF:
		return "EOF"
	case tokenNum:
		return "Num"
	case tokenText:
		return "Text"
	case tokenBool:
		return "Bool"
	case tokenIdent:
		return "Ident"
	case tokenFunc:
		return "Func"
	case tokenOp:
		return "Op"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	case tokenSep:
		return "Sep"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operators contains the runes which begin operators. < and > may combine
// with a following = or > to form <=, >=, and <>.
const Operators = "+-*/^&=<>"

// OpenBrackets and CloseBrackets contain the runes which group expressions.
// The parser checks that a bracket in byte position k in OpenBrackets is
// matched with the bracket in byte position k in CloseBrackets.
const (
	OpenBrackets  = "({"
	CloseBrackets = ")}"
)

func byteidcs(s string) []string {
	v := make([]string, len(s))
	for i, r := range s {
		v[i] = string(r)
	}
	return v
}

var (
	operstrs      = byteidcs(Operators)
	openbrackets  = byteidcs(OpenBrackets)
	closebrackets = byteidcs(CloseBrackets)
)

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
	p    lexToken
	eof  bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("xlformula: double push")
	}
	l.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (l *lexer) must() lexToken {
	tok := l.p
	if tok.kind == tokenNone {
		panic("xlformula: no pushed token")
	}
	l.p = lexToken{}
	return tok
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// next scans the next token from the input. The first time EOF is encountered,
// the result is an EOF token with a nil error. Subsequent times, if the EOF
// token is not pushed, the result is an empty token with io.EOF.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	tok := lexToken{pos: l.rune}
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.kind = tokenEOF
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case unicode.IsSpace(r):
			tok.pos++
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			if err := l.scanNum(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenNum
			return tok, nil
		case r == '"':
			if err := l.scanText(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenText
			return tok, nil
		case r == '_', unicode.IsLetter(r):
			l.unreadRune()
			call, err := l.scanIdent()
			if err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			switch {
			case call:
				tok.kind = tokenFunc
			case strings.EqualFold(tok.text, "TRUE"), strings.EqualFold(tok.text, "FALSE"):
				tok.kind = tokenBool
			default:
				tok.kind = tokenIdent
			}
			return tok, nil
		case r == ',':
			tok.text = ","
			tok.kind = tokenSep
			return tok, nil
		case r == '<', r == '>':
			tok.text = l.scanCompare(r)
			tok.kind = tokenOp
			return tok, nil
		default:
			if k := strings.IndexRune(Operators, r); k >= 0 {
				tok.text = operstrs[k]
				tok.kind = tokenOp
				return tok, nil
			}
			if k := strings.IndexRune(OpenBrackets, r); k >= 0 {
				tok.text = openbrackets[k]
				tok.kind = tokenOpen
				return tok, nil
			}
			if k := strings.IndexRune(CloseBrackets, r); k >= 0 {
				tok.text = closebrackets[k]
				tok.kind = tokenClose
				return tok, nil
			}
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error("")
		}
	}
}

func (l *lexer) scanNum() error {
	var dig, dot, e, le, ed bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if unicode.IsSpace(r) {
			l.unreadRune()
			break
		}
		if r == '+' || r == '-' {
			// + or - anywhere other than immediately following an exponent
			// marker means a new token, as it is an operator.
			if !le {
				l.unreadRune()
				break
			}
			le = false
			l.buf.WriteRune(r)
			continue
		}
		if strings.ContainsRune(Operators+OpenBrackets+CloseBrackets+",", r) {
			l.unreadRune()
			break
		}
		l.buf.WriteRune(r)
		switch r {
		case '.':
			if dot || e {
				return l.error("number")
			}
			dot = true
			le = false
		case 'e', 'E':
			if !dig || e {
				return l.error("number")
			}
			e = true
			le = true
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			if e {
				ed = true
			} else {
				dig = true
			}
			le = false
		default:
			return l.error("number")
		}
	}
	if !dig || (e && !ed) {
		return l.error("number")
	}
	return nil
}

// scanText scans the contents of a quoted text literal up to the closing
// quote, which is consumed but not written.
func (l *lexer) scanText() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return l.error("text")
			}
			return err
		}
		if r == '"' {
			return nil
		}
		l.buf.WriteRune(r)
	}
}

// scanIdent scans a name. If the name is immediately followed by an open
// parenthesis, it is consumed and the result is true.
func (l *lexer) scanIdent() (bool, error) {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// next unreads the rune that decides ident scanning before
				// calling scanIdent, so we have scanned at least one rune.
				return false, nil
			}
			return false, err
		}
		switch {
		case r == '_', r == '.', unicode.IsLetter(r), unicode.IsDigit(r):
			l.buf.WriteRune(r)
		case r == '(':
			return true, nil
		default:
			l.unreadRune()
			return false, nil
		}
	}
}

// scanCompare scans the rest of an operator beginning with < or >.
func (l *lexer) scanCompare(first rune) string {
	r, err := l.readRune()
	if err != nil {
		// EOF ends the operator. Any other error will recur on the next scan.
		return string(first)
	}
	switch {
	case r == '=':
		return string(first) + "="
	case first == '<' && r == '>':
		return "<>"
	default:
		l.unreadRune()
		return string(first)
	}
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.rune - 1,
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number",
	// "text", or the empty string (if a token kind hadn't been decided).
	Kind string
	// Col is the position of the last rune the lexer scanned before
	// reporting the error.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	switch err.Kind {
	case "":
		return "invalid token at " + pos + ": " + err.Text
	case "text":
		return "unterminated text at " + pos + ": " + strconv.Quote(err.Text)
	default:
		return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
	}
}

func (err *LexError) Pos() int {
	return err.Col
}

// ParseNumber parses s as a number the way formula constants and numeric text
// are recognized: an optional sign followed by a number literal, with
// surrounding whitespace allowed. The second result is false if s is not
// entirely numeric.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	body := s
	if body != "" && (body[0] == '+' || body[0] == '-') {
		body = body[1:]
	}
	if body == "" || (body[0] != '.' && (body[0] < '0' || body[0] > '9')) {
		return 0, false
	}
	l := lex(strings.NewReader(body))
	if err := l.scanNum(); err != nil {
		return 0, false
	}
	if l.buf.Len() != len(body) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
