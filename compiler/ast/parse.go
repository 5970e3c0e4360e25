package ast

import (
	"fmt"
	"strconv"
	"unicode"
)

type ParseError struct {
	Offset  int
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("ast: %s at offset %d", e.Message, e.Offset)
}

type reader struct {
	src []rune
	pos int
}

// Parse reads exactly one expression. Integers become i64 literals, quoted
// text becomes String literals, () is the Unit literal, any other atom is a
// variable, and (head arg...) is a call.
func Parse(src string) (Expr, error) {
	r := &reader{[]rune(src), 0}
	e, err := r.expr()
	if err != nil {
		return nil, err
	}
	r.skipSpace()
	if r.pos < len(r.src) {
		return nil, ParseError{r.pos, "unexpected trailing input"}
	}
	return e, nil
}

// MustParse is Parse for inputs known to be well formed.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

func (r *reader) skipSpace() {
	for r.pos < len(r.src) {
		c := r.src[r.pos]
		if c == ';' {
			for r.pos < len(r.src) && r.src[r.pos] != '\n' {
				r.pos++
			}
			continue
		}
		if !unicode.IsSpace(c) {
			return
		}
		r.pos++
	}
}

func (r *reader) expr() (Expr, error) {
	r.skipSpace()
	if r.pos >= len(r.src) {
		return nil, ParseError{r.pos, "unexpected end of input"}
	}
	switch r.src[r.pos] {
	case '(':
		return r.list()
	case ')':
		return nil, ParseError{r.pos, "unexpected )"}
	case '"':
		return r.str()
	default:
		return r.atom(), nil
	}
}

func (r *reader) list() (Expr, error) {
	start := r.pos
	r.pos++
	r.skipSpace()
	if r.pos < len(r.src) && r.src[r.pos] == ')' {
		r.pos++
		return Unit(), nil
	}
	if r.pos < len(r.src) && (r.src[r.pos] == '(' || r.src[r.pos] == '"') {
		return nil, ParseError{r.pos, "call head must be a name"}
	}

	head, err := r.expr()
	if err != nil {
		return nil, err
	}
	name, ok := head.(Var)
	if !ok {
		return nil, ParseError{start + 1, fmt.Sprintf("call head %s must be a name", head)}
	}

	args := []Expr{}
	for {
		r.skipSpace()
		if r.pos >= len(r.src) {
			return nil, ParseError{start, "unclosed ("}
		}
		if r.src[r.pos] == ')' {
			r.pos++
			return Call{name.Name, args}, nil
		}
		arg, err := r.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
}

func (r *reader) str() (Expr, error) {
	start := r.pos
	r.pos++
	for r.pos < len(r.src) {
		switch r.src[r.pos] {
		case '\\':
			r.pos += 2
			continue
		case '"':
			r.pos++
			s, err := strconv.Unquote(string(r.src[start:r.pos]))
			if err != nil {
				return nil, ParseError{start, err.Error()}
			}
			return Str(s), nil
		}
		r.pos++
	}
	return nil, ParseError{start, "unterminated string"}
}

func (r *reader) atom() Expr {
	start := r.pos
	for r.pos < len(r.src) {
		c := r.src[r.pos]
		if unicode.IsSpace(c) || c == '(' || c == ')' || c == '"' || c == ';' {
			break
		}
		r.pos++
	}
	text := string(r.src[start:r.pos])
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Int(i)
	}
	return Var{text}
}
