package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	data := []string{
		"42",
		"-7",
		`"hello world"`,
		"()",
		"x",
		"(+ 1 2)",
		`(make-function "Add" (Num 1))`,
		"(Nil)",
		"  ( apply-function  f ; trailing comment\n 2 )  ",
		`"esc\"aped"`,
	}

	testCases := []struct {
		name string
		exp  Expr
	}{
		{"Int", Int(42)},
		{"NegativeInt", Int(-7)},
		{"String", Str("hello world")},
		{"Unit", Unit()},
		{"Var", Var{"x"}},
		{"Call", NewCall("+", Int(1), Int(2))},
		{"NestedCall", NewCall("make-function", Str("Add"), NewCall("Num", Int(1)))},
		{"NullaryCall", Call{"Nil", []Expr{}}},
		{"Whitespace", NewCall("apply-function", Var{"f"}, Int(2))},
		{"Escapes", Str(`esc"aped`)},
	}

	for ind, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Parse(data[ind])
			if err != nil {
				t.Fatalf("Expected no error, got %v instead", err)
			}
			if res.String() != tc.exp.String() {
				t.Errorf("Expected %s, got %s instead", tc.exp, res)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	data := []string{
		"",
		"(+ 1",
		")",
		`"open`,
		"(1 2)",
		"(f) g",
	}

	testCases := []struct {
		name string
		exp  ParseError
	}{
		{"Empty", ParseError{0, "unexpected end of input"}},
		{"Unclosed", ParseError{0, "unclosed ("}},
		{"StrayClose", ParseError{0, "unexpected )"}},
		{"UnterminatedString", ParseError{0, "unterminated string"}},
		{"LiteralHead", ParseError{1, "call head 1 must be a name"}},
		{"Trailing", ParseError{4, "unexpected trailing input"}},
	}

	for ind, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(data[ind])
			if diff := cmp.Diff(error(tc.exp), err); diff != "" {
				t.Errorf("Error mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Expected MustParse to panic on malformed input")
		}
	}()
	MustParse("(")
}
