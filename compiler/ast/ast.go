// Package ast holds expressions as written, before any call is resolved or any
// sort is known, and a reader for their s-expression form.
package ast

import (
	"strings"

	"github.com/glossopoeia/saturate/compiler/termdag"
)

type Expr interface {
	String() string
	expr()
}

type Lit struct {
	Value termdag.Literal
}

// A Var refers to a global binding or, inside a program, a bound variable.
type Var struct {
	Name string
}

type Call struct {
	Head string
	Args []Expr
}

func (e Lit) String() string { return e.Value.String() }
func (e Var) String() string { return e.Name }

func (e Call) String() string {
	parts := make([]string, 0, len(e.Args)+1)
	parts = append(parts, e.Head)
	for _, a := range e.Args {
		parts = append(parts, a.String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (Lit) expr()  {}
func (Var) expr()  {}
func (Call) expr() {}

func Int(i int64) Expr {
	return Lit{termdag.LitInt(i)}
}

func Str(s string) Expr {
	return Lit{termdag.LitString(s)}
}

func Unit() Expr {
	return Lit{termdag.LitUnit{}}
}

func NewCall(head string, args ...Expr) Expr {
	return Call{head, args}
}
