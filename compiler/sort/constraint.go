package sort

import (
	"fmt"
	"strings"

	"github.com/glossopoeia/saturate/compiler/termdag"
)

// An AtomTerm is one argument position of a flattened call during
// type-checking: a variable introduced for an intermediate result, a literal,
// or a reference to a global binding.
type AtomTerm interface {
	fmt.Stringer
	// Terms with equal keys always have the same sort.
	Key() string
	atomTerm()
}

type VarTerm struct {
	Name string
}

type LitTerm struct {
	Lit termdag.Literal
}

type GlobalTerm struct {
	Name string
}

func (t VarTerm) String() string    { return t.Name }
func (t LitTerm) String() string    { return t.Lit.String() }
func (t GlobalTerm) String() string { return t.Name }

func (t VarTerm) Key() string    { return "v:" + t.Name }
func (t LitTerm) Key() string    { return fmt.Sprintf("l:%T:%s", t.Lit, t.Lit) }
func (t GlobalTerm) Key() string { return "g:" + t.Name }

func (VarTerm) atomTerm()    {}
func (LitTerm) atomTerm()    {}
func (GlobalTerm) atomTerm() {}

// An Atom is a flattened call: the head applied to its argument terms, with
// the term for the call's result as the last argument.
type Atom struct {
	Head string
	Args []AtomTerm
}

func (a Atom) String() string {
	parts := make([]string, 0, len(a.Args)+1)
	parts = append(parts, a.Head)
	for _, t := range a.Args {
		parts = append(parts, t.String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// A Constraint is one fact a candidate callable demands of its call site.
type Constraint interface {
	constraint()
}

// Assign requires the term to have exactly the given sort.
type Assign struct {
	Term AtomTerm
	Sort Sort
}

// Impossible rules the candidate out, carrying the reason.
type Impossible struct {
	Err error
}

func (Assign) constraint()     {}
func (Impossible) constraint() {}

func AssignTo(t AtomTerm, s Sort) Constraint {
	return Assign{t, s}
}

func ImpossibleBecause(err error) Constraint {
	return Impossible{err}
}

// A TypeConstraint produces the constraints for one call site of a primitive
// or function. Signatures gives read-only access to the declared function
// table for constraints that can say more when a function name is known.
type TypeConstraint interface {
	Get(args []AtomTerm, sigs Signatures) []Constraint
}

// SimpleTypeConstraint is a fixed-arity signature: one sort per input
// followed by the output sort.
type SimpleTypeConstraint struct {
	name  string
	sorts []Sort
}

func NewSimpleTypeConstraint(name string, sorts []Sort) SimpleTypeConstraint {
	return SimpleTypeConstraint{name, sorts}
}

func (c SimpleTypeConstraint) Get(args []AtomTerm, sigs Signatures) []Constraint {
	if len(args) != len(c.sorts) {
		return []Constraint{ImpossibleBecause(ArityMismatchError{Atom{c.name, args}, len(c.sorts)})}
	}
	res := make([]Constraint, len(args))
	for i, arg := range args {
		res[i] = AssignTo(arg, c.sorts[i])
	}
	return res
}
