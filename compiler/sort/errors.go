package sort

import (
	"fmt"
	"strings"

	"github.com/rjNemo/underscore"
)

func sortNames(sorts []Sort) string {
	return "[" + strings.Join(underscore.Map(sorts, func(s Sort) string { return s.Name() }), " ") + "]"
}

// A call site has the wrong number of terms. Expected counts the result term
// as well as the arguments.
type ArityMismatchError struct {
	Atom     Atom
	Expected int
}

func (e ArityMismatchError) Error() string {
	return fmt.Sprintf("typecheck: %s has %d terms, expected %d", e.Atom, len(e.Atom.Args), e.Expected)
}

// A declared function sort disagrees with the full signature of the function
// named at a constructor call site.
type FunctionMismatchError struct {
	ExpectedOutput Sort
	ExpectedInputs []Sort
	ActualOutput   Sort
	ActualInputs   []Sort
}

func (e FunctionMismatchError) Error() string {
	return fmt.Sprintf("typecheck: function sort expects %s -> %s, but the function takes %s -> %s",
		sortNames(e.ExpectedInputs), e.ExpectedOutput.Name(),
		sortNames(e.ActualInputs), e.ActualOutput.Name())
}

// A term was required to have two different sorts.
type SortMismatchError struct {
	Term     AtomTerm
	Expected Sort
	Actual   Sort
}

func (e SortMismatchError) Error() string {
	return fmt.Sprintf("typecheck: %s has sort %s, expected %s", e.Term, e.Actual.Name(), e.Expected.Name())
}

type UndefinedSortError struct {
	Name string
}

func (e UndefinedSortError) Error() string {
	return fmt.Sprintf("sort: undefined sort %s", e.Name)
}

type UnboundFunctionError struct {
	Name string
}

func (e UnboundFunctionError) Error() string {
	return fmt.Sprintf("typecheck: unbound function %s", e.Name)
}

// No primitive or function with the name accepts exactly these sorts.
type UnresolvedCallError struct {
	Name  string
	Sorts []Sort
}

func (e UnresolvedCallError) Error() string {
	return fmt.Sprintf("typecheck: no callable %s over %s", e.Name, sortNames(e.Sorts))
}
