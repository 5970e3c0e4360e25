package typeinfo

import (
	"fmt"

	"github.com/glossopoeia/saturate/compiler/sort"
)

type DuplicateDeclarationError struct {
	Kind string
	Name string
}

func (e DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("typecheck: %s %s is already declared", e.Kind, e.Name)
}

type UndefinedPresortError struct {
	Name string
}

func (e UndefinedPresortError) Error() string {
	return fmt.Sprintf("typecheck: undefined presort %s", e.Name)
}

type UnboundVariableError struct {
	Name string
}

func (e UnboundVariableError) Error() string {
	return fmt.Sprintf("typecheck: unbound variable %s", e.Name)
}

// Type-checking finished without any constraint naming a sort for the term.
type AmbiguousSortError struct {
	Term sort.AtomTerm
}

func (e AmbiguousSortError) Error() string {
	return fmt.Sprintf("typecheck: cannot infer a sort for %s", e.Term)
}
