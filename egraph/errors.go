package egraph

import (
	"fmt"
)

type LoweringError struct {
	Message string
}

func (e LoweringError) Error() string {
	return "egraph: could not lower expression: " + e.Message
}

type UnionSortError struct {
	Left  string
	Right string
}

func (e UnionSortError) Error() string {
	return fmt.Sprintf("egraph: cannot union a %s with a %s", e.Left, e.Right)
}

type NotATableCallError struct {
	Expr string
}

func (e NotATableCallError) Error() string {
	return fmt.Sprintf("egraph: expected a call of a table function, got %s", e.Expr)
}

// A function whose output is not an e-class already has a different value for
// the same arguments.
type MergeConflictError struct {
	Function string
	Old      string
	New      string
}

func (e MergeConflictError) Error() string {
	return fmt.Sprintf("egraph: %s already maps these arguments to %s, cannot set %s", e.Function, e.Old, e.New)
}

type CheckFailedError struct {
	Expr string
	Err  error
}

func (e CheckFailedError) Error() string {
	return fmt.Sprintf("egraph: check %s failed: %v", e.Expr, e.Err)
}

func (e CheckFailedError) Unwrap() error {
	return e.Err
}

type ExtractError struct {
	Expr string
}

func (e ExtractError) Error() string {
	return fmt.Sprintf("egraph: no term represents %s", e.Expr)
}
