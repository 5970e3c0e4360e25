package fnsort

import (
	"github.com/glossopoeia/saturate/compiler/sort"
	"github.com/glossopoeia/saturate/compiler/termdag"
)

// (make-function "name" partial...)
type ctor struct {
	function *FunctionSort
}

func (c *ctor) Name() string {
	return MakeFunctionName
}

func (c *ctor) TypeConstraints() sort.TypeConstraint {
	return ctorTypeConstraint{c.function}
}

// The first value is the interned name; the rest are the partial arguments,
// paired with the sorts type-checking resolved for them.
func (c *ctor) Apply(values []sort.Value, inputs []sort.Sort, output sort.Sort, eng sort.Engine) (sort.Value, bool) {
	if len(values) != len(inputs) {
		panic("make-function: value and sort counts differ")
	}
	name := c.function.strings.Load(values[0])
	args := make([]sort.Inner, len(values)-1)
	for i, v := range values[1:] {
		args[i] = sort.Inner{Sort: inputs[i+1], Value: v}
	}
	return c.function.Store(FunctionValue{name, args}), true
}

// Constraints for a make-function call site. When the name is a string
// literal naming a declared table function, the partial arguments are checked
// against that function's signature. Otherwise only the name's sort and the
// result's sort are known.
type ctorTypeConstraint struct {
	function *FunctionSort
}

func (c ctorTypeConstraint) Get(args []sort.AtomTerm, sigs sort.Signatures) []sort.Constraint {
	if len(args) < 2 {
		return []sort.Constraint{sort.ImpossibleBecause(sort.ArityMismatchError{
			Atom:     sort.Atom{Head: MakeFunctionName, Args: args},
			Expected: 2,
		})}
	}
	result := sort.AssignTo(args[len(args)-1], c.function)

	if name, ok := literalName(args[0]); ok && sigs != nil {
		if full, ok := sigs.FuncType(name); ok {
			partial := len(args) - 2
			declared := len(c.function.Inputs)
			if partial+declared != len(full.Inputs) {
				// TODO: report the number of terms the call site needs,
				// len(full.Inputs) - declared + 2, instead of this sum.
				return []sort.Constraint{sort.ImpossibleBecause(sort.ArityMismatchError{
					Atom:     sort.Atom{Head: MakeFunctionName, Args: args},
					Expected: declared + len(full.Inputs) + 1,
				})}
			}

			remaining := full.Inputs[partial:]
			if c.function.Output.Name() != full.Output.Name() || !sort.SameSorts(c.function.Inputs, remaining) {
				return []sort.Constraint{sort.ImpossibleBecause(sort.FunctionMismatchError{
					ExpectedOutput: c.function.Output,
					ExpectedInputs: c.function.Inputs,
					ActualOutput:   full.Output,
					ActualInputs:   remaining,
				})}
			}

			res := make([]sort.Constraint, 0, partial+1)
			for i, in := range full.Inputs[:partial] {
				res = append(res, sort.AssignTo(args[i+1], in))
			}
			return append(res, result)
		}
	}

	return []sort.Constraint{sort.AssignTo(args[0], c.function.strings), result}
}

func literalName(t sort.AtomTerm) (string, bool) {
	lit, ok := t.(sort.LitTerm)
	if !ok {
		return "", false
	}
	str, ok := lit.Lit.(termdag.LitString)
	return string(str), ok
}

// (apply-function fn arg...)
type apply struct {
	function *FunctionSort
}

func (a *apply) Name() string {
	return ApplyFunctionName
}

func (a *apply) TypeConstraints() sort.TypeConstraint {
	sorts := make([]sort.Sort, 0, len(a.function.Inputs)+2)
	sorts = append(sorts, a.function)
	sorts = append(sorts, a.function.Inputs...)
	sorts = append(sorts, a.function.Output)
	return sort.NewSimpleTypeConstraint(ApplyFunctionName, sorts)
}

func (a *apply) Apply(values []sort.Value, inputs []sort.Sort, output sort.Sort, eng sort.Engine) (sort.Value, bool) {
	if eng == nil {
		panic("apply-function is not supported in facts")
	}
	return a.function.Apply(values[0], values[1:], eng), true
}
