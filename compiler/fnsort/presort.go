package fnsort

import (
	"github.com/glossopoeia/saturate/compiler/sort"
)

// Presort builds function sorts from declarations of the form
// `sort Name = UnstableFn(In...) -> Out`. An empty input list declares a
// sort of nullary functions.
type Presort struct{}

func (Presort) PresortName() string {
	return PresortName
}

func (Presort) ReservedPrimitives() []string {
	return []string{MakeFunctionName, ApplyFunctionName}
}

func (Presort) MakeSort(sorts sort.Sorts, name string, inputs []string, output string) (sort.Sort, error) {
	out, ok := sorts.Sort(output)
	if !ok {
		return nil, sort.UndefinedSortError{Name: output}
	}
	ins := make([]sort.Sort, len(inputs))
	for i, in := range inputs {
		s, ok := sorts.Sort(in)
		if !ok {
			return nil, sort.UndefinedSortError{Name: in}
		}
		ins[i] = s
	}

	str, ok := sorts.Sort(sort.StringName)
	if !ok {
		return nil, sort.UndefinedSortError{Name: sort.StringName}
	}
	strs, ok := str.(*sort.StringSort)
	if !ok {
		return nil, sort.UndefinedSortError{Name: sort.StringName}
	}
	return NewFunctionSort(name, ins, out, strs), nil
}
