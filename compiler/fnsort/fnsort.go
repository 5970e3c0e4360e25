// Package fnsort implements function values: the name of a callable together
// with a list of partially applied arguments, stored as an ordinary value.
//
// A function sort is declared with the UnstableFn presort, giving the sorts
// of the arguments still missing and the output sort:
//
//	sort IntToString = UnstableFn(i64) -> String
//
// Values are created with (make-function "name" partial...) and called with
// (apply-function fn arg...). The number of call-site arguments always equals
// the number of inputs the sort declares.
package fnsort

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/glossopoeia/saturate/compiler"
	"github.com/glossopoeia/saturate/compiler/intern"
	"github.com/glossopoeia/saturate/compiler/sort"
	"github.com/glossopoeia/saturate/compiler/termdag"
	"github.com/glossopoeia/saturate/compiler/unionfind"
	"github.com/glossopoeia/saturate/compiler/util"
	"github.com/glossopoeia/saturate/runtime"
	"github.com/rjNemo/underscore"
)

const (
	PresortName       = "UnstableFn"
	MakeFunctionName  = "make-function"
	ApplyFunctionName = "apply-function"
)

// A FunctionValue names a callable and the arguments already supplied to it.
// Each argument keeps its sort so the value can be canonicalized and
// extracted without asking anyone else.
type FunctionValue struct {
	Name string
	Args []sort.Inner
}

// Two function values are the same value when their names and argument bits
// agree. The argument sorts are determined by the name and the enclosing
// sort, so they take no part in identity. The name is length-prefixed so no
// name can run into the argument bytes.
func (f FunctionValue) key() string {
	var b strings.Builder
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(f.Name)))
	b.Write(buf[:])
	b.WriteString(f.Name)
	for _, a := range f.Args {
		binary.LittleEndian.PutUint64(buf[:], a.Value.Bits)
		b.Write(buf[:])
	}
	return b.String()
}

type FunctionSort struct {
	name string
	// Sorts of the arguments supplied at apply time, in order.
	Inputs    []sort.Sort
	Output    sort.Sort
	strings   *sort.StringSort
	functions *intern.Set[string, FunctionValue]
}

func NewFunctionSort(name string, inputs []sort.Sort, output sort.Sort, strings *sort.StringSort) *FunctionSort {
	return &FunctionSort{
		name:      name,
		Inputs:    inputs,
		Output:    output,
		strings:   strings,
		functions: intern.NewSet[string, FunctionValue](),
	}
}

// Store interns the function value and returns its handle.
func (s *FunctionSort) Store(fn FunctionValue) sort.Value {
	return sort.Value{Bits: s.functions.Insert(fn.key(), fn), Tag: s.name}
}

// Load returns the function value behind a handle created by Store.
func (s *FunctionSort) Load(v sort.Value) FunctionValue {
	return s.functions.Get(v.Bits)
}

func (s *FunctionSort) Name() string {
	return s.name
}

func (s *FunctionSort) IsEqSort() bool {
	return false
}

func (s *FunctionSort) IsContainerSort() bool {
	return true
}

// Only the apply-time inputs are consulted, not the sorts of partial
// arguments.
func (s *FunctionSort) IsEqContainerSort() bool {
	return underscore.Any(s.Inputs, func(in sort.Sort) bool { return in.IsEqSort() })
}

func (s *FunctionSort) InnerValues(v sort.Value) []sort.Inner {
	args := s.Load(v).Args
	res := make([]sort.Inner, len(args))
	copy(res, args)
	return res
}

func (s *FunctionSort) Canonicalize(v *sort.Value, uf *unionfind.UnionFind) bool {
	fn := s.Load(*v)
	changed := false
	args := make([]sort.Inner, len(fn.Args))
	for i, a := range fn.Args {
		child := a.Value
		if a.Sort.Canonicalize(&child, uf) {
			changed = true
		}
		args[i] = sort.Inner{Sort: a.Sort, Value: child}
	}
	*v = s.Store(FunctionValue{fn.Name, args})
	return changed
}

func (s *FunctionSort) SerializedName(v sort.Value) string {
	return s.Load(v).Name
}

// ExtractTerm rebuilds (make-function "name" partial...) from the cheapest
// term of each partial argument. The name literal itself is free.
func (s *FunctionSort) ExtractTerm(v sort.Value, ex sort.Extractor, dag *termdag.TermDag) (sort.Cost, termdag.TermId, bool) {
	fn := s.Load(v)
	cost := sort.Cost(1)
	args := []termdag.TermId{dag.Lit(termdag.LitString(fn.Name))}
	for _, a := range fn.Args {
		childCost, term, ok := ex.FindBest(a.Value, dag, a.Sort)
		if !ok {
			return 0, 0, false
		}
		cost = util.SaturatingAdd(cost, childCost)
		args = append(args, term)
	}
	return cost, dag.App(MakeFunctionName, args), true
}

func (s *FunctionSort) RegisterPrimitives(r sort.Registry) {
	r.AddPrimitive(&ctor{s})
	r.AddPrimitive(&apply{s})
}

// Apply calls the function behind fn with the stored partial arguments
// followed by args. Any sort holding function values may use it to invoke
// them through the engine.
func (s *FunctionSort) Apply(fn sort.Value, args []sort.Value, eng sort.Engine) sort.Value {
	stored := s.Load(fn)
	types := make([]sort.Sort, 0, len(stored.Args)+len(s.Inputs)+1)
	values := make([]sort.Value, 0, len(stored.Args)+len(args))
	for _, a := range stored.Args {
		types = append(types, a.Sort)
		values = append(values, a.Value)
	}
	types = append(types, s.Inputs...)
	types = append(types, s.Output)
	values = append(values, args...)
	return callFunction(eng, stored.Name, types, values)
}

// Calls the named primitive or table function the same way an action written
// in source would: resolve it, lower a call over one temporary per argument,
// and run the program with the arguments bound to those temporaries. types
// lists the argument sorts followed by the output sort.
func callFunction(eng sort.Engine, name string, types []sort.Sort, args []sort.Value) sort.Value {
	call, err := eng.Resolve(name, types)
	if err != nil {
		panic(fmt.Sprintf("fnsort: could not resolve %s: %v", name, err))
	}

	names := compiler.NewNameFresh().NextPrefixN("__arg_", len(args))
	binding := make([]sort.Var, len(args))
	callArgs := make([]sort.Expr, len(args))
	for i, name := range names {
		binding[i] = sort.Var{Name: name, Sort: types[i]}
		callArgs[i] = sort.VarExpr{Var: binding[i]}
	}

	prog, err := eng.CompileExpr(binding, sort.CallExpr{Call: call, Args: callArgs})
	if err != nil {
		panic(fmt.Sprintf("fnsort: could not compile call to %s: %v", name, err))
	}
	fiber := runtime.NewFiber()
	if err := eng.RunProgram(fiber, args, prog); err != nil {
		panic(fmt.Sprintf("fnsort: call to %s failed: %v", name, err))
	}
	return fiber.PopOneValue()
}
