package sort

import (
	"strconv"

	"github.com/glossopoeia/saturate/compiler/intern"
	"github.com/glossopoeia/saturate/compiler/termdag"
	"github.com/glossopoeia/saturate/compiler/unionfind"
	"golang.org/x/exp/constraints"
)

const (
	UnitName   = "Unit"
	I64Name    = "i64"
	StringName = "String"
)

func literalTerm(l termdag.Literal, dag *termdag.TermDag) (Cost, termdag.TermId, bool) {
	return 1, dag.Lit(l), true
}

// UnitSort has exactly one value.
type UnitSort struct {
	Base
}

func NewUnitSort() *UnitSort {
	return &UnitSort{NewBase(UnitName)}
}

func (s *UnitSort) Value() Value {
	return Value{Bits: 0, Tag: s.Name()}
}

func (s *UnitSort) FromLiteral(l termdag.Literal) (Value, bool) {
	if _, ok := l.(termdag.LitUnit); ok {
		return s.Value(), true
	}
	return Value{}, false
}

func (s *UnitSort) ToLiteral(v Value) termdag.Literal {
	return termdag.LitUnit{}
}

func (s *UnitSort) ExtractTerm(v Value, ex Extractor, dag *termdag.TermDag) (Cost, termdag.TermId, bool) {
	return literalTerm(termdag.LitUnit{}, dag)
}

// StringSort interns strings, so equal strings share a handle.
type StringSort struct {
	Base
	strings *intern.Set[string, string]
}

func NewStringSort() *StringSort {
	return &StringSort{NewBase(StringName), intern.NewSet[string, string]()}
}

func (s *StringSort) Store(str string) Value {
	return Value{Bits: s.strings.Insert(str, str), Tag: s.Name()}
}

func (s *StringSort) Load(v Value) string {
	return s.strings.Get(v.Bits)
}

func (s *StringSort) FromLiteral(l termdag.Literal) (Value, bool) {
	if str, ok := l.(termdag.LitString); ok {
		return s.Store(string(str)), true
	}
	return Value{}, false
}

func (s *StringSort) ToLiteral(v Value) termdag.Literal {
	return termdag.LitString(s.Load(v))
}

func (s *StringSort) ExtractTerm(v Value, ex Extractor, dag *termdag.TermDag) (Cost, termdag.TermId, bool) {
	return literalTerm(s.ToLiteral(v), dag)
}

func (s *StringSort) RegisterPrimitives(r Registry) {
	r.AddPrimitive(NewPrimitive("+", []Sort{s, s}, s, func(args []Value) (Value, bool) {
		return s.Store(s.Load(args[0]) + s.Load(args[1])), true
	}))
}

// I64Sort stores signed integers directly in the value bits.
type I64Sort struct {
	Base
	strings *StringSort
}

func NewI64Sort(strings *StringSort) *I64Sort {
	return &I64Sort{NewBase(I64Name), strings}
}

func (s *I64Sort) Store(i int64) Value {
	return Value{Bits: uint64(i), Tag: s.Name()}
}

func (s *I64Sort) Load(v Value) int64 {
	return int64(v.Bits)
}

func (s *I64Sort) FromLiteral(l termdag.Literal) (Value, bool) {
	if i, ok := l.(termdag.LitInt); ok {
		return s.Store(int64(i)), true
	}
	return Value{}, false
}

func (s *I64Sort) ToLiteral(v Value) termdag.Literal {
	return termdag.LitInt(s.Load(v))
}

func (s *I64Sort) ExtractTerm(v Value, ex Extractor, dag *termdag.TermDag) (Cost, termdag.TermId, bool) {
	return literalTerm(s.ToLiteral(v), dag)
}

func (s *I64Sort) binary(name string, op func(l, r int64) (int64, bool)) Primitive {
	return NewPrimitive(name, []Sort{s, s}, s, func(args []Value) (Value, bool) {
		res, ok := op(s.Load(args[0]), s.Load(args[1]))
		if !ok {
			return Value{}, false
		}
		return s.Store(res), true
	})
}

func total(op func(l, r int64) int64) func(l, r int64) (int64, bool) {
	return func(l, r int64) (int64, bool) { return op(l, r), true }
}

func minOf[T constraints.Ordered](l, r T) T {
	if l < r {
		return l
	}
	return r
}

func maxOf[T constraints.Ordered](l, r T) T {
	if l > r {
		return l
	}
	return r
}

func (s *I64Sort) RegisterPrimitives(r Registry) {
	r.AddPrimitive(s.binary("+", total(func(l, r int64) int64 { return l + r })))
	r.AddPrimitive(s.binary("-", total(func(l, r int64) int64 { return l - r })))
	r.AddPrimitive(s.binary("*", total(func(l, r int64) int64 { return l * r })))
	r.AddPrimitive(s.binary("/", func(l, r int64) (int64, bool) {
		if r == 0 {
			return 0, false
		}
		return l / r, true
	}))
	r.AddPrimitive(s.binary("%", func(l, r int64) (int64, bool) {
		if r == 0 {
			return 0, false
		}
		return l % r, true
	}))
	r.AddPrimitive(s.binary("min", total(minOf[int64])))
	r.AddPrimitive(s.binary("max", total(maxOf[int64])))

	toString := func(args []Value) (Value, bool) {
		return s.strings.Store(strconv.FormatInt(s.Load(args[0]), 10)), true
	}
	r.AddPrimitive(NewPrimitive("to-string", []Sort{s}, s.strings, toString))
	r.AddPrimitive(NewPrimitive("itoa", []Sort{s}, s.strings, toString))
}

// EqSort is a user-declared sort whose values are e-class ids.
type EqSort struct {
	Base
}

func NewEqSort(name string) *EqSort {
	return &EqSort{NewBase(name)}
}

func (s *EqSort) IsEqSort() bool {
	return true
}

func (s *EqSort) Canonicalize(v *Value, uf *unionfind.UnionFind) bool {
	root := uf.Find(v.Bits)
	changed := root != v.Bits
	v.Bits = root
	return changed
}

func (s *EqSort) ExtractTerm(v Value, ex Extractor, dag *termdag.TermDag) (Cost, termdag.TermId, bool) {
	return ex.FindBest(v, dag, s)
}
