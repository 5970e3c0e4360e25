package sort

import (
	"testing"

	"github.com/glossopoeia/saturate/compiler/termdag"
	"github.com/glossopoeia/saturate/compiler/unionfind"
	"github.com/google/go-cmp/cmp"
)

type primitives []Primitive

func (p *primitives) AddPrimitive(prim Primitive) {
	*p = append(*p, prim)
}

func (p primitives) find(name string, output string) Primitive {
	for _, prim := range p {
		if prim.Name() != name {
			continue
		}
		simple := prim.(*SimplePrimitive)
		if simple.output.Name() == output {
			return prim
		}
	}
	return nil
}

func TestI64Primitives(t *testing.T) {
	strs := NewStringSort()
	i64 := NewI64Sort(strs)
	prims := primitives{}
	i64.RegisterPrimitives(&prims)

	data := []struct {
		name string
		args []int64
	}{
		{"+", []int64{2, 3}},
		{"-", []int64{2, 3}},
		{"*", []int64{-4, 3}},
		{"/", []int64{7, 2}},
		{"/", []int64{7, 0}},
		{"%", []int64{7, 3}},
		{"%", []int64{7, 0}},
		{"min", []int64{7, -3}},
		{"max", []int64{7, -3}},
	}

	testCases := []struct {
		name string
		exp  int64
		ok   bool
	}{
		{"Add", 5, true},
		{"Sub", -1, true},
		{"Mul", -12, true},
		{"Div", 3, true},
		{"DivByZero", 0, false},
		{"Rem", 1, true},
		{"RemByZero", 0, false},
		{"Min", -3, true},
		{"Max", 7, true},
	}

	for ind, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prim := prims.find(data[ind].name, I64Name)
			args := []Value{i64.Store(data[ind].args[0]), i64.Store(data[ind].args[1])}
			res, ok := prim.Apply(args, []Sort{i64, i64}, i64, nil)
			if ok != tc.ok {
				t.Fatalf("Expected ok %v, got %v instead", tc.ok, ok)
			}
			if ok && i64.Load(res) != tc.exp {
				t.Errorf("Expected %d, got %d instead", tc.exp, i64.Load(res))
			}
		})
	}
}

func TestToStringPrimitives(t *testing.T) {
	strs := NewStringSort()
	i64 := NewI64Sort(strs)
	prims := primitives{}
	i64.RegisterPrimitives(&prims)
	strs.RegisterPrimitives(&prims)

	for _, name := range []string{"to-string", "itoa"} {
		t.Run(name, func(t *testing.T) {
			res, ok := prims.find(name, StringName).Apply([]Value{i64.Store(-42)}, []Sort{i64}, strs, nil)
			if !ok || strs.Load(res) != "-42" {
				t.Errorf("Expected \"-42\", got %q instead", strs.Load(res))
			}
		})
	}

	concat := prims.find("+", StringName)
	res, _ := concat.Apply([]Value{strs.Store("ab"), strs.Store("cd")}, []Sort{strs, strs}, strs, nil)
	if strs.Load(res) != "abcd" {
		t.Errorf("Expected \"abcd\", got %q instead", strs.Load(res))
	}
}

func TestStringInterning(t *testing.T) {
	strs := NewStringSort()
	a := strs.Store("hello")
	b := strs.Store("world")
	c := strs.Store("hello")

	if !a.Same(c) {
		t.Errorf("Expected equal strings to share a handle, got %v and %v instead", a, c)
	}
	if a.Same(b) {
		t.Errorf("Expected distinct strings to get distinct handles, got %v twice instead", a)
	}
}

func TestSimpleTypeConstraint(t *testing.T) {
	i64 := NewI64Sort(NewStringSort())
	c := NewSimpleTypeConstraint("+", []Sort{i64, i64, i64})

	x, y, z := VarTerm{"x"}, LitTerm{termdag.LitInt(1)}, VarTerm{"z"}
	res := c.Get([]AtomTerm{x, y, z}, nil)
	exp := []Constraint{Assign{x, i64}, Assign{y, i64}, Assign{z, i64}}
	if diff := cmp.Diff(exp, res, cmp.Comparer(func(l, r Sort) bool { return l.Name() == r.Name() })); diff != "" {
		t.Errorf("Constraint mismatch (-want +got):\n%s", diff)
	}

	res = c.Get([]AtomTerm{x, z}, nil)
	if len(res) != 1 {
		t.Fatalf("Expected a single constraint, got %d instead", len(res))
	}
	imp, ok := res[0].(Impossible)
	if !ok {
		t.Fatalf("Expected an impossible constraint, got %T instead", res[0])
	}
	arity, ok := imp.Err.(ArityMismatchError)
	if !ok || arity.Expected != 3 {
		t.Errorf("Expected arity mismatch expecting 3, got %v instead", imp.Err)
	}
}

func TestEqSortCanonicalize(t *testing.T) {
	uf := unionfind.New()
	a, b := uf.MakeSet(), uf.MakeSet()
	uf.Union(a, b)

	s := NewEqSort("Math")
	v := Value{Bits: b, Tag: "Math"}
	if !s.Canonicalize(&v, uf) {
		t.Errorf("Expected canonicalize to report a change")
	}
	if v.Bits != a {
		t.Errorf("Expected root %d, got %d instead", a, v.Bits)
	}
	if s.Canonicalize(&v, uf) {
		t.Errorf("Expected canonical value to stay unchanged")
	}
}

func TestLiteralExtraction(t *testing.T) {
	strs := NewStringSort()
	i64 := NewI64Sort(strs)
	dag := termdag.New()

	cost, id, ok := i64.ExtractTerm(i64.Store(9), nil, dag)
	if !ok || cost != 1 || dag.String(id) != "9" {
		t.Errorf("Expected 9 at cost 1, got %s at cost %d instead", dag.String(id), cost)
	}
	cost, id, ok = strs.ExtractTerm(strs.Store("x"), nil, dag)
	if !ok || cost != 1 || dag.String(id) != `"x"` {
		t.Errorf("Expected \"x\" at cost 1, got %s at cost %d instead", dag.String(id), cost)
	}
}

func TestErrorMessages(t *testing.T) {
	i64 := NewI64Sort(NewStringSort())
	strs := NewStringSort()

	data := []error{
		ArityMismatchError{Atom{"f", []AtomTerm{VarTerm{"a"}}}, 2},
		FunctionMismatchError{strs, []Sort{i64}, i64, []Sort{i64, i64}},
		SortMismatchError{VarTerm{"x"}, i64, strs},
		UndefinedSortError{"Nope"},
		UnresolvedCallError{"g", []Sort{i64, strs}},
	}

	testCases := []struct {
		name string
		exp  string
	}{
		{"Arity", "typecheck: (f a) has 1 terms, expected 2"},
		{"Function", "typecheck: function sort expects [i64] -> String, but the function takes [i64 i64] -> i64"},
		{"Sort", "typecheck: x has sort String, expected i64"},
		{"Undefined", "sort: undefined sort Nope"},
		{"Unresolved", "typecheck: no callable g over [i64 String]"},
	}

	for ind, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if res := data[ind].Error(); res != tc.exp {
				t.Errorf("Expected %q, got %q instead", tc.exp, res)
			}
		})
	}
}
