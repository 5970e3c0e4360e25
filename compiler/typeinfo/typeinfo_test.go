package typeinfo

import (
	"errors"
	"strings"
	"testing"

	"github.com/glossopoeia/saturate/compiler/ast"
	"github.com/glossopoeia/saturate/compiler/sort"
)

// Renders a resolved expression with the sort of every call, e.g.
// (+ 1 2):i64, marking table function calls with a leading '!'.
func show(e sort.Expr) string {
	switch e := e.(type) {
	case sort.LitExpr:
		return e.Lit.String()
	case sort.VarExpr:
		return e.Var.Name + ":" + e.Var.Sort.Name()
	case sort.CallExpr:
		parts := []string{}
		head := e.Call.Name()
		if _, ok := e.Call.(sort.FuncCall); ok {
			head = "!" + head
		}
		parts = append(parts, head)
		for _, a := range e.Args {
			parts = append(parts, show(a))
		}
		return "(" + strings.Join(parts, " ") + "):" + e.Output().Name()
	}
	return "?"
}

func newMathInfo(t *testing.T) *TypeInfo {
	ti := New()
	if err := ti.AddSort(sort.NewEqSort("Math")); err != nil {
		t.Fatal(err)
	}
	if _, err := ti.DeclareFunction("Num", []string{"i64"}, "Math"); err != nil {
		t.Fatal(err)
	}
	if _, err := ti.DeclareFunction("Add", []string{"Math", "Math"}, "Math"); err != nil {
		t.Fatal(err)
	}
	if _, err := ti.DeclarePresortSort("MathFn", "UnstableFn", []string{"Math"}, "Math"); err != nil {
		t.Fatal(err)
	}
	if _, err := ti.DeclarePresortSort("IntToString", "UnstableFn", []string{"i64"}, "String"); err != nil {
		t.Fatal(err)
	}
	return ti
}

func TestBuiltinSorts(t *testing.T) {
	ti := New()
	for _, name := range []string{"String", "Unit", "i64"} {
		if _, ok := ti.Sort(name); !ok {
			t.Errorf("Expected built-in sort %s", name)
		}
	}
	for _, s := range []sort.Sort{ti.I64, ti.String} {
		if _, err := ti.Resolve("+", []sort.Sort{s, s, s}); err != nil {
			t.Errorf("Expected + over %s, got %v instead", s.Name(), err)
		}
	}
}

func TestDeclarations(t *testing.T) {
	ti := newMathInfo(t)

	data := []func() error{
		func() error { _, err := ti.DeclarePresortSort("Bad", "Nope", nil, "i64"); return err },
		func() error { _, err := ti.DeclarePresortSort("Bad", "UnstableFn", []string{"Missing"}, "i64"); return err },
		func() error { _, err := ti.DeclarePresortSort("MathFn", "UnstableFn", nil, "i64"); return err },
		func() error { _, err := ti.DeclareFunction("make-function", nil, "i64"); return err },
		func() error { _, err := ti.DeclareFunction("+", nil, "i64"); return err },
		func() error { _, err := ti.DeclareFunction("Num", []string{"i64"}, "Math"); return err },
		func() error { _, err := ti.DeclareFunction("Neg", []string{"Math"}, "Missing"); return err },
		func() error { return ti.AddSort(sort.NewEqSort("Math")) },
		func() error { _, err := ti.DeclareFunction("Neg", []string{"Math"}, "Math"); return err },
	}

	testCases := []struct {
		name string
		exp  error
	}{
		{"UndefinedPresort", UndefinedPresortError{"Nope"}},
		{"UndefinedInput", sort.UndefinedSortError{Name: "Missing"}},
		{"DuplicateSort", DuplicateDeclarationError{"sort", "MathFn"}},
		{"ReservedName", DuplicateDeclarationError{"function", "make-function"}},
		{"PrimitiveName", DuplicateDeclarationError{"function", "+"}},
		{"DuplicateFunction", DuplicateDeclarationError{"function", "Num"}},
		{"UndefinedOutput", sort.UndefinedSortError{Name: "Missing"}},
		{"DuplicateEqSort", DuplicateDeclarationError{"sort", "Math"}},
		{"Valid", nil},
	}

	for ind, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := data[ind](); err != tc.exp {
				t.Errorf("Expected %v, got %v instead", tc.exp, err)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	ti := newMathInfo(t)
	math, _ := ti.Sort("Math")
	fn, _ := ti.Sort("IntToString")

	data := []struct {
		name  string
		types []sort.Sort
	}{
		{"+", []sort.Sort{ti.I64, ti.I64, ti.I64}},
		{"+", []sort.Sort{ti.String, ti.String, ti.String}},
		{"Add", []sort.Sort{math, math, math}},
		{"make-function", []sort.Sort{ti.String, fn}},
		{"apply-function", []sort.Sort{fn, ti.I64, ti.String}},
		{"Add", []sort.Sort{math, ti.I64, math}},
		{"itoa", []sort.Sort{ti.String, ti.String}},
		{"nope", []sort.Sort{ti.I64}},
	}

	testCases := []struct {
		name     string
		isFunc   bool
		exp      string
		resolved bool
	}{
		{"I64Plus", false, "i64", true},
		{"StringPlus", false, "String", true},
		{"TableFunction", true, "Math", true},
		{"Constructor", false, "IntToString", true},
		{"Apply", false, "String", true},
		{"WrongFunctionSorts", false, "", false},
		{"WrongPrimitiveSorts", false, "", false},
		{"Unknown", false, "", false},
	}

	for ind, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			call, err := ti.Resolve(data[ind].name, data[ind].types)
			if !tc.resolved {
				var unresolved sort.UnresolvedCallError
				if !errors.As(err, &unresolved) {
					t.Errorf("Expected an unresolved call, got %v instead", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v instead", err)
			}
			if _, isFunc := call.(sort.FuncCall); isFunc != tc.isFunc {
				t.Errorf("Expected table function %v, got %v instead", tc.isFunc, isFunc)
			}
			if call.Output().Name() != tc.exp {
				t.Errorf("Expected output %s, got %s instead", tc.exp, call.Output().Name())
			}
		})
	}
}

func TestTypecheck(t *testing.T) {
	ti := newMathInfo(t)
	intToString, _ := ti.Sort("IntToString")
	mathFn, _ := ti.Sort("MathFn")
	if err := ti.DeclareGlobal("g", ti.I64); err != nil {
		t.Fatal(err)
	}
	// Declared last, so a constructor whose name is not a table function tries
	// IntToString first and only lands here when the context demands i64.
	if _, err := ti.DeclarePresortSort("I64Fn", "UnstableFn", []string{"i64"}, "i64"); err != nil {
		t.Fatal(err)
	}

	data := []struct {
		src      string
		expected sort.Sort
		bindings []sort.Var
	}{
		{"(+ 1 2)", nil, nil},
		{`(+ "a" "b")`, nil, nil},
		{"(itoa (* g 3))", nil, nil},
		{"(Add (Num 1) (Num x))", nil, []sort.Var{{Name: "x", Sort: ti.I64}}},
		{`(make-function "itoa")`, intToString, nil},
		{`(apply-function (make-function "itoa") 5)`, nil, nil},
		{`(make-function "Add" (Num 1))`, mathFn, nil},
		{`(apply-function (make-function "Add" (Num 1)) (Num 2))`, nil, nil},
		{`(apply-function (make-function "+" 1) 2)`, ti.I64, nil},
		{"()", nil, nil},
	}

	testCases := []struct {
		name string
		exp  string
	}{
		{"I64Plus", "(+ 1 2):i64"},
		{"StringPlus", `(+ "a" "b"):String`},
		{"GlobalAndNesting", "(itoa (* g:i64 3):i64):String"},
		{"TableFunctions", "(!Add (!Num 1):Math (!Num x:i64):Math):Math"},
		{"ConstructorByExpectation", `(make-function "itoa"):IntToString`},
		{"ConstructorByApply", `(apply-function (make-function "itoa"):IntToString 5):String`},
		{"PartialTableFunction", `(make-function "Add" (!Num 1):Math):MathFn`},
		{"ApplyTableFunction", `(apply-function (make-function "Add" (!Num 1):Math):MathFn (!Num 2):Math):Math`},
		{"ApplyPartialPrimitive", `(apply-function (make-function "+" 1):I64Fn 2):i64`},
		{"Unit", "()"},
	}

	for ind, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ti.Typecheck(ast.MustParse(data[ind].src), data[ind].bindings, data[ind].expected)
			if err != nil {
				t.Fatalf("Expected no error, got %v instead", err)
			}
			if show(res) != tc.exp {
				t.Errorf("Expected %s, got %s instead", tc.exp, show(res))
			}
		})
	}
}

func TestTypecheckErrors(t *testing.T) {
	ti := newMathInfo(t)
	intToString, _ := ti.Sort("IntToString")
	f := []sort.Var{{Name: "f", Sort: intToString}}

	data := []struct {
		src      string
		expected sort.Sort
		bindings []sort.Var
	}{
		{"(apply-function f 1 2)", nil, f},
		{"(apply-function f)", nil, f},
		{"y", nil, nil},
		{"(frobnicate 1)", nil, nil},
		{`(make-function "Add")`, intToString, nil},
		{`(make-function "Num")`, intToString, nil},
		{`(+ 1 2)`, ti.String, nil},
	}

	testCases := []struct {
		name  string
		check func(err error) bool
	}{
		{"ApplyTooMany", func(err error) bool {
			var e sort.ArityMismatchError
			return errors.As(err, &e) && e.Expected == 3 && len(e.Atom.Args) == 4
		}},
		{"ApplyTooFew", func(err error) bool {
			var e sort.ArityMismatchError
			return errors.As(err, &e) && e.Expected == 3 && len(e.Atom.Args) == 2
		}},
		{"UnboundVariable", func(err error) bool { return err == UnboundVariableError{"y"} }},
		{"UnboundFunction", func(err error) bool { return err == sort.UnboundFunctionError{Name: "frobnicate"} }},
		{"ConstructorArity", func(err error) bool {
			var e sort.ArityMismatchError
			return errors.As(err, &e) && e.Expected == 4
		}},
		{"ConstructorMismatch", func(err error) bool {
			var e sort.FunctionMismatchError
			return errors.As(err, &e) && e.ExpectedOutput.Name() == "String" && e.ActualOutput.Name() == "Math"
		}},
		{"WrongExpectation", func(err error) bool {
			var e sort.SortMismatchError
			return errors.As(err, &e)
		}},
	}

	for ind, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ti.Typecheck(ast.MustParse(data[ind].src), data[ind].bindings, data[ind].expected)
			if !tc.check(err) {
				t.Errorf("Unexpected error %v", err)
			}
		})
	}
}
