package substitution

import (
	"testing"

	"github.com/glossopoeia/saturate/compiler/sort"
	"github.com/glossopoeia/saturate/compiler/termdag"
)

func TestSolve(t *testing.T) {
	strs := sort.NewStringSort()
	i64 := sort.NewI64Sort(strs)
	x, y := sort.VarTerm{Name: "x"}, sort.VarTerm{Name: "y"}
	lit := sort.LitTerm{Lit: termdag.LitInt(1)}

	data := [][]sort.Constraint{
		{sort.AssignTo(x, i64), sort.AssignTo(y, strs)},
		{sort.AssignTo(x, i64), sort.AssignTo(x, i64)},
		{sort.AssignTo(x, i64), sort.AssignTo(x, strs)},
		{sort.AssignTo(lit, i64), sort.ImpossibleBecause(sort.UnboundFunctionError{Name: "f"})},
	}

	testCases := []struct {
		name string
		exp  map[string]string
		err  string
	}{
		{"Distinct", map[string]string{"v:x": "i64", "v:y": "String"}, ""},
		{"Repeated", map[string]string{"v:x": "i64"}, ""},
		{"Conflict", nil, "typecheck: x has sort String, expected i64"},
		{"Impossible", nil, "typecheck: unbound function f"},
	}

	for ind, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			start := Empty()
			res, err := start.Solve(data[ind])
			if len(start) != 0 {
				t.Errorf("Expected the starting substitution to be left alone, got %v instead", start)
			}
			if tc.err != "" {
				if err == nil || err.Error() != tc.err {
					t.Fatalf("Expected error %q, got %v instead", tc.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v instead", err)
			}
			if len(res) != len(tc.exp) {
				t.Errorf("Expected %d entries, got %d instead", len(tc.exp), len(res))
			}
			for k, name := range tc.exp {
				if s, ok := res[k]; !ok || s.Name() != name {
					t.Errorf("Expected %s to be %s, got %v instead", k, name, s)
				}
			}
		})
	}
}

func TestLookupAfterAssign(t *testing.T) {
	i64 := sort.NewI64Sort(sort.NewStringSort())
	s := Empty()
	g := sort.GlobalTerm{Name: "g"}

	if _, ok := s.Lookup(g); ok {
		t.Errorf("Expected no sort for an unassigned term")
	}
	if err := s.Assign(g, i64); err != nil {
		t.Fatalf("Expected no error, got %v instead", err)
	}
	if found, ok := s.Lookup(g); !ok || found.Name() != "i64" {
		t.Errorf("Expected i64, got %v instead", found)
	}
	if _, ok := s.Lookup(sort.VarTerm{Name: "g"}); ok {
		t.Errorf("Expected a variable and a global of the same name to be distinct")
	}
}
