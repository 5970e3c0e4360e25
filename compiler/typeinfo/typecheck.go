package typeinfo

import (
	"github.com/glossopoeia/saturate/compiler/ast"
	"github.com/glossopoeia/saturate/compiler/sort"
	"github.com/glossopoeia/saturate/compiler/substitution"
)

// One call of the expression being checked, flattened into an atom whose last
// term stands for the call's result.
type flatCall struct {
	atom sort.Atom
}

// A candidate callable for one call. prim is nil for the table function.
type candidate struct {
	prim       sort.Primitive
	constraint sort.TypeConstraint
}

type checker struct {
	ti       *TypeInfo
	bindings map[string]sort.Sort
	calls    []flatCall
	seeded   substitution.Substitution

	deepest    int
	deepestErr error
}

// Typecheck resolves every call in e and gives every subexpression a sort.
// Names bound in bindings are local variables; other names refer to globals.
// If expected is not nil the whole expression must have that sort.
//
// Calls are checked left to right, innermost first. Where a name has several
// candidates the first one that leads to a consistent assignment for the whole
// expression is kept. When none does, the error from the furthest call reached
// is reported.
func (ti *TypeInfo) Typecheck(e ast.Expr, bindings []sort.Var, expected sort.Sort) (sort.Expr, error) {
	c := &checker{
		ti:       ti,
		bindings: map[string]sort.Sort{},
		seeded:   substitution.Empty(),
		deepest:  -1,
	}
	for _, b := range bindings {
		c.bindings[b.Name] = b.Sort
	}

	root, err := c.flatten(e)
	if err != nil {
		return nil, err
	}
	if expected != nil {
		if err := c.seeded.Assign(root, expected); err != nil {
			return nil, err
		}
	}

	choices := make([]candidate, len(c.calls))
	subst, ok := c.solve(0, c.seeded, choices)
	if !ok {
		return nil, c.deepestErr
	}
	callIndex := 0
	return c.build(e, subst, choices, &callIndex)
}

// Flatten the expression into calls, innermost first, returning the term that
// stands for its value.
func (c *checker) flatten(e ast.Expr) (sort.AtomTerm, error) {
	switch e := e.(type) {
	case ast.Lit:
		t := sort.LitTerm{Lit: e.Value}
		if err := c.seeded.Assign(t, c.ti.LiteralSort(e.Value)); err != nil {
			return nil, err
		}
		return t, nil
	case ast.Var:
		if s, ok := c.bindings[e.Name]; ok {
			t := sort.VarTerm{Name: e.Name}
			return t, c.seeded.Assign(t, s)
		}
		if s, ok := c.ti.Global(e.Name); ok {
			t := sort.GlobalTerm{Name: e.Name}
			return t, c.seeded.Assign(t, s)
		}
		return nil, UnboundVariableError{e.Name}
	case ast.Call:
		args := make([]sort.AtomTerm, 0, len(e.Args)+1)
		for _, a := range e.Args {
			t, err := c.flatten(a)
			if err != nil {
				return nil, err
			}
			args = append(args, t)
		}
		result := sort.VarTerm{Name: c.ti.fresh.NextPrefix("$")}
		args = append(args, result)
		c.calls = append(c.calls, flatCall{sort.Atom{Head: e.Head, Args: args}})
		return result, nil
	}
	panic("typecheck: unknown expression kind")
}

func (c *checker) candidates(name string) []candidate {
	res := []candidate{}
	if f, ok := c.ti.funcTypes[name]; ok {
		full := append(append([]sort.Sort{}, f.Inputs...), f.Output)
		res = append(res, candidate{nil, sort.NewSimpleTypeConstraint(name, full)})
	}
	for _, p := range c.ti.primitives[name] {
		res = append(res, candidate{p, p.TypeConstraints()})
	}
	return res
}

func (c *checker) fail(depth int, err error) {
	if depth >= c.deepest {
		c.deepest = depth
		c.deepestErr = err
	}
}

func (c *checker) solve(i int, subst substitution.Substitution, choices []candidate) (substitution.Substitution, bool) {
	if i == len(c.calls) {
		return subst, true
	}
	call := c.calls[i]
	cands := c.candidates(call.atom.Head)
	if len(cands) == 0 {
		c.fail(i, sort.UnboundFunctionError{Name: call.atom.Head})
		return nil, false
	}
	for _, cand := range cands {
		next, err := subst.Solve(cand.constraint.Get(call.atom.Args, c.ti))
		if err != nil {
			c.fail(i, err)
			continue
		}
		choices[i] = cand
		if res, ok := c.solve(i+1, next, choices); ok {
			return res, true
		}
	}
	return nil, false
}

func (c *checker) sortOf(t sort.AtomTerm, subst substitution.Substitution) (sort.Sort, error) {
	s, ok := subst.Lookup(t)
	if !ok {
		return nil, AmbiguousSortError{t}
	}
	return s, nil
}

// Rebuild the expression with sorts attached, walking in the same order as
// flatten so call i of the walk is c.calls[i].
func (c *checker) build(e ast.Expr, subst substitution.Substitution, choices []candidate, next *int) (sort.Expr, error) {
	switch e := e.(type) {
	case ast.Lit:
		return sort.LitExpr{Lit: e.Value, Sort: c.ti.LiteralSort(e.Value)}, nil
	case ast.Var:
		var t sort.AtomTerm = sort.GlobalTerm{Name: e.Name}
		if _, ok := c.bindings[e.Name]; ok {
			t = sort.VarTerm{Name: e.Name}
		}
		s, err := c.sortOf(t, subst)
		if err != nil {
			return nil, err
		}
		return sort.VarExpr{Var: sort.Var{Name: e.Name, Sort: s}}, nil
	case ast.Call:
		args := make([]sort.Expr, len(e.Args))
		for i, a := range e.Args {
			built, err := c.build(a, subst, choices, next)
			if err != nil {
				return nil, err
			}
			args[i] = built
		}
		call := c.calls[*next]
		choice := choices[*next]
		*next++

		sorts := make([]sort.Sort, len(call.atom.Args))
		for i, t := range call.atom.Args {
			s, err := c.sortOf(t, subst)
			if err != nil {
				return nil, err
			}
			sorts[i] = s
		}
		in, out := sorts[:len(sorts)-1], sorts[len(sorts)-1]

		if choice.prim == nil {
			return sort.CallExpr{Call: sort.FuncCall{Func: c.ti.funcTypes[e.Head]}, Args: args}, nil
		}
		return sort.CallExpr{Call: sort.PrimCall{Prim: choice.prim, In: in, Out: out}, Args: args}, nil
	}
	panic("typecheck: unknown expression kind")
}
