package egraph

import (
	"github.com/glossopoeia/saturate/compiler/ast"
	"github.com/glossopoeia/saturate/compiler/sort"
	"github.com/glossopoeia/saturate/runtime"
)

func (eg *EGraph) evalExpr(e ast.Expr, expected sort.Sort, facts bool) (sort.Value, sort.Sort, error) {
	typed, err := eg.types.Typecheck(e, nil, expected)
	if err != nil {
		return sort.Value{}, nil, err
	}
	prog, err := eg.compile(nil, typed, facts)
	if err != nil {
		return sort.Value{}, nil, err
	}
	fiber := runtime.NewFiber()
	if err := eg.machine.Run(fiber, prog, nil); err != nil {
		return sort.Value{}, nil, err
	}
	return fiber.PopOneValue(), typed.Output(), nil
}

func (eg *EGraph) eval(src string, expected sort.Sort, facts bool) (sort.Value, sort.Sort, error) {
	e, err := ast.Parse(src)
	if err != nil {
		return sort.Value{}, nil, err
	}
	return eg.evalExpr(e, expected, facts)
}

// Eval runs an expression as an action: calls of eq-sorted table functions
// with no row yet create one.
func (eg *EGraph) Eval(src string) (sort.Value, sort.Sort, error) {
	v, s, err := eg.eval(src, nil, false)
	if err != nil {
		return v, s, err
	}
	eg.Rebuild()
	eg.canonicalizeValue(s, &v)
	return v, s, nil
}

// Let evaluates the expression and binds the result to a global name usable
// in later expressions.
func (eg *EGraph) Let(name string, src string) error {
	v, s, err := eg.Eval(src)
	if err != nil {
		return err
	}
	if err := eg.types.DeclareGlobal(name, s); err != nil {
		return err
	}
	eg.globals[name] = global{s, v}
	return nil
}

// Union merges the e-classes of two expressions of the same eq sort and
// rebuilds.
func (eg *EGraph) Union(left string, right string) error {
	l, ls, err := eg.eval(left, nil, false)
	if err != nil {
		return err
	}
	r, rs, err := eg.eval(right, ls, false)
	if err != nil {
		return err
	}
	if !ls.IsEqSort() || ls.Name() != rs.Name() {
		return UnionSortError{ls.Name(), rs.Name()}
	}
	eg.uf.Union(l.Bits, r.Bits)
	eg.Rebuild()
	return nil
}

// Set stores value as the output of a table function call, given as the call
// itself, e.g. Set("(Cost (Num 1))", "3"). An existing eq-sorted output is
// unioned with the new one; any other existing output must already be equal.
func (eg *EGraph) Set(call string, value string) error {
	e, err := ast.Parse(call)
	if err != nil {
		return err
	}
	c, ok := e.(ast.Call)
	if !ok {
		return NotATableCallError{call}
	}
	t, ok := eg.tables[c.Head]
	if !ok || len(c.Args) != len(t.decl.Inputs) {
		return NotATableCallError{call}
	}

	inputs := make([]sort.Value, len(c.Args))
	for i, a := range c.Args {
		v, _, err := eg.evalExpr(a, t.decl.Inputs[i], false)
		if err != nil {
			return err
		}
		inputs[i] = v
	}
	out, _, err := eg.eval(value, t.decl.Output, false)
	if err != nil {
		return err
	}

	inputs = eg.canonicalize(t.decl.Inputs, inputs)
	if prev, ok := t.lookup(inputs); ok {
		eg.canonicalizeValue(t.decl.Output, &prev)
		eg.canonicalizeValue(t.decl.Output, &out)
		switch {
		case t.decl.Output.IsEqSort():
			eg.uf.Union(prev.Bits, out.Bits)
		case !prev.Same(out):
			return MergeConflictError{c.Head, eg.Show(prev, t.decl.Output), eg.Show(out, t.decl.Output)}
		}
	} else {
		t.insert(inputs, out)
	}
	eg.Rebuild()
	return nil
}

// Check evaluates the expression as a fact: every table lookup must already
// have a row and nothing is created. Primitives that need to change the
// database are not available.
func (eg *EGraph) Check(src string) error {
	if _, _, err := eg.eval(src, nil, true); err != nil {
		return CheckFailedError{src, err}
	}
	return nil
}

// Equal reports whether two expressions evaluate, as facts, to the same
// canonical value.
func (eg *EGraph) Equal(left string, right string) (bool, error) {
	l, ls, err := eg.eval(left, nil, true)
	if err != nil {
		return false, CheckFailedError{left, err}
	}
	r, _, err := eg.eval(right, ls, true)
	if err != nil {
		return false, CheckFailedError{right, err}
	}
	eg.canonicalizeValue(ls, &l)
	eg.canonicalizeValue(ls, &r)
	return l.Same(r), nil
}
