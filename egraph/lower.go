package egraph

import (
	"math"

	"github.com/glossopoeia/saturate/compiler/sort"
	"github.com/glossopoeia/saturate/runtime"
)

// Where the value of a lowered subexpression lives: a constant, or a slot of
// the variable frame.
type operand struct {
	constant bool
	value    sort.Value
	slot     int
}

// Lowering flattens an expression the way core actions are built: each call
// reads its arguments, runs as a native and stores its result in a new frame
// slot. The program ends by pushing the root value and forgetting the slots it
// introduced, leaving the result on the value stack.
type lowering struct {
	eg    *EGraph
	prog  *runtime.Program
	slots map[string]int
	base  int
	frame int
	facts bool
}

// In a fact context nothing may change: table lookups that miss fail instead
// of creating rows, and primitives see no engine.
func (eg *EGraph) compile(binding []sort.Var, e sort.Expr, facts bool) (*runtime.Program, error) {
	l := &lowering{
		eg:    eg,
		prog:  runtime.NewProgram(len(binding)),
		slots: map[string]int{},
		base:  len(binding),
		frame: len(binding),
		facts: facts,
	}
	for i, v := range binding {
		l.slots[v.Name] = i
	}

	root, err := l.operand(e)
	if err != nil {
		return nil, err
	}
	l.push(root)
	l.prog.EmitForget(uint8(l.frame - l.base))
	l.prog.WriteOp(runtime.RETURN)
	return l.prog, nil
}

func (l *lowering) push(op operand) {
	if op.constant {
		l.prog.EmitConstant(op.value)
		return
	}
	l.prog.EmitFind(uint32(l.frame - 1 - op.slot))
}

func (l *lowering) operand(e sort.Expr) (operand, error) {
	switch e := e.(type) {
	case sort.LitExpr:
		lit, ok := e.Sort.(sort.LiteralSort)
		if !ok {
			return operand{}, LoweringError{"literal " + e.Lit.String() + " has no literal sort"}
		}
		v, ok := lit.FromLiteral(e.Lit)
		if !ok {
			return operand{}, LoweringError{"literal " + e.Lit.String() + " does not fit sort " + e.Sort.Name()}
		}
		return operand{constant: true, value: v}, nil
	case sort.VarExpr:
		if slot, ok := l.slots[e.Var.Name]; ok {
			return operand{slot: slot}, nil
		}
		g, ok := l.eg.globals[e.Var.Name]
		if !ok {
			return operand{}, LoweringError{"unbound variable " + e.Var.Name}
		}
		v := g.value
		l.eg.canonicalizeValue(g.sort, &v)
		return operand{constant: true, value: v}, nil
	case sort.CallExpr:
		args := make([]operand, len(e.Args))
		for i, a := range e.Args {
			op, err := l.operand(a)
			if err != nil {
				return operand{}, err
			}
			args[i] = op
		}
		if l.frame-l.base >= math.MaxUint8 {
			return operand{}, LoweringError{"too many intermediate values"}
		}
		for _, a := range args {
			l.push(a)
		}
		l.prog.EmitNative(e.Call.Name(), uint8(len(args)), l.native(e.Call))
		l.prog.EmitStore(1)
		slot := l.frame
		l.frame++
		return operand{slot: slot}, nil
	}
	return operand{}, LoweringError{"unknown expression"}
}

func (l *lowering) native(c sort.Call) runtime.NativeFn {
	switch c := c.(type) {
	case sort.FuncCall:
		return l.eg.functionNative(c.Func, l.facts)
	case sort.PrimCall:
		var eng sort.Engine
		if !l.facts {
			eng = l.eg
		}
		return func(args []runtime.Value) (runtime.Value, bool) {
			return c.Prim.Apply(args, c.In, c.Out, eng)
		}
	}
	panic("egraph: unknown call kind")
}

// Looking up a missing row of an eq-sorted function in an action makes a new
// e-class for it. Any other miss fails the program.
func (eg *EGraph) functionNative(f sort.FuncType, facts bool) runtime.NativeFn {
	return func(args []runtime.Value) (runtime.Value, bool) {
		t := eg.tables[f.Name]
		inputs := eg.canonicalize(f.Inputs, args)
		if out, ok := t.lookup(inputs); ok {
			eg.canonicalizeValue(f.Output, &out)
			return out, true
		}
		if facts || !f.Output.IsEqSort() {
			return runtime.Value{}, false
		}
		out := runtime.Value{Bits: eg.uf.MakeSet(), Tag: f.Output.Name()}
		t.insert(inputs, out)
		return out, true
	}
}
