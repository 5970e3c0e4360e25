package sort

import (
	"github.com/glossopoeia/saturate/compiler/termdag"
	"github.com/glossopoeia/saturate/runtime"
)

// A Primitive is a built-in operation contributed by a sort. Several
// primitives may share a name; type-checking picks the one whose constraints
// hold at the call site.
type Primitive interface {
	Name() string
	TypeConstraints() TypeConstraint
	// Apply computes the result for already type-checked arguments. inputs and
	// output are the sorts resolved at the call site. eng is nil when the call
	// is evaluated in a fact context, where the database may not change.
	// Apply reports false when it has no result for these arguments.
	Apply(values []Value, inputs []Sort, output Sort, eng Engine) (Value, bool)
}

// A FuncType is the full signature of a declared table function.
type FuncType struct {
	Name   string
	Inputs []Sort
	Output Sort
}

// Signatures is the read-only table of declared functions.
type Signatures interface {
	FuncType(name string) (FuncType, bool)
}

// Var is a typed variable in a resolved expression.
type Var struct {
	Name string
	Sort Sort
}

// A resolved Expr has every call bound to a concrete callable and every
// subexpression given a sort.
type Expr interface {
	Output() Sort
	expr()
}

type LitExpr struct {
	Lit  termdag.Literal
	Sort Sort
}

type VarExpr struct {
	Var Var
}

type CallExpr struct {
	Call Call
	Args []Expr
}

func (e LitExpr) Output() Sort  { return e.Sort }
func (e VarExpr) Output() Sort  { return e.Var.Sort }
func (e CallExpr) Output() Sort { return e.Call.Output() }

func (LitExpr) expr()  {}
func (VarExpr) expr()  {}
func (CallExpr) expr() {}

// A Call is the target of a resolved call: either a declared table function
// or a primitive specialised to the sorts at the call site.
type Call interface {
	Name() string
	Inputs() []Sort
	Output() Sort
	call()
}

type FuncCall struct {
	Func FuncType
}

type PrimCall struct {
	Prim Primitive
	In   []Sort
	Out  Sort
}

func (c FuncCall) Name() string   { return c.Func.Name }
func (c FuncCall) Inputs() []Sort { return c.Func.Inputs }
func (c FuncCall) Output() Sort   { return c.Func.Output }
func (c PrimCall) Name() string   { return c.Prim.Name() }
func (c PrimCall) Inputs() []Sort { return c.In }
func (c PrimCall) Output() Sort   { return c.Out }
func (FuncCall) call()            {}
func (PrimCall) call()            {}

// Engine is the mutable evaluation context a primitive may re-enter. It
// exposes the same resolution, lowering and execution services the engine
// uses for its own actions, so a primitive that needs to call back into the
// database behaves exactly like a call written inline.
type Engine interface {
	// Resolve a callable by name. types lists the argument sorts followed by
	// the output sort.
	Resolve(name string, types []Sort) (Call, error)
	// Lower an expression into a program whose variable frame is binding.
	CompileExpr(binding []Var, e Expr) (*runtime.Program, error)
	// Run a program with args as its initial variable frame.
	RunProgram(fiber *runtime.Fiber, args []Value, p *runtime.Program) error
}

// SimplePrimitive is a primitive with one fixed signature.
type SimplePrimitive struct {
	name   string
	inputs []Sort
	output Sort
	fn     func(args []Value) (Value, bool)
}

func NewPrimitive(name string, inputs []Sort, output Sort, fn func(args []Value) (Value, bool)) *SimplePrimitive {
	return &SimplePrimitive{name, inputs, output, fn}
}

func (p *SimplePrimitive) Name() string {
	return p.name
}

func (p *SimplePrimitive) TypeConstraints() TypeConstraint {
	sorts := make([]Sort, 0, len(p.inputs)+1)
	sorts = append(sorts, p.inputs...)
	sorts = append(sorts, p.output)
	return NewSimpleTypeConstraint(p.name, sorts)
}

func (p *SimplePrimitive) Apply(values []Value, inputs []Sort, output Sort, eng Engine) (Value, bool) {
	return p.fn(values)
}
