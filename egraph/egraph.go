// Package egraph is an in-memory equality-saturating database. Table functions
// map argument values to an output value; outputs of an equality sort are
// e-class ids that union merges. Expressions are type-checked, lowered to a
// bytecode program and run on the runtime's stack machine.
package egraph

import (
	"encoding/binary"
	"io"

	"github.com/glossopoeia/saturate/compiler/sort"
	"github.com/glossopoeia/saturate/compiler/typeinfo"
	"github.com/glossopoeia/saturate/compiler/unionfind"
	"github.com/glossopoeia/saturate/runtime"
)

type row struct {
	inputs []sort.Value
	output sort.Value
}

// A table holds the rows of one declared function in insertion order, indexed
// by the bits of their inputs.
type table struct {
	decl  sort.FuncType
	rows  []row
	index map[string]int
}

func newTable(decl sort.FuncType) *table {
	return &table{decl, []row{}, map[string]int{}}
}

func inputKey(inputs []sort.Value) string {
	buf := make([]byte, 8*len(inputs))
	for i, v := range inputs {
		binary.LittleEndian.PutUint64(buf[8*i:], v.Bits)
	}
	return string(buf)
}

func (t *table) lookup(inputs []sort.Value) (sort.Value, bool) {
	at, ok := t.index[inputKey(inputs)]
	if !ok {
		return sort.Value{}, false
	}
	return t.rows[at].output, true
}

func (t *table) insert(inputs []sort.Value, output sort.Value) {
	key := inputKey(inputs)
	if at, ok := t.index[key]; ok {
		t.rows[at].output = output
		return
	}
	owned := make([]sort.Value, len(inputs))
	copy(owned, inputs)
	t.index[key] = len(t.rows)
	t.rows = append(t.rows, row{owned, output})
}

type global struct {
	sort  sort.Sort
	value sort.Value
}

type EGraph struct {
	types   *typeinfo.TypeInfo
	uf      *unionfind.UnionFind
	tables  map[string]*table
	order   []string
	globals map[string]global
	machine *runtime.Machine
}

type Option func(*EGraph)

// WithTrace prints the value stack and every executed instruction of every
// program the database runs.
func WithTrace(out io.Writer) Option {
	return func(eg *EGraph) {
		eg.machine = runtime.NewDebugMachine()
		eg.machine.Out = out
	}
}

// WithMachine runs programs on the given machine, keeping its trace settings.
func WithMachine(m *runtime.Machine) Option {
	return func(eg *EGraph) {
		eg.machine = m
	}
}

func New(opts ...Option) *EGraph {
	eg := &EGraph{
		types:   typeinfo.New(),
		uf:      unionfind.New(),
		tables:  map[string]*table{},
		order:   []string{},
		globals: map[string]global{},
		machine: runtime.NewReleaseMachine(),
	}
	for _, opt := range opts {
		opt(eg)
	}
	return eg
}

func (eg *EGraph) TypeInfo() *typeinfo.TypeInfo {
	return eg.types
}

// DeclareSort adds an equality sort, whose values are e-classes.
func (eg *EGraph) DeclareSort(name string) error {
	return eg.types.AddSort(sort.NewEqSort(name))
}

// DeclarePresortSort adds a sort made by a presort, for example
// DeclarePresortSort("IntToString", "UnstableFn", []string{"i64"}, "String").
func (eg *EGraph) DeclarePresortSort(name string, presort string, inputs []string, output string) error {
	_, err := eg.types.DeclarePresortSort(name, presort, inputs, output)
	return err
}

func (eg *EGraph) DeclareFunction(name string, inputs []string, output string) error {
	f, err := eg.types.DeclareFunction(name, inputs, output)
	if err != nil {
		return err
	}
	eg.tables[name] = newTable(f)
	eg.order = append(eg.order, name)
	return nil
}

// Rows returns the number of rows stored for the function.
func (eg *EGraph) Rows(name string) int {
	t, ok := eg.tables[name]
	if !ok {
		return 0
	}
	return len(t.rows)
}

func (eg *EGraph) Resolve(name string, types []sort.Sort) (sort.Call, error) {
	return eg.types.Resolve(name, types)
}

func (eg *EGraph) CompileExpr(binding []sort.Var, e sort.Expr) (*runtime.Program, error) {
	return eg.compile(binding, e, false)
}

func (eg *EGraph) RunProgram(fiber *runtime.Fiber, args []sort.Value, p *runtime.Program) error {
	return eg.machine.Run(fiber, p, args)
}

// Values of a sort that can never hold an e-class id are canonical as stored,
// so only eq sorts and eq containers are rewritten.
func rebuilds(s sort.Sort) bool {
	return s.IsEqSort() || s.IsEqContainerSort()
}

func (eg *EGraph) canonicalizeValue(s sort.Sort, v *sort.Value) bool {
	if !rebuilds(s) {
		return false
	}
	return s.Canonicalize(v, eg.uf)
}

func (eg *EGraph) canonicalize(sorts []sort.Sort, values []sort.Value) []sort.Value {
	res := make([]sort.Value, len(values))
	for i, v := range values {
		eg.canonicalizeValue(sorts[i], &v)
		res[i] = v
	}
	return res
}
