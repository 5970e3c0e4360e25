// Package typeinfo keeps everything known statically about a database: its
// sorts, the presorts that can make more sorts, the primitives those sorts
// contribute, and the signatures of declared table functions. It resolves
// calls by name and sort, and type-checks expressions against all of it.
package typeinfo

import (
	"github.com/glossopoeia/saturate/compiler"
	"github.com/glossopoeia/saturate/compiler/fnsort"
	"github.com/glossopoeia/saturate/compiler/sort"
	"github.com/glossopoeia/saturate/compiler/substitution"
	"github.com/glossopoeia/saturate/compiler/termdag"
	"github.com/rjNemo/underscore"
)

type TypeInfo struct {
	Unit   *sort.UnitSort
	I64    *sort.I64Sort
	String *sort.StringSort

	sorts      map[string]sort.Sort
	presorts   map[string]sort.Presort
	reserved   map[string]bool
	primitives map[string][]sort.Primitive
	funcTypes  map[string]sort.FuncType
	globals    map[string]sort.Sort
	fresh      *compiler.NameFresh
}

// New returns type information holding the built-in sorts and presorts.
func New() *TypeInfo {
	strs := sort.NewStringSort()
	ti := &TypeInfo{
		Unit:       sort.NewUnitSort(),
		I64:        sort.NewI64Sort(strs),
		String:     strs,
		sorts:      map[string]sort.Sort{},
		presorts:   map[string]sort.Presort{},
		reserved:   map[string]bool{},
		primitives: map[string][]sort.Primitive{},
		funcTypes:  map[string]sort.FuncType{},
		globals:    map[string]sort.Sort{},
		fresh:      compiler.NewNameFresh(),
	}
	for _, s := range []sort.Sort{ti.Unit, ti.String, ti.I64} {
		if err := ti.AddSort(s); err != nil {
			panic(err)
		}
	}
	if err := ti.AddPresort(fnsort.Presort{}); err != nil {
		panic(err)
	}
	return ti
}

func (ti *TypeInfo) Sort(name string) (sort.Sort, bool) {
	s, ok := ti.sorts[name]
	return s, ok
}

func (ti *TypeInfo) FuncType(name string) (sort.FuncType, bool) {
	f, ok := ti.funcTypes[name]
	return f, ok
}

func (ti *TypeInfo) AddPrimitive(p sort.Primitive) {
	ti.primitives[p.Name()] = append(ti.primitives[p.Name()], p)
}

// AddSort makes the sort available by name and registers its primitives.
func (ti *TypeInfo) AddSort(s sort.Sort) error {
	if _, ok := ti.sorts[s.Name()]; ok {
		return DuplicateDeclarationError{"sort", s.Name()}
	}
	ti.sorts[s.Name()] = s
	s.RegisterPrimitives(ti)
	return nil
}

func (ti *TypeInfo) AddPresort(p sort.Presort) error {
	if _, ok := ti.presorts[p.PresortName()]; ok {
		return DuplicateDeclarationError{"presort", p.PresortName()}
	}
	ti.presorts[p.PresortName()] = p
	for _, name := range p.ReservedPrimitives() {
		ti.reserved[name] = true
	}
	return nil
}

// DeclarePresortSort builds a sort named name from the presort applied to the
// named input and output sorts, then adds it.
func (ti *TypeInfo) DeclarePresortSort(name string, presort string, inputs []string, output string) (sort.Sort, error) {
	p, ok := ti.presorts[presort]
	if !ok {
		return nil, UndefinedPresortError{presort}
	}
	if _, ok := ti.sorts[name]; ok {
		return nil, DuplicateDeclarationError{"sort", name}
	}
	s, err := p.MakeSort(ti, name, inputs, output)
	if err != nil {
		return nil, err
	}
	if err := ti.AddSort(s); err != nil {
		return nil, err
	}
	return s, nil
}

// DeclareFunction records the signature of a table function. The name may not
// collide with another function, a primitive, or a name a presort reserves.
func (ti *TypeInfo) DeclareFunction(name string, inputs []string, output string) (sort.FuncType, error) {
	_, isFunc := ti.funcTypes[name]
	if isFunc || len(ti.primitives[name]) > 0 || ti.reserved[name] {
		return sort.FuncType{}, DuplicateDeclarationError{"function", name}
	}
	out, ok := ti.sorts[output]
	if !ok {
		return sort.FuncType{}, sort.UndefinedSortError{Name: output}
	}
	ins := make([]sort.Sort, len(inputs))
	for i, in := range inputs {
		s, ok := ti.sorts[in]
		if !ok {
			return sort.FuncType{}, sort.UndefinedSortError{Name: in}
		}
		ins[i] = s
	}
	f := sort.FuncType{Name: name, Inputs: ins, Output: out}
	ti.funcTypes[name] = f
	return f, nil
}

func (ti *TypeInfo) DeclareGlobal(name string, s sort.Sort) error {
	if _, ok := ti.globals[name]; ok {
		return DuplicateDeclarationError{"global", name}
	}
	ti.globals[name] = s
	return nil
}

func (ti *TypeInfo) Global(name string) (sort.Sort, bool) {
	s, ok := ti.globals[name]
	return s, ok
}

// LiteralSort is the sort a literal has wherever it appears.
func (ti *TypeInfo) LiteralSort(l termdag.Literal) sort.Sort {
	switch l.(type) {
	case termdag.LitInt:
		return ti.I64
	case termdag.LitString:
		return ti.String
	default:
		return ti.Unit
	}
}

// Resolve finds the callable with the given name accepting exactly the given
// sorts. types lists the argument sorts followed by the output sort. A table
// function wins over primitives of the same name.
func (ti *TypeInfo) Resolve(name string, types []sort.Sort) (sort.Call, error) {
	if len(types) == 0 {
		return nil, sort.UnresolvedCallError{Name: name, Sorts: types}
	}
	if f, ok := ti.funcTypes[name]; ok {
		full := append(append([]sort.Sort{}, f.Inputs...), f.Output)
		if sort.SameSorts(full, types) {
			return sort.FuncCall{Func: f}, nil
		}
	}

	terms := make([]sort.AtomTerm, len(types))
	seeded := substitution.Empty()
	for i, t := range types {
		terms[i] = sort.VarTerm{Name: ti.fresh.NextPrefix("%")}
		seeded[terms[i].Key()] = t
	}
	matches := underscore.Filter(ti.primitives[name], func(p sort.Primitive) bool {
		_, err := seeded.Solve(p.TypeConstraints().Get(terms, ti))
		return err == nil
	})
	if len(matches) == 0 {
		return nil, sort.UnresolvedCallError{Name: name, Sorts: types}
	}
	return sort.PrimCall{Prim: matches[0], In: types[:len(types)-1], Out: types[len(types)-1]}, nil
}
