package sort

import (
	"github.com/glossopoeia/saturate/compiler/termdag"
	"github.com/glossopoeia/saturate/compiler/unionfind"
	"github.com/glossopoeia/saturate/runtime"
)

type Value = runtime.Value

// Cost of an extracted term. Costs add up saturating, never wrapping.
type Cost = uint64

// An Inner is a child value held by a container sort, paired with the sort
// that knows how to interpret it.
type Inner struct {
	Sort  Sort
	Value Value
}

// Every value in the database has a sort. The sort is the only thing that
// knows what the bits of a value mean, so the rest of the engine works on
// values exclusively through this interface: it asks the sort for a value's
// children, asks it to canonicalize a value against the current union-find,
// and asks it to rebuild a term for a value during extraction.
//
// Sorts are created once per declaration and shared by reference from then
// on. Apart from whatever interning table they own, they do not change.
type Sort interface {
	Name() string
	// Values of an equality sort are e-class ids, canonicalized by find.
	IsEqSort() bool
	// Container sorts hold other values, reachable through InnerValues.
	IsContainerSort() bool
	// True if some value reachable from this container may be an e-class id,
	// which means rebuilding has to revisit values of this sort.
	IsEqContainerSort() bool
	InnerValues(v Value) []Inner
	// Rewrite v in place to its canonical form, reporting whether it changed.
	Canonicalize(v *Value, uf *unionfind.UnionFind) bool
	// A short name for the value, used as a header when printing or serializing.
	SerializedName(v Value) string
	ExtractTerm(v Value, ex Extractor, dag *termdag.TermDag) (Cost, termdag.TermId, bool)
	RegisterPrimitives(r Registry)
}

// A LiteralSort can turn source literals into values and back.
type LiteralSort interface {
	Sort
	FromLiteral(l termdag.Literal) (Value, bool)
	ToLiteral(v Value) termdag.Literal
}

// Sorts looks up a declared sort by name.
type Sorts interface {
	Sort(name string) (Sort, bool)
}

// A Registry accepts the primitives a sort contributes when it is declared.
type Registry interface {
	AddPrimitive(p Primitive)
}

type Extractor interface {
	// Find the cheapest term currently representing v. Reports false if no
	// term is reachable yet.
	FindBest(v Value, dag *termdag.TermDag, s Sort) (Cost, termdag.TermId, bool)
}

// A presort is a sort constructor: declaring `sort Name = Presort(In...) -> Out`
// asks the presort to make a fresh sort from already declared ones.
type Presort interface {
	PresortName() string
	// Primitive names every sort made from this presort will register.
	ReservedPrimitives() []string
	MakeSort(sorts Sorts, name string, inputs []string, output string) (Sort, error)
}

// Base carries the behaviour shared by leaf sorts. Embed it and override what
// differs.
type Base struct {
	name string
}

func NewBase(name string) Base {
	return Base{name}
}

func (b Base) Name() string                                      { return b.name }
func (Base) IsEqSort() bool                                      { return false }
func (Base) IsContainerSort() bool                               { return false }
func (Base) IsEqContainerSort() bool                             { return false }
func (Base) InnerValues(v Value) []Inner                         { return nil }
func (Base) Canonicalize(v *Value, uf *unionfind.UnionFind) bool { return false }
func (b Base) SerializedName(v Value) string                     { return b.name }
func (Base) RegisterPrimitives(r Registry)                       {}

// SameSorts compares two sort lists by name.
func SameSorts(l []Sort, r []Sort) bool {
	if len(l) != len(r) {
		return false
	}
	for i := range l {
		if l[i].Name() != r[i].Name() {
			return false
		}
	}
	return true
}
