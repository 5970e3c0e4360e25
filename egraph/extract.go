package egraph

import (
	"strings"

	"github.com/glossopoeia/saturate/compiler/sort"
	"github.com/glossopoeia/saturate/compiler/termdag"
	"github.com/glossopoeia/saturate/compiler/util"
)

type best struct {
	cost sort.Cost
	fn   string
	row  int
}

// An Extractor knows the cheapest row for every e-class at the time it was
// built. A row costs one plus the cost of its inputs.
type Extractor struct {
	eg    *EGraph
	costs map[uint64]best
}

// NewExtractor computes the cheapest row of every e-class, iterating until no
// class gets cheaper.
func (eg *EGraph) NewExtractor() *Extractor {
	ex := &Extractor{eg, map[uint64]best{}}
	eqTables := util.MapFilterValue(eg.tables, func(t *table) bool { return t.decl.Output.IsEqSort() })
	names := util.SortedKeys(eqTables)

	for changed := true; changed; {
		changed = false
		for _, name := range names {
			t := eqTables[name]
			for i, r := range t.rows {
				cost, ok := ex.rowCost(t, r)
				if !ok {
					continue
				}
				class := eg.uf.Find(r.output.Bits)
				if prev, seen := ex.costs[class]; !seen || cost < prev.cost {
					ex.costs[class] = best{cost, name, i}
					changed = true
				}
			}
		}
	}
	return ex
}

func (ex *Extractor) rowCost(t *table, r row) (sort.Cost, bool) {
	scratch := termdag.New()
	cost := sort.Cost(1)
	for i, in := range r.inputs {
		c, _, ok := ex.FindBest(in, scratch, t.decl.Inputs[i])
		if !ok {
			return 0, false
		}
		cost = util.SaturatingAdd(cost, c)
	}
	return cost, true
}

func (ex *Extractor) FindBest(v sort.Value, dag *termdag.TermDag, s sort.Sort) (sort.Cost, termdag.TermId, bool) {
	if !s.IsEqSort() {
		return s.ExtractTerm(v, ex, dag)
	}
	b, ok := ex.costs[ex.eg.uf.Find(v.Bits)]
	if !ok {
		return 0, 0, false
	}
	t := ex.eg.tables[b.fn]
	r := t.rows[b.row]
	args := make([]termdag.TermId, len(r.inputs))
	for i, in := range r.inputs {
		_, term, ok := ex.FindBest(in, dag, t.decl.Inputs[i])
		if !ok {
			return 0, 0, false
		}
		args[i] = term
	}
	return b.cost, dag.App(b.fn, args), true
}

// Extract evaluates the expression as a fact and returns the cheapest term
// currently equal to it.
func (eg *EGraph) Extract(src string) (sort.Cost, string, error) {
	v, s, err := eg.eval(src, nil, true)
	if err != nil {
		return 0, "", err
	}
	dag := termdag.New()
	cost, term, ok := eg.NewExtractor().FindBest(v, dag, s)
	if !ok {
		return 0, "", ExtractError{src}
	}
	return cost, dag.String(term), nil
}

// Show renders a value as the cheapest term for it. When no term exists, a
// container is shown by its serialized name and children, and anything else
// by its raw handle.
func (eg *EGraph) Show(v sort.Value, s sort.Sort) string {
	return eg.show(eg.NewExtractor(), v, s)
}

func (eg *EGraph) show(ex *Extractor, v sort.Value, s sort.Sort) string {
	if lit, ok := s.(sort.LiteralSort); ok {
		return lit.ToLiteral(v).String()
	}
	dag := termdag.New()
	if _, term, ok := ex.FindBest(v, dag, s); ok {
		return dag.String(term)
	}
	if !s.IsContainerSort() {
		return v.String()
	}
	parts := []string{s.SerializedName(v)}
	for _, in := range s.InnerValues(v) {
		parts = append(parts, eg.show(ex, in.Value, in.Sort))
	}
	return "(" + strings.Join(parts, " ") + ")"
}
