package egraph

import "github.com/rjNemo/underscore"

// Rebuild restores congruence: every stored value is canonicalized through
// its sort, and rows whose inputs became equal are merged, unioning their
// outputs when those are e-classes. Merging can expose more equal inputs, so
// passes repeat until one finishes without a union. Returns the number of
// passes made.
func (eg *EGraph) Rebuild() int {
	passes := 0
	for {
		passes++
		unions := 0
		for _, name := range eg.order {
			unions += eg.rebuildTable(eg.tables[name])
		}
		for name, g := range eg.globals {
			eg.canonicalizeValue(g.sort, &g.value)
			eg.globals[name] = g
		}
		if unions == 0 {
			return passes
		}
	}
}

// When two rows collide and the output is not an e-class, the earlier row is
// kept. A table with no column that can hold an e-class never changes.
func (eg *EGraph) rebuildTable(t *table) int {
	if !rebuilds(t.decl.Output) && !underscore.Any(t.decl.Inputs, rebuilds) {
		return 0
	}
	unions := 0
	old := t.rows
	t.rows = make([]row, 0, len(old))
	t.index = make(map[string]int, len(old))
	for _, r := range old {
		r.inputs = eg.canonicalize(t.decl.Inputs, r.inputs)
		eg.canonicalizeValue(t.decl.Output, &r.output)

		key := inputKey(r.inputs)
		if at, ok := t.index[key]; ok {
			prev := t.rows[at].output
			if t.decl.Output.IsEqSort() && !prev.Same(r.output) {
				if _, changed := eg.uf.Union(prev.Bits, r.output.Bits); changed {
					unions++
				}
			}
			continue
		}
		t.index[key] = len(t.rows)
		t.rows = append(t.rows, r)
	}
	return unions
}
