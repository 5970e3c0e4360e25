package substitution

import (
	"github.com/glossopoeia/saturate/compiler/sort"
	"golang.org/x/exp/maps"
)

// A Substitution records the sort solved so far for each atom term, keyed by
// the term's key. Solving never revises an entry; a second, different sort for
// the same term is a conflict.
type Substitution map[string]sort.Sort

func Empty() Substitution {
	return Substitution{}
}

func (s Substitution) Clone() Substitution {
	return maps.Clone(s)
}

func (s Substitution) Lookup(t sort.AtomTerm) (sort.Sort, bool) {
	found, ok := s[t.Key()]
	return found, ok
}

// Assign records the sort for the term, or reports a mismatch if the term
// already has a different one.
func (s Substitution) Assign(t sort.AtomTerm, to sort.Sort) error {
	if prev, ok := s[t.Key()]; ok {
		if prev.Name() != to.Name() {
			return sort.SortMismatchError{Term: t, Expected: prev, Actual: to}
		}
		return nil
	}
	s[t.Key()] = to
	return nil
}

// Solve applies the constraints to a copy of the substitution, leaving the
// receiver untouched so a failed candidate can be abandoned. The first
// impossible constraint or conflicting assignment is returned as the error.
func (s Substitution) Solve(cs []sort.Constraint) (Substitution, error) {
	res := s.Clone()
	for _, c := range cs {
		switch c := c.(type) {
		case sort.Impossible:
			return nil, c.Err
		case sort.Assign:
			if err := res.Assign(c.Term, c.Sort); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}
