package compiler

import "strconv"

// NameFresh hands out variable names that have not been handed out before by
// the same generator. Each prefix counts separately, so "$0" and "%0" may both
// be issued. Two generators know nothing of each other; names are only fresh
// with respect to the generator that made them.
type NameFresh struct {
	counters map[string]int
}

func NewNameFresh() *NameFresh {
	return &NameFresh{map[string]int{}}
}

func (f *NameFresh) NextPrefix(prefix string) string {
	ind := f.counters[prefix]
	f.counters[prefix] = ind + 1
	return prefix + strconv.Itoa(ind)
}

// NextPrefixN returns n consecutive names sharing a prefix.
func (f *NameFresh) NextPrefixN(prefix string, n int) []string {
	res := make([]string, n)
	for i := range res {
		res[i] = f.NextPrefix(prefix)
	}
	return res
}
