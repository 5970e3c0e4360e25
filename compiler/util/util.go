package util

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Addition that clamps at the maximum value of T instead of wrapping.
func SaturatingAdd[T constraints.Unsigned](a T, b T) T {
	sum := a + b
	if sum < a {
		return ^T(0)
	}
	return sum
}

// The keys of a map in ascending order, for deterministic iteration.
func SortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

func MapFilterValue[T comparable, V any](m map[T]V, filter func(v V) bool) map[T]V {
	res := make(map[T]V)
	for k, v := range m {
		if filter(v) {
			res[k] = v
		}
	}
	return res
}
