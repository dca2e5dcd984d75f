// Package util collects small generic helpers shared by config and
// cmd/hvmllex: TransformSlice and a sorted-map helper.
package util

import "sort"

// TransformSlice applies converter to each element and returns a new slice.
func TransformSlice[T any, R any](in []T, converter func(T) R) []R {
	out := make([]R, len(in))
	for i, v := range in {
		out[i] = converter(v)
	}
	return out
}

// SortedKeys returns a map's keys in sorted order, for deterministic
// output where Go's random map iteration would otherwise make two runs
// over the same config print named references in a different order.
func SortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
