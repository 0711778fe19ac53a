package mapfn

import "sort"

// ConvertSlice converts a slice of type T to a slice of type R using the provided function
func ConvertSlice[T any, R any](input []T, fn func(T) R) []R {
	result := make([]R, len(input))
	for i, v := range input {
		result[i] = fn(v)
	}
	return result
}

// FilterSlice filters a slice based on the provided predicate function
func FilterSlice[T any](input []T, predicate func(T) bool) []T {
	result := make([]T, 0)
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}
	return result
}

// SortedKeys returns the keys of a string-keyed map in ascending order
func SortedKeys[V any](input map[string]V) []string {
	keys := make([]string, 0, len(input))
	for k := range input {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
