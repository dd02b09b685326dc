// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice adds the generic mapping the standard [slices] package lacks.
package slice

// Map converts every element of input with fn. A nil input stays nil so
// that optional JSON arrays keep their "absent" meaning.
func Map[T, U any](input []T, fn func(T) U) []U {
	if input == nil {
		return nil
	}

	output := make([]U, len(input))
	for index, value := range input {
		output[index] = fn(value)
	}
	return output
}
