// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer helps with optional fields of partial updates.
package pointer

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}

// Fallback returns *p, or current when the field was not sent.
func Fallback[T any](p *T, current T) T {
	if p == nil {
		return current
	}
	return *p
}
