// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query normalizes multi-valued URL query parameters.
package query

import "strings"

// List flattens a repeated parameter whose entries may also be
// comma-separated ("?status=draft&status=published,archived").
// Blank entries are dropped; nil is returned when nothing remains.
func List(values []string) []string {
	var result []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if clean := strings.TrimSpace(part); clean != "" {
				result = append(result, clean)
			}
		}
	}
	return result
}
