// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination reads page requests for the public work listing and
// describes the returned page.
package pagination

import (
	"net/http"
	"strconv"
)

// Page sizes fit the site's work grid (rows of three and four).
const (
	DefaultLimit = 12
	MaxLimit     = 48
)

// Params is a 1-indexed page request.
type Params struct {
	Page  int
	Limit int
}

// Offset is the number of records before the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta accompanies a page in the response envelope.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta describes page of limit items out of total.
func NewMeta(page, limit, total int) Meta {
	meta := Meta{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	return meta
}

// FromRequest reads ?page= and ?limit=. Missing or malformed values fall
// back to the first page of [DefaultLimit]; limits above [MaxLimit] are capped.
func FromRequest(request *http.Request) Params {
	values := request.URL.Query()

	params := Params{Page: 1, Limit: DefaultLimit}
	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		params.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		params.Limit = min(limit, MaxLimit)
	}
	return params
}
