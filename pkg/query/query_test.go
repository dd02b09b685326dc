// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/stonemedia/pkg/query"
)

func TestList(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []string
	}{
		{"Nil", nil, nil},
		{"Blank", []string{"", " , "}, nil},
		{"Repeated", []string{"draft", "published"}, []string{"draft", "published"}},
		{"CommaSeparated", []string{"draft, published", "archived"}, []string{"draft", "published", "archived"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, query.List(tt.values))
		})
	}
}
