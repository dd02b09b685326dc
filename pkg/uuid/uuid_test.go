// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/stonemedia/pkg/uuid"
)

func TestNew_IsOrderedAndValid(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	assert.True(t, uuid.Valid(first))
	assert.Equal(t, byte('7'), first[14])
	assert.NotEqual(t, first, second)
}

func TestValid(t *testing.T) {
	assert.True(t, uuid.Valid("0190f1d2-3b4c-7d5e-8f60-718293a4b5c6"))
	assert.False(t, uuid.Valid("p1"))
	assert.False(t, uuid.Valid(""))
}
