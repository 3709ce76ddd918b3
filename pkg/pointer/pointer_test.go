// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/sitecms/pkg/pointer"
)

func TestNonBlank(t *testing.T) {
	assert.Nil(t, pointer.NonBlank(nil))
	assert.Nil(t, pointer.NonBlank(pointer.To("   ")))
	assert.Equal(t, "Lobby", *pointer.NonBlank(pointer.To("  Lobby ")))
}

func TestClone(t *testing.T) {
	original := pointer.To("alt")
	clone := pointer.Clone(original)
	*clone = "changed"

	assert.Equal(t, "alt", *original)
	assert.Nil(t, pointer.Clone[string](nil))
	assert.Equal(t, 0, pointer.Val[int](nil))
}
