// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/sitecms/pkg/slice"
)

func TestMapFilterUnique(t *testing.T) {
	tags := []string{" News ", "events", "", "news", "events"}

	lowered := slice.Map(tags, func(s string) string { return strings.ToLower(strings.TrimSpace(s)) })
	assert.Equal(t, []string{"news", "events", "", "news", "events"}, lowered)

	nonEmpty := slice.Filter(lowered, func(s string) bool { return s != "" })
	assert.Equal(t, []string{"news", "events", "news", "events"}, nonEmpty)

	assert.Equal(t, []string{"news", "events"}, slice.Unique(nonEmpty))
}

func TestNilInput(t *testing.T) {
	assert.Nil(t, slice.Map[string, int](nil, func(string) int { return 0 }))
	assert.Nil(t, slice.Filter[string](nil, func(string) bool { return true }))
	assert.Nil(t, slice.Unique[string](nil))
}
