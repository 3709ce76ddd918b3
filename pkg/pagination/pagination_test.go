// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/sitecms/pkg/pagination"
)

func TestParams_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{"in_range", 3, 25, 3, 25},
		{"zero_page", 0, 10, 1, 10},
		{"negative_page", -4, 10, 1, 10},
		{"zero_limit", 1, 0, 1, pagination.DefaultLimit},
		{"limit_above_max", 1, 500, 1, pagination.DefaultLimit},
		{"limit_at_max", 1, 100, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := pagination.New(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, pagination.New(1, 10).Offset())
	assert.Equal(t, 20, pagination.New(3, 10).Offset())
}

func TestNewResult(t *testing.T) {
	result := pagination.NewResult([]string{"a", "b"}, 25, pagination.New(1, 10))
	assert.Equal(t, 3, result.Pages)
	assert.Equal(t, 25, result.Total)

	empty := pagination.NewResult[string](nil, 0, pagination.New(1, 10))
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 0, empty.Pages)
}

func TestFromRequest(t *testing.T) {
	request := httptest.NewRequest("GET", "/api/v1/content?page=2&limit=abc", nil)
	params := pagination.FromRequest(request)
	assert.Equal(t, 2, params.Page)
	assert.Equal(t, pagination.DefaultLimit, params.Limit)
}
