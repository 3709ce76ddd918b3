// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for list operations.
//
// # Overview
//
// Pages are 1-indexed. Out-of-range input never fails: it is normalized to the
// defaults, and a page past the end simply yields no items.
package pagination

import (
	"net/http"

	"github.com/taibuivan/sitecms/pkg/convert"
)

const (
	// DefaultLimit is the number of items per page if not specified or out of range.
	DefaultLimit = 10
	// MaxLimit is the upper bound for items per page to prevent system abuse.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds the requested page and limit.
type Params struct {
	Page  int
	Limit int
}

// New builds normalized params from raw values.
func New(page, limit int) Params {
	return Params{Page: page, Limit: limit}.Normalize()
}

// Normalize clamps page below 1 to [DefaultPage] and resets a limit outside
// 1..[MaxLimit] to [DefaultLimit].
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		p.Limit = DefaultLimit
	}
	return p
}

// Offset returns the SQL OFFSET value derived from [Page] and [Limit].
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Result is one page of items plus the counts needed to navigate the rest.
type Result[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// NewResult assembles a [Result], computing Pages as ceil(total / limit).
// A nil items slice is replaced with an empty one so it encodes as [].
func NewResult[T any](items []T, total int, params Params) Result[T] {
	if items == nil {
		items = []T{}
	}

	pages := 0
	if params.Limit > 0 {
		pages = (total + params.Limit - 1) / params.Limit
	}

	return Result[T]{
		Items: items,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
		Pages: pages,
	}
}

// FromRequest parses "page" and "limit" query parameters from an HTTP request.
// Invalid values fall back to the defaults.
func FromRequest(r *http.Request) Params {
	query := r.URL.Query()
	return New(
		convert.ToIntD(query.Get("page"), DefaultPage),
		convert.ToIntD(query.Get("limit"), DefaultLimit),
	)
}
