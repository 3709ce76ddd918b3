// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"context"
	"strings"

	"github.com/taibuivan/sitecms/internal/platform/apperr"
	"github.com/taibuivan/sitecms/internal/platform/validate"
	"github.com/taibuivan/sitecms/pkg/pagination"
	"github.com/taibuivan/sitecms/pkg/uuid"
)

// # Content Lookups

/*
List returns one page of records matching filter.

Description: Results are ordered by createdAt DESC with id DESC as the
tie-breaker, so consecutive pages never overlap. Out-of-range page and limit
values are normalised; a page past the end is empty, not an error.

Parameters:
  - ctx: context.Context
  - filter: Filter (exact type/locale/status, substring search)
  - params: pagination.Params

Returns:
  - pagination.Result[*Content]: {items, total, page, limit, pages}
  - error: VALIDATION_ERROR for unknown enum values, INTERNAL_ERROR
*/
func (service *Service) List(ctx context.Context, filter Filter, params pagination.Params) (pagination.Result[*Content], error) {
	params = params.Normalize()
	filter.Search = strings.TrimSpace(filter.Search)

	if err := validateFilter(filter); err != nil {
		return pagination.Result[*Content]{}, err
	}

	items, total, err := service.repository.List(ctx, filter, params.Limit, params.Offset())
	if err != nil {
		return pagination.Result[*Content]{}, service.persistenceError(ctx, "list_content", nil, err)
	}

	return pagination.NewResult(items, total, params), nil
}

// GetByID returns a record regardless of status. Malformed ids are NOT_FOUND.
func (service *Service) GetByID(ctx context.Context, id string) (*Content, error) {
	if !uuid.Valid(id) {
		return nil, errNotFound()
	}

	record, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, service.persistenceError(ctx, "get_content", &Content{ID: id}, err)
	}
	return record, nil
}

/*
GetBySlug resolves a record by slug within a locale.

Description: PublicOnly hides drafts and archived records behind the same
NOT_FOUND a missing slug produces. Public lookups are served through the
slug cache, and concurrent misses for one key share a single store read.

Returns:
  - *Content: the matching record (most recent one if Type is omitted)
  - error: NOT_FOUND, VALIDATION_ERROR for an unknown locale/type
*/
func (service *Service) GetBySlug(ctx context.Context, lookup SlugLookup) (*Content, error) {
	lookup.Slug = strings.TrimSpace(lookup.Slug)

	validator := &validate.Validator{}
	validator.Required(FieldLocale, string(lookup.Locale))
	if lookup.Locale != "" {
		validator.OneOf(FieldLocale, string(lookup.Locale), localeValues()...)
	}
	if lookup.Type != "" {
		validator.OneOf(FieldType, string(lookup.Type), typeValues()...)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if lookup.Slug == "" {
		return nil, errNotFound()
	}

	if !lookup.PublicOnly {
		return service.findBySlug(ctx, lookup)
	}

	key := slugCacheKey(lookup)
	if cached, ok := service.cache.Get(ctx, key); ok {
		return cached, nil
	}

	// The shared read must not fail for everyone when the first caller gives up.
	detached := context.WithoutCancel(ctx)
	shared, err, _ := service.flight.Do(key, func() (any, error) {
		fill := service.fills.begin(key)
		record, err := service.findBySlug(detached, lookup)
		if err != nil {
			service.fills.finish(key, fill, nil)
			return nil, err
		}
		service.fills.finish(key, fill, func() { service.cache.Set(detached, key, record) })
		return record, nil
	})
	if err != nil {
		return nil, err
	}

	return shared.(*Content).Clone(), nil
}

func (service *Service) findBySlug(ctx context.Context, lookup SlugLookup) (*Content, error) {
	record, err := service.repository.FindBySlug(ctx, lookup)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, errNotFound()
		}
		return nil, service.persistenceError(ctx, "get_content_by_slug", &Content{
			Slug:   lookup.Slug,
			Locale: lookup.Locale,
			Type:   lookup.Type,
		}, err)
	}
	return record, nil
}
