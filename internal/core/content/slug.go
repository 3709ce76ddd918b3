// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"context"
	"fmt"

	"github.com/taibuivan/sitecms/internal/platform/apperr"
	"github.com/taibuivan/sitecms/internal/platform/constants"
	"github.com/taibuivan/sitecms/pkg/slug"
)

// SlugProber answers whether a slug is already used within a scope.
type SlugProber interface {
	SlugExists(context context.Context, scope Scope, candidate, excludeID string) (bool, error)
}

// # Slug Generator

// SlugGenerator turns titles into slugs that are free within a scope.
//
// Its probes are advisory. Two callers may both see a candidate as free; the
// repository's unique index decides, and the service retries the loser.
type SlugGenerator struct {
	prober    SlugProber
	maxProbes int
}

// NewSlugGenerator builds a generator bounded by [constants.MaxSlugProbes].
func NewSlugGenerator(prober SlugProber) *SlugGenerator {
	return &SlugGenerator{prober: prober, maxProbes: constants.MaxSlugProbes}
}

// Generate slugifies title and returns the first free candidate in scope along
// with its ordinal (1 for the bare base, n for "base-n").
func (generator *SlugGenerator) Generate(context context.Context, title string, scope Scope, excludeID string) (string, int, error) {
	return generator.ResolveFrom(context, slug.Slugify(title), scope, excludeID, 1)
}

/*
ResolveFrom probes base, base-2, base-3, ... starting at ordinal start.

Parameters:
  - base: an already slugified candidate
  - scope: the (locale, type) uniqueness scope
  - excludeID: the record being updated, so it never collides with itself
  - start: the first ordinal to try

Returns:
  - string: the first free candidate
  - int: its ordinal, so a retry after a lost race can resume past it
  - error: CONFLICT once the probe budget is spent, or a store failure
*/
func (generator *SlugGenerator) ResolveFrom(context context.Context, base string, scope Scope, excludeID string, start int) (string, int, error) {
	start = max(start, 1)

	for ordinal := start; ordinal < start+generator.maxProbes; ordinal++ {
		candidate := slug.WithSuffix(base, ordinal)

		taken, err := generator.prober.SlugExists(context, scope, candidate, excludeID)
		if err != nil {
			return "", 0, err
		}
		if !taken {
			return candidate, ordinal, nil
		}
	}

	return "", 0, slugConflict(base, scope)
}

func slugConflict(candidate string, scope Scope) error {
	return apperr.Conflict(
		fmt.Sprintf("Slug %q is already taken in %s", candidate, scope),
		apperr.FieldError{Field: FieldSlug, Message: candidate},
		apperr.FieldError{Field: FieldLocale, Message: string(scope.Locale)},
		apperr.FieldError{Field: FieldType, Message: string(scope.Type)},
	)
}
