// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/taibuivan/sitecms/pkg/pointer"
	"github.com/taibuivan/sitecms/pkg/slug"
	"github.com/taibuivan/sitecms/pkg/uuid"
)

// slugPlan says how the slug of a record about to be written is chosen.
type slugPlan struct {
	// resolve probes base, base-2, ... and retries after a lost race.
	// Otherwise record.Slug is used as is and a collision is a conflict.
	resolve bool
	base    string
}

// # Content Lifecycle

/*
Create validates input, assigns identity and persists a new record.

Description: A missing slug is derived from the title and resolved within
the (locale, type) scope. A caller-supplied slug is never suffixed: if it
is taken the call fails with CONFLICT.

Parameters:
  - ctx: context.Context
  - input: CreateInput (AuthorID comes from the caller's identity)

Returns:
  - *Content: the stored record with id, timestamps and final slug
  - error: VALIDATION_ERROR, CONFLICT or INTERNAL_ERROR
*/
func (service *Service) Create(ctx context.Context, input CreateInput) (*Content, error) {
	now := service.now()

	record := &Content{
		ID:             uuid.New(),
		Title:          strings.TrimSpace(input.Title),
		Slug:           strings.TrimSpace(input.Slug),
		Excerpt:        pointer.NonBlank(input.Excerpt),
		Body:           service.sanitizeBody(input.Body),
		Status:         input.Status,
		Type:           input.Type,
		Locale:         input.Locale,
		FeaturedImage:  pointer.NonBlank(input.FeaturedImage),
		SEOTitle:       pointer.NonBlank(input.SEOTitle),
		SEODescription: pointer.NonBlank(input.SEODescription),
		Tags:           normalizeSet(input.Tags),
		Categories:     normalizeSet(input.Categories),
		AuthorID:       strings.TrimSpace(input.AuthorID),
		Metadata:       input.Metadata,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if record.Status == "" {
		record.Status = StatusDraft
	}
	if record.Metadata == nil {
		record.Metadata = map[string]any{}
	}

	explicitSlug := record.Slug != ""
	if err := validateContent(record, explicitSlug); err != nil {
		return nil, err
	}

	stampPublication(record, "", now)

	plan := slugPlan{resolve: !explicitSlug, base: slug.Slugify(record.Title)}
	if err := service.writeWithSlug(ctx, record, plan, service.repository.Create); err != nil {
		return nil, service.persistenceError(ctx, "create_content", record, err)
	}

	service.invalidate(ctx, cacheKeysFor(record)...)

	service.logger.InfoContext(ctx, "content_created",
		slog.String("content_id", record.ID),
		slog.String("locale", string(record.Locale)),
		slog.String("type", string(record.Type)),
		slog.String("slug", record.Slug),
		slog.String("status", string(record.Status)),
	)

	return record, nil
}

/*
Update merges a partial patch into an existing record.

Description: The merged record is validated with the same rules as Create.
The slug is replaced when the patch names one (conflict if taken), is
regenerated from the merged title on request, and is otherwise kept. A kept
slug that collides in a new scope is resolved by suffixing.

Returns:
  - *Content: the stored record after the update
  - error: NOT_FOUND, VALIDATION_ERROR, CONFLICT or INTERNAL_ERROR
*/
func (service *Service) Update(ctx context.Context, id string, patch Patch) (*Content, error) {
	if !uuid.Valid(id) {
		return nil, errNotFound()
	}

	existing, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, service.persistenceError(ctx, "load_content", &Content{ID: id}, err)
	}

	record := existing.Clone()
	service.applyPatch(record, patch)
	record.UpdatedAt = service.now()

	explicitSlug := patch.Slug != nil
	if err := validateContent(record, explicitSlug); err != nil {
		return nil, err
	}

	stampPublication(record, existing.Status, record.UpdatedAt)

	var plan slugPlan
	switch {
	case explicitSlug:
		plan = slugPlan{resolve: false}
	case patch.RegenerateSlug:
		plan = slugPlan{resolve: true, base: slug.Slugify(record.Title)}
	case record.Scope() != existing.Scope():
		plan = slugPlan{resolve: true, base: existing.Slug}
	default:
		plan = slugPlan{resolve: false}
	}

	if err := service.writeWithSlug(ctx, record, plan, service.repository.Update); err != nil {
		return nil, service.persistenceError(ctx, "update_content", record, err)
	}

	service.invalidate(ctx, append(cacheKeysFor(existing), cacheKeysFor(record)...)...)

	service.logger.InfoContext(ctx, "content_updated",
		slog.String("content_id", record.ID),
		slog.String("locale", string(record.Locale)),
		slog.String("type", string(record.Type)),
		slog.String("slug", record.Slug),
		slog.String("status", string(record.Status)),
	)

	return record, nil
}

/*
Delete permanently removes a record. A second call reports NOT_FOUND.
*/
func (service *Service) Delete(ctx context.Context, id string) error {
	if !uuid.Valid(id) {
		return errNotFound()
	}

	existing, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return service.persistenceError(ctx, "load_content", &Content{ID: id}, err)
	}

	if err := service.repository.Delete(ctx, id); err != nil {
		return service.persistenceError(ctx, "delete_content", existing, err)
	}

	service.invalidate(ctx, cacheKeysFor(existing)...)

	service.logger.InfoContext(ctx, "content_deleted",
		slog.String("content_id", id),
		slog.String("locale", string(existing.Locale)),
		slog.String("type", string(existing.Type)),
		slog.String("slug", existing.Slug),
	)

	return nil
}

// # Internal Helpers

// applyPatch merges the non-nil patch fields into record. AuthorID is immutable.
func (service *Service) applyPatch(record *Content, patch Patch) {
	if patch.Title != nil {
		record.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Slug != nil {
		record.Slug = strings.TrimSpace(*patch.Slug)
	}
	if patch.Body != nil {
		record.Body = service.sanitizeBody(*patch.Body)
	}
	if patch.Status != nil {
		record.Status = *patch.Status
	}
	if patch.Type != nil {
		record.Type = *patch.Type
	}
	if patch.Locale != nil {
		record.Locale = *patch.Locale
	}
	if patch.Excerpt != nil {
		record.Excerpt = pointer.NonBlank(patch.Excerpt)
	}
	if patch.FeaturedImage != nil {
		record.FeaturedImage = pointer.NonBlank(patch.FeaturedImage)
	}
	if patch.SEOTitle != nil {
		record.SEOTitle = pointer.NonBlank(patch.SEOTitle)
	}
	if patch.SEODescription != nil {
		record.SEODescription = pointer.NonBlank(patch.SEODescription)
	}
	if patch.Tags != nil {
		record.Tags = normalizeSet(patch.Tags)
	}
	if patch.Categories != nil {
		record.Categories = normalizeSet(patch.Categories)
	}
	if patch.Metadata != nil {
		record.Metadata = patch.Metadata
	}
}

/*
writeWithSlug settles record.Slug according to plan and performs write.

Description: The generator's probe is only an optimisation. When the store
still reports ErrSlugTaken, a concurrent writer claimed the candidate first:
resolution resumes after the lost ordinal and the write is retried, up to
maxAttempts writes in total, before the call fails with CONFLICT.
*/
func (service *Service) writeWithSlug(ctx context.Context, record *Content, plan slugPlan, write func(context.Context, *Content) error) error {
	scope := record.Scope()

	if !plan.resolve {
		taken, err := service.repository.SlugExists(ctx, scope, record.Slug, record.ID)
		if err != nil {
			return err
		}
		if taken {
			return slugConflict(record.Slug, scope)
		}

		err = write(ctx, record)
		if errors.Is(err, ErrSlugTaken) {
			return slugConflict(record.Slug, scope)
		}
		return err
	}

	candidate, ordinal, err := service.slugs.ResolveFrom(ctx, plan.base, scope, record.ID, 1)
	if err != nil {
		return err
	}

	for attempt := 1; ; attempt++ {
		record.Slug = candidate

		err := write(ctx, record)
		if !errors.Is(err, ErrSlugTaken) {
			return err
		}

		if attempt >= service.maxAttempts {
			service.logger.WarnContext(ctx, "content_slug_retries_exhausted",
				slog.String("locale", string(scope.Locale)),
				slog.String("type", string(scope.Type)),
				slog.String("slug", candidate),
				slog.Int("attempts", attempt),
			)
			return slugConflict(candidate, scope)
		}

		service.logger.InfoContext(ctx, "content_slug_retry",
			slog.String("locale", string(scope.Locale)),
			slog.String("type", string(scope.Type)),
			slog.String("slug", candidate),
			slog.Int("attempt", attempt),
		)

		candidate, ordinal, err = service.slugs.ResolveFrom(ctx, plan.base, scope, record.ID, ordinal+1)
		if err != nil {
			return err
		}
	}
}

