// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/sitecms/internal/platform/apperr"
	"github.com/taibuivan/sitecms/internal/platform/constants"
	"github.com/taibuivan/sitecms/internal/platform/validate"
	"github.com/taibuivan/sitecms/pkg/slice"
)

// # Service Layer

// Service is the lifecycle manager and query engine of the content domain.
// Every write goes through it so validation, slug resolution and publish
// timestamps are applied the same way regardless of the caller.
type Service struct {
	repository  Repository
	slugs       *SlugGenerator
	cache       SlugCache
	flight      singleflight.Group
	fills       cacheFills
	sanitizer   *bluemonday.Policy
	logger      *slog.Logger
	now         func() time.Time
	maxAttempts int
}

// Option configures optional collaborators of a [Service].
type Option func(*Service)

// WithCache serves public slug lookups through cache.
func WithCache(cache SlugCache) Option {
	return func(service *Service) {
		if cache != nil {
			service.cache = cache
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(service *Service) {
		service.now = now
	}
}

// NewService constructs a new [Service] around a repository.
func NewService(repository Repository, logger *slog.Logger, options ...Option) *Service {
	service := &Service{
		repository:  repository,
		slugs:       NewSlugGenerator(repository),
		cache:       noopSlugCache{},
		sanitizer:   bluemonday.UGCPolicy(),
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
		maxAttempts: constants.MaxWriteAttempts,
	}

	for _, option := range options {
		option(service)
	}

	return service
}

// # Validation

// validateContent checks a fully merged record before it is written.
// explicitSlug is validated only when the caller chose the slug.
func validateContent(record *Content, explicitSlug bool) error {
	validator := &validate.Validator{}

	validator.
		Required(FieldTitle, record.Title).
		MaxLen(FieldTitle, record.Title, constants.MaxTitleLength).
		Required(FieldBody, record.Body).
		Required(FieldAuthorID, record.AuthorID).
		Required(FieldType, string(record.Type)).
		Required(FieldLocale, string(record.Locale))

	if record.Type != "" {
		validator.OneOf(FieldType, string(record.Type), typeValues()...)
	}
	if record.Locale != "" {
		validator.OneOf(FieldLocale, string(record.Locale), localeValues()...)
	}
	validator.OneOf(FieldStatus, string(record.Status), statusValues()...)

	if explicitSlug {
		validator.Slug(FieldSlug, record.Slug)
	}

	if record.SEOTitle != nil {
		validator.MaxLen(FieldSEOTitle, *record.SEOTitle, constants.MaxSEOTitleLength)
	}
	if record.SEODescription != nil {
		validator.MaxLen(FieldSEODescription, *record.SEODescription, constants.MaxSEODescriptionLength)
	}

	for key := range record.Metadata {
		if strings.TrimSpace(key) == "" {
			validator.Custom(FieldMetadata, true, "Metadata keys must not be empty")
			break
		}
	}

	return validator.Err()
}

func validateFilter(filter Filter) error {
	validator := &validate.Validator{}
	if filter.Type != "" {
		validator.OneOf(FieldType, string(filter.Type), typeValues()...)
	}
	if filter.Locale != "" {
		validator.OneOf(FieldLocale, string(filter.Locale), localeValues()...)
	}
	if filter.Status != "" {
		validator.OneOf(FieldStatus, string(filter.Status), statusValues()...)
	}
	return validator.Err()
}

// # Normalisation

// sanitizeBody runs markup through the UGC policy. Plain text is kept as
// typed, so "x < y && y > z" is stored and searched verbatim.
func (service *Service) sanitizeBody(body string) string {
	body = strings.TrimSpace(body)
	if !isMarkup(body) {
		return body
	}
	return strings.TrimSpace(service.sanitizer.Sanitize(body))
}

// isMarkup reports whether body holds at least one HTML tag or comment.
// A "<" followed by a space, digit or "=" is text, as it is for a browser.
func isMarkup(body string) bool {
	if !strings.ContainsRune(body, '<') {
		return false
	}

	tokenizer := html.NewTokenizer(strings.NewReader(body))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken, html.CommentToken:
			return true
		}
	}
}

// normalizeSet trims entries, drops blanks and removes duplicates, keeping
// the first occurrence.
func normalizeSet(values []string) []string {
	unique := slice.Unique(slice.Filter(slice.Map(values, strings.TrimSpace), func(value string) bool {
		return value != ""
	}))
	if unique == nil {
		return []string{}
	}
	return unique
}

// stampPublication keeps publishedAt non-null exactly while published.
// Re-saving a published record keeps its first publication time.
func stampPublication(record *Content, previous Status, now time.Time) {
	switch {
	case record.Status != StatusPublished:
		record.PublishedAt = nil
	case previous != StatusPublished || record.PublishedAt == nil:
		publishedAt := now
		record.PublishedAt = &publishedAt
	}
}

// invalidate drops cached copies of a written record. It must run after the
// write commits.
func (service *Service) invalidate(ctx context.Context, keys ...string) {
	service.fills.markStale(keys...)
	service.cache.Invalidate(ctx, keys...)
}

// # Error Reporting

// persistenceError logs store failures with identity fields only and makes
// sure the caller receives a typed error.
func (service *Service) persistenceError(ctx context.Context, operation string, record *Content, err error) error {
	if appErr := apperr.As(err); appErr != nil && appErr.Code != apperr.CodeInternal {
		return err
	}

	attrs := []any{slog.String("operation", operation), slog.Any("error", err)}
	if record != nil {
		attrs = append(attrs,
			slog.String("content_id", record.ID),
			slog.String("locale", string(record.Locale)),
			slog.String("type", string(record.Type)),
			slog.String("slug", record.Slug),
		)
	}
	service.logger.ErrorContext(ctx, "content_persistence_failed", attrs...)

	if apperr.As(err) != nil {
		return err
	}
	return apperr.Internal(err)
}
