// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"context"
	"errors"

	"github.com/taibuivan/sitecms/internal/platform/apperr"
)

// resourceName labels NOT_FOUND errors. Missing and hidden records share the
// message "Content not found" so draft existence never leaks.
const resourceName = "Content"

// ErrSlugTaken is returned by a [Repository] when a write would give two
// records the same slug within one scope.
var ErrSlugTaken = errors.New("content: slug already taken in scope")

func errNotFound() error {
	return apperr.NotFound(resourceName)
}

// # Content Data Access

// Repository defines the data access contract for the content domain.
//
// Implementations must enforce (locale, type, slug) uniqueness atomically
// with the write and report a violation as [ErrSlugTaken].
type Repository interface {

	/*
		Create persists a new record in a single atomic statement.

		Returns:
		  - error: ErrSlugTaken on a scoped slug collision
	*/
	Create(context context.Context, content *Content) error

	/*
		Update replaces every mutable column of an existing record.

		Returns:
		  - error: NOT_FOUND if the record vanished, ErrSlugTaken on collision
	*/
	Update(context context.Context, content *Content) error

	// Delete removes the record permanently. A missing id is NOT_FOUND.
	Delete(context context.Context, id string) error

	// FindByID returns the record with the given id or NOT_FOUND.
	FindByID(context context.Context, id string) (*Content, error)

	/*
		FindBySlug resolves a slug within a locale.

		An empty lookup.Type matches any type and the most recently created
		record wins. PublicOnly restricts matches to published records.
	*/
	FindBySlug(context context.Context, lookup SlugLookup) (*Content, error)

	// SlugExists reports whether slug is taken in scope by a record other than excludeID.
	SlugExists(context context.Context, scope Scope, slug, excludeID string) (bool, error)

	/*
		List returns a filtered page ordered by createdAt DESC, id DESC.

		Returns:
		  - []*Content: the requested window
		  - int: count of all matching records before pagination
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Content, int, error)
}
