// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"

	"github.com/taibuivan/sitecms/internal/platform/apperr"
)

const resourceName = "Media"

func errNotFound() error {
	return apperr.NotFound(resourceName)
}

// # Media Data Access

// Repository defines the data access contract for the media registry.
type Repository interface {
	Create(context context.Context, media *Media) error

	// UpdateDetails writes alt and caption. A missing id is NOT_FOUND.
	UpdateDetails(context context.Context, media *Media) error

	Delete(context context.Context, id string) error
	FindByID(context context.Context, id string) (*Media, error)

	// List returns a page ordered by uploadedAt DESC, id DESC and the total match count.
	List(context context.Context, filter Filter, limit, offset int) ([]*Media, int, error)
}
