// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/taibuivan/sitecms/pkg/pointer"
)

// MemoryRepository is an in-process [Repository].
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*Media
}

// NewMemoryRepository returns an empty in-memory media registry.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]*Media)}
}

func (repository *MemoryRepository) Create(context context.Context, media *Media) error {
	if err := context.Err(); err != nil {
		return err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.items[media.ID] = media.Clone()
	return nil
}

func (repository *MemoryRepository) UpdateDetails(context context.Context, media *Media) error {
	if err := context.Err(); err != nil {
		return err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.items[media.ID]
	if !ok {
		return errNotFound()
	}
	stored.Alt = pointer.Clone(media.Alt)
	stored.Caption = pointer.Clone(media.Caption)
	return nil
}

func (repository *MemoryRepository) Delete(context context.Context, id string) error {
	if err := context.Err(); err != nil {
		return err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.items[id]; !ok {
		return errNotFound()
	}
	delete(repository.items, id)
	return nil
}

func (repository *MemoryRepository) FindByID(_ context.Context, id string) (*Media, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	media, ok := repository.items[id]
	if !ok {
		return nil, errNotFound()
	}
	return media.Clone(), nil
}

func (repository *MemoryRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Media, int, error) {
	if err := context.Err(); err != nil {
		return nil, 0, err
	}

	repository.mu.RLock()
	var matches []*Media
	for _, media := range repository.items {
		if strings.HasPrefix(media.MimeType, filter.MimePrefix) {
			matches = append(matches, media.Clone())
		}
	}
	repository.mu.RUnlock()

	slices.SortFunc(matches, func(a, b *Media) int {
		if order := b.UploadedAt.Compare(a.UploadedAt); order != 0 {
			return order
		}
		return cmp.Compare(b.ID, a.ID)
	})

	total := len(matches)
	if offset >= total {
		return []*Media{}, total, nil
	}
	return matches[offset:min(offset+limit, total)], total, nil
}
