// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// MemoryRepository is an in-process [Repository] guarded by a single mutex.
//
// It enforces the scoped slug index under the same lock as the write, which
// makes it a faithful stand-in for Postgres in tests and single-node setups.
type MemoryRepository struct {
	mu       sync.RWMutex
	contents map[string]*Content
}

// NewMemoryRepository returns an empty in-memory content store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{contents: make(map[string]*Content)}
}

func (repository *MemoryRepository) Create(context context.Context, content *Content) error {
	if err := context.Err(); err != nil {
		return err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.slugTakenLocked(content.Scope(), content.Slug, content.ID) {
		return ErrSlugTaken
	}

	repository.contents[content.ID] = content.Clone()
	return nil
}

func (repository *MemoryRepository) Update(context context.Context, content *Content) error {
	if err := context.Err(); err != nil {
		return err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, exists := repository.contents[content.ID]; !exists {
		return errNotFound()
	}

	if repository.slugTakenLocked(content.Scope(), content.Slug, content.ID) {
		return ErrSlugTaken
	}

	repository.contents[content.ID] = content.Clone()
	return nil
}

func (repository *MemoryRepository) Delete(context context.Context, id string) error {
	if err := context.Err(); err != nil {
		return err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, exists := repository.contents[id]; !exists {
		return errNotFound()
	}

	delete(repository.contents, id)
	return nil
}

func (repository *MemoryRepository) FindByID(context context.Context, id string) (*Content, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	content, exists := repository.contents[id]
	if !exists {
		return nil, errNotFound()
	}
	return content.Clone(), nil
}

func (repository *MemoryRepository) FindBySlug(context context.Context, lookup SlugLookup) (*Content, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	var matches []*Content
	for _, content := range repository.contents {
		if content.Slug != lookup.Slug || content.Locale != lookup.Locale {
			continue
		}
		if lookup.Type != "" && content.Type != lookup.Type {
			continue
		}
		if lookup.PublicOnly && content.Status != StatusPublished {
			continue
		}
		matches = append(matches, content)
	}

	if len(matches) == 0 {
		return nil, errNotFound()
	}

	slices.SortFunc(matches, newestFirst)
	return matches[0].Clone(), nil
}

func (repository *MemoryRepository) SlugExists(context context.Context, scope Scope, slug, excludeID string) (bool, error) {
	if err := context.Err(); err != nil {
		return false, err
	}

	repository.mu.RLock()
	defer repository.mu.RUnlock()

	return repository.slugTakenLocked(scope, slug, excludeID), nil
}

func (repository *MemoryRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Content, int, error) {
	if err := context.Err(); err != nil {
		return nil, 0, err
	}

	repository.mu.RLock()
	defer repository.mu.RUnlock()

	matcher := newSearchMatcher(filter.Search)

	var matches []*Content
	for _, content := range repository.contents {
		if filter.Type != "" && content.Type != filter.Type {
			continue
		}
		if filter.Locale != "" && content.Locale != filter.Locale {
			continue
		}
		if filter.Status != "" && content.Status != filter.Status {
			continue
		}
		if !matcher.matches(content) {
			continue
		}
		matches = append(matches, content)
	}

	slices.SortFunc(matches, newestFirst)

	total := len(matches)
	start := min(offset, total)
	end := min(start+limit, total)

	items := make([]*Content, 0, end-start)
	for _, content := range matches[start:end] {
		items = append(items, content.Clone())
	}

	return items, total, nil
}

func (repository *MemoryRepository) slugTakenLocked(scope Scope, slug, excludeID string) bool {
	for id, content := range repository.contents {
		if id == excludeID {
			continue
		}
		if content.Slug == slug && content.Locale == scope.Locale && content.Type == scope.Type {
			return true
		}
	}
	return false
}

// newestFirst orders by createdAt DESC, then id DESC.
func newestFirst(a, b *Content) int {
	if byTime := b.CreatedAt.Compare(a.CreatedAt); byTime != 0 {
		return byTime
	}
	return cmp.Compare(b.ID, a.ID)
}

// searchMatcher folds case with full Unicode rules so "SPACE" finds "space"
// and non-Latin scripts compare unchanged.
type searchMatcher struct {
	needle string
	caser  cases.Caser
}

func newSearchMatcher(search string) *searchMatcher {
	search = strings.TrimSpace(search)
	if search == "" {
		return &searchMatcher{}
	}
	caser := cases.Fold()
	return &searchMatcher{needle: caser.String(search), caser: caser}
}

func (matcher *searchMatcher) matches(content *Content) bool {
	if matcher.needle == "" {
		return true
	}

	fields := []string{content.Title, content.Body}
	if content.Excerpt != nil {
		fields = append(fields, *content.Excerpt)
	}

	for _, field := range fields {
		if strings.Contains(matcher.caser.String(field), matcher.needle) {
			return true
		}
	}
	return false
}
