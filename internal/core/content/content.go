// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package content owns the identity and lifecycle of publishable material.

Core Responsibility:

  - Identity: every record has a slug unique within its (locale, type) scope.
  - Lifecycle: draft, published and archived, with publishedAt set exactly while published.
  - Discovery: filtered, searched and paginated listings plus point lookups.

The Postgres unique index on (locale, type, slug) is the authoritative guard.
The slug generator only reduces how often a write has to be retried.
*/
package content

import (
	"maps"
	"slices"
	"time"

	"github.com/taibuivan/sitecms/pkg/pointer"
)

// # Domain Enums

// Status is the lifecycle state of a content record.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Type classifies what kind of page a record renders as.
type Type string

const (
	TypePage      Type = "page"
	TypePost      Type = "post"
	TypeService   Type = "service"
	TypeCaseStudy Type = "case_study"
	TypeNews      Type = "news"
)

// IsValid reports whether t is a recognised [Type] value.
func (t Type) IsValid() bool {
	switch t {
	case TypePage, TypePost, TypeService, TypeCaseStudy, TypeNews:
		return true
	}
	return false
}

// Locale is one of the site's supported languages.
type Locale string

const (
	LocaleEN   Locale = "en"
	LocaleZhCN Locale = "zh-CN"
	LocaleTH   Locale = "th"
)

// IsValid reports whether l is a supported [Locale].
func (l Locale) IsValid() bool {
	switch l {
	case LocaleEN, LocaleZhCN, LocaleTH:
		return true
	}
	return false
}

func statusValues() []string {
	return []string{string(StatusDraft), string(StatusPublished), string(StatusArchived)}
}

func typeValues() []string {
	return []string{string(TypePage), string(TypePost), string(TypeService), string(TypeCaseStudy), string(TypeNews)}
}

func localeValues() []string {
	return []string{string(LocaleEN), string(LocaleZhCN), string(LocaleTH)}
}

// # Field Names

const (
	FieldTitle          = "title"
	FieldSlug           = "slug"
	FieldBody           = "body"
	FieldStatus         = "status"
	FieldType           = "type"
	FieldLocale         = "locale"
	FieldAuthorID       = "authorId"
	FieldSEOTitle       = "seoTitle"
	FieldSEODescription = "seoDescription"
	FieldMetadata       = "metadata"
)

// # Entities

// Scope is the (locale, type) pair within which slugs are unique.
type Scope struct {
	Locale Locale
	Type   Type
}

// String renders the scope as "locale/type".
func (s Scope) String() string {
	return string(s.Locale) + "/" + string(s.Type)
}

// Content is a unit of publishable material.
type Content struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Slug           string         `json:"slug"`
	Excerpt        *string        `json:"excerpt"`
	Body           string         `json:"body"`
	Status         Status         `json:"status"`
	Type           Type           `json:"type"`
	Locale         Locale         `json:"locale"`
	FeaturedImage  *string        `json:"featuredImage"`
	SEOTitle       *string        `json:"seoTitle"`
	SEODescription *string        `json:"seoDescription"`
	Tags           []string       `json:"tags"`
	Categories     []string       `json:"categories"`
	PublishedAt    *time.Time     `json:"publishedAt"`
	AuthorID       string         `json:"authorId"`
	Metadata       map[string]any `json:"metadata"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Scope returns the uniqueness scope of the record.
func (c *Content) Scope() Scope {
	return Scope{Locale: c.Locale, Type: c.Type}
}

// Clone returns a copy that shares no mutable state with c.
func (c *Content) Clone() *Content {
	clone := *c
	clone.Excerpt = pointer.Clone(c.Excerpt)
	clone.FeaturedImage = pointer.Clone(c.FeaturedImage)
	clone.SEOTitle = pointer.Clone(c.SEOTitle)
	clone.SEODescription = pointer.Clone(c.SEODescription)
	clone.Tags = slices.Clone(c.Tags)
	clone.Categories = slices.Clone(c.Categories)
	clone.Metadata = maps.Clone(c.Metadata)
	clone.PublishedAt = pointer.Clone(c.PublishedAt)
	return &clone
}

// # Operation Inputs

// CreateInput carries the caller-supplied fields of a new record.
//
// An empty Slug asks the generator to derive one from Title. An empty Status
// means draft. AuthorID is taken from the caller's identity, never the body.
type CreateInput struct {
	Title          string         `json:"title"`
	Slug           string         `json:"slug,omitempty"`
	Excerpt        *string        `json:"excerpt,omitempty"`
	Body           string         `json:"body"`
	Status         Status         `json:"status,omitempty"`
	Type           Type           `json:"type"`
	Locale         Locale         `json:"locale"`
	FeaturedImage  *string        `json:"featuredImage,omitempty"`
	SEOTitle       *string        `json:"seoTitle,omitempty"`
	SEODescription *string        `json:"seoDescription,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
	Categories     []string       `json:"categories,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	AuthorID       string         `json:"-"`
}

// Patch is a partial update. Nil fields keep their stored value.
//
// For the optional text fields a pointer to "" clears the value. A non-nil
// empty Tags, Categories or Metadata clears the collection.
type Patch struct {
	Title          *string        `json:"title,omitempty"`
	Slug           *string        `json:"slug,omitempty"`
	Excerpt        *string        `json:"excerpt,omitempty"`
	Body           *string        `json:"body,omitempty"`
	Status         *Status        `json:"status,omitempty"`
	Type           *Type          `json:"type,omitempty"`
	Locale         *Locale        `json:"locale,omitempty"`
	FeaturedImage  *string        `json:"featuredImage,omitempty"`
	SEOTitle       *string        `json:"seoTitle,omitempty"`
	SEODescription *string        `json:"seoDescription,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
	Categories     []string       `json:"categories,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`

	// RegenerateSlug derives a fresh slug from the merged title.
	RegenerateSlug bool `json:"regenerateSlug,omitempty"`
}

// Filter narrows a listing. Empty fields match everything.
type Filter struct {
	Type   Type
	Locale Locale
	Status Status

	// Search is a case-insensitive substring of title, body or excerpt.
	Search string
}

// SlugLookup addresses a record by its public identity.
type SlugLookup struct {
	Slug   string
	Locale Locale

	// Type is optional. Without it the most recently created match wins.
	Type Type

	// PublicOnly hides anything that is not published.
	PublicOnly bool
}
