// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CMSContentTable represents the 'cms.content' table
type CMSContentTable struct {
	Table          string
	ID             string
	Title          string
	Slug           string
	Excerpt        string
	Body           string
	Status         string
	Type           string
	Locale         string
	FeaturedImage  string
	SEOTitle       string
	SEODescription string
	Tags           string
	Categories     string
	PublishedAt    string
	AuthorID       string
	Metadata       string
	CreatedAt      string
	UpdatedAt      string

	// ScopeSlugIndex enforces one slug per (locale, type).
	ScopeSlugIndex string
}

// CMSContent is the schema definition for cms.content
var CMSContent = CMSContentTable{
	Table:          "cms.content",
	ID:             "id",
	Title:          "title",
	Slug:           "slug",
	Excerpt:        "excerpt",
	Body:           "body",
	Status:         "status",
	Type:           "type",
	Locale:         "locale",
	FeaturedImage:  "featuredimage",
	SEOTitle:       "seotitle",
	SEODescription: "seodescription",
	Tags:           "tags",
	Categories:     "categories",
	PublishedAt:    "publishedat",
	AuthorID:       "authorid",
	Metadata:       "metadata",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
	ScopeSlugIndex: "uq_content_scope_slug",
}

func (t CMSContentTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.Excerpt, t.Body, t.Status, t.Type, t.Locale,
		t.FeaturedImage, t.SEOTitle, t.SEODescription, t.Tags, t.Categories,
		t.PublishedAt, t.AuthorID, t.Metadata, t.CreatedAt, t.UpdatedAt,
	}
}
