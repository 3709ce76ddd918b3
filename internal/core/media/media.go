// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media keeps the registry of uploaded assets.

A record describes a file that already lives at a durable URL, either one the
caller computed (external upload) or one returned by the object store when
the file is pushed through [Service.StoreFile]. Only alt and caption change
after registration.
*/
package media

import (
	"time"

	"github.com/taibuivan/sitecms/pkg/pointer"
)

// # Field Names

const (
	FieldFilename     = "filename"
	FieldOriginalName = "originalName"
	FieldMimeType     = "mimeType"
	FieldSize         = "size"
	FieldURL          = "url"
	FieldUploadedBy   = "uploadedBy"
	FieldAlt          = "alt"
	FieldCaption      = "caption"
	FieldFile         = "file"
)

// Media is a registered asset.
type Media struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	Alt          *string   `json:"alt"`
	Caption      *string   `json:"caption"`
	UploadedBy   string    `json:"uploadedBy"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// Clone returns a copy that shares no pointers with m.
func (m *Media) Clone() *Media {
	clone := *m
	clone.Alt = pointer.Clone(m.Alt)
	clone.Caption = pointer.Clone(m.Caption)
	return &clone
}

// UploadInput registers a file stored elsewhere. UploadedBy comes from the
// caller's identity.
type UploadInput struct {
	Filename     string  `json:"filename"`
	OriginalName string  `json:"originalName"`
	MimeType     string  `json:"mimeType"`
	Size         int64   `json:"size"`
	URL          string  `json:"url"`
	Alt          *string `json:"alt,omitempty"`
	Caption      *string `json:"caption,omitempty"`
	UploadedBy   string  `json:"-"`
}

// DetailsPatch changes the descriptive fields. Nil keeps, "" clears.
type DetailsPatch struct {
	Alt     *string `json:"alt,omitempty"`
	Caption *string `json:"caption,omitempty"`
}

// Filter narrows a media listing.
type Filter struct {
	// MimePrefix matches the start of the MIME type, e.g. "image/".
	MimePrefix string
}
