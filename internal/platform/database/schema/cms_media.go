// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CMSMediaTable represents the 'cms.media' table
type CMSMediaTable struct {
	Table        string
	ID           string
	Filename     string
	OriginalName string
	MimeType     string
	Size         string
	URL          string
	Alt          string
	Caption      string
	UploadedBy   string
	UploadedAt   string
}

// CMSMedia is the schema definition for cms.media
var CMSMedia = CMSMediaTable{
	Table:        "cms.media",
	ID:           "id",
	Filename:     "filename",
	OriginalName: "originalname",
	MimeType:     "mimetype",
	Size:         "sizebytes",
	URL:          "url",
	Alt:          "alt",
	Caption:      "caption",
	UploadedBy:   "uploadedby",
	UploadedAt:   "uploadedat",
}

func (t CMSMediaTable) Columns() []string {
	return []string{
		t.ID, t.Filename, t.OriginalName, t.MimeType, t.Size, t.URL,
		t.Alt, t.Caption, t.UploadedBy, t.UploadedAt,
	}
}
