// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreProjectTable represents the 'core.project' table
type CoreProjectTable struct {
	Table            string
	ID               string
	Slug             string
	Title            string
	ServiceSlug      string
	CategorySlug     string
	Year             string
	Meta             string
	Languages        string
	Order            string
	Status           string
	SourceVideoPath  string
	SourceAudioPaths string
	BuildStatus      string
	BuildError       string
	HLSPath          string
	CreatedAt        string
	UpdatedAt        string
}

// CoreProject is the schema definition for core.project
var CoreProject = CoreProjectTable{
	Table:            "core.project",
	ID:               "id",
	Slug:             "slug",
	Title:            "title",
	ServiceSlug:      "serviceslug",
	CategorySlug:     "categoryslug",
	Year:             "year",
	Meta:             "meta",
	Languages:        "languages",
	Order:            "ordering",
	Status:           "status",
	SourceVideoPath:  "sourcevideopath",
	SourceAudioPaths: "sourceaudiopaths",
	BuildStatus:      "buildstatus",
	BuildError:       "builderror",
	HLSPath:          "hlspath",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
}

// Columns lists every column in scan order.
func (t CoreProjectTable) Columns() []string {
	return []string{
		t.ID, t.Slug, t.Title, t.ServiceSlug, t.CategorySlug, t.Year, t.Meta, t.Languages,
		t.Order, t.Status, t.SourceVideoPath, t.SourceAudioPaths, t.BuildStatus, t.BuildError,
		t.HLSPath, t.CreatedAt, t.UpdatedAt,
	}
}
