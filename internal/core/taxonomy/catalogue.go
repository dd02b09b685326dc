// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

// Service is the public description of a studio service.
type Service struct {
	Slug       ServiceSlug `json:"slug"`
	Label      string      `json:"label"`
	Title      string      `json:"title"`
	Summary    string      `json:"summary"`
	Highlights []string    `json:"highlights"`
	Categories []Category  `json:"categories"`
}

// Category is the public description of a sub-category.
type Category struct {
	Slug  CategorySlug `json:"slug"`
	Label string       `json:"label"`
}

var categoryLabels = map[CategorySlug]string{
	CategoryOTTDubbing:    "OTT / Movie Dubbing",
	CategoryAdCampaigns:   "Ad Campaigns",
	CategoryAudioPost:     "Audio Post",
	CategoryAI:            "AI Integration",
	CategoryAccessibility: "Accessibility",
	CategoryCompliance:    "Compliance",
	CategorySyndication:   "Syndication",
}

var serviceCopy = map[ServiceSlug]Service{
	ServiceDubbing: {
		Label:   "Dubbing & Localization",
		Title:   "Dubbing & Localization",
		Summary: "Culturally adapted voice tracks for films, series and campaigns across Indian and international languages.",
		Highlights: []string{
			"Script adaptation and lip-sync dubbing",
			"Voice casting across regional languages",
			"Final mix delivered to OTT specifications",
		},
	},
	ServiceAudioPost: {
		Label:   "Audio Post Production",
		Title:   "Audio Post Production",
		Summary: "Dialogue editing, sound design and mixing for long and short form content.",
		Highlights: []string{
			"Dialogue cleanup and ADR",
			"Sound design and Foley",
			"Stereo and 5.1 mixing",
		},
	},
	ServiceAI: {
		Label:   "AI Integration",
		Title:   "AI Integration",
		Summary: "AI-assisted voice and translation pipelines reviewed by human linguists.",
		Highlights: []string{
			"Synthetic voice with human QC",
			"Machine translation post-editing",
		},
	},
	ServiceAccessibility: {
		Label:   "Accessibility Assets",
		Title:   "Accessibility Assets",
		Summary: "Subtitles, closed captions and audio description that meet platform guidelines.",
		Highlights: []string{
			"Subtitles and SDH captions",
			"Audio description tracks",
		},
	},
	ServiceCompliance: {
		Label:   "Censor & Compliance",
		Title:   "Censor & Compliance",
		Summary: "Edits and documentation for certification and broadcast compliance.",
		Highlights: []string{
			"Certification edits",
			"Broadcast standards review",
		},
	},
	ServiceSyndication: {
		Label:   "Syndication",
		Title:   "Syndication",
		Summary: "Packaging and delivery of localized catalogues to platforms and broadcasters.",
		Highlights: []string{
			"Platform-ready deliverables",
			"Metadata and artwork packaging",
		},
	},
}

// CategoryLabel returns the human label for a category, or the slug itself when unknown.
func CategoryLabel(category CategorySlug) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	return string(category)
}

// Catalogue returns the public service catalogue in display order.
func Catalogue() []Service {
	catalogue := make([]Service, 0, len(services))
	for _, slug := range services {
		entry := serviceCopy[slug]
		entry.Slug = slug
		entry.Highlights = append([]string(nil), entry.Highlights...)

		for _, category := range slug.Categories() {
			entry.Categories = append(entry.Categories, Category{Slug: category, Label: CategoryLabel(category)})
		}
		catalogue = append(catalogue, entry)
	}
	return catalogue
}

// Lookup returns the catalogue entry for one service.
func Lookup(slug ServiceSlug) (Service, bool) {
	for _, entry := range Catalogue() {
		if entry.Slug == slug {
			return entry, true
		}
	}
	return Service{}, false
}
