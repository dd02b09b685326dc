// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package taxonomy defines the fixed two-level classification of studio work.

Every project belongs to exactly one service and one category, and the
category must be one of the categories offered by that service. Both levels
are closed enumerations: values outside the known set are rejected at the
boundary instead of being stored.
*/
package taxonomy

import (
	"fmt"
	"slices"

	"github.com/taibuivan/stonemedia/internal/platform/apperr"
)

// ServiceSlug identifies a top-level studio service.
type ServiceSlug string

// CategorySlug identifies a sub-category within a service.
type CategorySlug string

const (
	ServiceDubbing       ServiceSlug = "dubbing-localization"
	ServiceAudioPost     ServiceSlug = "audio-post"
	ServiceAI            ServiceSlug = "ai-integration"
	ServiceAccessibility ServiceSlug = "accessibility"
	ServiceCompliance    ServiceSlug = "compliance"
	ServiceSyndication   ServiceSlug = "syndication"
)

const (
	CategoryOTTDubbing    CategorySlug = "ott-dubbing"
	CategoryAdCampaigns   CategorySlug = "ad-campaigns"
	CategoryAudioPost     CategorySlug = "audio-post"
	CategoryAI            CategorySlug = "ai-integration"
	CategoryAccessibility CategorySlug = "accessibility"
	CategoryCompliance    CategorySlug = "compliance"
	CategorySyndication   CategorySlug = "syndication"
)

// Field names reported in validation errors.
const (
	FieldService  = "service_slug"
	FieldCategory = "category_slug"
)

// services keeps display order.
var services = []ServiceSlug{
	ServiceDubbing,
	ServiceAudioPost,
	ServiceAI,
	ServiceAccessibility,
	ServiceCompliance,
	ServiceSyndication,
}

// Services returns every service in display order.
func Services() []ServiceSlug {
	return slices.Clone(services)
}

// IsValid reports whether s is a known service.
func (s ServiceSlug) IsValid() bool {
	return slices.Contains(services, s)
}

// Categories returns the categories offered by the service, or nil for an unknown service.
func (s ServiceSlug) Categories() []CategorySlug {
	switch s {
	case ServiceDubbing:
		return []CategorySlug{CategoryOTTDubbing, CategoryAdCampaigns}
	case ServiceAudioPost:
		return []CategorySlug{CategoryAudioPost}
	case ServiceAI:
		return []CategorySlug{CategoryAI}
	case ServiceAccessibility:
		return []CategorySlug{CategoryAccessibility}
	case ServiceCompliance:
		return []CategorySlug{CategoryCompliance}
	case ServiceSyndication:
		return []CategorySlug{CategorySyndication}
	default:
		return nil
	}
}

// Offers reports whether category belongs to the service.
func (s ServiceSlug) Offers(category CategorySlug) bool {
	return slices.Contains(s.Categories(), category)
}

// IsValid reports whether c is offered by any service.
func (c CategorySlug) IsValid() bool {
	for _, service := range services {
		if service.Offers(c) {
			return true
		}
	}
	return false
}

// Validate checks both levels and their membership.
//
// It returns a VALIDATION_ERROR naming the offending field.
func Validate(service ServiceSlug, category CategorySlug) error {
	if !service.IsValid() {
		return apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldService,
			Message: fmt.Sprintf("Unknown service: %q", service),
		})
	}

	if !service.Offers(category) {
		return apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldCategory,
			Message: fmt.Sprintf("Category %q does not belong to service %q", category, service),
		})
	}

	return nil
}

// DefaultCategory returns the first category of a service, used when the
// public site links to a service page without choosing a category.
func (s ServiceSlug) DefaultCategory() (CategorySlug, bool) {
	categories := s.Categories()
	if len(categories) == 0 {
		return "", false
	}
	return categories[0], true
}
