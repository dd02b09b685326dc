// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package playback describes how the public site should play a published
project: the HLS master playlist URL, the audio languages it carries and
the language to start with.

Languages come from the EXT-X-MEDIA audio renditions of the master
playlist, normalised to their primary subtag ("hi-IN" → "hi").
*/
package playback

import (
	"io"
	"slices"
	"strings"

	"github.com/grafov/m3u8"
)

// PreferredLanguages is the default-language order; the first one present wins.
var PreferredLanguages = []string{"hi", "en", "bn", "ta"}

// AudioLanguage is one selectable audio track.
type AudioLanguage struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Descriptor is everything the player needs to start.
type Descriptor struct {
	Src             string          `json:"src"`
	AudioLanguages  []AudioLanguage `json:"audioLanguages"`
	DefaultLanguage string          `json:"defaultLanguage"`
}

// # Playlist Inspection

// AudioLanguages decodes a master playlist and returns the primary language
// subtags of its audio renditions, de-duplicated in playlist order.
func AudioLanguages(playlist io.Reader) ([]string, error) {
	decoded, listType, err := m3u8.DecodeFrom(playlist, false)
	if err != nil {
		return nil, err
	}
	if listType != m3u8.MASTER {
		return nil, nil
	}

	master := decoded.(*m3u8.MasterPlaylist)

	var codes []string
	for _, variant := range master.Variants {
		if variant == nil {
			continue
		}
		for _, alternative := range variant.Alternatives {
			if alternative == nil || !strings.EqualFold(alternative.Type, "AUDIO") {
				continue
			}
			codes = append(codes, alternative.Language)
		}
	}

	return Normalize(codes), nil
}

// Normalize maps every code to its primary subtag, dropping empties and duplicates.
func Normalize(codes []string) []string {
	normalized := make([]string, 0, len(codes))
	for _, code := range codes {
		primary := PrimarySubtag(code)
		if primary == "" || slices.Contains(normalized, primary) {
			continue
		}
		normalized = append(normalized, primary)
	}
	return normalized
}

// PrimarySubtag returns the lower-cased text before the first "-" or "_".
// Legacy codes such as "iw" or "tl" are kept as declared so they still match
// the rendition the player exposes.
func PrimarySubtag(code string) string {
	primary, _, _ := strings.Cut(strings.TrimSpace(code), "-")
	primary, _, _ = strings.Cut(primary, "_")
	return strings.ToLower(primary)
}

// DefaultLanguage picks the first preferred language present, else the first
// available one, else "".
func DefaultLanguage(available []string) string {
	for _, preferred := range PreferredLanguages {
		if slices.Contains(available, preferred) {
			return preferred
		}
	}
	if len(available) > 0 {
		return available[0]
	}
	return ""
}

func labelled(codes []string) []AudioLanguage {
	languages := make([]AudioLanguage, 0, len(codes))
	for _, code := range codes {
		languages = append(languages, AudioLanguage{Code: code, Label: strings.ToUpper(code)})
	}
	return languages
}
