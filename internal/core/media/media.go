// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media transfers a project's source files into blob storage.

A source batch is one video-only file plus one audio file per spoken
language. Storage paths are derived from the project slug so a repeated
upload overwrites the previous files in place:

	sources/<slug>/video.<ext>
	sources/<slug>/audio/<lang>.<ext>

Every precondition is checked before the first byte is sent. Transfers then
run strictly in order, video first, and each file reports its own progress.
*/
package media

import (
	"io"
	"path"
	"strings"
)

const (
	// DefaultVideoExtension applies when the uploaded file name has no extension.
	DefaultVideoExtension = "mp4"

	// DefaultAudioExtension applies when the uploaded file name has no extension.
	DefaultAudioExtension = "wav"

	sourcesRoot = "sources"
)

// File is one selected source file. Open is called only once the whole
// batch has passed validation.
type File struct {
	Name        string // Original client file name; only its extension is used
	ContentType string
	Size        int64 // Bytes; zero or negative when unknown
	Open        func() (io.ReadCloser, error)
}

// AudioFile pairs an audio file with the language it carries.
type AudioFile struct {
	Language string
	File
}

// Batch is everything one upload transfers.
type Batch struct {
	Video *File
	Audio []AudioFile
}

// # Path Derivation

// VideoPath returns the storage path of a project's source video.
func VideoPath(slug, fileName string) string {
	return path.Join(sourcesRoot, slug, "video."+Extension(fileName, DefaultVideoExtension))
}

// AudioPath returns the storage path of a project's audio track for one language.
func AudioPath(slug, language, fileName string) string {
	return path.Join(sourcesRoot, slug, "audio", language+"."+Extension(fileName, DefaultAudioExtension))
}

// Extension returns the lower-cased text after the last dot of fileName,
// or fallback when there is none or it is not purely alphanumeric.
func Extension(fileName, fallback string) string {
	index := strings.LastIndex(fileName, ".")
	if index < 0 || index == len(fileName)-1 {
		return fallback
	}

	extension := strings.ToLower(fileName[index+1:])
	for _, r := range extension {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return fallback
		}
	}
	return extension
}

// ProgressKey names a file of the batch in progress reports: "video" or "audio.<lang>".
func ProgressKey(language string) string {
	if language == "" {
		return "video"
	}
	return "audio." + language
}
