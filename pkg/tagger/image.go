package tagger

import (
	"time"
)

// Image represents a photo queued for tagging.
type Image struct {
	InPath  string
	RelPath string
	ModTime time.Time

	// Keywords are the tags already embedded in the file.
	Keywords []string

	Width  int64
	Height int64

	// Err records a metadata extraction failure from discovery; the file
	// is carried through the batch so the failure counts per-file.
	Err error
}
