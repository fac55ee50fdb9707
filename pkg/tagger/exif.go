package tagger

import (
	"fmt"

	"github.com/barasher/go-exiftool"
	"k8s.io/klog/v2"
)

// keywordAttrs are the metadata fields that carry tags across the various
// cataloging conventions (IPTC, XMP, ACDSee, Lightroom).
var keywordAttrs = []string{
	"Keywords",
	"Subject",
	"TagsList",
	"CatalogSets",
	"LastKeywordXMP",
	"HierarchicalSubject",
}

// MetadataWriter persists tags into an image's embedded metadata.
type MetadataWriter interface {
	// Apply merges the tag set into the file's keyword attributes,
	// preserving each attribute's existing values.
	Apply(path string, tags []string) error
}

// ExifWriter applies tags through a long-lived exiftool process.
type ExifWriter struct {
	et *exiftool.Exiftool
}

// NewExifWriter returns a MetadataWriter backed by et.
func NewExifWriter(et *exiftool.Exiftool) *ExifWriter {
	return &ExifWriter{et: et}
}

func (w *ExifWriter) Apply(path string, tags []string) error {
	fms := w.et.ExtractMetadata(path)
	fm := fms[0]
	if fm.Err != nil {
		return fmt.Errorf("extract %q: %w", path, fm.Err)
	}

	// A file may carry tags in Subject or TagsList that never made it into
	// Keywords, so each attribute is unioned with its own current values.
	var cats []string
	for _, attr := range keywordAttrs {
		current, err := fm.GetStrings(attr)
		if err != nil {
			klog.V(1).Infof("no %s in %s: %v", attr, path, err)
		}
		merged := prepareTags(append(current, tags...))
		fm.SetStrings(attr, merged)
		if attr == "Keywords" {
			cats = merged
		}
	}
	// Categories mirrors the merged Keywords set in XML form.
	fm.SetString("Categories", categoriesXML(cats))

	w.et.WriteMetadata(fms)
	if fms[0].Err != nil {
		return fmt.Errorf("write %q: %w", path, fms[0].Err)
	}
	return nil
}
