// Package tagger implements the image tagging pipeline: describe an image
// with a vision model, condense the description into keywords with a
// language model, and write the keywords into the image's metadata.
package tagger

import (
	"context"
	"fmt"

	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

// DefaultMaxTags caps how many tags are written per file.
var DefaultMaxTags = 10

// Config holds pipeline configuration.
type Config struct {
	VisionModel string
	TaggerModel string

	// Lang, when non-empty, translates tags via an extra model call.
	Lang string

	MaxTags   int
	DryRun    bool
	Overwrite bool
	Backup    bool

	// Confirm, when set, is consulted before tags are applied to a file.
	Confirm func(path string, tags []string) bool
}

// Result is the outcome of tagging one file.
type Result struct {
	Path    string
	Tags    []string
	Skipped bool
	Err     error
}

// Tagger drives the per-image pipeline.
type Tagger struct {
	c   Config
	gen Generator
	mw  MetadataWriter
}

// New returns a Tagger using gen for inference and mw for metadata writes.
func New(c Config, gen Generator, mw MetadataWriter) *Tagger {
	if c.MaxTags == 0 {
		c.MaxTags = DefaultMaxTags
	}
	return &Tagger{c: c, gen: gen, mw: mw}
}

// Process runs the full pipeline for a single image.
func (t *Tagger) Process(ctx context.Context, i *Image) *Result {
	r := &Result{Path: i.InPath}

	if i.Err != nil {
		r.Err = fmt.Errorf("metadata: %w", i.Err)
		return r
	}

	if !t.c.Overwrite && len(i.Keywords) > 0 {
		klog.Infof("%s already has tags: %v", i.InPath, i.Keywords)
		r.Skipped = true
		return r
	}

	img, err := optimize(i.InPath)
	if err != nil {
		r.Err = fmt.Errorf("optimize: %w", err)
		return r
	}

	klog.Infof("describing %s ...", i.InPath)
	desc, err := t.Describe(ctx, img)
	if err != nil {
		r.Err = err
		return r
	}
	klog.Infof("description: %s", desc)

	tags, err := t.ExtractTags(ctx, desc)
	if err != nil {
		r.Err = err
		return r
	}
	klog.Infof("tags: %v", tags)

	if t.c.Lang != "" {
		tags, err = t.Translate(ctx, tags, t.c.Lang)
		if err != nil {
			r.Err = err
			return r
		}
		klog.Infof("translated tags: %v", tags)
	}

	// Existing keywords come first so repeated runs are stable.
	merged := prepareTags(append(append([]string{}, i.Keywords...), tags...))
	if len(merged) > t.c.MaxTags {
		merged = merged[:t.c.MaxTags]
	}
	r.Tags = merged

	if t.c.Confirm != nil && !t.c.Confirm(i.InPath, merged) {
		klog.Infof("skipping %s by request", i.InPath)
		r.Skipped = true
		return r
	}

	if t.c.DryRun {
		klog.Infof("dry-run: would tag %s with %v", i.InPath, merged)
		return r
	}

	if t.c.Backup {
		if err := copy.Copy(i.InPath, i.InPath+".orig"); err != nil {
			r.Err = fmt.Errorf("backup: %w", err)
			return r
		}
	}

	if err := t.mw.Apply(i.InPath, merged); err != nil {
		r.Err = fmt.Errorf("apply: %w", err)
		return r
	}

	klog.Infof("tagged %s: %v", i.InPath, merged)
	return r
}

// Run processes every image sequentially. The batch continues past
// individual failures; callers inspect the results for errors.
func (t *Tagger) Run(ctx context.Context, images []*Image) []Result {
	results := make([]Result, 0, len(images))
	for _, i := range images {
		r := t.Process(ctx, i)
		if r.Err != nil {
			klog.Errorf("%s: %v", i.InPath, r.Err)
		}
		results = append(results, *r)
	}
	return results
}
