// image-tagger adds AI-suggested keyword tags to image metadata, using a
// local Ollama server (or the Gemini API) for inference and exiftool for
// the metadata writes.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/barasher/go-exiftool"
	"github.com/fsnotify/fsnotify"
	"k8s.io/klog/v2"

	"github.com/tstromberg/imagetagger/pkg/gemini"
	"github.com/tstromberg/imagetagger/pkg/ollama"
	"github.com/tstromberg/imagetagger/pkg/tagger"
)

var (
	dryRun      = flag.Bool("n", false, "dry-run mode, don't tag anything")
	overwrite   = flag.Bool("overwrite", false, "re-tag files that already have keywords")
	confirmEach = flag.Bool("confirm", false, "confirm each file before applying tags")
	backup      = flag.Bool("backup", false, "copy each file to <path>.orig before writing")
	visionModel = flag.String("vision-model", "", "vision model for describing images (default: llava, or gemini-2.5-flash with --backend=gemini)")
	taggerModel = flag.String("tagger-model", "", "language model for extracting tags (default: phi3, or gemini-2.5-flash with --backend=gemini)")
	lang        = flag.String("lang", "", "translate tags to this language (default: keep model output)")
	maxTags     = flag.Int("max-tags", tagger.DefaultMaxTags, "maximum number of tags to write per file")
	backend     = flag.String("backend", "ollama", "inference backend: ollama or gemini")
	ollamaHost  = flag.String("ollama-host", "", "Ollama server URL (default: OLLAMA_HOST or http://localhost:11434)")
	watchFlag   = flag.Bool("watch", false, "after the first pass, watch for new images and tag them too")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if len(flag.Args()) == 0 {
		klog.Exitf("No input paths provided. Usage: %s [flags] <path> [path ...]", os.Args[0])
	}

	for _, p := range flag.Args() {
		if _, err := os.Stat(p); err != nil {
			klog.Exitf("unable to read %s: %v", p, err)
		}
	}

	ctx := context.Background()

	gen, err := newGenerator(ctx)
	if err != nil {
		klog.Exitf("backend setup failed: %v", err)
	}

	et, err := exiftool.NewExiftool()
	if err != nil {
		klog.Exitf("exiftool: %v", err)
	}
	defer func() {
		if err := et.Close(); err != nil {
			klog.Errorf("failed to close exiftool: %v", err)
		}
	}()

	vision, tag := models()
	c := tagger.Config{
		VisionModel: vision,
		TaggerModel: tag,
		Lang:        *lang,
		MaxTags:     *maxTags,
		DryRun:      *dryRun,
		Overwrite:   *overwrite,
		Backup:      *backup,
	}
	if *confirmEach {
		c.Confirm = confirm
	}

	t := tagger.New(c, gen, tagger.NewExifWriter(et))

	failed := 0
	tagged := 0
	for _, root := range flag.Args() {
		is, err := tagger.Find(root, et)
		if err != nil {
			klog.Errorf("find %s: %v", root, err)
			failed++
			continue
		}
		klog.Infof("found %d images under %s", len(is), root)

		for _, r := range t.Run(ctx, is) {
			switch {
			case r.Err != nil:
				failed++
			case !r.Skipped:
				tagged++
			}
		}
	}

	klog.Infof("done: %d tagged, %d failed", tagged, failed)

	if *watchFlag {
		if err := watch(ctx, t, et, flag.Args()); err != nil {
			klog.Exitf("watch failed: %v", err)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// models fills in backend-appropriate defaults for unset model flags.
func models() (string, string) {
	vision, tag := *visionModel, *taggerModel
	if *backend == "gemini" {
		if vision == "" {
			vision = "gemini-2.5-flash"
		}
		if tag == "" {
			tag = "gemini-2.5-flash"
		}
		return vision, tag
	}
	if vision == "" {
		vision = "llava"
	}
	if tag == "" {
		tag = "phi3"
	}
	return vision, tag
}

func newGenerator(ctx context.Context) (tagger.Generator, error) {
	switch *backend {
	case "ollama":
		cl, err := ollama.New(*ollamaHost)
		if err != nil {
			return nil, err
		}
		if err := cl.Healthy(ctx); err != nil {
			klog.Warningf("ollama server is not responding yet: %v", err)
		}
		return cl, nil
	case "gemini":
		return gemini.New(ctx)
	default:
		return nil, fmt.Errorf("unknown backend %q", *backend)
	}
}

// confirm prompts on stdin before tags are applied.
func confirm(path string, tags []string) bool {
	fmt.Printf("apply %v to %s? [y/N] ", tags, path)
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(sc.Text()))
	return answer == "y" || answer == "yes"
}

// watch tags new or modified images as they appear under the given roots.
func watch(ctx context.Context, t *tagger.Tagger, et *exiftool.Exiftool, roots []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	for _, root := range roots {
		st, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("stat: %w", err)
		}
		dir := root
		if !st.IsDir() {
			dir = filepath.Dir(root)
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		klog.Infof("watching %s", dir)
	}

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !tagger.IsImage(event.Name) {
				continue
			}
			klog.Infof("event: %s", event)

			is, err := tagger.Find(event.Name, et)
			if err != nil {
				klog.Errorf("find %s: %v", event.Name, err)
				continue
			}
			t.Run(ctx, is)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		}
	}
}
