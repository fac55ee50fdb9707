package tagger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/barasher/go-exiftool"
	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// IsImage reports whether path has a supported image extension.
func IsImage(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

func read(path string, et *exiftool.Exiftool) (Image, error) {
	fis := et.ExtractMetadata(path)
	fi := fis[0]
	i := Image{}
	var err error

	if fi.Err != nil {
		return i, fmt.Errorf("extract fail for %q: %w", path, fi.Err)
	}

	for k, v := range fi.Fields {
		klog.V(2).Infof("%q=%v\n", k, v)
	}

	i.Keywords, err = fi.GetStrings("Keywords")
	if err != nil {
		klog.V(1).Infof("unable to get keywords for %s: %v", path, err)
	}

	i.Width, err = fi.GetInt("ImageWidth")
	if err != nil {
		klog.V(1).Infof("unable to get width for %s: %v", path, err)
	}

	i.Height, err = fi.GetInt("ImageHeight")
	if err != nil {
		klog.V(1).Infof("unable to get height for %s: %v", path, err)
	}

	return i, nil
}

// Find returns the taggable images under root, which may be a single image
// file or a directory walked recursively. Files whose metadata cannot be
// extracted are still returned with the error recorded on the Image, so the
// failure is reported per-file rather than aborting the walk.
func Find(root string, et *exiftool.Exiftool) ([]*Image, error) {
	st, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}

	if !st.IsDir() {
		if !IsImage(root) {
			return nil, fmt.Errorf("%s is not a supported image", root)
		}
		i, err := read(root, et)
		if err != nil {
			klog.Warningf("read failure: %v", err)
			i.Err = err
		}
		i.InPath = root
		i.RelPath = filepath.Base(root)
		i.ModTime = st.ModTime()
		return []*Image{&i}, nil
	}

	found := []*Image{}

	err = godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if path != root && strings.HasPrefix(filepath.Base(path), ".") {
				if de.IsDir() {
					return filepath.SkipDir
				}
				return godirwalk.SkipThis
			}

			if de.IsDir() || !IsImage(path) {
				return nil
			}

			klog.V(1).Infof("found %s", path)
			i, err := read(path, et)
			if err != nil {
				klog.Warningf("read failure: %v", err)
				i.Err = err
			}

			i.InPath = path
			i.RelPath, err = filepath.Rel(root, path)
			if err != nil {
				return err
			}

			fi, err := os.Stat(path)
			if err != nil {
				klog.Errorf("stat failure: %v", err)
				return err
			}
			i.ModTime = fi.ModTime()

			found = append(found, &i)
			return nil
		},
	})

	return found, err
}
