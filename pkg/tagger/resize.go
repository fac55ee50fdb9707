package tagger

import (
	"bytes"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"k8s.io/klog/v2"
)

// Inference payload bounds. The models downscale internally anyway, so
// anything larger is wasted upload.
var (
	maxEdge     = 256
	jpegQuality = 85
)

// optimize decodes the image at path and re-encodes it as a JPEG that fits
// within maxEdge on both sides, preserving aspect ratio.
func optimize(path string) ([]byte, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imgio.Open: %w", err)
	}
	return encodeFit(img)
}

func encodeFit(img image.Image) ([]byte, error) {
	dx := img.Bounds().Dx()
	dy := img.Bounds().Dy()

	if dx == 0 || dy == 0 {
		return nil, fmt.Errorf("empty bounds: %+v", img.Bounds())
	}

	x, y := dx, dy
	if dx > maxEdge || dy > maxEdge {
		scale := float64(dx) / float64(maxEdge)
		if dy > dx {
			scale = float64(dy) / float64(maxEdge)
		}
		x = int(float64(dx) / scale)
		y = int(float64(dy) / scale)
		if x == 0 {
			x = 1
		}
		if y == 0 {
			y = 1
		}
	}

	rimg := transform.Resize(img, x, y, transform.Lanczos)

	var buf bytes.Buffer
	if err := imgio.JPEGEncoder(jpegQuality)(&buf, rimg); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	klog.V(1).Infof("optimized %dx%d -> %dx%d (%d bytes)", dx, dy, x, y, buf.Len())
	return buf.Bytes(), nil
}
