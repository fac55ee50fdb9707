package tagger

import (
	"bytes"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeConfig(t *testing.T, data []byte) image.Config {
	t.Helper()
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg
}

func TestEncodeFit_Wide(t *testing.T) {
	data, err := encodeFit(image.NewRGBA(image.Rect(0, 0, 1024, 768)))
	require.NoError(t, err)

	cfg := decodeConfig(t, data)
	assert.Equal(t, 256, cfg.Width)
	assert.Equal(t, 192, cfg.Height)
}

func TestEncodeFit_Tall(t *testing.T) {
	data, err := encodeFit(image.NewRGBA(image.Rect(0, 0, 300, 600)))
	require.NoError(t, err)

	cfg := decodeConfig(t, data)
	assert.Equal(t, 128, cfg.Width)
	assert.Equal(t, 256, cfg.Height)
}

func TestEncodeFit_SmallUntouched(t *testing.T) {
	data, err := encodeFit(image.NewRGBA(image.Rect(0, 0, 100, 50)))
	require.NoError(t, err)

	cfg := decodeConfig(t, data)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestOptimize_RoundTrip(t *testing.T) {
	path := writeTestJPEG(t, t.TempDir(), "small.jpg")
	data, err := optimize(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	cfg := decodeConfig(t, data)
	assert.LessOrEqual(t, cfg.Width, maxEdge)
	assert.LessOrEqual(t, cfg.Height, maxEdge)
}

func TestOptimize_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.jpg")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0o644))

	_, err := optimize(path)
	assert.Error(t, err)
}

func TestOptimize_Missing(t *testing.T) {
	_, err := optimize(filepath.Join(t.TempDir(), "nope.jpg"))
	assert.Error(t, err)
}
