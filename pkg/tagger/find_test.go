package tagger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/barasher/go-exiftool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("photo.jpg"))
	assert.True(t, IsImage("photo.JPEG"))
	assert.True(t, IsImage("/some/dir/photo.png"))
	assert.False(t, IsImage("notes.txt"))
	assert.False(t, IsImage("archive.jpg.zip"))
	assert.False(t, IsImage("photo"))
}

func TestFind_Directory(t *testing.T) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		t.Skipf("exiftool not available: %v", err)
	}
	defer et.Close()

	dir := t.TempDir()
	writeTestJPEG(t, dir, "a.jpg")
	writeTestJPEG(t, dir, "b.jpg")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	hidden := filepath.Join(dir, ".cache")
	require.NoError(t, os.Mkdir(hidden, 0o755))
	writeTestJPEG(t, hidden, "thumb.jpg")

	is, err := Find(dir, et)
	require.NoError(t, err)
	require.Len(t, is, 2)
	for _, i := range is {
		assert.NotEmpty(t, i.InPath)
		assert.NotEmpty(t, i.RelPath)
		assert.False(t, i.ModTime.IsZero())
	}
}

func TestFind_SingleFile(t *testing.T) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		t.Skipf("exiftool not available: %v", err)
	}
	defer et.Close()

	path := writeTestJPEG(t, t.TempDir(), "a.jpg")
	is, err := Find(path, et)
	require.NoError(t, err)
	require.Len(t, is, 1)
	assert.Equal(t, path, is[0].InPath)
}

func TestFind_SingleFileBadMetadata(t *testing.T) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		t.Skipf("exiftool not available: %v", err)
	}
	defer et.Close()

	path := filepath.Join(t.TempDir(), "junk.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not actually a jpeg"), 0o644))

	is, err := Find(path, et)
	require.NoError(t, err)
	require.Len(t, is, 1)
	assert.Error(t, is[0].Err, "unreadable metadata must be recorded on the image")
}

func TestFind_NotAnImage(t *testing.T) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		t.Skipf("exiftool not available: %v", err)
	}
	defer et.Close()

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err = Find(path, et)
	assert.Error(t, err)
}

func TestFind_MissingRoot(t *testing.T) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		t.Skipf("exiftool not available: %v", err)
	}
	defer et.Close()

	_, err = Find(filepath.Join(t.TempDir(), "nope"), et)
	assert.Error(t, err)
}
