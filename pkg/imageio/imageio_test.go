package imageio

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x*16 + y)})
		}
	}
	return img
}

func entries(t *testing.T, dir string) []string {
	t.Helper()
	des, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, de := range des {
		names = append(names, de.Name())
	}
	return names
}

func TestSaveLoadKeepsModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sheet.png")
	src := gradient(8, 4)

	require.NoError(t, Save(src, path))
	assert.Equal(t, []string{"sheet.png"}, entries(t, dir))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	got, err := Load(path)
	require.NoError(t, err)
	gray, ok := got.(*image.Gray)
	require.True(t, ok, "got %T", got)
	assert.Equal(t, src.Pix, gray.Pix)
}

func TestSaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sheet.png")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	require.NoError(t, Save(gradient(2, 2), path))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), got.Bounds())
}

func TestSaveJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.jpg")
	require.NoError(t, Save(gradient(16, 16), path, imaging.JPEGQuality(80)))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), got.Bounds())
}

func TestSaveUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	err := Save(gradient(2, 2), filepath.Join(dir, "sheet.xyz"))
	require.Error(t, err)
	assert.ErrorIs(t, err, imaging.ErrUnsupportedFormat)
	assert.Empty(t, entries(t, dir))
}

func TestSaveMissingDirectory(t *testing.T) {
	err := Save(gradient(2, 2), filepath.Join(t.TempDir(), "missing", "sheet.png"))
	assert.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "nope.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	junk := filepath.Join(dir, "junk.png")
	require.NoError(t, os.WriteFile(junk, []byte("not an image"), 0o644))
	_, err = Load(junk)
	assert.ErrorIs(t, err, image.ErrFormat)
}

func TestLoadWebP(t *testing.T) {
	img, err := Load(filepath.Join("testdata", "sheet.webp"))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			assert.Equal(t, [4]uint32{0x2020, 0x4040, 0x6060, 0xffff}, [4]uint32{r, g, b, a}, "(%d,%d)", x, y)
		}
	}
}
