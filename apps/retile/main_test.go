package main

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhantomInTheWire/sprite-retile/pkg/retile"
)

func execute(args ...string) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func writeSheet(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = uint8(i), 0xff
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestFlags(t *testing.T) {
	cmd := newRootCmd()
	for name, short := range map[string]string{
		"spritesheet":      "s",
		"spritesheet-grid": "g",
		"output":           "o",
		"output-grid":      "p",
		"output-size":      "v",
	} {
		fl := cmd.Flags().Lookup(name)
		require.NotNil(t, fl, name)
		assert.Equal(t, short, fl.Shorthand, name)
	}
	assert.Equal(t, "gaussian", cmd.Flags().Lookup("filter").DefValue)
}

func TestRequiredFlags(t *testing.T) {
	err := execute("-s", "in.png", "-g", "2x2", "-o", "out.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output-grid")
}

func TestRetile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writeSheet(t, in, 32, 16)

	require.NoError(t, execute("-s", in, "-g", "2x1", "-o", out, "-p", "1x2", "-v", "8x16", "--filter", "lanczos", "--progress"))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Width)
	assert.Equal(t, 16, cfg.Height)
}

func TestRetileGridTooSmall(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.png")

	err := execute("-s", filepath.Join(dir, "in.png"), "-g", "3x3", "-o", out, "-p", "2x2")
	require.Error(t, err)
	assert.ErrorIs(t, err, retile.ErrGridTooSmall)
	assert.Contains(t, err.Error(), "Output grid is too small")
	assert.NoFileExists(t, out)
}

func TestRetileUnknownFilter(t *testing.T) {
	dir := t.TempDir()
	err := execute("-s", filepath.Join(dir, "in.png"), "-g", "1x1", "-o", filepath.Join(dir, "out.png"), "-p", "1x1", "--filter", "nearest")
	assert.ErrorContains(t, err, "unknown filter")
}

func TestRetileJPEGQualityRange(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writeSheet(t, in, 4, 4)

	for _, q := range []string{"0", "-5", "101"} {
		out := filepath.Join(dir, "out"+q+".jpg")
		err := execute("-s", in, "-g", "1x1", "-o", out, "-p", "1x1", "--jpeg-quality="+q)
		assert.ErrorContains(t, err, "--jpeg-quality", q)
		assert.NoFileExists(t, out)
	}

	out := filepath.Join(dir, "out.jpg")
	require.NoError(t, execute("-s", in, "-g", "1x1", "-o", out, "-p", "1x1", "--jpeg-quality", "1"))
	assert.FileExists(t, out)
}

func TestRetilePublishFailure(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writeSheet(t, in, 4, 4)

	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	// Nothing listens on port 1; the sheet is written before publishing fails.
	err := execute("-s", in, "-g", "1x1", "-o", out, "-p", "1x1",
		"--bucket", "sheets", "--endpoint", "http://127.0.0.1:1", "--access-key", "k", "--secret-key", "s")
	require.Error(t, err)

	var se *retile.StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, stagePublish, se.Stage)
	assert.FileExists(t, out)
}
