package assets

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/dichokey/dichokey/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
}

func TestCopy_Verbatim(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "out", "dst.bin")
	require.NoError(t, os.WriteFile(src, []byte("not an image"), 0o644))

	require.NoError(t, Copy(src, dst, false))

	raw, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "not an image", string(raw))
}

func TestCopy_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := Copy(filepath.Join(dir, "absent.png"), filepath.Join(dir, "dst.png"), false)
	assert.ErrorIs(t, err, domain.ErrMissingAsset)
}

func TestCopy_ShrinkSmallImageKeepsSize(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "small.png")
	dst := filepath.Join(dir, "small.jpg")
	writePNG(t, src, 10, 10)

	require.NoError(t, Copy(src, dst, true))

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Width)
	assert.Equal(t, 10, cfg.Height)
}

func TestCopy_ShrinkLargeImage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "large.png")
	dst := filepath.Join(dir, "large.jpg")
	writePNG(t, src, 2048, 1024)

	require.NoError(t, Copy(src, dst, true))

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width*cfg.Height, maxArea)
	// Aspect ratio survives the downscale.
	assert.InDelta(t, 2.0, float64(cfg.Width)/float64(cfg.Height), 0.05)
}

func TestCopy_ShrinkFallsBackOnUndecodable(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "vector.svg")
	dst := filepath.Join(dir, "out", "vector.svg")
	require.NoError(t, os.WriteFile(src, []byte("<svg></svg>"), 0o644))

	require.NoError(t, Copy(src, dst, true))

	raw, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "<svg></svg>", string(raw))
}
