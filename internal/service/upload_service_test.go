package service

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gastronauta/internal/config"
	"gastronauta/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadServiceForTest(t *testing.T) (*UploadService, string) {
	t.Helper()
	dir := t.TempDir()
	return NewUploadService(&config.Config{UploadDir: dir, MaxUploadSizeMB: 5}), dir
}

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestUploadService_Save(t *testing.T) {
	svc, dir := uploadServiceForTest(t)

	result, err := svc.Save(encodeTestPNG(t, 800, 600))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, strings.HasPrefix(result.Path, "/uploads/"))
	assert.True(t, strings.HasSuffix(result.Path, ".png"))
	assert.True(t, strings.HasSuffix(result.ThumbnailPath, "_thumb.jpg"))

	origName := strings.TrimPrefix(result.Path, "/uploads/")
	thumbName := strings.TrimPrefix(result.ThumbnailPath, "/uploads/")

	_, err = os.Stat(filepath.Join(dir, origName))
	assert.NoError(t, err)

	thumbBytes, err := os.ReadFile(filepath.Join(dir, thumbName))
	require.NoError(t, err)
	thumb, err := jpeg.Decode(bytes.NewReader(thumbBytes))
	require.NoError(t, err)
	assert.LessOrEqual(t, thumb.Bounds().Dx(), 256)
	assert.LessOrEqual(t, thumb.Bounds().Dy(), 256)
}

func TestUploadService_Save_SmallImageKeepsSize(t *testing.T) {
	svc, _ := uploadServiceForTest(t)

	result, err := svc.Save(encodeTestPNG(t, 100, 80))
	require.NoError(t, err)
	assert.NotEmpty(t, result.ThumbnailPath)
}

func TestUploadService_Save_Rejections(t *testing.T) {
	svc, dir := uploadServiceForTest(t)

	t.Run("Not an image", func(t *testing.T) {
		_, err := svc.Save([]byte("definitely not an image, just text content here"))
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeValidation, appErr.Code)
	})

	t.Run("Empty file", func(t *testing.T) {
		_, err := svc.Save(nil)
		require.Error(t, err)
	})

	t.Run("Over the size limit", func(t *testing.T) {
		small := NewUploadService(&config.Config{UploadDir: dir, MaxUploadSizeMB: 1})
		big := make([]byte, 2*1024*1024)
		_, err := small.Save(big)
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeValidation, appErr.Code)
	})

	t.Run("Corrupt image leaves no files behind", func(t *testing.T) {
		// A PNG header followed by garbage sniffs as image/png but fails decode.
		corrupt := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0x01}, 64)...)
		_, err := svc.Save(corrupt)
		require.Error(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestUploadService_Remove(t *testing.T) {
	t.Run("Removes the original and its thumbnail", func(t *testing.T) {
		svc, dir := uploadServiceForTest(t)

		result, err := svc.Save(encodeTestPNG(t, 800, 600))
		require.NoError(t, err)

		require.NoError(t, svc.Remove(result.Path))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("Ignores external URLs", func(t *testing.T) {
		svc, _ := uploadServiceForTest(t)
		assert.NoError(t, svc.Remove("https://picsum.photos/seed/1/800/600"))
	})

	t.Run("Missing files are not an error", func(t *testing.T) {
		svc, _ := uploadServiceForTest(t)
		assert.NoError(t, svc.Remove("/uploads/gone.jpg"))
	})

	t.Run("Traversal in the path only touches the upload dir", func(t *testing.T) {
		svc, dir := uploadServiceForTest(t)

		outside := filepath.Join(filepath.Dir(dir), "keep.jpg")
		require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

		require.NoError(t, svc.Remove("/uploads/../keep.jpg"))

		_, err := os.Stat(outside)
		assert.NoError(t, err)
	})
}
