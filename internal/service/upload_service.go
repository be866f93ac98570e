package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gastronauta/internal/config"
	"gastronauta/internal/middleware"
	"gastronauta/internal/models"
	"gastronauta/internal/observability"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	thumbnailMaxPx  = 256
	jpegQuality     = 85
	thumbnailSuffix = "_thumb"
)

// UploadService stores recipe and avatar images on disk, producing a JPEG
// thumbnail next to each original.
type UploadService struct {
	uploadDir    string
	maxSizeBytes int64
}

// UploadResult points at the stored files, as web paths relative to /uploads.
type UploadResult struct {
	Path          string `json:"path"`
	ThumbnailPath string `json:"thumbnail_path"`
}

// NewUploadService returns a new UploadService.
func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{
		uploadDir:    cfg.UploadDir,
		maxSizeBytes: int64(cfg.MaxUploadSizeMB) * 1024 * 1024,
	}
}

func isAllowedImageMIME(contentType string) bool {
	switch strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0])) {
	case "image/jpeg", "image/jpg", "image/png", "image/webp":
		return true
	}
	return false
}

func extensionForFormat(format string) string {
	switch format {
	case "png":
		return ".png"
	case "webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

// Save validates and stores an uploaded image. The content type is sniffed
// from the bytes, never trusted from the request. On any failure every file
// written so far is removed.
func (s *UploadService) Save(content []byte) (*UploadResult, error) {
	if int64(len(content)) > s.maxSizeBytes {
		observability.UploadsTotal.WithLabelValues("too_large").Inc()
		return nil, models.NewValidationError(fmt.Sprintf("Image exceeds the %d MB limit", s.maxSizeBytes/(1024*1024)))
	}
	if len(content) == 0 {
		observability.UploadsTotal.WithLabelValues("empty").Inc()
		return nil, models.NewValidationError("Image file is empty")
	}

	detected := http.DetectContentType(content)
	if !isAllowedImageMIME(detected) {
		observability.UploadsTotal.WithLabelValues("bad_type").Inc()
		return nil, models.NewValidationError("Only JPEG, PNG and WebP images are accepted")
	}

	decoded, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		observability.UploadsTotal.WithLabelValues("undecodable").Inc()
		return nil, models.NewValidationError("Image file is corrupt or not an image")
	}

	name := uuid.New().String()
	origRel := name + extensionForFormat(format)
	thumbRel := name + thumbnailSuffix + ".jpg"

	written := []string{}
	cleanup := func() {
		for _, p := range written {
			if rmErr := os.Remove(p); rmErr != nil && !os.IsNotExist(rmErr) {
				middleware.Logger.Warn("failed to remove partial upload", "path", p, "error", rmErr)
			}
		}
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		observability.UploadsTotal.WithLabelValues("error").Inc()
		return nil, models.NewInternalError(err)
	}

	origAbs := filepath.Join(s.uploadDir, origRel)
	if err := os.WriteFile(origAbs, content, 0o644); err != nil {
		observability.UploadsTotal.WithLabelValues("error").Inc()
		return nil, models.NewInternalError(err)
	}
	written = append(written, origAbs)

	thumb := resizeToFit(decoded, thumbnailMaxPx, thumbnailMaxPx)
	thumbBytes, err := encodeJPEG(thumb, jpegQuality)
	if err != nil {
		cleanup()
		observability.UploadsTotal.WithLabelValues("error").Inc()
		return nil, models.NewInternalError(err)
	}

	thumbAbs := filepath.Join(s.uploadDir, thumbRel)
	if err := os.WriteFile(thumbAbs, thumbBytes, 0o644); err != nil {
		cleanup()
		observability.UploadsTotal.WithLabelValues("error").Inc()
		return nil, models.NewInternalError(err)
	}

	observability.UploadsTotal.WithLabelValues("ok").Inc()
	return &UploadResult{
		Path:          "/uploads/" + origRel,
		ThumbnailPath: "/uploads/" + thumbRel,
	}, nil
}

// Remove deletes a stored image and its thumbnail, given the web path Save
// returned. Paths outside /uploads (external URLs in seeded data) and files
// already gone are not errors.
func (s *UploadService) Remove(publicPath string) error {
	rel, ok := strings.CutPrefix(publicPath, "/uploads/")
	if !ok {
		return nil
	}
	// Stored names are flat uuids; Base guards against traversal.
	rel = filepath.Base(rel)

	if err := os.Remove(filepath.Join(s.uploadDir, rel)); err != nil && !os.IsNotExist(err) {
		return err
	}

	ext := filepath.Ext(rel)
	base := strings.TrimSuffix(rel, ext)
	if !strings.HasSuffix(base, thumbnailSuffix) {
		thumb := filepath.Join(s.uploadDir, base+thumbnailSuffix+".jpg")
		if err := os.Remove(thumb); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// resizeToFit scales src down to fit within maxWidth x maxHeight, keeping
// aspect ratio. Images already small enough pass through untouched.
func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	dstW := int(float64(w) * scale)
	dstH := int(float64(h) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
