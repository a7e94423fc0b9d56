package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	"image/png"
	"log/slog"
	"math"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"travelog/internal/featureflags"
	"travelog/internal/middleware"
	"travelog/internal/models"
	"travelog/internal/observability"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	// MaxImageSide is the longest side kept when image_resize is on.
	MaxImageSide = 2048
	JPEGQuality  = 82
	WebPQuality  = 70

	// UploadURLPrefix is where UploadService files are served from.
	UploadURLPrefix = "/uploads"
)

type UploadImageInput struct {
	Filename string
	Content  []byte
}

// UploadService validates and stores post images on local disk.
type UploadService struct {
	uploadDir          string
	maxUploadSizeBytes int64
	flags              *featureflags.Manager
	now                func() time.Time
}

func NewUploadService(uploadDir string, maxSizeMB int, flags *featureflags.Manager) *UploadService {
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &UploadService{
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxSizeMB) * 1024 * 1024,
		flags:              flags,
		now:                time.Now,
	}
}

func (s *UploadService) Dir() string {
	return s.uploadDir
}

func (s *UploadService) MaxBytes() int64 {
	return s.maxUploadSizeBytes
}

// Save stores an uploaded image and returns its public URL.
func (s *UploadService) Save(ctx context.Context, in UploadImageInput) (string, error) {
	url, err := s.save(in)
	outcome := "stored"
	if err != nil {
		outcome = "rejected"
		if !models.HasCode(err, models.CodeValidation) {
			outcome = "failed"
			middleware.Logger.ErrorContext(ctx, "image upload failed", slog.String("error", err.Error()))
		}
	}
	observability.Uploads.WithLabelValues(outcome).Inc()
	return url, err
}

func (s *UploadService) save(in UploadImageInput) (string, error) {
	if len(in.Content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return "", models.NewValidationError("Invalid image type")
	}

	data := in.Content
	ext := extensionFor(detectedType, in.Filename)
	if s.flags.On(featureflags.ImageResize) {
		decoded, format, err := image.Decode(bytes.NewReader(in.Content))
		if err != nil {
			return "", models.NewValidationError("Invalid image file")
		}
		b := decoded.Bounds()
		if b.Dx() > MaxImageSide || b.Dy() > MaxImageSide {
			resized := resizeToFit(decoded, MaxImageSide, MaxImageSide)
			data, ext, err = encodeAs(resized, format)
			if err != nil {
				return "", models.NewInternalError(err)
			}
		}
	}

	name, err := s.fileName(ext)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	if err := writeBytesToFile(filepath.Join(s.uploadDir, name), data); err != nil {
		return "", models.NewInternalError(err)
	}
	return path.Join(UploadURLPrefix, name), nil
}

// Remove deletes a previously stored file given its public URL. Unknown URLs are ignored.
func (s *UploadService) Remove(url string) {
	name, ok := strings.CutPrefix(url, UploadURLPrefix+"/")
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return
	}
	_ = os.Remove(filepath.Join(s.uploadDir, name))
}

// fileName is <unix-millis>-<8 hex chars><ext>.
func (s *UploadService) fileName(ext string) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), hex.EncodeToString(buf), ext), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func extensionFor(contentType, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch contentType {
	case "image/jpeg":
		if ext == ".jpeg" {
			return ext
		}
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ext
}

// encodeAs re-encodes in the source's format family. GIF becomes PNG.
func encodeAs(img image.Image, format string) ([]byte, string, error) {
	var (
		data []byte
		err  error
		ext  string
	)
	switch format {
	case "jpeg":
		data, err = encodeJPEG(img, JPEGQuality)
		ext = ".jpg"
	case "webp":
		data, err = encodeWebP(img, WebPQuality)
		ext = ".webp"
	default:
		data, err = encodePNG(img)
		ext = ".png"
	}
	return data, ext, err
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || (w <= maxWidth && h <= maxHeight) {
		return src
	}

	scale := min(float64(maxWidth)/float64(w), float64(maxHeight)/float64(h))
	newW := max(int(math.Round(float64(w)*scale)), 1)
	newH := max(int(math.Round(float64(h)*scale)), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodePNG(img image.Image) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := png.Encode(buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
