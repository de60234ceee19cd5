// Package blob stores uploaded food photos on local disk.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
)

const (
	// PreviewMaxSize bounds the longer edge of a generated preview.
	PreviewMaxSize = 512
	// WebPQuality is the lossy quality used for previews.
	WebPQuality = 70
	// DefaultURLPrefix is where uploaded files are served from.
	DefaultURLPrefix = "/uploads"
)

// StoredImage describes an original upload and its preview.
type StoredImage struct {
	ID         string
	Filename   string
	Preview    string
	URL        string
	PreviewURL string
}

// LocalStore writes files below a single directory.
type LocalStore struct {
	dir       string
	urlPrefix string
	now       func() time.Time
}

// NewLocalStore creates the directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return nil, errors.New("blob: upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("blob: create %s: %w", dir, err)
	}
	return &LocalStore{dir: dir, urlPrefix: DefaultURLPrefix, now: time.Now}, nil
}

// Dir is the root directory of the store.
func (s *LocalStore) Dir() string {
	return s.dir
}

// URL is the public path of name.
func (s *LocalStore) URL(name string) string {
	return s.urlPrefix + "/" + name
}

// Open reads a stored file. name must be a bare file name.
func (s *LocalStore) Open(name string) ([]byte, error) {
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, fmt.Errorf("blob: invalid name %q", name)
	}
	return os.ReadFile(filepath.Join(s.dir, name))
}

// SaveImage writes original as <prefix>-<unix>-<uuid><ext> and a WebP preview of
// decoded beside it. Nothing is left on disk when either write fails.
func (s *LocalStore) SaveImage(ctx context.Context, prefix, ext string, original []byte, decoded image.Image) (*StoredImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := fmt.Sprintf("%s-%d-%s", prefix, s.now().Unix(), uuid.NewString())
	filename := id + strings.ToLower(ext)
	preview := id + ".preview.webp"

	encoded, err := encodeWebP(resizeToFit(decoded, PreviewMaxSize, PreviewMaxSize), WebPQuality)
	if err != nil {
		return nil, fmt.Errorf("blob: encode preview: %w", err)
	}

	originalPath := filepath.Join(s.dir, filename)
	if err := os.WriteFile(originalPath, original, 0o600); err != nil {
		return nil, fmt.Errorf("blob: write %s: %w", filename, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, preview), encoded, 0o600); err != nil {
		_ = os.Remove(originalPath)
		return nil, fmt.Errorf("blob: write %s: %w", preview, err)
	}

	return &StoredImage{
		ID:         id,
		Filename:   filename,
		Preview:    preview,
		URL:        s.URL(filename),
		PreviewURL: s.URL(preview),
	}, nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || (w <= maxWidth && h <= maxHeight) {
		return src
	}

	scale := min(float64(maxWidth)/float64(w), float64(maxHeight)/float64(h))
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
