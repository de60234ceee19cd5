package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"nutritrack/internal/blob"
	"nutritrack/internal/models"
	"nutritrack/internal/nutriscan"
	"nutritrack/internal/observability"
	"nutritrack/internal/repository"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	// ScanAlgorithm labels every analysis response.
	ScanAlgorithm = "NutriScan AI v1.0"

	// DefaultScanMaxUploadBytes bounds a photo upload.
	DefaultScanMaxUploadBytes = 10 * 1024 * 1024

	scanFilePrefix = "food-scan"
)

var allowedScanExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ImageStore persists an uploaded photo and its preview.
type ImageStore interface {
	SaveImage(ctx context.Context, prefix, ext string, original []byte, decoded image.Image) (*blob.StoredImage, error)
}

type AnalyzeInput struct {
	UserID      uint
	Goal        string
	Filename    string
	ContentType string
	Content     []byte
}

type ScanAnalysis struct {
	Confidence     int       `json:"confidence"`
	ProcessingTime float64   `json:"processing_time"`
	ImageID        string    `json:"image_id"`
	ImageURL       string    `json:"image_url"`
	PreviewURL     string    `json:"preview_url"`
	Timestamp      time.Time `json:"timestamp"`
	Algorithm      string    `json:"algorithm"`
}

type ScanResult struct {
	Food            nutriscan.ScannedFood   `json:"food"`
	Analysis        ScanAnalysis            `json:"analysis"`
	Alternatives    []nutriscan.Alternative `json:"alternatives"`
	Recommendations []string                `json:"recommendations"`
	Goal            models.Goal             `json:"goal"`
}

// ScanOptions tune a ScanService. Zero values select production defaults.
type ScanOptions struct {
	MaxUploadBytes int64
	Matcher        nutriscan.FoodMatcher
	Clock          Clock
	Rand           nutriscan.Rand
}

// ScanService analyses uploaded food photos.
type ScanService struct {
	store    repository.Store
	images   ImageStore
	catalog  *nutriscan.Catalog
	matcher  nutriscan.FoodMatcher
	maxBytes int64
	clock    Clock
	rnd      nutriscan.Rand
}

func NewScanService(store repository.Store, images ImageStore, catalog *nutriscan.Catalog, opts ScanOptions) *ScanService {
	s := &ScanService{
		store:    store,
		images:   images,
		catalog:  catalog,
		matcher:  opts.Matcher,
		maxBytes: opts.MaxUploadBytes,
		clock:    orSystemClock(opts.Clock),
		rnd:      opts.Rand,
	}
	if s.rnd == nil {
		s.rnd = nutriscan.SystemRand
	}
	if s.matcher == nil {
		s.matcher = nutriscan.NewKeywordMatcher(catalog, s.rnd)
	}
	if s.maxBytes <= 0 {
		s.maxBytes = DefaultScanMaxUploadBytes
	}
	return s
}

// Analyze validates and stores the photo, then matches it against the catalog.
func (s *ScanService) Analyze(ctx context.Context, in AnalyzeInput) (*ScanResult, error) {
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No image file uploaded. Please select an image.")
	}
	if in.UserID == 0 {
		return nil, models.NewValidationError("User ID is required")
	}
	if int64(len(in.Content)) > s.maxBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxBytes/(1024*1024)))
	}

	ext := strings.ToLower(filepath.Ext(in.Filename))
	if !allowedScanExtensions[ext] {
		return nil, models.NewValidationError("Only image files are allowed (jpeg, jpg, png, gif, webp)")
	}
	detected := http.DetectContentType(in.Content)
	if !isAllowedScanMIME(detected) || !isAllowedScanMIME(in.ContentType) {
		return nil, models.NewValidationError("Only image files are allowed (jpeg, jpg, png, gif, webp)")
	}
	decoded, _, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	goal := s.resolveGoal(ctx, in.UserID, in.Goal)
	now := s.clock().UTC()

	stored, err := s.images.SaveImage(ctx, scanFilePrefix, ext, in.Content, decoded)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	match := s.matcher.Match(nutriscan.MatchInput{Filename: in.Filename, Goal: goal, At: now})
	matchKind := "window"
	if match.KeywordHit {
		matchKind = "keyword"
	}
	observability.Scans.WithLabelValues(matchKind).Inc()

	return &ScanResult{
		Food: match.Food,
		Analysis: ScanAnalysis{
			Confidence:     match.Confidence,
			ProcessingTime: math.Round((1.5+s.rnd.Float64()*0.5)*100) / 100,
			ImageID:        stored.Filename,
			ImageURL:       stored.URL,
			PreviewURL:     stored.PreviewURL,
			Timestamp:      now,
			Algorithm:      ScanAlgorithm,
		},
		Alternatives:    nutriscan.Alternatives(match.Food.Food, s.catalog.ForGoal(goal)),
		Recommendations: nutriscan.Recommendations(match.Food.Food, goal),
		Goal:            goal,
	}, nil
}

// resolveGoal prefers the submitted goal, then the stored one, then maintenance.
func (s *ScanService) resolveGoal(ctx context.Context, userID uint, submitted string) models.Goal {
	if strings.TrimSpace(submitted) != "" {
		return models.GoalOrDefault(submitted)
	}
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return models.GoalMaintenance
	}
	return models.GoalOrDefault(string(user.Goal))
}

// isAllowedScanMIME accepts the image types above. An empty declared type is
// allowed because the sniffed type is checked as well.
func isAllowedScanMIME(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}
