package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nutritrack/internal/blob"
	"nutritrack/internal/models"
	"nutritrack/internal/nutriscan"
	"nutritrack/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// midRand always draws the middle of each range.
type midRand struct{}

func (midRand) IntN(int) int     { return 0 }
func (midRand) Float64() float64 { return 0.5 }

func newScanService(t *testing.T, env *testEnv, opts ScanOptions) (*ScanService, *blob.LocalStore) {
	t.Helper()
	images, err := blob.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	if opts.Rand == nil {
		opts.Rand = midRand{}
	}
	if opts.Clock == nil {
		opts.Clock = fixedClock(fixedNow)
	}
	return NewScanService(env.store, images, nutriscan.MustDefaultCatalog(), opts), images
}

func TestAnalyze_KeywordMatch(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "scan@example.com")
	svc, images := newScanService(t, env, ScanOptions{})

	res, err := svc.Analyze(context.Background(), AnalyzeInput{
		UserID:      u.ID,
		Filename:    "baked_salmon.PNG",
		ContentType: "image/png",
		Content:     testutil.PNG(t, 32, 32),
	})
	require.NoError(t, err)

	assert.Equal(t, "Salmon", res.Food.Name)
	assert.InDelta(t, 206, res.Food.Calories, 0.001)
	assert.Equal(t, "Breakfast", res.Food.MealSuggestion)
	assert.Equal(t, 90, res.Analysis.Confidence)
	assert.InDelta(t, 1.75, res.Analysis.ProcessingTime, 0.0001)
	assert.Equal(t, ScanAlgorithm, res.Analysis.Algorithm)
	assert.Equal(t, fixedNow, res.Analysis.Timestamp)
	assert.Equal(t, models.GoalWeightLoss, res.Goal)
	assert.NotEmpty(t, res.Recommendations)

	assert.True(t, strings.HasPrefix(res.Analysis.ImageID, "food-scan-"))
	assert.True(t, strings.HasSuffix(res.Analysis.ImageID, ".png"))
	assert.Equal(t, "/uploads/"+res.Analysis.ImageID, res.Analysis.ImageURL)
	_, err = os.Stat(filepath.Join(images.Dir(), res.Analysis.ImageID))
	assert.NoError(t, err)
	assert.True(t, strings.HasSuffix(res.Analysis.PreviewURL, ".preview.webp"))
}

func TestAnalyze_GoalResolution(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "goal@example.com")
	svc, _ := newScanService(t, env, ScanOptions{})
	content := testutil.PNG(t, 8, 8)

	submitted, err := svc.Analyze(context.Background(), AnalyzeInput{UserID: u.ID, Goal: "muscle_gain", Filename: "plate.png", Content: content})
	require.NoError(t, err)
	assert.Equal(t, models.GoalMuscleGain, submitted.Goal)

	unknown, err := svc.Analyze(context.Background(), AnalyzeInput{UserID: 777, Filename: "plate.png", Content: content})
	require.NoError(t, err)
	assert.Equal(t, models.GoalMaintenance, unknown.Goal)
}

func TestAnalyze_ProcessingTimeBounds(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "bounds@example.com")
	svc, _ := newScanService(t, env, ScanOptions{Rand: nutriscan.SystemRand})
	content := testutil.PNG(t, 8, 8)

	for i := 0; i < 20; i++ {
		res, err := svc.Analyze(context.Background(), AnalyzeInput{UserID: u.ID, Filename: "meal.jpg", Content: content})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Analysis.ProcessingTime, 1.5)
		assert.LessOrEqual(t, res.Analysis.ProcessingTime, 2.0)
		assert.GreaterOrEqual(t, res.Analysis.Confidence, 85)
		assert.LessOrEqual(t, res.Analysis.Confidence, 99)
	}
}

func TestAnalyze_Validation(t *testing.T) {
	env := newTestEnv(t)
	svc, images := newScanService(t, env, ScanOptions{MaxUploadBytes: 1024})
	png := testutil.PNG(t, 4, 4)

	tests := []struct {
		name    string
		in      AnalyzeInput
		message string
	}{
		{"no file", AnalyzeInput{UserID: 1, Filename: "a.png"}, "No image file uploaded. Please select an image."},
		{"no user", AnalyzeInput{Filename: "a.png", Content: png}, "User ID is required"},
		{"too large", AnalyzeInput{UserID: 1, Filename: "a.png", Content: make([]byte, 2048)}, ""},
		{"bad extension", AnalyzeInput{UserID: 1, Filename: "a.txt", Content: png}, "Only image files are allowed (jpeg, jpg, png, gif, webp)"},
		{"text content", AnalyzeInput{UserID: 1, Filename: "a.png", Content: []byte("definitely not an image")}, "Only image files are allowed (jpeg, jpg, png, gif, webp)"},
		{"declared text", AnalyzeInput{UserID: 1, Filename: "a.png", ContentType: "text/plain", Content: png}, "Only image files are allowed (jpeg, jpg, png, gif, webp)"},
		{"truncated png", AnalyzeInput{UserID: 1, Filename: "a.png", Content: png[:20]}, "Invalid image file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Analyze(context.Background(), tt.in)
			requireCode(t, err, models.CodeValidation)
			if tt.message != "" {
				assert.Equal(t, tt.message, err.Error())
			}
		})
	}

	entries, err := os.ReadDir(images.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIsAllowedScanMIME(t *testing.T) {
	assert.True(t, isAllowedScanMIME(""))
	assert.True(t, isAllowedScanMIME("image/jpeg"))
	assert.True(t, isAllowedScanMIME("IMAGE/PNG"))
	assert.True(t, isAllowedScanMIME("image/webp; q=0.9"))
	assert.False(t, isAllowedScanMIME("application/pdf"))
	assert.False(t, isAllowedScanMIME("text/plain; charset=utf-8"))
}
