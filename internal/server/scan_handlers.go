package server

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"nutritrack/internal/featureflags"
	"nutritrack/internal/models"
	"nutritrack/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AnalyzeFood handles POST /api/nutriscan/analyze
// @Summary Analyze a food photo
// @Description Stores the photo and returns the matched food scaled to an estimated portion
// @Tags nutriscan
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Food photo (jpeg, png, gif, webp)"
// @Param user_id formData int true "User ID"
// @Param user_goal formData string false "Goal override"
// @Success 200 {object} object{success=bool,data=service.ScanResult}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /nutriscan/analyze [post]
func (s *Server) AnalyzeFood(c *fiber.Ctx) error {
	in := service.AnalyzeInput{Goal: c.FormValue("user_goal")}
	if raw := strings.TrimSpace(c.FormValue("user_id")); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			in.UserID = uint(id)
		}
	}
	if in.UserID != 0 && !s.flags.Enabled(featureflags.NutriScan, in.UserID) {
		return featureDisabled(c)
	}

	if header, err := c.FormFile("image"); err == nil {
		file, err := header.Open()
		if err != nil {
			return respondError(c, models.NewInternalError(fmt.Errorf("open upload: %w", err)))
		}
		defer func() { _ = file.Close() }()

		// One byte past the limit is enough for the service to reject it.
		content, err := io.ReadAll(io.LimitReader(file, s.config.UploadMaxBytes()+1))
		if err != nil {
			return respondError(c, models.NewInternalError(fmt.Errorf("read upload: %w", err)))
		}
		in.Filename = header.Filename
		in.ContentType = header.Header.Get(fiber.HeaderContentType)
		in.Content = content
	}

	res, err := s.scans.Analyze(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, res, "")
}
