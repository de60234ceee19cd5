package server

import (
	"nutritrack/internal/middleware"
	"nutritrack/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags handles GET /api/features
// @Summary Feature flags
// @Description Configured flag values and their evaluation for the current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{success=bool,data=object{values=map[string]string,enabled=map[string]bool}}
// @Failure 401 {object} models.ErrorResponse
// @Router /features [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.LocalUserID).(uint)
	return respondData(c, fiber.StatusOK, fiber.Map{
		"values":  s.flags.Values(),
		"enabled": s.flags.ForUser(userID),
	}, "")
}

// featureDisabled answers requests for a feature that is off for the caller.
func featureDisabled(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusNotFound,
		models.NewNotFoundMessage("This feature is not available"))
}
