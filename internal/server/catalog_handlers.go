package server

import (
	"nutritrack/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFoods handles GET /api/foods
// @Summary List foods
// @Tags catalog
// @Produce json
// @Success 200 {object} object{success=bool,data=[]models.FoodCatalogItem,count=int}
// @Router /foods [get]
func (s *Server) GetFoods(c *fiber.Ctx) error {
	foods, err := s.catalog.ListFoods(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, foods)
}

// SearchFoods handles GET /api/foods/search?query=
// @Summary Search foods
// @Tags catalog
// @Produce json
// @Param query query string true "Name or keyword fragment"
// @Success 200 {object} object{success=bool,data=[]models.FoodCatalogItem,count=int}
// @Failure 400 {object} models.ErrorResponse
// @Router /foods/search [get]
func (s *Server) SearchFoods(c *fiber.Ctx) error {
	foods, err := s.catalog.SearchFoods(c.UserContext(), c.Query("query"))
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, foods)
}

// GetFood handles GET /api/foods/:id
// @Summary Get a food
// @Tags catalog
// @Produce json
// @Param id path int true "Food ID"
// @Success 200 {object} object{success=bool,data=models.FoodCatalogItem}
// @Failure 404 {object} models.ErrorResponse
// @Router /foods/{id} [get]
func (s *Server) GetFood(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	food, err := s.catalog.GetFood(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, food, "")
}

// GetExercises handles GET /api/exercises
// @Summary List exercises
// @Tags catalog
// @Produce json
// @Success 200 {object} object{success=bool,data=[]models.ExerciseCatalogItem,count=int}
// @Router /exercises [get]
func (s *Server) GetExercises(c *fiber.Ctx) error {
	exercises, err := s.catalog.ListExercises(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, exercises)
}

// GetExercisesByType handles GET /api/exercises/type/:type
// @Summary List exercises of a type
// @Tags catalog
// @Produce json
// @Param type path string true "Exercise type"
// @Success 200 {object} object{success=bool,data=[]models.ExerciseCatalogItem,count=int}
// @Router /exercises/type/{type} [get]
func (s *Server) GetExercisesByType(c *fiber.Ctx) error {
	exercises, err := s.catalog.ListExercisesByType(c.UserContext(), c.Params("type"))
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, exercises)
}

// GetMETValue handles GET /api/exercises/met/:type
// @Summary MET value of an exercise type
// @Tags catalog
// @Produce json
// @Param type path string true "Exercise type"
// @Success 200 {object} object{success=bool,data=object{type=string,met_value=number}}
// @Failure 404 {object} models.ErrorResponse
// @Router /exercises/met/{type} [get]
func (s *Server) GetMETValue(c *fiber.Ctx) error {
	exerciseType := c.Params("type")
	met, err := s.catalog.METValue(c.UserContext(), exerciseType)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, fiber.Map{"type": exerciseType, "met_value": met}, "")
}

// GetUserProfile handles GET /user/:user_id
// @Summary User goal and calorie target
// @Tags users
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} object{success=bool,data=service.UserProfile}
// @Failure 404 {object} models.ErrorResponse
// @Router /user/{user_id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := parseID(c, "user_id")
	if err != nil {
		return nil
	}
	profile, err := s.catalog.UserProfile(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, profile, "")
}

// GetFoodSuggestions handles GET /food-suggestions/:goal
// @Summary Foods suggested for a goal
// @Description Unknown goals fall back to maintenance.
// @Tags catalog
// @Produce json
// @Param goal path string true "weight_loss, muscle_gain or maintenance"
// @Success 200 {object} object{success=bool,data=[]nutriscan.Food,count=int,goal=string}
// @Router /food-suggestions/{goal} [get]
func (s *Server) GetFoodSuggestions(c *fiber.Ctx) error {
	goal := c.Params("goal")
	foods := s.catalog.Suggestions(goal)
	return c.JSON(fiber.Map{
		"success": true,
		"data":    foods,
		"count":   len(foods),
		"goal":    models.GoalOrDefault(goal),
	})
}
