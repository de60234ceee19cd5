package server

import (
	"nutritrack/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateFoodLog handles POST /api/food/log
// @Summary Log food
// @Description Record a food entry and return the recomputed summary of its day
// @Tags logs
// @Accept json
// @Produce json
// @Param request body service.FoodLogInput true "Food log"
// @Success 201 {object} object{success=bool,data=service.LogResult,message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /food/log [post]
func (s *Server) CreateFoodLog(c *fiber.Ctx) error {
	var req service.FoodLogInput
	if err := bodyParser(c, &req); err != nil {
		return nil
	}
	res, err := s.logs.LogFood(c.UserContext(), req)
	return respondLogResult(c, fiber.StatusCreated, res, err)
}

// CreateExerciseLog handles POST /api/exercise/log
// @Summary Log exercise
// @Tags logs
// @Accept json
// @Produce json
// @Param request body service.ExerciseLogInput true "Exercise log"
// @Success 201 {object} object{success=bool,data=service.LogResult,message=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /exercise/log [post]
func (s *Server) CreateExerciseLog(c *fiber.Ctx) error {
	var req service.ExerciseLogInput
	if err := bodyParser(c, &req); err != nil {
		return nil
	}
	res, err := s.logs.LogExercise(c.UserContext(), req)
	return respondLogResult(c, fiber.StatusCreated, res, err)
}

// CreateWaterLog handles POST /api/water/log
// @Summary Log water
// @Tags logs
// @Accept json
// @Produce json
// @Param request body service.WaterLogInput true "Water log"
// @Success 201 {object} object{success=bool,data=service.LogResult,message=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /water/log [post]
func (s *Server) CreateWaterLog(c *fiber.Ctx) error {
	var req service.WaterLogInput
	if err := bodyParser(c, &req); err != nil {
		return nil
	}
	res, err := s.logs.LogWater(c.UserContext(), req)
	return respondLogResult(c, fiber.StatusCreated, res, err)
}

// GetFoodLogs handles GET /api/food/logs/:user_id
// @Summary List food logs
// @Tags logs
// @Produce json
// @Param user_id path int true "User ID"
// @Param date query string false "Day (YYYY-MM-DD)"
// @Success 200 {object} object{success=bool,data=[]models.FoodLog,count=int}
// @Router /food/logs/{user_id} [get]
func (s *Server) GetFoodLogs(c *fiber.Ctx) error {
	userID, err := parseID(c, "user_id")
	if err != nil {
		return nil
	}
	logs, err := s.logs.ListFoodLogs(c.UserContext(), userID, c.Query("date"))
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, logs)
}

// GetExerciseLogs handles GET /api/exercise/logs/:user_id
// @Summary List exercise logs
// @Tags logs
// @Produce json
// @Param user_id path int true "User ID"
// @Param date query string false "Day (YYYY-MM-DD)"
// @Success 200 {object} object{success=bool,data=[]models.ExerciseLog,count=int}
// @Router /exercise/logs/{user_id} [get]
func (s *Server) GetExerciseLogs(c *fiber.Ctx) error {
	userID, err := parseID(c, "user_id")
	if err != nil {
		return nil
	}
	logs, err := s.logs.ListExerciseLogs(c.UserContext(), userID, c.Query("date"))
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, logs)
}

// GetWaterLogs handles GET /api/water/logs/:user_id
// @Summary List water logs
// @Tags logs
// @Produce json
// @Param user_id path int true "User ID"
// @Param date query string false "Day (YYYY-MM-DD)"
// @Success 200 {object} object{success=bool,data=[]models.WaterLog,count=int}
// @Router /water/logs/{user_id} [get]
func (s *Server) GetWaterLogs(c *fiber.Ctx) error {
	userID, err := parseID(c, "user_id")
	if err != nil {
		return nil
	}
	logs, err := s.logs.ListWaterLogs(c.UserContext(), userID, c.Query("date"))
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, logs)
}

// DeleteFoodLog handles DELETE /api/food/logs/:id
// @Summary Delete a food log
// @Description Remove the entry and recompute the summary of the day it was logged on
// @Tags logs
// @Produce json
// @Param id path int true "Log ID"
// @Success 200 {object} object{success=bool,data=service.LogResult,message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /food/logs/{id} [delete]
func (s *Server) DeleteFoodLog(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	res, err := s.logs.DeleteFoodLog(c.UserContext(), id)
	return respondLogResult(c, fiber.StatusOK, res, err)
}

// DeleteExerciseLog handles DELETE /api/exercise/logs/:id
// @Summary Delete an exercise log
// @Tags logs
// @Produce json
// @Param id path int true "Log ID"
// @Success 200 {object} object{success=bool,data=service.LogResult,message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /exercise/logs/{id} [delete]
func (s *Server) DeleteExerciseLog(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	res, err := s.logs.DeleteExerciseLog(c.UserContext(), id)
	return respondLogResult(c, fiber.StatusOK, res, err)
}

// DeleteWaterLog handles DELETE /api/water/logs/:id
// @Summary Delete a water log
// @Tags logs
// @Produce json
// @Param id path int true "Log ID"
// @Success 200 {object} object{success=bool,data=service.LogResult,message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /water/logs/{id} [delete]
func (s *Server) DeleteWaterLog(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	res, err := s.logs.DeleteWaterLog(c.UserContext(), id)
	return respondLogResult(c, fiber.StatusOK, res, err)
}

func respondLogResult(c *fiber.Ctx, status int, res *service.LogResult, err error) error {
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, status, res, res.Message)
}

// GetDailySummary handles GET /api/summary/:user_id
// @Summary Daily summary
// @Description Totals for one user and day, built on first read. date defaults to today (UTC).
// @Tags summary
// @Produce json
// @Param user_id path int true "User ID"
// @Param date query string false "Day (YYYY-MM-DD)"
// @Success 200 {object} object{success=bool,data=models.DailySummary}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /summary/{user_id} [get]
func (s *Server) GetDailySummary(c *fiber.Ctx) error {
	userID, err := parseID(c, "user_id")
	if err != nil {
		return nil
	}
	summary, err := s.summaries.GetDailySummary(c.UserContext(), userID, c.Query("date"))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, summary, "")
}
