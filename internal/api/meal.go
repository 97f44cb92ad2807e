package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// MealHandler serves the day plan: meals, their foods and their order.
type MealHandler struct {
	mealService service.IMealService
}

func NewMealHandler(mealService service.IMealService) *MealHandler {
	return &MealHandler{mealService: mealService}
}

func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup) {
	days := router.Group("/days/:date/meals")
	{
		days.GET("", h.ListMeals)
		days.POST("", h.CreateMeal)
		days.PUT("/order", h.ReorderMeals)
		days.POST("/move", h.MoveMeal)
	}

	meals := router.Group("/meals/:id")
	{
		meals.GET("", h.GetMeal)
		meals.PUT("", h.UpdateMeal)
		meals.DELETE("", h.DeleteMeal)
		meals.PUT("/status", h.SetStatus)
		meals.POST("/toggle", h.ToggleStatus)
		meals.POST("/foods", h.AddFood)
		meals.PUT("/foods/order", h.ReorderFoods)
		meals.POST("/foods/move", h.MoveFood)
	}

	mealFoods := router.Group("/meal-foods/:id")
	{
		mealFoods.PUT("", h.UpdateFood)
		mealFoods.DELETE("", h.DeleteFood)
	}
}

func (h *MealHandler) ListMeals(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	date, ok := pathDate(c)
	if !ok {
		return
	}

	meals, err := h.mealService.ListMeals(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meals)
}

func (h *MealHandler) CreateMeal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	date, ok := pathDate(c)
	if !ok {
		return
	}

	var req types.CreateMealRequest
	if !bindJSON(c, &req) {
		return
	}

	meal, err := h.mealService.CreateMeal(c.Request.Context(), userID, date, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

func (h *MealHandler) GetMeal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	mealID, ok := pathID(c, "id")
	if !ok {
		return
	}

	meal, err := h.mealService.GetMeal(c.Request.Context(), userID, mealID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *MealHandler) UpdateMeal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	mealID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.UpdateMealRequest
	if !bindJSON(c, &req) {
		return
	}

	meal, err := h.mealService.UpdateMeal(c.Request.Context(), userID, mealID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *MealHandler) DeleteMeal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	mealID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.mealService.DeleteMeal(c.Request.Context(), userID, mealID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MealHandler) SetStatus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	mealID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.SetMealStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	meal, err := h.mealService.SetMealStatus(c.Request.Context(), userID, mealID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *MealHandler) ToggleStatus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	mealID, ok := pathID(c, "id")
	if !ok {
		return
	}

	meal, err := h.mealService.ToggleMealStatus(c.Request.Context(), userID, mealID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *MealHandler) AddFood(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	mealID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.AddMealFoodRequest
	if !bindJSON(c, &req) {
		return
	}

	food, err := h.mealService.AddMealFood(c.Request.Context(), userID, mealID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, food)
}

func (h *MealHandler) UpdateFood(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	mealFoodID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.UpdateMealFoodRequest
	if !bindJSON(c, &req) {
		return
	}

	food, err := h.mealService.UpdateMealFood(c.Request.Context(), userID, mealFoodID, req.WeightG)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

func (h *MealHandler) DeleteFood(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	mealFoodID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.mealService.DeleteMealFood(c.Request.Context(), userID, mealFoodID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MealHandler) ReorderMeals(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	date, ok := pathDate(c)
	if !ok {
		return
	}

	var req types.ReorderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.mealService.ReorderMeals(c.Request.Context(), userID, date, req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *MealHandler) MoveMeal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	date, ok := pathDate(c)
	if !ok {
		return
	}

	var req types.MoveRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.mealService.MoveMeal(c.Request.Context(), userID, date, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *MealHandler) ReorderFoods(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	mealID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.ReorderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.mealService.ReorderMealFoods(c.Request.Context(), userID, mealID, req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *MealHandler) MoveFood(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	mealID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.MoveRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.mealService.MoveMealFood(c.Request.Context(), userID, mealID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
