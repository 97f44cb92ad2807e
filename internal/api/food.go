package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// FoodHandler serves the food database and the public food search.
type FoodHandler struct {
	foodService   service.IFoodService
	searchLimiter *middleware.RateLimiter
}

// NewFoodHandler creates a FoodHandler. searchLimiter may be nil.
func NewFoodHandler(foodService service.IFoodService, searchLimiter *middleware.RateLimiter) *FoodHandler {
	return &FoodHandler{foodService: foodService, searchLimiter: searchLimiter}
}

func (h *FoodHandler) RegisterRoutes(router *gin.RouterGroup) {
	foods := router.Group("/foods")
	{
		foods.GET("", h.ListFoods)
		foods.POST("", h.CreateFood)
		foods.GET("/external", h.searchLimiter.RateLimitMiddleware(), h.SearchExternal)
		foods.POST("/import", h.searchLimiter.RateLimitMiddleware(), h.ImportExternal)
		foods.GET("/:id", h.GetFood)
		foods.PUT("/:id", h.UpdateFood)
		foods.DELETE("/:id", h.DeleteFood)
		foods.POST("/:id/reset", h.ResetFood)
	}
}

// ListFoods lists the visible foods, filtered and ranked by ?q=.
func (h *FoodHandler) ListFoods(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	foods, err := h.foodService.ListFoods(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, foods)
}

func (h *FoodHandler) GetFood(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	foodID, ok := pathID(c, "id")
	if !ok {
		return
	}

	food, err := h.foodService.GetFood(c.Request.Context(), userID, foodID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

func (h *FoodHandler) CreateFood(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.FoodRequest
	if !bindJSON(c, &req) {
		return
	}

	food, err := h.foodService.CreateFood(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, food)
}

// UpdateFood edits an own food; editing a verified food creates the user's fork.
func (h *FoodHandler) UpdateFood(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	foodID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.FoodRequest
	if !bindJSON(c, &req) {
		return
	}

	food, err := h.foodService.UpdateFood(c.Request.Context(), userID, foodID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

func (h *FoodHandler) ResetFood(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	foodID, ok := pathID(c, "id")
	if !ok {
		return
	}

	food, err := h.foodService.ResetFood(c.Request.Context(), userID, foodID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

func (h *FoodHandler) DeleteFood(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	foodID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.foodService.DeleteFood(c.Request.Context(), userID, foodID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SearchExternal always answers 200; an unreachable database yields no results.
func (h *FoodHandler) SearchExternal(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	c.JSON(http.StatusOK, h.foodService.SearchExternal(c.Request.Context(), c.Query("q")))
}

func (h *FoodHandler) ImportExternal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var product types.ExternalFood
	if !bindJSON(c, &product) {
		return
	}

	food, err := h.foodService.ImportExternal(c.Request.Context(), userID, &product)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, food)
}
