package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// TemplateHandler serves day and meal templates.
type TemplateHandler struct {
	templateService service.ITemplateService
}

func NewTemplateHandler(templateService service.ITemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

func (h *TemplateHandler) RegisterRoutes(router *gin.RouterGroup) {
	templates := router.Group("/templates")
	{
		templates.GET("", h.ListTemplates)
		templates.POST("/day", h.SaveDay)
		templates.POST("/meal", h.SaveMeal)
		templates.GET("/:id", h.GetTemplate)
		templates.PUT("/:id", h.RenameTemplate)
		templates.DELETE("/:id", h.DeleteTemplate)
		templates.POST("/:id/apply", h.ApplyTemplate)
	}
}

// ListTemplates lists the user's templates, optionally filtered by ?kind=day|meal.
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	templates, err := h.templateService.ListTemplates(c.Request.Context(), userID, types.TemplateKind(c.Query("kind")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

func (h *TemplateHandler) SaveDay(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.SaveDayTemplateRequest
	if !bindJSON(c, &req) {
		return
	}

	template, err := h.templateService.SaveDayTemplate(c.Request.Context(), userID, req.Name, req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, template)
}

func (h *TemplateHandler) SaveMeal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.SaveMealTemplateRequest
	if !bindJSON(c, &req) {
		return
	}

	template, err := h.templateService.SaveMealTemplate(c.Request.Context(), userID, req.Name, req.MealID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, template)
}

func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	templateID, ok := pathID(c, "id")
	if !ok {
		return
	}

	template, err := h.templateService.GetTemplate(c.Request.Context(), userID, templateID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

func (h *TemplateHandler) RenameTemplate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	templateID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.RenameTemplateRequest
	if !bindJSON(c, &req) {
		return
	}

	template, err := h.templateService.RenameTemplate(c.Request.Context(), userID, templateID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	templateID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.templateService.DeleteTemplate(c.Request.Context(), userID, templateID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ApplyTemplate replaces the target day (day template) or appends a meal to it
// (meal template) and returns the day's meals.
func (h *TemplateHandler) ApplyTemplate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	templateID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.ApplyTemplateRequest
	if !bindJSON(c, &req) {
		return
	}

	meals, err := h.templateService.ApplyTemplate(c.Request.Context(), userID, templateID, req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meals)
}
