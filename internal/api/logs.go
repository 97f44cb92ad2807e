package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// LogHandler serves the daily trackers: water and supplements.
type LogHandler struct {
	waterService      service.IWaterService
	supplementService service.ISupplementService
}

func NewLogHandler(waterService service.IWaterService, supplementService service.ISupplementService) *LogHandler {
	return &LogHandler{
		waterService:      waterService,
		supplementService: supplementService,
	}
}

func (h *LogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/water", h.AddWater)
	router.DELETE("/water/:id", h.DeleteWater)
	router.GET("/days/:date/water", h.ListWater)

	supplements := router.Group("/supplements")
	{
		supplements.GET("", h.ListSupplements)
		supplements.POST("", h.CreateSupplement)
		supplements.PUT("/order", h.ReorderSupplements)
		supplements.POST("/move", h.MoveSupplement)
		supplements.PUT("/:id", h.UpdateSupplement)
		supplements.DELETE("/:id", h.DeleteSupplement)
		supplements.PUT("/:id/log", h.LogSupplement)
	}
	router.GET("/days/:date/supplements", h.SupplementsForDate)
}

func (h *LogHandler) AddWater(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.WaterRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.waterService.Add(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListWater returns the day's entries and their total.
func (h *LogHandler) ListWater(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	date, ok := pathDate(c)
	if !ok {
		return
	}

	logs, err := h.waterService.List(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "total_ml": service.TotalML(logs)})
}

func (h *LogHandler) DeleteWater(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.waterService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LogHandler) ListSupplements(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	supplements, err := h.supplementService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplements)
}

func (h *LogHandler) CreateSupplement(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.SupplementRequest
	if !bindJSON(c, &req) {
		return
	}

	supplement, err := h.supplementService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, supplement)
}

func (h *LogHandler) UpdateSupplement(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.SupplementRequest
	if !bindJSON(c, &req) {
		return
	}

	supplement, err := h.supplementService.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplement)
}

func (h *LogHandler) DeleteSupplement(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.supplementService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LogHandler) ReorderSupplements(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.ReorderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.supplementService.Reorder(c.Request.Context(), userID, req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *LogHandler) MoveSupplement(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.MoveRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.supplementService.Move(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *LogHandler) LogSupplement(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.SupplementLogRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.supplementService.SetTaken(c.Request.Context(), userID, id, req.Date, req.Taken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *LogHandler) SupplementsForDate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	date, ok := pathDate(c)
	if !ok {
		return
	}

	statuses, err := h.supplementService.ForDate(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}
