package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// DashboardHandler serves the daily dashboard and the weekly planner.
type DashboardHandler struct {
	dashboardService service.IDashboardService
	now              func() time.Time
}

func NewDashboardHandler(dashboardService service.IDashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, now: time.Now}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard/:date", h.Day)
	router.GET("/planner/week", h.Week)
}

func (h *DashboardHandler) Day(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	date, ok := pathDate(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.Day(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// Week returns the planner for the week containing ?start=, or the current week.
func (h *DashboardHandler) Week(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	start, ok := queryDate(c, "start")
	if !ok {
		return
	}
	if start.IsZero() {
		start = types.NewDate(h.now())
	}

	plan, err := h.dashboardService.Week(c.Request.Context(), userID, start)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}
