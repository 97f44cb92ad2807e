package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// ProgressHandler serves weight history and progress photos.
type ProgressHandler struct {
	progressService service.IProgressService
}

func NewProgressHandler(progressService service.IProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

func (h *ProgressHandler) RegisterRoutes(router *gin.RouterGroup) {
	progress := router.Group("/progress")
	{
		progress.GET("", h.ListWeights)
		progress.POST("", h.AddWeight)
		progress.GET("/latest", h.LatestWeight)
		progress.DELETE("/:id", h.DeleteWeight)
		progress.POST("/:id/photo", h.UploadPhoto)
		progress.GET("/:id/photo", h.PhotoURL)
	}
}

// ListWeights returns the history between the optional ?from= and ?to= dates.
func (h *ProgressHandler) ListWeights(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	from, ok := queryDate(c, "from")
	if !ok {
		return
	}
	to, ok := queryDate(c, "to")
	if !ok {
		return
	}

	logs, err := h.progressService.ListWeights(c.Request.Context(), userID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *ProgressHandler) AddWeight(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.WeightLogRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.progressService.AddWeight(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *ProgressHandler) LatestWeight(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	entry, err := h.progressService.LatestWeight(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"latest": entry})
}

func (h *ProgressHandler) DeleteWeight(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.progressService.DeleteWeight(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadPhoto attaches the multipart "photo" file to a weight entry.
func (h *ProgressHandler) UploadPhoto(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile("photo")
	if err != nil {
		badRequest(c, "photo", "is required")
		return
	}
	if header.Size > service.MaxPhotoBytes {
		badRequest(c, "photo", "must be at most 5 MB")
		return
	}

	file, err := header.Open()
	if err != nil {
		badRequest(c, "photo", "could not be read")
		return
	}
	defer file.Close()

	body, err := io.ReadAll(io.LimitReader(file, service.MaxPhotoBytes+1))
	if err != nil {
		badRequest(c, "photo", "could not be read")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(body)
	}

	entry, err := h.progressService.AttachPhoto(c.Request.Context(), userID, id, contentType, body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// PhotoURL returns a short-lived download link for the entry's photo.
func (h *ProgressHandler) PhotoURL(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	url, err := h.progressService.PhotoURL(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
