package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAuthRequired),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": ...}. Storage failures keep their
// action text only; a failed reorder also carries the authoritative order.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}

	var ve *service.ValidationError
	if errors.As(err, &ve) {
		body["field"] = ve.Field
	}
	var re *service.ReorderError
	if errors.As(err, &re) && re.Order != nil {
		body["order"] = re.Order
	}
	var se *service.StorageError
	if status == http.StatusInternalServerError && !errors.As(err, &se) {
		body["error"] = "internal server error"
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, field, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": field + " " + message, "field": field})
}

// currentUser returns the signed-in user or answers 401.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return uuid.Nil, false
	}
	return userID, true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, name, "must be a valid id")
		return uuid.Nil, false
	}
	return id, true
}

func pathDate(c *gin.Context) (types.Date, bool) {
	date, err := types.ParseDate(c.Param("date"))
	if err != nil {
		badRequest(c, "date", "must be YYYY-MM-DD")
		return types.Date{}, false
	}
	return date, true
}

// queryDate parses an optional query date; a missing value is the zero Date.
func queryDate(c *gin.Context, name string) (types.Date, bool) {
	raw := c.Query(name)
	if raw == "" {
		return types.Date{}, true
	}
	date, err := types.ParseDate(raw)
	if err != nil {
		badRequest(c, name, "must be YYYY-MM-DD")
		return types.Date{}, false
	}
	return date, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}
