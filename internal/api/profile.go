package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// ProfileHandler serves the profile settings and the onboarding wizard.
type ProfileHandler struct {
	profileService    service.IProfileService
	onboardingService service.IOnboardingService
}

func NewProfileHandler(profileService service.IProfileService, onboardingService service.IOnboardingService) *ProfileHandler {
	return &ProfileHandler{
		profileService:    profileService,
		onboardingService: onboardingService,
	}
}

// ProfileResponse wraps the profile so a new account can be told to onboard.
type ProfileResponse struct {
	Profile            *models.UserProfile `json:"profile"`
	OnboardingRequired bool                `json:"onboarding_required"`
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.GET("/targets", h.GetTargets)
	}

	onboarding := router.Group("/onboarding")
	{
		onboarding.GET("/draft", h.GetDraft)
		onboarding.PUT("/draft", h.SaveStep)
		onboarding.POST("/complete", h.Complete)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusOK, ProfileResponse{OnboardingRequired: true})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ProfileResponse{Profile: profile})
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ProfileResponse{Profile: profile})
}

// GetTargets returns BMR, TDEE and the cached goals.
func (h *ProfileHandler) GetTargets(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	targets, err := h.profileService.Targets(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, targets)
}

func (h *ProfileHandler) GetDraft(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	draft, err := h.onboardingService.GetDraft(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (h *ProfileHandler) SaveStep(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var step types.OnboardingDraft
	if !bindJSON(c, &step) {
		return
	}

	draft, err := h.onboardingService.SaveStep(c.Request.Context(), userID, step)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// Complete accepts the last step (or an empty body) and writes the profile.
func (h *ProfileHandler) Complete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var final types.OnboardingDraft
	if c.Request.ContentLength != 0 && !bindJSON(c, &final) {
		return
	}

	result, err := h.onboardingService.Complete(c.Request.Context(), userID, final)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
