package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/mocks"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

const testToken = "test-token"

func newTestRouter(t *testing.T, svcs Services) (*gin.Engine, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userID := uuid.New()
	if svcs.Auth == nil {
		auth := new(mocks.MockAuthService)
		auth.On("ValidateToken", testToken).Return(&types.TokenClaims{UserID: userID, Email: "ana@example.com"}, nil)
		auth.On("ValidateToken", mock.Anything).Return(nil, service.ErrInvalidToken)
		svcs.Auth = auth
	}

	router := gin.New()
	RegisterRoutes(router, svcs, Limiters{}, nil, nil, nil)
	return router, userID
}

func doJSON(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func date(t *testing.T, s string) types.Date {
	t.Helper()
	d, err := types.ParseDate(s)
	require.NoError(t, err)
	return d
}

type failingPinger struct{}

func (failingPinger) HealthCheck(context.Context) error { return errors.New("down") }

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/health", HealthCheck(nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)

	router = gin.New()
	router.GET("/health", HealthCheck(failingPinger{}))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := newTestRouter(t, Services{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer forged")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRespondError(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	tests := []struct {
		name   string
		err    error
		status int
		body   map[string]interface{}
	}{
		{
			name:   "validation",
			err:    &service.ValidationError{Field: "weight_g", Message: "must be positive"},
			status: http.StatusBadRequest,
			body:   map[string]interface{}{"error": "weight_g must be positive", "field": "weight_g"},
		},
		{
			name:   "bad credentials",
			err:    service.ErrInvalidCredentials,
			status: http.StatusUnauthorized,
			body:   map[string]interface{}{"error": "invalid credentials"},
		},
		{
			name:   "storage failure hides the cause",
			err:    &service.StorageError{Action: "save meal", Err: errors.New("pq: connection refused")},
			status: http.StatusInternalServerError,
			body:   map[string]interface{}{"error": "could not save meal"},
		},
		{
			name:   "missing record looks like a storage failure",
			err:    &service.StorageError{Action: "load meal", Err: service.ErrNotFound},
			status: http.StatusInternalServerError,
			body:   map[string]interface{}{"error": "could not load meal"},
		},
		{
			name:   "unknown error",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			body:   map[string]interface{}{"error": "internal server error"},
		},
		{
			name: "failed reorder carries the order",
			err: &service.ReorderError{
				Err:   &service.ValidationError{Field: "ids", Message: "must list every item of the group exactly once"},
				Order: ids,
			},
			status: http.StatusBadRequest,
			body: map[string]interface{}{
				"error": "ids must list every item of the group exactly once",
				"field": "ids",
				"order": []interface{}{ids[0].String(), ids[1].String()},
			},
		},
	}

	gin.SetMode(gin.TestMode)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body map[string]interface{}
			decode(t, w, &body)
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestMealRoutes(t *testing.T) {
	meals := new(mocks.MockMealService)
	router, userID := newTestRouter(t, Services{Meals: meals})
	day := date(t, "2024-06-10")
	mealID := uuid.New()

	t.Run("create", func(t *testing.T) {
		req := &types.CreateMealRequest{Name: "Lunch", Time: "12:30"}
		meals.On("CreateMeal", mock.Anything, userID, day, req).
			Return(&models.Meal{ID: mealID, UserID: userID, Date: day, Name: "Lunch", Time: "12:30", Status: nutrition.StatusPending}, nil).Once()

		w := doJSON(router, http.MethodPost, "/api/v1/days/2024-06-10/meals", req)
		assert.Equal(t, http.StatusCreated, w.Code)

		var got models.Meal
		decode(t, w, &got)
		assert.Equal(t, mealID, got.ID)
		assert.Equal(t, "2024-06-10", got.Date.String())
	})

	t.Run("bad date", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/days/10-06-2024/meals", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"date"`)
	})

	t.Run("bad id", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/meals/not-an-id/toggle", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/days/2024-06-10/meals", bytes.NewBufferString("{"))
		req.Header.Set("Authorization", "Bearer "+testToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("toggle", func(t *testing.T) {
		meals.On("ToggleMealStatus", mock.Anything, userID, mealID).
			Return(&models.Meal{ID: mealID, Status: nutrition.StatusDone}, nil).Once()

		w := doJSON(router, http.MethodPost, "/api/v1/meals/"+mealID.String()+"/toggle", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"done"`)
	})

	t.Run("move", func(t *testing.T) {
		m1, m2, m3, m4 := uuid.New(), uuid.New(), uuid.New(), uuid.New()
		req := &types.MoveRequest{ActiveID: m2, OverID: m4}
		meals.On("MoveMeal", mock.Anything, userID, day, req).
			Return(&service.MoveResult{Order: []uuid.UUID{m1, m3, m4, m2}, Moved: true}, nil).Once()

		w := doJSON(router, http.MethodPost, "/api/v1/days/2024-06-10/meals/move", req)
		assert.Equal(t, http.StatusOK, w.Code)

		var got service.MoveResult
		decode(t, w, &got)
		assert.True(t, got.Moved)
		assert.Equal(t, []uuid.UUID{m1, m3, m4, m2}, got.Order)
	})

	t.Run("reorder rejected", func(t *testing.T) {
		current := []uuid.UUID{uuid.New(), uuid.New()}
		meals.On("ReorderMeals", mock.Anything, userID, day, []uuid.UUID{current[0]}).
			Return(nil, &service.ReorderError{Err: &service.ValidationError{Field: "ids", Message: "must list every item of the group exactly once"}, Order: current}).Once()

		w := doJSON(router, http.MethodPut, "/api/v1/days/2024-06-10/meals/order", types.ReorderRequest{IDs: []uuid.UUID{current[0]}})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var got struct {
			Order []uuid.UUID `json:"order"`
		}
		decode(t, w, &got)
		assert.Equal(t, current, got.Order)
	})

	t.Run("update food weight", func(t *testing.T) {
		mealFoodID := uuid.New()
		meals.On("UpdateMealFood", mock.Anything, userID, mealFoodID, 0.0).
			Return(nil, &service.ValidationError{Field: "weight_g", Message: "must be positive"}).Once()

		w := doJSON(router, http.MethodPut, "/api/v1/meal-foods/"+mealFoodID.String(), types.UpdateMealFoodRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		meals.On("DeleteMeal", mock.Anything, userID, mealID).Return(nil).Once()

		w := doJSON(router, http.MethodDelete, "/api/v1/meals/"+mealID.String(), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	meals.AssertExpectations(t)
}

func TestProfileRoutes(t *testing.T) {
	profiles := new(mocks.MockProfileService)
	onboarding := new(mocks.MockOnboardingService)
	router, userID := newTestRouter(t, Services{Profile: profiles, Onboarding: onboarding})

	t.Run("new account must onboard", func(t *testing.T) {
		profiles.On("GetProfile", mock.Anything, userID).
			Return(nil, &service.StorageError{Action: "load profile", Err: service.ErrNotFound}).Once()

		w := doJSON(router, http.MethodGet, "/api/v1/profile", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"profile":null,"onboarding_required":true}`, w.Body.String())
	})

	t.Run("complete with empty body", func(t *testing.T) {
		onboarding.On("Complete", mock.Anything, userID, types.OnboardingDraft{}).
			Return(nil, &service.ValidationError{Field: "gender", Message: "is required"}).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/complete", nil)
		req.Header.Set("Authorization", "Bearer "+testToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"gender"`)
	})

	t.Run("targets", func(t *testing.T) {
		profiles.On("Targets", mock.Anything, userID).
			Return(&nutrition.Targets{BMR: 1780, TDEE: 2759, Calories: 2259}, nil).Once()

		w := doJSON(router, http.MethodGet, "/api/v1/profile/targets", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	profiles.AssertExpectations(t)
	onboarding.AssertExpectations(t)
}

func TestFoodRoutes(t *testing.T) {
	foods := new(mocks.MockFoodService)
	router, userID := newTestRouter(t, Services{Foods: foods})

	t.Run("external search", func(t *testing.T) {
		foods.On("SearchExternal", mock.Anything, "oats").
			Return([]types.ExternalFood{{Name: "Rolled oats", Calories: 379}}).Once()

		w := doJSON(router, http.MethodGet, "/api/v1/foods/external?q=oats", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Rolled oats")
	})

	t.Run("import", func(t *testing.T) {
		product := &types.ExternalFood{Barcode: "3017620422003"}
		foodID := uuid.New()
		foods.On("ImportExternal", mock.Anything, userID, product).
			Return(&models.FoodItem{ID: foodID, Name: "Hazelnut spread", Barcode: "3017620422003"}, nil).Once()

		w := doJSON(router, http.MethodPost, "/api/v1/foods/import", product)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), foodID.String())
	})

	t.Run("list with query", func(t *testing.T) {
		foods.On("ListFoods", mock.Anything, userID, "chick").
			Return([]models.FoodItem{{ID: uuid.New(), Name: "Chicken breast"}}, nil).Once()

		w := doJSON(router, http.MethodGet, "/api/v1/foods?q=chick", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("reset", func(t *testing.T) {
		foodID := uuid.New()
		foods.On("ResetFood", mock.Anything, userID, foodID).
			Return(nil, &service.ValidationError{Field: "food", Message: "is not a personal copy"}).Once()

		w := doJSON(router, http.MethodPost, "/api/v1/foods/"+foodID.String()+"/reset", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	foods.AssertExpectations(t)
}

func TestDashboardWeekDefaultsToToday(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dashboard := new(mocks.MockDashboardService)
	userID := uuid.New()
	today := date(t, "2024-06-12")

	h := NewDashboardHandler(dashboard)
	h.now = func() time.Time { return today.Time.Add(15 * time.Hour) }

	router := gin.New()
	group := router.Group("", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	})
	h.RegisterRoutes(group)

	dashboard.On("Week", mock.Anything, userID, today).Return(&service.WeekPlan{}, nil).Once()
	dashboard.On("Week", mock.Anything, userID, date(t, "2024-06-03")).Return(&service.WeekPlan{}, nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/planner/week", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/planner/week?start=2024-06-03", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/planner/week?start=junk", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	dashboard.AssertExpectations(t)
}
