package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error)
	Targets(ctx context.Context, userID uuid.UUID) (*nutrition.Targets, error)
}

// IOnboardingService defines the interface for the onboarding wizard
type IOnboardingService interface {
	GetDraft(ctx context.Context, userID uuid.UUID) (*types.OnboardingDraft, error)
	SaveStep(ctx context.Context, userID uuid.UUID, step types.OnboardingDraft) (*types.OnboardingDraft, error)
	Complete(ctx context.Context, userID uuid.UUID, final types.OnboardingDraft) (*OnboardingResult, error)
}

// IMealService defines the interface for meal planning operations
type IMealService interface {
	ListMeals(ctx context.Context, userID uuid.UUID, date types.Date) ([]models.Meal, error)
	ListMealsInRange(ctx context.Context, userID uuid.UUID, from, to types.Date) ([]models.Meal, error)
	GetMeal(ctx context.Context, userID, mealID uuid.UUID) (*models.Meal, error)
	CreateMeal(ctx context.Context, userID uuid.UUID, date types.Date, req *types.CreateMealRequest) (*models.Meal, error)
	UpdateMeal(ctx context.Context, userID, mealID uuid.UUID, req *types.UpdateMealRequest) (*models.Meal, error)
	DeleteMeal(ctx context.Context, userID, mealID uuid.UUID) error
	SetMealStatus(ctx context.Context, userID, mealID uuid.UUID, status nutrition.MealStatus) (*models.Meal, error)
	ToggleMealStatus(ctx context.Context, userID, mealID uuid.UUID) (*models.Meal, error)

	AddMealFood(ctx context.Context, userID, mealID uuid.UUID, req *types.AddMealFoodRequest) (*models.MealFood, error)
	UpdateMealFood(ctx context.Context, userID, mealFoodID uuid.UUID, weightG float64) (*models.MealFood, error)
	DeleteMealFood(ctx context.Context, userID, mealFoodID uuid.UUID) error

	ReorderMeals(ctx context.Context, userID uuid.UUID, date types.Date, ids []uuid.UUID) ([]uuid.UUID, error)
	MoveMeal(ctx context.Context, userID uuid.UUID, date types.Date, req *types.MoveRequest) (*MoveResult, error)
	ReorderMealFoods(ctx context.Context, userID, mealID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error)
	MoveMealFood(ctx context.Context, userID, mealID uuid.UUID, req *types.MoveRequest) (*MoveResult, error)
}

// IFoodService defines the interface for the food database
type IFoodService interface {
	ListFoods(ctx context.Context, userID uuid.UUID, query string) ([]models.FoodItem, error)
	GetFood(ctx context.Context, userID, foodID uuid.UUID) (*models.FoodItem, error)
	CreateFood(ctx context.Context, userID uuid.UUID, req *types.FoodRequest) (*models.FoodItem, error)
	UpdateFood(ctx context.Context, userID, foodID uuid.UUID, req *types.FoodRequest) (*models.FoodItem, error)
	ResetFood(ctx context.Context, userID, foodID uuid.UUID) (*models.FoodItem, error)
	DeleteFood(ctx context.Context, userID, foodID uuid.UUID) error
	SearchExternal(ctx context.Context, query string) []types.ExternalFood
	ImportExternal(ctx context.Context, userID uuid.UUID, product *types.ExternalFood) (*models.FoodItem, error)
}

// ITemplateService defines the interface for day and meal templates
type ITemplateService interface {
	SaveDayTemplate(ctx context.Context, userID uuid.UUID, name string, date types.Date) (*TemplateDetail, error)
	SaveMealTemplate(ctx context.Context, userID uuid.UUID, name string, mealID uuid.UUID) (*TemplateDetail, error)
	ListTemplates(ctx context.Context, userID uuid.UUID, kind types.TemplateKind) ([]TemplateDetail, error)
	GetTemplate(ctx context.Context, userID, templateID uuid.UUID) (*TemplateDetail, error)
	RenameTemplate(ctx context.Context, userID, templateID uuid.UUID, name string) (*TemplateDetail, error)
	DeleteTemplate(ctx context.Context, userID, templateID uuid.UUID) error
	ApplyTemplate(ctx context.Context, userID, templateID uuid.UUID, date types.Date) ([]models.Meal, error)
}

type IWaterService interface {
	Add(ctx context.Context, userID uuid.UUID, req *types.WaterRequest) (*models.WaterLog, error)
	List(ctx context.Context, userID uuid.UUID, date types.Date) ([]models.WaterLog, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type ISupplementService interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Supplement, error)
	Create(ctx context.Context, userID uuid.UUID, req *types.SupplementRequest) (*models.Supplement, error)
	Update(ctx context.Context, userID, id uuid.UUID, req *types.SupplementRequest) (*models.Supplement, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Reorder(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error)
	Move(ctx context.Context, userID uuid.UUID, req *types.MoveRequest) (*MoveResult, error)
	SetTaken(ctx context.Context, userID, id uuid.UUID, date types.Date, taken bool) (*models.SupplementLog, error)
	ForDate(ctx context.Context, userID uuid.UUID, date types.Date) ([]SupplementStatus, error)
}

type IProgressService interface {
	AddWeight(ctx context.Context, userID uuid.UUID, req *types.WeightLogRequest) (*models.WeightLog, error)
	ListWeights(ctx context.Context, userID uuid.UUID, from, to types.Date) ([]models.WeightLog, error)
	LatestWeight(ctx context.Context, userID uuid.UUID) (*models.WeightLog, error)
	DeleteWeight(ctx context.Context, userID, id uuid.UUID) error
	AttachPhoto(ctx context.Context, userID, id uuid.UUID, contentType string, body []byte) (*models.WeightLog, error)
	PhotoURL(ctx context.Context, userID, id uuid.UUID) (string, error)
}

// IDashboardService defines the read models of the daily and weekly views
type IDashboardService interface {
	Day(ctx context.Context, userID uuid.UUID, date types.Date) (*DayDashboard, error)
	Week(ctx context.Context, userID uuid.UUID, start types.Date) (*WeekPlan, error)
}
