package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// MockMealService is a mock implementation of the MealService interface
type MockMealService struct {
	mock.Mock
}

var _ service.IMealService = (*MockMealService)(nil)

func (m *MockMealService) meal(args mock.Arguments) (*models.Meal, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meal), args.Error(1)
}

func (m *MockMealService) order(args mock.Arguments) ([]uuid.UUID, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockMealService) moved(args mock.Arguments) (*service.MoveResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MoveResult), args.Error(1)
}

func (m *MockMealService) mealFood(args mock.Arguments) (*models.MealFood, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MealFood), args.Error(1)
}

func (m *MockMealService) ListMeals(ctx context.Context, userID uuid.UUID, date types.Date) ([]models.Meal, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Meal), args.Error(1)
}

func (m *MockMealService) ListMealsInRange(ctx context.Context, userID uuid.UUID, from, to types.Date) ([]models.Meal, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Meal), args.Error(1)
}

func (m *MockMealService) GetMeal(ctx context.Context, userID, mealID uuid.UUID) (*models.Meal, error) {
	return m.meal(m.Called(ctx, userID, mealID))
}

func (m *MockMealService) CreateMeal(ctx context.Context, userID uuid.UUID, date types.Date, req *types.CreateMealRequest) (*models.Meal, error) {
	return m.meal(m.Called(ctx, userID, date, req))
}

func (m *MockMealService) UpdateMeal(ctx context.Context, userID, mealID uuid.UUID, req *types.UpdateMealRequest) (*models.Meal, error) {
	return m.meal(m.Called(ctx, userID, mealID, req))
}

func (m *MockMealService) DeleteMeal(ctx context.Context, userID, mealID uuid.UUID) error {
	return m.Called(ctx, userID, mealID).Error(0)
}

func (m *MockMealService) SetMealStatus(ctx context.Context, userID, mealID uuid.UUID, status nutrition.MealStatus) (*models.Meal, error) {
	return m.meal(m.Called(ctx, userID, mealID, status))
}

func (m *MockMealService) ToggleMealStatus(ctx context.Context, userID, mealID uuid.UUID) (*models.Meal, error) {
	return m.meal(m.Called(ctx, userID, mealID))
}

func (m *MockMealService) AddMealFood(ctx context.Context, userID, mealID uuid.UUID, req *types.AddMealFoodRequest) (*models.MealFood, error) {
	return m.mealFood(m.Called(ctx, userID, mealID, req))
}

func (m *MockMealService) UpdateMealFood(ctx context.Context, userID, mealFoodID uuid.UUID, weightG float64) (*models.MealFood, error) {
	return m.mealFood(m.Called(ctx, userID, mealFoodID, weightG))
}

func (m *MockMealService) DeleteMealFood(ctx context.Context, userID, mealFoodID uuid.UUID) error {
	return m.Called(ctx, userID, mealFoodID).Error(0)
}

func (m *MockMealService) ReorderMeals(ctx context.Context, userID uuid.UUID, date types.Date, ids []uuid.UUID) ([]uuid.UUID, error) {
	return m.order(m.Called(ctx, userID, date, ids))
}

func (m *MockMealService) MoveMeal(ctx context.Context, userID uuid.UUID, date types.Date, req *types.MoveRequest) (*service.MoveResult, error) {
	return m.moved(m.Called(ctx, userID, date, req))
}

func (m *MockMealService) ReorderMealFoods(ctx context.Context, userID, mealID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	return m.order(m.Called(ctx, userID, mealID, ids))
}

func (m *MockMealService) MoveMealFood(ctx context.Context, userID, mealID uuid.UUID, req *types.MoveRequest) (*service.MoveResult, error) {
	return m.moved(m.Called(ctx, userID, mealID, req))
}

// MockFoodService is a mock implementation of the FoodService interface
type MockFoodService struct {
	mock.Mock
}

var _ service.IFoodService = (*MockFoodService)(nil)

func (m *MockFoodService) food(args mock.Arguments) (*models.FoodItem, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FoodItem), args.Error(1)
}

func (m *MockFoodService) ListFoods(ctx context.Context, userID uuid.UUID, query string) ([]models.FoodItem, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FoodItem), args.Error(1)
}

func (m *MockFoodService) GetFood(ctx context.Context, userID, foodID uuid.UUID) (*models.FoodItem, error) {
	return m.food(m.Called(ctx, userID, foodID))
}

func (m *MockFoodService) CreateFood(ctx context.Context, userID uuid.UUID, req *types.FoodRequest) (*models.FoodItem, error) {
	return m.food(m.Called(ctx, userID, req))
}

func (m *MockFoodService) UpdateFood(ctx context.Context, userID, foodID uuid.UUID, req *types.FoodRequest) (*models.FoodItem, error) {
	return m.food(m.Called(ctx, userID, foodID, req))
}

func (m *MockFoodService) ResetFood(ctx context.Context, userID, foodID uuid.UUID) (*models.FoodItem, error) {
	return m.food(m.Called(ctx, userID, foodID))
}

func (m *MockFoodService) DeleteFood(ctx context.Context, userID, foodID uuid.UUID) error {
	return m.Called(ctx, userID, foodID).Error(0)
}

func (m *MockFoodService) SearchExternal(ctx context.Context, query string) []types.ExternalFood {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]types.ExternalFood)
}

func (m *MockFoodService) ImportExternal(ctx context.Context, userID uuid.UUID, product *types.ExternalFood) (*models.FoodItem, error) {
	return m.food(m.Called(ctx, userID, product))
}

// MockDashboardService is a mock implementation of the DashboardService interface
type MockDashboardService struct {
	mock.Mock
}

var _ service.IDashboardService = (*MockDashboardService)(nil)

func (m *MockDashboardService) Day(ctx context.Context, userID uuid.UUID, date types.Date) (*service.DayDashboard, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DayDashboard), args.Error(1)
}

func (m *MockDashboardService) Week(ctx context.Context, userID uuid.UUID, start types.Date) (*service.WeekPlan, error) {
	args := m.Called(ctx, userID, start)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.WeekPlan), args.Error(1)
}
