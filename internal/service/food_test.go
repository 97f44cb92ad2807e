package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
	"github.com/pageza/nutriplan/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFoodSource struct {
	mock.Mock
}

func (m *mockFoodSource) Search(ctx context.Context, query string, limit int) ([]types.ExternalFood, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ExternalFood), args.Error(1)
}

func (m *mockFoodSource) Lookup(ctx context.Context, barcode string) (*types.ExternalFood, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ExternalFood), args.Error(1)
}

func foodNames(foods []models.FoodItem) []string {
	names := make([]string, 0, len(foods))
	for _, f := range foods {
		names = append(names, f.Name)
	}
	return names
}

func TestListFoodsVisibility(t *testing.T) {
	f := newPlannerFixture(t)
	svc := NewFoodService(f.db, nil)
	ctx := context.Background()
	other := testhelpers.CreateUser(t, f.db)

	_, err := svc.CreateFood(ctx, f.user.ID, &types.FoodRequest{Name: "Protein bar", Brand: "Acme", Calories: 380, ProteinG: 30})
	require.NoError(t, err)
	_, err = svc.CreateFood(ctx, other.ID, &types.FoodRequest{Name: "Secret stew", Calories: 90})
	require.NoError(t, err)

	foods, err := svc.ListFoods(ctx, f.user.ID, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Chicken breast", "Olive oil", "Protein bar", "White rice"}, foodNames(foods))

	foods, err = svc.ListFoods(ctx, f.user.ID, "acme")
	require.NoError(t, err)
	assert.Equal(t, []string{"Protein bar"}, foodNames(foods))

	foods, err = svc.ListFoods(ctx, f.user.ID, "stew")
	require.NoError(t, err)
	assert.Empty(t, foods, "another user's food is private")
}

func TestCreateFoodValidation(t *testing.T) {
	f := newPlannerFixture(t)
	svc := NewFoodService(f.db, nil)

	_, err := svc.CreateFood(context.Background(), f.user.ID, &types.FoodRequest{Name: " "})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)

	_, err = svc.CreateFood(context.Background(), f.user.ID, &types.FoodRequest{Name: "Odd", FatG: -1})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "fat_g", ve.Field)
}

func TestUpdateVerifiedFoodForksIt(t *testing.T) {
	f := newPlannerFixture(t)
	foods := NewFoodService(f.db, nil)
	meals := NewMealService(f.db, nil)
	ctx := context.Background()
	other := testhelpers.CreateUser(t, f.db)

	meal, err := meals.CreateMeal(ctx, f.user.ID, mustDate(t, "2024-06-10"), &types.CreateMealRequest{
		Name:  "Lunch",
		Foods: []types.FoodSpec{{FoodItemID: f.rice.ID, WeightG: 100}},
	})
	require.NoError(t, err)
	otherMeal, err := meals.CreateMeal(ctx, other.ID, mustDate(t, "2024-06-10"), &types.CreateMealRequest{
		Name:  "Lunch",
		Foods: []types.FoodSpec{{FoodItemID: f.rice.ID, WeightG: 100}},
	})
	require.NoError(t, err)

	req := &types.FoodRequest{Name: "White rice", Calories: 140, ProteinG: 3, CarbsG: 30}
	fork, err := foods.UpdateFood(ctx, f.user.ID, f.rice.ID, req)
	require.NoError(t, err)
	assert.NotEqual(t, f.rice.ID, fork.ID)
	require.NotNil(t, fork.BaseFoodItemID)
	assert.Equal(t, f.rice.ID, *fork.BaseFoodItemID)
	assert.False(t, fork.Verified)

	// A second edit updates the same fork.
	req.Calories = 150
	again, err := foods.UpdateFood(ctx, f.user.ID, f.rice.ID, req)
	require.NoError(t, err)
	assert.Equal(t, fork.ID, again.ID)
	assert.Equal(t, 150.0, again.Calories)

	list, err := foods.ListFoods(ctx, f.user.ID, "rice")
	require.NoError(t, err)
	require.Len(t, list, 1, "the fork replaces the verified item")
	assert.Equal(t, fork.ID, list[0].ID)

	reloaded, err := meals.GetMeal(ctx, f.user.ID, meal.ID)
	require.NoError(t, err)
	assert.Equal(t, fork.ID, reloaded.Foods[0].FoodItemID)

	untouched, err := meals.GetMeal(ctx, other.ID, otherMeal.ID)
	require.NoError(t, err)
	assert.Equal(t, f.rice.ID, untouched.Foods[0].FoodItemID, "other users keep the verified item")

	var base models.FoodItem
	require.NoError(t, f.db.First(&base, "id = ?", f.rice.ID).Error)
	assert.Equal(t, 130.0, base.Calories)

	original, err := foods.ResetFood(ctx, f.user.ID, f.rice.ID)
	require.NoError(t, err)
	assert.Equal(t, f.rice.ID, original.ID)

	reloaded, err = meals.GetMeal(ctx, f.user.ID, meal.ID)
	require.NoError(t, err)
	assert.Equal(t, f.rice.ID, reloaded.Foods[0].FoodItemID)

	_, err = foods.ResetFood(ctx, f.user.ID, f.rice.ID)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestDeleteFood(t *testing.T) {
	f := newPlannerFixture(t)
	foods := NewFoodService(f.db, nil)
	meals := NewMealService(f.db, nil)
	ctx := context.Background()

	own, err := foods.CreateFood(ctx, f.user.ID, &types.FoodRequest{Name: "Homemade granola", Calories: 450})
	require.NoError(t, err)
	used, err := foods.CreateFood(ctx, f.user.ID, &types.FoodRequest{Name: "Homemade bread", Calories: 250})
	require.NoError(t, err)
	_, err = meals.CreateMeal(ctx, f.user.ID, mustDate(t, "2024-06-10"), &types.CreateMealRequest{
		Name:  "Breakfast",
		Foods: []types.FoodSpec{{FoodItemID: used.ID, WeightG: 80}},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, foods.DeleteFood(ctx, f.user.ID, f.rice.ID), ErrNotFound, "verified items cannot be deleted")

	var ve *ValidationError
	assert.ErrorAs(t, foods.DeleteFood(ctx, f.user.ID, used.ID), &ve)

	require.NoError(t, foods.DeleteFood(ctx, f.user.ID, own.ID))
	_, err = foods.GetFood(ctx, f.user.ID, own.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchExternalIsBestEffort(t *testing.T) {
	f := newPlannerFixture(t)
	source := new(mockFoodSource)
	svc := NewFoodService(f.db, source)
	ctx := context.Background()

	source.On("Search", mock.Anything, "oat", externalFoodsLimit).
		Return([]types.ExternalFood{{Name: "Rolled oats", Calories: 379}}, nil)
	source.On("Search", mock.Anything, "down", externalFoodsLimit).
		Return(nil, assert.AnError)

	assert.Len(t, svc.SearchExternal(ctx, "oat"), 1)
	down := svc.SearchExternal(ctx, "down")
	assert.NotNil(t, down)
	assert.Empty(t, down)
	assert.Empty(t, svc.SearchExternal(ctx, "  "))
	source.AssertExpectations(t)
}

func TestImportExternal(t *testing.T) {
	f := newPlannerFixture(t)
	source := new(mockFoodSource)
	svc := NewFoodService(f.db, source)
	ctx := context.Background()

	source.On("Lookup", mock.Anything, "3017620422003").
		Return(&types.ExternalFood{Name: "Nutella", Brand: "Ferrero", Barcode: "3017620422003", Calories: 539, ProteinG: 6.3, CarbsG: 57.5, FatG: 30.9}, nil).
		Once()

	food, err := svc.ImportExternal(ctx, f.user.ID, &types.ExternalFood{Barcode: "3017620422003"})
	require.NoError(t, err)
	assert.Equal(t, "Nutella", food.Name)
	assert.Equal(t, models.FoodSourceOpenFoodFacts, food.Source)
	assert.True(t, food.OwnedBy(f.user.ID))
	assert.Equal(t, nutrition.Per100g{Calories: 539, ProteinG: 6.3, CarbsG: 57.5, FatG: 30.9}, food.Per100g())

	again, err := svc.ImportExternal(ctx, f.user.ID, &types.ExternalFood{Barcode: "3017620422003"})
	require.NoError(t, err)
	assert.Equal(t, food.ID, again.ID, "a known barcode is not imported twice")
	source.AssertExpectations(t)

	_, err = svc.ImportExternal(ctx, f.user.ID, &types.ExternalFood{})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestGetFoodUnknown(t *testing.T) {
	f := newPlannerFixture(t)
	svc := NewFoodService(f.db, nil)
	_, err := svc.GetFood(context.Background(), f.user.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
