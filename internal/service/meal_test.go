package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
	"github.com/pageza/nutriplan/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMealAppendsToDay(t *testing.T) {
	f := newPlannerFixture(t)
	notifier := &recordingNotifier{}
	svc := NewMealService(f.db, notifier)
	ctx := context.Background()
	day := mustDate(t, "2024-06-10")

	breakfast, err := svc.CreateMeal(ctx, f.user.ID, day, &types.CreateMealRequest{Name: "Breakfast", Time: "08:00"})
	require.NoError(t, err)
	lunch, err := svc.CreateMeal(ctx, f.user.ID, day, &types.CreateMealRequest{
		Name: " Lunch ",
		Time: "12:30",
		Foods: []types.FoodSpec{
			{FoodItemID: f.chicken.ID, WeightG: 150},
			{FoodItemID: f.rice.ID, WeightG: 200},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, breakfast.OrderIndex)
	assert.Equal(t, 1, lunch.OrderIndex)
	assert.Equal(t, "Lunch", lunch.Name)
	assert.Equal(t, nutrition.StatusPending, lunch.Status)
	require.Len(t, lunch.Foods, 2)
	assert.Equal(t, f.chicken.ID, lunch.Foods[0].FoodItemID)
	require.NotNil(t, lunch.Foods[0].FoodItem)
	assert.Equal(t, "Chicken breast", lunch.Foods[0].FoodItem.Name)
	assert.Equal(t, 1, lunch.Foods[1].OrderIndex)

	assert.Len(t, notifier.Changes(), 2)
	assert.Equal(t, "2024-06-10", notifier.Changes()[0].Date)
}

func TestCreateMealValidation(t *testing.T) {
	f := newPlannerFixture(t)
	svc := NewMealService(f.db, nil)
	ctx := context.Background()
	day := mustDate(t, "2024-06-10")

	cases := []struct {
		name  string
		date  types.Date
		req   types.CreateMealRequest
		field string
	}{
		{"missing date", types.Date{}, types.CreateMealRequest{Name: "Lunch"}, "date"},
		{"blank name", day, types.CreateMealRequest{Name: "  "}, "name"},
		{"bad time", day, types.CreateMealRequest{Name: "Lunch", Time: "noon"}, "time"},
		{"zero weight", day, types.CreateMealRequest{Name: "Lunch", Foods: []types.FoodSpec{{FoodItemID: f.rice.ID}}}, "weight_g"},
		{"unknown food", day, types.CreateMealRequest{Name: "Lunch", Foods: []types.FoodSpec{{FoodItemID: uuid.New(), WeightG: 10}}}, "food_item_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			_, err := svc.CreateMeal(ctx, f.user.ID, tc.date, &req)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}

	meals, err := svc.ListMeals(ctx, f.user.ID, day)
	require.NoError(t, err)
	assert.Empty(t, meals, "rejected meals must not be written")
}

func TestMealRequiresUser(t *testing.T) {
	f := newPlannerFixture(t)
	svc := NewMealService(f.db, nil)

	_, err := svc.ListMeals(context.Background(), uuid.Nil, mustDate(t, "2024-06-10"))
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestMealsAreScopedToOwner(t *testing.T) {
	f := newPlannerFixture(t)
	svc := NewMealService(f.db, nil)
	ctx := context.Background()
	other := testhelpers.CreateUser(t, f.db)
	meal := testhelpers.CreateMeal(t, f.db, f.user.ID, mustDate(t, "2024-06-10"), "Dinner", 0, nutrition.StatusPending)

	_, err := svc.GetMeal(ctx, other.ID, meal.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	var se *StorageError
	assert.ErrorAs(t, err, &se)

	assert.ErrorIs(t, svc.DeleteMeal(ctx, other.ID, meal.ID), ErrNotFound)

	got, err := svc.GetMeal(ctx, f.user.ID, meal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dinner", got.Name)
}

func seedDay(t *testing.T, f *plannerFixture, day types.Date, names ...string) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, 0, len(names))
	for i, name := range names {
		m := testhelpers.CreateMeal(t, f.db, f.user.ID, day, name, i, nutrition.StatusPending)
		ids = append(ids, m.ID)
	}
	return ids
}

func TestMoveMealPersistsNewOrder(t *testing.T) {
	f := newPlannerFixture(t)
	notifier := &recordingNotifier{}
	svc := NewMealService(f.db, notifier)
	ctx := context.Background()
	day := mustDate(t, "2024-06-10")
	ids := seedDay(t, f, day, "m1", "m2", "m3", "m4")

	result, err := svc.MoveMeal(ctx, f.user.ID, day, &types.MoveRequest{ActiveID: ids[1], OverID: ids[3]})
	require.NoError(t, err)
	assert.True(t, result.Moved)
	want := []uuid.UUID{ids[0], ids[2], ids[3], ids[1]}
	assert.Equal(t, want, result.Order)

	meals, err := svc.ListMeals(ctx, f.user.ID, day)
	require.NoError(t, err)
	var names []string
	for i, m := range meals {
		names = append(names, m.Name)
		assert.Equal(t, i, m.OrderIndex)
	}
	assert.Equal(t, []string{"m1", "m3", "m4", "m2"}, names)
	assert.Len(t, notifier.Changes(), 1)
}

func TestMoveMealAcrossDaysIsNoop(t *testing.T) {
	f := newPlannerFixture(t)
	notifier := &recordingNotifier{}
	svc := NewMealService(f.db, notifier)
	ctx := context.Background()
	day := mustDate(t, "2024-06-10")
	ids := seedDay(t, f, day, "m1", "m2", "m3")
	other := seedDay(t, f, day.AddDays(1), "x1")

	result, err := svc.MoveMeal(ctx, f.user.ID, day, &types.MoveRequest{ActiveID: ids[0], OverID: ids[2], TargetScope: "2024-06-11"})
	require.NoError(t, err)
	assert.False(t, result.Moved)
	assert.Equal(t, ids, result.Order)

	result, err = svc.MoveMeal(ctx, f.user.ID, day, &types.MoveRequest{ActiveID: ids[0], OverID: other[0]})
	require.NoError(t, err)
	assert.False(t, result.Moved, "a meal of another day is not a sibling")
	assert.Empty(t, notifier.Changes())
}

func TestMoveNormalisesTargetScope(t *testing.T) {
	f := newPlannerFixture(t)
	svc := NewMealService(f.db, nil)
	ctx := context.Background()
	day := mustDate(t, "2024-06-10")
	ids := seedDay(t, f, day, "m1", "m2", "m3")

	result, err := svc.MoveMeal(ctx, f.user.ID, day, &types.MoveRequest{ActiveID: ids[0], OverID: ids[2], TargetScope: " 2024-06-10 "})
	require.NoError(t, err)
	assert.True(t, result.Moved, "a padded date names the same day")

	_, err = svc.MoveMeal(ctx, f.user.ID, day, &types.MoveRequest{ActiveID: ids[0], OverID: ids[1], TargetScope: "tomorrow"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "target_scope", ve.Field)

	meal, err := svc.CreateMeal(ctx, f.user.ID, day, &types.CreateMealRequest{
		Name: "Dinner",
		Foods: []types.FoodSpec{
			{FoodItemID: f.chicken.ID, WeightG: 150},
			{FoodItemID: f.rice.ID, WeightG: 200},
		},
	})
	require.NoError(t, err)
	foodIDs := models.MealFoodIDs(meal.Foods)

	result, err = svc.MoveMealFood(ctx, f.user.ID, meal.ID, &types.MoveRequest{ActiveID: foodIDs[0], OverID: foodIDs[1], TargetScope: strings.ToUpper(meal.ID.String())})
	require.NoError(t, err)
	assert.True(t, result.Moved, "an upper-case id names the same meal")
	assert.Equal(t, []uuid.UUID{foodIDs[1], foodIDs[0]}, result.Order)

	_, err = svc.MoveMealFood(ctx, f.user.ID, meal.ID, &types.MoveRequest{ActiveID: foodIDs[0], OverID: foodIDs[1], TargetScope: "lunch"})
	require.ErrorAs(t, err, &ve)
}

func TestReorderMealsRejectsPartialOrder(t *testing.T) {
	f := newPlannerFixture(t)
	svc := NewMealService(f.db, nil)
	ctx := context.Background()
	day := mustDate(t, "2024-06-10")
	ids := seedDay(t, f, day, "a", "b", "c")

	_, err := svc.ReorderMeals(ctx, f.user.ID, day, []uuid.UUID{ids[2], ids[0]})
	var re *ReorderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ids, re.Order, "the error carries the authoritative order")
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))

	order, err := svc.ReorderMeals(ctx, f.user.ID, day, []uuid.UUID{ids[2], ids[0], ids[1]})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{ids[2], ids[0], ids[1]}, order)

	meals, err := svc.ListMeals(ctx, f.user.ID, day)
	require.NoError(t, err)
	assert.Equal(t, order, models.MealIDs(meals))
}

func TestMealFoodOrdering(t *testing.T) {
	f := newPlannerFixture(t)
	svc := NewMealService(f.db, nil)
	ctx := context.Background()
	day := mustDate(t, "2024-06-10")
	meal, err := svc.CreateMeal(ctx, f.user.ID, day, &types.CreateMealRequest{
		Name: "Lunch",
		Foods: []types.FoodSpec{
			{FoodItemID: f.chicken.ID, WeightG: 150},
			{FoodItemID: f.rice.ID, WeightG: 200},
		},
	})
	require.NoError(t, err)

	added, err := svc.AddMealFood(ctx, f.user.ID, meal.ID, &types.AddMealFoodRequest{FoodItemID: f.oil.ID, WeightG: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, added.OrderIndex)
	require.NotNil(t, added.FoodItem)

	foodIDs := models.MealFoodIDs(append(meal.Foods, *added))
	result, err := svc.MoveMealFood(ctx, f.user.ID, meal.ID, &types.MoveRequest{ActiveID: foodIDs[2], OverID: foodIDs[0]})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{foodIDs[2], foodIDs[0], foodIDs[1]}, result.Order)

	result, err = svc.MoveMealFood(ctx, f.user.ID, meal.ID, &types.MoveRequest{ActiveID: foodIDs[0], OverID: foodIDs[1], TargetScope: uuid.NewString()})
	require.NoError(t, err)
	assert.False(t, result.Moved)

	reloaded, err := svc.GetMeal(ctx, f.user.ID, meal.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{foodIDs[2], foodIDs[0], foodIDs[1]}, models.MealFoodIDs(reloaded.Foods))

	_, err = svc.ReorderMealFoods(ctx, f.user.ID, meal.ID, foodIDs[:2])
	var re *ReorderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, result.Order, re.Order)
}

func TestMealFoodWeightAndDelete(t *testing.T) {
	f := newPlannerFixture(t)
	svc := NewMealService(f.db, nil)
	ctx := context.Background()
	meal, err := svc.CreateMeal(ctx, f.user.ID, mustDate(t, "2024-06-10"), &types.CreateMealRequest{
		Name:  "Snack",
		Foods: []types.FoodSpec{{FoodItemID: f.rice.ID, WeightG: 100}},
	})
	require.NoError(t, err)
	mfID := meal.Foods[0].ID

	_, err = svc.UpdateMealFood(ctx, f.user.ID, mfID, 0)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	updated, err := svc.UpdateMealFood(ctx, f.user.ID, mfID, 250)
	require.NoError(t, err)
	assert.Equal(t, 250.0, updated.WeightG)
	require.NotNil(t, updated.FoodItem)

	stranger := testhelpers.CreateUser(t, f.db)
	assert.ErrorIs(t, svc.DeleteMealFood(ctx, stranger.ID, mfID), ErrNotFound)
	require.NoError(t, svc.DeleteMealFood(ctx, f.user.ID, mfID))

	reloaded, err := svc.GetMeal(ctx, f.user.ID, meal.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Foods)
}

func TestToggleMealStatus(t *testing.T) {
	f := newPlannerFixture(t)
	notifier := &recordingNotifier{}
	svc := NewMealService(f.db, notifier)
	ctx := context.Background()
	meal := testhelpers.CreateMeal(t, f.db, f.user.ID, mustDate(t, "2024-06-10"), "Dinner", 0, nutrition.StatusPending)

	toggled, err := svc.ToggleMealStatus(ctx, f.user.ID, meal.ID)
	require.NoError(t, err)
	assert.Equal(t, nutrition.StatusDone, toggled.Status)

	toggled, err = svc.ToggleMealStatus(ctx, f.user.ID, meal.ID)
	require.NoError(t, err)
	assert.Equal(t, nutrition.StatusPending, toggled.Status)

	_, err = svc.SetMealStatus(ctx, f.user.ID, meal.ID, "skipped")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Len(t, notifier.Changes(), 2)
}

func TestUpdateMealMovesToEndOfNewDay(t *testing.T) {
	f := newPlannerFixture(t)
	notifier := &recordingNotifier{}
	svc := NewMealService(f.db, notifier)
	ctx := context.Background()
	monday := mustDate(t, "2024-06-10")
	tuesday := monday.AddDays(1)
	ids := seedDay(t, f, monday, "a", "b")
	seedDay(t, f, tuesday, "x", "y")

	name := "Late snack"
	updated, err := svc.UpdateMeal(ctx, f.user.ID, ids[0], &types.UpdateMealRequest{Name: &name, Date: &tuesday})
	require.NoError(t, err)
	assert.Equal(t, "Late snack", updated.Name)
	assert.Equal(t, "2024-06-11", updated.Date.String())
	assert.Equal(t, 2, updated.OrderIndex)

	meals, err := svc.ListMeals(ctx, f.user.ID, tuesday)
	require.NoError(t, err)
	assert.Len(t, meals, 3)
	assert.Equal(t, "Late snack", meals[2].Name)

	changed := notifier.Changes()
	require.Len(t, changed, 2)
	assert.Equal(t, "2024-06-10", changed[0].Date)
	assert.Equal(t, "2024-06-11", changed[1].Date)
}

func TestDeleteMealRemovesFoods(t *testing.T) {
	f := newPlannerFixture(t)
	svc := NewMealService(f.db, nil)
	ctx := context.Background()
	meal, err := svc.CreateMeal(ctx, f.user.ID, mustDate(t, "2024-06-10"), &types.CreateMealRequest{
		Name:  "Lunch",
		Foods: []types.FoodSpec{{FoodItemID: f.rice.ID, WeightG: 100}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMeal(ctx, f.user.ID, meal.ID))

	var count int64
	require.NoError(t, f.db.Model(&models.MealFood{}).Where("meal_id = ?", meal.ID).Count(&count).Error)
	assert.Zero(t, count)
	_, err = svc.GetMeal(ctx, f.user.ID, meal.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
