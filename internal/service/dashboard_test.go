package service

import (
	"context"
	"testing"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
	"github.com/pageza/nutriplan/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDashboard(db *gorm.DB) *DashboardService {
	return NewDashboardService(
		NewProfileService(db),
		NewMealService(db, nil),
		NewWaterService(db, nil),
		NewSupplementService(db, nil),
		NewProgressService(db, nil),
	)
}

func TestDayDashboardTotals(t *testing.T) {
	f := newPlannerFixture(t)
	ctx := context.Background()
	day := mustDate(t, "2024-06-10")

	yogurt := testhelpers.CreateFood(t, f.db, "Yogurt", nutrition.Per100g{Calories: 100, ProteinG: 10})
	granola := testhelpers.CreateFood(t, f.db, "Granola", nutrition.Per100g{Calories: 300, ProteinG: 10})
	pizza := testhelpers.CreateFood(t, f.db, "Pizza", nutrition.Per100g{Calories: 250, ProteinG: 11})

	testhelpers.CreateMeal(t, f.db, f.user.ID, day, "Breakfast", 0, nutrition.StatusDone,
		models.MealFood{FoodItemID: yogurt.ID, WeightG: 200},
		models.MealFood{FoodItemID: granola.ID, WeightG: 50},
	)
	testhelpers.CreateMeal(t, f.db, f.user.ID, day, "Dinner", 1, nutrition.StatusPending,
		models.MealFood{FoodItemID: pizza.ID, WeightG: 200},
	)

	water := NewWaterService(f.db, nil)
	_, err := water.Add(ctx, f.user.ID, &types.WaterRequest{Date: day, AmountML: 500})
	require.NoError(t, err)
	_, err = water.Add(ctx, f.user.ID, &types.WaterRequest{Date: day, AmountML: 250})
	require.NoError(t, err)

	dash, err := newDashboard(f.db).Day(ctx, f.user.ID, day)
	require.NoError(t, err)

	require.Len(t, dash.Meals, 2)
	assert.Equal(t, 350.0, dash.Meals[0].Totals.Calories)
	assert.Equal(t, 25.0, dash.Meals[0].Totals.ProteinG)
	assert.Equal(t, 500.0, dash.Meals[1].Totals.Calories)

	assert.Equal(t, 350.0, dash.Consumed.Calories, "pending meals are not consumed")
	assert.Equal(t, 850.0, dash.Planned.Calories)
	assert.Equal(t, 2259, dash.Targets.Calories)
	assert.Equal(t, float64(2259-350), dash.Remaining.Calories)
	assert.Equal(t, float64(160-25), dash.Remaining.ProteinG)

	assert.Equal(t, 750, dash.Water.TotalML)
	assert.Equal(t, models.DefaultWaterTargetML, dash.Water.TargetML)
	assert.Len(t, dash.Water.Logs, 2)
	assert.False(t, dash.OnboardingRequired)
	assert.Nil(t, dash.LatestWeight)
	assert.Empty(t, dash.Supplements)
}

func TestDayDashboardWithoutProfile(t *testing.T) {
	f := newPlannerFixture(t)
	user := newAccount(t, f)

	dash, err := newDashboard(f.db).Day(context.Background(), user.ID, mustDate(t, "2024-06-10"))
	require.NoError(t, err)
	assert.True(t, dash.OnboardingRequired)
	assert.Zero(t, dash.Targets.Calories)
	assert.Empty(t, dash.Meals)
}

func TestDayDashboardLogs(t *testing.T) {
	f := newPlannerFixture(t)
	ctx := context.Background()
	day := mustDate(t, "2024-06-10")

	supplements := NewSupplementService(f.db, nil)
	creatine, err := supplements.Create(ctx, f.user.ID, &types.SupplementRequest{Name: "Creatine", Dosage: "5", Unit: "g"})
	require.NoError(t, err)
	_, err = supplements.Create(ctx, f.user.ID, &types.SupplementRequest{Name: "Vitamin D", Active: ptr(false)})
	require.NoError(t, err)
	_, err = supplements.SetTaken(ctx, f.user.ID, creatine.ID, day, true)
	require.NoError(t, err)

	progress := NewProgressService(f.db, nil)
	_, err = progress.AddWeight(ctx, f.user.ID, &types.WeightLogRequest{Date: day.AddDays(-7), WeightKg: 81})
	require.NoError(t, err)
	_, err = progress.AddWeight(ctx, f.user.ID, &types.WeightLogRequest{Date: day, WeightKg: 80.2})
	require.NoError(t, err)

	dash, err := newDashboard(f.db).Day(ctx, f.user.ID, day)
	require.NoError(t, err)
	require.Len(t, dash.Supplements, 1, "inactive supplements are hidden")
	assert.Equal(t, "Creatine", dash.Supplements[0].Name)
	assert.True(t, dash.Supplements[0].Taken)
	require.NotNil(t, dash.LatestWeight)
	assert.Equal(t, 80.2, dash.LatestWeight.WeightKg)
}

func TestWeekPlan(t *testing.T) {
	f := newPlannerFixture(t)
	ctx := context.Background()
	monday := mustDate(t, "2024-06-10")

	testhelpers.CreateMeal(t, f.db, f.user.ID, monday, "Lunch", 0, nutrition.StatusDone,
		models.MealFood{FoodItemID: f.rice.ID, WeightG: 200})
	testhelpers.CreateMeal(t, f.db, f.user.ID, monday.AddDays(6), "Brunch", 0, nutrition.StatusPending,
		models.MealFood{FoodItemID: f.chicken.ID, WeightG: 100})
	testhelpers.CreateMeal(t, f.db, f.user.ID, monday.AddDays(7), "Next week", 0, nutrition.StatusDone,
		models.MealFood{FoodItemID: f.chicken.ID, WeightG: 100})

	plan, err := newDashboard(f.db).Week(ctx, f.user.ID, monday.AddDays(3))
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", plan.Start)
	require.Len(t, plan.Days, 7)
	require.Len(t, plan.Meals, 7)
	assert.Equal(t, 260.0, plan.Days[0].Consumed.Calories)
	assert.Equal(t, 165.0, plan.Days[6].Planned.Calories)
	assert.Equal(t, 425.0, plan.PlannedTotal.Calories)
	assert.Equal(t, 260.0, plan.ConsumedTotal.Calories)
	assert.Equal(t, 2259, plan.Days[0].TargetKcal)
	assert.Equal(t, "2024-06-16", plan.Meals[6].Date)
	require.Len(t, plan.Meals[6].Meals, 1)
	assert.Equal(t, "Brunch", plan.Meals[6].Meals[0].Name)
}
