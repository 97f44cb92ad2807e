// Package integration runs the planner services against PostgreSQL with the
// SQL migrations applied. The tests are skipped without docker.
package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
	"github.com/pageza/nutriplan/backend/internal/types"
)

type planner struct {
	db        *gorm.DB
	user      *models.User
	meals     *service.MealService
	foods     *service.FoodService
	templates *service.TemplateService
	dashboard *service.DashboardService
}

func newPlanner(t *testing.T) *planner {
	t.Helper()
	db := testhelpers.SetupPostgres(t)

	profiles := service.NewProfileService(db)
	meals := service.NewMealService(db, nil)
	water := service.NewWaterService(db, nil)
	supplements := service.NewSupplementService(db, nil)
	progress := service.NewProgressService(db, nil)
	return &planner{
		db:        db,
		user:      testhelpers.CreateUser(t, db),
		meals:     meals,
		foods:     service.NewFoodService(db, nil),
		templates: service.NewTemplateService(db, meals, nil),
		dashboard: service.NewDashboardService(profiles, meals, water, supplements, progress),
	}
}

func day(t *testing.T, s string) types.Date {
	t.Helper()
	d, err := types.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestMealOrderingOnPostgres(t *testing.T) {
	p := newPlanner(t)
	ctx := context.Background()
	date := day(t, "2024-06-10")

	var ids []uuid.UUID
	for _, name := range []string{"m1", "m2", "m3", "m4"} {
		meal, err := p.meals.CreateMeal(ctx, p.user.ID, date, &types.CreateMealRequest{Name: name})
		require.NoError(t, err)
		ids = append(ids, meal.ID)
	}

	result, err := p.meals.MoveMeal(ctx, p.user.ID, date, &types.MoveRequest{ActiveID: ids[1], OverID: ids[3]})
	require.NoError(t, err)
	assert.True(t, result.Moved)
	assert.Equal(t, []uuid.UUID{ids[0], ids[2], ids[3], ids[1]}, result.Order)

	meals, err := p.meals.ListMeals(ctx, p.user.ID, date)
	require.NoError(t, err)
	var names []string
	for i, m := range meals {
		names = append(names, m.Name)
		assert.Equal(t, i, m.OrderIndex)
	}
	assert.Equal(t, []string{"m1", "m3", "m4", "m2"}, names)
}

func TestFoodRankingOnPostgres(t *testing.T) {
	p := newPlanner(t)
	ctx := context.Background()

	testhelpers.CreateFood(t, p.db, "Greek yogurt", nutrition.Per100g{Calories: 59, ProteinG: 10, CarbsG: 3.6, FatG: 0.4})
	testhelpers.CreateFood(t, p.db, "Chicken breast", nutrition.Per100g{Calories: 165, ProteinG: 31, FatG: 3.6})
	testhelpers.CreateFood(t, p.db, "Brown rice", nutrition.Per100g{Calories: 123, ProteinG: 2.7, CarbsG: 25.6, FatG: 1})

	testhelpers.CreateFood(t, p.db, "Greek salad", nutrition.Per100g{Calories: 106, ProteinG: 4, CarbsG: 5, FatG: 8})

	foods, err := p.foods.ListFoods(ctx, p.user.ID, "greek")
	require.NoError(t, err)
	var names []string
	for _, f := range foods {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"Greek yogurt", "Greek salad"}, names)

	foods, err = p.foods.ListFoods(ctx, p.user.ID, "greek yog")
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.Equal(t, "Greek yogurt", foods[0].Name)
}

func TestTemplateRoundTripOnPostgres(t *testing.T) {
	p := newPlanner(t)
	ctx := context.Background()
	oats := testhelpers.CreateFood(t, p.db, "Oats", nutrition.Per100g{Calories: 389, ProteinG: 16.9, CarbsG: 66.3, FatG: 6.9})

	monday := day(t, "2024-06-10")
	_, err := p.meals.CreateMeal(ctx, p.user.ID, monday, &types.CreateMealRequest{
		Name:  "Breakfast",
		Foods: []types.FoodSpec{{FoodItemID: oats.ID, WeightG: 80}},
	})
	require.NoError(t, err)

	tpl, err := p.templates.SaveDayTemplate(ctx, p.user.ID, "Training day", monday)
	require.NoError(t, err)
	assert.Equal(t, 1, tpl.FoodCount)

	tuesday := day(t, "2024-06-11")
	applied, err := p.templates.ApplyTemplate(ctx, p.user.ID, tpl.ID, tuesday)
	require.NoError(t, err)
	require.Len(t, applied, 1)

	week, err := p.dashboard.Week(ctx, p.user.ID, tuesday)
	require.NoError(t, err)
	assert.InDelta(t, 2*389*0.8, week.PlannedTotal.Calories, 0.5)
	assert.Zero(t, week.ConsumedTotal.Calories)
}
