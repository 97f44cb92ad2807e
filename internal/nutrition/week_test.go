package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfWeek(t *testing.T) {
	assert.Equal(t, date(2024, 6, 10), StartOfWeek(date(2024, 6, 10)), "monday maps to itself")
	assert.Equal(t, date(2024, 6, 10), StartOfWeek(date(2024, 6, 13)))
	assert.Equal(t, date(2024, 6, 10), StartOfWeek(date(2024, 6, 16)), "sunday belongs to the week before")
	assert.Equal(t, date(2024, 12, 30), StartOfWeek(date(2025, 1, 1)))
}

func TestWeek(t *testing.T) {
	meals := scenarioMeals()
	meals = append(meals,
		MealEntry{ID: "meal-3", Date: date(2024, 6, 12), Status: StatusDone, Foods: []FoodEntry{
			{ID: "mf-4", WeightG: 100, Food: Per100g{Calories: 700, ProteinG: 35}},
		}},
		MealEntry{ID: "outside", Date: date(2024, 6, 17), Status: StatusDone, Foods: []FoodEntry{
			{ID: "mf-5", WeightG: 100, Food: Per100g{Calories: 9999}},
		}},
	)

	w := Week(date(2024, 6, 10), meals, 2000)
	require.Len(t, w.Days, 7)
	assert.Equal(t, "2024-06-10", w.Start)
	assert.Equal(t, "2024-06-16", w.Days[6].Date)

	monday := w.Days[0]
	assert.Equal(t, 2, monday.MealCount)
	assert.Equal(t, 1, monday.DoneCount)
	assert.Equal(t, 350.0, monday.Consumed.Calories)
	assert.Equal(t, 850.0, monday.Planned.Calories)
	assert.Equal(t, 2000, monday.TargetKcal)

	assert.Equal(t, 700.0, w.Days[2].Consumed.Calories)
	assert.Equal(t, 0, w.Days[1].MealCount)

	assert.Equal(t, 1050.0, w.ConsumedTotal.Calories)
	assert.Equal(t, 1550.0, w.PlannedTotal.Calories)
	assert.Equal(t, 150.0, w.ConsumedAverage.Calories)
}
