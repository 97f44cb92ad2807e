package nutrition

import (
	"math"
	"sort"
	"time"
)

// MealStatus is the two-state completion flag of a meal.
type MealStatus string

const (
	StatusPending MealStatus = "pending"
	StatusDone    MealStatus = "done"
)

// Valid reports whether s is pending or done.
func (s MealStatus) Valid() bool {
	return s == StatusPending || s == StatusDone
}

// Toggled flips pending and done.
func (s MealStatus) Toggled() MealStatus {
	if s == StatusDone {
		return StatusPending
	}
	return StatusDone
}

// Per100g holds a food's nutrition values per 100 g.
type Per100g struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// FoodEntry is one food in a meal, already resolved against its food item.
type FoodEntry struct {
	ID      string
	WeightG float64
	Food    Per100g
}

// MealEntry is the read model the aggregator works on.
type MealEntry struct {
	ID     string
	Date   time.Time
	Status MealStatus
	Foods  []FoodEntry
}

// Totals are summed nutrition values. Calories are whole numbers because each
// contribution is rounded; the macros stay fractional until Rounded is called.
type Totals struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// Add returns t + o.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Calories: t.Calories + o.Calories,
		ProteinG: t.ProteinG + o.ProteinG,
		CarbsG:   t.CarbsG + o.CarbsG,
		FatG:     t.FatG + o.FatG,
	}
}

// Sub returns t - o.
func (t Totals) Sub(o Totals) Totals {
	return Totals{
		Calories: t.Calories - o.Calories,
		ProteinG: t.ProteinG - o.ProteinG,
		CarbsG:   t.CarbsG - o.CarbsG,
		FatG:     t.FatG - o.FatG,
	}
}

// Scale divides every field by n. Scale(0) returns zero totals.
func (t Totals) Scale(n int) Totals {
	if n == 0 {
		return Totals{}
	}
	d := float64(n)
	return Totals{Calories: t.Calories / d, ProteinG: t.ProteinG / d, CarbsG: t.CarbsG / d, FatG: t.FatG / d}
}

// Rounded applies display rounding.
func (t Totals) Rounded() Totals {
	return Totals{
		Calories: math.Round(t.Calories),
		ProteinG: math.Round(t.ProteinG),
		CarbsG:   math.Round(t.CarbsG),
		FatG:     math.Round(t.FatG),
	}
}

// Contribution is what weightG grams of food add to a meal.
func Contribution(food Per100g, weightG float64) Totals {
	f := weightG / 100
	return Totals{
		Calories: math.Round(food.Calories * f),
		ProteinG: food.ProteinG * f,
		CarbsG:   food.CarbsG * f,
		FatG:     food.FatG * f,
	}
}

type keyedContribution struct {
	mealID string
	foodID string
	totals Totals
}

// sumCanonical adds contributions sorted by (meal id, meal-food id) so that the
// float result does not depend on the order the caller listed meals or foods in.
func sumCanonical(cs []keyedContribution) Totals {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].mealID != cs[j].mealID {
			return cs[i].mealID < cs[j].mealID
		}
		return cs[i].foodID < cs[j].foodID
	})
	var t Totals
	for _, c := range cs {
		t = t.Add(c.totals)
	}
	return t
}

func collect(meals []MealEntry, include func(MealEntry) bool) []keyedContribution {
	var cs []keyedContribution
	for _, m := range meals {
		if include != nil && !include(m) {
			continue
		}
		for _, f := range m.Foods {
			cs = append(cs, keyedContribution{mealID: m.ID, foodID: f.ID, totals: Contribution(f.Food, f.WeightG)})
		}
	}
	return cs
}

// MealTotals sums one meal regardless of its status.
func MealTotals(m MealEntry) Totals {
	return sumCanonical(collect([]MealEntry{m}, nil))
}

// Planned sums every meal.
func Planned(meals []MealEntry) Totals {
	return sumCanonical(collect(meals, nil))
}

// Consumed sums only meals marked done.
func Consumed(meals []MealEntry) Totals {
	return sumCanonical(collect(meals, func(m MealEntry) bool { return m.Status == StatusDone }))
}
