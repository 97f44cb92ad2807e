package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// DayTargets are the cached daily goals of a profile.
type DayTargets struct {
	Calories int `json:"calories"`
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatG     int `json:"fat_g"`
	WaterML  int `json:"water_ml"`
}

// MealView is a meal with its rounded totals.
type MealView struct {
	models.Meal
	Totals nutrition.Totals `json:"totals"`
}

// WaterSummary is the day's hydration against the target.
type WaterSummary struct {
	TotalML  int               `json:"total_ml"`
	TargetML int               `json:"target_ml"`
	Logs     []models.WaterLog `json:"logs"`
}

// DayDashboard is everything the daily view renders.
type DayDashboard struct {
	Date               types.Date         `json:"date"`
	OnboardingRequired bool               `json:"onboarding_required"`
	Targets            DayTargets         `json:"targets"`
	Meals              []MealView         `json:"meals"`
	Planned            nutrition.Totals   `json:"planned"`
	Consumed           nutrition.Totals   `json:"consumed"`
	Remaining          nutrition.Totals   `json:"remaining"`
	Water              WaterSummary       `json:"water"`
	Supplements        []SupplementStatus `json:"supplements"`
	LatestWeight       *models.WeightLog  `json:"latest_weight"`
}

// WeekDay is one column of the weekly planner.
type WeekDay struct {
	Date  string     `json:"date"`
	Meals []MealView `json:"meals"`
}

// WeekPlan is the weekly planner: the summary plus the meals of each day.
type WeekPlan struct {
	nutrition.WeekSummary
	Meals []WeekDay `json:"meals_by_day"`
}

// DashboardService assembles read models from the other services.
type DashboardService struct {
	profiles    *ProfileService
	meals       *MealService
	water       *WaterService
	supplements *SupplementService
	progress    *ProgressService
}

var _ IDashboardService = (*DashboardService)(nil)

func NewDashboardService(profiles *ProfileService, meals *MealService, water *WaterService, supplements *SupplementService, progress *ProgressService) *DashboardService {
	return &DashboardService{
		profiles:    profiles,
		meals:       meals,
		water:       water,
		supplements: supplements,
		progress:    progress,
	}
}

func mealViews(meals []models.Meal) []MealView {
	views := make([]MealView, 0, len(meals))
	for _, m := range meals {
		views = append(views, MealView{Meal: m, Totals: nutrition.MealTotals(m.Entry()).Rounded()})
	}
	return views
}

// targets returns the profile targets, or false when onboarding is not done.
func (s *DashboardService) targets(ctx context.Context, userID uuid.UUID) (DayTargets, bool, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return DayTargets{WaterML: models.DefaultWaterTargetML}, false, nil
	}
	if err != nil {
		return DayTargets{}, false, err
	}
	return DayTargets{
		Calories: profile.TargetCalories,
		ProteinG: profile.TargetProteinG,
		CarbsG:   profile.TargetCarbsG,
		FatG:     profile.TargetFatG,
		WaterML:  profile.WaterTargetML,
	}, profile.OnboardingCompletedAt != nil, nil
}

// Day builds the daily dashboard. Consumed counts only meals marked done;
// remaining is the calorie and macro target minus consumed and may go negative.
func (s *DashboardService) Day(ctx context.Context, userID uuid.UUID, date types.Date) (*DayDashboard, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, invalid("date", "is required")
	}

	targets, onboarded, err := s.targets(ctx, userID)
	if err != nil {
		return nil, err
	}
	meals, err := s.meals.ListMeals(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	waterLogs, err := s.water.List(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	supplements, err := s.supplements.ForDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	latest, err := s.progress.LatestWeight(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := models.Entries(meals)
	planned := nutrition.Planned(entries).Rounded()
	consumed := nutrition.Consumed(entries).Rounded()
	goal := nutrition.Totals{
		Calories: float64(targets.Calories),
		ProteinG: float64(targets.ProteinG),
		CarbsG:   float64(targets.CarbsG),
		FatG:     float64(targets.FatG),
	}

	return &DayDashboard{
		Date:               date,
		OnboardingRequired: !onboarded,
		Targets:            targets,
		Meals:              mealViews(meals),
		Planned:            planned,
		Consumed:           consumed,
		Remaining:          goal.Sub(consumed),
		Water: WaterSummary{
			TotalML:  TotalML(waterLogs),
			TargetML: targets.WaterML,
			Logs:     waterLogs,
		},
		Supplements:  supplements,
		LatestWeight: latest,
	}, nil
}

// Week builds the planner for the Monday-started week containing start.
func (s *DashboardService) Week(ctx context.Context, userID uuid.UUID, start types.Date) (*WeekPlan, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if start.IsZero() {
		return nil, invalid("start", "is required")
	}
	monday := types.NewDate(nutrition.StartOfWeek(start.Time))
	sunday := monday.AddDays(6)

	targets, _, err := s.targets(ctx, userID)
	if err != nil {
		return nil, err
	}
	meals, err := s.meals.ListMealsInRange(ctx, userID, monday, sunday)
	if err != nil {
		return nil, err
	}

	summary := nutrition.Week(monday.Time, models.Entries(meals), targets.Calories)
	byDay := make(map[string][]models.Meal, 7)
	for _, m := range meals {
		byDay[m.Date.String()] = append(byDay[m.Date.String()], m)
	}
	plan := &WeekPlan{WeekSummary: summary}
	for _, d := range summary.Days {
		plan.Meals = append(plan.Meals, WeekDay{Date: d.Date, Meals: mealViews(byDay[d.Date])})
	}
	return plan, nil
}
