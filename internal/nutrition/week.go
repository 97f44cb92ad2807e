package nutrition

import "time"

// DateLayout is the calendar-day format used for keys and JSON.
const DateLayout = "2006-01-02"

// DaySummary is one day of the weekly planner.
type DaySummary struct {
	Date       string `json:"date"`
	MealCount  int    `json:"meal_count"`
	DoneCount  int    `json:"done_count"`
	Planned    Totals `json:"planned"`
	Consumed   Totals `json:"consumed"`
	TargetKcal int    `json:"target_calories,omitempty"`
}

// WeekSummary aggregates seven consecutive days starting at Start.
type WeekSummary struct {
	Start           string       `json:"start"`
	Days            []DaySummary `json:"days"`
	PlannedTotal    Totals       `json:"planned_total"`
	ConsumedTotal   Totals       `json:"consumed_total"`
	ConsumedAverage Totals       `json:"consumed_average"`
}

// StartOfWeek returns the Monday on or before t, at midnight UTC.
func StartOfWeek(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

// Week buckets meals into the seven days starting at start. Meals outside the
// window are ignored. targetKcal, when non-zero, is copied onto each day.
func Week(start time.Time, meals []MealEntry, targetKcal int) WeekSummary {
	start = start.UTC()
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	byDay := make(map[string][]MealEntry, 7)
	for _, m := range meals {
		key := m.Date.UTC().Format(DateLayout)
		byDay[key] = append(byDay[key], m)
	}

	summary := WeekSummary{Start: start.Format(DateLayout)}
	var all []MealEntry
	for i := 0; i < 7; i++ {
		key := start.AddDate(0, 0, i).Format(DateLayout)
		dayMeals := byDay[key]
		all = append(all, dayMeals...)

		done := 0
		for _, m := range dayMeals {
			if m.Status == StatusDone {
				done++
			}
		}
		summary.Days = append(summary.Days, DaySummary{
			Date:       key,
			MealCount:  len(dayMeals),
			DoneCount:  done,
			Planned:    Planned(dayMeals),
			Consumed:   Consumed(dayMeals),
			TargetKcal: targetKcal,
		})
	}

	summary.PlannedTotal = Planned(all)
	summary.ConsumedTotal = Consumed(all)
	summary.ConsumedAverage = summary.ConsumedTotal.Scale(len(summary.Days))
	return summary
}
