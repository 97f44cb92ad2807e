package types

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// TemplateKind discriminates the two template payloads.
type TemplateKind string

const (
	TemplateDay  TemplateKind = "day"
	TemplateMeal TemplateKind = "meal"
)

// Valid reports whether k is day or meal.
func (k TemplateKind) Valid() bool {
	return k == TemplateDay || k == TemplateMeal
}

// FoodSpec is one food line of a template, in order.
type FoodSpec struct {
	FoodItemID uuid.UUID `json:"food_item_id"`
	WeightG    float64   `json:"weight_g"`
	// Name is informational; applying a template resolves FoodItemID.
	Name string `json:"name,omitempty"`
}

// MealSpec is one meal of a day template, in order.
type MealSpec struct {
	Name  string     `json:"name"`
	Time  string     `json:"time,omitempty"`
	Foods []FoodSpec `json:"foods"`
}

// DayTemplatePayload is the snapshot of a whole day.
type DayTemplatePayload struct {
	Meals []MealSpec `json:"meals"`
}

// MealTemplatePayload is the snapshot of a single meal.
type MealTemplatePayload struct {
	Name  string     `json:"name"`
	Time  string     `json:"time,omitempty"`
	Foods []FoodSpec `json:"foods"`
}

// TemplatePayload holds exactly one of Day or Meal, selected by Kind.
type TemplatePayload struct {
	Kind TemplateKind
	Day  *DayTemplatePayload
	Meal *MealTemplatePayload
}

// NewDayPayload wraps a day snapshot.
func NewDayPayload(p DayTemplatePayload) TemplatePayload {
	return TemplatePayload{Kind: TemplateDay, Day: &p}
}

// NewMealPayload wraps a meal snapshot.
func NewMealPayload(p MealTemplatePayload) TemplatePayload {
	return TemplatePayload{Kind: TemplateMeal, Meal: &p}
}

// Body returns the JSON of the active variant, which is what gets stored.
func (p TemplatePayload) Body() ([]byte, error) {
	switch p.Kind {
	case TemplateDay:
		if p.Day == nil {
			return nil, fmt.Errorf("day template has no payload")
		}
		return json.Marshal(p.Day)
	case TemplateMeal:
		if p.Meal == nil {
			return nil, fmt.Errorf("meal template has no payload")
		}
		return json.Marshal(p.Meal)
	default:
		return nil, fmt.Errorf("unknown template kind %q", p.Kind)
	}
}

// DecodeTemplatePayload decodes a stored body according to kind.
func DecodeTemplatePayload(kind TemplateKind, body []byte) (TemplatePayload, error) {
	switch kind {
	case TemplateDay:
		var day DayTemplatePayload
		if err := json.Unmarshal(body, &day); err != nil {
			return TemplatePayload{}, fmt.Errorf("failed to decode day template: %w", err)
		}
		return NewDayPayload(day), nil
	case TemplateMeal:
		var meal MealTemplatePayload
		if err := json.Unmarshal(body, &meal); err != nil {
			return TemplatePayload{}, fmt.Errorf("failed to decode meal template: %w", err)
		}
		return NewMealPayload(meal), nil
	default:
		return TemplatePayload{}, fmt.Errorf("unknown template kind %q", kind)
	}
}

// MarshalJSON renders {"kind": ..., "day"|"meal": {...}}.
func (p TemplatePayload) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind TemplateKind         `json:"kind"`
		Day  *DayTemplatePayload  `json:"day,omitempty"`
		Meal *MealTemplatePayload `json:"meal,omitempty"`
	}{Kind: p.Kind}
	switch p.Kind {
	case TemplateDay:
		out.Day = p.Day
	case TemplateMeal:
		out.Meal = p.Meal
	}
	return json.Marshal(out)
}

// FoodCount is the number of food lines across the payload.
func (p TemplatePayload) FoodCount() int {
	switch {
	case p.Day != nil:
		n := 0
		for _, m := range p.Day.Meals {
			n += len(m.Foods)
		}
		return n
	case p.Meal != nil:
		return len(p.Meal.Foods)
	}
	return 0
}
