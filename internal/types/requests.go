package types

import (
	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
)

// UpdateProfileRequest represents a settings update. Any calculation input
// triggers a recompute of the cached targets; explicit targets override it.
type UpdateProfileRequest struct {
	DateOfBirth   *Date                    `json:"date_of_birth,omitempty"`
	Gender        *nutrition.Gender        `json:"gender,omitempty"`
	HeightCm      *float64                 `json:"height_cm,omitempty"`
	WeightKg      *float64                 `json:"weight_kg,omitempty"`
	ActivityLevel *nutrition.ActivityLevel `json:"activity_level,omitempty"`
	GoalType      *nutrition.GoalType      `json:"goal_type,omitempty"`
	WaterTargetML *int                     `json:"water_target_ml,omitempty"`

	TargetCalories *int `json:"target_calories,omitempty"`
	TargetProteinG *int `json:"target_protein_g,omitempty"`
	TargetCarbsG   *int `json:"target_carbs_g,omitempty"`
	TargetFatG     *int `json:"target_fat_g,omitempty"`
}

// HasCalculationInputs reports whether the request touches anything the
// calculator reads.
func (r *UpdateProfileRequest) HasCalculationInputs() bool {
	return r.DateOfBirth != nil || r.Gender != nil || r.HeightCm != nil ||
		r.WeightKg != nil || r.ActivityLevel != nil || r.GoalType != nil
}

// HasTargetOverrides reports whether the request sets targets explicitly.
func (r *UpdateProfileRequest) HasTargetOverrides() bool {
	return r.TargetCalories != nil || r.TargetProteinG != nil || r.TargetCarbsG != nil || r.TargetFatG != nil
}

// OnboardingDraft is the partially entered profile carried across wizard steps.
type OnboardingDraft struct {
	DateOfBirth   *Date                    `json:"date_of_birth,omitempty"`
	Gender        *nutrition.Gender        `json:"gender,omitempty"`
	HeightCm      *float64                 `json:"height_cm,omitempty"`
	WeightKg      *float64                 `json:"weight_kg,omitempty"`
	ActivityLevel *nutrition.ActivityLevel `json:"activity_level,omitempty"`
	GoalType      *nutrition.GoalType      `json:"goal_type,omitempty"`
	WaterTargetML *int                     `json:"water_target_ml,omitempty"`
	Step          int                      `json:"step"`
}

// Merge copies every field set in o onto d.
func (d *OnboardingDraft) Merge(o OnboardingDraft) {
	if o.DateOfBirth != nil {
		d.DateOfBirth = o.DateOfBirth
	}
	if o.Gender != nil {
		d.Gender = o.Gender
	}
	if o.HeightCm != nil {
		d.HeightCm = o.HeightCm
	}
	if o.WeightKg != nil {
		d.WeightKg = o.WeightKg
	}
	if o.ActivityLevel != nil {
		d.ActivityLevel = o.ActivityLevel
	}
	if o.GoalType != nil {
		d.GoalType = o.GoalType
	}
	if o.WaterTargetML != nil {
		d.WaterTargetML = o.WaterTargetML
	}
	if o.Step > d.Step {
		d.Step = o.Step
	}
}

// CreateMealRequest creates a meal at the end of a day.
type CreateMealRequest struct {
	Name  string     `json:"name"`
	Time  string     `json:"time"`
	Foods []FoodSpec `json:"foods"`
}

// UpdateMealRequest edits a meal. Moving it to another date appends it there.
type UpdateMealRequest struct {
	Name *string `json:"name,omitempty"`
	Time *string `json:"time,omitempty"`
	Date *Date   `json:"date,omitempty"`
}

// SetMealStatusRequest sets a meal's completion status.
type SetMealStatusRequest struct {
	Status nutrition.MealStatus `json:"status"`
}

// AddMealFoodRequest adds a food to a meal.
type AddMealFoodRequest struct {
	FoodItemID uuid.UUID `json:"food_item_id"`
	WeightG    float64   `json:"weight_g"`
}

// UpdateMealFoodRequest changes a meal food's weight.
type UpdateMealFoodRequest struct {
	WeightG float64 `json:"weight_g"`
}

// ReorderRequest carries the full new order of a sibling group.
type ReorderRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// MoveRequest is one drag-and-drop instruction: put ActiveID where OverID is.
// TargetScope names the group OverID lives in (a date for meals, a meal id for
// foods) when the client knows it; a value different from the source group
// makes the move a no-op.
type MoveRequest struct {
	ActiveID    uuid.UUID `json:"active_id"`
	OverID      uuid.UUID `json:"over_id"`
	TargetScope string    `json:"target_scope,omitempty"`
}

// FoodRequest creates or edits a food item. Values are per 100 g.
type FoodRequest struct {
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Barcode     string  `json:"barcode"`
	ServingSize float64 `json:"serving_size"`
	ServingUnit string  `json:"serving_unit"`
	Calories    float64 `json:"calories"`
	ProteinG    float64 `json:"protein_g"`
	CarbsG      float64 `json:"carbs_g"`
	FatG        float64 `json:"fat_g"`
}

// ExternalFood is one result of the public food database.
type ExternalFood struct {
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Barcode  string  `json:"barcode"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// SaveDayTemplateRequest snapshots a day.
type SaveDayTemplateRequest struct {
	Name string `json:"name"`
	Date Date   `json:"date"`
}

// SaveMealTemplateRequest snapshots a meal.
type SaveMealTemplateRequest struct {
	Name   string    `json:"name"`
	MealID uuid.UUID `json:"meal_id"`
}

// RenameTemplateRequest renames a template.
type RenameTemplateRequest struct {
	Name string `json:"name"`
}

// ApplyTemplateRequest applies a template to a date.
type ApplyTemplateRequest struct {
	Date Date `json:"date"`
}

// WaterRequest logs water.
type WaterRequest struct {
	Date     Date `json:"date"`
	AmountML int  `json:"amount_ml"`
}

// SupplementRequest creates or edits a supplement.
type SupplementRequest struct {
	Name   string `json:"name"`
	Dosage string `json:"dosage"`
	Unit   string `json:"unit"`
	Active *bool  `json:"active,omitempty"`
}

// SupplementLogRequest marks a supplement taken or not on a date.
type SupplementLogRequest struct {
	Date  Date `json:"date"`
	Taken bool `json:"taken"`
}

// WeightLogRequest records a body-weight measurement.
type WeightLogRequest struct {
	Date     Date    `json:"date"`
	WeightKg float64 `json:"weight_kg"`
	Note     string  `json:"note"`
}
