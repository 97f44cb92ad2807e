package nutrition

import (
	"math"
	"time"
)

// Inputs are the profile fields the calculator needs.
type Inputs struct {
	DateOfBirth   time.Time
	Gender        Gender
	HeightCm      float64
	WeightKg      float64
	ActivityLevel ActivityLevel
	Goal          GoalType
}

// Validate returns an *InputError for the first field that is missing or out of range.
// The calculator itself never fails; callers check inputs before calling it.
func (in Inputs) Validate(now time.Time) error {
	switch {
	case in.DateOfBirth.IsZero():
		return &InputError{Field: "date_of_birth", Message: "is required"}
	case in.DateOfBirth.After(now):
		return &InputError{Field: "date_of_birth", Message: "must be in the past"}
	case !in.Gender.Valid():
		return &InputError{Field: "gender", Message: "must be one of male, female, other"}
	case in.HeightCm <= 0:
		return &InputError{Field: "height_cm", Message: "must be positive"}
	case in.WeightKg <= 0:
		return &InputError{Field: "weight_kg", Message: "must be positive"}
	case !in.ActivityLevel.Valid():
		return &InputError{Field: "activity_level", Message: "must be one of sedentary, light, moderate, active, very_active"}
	case !in.Goal.Valid():
		return &InputError{Field: "goal_type", Message: "must be one of cut, maintain, bulk, recomp"}
	}
	return nil
}

// Targets is the full result of a calculation.
type Targets struct {
	Age      int     `json:"age"`
	BMR      float64 `json:"bmr"`
	TDEE     int     `json:"tdee"`
	Calories int     `json:"calories"`
	Macros
}

// Age returns the number of complete calendar years between dob and now.
func Age(dob, now time.Time) int {
	dob = dob.UTC()
	now = now.UTC()
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

// BMR estimates basal metabolic rate with the Mifflin-St Jeor equation.
func BMR(weightKg, heightCm float64, age int, g Gender) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if g == Male {
		return bmr + 5
	}
	return bmr - 161
}

// ActivityMultiplier returns the TDEE multiplier for level, or 0 for an unknown level.
func ActivityMultiplier(level ActivityLevel) float64 {
	return activityMultipliers[level]
}

// TDEE rounds bmr scaled by the activity multiplier.
func TDEE(bmr float64, level ActivityLevel) int {
	return int(math.Round(bmr * ActivityMultiplier(level)))
}

// GoalAdjustment is the calorie offset applied on top of TDEE.
func GoalAdjustment(goal GoalType) int {
	return goalAdjustments[goal]
}

// TargetCalories applies the goal adjustment to tdee.
func TargetCalories(tdee int, goal GoalType) int {
	return tdee + GoalAdjustment(goal)
}

// Calculate runs the whole chain: age, BMR, TDEE, target calories and macros.
func Calculate(in Inputs, now time.Time) Targets {
	age := Age(in.DateOfBirth, now)
	bmr := BMR(in.WeightKg, in.HeightCm, age, in.Gender)
	tdee := TDEE(bmr, in.ActivityLevel)
	calories := TargetCalories(tdee, in.Goal)
	return Targets{
		Age:      age,
		BMR:      bmr,
		TDEE:     tdee,
		Calories: calories,
		Macros:   AllocateMacros(calories, in.WeightKg, in.Goal),
	}
}
