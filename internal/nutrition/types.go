// Package nutrition holds the pure arithmetic behind daily targets and totals:
// the Mifflin-St Jeor calculator, the macro allocator and the meal aggregator.
// Nothing in this package touches storage.
package nutrition

import "fmt"

// Gender selects the BMR constant. Anything other than male uses the female constant.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
	Other  Gender = "other"
)

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	switch g {
	case Male, Female, Other:
		return true
	}
	return false
}

// ActivityLevel is one of five ordinal activity tiers.
type ActivityLevel string

const (
	Sedentary  ActivityLevel = "sedentary"
	Light      ActivityLevel = "light"
	Moderate   ActivityLevel = "moderate"
	Active     ActivityLevel = "active"
	VeryActive ActivityLevel = "very_active"
)

// activityMultipliers maps each tier to its TDEE multiplier. Exact lookup only.
var activityMultipliers = map[ActivityLevel]float64{
	Sedentary:  1.2,
	Light:      1.375,
	Moderate:   1.55,
	Active:     1.725,
	VeryActive: 1.9,
}

// Valid reports whether a is one of the five tiers.
func (a ActivityLevel) Valid() bool {
	_, ok := activityMultipliers[a]
	return ok
}

// GoalType is the user's body composition goal.
type GoalType string

const (
	Cut      GoalType = "cut"
	Maintain GoalType = "maintain"
	Bulk     GoalType = "bulk"
	Recomp   GoalType = "recomp"
)

var goalAdjustments = map[GoalType]int{
	Cut:      -500,
	Maintain: 0,
	Bulk:     300,
	Recomp:   0,
}

// Valid reports whether g is a known goal.
func (g GoalType) Valid() bool {
	_, ok := goalAdjustments[g]
	return ok
}

// InputError describes the first missing or malformed calculator input.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
