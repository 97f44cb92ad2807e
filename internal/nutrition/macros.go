package nutrition

import "math"

const (
	caloriesPerGramProtein = 4
	caloriesPerGramCarbs   = 4
	caloriesPerGramFat     = 9

	fatGramsPerKg = 0.8
)

// Macros are gram targets for the three macronutrients.
type Macros struct {
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatG     int `json:"fat_g"`
}

// proteinGramsPerKg is higher while eating in a deficit or recomposing.
func proteinGramsPerKg(goal GoalType) float64 {
	if goal == Cut || goal == Recomp {
		return 2.0
	}
	return 1.8
}

// AllocateMacros splits targetCalories into protein, fat and carbs. Protein and fat are
// fixed by body weight; carbs get whatever calories remain, floored at zero. On very
// aggressive cuts carbs legitimately come out as 0.
func AllocateMacros(targetCalories int, weightKg float64, goal GoalType) Macros {
	protein := int(math.Round(proteinGramsPerKg(goal) * weightKg))
	fat := int(math.Round(fatGramsPerKg * weightKg))

	carbCalories := targetCalories - protein*caloriesPerGramProtein - fat*caloriesPerGramFat
	if carbCalories < 0 {
		carbCalories = 0
	}

	return Macros{
		ProteinG: protein,
		CarbsG:   int(math.Round(float64(carbCalories) / caloriesPerGramCarbs)),
		FatG:     fat,
	}
}
