package testhelpers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/types"
	"gorm.io/gorm"
)

// CreateUser inserts a user with a completed profile of a 30 year old male.
func CreateUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Name:         "Test User",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hashed_password",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	now := time.Now()
	profile := &models.UserProfile{
		UserID:                user.ID,
		DateOfBirth:           types.NewDate(now.AddDate(-30, 0, -1)),
		Gender:                nutrition.Male,
		HeightCm:              180,
		WeightKg:              80,
		ActivityLevel:         nutrition.Moderate,
		GoalType:              nutrition.Cut,
		OnboardingCompletedAt: &now,
	}
	profile.ApplyTargets(nutrition.Calculate(profile.Inputs(), now))
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	return user
}

// CreateFood inserts a verified food item.
func CreateFood(t *testing.T, db *gorm.DB, name string, per100g nutrition.Per100g) *models.FoodItem {
	t.Helper()
	food := &models.FoodItem{
		Name:     name,
		Verified: true,
		Source:   models.FoodSourceSeed,
		Calories: per100g.Calories,
		ProteinG: per100g.ProteinG,
		CarbsG:   per100g.CarbsG,
		FatG:     per100g.FatG,
	}
	if err := db.Create(food).Error; err != nil {
		t.Fatalf("failed to create food item: %v", err)
	}
	return food
}

// CreateMeal inserts a meal with the given foods (food item, grams pairs) at
// orderIndex.
func CreateMeal(t *testing.T, db *gorm.DB, userID uuid.UUID, date types.Date, name string, orderIndex int, status nutrition.MealStatus, foods ...models.MealFood) *models.Meal {
	t.Helper()
	meal := &models.Meal{
		UserID:     userID,
		Date:       date,
		Name:       name,
		OrderIndex: orderIndex,
		Status:     status,
	}
	if err := db.Create(meal).Error; err != nil {
		t.Fatalf("failed to create meal: %v", err)
	}
	for i := range foods {
		foods[i].MealID = meal.ID
		foods[i].OrderIndex = i
		foods[i].FoodItem = nil
		if err := db.Create(&foods[i]).Error; err != nil {
			t.Fatalf("failed to create meal food: %v", err)
		}
	}
	meal.Foods = foods
	return meal
}
