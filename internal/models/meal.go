package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/types"
	"gorm.io/gorm"
)

// Meal is one meal on one day. OrderIndex only means something relative to the
// other meals of the same user and date.
type Meal struct {
	ID         uuid.UUID            `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID     uuid.UUID            `gorm:"type:varchar(36);not null;index:idx_meals_user_date,priority:1" json:"user_id"`
	Date       types.Date           `gorm:"type:date;not null;index:idx_meals_user_date,priority:2" json:"date"`
	Name       string               `gorm:"size:100;not null" json:"name"`
	Time       string               `gorm:"size:5" json:"time,omitempty"`
	OrderIndex int                  `gorm:"not null" json:"order_index"`
	Status     nutrition.MealStatus `gorm:"size:10;not null" json:"status"`
	Foods      []MealFood           `gorm:"foreignKey:MealID" json:"foods"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

func (m *Meal) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = nutrition.StatusPending
	}
	return nil
}

// MealFood places a food item in a meal with a weight in grams.
type MealFood struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	MealID     uuid.UUID `gorm:"type:varchar(36);not null;index" json:"meal_id"`
	FoodItemID uuid.UUID `gorm:"type:varchar(36);not null;index" json:"food_item_id"`
	FoodItem   *FoodItem `gorm:"foreignKey:FoodItemID" json:"food_item,omitempty"`
	WeightG    float64   `gorm:"not null" json:"weight_g"`
	OrderIndex int       `gorm:"not null" json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (mf *MealFood) BeforeCreate(tx *gorm.DB) error {
	if mf.ID == uuid.Nil {
		mf.ID = uuid.New()
	}
	return nil
}

// Entry converts the meal into the aggregator's read model. Foods whose item
// was not preloaded are skipped.
func (m *Meal) Entry() nutrition.MealEntry {
	entry := nutrition.MealEntry{
		ID:     m.ID.String(),
		Date:   m.Date.Time,
		Status: m.Status,
	}
	for _, f := range m.Foods {
		if f.FoodItem == nil {
			continue
		}
		entry.Foods = append(entry.Foods, nutrition.FoodEntry{
			ID:      f.ID.String(),
			WeightG: f.WeightG,
			Food:    f.FoodItem.Per100g(),
		})
	}
	return entry
}

// Entries converts a slice of meals.
func Entries(meals []Meal) []nutrition.MealEntry {
	out := make([]nutrition.MealEntry, 0, len(meals))
	for i := range meals {
		out = append(out, meals[i].Entry())
	}
	return out
}

// MealIDs returns the ids in slice order.
func MealIDs(meals []Meal) []uuid.UUID {
	ids := make([]uuid.UUID, len(meals))
	for i, m := range meals {
		ids[i] = m.ID
	}
	return ids
}

// MealFoodIDs returns the ids in slice order.
func MealFoodIDs(foods []MealFood) []uuid.UUID {
	ids := make([]uuid.UUID, len(foods))
	for i, f := range foods {
		ids[i] = f.ID
	}
	return ids
}
