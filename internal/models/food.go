package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/search"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Food item sources.
const (
	FoodSourceManual        = "manual"
	FoodSourceOpenFoodFacts = "openfoodfacts"
	FoodSourceSeed          = "seed"
)

// FoodItem is a reusable nutrition record with values per 100 g. Verified items
// have no owner and are visible to everyone; a user edit of a verified item is
// stored as a fork pointing back at it through BaseFoodItemID.
type FoodItem struct {
	ID             uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID         *uuid.UUID `gorm:"type:varchar(36);index" json:"user_id,omitempty"`
	BaseFoodItemID *uuid.UUID `gorm:"type:varchar(36);index" json:"base_food_item_id,omitempty"`
	Verified       bool       `gorm:"not null" json:"verified"`
	Source         string     `gorm:"size:20;not null" json:"source"`

	Name        string  `gorm:"size:255;not null" json:"name"`
	Brand       string  `gorm:"size:255" json:"brand"`
	Barcode     string  `gorm:"size:64;index" json:"barcode,omitempty"`
	ServingSize float64 `json:"serving_size"`
	ServingUnit string  `gorm:"size:20" json:"serving_unit"`
	Calories    float64 `gorm:"not null" json:"calories"`
	ProteinG    float64 `gorm:"not null" json:"protein_g"`
	CarbsG      float64 `gorm:"not null" json:"carbs_g"`
	FatG        float64 `gorm:"not null" json:"fat_g"`

	Embedding pgvector.Vector `gorm:"type:vector(64)" json:"-"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (f *FoodItem) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps the name embedding in sync with name and brand.
func (f *FoodItem) BeforeSave(tx *gorm.DB) error {
	f.Embedding = search.Embed(f.Name + " " + f.Brand)
	return nil
}

// Per100g returns the nutrition values the aggregator needs.
func (f *FoodItem) Per100g() nutrition.Per100g {
	return nutrition.Per100g{Calories: f.Calories, ProteinG: f.ProteinG, CarbsG: f.CarbsG, FatG: f.FatG}
}

// OwnedBy reports whether userID owns the item.
func (f *FoodItem) OwnedBy(userID uuid.UUID) bool {
	return f.UserID != nil && *f.UserID == userID
}

// VisibleTo reports whether userID may use the item.
func (f *FoodItem) VisibleTo(userID uuid.UUID) bool {
	return f.Verified || f.OwnedBy(userID)
}
