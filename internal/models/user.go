package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/types"
	"gorm.io/gorm"
)

// DefaultWaterTargetML is used until the user picks a water target.
const DefaultWaterTargetML = 2500

type User struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserProfile holds the calculator inputs and the targets last derived from them.
// Targets are a cached value: they change only on onboarding or a settings update.
type UserProfile struct {
	ID            uuid.UUID               `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        uuid.UUID               `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	DateOfBirth   types.Date              `gorm:"type:date;not null" json:"date_of_birth"`
	Gender        nutrition.Gender        `gorm:"size:10;not null" json:"gender"`
	HeightCm      float64                 `gorm:"not null" json:"height_cm"`
	WeightKg      float64                 `gorm:"not null" json:"weight_kg"`
	ActivityLevel nutrition.ActivityLevel `gorm:"size:20;not null" json:"activity_level"`
	GoalType      nutrition.GoalType      `gorm:"size:20;not null" json:"goal_type"`

	TargetCalories int `gorm:"not null" json:"target_calories"`
	TargetProteinG int `gorm:"not null" json:"target_protein_g"`
	TargetCarbsG   int `gorm:"not null" json:"target_carbs_g"`
	TargetFatG     int `gorm:"not null" json:"target_fat_g"`
	WaterTargetML  int `gorm:"not null" json:"water_target_ml"`

	OnboardingCompletedAt *time.Time `json:"onboarding_completed_at"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.WaterTargetML == 0 {
		p.WaterTargetML = DefaultWaterTargetML
	}
	return nil
}

// Inputs returns the calculator inputs stored on the profile.
func (p *UserProfile) Inputs() nutrition.Inputs {
	return nutrition.Inputs{
		DateOfBirth:   p.DateOfBirth.Time,
		Gender:        p.Gender,
		HeightCm:      p.HeightCm,
		WeightKg:      p.WeightKg,
		ActivityLevel: p.ActivityLevel,
		Goal:          p.GoalType,
	}
}

// ApplyTargets caches a calculation result on the profile.
func (p *UserProfile) ApplyTargets(t nutrition.Targets) {
	p.TargetCalories = t.Calories
	p.TargetProteinG = t.ProteinG
	p.TargetCarbsG = t.CarbsG
	p.TargetFatG = t.FatG
}
