package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/types"
	"gorm.io/gorm"
)

// ProfileService handles user profile operations
type ProfileService struct {
	db  *gorm.DB
	now func() time.Time
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{
		db:  db,
		now: time.Now,
	}
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, storageErr("load profile", err)
	}
	return &profile, nil
}

// UpdateProfile applies a settings change. Changing any calculator input
// recomputes the cached targets from the merged inputs; explicit targets in the
// same request win over the computed ones.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DateOfBirth != nil {
		profile.DateOfBirth = *req.DateOfBirth
	}
	if req.Gender != nil {
		profile.Gender = *req.Gender
	}
	if req.HeightCm != nil {
		profile.HeightCm = *req.HeightCm
	}
	if req.WeightKg != nil {
		profile.WeightKg = *req.WeightKg
	}
	if req.ActivityLevel != nil {
		profile.ActivityLevel = *req.ActivityLevel
	}
	if req.GoalType != nil {
		profile.GoalType = *req.GoalType
	}
	if req.WaterTargetML != nil {
		if *req.WaterTargetML <= 0 {
			return nil, invalid("water_target_ml", "must be positive")
		}
		profile.WaterTargetML = *req.WaterTargetML
	}

	now := s.now()
	if req.HasCalculationInputs() {
		if err := profile.Inputs().Validate(now); err != nil {
			return nil, fromInputError(err)
		}
		profile.ApplyTargets(nutrition.Calculate(profile.Inputs(), now))
	}

	if err := applyTargetOverrides(profile, req); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, storageErr("update profile", err)
	}
	return profile, nil
}

// Targets returns the full calculation for the stored inputs, including BMR
// and TDEE which are not cached.
func (s *ProfileService) Targets(ctx context.Context, userID uuid.UUID) (*nutrition.Targets, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	t := nutrition.Calculate(profile.Inputs(), s.now())
	t.Calories = profile.TargetCalories
	t.Macros = nutrition.Macros{ProteinG: profile.TargetProteinG, CarbsG: profile.TargetCarbsG, FatG: profile.TargetFatG}
	return &t, nil
}

func applyTargetOverrides(profile *models.UserProfile, req *types.UpdateProfileRequest) error {
	overrides := []struct {
		field string
		value *int
		dst   *int
		min   int
	}{
		{"target_calories", req.TargetCalories, &profile.TargetCalories, 1},
		{"target_protein_g", req.TargetProteinG, &profile.TargetProteinG, 0},
		{"target_carbs_g", req.TargetCarbsG, &profile.TargetCarbsG, 0},
		{"target_fat_g", req.TargetFatG, &profile.TargetFatG, 0},
	}
	for _, o := range overrides {
		if o.value == nil {
			continue
		}
		if *o.value < o.min {
			if o.min == 1 {
				return invalid(o.field, "must be positive")
			}
			return invalid(o.field, "must not be negative")
		}
	}
	for _, o := range overrides {
		if o.value != nil {
			*o.dst = *o.value
		}
	}
	return nil
}
