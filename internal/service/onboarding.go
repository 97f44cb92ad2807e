package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/types"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// draftTTL bounds how long an abandoned onboarding wizard is kept.
const draftTTL = 24 * time.Hour

// DraftStore keeps one onboarding draft per user. Get returns nil, nil when
// the user has no draft.
type DraftStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*types.OnboardingDraft, error)
	Save(ctx context.Context, userID uuid.UUID, draft *types.OnboardingDraft) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// RedisDraftStore stores drafts as JSON strings with a TTL.
type RedisDraftStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisDraftStore(client *redis.Client) *RedisDraftStore {
	return &RedisDraftStore{redis: client, ttl: draftTTL}
}

func draftKey(userID uuid.UUID) string {
	return fmt.Sprintf("onboarding:draft:%s", userID)
}

func (s *RedisDraftStore) Get(ctx context.Context, userID uuid.UUID) (*types.OnboardingDraft, error) {
	data, err := s.redis.Get(ctx, draftKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from Redis: %w", err)
	}

	var draft types.OnboardingDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &draft, nil
}

func (s *RedisDraftStore) Save(ctx context.Context, userID uuid.UUID, draft *types.OnboardingDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := s.redis.Set(ctx, draftKey(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft to Redis: %w", err)
	}
	return nil
}

func (s *RedisDraftStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.redis.Del(ctx, draftKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft from Redis: %w", err)
	}
	return nil
}

// MemoryDraftStore is the single-process fallback used when Redis is not
// configured.
type MemoryDraftStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	drafts map[uuid.UUID]memoryDraft
}

type memoryDraft struct {
	draft   types.OnboardingDraft
	expires time.Time
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{
		ttl:    draftTTL,
		now:    time.Now,
		drafts: make(map[uuid.UUID]memoryDraft),
	}
}

func (s *MemoryDraftStore) Get(_ context.Context, userID uuid.UUID) (*types.OnboardingDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.drafts[userID]
	if !ok {
		return nil, nil
	}
	if s.now().After(entry.expires) {
		delete(s.drafts, userID)
		return nil, nil
	}
	draft := entry.draft
	return &draft, nil
}

func (s *MemoryDraftStore) Save(_ context.Context, userID uuid.UUID, draft *types.OnboardingDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[userID] = memoryDraft{draft: *draft, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryDraftStore) Delete(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, userID)
	return nil
}

// OnboardingResult is what completing the wizard produces.
type OnboardingResult struct {
	Profile *models.UserProfile `json:"profile"`
	Targets nutrition.Targets   `json:"targets"`
}

// OnboardingService drives the multi-step profile wizard. Partial answers live
// in the DraftStore until Complete writes the profile.
type OnboardingService struct {
	db     *gorm.DB
	drafts DraftStore
	now    func() time.Time
}

var _ IOnboardingService = (*OnboardingService)(nil)

func NewOnboardingService(db *gorm.DB, drafts DraftStore) *OnboardingService {
	if drafts == nil {
		drafts = NewMemoryDraftStore()
	}
	return &OnboardingService{db: db, drafts: drafts, now: time.Now}
}

// GetDraft returns the user's draft, or an empty one.
func (s *OnboardingService) GetDraft(ctx context.Context, userID uuid.UUID) (*types.OnboardingDraft, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	draft, err := s.drafts.Get(ctx, userID)
	if err != nil {
		return nil, storageErr("load onboarding progress", err)
	}
	if draft == nil {
		draft = &types.OnboardingDraft{}
	}
	return draft, nil
}

// SaveStep merges the fields set in step into the draft.
func (s *OnboardingService) SaveStep(ctx context.Context, userID uuid.UUID, step types.OnboardingDraft) (*types.OnboardingDraft, error) {
	if err := validateDraftFields(step, s.now()); err != nil {
		return nil, err
	}
	draft, err := s.GetDraft(ctx, userID)
	if err != nil {
		return nil, err
	}
	draft.Merge(step)
	if err := s.drafts.Save(ctx, userID, draft); err != nil {
		return nil, storageErr("save onboarding progress", err)
	}
	return draft, nil
}

// Complete merges final into the draft, computes the targets and writes the
// profile. The draft is dropped afterwards.
func (s *OnboardingService) Complete(ctx context.Context, userID uuid.UUID, final types.OnboardingDraft) (*OnboardingResult, error) {
	draft, err := s.GetDraft(ctx, userID)
	if err != nil {
		return nil, err
	}
	draft.Merge(final)

	now := s.now()
	in, err := draftInputs(draft)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(now); err != nil {
		return nil, fromInputError(err)
	}
	waterTarget := models.DefaultWaterTargetML
	if draft.WaterTargetML != nil {
		if *draft.WaterTargetML <= 0 {
			return nil, invalid("water_target_ml", "must be positive")
		}
		waterTarget = *draft.WaterTargetML
	}

	targets := nutrition.Calculate(in, now)

	var profile models.UserProfile
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&profile).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		profile.UserID = userID
		profile.DateOfBirth = types.NewDate(in.DateOfBirth)
		profile.Gender = in.Gender
		profile.HeightCm = in.HeightCm
		profile.WeightKg = in.WeightKg
		profile.ActivityLevel = in.ActivityLevel
		profile.GoalType = in.Goal
		profile.WaterTargetML = waterTarget
		profile.ApplyTargets(targets)
		profile.OnboardingCompletedAt = &now
		return tx.Save(&profile).Error
	})
	if err != nil {
		return nil, storageErr("save profile", err)
	}

	if err := s.drafts.Delete(ctx, userID); err != nil {
		log.Printf("[Onboarding] failed to drop draft for %s: %v", userID, err)
	}

	return &OnboardingResult{Profile: &profile, Targets: targets}, nil
}

func draftInputs(d *types.OnboardingDraft) (nutrition.Inputs, error) {
	switch {
	case d.DateOfBirth == nil:
		return nutrition.Inputs{}, invalid("date_of_birth", "is required")
	case d.Gender == nil:
		return nutrition.Inputs{}, invalid("gender", "is required")
	case d.HeightCm == nil:
		return nutrition.Inputs{}, invalid("height_cm", "is required")
	case d.WeightKg == nil:
		return nutrition.Inputs{}, invalid("weight_kg", "is required")
	case d.ActivityLevel == nil:
		return nutrition.Inputs{}, invalid("activity_level", "is required")
	case d.GoalType == nil:
		return nutrition.Inputs{}, invalid("goal_type", "is required")
	}
	return nutrition.Inputs{
		DateOfBirth:   d.DateOfBirth.Time,
		Gender:        *d.Gender,
		HeightCm:      *d.HeightCm,
		WeightKg:      *d.WeightKg,
		ActivityLevel: *d.ActivityLevel,
		Goal:          *d.GoalType,
	}, nil
}

// validateDraftFields checks only the fields that are present.
func validateDraftFields(d types.OnboardingDraft, now time.Time) error {
	if d.DateOfBirth != nil && d.DateOfBirth.After(now) {
		return invalid("date_of_birth", "must be in the past")
	}
	if d.Gender != nil && !d.Gender.Valid() {
		return invalid("gender", "must be one of male, female, other")
	}
	if d.HeightCm != nil && *d.HeightCm <= 0 {
		return invalid("height_cm", "must be positive")
	}
	if d.WeightKg != nil && *d.WeightKg <= 0 {
		return invalid("weight_kg", "must be positive")
	}
	if d.ActivityLevel != nil && !d.ActivityLevel.Valid() {
		return invalid("activity_level", "must be one of sedentary, light, moderate, active, very_active")
	}
	if d.GoalType != nil && !d.GoalType.Valid() {
		return invalid("goal_type", "must be one of cut, maintain, bulk, recomp")
	}
	if d.WaterTargetML != nil && *d.WaterTargetML <= 0 {
		return invalid("water_target_ml", "must be positive")
	}
	return nil
}
