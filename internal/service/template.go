package service

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/types"
	"gorm.io/gorm"
)

// TemplateDetail is a template with its decoded payload.
type TemplateDetail struct {
	models.Template
	Payload   types.TemplatePayload `json:"payload"`
	FoodCount int                   `json:"food_count"`
}

// TemplateService saves days and meals as reusable templates and applies them.
type TemplateService struct {
	db       *gorm.DB
	meals    *MealService
	notifier Notifier
}

var _ ITemplateService = (*TemplateService)(nil)

func NewTemplateService(db *gorm.DB, meals *MealService, notifier Notifier) *TemplateService {
	return &TemplateService{db: db, meals: meals, notifier: notifierOrNop(notifier)}
}

func detail(t *models.Template) (*TemplateDetail, error) {
	payload, err := t.Decode()
	if err != nil {
		return nil, err
	}
	return &TemplateDetail{Template: *t, Payload: payload, FoodCount: payload.FoodCount()}, nil
}

func snapshotFoods(foods []models.MealFood) []types.FoodSpec {
	specs := make([]types.FoodSpec, 0, len(foods))
	for _, f := range foods {
		spec := types.FoodSpec{FoodItemID: f.FoodItemID, WeightG: f.WeightG}
		if f.FoodItem != nil {
			spec.Name = f.FoodItem.Name
		}
		specs = append(specs, spec)
	}
	return specs
}

func (s *TemplateService) create(ctx context.Context, userID uuid.UUID, name string, payload types.TemplatePayload) (*TemplateDetail, error) {
	t := &models.Template{UserID: userID, Name: name}
	if err := t.SetPayload(payload); err != nil {
		return nil, storageErr("save template", err)
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, storageErr("save template", err)
	}
	return detail(t)
}

// repointTemplates rewrites every food line of the user's templates that names
// from so it names to instead.
func repointTemplates(tx *gorm.DB, userID, from uuid.UUID, to *models.FoodItem) error {
	var templates []models.Template
	if err := tx.Where("user_id = ?", userID).Find(&templates).Error; err != nil {
		return err
	}
	for i := range templates {
		t := &templates[i]
		payload, err := t.Decode()
		if err != nil {
			return err
		}
		if !repointSpecs(payload, from, to) {
			continue
		}
		if err := t.SetPayload(payload); err != nil {
			return err
		}
		if err := tx.Model(t).Update("payload", t.Payload).Error; err != nil {
			return err
		}
	}
	return nil
}

func repointSpecs(p types.TemplatePayload, from uuid.UUID, to *models.FoodItem) bool {
	changed := false
	swap := func(foods []types.FoodSpec) {
		for i := range foods {
			if foods[i].FoodItemID == from {
				foods[i].FoodItemID = to.ID
				foods[i].Name = to.Name
				changed = true
			}
		}
	}
	switch {
	case p.Day != nil:
		for i := range p.Day.Meals {
			swap(p.Day.Meals[i].Foods)
		}
	case p.Meal != nil:
		swap(p.Meal.Foods)
	}
	return changed
}

// SaveDayTemplate snapshots every meal of date, in order.
func (s *TemplateService) SaveDayTemplate(ctx context.Context, userID uuid.UUID, name string, date types.Date) (*TemplateDetail, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, invalid("name", "is required")
	case date.IsZero():
		return nil, invalid("date", "is required")
	}

	meals, err := s.meals.ListMeals(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, invalid("date", "has no meals to save")
	}

	day := types.DayTemplatePayload{Meals: make([]types.MealSpec, 0, len(meals))}
	for _, m := range meals {
		day.Meals = append(day.Meals, types.MealSpec{Name: m.Name, Time: m.Time, Foods: snapshotFoods(m.Foods)})
	}
	return s.create(ctx, userID, name, types.NewDayPayload(day))
}

// SaveMealTemplate snapshots one meal.
func (s *TemplateService) SaveMealTemplate(ctx context.Context, userID uuid.UUID, name string, mealID uuid.UUID) (*TemplateDetail, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	meal, err := s.meals.GetMeal(ctx, userID, mealID)
	if err != nil {
		return nil, err
	}
	payload := types.NewMealPayload(types.MealTemplatePayload{
		Name:  meal.Name,
		Time:  meal.Time,
		Foods: snapshotFoods(meal.Foods),
	})
	return s.create(ctx, userID, name, payload)
}

// ListTemplates returns the user's templates, newest first. An empty kind
// lists both kinds.
func (s *TemplateService) ListTemplates(ctx context.Context, userID uuid.UUID, kind types.TemplateKind) ([]TemplateDetail, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if kind != "" && !kind.Valid() {
		return nil, invalid("kind", "must be day or meal")
	}
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var templates []models.Template
	if err := q.Order("created_at DESC").Find(&templates).Error; err != nil {
		return nil, storageErr("load templates", err)
	}

	out := make([]TemplateDetail, 0, len(templates))
	for i := range templates {
		d, err := detail(&templates[i])
		if err != nil {
			log.Printf("[Templates] skipping undecodable template %s: %v", templates[i].ID, err)
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (s *TemplateService) owned(db *gorm.DB, userID, templateID uuid.UUID, action string) (*models.Template, error) {
	var t models.Template
	if err := db.Where("id = ? AND user_id = ?", templateID, userID).First(&t).Error; err != nil {
		return nil, storageErr(action, err)
	}
	return &t, nil
}

func (s *TemplateService) GetTemplate(ctx context.Context, userID, templateID uuid.UUID) (*TemplateDetail, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	t, err := s.owned(s.db.WithContext(ctx), userID, templateID, "load template")
	if err != nil {
		return nil, err
	}
	d, err := detail(t)
	if err != nil {
		return nil, storageErr("load template", err)
	}
	return d, nil
}

func (s *TemplateService) RenameTemplate(ctx context.Context, userID, templateID uuid.UUID, name string) (*TemplateDetail, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	db := s.db.WithContext(ctx)
	t, err := s.owned(db, userID, templateID, "rename template")
	if err != nil {
		return nil, err
	}
	if err := db.Model(t).Update("name", name).Error; err != nil {
		return nil, storageErr("rename template", err)
	}
	return s.GetTemplate(ctx, userID, templateID)
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, userID, templateID uuid.UUID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	db := s.db.WithContext(ctx)
	t, err := s.owned(db, userID, templateID, "delete template")
	if err != nil {
		return err
	}
	if err := db.Delete(t).Error; err != nil {
		return storageErr("delete template", err)
	}
	return nil
}

// ApplyTemplate writes a template onto date and returns the day's meals. A day
// template replaces every meal of the day; a meal template appends one meal.
// Either way the change is a single transaction. Foods the user can no longer
// see are left out.
func (s *TemplateService) ApplyTemplate(ctx context.Context, userID, templateID uuid.UUID, date types.Date) ([]models.Meal, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, invalid("date", "is required")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := s.owned(tx, userID, templateID, "apply template")
		if err != nil {
			return err
		}
		payload, err := t.Decode()
		if err != nil {
			return err
		}

		switch payload.Kind {
		case types.TemplateDay:
			if err := clearDay(tx, userID, date); err != nil {
				return err
			}
			for i, spec := range payload.Day.Meals {
				if err := insertTemplateMeal(tx, userID, date, i, spec); err != nil {
					return err
				}
			}
		case types.TemplateMeal:
			idx, err := nextOrderIndex(tx, &models.Meal{}, "user_id = ? AND date = ?", userID, date)
			if err != nil {
				return err
			}
			spec := types.MealSpec{Name: payload.Meal.Name, Time: payload.Meal.Time, Foods: payload.Meal.Foods}
			if err := insertTemplateMeal(tx, userID, date, idx, spec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("apply template", err)
	}

	s.notifier.DayChanged(userID, date)
	return s.meals.ListMeals(ctx, userID, date)
}

func clearDay(tx *gorm.DB, userID uuid.UUID, date types.Date) error {
	dayMeals := tx.Model(&models.Meal{}).Select("id").Where("user_id = ? AND date = ?", userID, date)
	if err := tx.Where("meal_id IN (?)", dayMeals).Delete(&models.MealFood{}).Error; err != nil {
		return err
	}
	return tx.Where("user_id = ? AND date = ?", userID, date).Delete(&models.Meal{}).Error
}

func insertTemplateMeal(tx *gorm.DB, userID uuid.UUID, date types.Date, orderIndex int, spec types.MealSpec) error {
	visible, err := visibleFoods(tx, userID, specFoodIDs(spec.Foods))
	if err != nil {
		return err
	}
	foods := make([]types.FoodSpec, 0, len(spec.Foods))
	for _, f := range spec.Foods {
		if _, ok := visible[f.FoodItemID]; !ok || f.WeightG <= 0 {
			log.Printf("[Templates] skipping food %s (%q): no longer available", f.FoodItemID, f.Name)
			continue
		}
		foods = append(foods, f)
	}

	meal := &models.Meal{
		UserID:     userID,
		Date:       date,
		Name:       spec.Name,
		Time:       spec.Time,
		OrderIndex: orderIndex,
		Status:     nutrition.StatusPending,
	}
	if err := tx.Create(meal).Error; err != nil {
		return err
	}
	return insertMealFoods(tx, meal.ID, foods)
}
