package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/ordering"
	"github.com/pageza/nutriplan/backend/internal/types"
	"gorm.io/gorm"
)

// MealService manages meals, the foods inside them and their order.
type MealService struct {
	db       *gorm.DB
	notifier Notifier
}

var _ IMealService = (*MealService)(nil)

func NewMealService(db *gorm.DB, notifier Notifier) *MealService {
	return &MealService{db: db, notifier: notifierOrNop(notifier)}
}

func preloadFoods(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Foods", func(db *gorm.DB) *gorm.DB {
			return db.Order("meal_foods.order_index ASC, meal_foods.created_at ASC")
		}).
		Preload("Foods.FoodItem")
}

const mealOrder = "order_index ASC, time ASC, created_at ASC"

// ListMeals returns a day's meals in display order with foods and food items.
func (s *MealService) ListMeals(ctx context.Context, userID uuid.UUID, date types.Date) ([]models.Meal, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var meals []models.Meal
	err := preloadFoods(s.db.WithContext(ctx)).
		Where("user_id = ? AND date = ?", userID, date).
		Order(mealOrder).
		Find(&meals).Error
	if err != nil {
		return nil, storageErr("load meals", err)
	}
	return meals, nil
}

// ListMealsInRange returns the meals from from to to, both inclusive.
func (s *MealService) ListMealsInRange(ctx context.Context, userID uuid.UUID, from, to types.Date) ([]models.Meal, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var meals []models.Meal
	err := preloadFoods(s.db.WithContext(ctx)).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date ASC, " + mealOrder).
		Find(&meals).Error
	if err != nil {
		return nil, storageErr("load meals", err)
	}
	return meals, nil
}

// GetMeal returns one of the user's meals.
func (s *MealService) GetMeal(ctx context.Context, userID, mealID uuid.UUID) (*models.Meal, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var meal models.Meal
	err := preloadFoods(s.db.WithContext(ctx)).
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&meal).Error
	if err != nil {
		return nil, storageErr("load meal", err)
	}
	return &meal, nil
}

func (s *MealService) ownedMeal(db *gorm.DB, userID, mealID uuid.UUID, action string) (*models.Meal, error) {
	var meal models.Meal
	if err := db.Where("id = ? AND user_id = ?", mealID, userID).First(&meal).Error; err != nil {
		return nil, storageErr(action, err)
	}
	return &meal, nil
}

func (s *MealService) ownedMealFood(db *gorm.DB, userID, mealFoodID uuid.UUID, action string) (*models.MealFood, *models.Meal, error) {
	var mf models.MealFood
	if err := db.First(&mf, "id = ?", mealFoodID).Error; err != nil {
		return nil, nil, storageErr(action, err)
	}
	meal, err := s.ownedMeal(db, userID, mf.MealID, action)
	if err != nil {
		return nil, nil, err
	}
	return &mf, meal, nil
}

func validateMealTime(t string) error {
	if t == "" {
		return nil
	}
	if _, err := time.Parse("15:04", t); err != nil {
		return invalid("time", "must be HH:MM")
	}
	return nil
}

func validateFoodSpecs(specs []types.FoodSpec) error {
	for _, f := range specs {
		if f.FoodItemID == uuid.Nil {
			return invalid("food_item_id", "is required")
		}
		if f.WeightG <= 0 {
			return invalid("weight_g", "must be positive")
		}
	}
	return nil
}

// CreateMeal appends a meal, with optional foods, to the end of a day.
func (s *MealService) CreateMeal(ctx context.Context, userID uuid.UUID, date types.Date, req *types.CreateMealRequest) (*models.Meal, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	switch {
	case date.IsZero():
		return nil, invalid("date", "is required")
	case name == "":
		return nil, invalid("name", "is required")
	}
	if err := validateMealTime(req.Time); err != nil {
		return nil, err
	}
	if err := validateFoodSpecs(req.Foods); err != nil {
		return nil, err
	}

	meal := &models.Meal{
		UserID: userID,
		Date:   date,
		Name:   name,
		Time:   req.Time,
		Status: nutrition.StatusPending,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		foods, err := visibleFoods(tx, userID, specFoodIDs(req.Foods))
		if err != nil {
			return err
		}
		for _, f := range req.Foods {
			if _, ok := foods[f.FoodItemID]; !ok {
				return invalid("food_item_id", "refers to an unknown food")
			}
		}

		idx, err := nextOrderIndex(tx, &models.Meal{}, "user_id = ? AND date = ?", userID, date)
		if err != nil {
			return err
		}
		meal.OrderIndex = idx
		if err := tx.Create(meal).Error; err != nil {
			return err
		}
		return insertMealFoods(tx, meal.ID, req.Foods)
	})
	if err != nil {
		return nil, storageErr("save meal", err)
	}

	s.notifier.DayChanged(userID, date)
	return s.GetMeal(ctx, userID, meal.ID)
}

func insertMealFoods(tx *gorm.DB, mealID uuid.UUID, specs []types.FoodSpec) error {
	for i, f := range specs {
		mf := models.MealFood{
			MealID:     mealID,
			FoodItemID: f.FoodItemID,
			WeightG:    f.WeightG,
			OrderIndex: i,
		}
		if err := tx.Create(&mf).Error; err != nil {
			return err
		}
	}
	return nil
}

// UpdateMeal renames, retimes or moves a meal. A meal moved to another date is
// appended to that day.
func (s *MealService) UpdateMeal(ctx context.Context, userID, mealID uuid.UUID, req *types.UpdateMealRequest) (*models.Meal, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalid("name", "is required")
		}
		updates["name"] = name
	}
	if req.Time != nil {
		if err := validateMealTime(*req.Time); err != nil {
			return nil, err
		}
		updates["time"] = *req.Time
	}
	if req.Date != nil && req.Date.IsZero() {
		return nil, invalid("date", "is required")
	}

	var oldDate types.Date
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		meal, err := s.ownedMeal(tx, userID, mealID, "update meal")
		if err != nil {
			return err
		}
		oldDate = meal.Date
		if req.Date != nil && !req.Date.Equal(meal.Date.Time) {
			idx, err := nextOrderIndex(tx, &models.Meal{}, "user_id = ? AND date = ?", userID, *req.Date)
			if err != nil {
				return err
			}
			updates["date"] = *req.Date
			updates["order_index"] = idx
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(meal).Updates(updates).Error
	})
	if err != nil {
		return nil, storageErr("update meal", err)
	}

	s.notifier.DayChanged(userID, oldDate)
	if req.Date != nil && !req.Date.Equal(oldDate.Time) {
		s.notifier.DayChanged(userID, *req.Date)
	}
	return s.GetMeal(ctx, userID, mealID)
}

// DeleteMeal removes a meal and its foods.
func (s *MealService) DeleteMeal(ctx context.Context, userID, mealID uuid.UUID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	var date types.Date
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		meal, err := s.ownedMeal(tx, userID, mealID, "delete meal")
		if err != nil {
			return err
		}
		date = meal.Date
		if err := tx.Where("meal_id = ?", meal.ID).Delete(&models.MealFood{}).Error; err != nil {
			return err
		}
		return tx.Delete(meal).Error
	})
	if err != nil {
		return storageErr("delete meal", err)
	}
	s.notifier.DayChanged(userID, date)
	return nil
}

// SetMealStatus marks a meal pending or done.
func (s *MealService) SetMealStatus(ctx context.Context, userID, mealID uuid.UUID, status nutrition.MealStatus) (*models.Meal, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, invalid("status", "must be pending or done")
	}
	meal, err := s.ownedMeal(s.db.WithContext(ctx), userID, mealID, "update meal")
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(meal).Update("status", status).Error; err != nil {
		return nil, storageErr("update meal", err)
	}
	s.notifier.DayChanged(userID, meal.Date)
	return s.GetMeal(ctx, userID, mealID)
}

// ToggleMealStatus flips pending and done.
func (s *MealService) ToggleMealStatus(ctx context.Context, userID, mealID uuid.UUID) (*models.Meal, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	meal, err := s.ownedMeal(s.db.WithContext(ctx), userID, mealID, "update meal")
	if err != nil {
		return nil, err
	}
	return s.SetMealStatus(ctx, userID, mealID, meal.Status.Toggled())
}

// AddMealFood appends a food to a meal.
func (s *MealService) AddMealFood(ctx context.Context, userID, mealID uuid.UUID, req *types.AddMealFoodRequest) (*models.MealFood, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := validateFoodSpecs([]types.FoodSpec{{FoodItemID: req.FoodItemID, WeightG: req.WeightG}}); err != nil {
		return nil, err
	}

	var mf models.MealFood
	var date types.Date
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		meal, err := s.ownedMeal(tx, userID, mealID, "add food")
		if err != nil {
			return err
		}
		date = meal.Date
		foods, err := visibleFoods(tx, userID, []uuid.UUID{req.FoodItemID})
		if err != nil {
			return err
		}
		food, ok := foods[req.FoodItemID]
		if !ok {
			return invalid("food_item_id", "refers to an unknown food")
		}
		idx, err := nextOrderIndex(tx, &models.MealFood{}, "meal_id = ?", meal.ID)
		if err != nil {
			return err
		}
		mf = models.MealFood{
			MealID:     meal.ID,
			FoodItemID: food.ID,
			WeightG:    req.WeightG,
			OrderIndex: idx,
		}
		if err := tx.Create(&mf).Error; err != nil {
			return err
		}
		mf.FoodItem = food
		return nil
	})
	if err != nil {
		return nil, storageErr("add food", err)
	}
	s.notifier.DayChanged(userID, date)
	return &mf, nil
}

// UpdateMealFood changes the weight of a food in a meal.
func (s *MealService) UpdateMealFood(ctx context.Context, userID, mealFoodID uuid.UUID, weightG float64) (*models.MealFood, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if weightG <= 0 {
		return nil, invalid("weight_g", "must be positive")
	}
	db := s.db.WithContext(ctx)
	mf, meal, err := s.ownedMealFood(db, userID, mealFoodID, "update food")
	if err != nil {
		return nil, err
	}
	if err := db.Model(mf).Update("weight_g", weightG).Error; err != nil {
		return nil, storageErr("update food", err)
	}
	if err := db.Preload("FoodItem").First(mf, "id = ?", mf.ID).Error; err != nil {
		return nil, storageErr("update food", err)
	}
	s.notifier.DayChanged(userID, meal.Date)
	return mf, nil
}

// DeleteMealFood removes a food from its meal.
func (s *MealService) DeleteMealFood(ctx context.Context, userID, mealFoodID uuid.UUID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	db := s.db.WithContext(ctx)
	mf, meal, err := s.ownedMealFood(db, userID, mealFoodID, "delete food")
	if err != nil {
		return err
	}
	if err := db.Delete(mf).Error; err != nil {
		return storageErr("delete food", err)
	}
	s.notifier.DayChanged(userID, meal.Date)
	return nil
}

func (s *MealService) daySiblings(userID uuid.UUID, date types.Date) siblings {
	return siblings{
		action: "reorder meals",
		model:  &models.Meal{},
		load: func(db *gorm.DB) ([]uuid.UUID, error) {
			var ids []uuid.UUID
			err := db.Model(&models.Meal{}).
				Where("user_id = ? AND date = ?", userID, date).
				Order(mealOrder).
				Pluck("id", &ids).Error
			return ids, err
		},
	}
}

func (s *MealService) mealSiblings(mealID uuid.UUID) siblings {
	return siblings{
		action: "reorder foods",
		model:  &models.MealFood{},
		load: func(db *gorm.DB) ([]uuid.UUID, error) {
			var ids []uuid.UUID
			err := db.Model(&models.MealFood{}).
				Where("meal_id = ?", mealID).
				Order("order_index ASC, created_at ASC").
				Pluck("id", &ids).Error
			return ids, err
		},
	}
}

// ReorderMeals stores a new order for a day's meals.
func (s *MealService) ReorderMeals(ctx context.Context, userID uuid.UUID, date types.Date, ids []uuid.UUID) ([]uuid.UUID, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	order, err := reorder(ctx, s.db, s.daySiblings(userID, date), ids)
	if err != nil {
		return nil, err
	}
	s.notifier.DayChanged(userID, date)
	return order, nil
}

// MoveMeal drops one meal of date onto another. Dropping onto a meal of a
// different day changes nothing.
func (s *MealService) MoveMeal(ctx context.Context, userID uuid.UUID, date types.Date, req *types.MoveRequest) (*MoveResult, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	source := ordering.Scope{Kind: ordering.ScopeDay, Key: date.String()}
	target := source
	if req.TargetScope != "" {
		d, err := types.ParseDate(req.TargetScope)
		if err != nil {
			return nil, invalid("target_scope", "must be a date")
		}
		target.Key = d.String()
	}
	result, err := move(ctx, s.db, s.daySiblings(userID, date), source, target, req.ActiveID, req.OverID)
	if err != nil {
		return nil, err
	}
	if result.Moved {
		s.notifier.DayChanged(userID, date)
	}
	return result, nil
}

// ReorderMealFoods stores a new order for the foods of a meal.
func (s *MealService) ReorderMealFoods(ctx context.Context, userID, mealID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	meal, err := s.ownedMeal(s.db.WithContext(ctx), userID, mealID, "reorder foods")
	if err != nil {
		return nil, err
	}
	order, err := reorder(ctx, s.db, s.mealSiblings(meal.ID), ids)
	if err != nil {
		return nil, err
	}
	s.notifier.DayChanged(userID, meal.Date)
	return order, nil
}

// MoveMealFood drops one food of a meal onto another. Dropping onto a food of a
// different meal changes nothing.
func (s *MealService) MoveMealFood(ctx context.Context, userID, mealID uuid.UUID, req *types.MoveRequest) (*MoveResult, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	meal, err := s.ownedMeal(s.db.WithContext(ctx), userID, mealID, "reorder foods")
	if err != nil {
		return nil, err
	}
	source := ordering.Scope{Kind: ordering.ScopeMeal, Key: meal.ID.String()}
	target := source
	if req.TargetScope != "" {
		id, err := uuid.Parse(strings.TrimSpace(req.TargetScope))
		if err != nil {
			return nil, invalid("target_scope", "must be a meal id")
		}
		target.Key = id.String()
	}
	result, err := move(ctx, s.db, s.mealSiblings(meal.ID), source, target, req.ActiveID, req.OverID)
	if err != nil {
		return nil, err
	}
	if result.Moved {
		s.notifier.DayChanged(userID, meal.Date)
	}
	return result, nil
}
