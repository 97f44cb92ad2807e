package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/search"
	"github.com/pageza/nutriplan/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	foodListLimit      = 50
	externalFoodsLimit = 20
)

// ExternalFoodSource is a public food database.
type ExternalFoodSource interface {
	Search(ctx context.Context, query string, limit int) ([]types.ExternalFood, error)
	Lookup(ctx context.Context, barcode string) (*types.ExternalFood, error)
}

// FoodService manages the food catalogue: verified items shared by everyone,
// items users create, and personal forks of verified items.
type FoodService struct {
	db       *gorm.DB
	external ExternalFoodSource
}

var _ IFoodService = (*FoodService)(nil)

func NewFoodService(db *gorm.DB, external ExternalFoodSource) *FoodService {
	return &FoodService{db: db, external: external}
}

func visibleTo(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	return db.Where("(verified = ? OR user_id = ?)", true, userID)
}

// visibleFoods loads the items among ids that userID may use.
func visibleFoods(tx *gorm.DB, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.FoodItem, error) {
	out := make(map[uuid.UUID]*models.FoodItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var foods []models.FoodItem
	if err := visibleTo(tx, userID).Where("id IN ?", ids).Find(&foods).Error; err != nil {
		return nil, err
	}
	for i := range foods {
		out[foods[i].ID] = &foods[i]
	}
	return out, nil
}

func specFoodIDs(specs []types.FoodSpec) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(specs))
	for _, f := range specs {
		ids = append(ids, f.FoodItemID)
	}
	return ids
}

// ListFoods returns the foods visible to the user. A verified item the user has
// forked is replaced by the fork. With a query the list is filtered by name,
// brand or barcode; on PostgreSQL it is ranked by name similarity.
func (s *FoodService) ListFoods(ctx context.Context, userID uuid.UUID, query string) ([]models.FoodItem, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	forked := db.Model(&models.FoodItem{}).
		Select("base_food_item_id").
		Where("user_id = ? AND base_food_item_id IS NOT NULL", userID)

	q := visibleTo(db.Model(&models.FoodItem{}), userID).
		Where("id NOT IN (?)", forked)

	query = strings.TrimSpace(query)
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR barcode = ?)", like, like, query)
		if s.db.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.OrderBy{Expression: clause.Expr{
				SQL:                "embedding <-> ?",
				Vars:               []interface{}{search.Embed(query)},
				WithoutParentheses: true,
			}})
		} else {
			q = q.Order("name ASC")
		}
	} else {
		q = q.Order("name ASC")
	}

	var foods []models.FoodItem
	if err := q.Limit(foodListLimit).Find(&foods).Error; err != nil {
		return nil, storageErr("load foods", err)
	}
	return foods, nil
}

// GetFood returns a food the user may use.
func (s *FoodService) GetFood(ctx context.Context, userID, foodID uuid.UUID) (*models.FoodItem, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var food models.FoodItem
	if err := visibleTo(s.db.WithContext(ctx), userID).First(&food, "id = ?", foodID).Error; err != nil {
		return nil, storageErr("load food", err)
	}
	return &food, nil
}

func validateFoodRequest(req *types.FoodRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Brand = strings.TrimSpace(req.Brand)
	req.Barcode = strings.TrimSpace(req.Barcode)
	switch {
	case req.Name == "":
		return invalid("name", "is required")
	case req.Calories < 0:
		return invalid("calories", "must not be negative")
	case req.ProteinG < 0:
		return invalid("protein_g", "must not be negative")
	case req.CarbsG < 0:
		return invalid("carbs_g", "must not be negative")
	case req.FatG < 0:
		return invalid("fat_g", "must not be negative")
	case req.ServingSize < 0:
		return invalid("serving_size", "must not be negative")
	}
	return nil
}

func applyFoodRequest(food *models.FoodItem, req *types.FoodRequest) {
	food.Name = req.Name
	food.Brand = req.Brand
	food.Barcode = req.Barcode
	food.ServingSize = req.ServingSize
	food.ServingUnit = req.ServingUnit
	food.Calories = req.Calories
	food.ProteinG = req.ProteinG
	food.CarbsG = req.CarbsG
	food.FatG = req.FatG
}

// CreateFood adds a food owned by the user.
func (s *FoodService) CreateFood(ctx context.Context, userID uuid.UUID, req *types.FoodRequest) (*models.FoodItem, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := validateFoodRequest(req); err != nil {
		return nil, err
	}
	owner := userID
	food := &models.FoodItem{UserID: &owner, Source: models.FoodSourceManual}
	applyFoodRequest(food, req)
	if err := s.db.WithContext(ctx).Create(food).Error; err != nil {
		return nil, storageErr("save food", err)
	}
	return food, nil
}

// UpdateFood edits a food. The user's own items change in place. Editing a
// verified item creates, or updates, the user's personal fork of it and points
// the user's meals at the fork.
func (s *FoodService) UpdateFood(ctx context.Context, userID, foodID uuid.UUID, req *types.FoodRequest) (*models.FoodItem, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := validateFoodRequest(req); err != nil {
		return nil, err
	}

	var result models.FoodItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var food models.FoodItem
		if err := visibleTo(tx, userID).First(&food, "id = ?", foodID).Error; err != nil {
			return err
		}

		if food.OwnedBy(userID) {
			applyFoodRequest(&food, req)
			if err := tx.Save(&food).Error; err != nil {
				return err
			}
			result = food
			return nil
		}

		var fork models.FoodItem
		err := tx.Where("user_id = ? AND base_food_item_id = ?", userID, food.ID).First(&fork).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			owner, base := userID, food.ID
			fork = models.FoodItem{UserID: &owner, BaseFoodItemID: &base, Source: models.FoodSourceManual}
		}
		applyFoodRequest(&fork, req)
		if err := tx.Save(&fork).Error; err != nil {
			return err
		}
		if err := repointMealFoods(tx, userID, food.ID, fork.ID); err != nil {
			return err
		}
		result = fork
		return nil
	})
	if err != nil {
		return nil, storageErr("update food", err)
	}
	return &result, nil
}

// repointMealFoods switches the user's meal foods from one item to another.
func repointMealFoods(tx *gorm.DB, userID, from, to uuid.UUID) error {
	userMeals := tx.Model(&models.Meal{}).Select("id").Where("user_id = ?", userID)
	return tx.Model(&models.MealFood{}).
		Where("food_item_id = ? AND meal_id IN (?)", from, userMeals).
		Update("food_item_id", to).Error
}

// ResetFood drops the user's fork of a verified item and returns the original.
// foodID may name either the fork or the verified item.
func (s *FoodService) ResetFood(ctx context.Context, userID, foodID uuid.UUID) (*models.FoodItem, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var base models.FoodItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var fork models.FoodItem
		err := tx.Where("user_id = ? AND base_food_item_id IS NOT NULL AND (id = ? OR base_food_item_id = ?)", userID, foodID, foodID).
			First(&fork).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalid("id", "has no personal version to reset")
		}
		if err != nil {
			return err
		}
		if err := tx.First(&base, "id = ?", *fork.BaseFoodItemID).Error; err != nil {
			return err
		}
		if err := repointMealFoods(tx, userID, fork.ID, base.ID); err != nil {
			return err
		}
		if err := repointTemplates(tx, userID, fork.ID, &base); err != nil {
			return err
		}
		return tx.Delete(&fork).Error
	})
	if err != nil {
		return nil, storageErr("reset food", err)
	}
	return &base, nil
}

// DeleteFood removes one of the user's own foods. A fork is reset instead; a
// food still used in a meal cannot be deleted.
func (s *FoodService) DeleteFood(ctx context.Context, userID, foodID uuid.UUID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	db := s.db.WithContext(ctx)
	var food models.FoodItem
	if err := db.First(&food, "id = ? AND user_id = ?", foodID, userID).Error; err != nil {
		return storageErr("delete food", err)
	}
	if food.BaseFoodItemID != nil {
		_, err := s.ResetFood(ctx, userID, food.ID)
		return err
	}

	var uses int64
	if err := db.Model(&models.MealFood{}).Where("food_item_id = ?", food.ID).Count(&uses).Error; err != nil {
		return storageErr("delete food", err)
	}
	if uses > 0 {
		return invalid("id", "is used in a meal")
	}
	if err := db.Delete(&food).Error; err != nil {
		return storageErr("delete food", err)
	}
	return nil
}

// SearchExternal queries the public food database. It is best effort: any
// failure yields an empty list.
func (s *FoodService) SearchExternal(ctx context.Context, query string) []types.ExternalFood {
	query = strings.TrimSpace(query)
	if s.external == nil || query == "" {
		return []types.ExternalFood{}
	}
	results, err := s.external.Search(ctx, query, externalFoodsLimit)
	if err != nil {
		log.Printf("[FoodFacts] search %q failed: %v", query, err)
		return []types.ExternalFood{}
	}
	return results
}

// ImportExternal saves a public database product as the user's food. A
// product given only by barcode is looked up first; a barcode the user already
// has returns the existing item.
func (s *FoodService) ImportExternal(ctx context.Context, userID uuid.UUID, product *types.ExternalFood) (*models.FoodItem, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	product.Barcode = strings.TrimSpace(product.Barcode)
	db := s.db.WithContext(ctx)

	if product.Barcode != "" {
		var existing models.FoodItem
		err := db.Where("user_id = ? AND barcode = ?", userID, product.Barcode).First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storageErr("import food", err)
		}
	}

	if strings.TrimSpace(product.Name) == "" && product.Barcode != "" && s.external != nil {
		found, err := s.external.Lookup(ctx, product.Barcode)
		if err != nil {
			log.Printf("[FoodFacts] lookup %s failed: %v", product.Barcode, err)
		} else if found != nil {
			*product = *found
		}
	}

	req := &types.FoodRequest{
		Name:        product.Name,
		Brand:       product.Brand,
		Barcode:     product.Barcode,
		ServingSize: 100,
		ServingUnit: "g",
		Calories:    product.Calories,
		ProteinG:    product.ProteinG,
		CarbsG:      product.CarbsG,
		FatG:        product.FatG,
	}
	if err := validateFoodRequest(req); err != nil {
		return nil, err
	}
	owner := userID
	food := &models.FoodItem{UserID: &owner, Source: models.FoodSourceOpenFoodFacts}
	applyFoodRequest(food, req)
	if err := db.Create(food).Error; err != nil {
		return nil, storageErr("import food", err)
	}
	return food, nil
}
