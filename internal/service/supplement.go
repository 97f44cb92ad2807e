package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/ordering"
	"github.com/pageza/nutriplan/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SupplementStatus is a supplement with its taken flag for one day.
type SupplementStatus struct {
	models.Supplement
	Taken bool `json:"taken"`
}

type SupplementService struct {
	db       *gorm.DB
	notifier Notifier
}

var _ ISupplementService = (*SupplementService)(nil)

func NewSupplementService(db *gorm.DB, notifier Notifier) *SupplementService {
	return &SupplementService{db: db, notifier: notifierOrNop(notifier)}
}

func (s *SupplementService) group(userID uuid.UUID) siblings {
	return siblings{
		action: "reorder supplements",
		model:  &models.Supplement{},
		load: func(db *gorm.DB) ([]uuid.UUID, error) {
			var ids []uuid.UUID
			err := db.Model(&models.Supplement{}).
				Where("user_id = ?", userID).
				Order("order_index ASC, created_at ASC").
				Pluck("id", &ids).Error
			return ids, err
		},
	}
}

func (s *SupplementService) List(ctx context.Context, userID uuid.UUID) ([]models.Supplement, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var supplements []models.Supplement
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("order_index ASC, created_at ASC").
		Find(&supplements).Error
	if err != nil {
		return nil, storageErr("load supplements", err)
	}
	return supplements, nil
}

// Create adds an active supplement at the end of the list.
func (s *SupplementService) Create(ctx context.Context, userID uuid.UUID, req *types.SupplementRequest) (*models.Supplement, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	supplement := &models.Supplement{
		UserID: userID,
		Name:   name,
		Dosage: strings.TrimSpace(req.Dosage),
		Unit:   strings.TrimSpace(req.Unit),
		Active: req.Active == nil || *req.Active,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		idx, err := nextOrderIndex(tx, &models.Supplement{}, "user_id = ?", userID)
		if err != nil {
			return err
		}
		supplement.OrderIndex = idx
		return tx.Create(supplement).Error
	})
	if err != nil {
		return nil, storageErr("save supplement", err)
	}
	return supplement, nil
}

func (s *SupplementService) owned(db *gorm.DB, userID, id uuid.UUID, action string) (*models.Supplement, error) {
	var supplement models.Supplement
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&supplement).Error; err != nil {
		return nil, storageErr(action, err)
	}
	return &supplement, nil
}

func (s *SupplementService) Update(ctx context.Context, userID, id uuid.UUID, req *types.SupplementRequest) (*models.Supplement, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	db := s.db.WithContext(ctx)
	supplement, err := s.owned(db, userID, id, "update supplement")
	if err != nil {
		return nil, err
	}
	supplement.Name = name
	supplement.Dosage = strings.TrimSpace(req.Dosage)
	supplement.Unit = strings.TrimSpace(req.Unit)
	if req.Active != nil {
		supplement.Active = *req.Active
	}
	if err := db.Save(supplement).Error; err != nil {
		return nil, storageErr("update supplement", err)
	}
	return supplement, nil
}

// Delete removes a supplement and its history.
func (s *SupplementService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		supplement, err := s.owned(tx, userID, id, "delete supplement")
		if err != nil {
			return err
		}
		if err := tx.Where("supplement_id = ?", supplement.ID).Delete(&models.SupplementLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(supplement).Error
	})
	if err != nil {
		return storageErr("delete supplement", err)
	}
	return nil
}

// Reorder stores a new order for the user's supplements.
func (s *SupplementService) Reorder(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return reorder(ctx, s.db, s.group(userID), ids)
}

// Move drops one supplement onto another.
func (s *SupplementService) Move(ctx context.Context, userID uuid.UUID, req *types.MoveRequest) (*MoveResult, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	scope := ordering.Scope{Kind: ordering.ScopeSupplements, Key: userID.String()}
	return move(ctx, s.db, s.group(userID), scope, scope, req.ActiveID, req.OverID)
}

// SetTaken records whether a supplement was taken on a date.
func (s *SupplementService) SetTaken(ctx context.Context, userID, id uuid.UUID, date types.Date, taken bool) (*models.SupplementLog, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, invalid("date", "is required")
	}
	db := s.db.WithContext(ctx)
	supplement, err := s.owned(db, userID, id, "update supplement")
	if err != nil {
		return nil, err
	}

	entry := &models.SupplementLog{UserID: userID, SupplementID: supplement.ID, Date: date, Taken: taken}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "supplement_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"taken": taken, "updated_at": time.Now()}),
	}).Create(entry).Error
	if err != nil {
		return nil, storageErr("update supplement", err)
	}
	var stored models.SupplementLog
	if err := db.Where("supplement_id = ? AND date = ?", supplement.ID, date).First(&stored).Error; err != nil {
		return nil, storageErr("update supplement", err)
	}
	s.notifier.DayChanged(userID, date)
	return &stored, nil
}

// ForDate lists the active supplements with their taken flag on date.
func (s *SupplementService) ForDate(ctx context.Context, userID uuid.UUID, date types.Date) ([]SupplementStatus, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	var supplements []models.Supplement
	err := db.Where("user_id = ? AND active = ?", userID, true).
		Order("order_index ASC, created_at ASC").
		Find(&supplements).Error
	if err != nil {
		return nil, storageErr("load supplements", err)
	}

	var logs []models.SupplementLog
	if err := db.Where("user_id = ? AND date = ?", userID, date).Find(&logs).Error; err != nil {
		return nil, storageErr("load supplements", err)
	}
	taken := make(map[uuid.UUID]bool, len(logs))
	for _, l := range logs {
		taken[l.SupplementID] = l.Taken
	}

	out := make([]SupplementStatus, 0, len(supplements))
	for _, sup := range supplements {
		out = append(out, SupplementStatus{Supplement: sup, Taken: taken[sup.ID]})
	}
	return out, nil
}
