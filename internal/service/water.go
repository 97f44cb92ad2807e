package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/types"
	"gorm.io/gorm"
)

type WaterService struct {
	db       *gorm.DB
	notifier Notifier
}

var _ IWaterService = (*WaterService)(nil)

func NewWaterService(db *gorm.DB, notifier Notifier) *WaterService {
	return &WaterService{db: db, notifier: notifierOrNop(notifier)}
}

// Add logs a drink.
func (s *WaterService) Add(ctx context.Context, userID uuid.UUID, req *types.WaterRequest) (*models.WaterLog, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	switch {
	case req.Date.IsZero():
		return nil, invalid("date", "is required")
	case req.AmountML <= 0:
		return nil, invalid("amount_ml", "must be positive")
	}
	entry := &models.WaterLog{UserID: userID, Date: req.Date, AmountML: req.AmountML, LoggedAt: time.Now()}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, storageErr("save water", err)
	}
	s.notifier.DayChanged(userID, req.Date)
	return entry, nil
}

func (s *WaterService) List(ctx context.Context, userID uuid.UUID, date types.Date) ([]models.WaterLog, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var logs []models.WaterLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("logged_at ASC").
		Find(&logs).Error
	if err != nil {
		return nil, storageErr("load water", err)
	}
	return logs, nil
}

func (s *WaterService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	db := s.db.WithContext(ctx)
	var entry models.WaterLog
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
		return storageErr("delete water", err)
	}
	if err := db.Delete(&entry).Error; err != nil {
		return storageErr("delete water", err)
	}
	s.notifier.DayChanged(userID, entry.Date)
	return nil
}

// TotalML sums a list of logs.
func TotalML(logs []models.WaterLog) int {
	total := 0
	for _, l := range logs {
		total += l.AmountML
	}
	return total
}
