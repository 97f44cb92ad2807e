package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/types"
	"gorm.io/gorm"
)

const (
	// MaxPhotoBytes caps a progress photo upload.
	MaxPhotoBytes = 5 << 20
	photoURLTTL   = 15 * time.Minute
)

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// PhotoStore is the object storage behind progress photos.
type PhotoStore interface {
	Upload(ctx context.Context, objectKey, contentType string, body []byte) error
	Delete(ctx context.Context, objectKey string) error
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}

// ProgressService tracks body weight and progress photos.
type ProgressService struct {
	db     *gorm.DB
	photos PhotoStore
}

var _ IProgressService = (*ProgressService)(nil)

// NewProgressService creates a ProgressService. photos may be nil, in which
// case photo uploads are rejected.
func NewProgressService(db *gorm.DB, photos PhotoStore) *ProgressService {
	return &ProgressService{db: db, photos: photos}
}

func (s *ProgressService) AddWeight(ctx context.Context, userID uuid.UUID, req *types.WeightLogRequest) (*models.WeightLog, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	switch {
	case req.Date.IsZero():
		return nil, invalid("date", "is required")
	case req.WeightKg <= 0:
		return nil, invalid("weight_kg", "must be positive")
	}
	entry := &models.WeightLog{
		UserID:   userID,
		Date:     req.Date,
		WeightKg: req.WeightKg,
		Note:     strings.TrimSpace(req.Note),
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, storageErr("save weight", err)
	}
	return entry, nil
}

// ListWeights returns entries oldest first. Zero bounds are open.
func (s *ProgressService) ListWeights(ctx context.Context, userID uuid.UUID, from, to types.Date) ([]models.WeightLog, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from.Time) {
		return nil, invalid("to", "must not be before from")
	}
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if !from.IsZero() {
		q = q.Where("date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("date <= ?", to)
	}
	var logs []models.WeightLog
	if err := q.Order("date ASC, created_at ASC").Find(&logs).Error; err != nil {
		return nil, storageErr("load weights", err)
	}
	return logs, nil
}

// LatestWeight returns the most recent entry, or nil when there is none.
func (s *ProgressService) LatestWeight(ctx context.Context, userID uuid.UUID) (*models.WeightLog, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var logs []models.WeightLog
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Limit(1).
		Find(&logs).Error
	if err != nil {
		return nil, storageErr("load weights", err)
	}
	if len(logs) == 0 {
		return nil, nil
	}
	return &logs[0], nil
}

func (s *ProgressService) owned(db *gorm.DB, userID, id uuid.UUID, action string) (*models.WeightLog, error) {
	var entry models.WeightLog
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
		return nil, storageErr(action, err)
	}
	return &entry, nil
}

// DeleteWeight removes an entry and, best effort, its photo.
func (s *ProgressService) DeleteWeight(ctx context.Context, userID, id uuid.UUID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	db := s.db.WithContext(ctx)
	entry, err := s.owned(db, userID, id, "delete weight")
	if err != nil {
		return err
	}
	if err := db.Delete(entry).Error; err != nil {
		return storageErr("delete weight", err)
	}
	if entry.PhotoKey != "" && s.photos != nil {
		if err := s.photos.Delete(ctx, entry.PhotoKey); err != nil {
			log.Printf("[Progress] could not delete photo %s: %v", entry.PhotoKey, err)
		}
	}
	return nil
}

// AttachPhoto uploads a photo for an entry, replacing any previous one.
func (s *ProgressService) AttachPhoto(ctx context.Context, userID, id uuid.UUID, contentType string, body []byte) (*models.WeightLog, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if s.photos == nil {
		return nil, invalid("photo", "uploads are not configured")
	}
	ext, ok := photoExtensions[contentType]
	switch {
	case !ok:
		return nil, invalid("photo", "must be a JPEG, PNG or WebP image")
	case len(body) == 0:
		return nil, invalid("photo", "is empty")
	case len(body) > MaxPhotoBytes:
		return nil, invalid("photo", fmt.Sprintf("must not exceed %d bytes", MaxPhotoBytes))
	}

	db := s.db.WithContext(ctx)
	entry, err := s.owned(db, userID, id, "save photo")
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("progress/%s/%s%s", userID, entry.ID, ext)
	if err := s.photos.Upload(ctx, key, contentType, body); err != nil {
		return nil, storageErr("save photo", err)
	}
	previous := entry.PhotoKey
	entry.PhotoKey = key
	entry.HasPhoto = true
	if err := db.Model(entry).Update("photo_key", key).Error; err != nil {
		return nil, storageErr("save photo", err)
	}
	if previous != "" && previous != key {
		if err := s.photos.Delete(ctx, previous); err != nil {
			log.Printf("[Progress] could not delete photo %s: %v", previous, err)
		}
	}
	return entry, nil
}

// PhotoURL returns a short-lived download link for an entry's photo.
func (s *ProgressService) PhotoURL(ctx context.Context, userID, id uuid.UUID) (string, error) {
	if err := requireUser(userID); err != nil {
		return "", err
	}
	entry, err := s.owned(s.db.WithContext(ctx), userID, id, "load photo")
	if err != nil {
		return "", err
	}
	if entry.PhotoKey == "" || s.photos == nil {
		return "", notFound("load photo")
	}
	url, err := s.photos.GeneratePresignedURL(ctx, entry.PhotoKey, photoURLTTL)
	if err != nil {
		return "", storageErr("load photo", err)
	}
	return url, nil
}
