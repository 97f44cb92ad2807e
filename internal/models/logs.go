package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/types"
	"gorm.io/gorm"
)

// WaterLog is one drink.
type WaterLog struct {
	ID        uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:varchar(36);not null;index:idx_water_user_date,priority:1" json:"user_id"`
	Date      types.Date `gorm:"type:date;not null;index:idx_water_user_date,priority:2" json:"date"`
	AmountML  int        `gorm:"not null" json:"amount_ml"`
	LoggedAt  time.Time  `gorm:"not null" json:"logged_at"`
	CreatedAt time.Time  `json:"created_at"`
}

func (w *WaterLog) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.LoggedAt.IsZero() {
		w.LoggedAt = time.Now()
	}
	return nil
}

type Supplement struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID     uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Dosage     string    `gorm:"size:50" json:"dosage"`
	Unit       string    `gorm:"size:20" json:"unit"`
	Active     bool      `gorm:"not null" json:"active"`
	OrderIndex int       `gorm:"not null" json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (s *Supplement) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SupplementLog records whether a supplement was taken on a date. There is at
// most one row per supplement and date.
type SupplementLog struct {
	ID           uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"user_id"`
	SupplementID uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex:idx_supplement_day,priority:1" json:"supplement_id"`
	Date         types.Date `gorm:"type:date;not null;uniqueIndex:idx_supplement_day,priority:2" json:"date"`
	Taken        bool       `gorm:"not null" json:"taken"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (l *SupplementLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// WeightLog is a body-weight progress entry with an optional photo in object storage.
type WeightLog struct {
	ID        uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:varchar(36);not null;index:idx_weight_user_date,priority:1" json:"user_id"`
	Date      types.Date `gorm:"type:date;not null;index:idx_weight_user_date,priority:2" json:"date"`
	WeightKg  float64    `gorm:"not null" json:"weight_kg"`
	Note      string     `gorm:"type:text" json:"note,omitempty"`
	PhotoKey  string     `gorm:"size:255" json:"-"`
	HasPhoto  bool       `gorm:"-" json:"has_photo"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (w *WeightLog) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

func (w *WeightLog) AfterFind(tx *gorm.DB) error {
	w.HasPhoto = w.PhotoKey != ""
	return nil
}
