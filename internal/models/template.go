package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Template is a saved day or meal. Payload stores the body of the variant named
// by Kind.
type Template struct {
	ID        uuid.UUID          `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID          `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name      string             `gorm:"size:100;not null" json:"name"`
	Kind      types.TemplateKind `gorm:"size:10;not null;index" json:"kind"`
	Payload   datatypes.JSON     `gorm:"type:jsonb;not null" json:"-"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// SetPayload stores p and its kind.
func (t *Template) SetPayload(p types.TemplatePayload) error {
	body, err := p.Body()
	if err != nil {
		return err
	}
	t.Kind = p.Kind
	t.Payload = datatypes.JSON(body)
	return nil
}

// Decode returns the typed payload.
func (t *Template) Decode() (types.TemplatePayload, error) {
	return types.DecodeTemplatePayload(t.Kind, t.Payload)
}
