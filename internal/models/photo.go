package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PhotoFormat string

const (
	PhotoFormatSingle PhotoFormat = "single"
	PhotoFormatGroup  PhotoFormat = "group"
)

// ParsePhotoFormat returns false for anything but single or group.
func ParsePhotoFormat(value string) (PhotoFormat, bool) {
	switch f := PhotoFormat(value); f {
	case PhotoFormatSingle, PhotoFormatGroup:
		return f, true
	}
	return "", false
}

// PhotoWork is a portfolio entry: one image (single) or an ordered series (group).
type PhotoWork struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string      `gorm:"size:255;not null" json:"title"`
	Description string      `gorm:"size:4000;not null" json:"description"`
	Format      PhotoFormat `gorm:"size:16;not null" json:"format"`

	CreatedAt time.Time `json:"created_at"`

	Assets []PhotoAsset `gorm:"foreignKey:WorkID;constraint:OnDelete:CASCADE" json:"assets,omitempty"`
}

func (w *PhotoWork) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// PhotoAsset is one stored image of a work. OrderIndex is unique per work
// and defines display order.
type PhotoAsset struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_photo_assets_work_order" json:"work_id"`
	ObjectKey  string    `gorm:"size:512;not null" json:"object_key"`
	OrderIndex int       `gorm:"not null;uniqueIndex:idx_photo_assets_work_order" json:"order_index"`
	MimeType   string    `gorm:"size:120;not null" json:"mime_type"`

	CreatedAt time.Time `json:"created_at"`

	Work *PhotoWork `gorm:"foreignKey:WorkID;constraint:OnDelete:CASCADE" json:"-"`
}

func (a *PhotoAsset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
